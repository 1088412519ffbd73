package unlock

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectOS(t *testing.T) {
	tests := []struct {
		ua   string
		want OS
	}{
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36", OSAndroid},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", OSIOS},
		{"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", OSIOS},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64)", OSDesktop},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0)", OSDesktop},
		{"Mozilla/5.0 (X11; Ubuntu; Linux x86_64)", OSDesktop},
		{"curl/8.4.0", OSUnknown},
		{"", OSUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.ua, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectOS(tt.ua))
		})
	}
}

func withURLs(offers []Offer) []Offer {
	for i := range offers {
		offers[i].URL = "https://offers.example.com/" + offers[i].ID
	}
	return offers
}

func fixedIntn(v int) func(int) int {
	return func(n int) int { return v % n }
}

func TestCatalog_DropsOffersWithoutURL(t *testing.T) {
	c := NewCatalog(DefaultOffers(), nil)
	assert.Empty(t, c.Offers())

	_, ok := c.Pick(OSAndroid)
	assert.False(t, ok)
}

func TestCatalog_PickWeighted(t *testing.T) {
	// iOS candidates are ios_1 (weight 3) then desk_ios_1 (weight 1).
	c := NewCatalog(withURLs(DefaultOffers()), fixedIntn(2))
	o, ok := c.Pick(OSIOS)
	require.True(t, ok)
	assert.Equal(t, "ios_1", o.ID)

	c = NewCatalog(withURLs(DefaultOffers()), fixedIntn(3))
	o, ok = c.Pick(OSIOS)
	require.True(t, ok)
	assert.Equal(t, "desk_ios_1", o.ID)
}

func TestCatalog_FallsBackToDesktop(t *testing.T) {
	c := NewCatalog(withURLs(DefaultOffers()), fixedIntn(0))
	o, ok := c.Pick(OSUnknown)
	require.True(t, ok)
	assert.Contains(t, o.Allowed, OSDesktop)

	androidOnly := []Offer{{ID: "desk", URL: "https://x.example.com", Allowed: []OS{OSDesktop}}}
	o, ok = NewCatalog(androidOnly, nil).Pick(OSAndroid)
	require.True(t, ok)
	assert.Equal(t, "desk", o.ID)
}

func TestCatalog_ZeroWeightCountsAsOne(t *testing.T) {
	offers := []Offer{
		{ID: "a", URL: "https://a.example.com", Allowed: []OS{OSDesktop}, Weight: 0},
		{ID: "b", URL: "https://b.example.com", Allowed: []OS{OSDesktop}, Weight: -4},
	}
	var total int
	c := NewCatalog(offers, func(n int) int { total = n; return 1 })

	o, ok := c.Pick(OSDesktop)
	require.True(t, ok)
	assert.Equal(t, 2, total)
	assert.Equal(t, "b", o.ID)
}

func TestOffer_URLFor(t *testing.T) {
	o := Offer{ID: "and_1", URL: "https://offers.example.com/go?aff=9"}
	got, err := o.URLFor("abc-123")
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", u.Query().Get("subid"))
	assert.Equal(t, "9", u.Query().Get("aff"))

	_, err = Offer{ID: "bad", URL: "://nope"}.URLFor("x")
	assert.Error(t, err)
}
