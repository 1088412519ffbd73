package unlock

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"regexp"
	"slices"
)

// OS is the device family an offer targets.
type OS string

// Device families recognized by DetectOS.
const (
	OSAndroid OS = "android"
	OSIOS     OS = "ios"
	OSDesktop OS = "desktop"
	OSUnknown OS = "unknown"
)

var (
	androidRe = regexp.MustCompile(`(?i)android`)
	iosRe     = regexp.MustCompile(`(?i)iphone|ipad|ipod`)
	desktopRe = regexp.MustCompile(`(?i)windows|macintosh|x11|linux`)
)

// DetectOS classifies a User-Agent header. Android is checked before the
// desktop families because Android agents also mention Linux.
func DetectOS(userAgent string) OS {
	switch {
	case androidRe.MatchString(userAgent):
		return OSAndroid
	case iosRe.MatchString(userAgent):
		return OSIOS
	case desktopRe.MatchString(userAgent):
		return OSDesktop
	default:
		return OSUnknown
	}
}

// Offer is one CPA offer a visitor can complete to unlock exports.
type Offer struct {
	ID      string `json:"id" mapstructure:"id"`
	Network string `json:"network" mapstructure:"network"`
	Name    string `json:"name" mapstructure:"name"`
	URL     string `json:"url" mapstructure:"url"`
	Allowed []OS   `json:"allowed" mapstructure:"allowed"`
	Weight  int    `json:"weight" mapstructure:"weight"`
}

// Allows reports whether the offer can be shown on os.
func (o Offer) Allows(os OS) bool {
	return slices.Contains(o.Allowed, os)
}

// URLFor returns the offer link with trackingID attached as "subid", the
// parameter the network echoes back in its postback.
func (o Offer) URLFor(trackingID string) (string, error) {
	u, err := url.Parse(o.URL)
	if err != nil {
		return "", fmt.Errorf("invalid offer url for %s: %w", o.ID, err)
	}
	q := u.Query()
	q.Set("subid", trackingID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// DefaultOffers is the built-in rotation. URLs are empty until configured.
func DefaultOffers() []Offer {
	return []Offer{
		{ID: "and_1", Network: "cpagrip", Name: "Android Offer A", Allowed: []OS{OSAndroid}, Weight: 3},
		{ID: "ios_1", Network: "cpagrip", Name: "iOS Offer A", Allowed: []OS{OSIOS}, Weight: 3},
		{ID: "desk_1", Network: "cpagrip", Name: "Desktop Offer A", Allowed: []OS{OSDesktop}, Weight: 2},
		{ID: "desk_ios_1", Network: "cpagrip", Name: "Desktop + iOS Offer", Allowed: []OS{OSDesktop, OSIOS}, Weight: 1},
	}
}

// Catalog picks offers by weighted rotation.
type Catalog struct {
	offers []Offer
	intn   func(n int) int
}

// NewCatalog keeps the offers that have a URL. intn returns a value in
// [0, n); nil uses math/rand.
func NewCatalog(offers []Offer, intn func(n int) int) *Catalog {
	if intn == nil {
		intn = rand.IntN
	}
	kept := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if o.URL != "" {
			kept = append(kept, o)
		}
	}
	return &Catalog{offers: kept, intn: intn}
}

// Offers returns the usable offers.
func (c *Catalog) Offers() []Offer {
	return slices.Clone(c.offers)
}

// Pick chooses an offer allowed on os. When none is and os is not desktop,
// desktop offers are used instead.
func (c *Catalog) Pick(os OS) (Offer, bool) {
	candidates := c.allowedOn(os)
	if len(candidates) == 0 && os != OSDesktop {
		candidates = c.allowedOn(OSDesktop)
	}
	return c.weightedPick(candidates)
}

func (c *Catalog) allowedOn(os OS) []Offer {
	var out []Offer
	for _, o := range c.offers {
		if o.Allows(os) {
			out = append(out, o)
		}
	}
	return out
}

// weightedPick treats every weight below 1 as 1.
func (c *Catalog) weightedPick(items []Offer) (Offer, bool) {
	total := 0
	for _, it := range items {
		total += max(1, it.Weight)
	}
	if total == 0 {
		return Offer{}, false
	}

	n := c.intn(total)
	for _, it := range items {
		n -= max(1, it.Weight)
		if n < 0 {
			return it, true
		}
	}
	return items[len(items)-1], true
}
