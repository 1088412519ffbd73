package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want []ContactKind
	}{
		{"Celular: 555", []ContactKind{ContactPhone}},
		{"Teléfono 555", []ContactKind{ContactPhone}},
		{"Tel: 555-1234", []ContactKind{ContactPhone}},
		{"ana@example.com", []ContactKind{ContactEmail}},
		{"LINKEDIN: /in/ana", []ContactKind{ContactLinkedIn}},
		{"Ubicación: Bogotá", []ContactKind{ContactLocation}},
		{"Dirección: Calle 1", []ContactKind{ContactLocation}},
		{"Hotel California", []ContactKind{ContactUnclassified}},
		{"Celular 555 | ana@x.com", []ContactKind{ContactPhone, ContactEmail}},
		{"github.com/ana", []ContactKind{ContactUnclassified}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
}

func TestNormalizeContact_AllCategories(t *testing.T) {
	got := NormalizeContact([]string{
		"Ciudad: CDMX",
		"LinkedIn: linkedin.com/in/ana",
		"Email: ana@example.com",
		"Celular: 555",
	})

	assert.Equal(t, []string{
		"Celular: 555 | Email: ana@example.com",
		"Ciudad: CDMX | LinkedIn: linkedin.com/in/ana",
	}, got)
}

func TestNormalizeContact_PhoneOnly(t *testing.T) {
	got := NormalizeContact([]string{"Tel: 555-1234"})
	assert.Equal(t, []string{"Tel: 555-1234"}, got)
}

func TestNormalizeContact_FirstMatchWins(t *testing.T) {
	got := NormalizeContact([]string{"a@one.com", "b@two.com"})
	assert.Equal(t, []string{"a@one.com"}, got)
}

func TestNormalizeContact_LineClaimedTwice(t *testing.T) {
	got := NormalizeContact([]string{"Celular 555 / ana@x.com"})
	assert.Equal(t, []string{"Celular 555 / ana@x.com | Celular 555 / ana@x.com"}, got)
}

func TestNormalizeContact_Fallback(t *testing.T) {
	got := NormalizeContact([]string{"  - uno", "", "dos", "tres"})
	assert.Equal(t, []string{"uno", "dos"}, got)
}

func TestNormalizeContact_Empty(t *testing.T) {
	assert.Empty(t, NormalizeContact(nil))
	assert.Empty(t, NormalizeContact([]string{"", "   "}))
}

func TestNormalizeContact_AtMostTwoLines(t *testing.T) {
	inputs := [][]string{
		{"a", "b", "c", "d"},
		{"Celular 1", "x@y.z", "Ciudad", "linkedin", "otro"},
		{"Tel 1", "Ubicación X"},
	}
	for _, in := range inputs {
		assert.LessOrEqual(t, len(NormalizeContact(in)), 2)
	}
}
