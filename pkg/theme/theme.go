// Package theme holds the fixed, ordered catalog of slide palettes.
//
// The catalog is process-wide constant data: there is no registration or
// mutation path. Callers index it by position with [At], which wraps around
// the five entries, or by name with [ByName].
package theme

import "strings"

// Theme is an immutable palette. Colors are 6-digit hex RGB without a leading '#'.
type Theme struct {
	Name       string `json:"name"`
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
	LightText  string `json:"lightText"`
}

// Gradient returns the two-stop fill used by gradient backgrounds, primary to secondary.
func (t Theme) Gradient() [2]string {
	return [2]string{t.Primary, t.Secondary}
}

var catalog = [...]Theme{
	{Name: "Ocean Blue", Primary: "1E40AF", Secondary: "3B82F6", Accent: "60A5FA", Background: "FFFFFF", Text: "1F2937", LightText: "6B7280"},
	{Name: "Sunset Glow", Primary: "DC2626", Secondary: "F59E0B", Accent: "FBBF24", Background: "FFFFFF", Text: "1F2937", LightText: "6B7280"},
	{Name: "Forest Green", Primary: "059669", Secondary: "10B981", Accent: "34D399", Background: "FFFFFF", Text: "1F2937", LightText: "6B7280"},
	{Name: "Purple Elegance", Primary: "7C3AED", Secondary: "A78BFA", Accent: "C4B5FD", Background: "FFFFFF", Text: "1F2937", LightText: "6B7280"},
	{Name: "Modern Dark", Primary: "1F2937", Secondary: "4B5563", Accent: "3B82F6", Background: "F9FAFB", Text: "111827", LightText: "6B7280"},
}

// Count is the number of themes in the catalog.
const Count = len(catalog)

// At returns the theme at position i, reduced modulo Count.
// Negative positions are folded into range as well.
func At(i int) Theme {
	i %= Count
	if i < 0 {
		i += Count
	}
	return catalog[i]
}

// All returns a copy of the catalog in order.
func All() []Theme {
	out := make([]Theme, Count)
	copy(out, catalog[:])
	return out
}

// ByName looks up a theme by case-insensitive name. Dashes and underscores
// match spaces, so "ocean-blue" finds "Ocean Blue".
func ByName(name string) (Theme, bool) {
	want := normalize(name)
	for _, t := range catalog {
		if normalize(t.Name) == want {
			return t, true
		}
	}
	return Theme{}, false
}

// Index returns the catalog position of the named theme, or -1.
func Index(name string) int {
	want := normalize(name)
	for i, t := range catalog {
		if normalize(t.Name) == want {
			return i
		}
	}
	return -1
}

// Names returns the theme names in catalog order.
func Names() []string {
	out := make([]string, Count)
	for i, t := range catalog {
		out[i] = t.Name
	}
	return out
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", " ", "_", " ").Replace(s)
}
