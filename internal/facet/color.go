package facet

import "strings"

// colorFamilies maps near-duplicate spellings onto one canonical label.
// Matching is substring-based so declensions ("золотой", "золота") and
// mixed-language values collapse together. Order matters: first family whose
// marker appears in the value wins.
var colorFamilies = []struct {
	label   string
	markers []string
}{
	{"Gold", []string{"gold", "золот"}},
	{"Silver", []string{"silver", "серебр"}},
	{"White", []string{"white", "бел"}},
	{"Black", []string{"black", "черн", "чёрн"}},
}

var colorQualifiers = []struct {
	label   string
	markers []string
}{
	{"Matte", []string{"matte", "мат"}},
	{"Glossy", []string{"glossy", "глянц"}},
}

// normalizeColor maps a raw color value onto a canonical family label and an
// optional finish qualifier. ok is false when the value belongs to no known
// family and should be kept as-is.
func normalizeColor(raw string) (family, qualifier string, ok bool) {
	lowered := strings.ToLower(raw)
	for _, f := range colorFamilies {
		if !containsAny(lowered, f.markers) {
			continue
		}
		for _, q := range colorQualifiers {
			if containsAny(lowered, q.markers) {
				return f.label, q.label, true
			}
		}
		return f.label, "", true
	}
	return "", "", false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
