package types

import "strings"

// Style is a canonical staging style tag.
type Style string

// The six client-facing staging styles offered on the order form.
const (
	StyleModern     Style = "modern"
	StyleScandi     Style = "scandinavian"
	StyleCoastal    Style = "coastal"
	StyleFarmhouse  Style = "farmhouse"
	StyleMidCentury Style = "midcentury"
	StyleArchDigest Style = "architecture_digest"
)

var styleDisplayNames = map[Style]string{
	StyleModern:     "Modern",
	StyleScandi:     "Scandinavian",
	StyleCoastal:    "Coastal",
	StyleFarmhouse:  "Modern Farmhouse",
	StyleMidCentury: "Mid-Century Modern",
	StyleArchDigest: "Architecture Digest",
}

// DisplayName returns the human-readable name used in delivery emails.
func (s Style) DisplayName() string {
	if name, ok := styleDisplayNames[s]; ok {
		return name
	}
	return "Modern"
}

func normalizeStyleKey(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(cleaned)
}

// ResolveStyle maps a free-text style choice from the intake form to a
// canonical style. Matching is case-insensitive and tolerant of the
// display-name variants the form uses ("Mid-Century Modern" resolves
// to midcentury). Unknown or empty input resolves to modern.
func ResolveStyle(raw string) Style {
	cleaned := normalizeStyleKey(raw)
	if cleaned == "" {
		return StyleModern
	}

	candidates := []Style{
		StyleModern, StyleScandi, StyleCoastal,
		StyleFarmhouse, StyleMidCentury, StyleArchDigest,
	}
	for _, c := range candidates {
		if cleaned == normalizeStyleKey(string(c)) {
			return c
		}
	}
	// Display-name variants resolve before prefix matching so that
	// "modern farmhouse" is not swallowed by "modern".
	switch {
	case strings.Contains(cleaned, "midcentury"):
		return StyleMidCentury
	case strings.Contains(cleaned, "farmhouse"):
		return StyleFarmhouse
	case strings.Contains(cleaned, "scandi"):
		return StyleScandi
	case strings.Contains(cleaned, "digest"):
		return StyleArchDigest
	}
	for _, c := range candidates {
		key := normalizeStyleKey(string(c))
		if strings.HasPrefix(cleaned, key) || strings.HasPrefix(key, cleaned) {
			return c
		}
	}
	return StyleModern
}
