// Package slug derives human-readable job identifiers from property
// addresses.
package slug

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds the address portion of a job ID.
const MaxSlugLength = 40

// Slugify turns free text into a lowercase, hyphen-separated slug,
// stripping accents and anything that is not alphanumeric. Text that
// yields an empty slug falls back to "order".
func Slugify(text string, maxLength int) string {
	// Decompose accented characters and drop the combining marks.
	decomposed := norm.NFKD.String(text)
	var b strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) || r > unicode.MaxASCII {
			continue
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(' ')
		}
	}

	parts := strings.Fields(b.String())
	s := strings.Join(parts, "-")
	if len(s) > maxLength {
		s = s[:maxLength]
		s = strings.TrimRight(s, "-")
	}
	if s == "" {
		return "order"
	}
	return s
}

// JobID builds a job identifier from an address slug and a suffix.
func JobID(address, suffix string) string {
	return Slugify(address, MaxSlugLength) + "-" + suffix
}

// NewJobID builds a job identifier with a random 6-hex suffix. The
// slug keeps IDs readable; the suffix keeps repeat orders for the same
// address distinct.
func NewJobID(address string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return JobID(address, suffix)
}
