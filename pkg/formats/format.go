package formats

import (
	"regexp"
	"strings"
)

// Format is a course delivery mode that editors pick from when authoring a
// course. Value is the slug stored on courses; Label is shown to people.
type Format struct {
	ID    string `json:"id,omitempty"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// whitespaceRE covers every rune unicode.IsSpace accepts. RE2's \s alone is
// ASCII only and skips \v.
var whitespaceRE = regexp.MustCompile(`[\s\v\p{Z}\x{85}]+`)

// Defaults is used whenever the stored settings don't provide any formats.
func Defaults() []Format {
	return []Format{
		{Value: "online", Label: "Online"},
		{Value: "in-person", Label: "In Person"},
		{Value: "hybrid", Label: "Hybrid"},
		{Value: "self-paced", Label: "Self Paced"},
	}
}

// Slugify lowercases label and collapses every whitespace run into a single
// hyphen. Punctuation is kept as-is, so "In-Person" and "In Person" share a
// slug while "In_Person" does not.
func Slugify(label string) string {
	return whitespaceRE.ReplaceAllString(strings.ToLower(label), "-")
}

// Validate reports whether candidate can be added to formats: neither the
// slugified candidate nor the candidate itself may match an existing value or
// label, ignoring case.
func Validate(formats []Format, candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	slug := Slugify(candidate)
	for _, f := range formats {
		if strings.EqualFold(f.Value, slug) || strings.EqualFold(f.Label, candidate) {
			return false
		}
	}
	return true
}

// New builds a format from a human-readable label.
func New(label string) Format {
	label = strings.TrimSpace(label)
	return Format{
		Value: Slugify(label),
		Label: label,
	}
}
