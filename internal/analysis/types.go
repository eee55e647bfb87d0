package analysis

import "fmt"

// Axis is the lens used to derive a search query from an analysis result.
type Axis string

const (
	AxisColor   Axis = "color"
	AxisTexture Axis = "texture"
	AxisTone    Axis = "tone"
	AxisLayout  Axis = "layout"
)

// ParseAxis validates a raw axis value from a request.
func ParseAxis(s string) (Axis, error) {
	switch Axis(s) {
	case AxisColor, AxisTexture, AxisTone, AxisLayout:
		return Axis(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAxis, s)
}

// Color is a single extracted color. Heuristic extraction may populate
// only Hex.
type Color struct {
	Name string `json:"name,omitempty"`
	Hex  string `json:"hex,omitempty"`
	RGB  string `json:"rgb,omitempty"`
}

// Result is the normalized aesthetic description of an image.
//
// Raw always carries the analyzer's original wording, even when the
// structured fields parsed cleanly; downstream query building may need it
// when extraction was partial.
type Result struct {
	Colors       []Color  `json:"colors,omitempty"`
	Texture      string   `json:"texture,omitempty"`
	Style        string   `json:"style,omitempty"`
	Tone         string   `json:"tone,omitempty"`
	MoodKeywords []string `json:"moodKeywords,omitempty"`
	Layout       string   `json:"layout,omitempty"`
	Raw          string   `json:"raw,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Outcome classifies how far parsing got.
type Outcome string

const (
	// OutcomeStructured means the analyzer's own JSON block parsed cleanly.
	OutcomeStructured Outcome = "structured"
	// OutcomePartial means no JSON block was found and the heuristic
	// extractors produced at least one structured field.
	OutcomePartial Outcome = "partial"
	// OutcomeRawOnly means only the raw text survived.
	OutcomeRawOnly Outcome = "raw_only"
)
