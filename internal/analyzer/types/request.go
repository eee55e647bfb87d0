package types

// Request carries one image to the analyzer.
type Request struct {
	ImageData []byte `json:"-"`
	MIMEType  string `json:"mime_type"`

	// Prompt overrides the default analysis prompt when non-empty.
	Prompt string `json:"prompt,omitempty"`
}

// Response is the raw analyzer output before parsing.
type Response struct {
	Text     string     `json:"text"`
	Model    string     `json:"model"`
	Took     int64      `json:"took"` // milliseconds
	Provider ProviderID `json:"provider"`
}

func (r *Request) Validate() error {
	if len(r.ImageData) == 0 {
		return ErrMissingImage
	}
	return nil
}
