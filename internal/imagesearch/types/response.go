package types

// Image is the uniform search hit shape every provider normalizes to.
type Image struct {
	// URL is the best full-resolution image locator or, for providers
	// that only report a page, the source page link.
	URL string `json:"url"`
	// ThumbnailURL is what the UI renders. Always populated when the
	// provider supplies one.
	ThumbnailURL string `json:"thumbnailUrl"`
	// Alt defaults to the query text when the provider has no caption.
	Alt string `json:"alt"`
	// PinterestURL is the click-through destination (source page), empty
	// when unknown.
	PinterestURL string `json:"pinterestUrl"`
}

// SearchResponse represents a normalized image search response.
type SearchResponse struct {
	Query    string     `json:"query"`
	Images   []Image    `json:"images"`
	Took     int64      `json:"took"` // milliseconds
	Provider ProviderID `json:"provider"`
}
