package domain

// SourceCategory is one fetchable endpoint of a remote source.
type SourceCategory struct {
	ID        string `json:"id"`       // Display identifier, e.g. "Uncut Gems"
	URL       string `json:"-"`        // Fully built address
	Mandatory bool   `json:"required"` // Always fetched, carries the reference value
}

// CategoryInfo is the listing shape served to the form.
type CategoryInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Required bool   `json:"required"`
}
