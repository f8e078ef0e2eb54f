package domain

// NormalizedItem is an item whose price is expressed in the common unit.
type NormalizedItem struct {
	ID    string  `json:"itemId"`
	Name  string  `json:"itemName"`
	Type  string  `json:"itemType,omitempty"` // Scout only
	Value float64 `json:"value"`
}

// ParsedItem binds a normalized item to its formatted output line.
type ParsedItem struct {
	NormalizedItem
	FormattedLine string `json:"formattedLine"`
}

type SectionResult struct {
	SectionName string       `json:"sectionName"`
	Results     []ParsedItem `json:"results"`
}

// ProcessedOutput is the result of one complete run.
type ProcessedOutput struct {
	RunID      string          `json:"runId"`
	Result     string          `json:"result"`
	Logs       []string        `json:"logs"`
	TotalItems int             `json:"totalItems"`
	Sections   []SectionResult `json:"sections"`

	// Downloadable is set once the document was kept for download under RunID.
	Downloadable bool `json:"-"`
}
