package domain

// NoSelectionMessage is reported when a run has nothing to generate.
const NoSelectionMessage = "Please select at least one category"

// StaticSelection is the set of subcategories chosen from one static category.
type StaticSelection struct {
	Category      string   `json:"category"`
	Subcategories []string `json:"subcategories"`
}

// RunOptions is the user supplied configuration of a single run.
type RunOptions struct {
	MinValue         float64           `json:"minValue"`
	MinValueCurrency float64           `json:"minValueCurrency"`
	NinjaCategories  []string          `json:"ninjaCategories"`
	ScoutCategories  []string          `json:"scoutCategories"`
	StaticCategories []StaticSelection `json:"staticCategories"`
	WaystoneTier     int               `json:"waystoneTier"`
}

// CategoriesFor returns the selected category ids of the given source.
func (o RunOptions) CategoriesFor(source SourceType) []string {
	switch source {
	case SourceTypeNinja:
		return o.NinjaCategories
	case SourceTypeScout:
		return o.ScoutCategories
	default:
		return nil
	}
}

// HasStatic reports whether any static category was selected.
func (o RunOptions) HasStatic() bool {
	return len(o.StaticCategories) > 0
}

// IsEmpty reports whether nothing at all was selected.
func (o RunOptions) IsEmpty() bool {
	return len(o.NinjaCategories) == 0 && len(o.ScoutCategories) == 0 && !o.HasStatic()
}

// Validate rejects a selection that has nothing to generate.
func (o RunOptions) Validate() error {
	if o.IsEmpty() {
		return &ValidationError{Reason: NoSelectionMessage}
	}
	return nil
}

// HasOtherContent reports whether anything besides the given source was selected.
func (o RunOptions) HasOtherContent(source SourceType) bool {
	for _, other := range SourceTypes {
		if other != source && len(o.CategoriesFor(other)) > 0 {
			return true
		}
	}
	return o.HasStatic()
}
