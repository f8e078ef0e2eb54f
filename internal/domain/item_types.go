package domain

type SourceType string

func (s SourceType) String() string {
	return string(s)
}

const (
	SourceTypeNinja SourceType = "ninja" // poe.ninja economy overviews
	SourceTypeScout SourceType = "scout" // poe2scout unique items
)

var SourceTypes = []SourceType{
	SourceTypeNinja,
	SourceTypeScout,
}

func (s SourceType) GetSourceName() string {
	switch s {
	case SourceTypeNinja:
		return "Poe.Ninja"
	case SourceTypeScout:
		return "Scout"
	default:
		return "Unknown"
	}
}

// FormPrefix is the prefix of the checkbox names selecting categories of this source.
func (s SourceType) FormPrefix() string {
	return string(s) + "_"
}
