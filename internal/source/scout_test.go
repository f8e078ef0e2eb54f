package source

import (
	"encoding/json"
	"testing"

	"poe2/pickit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoutSource_Plan(t *testing.T) {
	s := NewScoutSource(testUpstreamConfig("https://poe2scout.com/"), nil)

	assert.Empty(t, s.Plan(nil))

	plan := s.Plan([]string{"Weapons", "Unknown"})
	require.Len(t, plan, 1)
	assert.Equal(t,
		"https://poe2scout.com/api/items/unique/weapon?page=1&perPage=250&league=Rise%20of%20the%20Abyssal&search=&referenceCurrency=exalted",
		plan[0].URL)
}

func TestScoutSource_ReferenceIsConstant(t *testing.T) {
	s := NewScoutSource(testUpstreamConfig(""), nil)

	ref, ok := s.ResolveReference(nil)
	assert.True(t, ok)
	assert.Equal(t, 1.0, ref)
	assert.False(t, s.RequiresReference())
}

func TestScoutSource_Normalize(t *testing.T) {
	s := NewScoutSource(testUpstreamConfig(""), nil)

	var doc domain.ScoutResponse
	require.NoError(t, json.Unmarshal([]byte(`{"items":[
		{"id":1,"name":"Headhunter","type":"Leather Belt","currentPrice":1500},
		{"id":2,"name":"","text":"Text Name","type":"","currentPrice":12.5},
		{"id":3,"type":"Ring","currentPrice":0.5},
		{"id":4,"currentPrice":1.0}
	]}`), &doc))

	items, err := s.Normalize(&doc, 1.0, 1.0)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, domain.NormalizedItem{ID: "1", Name: "Headhunter", Type: "Leather Belt", Value: 1500}, items[0])
	assert.Equal(t, domain.NormalizedItem{ID: "2", Name: "Text Name", Type: "Unknown", Value: 12.5}, items[1])
	assert.Equal(t, domain.NormalizedItem{ID: "4", Name: "Unknown", Type: "Unknown", Value: 1.0}, items[2])
}

func TestScoutSource_NormalizeStringIDs(t *testing.T) {
	s := NewScoutSource(testUpstreamConfig(""), nil)

	var doc domain.ScoutResponse
	require.NoError(t, json.Unmarshal([]byte(`{"items":[
		{"id":"mageblood-7","name":"Mageblood","type":"Heavy Belt","currentPrice":900},
		{"id":12,"name":"Astramentis","type":"Onyx Amulet","currentPrice":0.125}
	]}`), &doc))

	items, err := s.Normalize(&doc, 1.0, 0.1)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "mageblood-7", items[0].ID)
	assert.Equal(t, "12", items[1].ID)
	assert.Equal(t,
		`[Type] == "Onyx Amulet" && [Rarity] == "Unique" # [UniqueName] == "Astramentis" && [StashItem] == "true" // ExValue = 0.13`,
		s.Format(items[1]))
}

func TestScoutSource_NormalizeBelowThreshold(t *testing.T) {
	s := NewScoutSource(testUpstreamConfig(""), nil)

	doc := &domain.ScoutResponse{Items: []domain.ScoutItem{{ID: "9", Name: "Cheap", Type: "Ring", CurrentPrice: 0.5}}}
	items, err := s.Normalize(doc, 1.0, 1.0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestScoutSource_SectionName(t *testing.T) {
	s := NewScoutSource(testUpstreamConfig(""), nil)

	assert.Equal(t, "UNIQUE WEAPON", s.SectionName("https://poe2scout.com/api/items/unique/weapon?page=1"))
	assert.Equal(t, "UNIQUE ACCESSORY", s.SectionName("https://poe2scout.com/api/items/unique/accessory"))
	assert.Equal(t, "UNIQUE ITEMS", s.SectionName("https://poe2scout.com/api/items/currency"))
}

func TestCategoryInfos(t *testing.T) {
	infos := CategoryInfos(NewNinjaSource(testUpstreamConfig(""), nil))

	require.NotEmpty(t, infos)
	assert.Equal(t, domain.CategoryInfo{ID: "Currency", Name: "Currency", Required: true}, infos[0])
	assert.False(t, infos[1].Required)
}
