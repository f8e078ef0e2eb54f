// Package source adapts the remote pricing APIs into normalized items.
package source

import (
	"context"

	"poe2/pickit/internal/client"
	"poe2/pickit/internal/config"
	"poe2/pickit/internal/domain"
)

// Document is a decoded upstream response. Its concrete type depends on the source.
type Document any

// Source is one remote pricing API.
type Source interface {
	Type() domain.SourceType
	Name() string
	// Categories lists every known category in catalog order.
	Categories() []domain.SourceCategory
	// Plan returns the categories to fetch for a selection, mandatory ones first.
	Plan(selected []string) []domain.SourceCategory
	// RequiresReference reports whether the first category must carry the reference value.
	RequiresReference() bool
	Fetch(ctx context.Context, url string) (Document, error)
	// ResolveReference extracts the conversion unit; false when it is absent.
	ResolveReference(doc Document) (float64, bool)
	Normalize(doc Document, reference, minValue float64) ([]domain.NormalizedItem, error)
	Format(item domain.NormalizedItem) string
	SectionName(url string) string
}

// NewSources builds the configured sources in processing order.
func NewSources(cfg config.UpstreamConfig, fetcher client.Fetcher) []Source {
	return []Source{
		NewNinjaSource(cfg, fetcher),
		NewScoutSource(cfg, fetcher),
	}
}

// catalog is the fixed category table shared by both sources.
type catalog struct {
	categories []domain.SourceCategory
	byID       map[string]domain.SourceCategory
}

func newCatalog(categories []domain.SourceCategory) catalog {
	byID := make(map[string]domain.SourceCategory, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return catalog{categories: categories, byID: byID}
}

func (c catalog) Categories() []domain.SourceCategory {
	out := make([]domain.SourceCategory, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c catalog) Plan(selected []string) []domain.SourceCategory {
	plan := make([]domain.SourceCategory, 0, len(selected)+1)
	seen := make(map[string]bool, len(selected)+1)

	for _, cat := range c.categories {
		if cat.Mandatory {
			plan = append(plan, cat)
			seen[cat.ID] = true
		}
	}

	for _, id := range selected {
		cat, ok := c.byID[id]
		if !ok || seen[id] {
			continue
		}
		plan = append(plan, cat)
		seen[id] = true
	}

	return plan
}

// CategoryInfos converts a source's categories to the listing shape.
func CategoryInfos(s Source) []domain.CategoryInfo {
	cats := s.Categories()
	infos := make([]domain.CategoryInfo, 0, len(cats))
	for _, c := range cats {
		infos = append(infos, domain.CategoryInfo{ID: c.ID, Name: c.ID, Required: c.Mandatory})
	}
	return infos
}
