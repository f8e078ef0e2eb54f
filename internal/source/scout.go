package source

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"poe2/pickit/internal/client"
	"poe2/pickit/internal/config"
	"poe2/pickit/internal/domain"
)

const (
	ScoutTemplate = `[Type] == "{type}" && [Rarity] == "Unique" # [UniqueName] == "{name}" && [StashItem] == "true" // ExValue = {value}`

	scoutUnknown        = "Unknown"
	scoutUnknownSection = "UNIQUE ITEMS"
	scoutPerPage        = 250
)

var uniqueSegmentRegex = regexp.MustCompile(`/unique/([^?]+)`)

var scoutSlugs = []struct{ id, slug string }{
	{"Accessories", "accessory"},
	{"Armour", "armour"},
	{"Jewels", "jewel"},
	{"Maps", "map"},
	{"Weapons", "weapon"},
	{"Sanctum", "sanctum"},
}

type scoutSource struct {
	catalog
	fetcher client.Fetcher
}

func NewScoutSource(cfg config.UpstreamConfig, fetcher client.Fetcher) Source {
	base := strings.TrimRight(cfg.ScoutBaseURL, "/")
	league := url.PathEscape(cfg.League)

	categories := make([]domain.SourceCategory, 0, len(scoutSlugs))
	for _, s := range scoutSlugs {
		address := fmt.Sprintf("%s/api/items/unique/%s?page=1&perPage=%d&league=%s&search=&referenceCurrency=exalted",
			base, s.slug, scoutPerPage, league)
		categories = append(categories, domain.SourceCategory{ID: s.id, URL: address})
	}

	return &scoutSource{
		catalog: newCatalog(categories),
		fetcher: fetcher,
	}
}

func (s *scoutSource) Type() domain.SourceType { return domain.SourceTypeScout }

func (s *scoutSource) Name() string { return domain.SourceTypeScout.GetSourceName() }

func (s *scoutSource) RequiresReference() bool { return false }

func (s *scoutSource) Fetch(ctx context.Context, url string) (Document, error) {
	var resp domain.ScoutResponse
	if err := s.fetcher.FetchJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResolveReference is constant: prices arrive already in exalted orbs.
func (s *scoutSource) ResolveReference(Document) (float64, bool) {
	return 1.0, true
}

func (s *scoutSource) Normalize(doc Document, _ float64, minValue float64) ([]domain.NormalizedItem, error) {
	resp, ok := doc.(*domain.ScoutResponse)
	if !ok || resp == nil {
		return nil, fmt.Errorf("unexpected document type %T for %s", doc, s.Name())
	}

	items := make([]domain.NormalizedItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.CurrentPrice < minValue {
			continue
		}

		items = append(items, domain.NormalizedItem{
			ID:    item.ID.String(),
			Name:  firstNonEmpty(item.Name, item.Text, scoutUnknown),
			Type:  firstNonEmpty(item.Type, scoutUnknown),
			Value: item.CurrentPrice,
		})
	}

	return items, nil
}

func (s *scoutSource) Format(item domain.NormalizedItem) string {
	return FormatLine(ScoutTemplate, item)
}

// SectionName turns /unique/weapon into "UNIQUE WEAPON".
func (s *scoutSource) SectionName(url string) string {
	matches := uniqueSegmentRegex.FindStringSubmatch(url)
	if len(matches) < 2 {
		return scoutUnknownSection
	}
	return "UNIQUE " + strings.ToUpper(matches[1])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
