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
	NinjaTemplate = `[Type] == "{name}" # [StashItem] == "true" // ExValue = {value}`

	// NinjaReferenceID is the line whose price is the unit of conversion.
	NinjaReferenceID = "exalted"

	ninjaUnknownSection = "UNKNOWN SECTION"
)

var (
	overviewNameRegex = regexp.MustCompile(`overviewName=([^&]+)`)
	upperRegex        = regexp.MustCompile(`([A-Z])`)
)

// ninjaOverviews maps category ids to poe.ninja overview names, in form order.
var ninjaOverviews = []struct {
	id, overview string
	mandatory    bool
}{
	{"Currency", "Currency", true},
	{"Fragments", "Fragments", false},
	{"Abyss", "Abyss", false},
	{"Uncut Gems", "UncutGems", false},
	{"Lineage Support Gems", "LineageSupportGems", false},
	{"Essences", "Essences", false},
	{"Ultimatum", "Ultimatum", false},
	{"Talismans", "Talismans", false},
	{"Runes", "Runes", false},
	{"Ritual", "Ritual", false},
	{"Expedition", "Expedition", false},
	{"Delirium", "Delirium", false},
	{"Breach", "Breach", false},
}

type ninjaSource struct {
	catalog
	fetcher client.Fetcher
}

func NewNinjaSource(cfg config.UpstreamConfig, fetcher client.Fetcher) Source {
	base := strings.TrimRight(cfg.NinjaBaseURL, "/")
	league := url.QueryEscape(cfg.League)

	categories := make([]domain.SourceCategory, 0, len(ninjaOverviews))
	for _, o := range ninjaOverviews {
		categories = append(categories, domain.SourceCategory{
			ID:        o.id,
			URL:       fmt.Sprintf("%s/poe2/api/economy/temp2/overview?leagueName=%s&overviewName=%s", base, league, o.overview),
			Mandatory: o.mandatory,
		})
	}

	return &ninjaSource{
		catalog: newCatalog(categories),
		fetcher: fetcher,
	}
}

func (s *ninjaSource) Type() domain.SourceType { return domain.SourceTypeNinja }

func (s *ninjaSource) Name() string { return domain.SourceTypeNinja.GetSourceName() }

func (s *ninjaSource) RequiresReference() bool { return true }

func (s *ninjaSource) Fetch(ctx context.Context, url string) (Document, error) {
	var resp domain.NinjaResponse
	if err := s.fetcher.FetchJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *ninjaSource) ResolveReference(doc Document) (float64, bool) {
	resp, ok := doc.(*domain.NinjaResponse)
	if !ok || resp == nil {
		return 0, false
	}
	for _, line := range resp.Lines {
		if line.ID == NinjaReferenceID {
			return line.PrimaryValue, true
		}
	}
	return 0, false
}

func (s *ninjaSource) Normalize(doc Document, reference, minValue float64) ([]domain.NormalizedItem, error) {
	if reference == 0 {
		return nil, &domain.InvalidReferenceError{Value: reference}
	}

	resp, ok := doc.(*domain.NinjaResponse)
	if !ok || resp == nil {
		return nil, fmt.Errorf("unexpected document type %T for %s", doc, s.Name())
	}

	names := make(map[string]string, len(resp.Items))
	for _, item := range resp.Items {
		names[item.ID] = item.Name
	}

	items := make([]domain.NormalizedItem, 0, len(resp.Lines))
	for _, line := range resp.Lines {
		name := names[line.ID]
		if name == "" {
			name = line.ID
		}

		value := line.PrimaryValue / reference
		if value < minValue {
			continue
		}

		items = append(items, domain.NormalizedItem{
			ID:    line.ID,
			Name:  name,
			Value: value,
		})
	}

	return items, nil
}

func (s *ninjaSource) Format(item domain.NormalizedItem) string {
	return FormatLine(NinjaTemplate, item)
}

// SectionName turns overviewName=UncutGems into "UNCUT GEMS".
func (s *ninjaSource) SectionName(url string) string {
	matches := overviewNameRegex.FindStringSubmatch(url)
	if len(matches) < 2 {
		return ninjaUnknownSection
	}
	spaced := upperRegex.ReplaceAllString(matches[1], " $1")
	return strings.ToUpper(strings.TrimSpace(spaced))
}
