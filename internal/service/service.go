package service

import (
	"context"
	"fmt"

	"poe2/pickit/internal/catalog"
	"poe2/pickit/internal/domain"
	"poe2/pickit/internal/output"
	"poe2/pickit/internal/repository"
	"poe2/pickit/internal/source"
	"poe2/pickit/internal/store"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	sources    []source.Source
	catalog    *catalog.Catalog
	store      store.OutputStore
	repository repository.RunRepository
	newID      func() string
}

func NewService(
	sources []source.Source,
	catalog *catalog.Catalog,
	store store.OutputStore,
	repository repository.RunRepository,
) *Service {
	return &Service{
		sources:    sources,
		catalog:    catalog,
		store:      store,
		repository: repository,
		newID:      uuid.NewString,
	}
}

func (s *Service) Sources() []source.Source {
	return s.sources
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Process runs every selected source, then the static catalog, and assembles
// the document. A source whose reference category fails is dropped unless it
// is the only thing selected, in which case its error is returned.
func (s *Service) Process(ctx context.Context, opts domain.RunOptions) (*domain.ProcessedOutput, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	runID := s.newID()
	rl := newRunLog(runID)

	rl.add("Currency Exchange Rates (in Exalted Orbs)")
	rl.add(output.Rule())
	rl.add("")

	sections := make([]domain.SectionResult, 0)

	for _, src := range s.sources {
		selected := opts.CategoriesFor(src.Type())
		if len(selected) == 0 {
			log.WithField("run_id", runID).Debugf("No %s categories selected, skipping", src.Name())
			continue
		}

		results, err := s.processSource(ctx, src, selected, opts, rl)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			rl.addf("✗ Error processing %s categories: %s", src.Name(), err)

			if !opts.HasOtherContent(src.Type()) {
				log.WithField("run_id", runID).Errorf("❌ %s failed with nothing else selected: %v", src.Name(), err)
				return nil, err
			}
			continue
		}

		sections = append(sections, results...)
	}

	static := ""
	if opts.HasStatic() {
		rl.add("\n" + output.Rule())
		rl.add("Processing static filter rules...")
		rl.add(output.Rule())
		rl.add("")

		static = s.catalog.GenerateOutput(opts.StaticCategories, opts.WaystoneTier)
		rl.addf("✓ Generated %d static filter rules from %d categories",
			s.catalog.RuleCount(opts.StaticCategories), len(opts.StaticCategories))
	}

	rl.add("\n" + output.Rule())
	rl.add("Generating final output...")
	rl.add("")

	document, total := output.Assemble(sections, static)

	rl.addf("✓ Success! Total items processed: %d", total)
	rl.add(output.Rule())

	result := &domain.ProcessedOutput{
		RunID:      runID,
		Result:     document,
		Logs:       rl.lines,
		TotalItems: total,
		Sections:   sections,
	}

	s.persist(ctx, result)

	log.WithFields(log.Fields{
		"run_id":   runID,
		"sections": len(sections),
		"items":    total,
	}).Info("✅ Run completed")

	return result, nil
}

// processSource fetches the planned categories of one source in order. Only a
// failure on the first category of a source that needs a reference is fatal.
func (s *Service) processSource(
	ctx context.Context,
	src source.Source,
	selected []string,
	opts domain.RunOptions,
	rl *runLog,
) ([]domain.SectionResult, error) {
	plan := src.Plan(selected)
	if len(plan) == 0 {
		rl.addf("⚠ No URLs configured for %s, skipping...", src.Name())
		return nil, nil
	}

	rl.add("\n" + output.Rule())
	rl.addf("Processing %s data...", src.Name())
	rl.add(output.Rule())

	results := make([]domain.SectionResult, 0, len(plan))
	var reference float64

	for i, category := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sectionName := src.SectionName(category.URL)
		rl.addf("\n[%d/%d] Fetching data from %s...", i+1, len(plan), sectionName)

		section, err := s.processCategory(ctx, src, category, sectionName, i == 0, &reference, opts, rl)
		if err != nil {
			rl.addf("✗ Error processing %s: %s", sectionName, err)
			if i == 0 && src.RequiresReference() {
				return nil, err
			}
			continue
		}

		results = append(results, section)
	}

	return results, nil
}

func (s *Service) processCategory(
	ctx context.Context,
	src source.Source,
	category domain.SourceCategory,
	sectionName string,
	first bool,
	reference *float64,
	opts domain.RunOptions,
	rl *runLog,
) (domain.SectionResult, error) {
	doc, err := src.Fetch(ctx, category.URL)
	if err != nil {
		return domain.SectionResult{}, err
	}

	if first {
		rl.add("Extracting base value from data...")
		value, ok := src.ResolveReference(doc)
		switch {
		case ok:
			*reference = value
			rl.addf("✓ Base value found: %v", value)
		case src.RequiresReference():
			return domain.SectionResult{}, &domain.MissingReferenceError{
				Source:    src.Name(),
				Reference: source.NinjaReferenceID,
			}
		default:
			*reference = 1.0
		}
	}

	rl.addf("Calculating values using base value: %v...", *reference)

	minValue := opts.MinValue
	suffix := ""
	if category.Mandatory {
		minValue = opts.MinValueCurrency
		suffix = " (Currency)"
	}
	rl.addf("Applying minimum value filter: %v Ex%s", minValue, suffix)

	items, err := src.Normalize(doc, *reference, minValue)
	if err != nil {
		return domain.SectionResult{}, err
	}

	parsed := make([]domain.ParsedItem, 0, len(items))
	for _, item := range items {
		parsed = append(parsed, domain.ParsedItem{
			NormalizedItem: item,
			FormattedLine:  src.Format(item),
		})
	}

	rl.addf("✓ Processed %d items from this section (after filtering)", len(parsed))

	return domain.SectionResult{SectionName: sectionName, Results: parsed}, nil
}

// persist keeps the document for download and archives the run. Failures are
// logged only; the user still gets the document inline.
func (s *Service) persist(ctx context.Context, result *domain.ProcessedOutput) {
	entry := log.WithField("run_id", result.RunID)

	if s.store != nil {
		if err := s.store.Save(ctx, result.RunID, result.Result); err != nil {
			entry.Warnf("⚠ Failed to store document: %v", err)
		} else {
			result.Downloadable = true
		}
	}

	if s.repository != nil {
		if err := s.repository.SaveRun(ctx, result); err != nil {
			entry.Warnf("⚠ Failed to archive run: %v", err)
		}
	}
}

// Download returns a previously generated document.
func (s *Service) Download(ctx context.Context, id string) (string, error) {
	if s.store == nil {
		return "", store.ErrNotFound
	}
	doc, err := s.store.Load(ctx, id)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", id, err)
	}
	return doc, nil
}
