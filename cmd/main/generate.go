package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"poe2/pickit/internal/catalog"
	"poe2/pickit/internal/container"
	"poe2/pickit/internal/domain"
	"poe2/pickit/internal/source"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	Ninja            []string
	Scout            []string
	Static           []string
	MinValue         float64
	MinValueCurrency float64
	Tier             int
	Output           string
	ShowLogs         bool
}

var genFlags generateFlags

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a pickit file once and exit",
	Long: `Generate a pickit file from the selected categories and write it to a file
or stdout.

Example:
  pickit generate --ninja Fragments,"Uncut Gems" --scout Jewels \
    --static "Waystones:Rare Waystones" --tier 12 -o dyno.ipd`,
	Args: cobra.NoArgs,
	RunE: generateFunc,
}

func init() {
	f := generateCmd.Flags()
	f.StringSliceVar(&genFlags.Ninja, "ninja", nil, "poe.ninja categories to include (Currency is always fetched)")
	f.StringSliceVar(&genFlags.Scout, "scout", nil, "poe2scout unique categories to include")
	f.StringArrayVar(&genFlags.Static, "static", nil, `Static rule as "Category:Subcategory", repeatable`)
	f.Float64Var(&genFlags.MinValue, "min-value", 0, "Minimum value in Exalted Orbs (default from config)")
	f.Float64Var(&genFlags.MinValueCurrency, "min-value-currency", 0, "Minimum value for Currency (default from config)")
	f.IntVar(&genFlags.Tier, "tier", 0, "Minimum waystone tier for waystone rules (default from config)")
	f.StringVarP(&genFlags.Output, "output", "o", "", "Output file (default stdout)")
	f.BoolVar(&genFlags.ShowLogs, "logs", false, "Print the processing log to stderr")
}

func generateFunc(cmd *cobra.Command, args []string) error {
	flags := genFlags
	if !cmd.Flags().Changed("min-value") {
		flags.MinValue = cfg.Defaults.MinValue
	}
	if !cmd.Flags().Changed("min-value-currency") {
		flags.MinValueCurrency = cfg.Defaults.MinValueCurrency
	}
	if !cmd.Flags().Changed("tier") {
		flags.Tier = cfg.Defaults.WaystoneTier
	}

	// Reject bad selections before checking proxies or dialing Redis and Postgres.
	opts, err := buildRunOptions(flags, source.NewSources(cfg.Upstream, nil), catalog.Default())
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	app, err := container.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer app.Close()

	result, err := app.Service.Process(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if flags.ShowLogs {
		fmt.Fprintln(cmd.ErrOrStderr(), strings.Join(result.Logs, "\n"))
	}

	if flags.Output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.Result)
		return nil
	}

	if err := os.WriteFile(flags.Output, []byte(result.Result), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", flags.Output, err)
	}
	log.Infof("✅ Wrote %d items to %s", result.TotalItems, flags.Output)
	return nil
}

// buildRunOptions validates the flag selections and orders them the way the
// catalogs list them.
func buildRunOptions(flags generateFlags, sources []source.Source, cat *catalog.Catalog) (domain.RunOptions, error) {
	opts := domain.RunOptions{
		MinValue:         flags.MinValue,
		MinValueCurrency: flags.MinValueCurrency,
		WaystoneTier:     flags.Tier,
	}

	for _, src := range sources {
		var requested []string
		switch src.Type() {
		case domain.SourceTypeNinja:
			requested = flags.Ninja
		case domain.SourceTypeScout:
			requested = flags.Scout
		}

		selected, err := orderCategories(src, requested)
		if err != nil {
			return opts, err
		}

		switch src.Type() {
		case domain.SourceTypeNinja:
			opts.NinjaCategories = selected
		case domain.SourceTypeScout:
			opts.ScoutCategories = selected
		}
	}

	picked := make(map[string]bool, len(flags.Static))
	for _, raw := range flags.Static {
		category, subcategory, ok := strings.Cut(raw, ":")
		category, subcategory = strings.TrimSpace(category), strings.TrimSpace(subcategory)
		if !ok || !cat.HasRule(category, subcategory) {
			return opts, &domain.ValidationError{Field: "static", Reason: fmt.Sprintf("unknown static rule %q", raw)}
		}
		picked[category+":"+subcategory] = true
	}
	if len(picked) > 0 {
		opts.StaticCategories = cat.Selection(func(category, subcategory string) bool {
			return picked[category+":"+subcategory]
		})
	}

	if input, ok := cat.TierInput(); ok && (flags.Tier < input.Min || flags.Tier > input.Max) {
		return opts, &domain.ValidationError{
			Field:  "tier",
			Reason: fmt.Sprintf("must be between %d and %d", input.Min, input.Max),
		}
	}

	return opts, nil
}

func orderCategories(src source.Source, requested []string) ([]string, error) {
	known := src.Categories()
	for _, name := range requested {
		if !slices.ContainsFunc(known, func(c domain.SourceCategory) bool { return c.ID == name }) {
			return nil, &domain.ValidationError{
				Field:  string(src.Type()),
				Reason: fmt.Sprintf("unknown %s category %q", src.Name(), name),
			}
		}
	}

	selected := make([]string, 0, len(requested))
	for _, c := range known {
		if slices.Contains(requested, c.ID) {
			selected = append(selected, c.ID)
		}
	}
	return selected, nil
}
