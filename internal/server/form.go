package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"poe2/pickit/internal/catalog"
	"poe2/pickit/internal/config"
	"poe2/pickit/internal/domain"
	"poe2/pickit/internal/source"
)

const (
	fieldMinValue         = "min_value"
	fieldMinValueCurrency = "min_value_currency"
	fieldWaystoneTier     = "waystone_tier"

	staticPrefix = "static_"
	checkedValue = "on"

	maxFormMemory = 1 << 20
)

// StaticFieldName is the checkbox name of one static subcategory.
func StaticFieldName(category, subcategory string) string {
	return staticPrefix + category + "_" + subcategory
}

// parseRunOptions reads a submitted form. Checkbox keys are matched against
// the known catalogs in catalog order, so submission order never matters.
func parseRunOptions(
	r *http.Request,
	sources []source.Source,
	cat *catalog.Catalog,
	defaults config.DefaultsConfig,
) (domain.RunOptions, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return domain.RunOptions{}, &domain.ValidationError{Reason: fmt.Sprintf("invalid form: %v", err)}
	}
	return optionsFromValues(r.Form, sources, cat, defaults)
}

func optionsFromValues(
	form url.Values,
	sources []source.Source,
	cat *catalog.Catalog,
	defaults config.DefaultsConfig,
) (domain.RunOptions, error) {
	var opts domain.RunOptions
	var err error

	if opts.MinValue, err = floatField(form, fieldMinValue, defaults.MinValue); err != nil {
		return opts, err
	}
	if opts.MinValueCurrency, err = floatField(form, fieldMinValueCurrency, defaults.MinValueCurrency); err != nil {
		return opts, err
	}
	if opts.WaystoneTier, err = tierField(form, cat, defaults.WaystoneTier); err != nil {
		return opts, err
	}

	for _, src := range sources {
		selected := make([]string, 0)
		for _, c := range src.Categories() {
			if form.Get(src.Type().FormPrefix()+c.ID) == checkedValue {
				selected = append(selected, c.ID)
			}
		}

		switch src.Type() {
		case domain.SourceTypeNinja:
			opts.NinjaCategories = selected
		case domain.SourceTypeScout:
			opts.ScoutCategories = selected
		}
	}

	static := cat.Selection(func(category, subcategory string) bool {
		return form.Get(StaticFieldName(category, subcategory)) == checkedValue
	})
	if len(static) > 0 {
		opts.StaticCategories = static
	}

	return opts, nil
}

func floatField(form url.Values, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: key, Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	return v, nil
}

func tierField(form url.Values, cat *catalog.Catalog, def int) (int, error) {
	raw := strings.TrimSpace(form.Get(fieldWaystoneTier))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Field: fieldWaystoneTier, Reason: fmt.Sprintf("%q is not a whole number", raw)}
	}
	if input, ok := cat.TierInput(); ok && (v < input.Min || v > input.Max) {
		return 0, &domain.ValidationError{
			Field:  fieldWaystoneTier,
			Reason: fmt.Sprintf("must be between %d and %d", input.Min, input.Max),
		}
	}
	return v, nil
}
