// Package catalog holds the static, non-fetched filter rules.
package catalog

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"poe2/pickit/internal/domain"
	"poe2/pickit/internal/output"

	"gopkg.in/yaml.v3"
)

const tierPlaceholder = "{tier}"

//go:embed catalog.yaml
var defaultCatalog []byte

// NumericInput describes the single number a category accepts.
type NumericInput struct {
	Type    string `yaml:"type"`
	Min     int    `yaml:"min"`
	Max     int    `yaml:"max"`
	Default int    `yaml:"default"`
	Label   string `yaml:"label"`
}

type Rule struct {
	Name     string `yaml:"name"`
	Template string `yaml:"rule"`
}

type Category struct {
	Name          string        `yaml:"name"`
	Input         *NumericInput `yaml:"input,omitempty"`
	Subcategories []Rule        `yaml:"subcategories"`
}

func (c *Category) rule(name string) (string, bool) {
	for _, r := range c.Subcategories {
		if r.Name == name {
			return r.Template, true
		}
	}
	return "", false
}

// Catalog is an ordered, read-only table of static categories.
type Catalog struct {
	categories []Category
	byName     map[string]*Category
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	c := &Catalog{
		categories: doc.Categories,
		byName:     make(map[string]*Category, len(doc.Categories)),
	}
	for i := range c.categories {
		cat := &c.categories[i]
		if cat.Name == "" {
			return nil, fmt.Errorf("catalog category %d has no name", i)
		}
		if _, dup := c.byName[cat.Name]; dup {
			return nil, fmt.Errorf("duplicate catalog category %q", cat.Name)
		}
		c.byName[cat.Name] = cat
	}

	return c, nil
}

func (c *Catalog) Categories() []Category {
	return c.categories
}

func (c *Catalog) Category(name string) (*Category, bool) {
	cat, ok := c.byName[name]
	return cat, ok
}

// TierInput returns the numeric input of the first category that has one.
func (c *Catalog) TierInput() (NumericInput, bool) {
	for _, cat := range c.categories {
		if cat.Input != nil {
			return *cat.Input, true
		}
	}
	return NumericInput{}, false
}

// HasRule reports whether the category offers the named subcategory.
func (c *Catalog) HasRule(category, subcategory string) bool {
	cat, ok := c.byName[category]
	if !ok {
		return false
	}
	_, ok = cat.rule(subcategory)
	return ok
}

// Selection collects the picked subcategories in catalog order, dropping
// categories with nothing picked.
func (c *Catalog) Selection(picked func(category, subcategory string) bool) []domain.StaticSelection {
	selections := make([]domain.StaticSelection, 0)
	for _, cat := range c.categories {
		subs := make([]string, 0)
		for _, r := range cat.Subcategories {
			if picked(cat.Name, r.Name) {
				subs = append(subs, r.Name)
			}
		}
		if len(subs) > 0 {
			selections = append(selections, domain.StaticSelection{Category: cat.Name, Subcategories: subs})
		}
	}
	return selections
}

// GenerateOutput renders a header and the chosen rules for every selected
// category. Unknown categories, unknown subcategories and empty selections
// are skipped.
func (c *Catalog) GenerateOutput(selections []domain.StaticSelection, tier int) string {
	lines := make([]string, 0)

	for _, sel := range selections {
		cat, ok := c.byName[sel.Category]
		if !ok || len(sel.Subcategories) == 0 {
			continue
		}

		lines = append(lines, output.SectionHeader(cat.Name), "")

		for _, sub := range sel.Subcategories {
			rule, ok := cat.rule(sub)
			if !ok {
				continue
			}
			if cat.Input != nil {
				rule = strings.Replace(rule, tierPlaceholder, strconv.Itoa(tier), 1)
			}
			lines = append(lines, rule)
		}

		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// RuleCount counts the rules a selection would produce.
func (c *Catalog) RuleCount(selections []domain.StaticSelection) int {
	count := 0
	for _, sel := range selections {
		cat, ok := c.byName[sel.Category]
		if !ok {
			continue
		}
		for _, sub := range sel.Subcategories {
			if _, ok := cat.rule(sub); ok {
				count++
			}
		}
	}
	return count
}

// SubcategoryInfo and CategoryInfo are the listing shapes served to the form.
type SubcategoryInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CategoryInfo struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	HasInput      bool              `json:"hasInput,omitempty"`
	InputType     string            `json:"inputType,omitempty"`
	InputMin      int               `json:"inputMin,omitempty"`
	InputMax      int               `json:"inputMax,omitempty"`
	InputDefault  int               `json:"inputDefault,omitempty"`
	InputLabel    string            `json:"inputLabel,omitempty"`
	Subcategories []SubcategoryInfo `json:"subcategories"`
}

func (c *Catalog) Infos() []CategoryInfo {
	infos := make([]CategoryInfo, 0, len(c.categories))
	for _, cat := range c.categories {
		info := CategoryInfo{ID: cat.Name, Name: cat.Name}
		if cat.Input != nil {
			info.HasInput = true
			info.InputType = cat.Input.Type
			info.InputMin = cat.Input.Min
			info.InputMax = cat.Input.Max
			info.InputDefault = cat.Input.Default
			info.InputLabel = cat.Input.Label
		}
		for _, r := range cat.Subcategories {
			info.Subcategories = append(info.Subcategories, SubcategoryInfo{ID: r.Name, Name: r.Name})
		}
		infos = append(infos, info)
	}
	return infos
}
