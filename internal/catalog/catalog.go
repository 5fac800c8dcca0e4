// Package catalog holds the weighted PPL pattern table: built-in defaults,
// YAML loading, and load-time validation. A catalog is built once at startup
// and read concurrently without synchronization afterwards.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleanfeed/sifter/internal/common"
	"github.com/cleanfeed/sifter/internal/model"
)

// Catalog is an immutable collection of patterns indexed by category.
type Catalog struct {
	byCategory map[model.PatternCategory][]model.Pattern
	patterns   []model.Pattern
	categories []model.PatternCategory
}

// New builds a catalog from the given patterns, rejecting any pattern that
// fails validation.
func New(patterns []model.Pattern) (*Catalog, error) {
	if len(patterns) == 0 {
		return nil, common.ErrEmptyCatalog
	}

	c := &Catalog{
		byCategory: make(map[model.PatternCategory][]model.Pattern),
		patterns:   make([]model.Pattern, 0, len(patterns)),
	}

	for _, p := range patterns {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidPattern, err)
		}
		if _, seen := c.byCategory[p.Category]; !seen {
			c.categories = append(c.categories, p.Category)
		}
		c.byCategory[p.Category] = append(c.byCategory[p.Category], p)
		c.patterns = append(c.patterns, p)
	}

	return c, nil
}

// Default returns the built-in catalog. It panics only if the built-in table
// itself is invalid, which is a programming error.
func Default() *Catalog {
	c, err := New(DefaultPatterns())
	if err != nil {
		panic(fmt.Sprintf("built-in pattern catalog invalid: %v", err))
	}
	return c
}

// catalogFile is the YAML shape of an external catalog source.
type catalogFile struct {
	Patterns      []model.Pattern `yaml:"patterns"`
	MergeDefaults bool            `yaml:"merge_defaults"`
}

// LoadFile reads a catalog from a YAML file. When merge_defaults is set, the
// file's patterns are appended to the built-in table.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	patterns := file.Patterns
	if file.MergeDefaults {
		patterns = append(DefaultPatterns(), patterns...)
	}

	return New(patterns)
}

// Patterns returns all patterns in load order.
func (c *Catalog) Patterns() []model.Pattern {
	return c.patterns
}

// ByCategory returns the patterns of one category.
func (c *Catalog) ByCategory(cat model.PatternCategory) []model.Pattern {
	return c.byCategory[cat]
}

// Categories returns the categories present, in first-seen order.
func (c *Catalog) Categories() []model.PatternCategory {
	return c.categories
}

// Len returns the number of patterns.
func (c *Catalog) Len() int {
	return len(c.patterns)
}

// ValidationReport summarizes a catalog health check.
type ValidationReport struct {
	Errors        []string
	Warnings      []string
	TotalPatterns int
	ValidPatterns int
	Valid         bool
}

// Validate checks a raw pattern list without building a catalog, reporting
// every problem instead of stopping at the first.
func Validate(patterns []model.Pattern) ValidationReport {
	report := ValidationReport{Valid: true, TotalPatterns: len(patterns)}

	seen := make(map[string]bool)
	for _, p := range patterns {
		if err := p.Validate(); err != nil {
			report.Errors = append(report.Errors, err.Error())
			report.Valid = false
			continue
		}

		key := string(p.Category) + "|" + p.Text
		if seen[key] {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("duplicate pattern %q in category %s", p.Text, p.Category))
		}
		seen[key] = true

		if len([]rune(p.Text)) < 2 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("pattern %q is very short and may over-match", p.Text))
		}

		report.ValidPatterns++
	}

	return report
}
