// Package rules loads detector tables from YAML and compiles them into
// matcher rules. The builtin tables are embedded in the binary.
package rules

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/pthm/prosescan/internal/matcher"
)

// ErrUnknownTable is returned by Load for a name with no builtin table.
var ErrUnknownTable = errors.New("unknown rule table")

// ErrUnknownRule is returned by Filter when a rule id is not in the table.
var ErrUnknownRule = errors.New("unknown rule")

// Definition is one rule as written in a table file.
type Definition struct {
	ID          string `yaml:"id" json:"id" validate:"required"`
	Pattern     string `yaml:"pattern" json:"pattern" validate:"required"`
	Category    string `yaml:"category" json:"category" validate:"required,oneof=Content Language Style Communication"`
	Name        string `yaml:"name" json:"name" validate:"required"`
	Description string `yaml:"description" json:"description"`
	Anchor      string `yaml:"anchor" json:"anchor"`
}

// File is the on-disk layout of a rule table.
type File struct {
	Name        string       `yaml:"name" validate:"required"`
	Description string       `yaml:"description"`
	BaseURL     string       `yaml:"base_url" validate:"omitempty,url"`
	Rules       []Definition `yaml:"rules" validate:"required,min=1,dive"`
}

// Table is a compiled, ordered rule table. Order is significant: it breaks
// ties between matches that start at the same offset.
type Table struct {
	Name        string
	Description string
	BaseURL     string
	rules       []*matcher.Rule
}

// Rules returns the compiled rules in declaration order
func (t *Table) Rules() []*matcher.Rule {
	out := make([]*matcher.Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len returns the number of rules in the table
func (t *Table) Len() int {
	return len(t.rules)
}

// Get returns a rule by id, or nil
func (t *Table) Get(id string) *matcher.Rule {
	for _, r := range t.rules {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// ReferenceURL returns the documentation link for r, or "" when the table
// has no base URL or the rule has no anchor.
func (t *Table) ReferenceURL(r *matcher.Rule) string {
	if t.BaseURL == "" || r == nil || r.ReferenceAnchor == "" {
		return ""
	}
	return t.BaseURL + r.ReferenceAnchor
}

// Filter returns the rules that belong to one of categories (all categories
// when empty) and whose id is not in disabled. Declaration order is kept.
func (t *Table) Filter(categories []matcher.Category, disabled []string) ([]*matcher.Rule, error) {
	catSet := make(map[matcher.Category]bool, len(categories))
	for _, c := range categories {
		if !c.Valid() {
			return nil, fmt.Errorf("unknown category %q", c)
		}
		catSet[c] = true
	}

	skip := make(map[string]bool, len(disabled))
	for _, id := range disabled {
		if t.Get(id) == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, id)
		}
		skip[id] = true
	}

	var out []*matcher.Rule
	for _, r := range t.rules {
		if skip[r.ID] {
			continue
		}
		if len(catSet) > 0 && !catSet[r.Category] {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Compile validates f and compiles every pattern case-insensitively
func Compile(f *File) (*Table, error) {
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("invalid rule table: %w", err)
	}

	t := &Table{
		Name:        f.Name,
		Description: f.Description,
		BaseURL:     f.BaseURL,
		rules:       make([]*matcher.Rule, 0, len(f.Rules)),
	}
	for _, d := range f.Rules {
		re, err := regexp.Compile("(?i)" + d.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %s: invalid pattern: %w", d.ID, err)
		}
		t.rules = append(t.rules, &matcher.Rule{
			ID:              d.ID,
			Pattern:         re,
			Category:        matcher.Category(d.Category),
			Name:            d.Name,
			Description:     d.Description,
			ReferenceAnchor: d.Anchor,
		})
	}

	if err := matcher.ValidateTable(t.rules); err != nil {
		return nil, fmt.Errorf("rule table %s: %w", f.Name, err)
	}
	return t, nil
}
