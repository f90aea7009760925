package importexport

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Column is one exportable column of an entity.
type Column struct {
	Key   string
	Label string
}

// Col builds a Column with a label humanized from the key
// ("company_name" -> "Company Name").
func Col(key string) Column {
	return Column{Key: key, Label: titleCaser.String(strings.ReplaceAll(key, "_", " "))}
}

// ColumnSet tracks which columns of a registry are selected for export.
// A fresh set starts with everything selected.
type ColumnSet struct {
	all      []Column
	selected map[string]struct{}
}

// NewColumnSet builds a set over the registry, all columns selected.
func NewColumnSet(cols ...Column) *ColumnSet {
	s := &ColumnSet{all: cols, selected: make(map[string]struct{}, len(cols))}
	s.SelectAll()
	return s
}

// SelectAll marks every registry column selected.
func (s *ColumnSet) SelectAll() {
	for _, c := range s.all {
		s.selected[c.Key] = struct{}{}
	}
}

// DeselectAll clears the selection.
func (s *ColumnSet) DeselectAll() {
	s.selected = make(map[string]struct{}, len(s.all))
}

// Toggle flips one column. Unknown keys are ignored.
func (s *ColumnSet) Toggle(key string) {
	if !lo.ContainsBy(s.all, func(c Column) bool { return c.Key == key }) {
		return
	}
	if _, ok := s.selected[key]; ok {
		delete(s.selected, key)
		return
	}
	s.selected[key] = struct{}{}
}

// Selected returns the selected keys in registry order.
func (s *ColumnSet) Selected() []string {
	picked := lo.Filter(s.all, func(c Column, _ int) bool {
		_, ok := s.selected[c.Key]
		return ok
	})
	return lo.Map(picked, func(c Column, _ int) string { return c.Key })
}

// All returns the full registry.
func (s *ColumnSet) All() []Column {
	return s.all
}
