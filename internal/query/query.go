// Package query filters and searches a materialized document index. Every function is
// pure: inputs are never modified and results are fresh slices.
package query

import (
	"strings"

	"hrdocs/internal/index"
	"hrdocs/internal/model"
	"hrdocs/internal/taxonomy"
)

// Query is the user-selected view over the index. An empty Category means all categories.
type Query struct {
	Category model.Category
	Search   string
}

// Result is a narrowed index together with category totals of the whole index.
type Result struct {
	Items  []index.Entry
	Counts map[model.Category]int
	Total  int
}

// FilterByCategory keeps the entries whose type belongs to category.
func FilterByCategory(entries []index.Entry, category model.Category) []index.Entry {
	if category == "" {
		return clone(entries)
	}
	out := make([]index.Entry, 0, len(entries))
	for _, e := range entries {
		if taxonomy.CategoryOf(e.Type) == category {
			out = append(out, e)
		}
	}
	return out
}

// Search keeps entries where the term appears, ignoring case, in the document name,
// the parent name, the original file name or the type label. A blank term keeps all.
func Search(entries []index.Entry, term string) []index.Entry {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return clone(entries)
	}
	out := make([]index.Entry, 0, len(entries))
	for _, e := range entries {
		if matches(e, needle) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e index.Entry, needle string) bool {
	for _, field := range [...]string{e.Name, e.ParentName, e.FileName, taxonomy.LabelOf(e.Type)} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// CategoryCounts counts entries per category. Every known category is present.
// Callers must pass the unfiltered index.
func CategoryCounts(entries []index.Entry) map[model.Category]int {
	counts := make(map[model.Category]int, len(taxonomy.Categories()))
	for _, c := range taxonomy.Categories() {
		counts[c] = 0
	}
	for _, e := range entries {
		counts[taxonomy.CategoryOf(e.Type)]++
	}
	return counts
}

// Run applies the category filter, then the search, and computes counts from all.
func Run(all []index.Entry, q Query) Result {
	items := Search(FilterByCategory(all, q.Category), q.Search)
	return Result{
		Items:  items,
		Counts: CategoryCounts(all),
		Total:  len(items),
	}
}

func clone(entries []index.Entry) []index.Entry {
	out := make([]index.Entry, len(entries))
	copy(out, entries)
	return out
}
