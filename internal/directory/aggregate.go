package directory

import (
	"sort"

	"github.com/SAP-F-2025/alumni-service/internal/models"
)

type FilterOptions struct {
	Batches     []string `json:"batches"`
	Departments []string `json:"departments"`
	Companies   []string `json:"companies"`
	Industries  []string `json:"industries"`
}

type Stats struct {
	Total            int64 `json:"total"`
	AvailableMentors int64 `json:"available_mentors"`
	CompaniesCount   int64 `json:"companies_count"`
	IndustriesCount  int64 `json:"industries_count"`
}

// Aggregates are always computed over the whole, unfiltered collection so
// facet widgets stay stable while a user narrows results.
type Aggregates struct {
	FilterOptions FilterOptions `json:"filter_options"`
	Stats         Stats         `json:"stats"`
}

// ComputeAggregates derives facet options and counts from every record.
func ComputeAggregates(records []*models.Alumni) *Aggregates {
	var batches, departments, companies, industries []string
	var available int64
	for _, a := range records {
		batches = append(batches, a.Batch)
		departments = append(departments, a.Department)
		companies = append(companies, a.Company)
		industries = append(industries, a.Industry)
		if a.Available {
			available++
		}
	}

	return NewAggregates(
		FilterOptions{
			Batches:     batches,
			Departments: departments,
			Companies:   companies,
			Industries:  industries,
		},
		int64(len(records)),
		available,
	)
}

// NewAggregates normalizes raw facet values (sort + dedupe) and derives the
// distinct counts from them.
func NewAggregates(raw FilterOptions, total, available int64) *Aggregates {
	options := FilterOptions{
		Batches:     SortedDistinct(raw.Batches),
		Departments: SortedDistinct(raw.Departments),
		Companies:   SortedDistinct(raw.Companies),
		Industries:  SortedDistinct(raw.Industries),
	}
	return &Aggregates{
		FilterOptions: options,
		Stats: Stats{
			Total:            total,
			AvailableMentors: available,
			CompaniesCount:   int64(len(options.Companies)),
			IndustriesCount:  int64(len(options.Industries)),
		},
	}
}

// SortedDistinct returns the distinct values in ascending byte order. The
// result is never nil.
func SortedDistinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
