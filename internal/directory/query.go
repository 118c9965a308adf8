// Package directory holds the alumni directory query predicate and the facet
// aggregates shared by the SQL and in-memory record stores.
package directory

import (
	"encoding/json"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/SAP-F-2025/alumni-service/internal/models"
)

// Query parameter names accepted by the listing endpoint.
const (
	ParamSearch     = "search"
	ParamBatch      = "batch"
	ParamDepartment = "department"
	ParamCompany    = "company"
	ParamIndustry   = "industry"
	ParamAvailable  = "available"
)

// Query is the predicate built for one listing request. Empty fields impose
// no constraint; all active constraints are ANDed.
type Query struct {
	Search     string
	Batch      string
	Department string
	Company    string
	Industry   string
	Available  *bool
}

// ParseQuery builds a Query from request parameters.
func ParseQuery(values url.Values) Query {
	q := Query{
		Search:     strings.TrimSpace(values.Get(ParamSearch)),
		Batch:      values.Get(ParamBatch),
		Department: values.Get(ParamDepartment),
		Company:    values.Get(ParamCompany),
		Industry:   values.Get(ParamIndustry),
	}
	if raw := values.Get(ParamAvailable); raw != "" {
		available := ParseAvailable(raw)
		q.Available = &available
	}
	return q
}

// ParseAvailable maps "true", "1" and "yes" (any case) to true and every
// other token to false.
func ParseAvailable(token string) bool {
	switch strings.ToLower(token) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// Matches evaluates the predicate against a single record.
func (q Query) Matches(a *models.Alumni) bool {
	if q.Search != "" && !q.matchesSearch(a) {
		return false
	}
	if q.Batch != "" && a.Batch != q.Batch {
		return false
	}
	if q.Department != "" && !strings.EqualFold(a.Department, q.Department) {
		return false
	}
	if q.Company != "" && !strings.EqualFold(a.Company, q.Company) {
		return false
	}
	if q.Industry != "" && !strings.EqualFold(a.Industry, q.Industry) {
		return false
	}
	if q.Available != nil && a.Available != *q.Available {
		return false
	}
	return true
}

func (q Query) matchesSearch(a *models.Alumni) bool {
	term := strings.ToLower(q.Search)
	for _, field := range []string{a.Name, a.Role, a.Company, SkillsText(a.SkillList())} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Filter returns the records matching q, preserving input order.
func (q Query) Filter(records []*models.Alumni) []*models.Alumni {
	matched := make([]*models.Alumni, 0, len(records))
	for _, a := range records {
		if q.Matches(a) {
			matched = append(matched, a)
		}
	}
	return matched
}

// SkillsText renders skills the way PostgreSQL prints a jsonb array
// (`["React", "Go"]`), which is what the search term is matched against.
func SkillsText(skills []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, s := range skills {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(jsonbString(s))
	}
	b.WriteByte(']')
	return b.String()
}

// jsonbString quotes s like PostgreSQL's jsonb output: control characters
// become \uXXXX, while HTML characters and the line and paragraph separators
// stay literal.
func jsonbString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	start := 0
	for i, r := range s {
		if r == '\u2028' || r == '\u2029' {
			b.WriteString(jsonEscape(s[start:i]))
			b.WriteRune(r)
			start = i + utf8.RuneLen(r)
		}
	}
	b.WriteString(jsonEscape(s[start:]))
	b.WriteByte('"')
	return b.String()
}

// jsonEscape returns the JSON escaped body of s without the surrounding quotes
func jsonEscape(s string) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return s
	}
	out := strings.TrimSuffix(b.String(), "\n")
	return out[1 : len(out)-1]
}

// LikePattern escapes LIKE wildcards in term and wraps it in %...%.
func LikePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
