package models

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// ===== REQUEST DTOS =====

type AlumniCreateRequest struct {
	Name       string   `json:"name" validate:"required,max=200"`
	Email      string   `json:"email" validate:"omitempty,email,max=254"`
	Role       string   `json:"role" validate:"required,max=200"`
	Company    string   `json:"company" validate:"required,max=200"`
	Batch      string   `json:"batch" validate:"required,max=10"`
	Department string   `json:"department" validate:"required,max=100"`
	Location   string   `json:"location" validate:"max=200"`
	Experience string   `json:"experience" validate:"max=50"`
	Industry   string   `json:"industry" validate:"max=100"`
	Skills     []string `json:"skills" validate:"omitempty,dive,max=100"`
	Available  *bool    `json:"available"`
	LinkedIn   string   `json:"linkedin" validate:"omitempty,url,max=200"`
	Avatar     string   `json:"avatar" validate:"omitempty,url,max=200"`

	nullFields []string
}

func (r *AlumniCreateRequest) UnmarshalJSON(data []byte) error {
	type plain AlumniCreateRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	nulls, err := nullKeys(data)
	if err != nil {
		return err
	}
	r.nullFields = nulls
	return nil
}

// NullFields lists the known fields sent as an explicit JSON null.
func (r *AlumniCreateRequest) NullFields() []string {
	return r.nullFields
}

// AlumniUpdateRequest serves both PUT and PATCH; nil means "not supplied".
type AlumniUpdateRequest struct {
	Name       *string   `json:"name" validate:"omitnil,min=1,max=200"`
	Email      *string   `json:"email" validate:"omitnil,optional_email,max=254"`
	Role       *string   `json:"role" validate:"omitnil,min=1,max=200"`
	Company    *string   `json:"company" validate:"omitnil,min=1,max=200"`
	Batch      *string   `json:"batch" validate:"omitnil,min=1,max=10"`
	Department *string   `json:"department" validate:"omitnil,min=1,max=100"`
	Location   *string   `json:"location" validate:"omitnil,max=200"`
	Experience *string   `json:"experience" validate:"omitnil,max=50"`
	Industry   *string   `json:"industry" validate:"omitnil,max=100"`
	Skills     *[]string `json:"skills" validate:"omitnil,dive,max=100"`
	Available  *bool     `json:"available"`
	LinkedIn   *string   `json:"linkedin" validate:"omitnil,optional_url,max=200"`
	Avatar     *string   `json:"avatar" validate:"omitnil,optional_url,max=200"`

	nullFields []string
}

func (r *AlumniUpdateRequest) UnmarshalJSON(data []byte) error {
	type plain AlumniUpdateRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	nulls, err := nullKeys(data)
	if err != nil {
		return err
	}
	r.nullFields = nulls
	return nil
}

// NullFields lists the known fields sent as an explicit JSON null.
func (r *AlumniUpdateRequest) NullFields() []string {
	return r.nullFields
}

// ClearsEmail reports whether the request sets email to null.
func (r *AlumniUpdateRequest) ClearsEmail() bool {
	for _, f := range r.nullFields {
		if f == "email" {
			return true
		}
	}
	return false
}

// requestFields are the JSON keys shared by the create and update requests
var requestFields = map[string]bool{
	"name": true, "email": true, "role": true, "company": true, "batch": true,
	"department": true, "location": true, "experience": true, "industry": true,
	"skills": true, "available": true, "linkedin": true, "avatar": true,
}

// nullKeys returns the request fields whose value is a literal null. Keys
// match case-insensitively, as encoding/json does.
func nullKeys(data []byte) ([]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var nulls []string
	for key, value := range raw {
		name := strings.ToLower(key)
		if requestFields[name] && bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			nulls = append(nulls, name)
		}
	}
	sort.Strings(nulls)
	return nulls, nil
}

// Normalize trims surrounding whitespace from every text field.
func (r *AlumniCreateRequest) Normalize() {
	for _, field := range []*string{
		&r.Name, &r.Email, &r.Role, &r.Company, &r.Batch, &r.Department,
		&r.Location, &r.Experience, &r.Industry, &r.LinkedIn, &r.Avatar,
	} {
		*field = strings.TrimSpace(*field)
	}
}

// Normalize trims surrounding whitespace from every supplied text field.
func (r *AlumniUpdateRequest) Normalize() {
	for _, field := range []*string{
		r.Name, r.Email, r.Role, r.Company, r.Batch, r.Department,
		r.Location, r.Experience, r.Industry, r.LinkedIn, r.Avatar,
	} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

// MissingRequired lists the JSON names of required fields absent from a full update.
func (r *AlumniUpdateRequest) MissingRequired() []string {
	var missing []string
	required := []struct {
		name  string
		value *string
	}{
		{"name", r.Name},
		{"role", r.Role},
		{"company", r.Company},
		{"batch", r.Batch},
		{"department", r.Department},
	}
	present := make(map[string]bool, len(r.nullFields))
	for _, f := range r.nullFields {
		present[f] = true
	}
	for _, field := range required {
		if field.value == nil && !present[field.name] {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// ===== PROJECTIONS =====

// AlumniResponse is the full projection.
type AlumniResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email"`
	Role       string    `json:"role"`
	Company    string    `json:"company"`
	Batch      string    `json:"batch"`
	Department string    `json:"department"`
	Location   string    `json:"location"`
	Experience string    `json:"experience"`
	Industry   string    `json:"industry"`
	Skills     []string  `json:"skills"`
	Available  bool      `json:"available"`
	LinkedIn   string    `json:"linkedin"`
	Avatar     string    `json:"avatar"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AlumniListItem is the listing projection.
type AlumniListItem struct {
	ID         uint     `json:"id"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Company    string   `json:"company"`
	Batch      string   `json:"batch"`
	Department string   `json:"department"`
	Location   string   `json:"location"`
	Experience string   `json:"experience"`
	Industry   string   `json:"industry"`
	Skills     []string `json:"skills"`
	Available  bool     `json:"available"`
	LinkedIn   string   `json:"linkedin"`
}

func NewAlumniResponse(a *Alumni) *AlumniResponse {
	return &AlumniResponse{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		Role:       a.Role,
		Company:    a.Company,
		Batch:      a.Batch,
		Department: a.Department,
		Location:   a.Location,
		Experience: a.Experience,
		Industry:   a.Industry,
		Skills:     a.SkillList(),
		Available:  a.Available,
		LinkedIn:   a.LinkedIn,
		Avatar:     a.Avatar,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func NewAlumniListItem(a *Alumni) AlumniListItem {
	return AlumniListItem{
		ID:         a.ID,
		Name:       a.Name,
		Role:       a.Role,
		Company:    a.Company,
		Batch:      a.Batch,
		Department: a.Department,
		Location:   a.Location,
		Experience: a.Experience,
		Industry:   a.Industry,
		Skills:     a.SkillList(),
		Available:  a.Available,
		LinkedIn:   a.LinkedIn,
	}
}

// ===== ERROR RESPONSES =====

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
