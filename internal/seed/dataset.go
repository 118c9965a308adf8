// Package seed holds the demo alumni dataset loaded by the seed command.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/SAP-F-2025/alumni-service/internal/models"
)

//go:embed alumni.yaml
var alumniYAML []byte

// Record is one entry of the dataset
type Record struct {
	Name       string   `yaml:"name"`
	Email      string   `yaml:"email"`
	Role       string   `yaml:"role"`
	Company    string   `yaml:"company"`
	Batch      string   `yaml:"batch"`
	Department string   `yaml:"department"`
	Location   string   `yaml:"location"`
	Experience string   `yaml:"experience"`
	Industry   string   `yaml:"industry"`
	Skills     []string `yaml:"skills"`
	Available  bool     `yaml:"available"`
	LinkedIn   string   `yaml:"linkedin"`
	Avatar     string   `yaml:"avatar"`
}

// Load parses the embedded dataset
func Load() ([]Record, error) {
	return Parse(alumniYAML)
}

// Parse decodes a YAML list of records. Every record needs an email.
func Parse(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse seed dataset: %w", err)
	}

	for i, r := range records {
		if r.Email == "" {
			return nil, fmt.Errorf("seed record %d (%s) has no email", i, r.Name)
		}
	}

	return records, nil
}

// ToModel converts the record into a new alumni row
func (r Record) ToModel() *models.Alumni {
	email := r.Email
	skills := r.Skills
	if skills == nil {
		skills = []string{}
	}

	return &models.Alumni{
		Name:       r.Name,
		Email:      &email,
		Role:       r.Role,
		Company:    r.Company,
		Batch:      r.Batch,
		Department: r.Department,
		Location:   r.Location,
		Experience: r.Experience,
		Industry:   r.Industry,
		Skills:     skills,
		Available:  r.Available,
		LinkedIn:   r.LinkedIn,
		Avatar:     r.Avatar,
	}
}
