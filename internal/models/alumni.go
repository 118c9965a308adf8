package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type Alumni struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	Name       string  `json:"name" gorm:"not null;size:200"`
	Email      *string `json:"email" gorm:"uniqueIndex;size:254"`
	Role       string  `json:"role" gorm:"not null;size:200"`
	Company    string  `json:"company" gorm:"not null;size:200;index"`
	Batch      string  `json:"batch" gorm:"not null;size:10;index"`
	Department string  `json:"department" gorm:"not null;size:100;index"`
	Location   string  `json:"location" gorm:"size:200;not null;default:''"`
	Experience string  `json:"experience" gorm:"size:50;not null;default:''"`
	Industry   string  `json:"industry" gorm:"size:100;not null;default:'';index"`

	// Ordered, not deduplicated
	Skills datatypes.JSONSlice[string] `json:"skills" gorm:"type:jsonb;not null;default:'[]'"`

	Available bool   `json:"available" gorm:"not null;index"`
	LinkedIn  string `json:"linkedin" gorm:"column:linkedin;size:200;not null;default:''"`
	Avatar    string `json:"avatar" gorm:"size:200;not null;default:''"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Alumni) TableName() string {
	return "alumni"
}

func (a *Alumni) String() string {
	return fmt.Sprintf("%s - %s at %s (Batch %s)", a.Name, a.Role, a.Company, a.Batch)
}

// SkillList returns the skills as a plain slice, never nil.
func (a *Alumni) SkillList() []string {
	if a.Skills == nil {
		return []string{}
	}
	return []string(a.Skills)
}

// EmailValue returns the email or "" when absent.
func (a *Alumni) EmailValue() string {
	if a.Email == nil {
		return ""
	}
	return *a.Email
}
