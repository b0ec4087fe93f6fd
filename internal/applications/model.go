package applications

import (
	"time"

	"gorm.io/datatypes"
)

type Application struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	ApplicantID   uint              `gorm:"index;not null" json:"applicant_id"`
	ScholarshipID uint              `gorm:"index;not null" json:"scholarship_id"`
	Data          datatypes.JSONMap `gorm:"type:jsonb" json:"data"`

	SubmittedAt      time.Time `gorm:"autoCreateTime" json:"submitted_at"`
	FavoritedByDonor bool      `gorm:"not null;default:false" json:"favorited_by_donor"`
	Awarded          bool      `gorm:"not null;default:false" json:"awarded"`
}

func (Application) TableName() string {
	return "applications"
}

// MatchResult is written once by a matching run and never mutated.
// Several rows may exist per application, one per scoring scholarship.
type MatchResult struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	ApplicationID uint `gorm:"index;not null" json:"application_id"`
	ScholarshipID uint `gorm:"not null" json:"scholarship_id"`
	Score         int  `gorm:"not null" json:"score"`
}

func (MatchResult) TableName() string {
	return "match_results"
}
