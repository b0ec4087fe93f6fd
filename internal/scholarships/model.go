package scholarships

import (
	"time"
)

type Scholarship struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	Amount      float64    `gorm:"type:numeric(10,2);not null" json:"amount"`
	Deadline    *time.Time `json:"deadline"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	Quantity    *int       `json:"quantity"`

	// Weak reference to a donor account id. The donor may have been
	// deleted; readers resolve it and fall back to blank fields.
	DonorID *int64 `json:"donor_id"`

	RequiresTranscript     bool     `gorm:"not null;default:false" json:"requires_transcript"`
	RequiresRecommendation bool     `gorm:"not null;default:false" json:"requires_recommendation"`
	MinGPA                 *float64 `gorm:"column:min_gpa" json:"min_gpa"`
	AllowedMajor           string   `gorm:"not null;default:''" json:"allowed_major"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Scholarship) TableName() string {
	return "scholarships"
}

// Bookmark links an account to a saved scholarship. The pair is unique,
// which is what makes bookmarking idempotent.
type Bookmark struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AccountID     uint `gorm:"uniqueIndex:idx_bookmark_pair;not null" json:"account_id"`
	ScholarshipID uint `gorm:"uniqueIndex:idx_bookmark_pair;not null" json:"scholarship_id"`
}

func (Bookmark) TableName() string {
	return "scholarship_bookmarks"
}

// Summary is the aggregate payload for the public report endpoint.
type Summary struct {
	Total         int64    `json:"total_scholarships"`
	AverageAmount *float64 `json:"average_amount"`
	Active        int64    `json:"active_scholarships"`
	Inactive      int64    `json:"inactive_scholarships"`
}
