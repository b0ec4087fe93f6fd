package scholarships

import (
	"time"

	"go.uber.org/zap"
)

type Service struct {
	log        *zap.Logger
	repository Repository
}

func NewService(log *zap.Logger, repo Repository) *Service {
	return &Service{
		log:        log,
		repository: repo,
	}
}

func (s *Service) Create(scholarship *Scholarship) error {
	return s.repository.Create(scholarship)
}

func (s *Service) Get(id uint) (*Scholarship, error) {
	return s.repository.GetByID(id)
}

func (s *Service) List() ([]Scholarship, error) {
	return s.repository.List()
}

func (s *Service) ByDonor(donorID int64) ([]Scholarship, error) {
	return s.repository.ByDonor(donorID)
}

func (s *Service) Delete(id uint) error {
	return s.repository.Delete(id)
}

func (s *Service) Summary() (*Summary, error) {
	return s.repository.Summary()
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Name                   *string    `json:"name"`
	Description            *string    `json:"description"`
	Amount                 *float64   `json:"amount"`
	Deadline               *time.Time `json:"deadline"`
	IsActive               *bool      `json:"is_active"`
	Quantity               *int       `json:"quantity"`
	DonorID                *int64     `json:"donor_id"`
	RequiresTranscript     *bool      `json:"requires_transcript"`
	RequiresRecommendation *bool      `json:"requires_recommendation"`
	MinGPA                 *float64   `json:"min_gpa"`
	AllowedMajor           *string    `json:"allowed_major"`
}

func (s *Service) Update(id uint, patch Patch) (*Scholarship, error) {
	scholarship, err := s.repository.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		scholarship.Name = *patch.Name
	}
	if patch.Description != nil {
		scholarship.Description = *patch.Description
	}
	if patch.Amount != nil {
		scholarship.Amount = *patch.Amount
	}
	if patch.Deadline != nil {
		scholarship.Deadline = patch.Deadline
	}
	if patch.IsActive != nil {
		scholarship.IsActive = *patch.IsActive
	}
	if patch.Quantity != nil {
		scholarship.Quantity = patch.Quantity
	}
	if patch.DonorID != nil {
		scholarship.DonorID = patch.DonorID
	}
	if patch.RequiresTranscript != nil {
		scholarship.RequiresTranscript = *patch.RequiresTranscript
	}
	if patch.RequiresRecommendation != nil {
		scholarship.RequiresRecommendation = *patch.RequiresRecommendation
	}
	if patch.MinGPA != nil {
		scholarship.MinGPA = patch.MinGPA
	}
	if patch.AllowedMajor != nil {
		scholarship.AllowedMajor = *patch.AllowedMajor
	}

	if err := s.repository.Save(scholarship); err != nil {
		return nil, err
	}
	return scholarship, nil
}

func (s *Service) BookmarkCount(scholarshipID uint) (int64, error) {
	if _, err := s.repository.GetByID(scholarshipID); err != nil {
		return 0, err
	}
	return s.repository.BookmarkCount(scholarshipID)
}

func (s *Service) SetBookmark(accountID, scholarshipID uint, saved bool) (*Scholarship, error) {
	scholarship, err := s.repository.GetByID(scholarshipID)
	if err != nil {
		return nil, err
	}
	if err := s.repository.SetBookmark(accountID, scholarshipID, saved); err != nil {
		return nil, err
	}
	return scholarship, nil
}
