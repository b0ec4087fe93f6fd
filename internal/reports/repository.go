package reports

import (
	"gorm.io/gorm"

	"github.com/scholarbase/backend/internal/accounts"
	"github.com/scholarbase/backend/internal/applications"
	"github.com/scholarbase/backend/internal/scholarships"
)

type Repository interface {
	ScholarshipsByActive(active bool) ([]scholarships.Scholarship, error)
	Applications() ([]applications.Application, error)
	AwardedApplications() ([]applications.Application, error)
	AccountsByID() (map[uint]accounts.Account, error)
	ScholarshipsByID() (map[uint]scholarships.Scholarship, error)
}

type repository struct {
	db           *gorm.DB
	scholarships scholarships.Repository
}

func NewRepository(db *gorm.DB, scholarshipRepo scholarships.Repository) Repository {
	return &repository{db: db, scholarships: scholarshipRepo}
}

func (r *repository) ScholarshipsByActive(active bool) ([]scholarships.Scholarship, error) {
	if active {
		return r.scholarships.ListActive()
	}
	return r.scholarships.ListInactive()
}

func (r *repository) Applications() ([]applications.Application, error) {
	var list []applications.Application
	if err := r.db.Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) AwardedApplications() ([]applications.Application, error) {
	var list []applications.Application
	err := r.db.Where("awarded = ?", true).Order("id").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) AccountsByID() (map[uint]accounts.Account, error) {
	var list []accounts.Account
	if err := r.db.Find(&list).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]accounts.Account, len(list))
	for _, account := range list {
		byID[account.ID] = account
	}
	return byID, nil
}

func (r *repository) ScholarshipsByID() (map[uint]scholarships.Scholarship, error) {
	var list []scholarships.Scholarship
	if err := r.db.Find(&list).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]scholarships.Scholarship, len(list))
	for _, s := range list {
		byID[s.ID] = s
	}
	return byID, nil
}
