package scholarships

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrScholarshipNotFound = errors.New("scholarship not found")

type Repository interface {
	Create(s *Scholarship) error
	GetByID(id uint) (*Scholarship, error)
	List() ([]Scholarship, error)
	ListActive() ([]Scholarship, error)
	ListInactive() ([]Scholarship, error)
	ByDonor(donorID int64) ([]Scholarship, error)
	Save(s *Scholarship) error
	Delete(id uint) error
	Summary() (*Summary, error)
	SetBookmark(accountID, scholarshipID uint, saved bool) error
	BookmarkCount(scholarshipID uint) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(s *Scholarship) error {
	return r.db.Create(s).Error
}

func (r *repository) GetByID(id uint) (*Scholarship, error) {
	var s Scholarship
	if err := r.db.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScholarshipNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) List() ([]Scholarship, error) {
	var list []Scholarship
	if err := r.db.Order("deadline").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ListActive() ([]Scholarship, error) {
	var list []Scholarship
	if err := r.db.Where("is_active = ?", true).Order("deadline").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ListInactive() ([]Scholarship, error) {
	var list []Scholarship
	if err := r.db.Where("is_active = ?", false).Order("deadline").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ByDonor(donorID int64) ([]Scholarship, error) {
	var list []Scholarship
	err := r.db.Where("donor_id = ? AND is_active = ?", donorID, true).
		Order("deadline").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Save(s *Scholarship) error {
	return r.db.Save(s).Error
}

func (r *repository) Delete(id uint) error {
	res := r.db.Delete(&Scholarship{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrScholarshipNotFound
	}
	return nil
}

func (r *repository) Summary() (*Summary, error) {
	var summary Summary
	if err := r.db.Model(&Scholarship{}).Count(&summary.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&Scholarship{}).
		Where("is_active = ?", true).Count(&summary.Active).Error; err != nil {
		return nil, err
	}
	summary.Inactive = summary.Total - summary.Active

	if summary.Total > 0 {
		var avg float64
		err := r.db.Model(&Scholarship{}).
			Select("AVG(amount)").Scan(&avg).Error
		if err != nil {
			return nil, err
		}
		summary.AverageAmount = &avg
	}
	return &summary, nil
}

// SetBookmark adds or removes the (account, scholarship) pair. Both
// directions are idempotent.
func (r *repository) SetBookmark(accountID, scholarshipID uint, saved bool) error {
	if saved {
		return r.db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&Bookmark{AccountID: accountID, ScholarshipID: scholarshipID}).Error
	}
	return r.db.Where("account_id = ? AND scholarship_id = ?", accountID, scholarshipID).
		Delete(&Bookmark{}).Error
}

func (r *repository) BookmarkCount(scholarshipID uint) (int64, error) {
	var count int64
	err := r.db.Model(&Bookmark{}).
		Where("scholarship_id = ?", scholarshipID).Count(&count).Error
	return count, err
}
