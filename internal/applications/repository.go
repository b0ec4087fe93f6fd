package applications

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrApplicationNotFound = errors.New("application not found")

// ListFilter narrows the application listing: by scholarship, or by an
// equality check against one key of the answer payload.
type ListFilter struct {
	ScholarshipID *uint
	Field         string
	Value         string
}

type Repository interface {
	Create(application *Application) error
	GetByID(id uint) (*Application, error)
	List(filter ListFilter) ([]Application, error)
	Save(application *Application) error
	Delete(id uint) error
	SaveMatchResults(results []MatchResult) error
	MatchResultsFor(applicationID uint) ([]MatchResult, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(application *Application) error {
	return r.db.Create(application).Error
}

func (r *repository) GetByID(id uint) (*Application, error) {
	var application Application
	if err := r.db.First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *repository) List(filter ListFilter) ([]Application, error) {
	query := r.db.Model(&Application{})
	if filter.ScholarshipID != nil {
		query = query.Where("scholarship_id = ?", *filter.ScholarshipID)
	}
	if filter.Field != "" && filter.Value != "" {
		query = query.Where(datatypes.JSONQuery("data").Equals(filter.Value, filter.Field))
	}

	var list []Application
	if err := query.Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Save(application *Application) error {
	return r.db.Save(application).Error
}

func (r *repository) Delete(id uint) error {
	res := r.db.Delete(&Application{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// SaveMatchResults persists a whole matching run or nothing at all.
func (r *repository) SaveMatchResults(results []MatchResult) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&results).Error
	})
}

func (r *repository) MatchResultsFor(applicationID uint) ([]MatchResult, error) {
	var list []MatchResult
	err := r.db.Where("application_id = ?", applicationID).Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
