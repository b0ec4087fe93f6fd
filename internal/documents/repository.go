package documents

import (
	"errors"

	"gorm.io/gorm"
)

var ErrDocumentNotFound = errors.New("document not found")

// Repository scopes every lookup to the owning account; a foreign
// document behaves exactly like a missing one.
type Repository interface {
	Create(document *Document) error
	GetOwned(id, accountID uint) (*Document, error)
	ListOwned(accountID uint) ([]Document, error)
	Delete(id, accountID uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(document *Document) error {
	return r.db.Create(document).Error
}

func (r *repository) GetOwned(id, accountID uint) (*Document, error) {
	var document Document
	err := r.db.Where("id = ? AND account_id = ?", id, accountID).
		First(&document).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &document, nil
}

func (r *repository) ListOwned(accountID uint) ([]Document, error) {
	var list []Document
	err := r.db.Where("account_id = ?", accountID).Order("id").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Delete(id, accountID uint) error {
	res := r.db.Where("id = ? AND account_id = ?", id, accountID).
		Delete(&Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
