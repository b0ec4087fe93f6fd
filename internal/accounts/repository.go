package accounts

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked")
	ErrPasswordMismatch   = errors.New("current password is incorrect")
	ErrNoPendingRequest   = errors.New("no pending role request")
)

type Repository interface {
	Create(account *Account) error
	GetByID(id uint) (*Account, error)
	GetByUsername(username string) (*Account, error)
	GetByEmail(email string) (*Account, error)
	List() ([]Account, error)
	Delete(id uint) error

	RecordFailedLogin(id uint, lockThreshold int) (locked bool, err error)
	ResetLoginAttempts(id uint) error
	SetLockState(id uint, locked bool, attempts int) error

	UpdatePassword(id uint, hash string) error
	UpdatePasswordChecked(id uint, verify func(currentHash string) error, newHash string) error

	SaveWithHistory(account *Account, history []ChangeHistory) error
	ApproveRole(id uint, changedBy *uint) (*Account, error)

	PendingRoleRequests() ([]Account, error)
	CountPendingRoleRequests() (int64, error)
	CountLocked() (int64, error)
	HistoryFor(accountID uint) ([]ChangeHistory, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(account *Account) error {
	return r.db.Create(account).Error
}

func (r *repository) GetByID(id uint) (*Account, error) {
	var account Account
	if err := r.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) GetByUsername(username string) (*Account, error) {
	var account Account
	if err := r.db.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) GetByEmail(email string) (*Account, error) {
	var account Account
	if err := r.db.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) List() ([]Account, error) {
	var list []Account
	if err := r.db.Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Delete(id uint) error {
	res := r.db.Delete(&Account{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// RecordFailedLogin increments the failure counter under a row lock and
// flips is_locked once the counter reaches the threshold.
func (r *repository) RecordFailedLogin(id uint, lockThreshold int) (bool, error) {
	locked := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var account Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&account, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		account.FailedLoginAttempts++
		if account.FailedLoginAttempts >= lockThreshold {
			account.IsLocked = true
		}
		locked = account.IsLocked

		return tx.Model(&account).Updates(map[string]interface{}{
			"failed_login_attempts": account.FailedLoginAttempts,
			"is_locked":             account.IsLocked,
		}).Error
	})
	return locked, err
}

func (r *repository) ResetLoginAttempts(id uint) error {
	return r.db.Model(&Account{}).Where("id = ?", id).
		Update("failed_login_attempts", 0).Error
}

func (r *repository) SetLockState(id uint, locked bool, attempts int) error {
	res := r.db.Model(&Account{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_locked":             locked,
		"failed_login_attempts": attempts,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *repository) UpdatePassword(id uint, hash string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Account{}).Where("id = ?", id).Update("password_hash", hash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAccountNotFound
		}
		return nil
	})
}

// UpdatePasswordChecked verifies the current hash and writes the new one
// inside a single transaction, so either both are visible or neither.
func (r *repository) UpdatePasswordChecked(id uint, verify func(currentHash string) error, newHash string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var account Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&account, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		if err := verify(account.PasswordHash); err != nil {
			return err
		}

		return tx.Model(&account).Update("password_hash", newHash).Error
	})
}

func (r *repository) SaveWithHistory(account *Account, history []ChangeHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(account).Error; err != nil {
			return err
		}
		if len(history) > 0 {
			if err := tx.Create(&history).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ApproveRole promotes requested_role into role and marks the request
// approved in one transaction. There is no other path that sets
// role_approved together with a role change.
func (r *repository) ApproveRole(id uint, changedBy *uint) (*Account, error) {
	var account Account
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&account, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		if account.RequestedRole == nil || account.RoleApproved {
			return ErrNoPendingRequest
		}

		history := []ChangeHistory{
			{AccountID: account.ID, FieldName: "role", OldValue: string(account.Role), NewValue: string(*account.RequestedRole), ChangedBy: changedBy},
			{AccountID: account.ID, FieldName: "role_approved", OldValue: "false", NewValue: "true", ChangedBy: changedBy},
		}

		account.Role = *account.RequestedRole
		account.RequestedRole = nil
		account.RoleApproved = true

		if err := tx.Model(&account).Updates(map[string]interface{}{
			"role":           account.Role,
			"requested_role": nil,
			"role_approved":  true,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) PendingRoleRequests() ([]Account, error) {
	var list []Account
	err := r.db.Where("requested_role IS NOT NULL AND role_approved = ?", false).
		Order("id").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) CountPendingRoleRequests() (int64, error) {
	var count int64
	err := r.db.Model(&Account{}).
		Where("requested_role IS NOT NULL AND role_approved = ?", false).
		Count(&count).Error
	return count, err
}

func (r *repository) CountLocked() (int64, error) {
	var count int64
	err := r.db.Model(&Account{}).Where("is_locked = ?", true).Count(&count).Error
	return count, err
}

func (r *repository) HistoryFor(accountID uint) ([]ChangeHistory, error) {
	var list []ChangeHistory
	err := r.db.Where("account_id = ?", accountID).
		Order("timestamp DESC").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
