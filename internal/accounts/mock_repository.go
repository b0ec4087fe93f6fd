package accounts

import (
	"sync"
	"time"
)

type mockRepository struct {
	mu         sync.RWMutex
	accounts   map[uint]*Account
	byUsername map[string]uint
	byEmail    map[string]uint
	history    []ChangeHistory
	nextID     uint
}

func newMockRepository() Repository {
	return &mockRepository{
		accounts:   make(map[uint]*Account),
		byUsername: make(map[string]uint),
		byEmail:    make(map[string]uint),
	}
}

func (r *mockRepository) Create(account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[account.Username]; exists {
		return ErrAccountExists
	}
	if _, exists := r.byEmail[account.Email]; exists {
		return ErrAccountExists
	}

	r.nextID++
	account.ID = r.nextID
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()

	clone := *account
	r.accounts[account.ID] = &clone
	r.byUsername[account.Username] = account.ID
	r.byEmail[account.Email] = account.ID
	return nil
}

func (r *mockRepository) GetByID(id uint) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[id]
	if !exists {
		return nil, ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func (r *mockRepository) GetByUsername(username string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byUsername[username]
	if !exists {
		return nil, ErrAccountNotFound
	}
	clone := *r.accounts[id]
	return &clone, nil
}

func (r *mockRepository) GetByEmail(email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byEmail[email]
	if !exists {
		return nil, ErrAccountNotFound
	}
	clone := *r.accounts[id]
	return &clone, nil
}

func (r *mockRepository) List() ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Account, 0, len(r.accounts))
	for id := uint(1); id <= r.nextID; id++ {
		if account, exists := r.accounts[id]; exists {
			list = append(list, *account)
		}
	}
	return list, nil
}

func (r *mockRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return ErrAccountNotFound
	}
	delete(r.byUsername, account.Username)
	delete(r.byEmail, account.Email)
	delete(r.accounts, id)

	kept := r.history[:0]
	for _, entry := range r.history {
		if entry.AccountID == id {
			continue
		}
		if entry.ChangedBy != nil && *entry.ChangedBy == id {
			entry.ChangedBy = nil
		}
		kept = append(kept, entry)
	}
	r.history = kept
	return nil
}

func (r *mockRepository) RecordFailedLogin(id uint, lockThreshold int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return false, ErrAccountNotFound
	}
	account.FailedLoginAttempts++
	if account.FailedLoginAttempts >= lockThreshold {
		account.IsLocked = true
	}
	return account.IsLocked, nil
}

func (r *mockRepository) ResetLoginAttempts(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return ErrAccountNotFound
	}
	account.FailedLoginAttempts = 0
	return nil
}

func (r *mockRepository) SetLockState(id uint, locked bool, attempts int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return ErrAccountNotFound
	}
	account.IsLocked = locked
	account.FailedLoginAttempts = attempts
	return nil
}

func (r *mockRepository) UpdatePassword(id uint, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return ErrAccountNotFound
	}
	account.PasswordHash = hash
	return nil
}

func (r *mockRepository) UpdatePasswordChecked(id uint, verify func(currentHash string) error, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return ErrAccountNotFound
	}
	if err := verify(account.PasswordHash); err != nil {
		return err
	}
	account.PasswordHash = newHash
	return nil
}

func (r *mockRepository) SaveWithHistory(account *Account, history []ChangeHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.accounts[account.ID]
	if !exists {
		return ErrAccountNotFound
	}
	delete(r.byUsername, stored.Username)
	delete(r.byEmail, stored.Email)

	clone := *account
	r.accounts[account.ID] = &clone
	r.byUsername[account.Username] = account.ID
	r.byEmail[account.Email] = account.ID

	for _, entry := range history {
		entry.Timestamp = time.Now()
		r.history = append(r.history, entry)
	}
	return nil
}

func (r *mockRepository) ApproveRole(id uint, changedBy *uint) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return nil, ErrAccountNotFound
	}
	if account.RequestedRole == nil || account.RoleApproved {
		return nil, ErrNoPendingRequest
	}

	r.history = append(r.history,
		ChangeHistory{AccountID: id, FieldName: "role", OldValue: string(account.Role), NewValue: string(*account.RequestedRole), ChangedBy: changedBy, Timestamp: time.Now()},
		ChangeHistory{AccountID: id, FieldName: "role_approved", OldValue: "false", NewValue: "true", ChangedBy: changedBy, Timestamp: time.Now()},
	)

	account.Role = *account.RequestedRole
	account.RequestedRole = nil
	account.RoleApproved = true

	clone := *account
	return &clone, nil
}

func (r *mockRepository) PendingRoleRequests() ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []Account
	for id := uint(1); id <= r.nextID; id++ {
		account, exists := r.accounts[id]
		if !exists {
			continue
		}
		if account.RequestedRole != nil && !account.RoleApproved {
			list = append(list, *account)
		}
	}
	return list, nil
}

func (r *mockRepository) CountPendingRoleRequests() (int64, error) {
	list, err := r.PendingRoleRequests()
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (r *mockRepository) CountLocked() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, account := range r.accounts {
		if account.IsLocked {
			count++
		}
	}
	return count, nil
}

func (r *mockRepository) HistoryFor(accountID uint) ([]ChangeHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []ChangeHistory
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].AccountID == accountID {
			list = append(list, r.history[i])
		}
	}
	return list, nil
}
