package accounts

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/scholarbase/backend/internal/config"
	"github.com/scholarbase/backend/internal/metrics"
)

type Service struct {
	config     *config.AuthConfig
	log        *zap.Logger
	repository Repository
}

type Claims struct {
	AccountID    uint   `json:"account_id"`
	Role         string `json:"role"`
	RoleApproved bool   `json:"role_approved"`
	jwt.RegisteredClaims
}

func NewService(config *config.AuthConfig, log *zap.Logger, repo Repository) *Service {
	return &Service{
		config:     config,
		log:        log,
		repository: repo,
	}
}

func (s *Service) Repository() Repository {
	return s.repository
}

func (s *Service) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (s *Service) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *Service) GenerateToken(account *Account) (string, error) {
	expirationTime := time.Now().Add(s.config.TokenExpiration)
	claims := &Claims{
		AccountID:    account.ID,
		Role:         string(account.Role),
		RoleApproved: account.RoleApproved,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(account.ID), 10),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (s *Service) Register(account *Account, password string) error {
	if _, err := s.repository.GetByUsername(account.Username); err == nil {
		return ErrAccountExists
	}
	if _, err := s.repository.GetByEmail(account.Email); err == nil {
		return ErrAccountExists
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return err
	}
	account.PasswordHash = hashedPassword

	if account.Role == "" {
		account.Role = RoleApplicant
	}

	return s.repository.Create(account)
}

// Authenticate verifies credentials and returns a signed token together
// with the account snapshot. Unknown usernames and wrong passwords both
// come back as ErrInvalidCredentials; only wrong passwords against an
// existing account move the lockout counter.
func (s *Service) Authenticate(username, password string) (string, *Account, error) {
	account, err := s.repository.GetByUsername(username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			s.HashPassword("dummy") // Prevent timing attacks
			metrics.FailedLoginsTotal.Inc()
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if account.IsLocked {
		s.log.Warn("login attempt against locked account",
			zap.String("username", username))
		return "", nil, ErrAccountLocked
	}

	if !s.CheckPasswordHash(password, account.PasswordHash) {
		metrics.FailedLoginsTotal.Inc()
		locked, err := s.repository.RecordFailedLogin(account.ID, s.config.MaxFailedLogins)
		if err != nil {
			s.log.Error("failed to record login attempt",
				zap.String("username", username), zap.Error(err))
			return "", nil, err
		}
		if locked {
			metrics.LockoutsTotal.Inc()
			s.log.Warn("account locked after repeated failures",
				zap.String("username", username))
		}
		return "", nil, ErrInvalidCredentials
	}

	if err := s.repository.ResetLoginAttempts(account.ID); err != nil {
		return "", nil, err
	}
	account.FailedLoginAttempts = 0

	token, err := s.GenerateToken(account)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.Inc()
	return token, account, nil
}

// Lock pins the failure counter at the threshold so a later unlock does
// not leave a near-threshold count behind. Idempotent.
func (s *Service) Lock(id uint) error {
	return s.repository.SetLockState(id, true, s.config.MaxFailedLogins)
}

func (s *Service) Unlock(id uint) error {
	return s.repository.SetLockState(id, false, 0)
}

func (s *Service) SetPassword(id uint, password string) error {
	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repository.UpdatePassword(id, hash); err != nil {
		s.log.Error("failed to set password",
			zap.Uint("account_id", id), zap.Error(err))
		return err
	}
	s.log.Info("password set", zap.Uint("account_id", id))
	return nil
}

func (s *Service) ChangePassword(id uint, oldPassword, newPassword string) error {
	newHash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	err = s.repository.UpdatePasswordChecked(id, func(currentHash string) error {
		if !s.CheckPasswordHash(oldPassword, currentHash) {
			return ErrPasswordMismatch
		}
		return nil
	}, newHash)
	if err != nil {
		if !errors.Is(err, ErrPasswordMismatch) {
			s.log.Error("failed to change password",
				zap.Uint("account_id", id), zap.Error(err))
		}
		return err
	}
	s.log.Info("password changed", zap.Uint("account_id", id))
	return nil
}

func (s *Service) PendingRoleRequests() ([]Account, error) {
	return s.repository.PendingRoleRequests()
}

func (s *Service) CountPendingRoleRequests() (int64, error) {
	return s.repository.CountPendingRoleRequests()
}

func (s *Service) CountLocked() (int64, error) {
	return s.repository.CountLocked()
}

func (s *Service) ApproveRole(id uint, changedBy *uint) (*Account, error) {
	return s.repository.ApproveRole(id, changedBy)
}

// AccountPatch carries the generic admin field update. Nil fields are
// left untouched.
type AccountPatch struct {
	Email         *string  `json:"email"`
	FirstName     *string  `json:"first_name"`
	LastName      *string  `json:"last_name"`
	Phone         *string  `json:"phone"`
	NetID         *string  `json:"net_id"`
	GPA           *float64 `json:"gpa"`
	Major         *string  `json:"major"`
	Role          *Role    `json:"role"`
	RequestedRole *Role    `json:"requested_role"`
	RoleApproved  *bool    `json:"role_approved"`
	IsLocked      *bool    `json:"is_locked"`
}

func (p *AccountPatch) Validate() error {
	if p.Role != nil && !ValidRole(*p.Role) {
		return fmt.Errorf("invalid role %q", *p.Role)
	}
	if p.RequestedRole != nil && *p.RequestedRole != "" && !ValidRole(*p.RequestedRole) {
		return fmt.Errorf("invalid requested role %q", *p.RequestedRole)
	}
	return nil
}

// UpdateAccount applies a field patch and appends one ChangeHistory row
// per tracked field that actually changed.
func (s *Service) UpdateAccount(id uint, patch AccountPatch, changedBy *uint) (*Account, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	account, err := s.repository.GetByID(id)
	if err != nil {
		return nil, err
	}

	var history []ChangeHistory
	track := func(field, oldValue, newValue string) {
		if oldValue == newValue {
			return
		}
		history = append(history, ChangeHistory{
			AccountID: account.ID,
			FieldName: field,
			OldValue:  oldValue,
			NewValue:  newValue,
			ChangedBy: changedBy,
		})
	}

	if patch.Email != nil {
		track("email", account.Email, *patch.Email)
		account.Email = *patch.Email
	}
	if patch.FirstName != nil {
		track("first_name", account.FirstName, *patch.FirstName)
		account.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		track("last_name", account.LastName, *patch.LastName)
		account.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		track("phone", account.Phone, *patch.Phone)
		account.Phone = *patch.Phone
	}
	if patch.NetID != nil {
		track("net_id", account.NetID, *patch.NetID)
		account.NetID = *patch.NetID
	}
	if patch.GPA != nil {
		track("gpa", formatGPA(account.GPA), strconv.FormatFloat(*patch.GPA, 'f', -1, 64))
		account.GPA = patch.GPA
	}
	if patch.Major != nil {
		track("major", account.Major, *patch.Major)
		account.Major = *patch.Major
	}
	if patch.Role != nil {
		track("role", string(account.Role), string(*patch.Role))
		account.Role = *patch.Role
	}
	if patch.RequestedRole != nil {
		oldValue := ""
		if account.RequestedRole != nil {
			oldValue = string(*account.RequestedRole)
		}
		if *patch.RequestedRole == "" {
			track("requested_role", oldValue, "")
			account.RequestedRole = nil
		} else {
			track("requested_role", oldValue, string(*patch.RequestedRole))
			account.RequestedRole = patch.RequestedRole
		}
	}
	if patch.RoleApproved != nil {
		track("role_approved", strconv.FormatBool(account.RoleApproved), strconv.FormatBool(*patch.RoleApproved))
		account.RoleApproved = *patch.RoleApproved
		if *patch.RoleApproved && patch.Role == nil {
			// The generic patch can approve without promoting; the
			// role-approve endpoint is the path that keeps the two in step.
			s.log.Warn("role_approved set without a role change",
				zap.Uint("account_id", account.ID))
		}
	}
	if patch.IsLocked != nil {
		track("is_locked", strconv.FormatBool(account.IsLocked), strconv.FormatBool(*patch.IsLocked))
		account.IsLocked = *patch.IsLocked
	}

	if err := s.repository.SaveWithHistory(account, history); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) GetAccount(id uint) (*Account, error) {
	return s.repository.GetByID(id)
}

func (s *Service) ListAccounts() ([]Account, error) {
	return s.repository.List()
}

func (s *Service) DeleteAccount(id uint) error {
	return s.repository.Delete(id)
}

func (s *Service) History(accountID uint) ([]ChangeHistory, error) {
	return s.repository.HistoryFor(accountID)
}

func formatGPA(gpa *float64) string {
	if gpa == nil {
		return ""
	}
	return strconv.FormatFloat(*gpa, 'f', -1, 64)
}
