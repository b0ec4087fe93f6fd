package accounts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_HashPassword(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "valid password",
			password: "testpassword123",
		},
		{
			name:     "empty password",
			password: "", // bcrypt handles empty passwords
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := svc.HashPassword(tt.password)
			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.True(t, svc.CheckPasswordHash(tt.password, hash))
		})
	}
}

func TestService_GenerateToken(t *testing.T) {
	svc := newTestService(t)

	account := &Account{Role: RoleReviewer, RoleApproved: true}
	account.ID = 42

	token, err := svc.GenerateToken(account)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.AccountID)
	assert.Equal(t, string(RoleReviewer), claims.Role)
	assert.True(t, claims.RoleApproved)
}

func TestService_ValidateToken(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name       string
		setupToken func() string
		wantErr    bool
	}{
		{
			name: "valid token",
			setupToken: func() string {
				account := &Account{Role: RoleApplicant}
				account.ID = 1
				token, _ := svc.GenerateToken(account)
				return token
			},
		},
		{
			name: "expired token",
			setupToken: func() string {
				expiredConfig := newTestConfig()
				expiredConfig.TokenExpiration = -time.Hour
				expiredSvc := NewService(
					expiredConfig,
					newTestLogger(t),
					newMockRepository(),
				)
				account := &Account{Role: RoleApplicant}
				account.ID = 1
				token, _ := expiredSvc.GenerateToken(account)
				return token
			},
			wantErr: true,
		},
		{
			name: "invalid token",
			setupToken: func() string {
				return "invalid.token.here"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.setupToken())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, uint(1), claims.AccountID)
		})
	}
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		setup   func(*Service)
		wantErr error
	}{
		{
			name:    "successful registration",
			account: Account{Username: "testuser", Email: "test@example.com"},
		},
		{
			name:    "duplicate username",
			account: Account{Username: "existing", Email: "new@example.com"},
			setup: func(s *Service) {
				registerTestAccount(t, s, "existing", "pass123")
			},
			wantErr: ErrAccountExists,
		},
		{
			name:    "duplicate email",
			account: Account{Username: "newuser", Email: "existing@example.com"},
			setup: func(s *Service) {
				_ = s.Register(&Account{Username: "someone", Email: "existing@example.com"}, "pass123")
			},
			wantErr: ErrAccountExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			if tt.setup != nil {
				tt.setup(svc)
			}

			err := svc.Register(&tt.account, "testpass123")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			stored, err := svc.repository.GetByUsername(tt.account.Username)
			require.NoError(t, err)
			assert.Equal(t, tt.account.Email, stored.Email)
			assert.Equal(t, RoleApplicant, stored.Role)
			assert.True(t, svc.CheckPasswordHash("testpass123", stored.PasswordHash))
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	svc := newTestService(t)
	registerTestAccount(t, svc, "student", "correct-horse")

	t.Run("unknown username", func(t *testing.T) {
		_, _, err := svc.Authenticate("nobody", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Authenticate("student", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		stored, err := svc.repository.GetByUsername("student")
		require.NoError(t, err)
		assert.Equal(t, 1, stored.FailedLoginAttempts)
		assert.False(t, stored.IsLocked)
	})

	t.Run("successful login resets the counter", func(t *testing.T) {
		token, account, err := svc.Authenticate("student", "correct-horse")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, 0, account.FailedLoginAttempts)

		stored, err := svc.repository.GetByUsername("student")
		require.NoError(t, err)
		assert.Equal(t, 0, stored.FailedLoginAttempts)
	})
}

func TestService_Authenticate_Lockout(t *testing.T) {
	svc := newTestService(t)
	registerTestAccount(t, svc, "student", "correct-horse")

	for i := 0; i < 5; i++ {
		_, _, err := svc.Authenticate("student", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	stored, err := svc.repository.GetByUsername("student")
	require.NoError(t, err)
	assert.True(t, stored.IsLocked)
	assert.Equal(t, 5, stored.FailedLoginAttempts)

	// Once locked, even the correct password is refused.
	_, _, err = svc.Authenticate("student", "correct-horse")
	assert.ErrorIs(t, err, ErrAccountLocked)

	// Unknown usernames never move any counter.
	_, _, err = svc.Authenticate("nobody", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	stored, err = svc.repository.GetByUsername("student")
	require.NoError(t, err)
	assert.Equal(t, 5, stored.FailedLoginAttempts)
}

func TestService_LockUnlock(t *testing.T) {
	svc := newTestService(t)
	account := registerTestAccount(t, svc, "student", "correct-horse")

	require.NoError(t, svc.Lock(account.ID))
	stored, err := svc.repository.GetByID(account.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsLocked)
	assert.Equal(t, 5, stored.FailedLoginAttempts)

	_, _, err = svc.Authenticate("student", "correct-horse")
	assert.ErrorIs(t, err, ErrAccountLocked)

	require.NoError(t, svc.Unlock(account.ID))
	stored, err = svc.repository.GetByID(account.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsLocked)
	assert.Equal(t, 0, stored.FailedLoginAttempts)

	_, _, err = svc.Authenticate("student", "correct-horse")
	assert.NoError(t, err)
}

func TestService_LockUnknownAccount(t *testing.T) {
	svc := newTestService(t)

	assert.ErrorIs(t, svc.Lock(99), ErrAccountNotFound)
	assert.ErrorIs(t, svc.Unlock(99), ErrAccountNotFound)
}

func TestService_UnlockRestoresLogin(t *testing.T) {
	svc := newTestService(t)
	account := registerTestAccount(t, svc, "student", "correct-horse")

	for i := 0; i < 5; i++ {
		_, _, _ = svc.Authenticate("student", "wrong")
	}
	stored, err := svc.repository.GetByID(account.ID)
	require.NoError(t, err)
	require.True(t, stored.IsLocked)

	require.NoError(t, svc.Unlock(account.ID))

	// Four fresh failures must not re-lock.
	for i := 0; i < 4; i++ {
		_, _, err = svc.Authenticate("student", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	stored, err = svc.repository.GetByID(account.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsLocked)
	assert.Equal(t, 4, stored.FailedLoginAttempts)
}

func TestService_SetPassword(t *testing.T) {
	svc := newTestService(t)
	account := registerTestAccount(t, svc, "student", "old-password")

	require.NoError(t, svc.SetPassword(account.ID, "new-password"))

	stored, err := svc.repository.GetByID(account.ID)
	require.NoError(t, err)
	assert.True(t, svc.CheckPasswordHash("new-password", stored.PasswordHash))
	assert.False(t, svc.CheckPasswordHash("old-password", stored.PasswordHash))
}

func TestService_ChangePassword(t *testing.T) {
	tests := []struct {
		name        string
		oldPassword string
		wantErr     error
	}{
		{
			name:        "correct current password",
			oldPassword: "old-password",
		},
		{
			name:        "wrong current password",
			oldPassword: "not-the-password",
			wantErr:     ErrPasswordMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			account := registerTestAccount(t, svc, "student", "old-password")

			err := svc.ChangePassword(account.ID, tt.oldPassword, "new-password")
			stored, getErr := svc.repository.GetByID(account.ID)
			require.NoError(t, getErr)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				// A failed change leaves the stored hash untouched.
				assert.True(t, svc.CheckPasswordHash("old-password", stored.PasswordHash))
				return
			}

			require.NoError(t, err)
			assert.True(t, svc.CheckPasswordHash("new-password", stored.PasswordHash))
		})
	}
}

func TestService_ApproveRole(t *testing.T) {
	svc := newTestService(t)
	admin := registerTestAccount(t, svc, "admin", "adminpass")

	pending := &Account{Username: "aspiring", Email: "aspiring@example.com"}
	require.NoError(t, svc.Register(pending, "pass123"))
	requested := RoleReviewer
	_, err := svc.UpdateAccount(pending.ID, AccountPatch{RequestedRole: &requested}, nil)
	require.NoError(t, err)

	count, err := svc.CountPendingRoleRequests()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	approved, err := svc.ApproveRole(pending.ID, &admin.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleReviewer, approved.Role)
	assert.Nil(t, approved.RequestedRole)
	assert.True(t, approved.RoleApproved)

	count, err = svc.CountPendingRoleRequests()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// A second approval finds no pending request.
	_, err = svc.ApproveRole(pending.ID, &admin.ID)
	assert.ErrorIs(t, err, ErrNoPendingRequest)

	history, err := svc.History(pending.ID)
	require.NoError(t, err)
	fields := make([]string, 0, len(history))
	for _, entry := range history {
		fields = append(fields, entry.FieldName)
	}
	assert.Contains(t, fields, "role")
	assert.Contains(t, fields, "role_approved")
}

func TestService_UpdateAccount(t *testing.T) {
	svc := newTestService(t)
	account := registerTestAccount(t, svc, "student", "pass123")

	gpa := 3.7
	major := "Computer Science"
	updated, err := svc.UpdateAccount(account.ID, AccountPatch{GPA: &gpa, Major: &major}, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.GPA)
	assert.Equal(t, 3.7, *updated.GPA)
	assert.Equal(t, "Computer Science", updated.Major)

	history, err := svc.History(account.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	// Patching with the same values appends nothing.
	_, err = svc.UpdateAccount(account.ID, AccountPatch{GPA: &gpa, Major: &major}, nil)
	require.NoError(t, err)
	history, err = svc.History(account.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestService_UpdateAccount_InvalidRole(t *testing.T) {
	svc := newTestService(t)
	account := registerTestAccount(t, svc, "student", "pass123")

	badRole := Role("wizard")
	_, err := svc.UpdateAccount(account.ID, AccountPatch{Role: &badRole}, nil)
	assert.Error(t, err)
}

func TestService_CountLocked(t *testing.T) {
	svc := newTestService(t)
	first := registerTestAccount(t, svc, "first", "pass123")
	registerTestAccount(t, svc, "second", "pass123")

	count, err := svc.CountLocked()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, svc.Lock(first.ID))
	count, err = svc.CountLocked()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestService_DeleteAccount(t *testing.T) {
	svc := newTestService(t)
	account := registerTestAccount(t, svc, "student", "pass123")

	require.NoError(t, svc.DeleteAccount(account.ID))
	_, err := svc.GetAccount(account.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	assert.ErrorIs(t, svc.DeleteAccount(account.ID), ErrAccountNotFound)
}
