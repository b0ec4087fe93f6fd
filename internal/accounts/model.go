package accounts

import (
	"time"
)

type Role string

const (
	RoleApplicant Role = "applicant"
	RoleReviewer  Role = "reviewer"
	RoleDonor     Role = "donor"
	RoleAdmin     Role = "admin"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleApplicant, RoleReviewer, RoleDonor, RoleAdmin:
		return true
	}
	return false
}

type Account struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	NetID     string `json:"net_id"`

	SecurityQuestion1 string `json:"security_question1"`
	SecurityAnswer1   string `json:"-"`
	SecurityQuestion2 string `json:"security_question2"`
	SecurityAnswer2   string `json:"-"`

	GPA   *float64 `json:"gpa"`
	Major string   `json:"major"`

	// The effective role grants permissions; a requested role grants
	// nothing until an admin promotes it.
	Role          Role  `gorm:"type:varchar(20);not null;default:applicant" json:"role"`
	RequestedRole *Role `gorm:"type:varchar(20)" json:"requested_role"`
	RoleApproved  bool  `gorm:"not null;default:false" json:"role_approved"`

	FailedLoginAttempts int  `gorm:"not null;default:0" json:"failed_login_attempts"`
	IsLocked            bool `gorm:"not null;default:false" json:"is_locked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) IsStaff() bool {
	return a.Role == RoleAdmin
}

// ChangeHistory is an append-only audit record of a tracked field
// mutation. ChangedBy is nil when the acting account has been deleted.
type ChangeHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"index;not null" json:"account_id"`
	FieldName string    `gorm:"not null" json:"field_name"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	ChangedBy *uint     `json:"changed_by"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (ChangeHistory) TableName() string {
	return "account_change_history"
}
