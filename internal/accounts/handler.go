package accounts

import (
	"errors"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

type createAccountRequest struct {
	Username          string   `json:"username" validate:"required,min=3,max=32"`
	Password          string   `json:"password" validate:"required,min=8"`
	Email             string   `json:"email" validate:"required"`
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	Phone             string   `json:"phone"`
	NetID             string   `json:"net_id"`
	SecurityQuestion1 string   `json:"security_question1"`
	SecurityAnswer1   string   `json:"security_answer1"`
	SecurityQuestion2 string   `json:"security_question2"`
	SecurityAnswer2   string   `json:"security_answer2"`
	GPA               *float64 `json:"gpa"`
	Major             string   `json:"major"`
	RequestedRole     string   `json:"requested_role" validate:"omitempty,oneof=applicant reviewer donor admin"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type setPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// profilePatchRequest is the self-service subset of AccountPatch. Role,
// approval, and lock state are absent: those mutate only through the
// staff routes.
type profilePatchRequest struct {
	Email         *string  `json:"email"`
	FirstName     *string  `json:"first_name"`
	LastName      *string  `json:"last_name"`
	Phone         *string  `json:"phone"`
	NetID         *string  `json:"net_id"`
	GPA           *float64 `json:"gpa"`
	Major         *string  `json:"major"`
	RequestedRole *Role    `json:"requested_role"`
}

// Create handles public signup. New accounts start as applicants with an
// unapproved, optional requested role.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		h.log.Warn("invalid signup request", zap.Error(err))
		return badRequest(c, err.Error())
	}
	if !isValidEmail(req.Email) {
		return badRequest(c, "invalid email format")
	}

	account := &Account{
		Username:          req.Username,
		Email:             req.Email,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Phone:             req.Phone,
		NetID:             req.NetID,
		SecurityQuestion1: req.SecurityQuestion1,
		SecurityAnswer1:   req.SecurityAnswer1,
		SecurityQuestion2: req.SecurityQuestion2,
		SecurityAnswer2:   req.SecurityAnswer2,
		GPA:               req.GPA,
		Major:             req.Major,
		Role:              RoleApplicant,
	}
	if req.RequestedRole != "" {
		requested := Role(req.RequestedRole)
		account.RequestedRole = &requested
	}

	if err := h.service.Register(account, req.Password); err != nil {
		if errors.Is(err, ErrAccountExists) {
			return c.Status(fiber.StatusConflict).
				JSON(fiber.Map{"error": "username or email already registered"})
		}
		h.log.Error("failed to create account", zap.Error(err))
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	token, account, err := h.service.Authenticate(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			return badRequest(c, "Invalid credentials")
		case errors.Is(err, ErrAccountLocked):
			return c.Status(fiber.StatusForbidden).
				JSON(fiber.Map{"error": "Account is locked due to too many failed login attempts."})
		default:
			h.log.Error("login failed",
				zap.String("username", req.Username), zap.Error(err))
			return internalError(c)
		}
	}

	return c.JSON(fiber.Map{
		"message":       "Login successful",
		"access":        token,
		"role":          account.Role,
		"role_approved": account.RoleApproved,
	})
}

func (h *Handler) Lock(c *fiber.Ctx) error {
	id, err := accountIDParam(c)
	if err != nil {
		return badRequest(c, "invalid account id")
	}
	if err := h.service.Lock(id); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User account has been locked."})
}

func (h *Handler) Unlock(c *fiber.Ctx) error {
	id, err := accountIDParam(c)
	if err != nil {
		return badRequest(c, "invalid account id")
	}
	if err := h.service.Unlock(id); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User account has been unlocked."})
}

func (h *Handler) SetPassword(c *fiber.Ctx) error {
	claims, err := ClaimsFromCtx(c)
	if err != nil {
		return permissionDenied(c)
	}
	var req setPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "Password is required.")
	}

	if err := h.service.SetPassword(claims.AccountID, req.Password); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "An error occurred while setting the password."})
	}
	return c.JSON(fiber.Map{"message": "Password set successfully."})
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	claims, err := ClaimsFromCtx(c)
	if err != nil {
		return permissionDenied(c)
	}
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.ChangePassword(claims.AccountID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return badRequest(c, "Current password is incorrect.")
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "An error occurred while changing the password."})
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully."})
}

func (h *Handler) RoleRequests(c *fiber.Ctx) error {
	list, err := h.service.PendingRoleRequests()
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) RoleApprove(c *fiber.Ctx) error {
	id, err := accountIDParam(c)
	if err != nil {
		return badRequest(c, "invalid account id")
	}
	account, err := h.service.ApproveRole(id, h.actorID(c))
	if err != nil {
		if errors.Is(err, ErrNoPendingRequest) {
			return badRequest(c, "no pending role request for this account")
		}
		return h.mapError(c, err)
	}
	return c.JSON(account)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := accountIDParam(c)
	if err != nil {
		return badRequest(c, "invalid account id")
	}
	var patch AccountPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}

	account, err := h.service.UpdateAccount(id, patch, h.actorID(c))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return notFound(c)
		}
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return badRequest(c, err.Error())
		}
		h.log.Error("failed to update account",
			zap.Uint("account_id", id), zap.Error(err))
		return badRequest(c, err.Error())
	}
	return c.JSON(account)
}

// UpdateProfile applies the self-service patch. Unknown fields in the
// body, role and lock state included, are dropped by the bind.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	id, err := accountIDParam(c)
	if err != nil {
		return badRequest(c, "invalid account id")
	}
	var req profilePatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	patch := AccountPatch{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		NetID:         req.NetID,
		GPA:           req.GPA,
		Major:         req.Major,
		RequestedRole: req.RequestedRole,
	}
	if req.Email != nil && !isValidEmail(*req.Email) {
		return badRequest(c, "invalid email format")
	}

	account, err := h.service.UpdateAccount(id, patch, h.actorID(c))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return notFound(c)
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(account)
}

func (h *Handler) PendingCount(c *fiber.Ctx) error {
	count, err := h.service.CountPendingRoleRequests()
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"pendingCount": count})
}

func (h *Handler) LockedCount(c *fiber.Ctx) error {
	count, err := h.service.CountLocked()
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"lockedUserCount": count})
}

func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.service.ListAccounts()
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := accountIDParam(c)
	if err != nil {
		return badRequest(c, "invalid account id")
	}
	account, err := h.service.GetAccount(id)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(account)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := accountIDParam(c)
	if err != nil {
		return badRequest(c, "invalid account id")
	}
	if err := h.service.DeleteAccount(id); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History returns the account's tracked field changes, newest first.
func (h *Handler) History(c *fiber.Ctx) error {
	id, err := accountIDParam(c)
	if err != nil {
		return badRequest(c, "invalid account id")
	}
	list, err := h.service.History(id)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	claims, err := ClaimsFromCtx(c)
	if err != nil {
		return permissionDenied(c)
	}
	account, err := h.service.GetAccount(claims.AccountID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(account)
}

func (h *Handler) actorID(c *fiber.Ctx) *uint {
	claims, err := ClaimsFromCtx(c)
	if err != nil {
		return nil
	}
	id := claims.AccountID
	return &id
}

func (h *Handler) mapError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrAccountNotFound) {
		return notFound(c)
	}
	h.log.Error("account operation failed", zap.Error(err))
	return internalError(c)
}

func accountIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errors.New("invalid account id")
	}
	return uint(id), nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).
		JSON(fiber.Map{"error": "internal server error"})
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
