package applications

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/scholarbase/backend/internal/accounts"
	"github.com/scholarbase/backend/internal/scholarships"
)

var validate = validator.New()

type Handler struct {
	service  *Service
	accounts *accounts.Service
	log      *zap.Logger
}

func NewHandler(service *Service, accountsService *accounts.Service, log *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		accounts: accountsService,
		log:      log,
	}
}

type createApplicationRequest struct {
	ScholarshipID uint                   `json:"scholarship_id" validate:"required"`
	Data          map[string]interface{} `json:"data"`
}

type updateApplicationRequest struct {
	Data map[string]interface{} `json:"data" validate:"required"`
}

type favoriteRequest struct {
	Favorite *bool `json:"favorite"`
}

type awardRequest struct {
	Awarded *bool `json:"awarded"`
}

func (h *Handler) List(c *fiber.Ctx) error {
	var filter ListFilter
	// A malformed scholarship filter is ignored, matching the original
	// behavior.
	if id := c.QueryInt("scholarship"); id > 0 {
		sid := uint(id)
		filter.ScholarshipID = &sid
	}
	filter.Field = c.Query("field")
	filter.Value = c.Query("value")

	list, err := h.service.List(filter)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(list)
}

// Create binds the new application to the authenticated applicant.
func (h *Handler) Create(c *fiber.Ctx) error {
	claims, err := accounts.ClaimsFromCtx(c)
	if err != nil {
		return permissionDenied(c)
	}

	var req createApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	application := &Application{
		ApplicantID:   claims.AccountID,
		ScholarshipID: req.ScholarshipID,
		Data:          req.Data,
	}
	if err := h.service.Submit(application); err != nil {
		if errors.Is(err, scholarships.ErrScholarshipNotFound) {
			return badRequest(c, "Scholarship with this ID does not exist.")
		}
		h.log.Error("failed to create application", zap.Error(err))
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(application)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid application id")
	}
	application, err := h.service.Get(id)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(application)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	application, err := h.ownedApplication(c)
	if err != nil {
		return h.gateError(c, err)
	}

	var req updateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.service.UpdateData(application.ID, req.Data)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	application, err := h.ownedApplication(c)
	if err != nil {
		return h.gateError(c, err)
	}
	if err := h.service.Delete(application.ID); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Favorite(c *fiber.Ctx) error {
	application, err := h.ownedApplication(c)
	if err != nil {
		return h.gateError(c, err)
	}

	var req favoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Favorite == nil {
		return badRequest(c, "Missing 'favorite' field.")
	}

	updated, err := h.service.SetFavorite(application.ID, *req.Favorite)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(updated)
}

// Award flips the awarded flag; staff only, enforced by the route gate.
func (h *Handler) Award(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid application id")
	}
	var req awardRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Awarded == nil {
		return badRequest(c, "Missing 'awarded' field.")
	}

	updated, err := h.service.SetAwarded(id, *req.Awarded)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(updated)
}

// Match runs the scoring pass for one application and persists the
// results. Public, matching the original surface.
func (h *Handler) Match(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid application id")
	}
	results, err := h.service.RunMatching(id)
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"error": "Application not found."})
		}
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"matches": results})
}

var errNotOwner = errors.New("not the applicant or staff")

// ownedApplication resolves the target record and enforces the
// owner-or-staff write gate against the store's current role.
func (h *Handler) ownedApplication(c *fiber.Ctx) (*Application, error) {
	id, err := idParam(c)
	if err != nil {
		return nil, err
	}
	application, err := h.service.Get(id)
	if err != nil {
		return nil, err
	}

	claims, err := accounts.ClaimsFromCtx(c)
	if err != nil {
		return nil, errNotOwner
	}
	if application.ApplicantID == claims.AccountID {
		return application, nil
	}

	actor, err := h.accounts.GetAccount(claims.AccountID)
	if err != nil || !actor.IsStaff() {
		return nil, errNotOwner
	}
	return application, nil
}

func (h *Handler) gateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errNotOwner):
		return permissionDenied(c)
	case errors.Is(err, ErrApplicationNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "Application not found."})
	default:
		return badRequest(c, "invalid application id")
	}
}

func (h *Handler) mapError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrApplicationNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "Application not found."})
	}
	h.log.Error("application operation failed", zap.Error(err))
	return internalError(c)
}

func idParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func permissionDenied(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).
		JSON(fiber.Map{"error": "You do not have permission to perform this action."})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).
		JSON(fiber.Map{"error": "internal server error"})
}
