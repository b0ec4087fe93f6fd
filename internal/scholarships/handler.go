package scholarships

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/scholarbase/backend/internal/accounts"
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

type createScholarshipRequest struct {
	Name                   string     `json:"name" validate:"required"`
	Description            string     `json:"description"`
	Amount                 float64    `json:"amount" validate:"gte=0"`
	Deadline               *time.Time `json:"deadline"`
	IsActive               *bool      `json:"is_active"`
	Quantity               *int       `json:"quantity"`
	DonorID                *int64     `json:"donor_id"`
	RequiresTranscript     bool       `json:"requires_transcript"`
	RequiresRecommendation bool       `json:"requires_recommendation"`
	MinGPA                 *float64   `json:"min_gpa" validate:"omitempty,gte=0,lte=4"`
	AllowedMajor           string     `json:"allowed_major"`
}

type bookmarkRequest struct {
	Saved *bool `json:"saved"`
}

func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.service.List()
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req createScholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		h.log.Warn("invalid scholarship payload", zap.Error(err))
		return badRequest(c, err.Error())
	}

	scholarship := &Scholarship{
		Name:                   req.Name,
		Description:            req.Description,
		Amount:                 req.Amount,
		Deadline:               req.Deadline,
		IsActive:               true,
		Quantity:               req.Quantity,
		DonorID:                req.DonorID,
		RequiresTranscript:     req.RequiresTranscript,
		RequiresRecommendation: req.RequiresRecommendation,
		MinGPA:                 req.MinGPA,
		AllowedMajor:           req.AllowedMajor,
	}
	if req.IsActive != nil {
		scholarship.IsActive = *req.IsActive
	}

	if err := h.service.Create(scholarship); err != nil {
		h.log.Error("failed to create scholarship", zap.Error(err))
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(scholarship)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid scholarship id")
	}
	scholarship, err := h.service.Get(id)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(scholarship)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid scholarship id")
	}
	var patch Patch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	scholarship, err := h.service.Update(id, patch)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(scholarship)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid scholarship id")
	}
	if err := h.service.Delete(id); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ByDonor lists the donor's active scholarships. The donor id is a weak
// reference so an unknown donor simply yields an empty list.
func (h *Handler) ByDonor(c *fiber.Ctx) error {
	donorID, err := c.ParamsInt("donorID")
	if err != nil {
		return badRequest(c, "invalid donor id")
	}
	list, err := h.service.ByDonor(int64(donorID))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) Report(c *fiber.Ctx) error {
	summary, err := h.service.Summary()
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(summary)
}

func (h *Handler) Bookmark(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid scholarship id")
	}
	claims, err := accounts.ClaimsFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"error": "You do not have permission to perform this action."})
	}

	var req bookmarkRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Saved == nil {
		return badRequest(c, "Missing 'saved' field.")
	}

	scholarship, err := h.service.SetBookmark(claims.AccountID, id, *req.Saved)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(scholarship)
}

func (h *Handler) BookmarkCount(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, "invalid scholarship id")
	}
	count, err := h.service.BookmarkCount(id)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"bookmarkCount": count})
}

func (h *Handler) mapError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrScholarshipNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "Scholarship not found"})
	}
	h.log.Error("scholarship operation failed", zap.Error(err))
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

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).
		JSON(fiber.Map{"error": "internal server error"})
}
