package documents

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/scholarbase/backend/internal/accounts"
)

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

func (h *Handler) Upload(c *fiber.Ctx) error {
	claims, err := accounts.ClaimsFromCtx(c)
	if err != nil {
		return permissionDenied(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "unable to read uploaded file")
	}
	defer f.Close()

	document, err := h.service.Upload(
		claims.AccountID,
		fileHeader.Filename,
		fileHeader.Header.Get(fiber.HeaderContentType),
		f,
	)
	if err != nil {
		h.log.Error("failed to store document",
			zap.Uint("account_id", claims.AccountID), zap.Error(err))
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(document)
}

func (h *Handler) List(c *fiber.Ctx) error {
	claims, err := accounts.ClaimsFromCtx(c)
	if err != nil {
		return permissionDenied(c)
	}
	list, err := h.service.List(claims.AccountID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	claims, id, err := h.owned(c)
	if err != nil {
		return badRequest(c, "invalid document id")
	}
	document, err := h.service.Get(id, claims.AccountID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(document)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	claims, id, err := h.owned(c)
	if err != nil {
		return badRequest(c, "invalid document id")
	}
	if err := h.service.Delete(id, claims.AccountID); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Download streams the file with an attachment disposition.
func (h *Handler) Download(c *fiber.Ctx) error {
	claims, id, err := h.owned(c)
	if err != nil {
		return badRequest(c, "invalid document id")
	}
	document, path, err := h.service.FilePath(id, claims.AccountID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Download(path, document.FileName)
}

func (h *Handler) owned(c *fiber.Ctx) (*accounts.Claims, uint, error) {
	claims, err := accounts.ClaimsFromCtx(c)
	if err != nil {
		return nil, 0, err
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, 0, errors.New("invalid document id")
	}
	return claims, uint(id), nil
}

func (h *Handler) mapError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrDocumentNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "Document not found"})
	}
	h.log.Error("document operation failed", zap.Error(err))
	return internalError(c)
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
