package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
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

func (h *Handler) Available(c *fiber.Ctx) error {
	return h.serve(c, h.service.AvailableScholarships)
}

func (h *Handler) Archived(c *fiber.Ctx) error {
	return h.serve(c, h.service.ArchivedScholarships)
}

func (h *Handler) Applicants(c *fiber.Ctx) error {
	return h.serve(c, h.service.Applicants)
}

func (h *Handler) Awarded(c *fiber.Ctx) error {
	return h.serve(c, h.service.Awarded)
}

func (h *Handler) Demographics(c *fiber.Ctx) error {
	return h.serve(c, h.service.Demographics)
}

func (h *Handler) ActiveDonors(c *fiber.Ctx) error {
	return h.serve(c, h.service.ActiveDonors)
}

func (h *Handler) serve(c *fiber.Ctx, build func() (*CSV, error)) error {
	report, err := build()
	if err != nil {
		h.log.Error("failed to build report", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "internal server error"})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(report.Header); err != nil {
		return err
	}
	for _, row := range report.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, report.Filename))
	return c.Send(buf.Bytes())
}
