package applications

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/scholarbase/backend/internal/scholarships"
)

// Reads are open to anyone; only writes go through the owner-or-staff
// gate.
func TestHandler_PublicReads(t *testing.T) {
	svc, _, scholarshipRepo := newTestService(t)
	handler := NewHandler(svc, nil, newTestLogger(t))

	s := &scholarships.Scholarship{Name: "STEM Grant", Amount: 1000}
	require.NoError(t, scholarshipRepo.Create(s))
	require.NoError(t, svc.Submit(&Application{
		ApplicantID: 1, ScholarshipID: s.ID,
		Data: datatypes.JSONMap{"major": "Biology"},
	}))

	app := fiber.New()
	app.Get("/", handler.List)
	app.Get("/:id", handler.Get)
	app.Post("/", handler.Create)

	// No Authorization header anywhere below.
	res, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var list []Application
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 1)

	res, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/99", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	// Submitting without an identity is refused.
	res, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
}
