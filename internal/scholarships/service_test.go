package scholarships

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLogger(t *testing.T) *zap.Logger {
	logger, err := zap.NewDevelopment()
	assert.NoError(t, err)
	return logger
}

func newTestService(t *testing.T) *Service {
	return NewService(newTestLogger(t), newMockRepository())
}

func createTestScholarship(t *testing.T, svc *Service, name string, amount float64, active bool) *Scholarship {
	s := &Scholarship{Name: name, Amount: amount, IsActive: active}
	require.NoError(t, svc.Create(s))
	return s
}

func TestService_Update(t *testing.T) {
	svc := newTestService(t)
	s := createTestScholarship(t, svc, "STEM Grant", 1000, true)

	amount := 2500.0
	minGPA := 3.2
	inactive := false
	deadline := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Update(s.ID, Patch{
		Amount:   &amount,
		MinGPA:   &minGPA,
		IsActive: &inactive,
		Deadline: &deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, 2500.0, updated.Amount)
	require.NotNil(t, updated.MinGPA)
	assert.Equal(t, 3.2, *updated.MinGPA)
	assert.False(t, updated.IsActive)
	require.NotNil(t, updated.Deadline)
	assert.Equal(t, deadline, *updated.Deadline)

	// Untouched fields survive a partial patch.
	assert.Equal(t, "STEM Grant", updated.Name)

	_, err = svc.Update(99, Patch{Amount: &amount})
	assert.ErrorIs(t, err, ErrScholarshipNotFound)
}

func TestService_ByDonor(t *testing.T) {
	svc := newTestService(t)
	donorID := int64(7)

	mine := createTestScholarship(t, svc, "Mine", 1000, true)
	mine.DonorID = &donorID
	_, err := svc.Update(mine.ID, Patch{DonorID: &donorID})
	require.NoError(t, err)

	retired := createTestScholarship(t, svc, "Retired", 500, false)
	_, err = svc.Update(retired.ID, Patch{DonorID: &donorID})
	require.NoError(t, err)

	createTestScholarship(t, svc, "Someone else's", 800, true)

	list, err := svc.ByDonor(donorID)
	require.NoError(t, err)
	// Inactive and foreign scholarships are excluded.
	require.Len(t, list, 1)
	assert.Equal(t, "Mine", list[0].Name)
}

func TestService_Summary(t *testing.T) {
	svc := newTestService(t)

	summary, err := svc.Summary()
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.Total)
	assert.Nil(t, summary.AverageAmount)

	createTestScholarship(t, svc, "A", 1000, true)
	createTestScholarship(t, svc, "B", 3000, true)
	createTestScholarship(t, svc, "C", 2000, false)

	summary, err = svc.Summary()
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Total)
	assert.Equal(t, int64(2), summary.Active)
	assert.Equal(t, int64(1), summary.Inactive)
	require.NotNil(t, summary.AverageAmount)
	assert.Equal(t, 2000.0, *summary.AverageAmount)
}

func TestService_SetBookmark(t *testing.T) {
	svc := newTestService(t)
	s := createTestScholarship(t, svc, "STEM Grant", 1000, true)

	_, err := svc.SetBookmark(1, s.ID, true)
	require.NoError(t, err)

	// Saving twice leaves a single bookmark.
	_, err = svc.SetBookmark(1, s.ID, true)
	require.NoError(t, err)
	count, err := svc.BookmarkCount(s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Removal is idempotent too.
	_, err = svc.SetBookmark(1, s.ID, false)
	require.NoError(t, err)
	_, err = svc.SetBookmark(1, s.ID, false)
	require.NoError(t, err)
	count, err = svc.BookmarkCount(s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = svc.SetBookmark(1, 99, true)
	assert.ErrorIs(t, err, ErrScholarshipNotFound)
	_, err = svc.BookmarkCount(99)
	assert.ErrorIs(t, err, ErrScholarshipNotFound)
}

func TestService_ListOrdering(t *testing.T) {
	svc := newTestService(t)

	later := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	sooner := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	b := createTestScholarship(t, svc, "Later", 1000, true)
	_, err := svc.Update(b.ID, Patch{Deadline: &later})
	require.NoError(t, err)

	a := createTestScholarship(t, svc, "Sooner", 1000, true)
	_, err = svc.Update(a.ID, Patch{Deadline: &sooner})
	require.NoError(t, err)

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Sooner", list[0].Name)
	assert.Equal(t, "Later", list[1].Name)
}
