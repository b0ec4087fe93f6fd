package applications

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/scholarbase/backend/internal/scholarships"
)

func newTestLogger(t *testing.T) *zap.Logger {
	logger, err := zap.NewDevelopment()
	assert.NoError(t, err)
	return logger
}

func newTestService(t *testing.T) (*Service, *mockRepository, *mockScholarshipRepository) {
	repo := newMockRepository()
	scholarshipRepo := newMockScholarshipRepository()
	return NewService(newTestLogger(t), repo, scholarshipRepo), repo, scholarshipRepo
}

func TestService_Submit(t *testing.T) {
	svc, _, scholarshipRepo := newTestService(t)

	s := &scholarships.Scholarship{Name: "STEM Grant", Amount: 1000, IsActive: true}
	require.NoError(t, scholarshipRepo.Create(s))

	application := &Application{
		ApplicantID:   1,
		ScholarshipID: s.ID,
		Data:          datatypes.JSONMap{"essay": "..."},
	}
	require.NoError(t, svc.Submit(application))
	assert.NotZero(t, application.ID)

	// A dangling scholarship reference is rejected up front.
	err := svc.Submit(&Application{ApplicantID: 1, ScholarshipID: 99})
	assert.ErrorIs(t, err, scholarships.ErrScholarshipNotFound)
}

func TestService_ListFilter(t *testing.T) {
	svc, _, scholarshipRepo := newTestService(t)
	s := &scholarships.Scholarship{Name: "STEM Grant", Amount: 1000}
	require.NoError(t, scholarshipRepo.Create(s))

	require.NoError(t, svc.Submit(&Application{
		ApplicantID: 1, ScholarshipID: s.ID,
		Data: datatypes.JSONMap{"major": "Biology"},
	}))
	require.NoError(t, svc.Submit(&Application{
		ApplicantID: 2, ScholarshipID: s.ID,
		Data: datatypes.JSONMap{"major": "Physics"},
	}))

	list, err := svc.List(ListFilter{Field: "major", Value: "Biology"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint(1), list[0].ApplicantID)

	list, err = svc.List(ListFilter{ScholarshipID: &s.ID})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestService_SetFavoriteAndAwarded(t *testing.T) {
	svc, _, scholarshipRepo := newTestService(t)
	s := &scholarships.Scholarship{Name: "STEM Grant", Amount: 1000}
	require.NoError(t, scholarshipRepo.Create(s))

	application := &Application{ApplicantID: 1, ScholarshipID: s.ID}
	require.NoError(t, svc.Submit(application))

	updated, err := svc.SetFavorite(application.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.FavoritedByDonor)

	updated, err = svc.SetAwarded(application.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Awarded)
	// The favorite flag is untouched by the award flip.
	assert.True(t, updated.FavoritedByDonor)

	_, err = svc.SetFavorite(99, true)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestService_RunMatching(t *testing.T) {
	svc, repo, scholarshipRepo := newTestService(t)

	matching := &scholarships.Scholarship{Name: "CS Award", MinGPA: floatPtr(3.0), AllowedMajor: "computer"}
	require.NoError(t, scholarshipRepo.Create(matching))
	tooStrict := &scholarships.Scholarship{Name: "Elite Award", MinGPA: floatPtr(3.9), AllowedMajor: "history"}
	require.NoError(t, scholarshipRepo.Create(tooStrict))

	application := &Application{
		ApplicantID:   1,
		ScholarshipID: matching.ID,
		Data:          datatypes.JSONMap{"gpa": 3.5, "major": "Computer Science"},
	}
	require.NoError(t, svc.Submit(application))

	results, err := svc.RunMatching(application.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, matching.ID, results[0].ScholarshipID)
	assert.Equal(t, 2, results[0].Score)

	persisted, err := repo.MatchResultsFor(application.ID)
	require.NoError(t, err)
	assert.Equal(t, results, persisted)
}

func TestService_RunMatching_SaveFailure(t *testing.T) {
	svc, repo, scholarshipRepo := newTestService(t)

	s := &scholarships.Scholarship{Name: "CS Award", MinGPA: floatPtr(2.0)}
	require.NoError(t, scholarshipRepo.Create(s))

	application := &Application{
		ApplicantID:   1,
		ScholarshipID: s.ID,
		Data:          datatypes.JSONMap{"gpa": 3.5},
	}
	require.NoError(t, svc.Submit(application))

	repo.saveErr = errors.New("database gone")
	_, err := svc.RunMatching(application.ID)
	assert.Error(t, err)

	// Nothing was half-written.
	persisted, err := repo.MatchResultsFor(application.ID)
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestService_RunMatching_UnknownApplication(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.RunMatching(42)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}
