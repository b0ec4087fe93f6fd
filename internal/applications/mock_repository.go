package applications

import (
	"sync"
	"time"

	"github.com/scholarbase/backend/internal/scholarships"
)

type mockRepository struct {
	mu           sync.RWMutex
	applications map[uint]*Application
	matches      []MatchResult
	nextID       uint
	saveErr      error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		applications: make(map[uint]*Application),
	}
}

func (r *mockRepository) Create(application *Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	application.ID = r.nextID
	application.SubmittedAt = time.Now()
	clone := *application
	r.applications[application.ID] = &clone
	return nil
}

func (r *mockRepository) GetByID(id uint) (*Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	application, exists := r.applications[id]
	if !exists {
		return nil, ErrApplicationNotFound
	}
	clone := *application
	return &clone, nil
}

func (r *mockRepository) List(filter ListFilter) ([]Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []Application
	for id := uint(1); id <= r.nextID; id++ {
		application, exists := r.applications[id]
		if !exists {
			continue
		}
		if filter.ScholarshipID != nil && application.ScholarshipID != *filter.ScholarshipID {
			continue
		}
		if filter.Field != "" && filter.Value != "" {
			value, ok := application.Data[filter.Field].(string)
			if !ok || value != filter.Value {
				continue
			}
		}
		list = append(list, *application)
	}
	return list, nil
}

func (r *mockRepository) Save(application *Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.applications[application.ID]; !exists {
		return ErrApplicationNotFound
	}
	clone := *application
	r.applications[application.ID] = &clone
	return nil
}

func (r *mockRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.applications[id]; !exists {
		return ErrApplicationNotFound
	}
	delete(r.applications, id)
	return nil
}

func (r *mockRepository) SaveMatchResults(results []MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	r.matches = append(r.matches, results...)
	return nil
}

func (r *mockRepository) MatchResultsFor(applicationID uint) ([]MatchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []MatchResult
	for _, result := range r.matches {
		if result.ApplicationID == applicationID {
			list = append(list, result)
		}
	}
	return list, nil
}

// mockScholarshipRepository is the minimal catalog the matching tests
// need; lists ignore ordering.
type mockScholarshipRepository struct {
	mu           sync.RWMutex
	scholarships map[uint]*scholarships.Scholarship
	nextID       uint
}

func newMockScholarshipRepository() *mockScholarshipRepository {
	return &mockScholarshipRepository{
		scholarships: make(map[uint]*scholarships.Scholarship),
	}
}

func (r *mockScholarshipRepository) Create(s *scholarships.Scholarship) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	s.ID = r.nextID
	clone := *s
	r.scholarships[s.ID] = &clone
	return nil
}

func (r *mockScholarshipRepository) GetByID(id uint) (*scholarships.Scholarship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.scholarships[id]
	if !exists {
		return nil, scholarships.ErrScholarshipNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *mockScholarshipRepository) List() ([]scholarships.Scholarship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []scholarships.Scholarship
	for id := uint(1); id <= r.nextID; id++ {
		if s, exists := r.scholarships[id]; exists {
			list = append(list, *s)
		}
	}
	return list, nil
}

func (r *mockScholarshipRepository) ListActive() ([]scholarships.Scholarship, error) {
	return r.List()
}

func (r *mockScholarshipRepository) ListInactive() ([]scholarships.Scholarship, error) {
	return nil, nil
}

func (r *mockScholarshipRepository) ByDonor(int64) ([]scholarships.Scholarship, error) {
	return nil, nil
}

func (r *mockScholarshipRepository) Save(s *scholarships.Scholarship) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *s
	r.scholarships[s.ID] = &clone
	return nil
}

func (r *mockScholarshipRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.scholarships, id)
	return nil
}

func (r *mockScholarshipRepository) Summary() (*scholarships.Summary, error) {
	return &scholarships.Summary{}, nil
}

func (r *mockScholarshipRepository) SetBookmark(uint, uint, bool) error {
	return nil
}

func (r *mockScholarshipRepository) BookmarkCount(uint) (int64, error) {
	return 0, nil
}
