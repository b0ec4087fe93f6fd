package scholarships

import (
	"sort"
	"sync"
)

type bookmarkPair struct {
	accountID     uint
	scholarshipID uint
}

type mockRepository struct {
	mu           sync.RWMutex
	scholarships map[uint]*Scholarship
	bookmarks    map[bookmarkPair]bool
	nextID       uint
}

func newMockRepository() Repository {
	return &mockRepository{
		scholarships: make(map[uint]*Scholarship),
		bookmarks:    make(map[bookmarkPair]bool),
	}
}

func (r *mockRepository) Create(s *Scholarship) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	s.ID = r.nextID
	clone := *s
	r.scholarships[s.ID] = &clone
	return nil
}

func (r *mockRepository) GetByID(id uint) (*Scholarship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.scholarships[id]
	if !exists {
		return nil, ErrScholarshipNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *mockRepository) List() ([]Scholarship, error) {
	return r.listWhere(func(*Scholarship) bool { return true })
}

func (r *mockRepository) ListActive() ([]Scholarship, error) {
	return r.listWhere(func(s *Scholarship) bool { return s.IsActive })
}

func (r *mockRepository) ListInactive() ([]Scholarship, error) {
	return r.listWhere(func(s *Scholarship) bool { return !s.IsActive })
}

func (r *mockRepository) ByDonor(donorID int64) ([]Scholarship, error) {
	return r.listWhere(func(s *Scholarship) bool {
		return s.IsActive && s.DonorID != nil && *s.DonorID == donorID
	})
}

func (r *mockRepository) listWhere(keep func(*Scholarship) bool) ([]Scholarship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []Scholarship
	for _, s := range r.scholarships {
		if keep(s) {
			list = append(list, *s)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].Deadline, list[j].Deadline
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.Before(*b)
	})
	return list, nil
}

func (r *mockRepository) Save(s *Scholarship) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scholarships[s.ID]; !exists {
		return ErrScholarshipNotFound
	}
	clone := *s
	r.scholarships[s.ID] = &clone
	return nil
}

func (r *mockRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scholarships[id]; !exists {
		return ErrScholarshipNotFound
	}
	delete(r.scholarships, id)
	for pair := range r.bookmarks {
		if pair.scholarshipID == id {
			delete(r.bookmarks, pair)
		}
	}
	return nil
}

func (r *mockRepository) Summary() (*Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var summary Summary
	var total float64
	for _, s := range r.scholarships {
		summary.Total++
		total += s.Amount
		if s.IsActive {
			summary.Active++
		} else {
			summary.Inactive++
		}
	}
	if summary.Total > 0 {
		avg := total / float64(summary.Total)
		summary.AverageAmount = &avg
	}
	return &summary, nil
}

func (r *mockRepository) SetBookmark(accountID, scholarshipID uint, saved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pair := bookmarkPair{accountID: accountID, scholarshipID: scholarshipID}
	if saved {
		r.bookmarks[pair] = true
	} else {
		delete(r.bookmarks, pair)
	}
	return nil
}

func (r *mockRepository) BookmarkCount(scholarshipID uint) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for pair := range r.bookmarks {
		if pair.scholarshipID == scholarshipID {
			count++
		}
	}
	return count, nil
}
