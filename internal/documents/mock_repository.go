package documents

import (
	"sync"
	"time"
)

type mockRepository struct {
	mu        sync.RWMutex
	documents map[uint]*Document
	nextID    uint
}

func newMockRepository() Repository {
	return &mockRepository{
		documents: make(map[uint]*Document),
	}
}

func (r *mockRepository) Create(document *Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	document.ID = r.nextID
	document.UploadedAt = time.Now()
	clone := *document
	r.documents[document.ID] = &clone
	return nil
}

func (r *mockRepository) GetOwned(id, accountID uint) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	document, exists := r.documents[id]
	if !exists || document.AccountID != accountID {
		return nil, ErrDocumentNotFound
	}
	clone := *document
	return &clone, nil
}

func (r *mockRepository) ListOwned(accountID uint) ([]Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []Document
	for id := uint(1); id <= r.nextID; id++ {
		document, exists := r.documents[id]
		if exists && document.AccountID == accountID {
			list = append(list, *document)
		}
	}
	return list, nil
}

func (r *mockRepository) Delete(id, accountID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	document, exists := r.documents[id]
	if !exists || document.AccountID != accountID {
		return ErrDocumentNotFound
	}
	delete(r.documents, id)
	return nil
}
