package documents

import (
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	log        *zap.Logger
	repository Repository
	store      *Store
}

func NewService(log *zap.Logger, repo Repository, store *Store) *Service {
	return &Service{
		log:        log,
		repository: repo,
		store:      store,
	}
}

// Upload streams the bytes to the store under a fresh key and records
// the document row. The file is cleaned up if the row cannot be saved.
func (s *Service) Upload(accountID uint, fileName, contentType string, r io.Reader) (*Document, error) {
	key := uuid.NewString()

	size, err := s.store.Save(key, r)
	if err != nil {
		return nil, err
	}

	document := &Document{
		AccountID:   accountID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		StorageKey:  key,
	}
	if err := s.repository.Create(document); err != nil {
		if removeErr := s.store.Remove(key); removeErr != nil {
			s.log.Error("failed to clean up orphaned upload",
				zap.String("storage_key", key), zap.Error(removeErr))
		}
		return nil, err
	}
	return document, nil
}

func (s *Service) Get(id, accountID uint) (*Document, error) {
	return s.repository.GetOwned(id, accountID)
}

func (s *Service) List(accountID uint) ([]Document, error) {
	return s.repository.ListOwned(accountID)
}

func (s *Service) Delete(id, accountID uint) error {
	document, err := s.repository.GetOwned(id, accountID)
	if err != nil {
		return err
	}
	if err := s.repository.Delete(id, accountID); err != nil {
		return err
	}
	if err := s.store.Remove(document.StorageKey); err != nil {
		s.log.Error("failed to remove document bytes",
			zap.String("storage_key", document.StorageKey), zap.Error(err))
	}
	return nil
}

// FilePath resolves the on-disk path for an owned document.
func (s *Service) FilePath(id, accountID uint) (*Document, string, error) {
	document, err := s.repository.GetOwned(id, accountID)
	if err != nil {
		return nil, "", err
	}
	return document, s.store.Path(document.StorageKey), nil
}
