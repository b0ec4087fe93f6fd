package applications

import (
	"go.uber.org/zap"

	"github.com/scholarbase/backend/internal/scholarships"
)

type Service struct {
	log          *zap.Logger
	repository   Repository
	scholarships scholarships.Repository
}

func NewService(log *zap.Logger, repo Repository, scholarshipRepo scholarships.Repository) *Service {
	return &Service{
		log:          log,
		repository:   repo,
		scholarships: scholarshipRepo,
	}
}

// Submit creates an application after resolving the scholarship
// reference, which unlike the donor reference is a hard one.
func (s *Service) Submit(application *Application) error {
	if _, err := s.scholarships.GetByID(application.ScholarshipID); err != nil {
		return err
	}
	return s.repository.Create(application)
}

func (s *Service) Get(id uint) (*Application, error) {
	return s.repository.GetByID(id)
}

func (s *Service) List(filter ListFilter) ([]Application, error) {
	return s.repository.List(filter)
}

func (s *Service) Delete(id uint) error {
	return s.repository.Delete(id)
}

func (s *Service) SetFavorite(id uint, favorite bool) (*Application, error) {
	application, err := s.repository.GetByID(id)
	if err != nil {
		return nil, err
	}
	application.FavoritedByDonor = favorite
	if err := s.repository.Save(application); err != nil {
		return nil, err
	}
	return application, nil
}

func (s *Service) SetAwarded(id uint, awarded bool) (*Application, error) {
	application, err := s.repository.GetByID(id)
	if err != nil {
		return nil, err
	}
	application.Awarded = awarded
	if err := s.repository.Save(application); err != nil {
		return nil, err
	}
	return application, nil
}

func (s *Service) UpdateData(id uint, data map[string]interface{}) (*Application, error) {
	application, err := s.repository.GetByID(id)
	if err != nil {
		return nil, err
	}
	application.Data = data
	if err := s.repository.Save(application); err != nil {
		return nil, err
	}
	return application, nil
}

// RunMatching scores the application against every scholarship and
// persists the positive results as one unit.
func (s *Service) RunMatching(applicationID uint) ([]MatchResult, error) {
	application, err := s.repository.GetByID(applicationID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.scholarships.List()
	if err != nil {
		return nil, err
	}

	results := Match(application, candidates)
	if err := s.repository.SaveMatchResults(results); err != nil {
		return nil, err
	}

	s.log.Info("matching run complete",
		zap.Uint("application_id", applicationID),
		zap.Int("matches", len(results)))
	return results, nil
}
