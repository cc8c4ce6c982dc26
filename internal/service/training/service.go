package training

import (
	"context"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/training"
	"go.uber.org/zap"
)

// TrainingServiceImpl manages training sessions. Sessions never touch salary data.
type TrainingServiceImpl struct {
	trainings training.TrainingRepository
	logger    *zap.Logger
}

func NewTrainingService(trainings training.TrainingRepository, logger ...*zap.Logger) training.TrainingService {
	l := zap.L().Named("training.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("training.service")
	}
	return &TrainingServiceImpl{trainings: trainings, logger: l}
}

func (s *TrainingServiceImpl) Create(ctx context.Context, req training.CreateSessionRequest) (training.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return training.SessionResponse{}, err
	}

	created, err := s.trainings.Create(ctx, req.ToSession())
	if err != nil {
		return training.SessionResponse{}, err
	}

	s.logger.Debug("training scheduled", zap.String("training_id", created.ID), zap.Time("starts_at", created.StartsAt))
	return training.ToResponse(created), nil
}

func (s *TrainingServiceImpl) GetByID(ctx context.Context, id string) (training.SessionResponse, error) {
	found, err := s.trainings.GetByID(ctx, id)
	if err != nil {
		return training.SessionResponse{}, err
	}
	return training.ToResponse(found), nil
}

func (s *TrainingServiceImpl) List(ctx context.Context, filter training.SessionFilter) ([]training.SessionResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	sessions, err := s.trainings.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]training.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, training.ToResponse(session))
	}
	return resp, nil
}

func (s *TrainingServiceImpl) Update(ctx context.Context, req training.UpdateSessionRequest) (training.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return training.SessionResponse{}, err
	}

	existing, err := s.trainings.GetByID(ctx, req.ID)
	if err != nil {
		return training.SessionResponse{}, err
	}

	merged, err := req.Merge(existing)
	if err != nil {
		return training.SessionResponse{}, err
	}

	updated, err := s.trainings.Update(ctx, merged)
	if err != nil {
		return training.SessionResponse{}, err
	}
	return training.ToResponse(updated), nil
}

func (s *TrainingServiceImpl) Delete(ctx context.Context, id string) error {
	return s.trainings.Delete(ctx, id)
}
