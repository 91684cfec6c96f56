package availability

import (
	"context"

	"github.com/google/uuid"

	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/internal/repository"
	"github.com/ayurmitra/panchakarma-api/internal/scheduler"
	"github.com/ayurmitra/panchakarma-api/pkg/errors"
)

type Service struct {
	repo repository.AvailabilityRepository
}

func NewService(repo repository.AvailabilityRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Upsert(ctx context.Context, therapistID uuid.UUID, req *model.UpsertAvailabilityRequest) (*model.TherapistAvailability, error) {
	// the slot generator fails closed on bad windows; reject them here so
	// the therapist sees the problem at save time, not as an empty week
	if slots := scheduler.GenerateSlots(req.WorkingHours.Start, req.WorkingHours.End, req.SessionDuration, req.SlotGapMinutes); len(slots) == 0 {
		return nil, errors.Validation("working hours do not fit a single session")
	}

	av := &model.TherapistAvailability{
		TherapistID:     therapistID,
		WorkingDays:     req.WorkingDays,
		WorkingHours:    req.WorkingHours,
		SessionDuration: req.SessionDuration,
		SlotGapMinutes:  req.SlotGapMinutes,
	}
	if err := s.repo.Upsert(ctx, av); err != nil {
		return nil, err
	}
	return av, nil
}

func (s *Service) Get(ctx context.Context, therapistID uuid.UUID) (*model.TherapistAvailability, error) {
	return s.repo.GetByTherapist(ctx, therapistID)
}

// WeeklySlots expands the stored availability into the per-day slot read
// model consumed by booking dashboards.
func (s *Service) WeeklySlots(ctx context.Context, therapistID uuid.UUID) ([]model.DayAvailability, error) {
	av, err := s.repo.GetByTherapist(ctx, therapistID)
	if err != nil {
		return nil, err
	}
	return scheduler.WeeklySlots(av), nil
}
