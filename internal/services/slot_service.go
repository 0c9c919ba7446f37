package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

type slotService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewSlotService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) SlotService {
	return &slotService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *slotService) Create(ctx context.Context, mentorID string, req *validator.SlotCreateRequest) (*SlotResponse, error) {
	s.logger.Info("Creating availability slot",
		"mentor_id", mentorID,
		"start_at", req.StartAt,
		"end_at", req.EndAt)

	if errs := s.validator.ValidateSlotCreate(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %w", errs)
	}

	isMentor, err := s.repo.User().HasRole(ctx, mentorID, models.RoleMentor)
	if err != nil {
		return nil, fmt.Errorf("failed to check mentor role: %w", err)
	}
	if !isMentor {
		return nil, NewPermissionError(mentorID, nil, "slot", "create", "caller is not a mentor")
	}

	var slot *models.AvailabilitySlot
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		// Non-overlap is checked and the row inserted in one transaction
		overlaps, err := txRepo.Slot().HasOverlap(ctx, nil, mentorID, req.StartAt, req.EndAt)
		if err != nil {
			return fmt.Errorf("failed to check slot overlap: %w", err)
		}
		if overlaps {
			return ErrSlotOverlap
		}

		slot = &models.AvailabilitySlot{
			MentorID: mentorID,
			StartAt:  req.StartAt,
			EndAt:    req.EndAt,
		}
		return txRepo.Slot().Create(ctx, nil, slot)
	})
	if err != nil {
		return nil, err
	}

	return toSlotResponse(slot), nil
}

func (s *slotService) Delete(ctx context.Context, slotID uint, mentorID string) error {
	slot, err := s.repo.Slot().GetByID(ctx, s.db, slotID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.MentorID != mentorID {
		return NewPermissionError(mentorID, slotID, "slot", "delete", "not owned by mentor")
	}
	if slot.Consumed {
		// A consumed slot is bound to a session and immutable
		return ErrSlotConsumed
	}

	if err := s.repo.Slot().Delete(ctx, s.db, slotID); err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}

	s.logger.Info("Availability slot deleted", "slot_id", slotID, "mentor_id", mentorID)
	return nil
}

func (s *slotService) GetByID(ctx context.Context, slotID uint) (*SlotResponse, error) {
	slot, err := s.repo.Slot().GetByID(ctx, s.db, slotID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return toSlotResponse(slot), nil
}

func (s *slotService) ListByMentor(ctx context.Context, mentorID string, filters repositories.SlotFilters) (*SlotListResponse, error) {
	slots, total, err := s.repo.Slot().GetByMentor(ctx, s.db, mentorID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}

	out := make([]*SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, toSlotResponse(slot))
	}
	return &SlotListResponse{
		Slots:  out,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}, nil
}

func (s *slotService) ListFree(ctx context.Context, mentorID string) ([]*SlotResponse, error) {
	free := false
	slots, _, err := s.repo.Slot().GetByMentor(ctx, s.db, mentorID, repositories.SlotFilters{
		Consumed:  &free,
		SortBy:    "start_at",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list free slots: %w", err)
	}

	out := make([]*SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, toSlotResponse(slot))
	}
	return out, nil
}

func toSlotResponse(slot *models.AvailabilitySlot) *SlotResponse {
	return &SlotResponse{
		ID:        slot.ID,
		MentorID:  slot.MentorID,
		StartAt:   slot.StartAt,
		EndAt:     slot.EndAt,
		Consumed:  slot.Consumed,
		CreatedAt: slot.CreatedAt,
	}
}
