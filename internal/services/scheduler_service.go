package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/mentorloop/mentorship-service/internal/meetings"
	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

type schedulerService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	meetings  meetings.Provider
	notifier  NotificationEventService
}

func NewSchedulerService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, meetingProvider meetings.Provider, notifier NotificationEventService) SchedulerService {
	return &schedulerService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		meetings:  meetingProvider,
		notifier:  notifier,
	}
}

// BindAndBook books a session for an already-ACCEPTED request in its own
// transaction. The Accept transition books through bindAndBookTx instead,
// inside its own transaction, so a failed booking rolls the transition back.
func (s *schedulerService) BindAndBook(ctx context.Context, requestID uint, slotID *uint) (*SessionResponse, error) {
	request, err := s.repo.Request().GetByID(ctx, s.db, requestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	if request.Status != models.RequestAccepted {
		return nil, ErrInvalidTransition
	}

	var session *models.Session
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		booked, err := s.bindAndBookTx(ctx, txRepo, request, slotID)
		if err != nil {
			return err
		}
		session = booked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.finalizeBooking(ctx, request, session)

	return s.toSessionResponse(ctx, session)
}

// bindAndBookTx runs inside an open transaction via txRepo. It is
// idempotent: a request that already has a session gets that session back.
func (s *schedulerService) bindAndBookTx(ctx context.Context, txRepo repositories.Repository, request *models.MentorshipRequest, slotID *uint) (*models.Session, error) {
	existing, err := txRepo.Session().GetByRequestID(ctx, nil, request.ID)
	if err == nil {
		return existing, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing session: %w", err)
	}

	var slot *models.AvailabilitySlot
	if slotID != nil {
		slot, err = txRepo.Slot().GetByID(ctx, nil, *slotID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrSlotNotFound
			}
			return nil, fmt.Errorf("failed to get slot: %w", err)
		}
		if slot.MentorID != request.MentorID {
			return nil, ErrSlotNotOwned
		}
		if slot.Consumed {
			return nil, ErrSlotConsumed
		}
	} else {
		slot, err = txRepo.Slot().GetEarliestFree(ctx, nil, request.MentorID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrNoAvailability
			}
			return nil, fmt.Errorf("failed to select slot: %w", err)
		}
	}

	// The conditional update is the race arbiter: exactly one concurrent
	// booking of this slot sees won == true.
	won, err := txRepo.Slot().ConsumeIfFree(ctx, nil, slot.ID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrConcurrentBookingLost
	}

	session := &models.Session{
		RequestID: request.ID,
		SlotID:    slot.ID,
		MentorID:  request.MentorID,
		MenteeID:  request.MenteeID,
	}
	if err := txRepo.Session().Create(ctx, nil, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Session booked",
		"request_id", request.ID,
		"slot_id", slot.ID,
		"mentor_id", request.MentorID,
		"mentee_id", request.MenteeID)

	return session, nil
}

// finalizeBooking attaches the best-effort side effects to a committed
// booking: meeting link creation and notification events. Neither failure
// undoes the session.
func (s *schedulerService) finalizeBooking(ctx context.Context, request *models.MentorshipRequest, session *models.Session) {
	if session.MeetingLink == nil {
		s.attachMeetingLink(ctx, request, session)
	}
	if s.notifier != nil {
		s.notifier.NotifyRequestAccepted(ctx, request, session)
	}
}

func (s *schedulerService) attachMeetingLink(ctx context.Context, request *models.MentorshipRequest, session *models.Session) {
	if s.meetings == nil {
		return
	}

	slot, err := s.repo.Slot().GetByID(ctx, s.db, session.SlotID)
	if err != nil {
		s.logger.Error("Failed to load slot for meeting link", "session_id", session.ID, "error", err)
		return
	}

	attendees := make([]string, 0, 2)
	users, err := s.repo.User().GetByIDs(ctx, []string{request.MentorID, request.MenteeID})
	if err == nil {
		for _, user := range users {
			attendees = append(attendees, user.Email)
		}
	}

	link, err := s.meetings.CreateMeeting(ctx, meetings.MeetingDetails{
		Summary:     "Mentorship session",
		Description: fmt.Sprintf("Mentorship session for request %d", request.ID),
		StartAt:     slot.StartAt,
		EndAt:       slot.EndAt,
		Attendees:   attendees,
	})
	if err != nil {
		// Degrades to a session without a link
		s.logger.Warn("Meeting link creation failed", "session_id", session.ID, "error", err)
		return
	}
	if link == "" {
		return
	}

	session.MeetingLink = &link
	if err := s.repo.Session().Update(ctx, s.db, session); err != nil {
		s.logger.Error("Failed to persist meeting link", "session_id", session.ID, "error", err)
	}
}

func (s *schedulerService) toSessionResponse(ctx context.Context, session *models.Session) (*SessionResponse, error) {
	resp := &SessionResponse{
		ID:          session.ID,
		RequestID:   session.RequestID,
		SlotID:      session.SlotID,
		MentorID:    session.MentorID,
		MenteeID:    session.MenteeID,
		MeetingLink: session.MeetingLink,
		Rating:      session.Rating,
		Feedback:    session.Feedback,
		CreatedAt:   session.CreatedAt,
	}

	slot, err := s.repo.Slot().GetByID(ctx, s.db, session.SlotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked slot: %w", err)
	}
	resp.StartAt = slot.StartAt
	resp.EndAt = slot.EndAt

	return resp, nil
}
