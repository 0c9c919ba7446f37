package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

type sessionService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	notifier  NotificationEventService
}

func NewSessionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, notifier NotificationEventService) SessionService {
	return &sessionService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		notifier:  notifier,
	}
}

func (s *sessionService) GetByID(ctx context.Context, sessionID uint, callerID string) (*SessionResponse, error) {
	session, err := s.repo.Session().GetByIDWithDetails(ctx, s.db, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.MentorID != callerID && session.MenteeID != callerID {
		isAdmin, err := s.repo.User().HasRole(ctx, callerID, models.RoleAdmin)
		if err != nil || !isAdmin {
			return nil, NewPermissionError(callerID, sessionID, "session", "read", "not a participant")
		}
	}

	return s.toSessionResponse(session), nil
}

func (s *sessionService) ListByUser(ctx context.Context, userID string, filters repositories.SessionFilters) (*SessionListResponse, error) {
	sessions, total, err := s.repo.Session().GetByParticipant(ctx, s.db, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]*SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, s.toSessionResponse(session))
	}
	return &SessionListResponse{
		Sessions: out,
		Total:    total,
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	}, nil
}

func (s *sessionService) SubmitFeedback(ctx context.Context, sessionID uint, callerID string, req *validator.SessionFeedbackRequest) (*SessionResponse, error) {
	s.logger.Info("Submitting session feedback",
		"session_id", sessionID,
		"caller_id", callerID)

	if errs := s.validator.ValidateFeedback(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %w", errs)
	}

	session, err := s.repo.Session().GetByIDWithDetails(ctx, s.db, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.MentorID != callerID && session.MenteeID != callerID {
		return nil, NewPermissionError(callerID, sessionID, "session", "rate", "not a participant")
	}

	// Feedback opens only after the booked interval has passed
	if session.Slot.ID != 0 && time.Now().Before(session.Slot.EndAt) {
		return nil, ErrSessionNotEnded
	}

	// One-shot: the post-hoc fields are written exactly once
	if session.Rating != nil || (session.Feedback != nil && *session.Feedback != "") {
		return nil, ErrFeedbackAlreadySet
	}

	session.Rating = req.Rating
	session.Feedback = req.Feedback
	if err := s.repo.Session().Update(ctx, s.db, session); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifySessionRated(ctx, session)
	}

	return s.toSessionResponse(session), nil
}

func (s *sessionService) toSessionResponse(session *models.Session) *SessionResponse {
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
	if session.Slot.ID != 0 {
		resp.StartAt = session.Slot.StartAt
		resp.EndAt = session.Slot.EndAt
	}
	return resp
}
