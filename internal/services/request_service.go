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

type requestService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	scheduler *schedulerService
	notifier  NotificationEventService
}

func NewRequestService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, scheduler SchedulerService, notifier NotificationEventService) RequestService {
	return &requestService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		scheduler: scheduler.(*schedulerService),
		notifier:  notifier,
	}
}

// ===== TRANSITIONS =====

func (s *requestService) Submit(ctx context.Context, menteeID string, req *validator.SubmitRequestRequest) (*RequestResponse, error) {
	s.logger.Info("Submitting mentorship request",
		"mentee_id", menteeID,
		"mentor_id", req.MentorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if menteeID == req.MentorID {
		return nil, ErrSelfMatchNotAllowed
	}

	mentor, err := s.repo.User().GetByID(ctx, req.MentorID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !mentor.IsActiveMentor() {
		return nil, ErrMentorNotActive
	}

	var request *models.MentorshipRequest
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		existing, err := txRepo.Request().GetActiveByPair(ctx, nil, menteeID, req.MentorID)
		if err == nil {
			return NewBusinessRuleError("duplicate_active_request",
				fmt.Sprintf("request %d is already %s", existing.ID, existing.Status),
				ErrDuplicateActiveRequest)
		}
		if !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to check for active request: %w", err)
		}

		request = &models.MentorshipRequest{
			MenteeID: menteeID,
			MentorID: req.MentorID,
			Status:   models.RequestPending,
		}
		return txRepo.Request().Create(ctx, nil, request)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyRequestSubmitted(ctx, request)
	}

	return s.toRequestResponse(request), nil
}

func (s *requestService) Accept(ctx context.Context, requestID uint, mentorID string, req *validator.AcceptRequestRequest) (*SessionResponse, error) {
	s.logger.Info("Accepting mentorship request",
		"request_id", requestID,
		"mentor_id", mentorID)

	request, err := s.repo.Request().GetByID(ctx, s.db, requestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	if request.MentorID != mentorID {
		return nil, NewPermissionError(mentorID, requestID, "request", "accept", "not addressed to this mentor")
	}

	var slotID *uint
	if req != nil {
		slotID = req.SlotID
	}

	session, err := s.acceptAndBook(ctx, request, slotID)
	if err != nil {
		return nil, err
	}

	s.scheduler.finalizeBooking(ctx, request, session)

	return s.scheduler.toSessionResponse(ctx, session)
}

// acceptAndBook performs the PENDING -> ACCEPTED transition and the slot
// binding in one transaction. A booking failure rolls the transition back,
// so an ACCEPTED request without a session can never be observed.
func (s *requestService) acceptAndBook(ctx context.Context, request *models.MentorshipRequest, slotID *uint) (*models.Session, error) {
	var session *models.Session
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		moved, err := txRepo.Request().UpdateStatusIf(ctx, nil, request.ID, models.RequestPending, models.RequestAccepted)
		if err != nil {
			return err
		}
		if !moved {
			return ErrInvalidTransition
		}
		request.Status = models.RequestAccepted

		session, err = s.scheduler.bindAndBookTx(ctx, txRepo, request, slotID)
		return err
	})
	if err != nil {
		// The transition rolled back with the booking
		request.Status = models.RequestPending
		return nil, err
	}
	return session, nil
}

func (s *requestService) Reject(ctx context.Context, requestID uint, mentorID string) (*RequestResponse, error) {
	s.logger.Info("Rejecting mentorship request",
		"request_id", requestID,
		"mentor_id", mentorID)

	request, err := s.repo.Request().GetByID(ctx, s.db, requestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	if request.MentorID != mentorID {
		return nil, NewPermissionError(mentorID, requestID, "request", "reject", "not addressed to this mentor")
	}

	moved, err := s.repo.Request().UpdateStatusIf(ctx, s.db, requestID, models.RequestPending, models.RequestRejected)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidTransition
	}
	request.Status = models.RequestRejected

	if s.notifier != nil {
		s.notifier.NotifyRequestRejected(ctx, request)
	}

	return s.toRequestResponse(request), nil
}

func (s *requestService) AdminMatch(ctx context.Context, adminID string, req *validator.AdminMatchRequest) (*SessionResponse, error) {
	s.logger.Info("Admin matchmaking",
		"admin_id", adminID,
		"mentee_id", req.MenteeID,
		"mentor_id", req.MentorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	isAdmin, err := s.repo.User().HasRole(ctx, adminID, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to check admin role: %w", err)
	}
	if !isAdmin {
		return nil, NewPermissionError(adminID, nil, "request", "admin_match", "caller is not an admin")
	}

	request, err := s.Submit(ctx, req.MenteeID, &validator.SubmitRequestRequest{MentorID: req.MentorID})
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.Request().GetByID(ctx, s.db, request.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload request: %w", err)
	}

	session, err := s.acceptAndBook(ctx, stored, nil)
	if err != nil {
		return nil, err
	}

	s.scheduler.finalizeBooking(ctx, stored, session)

	return s.scheduler.toSessionResponse(ctx, session)
}

// expire is used by the sweeper only, never exposed through a handler.
func (s *requestService) expire(ctx context.Context, requestID uint) (bool, error) {
	return s.repo.Request().UpdateStatusIf(ctx, s.db, requestID, models.RequestPending, models.RequestCancelledAuto)
}

// ===== PROJECTIONS =====

func (s *requestService) GetByID(ctx context.Context, requestID uint, callerID string) (*RequestResponse, error) {
	request, err := s.repo.Request().GetByIDWithDetails(ctx, s.db, requestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	if request.MenteeID != callerID && request.MentorID != callerID {
		isAdmin, err := s.repo.User().HasRole(ctx, callerID, models.RoleAdmin)
		if err != nil || !isAdmin {
			return nil, NewPermissionError(callerID, requestID, "request", "read", "not a participant")
		}
	}

	return s.toRequestResponseWithDetails(request), nil
}

func (s *requestService) ListByMentee(ctx context.Context, menteeID string, filters repositories.RequestFilters) (*RequestListResponse, error) {
	requests, total, err := s.repo.Request().GetByMentee(ctx, s.db, menteeID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return s.toRequestListResponse(requests, total, filters), nil
}

func (s *requestService) ListByMentor(ctx context.Context, mentorID string, filters repositories.RequestFilters) (*RequestListResponse, error) {
	requests, total, err := s.repo.Request().GetByMentor(ctx, s.db, mentorID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return s.toRequestListResponse(requests, total, filters), nil
}

// ===== CONVERSIONS =====

func (s *requestService) toRequestResponse(request *models.MentorshipRequest) *RequestResponse {
	return &RequestResponse{
		ID:        request.ID,
		MenteeID:  request.MenteeID,
		MentorID:  request.MentorID,
		Status:    request.Status,
		CreatedAt: request.CreatedAt,
		UpdatedAt: request.UpdatedAt,
	}
}

func (s *requestService) toRequestResponseWithDetails(request *models.MentorshipRequest) *RequestResponse {
	resp := s.toRequestResponse(request)
	if request.Mentee.ID != "" {
		resp.Mentee = &UserSummary{ID: request.Mentee.ID, FullName: request.Mentee.FullName, Email: request.Mentee.Email}
	}
	if request.Mentor.ID != "" {
		resp.Mentor = &UserSummary{ID: request.Mentor.ID, FullName: request.Mentor.FullName, Email: request.Mentor.Email}
	}
	if request.Session != nil {
		resp.Session = &SessionResponse{
			ID:          request.Session.ID,
			RequestID:   request.Session.RequestID,
			SlotID:      request.Session.SlotID,
			MentorID:    request.Session.MentorID,
			MenteeID:    request.Session.MenteeID,
			MeetingLink: request.Session.MeetingLink,
			Rating:      request.Session.Rating,
			Feedback:    request.Session.Feedback,
			CreatedAt:   request.Session.CreatedAt,
		}
	}
	return resp
}

func (s *requestService) toRequestListResponse(requests []*models.MentorshipRequest, total int64, filters repositories.RequestFilters) *RequestListResponse {
	out := make([]*RequestResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, s.toRequestResponseWithDetails(request))
	}
	return &RequestListResponse{
		Requests: out,
		Total:    total,
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	}
}
