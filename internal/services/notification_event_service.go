package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mentorloop/mentorship-service/internal/events"
	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

// notificationTopic is the single topic the notification pipeline consumes.
const notificationTopic = "mentorship.notifications"

type notificationEventService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewNotificationEventService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) NotificationEventService {
	return &notificationEventService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
	}
}

// RequestEvent is the payload for request lifecycle events.
type RequestEvent struct {
	RequestID uint                 `json:"request_id"`
	MenteeID  string               `json:"mentee_id"`
	MentorID  string               `json:"mentor_id"`
	Status    models.RequestStatus `json:"status"`
}

// SessionEvent is the payload for session events.
type SessionEvent struct {
	SessionID   uint    `json:"session_id"`
	RequestID   uint    `json:"request_id"`
	SlotID      uint    `json:"slot_id"`
	MentorID    string  `json:"mentor_id"`
	MenteeID    string  `json:"mentee_id"`
	MeetingLink *string `json:"meeting_link,omitempty"`
	Rating      *int    `json:"rating,omitempty"`
}

// BulkNotificationEvent is the payload for fan-out notifications.
type BulkNotificationEvent struct {
	UserIDs      []string             `json:"user_ids"`
	Notification *NotificationRequest `json:"notification"`
}

func (s *notificationEventService) NotifyRequestSubmitted(ctx context.Context, request *models.MentorshipRequest) {
	s.publish(ctx, events.EventRequestSubmitted, requestEventOf(request))
}

func (s *notificationEventService) NotifyRequestAccepted(ctx context.Context, request *models.MentorshipRequest, session *models.Session) {
	s.publish(ctx, events.EventRequestAccepted, requestEventOf(request))
	s.publish(ctx, events.EventSessionBooked, sessionEventOf(session))
}

func (s *notificationEventService) NotifyRequestRejected(ctx context.Context, request *models.MentorshipRequest) {
	s.publish(ctx, events.EventRequestRejected, requestEventOf(request))
}

func (s *notificationEventService) NotifyRequestExpired(ctx context.Context, request *models.MentorshipRequest) {
	s.publish(ctx, events.EventRequestAutoExpired, requestEventOf(request))
}

func (s *notificationEventService) NotifySessionRated(ctx context.Context, session *models.Session) {
	s.publish(ctx, events.EventSessionRated, sessionEventOf(session))
}

func (s *notificationEventService) SendBulkNotification(ctx context.Context, userIDs []string, notification *NotificationRequest) error {
	if err := s.validator.Validate(notification); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if len(userIDs) == 0 {
		return nil
	}

	event := events.NewEvent(events.EventBulkNotification, &BulkNotificationEvent{
		UserIDs:      userIDs,
		Notification: notification,
	})
	if err := s.eventPublisher.Publish(ctx, notificationTopic, event); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return nil
}

// publish is fire-and-forget: a broken pipeline is logged and never fails
// the state transition that triggered the event.
func (s *notificationEventService) publish(ctx context.Context, eventType string, payload interface{}) {
	event := events.NewEvent(eventType, payload)
	if err := s.eventPublisher.Publish(ctx, notificationTopic, event); err != nil {
		s.logger.Error("Failed to publish event",
			"event_type", eventType,
			"event_id", event.ID,
			"error", err)
	}
}

func requestEventOf(request *models.MentorshipRequest) *RequestEvent {
	return &RequestEvent{
		RequestID: request.ID,
		MenteeID:  request.MenteeID,
		MentorID:  request.MentorID,
		Status:    request.Status,
	}
}

func sessionEventOf(session *models.Session) *SessionEvent {
	return &SessionEvent{
		SessionID:   session.ID,
		RequestID:   session.RequestID,
		SlotID:      session.SlotID,
		MentorID:    session.MentorID,
		MenteeID:    session.MenteeID,
		MeetingLink: session.MeetingLink,
		Rating:      session.Rating,
	}
}
