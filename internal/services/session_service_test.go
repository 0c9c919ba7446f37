package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mentorloop/mentorship-service/internal/events"
	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

// bookedSession drives a real accept so the session carries a slot window.
func bookedSession(t *testing.T, env *testEnv, startAt, endAt time.Time) *SessionResponse {
	t.Helper()
	env.repo.addSlot("mentor-1", startAt, endAt, false)
	request := env.repo.addRequest("mentee-1", "mentor-1", models.RequestPending, time.Now())

	session, err := env.requests.Accept(context.Background(), request.ID, "mentor-1", nil)
	if err != nil {
		t.Fatalf("failed to book session: %v", err)
	}
	env.publisher.ClearEvents()
	return session
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestSubmitFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("participant rates an ended session", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		session := bookedSession(t, env, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))

		rated, err := env.sessions.SubmitFeedback(ctx, session.ID, "mentee-1", &validator.SessionFeedbackRequest{
			Rating:   intPtr(5),
			Feedback: strPtr("great session"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rated.Rating == nil || *rated.Rating != 5 {
			t.Errorf("unexpected rating: %v", rated.Rating)
		}

		types := env.eventTypes()
		if len(types) != 1 || types[0] != events.EventSessionRated {
			t.Errorf("unexpected events: %v", types)
		}
	})

	t.Run("feedback before the slot ends is rejected", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		session := bookedSession(t, env, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))

		_, err := env.sessions.SubmitFeedback(ctx, session.ID, "mentee-1", &validator.SessionFeedbackRequest{
			Rating: intPtr(4),
		})
		if !errors.Is(err, ErrSessionNotEnded) {
			t.Errorf("expected ErrSessionNotEnded, got %v", err)
		}
	})

	t.Run("feedback is one-shot", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		session := bookedSession(t, env, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))

		if _, err := env.sessions.SubmitFeedback(ctx, session.ID, "mentee-1", &validator.SessionFeedbackRequest{
			Rating: intPtr(4),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := env.sessions.SubmitFeedback(ctx, session.ID, "mentee-1", &validator.SessionFeedbackRequest{
			Rating: intPtr(1),
		})
		if !errors.Is(err, ErrFeedbackAlreadySet) {
			t.Errorf("expected ErrFeedbackAlreadySet, got %v", err)
		}
	})

	t.Run("non-participant cannot rate", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		env.repo.addUser("outsider", models.RoleMentee, models.UserActive)
		session := bookedSession(t, env, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))

		_, err := env.sessions.SubmitFeedback(ctx, session.ID, "outsider", &validator.SessionFeedbackRequest{
			Rating: intPtr(3),
		})
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})

	t.Run("empty feedback is rejected", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		session := bookedSession(t, env, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))

		_, err := env.sessions.SubmitFeedback(ctx, session.ID, "mentee-1", &validator.SessionFeedbackRequest{})
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			t.Errorf("expected ValidationErrors, got %v", err)
		}
	})

	t.Run("rating out of range is rejected", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		session := bookedSession(t, env, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))

		for _, rating := range []int{0, 6} {
			_, err := env.sessions.SubmitFeedback(ctx, session.ID, "mentee-1", &validator.SessionFeedbackRequest{
				Rating: intPtr(rating),
			})
			var validationErrs validator.ValidationErrors
			if !errors.As(err, &validationErrs) {
				t.Errorf("rating %d: expected ValidationErrors, got %v", rating, err)
			}
		}
	})
}

func TestGetSessionVisibility(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	seedPair(env)
	env.repo.addUser("admin-1", models.RoleAdmin, models.UserActive)
	env.repo.addUser("outsider", models.RoleMentee, models.UserActive)
	session := bookedSession(t, env, time.Now().Add(24*time.Hour), time.Now().Add(25*time.Hour))

	t.Run("participants and admins can read", func(t *testing.T) {
		for _, caller := range []string{"mentee-1", "mentor-1", "admin-1"} {
			got, err := env.sessions.GetByID(ctx, session.ID, caller)
			if err != nil {
				t.Errorf("caller %s: unexpected error: %v", caller, err)
				continue
			}
			if got.StartAt.IsZero() {
				t.Errorf("caller %s: slot window missing from response", caller)
			}
		}
	})

	t.Run("outsiders cannot read", func(t *testing.T) {
		_, err := env.sessions.GetByID(ctx, session.ID, "outsider")
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})
}

func TestListSessionsByUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	seedPair(env)
	env.repo.addUser("mentee-2", models.RoleMentee, models.UserActive)

	bookedSession(t, env, time.Now().Add(24*time.Hour), time.Now().Add(25*time.Hour))

	env.repo.addSlot("mentor-1", time.Now().Add(48*time.Hour), time.Now().Add(49*time.Hour), false)
	other := env.repo.addRequest("mentee-2", "mentor-1", models.RequestPending, time.Now())
	if _, err := env.requests.Accept(ctx, other.ID, "mentor-1", nil); err != nil {
		t.Fatalf("failed to book second session: %v", err)
	}

	mentorView, err := env.sessions.ListByUser(ctx, "mentor-1", repositories.SessionFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mentorView.Total != 2 {
		t.Errorf("expected 2 sessions for the mentor, got %d", mentorView.Total)
	}

	menteeView, err := env.sessions.ListByUser(ctx, "mentee-2", repositories.SessionFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if menteeView.Total != 1 {
		t.Errorf("expected 1 session for the mentee, got %d", menteeView.Total)
	}
}
