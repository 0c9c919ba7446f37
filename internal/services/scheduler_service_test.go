package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mentorloop/mentorship-service/internal/models"
)

func TestBindAndBook(t *testing.T) {
	ctx := context.Background()

	t.Run("books the earliest free slot for an accepted request", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		env.repo.addSlot("mentor-1", time.Now().Add(48*time.Hour), time.Now().Add(49*time.Hour), false)
		earliest := env.repo.addSlot("mentor-1", time.Now().Add(24*time.Hour), time.Now().Add(25*time.Hour), false)
		request := env.repo.addRequest("mentee-1", "mentor-1", models.RequestAccepted, time.Now())

		session, err := env.scheduler.BindAndBook(ctx, request.ID, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.SlotID != earliest.ID {
			t.Errorf("expected slot %d, got %d", earliest.ID, session.SlotID)
		}
		if !session.StartAt.Equal(earliest.StartAt) || !session.EndAt.Equal(earliest.EndAt) {
			t.Errorf("response window does not match booked slot")
		}
		if !env.repo.slotConsumed(earliest.ID) {
			t.Error("booked slot should be consumed")
		}
	})

	t.Run("rebooking returns the existing session", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		env.repo.addSlot("mentor-1", time.Now().Add(24*time.Hour), time.Now().Add(25*time.Hour), false)
		env.repo.addSlot("mentor-1", time.Now().Add(48*time.Hour), time.Now().Add(49*time.Hour), false)
		request := env.repo.addRequest("mentee-1", "mentor-1", models.RequestAccepted, time.Now())

		first, err := env.scheduler.BindAndBook(ctx, request.ID, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := env.scheduler.BindAndBook(ctx, request.ID, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.ID != second.ID || first.SlotID != second.SlotID {
			t.Errorf("expected the same session back, got %d/%d and %d/%d",
				first.ID, first.SlotID, second.ID, second.SlotID)
		}
		if env.repo.sessionCount() != 1 {
			t.Errorf("expected 1 session, got %d", env.repo.sessionCount())
		}
	})

	t.Run("pending request cannot be booked", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		env.repo.addSlot("mentor-1", time.Now().Add(24*time.Hour), time.Now().Add(25*time.Hour), false)
		request := env.repo.addRequest("mentee-1", "mentor-1", models.RequestPending, time.Now())

		_, err := env.scheduler.BindAndBook(ctx, request.ID, nil)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("unknown request", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.scheduler.BindAndBook(ctx, 404, nil)
		if !errors.Is(err, ErrRequestNotFound) {
			t.Errorf("expected ErrRequestNotFound, got %v", err)
		}
	})

	t.Run("unknown pinned slot", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		request := env.repo.addRequest("mentee-1", "mentor-1", models.RequestAccepted, time.Now())

		missing := uint(404)
		_, err := env.scheduler.BindAndBook(ctx, request.ID, &missing)
		if !errors.Is(err, ErrSlotNotFound) {
			t.Errorf("expected ErrSlotNotFound, got %v", err)
		}
	})

	t.Run("losing the conditional update maps to a retryable error", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		// A stale read reports the consumed slot as free, so the
		// conditional update is what decides the booking.
		env.repo.addSlot("mentor-1", time.Now().Add(24*time.Hour), time.Now().Add(25*time.Hour), true)
		env.repo.staleSlotReads = true
		request := env.repo.addRequest("mentee-1", "mentor-1", models.RequestAccepted, time.Now())

		_, err := env.scheduler.BindAndBook(ctx, request.ID, nil)
		if !errors.Is(err, ErrConcurrentBookingLost) {
			t.Fatalf("expected ErrConcurrentBookingLost, got %v", err)
		}
		if !IsRetryable(err) {
			t.Error("expected ErrConcurrentBookingLost to be retryable")
		}
		if env.repo.sessionCount() != 0 {
			t.Error("no session should exist after a lost booking")
		}
	})
}
