package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mentorloop/mentorship-service/internal/events"
	"github.com/mentorloop/mentorship-service/internal/models"
)

func TestSweep(t *testing.T) {
	ctx := context.Background()
	threshold := 48 * time.Hour

	t.Run("only requests past the threshold expire", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		now := time.Now()

		fresh := env.repo.addRequest("mentee-1", "mentor-1", models.RequestPending, now.Add(-47*time.Hour))
		stale := env.repo.addRequest("mentee-1", "mentor-1", models.RequestPending, now.Add(-49*time.Hour))

		count, err := env.sweeper.Sweep(ctx, now, threshold)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 expired, got %d", count)
		}
		if env.repo.requestStatus(fresh.ID) != models.RequestPending {
			t.Errorf("47h-old request should stay PENDING, got %s", env.repo.requestStatus(fresh.ID))
		}
		if env.repo.requestStatus(stale.ID) != models.RequestCancelledAuto {
			t.Errorf("49h-old request should be CANCELLED_AUTO, got %s", env.repo.requestStatus(stale.ID))
		}

		types := env.eventTypes()
		if len(types) != 1 || types[0] != events.EventRequestAutoExpired {
			t.Errorf("unexpected events: %v", types)
		}
	})

	t.Run("non-pending requests are untouched", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		now := time.Now()

		accepted := env.repo.addRequest("mentee-1", "mentor-1", models.RequestAccepted, now.Add(-72*time.Hour))
		rejected := env.repo.addRequest("mentee-1", "mentor-1", models.RequestRejected, now.Add(-72*time.Hour))

		count, err := env.sweeper.Sweep(ctx, now, threshold)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 0 {
			t.Errorf("expected 0 expired, got %d", count)
		}
		if env.repo.requestStatus(accepted.ID) != models.RequestAccepted {
			t.Error("accepted request must not be swept")
		}
		if env.repo.requestStatus(rejected.ID) != models.RequestRejected {
			t.Error("rejected request must not be swept")
		}
	})

	t.Run("one failing row does not halt the sweep", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		now := time.Now()

		broken := env.repo.addRequest("mentee-1", "mentor-1", models.RequestPending, now.Add(-60*time.Hour))
		healthy := env.repo.addRequest("mentee-1", "mentor-1", models.RequestPending, now.Add(-50*time.Hour))
		env.repo.failStatusUpdate[broken.ID] = errors.New("deadlock detected")

		count, err := env.sweeper.Sweep(ctx, now, threshold)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 expired, got %d", count)
		}
		if env.repo.requestStatus(healthy.ID) != models.RequestCancelledAuto {
			t.Errorf("healthy request should expire, got %s", env.repo.requestStatus(healthy.ID))
		}
		if env.repo.requestStatus(broken.ID) != models.RequestPending {
			t.Errorf("broken request should stay PENDING, got %s", env.repo.requestStatus(broken.ID))
		}
	})

	t.Run("sweeping a clean state is a no-op", func(t *testing.T) {
		env := newTestEnv()
		seedPair(env)
		now := time.Now()
		env.repo.addRequest("mentee-1", "mentor-1", models.RequestPending, now.Add(-50*time.Hour))

		if _, err := env.sweeper.Sweep(ctx, now, threshold); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		count, err := env.sweeper.Sweep(ctx, now, threshold)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 0 {
			t.Errorf("second sweep should expire nothing, got %d", count)
		}
	})
}
