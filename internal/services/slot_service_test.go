package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

func TestCreateSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("mentor publishes a valid slot", func(t *testing.T) {
		env := newTestEnv()
		env.repo.addUser("mentor-1", models.RoleMentor, models.UserActive)
		start := time.Now().Add(24 * time.Hour)

		slot, err := env.slots.Create(ctx, "mentor-1", &validator.SlotCreateRequest{
			StartAt: start,
			EndAt:   start.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if slot.MentorID != "mentor-1" || slot.Consumed {
			t.Errorf("unexpected slot: %+v", slot)
		}
	})

	t.Run("non-mentor cannot publish slots", func(t *testing.T) {
		env := newTestEnv()
		env.repo.addUser("mentee-1", models.RoleMentee, models.UserActive)
		start := time.Now().Add(24 * time.Hour)

		_, err := env.slots.Create(ctx, "mentee-1", &validator.SlotCreateRequest{
			StartAt: start,
			EndAt:   start.Add(time.Hour),
		})
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})

	t.Run("overlapping slot is rejected", func(t *testing.T) {
		env := newTestEnv()
		env.repo.addUser("mentor-1", models.RoleMentor, models.UserActive)
		start := time.Now().Add(24 * time.Hour)
		env.repo.addSlot("mentor-1", start, start.Add(time.Hour), false)

		_, err := env.slots.Create(ctx, "mentor-1", &validator.SlotCreateRequest{
			StartAt: start.Add(30 * time.Minute),
			EndAt:   start.Add(90 * time.Minute),
		})
		if !errors.Is(err, ErrSlotOverlap) {
			t.Errorf("expected ErrSlotOverlap, got %v", err)
		}
	})

	t.Run("touching slots do not overlap", func(t *testing.T) {
		env := newTestEnv()
		env.repo.addUser("mentor-1", models.RoleMentor, models.UserActive)
		start := time.Now().Add(24 * time.Hour)
		env.repo.addSlot("mentor-1", start, start.Add(time.Hour), false)

		// Back-to-back: the new slot starts exactly when the old one ends
		if _, err := env.slots.Create(ctx, "mentor-1", &validator.SlotCreateRequest{
			StartAt: start.Add(time.Hour),
			EndAt:   start.Add(2 * time.Hour),
		}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("another mentor may hold the same window", func(t *testing.T) {
		env := newTestEnv()
		env.repo.addUser("mentor-1", models.RoleMentor, models.UserActive)
		env.repo.addUser("mentor-2", models.RoleMentor, models.UserActive)
		start := time.Now().Add(24 * time.Hour)
		env.repo.addSlot("mentor-1", start, start.Add(time.Hour), false)

		if _, err := env.slots.Create(ctx, "mentor-2", &validator.SlotCreateRequest{
			StartAt: start,
			EndAt:   start.Add(time.Hour),
		}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("duration bounds", func(t *testing.T) {
		env := newTestEnv()
		env.repo.addUser("mentor-1", models.RoleMentor, models.UserActive)
		start := time.Now().Add(24 * time.Hour)

		cases := []struct {
			name string
			end  time.Time
		}{
			{"shorter than the minimum", start.Add(10 * time.Minute)},
			{"longer than the maximum", start.Add(9 * time.Hour)},
			{"end before start", start.Add(-time.Hour)},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := env.slots.Create(ctx, "mentor-1", &validator.SlotCreateRequest{
					StartAt: start,
					EndAt:   tc.end,
				})
				var validationErrs validator.ValidationErrors
				if !errors.As(err, &validationErrs) {
					t.Errorf("expected ValidationErrors, got %v", err)
				}
			})
		}
	})
}

func TestDeleteSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("free slot is deleted", func(t *testing.T) {
		env := newTestEnv()
		env.repo.addUser("mentor-1", models.RoleMentor, models.UserActive)
		slot := env.repo.addSlot("mentor-1", time.Now().Add(24*time.Hour), time.Now().Add(25*time.Hour), false)

		if err := env.slots.Delete(ctx, slot.ID, "mentor-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := env.slots.GetByID(ctx, slot.ID); !errors.Is(err, ErrSlotNotFound) {
			t.Errorf("expected ErrSlotNotFound after delete, got %v", err)
		}
	})

	t.Run("consumed slot cannot be deleted", func(t *testing.T) {
		env := newTestEnv()
		env.repo.addUser("mentor-1", models.RoleMentor, models.UserActive)
		slot := env.repo.addSlot("mentor-1", time.Now().Add(24*time.Hour), time.Now().Add(25*time.Hour), true)

		if err := env.slots.Delete(ctx, slot.ID, "mentor-1"); !errors.Is(err, ErrSlotConsumed) {
			t.Errorf("expected ErrSlotConsumed, got %v", err)
		}
	})

	t.Run("foreign slot cannot be deleted", func(t *testing.T) {
		env := newTestEnv()
		env.repo.addUser("mentor-1", models.RoleMentor, models.UserActive)
		env.repo.addUser("mentor-2", models.RoleMentor, models.UserActive)
		slot := env.repo.addSlot("mentor-1", time.Now().Add(24*time.Hour), time.Now().Add(25*time.Hour), false)

		err := env.slots.Delete(ctx, slot.ID, "mentor-2")
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})
}

func TestListFreeSlots(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.repo.addUser("mentor-1", models.RoleMentor, models.UserActive)

	now := time.Now()
	later := env.repo.addSlot("mentor-1", now.Add(72*time.Hour), now.Add(73*time.Hour), false)
	sooner := env.repo.addSlot("mentor-1", now.Add(24*time.Hour), now.Add(25*time.Hour), false)
	env.repo.addSlot("mentor-1", now.Add(48*time.Hour), now.Add(49*time.Hour), true)

	slots, err := env.slots.ListFree(ctx, "mentor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 free slots, got %d", len(slots))
	}
	if slots[0].ID != sooner.ID || slots[1].ID != later.ID {
		t.Errorf("expected ascending start order, got %d then %d", slots[0].ID, slots[1].ID)
	}
}
