package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

func TestProfileUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("first update creates the profile", func(t *testing.T) {
		env := newTestEnv()
		env.repo.addUser("mentee-1", models.RoleMentee, models.UserActive)

		profile, err := env.profiles.Update(ctx, "mentee-1", &validator.ProfileUpdateRequest{
			Bio:    strPtr("backend developer"),
			Goals:  strPtr("learn distributed systems"),
			Skills: []string{"Go", "Postgres"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.Bio != "backend developer" {
			t.Errorf("unexpected bio: %q", profile.Bio)
		}
		if len(profile.Skills) != 2 {
			t.Errorf("unexpected skills: %v", profile.Skills)
		}
	})

	t.Run("partial update keeps the untouched fields", func(t *testing.T) {
		env := newTestEnv()
		env.repo.addUser("mentee-1", models.RoleMentee, models.UserActive)
		env.repo.addProfile("mentee-1", "old bio", "old goals", []string{"go"})

		profile, err := env.profiles.Update(ctx, "mentee-1", &validator.ProfileUpdateRequest{
			Bio: strPtr("new bio"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.Bio != "new bio" {
			t.Errorf("unexpected bio: %q", profile.Bio)
		}
		if profile.Goals != "old goals" {
			t.Errorf("goals should be untouched, got %q", profile.Goals)
		}
		if len(profile.Skills) != 1 || profile.Skills[0] != "go" {
			t.Errorf("skills should be untouched, got %v", profile.Skills)
		}
	})

	t.Run("unknown user cannot hold a profile", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.profiles.Update(ctx, "ghost", &validator.ProfileUpdateRequest{
			Bio: strPtr("bio"),
		})
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("blank skill tags are rejected", func(t *testing.T) {
		env := newTestEnv()
		env.repo.addUser("mentee-1", models.RoleMentee, models.UserActive)

		_, err := env.profiles.Update(ctx, "mentee-1", &validator.ProfileUpdateRequest{
			Skills: []string{"go", ""},
		})
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			t.Errorf("expected ValidationErrors, got %v", err)
		}
	})
}

func TestProfileGet(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.repo.addUser("mentee-1", models.RoleMentee, models.UserActive)

	t.Run("missing profile", func(t *testing.T) {
		_, err := env.profiles.Get(ctx, "mentee-1")
		if !errors.Is(err, ErrProfileNotFound) {
			t.Errorf("expected ErrProfileNotFound, got %v", err)
		}
	})

	t.Run("existing profile", func(t *testing.T) {
		env.repo.addProfile("mentee-1", "bio", "goals", []string{"go"})

		profile, err := env.profiles.Get(ctx, "mentee-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.UserID != "mentee-1" || profile.Bio != "bio" {
			t.Errorf("unexpected profile: %+v", profile)
		}
	})
}
