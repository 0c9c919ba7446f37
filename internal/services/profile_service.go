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

type profileService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProfileService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ProfileService {
	return &profileService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *profileService) Get(ctx context.Context, userID string) (*ProfileResponse, error) {
	profile, err := s.repo.Profile().GetByUserID(ctx, s.db, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return toProfileResponse(profile), nil
}

func (s *profileService) Update(ctx context.Context, userID string, req *validator.ProfileUpdateRequest) (*ProfileResponse, error) {
	s.logger.Info("Updating profile", "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	exists, err := s.repo.User().ExistsByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	profile, err := s.repo.Profile().GetByUserID(ctx, s.db, userID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		profile = &models.Profile{UserID: userID}
	}

	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Goals != nil {
		profile.Goals = *req.Goals
	}
	if req.Skills != nil {
		if err := profile.SetSkills(req.Skills); err != nil {
			return nil, fmt.Errorf("failed to encode skills: %w", err)
		}
	}

	if err := s.repo.Profile().Upsert(ctx, s.db, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return toProfileResponse(profile), nil
}

func toProfileResponse(profile *models.Profile) *ProfileResponse {
	return &ProfileResponse{
		UserID:    profile.UserID,
		Bio:       profile.Bio,
		Goals:     profile.Goals,
		Skills:    profile.SkillList(),
		UpdatedAt: profile.UpdatedAt,
	}
}
