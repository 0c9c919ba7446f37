package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mentorloop/mentorship-service/internal/cache"
	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
)

type ProfilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewProfilePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ProfileRepository {
	return &ProfilePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (p *ProfilePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *ProfilePostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Profile, error) {
	db := p.getDB(tx)
	// Profiles are read on every matching pass, cache them outside transactions
	if tx == nil {
		cacheKey := fmt.Sprintf("user:%s", userID)
		var profile models.Profile
		err := p.cacheManager.Profile.CacheOrExecute(ctx, cacheKey, &profile, cache.ProfileCacheConfig.TTL, func() (interface{}, error) {
			var dbProfile models.Profile
			if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&dbProfile).Error; err != nil {
				return nil, err
			}
			return &dbProfile, nil
		})
		return &profile, err
	}

	var profile models.Profile
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *ProfilePostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	db := p.getDB(tx)
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"bio", "goals", "skills", "updated_at"}),
		}).
		Create(profile).Error
	if err != nil {
		return err
	}
	cache.InvalidateProfileCache(ctx, p.cacheManager, profile.UserID)
	return nil
}

func (p *ProfilePostgreSQL) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []string) ([]*models.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	db := p.getDB(tx)
	var profiles []*models.Profile
	if err := db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (p *ProfilePostgreSQL) ExistsByUserID(ctx context.Context, tx *gorm.DB, userID string) (bool, error) {
	db := p.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
