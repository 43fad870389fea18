package repository

import (
	"context"

	"gorm.io/gorm"
)

// GormStatsRepository implements StatsRepository using GORM
type GormStatsRepository struct {
	db *gorm.DB
}

// NewGormStatsRepository creates a new GORM-backed stats repository
func NewGormStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

func (r *GormStatsRepository) AppendSync(ctx context.Context, roomCode, userID, mediaType, mediaID string) error {
	row := SyncedVideoModel{
		RoomCode:  roomCode,
		UserID:    userID,
		MediaType: mediaType,
		MediaID:   mediaID,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *GormStatsRepository) AddReaction(ctx context.Context, roomCode, userID, emoji string) error {
	row := ReactionModel{
		RoomCode: roomCode,
		UserID:   userID,
		Emoji:    emoji,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *GormStatsRepository) AddWatchTime(ctx context.Context, userID string, seconds int64) error {
	return r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", userID).
		UpdateColumn("watch_time", gorm.Expr("watch_time + ?", seconds)).Error
}
