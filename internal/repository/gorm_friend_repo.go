package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatusAccepted is the only friendship status the sync core ever writes:
// sharing a room auto-accepts both directions.
const StatusAccepted = "accepted"

// GormFriendRepository implements FriendRepository using GORM
type GormFriendRepository struct {
	db *gorm.DB
}

// NewGormFriendRepository creates a new GORM-backed friend repository
func NewGormFriendRepository(db *gorm.DB) *GormFriendRepository {
	return &GormFriendRepository{db: db}
}

// UpsertMutual inserts both directions of the pair, updating status to
// accepted when a row (possibly a pending request) already exists.
func (r *GormFriendRepository) UpsertMutual(ctx context.Context, userID, friendID string) error {
	rows := []FriendModel{
		{UserID: userID, FriendID: friendID, Status: StatusAccepted},
		{UserID: friendID, FriendID: userID, Status: StatusAccepted},
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "friend_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"status": StatusAccepted}),
		}).
		Create(&rows).Error
}
