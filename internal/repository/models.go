package repository

import "time"

// UserModel is the GORM model for the users table. Accounts are created by
// the auth surface, not by this service; the sync core only reads identity
// fields and accumulates watch time.
type UserModel struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Email     string `gorm:"uniqueIndex;type:varchar(255)"`
	Avatar    string `gorm:"type:varchar(512)"`
	WatchTime int64  `gorm:"column:watch_time;not null;default:0"`
	CreatedAt time.Time
}

func (UserModel) TableName() string { return "users" }

// FriendModel is the GORM model for the friends table. Rows come in mirrored
// pairs; (user_id, friend_id) is unique so the co-presence upsert is idempotent.
type FriendModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_friend_pair,priority:1"`
	FriendID  string `gorm:"column:friend_id;type:varchar(36);not null;uniqueIndex:idx_friend_pair,priority:2"`
	Status    string `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time
}

func (FriendModel) TableName() string { return "friends" }

// RoomModel records created rooms for the dashboard surface
type RoomModel struct {
	Code      string `gorm:"primaryKey;type:varchar(32)"`
	HostID    string `gorm:"column:host_id;type:varchar(36)"`
	IsPublic  bool   `gorm:"column:is_public"`
	CreatedAt time.Time
}

func (RoomModel) TableName() string { return "rooms" }

// SyncedVideoModel is one play-history row, appended on every host load event
type SyncedVideoModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	RoomCode  string `gorm:"column:room_code;type:varchar(32);index"`
	UserID    string `gorm:"column:user_id;type:varchar(36);index"`
	MediaType string `gorm:"column:media_type;type:varchar(16)"`
	MediaID   string `gorm:"column:media_id;type:varchar(512)"`
	CreatedAt time.Time
}

func (SyncedVideoModel) TableName() string { return "synced_videos" }

// ReactionModel is one recorded emoji reaction
type ReactionModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	RoomCode  string `gorm:"column:room_code;type:varchar(32);index"`
	UserID    string `gorm:"column:user_id;type:varchar(36);index"`
	Emoji     string `gorm:"type:varchar(16)"`
	CreatedAt time.Time
}

func (ReactionModel) TableName() string { return "reactions" }

// Models lists every model this service migrates at startup
func Models() []interface{} {
	return []interface{}{
		&UserModel{},
		&FriendModel{},
		&RoomModel{},
		&SyncedVideoModel{},
		&ReactionModel{},
	}
}
