package post

import (
	"time"

	"xclone/internal/core/user"

	"github.com/gofrs/uuid"
)

const MaxContentLength = 280

type Post struct {
	ID        uuid.UUID `gorm:"primaryKey;type:char(36)"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	User      user.User `gorm:"foreignKey:UserID"`
	Content   string    `gorm:"type:varchar(280);not null"`
	Image     string    `gorm:"type:varchar(500)"`
	Location  string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Retweet is the "retweeted-by" edge between a user and a post.
type Retweet struct {
	ID        uuid.UUID `gorm:"primaryKey;type:char(36)"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_retweet_user_post"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_retweet_user_post;index"`
	Post      Post      `gorm:"foreignKey:PostID"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Stats are the per-post counters and viewer flags computed at read time.
type Stats struct {
	Likes     int64
	Comments  int64
	Retweets  int64
	Liked     bool
	Retweeted bool
}
