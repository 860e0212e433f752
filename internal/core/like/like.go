package like

import (
	"time"

	"xclone/internal/core/post"
	"xclone/internal/core/user"

	"github.com/gofrs/uuid"
)

// Like is unique per (user, post); its presence is the liked state.
type Like struct {
	ID        uuid.UUID `gorm:"primaryKey;type:char(36)"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_like_user_post"`
	User      user.User `gorm:"foreignKey:UserID"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_like_user_post;index"`
	Post      post.Post `gorm:"foreignKey:PostID"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
