package follower

import (
	"time"

	"xclone/internal/core/user"

	"github.com/gofrs/uuid"
)

// Follower is a directed edge: FollowerID follows UserID.
type Follower struct {
	ID         uuid.UUID `gorm:"primaryKey;type:char(36)"`
	UserID     uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_follow_edge,priority:2;index"`
	User       user.User `gorm:"foreignKey:UserID"`
	FollowerID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_follow_edge,priority:1"`
	Follower   user.User `gorm:"foreignKey:FollowerID"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
