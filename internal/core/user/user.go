package user

import (
	"time"

	"github.com/gofrs/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"primaryKey;type:char(36)"`
	Username       string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email          string    `gorm:"type:varchar(254);uniqueIndex;not null"`
	Password       string    `gorm:"not null"` // bcrypt hash
	Bio            string    `gorm:"type:varchar(500)"`
	ProfilePicture string    `gorm:"type:varchar(500)"`
	BannerImage    string    `gorm:"type:varchar(500)"`
	SocialProvider string    `gorm:"type:varchar(50);index:idx_user_social"`
	SocialID       string    `gorm:"type:varchar(255);index:idx_user_social"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Stats are the graph counters shown on a profile.
type Stats struct {
	Followers int64
	Following int64
	Posts     int64
}
