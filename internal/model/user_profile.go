package model

import (
	"time"
)

// UserProfile is the server-side profile created the first time a wallet
// address connects. Campaign data is never stored here; the chain remains
// the only authority for it.
type UserProfile struct {
	Address   string    `json:"address" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DisplayName string `json:"display_name"`
	Bio         string `json:"bio" gorm:"type:text"`
	Avatar      string `json:"avatar"`

	JoinedAt time.Time `json:"joined_date"`

	// Notification preferences
	EmailNotifications bool `json:"email_notifications" gorm:"default:true"`
	CampaignUpdates    bool `json:"campaign_updates" gorm:"default:true"`
}

// TableName sets the table name.
func (UserProfile) TableName() string {
	return "user_profile"
}
