package logic

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/z1shivam/blocklift/internal/model"
)

// ErrProfileNotFound is returned when no profile exists for an address.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileLogic mediates user profile reads and writes.
type ProfileLogic struct {
	db *gorm.DB
}

// NewProfileLogic creates the profile logic.
func NewProfileLogic(db *gorm.DB) *ProfileLogic {
	return &ProfileLogic{db: db}
}

// GetProfile fetches one profile by wallet address.
func (p *ProfileLogic) GetProfile(address string) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := p.db.First(&profile, "address = ?", address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}

// EnsureProfile creates a default profile for an address on first
// connection. Returns the profile and whether it was newly created.
func (p *ProfileLogic) EnsureProfile(address string) (*model.UserProfile, bool, error) {
	existing, err := p.GetProfile(address)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, false, err
	}

	profile := &model.UserProfile{
		Address:            address,
		DisplayName:        defaultDisplayName(address),
		JoinedAt:           time.Now(),
		EmailNotifications: true,
		CampaignUpdates:    true,
	}
	if err := p.db.Create(profile).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, true, nil
}

// UpdateProfile applies a partial update to the editable fields.
func (p *ProfileLogic) UpdateProfile(address string, updates map[string]interface{}) error {
	allowed := map[string]bool{
		"display_name":        true,
		"bio":                 true,
		"avatar":              true,
		"email_notifications": true,
		"campaign_updates":    true,
	}
	filtered := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return errors.New("no updatable fields provided")
	}

	result := p.db.Model(&model.UserProfile{}).Where("address = ?", address).Updates(filtered)
	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func defaultDisplayName(address string) string {
	if len(address) > 6 {
		return "User " + address[:6]
	}
	return "User " + address
}
