package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/z1shivam/blocklift/internal/logic"
)

// ProfileHandler serves user profile reads and updates.
type ProfileHandler struct {
	profiles *logic.ProfileLogic
}

// NewProfileHandler creates the profile handler.
func NewProfileHandler(profiles *logic.ProfileLogic) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile returns the profile for one wallet address, creating a default
// row on first sight.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	address := c.Param("address")
	profile, _, err := h.profiles.EnsureProfile(address)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile fetched", profile)
}

type updateProfileRequest struct {
	DisplayName        *string `json:"displayName"`
	Bio                *string `json:"bio"`
	Avatar             *string `json:"avatar"`
	EmailNotifications *bool   `json:"emailNotifications"`
	CampaignUpdates    *bool   `json:"campaignUpdates"`
}

// UpdateProfile applies the provided fields and returns the updated row.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	address := c.Param("address")

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.EmailNotifications != nil {
		updates["email_notifications"] = *req.EmailNotifications
	}
	if req.CampaignUpdates != nil {
		updates["campaign_updates"] = *req.CampaignUpdates
	}
	if len(updates) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "No fields to update")
		return
	}

	if err := h.profiles.UpdateProfile(address, updates); err != nil {
		if errors.Is(err, logic.ErrProfileNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Profile not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	profile, err := h.profiles.GetProfile(address)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile updated", profile)
}
