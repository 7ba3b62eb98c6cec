package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/z1shivam/blocklift/internal/logic"
	"github.com/z1shivam/blocklift/internal/wallet"
)

// WalletHandler exposes the server wallet's connection state.
type WalletHandler struct {
	wallet   *wallet.Manager
	profiles *logic.ProfileLogic
}

// NewWalletHandler creates the wallet handler.
func NewWalletHandler(walletMgr *wallet.Manager, profiles *logic.ProfileLogic) *WalletHandler {
	return &WalletHandler{wallet: walletMgr, profiles: profiles}
}

// Connect activates the first configured account and ensures it has a
// profile row.
func (h *WalletHandler) Connect(c *gin.Context) {
	address, err := h.wallet.Connect()
	if err != nil {
		if errors.Is(err, wallet.ErrNoAccount) {
			ErrorResponse(c, http.StatusConflict, "No wallet account configured")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to connect wallet")
		return
	}

	profile, _, err := h.profiles.EnsureProfile(address)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	SuccessResponse(c, http.StatusOK, "Wallet connected", gin.H{
		"address": address,
		"profile": profile,
	})
}

// Disconnect deactivates the wallet.
func (h *WalletHandler) Disconnect(c *gin.Context) {
	h.wallet.Disconnect()
	SuccessResponse(c, http.StatusOK, "Wallet disconnected", nil)
}

// GetAccount reports the active account. Data is null when disconnected.
func (h *WalletHandler) GetAccount(c *gin.Context) {
	address, ok := h.wallet.ActiveAccount()
	if !ok {
		SuccessResponse(c, http.StatusOK, "Wallet disconnected", nil)
		return
	}
	SuccessResponse(c, http.StatusOK, "Active account fetched", gin.H{
		"address":  address.Hex(),
		"accounts": h.wallet.Accounts(),
	})
}

// SwitchAccount activates a different configured account.
func (h *WalletHandler) SwitchAccount(c *gin.Context) {
	var req struct {
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Address == "" {
		ErrorResponse(c, http.StatusBadRequest, "Address is required")
		return
	}
	if err := h.wallet.SwitchAccount(req.Address); err != nil {
		ErrorResponse(c, http.StatusNotFound, "Unknown account")
		return
	}
	SuccessResponse(c, http.StatusOK, "Account switched", gin.H{"address": req.Address})
}
