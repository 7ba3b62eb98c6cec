package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/z1shivam/blocklift/internal/aggregate"
	"github.com/z1shivam/blocklift/internal/web3"
)

// CampaignHandler serves campaign reads and the four state-changing
// operations of the crowdfunding contract.
type CampaignHandler struct {
	chain *web3.Service
	agg   *aggregate.Service
}

// NewCampaignHandler creates the campaign handler.
func NewCampaignHandler(chain *web3.Service, agg *aggregate.Service) *CampaignHandler {
	return &CampaignHandler{chain: chain, agg: agg}
}

// GetCampaigns lists campaigns. Supports start/limit paging plus optional
// category and creator filters.
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	start, _ := strconv.ParseInt(c.DefaultQuery("start", "0"), 10, 64)

	var (
		campaigns []*web3.CampaignDetails
		err       error
	)
	switch {
	case c.Query("creator") != "":
		campaigns, err = h.agg.UserCampaigns(c.Request.Context(), c.Query("creator"))
	case c.Query("category") != "":
		campaigns, err = h.agg.CampaignsByCategory(c.Request.Context(), c.Query("category"), limit)
	default:
		campaigns, err = h.agg.AllCampaigns(c.Request.Context(), start, int64(limit))
	}
	if err != nil {
		SuccessResponse(c, http.StatusOK, "Campaigns unavailable", []interface{}{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Campaigns fetched", h.display(campaigns))
}

// GetActiveCampaigns lists the newest active campaigns for the landing page.
func (h *CampaignHandler) GetActiveCampaigns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	campaigns, err := h.agg.ActiveCampaigns(c.Request.Context(), limit)
	if err != nil {
		SuccessResponse(c, http.StatusOK, "Campaigns unavailable", []interface{}{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Active campaigns fetched", h.display(campaigns))
}

// GetFeaturedCampaigns lists campaigns ranked by the featured score.
func (h *CampaignHandler) GetFeaturedCampaigns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	campaigns, err := h.agg.FeaturedCampaigns(c.Request.Context(), limit)
	if err != nil {
		SuccessResponse(c, http.StatusOK, "Campaigns unavailable", []interface{}{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Featured campaigns fetched", h.display(campaigns))
}

// GetTrendingCampaigns lists campaigns ranked by the trending score.
func (h *CampaignHandler) GetTrendingCampaigns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	campaigns, err := h.agg.TrendingCampaigns(c.Request.Context(), limit)
	if err != nil {
		SuccessResponse(c, http.StatusOK, "Campaigns unavailable", []interface{}{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Trending campaigns fetched", h.display(campaigns))
}

// SearchCampaigns performs a case-insensitive title/description search.
func (h *CampaignHandler) SearchCampaigns(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		ErrorResponse(c, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	campaigns, err := h.agg.SearchCampaigns(c.Request.Context(), query, limit)
	if err != nil {
		SuccessResponse(c, http.StatusOK, "Campaigns unavailable", []interface{}{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Search results fetched", h.display(campaigns))
}

// GetCampaign returns one campaign with its derived display fields.
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}
	display, err := h.agg.CampaignWithStats(c.Request.Context(), campaignID)
	if err != nil {
		if errors.Is(err, web3.ErrCampaignNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Campaign not found")
			return
		}
		ErrorResponse(c, http.StatusServiceUnavailable, "Blockchain unavailable")
		return
	}
	SuccessResponse(c, http.StatusOK, "Campaign fetched", display)
}

// GetCampaignStats returns the contract's per-campaign counters.
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}
	stats, err := h.chain.GetCampaignStats(c.Request.Context(), campaignID)
	if err != nil {
		if errors.Is(err, web3.ErrCampaignNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Campaign not found")
			return
		}
		ErrorResponse(c, http.StatusServiceUnavailable, "Blockchain unavailable")
		return
	}
	SuccessResponse(c, http.StatusOK, "Campaign stats fetched", stats)
}

// GetUserContribution returns one address's contribution to a campaign.
func (h *CampaignHandler) GetUserContribution(c *gin.Context) {
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}
	address := c.Query("address")
	if address == "" {
		ErrorResponse(c, http.StatusBadRequest, "Query parameter address is required")
		return
	}
	amount, err := h.chain.GetUserContribution(c.Request.Context(), campaignID, address)
	if err != nil {
		SuccessResponse(c, http.StatusOK, "Contribution unavailable", gin.H{"amount": "0.0"})
		return
	}
	SuccessResponse(c, http.StatusOK, "Contribution fetched", gin.H{"amount": amount})
}

// GetRefundEligibility reports whether an address can claim a refund.
func (h *CampaignHandler) GetRefundEligibility(c *gin.Context) {
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}
	address := c.Query("address")
	if address == "" {
		ErrorResponse(c, http.StatusBadRequest, "Query parameter address is required")
		return
	}
	eligible, err := h.chain.CanClaimRefund(c.Request.Context(), campaignID, address)
	if err != nil {
		SuccessResponse(c, http.StatusOK, "Eligibility unavailable", gin.H{"eligible": false})
		return
	}
	SuccessResponse(c, http.StatusOK, "Eligibility fetched", gin.H{"eligible": eligible})
}

// CreateCampaign submits a new campaign to the contract.
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var in web3.CreateCampaignInput
	if err := c.ShouldBindJSON(&in); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	writeTxResult(c, h.chain.CreateCampaign(c.Request.Context(), in), http.StatusCreated)
}

// Contribute sends ETH to a campaign.
func (h *CampaignHandler) Contribute(c *gin.Context) {
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}
	var req struct {
		Amount string `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	writeTxResult(c, h.chain.Contribute(c.Request.Context(), campaignID, req.Amount), http.StatusOK)
}

// WithdrawFunds transfers the raised amount to the campaign creator.
func (h *CampaignHandler) WithdrawFunds(c *gin.Context) {
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}
	writeTxResult(c, h.chain.WithdrawFunds(c.Request.Context(), campaignID), http.StatusOK)
}

// ClaimRefund returns a contribution after a failed campaign.
func (h *CampaignHandler) ClaimRefund(c *gin.Context) {
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}
	writeTxResult(c, h.chain.ClaimRefund(c.Request.Context(), campaignID), http.StatusOK)
}

func (h *CampaignHandler) campaignID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid campaign ID")
		return 0, false
	}
	return id, true
}

func (h *CampaignHandler) display(campaigns []*web3.CampaignDetails) []*aggregate.CampaignDisplay {
	out := make([]*aggregate.CampaignDisplay, 0, len(campaigns))
	for _, campaign := range campaigns {
		out = append(out, h.agg.FormatCampaign(campaign))
	}
	return out
}

// writeTxResult maps the failure taxonomy onto HTTP status codes.
func writeTxResult(c *gin.Context, result *web3.TxResult, successStatus int) {
	if result.Success {
		SuccessResponse(c, successStatus, "Transaction confirmed", result)
		return
	}
	status := http.StatusBadGateway
	switch result.Code {
	case web3.FailureValidation:
		status = http.StatusBadRequest
	case web3.FailureUserCancelled:
		status = http.StatusConflict
	case web3.FailureInsufficientFunds:
		status = http.StatusPaymentRequired
	}
	c.JSON(status, Response{Success: false, Message: result.Message, Data: result})
}
