package web3

// CampaignDetails is the decoded 13-tuple returned by getCampaignDetails,
// with monetary fields converted to decimal ETH strings.
type CampaignDetails struct {
	ID               int64  `json:"id"`
	Creator          string `json:"creator"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	ImageHash        string `json:"imageHash"`
	Category         string `json:"category"`
	Goal             string `json:"goal"`
	Deadline         int64  `json:"deadline"`
	TotalRaised      string `json:"totalRaised"`
	CreatedAt        int64  `json:"createdAt"`
	GoalReached      bool   `json:"goalReached"`
	FundsWithdrawn   bool   `json:"fundsWithdrawn"`
	IsActive         bool   `json:"isActive"`
	ContributorCount int64  `json:"contributorCount"`
}

// CampaignStats is the decoded getCampaignStats tuple.
type CampaignStats struct {
	PercentageFunded int64 `json:"percentageFunded"`
	TimeLeft         int64 `json:"timeLeft"`
	ContributorCount int64 `json:"contributorCount"`
	IsExpired        bool  `json:"isExpired"`
}

// PlatformStats is the decoded getPlatformStats tuple.
type PlatformStats struct {
	TotalCampaigns        int64  `json:"totalCampaigns"`
	TotalFundsRaised      string `json:"totalFundsRaised"`
	SuccessfulCampaigns   int64  `json:"successfulCampaigns"`
	TotalContributors     int64  `json:"totalContributors"`
	PlatformFeesCollected string `json:"platformFeesCollected"`
}

// CreateCampaignInput carries human-unit parameters for CreateCampaign.
type CreateCampaignInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageHash    string `json:"imageHash"`
	Category     string `json:"category"`
	GoalEth      string `json:"goal"`
	DurationDays int64  `json:"durationInDays"`
}

// TxResult is the outcome of a state-changing operation. Failures are
// classified, never raised: every path resolves to a TxResult.
type TxResult struct {
	Success bool        `json:"success"`
	TxHash  string      `json:"txHash,omitempty"`
	Code    FailureCode `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}
