package contract

// CrowdfundingABI is the canonical call surface of the deployed BlockLift
// crowdfunding contract. getCampaignDetails returns a fixed 13-tuple; the
// positional layout is load-bearing for every decoder in this package.
const CrowdfundingABI = `[
	{
		"type": "function",
		"name": "createCampaign",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "_title", "type": "string"},
			{"name": "_description", "type": "string"},
			{"name": "_imageHash", "type": "string"},
			{"name": "_category", "type": "string"},
			{"name": "_goal", "type": "uint256"},
			{"name": "_durationInDays", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "contribute",
		"stateMutability": "payable",
		"inputs": [{"name": "campaignId", "type": "uint256"}],
		"outputs": []
	},
	{
		"type": "function",
		"name": "withdrawFunds",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "campaignId", "type": "uint256"}],
		"outputs": []
	},
	{
		"type": "function",
		"name": "claimRefund",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "campaignId", "type": "uint256"}],
		"outputs": []
	},
	{
		"type": "function",
		"name": "cancelCampaign",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "campaignId", "type": "uint256"}],
		"outputs": []
	},
	{
		"type": "function",
		"name": "getCampaignDetails",
		"stateMutability": "view",
		"inputs": [{"name": "campaignId", "type": "uint256"}],
		"outputs": [
			{"name": "creator", "type": "address"},
			{"name": "title", "type": "string"},
			{"name": "description", "type": "string"},
			{"name": "imageHash", "type": "string"},
			{"name": "category", "type": "string"},
			{"name": "goal", "type": "uint256"},
			{"name": "deadline", "type": "uint256"},
			{"name": "totalRaised", "type": "uint256"},
			{"name": "createdAt", "type": "uint256"},
			{"name": "goalReached", "type": "bool"},
			{"name": "fundsWithdrawn", "type": "bool"},
			{"name": "isActive", "type": "bool"},
			{"name": "contributorCount", "type": "uint256"}
		]
	},
	{
		"type": "function",
		"name": "getContribution",
		"stateMutability": "view",
		"inputs": [
			{"name": "campaignId", "type": "uint256"},
			{"name": "contributor", "type": "address"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "getCampaignStats",
		"stateMutability": "view",
		"inputs": [{"name": "campaignId", "type": "uint256"}],
		"outputs": [
			{"name": "percentageFunded", "type": "uint256"},
			{"name": "timeLeft", "type": "uint256"},
			{"name": "contributorCount", "type": "uint256"},
			{"name": "isExpired", "type": "bool"}
		]
	},
	{
		"type": "function",
		"name": "getPlatformStats",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [
			{"name": "totalCampaigns", "type": "uint256"},
			{"name": "totalFundsRaised", "type": "uint256"},
			{"name": "successfulCampaigns", "type": "uint256"},
			{"name": "totalContributors", "type": "uint256"},
			{"name": "platformFeesCollected", "type": "uint256"}
		]
	},
	{
		"type": "function",
		"name": "canClaimRefund",
		"stateMutability": "view",
		"inputs": [
			{"name": "campaignId", "type": "uint256"},
			{"name": "contributor", "type": "address"}
		],
		"outputs": [{"name": "", "type": "bool"}]
	},
	{
		"type": "function",
		"name": "campaignCounter",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "event",
		"name": "CampaignCreated",
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "campaignId", "type": "uint256"},
			{"indexed": true, "name": "creator", "type": "address"},
			{"indexed": false, "name": "title", "type": "string"},
			{"indexed": false, "name": "goal", "type": "uint256"},
			{"indexed": false, "name": "deadline", "type": "uint256"},
			{"indexed": false, "name": "category", "type": "string"},
			{"indexed": false, "name": "timestamp", "type": "uint256"}
		]
	},
	{
		"type": "event",
		"name": "ContributionMade",
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "campaignId", "type": "uint256"},
			{"indexed": true, "name": "contributor", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"},
			{"indexed": false, "name": "newTotal", "type": "uint256"},
			{"indexed": false, "name": "timestamp", "type": "uint256"}
		]
	},
	{
		"type": "event",
		"name": "GoalReached",
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "campaignId", "type": "uint256"},
			{"indexed": false, "name": "totalRaised", "type": "uint256"},
			{"indexed": false, "name": "timestamp", "type": "uint256"}
		]
	}
]`
