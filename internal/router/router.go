package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/z1shivam/blocklift/internal/aggregate"
	"github.com/z1shivam/blocklift/internal/chat"
	"github.com/z1shivam/blocklift/internal/handler"
	"github.com/z1shivam/blocklift/internal/logic"
	"github.com/z1shivam/blocklift/internal/price"
	"github.com/z1shivam/blocklift/internal/wallet"
	"github.com/z1shivam/blocklift/internal/web3"
)

// Setup wires all handlers onto a gin engine.
func Setup(db *gorm.DB, chainSvc *web3.Service, agg *aggregate.Service, priceCache *price.Cache, chatSvc *chat.Service, walletMgr *wallet.Manager) *gin.Engine {
	r := gin.Default()

	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "blocklift",
		})
	})

	v1 := r.Group("/api/v1")
	{
		campaignHandler := handler.NewCampaignHandler(chainSvc, agg)
		campaigns := v1.Group("/campaigns")
		{
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("/active", campaignHandler.GetActiveCampaigns)
			campaigns.GET("/featured", campaignHandler.GetFeaturedCampaigns)
			campaigns.GET("/trending", campaignHandler.GetTrendingCampaigns)
			campaigns.GET("/search", campaignHandler.SearchCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.GET("/:id/stats", campaignHandler.GetCampaignStats)
			campaigns.GET("/:id/contribution", campaignHandler.GetUserContribution)
			campaigns.GET("/:id/refund-eligibility", campaignHandler.GetRefundEligibility)
			campaigns.POST("/:id/contributions", campaignHandler.Contribute)
			campaigns.POST("/:id/withdrawal", campaignHandler.WithdrawFunds)
			campaigns.POST("/:id/refund", campaignHandler.ClaimRefund)
		}

		platformHandler := handler.NewPlatformHandler(agg)
		v1.GET("/platform/stats", platformHandler.GetStats)

		priceHandler := handler.NewPriceHandler(priceCache)
		v1.GET("/prices", priceHandler.GetPrices)

		chatHandler := handler.NewChatHandler(chatSvc, logic.NewChatSessionLogic(db))
		chatGroup := v1.Group("/chat")
		{
			chatGroup.POST("/sessions", chatHandler.CreateSession)
			chatGroup.POST("/sessions/:id/messages", chatHandler.SendMessage)
		}

		profileLogic := logic.NewProfileLogic(db)
		walletHandler := handler.NewWalletHandler(walletMgr, profileLogic)
		walletGroup := v1.Group("/wallet")
		{
			walletGroup.POST("/connect", walletHandler.Connect)
			walletGroup.POST("/disconnect", walletHandler.Disconnect)
			walletGroup.GET("/account", walletHandler.GetAccount)
			walletGroup.POST("/switch", walletHandler.SwitchAccount)
		}

		profileHandler := handler.NewProfileHandler(profileLogic)
		profiles := v1.Group("/profiles")
		{
			profiles.GET("/:address", profileHandler.GetProfile)
			profiles.PUT("/:address", profileHandler.UpdateProfile)
		}
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
