package main

import (
	"github.com/gin-gonic/gin"

	"github.com/z1shivam/blocklift/internal/aggregate"
	"github.com/z1shivam/blocklift/internal/chat"
	"github.com/z1shivam/blocklift/internal/config"
	"github.com/z1shivam/blocklift/internal/database"
	"github.com/z1shivam/blocklift/internal/logger"
	"github.com/z1shivam/blocklift/internal/logic"
	"github.com/z1shivam/blocklift/internal/price"
	"github.com/z1shivam/blocklift/internal/router"
	"github.com/z1shivam/blocklift/internal/scheduler"
	"github.com/z1shivam/blocklift/internal/wallet"
	"github.com/z1shivam/blocklift/internal/web3"
)

func main() {
	cfg := config.Load()

	if err := logger.Setup(logger.Options{
		Level:  cfg.Log.Level,
		Output: cfg.Log.Output,
		File:   cfg.Log.File,
	}); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	walletMgr, err := wallet.NewManager(cfg.Wallet)
	if err != nil {
		logger.Fatal("Failed to initialize wallet: %v", err)
	}

	// Make sure every account that ever activates has a profile row.
	profileLogic := logic.NewProfileLogic(db)
	walletMgr.Subscribe(func(ev wallet.AccountEvent) {
		if !ev.Connected {
			return
		}
		if _, created, err := profileLogic.EnsureProfile(ev.Address); err != nil {
			logger.Error("Failed to ensure profile for %s: %v", ev.Address, err)
		} else if created {
			logger.Info("Created profile for %s", ev.Address)
		}
	})

	chainSvc := web3.NewService(cfg.Chain, walletMgr)
	defer chainSvc.Close()

	agg := aggregate.NewService(chainSvc)
	priceCache := price.NewCache(cfg.Price)

	chatSvc, err := chat.NewService(cfg.AI, priceCache)
	if err != nil {
		logger.Fatal("Failed to initialize chat service: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.Setup(db, chainSvc, agg, priceCache, chatSvc, walletMgr)

	taskManager, err := scheduler.Start(db, priceCache)
	if err != nil {
		logger.Fatal("Failed to start scheduler: %v", err)
	}
	defer taskManager.Stop()

	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
