package main

import (
	"context"
	"log"
	stdhttp "net/http"

	"nfttrader-backend/internal/config"
	httpdelivery "nfttrader-backend/internal/delivery/http"
	"nfttrader-backend/internal/delivery/websocket"
	"nfttrader-backend/internal/domain"
	"nfttrader-backend/internal/events"
	"nfttrader-backend/internal/infrastructure/db"
	"nfttrader-backend/internal/infrastructure/fcm"
	"nfttrader-backend/internal/infrastructure/marketplace"
	"nfttrader-backend/internal/infrastructure/opensea"
	"nfttrader-backend/internal/repository"
	"nfttrader-backend/internal/usecase"
)

func main() {
	ctx := context.Background()

	// 1. Configuration
	cfg := config.Load()
	log.Printf("Marketplace API: %s (key %s)", cfg.MarketplaceBaseURL, cfg.MaskedAPIKey())

	// 2. Event bus
	bus := events.NewBus()

	// 3. Repositories. The trade log goes to Postgres when DATABASE_URL is
	// set; everything else is in-memory.
	valuationStore := repository.NewInMemoryValuationStore()
	ruleRepo := repository.NewInMemoryRuleRepository()
	oppRepo := repository.NewInMemoryOpportunityRepository()
	tokenRepo := repository.NewTokenRepository()

	var tradeRepo domain.TradeRepository = repository.NewInMemoryTradeRepository()
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolConfigFromEnv())
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
		tradeRepo = repository.NewPostgresTradeRepository(pool)
		log.Println("Trade log persisted to Postgres")
	} else {
		log.Println("DATABASE_URL not set, trade log stays in memory")
	}

	// 4. Market data providers
	marketClient := opensea.NewClient(cfg.MarketplaceBaseURL, cfg.MarketplaceAPIKey)
	executor := marketplace.NewPaperExecutor()

	// 5. Usecases
	valuationSvc := usecase.NewValuationService(marketClient, valuationStore)
	evaluator := usecase.NewConditionEvaluator(valuationSvc, marketClient)
	actionExecutor := usecase.NewActionExecutor(tradeRepo, executor, bus)
	ruleSvc := usecase.NewRuleService(ruleRepo, evaluator, actionExecutor, bus)
	scanner := usecase.NewOpportunityScanner(valuationSvc, marketClient, marketClient, marketClient, oppRepo, bus)
	automation := usecase.NewAutomationService(scanner, ruleSvc)
	defer automation.StopAll()
	performance := usecase.NewPerformanceService(tradeRepo)

	// 6. Push notifications (optional, needs Firebase credentials)
	fcmClient, err := fcm.NewClient()
	if err != nil {
		log.Printf("FCM disabled: %v", err)
	}
	notifier := usecase.NewAlertNotifier(fcmClient, tokenRepo)
	bus.Subscribe(notifier.Handle)

	// 7. Delivery
	valuationHandler := httpdelivery.NewValuationHandler(valuationSvc)
	ruleHandler := httpdelivery.NewRuleHandler(ruleSvc)
	automationHandler := httpdelivery.NewAutomationHandler(automation, scanner, performance, ruleSvc, tradeRepo, oppRepo)
	tokenHandler := httpdelivery.NewTokenHandler(tokenRepo)
	wsHandler := websocket.NewHandler(oppRepo, tradeRepo)

	stdhttp.HandleFunc("/api/valuation", valuationHandler.GetValuation)
	stdhttp.HandleFunc("/api/valuation/clear", valuationHandler.ClearCache)
	stdhttp.HandleFunc("/api/analytics", valuationHandler.GetAnalytics)

	stdhttp.HandleFunc("/api/rules", ruleHandler.HandleRules)
	stdhttp.HandleFunc("/api/rules/rule", ruleHandler.HandleRule)

	stdhttp.HandleFunc("/api/automation/start", automationHandler.Start)
	stdhttp.HandleFunc("/api/automation/stop", automationHandler.Stop)
	stdhttp.HandleFunc("/api/automation/status", automationHandler.Status)
	stdhttp.HandleFunc("/api/opportunities", automationHandler.GetOpportunities)
	stdhttp.HandleFunc("/api/trades/active", automationHandler.GetActiveTrades)
	stdhttp.HandleFunc("/api/performance", automationHandler.GetPerformance)
	stdhttp.HandleFunc("/api/owner/clear", automationHandler.ClearOwnerData)

	stdhttp.HandleFunc("/api/tokens/register", tokenHandler.HandleRegisterToken)
	stdhttp.HandleFunc("/api/tokens/unregister", tokenHandler.HandleUnregisterToken)
	stdhttp.HandleFunc("/api/tokens/count", tokenHandler.HandleGetTokenCount)

	stdhttp.HandleFunc("/ws", wsHandler.Handle)

	log.Printf("Server executing on %s", cfg.Addr)
	if err := stdhttp.ListenAndServe(cfg.Addr, nil); err != nil {
		log.Fatal(err)
	}
}
