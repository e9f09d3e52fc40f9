package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carebook/config"
	"carebook/cron"
	"carebook/database"
	holdRepo "carebook/database/repository/hold"
	missionRepo "carebook/database/repository/mission"
	providerRepo "carebook/database/repository/provider"
	"carebook/handlers"
	"carebook/routes"
	"carebook/services/availability"
	"carebook/services/checkout"
	"carebook/services/hold"
	"carebook/services/metrics"
	"carebook/services/mission"
	"carebook/services/notification"
	"carebook/services/payment"
	"carebook/services/pricing"
	"carebook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	stripe.Key = config.AppConfig.StripeKey
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// stores.
	database.InitDB()
	db := database.DB()
	missions, err := missionRepo.NewMongoMissionRepo(db, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize mission repository", zap.Error(err))
	}
	providers, err := providerRepo.NewMongoProviderRepo(db)
	if err != nil {
		logger.Fatal("main: failed to initialize provider repository", zap.Error(err))
	}
	holdClient := utils.GetHoldCacheClient()
	holds := hold.NewHoldService(holdRepo.NewRedisHoldRepo(holdClient), config.HoldTTL(), logger)

	// queue and push delivery.
	queue := asynq.NewClient(utils.QueueRedisOpt())
	defer queue.Close()
	notifier := notification.NewQueueNotifier(queue, logger)

	fcmClient, err := utils.NewFCMClient(rootCtx)
	if err != nil {
		logger.Fatal("main: failed to initialize push messaging", zap.Error(err))
	}
	sender := notification.NewFCMSender(fcmClient, providers, logger)

	bookingMetrics := metrics.NewBookingMetrics(nil)
	loc := config.Location()

	// services.
	availabilitySvc := availability.NewAvailabilityService(
		providers,
		missions,
		holds,
		availability.Matcher{Lead: config.LeadTime(), Location: loc},
		logger,
	)

	missionSvc := &mission.DefaultMissionService{
		Repo:         missions,
		Providers:    providers,
		Alternatives: availabilitySvc,
		Holds:        holds,
		Payouts:      payment.NewStripeGateway(logger, config.AppConfig.PayoutCurrency),
		Notifier:     notifier,
		Metrics:      bookingMetrics,
		Logger:       logger,
		Location:     loc,
		LeadTime:     config.LeadTime(),
	}

	checkoutSvc := &checkout.DefaultCheckoutService{
		Providers: providers,
		Pricing: pricing.Calculator{
			CustomerFeeRate: config.AppConfig.CustomerFeeRate,
			PlatformFeeRate: config.AppConfig.PlatformFeeRate,
		},
		Payments: payment.NewStripeGateway(logger, config.AppConfig.PayoutCurrency),
		Missions: missionSvc,
		Currency: config.AppConfig.PayoutCurrency,
		Logger:   logger,
	}

	// background work.
	scanner := &cron.IntegrityScanner{Repo: missions, Metrics: bookingMetrics, Logger: logger}
	worker := cron.NewWorker(utils.QueueRedisOpt(), sender, scanner, config.AppConfig.IntegrityScanCron, logger)
	if err := worker.Start(); err != nil {
		logger.Fatal("main: failed to start task worker", zap.Error(err))
	}
	defer worker.Shutdown()

	utils.StartHealthMonitor(rootCtx, 30*time.Second, holdClient, database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	handlerBundle := &handlers.HandlerBundle{
		Availability: availabilitySvc,
		Holds:        holds,
		Checkout:     checkoutSvc,
		Missions:     missionSvc,
		Timeout:      config.RequestTimeout(),
		Logger:       logger,
	}
	routes.RegisterRoutes(router, handlerBundle, config.AppConfig.MaxRequestsPerMin)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := database.Close(ctx); err != nil {
		logger.Warn("main: failed to close mongo client", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
