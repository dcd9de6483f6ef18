package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"agrobook-backend/internal/auth"
	"agrobook-backend/internal/backup"
	"agrobook-backend/internal/cache"
	"agrobook-backend/internal/config"
	"agrobook-backend/internal/database"
	"agrobook-backend/internal/db"
	"agrobook-backend/internal/handlers"
	"agrobook-backend/internal/health"
	apphttp "agrobook-backend/internal/http"
	"agrobook-backend/internal/middleware"
	"agrobook-backend/internal/realtime"
	"agrobook-backend/internal/repositories"
	"agrobook-backend/internal/services"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()
	log.Println("[DB] Connected to PostgreSQL")

	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	cache.Init()

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	loginLogRepo := repositories.NewLoginLogRepository(pool)
	personRepo := repositories.NewPersonRepository(pool)
	equipmentRepo := repositories.NewEquipmentRepository(pool)
	cropTypeRepo := repositories.NewCropTypeRepository(pool)
	entryRepo := repositories.NewEntryRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	onlineTxRepo := repositories.NewOnlineTransactionRepository(pool)

	// Realtime hub
	hub := realtime.NewHub()
	go hub.Run()

	// Services
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpirationHours, cfg.JWT.Issuer)
	totpService := services.NewTOTPService(userRepo, cfg.JWT.Issuer)
	userService := services.NewUserService(userRepo, loginLogRepo, jwtManager, totpService)
	personService := services.NewPersonService(pool, personRepo, entryRepo, paymentRepo)
	entryService := services.NewEntryService(pool, entryRepo, personRepo, equipmentRepo, cropTypeRepo, paymentRepo, hub)
	paymentService := services.NewPaymentService(pool, paymentRepo, entryRepo, personRepo, hub)
	receiptService := services.NewReceiptService(personRepo, equipmentRepo, "AgroBook")
	reportService := services.NewReportService(personRepo, entryRepo, paymentRepo)
	razorpayService := services.NewRazorpayService(
		cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret,
		cfg.Razorpay.FeePercent, onlineTxRepo, entryRepo, paymentService)

	// Background S3 backups, if configured
	if backupService, err := backup.NewService(cfg, pool); err != nil {
		log.Printf("[Backup] Disabled: %v", err)
	} else if backupService != nil {
		go backupService.Start(context.Background())
	}

	// Handlers
	authMW := middleware.NewAuthMiddleware(jwtManager, userRepo)
	router := apphttp.NewRouter(apphttp.RouterDeps{
		Auth:      authMW,
		AuthH:     handlers.NewAuthHandler(userService),
		UserH:     handlers.NewUserHandler(userService),
		PersonH:   handlers.NewPersonHandler(personService),
		EquipH:    handlers.NewEquipmentHandler(equipmentRepo),
		CropH:     handlers.NewCropTypeHandler(cropTypeRepo),
		EntryH:    handlers.NewEntryHandler(entryService),
		PaymentH:  handlers.NewPaymentHandler(paymentService, receiptService, entryService),
		RazorpayH: handlers.NewRazorpayHandler(razorpayService),
		TOTPH:     handlers.NewTOTPHandler(totpService),
		ReportH:   handlers.NewReportHandler(reportService, personService),
		HealthH:   health.NewHandler(pool),
		Hub:       hub,
	})

	handler := middleware.PanicRecovery(middleware.CORS(cfg)(router))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Server] Listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
