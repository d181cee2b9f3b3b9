package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lushlocks-backend/config"
	"lushlocks-backend/internal/delivery/http/middleware"
	v1 "lushlocks-backend/internal/delivery/http/v1"
	"lushlocks-backend/internal/infrastructure/cache"
	"lushlocks-backend/internal/infrastructure/payfast"
	pgrepo "lushlocks-backend/internal/repository/postgres"
	"lushlocks-backend/internal/usecase"
	"lushlocks-backend/pkg/logger"
	"lushlocks-backend/pkg/mailer"
	"lushlocks-backend/pkg/storage"
	"lushlocks-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	pgxPool, err := pgrepo.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgxPool.Close()
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	// Repositories
	userRepo := pgrepo.NewUserRepository(pgxPool)
	productRepo := pgrepo.NewProductRepository(pgxPool)
	cartRepo := pgrepo.NewCartRepository(pgxPool)
	orderRepo := pgrepo.NewOrderRepository(pgxPool)
	paymentRepo := pgrepo.NewPaymentRepository(pgxPool)
	discountRepo := pgrepo.NewDiscountRepository(pgxPool)
	returnRepo := pgrepo.NewReturnRepository(pgxPool)
	reviewRepo := pgrepo.NewReviewRepository(pgxPool)
	newsletterRepo := pgrepo.NewNewsletterRepository(pgxPool)
	settingsRepo := pgrepo.NewSettingsRepository(pgxPool)
	resetRepo := pgrepo.NewPasswordResetRepository(pgxPool)
	statsRepo := pgrepo.NewStatsRepository(pgxPool)
	txManager := pgrepo.NewTransactionManager(pgxPool)

	// Cache (in-memory). Only the store settings snapshot lives here.
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Mailer is optional in dev: usecases skip sending when it is nil.
	var mail mailer.Mailer
	if cfg.ResendAPIKey != "" {
		mail = mailer.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		log.Warn().Msg("RESEND_API_KEY not set; transactional email disabled")
	}

	// R2 media storage is optional the same way.
	var media *storage.R2Storage
	if cfg.R2AccountID != "" {
		media, err = storage.NewR2Storage(
			context.Background(),
			cfg.R2AccountID,
			cfg.R2AccessKeyID,
			cfg.R2AccessKeySecret,
			cfg.R2BucketName,
			cfg.R2PublicURL,
			cfg.R2UploadTimeout,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 storage")
		}
	} else {
		log.Warn().Msg("R2 credentials not set; product image upload disabled")
	}

	// PayFast gateway
	gateway := payfast.New(payfast.Config{
		MerchantID:  cfg.PayFastMerchantID,
		MerchantKey: cfg.PayFastMerchantKey,
		Passphrase:  cfg.PayFastPassphrase,
		ProcessURL:  cfg.PayFastProcessURL,
		ReturnURL:   cfg.FrontendURL + "/checkout/success",
		CancelURL:   cfg.FrontendURL + "/checkout/cancelled",
		NotifyURL:   cfg.BackendURL + "/api/v1/payments/payfast/notify",
		Sandbox:     cfg.PayFastSandbox,
	})

	// Usecases
	pricing := usecase.NewPricingEngine(productRepo, cfg.MaxCartQuantity)
	totals := usecase.NewTotalCalculator(cfg.TaxRate)
	discountUC := usecase.NewDiscountUsecase(discountRepo)
	authUC := usecase.NewAuthUsecase(userRepo, resetRepo, mail, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry, cfg.FrontendURL)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo, pricing)
	orderUC := usecase.NewOrderUsecase(orderRepo, cartRepo, userRepo, settingsRepo, discountUC, pricing, totals, txManager, mail, cfg.ShippingFlat)
	paymentUC := usecase.NewPaymentUsecase(paymentRepo, orderRepo, productRepo, userRepo, gateway, txManager, mail, cfg.IsProduction())
	catalogUC := usecase.NewCatalogUsecase(productRepo, media)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, orderRepo, productRepo)
	returnUC := usecase.NewReturnUsecase(returnRepo, orderRepo, productRepo, txManager)
	newsletterUC := usecase.NewNewsletterUsecase(newsletterRepo, mail)
	settingsUC := usecase.NewSettingsUsecase(settingsRepo, memCache, cfg.CacheSettingsTTL)
	statsUC := usecase.NewStatsUsecase(statsRepo)

	// Handlers
	authHandler := v1.NewAuthHandler(authUC)
	cartHandler := v1.NewCartHandler(cartUC)
	orderHandler := v1.NewOrderHandler(orderUC)
	paymentHandler := v1.NewPaymentHandler(paymentUC)
	discountHandler := v1.NewDiscountHandler(discountUC)
	catalogHandler := v1.NewCatalogHandler(catalogUC, reviewUC, settingsUC)
	reviewHandler := v1.NewReviewHandler(reviewUC)
	returnHandler := v1.NewReturnHandler(returnUC)
	newsletterHandler := v1.NewNewsletterHandler(newsletterUC)
	adminCatalogHandler := v1.NewAdminCatalogHandler(catalogUC, cfg.MaxUploadSizeMB<<20)
	adminOrderHandler := v1.NewAdminOrderHandler(orderUC, returnUC, paymentUC)
	adminHandler := v1.NewAdminHandler(discountUC, settingsUC, reviewUC, newsletterUC, authUC)
	adminStatsHandler := v1.NewAdminStatsHandler(statsUC)

	mux := http.NewServeMux()

	auth := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(middleware.RequireAdmin(h))
	}

	// Auth
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/v1/auth/forgot-password", authHandler.ForgotPassword)
	mux.HandleFunc("POST /api/v1/auth/reset-password", authHandler.ResetPassword)
	mux.Handle("GET /api/v1/auth/me", auth(authHandler.Profile))
	mux.Handle("PUT /api/v1/user/profile", auth(authHandler.UpdateProfile))
	mux.Handle("PUT /api/v1/user/password", auth(authHandler.ChangePassword))

	// Addresses
	mux.Handle("GET /api/v1/user/addresses", auth(authHandler.ListAddresses))
	mux.Handle("POST /api/v1/user/addresses", auth(authHandler.AddAddress))
	mux.Handle("PUT /api/v1/user/addresses/{id}", auth(authHandler.UpdateAddress))
	mux.Handle("DELETE /api/v1/user/addresses/{id}", auth(authHandler.DeleteAddress))

	// Catalog (public)
	mux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{slug}", catalogHandler.GetProduct)
	mux.HandleFunc("GET /api/v1/products/{id}/reviews", catalogHandler.ListProductReviews)
	mux.HandleFunc("GET /api/v1/shipping-rates", catalogHandler.ShippingRates)

	// Cart (guest or customer; the Principal middleware issues guest sessions)
	mux.HandleFunc("GET /api/v1/cart", cartHandler.Get)
	mux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem)
	mux.HandleFunc("PUT /api/v1/cart/items/{variantId}", cartHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/v1/cart/items/{variantId}", cartHandler.RemoveItem)
	mux.HandleFunc("DELETE /api/v1/cart", cartHandler.Clear)
	mux.HandleFunc("POST /api/v1/cart/validate", cartHandler.Validate)

	// Discounts (public validation at cart time)
	mux.HandleFunc("POST /api/v1/discounts/validate", discountHandler.Validate)

	// Orders
	mux.Handle("POST /api/v1/checkout", auth(orderHandler.Checkout))
	mux.Handle("GET /api/v1/orders", auth(orderHandler.MyOrders))
	mux.Handle("GET /api/v1/orders/{id}", auth(orderHandler.Get))

	// Payments. The ITN callback is registered on the root mux below so the
	// gateway is never rate limited or gzip-wrapped.
	mux.Handle("POST /api/v1/payments", auth(paymentHandler.Create))
	mux.Handle("GET /api/v1/orders/{id}/payments", auth(paymentHandler.ListByOrder))

	// Reviews & returns
	mux.Handle("POST /api/v1/reviews", auth(reviewHandler.Create))
	mux.Handle("POST /api/v1/returns", auth(returnHandler.Request))
	mux.Handle("GET /api/v1/returns", auth(returnHandler.MyReturns))

	// Newsletter
	mux.HandleFunc("POST /api/v1/newsletter/subscribe", newsletterHandler.Subscribe)
	mux.HandleFunc("POST /api/v1/newsletter/unsubscribe", newsletterHandler.Unsubscribe)

	// Admin: catalog
	mux.Handle("GET /api/v1/admin/products", admin(adminCatalogHandler.ListProducts))
	mux.Handle("GET /api/v1/admin/products/{id}", admin(adminCatalogHandler.GetProduct))
	mux.Handle("POST /api/v1/admin/products", admin(adminCatalogHandler.CreateProduct))
	mux.Handle("PUT /api/v1/admin/products/{id}", admin(adminCatalogHandler.UpdateProduct))
	mux.Handle("DELETE /api/v1/admin/products/{id}", admin(adminCatalogHandler.DeleteProduct))
	mux.Handle("POST /api/v1/admin/products/{id}/variants", admin(adminCatalogHandler.CreateVariant))
	mux.Handle("PUT /api/v1/admin/variants/{variantId}", admin(adminCatalogHandler.UpdateVariant))
	mux.Handle("DELETE /api/v1/admin/variants/{variantId}", admin(adminCatalogHandler.DeleteVariant))
	mux.Handle("POST /api/v1/admin/variants/{variantId}/stock", admin(adminCatalogHandler.AdjustStock))
	mux.Handle("GET /api/v1/admin/variants/{variantId}/inventory-logs", admin(adminCatalogHandler.InventoryLogs))
	mux.Handle("POST /api/v1/admin/products/{id}/images", admin(adminCatalogHandler.UploadImage))
	mux.Handle("DELETE /api/v1/admin/products/{id}/images", admin(adminCatalogHandler.DeleteImage))

	// Admin: orders, returns, payments
	mux.Handle("GET /api/v1/admin/orders", admin(adminOrderHandler.ListOrders))
	mux.Handle("GET /api/v1/admin/orders/{id}", admin(adminOrderHandler.GetOrder))
	mux.Handle("PATCH /api/v1/admin/orders/{id}/status", admin(adminOrderHandler.UpdateStatus))
	mux.Handle("GET /api/v1/admin/orders/{id}/history", admin(adminOrderHandler.OrderHistory))
	mux.Handle("GET /api/v1/admin/orders/{id}/payments", admin(adminOrderHandler.OrderPayments))
	mux.Handle("GET /api/v1/admin/returns", admin(adminOrderHandler.ListReturns))
	mux.Handle("GET /api/v1/admin/returns/{id}", admin(adminOrderHandler.GetReturn))
	mux.Handle("PATCH /api/v1/admin/returns/{id}/review", admin(adminOrderHandler.ReviewReturn))
	mux.Handle("POST /api/v1/admin/returns/{id}/refund", admin(adminOrderHandler.RefundReturn))

	// Admin: discounts, shipping, reviews, newsletter, customers
	mux.Handle("GET /api/v1/admin/discounts", admin(adminHandler.ListDiscounts))
	mux.Handle("GET /api/v1/admin/discounts/{id}", admin(adminHandler.GetDiscount))
	mux.Handle("POST /api/v1/admin/discounts", admin(adminHandler.CreateDiscount))
	mux.Handle("PUT /api/v1/admin/discounts/{id}", admin(adminHandler.UpdateDiscount))
	mux.Handle("DELETE /api/v1/admin/discounts/{id}", admin(adminHandler.DeleteDiscount))
	mux.Handle("GET /api/v1/admin/shipping-rates", admin(adminHandler.ListShippingRates))
	mux.Handle("POST /api/v1/admin/shipping-rates", admin(adminHandler.CreateShippingRate))
	mux.Handle("PUT /api/v1/admin/shipping-rates/{id}", admin(adminHandler.UpdateShippingRate))
	mux.Handle("DELETE /api/v1/admin/shipping-rates/{id}", admin(adminHandler.DeleteShippingRate))
	mux.Handle("GET /api/v1/admin/reviews", admin(adminHandler.ListReviews))
	mux.Handle("DELETE /api/v1/admin/reviews/{id}", admin(adminHandler.DeleteReview))
	mux.Handle("GET /api/v1/admin/newsletter/export", admin(adminHandler.ExportSubscribers))
	mux.Handle("GET /api/v1/admin/users", admin(adminHandler.ListUsers))
	mux.Handle("GET /api/v1/admin/enums", admin(adminHandler.Enums))

	// Admin: stats
	mux.Handle("GET /api/v1/admin/stats/dashboard", admin(adminStatsHandler.Dashboard))
	mux.Handle("GET /api/v1/admin/stats/revenue", admin(adminStatsHandler.DailyRevenue))

	// Health
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler)

	// Rate limiter: 50 req/s, burst 100, cleanup every minute, TTL 3 minutes.
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,
		100,
		time.Minute,
		3*time.Minute,
	)

	// Principal runs before the request logger so log lines carry user_id.
	handler := middleware.RequestLogger(mux)
	handler = middleware.Principal(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)
	handler = middleware.NewCORSMiddleware(cfg)(handler)

	// The gateway ITN callback skips the rate limiter and gzip: a throttled
	// or mangled acknowledgement would make PayFast retry and eventually
	// abandon the notification.
	root := http.NewServeMux()
	root.Handle("POST /api/v1/payments/payfast/notify", middleware.RequestLogger(http.HandlerFunc(paymentHandler.Notify)))
	root.Handle("/", handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: root,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart("lushlocks-backend", "1.0.0", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
