package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/config"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/dispatch"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/handler"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/middleware"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/platform"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/rates"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/repository"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/service"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/pkg/cache"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/pkg/db"
)

func main() {
	// ── Load configuration ──────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// ── Load rate tables ────────────────────────────────
	var (
		book  *rates.RateBook
		rules rates.RuleSet
	)
	if cfg.Pricing.RatesFile != "" {
		book, rules, err = rates.Load(cfg.Pricing.RatesFile)
		if err != nil {
			log.Fatalf("failed to load rate tables: %v", err)
		}
	} else {
		book = rates.DefaultRateBook()
		rules = rates.DefaultRuleSet()
	}
	if err := rates.Validate(book, rules); err != nil {
		log.Fatalf("rate tables failed validation: %v", err)
	}
	log.Println("✓ Rate tables validated")

	calendar := rates.DefaultCalendar()
	if cfg.Pricing.HolidaysFile != "" {
		calendar, err = rates.LoadCalendar(cfg.Pricing.HolidaysFile)
		if err != nil {
			log.Fatalf("failed to load holiday calendar: %v", err)
		}
	}

	// ── Connect to PostgreSQL ───────────────────────────
	// Quoting works without it; only the audit trail and settlement
	// reporting need the database.
	pgPool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Printf("WARNING: PostgreSQL unavailable, quote audit and settlement reporting disabled: %v", err)
	} else {
		defer pgPool.Close()
		log.Println("✓ PostgreSQL connected")
	}

	// ── Connect to Redis ────────────────────────────────
	// Platform preferences fall back to in-process session storage and
	// availability checks go uncached when Redis is down.
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Printf("WARNING: Redis unavailable, preference persistence and availability caching disabled: %v", err)
	} else {
		defer redisClient.Close()
		log.Println("✓ Redis connected")
	}

	// ── Dispatch client ─────────────────────────────────
	var dispatchClient *dispatch.Client
	if cfg.Dispatch.BaseURL != "" {
		dispatchClient, err = dispatch.NewClient(dispatch.ClientConfig{
			BaseURL: cfg.Dispatch.BaseURL,
			APIKey:  cfg.Dispatch.APIKey,
			Timeout: cfg.Dispatch.Timeout,
		})
		if err != nil {
			log.Fatalf("failed to create dispatch client: %v", err)
		}
		log.Println("✓ Dispatch client configured")
	} else {
		log.Println("WARNING: DISPATCH_BASE_URL not set, availability assumes open fleet and bookings record locally only")
	}

	// ── Initialize layers ───────────────────────────────
	var auditRepo *repository.AuditRepository
	if pgPool != nil {
		auditRepo = repository.NewAuditRepository(pgPool)
	}
	prefRepo := repository.NewPreferenceRepository(redisClient, cfg.Preference.SessionTTL, cfg.Preference.LongTTL)

	resolver := platform.NewResolver(platform.DefaultRules(), prefRepo)

	engine := service.NewRateEngine(book, rules, calendar)
	quoteSvc := service.NewQuoteService(engine, auditRepo, cfg.Pricing.ShowCommission)
	availabilitySvc := service.NewAvailabilityService(dispatchClient, redisClient)
	bookingSvc := service.NewBookingService(quoteSvc, availabilitySvc, dispatchClient)

	platformHandler := handler.NewPlatformHandler(resolver, cfg.Pricing.ShowCommission)
	quoteHandler := handler.NewQuoteHandler(quoteSvc, resolver)
	fleetHandler := handler.NewFleetHandler()
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc, resolver)
	settlementHandler := handler.NewSettlementHandler(auditRepo)

	// ── Setup router ────────────────────────────────────
	router := mux.NewRouter()

	// Health check endpoint.
	router.HandleFunc("/health", healthHandler(pgPool, redisClient)).Methods(http.MethodGet)

	// API v1 routes.
	api := router.PathPrefix("/api/v1").Subrouter()
	// Quoting
	api.HandleFunc("/quote", quoteHandler.CreateQuote).Methods(http.MethodPost)
	api.HandleFunc("/platform", platformHandler.ResolvePlatform).Methods(http.MethodGet)
	api.HandleFunc("/fleet", fleetHandler.ListFleet).Methods(http.MethodGet)
	// Availability and booking
	api.HandleFunc("/availability", availabilityHandler.CheckAvailability).Methods(http.MethodPost)
	api.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods(http.MethodPost)
	// Partner settlement
	api.HandleFunc("/settlement/commissions", settlementHandler.GetCommissions).Methods(http.MethodGet)

	// CORS sits outermost so booking-widget preflights short-circuit
	// before logging; the recoverer wraps the router itself.
	srvHandler := middleware.CORS(middleware.RequestLogger(middleware.Recoverer(router)))

	// ── Start HTTP server ───────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      srvHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in a goroutine so we can listen for shutdown signals.
	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Server.ServerAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// ── Graceful shutdown ───────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("⏳ Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}

// HealthResponse represents the /health endpoint response.
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// healthHandler returns an HTTP handler that checks PG and Redis
// connectivity. Backends that were never configured report "disabled"
// without degrading overall status.
func healthHandler(pgPool *pgxpool.Pool, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:   "ok",
			Services: make(map[string]string),
		}

		if pgPool == nil {
			resp.Services["postgres"] = "disabled"
		} else if err := db.HealthCheck(r.Context(), pgPool); err != nil {
			resp.Status = "degraded"
			resp.Services["postgres"] = "unhealthy: " + err.Error()
		} else {
			resp.Services["postgres"] = "healthy"
		}

		if redisClient == nil {
			resp.Services["redis"] = "disabled"
		} else if err := cache.HealthCheck(r.Context(), redisClient); err != nil {
			resp.Status = "degraded"
			resp.Services["redis"] = "unhealthy: " + err.Error()
		} else {
			resp.Services["redis"] = "healthy"
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(resp)
	}
}
