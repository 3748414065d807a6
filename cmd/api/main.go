package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cocinavecinal/cocina-vecinal-api/internal/config"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/cache"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/database"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/http/handlers"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/http/middleware"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/integration/whatsapp"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/mail"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/queue"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/infra/worker"
	"github.com/cocinavecinal/cocina-vecinal-api/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ configuración inválida: %v", err)
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ no se pudo conectar a Postgres: %v", err)
	}
	defer db.Close()

	// RabbitMQ es best-effort: sin broker el lead igual se guarda,
	// solo se pierde la bienvenida.
	var producer queue.ProducerInterface
	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		log.Printf("⚠️ RabbitMQ no disponible: %v (bienvenidas desactivadas)", err)
	} else {
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

		mailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
		waClient := whatsapp.NewClient(cfg.WhatsAppToken, cfg.WhatsAppPhoneID)

		welcomeWorker := queue.NewWorker(rabbitMQ.Ch, mailSender, waClient)
		go welcomeWorker.Start(queue.QueueName)
	}

	listingCache := cache.NewListingCache(cfg.RedisAddr)

	// Repositorios
	leadRepo := database.NewLeadRepository(db)
	profileRepo := database.NewProfileRepository(db)
	listingRepo := database.NewListingRepository(db)
	orderRepo := database.NewOrderRepository(db)

	// UseCases
	intakeCfg := usecase.DefaultLeadIntakeConfig()
	intakeCfg.DefaultCity = cfg.LeadDefaultCity
	leadIntake := usecase.NewLeadIntake(leadRepo, producer, intakeCfg)

	createOrderUC := usecase.NewCreateOrderUseCase(listingRepo, orderRepo)
	updateOrderUC := usecase.NewUpdateOrderStatusUseCase(orderRepo)

	// Worker de expiración de pedidos
	ctx := context.Background()
	expirationWorker := worker.NewOrderExpirationWorker(db)
	go expirationWorker.Start(ctx)

	// Handlers
	leadHandler := handlers.NewLeadHandler(leadIntake)
	listingHandler := handlers.NewListingHandler(listingRepo, profileRepo, listingCache)
	orderHandler := handlers.NewOrderHandler(createOrderUC, updateOrderUC, orderRepo)
	profileHandler := handlers.NewProfileHandler(profileRepo)

	healthHandler := newHealthHandler(db, rabbitMQ, listingCache)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://cocinavecinal.co", "http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	// Público
	r.Post("/api/leads", leadHandler.Capture)
	r.Get("/api/listings", listingHandler.Feed)
	r.Get("/api/listings/{id}", listingHandler.Detail)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// Autenticado
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))

		r.Get("/api/profile", profileHandler.Get)
		r.Put("/api/profile", profileHandler.Upsert)

		r.Post("/api/listings", listingHandler.Create)
		r.Patch("/api/listings/{id}/status", listingHandler.UpdateStatus)
		r.Get("/api/my/listings", listingHandler.Mine)

		r.Post("/api/orders", orderHandler.Create)
		r.Get("/api/orders", orderHandler.List)
		r.Patch("/api/orders/{id}/status", orderHandler.UpdateStatus)
	})

	addr := ":" + cfg.Port
	log.Printf("🔥 Cocina Vecinal API escuchando en %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("❌ servidor caído: %v", err)
	}
}

func newHealthHandler(db *sql.DB, rabbit *queue.RabbitMQ, c *cache.ListingCache) *handlers.HealthHandler {
	if rabbit != nil {
		return handlers.NewHealthHandler(db, rabbit.Conn, c)
	}
	return handlers.NewHealthHandler(db, nil, c)
}
