package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/cors"

	// OpenTelemetry
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	// PostgreSQL Driver
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"

	// Interne
	"github.com/jupiterclapton/murmure/config"
	"github.com/jupiterclapton/murmure/internal/adapters/primary/events"
	httpadapter "github.com/jupiterclapton/murmure/internal/adapters/primary/http"
	"github.com/jupiterclapton/murmure/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/murmure/internal/adapters/secondary/repository/inmemory"
	"github.com/jupiterclapton/murmure/internal/adapters/secondary/repository/postgres"
	"github.com/jupiterclapton/murmure/internal/adapters/secondary/security"
	"github.com/jupiterclapton/murmure/internal/core/ports"
	"github.com/jupiterclapton/murmure/internal/core/services"
)

// repositories regroupe les ports secondaires de persistance : un seul
// jeu, servi soit par Postgres soit par le store mémoire.
type repositories struct {
	users         ports.UserRepository
	posts         ports.PostRepository
	comments      ports.CommentRepository
	graph         ports.GraphRepository
	likes         ports.LikeRepository
	notifications ports.NotificationRepository
}

func main() {
	// 1. Charger la Config
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Initialiser le Logger (slog JSON pour la prod, Text pour le dev)
	initLogger(cfg)
	slog.Info("🚀 Starting Murmure API", "env", cfg.Env, "port", cfg.HTTPPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialiser le Tracing (OpenTelemetry)
	tp, err := initTracer(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				slog.Error("Error shutting down tracer", "error", err)
			}
		}()
	}

	// 4. Infrastructure : persistance (Postgres, ou mémoire en local)
	repos, cleanup, err := initRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init storage", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// 5. Infrastructure : Event Broker (NATS)
	nc, err := nats.Connect(cfg.NatsUrl)
	if err != nil {
		slog.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Drain()
	slog.Info("✅ NATS connected")
	broker := eventbroker.NewNatsPublisher(nc)

	// 6. Infrastructure : Sécurité (Clés RSA & Argon2)
	privKey, pubKey, err := loadKeys(cfg.RSAPrivateKeyPath, cfg.RSAPublicKeyPath)
	if err != nil {
		slog.Error("Failed to load RSA keys", "error", err)
		os.Exit(1)
	}

	jwtProvider, err := security.NewJWTProvider(privKey, pubKey)
	if err != nil {
		slog.Error("Failed to init JWT provider", "error", err)
		os.Exit(1)
	}

	hasher := security.NewArgon2Hasher(nil) // Params par défaut

	// 7. Wiring (Injection de dépendances) - Adapters -> Services
	identityService := services.NewIdentityService(repos.users, hasher, jwtProvider, broker)
	graphService := services.NewGraphService(repos.graph, repos.users, broker)
	contentService := services.NewContentService(repos.posts, repos.comments, repos.likes, broker)
	feedService := services.NewFeedService(graphService, repos.posts)
	notificationService := services.NewNotificationService(repos.notifications, repos.posts)

	// Consumer d'événements -> notifications (hors chemin synchrone)
	eventHandler := events.NewEventHandler(notificationService)
	if err := eventHandler.Subscribe(nc); err != nil {
		slog.Error("Failed to subscribe to events", "error", err)
		os.Exit(1)
	}

	// 8. Chaîne de Middlewares HTTP
	server := httpadapter.NewServer(identityService, graphService, contentService, feedService, notificationService)

	var h http.Handler = server.Router()

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "baggage", "sentry-trace"},
		AllowCredentials: true,
	})
	h = c.Handler(h)

	h = otelhttp.NewHandler(h, "murmure-api", otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))

	// 9. Démarrage Graceful
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: h,
	}

	go func() {
		slog.Info("📡 HTTP Server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// 10. Graceful Shutdown (Attente des signaux OS)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	sig := <-quit
	slog.Info("⚠️  Signal received, shutting down...", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("⏳ Timeout reached, forcing server stop", "error", err)
		_ = srv.Close()
	}

	slog.Info("👋 Service stopped")
}

// --- HELPERS ---

// initRepositories choisit le backend : Postgres si DB_URL est fournie,
// sinon le store mémoire (dev / tests).
func initRepositories(ctx context.Context, cfg *config.Config) (*repositories, func(), error) {
	if cfg.DBUrl == "" {
		slog.Warn("DB_URL not set, using in-memory storage")
		store := inmemory.New()
		return &repositories{
			users:         inmemory.NewUserRepo(store),
			posts:         inmemory.NewPostRepo(store),
			comments:      inmemory.NewCommentRepo(store),
			graph:         inmemory.NewGraphRepo(store),
			likes:         inmemory.NewLikeRepo(store),
			notifications: inmemory.NewNotificationRepo(store),
		}, func() {}, nil
	}

	dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("parse db config: %w", err)
	}

	// Injection du tracer OpenTelemetry dans le driver
	dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	// Vérification connectivité immédiate (Fail Fast)
	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("database ping: %w", err)
	}

	store := postgres.New(dbPool)
	if err := store.EnsureSchema(ctx); err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	slog.Info("✅ Database connected")

	return &repositories{
		users:         postgres.NewUserRepo(store),
		posts:         postgres.NewPostRepo(store),
		comments:      postgres.NewCommentRepo(store),
		graph:         postgres.NewGraphRepo(store),
		likes:         postgres.NewLikeRepo(store),
		notifications: postgres.NewNotificationRepo(store),
	}, dbPool.Close, nil
}

func initLogger(cfg *config.Config) {
	var handler slog.Handler
	if cfg.Env == "local" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}

func initTracer(ctx context.Context, cfg *config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
		otlptracegrpc.WithInsecure(), // En prod, gérez le TLS
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String("1.0.0"),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// Propagation du trace-id entre services (headers HTTP et NATS)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}

func loadKeys(privPath, pubPath string) ([]byte, []byte, error) {
	priv, err := os.ReadFile(privPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading private key: %w", err)
	}
	pub, err := os.ReadFile(pubPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading public key: %w", err)
	}
	return priv, pub, nil
}
