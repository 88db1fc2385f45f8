package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "marketchat/cmd/api/router/v1"
	"marketchat/internal/infrastructure/auth"
	cacheadapter "marketchat/internal/infrastructure/cache/adapter"
	"marketchat/internal/infrastructure/database"
	"marketchat/internal/infrastructure/eventbus"
	"marketchat/internal/infrastructure/id"
	"marketchat/internal/infrastructure/logger"
	queueadapter "marketchat/internal/infrastructure/queue/adapter"
	"marketchat/internal/infrastructure/realtime"
	"marketchat/internal/pkg/chat/application/task"
	repoadapter "marketchat/internal/pkg/chat/persistence/repository/adapter"
	chathttp "marketchat/internal/pkg/chat/presentation/http"
	"marketchat/internal/pkg/chat/presentation/controller"
	profileadapter "marketchat/internal/pkg/profile/adapter"
)

func main() {
	// Missing .env is fine in containerized deployments; config comes from
	// the process environment there.
	_ = godotenv.Load()

	logger.Init()
	log := logger.For("main")

	if err := id.Init(nodeID()); err != nil {
		log.Error("id generator init failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(connectCtx)
	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	cache, err := cacheadapter.NewRedisAdapter()
	if err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}
	defer cache.Close()

	qclient, err := queueadapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Error("queue client init failed", "err", err)
		os.Exit(1)
	}
	defer qclient.Close()

	bus := eventbus.NewInMemoryBus()

	registry := realtime.NewRegistry()
	defer registry.Close()

	userNS := mustRegister(registry, "user", auth.NewHMACVerifier(secretFor("USER_JWT_SECRET"), "user"))
	adminNS := mustRegister(registry, "admin", auth.NewHMACVerifier(secretFor("ADMIN_JWT_SECRET"), "admin"))
	deliveryNS := mustRegister(registry, "delivery", auth.NewHMACVerifier(secretFor("DELIVERY_JWT_SECRET"), "deliveryPartner"))

	notifier := controller.NewAdminNotifier(adminNS, bus)
	defer notifier.Close()

	qserver, err := queueadapter.NewAsynqServer()
	if err != nil {
		log.Error("queue server init failed", "err", err)
		os.Exit(1)
	}
	task.RegisterAdminNotifyTask(qserver, bus)
	go func() {
		if err := qserver.Run(ctx); err != nil {
			log.Error("queue server stopped", "err", err)
		}
	}()

	repo := repoadapter.NewPgChatRepository(pool)
	directory := profileadapter.NewCachedDirectory(profileadapter.NewPgDirectory(pool), cache)

	// A message for an admin with no live connection is escalated through the
	// background queue instead of being lost until the next poll.
	offlineNotify := func(ctx context.Context, receiverID string) {
		if adminNS.Router.IsConnected(receiverID) {
			return
		}
		err := task.EnqueueAdminNotify(ctx, qclient, task.AdminNotifyTaskPayload{
			AdminID: receiverID,
			Text:    "You have a new chat message",
		})
		if err != nil {
			log.Error("offline notify enqueue failed", "receiver", receiverID, "err", err)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig()))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, chathttp.Deps{
		Repo:          repo,
		Directory:     directory,
		Bus:           bus,
		UserNS:        userNS,
		AdminNS:       adminNS,
		OfflineNotify: offlineNotify,
	}, deliveryNS)

	srv := &http.Server{
		Addr:    listenAddr(),
		Handler: r,
	}

	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "err", err)
	}
}

func mustRegister(registry *realtime.Registry, name string, verifier auth.Verifier) *realtime.Namespace {
	ns, err := registry.Register(name, verifier)
	if err != nil {
		logger.For("main").Error("namespace registration failed", "namespace", name, "err", err)
		os.Exit(1)
	}
	return ns
}

// secretFor reads the namespace-scoped signing secret, falling back to the
// shared JWT_SECRET when the deployment uses a single key for all roles.
func secretFor(envVar string) string {
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv("JWT_SECRET"))
}

func nodeID() int64 {
	if v := strings.TrimSpace(os.Getenv("SNOWFLAKE_NODE_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return 1
}

func listenAddr() string {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		return ":" + port
	}
	return ":8080"
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if origins := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowAllOrigins = true
	}
	return cfg
}
