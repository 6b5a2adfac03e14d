// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/itsatony/w4b_warehouse/server/hub/api"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/cache"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/config"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/database"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/monitoring"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/mqttingest"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository/sqlstore"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/seed"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/warehouse"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config  *config.Config
	srv     *http.Server
	db      database.DB
	cache   cache.Cache
	service *warehouse.Service
	mqtt    *mqttingest.Subscriber
	cancel  context.CancelFunc
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Start initializes the services and begins listening for requests
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if err := s.initialize(ctx); err != nil {
		cancel()
		s.release()
		return err
	}

	router := api.NewRouter(s.service, s.config)
	s.srv.Handler = handlers.CombinedLoggingHandler(os.Stdout,
		handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
			handlers.CORS(
				handlers.AllowedOrigins([]string{"*"}),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
			)(router),
		),
	)

	if s.service.Cleanup.Enabled() {
		go s.service.Cleanup.Run(ctx)
	}

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

func (s *Server) initialize(ctx context.Context) error {
	db, err := database.Open(ctx, s.config.Database)
	if err != nil {
		return err
	}
	s.db = db
	store := sqlstore.New(db)

	var locker cache.Locker
	s.cache = cache.Nop{}
	if s.config.Redis.Enabled {
		rc, err := cache.NewRedis(ctx, s.config.Redis)
		if err != nil {
			return err
		}
		s.cache = rc
		locker = rc
		nuts.L.Infof("[Server] Redis cache enabled at %s:%d", s.config.Redis.Host, s.config.Redis.Port)
	}

	s.service, err = warehouse.New(s.config, warehouse.RepositoriesFrom(store), s.cache, locker)
	if err != nil {
		return err
	}

	seeder := seed.New(s.service.Auth, store.Users, store.Robots, store.Products)
	if err := seeder.Run(ctx, s.config.Auth, s.config.Seed); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	if s.config.MQTT.Enabled {
		s.mqtt = mqttingest.New(s.config.MQTT, s.service)
		s.mqtt.OnResult(func(_ *models.IngestAck, err error) {
			result := "ok"
			if err != nil {
				result = "error"
			}
			s.service.Monitoring.RecordEvent(monitoring.EventMQTTMessage, map[string]string{"result": result})
		})
		if err := s.mqtt.Start(); err != nil {
			return err
		}
	}
	return nil
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	// hijacked websocket connections are not tracked by http.Server
	s.service.Close()
	err := s.srv.Shutdown(ctx)
	s.cancel()
	s.release()
	if err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) release() {
	if s.mqtt != nil {
		s.mqtt.Stop()
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing cache: %v", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing database: %v", err)
		}
	}
}
