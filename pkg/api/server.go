package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cbodonnell/arena/pkg/api/handlers"
	"github.com/cbodonnell/arena/pkg/api/middleware"
	"github.com/cbodonnell/arena/pkg/game"
	"github.com/cbodonnell/arena/pkg/log"
	"github.com/cbodonnell/arena/pkg/repositories"
	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
)

// GzipMinSize is the smallest response body that gets compressed
const GzipMinSize = 256

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port        int
	TLS         *TLSConfig
	AllowOrigin string
	GameManager *game.GameManager
	Repository  repositories.Repository
}

// NewAPIServer creates a new http.Server for handling session requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           NewHandler(opts),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// NewHandler builds the routes and middleware of the session API.
func NewHandler(opts NewAPIServerOptions) http.Handler {
	allowOrigin := opts.AllowOrigin
	if allowOrigin == "" {
		allowOrigin = "*"
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", handlers.HandleHealth(opts.GameManager)).Methods(http.MethodGet)

	sessions := router.PathPrefix("/sessions/{" + middleware.SessionCodeVar + "}").Subrouter()
	sessions.Use(middleware.ValidateSessionCode)
	sessions.HandleFunc("", handlers.HandleJoin(opts.GameManager)).Methods(http.MethodPost)
	sessions.HandleFunc("", handlers.HandleGetWorld(opts.GameManager)).Methods(http.MethodGet)
	sessions.HandleFunc("/projectiles", handlers.HandleGetProjectiles(opts.GameManager)).Methods(http.MethodGet)
	sessions.HandleFunc("/explosives", handlers.HandleGetExplosives(opts.GameManager)).Methods(http.MethodGet)
	sessions.HandleFunc("/intents", handlers.HandleSubmitIntent(opts.GameManager)).Methods(http.MethodPost)
	sessions.HandleFunc("/leave", handlers.HandleLeave(opts.GameManager)).Methods(http.MethodPost)
	sessions.HandleFunc("/events", handlers.HandleListEvents(opts.Repository)).Methods(http.MethodGet)

	var handler http.Handler = router
	handler = middleware.NewCORSMiddleware(allowOrigin)(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Recovery(handler)

	gzip, err := gzhttp.NewWrapper(gzhttp.MinSize(GzipMinSize))
	if err != nil {
		log.Error("Failed to create gzip wrapper, responses will not be compressed: %v", err)
		return handler
	}
	return gzip(handler)
}

// Start starts the APIServer
func (s *APIServer) Start() error {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return nil
		}
		return fmt.Errorf("api server error: %w", err)
	}
	return nil
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
