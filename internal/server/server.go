// Package server exposes a custody wallet over authenticated HTTP.
//
// Every wallet route runs exactly one engine operation for the caller named by
// the bearer token.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/deadswitch/internal/auth"
	"github.com/danmuck/deadswitch/internal/config"
	"github.com/danmuck/deadswitch/internal/custody"
	"github.com/danmuck/deadswitch/internal/events"
	"github.com/danmuck/deadswitch/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const version = "0.1.0"

var ErrMissingWallet = errors.New("server: missing wallet")

// Options configures the HTTP host.
type Options struct {
	Name        string
	Addr        string
	CorsOrigins []string
	Wallet      *custody.Wallet
	Validator   auth.Validator
	Assets      map[custody.AssetID]config.Asset
	Events      *events.MemorySink
}

// Server is the gin host for one wallet.
type Server struct {
	name      string
	addr      string
	wallet    *custody.Wallet
	validator auth.Validator
	assets    map[custody.AssetID]config.Asset
	events    *events.MemorySink
	router    *gin.Engine
	started   time.Time
}

func New(opts Options) (*Server, error) {
	if opts.Wallet == nil {
		return nil, ErrMissingWallet
	}
	if opts.Validator == nil {
		opts.Validator = auth.Chain{}
	}
	if opts.Assets == nil {
		opts.Assets = map[custody.AssetID]config.Asset{}
	}
	observability.RegisterMetrics()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestID())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(opts.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(opts.CorsOrigins),
		AllowMethods: []string{"GET", "POST", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", observability.RequestIDHeader},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		name:      opts.Name,
		addr:      opts.Addr,
		wallet:    opts.Wallet,
		validator: opts.Validator,
		assets:    opts.Assets,
		events:    opts.Events,
		router:    r,
		started:   time.Now(),
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("node", s.name).Str("addr", s.addr).Msg("deadswitch http listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Str("node", s.name).Msg("deadswitch http shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

const callerKey = observability.CallerKey

// authenticate resolves the bearer token into the request caller.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token", "kind": "authentication"})
			return
		}
		id, err := s.validator.Validate(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrUnauthorized.Error(), "kind": "authentication"})
			return
		}
		c.Set(callerKey, id)
		c.Next()
	}
}

func caller(c *gin.Context) custody.Identity {
	v, _ := c.Get(callerKey)
	id, _ := v.(custody.Identity)
	return id
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
