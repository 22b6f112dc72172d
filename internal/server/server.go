package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"ghostwood/internal/heritage"
	"ghostwood/internal/history"
	"ghostwood/internal/logging"
	"ghostwood/internal/wizard"
)

// Options configures a Server.
type Options struct {
	Bind  string
	Token string
	// Wizard is the template for every session controller. BrandContext is
	// filled in from the startup lookups when left nil.
	Wizard      wizard.Deps
	History     *history.Store
	MaxSessions int
	Logger      *slog.Logger
}

// Server is the HTTP front end.
type Server struct {
	opts     Options
	logger   *slog.Logger
	router   *gin.Engine
	sessions *sessionRegistry
	startup  atomic.Pointer[heritage.Startup]

	listener net.Listener
	server   *http.Server
}

// New builds the router. Startup lookups are attached later with SetStartup;
// until then heritage endpoints report the default persona.
func New(opts Options) *Server {
	s := &Server{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "api-server"),
	}
	if s.opts.Wizard.BrandContext == nil {
		s.opts.Wizard.BrandContext = s.brandContext
	}
	if s.opts.Wizard.Logger == nil {
		s.opts.Wizard.Logger = opts.Logger
	}
	s.sessions = newSessionRegistry(opts.MaxSessions, func() *wizard.Controller {
		return wizard.New(s.opts.Wizard)
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestContext())
	s.registerRoutes(router)
	s.router = router
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// SetStartup publishes the startup lookup results.
func (s *Server) SetStartup(st heritage.Startup) {
	s.startup.Store(&st)
}

func (s *Server) loadedStartup() (heritage.Startup, bool) {
	st := s.startup.Load()
	if st == nil {
		return heritage.Startup{}, false
	}
	return *st, true
}

func (s *Server) brandContext() string {
	st, _ := s.loadedStartup()
	return st.BrandContext()
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.opts.Bind)
	if bind == "" {
		return errors.New("api bind address required")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Generation calls can take most of a minute.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	if s == nil || s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}
