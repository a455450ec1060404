// Package server wires the credential store, session registry, remote
// list client and both channels into a running process.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/numpanel/apiserver/config"
	"github.com/numpanel/apiserver/internal/bot"
	"github.com/numpanel/apiserver/internal/handlers"
	"github.com/numpanel/apiserver/internal/notify"
	"github.com/numpanel/apiserver/internal/remotelist"
	"github.com/numpanel/apiserver/internal/services"
	"github.com/numpanel/apiserver/internal/session"
	"github.com/numpanel/apiserver/internal/store"
	"github.com/numpanel/apiserver/types"
)

const (
	defaultAdminUser     = "admin"
	defaultAdminPassword = "admin123"
)

// Server runs the HTTP channel and, when configured, the bot channel.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	store      *store.Store
	bot        *bot.Bot
	log        *slog.Logger
}

// New constructs a Server from configuration. The bot channel is only
// started when a Telegram token is configured; the web channel always
// runs.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*Server, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	userRepo := store.NewUserRepository(st)
	faillogRepo := store.NewFailedLoginRepository(st)
	userService := services.NewUserService(userRepo, faillogRepo)

	seeded, err := userService.EnsureDefaultAdmin(defaultAdminUser, defaultAdminPassword)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}
	if seeded {
		log.Warn("initialized default admin account, please change the password",
			"username", defaultAdminUser)
	}

	owner, repo, err := cfg.GitHub.SplitRepo()
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	remote := remotelist.NewGitHubList(cfg.GitHub.Token, owner, repo, cfg.GitHub.FilePath, cfg.GitHub.Branch)
	numberService := services.NewNumberService(remote)

	sessions := session.NewRegistry()

	var notifier notify.Notifier = notify.Nop{}
	var chatBot *bot.Bot
	if cfg.Telegram.BotToken != "" {
		client := bot.NewClient(cfg.Telegram.APIBase, cfg.Telegram.BotToken)
		notifier = notify.NewAdminNotifier(client, cfg.Telegram.AdminChatIDs, log)
		chatBot = bot.New(client, log, userService, numberService, sessions, notifier)
	} else {
		log.Warn("telegram token not set, bot channel disabled")
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	registerRoutes(router, sessions, userService, numberService, notifier)

	port := cfg.ServerPort
	if port == 0 {
		port = 3000
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		store:      st,
		bot:        chatBot,
		log:        log,
	}, nil
}

func registerRoutes(router chi.Router, sessions *session.Registry, userService *services.UserService, numberService *services.NumberService, notifier notify.Notifier) {
	authHandler := handlers.NewAuthHandler(userService, sessions)
	numbersHandler := handlers.NewNumbersHandler(numberService, notifier)
	usersHandler := handlers.NewUsersHandler(userService, notifier)

	requireSession := handlers.RequireSession(sessions)
	adminOnly := handlers.RequireRole(types.RoleAdmin)

	router.Get("/healthz", handlers.Healthz)
	router.Post("/login", authHandler.Login)
	router.Get("/list-numbers", numbersHandler.List)

	router.Group(func(r chi.Router) {
		r.Use(requireSession)
		r.Post("/add-number", numbersHandler.Add)
		r.Post("/delete-number", numbersHandler.Delete)
	})

	router.Group(func(r chi.Router) {
		r.Use(requireSession, adminOnly)
		r.Post("/add-user", usersHandler.Add)
		r.Post("/delete-user", usersHandler.Delete)
		r.Get("/list-users", usersHandler.List)
	})
}

// Router exposes the chi router for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the bot loop (if configured) and the HTTP server. It blocks
// until the HTTP server stops.
func (s *Server) Start(ctx context.Context) error {
	if s.bot != nil {
		go s.bot.Run(ctx)
		s.log.Info("bot polling started")
	}
	s.log.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}
