package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wardenbot/warden/cmd/ticketbot/config"
	"github.com/wardenbot/warden/pkg/dataaccess"
	"github.com/wardenbot/warden/pkg/dataaccess/filestore"
	"github.com/wardenbot/warden/pkg/dataaccess/mongostore"
	"github.com/wardenbot/warden/pkg/logging"
	"github.com/wardenbot/warden/pkg/request"
)

const (
	// PathAlive is the path for the liveness check.
	PathAlive = "/"

	// PathHealth is the path for the health check.
	PathHealth = "/health"

	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Store returns the ticket store.
	Store() dataaccess.TicketStore
}

type App struct {
	// l is the logger.
	l *slog.Logger

	// r is the router for the monitoring server.
	r *mux.Router

	// svr is the monitoring server.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// store is the ticket store.
	store dataaccess.TicketStore
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		l: l,
		r: r,
	}
}

func (a *App) Run() error {
	// Connect the store first; nothing works without it.
	store, err := newStore(context.Background(), a.l)
	if err != nil {
		return fmt.Errorf("error connecting store: %w", err)
	}
	a.store = store

	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.l.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.l.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Process shutdown signal.
	for sig := range c {
		a.l.Info("Received shutdown signal", slog.String(logging.KeySignal, sig.String()))
		if err := a.ShutdownHook(); err != nil {
			a.l.Error("Error shutting down application", slog.String(logging.KeyError, err.Error()))
		}
		os.Exit(0)
	}
	return nil
}

func (a *App) ShutdownHook() error {
	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		return fmt.Errorf("error unregistering slash commands: %w", err)
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}

	// Disconnect the store when it holds real connections.
	if ms, ok := a.store.(*mongostore.Store); ok {
		if err := ms.Disconnect(context.Background()); err != nil {
			return fmt.Errorf("error disconnecting store: %w", err)
		}
	}
	return nil
}

func (a *App) RegisterBot() error {
	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers

	a.s = dg
	return nil
}

func (a *App) runServer() {
	go func() {
		a.l.Info("Starting monitoring server")
		if err := a.svr.ListenAndServe(); err != nil {
			a.l.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.l.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	// PathAlive is the liveness probe; nothing beyond the process being up.
	a.r.HandleFunc(PathAlive, middlewareHttp(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("alive"))
	}, a)).Methods(http.MethodGet)

	// PathMetrics is the path for metrics.
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)

	// PathHealth is the path for health check.
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), a)).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.l)

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.l)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:    ":" + config.MonitoringPort,
		Handler: a.r,
	}
}

func (a *App) RegisterDiscordHandlers() error {
	// Count every gateway event by type.
	a.s.AddHandler(func(_ *discordgo.Session, e *discordgo.Event) {
		if e.Type != "" {
			TotalDiscordEvents.WithLabelValues(e.Type).Inc()
		} else {
			TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	})

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash Controllers
		map[string]commandController{
			SetupCmdName: adminCmdController(setupCmdProcessor),
			PanelCmdName: adminCmdController(panelCmdProcessor),
		},
		// Button Processors
		map[string]commandProcessor{
			OpenTicketButtonID:    openTicketHandler,
			CloseTicketButtonID:   closeTicketButtonHandler,
			AddMemberButtonID:     addMemberButtonHandler,
			ClaimTicketButtonID:   claimTicketHandler,
			DeleteTicketButtonID:  deleteTicketHandler,
			ReopenTicketButtonID:  reopenTicketHandler,
			CreateSectionButtonID: adminComponent(createSectionButtonHandler),
			DeleteSectionButtonID: adminComponent(deleteSectionButtonHandler),
			EditMessageButtonID:   adminComponent(editMessageButtonHandler),
		},
		// Select Processors
		map[string]commandProcessor{
			SectionSelectID: sectionSelectHandler,
		},
		// Modal Processors
		map[string]commandProcessor{
			CreateSectionModalID: adminComponent(createSectionModalHandler),
			DeleteSectionModalID: adminComponent(deleteSectionModalHandler),
			EditMessageModalID:   adminComponent(editMessageModalHandler),
			CloseReasonModalID:   closeReasonModalHandler,
			AddMemberModalID:     addMemberModalHandler,
		}))
	return nil
}

// registerSlashCommands registers the commands against the configured
// guild. Guild commands propagate instantly, unlike global ones.
func (a *App) registerSlashCommands() error {
	for _, cmd := range []*discordgo.ApplicationCommand{setupCmd, panelCmd} {
		created, err := a.s.ApplicationCommandCreate(config.ApplicationId, config.GuildId, cmd)
		if err != nil {
			return fmt.Errorf("error creating %s command: %w", cmd.Name, err)
		}
		cmd.ID = created.ID
	}
	return nil
}

func (a *App) unregisterSlashCommands() error {
	for _, cmd := range []*discordgo.ApplicationCommand{setupCmd, panelCmd} {
		if cmd.ID == "" {
			continue
		}
		if err := a.s.ApplicationCommandDelete(config.ApplicationId, config.GuildId, cmd.ID); err != nil {
			return fmt.Errorf("error deleting %s command: %w", cmd.Name, err)
		}
	}
	return nil
}

// newStore selects the store backend: flat JSON files by default, MongoDB
// when a URI is configured.
func newStore(ctx context.Context, l *slog.Logger) (dataaccess.TicketStore, error) {
	if config.MongoUri != "" {
		store, err := mongostore.Connect(ctx, l, config.MongoUri)
		if err != nil {
			return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
		}
		return store, nil
	}

	store, err := filestore.New(l, config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("error opening file store: %w", err)
	}
	return store, nil
}

func (a *App) Log() *slog.Logger {
	return a.l
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Store() dataaccess.TicketStore {
	return a.store
}
