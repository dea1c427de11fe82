// Package main provides the session host entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/api/httpapi"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/autofill"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/player"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/policy"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/session"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/domain/song"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/infra/audio"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/infra/catalog"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/infra/config"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/infra/logger"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/infra/store"
	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/infra/transport"
)

var (
	app        = kingpin.New("wavify-server", "Wavify shared listening session host")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-policies command
	listPoliciesCmd = app.Command("list-policies", "List available suggestion policies and exit")
)

func init() {
	app.Command("start", "Start the host (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listPoliciesCmd.FullCommand() {
		printPolicies()
		return
	}

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main host logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	catalogClient, err := catalog.New(ctx, catalog.Config{
		ClientID:     cfg.Catalog.ClientID,
		ClientSecret: cfg.Catalog.ClientSecret,
		RefreshToken: cfg.Catalog.RefreshToken,
		Market:       cfg.Catalog.Market,
	})
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	library, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open library store: %w", err)
	}
	defer library.Close()

	backend := audio.New(audio.URLResolver{Template: cfg.Streaming.URLTemplate})
	engine := player.New(backend, player.Config{
		Loop:        cfg.Playback.Loop,
		EventBuffer: cfg.Playback.EventBuffer,
	})
	defer engine.Close()

	policies, err := buildPolicyChain(cfg, engine)
	if err != nil {
		return fmt.Errorf("invalid policy config: %w", err)
	}

	refillSources, err := buildAutofill(cfg, catalogClient, library)
	if err != nil {
		return fmt.Errorf("invalid autofill config: %w", err)
	}

	var coordinator *session.Coordinator
	var refilling atomic.Bool
	coordinator = session.NewCoordinator(engine, policies, session.Config{
		DisplayName:       cfg.Session.DisplayName,
		HeartbeatInterval: cfg.HeartbeatInterval(),
		StaleTimeout:      cfg.StaleTimeout(),
		JoinTimeout:       cfg.JoinTimeout(),
		OnSongStarted: func(s song.Song) {
			if err := library.RecordPlay(ctx, s); err != nil {
				zlog.Warn().Msgf("Failed to record play: song_id=%s err=%v", s.ID, err)
			}
		},
		OnQueueExhausted: func() {
			if refillSources == nil || !refilling.CompareAndSwap(false, true) {
				return
			}
			go func() {
				defer refilling.Store(false)
				refillQueue(ctx, coordinator, engine, library, refillSources, cfg.Autofill.Count)
			}()
		},
	})
	defer coordinator.Close()

	hostServer := transport.NewHostServer()
	sessionID, err := coordinator.HostSession(cfg.Session.SessionName, hostServer)
	if err != nil {
		return fmt.Errorf("failed to start hosting: %w", err)
	}
	zlog.Info().Msgf("Hosting session: session_id=%s name=%s", sessionID, cfg.Session.SessionName)

	control := httpapi.New(coordinator, engine, catalogClient, library, cfg.Server.ControlToken)

	mux := http.NewServeMux()
	mux.Handle("/session", hostServer.Handler())
	mux.Handle("/v1/", control.Mux())

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: mux,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close the coordinator first so guests see the session end before
	// their connections drop.
	coordinator.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}

// buildAutofill assembles the autofill source chain from config.
// Returns nil when autofill is disabled.
func buildAutofill(cfg *config.Config, catalogClient *catalog.Client, library *store.Store) (*autofill.Chain, error) {
	if !cfg.Autofill.Enabled {
		return nil, nil
	}

	known := []string{"similar", "liked"}
	for name := range cfg.Autofill.Sources {
		if name != "similar" && name != "liked" {
			return nil, fmt.Errorf("unknown autofill source: %s", name)
		}
	}

	// Recommendation-backed sources are tried before the local library.
	var sources []autofill.Source
	for _, name := range known {
		sourceCfg, ok := cfg.Autofill.Sources[name]
		if !ok || !sourceCfg.Enabled {
			continue
		}

		var (
			src autofill.Source
			err error
		)
		switch name {
		case "similar":
			src, err = autofill.NewSimilarSource(catalogClient, sourceCfg.Settings)
		case "liked":
			src, err = autofill.NewLikedSource(library)
		}
		if err != nil {
			return nil, fmt.Errorf("autofill source %s: %w", name, err)
		}
		sources = append(sources, src)
		zlog.Info().Msgf("Autofill source enabled: %s", name)
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("autofill enabled but no sources configured")
	}
	return autofill.NewChain(sources...), nil
}

// refillQueue suggests autofill candidates into the shared queue after
// the session plays out. Candidates still pass the policy chain.
func refillQueue(ctx context.Context, coordinator *session.Coordinator, engine *player.Engine, library *store.Store, sources *autofill.Chain, count int) {
	seeds, err := library.Recent(ctx, 5)
	if err != nil {
		zlog.Warn().Msgf("Autofill seed lookup failed: %v", err)
	}

	queued, _ := engine.QueueSnapshot()
	exclude := make(map[string]bool, len(queued)+len(seeds))
	for _, s := range queued {
		exclude[s.ID] = true
	}
	for _, s := range seeds {
		exclude[s.ID] = true
	}

	songs, err := sources.Candidates(ctx, count, seeds, exclude)
	if err != nil {
		zlog.Warn().Msgf("Autofill produced no candidates: %v", err)
		return
	}

	for _, s := range songs {
		if err := coordinator.SuggestSong(ctx, s); err != nil {
			zlog.Info().Msgf("Autofill suggestion rejected: song_id=%s err=%v", s.ID, err)
		}
	}
}

// buildPolicyChain assembles the suggestion policy chain from config.
func buildPolicyChain(cfg *config.Config, engine *player.Engine) (*policy.Chain, error) {
	chain := policy.NewChain()
	registry := policy.GetRegistered()

	for name, policyCfg := range cfg.Policies {
		if !policyCfg.Enabled {
			continue
		}

		var p policy.Policy
		if factory, ok := registry[name]; ok {
			p = factory()
		} else if name == "duplicate_song_policy" {
			// Created here because it needs the queue.
			p = policy.NewDuplicateSongPolicy(engine)
		} else {
			return nil, fmt.Errorf("unknown policy: %s", name)
		}

		if err := p.ValidateConfig(policyCfg.Settings); err != nil {
			return nil, fmt.Errorf("policy %s: %w", name, err)
		}
		chain.Add(p)
		zlog.Info().Msgf("Policy enabled: %s", name)
	}

	return chain, nil
}

// printPolicies prints available suggestion policies.
func printPolicies() {
	fmt.Println("Available Policies:")
	for _, factory := range policy.GetRegistered() {
		p := factory()
		codes := strings.Join(p.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", p.Name(), p.Description(), codes)
	}
	fmt.Printf("  %-30s - %s\n", "duplicate_song_policy", "Rejects suggestions already in the queue (built with the live queue)")
}
