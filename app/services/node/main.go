package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ardanlabs/blockcoin/app/services/node/handlers"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/genesis"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/miner"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/state"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage/bolt"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage/sqlite"
	"github.com/ardanlabs/blockcoin/foundation/blockchain/worker"
	"github.com/ardanlabs/blockcoin/foundation/events"
	"github.com/ardanlabs/blockcoin/foundation/logger"
	"github.com/ardanlabs/blockcoin/foundation/node"
	"github.com/ardanlabs/conf/v3"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	// Configuration values will be passed through the application as individual
	// values.
	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
			CorsOrigins     []string      `conf:"default:*"`
		}
		State struct {
			Store            string        `conf:"default:bolt,help:memory|disk|bolt|sqlite"`
			DBPath           string        `conf:"default:zblock/blockcoin.db"`
			GenesisPath      string        `conf:"help:optional genesis json file"`
			VerifyDifficulty bool          `conf:"default:true"`
			Cooldown         time.Duration `conf:"default:2s"`
			Pause            time.Duration `conf:"default:10ms"`
			PauseEvery       uint64        `conf:"default:1000"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "BlockCoin proof of work simulator",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Blockchain Support

	gen := genesis.Default()
	if cfg.State.GenesisPath != "" {
		gen, err = genesis.Load(cfg.State.GenesisPath)
		if err != nil {
			return fmt.Errorf("unable to load genesis: %w", err)
		}
	}

	store, err := openStore(cfg.State.Store, cfg.State.DBPath)
	if err != nil {
		return fmt.Errorf("unable to open %s store: %w", cfg.State.Store, err)
	}
	defer store.Close()

	log.Infow("startup", "status", "store opened", "kind", cfg.State.Store, "path", cfg.State.DBPath)

	// The blockchain packages accept a function of this signature to allow the
	// application to log. Record changes are sent to any websocket client that
	// is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
	}

	// The node hosts every wallet opened through the API. Each wallet gets its
	// own records and its own mining worker.
	nd := node.New(node.Config{
		Store:            store,
		Genesis:          gen,
		VerifyDifficulty: cfg.State.VerifyDifficulty,
		Worker: worker.Config{
			Cooldown: cfg.State.Cooldown,
			Miner: miner.Config{
				Pause:      cfg.State.Pause,
				PauseEvery: cfg.State.PauseEvery,
			},
		},
		EvHandler: ev,
		Changes: func(walletID string, record state.Record) {
			evts.Changed(walletID, string(record))
		},
	})
	defer nd.Shutdown()

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log, nd)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	// Construct the mux for the public API calls.
	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		Node:     nd,
		Evts:     evts,
		Origins:  cfg.Web.CorsOrigins,
	})

	// Construct a server to service the requests against the mux.
	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}

// openStore constructs the store named by kind. File based stores create
// the parent folder of the path when it is missing.
func openStore(kind string, path string) (storage.Store, error) {
	if kind != "memory" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	switch kind {
	case "memory":
		return memory.New(), nil
	case "disk":
		return disk.New(path)
	case "bolt":
		return bolt.New(path)
	case "sqlite":
		return sqlite.New(path)
	}

	return nil, fmt.Errorf("unknown store kind %q", kind)
}
