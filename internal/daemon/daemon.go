package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"tubecast/internal/api"
	"tubecast/internal/config"
	"tubecast/internal/dispatch"
	"tubecast/internal/logging"
	"tubecast/internal/media"
	"tubecast/internal/notifications"
	"tubecast/internal/pipeline"
	"tubecast/internal/retry"
	"tubecast/internal/services"
	"tubecast/internal/services/news"
	"tubecast/internal/services/openai"
	"tubecast/internal/services/tts"
	"tubecast/internal/store"
	"tubecast/internal/worker"
)

// Daemon owns the background services and the daemon lock.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	store   *store.Store
	queue   *dispatch.Queue
	worker  *worker.Worker
	service *api.Service
	server  *api.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with its full dependency graph. The provider
// clients are built from configuration; tests exercise the worker and
// pipeline directly with stub collaborators instead.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	queue := dispatch.NewQueue(cfg.Queue.Capacity)
	notifier := notifications.NewService(cfg)
	exec := retry.New(logging.NewComponentLogger(logger, "retry"))

	var text services.TextGenerator = openai.NewClient(cfg.OpenAI)
	var source services.NewsSource = news.NewClient(cfg.News)
	var speech services.SpeechSynthesizer = tts.NewClient(cfg.TTS)
	assembler := media.NewStudio(cfg.StagingDir(), logging.NewComponentLogger(logger, "media"))

	runner := pipeline.NewRunner(st, text, source, speech, assembler, exec,
		logging.NewComponentLogger(logger, "pipeline"), cfg.TTS.Voice)

	errorRetry := time.Duration(cfg.Queue.ErrorRetryInterval) * time.Second
	wrk := worker.New(st, queue, runner, notifier, logger, errorRetry)

	service := api.NewService(st, queue, logging.NewComponentLogger(logger, "api"))
	server := api.NewServer(service, cfg.Paths.APIBind, logging.NewComponentLogger(logger, "api"))

	lockPath := filepath.Join(cfg.LogDir(), "tubecastd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		queue:    queue,
		worker:   wrk,
		service:  service,
		server:   server,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Service exposes the orchestration service for in-process callers.
func (d *Daemon) Service() *api.Service {
	return d.service
}

// Start acquires the daemon lock and launches the worker and HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another tubecast daemon instance is already running")
	}

	ctx, d.cancel = context.WithCancel(ctx)
	d.worker.Start(ctx)

	go func() {
		if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.Error("api server stopped", logging.Error(err))
		}
	}()

	d.running.Store(true)
	d.logger.Info("tubecast daemon started",
		logging.String("lock", d.lockPath),
		logging.String("bind", d.cfg.Paths.APIBind))
	return nil
}

// Stop shuts down the HTTP API, drains the worker, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		d.logger.Warn("api shutdown", logging.Error(err))
	}

	d.queue.Close()
	d.worker.Stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("tubecast daemon stopped")
}

// Close stops the daemon and closes the store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
