package application

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eugenenazirov/matrix-bot-config/internal/config"
	"github.com/eugenenazirov/matrix-bot-config/internal/storage"
)

// App holds the runtime dependencies derived from a resolved configuration.
type App struct {
	cfg        config.ResolvedConfig
	logger     *zap.Logger
	backend    storage.Backend
	connString string
}

// New wires the resolved configuration: interprets the database URI, creates
// and write-probes the store directory, and logs a startup summary. The
// device ID is included in the summary so operators can audit it against the
// devices already registered on the account — a collision is undetectable
// here and causes silent message loss in encrypted rooms.
func New(cfg config.ResolvedConfig, logger *zap.Logger) (*App, error) {
	backend, connString, err := storage.ParseDatabaseURI(cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("interpret database URI: %w", err)
	}

	if err := storage.EnsureStorePath(cfg.StorePath); err != nil {
		return nil, fmt.Errorf("prepare store path: %w", err)
	}

	logger.Info("runtime prepared",
		zap.String("backend", string(backend)),
		zap.String("store_path", cfg.StorePath),
		zap.String("device_id", cfg.DeviceID),
		zap.String("device_name", cfg.DeviceName),
	)

	return &App{
		cfg:        cfg,
		logger:     logger,
		backend:    backend,
		connString: connString,
	}, nil
}

// Config returns the read-only configuration snapshot.
func (a *App) Config() config.ResolvedConfig { return a.cfg }

// Backend returns the storage backend selected by the database URI scheme.
func (a *App) Backend() storage.Backend { return a.backend }

// ConnString returns the backend-specific connection string. It may embed
// credentials and must not be logged.
func (a *App) ConnString() string { return a.connString }
