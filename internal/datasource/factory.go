package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pace-bias/internal/config"
	"github.com/yourusername/pace-bias/internal/models"
)

// Factory creates DaySource implementations based on configuration
type Factory struct {
	cfg    config.CardsConfig
	logger *logrus.Logger
}

// NewFactory creates a new day source factory
func NewFactory(cfg config.CardsConfig, logger *logrus.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

// Local returns the directory-backed store for day documents.
func (f *Factory) Local() *LocalDirSource {
	return NewLocalDirSource(f.cfg.DataDir)
}

// Remote returns the HTTP source when a publisher URL is configured, nil
// otherwise.
func (f *Factory) Remote() *HTTPDaySource {
	if f.cfg.SourceURL == "" {
		return nil
	}

	clientCfg := DefaultHTTPClientConfig()
	clientCfg.Timeout = time.Duration(f.cfg.TimeoutSeconds) * time.Second
	clientCfg.MaxRetries = f.cfg.RetryAttempts
	clientCfg.RateLimit = f.cfg.RequestsPerSecond

	client := NewRateLimitedHTTPClient(clientCfg, f.logger)
	return NewHTTPDaySource(client, f.cfg.SourceURL, f.cfg.APIToken, f.logger)
}

// NewDaySource builds the day source for the configured setup: the local
// directory, falling back to the publisher for days not yet on disk. Fetched
// documents are persisted locally so later reads stay offline.
func (f *Factory) NewDaySource() DaySource {
	local := f.Local()
	remote := f.Remote()
	if remote == nil {
		return local
	}
	return &fallbackSource{local: local, remote: remote, logger: f.logger}
}

// fallbackSource reads from the local store first and fills misses from the
// publisher.
type fallbackSource struct {
	local  *LocalDirSource
	remote *HTTPDaySource
	logger *logrus.Logger
}

func (s *fallbackSource) Name() string { return "local_dir+http" }

func (s *fallbackSource) FetchDay(ctx context.Context, date models.YMD) (*models.RaceDay, error) {
	day, err := s.local.FetchDay(ctx, date)
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	day, err = s.remote.FetchDay(ctx, date)
	if err != nil {
		return nil, err
	}

	if storeErr := s.local.StoreDay(day); storeErr != nil && s.logger != nil {
		s.logger.WithField("date", date.ISO()).Warnf("failed to persist fetched day: %v", storeErr)
	}
	return day, nil
}
