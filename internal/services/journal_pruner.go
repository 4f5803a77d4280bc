// Package services hosts background workers that run alongside the HTTP
// server.
package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/utm-observer/backend/internal/infrastructure/journal"
)

// JournalPruner periodically drops dispatch journal entries older than the
// retention window so the journal file stays bounded.
type JournalPruner struct {
	store     *journal.Store
	retention time.Duration
	cron      *cron.Cron
	logger    *zap.Logger
}

// NewJournalPruner builds the pruner. The store may be nil, which yields a
// no-op pruner.
func NewJournalPruner(store *journal.Store, retention, interval time.Duration, logger *zap.Logger) (*JournalPruner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	p := &JournalPruner{
		store:     store,
		retention: retention,
		cron:      cron.New(),
		logger:    logger,
	}

	spec := fmt.Sprintf("@every %s", interval)
	if _, err := p.cron.AddFunc(spec, p.prune); err != nil {
		return nil, err
	}
	return p, nil
}

// Start begins the prune schedule.
func (p *JournalPruner) Start() {
	if p.store == nil {
		return
	}
	p.cron.Start()
	p.logger.Info("journal pruner started", zap.Duration("retention", p.retention))
}

// Stop halts the schedule and waits for a running prune to finish.
func (p *JournalPruner) Stop() {
	ctx := p.cron.Stop()
	<-ctx.Done()
}

func (p *JournalPruner) prune() {
	cutoff := time.Now().UTC().Add(-p.retention)
	if err := p.store.Prune(cutoff); err != nil {
		p.logger.Warn("journal prune failed", zap.Error(err))
		return
	}
	size, err := p.store.Size()
	if err != nil {
		return
	}
	p.logger.Debug("journal pruned", zap.Int("remaining", size))
}
