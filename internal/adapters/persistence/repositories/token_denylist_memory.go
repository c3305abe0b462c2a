package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MemoryTokenDenylist keeps revoked token ids in process memory.
// Expired entries are dropped by a cron job started with StartPruning.
type MemoryTokenDenylist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // tokenID -> expiry
	now     func() time.Time
	cron    *cron.Cron
	logger  *zap.Logger
}

// NewMemoryTokenDenylist creates an empty in-memory denylist
func NewMemoryTokenDenylist(logger *zap.Logger) *MemoryTokenDenylist {
	return &MemoryTokenDenylist{
		revoked: map[string]time.Time{},
		now:     time.Now,
		logger:  logger,
	}
}

// Revoke marks a token id as revoked for ttl
func (d *MemoryTokenDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[tokenID] = d.now().Add(ttl)
	return nil
}

// IsRevoked reports whether a token id is revoked and not yet expired
func (d *MemoryTokenDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	expiry, ok := d.revoked[tokenID]
	if !ok {
		return false, nil
	}
	return d.now().Before(expiry), nil
}

// Prune removes every entry whose token has expired and returns how many went
func (d *MemoryTokenDenylist) Prune() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	removed := 0
	for id, expiry := range d.revoked {
		if !now.Before(expiry) {
			delete(d.revoked, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked entries
func (d *MemoryTokenDenylist) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.revoked)
}

// StartPruning schedules Prune on the given cron spec (e.g. "@every 10m")
func (d *MemoryTokenDenylist) StartPruning(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if n := d.Prune(); n > 0 {
			d.logger.Debug("pruned revoked tokens", zap.Int("removed", n))
		}
	}); err != nil {
		return err
	}
	c.Start()
	d.cron = c
	d.logger.Info("token denylist pruning scheduled", zap.String("spec", spec))
	return nil
}

// Stop stops the pruning job
func (d *MemoryTokenDenylist) Stop() {
	if d.cron != nil {
		<-d.cron.Stop().Done()
	}
}
