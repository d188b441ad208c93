package suggest

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/stuapp/suggest-api/internal/database"
	"github.com/stuapp/suggest-api/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultLimitReloadInterval is how often DB tier-limit overrides are
// re-read when Start is used.
const DefaultLimitReloadInterval = 5 * time.Minute

// LimitResolver resolves the daily request cap per tier. Limits layer in
// order: compiled-in defaults, then the optional YAML overrides file, then
// rows from the tier_limits table. A cap of zero means unlimited.
type LimitResolver struct {
	mu     sync.RWMutex
	limits map[models.SubscriptionTier]int

	repo     database.TierLimitRepositoryInterface
	logger   *zap.Logger
	interval time.Duration
}

// NewLimitResolver creates a limit resolver seeded with the compiled-in
// defaults. repo may be nil when no database overrides are wanted.
func NewLimitResolver(repo database.TierLimitRepositoryInterface, logger *zap.Logger) *LimitResolver {
	limits := make(map[models.SubscriptionTier]int, len(models.DefaultDailyLimits))
	for tier, limit := range models.DefaultDailyLimits {
		limits[tier] = limit
	}
	return &LimitResolver{
		limits:   limits,
		repo:     repo,
		logger:   logger,
		interval: DefaultLimitReloadInterval,
	}
}

// LoadFile layers tier limits from a YAML file over the current values.
// The file maps tier names to integer daily caps.
func (r *LimitResolver) LoadFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from deployment config
	if err != nil {
		return fmt.Errorf("failed to read tier limits file: %w", err)
	}

	var overrides map[models.SubscriptionTier]int
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse tier limits file: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for tier, limit := range overrides {
		if !models.ValidTier(tier) {
			return fmt.Errorf("tier limits file names unknown tier %q", tier)
		}
		if limit < 0 {
			return fmt.Errorf("tier limits file has negative limit for %q", tier)
		}
		r.limits[models.NormalizeTier(tier)] = limit
	}
	return nil
}

// Refresh layers the tier_limits table over the current values. Used at
// startup and by the reload loop.
func (r *LimitResolver) Refresh(ctx context.Context) error {
	if r.repo == nil {
		return nil
	}

	overrides, err := r.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tier limit overrides: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for tier, limit := range overrides {
		r.limits[models.NormalizeTier(tier)] = limit
	}
	return nil
}

// Start launches the periodic reload loop. It returns immediately; the loop
// stops when ctx is cancelled. Reload failures are logged and the previous
// limits stay in effect.
func (r *LimitResolver) Start(ctx context.Context) {
	if r.repo == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.Refresh(ctx); err != nil {
					if r.logger != nil {
						r.logger.Warn("tier_limit_reload_failed", zap.Error(err))
					}
					continue
				}
				if r.logger != nil {
					r.logger.Debug("tier_limits_reloaded")
				}
			}
		}
	}()
}

// LimitFor returns the daily cap for a tier after alias normalization.
func (r *LimitResolver) LimitFor(tier models.SubscriptionTier) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.limits[models.NormalizeTier(tier)]
}
