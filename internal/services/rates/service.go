// Package rates loads and serves the currency exchange-rate table.
package rates

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/models"
)

// Service serves the current exchange-rate table, loaded from a JSON file
// and reloadable at runtime (the scheduler calls Reload periodically).
type Service struct {
	path   string
	logger *common.Logger

	mu    sync.RWMutex
	table models.RateTable
}

// NewService creates a rates service backed by the JSON file at path. The
// built-in default table is used until the file is loaded; a missing file is
// not an error.
func NewService(path string, logger *common.Logger) *Service {
	s := &Service{
		path:   path,
		logger: logger,
		table:  models.DefaultRates(),
	}
	if err := s.Reload(); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("using default exchange rates")
	}
	return s
}

// Rates returns a snapshot of the current table. The returned map is a copy;
// callers may read it without holding any lock.
func (s *Service) Rates() models.RateTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(models.RateTable, len(s.table))
	for k, v := range s.table {
		out[k] = v
	}
	return out
}

// Reload re-reads the rate file and swaps the table in. On any error the
// previous table stays in effect.
func (s *Service) Reload() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read rates file: %w", err)
	}

	var table models.RateTable
	if err := json.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("parse rates file: %w", err)
	}
	if len(table) == 0 {
		return fmt.Errorf("rates file %s is empty", s.path)
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()

	s.logger.Info().Int("currencies", len(table)).Str("path", s.path).Msg("exchange rates loaded")
	return nil
}
