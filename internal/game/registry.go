// Package game loads and serves static game outcome tables. Tables are
// parsed and validated once, then shared read-only across all spins.
package game

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
	"github.com/ultraselfai/game-provider-sub000/internal/logger"
)

// Registry defines read access to game outcome tables
type Registry interface {
	// Get returns the outcome table for a game or domain.ErrGameNotFound.
	Get(ctx context.Context, gameID string) (*domain.GameOutcomeTable, error)

	// GameIDs lists all registered games.
	GameIDs() []string
}

// tableCacheSize bounds the parsed-table cache. Catalogs are small; the
// bound only guards against a runaway admin import.
const tableCacheSize = 256

type registry struct {
	dir   string
	mu    sync.RWMutex
	files map[string]string // gameID -> file path
	cache *lru.Cache[string, *domain.GameOutcomeTable]
}

// NewRegistry creates a registry over a directory of game table JSON files
// and eagerly validates every table in it.
func NewRegistry(dir string) (Registry, error) {
	cache, err := lru.New[string, *domain.GameOutcomeTable](tableCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create table cache: %w", err)
	}

	r := &registry{
		dir:   dir,
		files: make(map[string]string),
		cache: cache,
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read games directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		table, err := loadTable(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load game table %s: %w", entry.Name(), err)
		}
		r.files[table.GameID] = path
		r.cache.Add(table.GameID, table)
	}

	if len(r.files) == 0 {
		logger.Warn("Game registry started with no tables", "dir", dir)
	}

	return r, nil
}

// Get returns the outcome table for a game, reloading from disk if the
// cache evicted it.
func (r *registry) Get(ctx context.Context, gameID string) (*domain.GameOutcomeTable, error) {
	if table, ok := r.cache.Get(gameID); ok {
		return table, nil
	}

	r.mu.RLock()
	path, ok := r.files[gameID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGameNotFound, gameID)
	}

	table, err := loadTable(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload game table %s: %w", gameID, err)
	}
	r.cache.Add(gameID, table)

	logger.FromContext(ctx).Debug("Reloaded game table", "game_id", gameID)
	return table, nil
}

// GameIDs lists all registered games.
func (r *registry) GameIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.files))
	for id := range r.files {
		ids = append(ids, id)
	}
	return ids
}

func loadTable(path string) (*domain.GameOutcomeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file tableFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return file.toDomain()
}
