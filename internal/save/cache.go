package save

import (
	"sync"

	"gsd/internal/models"
)

// RuntimeCache mirrors the most recently saved or loaded record of each
// kind and tracks which ones carry unflushed mutations. One typed slot per
// kind; the kind set is closed, so no runtime casts are needed.
type RuntimeCache struct {
	mu         sync.RWMutex
	gameData   *models.SaveRecord
	settings   *models.SettingsRecord
	statistics *models.StatisticsRecord
	dirty      map[models.RecordKind]struct{}
}

func NewRuntimeCache() *RuntimeCache {
	return &RuntimeCache{dirty: make(map[models.RecordKind]struct{})}
}

func (c *RuntimeCache) GameData() *models.SaveRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameData
}

func (c *RuntimeCache) SetGameData(r *models.SaveRecord, markDirty bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameData = r
	if markDirty {
		c.dirty[models.KindGameData] = struct{}{}
	}
}

func (c *RuntimeCache) Settings() *models.SettingsRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

func (c *RuntimeCache) SetSettings(r *models.SettingsRecord, markDirty bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = r
	if markDirty {
		c.dirty[models.KindSettings] = struct{}{}
	}
}

func (c *RuntimeCache) Statistics() *models.StatisticsRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statistics
}

func (c *RuntimeCache) SetStatistics(r *models.StatisticsRecord, markDirty bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statistics = r
	if markDirty {
		c.dirty[models.KindStatistics] = struct{}{}
	}
}

func (c *RuntimeCache) IsDirty(kind models.RecordKind) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.dirty[kind]
	return ok
}

// DirtyKinds returns the dirty set in stable kind order.
func (c *RuntimeCache) DirtyKinds() []models.RecordKind {
	c.mu.RLock()
	defer c.mu.RUnlock()
	kinds := make([]models.RecordKind, 0, len(c.dirty))
	for _, k := range models.Kinds() {
		if _, ok := c.dirty[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (c *RuntimeCache) DirtyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.dirty)
}

func (c *RuntimeCache) MarkDirty(kind models.RecordKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty[kind] = struct{}{}
}

func (c *RuntimeCache) MarkClean(kind models.RecordKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.dirty, kind)
}

// Clear drops all cached records and the dirty set.
func (c *RuntimeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameData = nil
	c.settings = nil
	c.statistics = nil
	c.dirty = make(map[models.RecordKind]struct{})
}
