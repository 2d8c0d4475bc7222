package save

import (
	"os"

	"gsd/internal/models"
	"gsd/internal/providers"
)

// StatsSource feeds the metrics gauges without pulling the metrics
// provider into the store's dependency chain.
type StatsSource struct {
	cache *RuntimeCache
	paths Paths
}

func NewStatsSource(cache *RuntimeCache, paths Paths) providers.SaveStatsSource {
	return &StatsSource{cache: cache, paths: paths}
}

func (s *StatsSource) DirtyCount() int {
	return s.cache.DirtyCount()
}

func (s *StatsSource) SaveFileSize() int64 {
	info, err := os.Stat(s.paths.Primary(models.KindGameData))
	if err != nil {
		return 0
	}
	return info.Size()
}
