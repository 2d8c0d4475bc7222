package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"gsd/internal/save"
	"gsd/internal/services"
)

type HealthController struct {
	service   services.SaveServiceInterface
	cache     *save.RuntimeCache
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	HasSaveData   bool    `json:"has_save_data"`
	SaveFileBytes int64   `json:"save_file_bytes"`
	DirtyRecords  int     `json:"dirty_records"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		HasSaveData:   hc.service.HasSaveData(),
		SaveFileBytes: hc.service.GetSaveFileSizeBytes(),
		DirtyRecords:  hc.cache.DirtyCount(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.SaveServiceInterface, cache *save.RuntimeCache) *HealthController {
	return &HealthController{
		service:   service,
		cache:     cache,
		startTime: time.Now(),
	}
}
