package controllers

import (
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
	"go.uber.org/atomic"

	"gsd/internal/models"
	"gsd/internal/providers"
	"gsd/internal/services"
)

// Export bundles carry full per-level history, so the cap is above the
// usual request limit.
const maxRequestBodySize = 4 << 20 // 4 MB

type SaveController struct {
	logger  providers.Logger
	service services.SaveServiceInterface
	cache   providers.CacheProviderInterface
	gen     atomic.Uint64
}

func NewSaveController(logger providers.Logger, service services.SaveServiceInterface, cache providers.CacheProviderInterface) *SaveController {
	return &SaveController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// serveFromCacheOrCompute serves read endpoints from the response cache.
// Keys carry the mutation generation, so any write invalidates every
// cached response at once.
func (sc *SaveController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	cacheKey = fmt.Sprintf("g%d:%s", sc.gen.Load(), cacheKey)
	if data, ok := sc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (sc *SaveController) bumpGeneration() {
	sc.gen.Inc()
}

func (sc *SaveController) writeResult(w http.ResponseWriter, ok bool, failMessage string) {
	resp := successResponse{Success: ok}
	if !ok {
		resp.Message = failMessage
	}
	gson, _ := json.Marshal(resp)
	w.Header().Set("Content-Type", "application/json")
	if ok {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusConflict)
	}
	_, _ = w.Write(gson)
}

// SaveGameData accepts a record, caches it dirty and waits for this
// request's flush so the caller learns the real outcome.
func (sc *SaveController) SaveGameData(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.SaveRecord
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	payload.EnsureMaps()

	done := make(chan bool, 1)
	sc.service.SaveGameData(&payload, func(ok bool) { done <- ok })
	ok := <-done

	sc.bumpGeneration()
	sc.writeResult(w, ok, "save failed")
}

func (sc *SaveController) LoadGameData(w http.ResponseWriter, r *http.Request) {
	sc.serveFromCacheOrCompute(w, "game", func() (any, error) {
		return sc.service.LoadGameData(), nil
	})
}

func (sc *SaveController) SaveSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.SettingsRecord
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	done := make(chan bool, 1)
	sc.service.SaveSettings(&payload, func(ok bool) { done <- ok })
	ok := <-done

	sc.bumpGeneration()
	sc.writeResult(w, ok, "settings save failed")
}

func (sc *SaveController) LoadSettings(w http.ResponseWriter, r *http.Request) {
	sc.serveFromCacheOrCompute(w, "settings", func() (any, error) {
		return sc.service.LoadSettings(), nil
	})
}

func (sc *SaveController) SaveStatistics(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.StatisticsRecord
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	payload.EnsureMaps()

	done := make(chan bool, 1)
	sc.service.SaveStatistics(&payload, func(ok bool) { done <- ok })
	ok := <-done

	sc.bumpGeneration()
	sc.writeResult(w, ok, "statistics save failed")
}

func (sc *SaveController) LoadStatistics(w http.ResponseWriter, r *http.Request) {
	sc.serveFromCacheOrCompute(w, "statistics", func() (any, error) {
		return sc.service.LoadStatistics(), nil
	})
}

func (sc *SaveController) QuickSave(w http.ResponseWriter, r *http.Request) {
	ok := sc.service.QuickSave()
	sc.bumpGeneration()
	sc.writeResult(w, ok, "nothing cached to save")
}

func (sc *SaveController) FlushCache(w http.ResponseWriter, r *http.Request) {
	ok := sc.service.FlushCache()
	sc.bumpGeneration()
	sc.writeResult(w, ok, "flush completed with errors")
}

func (sc *SaveController) CreateBackup(w http.ResponseWriter, r *http.Request) {
	name, err := sc.service.CreateBackup(r.URL.Query().Get("name"))
	sc.bumpGeneration()
	if err != nil {
		sc.logger.Errorf(providers.TypeSave, "Backup creation failed: %s", err)
		sc.writeResult(w, false, "backup failed")
		return
	}

	gson, _ := json.Marshal(map[string]any{"success": true, "name": name})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(gson)
}

func (sc *SaveController) ListBackups(w http.ResponseWriter, r *http.Request) {
	sc.serveFromCacheOrCompute(w, "backups", func() (any, error) {
		return sc.service.ListBackups(), nil
	})
}

func (sc *SaveController) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ok := sc.service.RestoreBackup(name)
	sc.bumpGeneration()
	sc.writeResult(w, ok, "restore failed")
}

func (sc *SaveController) Export(w http.ResponseWriter, r *http.Request) {
	sc.serveFromCacheOrCompute(w, "export", func() (any, error) {
		text, err := sc.service.ExportSaveData()
		if err != nil {
			return nil, err
		}
		return map[string]string{"data": text}, nil
	})
}

func (sc *SaveController) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload struct {
		Data string `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Data == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ok := sc.service.ImportSaveData(payload.Data)
	sc.bumpGeneration()
	sc.writeResult(w, ok, "import rejected")
}

func (sc *SaveController) PrepareCloudSave(w http.ResponseWriter, r *http.Request) {
	bundle, err := sc.service.PrepareCloudSave()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	gson, err := json.Marshal(bundle)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (sc *SaveController) ApplyCloudSave(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var remote models.CloudRecord
	if err := json.NewDecoder(r.Body).Decode(&remote); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	applied := sc.service.ApplyCloudSave(&remote)
	sc.bumpGeneration()

	gson, _ := json.Marshal(map[string]bool{"applied": applied})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// DeleteAll wipes the save directory. Requires ?confirm=true.
func (sc *SaveController) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if !cast.ToBool(r.URL.Query().Get("confirm")) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ok := sc.service.DeleteAllSaveData()
	sc.bumpGeneration()
	sc.writeResult(w, ok, "delete failed")
}

func (sc *SaveController) Info(w http.ResponseWriter, r *http.Request) {
	sc.serveFromCacheOrCompute(w, "info", func() (any, error) {
		return map[string]any{
			"has_save_data":   sc.service.HasSaveData(),
			"save_file_bytes": sc.service.GetSaveFileSizeBytes(),
		}, nil
	})
}
