package health

import (
	"context"
	"net/http"
	"time"

	"agrobook-backend/internal/cache"
	"agrobook-backend/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

type Handler struct {
	pool      *pgxpool.Pool
	startedAt time.Time
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{pool: pool, startedAt: time.Now()}
}

// Basic is the load balancer probe: cheap, no dependencies checked.
func (h *Handler) Basic(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the server can serve traffic, which means the
// database answers.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		utils.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Detailed reports dependency status and host resource usage for the admin
// dashboard.
func (h *Handler) Detailed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	dbStatus := "ok"
	if err := h.pool.Ping(ctx); err != nil {
		dbStatus = "down: " + err.Error()
		status = http.StatusServiceUnavailable
	}

	redisStatus := "ok"
	if !cache.IsHealthy(ctx) {
		// Degraded but not down: the API works without Redis.
		redisStatus = "unavailable"
	}

	system := map[string]interface{}{}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		system["cpu_percent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		system["memory_percent"] = vm.UsedPercent
		system["memory_used_mb"] = vm.Used / 1024 / 1024
	}
	if du, err := disk.Usage("/"); err == nil {
		system["disk_percent"] = du.UsedPercent
	}

	utils.RespondJSON(w, status, map[string]interface{}{
		"status":         map[bool]string{true: "ok", false: "degraded"}[status == http.StatusOK],
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"database":       dbStatus,
		"redis":          redisStatus,
		"system":         system,
	})
}
