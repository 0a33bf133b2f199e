package health

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"team_achievements/internal/httpresponse"
)

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	storage Pinger
	log     *zap.SugaredLogger
}

func NewHealthHandler(storage Pinger, log *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{storage: storage, log: log}
}

func (h *HealthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, map[string]string{"message": "Achievements API is running"})
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		h.log.Warnw("health check failed", "error", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, map[string]string{"status": "healthy"})
}
