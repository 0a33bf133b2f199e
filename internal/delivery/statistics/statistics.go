package statistics

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"team_achievements/internal/httpresponse"
	statisticsUC "team_achievements/internal/usecase/statistics"
)

type StatisticsHandler struct {
	usecase *statisticsUC.StatisticsUseCase
	log     *zap.SugaredLogger
	timeout time.Duration
}

func NewStatisticsHandler(usecase *statisticsUC.StatisticsUseCase, log *zap.SugaredLogger, timeout time.Duration) *StatisticsHandler {
	return &StatisticsHandler{
		usecase: usecase,
		log:     log,
		timeout: timeout,
	}
}

func (h *StatisticsHandler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *StatisticsHandler) GetOverall(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.usecase.Overall(ctx)
	if err != nil {
		h.log.Errorw("GetOverall: failed to compute statistics", "error", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, result)
}

func (h *StatisticsHandler) GetForUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.usecase.ForUser(ctx, username)
	if err != nil {
		status, detail := httpresponse.ErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.log.Errorw("GetForUser: failed to compute statistics", "username", username, "error", err)
		}
		httpresponse.WriteErrorWithStatus(w, status, detail)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, result)
}
