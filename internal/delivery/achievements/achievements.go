package achievements

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"team_achievements/internal/domain/achievement"
	"team_achievements/internal/domain/user"
	"team_achievements/internal/httpresponse"
	achievementsUC "team_achievements/internal/usecase/achievements"
	"team_achievements/internal/utils"
)

type AchievementsHandler struct {
	usecase *achievementsUC.AchievementUseCase
	log     *zap.SugaredLogger
	timeout time.Duration
}

func NewAchievementsHandler(usecase *achievementsUC.AchievementUseCase, log *zap.SugaredLogger, timeout time.Duration) *AchievementsHandler {
	return &AchievementsHandler{
		usecase: usecase,
		log:     log,
		timeout: timeout,
	}
}

func (h *AchievementsHandler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.timeout)
}

// Login
// @Summary Login or register a user
// @Router /login [post]
func (h *AchievementsHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request user.LoginRequest
	if err := utils.DecodeJSONRequest(r, &request); err != nil {
		h.log.Warnw("Login: malformed request", "error", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.usecase.Login(ctx, request.Username)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, user.LoginResponse{
		Message:  fmt.Sprintf("Welcome %s!", result.Username),
		Username: result.Username,
		IsAdmin:  result.IsAdmin,
	})
}

func (h *AchievementsHandler) GetAllAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	catalog, err := h.usecase.Catalog(ctx)
	if err != nil {
		h.writeError(w, "GetAllAchievements", err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, achievement.CatalogResponse{Achievements: catalog})
}

func (h *AchievementsHandler) GetUserAchievements(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := h.requestContext(r)
	defer cancel()

	items, err := h.usecase.UserAchievements(ctx, username)
	if err != nil {
		h.writeError(w, "GetUserAchievements", err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, achievement.UserAchievementsResponse{
		Achievements: items,
		Username:     username,
	})
}

func (h *AchievementsHandler) UpdateAchievement(w http.ResponseWriter, r *http.Request) {
	var request achievement.UpdateRequest
	if err := utils.DecodeJSONRequest(r, &request); err != nil {
		h.log.Warnw("UpdateAchievement: malformed request", "error", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return
	}
	if request.Unlocked == nil {
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, "Field 'unlocked' is required")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.usecase.SetUnlock(ctx, request.Username, request.AchievementID, *request.Unlocked); err != nil {
		h.writeError(w, "UpdateAchievement", err)
		return
	}

	state := "locked"
	if *request.Unlocked {
		state = "unlocked"
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, achievement.UpdateResponse{
		Message:       fmt.Sprintf("Achievement %s %s for user %s", request.AchievementID, state, request.Username),
		Username:      request.Username,
		AchievementID: request.AchievementID,
		Unlocked:      *request.Unlocked,
	})
}

func (h *AchievementsHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	users, err := h.usecase.ListUsers(ctx)
	if err != nil {
		h.writeError(w, "GetUsers", err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, user.UsersResponse{Users: users})
}

func (h *AchievementsHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.usecase.DeleteUser(ctx, username); err != nil {
		h.writeError(w, "DeleteUser", err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, user.DeleteUserResponse{
		Message:     fmt.Sprintf("User %s and all their achievements have been deleted", username),
		DeletedUser: username,
	})
}

func (h *AchievementsHandler) writeError(w http.ResponseWriter, op string, err error) {
	status, detail := httpresponse.ErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Errorw(op+": internal error", "error", err)
	} else {
		h.log.Infow(op+": rejected", "status", status, "error", err)
	}
	httpresponse.WriteErrorWithStatus(w, status, detail)
}
