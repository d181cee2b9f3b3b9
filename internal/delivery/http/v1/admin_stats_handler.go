package v1

import (
	"net/http"

	"lushlocks-backend/internal/usecase"
	"lushlocks-backend/pkg/utils"
)

type AdminStatsHandler struct {
	statsUC *usecase.StatsUsecase
}

func NewAdminStatsHandler(statsUC *usecase.StatsUsecase) *AdminStatsHandler {
	return &AdminStatsHandler{statsUC: statsUC}
}

func (h *AdminStatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsUC.Dashboard(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, stats)
}

func (h *AdminStatsHandler) DailyRevenue(w http.ResponseWriter, r *http.Request) {
	days := utils.ParseInt(r.URL.Query().Get("days"), 30)
	revenue, err := h.statsUC.DailyRevenue(r.Context(), days)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, revenue)
}
