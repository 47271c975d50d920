package httpapi

import (
	"net/http"
)

// Internal job handlers sit behind RequireInternalJobToken and exist so the
// scheduler can trigger background work over plain HTTP.

func (h *Handler) RunPlanRefreshJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPlanRefreshJob")
	defer span.End()

	refreshed, err := h.planService.RefreshAll(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "plan refresh job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, jobResultDTO{Processed: refreshed})
}

func (h *Handler) RunStatSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunStatSyncJob")
	defer span.End()

	synced, err := h.statSyncService.SyncOpenMatches(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "stat sync job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, jobResultDTO{Processed: synced})
}

type jobResultDTO struct {
	Processed int `json:"processed"`
}
