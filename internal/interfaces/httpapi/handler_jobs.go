package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/effort-league/internal/usecase"
)

// RunLeagueCompletionSweep is the delayed-callback entry point for the
// completion sweep. The sweep itself is idempotent, so replayed callbacks are
// harmless.
func (h *Handler) RunLeagueCompletionSweep(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLeagueCompletionSweep")
	defer span.End()

	if h.sweepService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sweep service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.sweepService.RunSweep(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "league completion sweep failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	if err := h.sweepService.ScheduleNext(ctx); err != nil {
		// The sweep already ran; a scheduling hiccup only delays the next one.
		h.logger.WarnContext(ctx, "schedule next sweep failed", "error", err)
	}

	h.logger.InfoContext(ctx, "league completion sweep finished",
		"scanned", result.Scanned,
		"completed", result.Completed,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}
