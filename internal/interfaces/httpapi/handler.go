package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/effort-league/internal/domain/user"
	"github.com/riskibarqy/effort-league/internal/platform/logging"
	"github.com/riskibarqy/effort-league/internal/usecase"
)

type Handler struct {
	leagueService      *usecase.LeagueService
	leaderboardService *usecase.LeaderboardService
	challengeService   *usecase.ChallengeService
	donationService    *usecase.DonationService
	sweepService       *usecase.SweepService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	leaderboardService *usecase.LeaderboardService,
	challengeService *usecase.ChallengeService,
	donationService *usecase.DonationService,
	sweepService *usecase.SweepService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:      leagueService,
		leaderboardService: leaderboardService,
		challengeService:   challengeService,
		donationService:    donationService,
		sweepService:       sweepService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeBody(r *http.Request, dest any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func requirePrincipal(ctx context.Context, w http.ResponseWriter) (user.Principal, bool) {
	principal, found := principalFromContext(ctx)
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: missing authenticated principal", usecase.ErrUnauthorized))
		return user.Principal{}, false
	}
	return principal, true
}
