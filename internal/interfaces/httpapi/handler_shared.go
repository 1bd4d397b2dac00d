package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
	"github.com/riskibarqy/tournament-portal/internal/usecase"
)

const defaultMaxUploadBytes = 5 << 20

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Auth      *usecase.AuthService
	Events    *usecase.EventService
	Sports    *usecase.SportService
	Venues    *usecase.VenueService
	Teams     *usecase.TeamService
	Matches   *usecase.MatchService
	Standings *usecase.StandingsService
}

type Handler struct {
	auth      *usecase.AuthService
	events    *usecase.EventService
	sports    *usecase.SportService
	venues    *usecase.VenueService
	teams     *usecase.TeamService
	matches   *usecase.MatchService
	standings *usecase.StandingsService

	store          Pinger
	calendar       event.Calendar
	maxUploadBytes int64
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(services Services, pinger Pinger, calendar event.Calendar, maxUploadBytes int64, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}

	return &Handler{
		auth:           services.Auth,
		events:         services.Events,
		sports:         services.Sports,
		venues:         services.Venues,
		teams:          services.Teams,
		matches:        services.Matches,
		standings:      services.Standings,
		store:          pinger,
		calendar:       calendar,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON reads a JSON body into dst and validates its struct tags. An
// empty body decodes to the zero value.
func (h *Handler) decodeJSON(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func (h *Handler) principal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func pathValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.PathValue(name))
}

func queryValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}
