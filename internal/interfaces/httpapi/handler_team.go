package httpapi

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-portal/internal/usecase"
)

const (
	formLogo         = "logo"
	formPaymentProof = "paymentScreenshot"
)

type playerRequest struct {
	Name     string `json:"name"`
	JerseyNo string `json:"jerseyNo"`
	Age      *int   `json:"age"`
	Position string `json:"position"`
	Type     string `json:"playerType"`
}

type updateTeamRequest struct {
	Name    *string          `json:"name"`
	Players *[]playerRequest `json:"players"`
}

type reasonRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type teamDetailsResponse struct {
	Message string       `json:"message"`
	Team    teamDTO      `json:"team"`
	Players []playerDTO  `json:"players"`
	History []historyDTO `json:"history"`
	Matches []matchDTO   `json:"matches"`
}

func toPlayerInputs(items []playerRequest) []usecase.PlayerInput {
	out := make([]usecase.PlayerInput, 0, len(items))
	for _, p := range items {
		out = append(out, usecase.PlayerInput{
			Name:     p.Name,
			JerseyNo: p.JerseyNo,
			Age:      p.Age,
			Position: p.Position,
			Type:     p.Type,
		})
	}
	return out
}

func decodePlayers(raw string) ([]playerRequest, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: Players list is required", usecase.ErrInvalidInput)
	}
	var players []playerRequest
	if err := sonic.UnmarshalString(raw, &players); err != nil {
		return nil, fmt.Errorf("%w: players must be a JSON array: %v", usecase.ErrInvalidInput, err)
	}
	return players, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.EqualFold(mediaType, "multipart/form-data")
}

// parseTeamForm reads a multipart team form. Files larger than the upload
// limit are rejected by the blob store; the form as a whole is capped at
// twice that plus headroom for the roster.
func (h *Handler) parseTeamForm(w http.ResponseWriter, r *http.Request) error {
	limit := 2*h.maxUploadBytes + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: upload too large", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid multipart form: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// formUpload returns the named file, or nil when the field is absent. The
// caller closes the returned file.
func formUpload(r *http.Request, field string) (*usecase.Upload, multipart.File, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %v", usecase.ErrInvalidInput, field, err)
	}
	return &usecase.Upload{Filename: header.Filename, Content: file}, file, nil
}

func closeFiles(files ...multipart.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}

func (h *Handler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterTeam")
	defer span.End()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.parseTeamForm(w, r); err != nil {
		writeError(ctx, w, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	players, err := decodePlayers(r.FormValue("players"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	logo, logoFile, err := formUpload(r, formLogo)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	payment, paymentFile, err := formUpload(r, formPaymentProof)
	if err != nil {
		closeFiles(logoFile)
		writeError(ctx, w, err)
		return
	}
	defer closeFiles(logoFile, paymentFile)

	registered, err := h.teams.Register(ctx, principal, usecase.RegisterTeamInput{
		EventID:      strings.TrimSpace(r.FormValue("eventId")),
		SportID:      strings.TrimSpace(r.FormValue("sportId")),
		Name:         r.FormValue("teamName"),
		Players:      toPlayerInputs(players),
		Logo:         logo,
		PaymentProof: payment,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register team failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, "Team registered successfully. Waiting for admin approval.", "team", teamToDTO(registered))
}

func (h *Handler) readTeamUpdate(ctx context.Context, w http.ResponseWriter, r *http.Request) (usecase.UpdateTeamInput, multipart.File, error) {
	if !isMultipart(r) {
		var req updateTeamRequest
		if err := h.decodeJSON(ctx, r, &req); err != nil {
			return usecase.UpdateTeamInput{}, nil, err
		}
		input := usecase.UpdateTeamInput{Name: req.Name}
		if req.Players != nil {
			input.Players = toPlayerInputs(*req.Players)
		}
		return input, nil, nil
	}

	if err := h.parseTeamForm(w, r); err != nil {
		return usecase.UpdateTeamInput{}, nil, err
	}
	var input usecase.UpdateTeamInput
	if values, ok := r.MultipartForm.Value["teamName"]; ok && len(values) > 0 {
		name := values[0]
		input.Name = &name
	}
	if values, ok := r.MultipartForm.Value["players"]; ok && len(values) > 0 {
		players, err := decodePlayers(values[0])
		if err != nil {
			return usecase.UpdateTeamInput{}, nil, err
		}
		input.Players = toPlayerInputs(players)
	}
	logo, logoFile, err := formUpload(r, formLogo)
	if err != nil {
		return usecase.UpdateTeamInput{}, nil, err
	}
	input.Logo = logo
	return input, logoFile, nil
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeam")
	defer span.End()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	input, logoFile, err := h.readTeamUpdate(ctx, w, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	defer closeFiles(logoFile)
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	updated, err := h.teams.Update(ctx, principal, pathValue(r, "teamID"), input)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "Team updated successfully", "team", teamToDTO(updated))
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTeam")
	defer span.End()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.teams.Delete(ctx, principal, pathValue(r, "teamID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeMessage(ctx, w, http.StatusOK, "Team deleted successfully")
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	items, err := h.teams.List(ctx, usecase.TeamListInput{
		EventID: queryValue(r, "event_id"),
		SportID: queryValue(r, "sport_id"),
		Status:  queryValue(r, "status"),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "OK", "teams", teamsToDTO(items))
}

func (h *Handler) SearchTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchTeams")
	defer span.End()

	items, err := h.teams.Search(ctx, queryValue(r, "q"), queryValue(r, "event_id"), queryValue(r, "sport_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "OK", "teams", teamsToDTO(items))
}

func (h *Handler) MyTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MyTeams")
	defer span.End()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.teams.Mine(ctx, principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "OK", "teams", teamsToDTO(items))
}

func (h *Handler) PendingTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PendingTeams")
	defer span.End()

	items, err := h.teams.Pending(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "OK", "teams", teamsToDTO(items))
}

func (h *Handler) TeamDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TeamDetails")
	defer span.End()

	details, err := h.teams.Details(ctx, pathValue(r, "teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, teamDetailsResponse{
		Message: "OK",
		Team:    teamToDTO(details.Team),
		Players: playersToDTO(details.Players),
		History: historyToDTO(details.History),
		Matches: h.matchesToDTO(details.Matches),
	})
}

func (h *Handler) ApproveTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveTeam")
	defer span.End()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	approved, err := h.teams.Approve(ctx, principal, pathValue(r, "teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "Team approved", "team", teamToDTO(approved))
}

func (h *Handler) RejectTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectTeam")
	defer span.End()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req reasonRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rejected, err := h.teams.Reject(ctx, principal, pathValue(r, "teamID"), req.Reason)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "Team rejected", "team", teamToDTO(rejected))
}

func (h *Handler) DisqualifyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DisqualifyTeam")
	defer span.End()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req reasonRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	disqualified, cancelled, err := h.teams.Disqualify(ctx, principal, pathValue(r, "teamID"), req.Reason)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, body{
		"message":          fmt.Sprintf("Team disqualified. %d upcoming matches cancelled.", cancelled),
		"team":             teamToDTO(disqualified),
		"cancelledMatches": cancelled,
	})
}
