package httpapi

import (
	"net/http"

	"github.com/riskibarqy/tournament-portal/internal/domain/user"
)

func authed(verifier TokenVerifier, fn http.HandlerFunc) http.Handler {
	return RequireAuth(verifier, fn)
}

func adminOnly(verifier TokenVerifier, fn http.HandlerFunc) http.Handler {
	return RequireAuth(verifier, RequireRole(user.RoleAdmin, fn))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("POST /auth/signup", handler.Signup)
	mux.HandleFunc("POST /auth/login", handler.Login)
	mux.HandleFunc("POST /auth/forgot-password", handler.ForgotPassword)
	mux.HandleFunc("POST /auth/reset-password", handler.ResetPassword)
	mux.Handle("GET /auth/me", authed(verifier, handler.Me))
}

func registerEventRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("GET /events", handler.ListEvents)
	mux.HandleFunc("GET /events/active/current", handler.CurrentEvent)
	mux.HandleFunc("GET /events/{eventID}", handler.GetEvent)
	mux.HandleFunc("GET /events/{eventID}/sports", handler.ListEventSports)

	mux.Handle("POST /events", adminOnly(verifier, handler.CreateEvent))
	mux.Handle("PUT /events/{eventID}", adminOnly(verifier, handler.UpdateEvent))
	mux.Handle("DELETE /events/{eventID}", adminOnly(verifier, handler.DeleteEvent))
	mux.Handle("POST /events/{eventID}/open-registrations", adminOnly(verifier, handler.OpenRegistrations))
	mux.Handle("POST /events/{eventID}/close-registrations", adminOnly(verifier, handler.CloseRegistrations))
	mux.Handle("POST /events/{eventID}/reopen-registrations", adminOnly(verifier, handler.ReopenRegistrations))
	mux.Handle("POST /events/{eventID}/activate", adminOnly(verifier, handler.ActivateEvent))
	mux.Handle("POST /events/{eventID}/complete", adminOnly(verifier, handler.CompleteEvent))
	mux.Handle("POST /events/{eventID}/reopen", adminOnly(verifier, handler.ReopenEvent))
	mux.Handle("POST /events/{eventID}/sports/{sportID}", adminOnly(verifier, handler.LinkEventSport))
	mux.Handle("DELETE /events/{eventID}/sports/{sportID}", adminOnly(verifier, handler.UnlinkEventSport))
}

func registerSportRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("GET /sports", handler.ListSports)
	mux.HandleFunc("GET /sports/{sportID}", handler.GetSport)
	mux.HandleFunc("GET /sports/{name}/positions", handler.SportPositions)
	mux.Handle("POST /sports", adminOnly(verifier, handler.CreateSport))
	mux.Handle("DELETE /sports/{sportID}", adminOnly(verifier, handler.DeleteSport))

	mux.HandleFunc("GET /venues", handler.ListVenues)
	mux.Handle("POST /venues", adminOnly(verifier, handler.CreateVenue))
	mux.Handle("DELETE /venues/{venueID}", adminOnly(verifier, handler.DeleteVenue))
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("GET /teams", handler.ListTeams)
	mux.HandleFunc("GET /teams/search", handler.SearchTeams)
	mux.HandleFunc("GET /teams/{teamID}/details", handler.TeamDetails)

	mux.Handle("POST /teams/register", authed(verifier, handler.RegisterTeam))
	mux.Handle("GET /teams/my/all", authed(verifier, handler.MyTeams))
	mux.Handle("PUT /teams/{teamID}", authed(verifier, handler.UpdateTeam))
	mux.Handle("DELETE /teams/{teamID}", authed(verifier, handler.DeleteTeam))

	mux.Handle("GET /teams/pending", adminOnly(verifier, handler.PendingTeams))
	mux.Handle("POST /teams/{teamID}/approve", adminOnly(verifier, handler.ApproveTeam))
	mux.Handle("POST /teams/{teamID}/reject", adminOnly(verifier, handler.RejectTeam))
	mux.Handle("POST /teams/{teamID}/disqualify", adminOnly(verifier, handler.DisqualifyTeam))
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("GET /matches", handler.ListMatches)
	mux.HandleFunc("GET /matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /points", handler.Points)

	mux.Handle("GET /matches/my", authed(verifier, handler.MyMatches))

	mux.Handle("POST /matches", adminOnly(verifier, handler.ScheduleMatch))
	mux.Handle("PUT /matches/{matchID}", adminOnly(verifier, handler.RescheduleMatch))
	mux.Handle("POST /matches/{matchID}/score", adminOnly(verifier, handler.SubmitScore))
	mux.Handle("POST /matches/{matchID}/cancel", adminOnly(verifier, handler.CancelMatch))
	mux.Handle("DELETE /matches/{matchID}", adminOnly(verifier, handler.DeleteMatch))
}
