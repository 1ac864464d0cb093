package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/challenges/{challengeID}/leaderboard", handler.GetChallengeLeaderboard)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedChallengeRoutes(mux, handler, verifier)
	registerAuthorizedDonationRoutes(mux, handler, verifier)
}

func registerAuthorizedChallengeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/challenges", RequireAuth(verifier, http.HandlerFunc(handler.ListChallenges)))
	mux.Handle("POST /v1/leagues/{leagueID}/challenges/{challengeID}/submissions/{submissionID}/review", RequireAuth(verifier, http.HandlerFunc(handler.ReviewSubmission)))
	mux.Handle("POST /v1/leagues/{leagueID}/challenges/{challengeID}/publish", RequireAuth(verifier, http.HandlerFunc(handler.PublishChallenge)))
	mux.Handle("POST /v1/leagues/{leagueID}/challenges/{challengeID}/close", RequireAuth(verifier, http.HandlerFunc(handler.CloseChallenge)))
	mux.Handle("PUT /v1/leagues/{leagueID}/challenges/{challengeID}/team-scores", RequireAuth(verifier, http.HandlerFunc(handler.AssignTeamScore)))
}

func registerAuthorizedDonationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/donations", RequireAuth(verifier, http.HandlerFunc(handler.ListDonations)))
	mux.Handle("POST /v1/leagues/{leagueID}/donations", RequireAuth(verifier, http.HandlerFunc(handler.CreateDonation)))
	mux.Handle("POST /v1/leagues/{leagueID}/donations/{donationID}/actions", RequireAuth(verifier, http.HandlerFunc(handler.TransitionDonation)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/league-completion-sweep", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLeagueCompletionSweep)))
}
