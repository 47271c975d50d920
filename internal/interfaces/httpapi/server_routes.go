package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("POST /v1/teams", handler.SaveTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("PUT /v1/teams/{teamID}", handler.SaveTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/points", handler.GetTeamPoints)

	mux.HandleFunc("GET /v1/teams/{teamID}/players", handler.ListPlayers)
	mux.HandleFunc("POST /v1/teams/{teamID}/players", handler.SavePlayer)
	mux.HandleFunc("PUT /v1/teams/{teamID}/players/{playerID}", handler.SavePlayer)
	mux.HandleFunc("PUT /v1/teams/{teamID}/players/{playerID}/availability", handler.SetPlayerAvailability)
	mux.HandleFunc("PUT /v1/teams/{teamID}/captain", handler.SetTeamCaptain)

	mux.HandleFunc("POST /v1/matches", handler.StartMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/recommendation", handler.GetRecommendation)
	mux.HandleFunc("POST /v1/matches/{matchID}/periods", handler.ClosePeriod)
	mux.HandleFunc("POST /v1/matches/{matchID}/finish", handler.FinishMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/points", handler.GetMatchPoints)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	guard := func(next http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, next)
	}

	mux.Handle("POST /v1/internal/jobs/plan-refresh", guard(handler.RunPlanRefreshJob))
	mux.Handle("POST /v1/internal/jobs/stat-sync", guard(handler.RunStatSyncJob))
}
