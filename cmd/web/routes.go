package main

import (
	"net/http"

	"github.com/AdamBeresnev/crease/internal/live"
	"github.com/AdamBeresnev/crease/internal/middleware"
	"github.com/AdamBeresnev/crease/internal/service"
	"github.com/AdamBeresnev/crease/internal/store"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

// app holds the services shared by every request. The scoring service keeps
// per-match locks, so there must be exactly one of it.
type app struct {
	tournaments *service.TournamentService
	matches     *service.MatchService
	scoring     *service.ScoringService
	standings   *service.StandingsService
	knockouts   *service.KnockoutService
	dashboard   *service.DashboardService
	visitors    *service.VisitorService
	hub         *live.Hub
}

func newApp(db *sqlx.DB, hub *live.Hub) *app {
	tournamentStore := store.NewTournamentStore(db)
	teamStore := store.NewTeamStore(db)
	matchStore := store.NewMatchStore(db)

	return &app{
		tournaments: service.NewTournamentService(tournamentStore, teamStore),
		matches:     service.NewMatchService(matchStore, tournamentStore, teamStore),
		scoring:     service.NewScoringService(db, matchStore, hub),
		standings:   service.NewStandingsService(tournamentStore, teamStore, matchStore),
		knockouts:   service.NewKnockoutService(db, tournamentStore, teamStore, matchStore),
		dashboard:   service.NewDashboardService(tournamentStore, teamStore, matchStore),
		visitors:    service.NewVisitorService(store.NewVisitorStore(db)),
		hub:         hub,
	}
}

func newRouter(a *app, sessionManager *scs.SessionManager, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	corsOptions := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(allowedOrigins) > 0 {
		corsOptions.AllowedOrigins = allowedOrigins
	} else {
		corsOptions.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
	}
	r.Use(cors.Handler(corsOptions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// The WebSocket hijacks the connection, so it stays outside the session group.
	r.Get("/matches/{id}/live", a.liveMatch)

	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.TrackVisitors(sessionManager, a.visitors))

		r.Get("/dashboard/stats", a.dashboardStats)
		r.Get("/standings", a.getStandings)
		r.Get("/stats", a.getStats)
		r.Get("/visitors/stats", a.visitorStats)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", a.listTournaments)
			r.Post("/", a.createTournament)
			r.Get("/{id}", a.getTournament)
			r.Patch("/{id}", a.updateTournament)
			r.Delete("/{id}", a.deleteTournament)
			r.Post("/{id}/knockouts", a.generateKnockouts)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", a.listGroups)
			r.Post("/", a.createGroup)
			r.Get("/{id}", a.getGroup)
			r.Patch("/{id}", a.updateGroup)
			r.Delete("/{id}", a.deleteGroup)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", a.listTeams)
			r.Post("/", a.createTeam)
			r.Get("/{id}", a.getTeam)
			r.Patch("/{id}", a.updateTeam)
			r.Delete("/{id}", a.deleteTeam)
		})

		r.Get("/matches", a.listMatches)
		r.Post("/matches", a.createMatch)
		r.Get("/matches/{id}", a.getMatch)
		r.Patch("/matches/{id}", a.updateMatch)
		r.Delete("/matches/{id}", a.deleteMatch)
		r.Get("/matches/{id}/scoreboard", a.scoreboard)
		r.Get("/matches/{id}/balls", a.listBalls)
		r.Post("/matches/{id}/score", a.recordBall)
		r.Post("/matches/{id}/undo", a.undoLastBall)
		r.Post("/matches/{id}/abandon", a.abandonMatch)
		r.Get("/matches/{id}/super-over", a.getSuperOver)
		r.Post("/matches/{id}/super-over", a.resolveSuperOver)
	})

	return r
}
