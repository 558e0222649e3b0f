package main

import (
	"net/http"

	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/AdamBeresnev/crease/internal/httputil"
	"github.com/AdamBeresnev/crease/internal/service"
	"github.com/AdamBeresnev/crease/internal/utils"
	"github.com/AdamBeresnev/crease/views"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func urlID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.BadRequest(w, "Invalid "+what+" ID", err)
		return uuid.Nil, false
	}
	return id, true
}

func queryID(w http.ResponseWriter, r *http.Request, key string) (*uuid.UUID, bool) {
	id, err := utils.UUIDOrNil(r.URL.Query().Get(key))
	if err != nil {
		httputil.BadRequest(w, "Invalid "+key, err)
		return nil, false
	}
	return id, true
}

func (a *app) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.dashboard.GetDashboardStats(r.Context())
	if err != nil {
		httputil.Error(w, "Failed to get dashboard stats", err)
		return
	}
	httputil.JSON(w, http.StatusOK, stats)
}

func (a *app) getStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := a.standings.GetStandings(r.Context())
	if err != nil {
		httputil.Error(w, "Failed to get standings", err)
		return
	}
	httputil.JSON(w, http.StatusOK, standings)
}

func (a *app) getStats(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, a.dashboard.GetStats())
}

func (a *app) visitorStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.visitors.GetVisitorStats(r.Context())
	if err != nil {
		httputil.Error(w, "Failed to get visitor stats", err)
		return
	}
	httputil.JSON(w, http.StatusOK, stats)
}

func (a *app) listTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := a.tournaments.ListTournaments(r.Context())
	if err != nil {
		httputil.Error(w, "Failed to list tournaments", err)
		return
	}
	httputil.JSON(w, http.StatusOK, tournaments)
}

func (a *app) createTournament(w http.ResponseWriter, r *http.Request) {
	var in service.TournamentInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), nil)
		return
	}
	tournament, err := a.tournaments.CreateTournament(r.Context(), in)
	if err != nil {
		httputil.Error(w, "Failed to create tournament", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, tournament)
}

func (a *app) getTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "tournament")
	if !ok {
		return
	}
	tournament, err := a.tournaments.GetTournament(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to get tournament", err)
		return
	}
	httputil.JSON(w, http.StatusOK, tournament)
}

func (a *app) updateTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "tournament")
	if !ok {
		return
	}
	var in service.TournamentInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), nil)
		return
	}
	tournament, err := a.tournaments.UpdateTournament(r.Context(), id, in)
	if err != nil {
		httputil.Error(w, "Failed to update tournament", err)
		return
	}
	httputil.JSON(w, http.StatusOK, tournament)
}

func (a *app) deleteTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "tournament")
	if !ok {
		return
	}
	if err := a.tournaments.DeleteTournament(r.Context(), id); err != nil {
		httputil.Error(w, "Failed to delete tournament", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) generateKnockouts(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "tournament")
	if !ok {
		return
	}
	var in service.KnockoutInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), nil)
		return
	}
	matches, err := a.knockouts.GenerateKnockouts(r.Context(), id, in)
	if err != nil {
		httputil.Error(w, "Failed to generate knockouts", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, matches)
}

func (a *app) listGroups(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := queryID(w, r, "tournamentId")
	if !ok {
		return
	}
	groups, err := a.tournaments.ListGroups(r.Context(), tournamentID)
	if err != nil {
		httputil.Error(w, "Failed to list groups", err)
		return
	}
	httputil.JSON(w, http.StatusOK, groups)
}

func (a *app) createGroup(w http.ResponseWriter, r *http.Request) {
	var in service.GroupInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), nil)
		return
	}
	group, err := a.tournaments.CreateGroup(r.Context(), in)
	if err != nil {
		httputil.Error(w, "Failed to create group", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, group)
}

func (a *app) getGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "group")
	if !ok {
		return
	}
	group, err := a.tournaments.GetGroup(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to get group", err)
		return
	}
	httputil.JSON(w, http.StatusOK, group)
}

func (a *app) updateGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "group")
	if !ok {
		return
	}
	var in service.GroupInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), nil)
		return
	}
	group, err := a.tournaments.UpdateGroup(r.Context(), id, in)
	if err != nil {
		httputil.Error(w, "Failed to update group", err)
		return
	}
	httputil.JSON(w, http.StatusOK, group)
}

func (a *app) deleteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "group")
	if !ok {
		return
	}
	if err := a.tournaments.DeleteGroup(r.Context(), id); err != nil {
		httputil.Error(w, "Failed to delete group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := a.tournaments.ListTeams(r.Context())
	if err != nil {
		httputil.Error(w, "Failed to list teams", err)
		return
	}
	httputil.JSON(w, http.StatusOK, teams)
}

func (a *app) createTeam(w http.ResponseWriter, r *http.Request) {
	var in service.TeamInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), nil)
		return
	}
	team, err := a.tournaments.CreateTeam(r.Context(), in)
	if err != nil {
		httputil.Error(w, "Failed to create team", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, team)
}

func (a *app) getTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "team")
	if !ok {
		return
	}
	team, err := a.tournaments.GetTeam(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to get team", err)
		return
	}
	httputil.JSON(w, http.StatusOK, team)
}

func (a *app) updateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "team")
	if !ok {
		return
	}
	var in service.TeamInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), nil)
		return
	}
	team, err := a.tournaments.UpdateTeam(r.Context(), id, in)
	if err != nil {
		httputil.Error(w, "Failed to update team", err)
		return
	}
	httputil.JSON(w, http.StatusOK, team)
}

func (a *app) deleteTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "team")
	if !ok {
		return
	}
	if err := a.tournaments.DeleteTeam(r.Context(), id); err != nil {
		httputil.Error(w, "Failed to delete team", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) listMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := queryID(w, r, "tournamentId")
	if !ok {
		return
	}
	matches, err := a.matches.ListMatches(r.Context(), tournamentID)
	if err != nil {
		httputil.Error(w, "Failed to list matches", err)
		return
	}
	httputil.JSON(w, http.StatusOK, matches)
}

func (a *app) createMatch(w http.ResponseWriter, r *http.Request) {
	var in service.MatchInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), nil)
		return
	}
	match, err := a.matches.CreateMatch(r.Context(), in)
	if err != nil {
		httputil.Error(w, "Failed to create match", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, match)
}

func (a *app) getMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "match")
	if !ok {
		return
	}
	match, err := a.matches.GetMatch(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to get match", err)
		return
	}
	httputil.JSON(w, http.StatusOK, match)
}

func (a *app) updateMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "match")
	if !ok {
		return
	}
	var in service.MatchInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), nil)
		return
	}
	match, err := a.matches.UpdateMatch(r.Context(), id, in)
	if err != nil {
		httputil.Error(w, "Failed to update match", err)
		return
	}
	httputil.JSON(w, http.StatusOK, match)
}

func (a *app) deleteMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "match")
	if !ok {
		return
	}
	if err := a.matches.DeleteMatch(r.Context(), id); err != nil {
		httputil.Error(w, "Failed to delete match", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) scoreboard(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "match")
	if !ok {
		return
	}
	board, err := a.matches.GetScoreboard(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to get scoreboard", err)
		return
	}
	if err := views.Render(w, r, views.Scoreboard(views.PrepareScoreboard(board))); err != nil {
		httputil.InternalServerError(w, "Failed to render scoreboard", err)
	}
}

func (a *app) listBalls(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "match")
	if !ok {
		return
	}
	balls, err := a.scoring.ListBalls(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to list deliveries", err)
		return
	}
	httputil.JSON(w, http.StatusOK, balls)
}

func (a *app) recordBall(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "match")
	if !ok {
		return
	}
	var ev cricket.BallEvent
	if err := httputil.DecodeJSON(w, r, &ev); err != nil {
		httputil.BadRequest(w, err.Error(), nil)
		return
	}
	match, err := a.scoring.RecordBall(r.Context(), id, ev)
	if err != nil {
		httputil.Error(w, "Failed to record delivery", err)
		return
	}
	httputil.JSON(w, http.StatusOK, match)
}

func (a *app) undoLastBall(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "match")
	if !ok {
		return
	}
	match, err := a.scoring.UndoLastBall(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to undo delivery", err)
		return
	}
	httputil.JSON(w, http.StatusOK, match)
}

func (a *app) abandonMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "match")
	if !ok {
		return
	}
	match, err := a.scoring.Abandon(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to abandon match", err)
		return
	}
	httputil.JSON(w, http.StatusOK, match)
}

func (a *app) getSuperOver(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "match")
	if !ok {
		return
	}
	superOver, err := a.scoring.GetSuperOver(r.Context(), id)
	if err != nil {
		httputil.Error(w, "Failed to get super over", err)
		return
	}
	httputil.JSON(w, http.StatusOK, superOver)
}

func (a *app) resolveSuperOver(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "match")
	if !ok {
		return
	}
	var in cricket.SuperOverInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, err.Error(), nil)
		return
	}
	superOver, _, err := a.scoring.ResolveSuperOver(r.Context(), id, in)
	if err != nil {
		httputil.Error(w, "Failed to resolve super over", err)
		return
	}
	httputil.JSON(w, http.StatusOK, superOver)
}

func (a *app) liveMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "match")
	if !ok {
		return
	}
	if _, err := a.matches.GetMatch(r.Context(), id); err != nil {
		httputil.Error(w, "Failed to get match", err)
		return
	}
	// Upgrade writes its own error response.
	_ = a.hub.ServeMatch(w, r, id)
}
