// Package scoring is the live match state machine. Every function here is pure:
// it takes a match and returns the next match, leaving persistence to callers.
//
// A match moves scheduled -> in_progress on its first delivery and to
// completed when the second innings ends. Running totals are never edited in
// place by callers; they are produced by Apply, and Replay rebuilds them from
// the ball log so an undo is "drop the last ball and fold again".
package scoring

import (
	"fmt"

	"github.com/AdamBeresnev/crease/internal/apperr"
	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/AdamBeresnev/crease/internal/utils"
	"github.com/google/uuid"
)

// side points at the running totals of one team inside a match.
type side struct {
	score   *int
	wickets *int
	overs   *cricket.OverCount
}

func battingSide(m *cricket.Match) (side, error) {
	switch m.CurrentBattingTeamID {
	case m.Team1ID:
		return side{score: &m.Team1Score, wickets: &m.Team1Wickets, overs: &m.Team1Overs}, nil
	case m.Team2ID:
		return side{score: &m.Team2Score, wickets: &m.Team2Wickets, overs: &m.Team2Overs}, nil
	}
	return side{}, fmt.Errorf("batting team %s is not playing in match %s", m.CurrentBattingTeamID, m.ID)
}

func ValidateBall(ev cricket.BallEvent) error {
	if ev.Runs < 0 {
		return apperr.InvalidInput("runs must not be negative, got %d", ev.Runs)
	}
	if !ev.Extras.Valid() {
		return apperr.InvalidInput("unknown extras %q", ev.Extras)
	}
	return nil
}

// Apply records one delivery against the batting team and performs any
// innings or match transition it triggers.
func Apply(m cricket.Match, ev cricket.BallEvent) (cricket.Match, error) {
	if err := ValidateBall(ev); err != nil {
		return m, err
	}
	if m.Status.Finished() {
		return m, apperr.Conflict("match is %s, no more deliveries can be recorded", m.Status)
	}

	s, err := battingSide(&m)
	if err != nil {
		return m, err
	}

	if m.Status == cricket.MatchScheduled {
		m.Status = cricket.MatchInProgress
	}

	*s.score += ev.Runs
	if ev.IsWicket && *s.wickets < cricket.MaxWickets {
		*s.wickets++
	}
	if ev.Extras.Legal() {
		*s.overs++
	}

	if *s.wickets >= cricket.MaxWickets || s.overs.Completed() >= m.Overs {
		endInnings(&m)
	}
	return m, nil
}

func endInnings(m *cricket.Match) {
	if m.CurrentInnings == 1 {
		m.CurrentInnings = 2
		m.CurrentBattingTeamID = m.Opponent(m.CurrentBattingTeamID)
		return
	}

	m.Status = cricket.MatchCompleted
	m.WinnerID = nil
	switch {
	case m.Team1Score > m.Team2Score:
		m.Result = cricket.ResultTeam1Win
		m.WinnerID = utils.Ptr(m.Team1ID)
	case m.Team2Score > m.Team1Score:
		m.Result = cricket.ResultTeam2Win
		m.WinnerID = utils.Ptr(m.Team2ID)
	default:
		m.Result = cricket.ResultTie
	}
}

// Reset returns the match as it was before the first ball was bowled.
func Reset(m cricket.Match) cricket.Match {
	m.Status = cricket.MatchScheduled
	m.Result = cricket.ResultUndecided
	m.WinnerID = nil
	m.Team1Score, m.Team1Wickets, m.Team1Overs = 0, 0, 0
	m.Team2Score, m.Team2Wickets, m.Team2Overs = 0, 0, 0
	m.CurrentInnings = 1
	m.CurrentBattingTeamID = m.OpeningBatterID()
	return m
}

// Replay rebuilds the match state by folding the ball log over a reset match.
func Replay(m cricket.Match, balls []cricket.Ball) (cricket.Match, error) {
	state := Reset(m)
	for _, b := range balls {
		if b.BattingTeamID != state.CurrentBattingTeamID || b.Innings != state.CurrentInnings {
			return m, fmt.Errorf("ball %d of match %s does not follow from the previous deliveries", b.Sequence, m.ID)
		}
		next, err := Apply(state, b.Event())
		if err != nil {
			return m, fmt.Errorf("replay ball %d: %w", b.Sequence, err)
		}
		state = next
	}
	return state, nil
}

// DecideSuperOver settles a tied match. The returned Super Over has no ID yet.
func DecideSuperOver(m cricket.Match, in cricket.SuperOverInput) (cricket.SuperOver, cricket.Match, error) {
	if in.Team1Runs < 0 || in.Team2Runs < 0 || in.Team1Wickets < 0 || in.Team2Wickets < 0 {
		return cricket.SuperOver{}, m, apperr.InvalidInput("super over runs and wickets must not be negative")
	}
	if m.Status != cricket.MatchCompleted || m.Result != cricket.ResultTie {
		return cricket.SuperOver{}, m, apperr.Conflict("a super over can only settle a completed, tied match")
	}

	so := cricket.SuperOver{
		MatchID:      m.ID,
		Team1Runs:    in.Team1Runs,
		Team1Wickets: in.Team1Wickets,
		Team2Runs:    in.Team2Runs,
		Team2Wickets: in.Team2Wickets,
	}

	// A tied Super Over leaves the match tied; there is no second decider.
	var winner uuid.UUID
	switch {
	case in.Team1Runs > in.Team2Runs:
		winner = m.Team1ID
		m.Result = cricket.ResultTeam1Win
	case in.Team2Runs > in.Team1Runs:
		winner = m.Team2ID
		m.Result = cricket.ResultTeam2Win
	default:
		m.Result = cricket.ResultTie
	}
	m.WinnerID = nil
	if winner != uuid.Nil {
		so.WinnerID = utils.Ptr(winner)
		m.WinnerID = utils.Ptr(winner)
	}
	return so, m, nil
}

// Abandon is the administrative override that ends a match without a winner.
func Abandon(m cricket.Match) (cricket.Match, error) {
	if m.Status.Finished() {
		return m, apperr.Conflict("match is already %s", m.Status)
	}
	m.Status = cricket.MatchAbandoned
	m.Result = cricket.ResultAbandoned
	m.WinnerID = nil
	return m, nil
}
