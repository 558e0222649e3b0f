package views

import (
	"fmt"

	"github.com/AdamBeresnev/crease/internal/cricket"
	"github.com/AdamBeresnev/crease/internal/service"
	"github.com/AdamBeresnev/crease/internal/utils"
	"github.com/google/uuid"
)

type InningsLine struct {
	Team    string
	Score   string
	Overs   string
	Batting bool
}

type ScoreboardData struct {
	Title   string
	Stage   cricket.Stage
	Status  cricket.MatchStatus
	Innings []InningsLine
	Summary string
}

// PrepareScoreboard lays the match out in batting order.
func PrepareScoreboard(board *service.Scoreboard) ScoreboardData {
	m := board.Match
	names := map[bool]string{true: board.Team1.Name, false: board.Team2.Name}

	team1 := InningsLine{
		Team:    board.Team1.Name,
		Score:   cricket.Innings{Score: m.Team1Score, Wickets: m.Team1Wickets}.String(),
		Overs:   m.Team1Overs.String(),
		Batting: m.Status == cricket.MatchInProgress && m.CurrentBattingTeamID == m.Team1ID,
	}
	team2 := InningsLine{
		Team:    board.Team2.Name,
		Score:   cricket.Innings{Score: m.Team2Score, Wickets: m.Team2Wickets}.String(),
		Overs:   m.Team2Overs.String(),
		Batting: m.Status == cricket.MatchInProgress && m.CurrentBattingTeamID == m.Team2ID,
	}

	data := ScoreboardData{
		Title:   fmt.Sprintf("%s vs %s", board.Team1.Name, board.Team2.Name),
		Stage:   m.Stage,
		Status:  m.Status,
		Innings: []InningsLine{team1, team2},
	}
	if m.OpeningBatterID() == m.Team2ID {
		data.Innings = []InningsLine{team2, team1}
	}

	switch m.Status {
	case cricket.MatchScheduled:
		data.Summary = "Yet to start"
	case cricket.MatchAbandoned:
		data.Summary = "Match abandoned"
	case cricket.MatchCompleted:
		if winner := utils.OrZero(m.WinnerID); winner != uuid.Nil {
			data.Summary = names[winner == m.Team1ID] + " won"
		} else {
			data.Summary = "Match tied"
		}
	case cricket.MatchInProgress:
		data.Summary = chaseSummary(m, names[m.CurrentBattingTeamID == m.Team1ID])
	}
	return data
}

func chaseSummary(m *cricket.Match, batting string) string {
	if m.CurrentInnings == 1 {
		return batting + " batting first"
	}

	target, score, bowled := m.Team1Score+1, m.Team2Score, m.Team2Overs
	if m.CurrentBattingTeamID == m.Team1ID {
		target, score, bowled = m.Team2Score+1, m.Team1Score, m.Team1Overs
	}
	need := target - score
	if need <= 0 {
		return fmt.Sprintf("%s have passed the target of %d", batting, target)
	}
	left := m.Overs*cricket.BallsPerOver - int(bowled)
	return fmt.Sprintf("%s need %d from %d balls", batting, need, left)
}
