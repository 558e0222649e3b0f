package cricket

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Result is the decided outcome of a match. The zero value is ResultUndecided,
// which is stored as NULL and serialized as JSON null.
type Result string

const (
	ResultUndecided Result = ""
	ResultTeam1Win  Result = "team1_win"
	ResultTeam2Win  Result = "team2_win"
	ResultTie       Result = "tie"
	ResultAbandoned Result = "abandoned"
)

func (r Result) Decided() bool {
	return r != ResultUndecided
}

func (r Result) Valid() bool {
	switch r {
	case ResultUndecided, ResultTeam1Win, ResultTeam2Win, ResultTie, ResultAbandoned:
		return true
	}
	return false
}

func (r Result) Value() (driver.Value, error) {
	if r == ResultUndecided {
		return nil, nil
	}
	return string(r), nil
}

func (r *Result) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = ResultUndecided
	case string:
		*r = Result(v)
	case []byte:
		*r = Result(v)
	default:
		return fmt.Errorf("cannot scan %T into Result", src)
	}
	if !r.Valid() {
		return fmt.Errorf("unknown match result %q", *r)
	}
	return nil
}

func (r Result) MarshalJSON() ([]byte, error) {
	if r == ResultUndecided {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*r = ResultUndecided
		return nil
	}
	if !Result(*s).Valid() {
		return fmt.Errorf("unknown match result %q", *s)
	}
	*r = Result(*s)
	return nil
}

// Innings is one side's running total.
type Innings struct {
	Score   int
	Wickets int
	Overs   OverCount
}

func (i Innings) String() string {
	return fmt.Sprintf("%d/%d", i.Score, i.Wickets)
}
