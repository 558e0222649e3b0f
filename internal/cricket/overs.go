package cricket

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const BallsPerOver = 6

// OverCount is the number of legal deliveries bowled in an innings. It is
// shown to people as "overs.balls", e.g. 20 legal balls is "3.2".
type OverCount int

func OversOf(completed, balls int) OverCount {
	return OverCount(completed*BallsPerOver + balls)
}

// Completed is the number of full overs bowled.
func (o OverCount) Completed() int {
	return int(o) / BallsPerOver
}

// Balls is the number of legal deliveries into the current over (0-5).
func (o OverCount) Balls() int {
	return int(o) % BallsPerOver
}

func (o OverCount) String() string {
	return fmt.Sprintf("%d.%d", o.Completed(), o.Balls())
}

func (o OverCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *OverCount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("overs must be a string like \"3.4\": %w", err)
	}
	parsed, err := ParseOvers(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOvers reads the "overs.balls" notation.
func ParseOvers(s string) (OverCount, error) {
	whole, frac, found := strings.Cut(strings.TrimSpace(s), ".")
	completed, err := strconv.Atoi(whole)
	if err != nil || completed < 0 {
		return 0, fmt.Errorf("invalid overs %q", s)
	}
	balls := 0
	if found {
		balls, err = strconv.Atoi(frac)
		if err != nil || len(frac) != 1 || balls >= BallsPerOver {
			return 0, fmt.Errorf("invalid overs %q", s)
		}
	}
	return OversOf(completed, balls), nil
}
