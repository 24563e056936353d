package models

import "strconv"

// Result is a single match outcome from one player's point of view.
type Result string

const (
	ResultWin  Result = "W"
	ResultLoss Result = "L"
	ResultDraw Result = "D"
	// ResultUnresolved is a tied match in a tournament without draws.
	ResultUnresolved Result = "U"
)

type Streak struct {
	Result Result `json:"result"`
	Length int    `json:"length"`
}

func (s Streak) String() string {
	return string(s.Result) + strconv.Itoa(s.Length)
}

type PartnerStats struct {
	Name    string  `json:"name"`
	Played  int     `json:"played"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"winRate"`
}

type PlayerStats struct {
	Player               string         `json:"player"`
	Played               int            `json:"played"`
	Wins                 int            `json:"wins"`
	Losses               int            `json:"losses"`
	Draws                int            `json:"draws"`
	WinRate              int            `json:"winRate"`
	PointsForPerGame     float64        `json:"pointsForPerGame"`
	PointsAgainstPerGame float64        `json:"pointsAgainstPerGame"`
	Streak               Streak         `json:"streak"`
	LastResults          []Result       `json:"lastResults"`
	Partners             []PartnerStats `json:"partners"`
}
