package standings

// Row is one rankable line before rank assignment. AvgRR is the average effort
// magnitude used as the tie-break after points.
type Row struct {
	ID     string
	Name   string
	Points float64
	AvgRR  float64
}

// RankedRow is a Row with its 1-based position on the board.
type RankedRow struct {
	Row
	Rank int
}

// Anomalies counts aggregation-input rows that were skipped rather than
// allowed to abort the whole computation. Operators watch these to catch
// systematic data problems.
type Anomalies struct {
	NonPositivePoints int
	MissingTeam       int
	MissingSubTeam    int
	UnknownChallenge  int
}

func (a Anomalies) Total() int {
	return a.NonPositivePoints + a.MissingTeam + a.MissingSubTeam + a.UnknownChallenge
}
