package standings

import (
	"cmp"
	"slices"
)

// Rank sorts rows into a 1-based board: points descending, then average
// effort magnitude descending, then id ascending. The id leg is the explicit
// tertiary tie-break, so identical inputs always produce identical boards no
// matter what order the data layer returned them in. Ranks are sequential;
// rows tied on every key still get distinct consecutive positions.
func Rank(rows []Row) []RankedRow {
	sorted := slices.Clone(rows)
	slices.SortFunc(sorted, func(a, b Row) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(b.AvgRR, a.AvgRR); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	out := make([]RankedRow, len(sorted))
	for i, row := range sorted {
		out[i] = RankedRow{Row: row, Rank: i + 1}
	}

	return out
}

// RankNonZero drops zero-point rows before ranking. Sub-team and
// challenge-only boards hide units that never scored; the main boards never
// use this.
func RankNonZero(rows []Row) []RankedRow {
	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Points > 0 {
			filtered = append(filtered, row)
		}
	}
	return Rank(filtered)
}
