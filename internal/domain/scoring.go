package domain

// BonusKind labels a declaration bonus or penalty in the settlement
// breakdown.
type BonusKind string

const (
	BonusTichu      BonusKind = "tichu"
	BonusGrandTichu BonusKind = "grand_tichu"
)

// Bonus is one Tichu or Grand Tichu wager resolved at settlement.
type Bonus struct {
	Seat   int
	Team   Team
	Kind   BonusKind
	Amount int
}

// RoundResult is the settlement breakdown of one round.
type RoundResult struct {
	// Points is the per-team round delta including bonuses.
	Points map[Team]int
	// CardPoints is the card-value portion only; zero on a double finish.
	CardPoints map[Team]int
	// Bonuses lists the resolved declarations.
	Bonuses []Bonus
	// DoubleFinish marks the flat 200-point partnership finish.
	DoubleFinish bool
	// Totals is the cumulative team score after applying this round.
	Totals map[Team]int
}

// SettleRound scores the finished round and accumulates the team totals.
// On a double finish the winning partnership takes a flat 200 and no card
// points are tallied. Otherwise each finished player's trick pile scores for
// their team, while the left-behind player's remaining hand goes to the
// first finisher's team and their trick pile to the opposing team.
// Tichu (±100) and Grand Tichu (±200) wagers resolve against first place
// and apply on top in either case.
func SettleRound(m *Match) RoundResult {
	r := m.Round
	result := RoundResult{
		Points:       map[Team]int{TeamA: 0, TeamB: 0},
		CardPoints:   map[Team]int{TeamA: 0, TeamB: 0},
		DoubleFinish: r.DoubleFinish,
	}

	if r.DoubleFinish {
		winner := m.Players[r.FinishOrder[0]].Team
		result.Points[winner] = 200
	} else {
		first := m.Players[r.FinishOrder[0]]
		for _, p := range m.Players {
			pile := CardPoints(p.TricksWon)
			if p.Finished {
				result.CardPoints[p.Team] += pile
			} else {
				result.CardPoints[first.Team] += CardPoints(p.Hand)
				result.CardPoints[Opposing(p.Team)] += pile
			}
		}
		result.Points[TeamA] = result.CardPoints[TeamA]
		result.Points[TeamB] = result.CardPoints[TeamB]
	}

	firstSeat := r.FinishOrder[0]
	for _, p := range m.Players {
		if p.GrandTichu != nil && *p.GrandTichu {
			amount := 200
			if p.Seat != firstSeat {
				amount = -200
			}
			result.Bonuses = append(result.Bonuses, Bonus{Seat: p.Seat, Team: p.Team, Kind: BonusGrandTichu, Amount: amount})
			result.Points[p.Team] += amount
		}
		if p.CalledTichu {
			amount := 100
			if p.Seat != firstSeat {
				amount = -100
			}
			result.Bonuses = append(result.Bonuses, Bonus{Seat: p.Seat, Team: p.Team, Kind: BonusTichu, Amount: amount})
			result.Points[p.Team] += amount
		}
	}

	m.Scores[TeamA] += result.Points[TeamA]
	m.Scores[TeamB] += result.Points[TeamB]
	result.Totals = map[Team]int{TeamA: m.Scores[TeamA], TeamB: m.Scores[TeamB]}
	r.Phase = PhaseSettled
	return result
}
