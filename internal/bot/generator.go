package bot

import (
	"sort"

	"tichu/internal/domain"
)

// ValidMove represents one legal play.
type ValidMove struct {
	Cards []domain.Card
	Combo domain.Combo
}

// GetValidMoves returns the legal plays from hand against the given trick
// top, or the legal leads when prev is nil. The Dog is only ever offered as
// a lead.
func GetValidMoves(hand []domain.Card, prev *domain.Combo) []ValidMove {
	sorted := append([]domain.Card{}, hand...)
	domain.SortHand(sorted)

	var candidates [][]domain.Card
	if prev == nil {
		candidates = append(candidates, findSingles(sorted)...)
		candidates = append(candidates, findPairs(sorted)...)
		candidates = append(candidates, findTriples(sorted)...)
		candidates = append(candidates, findFullHouses(sorted)...)
		candidates = append(candidates, findStraights(sorted, false)...)
	} else {
		switch prev.Type {
		case domain.ComboSingle:
			candidates = append(candidates, findSingles(sorted)...)
		case domain.ComboPair:
			candidates = append(candidates, findPairs(sorted)...)
		case domain.ComboTriple:
			candidates = append(candidates, findTriples(sorted)...)
		case domain.ComboFullHouse:
			candidates = append(candidates, findFullHouses(sorted)...)
		case domain.ComboStraight, domain.ComboBombStraight:
			candidates = append(candidates, findStraights(sorted, false)...)
		}
	}
	// Bombs interrupt any trick.
	candidates = append(candidates, findQuads(sorted)...)
	candidates = append(candidates, findStraights(sorted, true)...)

	var moves []ValidMove
	for _, cards := range candidates {
		combo := domain.IdentifyCombo(cards, prev)
		if combo.Type == domain.ComboInvalid {
			continue
		}
		if prev != nil && !domain.CanBeat(*prev, combo) {
			continue
		}
		moves = append(moves, ValidMove{Cards: cards, Combo: combo})
	}

	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Combo.Rank < moves[j].Combo.Rank
	})
	return moves
}

func findSingles(hand []domain.Card) [][]domain.Card {
	var out [][]domain.Card
	for _, c := range hand {
		out = append(out, []domain.Card{c})
	}
	return out
}

// groupByName buckets the standard cards of the hand by name, preserving
// the sorted order of names.
func groupByName(hand []domain.Card) (names []string, groups map[string][]domain.Card) {
	groups = make(map[string][]domain.Card)
	for _, c := range hand {
		if c.IsSpecial() {
			continue
		}
		if _, seen := groups[c.Name]; !seen {
			names = append(names, c.Name)
		}
		groups[c.Name] = append(groups[c.Name], c)
	}
	return names, groups
}

func phoenixOf(hand []domain.Card) (domain.Card, bool) {
	for _, c := range hand {
		if c.Name == domain.NamePhoenix {
			return c, true
		}
	}
	return domain.Card{}, false
}

func findPairs(hand []domain.Card) [][]domain.Card {
	names, groups := groupByName(hand)
	phoenix, hasPhoenix := phoenixOf(hand)

	var out [][]domain.Card
	for _, name := range names {
		cards := groups[name]
		if len(cards) >= 2 {
			out = append(out, []domain.Card{cards[0], cards[1]})
		}
		if hasPhoenix {
			out = append(out, []domain.Card{cards[0], phoenix})
		}
	}
	return out
}

func findTriples(hand []domain.Card) [][]domain.Card {
	names, groups := groupByName(hand)
	phoenix, hasPhoenix := phoenixOf(hand)

	var out [][]domain.Card
	for _, name := range names {
		cards := groups[name]
		if len(cards) >= 3 {
			out = append(out, []domain.Card{cards[0], cards[1], cards[2]})
		}
		if hasPhoenix && len(cards) >= 2 {
			out = append(out, []domain.Card{cards[0], cards[1], phoenix})
		}
	}
	return out
}

func findQuads(hand []domain.Card) [][]domain.Card {
	names, groups := groupByName(hand)

	var out [][]domain.Card
	for _, name := range names {
		cards := groups[name]
		if len(cards) == 4 {
			out = append(out, append([]domain.Card{}, cards...))
		}
	}
	return out
}

func findFullHouses(hand []domain.Card) [][]domain.Card {
	triples := findTriples(hand)
	pairs := findPairs(hand)

	var out [][]domain.Card
	for _, triple := range triples {
		for _, pair := range pairs {
			if overlaps(triple, pair) {
				continue
			}
			set := append(append([]domain.Card{}, triple...), pair...)
			out = append(out, set)
		}
	}
	return out
}

func overlaps(a, b []domain.Card) bool {
	for _, ca := range a {
		for _, cb := range b {
			if ca == cb {
				return true
			}
		}
	}
	return false
}

// findStraights enumerates contiguous runs of length five or more, one card
// per rank, with the Phoenix filling at most one missing rank. With
// bombsOnly set, only same-suit natural runs are returned.
func findStraights(hand []domain.Card, bombsOnly bool) [][]domain.Card {
	byRank := make(map[int][]domain.Card)
	for _, c := range hand {
		if c.Name == domain.NamePhoenix || c.Name == domain.NameDog || c.Name == domain.NameDragon {
			continue
		}
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}
	phoenix, hasPhoenix := phoenixOf(hand)

	var out [][]domain.Card
	for lo := domain.RankMahJong; lo <= 14; lo++ {
		for hi := lo + 4; hi <= 14; hi++ {
			if bombsOnly {
				out = append(out, suitedRuns(byRank, lo, hi)...)
				continue
			}

			missing := 0
			run := make([]domain.Card, 0, hi-lo+1)
			ok := true
			for rank := lo; rank <= hi; rank++ {
				cards := byRank[rank]
				if len(cards) == 0 {
					missing++
					if missing > 1 || !hasPhoenix || rank == domain.RankMahJong {
						ok = false
						break
					}
					run = append(run, phoenix)
					continue
				}
				run = append(run, cards[0])
			}
			if ok {
				out = append(out, breakSuitUniformity(run, byRank))
			}
		}
	}
	return out
}

// breakSuitUniformity swaps one card of an accidentally same-suit run for
// an off-suit duplicate of the same rank when the hand offers one, so the
// plain straight is not silently promoted to a bomb. Runs that cannot be
// de-suited are returned unchanged; suitedRuns still offers them as bombs.
func breakSuitUniformity(run []domain.Card, byRank map[int][]domain.Card) []domain.Card {
	suit := run[0].Suit
	for _, c := range run[1:] {
		if c.Suit != suit {
			return run
		}
	}
	for i, c := range run {
		for _, alt := range byRank[c.Rank] {
			if alt.Suit != suit {
				swapped := append([]domain.Card{}, run...)
				swapped[i] = alt
				return swapped
			}
		}
	}
	return run
}

// suitedRuns returns the natural same-suit runs covering ranks lo..hi.
func suitedRuns(byRank map[int][]domain.Card, lo, hi int) [][]domain.Card {
	var out [][]domain.Card
	for _, suit := range domain.Suits {
		run := make([]domain.Card, 0, hi-lo+1)
		ok := true
		for rank := lo; rank <= hi; rank++ {
			var match *domain.Card
			for i := range byRank[rank] {
				if byRank[rank][i].Suit == suit {
					match = &byRank[rank][i]
					break
				}
			}
			if match == nil {
				ok = false
				break
			}
			run = append(run, *match)
		}
		if ok {
			out = append(out, run)
		}
	}
	return out
}
