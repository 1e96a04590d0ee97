package bot

import (
	"tichu/internal/domain"
)

// StandardBrain is the baseline strategy: decline Grand Tichu, shed low
// cards in passing, play the cheapest legal combo and hold bombs unless
// configured to spend them.
type StandardBrain struct {
	// UseBombs allows the brain to answer a trick with a bomb when it has
	// no same-type response.
	UseBombs bool
}

func (b *StandardBrain) DeclareGrandTichu(m *domain.Match, seat int) bool {
	return false
}

// ChoosePass gives the two lowest cards to the opponents and the highest of
// the three throwaways to the partner.
func (b *StandardBrain) ChoosePass(m *domain.Match, seat int) map[int]domain.CardRef {
	hand := append([]domain.Card{}, m.Players[seat].Hand...)
	domain.SortHand(hand)
	if len(hand) < domain.NumSeats-1 {
		return nil
	}

	partner := domain.PartnerSeat(seat)
	left := (seat + 1) % domain.NumSeats
	right := (seat + 3) % domain.NumSeats

	return map[int]domain.CardRef{
		left:    hand[0].Ref(),
		right:   hand[1].Ref(),
		partner: hand[2].Ref(),
	}
}

// PlayTurn plays the lowest legal combo. On a lead the cheapest single goes
// out; on a trick the brain answers in type, spending bombs only when
// configured to. An outstanding wish the seat can satisfy narrows the
// choice to wish-satisfying moves; when the wished rank is in hand but no
// legal move carries it, the brain passes, the only action the engine
// accepts in that bind.
func (b *StandardBrain) PlayTurn(m *domain.Match, seat int) Move {
	r := m.Round
	hand := m.Players[seat].Hand

	var prev *domain.Combo
	if top := r.Trick.Top(); top != nil {
		prev = &top.Combo
	}

	moves := GetValidMoves(hand, prev)
	if r.Wish != "" && domain.ContainsName(hand, r.Wish) {
		wished := movesWithName(moves, r.Wish)
		if len(wished) == 0 && prev != nil {
			// The wish binds every play while the rank is in hand, and no
			// legal move carries it. Only a pass is accepted here.
			return Move{Pass: true}
		}
		if len(wished) > 0 {
			moves = wished
		}
	}

	for _, move := range moves {
		if move.Combo.Type.IsBomb() && !b.UseBombs && prev != nil && !prev.Type.IsBomb() {
			continue
		}
		if prev == nil && move.Combo.Type != domain.ComboSingle && len(hand) > move.Combo.Size {
			// Lead with the cheapest single unless a bigger combo empties
			// the hand.
			continue
		}
		return Move{Cards: refsOf(move.Cards)}
	}

	if prev == nil && len(moves) > 0 {
		// A leader may not pass; fall back to the cheapest move.
		return Move{Cards: refsOf(moves[0].Cards)}
	}
	return Move{Pass: true}
}

// ChooseWish wishes the lowest standard rank missing from the hand, which
// can never bind the brain's own later plays.
func (b *StandardBrain) ChooseWish(m *domain.Match, seat int) string {
	hand := m.Players[seat].Hand
	for rank := 2; rank <= 14; rank++ {
		name := domain.StandardName(rank)
		if !domain.ContainsName(hand, name) {
			return name
		}
	}
	return ""
}

// ChooseDragonRecipient gifts the trick to the candidate holding the most
// cards, the opponent least likely to cash it quickly.
func (b *StandardBrain) ChooseDragonRecipient(m *domain.Match, seat int, candidates []int) int {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(m.Players[c].Hand) > len(m.Players[best].Hand) {
			best = c
		}
	}
	return best
}

func movesWithName(moves []ValidMove, name string) []ValidMove {
	var out []ValidMove
	for _, move := range moves {
		if domain.ContainsName(move.Cards, name) {
			out = append(out, move)
		}
	}
	return out
}

func refsOf(cards []domain.Card) []domain.CardRef {
	refs := make([]domain.CardRef, len(cards))
	for i, c := range cards {
		refs[i] = c.Ref()
	}
	return refs
}
