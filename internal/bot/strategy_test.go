package bot

import (
	"testing"

	"tichu/internal/domain"
)

func playMatch(t *testing.T, hands [domain.NumSeats][]domain.Card) *domain.Match {
	t.Helper()
	m := domain.NewMatch([domain.NumSeats]string{"u0", "u1", "u2", "u3"}, 1000)
	m.Round = domain.NewRound()
	m.Round.Phase = domain.PhasePlay
	m.Round.TurnSeat = 0
	for seat, hand := range hands {
		m.Players[seat].Hand = append([]domain.Card{}, hand...)
	}
	return m
}

func TestStandardBrainLeadsCheapestSingle(t *testing.T) {
	brain := &StandardBrain{}
	m := playMatch(t, [domain.NumSeats][]domain.Card{
		{card(t, "J", domain.SuitSpades), card(t, "3", domain.SuitSpades), card(t, "7", domain.SuitHearts)},
		{card(t, "4", domain.SuitSpades)},
		{card(t, "5", domain.SuitSpades)},
		{card(t, "6", domain.SuitSpades)},
	})

	move := brain.PlayTurn(m, 0)
	if move.Pass {
		t.Fatalf("leader must not pass")
	}
	if len(move.Cards) != 1 || move.Cards[0].Name != "3" {
		t.Fatalf("lead = %v, want the lowest single 3", move.Cards)
	}
}

func TestStandardBrainAnswersInType(t *testing.T) {
	brain := &StandardBrain{}
	m := playMatch(t, [domain.NumSeats][]domain.Card{
		{card(t, "8", domain.SuitSpades)},
		{card(t, "6", domain.SuitSpades), card(t, "9", domain.SuitSpades), card(t, "K", domain.SuitSpades)},
		{card(t, "5", domain.SuitSpades)},
		{card(t, "7", domain.SuitSpades)},
	})
	m.Round.Trick.Add(0, domain.IdentifyCombo([]domain.Card{card(t, "8", domain.SuitSpades)}, nil))
	m.Round.TurnSeat = 1

	move := brain.PlayTurn(m, 1)
	if move.Pass {
		t.Fatalf("brain must answer with a beating single")
	}
	if move.Cards[0].Name != "9" {
		t.Fatalf("answer = %v, want the cheapest beating single 9", move.Cards)
	}
}

func TestStandardBrainPassesWhenBeaten(t *testing.T) {
	brain := &StandardBrain{}
	m := playMatch(t, [domain.NumSeats][]domain.Card{
		{card(t, "A", domain.SuitSpades)},
		{card(t, "2", domain.SuitSpades), card(t, "3", domain.SuitSpades)},
		{card(t, "5", domain.SuitSpades)},
		{card(t, "7", domain.SuitSpades)},
	})
	m.Round.Trick.Add(0, domain.IdentifyCombo([]domain.Card{card(t, "A", domain.SuitSpades)}, nil))
	m.Round.TurnSeat = 1

	if move := brain.PlayTurn(m, 1); !move.Pass {
		t.Fatalf("brain played %v into a higher single, want pass", move.Cards)
	}
}

func TestStandardBrainHoldsBombsUnlessAllowed(t *testing.T) {
	hands := [domain.NumSeats][]domain.Card{
		{card(t, "A", domain.SuitSpades)},
		{
			card(t, "4", domain.SuitSpades), card(t, "4", domain.SuitHearts),
			card(t, "4", domain.SuitClubs), card(t, "4", domain.SuitDiamonds),
			card(t, "3", domain.SuitSpades),
		},
		{card(t, "5", domain.SuitSpades)},
		{card(t, "7", domain.SuitSpades)},
	}

	cautious := &StandardBrain{}
	m := playMatch(t, hands)
	m.Round.Trick.Add(0, domain.IdentifyCombo([]domain.Card{card(t, "A", domain.SuitSpades)}, nil))
	m.Round.TurnSeat = 1
	if move := cautious.PlayTurn(m, 1); !move.Pass {
		t.Fatalf("cautious brain must hold the bomb, played %v", move.Cards)
	}

	eager := &StandardBrain{UseBombs: true}
	m = playMatch(t, hands)
	m.Round.Trick.Add(0, domain.IdentifyCombo([]domain.Card{card(t, "A", domain.SuitSpades)}, nil))
	m.Round.TurnSeat = 1
	move := eager.PlayTurn(m, 1)
	if move.Pass || len(move.Cards) != 4 {
		t.Fatalf("eager brain move = %+v, want the quad bomb", move)
	}
}

func TestStandardBrainHonorsWish(t *testing.T) {
	brain := &StandardBrain{}
	m := playMatch(t, [domain.NumSeats][]domain.Card{
		{card(t, "5", domain.SuitSpades)},
		{card(t, "6", domain.SuitSpades), card(t, "K", domain.SuitSpades)},
		{card(t, "7", domain.SuitSpades)},
		{card(t, "8", domain.SuitSpades)},
	})
	m.Round.Trick.Add(0, domain.IdentifyCombo([]domain.Card{card(t, "5", domain.SuitSpades)}, nil))
	m.Round.TurnSeat = 1
	m.Round.Wish = "K"

	move := brain.PlayTurn(m, 1)
	if move.Pass || move.Cards[0].Name != "K" {
		t.Fatalf("move = %+v, want the wished K over the cheaper 6", move)
	}
}

func TestStandardBrainPassesWhenWishUnplayable(t *testing.T) {
	brain := &StandardBrain{}
	m := playMatch(t, [domain.NumSeats][]domain.Card{
		{card(t, "K", domain.SuitSpades), card(t, "K", domain.SuitHearts)},
		{
			card(t, "8", domain.SuitSpades),
			card(t, "A", domain.SuitHearts), card(t, "A", domain.SuitClubs),
		},
		{card(t, "5", domain.SuitSpades)},
		{card(t, "7", domain.SuitSpades)},
	})
	m.Round.Trick.Add(0, domain.IdentifyCombo([]domain.Card{
		card(t, "K", domain.SuitSpades), card(t, "K", domain.SuitHearts),
	}, nil))
	m.Round.TurnSeat = 1
	m.Round.Wish = "8"

	// The wished 8 is in hand but cannot be part of any pair beating the
	// Kings, so every play is blocked and only a pass goes through.
	move := brain.PlayTurn(m, 1)
	if !move.Pass {
		t.Fatalf("brain played %v under an unsatisfiable wish, want pass", move.Cards)
	}
}

func TestStandardBrainChoosePass(t *testing.T) {
	brain := &StandardBrain{}
	m := playMatch(t, [domain.NumSeats][]domain.Card{
		{
			card(t, "2", domain.SuitSpades), card(t, "3", domain.SuitSpades),
			card(t, "4", domain.SuitSpades), card(t, "A", domain.SuitSpades),
		},
		{}, {}, {},
	})
	m.Round.Phase = domain.PhasePassing

	assignment := brain.ChoosePass(m, 0)
	if len(assignment) != 3 {
		t.Fatalf("assignment size = %d, want 3", len(assignment))
	}
	if _, ok := assignment[0]; ok {
		t.Fatalf("brain assigned a card to its own seat")
	}
	if got := assignment[2].Name; got != "4" {
		t.Fatalf("partner card = %s, want the best throwaway 4", got)
	}
	for _, opponent := range []int{1, 3} {
		if name := assignment[opponent].Name; name != "2" && name != "3" {
			t.Fatalf("opponent %d got %s, want a bottom card", opponent, name)
		}
	}
}

func TestStandardBrainWishAvoidsOwnHand(t *testing.T) {
	brain := &StandardBrain{}
	m := playMatch(t, [domain.NumSeats][]domain.Card{
		{card(t, "2", domain.SuitSpades), card(t, "3", domain.SuitSpades)},
		{}, {}, {},
	})

	wish := brain.ChooseWish(m, 0)
	if wish != "4" {
		t.Fatalf("wish = %q, want the lowest rank missing from hand", wish)
	}
	if domain.ContainsName(m.Players[0].Hand, wish) {
		t.Fatalf("brain wished a rank it holds itself")
	}
}

func TestStandardBrainDragonGiftTargetsBiggestHand(t *testing.T) {
	brain := &StandardBrain{}
	m := playMatch(t, [domain.NumSeats][]domain.Card{
		{card(t, "5", domain.SuitSpades)},
		{card(t, "6", domain.SuitSpades)},
		{card(t, "7", domain.SuitSpades)},
		{card(t, "8", domain.SuitSpades), card(t, "9", domain.SuitSpades)},
	})

	if got := brain.ChooseDragonRecipient(m, 0, []int{1, 3}); got != 3 {
		t.Fatalf("recipient = %d, want seat 3 with the bigger hand", got)
	}
}

func TestAgentRequiresSeat(t *testing.T) {
	agent := &Agent{ID: "ghost", Strategy: &StandardBrain{}}
	m := playMatch(t, [domain.NumSeats][]domain.Card{{}, {}, {}, {}})

	if _, err := agent.PlayTurn(m); err == nil {
		t.Fatalf("expected error for unseated agent")
	}
}
