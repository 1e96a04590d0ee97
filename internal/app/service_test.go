package app

import (
	"errors"
	"math/rand"
	"testing"

	"tichu/internal/domain"
)

var fullDeck = domain.NewDeck()

func pick(t *testing.T, name string, suit domain.Suit) domain.Card {
	t.Helper()
	for _, c := range fullDeck {
		if c.Name == name && c.Suit == suit {
			return c
		}
	}
	t.Fatalf("no card %s of %s in deck", name, suit)
	return domain.Card{}
}

func special(t *testing.T, name string) domain.Card {
	return pick(t, name, "")
}

func refsOf(cards ...domain.Card) []domain.CardRef {
	refs := make([]domain.CardRef, len(cards))
	for i, c := range cards {
		refs[i] = c.Ref()
	}
	return refs
}

func newTestService() *Service {
	return NewService(rand.New(rand.NewSource(1)))
}

func newTestMatch() *domain.Match {
	return domain.NewMatch([domain.NumSeats]string{"u0", "u1", "u2", "u3"}, 1000)
}

// playReady returns a match mid-round with the given hands and seat 0 to
// lead, skipping the deal and passing phases.
func playReady(hands [domain.NumSeats][]domain.Card) *domain.Match {
	m := newTestMatch()
	m.RoundNumber = 1
	m.Round = domain.NewRound()
	m.Round.Phase = domain.PhasePlay
	m.Round.TurnSeat = 0
	for seat, hand := range hands {
		m.Players[seat].Hand = append([]domain.Card{}, hand...)
	}
	return m
}

func findEvent(events []Event, kind EventKind) (Event, bool) {
	for _, ev := range events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return Event{}, false
}

func TestStartRoundDealsEightToEachSeat(t *testing.T) {
	s := newTestService()
	m := newTestMatch()

	events, err := s.StartRound(m)
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if m.Round.Phase != domain.PhaseGrandTichu {
		t.Fatalf("phase = %v, want grand tichu", m.Round.Phase)
	}
	for seat, p := range m.Players {
		if len(p.Hand) != 8 {
			t.Fatalf("seat %d hand size = %d, want 8", seat, len(p.Hand))
		}
	}
	if len(m.Round.Deck) != domain.DeckSize-4*8 {
		t.Fatalf("undealt remainder = %d, want 24", len(m.Round.Deck))
	}

	if _, ok := findEvent(events, EventRoundStarted); !ok {
		t.Fatalf("missing round started event")
	}
	targeted := 0
	for _, ev := range events {
		if ev.Kind == EventHandUpdated {
			if len(ev.Recipients) != 1 {
				t.Fatalf("hand snapshot must target exactly one user, got %v", ev.Recipients)
			}
			targeted++
		}
	}
	if targeted != domain.NumSeats {
		t.Fatalf("hand snapshots = %d, want %d", targeted, domain.NumSeats)
	}

	if _, err := s.StartRound(m); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("second StartRound err = %v, want ErrWrongPhase", err)
	}
}

func TestGrandTichuCollectionDealsRemainder(t *testing.T) {
	s := newTestService()
	m := newTestMatch()
	if _, err := s.StartRound(m); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	// A repeated answer overwrites, it must not advance the phase alone.
	for _, declare := range []bool{true, false} {
		if _, err := s.DeclareGrandTichu(m, "u0", declare); err != nil {
			t.Fatalf("DeclareGrandTichu: %v", err)
		}
	}
	if got := m.Players[0].GrandTichu; got == nil || *got {
		t.Fatalf("overwritten declaration = %v, want false", got)
	}
	if m.Round.Phase != domain.PhaseGrandTichu {
		t.Fatalf("phase advanced with one answer in")
	}

	for _, id := range []string{"u1", "u2"} {
		if _, err := s.DeclareGrandTichu(m, id, false); err != nil {
			t.Fatalf("DeclareGrandTichu: %v", err)
		}
	}
	events, err := s.DeclareGrandTichu(m, "u3", true)
	if err != nil {
		t.Fatalf("DeclareGrandTichu: %v", err)
	}

	if m.Round.Phase != domain.PhasePassing {
		t.Fatalf("phase = %v, want passing", m.Round.Phase)
	}
	for seat, p := range m.Players {
		if len(p.Hand) != 14 {
			t.Fatalf("seat %d hand size = %d, want 14", seat, len(p.Hand))
		}
	}
	if _, ok := findEvent(events, EventPassingStarted); !ok {
		t.Fatalf("missing passing started event")
	}

	if _, err := s.DeclareGrandTichu(m, "u0", true); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("late declaration err = %v, want ErrWrongPhase", err)
	}
}

func TestSubmitPassAssignmentAppliesAtomically(t *testing.T) {
	s := newTestService()
	m := newTestMatch()
	if _, err := s.StartRound(m); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	for _, id := range []string{"u0", "u1", "u2", "u3"} {
		if _, err := s.DeclareGrandTichu(m, id, false); err != nil {
			t.Fatalf("DeclareGrandTichu: %v", err)
		}
	}

	// Each seat gives its first three cards to the other seats in order.
	given := make(map[int]map[int]domain.Card)
	var events []Event
	for seat, p := range m.Players {
		assignment := make(map[int]domain.CardRef)
		given[seat] = make(map[int]domain.Card)
		i := 0
		for other := 0; other < domain.NumSeats; other++ {
			if other == seat {
				continue
			}
			assignment[other] = p.Hand[i].Ref()
			given[seat][other] = p.Hand[i]
			i++
		}
		var err error
		events, err = s.SubmitPassAssignment(m, p.UserID, assignment)
		if err != nil {
			t.Fatalf("seat %d submit: %v", seat, err)
		}
		if seat < domain.NumSeats-1 && m.Round.Phase != domain.PhasePassing {
			t.Fatalf("exchange applied before all submissions were in")
		}
	}

	if m.Round.Phase != domain.PhasePlay {
		t.Fatalf("phase = %v, want play", m.Round.Phase)
	}
	for seat, p := range m.Players {
		if len(p.Hand) != 14 {
			t.Fatalf("seat %d hand size = %d after exchange, want 14", seat, len(p.Hand))
		}
		for giver := 0; giver < domain.NumSeats; giver++ {
			if giver == seat {
				continue
			}
			c := given[giver][seat]
			found := false
			for _, hc := range p.Hand {
				if hc == c {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("card %s from seat %d never reached seat %d", c.ID(), giver, seat)
			}
		}
	}

	leader := m.Round.TurnSeat
	if !domain.ContainsName(m.Players[leader].Hand, domain.NameMahJong) {
		t.Fatalf("seat %d leads without the Mah Jong", leader)
	}
	ev, ok := findEvent(events, EventPassingCompleted)
	if !ok {
		t.Fatalf("missing passing completed event")
	}
	if got := ev.Payload.(PassingCompletedPayload).LeaderSeat; got != leader {
		t.Fatalf("announced leader = %d, want %d", got, leader)
	}
}

func TestSubmitPassAssignmentRejectsBadInput(t *testing.T) {
	s := newTestService()
	m := newTestMatch()
	if _, err := s.StartRound(m); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	for _, id := range []string{"u0", "u1", "u2", "u3"} {
		if _, err := s.DeclareGrandTichu(m, id, false); err != nil {
			t.Fatalf("DeclareGrandTichu: %v", err)
		}
	}
	hand := m.Players[0].Hand

	tests := []struct {
		name       string
		assignment map[int]domain.CardRef
	}{
		{
			name:       "TooFewCards",
			assignment: map[int]domain.CardRef{1: hand[0].Ref(), 2: hand[1].Ref()},
		},
		{
			name: "CardGivenToSelf",
			assignment: map[int]domain.CardRef{
				0: hand[0].Ref(), 1: hand[1].Ref(), 2: hand[2].Ref(),
			},
		},
		{
			name: "SameCardTwice",
			assignment: map[int]domain.CardRef{
				1: hand[0].Ref(), 2: hand[0].Ref(), 3: hand[1].Ref(),
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if _, err := s.SubmitPassAssignment(m, "u0", test.assignment); !errors.Is(err, ErrBadPassAssignment) {
				t.Fatalf("err = %v, want ErrBadPassAssignment", err)
			}
			if m.Round.PassSubmissions[0] != nil {
				t.Fatalf("rejected assignment was buffered")
			}
		})
	}
}

func TestPlayCardsValidation(t *testing.T) {
	s := newTestService()

	tests := []struct {
		name    string
		prepare func(t *testing.T, m *domain.Match)
		actor   string
		cards   func(t *testing.T) []domain.Card
		wantErr error
	}{
		{
			name:    "UnknownPlayer",
			actor:   "stranger",
			cards:   func(t *testing.T) []domain.Card { return []domain.Card{pick(t, "2", domain.SuitSpades)} },
			wantErr: ErrUnknownPlayer,
		},
		{
			name:    "OutOfTurn",
			actor:   "u1",
			cards:   func(t *testing.T) []domain.Card { return []domain.Card{pick(t, "3", domain.SuitSpades)} },
			wantErr: ErrNotYourTurn,
		},
		{
			name:    "CardNotHeld",
			actor:   "u0",
			cards:   func(t *testing.T) []domain.Card { return []domain.Card{pick(t, "A", domain.SuitClubs)} },
			wantErr: ErrInvalidCombo,
		},
		{
			name:  "InvalidShape",
			actor: "u0",
			cards: func(t *testing.T) []domain.Card {
				return []domain.Card{pick(t, "2", domain.SuitSpades), pick(t, "3", domain.SuitHearts)}
			},
			wantErr: ErrInvalidCombo,
		},
		{
			name: "CannotBeatTrick",
			prepare: func(t *testing.T, m *domain.Match) {
				m.Round.Trick.Add(3, domain.IdentifyCombo([]domain.Card{pick(t, "K", domain.SuitClubs)}, nil))
			},
			actor:   "u0",
			cards:   func(t *testing.T) []domain.Card { return []domain.Card{pick(t, "2", domain.SuitSpades)} },
			wantErr: ErrCannotBeat,
		},
		{
			name: "WishMustBeHonored",
			prepare: func(t *testing.T, m *domain.Match) {
				m.Round.Wish = "J"
			},
			actor:   "u0",
			cards:   func(t *testing.T) []domain.Card { return []domain.Card{pick(t, "2", domain.SuitSpades)} },
			wantErr: ErrWishUnsatisfied,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			m := playReady([domain.NumSeats][]domain.Card{
				{pick(t, "2", domain.SuitSpades), pick(t, "J", domain.SuitSpades)},
				{pick(t, "3", domain.SuitSpades)},
				{pick(t, "4", domain.SuitSpades)},
				{pick(t, "K", domain.SuitClubs)},
			})
			if test.prepare != nil {
				test.prepare(t, m)
			}
			handBefore := len(m.Players[0].Hand)
			_, err := s.PlayCards(m, test.actor, refsOf(test.cards(t)...))
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("err = %v, want %v", err, test.wantErr)
			}
			if len(m.Players[0].Hand) != handBefore {
				t.Fatalf("rejected play mutated the hand")
			}
		})
	}
}

func TestTrickClosesAfterThreePasses(t *testing.T) {
	s := newTestService()
	m := playReady([domain.NumSeats][]domain.Card{
		{pick(t, "5", domain.SuitSpades), pick(t, "2", domain.SuitSpades)},
		{pick(t, "6", domain.SuitSpades)},
		{pick(t, "7", domain.SuitSpades)},
		{pick(t, "8", domain.SuitSpades)},
	})

	if _, err := s.PlayCards(m, "u0", refsOf(pick(t, "5", domain.SuitSpades))); err != nil {
		t.Fatalf("lead: %v", err)
	}
	if _, err := s.PassTurn(m, "u1"); err != nil {
		t.Fatalf("pass u1: %v", err)
	}
	if _, err := s.PassTurn(m, "u2"); err != nil {
		t.Fatalf("pass u2: %v", err)
	}
	events, err := s.PassTurn(m, "u3")
	if err != nil {
		t.Fatalf("pass u3: %v", err)
	}

	ev, ok := findEvent(events, EventTrickWon)
	if !ok {
		t.Fatalf("trick did not close after three passes")
	}
	won := ev.Payload.(TrickWonPayload)
	if won.WinnerSeat != 0 || won.Points != 5 {
		t.Fatalf("trick won = %+v, want winner 0 with 5 points", won)
	}
	if m.Round.TurnSeat != 0 {
		t.Fatalf("turn = %d after trick close, want winner 0", m.Round.TurnSeat)
	}
	if !m.Round.Trick.Empty() || m.Round.PassCount != 0 {
		t.Fatalf("trick state not reset after close")
	}
	if got := domain.CardPoints(m.Players[0].TricksWon); got != 5 {
		t.Fatalf("winner pile points = %d, want 5", got)
	}
}

func TestPassThresholdShrinksWithFinishedPlayers(t *testing.T) {
	s := newTestService()
	m := playReady([domain.NumSeats][]domain.Card{
		{pick(t, "5", domain.SuitSpades), pick(t, "2", domain.SuitSpades)},
		{pick(t, "6", domain.SuitSpades)},
		{},
		{pick(t, "8", domain.SuitSpades)},
	})
	m.Players[2].Finished = true
	m.Round.FinishOrder = []int{2}

	if _, err := s.PlayCards(m, "u0", refsOf(pick(t, "5", domain.SuitSpades))); err != nil {
		t.Fatalf("lead: %v", err)
	}
	if _, err := s.PassTurn(m, "u1"); err != nil {
		t.Fatalf("pass u1: %v", err)
	}
	events, err := s.PassTurn(m, "u3")
	if err != nil {
		t.Fatalf("pass u3: %v", err)
	}
	if _, ok := findEvent(events, EventTrickWon); !ok {
		t.Fatalf("trick must close after two passes with one seat finished")
	}
}

func TestLeaderMustPlay(t *testing.T) {
	s := newTestService()
	m := playReady([domain.NumSeats][]domain.Card{
		{pick(t, "5", domain.SuitSpades)},
		{pick(t, "6", domain.SuitSpades)},
		{pick(t, "7", domain.SuitSpades)},
		{pick(t, "8", domain.SuitSpades)},
	})
	if _, err := s.PassTurn(m, "u0"); !errors.Is(err, ErrTrickEmpty) {
		t.Fatalf("lead pass err = %v, want ErrTrickEmpty", err)
	}
}

func TestDogSendsLeadToPartner(t *testing.T) {
	s := newTestService()
	m := playReady([domain.NumSeats][]domain.Card{
		{special(t, domain.NameDog), pick(t, "5", domain.SuitSpades)},
		{pick(t, "6", domain.SuitSpades)},
		{pick(t, "7", domain.SuitSpades)},
		{pick(t, "8", domain.SuitSpades)},
	})

	events, err := s.PlayCards(m, "u0", refsOf(special(t, domain.NameDog)))
	if err != nil {
		t.Fatalf("dog lead: %v", err)
	}
	if m.Round.TurnSeat != 2 {
		t.Fatalf("turn = %d after dog, want partner seat 2", m.Round.TurnSeat)
	}
	if !m.Round.Trick.Empty() {
		t.Fatalf("dog must not stay on the trick")
	}
	if _, ok := findEvent(events, EventTrickWon); !ok {
		t.Fatalf("dog must win the trick immediately")
	}
}

func TestDogSkipsFinishedPartner(t *testing.T) {
	s := newTestService()
	m := playReady([domain.NumSeats][]domain.Card{
		{special(t, domain.NameDog), pick(t, "5", domain.SuitSpades)},
		{pick(t, "6", domain.SuitSpades)},
		{},
		{pick(t, "8", domain.SuitSpades)},
	})
	m.Players[2].Finished = true
	m.Round.FinishOrder = []int{2}

	if _, err := s.PlayCards(m, "u0", refsOf(special(t, domain.NameDog))); err != nil {
		t.Fatalf("dog lead: %v", err)
	}
	if m.Round.TurnSeat != 3 {
		t.Fatalf("turn = %d, want next active seat 3 past finished partner", m.Round.TurnSeat)
	}
}

func TestDogCannotFollow(t *testing.T) {
	s := newTestService()
	m := playReady([domain.NumSeats][]domain.Card{
		{pick(t, "5", domain.SuitSpades)},
		{special(t, domain.NameDog), pick(t, "6", domain.SuitSpades)},
		{pick(t, "7", domain.SuitSpades)},
		{pick(t, "8", domain.SuitSpades)},
	})
	if _, err := s.PlayCards(m, "u0", refsOf(pick(t, "5", domain.SuitSpades))); err != nil {
		t.Fatalf("lead: %v", err)
	}
	if _, err := s.PlayCards(m, "u1", refsOf(special(t, domain.NameDog))); !errors.Is(err, ErrCannotBeat) {
		t.Fatalf("dog follow err = %v, want ErrCannotBeat", err)
	}
}

func TestMahJongWishFlow(t *testing.T) {
	s := newTestService()
	m := playReady([domain.NumSeats][]domain.Card{
		{special(t, domain.NameMahJong), pick(t, "5", domain.SuitSpades)},
		{pick(t, "K", domain.SuitSpades), pick(t, "3", domain.SuitSpades)},
		{pick(t, "7", domain.SuitSpades)},
		{pick(t, "8", domain.SuitSpades)},
	})

	events, err := s.PlayCards(m, "u0", refsOf(special(t, domain.NameMahJong)))
	if err != nil {
		t.Fatalf("mah jong lead: %v", err)
	}
	if _, ok := findEvent(events, EventWishRequested); !ok {
		t.Fatalf("missing wish request after mah jong play")
	}

	// Only the Mah Jong player may wish, and only for a standard rank.
	if _, err := s.SetWish(m, "u1", "K"); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("foreign wish err = %v, want ErrNotYourTurn", err)
	}
	if _, err := s.SetWish(m, "u0", domain.NameDragon); !errors.Is(err, ErrInvalidWishRank) {
		t.Fatalf("special wish err = %v, want ErrInvalidWishRank", err)
	}
	if _, err := s.SetWish(m, "u0", "K"); err != nil {
		t.Fatalf("SetWish: %v", err)
	}
	if _, err := s.SetWish(m, "u0", "K"); !errors.Is(err, ErrNoWishPending) {
		t.Fatalf("repeated wish err = %v, want ErrNoWishPending", err)
	}

	// Seat 1 holds the wished K: playing around it is rejected, playing it
	// clears the wish.
	if _, err := s.PlayCards(m, "u1", refsOf(pick(t, "3", domain.SuitSpades))); !errors.Is(err, ErrWishUnsatisfied) {
		t.Fatalf("wish dodge err = %v, want ErrWishUnsatisfied", err)
	}
	events, err = s.PlayCards(m, "u1", refsOf(pick(t, "K", domain.SuitSpades)))
	if err != nil {
		t.Fatalf("wished play: %v", err)
	}
	if m.Round.Wish != "" {
		t.Fatalf("wish not cleared after the wished rank was played")
	}
	ev, _ := findEvent(events, EventCardPlayed)
	if !ev.Payload.(CardPlayedPayload).WishCleared {
		t.Fatalf("play event must announce the cleared wish")
	}

	// Seat 2 holds no K, the stale wish must not bind them.
	if _, err := s.PlayCards(m, "u2", refsOf(pick(t, "7", domain.SuitSpades))); !errors.Is(err, ErrCannotBeat) {
		t.Fatalf("err = %v, want plain ErrCannotBeat once wish is cleared", err)
	}
}

func TestDragonTrickMustBeGifted(t *testing.T) {
	s := newTestService()
	m := playReady([domain.NumSeats][]domain.Card{
		{special(t, domain.NameDragon), pick(t, "5", domain.SuitSpades)},
		{pick(t, "6", domain.SuitSpades)},
		{pick(t, "7", domain.SuitSpades)},
		{pick(t, "8", domain.SuitSpades)},
	})

	if _, err := s.PlayCards(m, "u0", refsOf(special(t, domain.NameDragon))); err != nil {
		t.Fatalf("dragon lead: %v", err)
	}
	for _, id := range []string{"u1", "u2", "u3"} {
		if _, err := s.PassTurn(m, id); err != nil {
			t.Fatalf("pass %s: %v", id, err)
		}
	}

	choice := m.Round.DragonChoice
	if choice == nil || choice.WinnerSeat != 0 {
		t.Fatalf("dragon choice = %+v, want pending for seat 0", choice)
	}

	// The table is frozen until the gift resolves.
	if _, err := s.PlayCards(m, "u0", refsOf(pick(t, "5", domain.SuitSpades))); !errors.Is(err, ErrDragonChoicePending) {
		t.Fatalf("play during choice err = %v, want ErrDragonChoicePending", err)
	}
	if _, err := s.ChooseDragonRecipient(m, "u1", 0); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("foreign choice err = %v, want ErrNotYourTurn", err)
	}
	if _, err := s.ChooseDragonRecipient(m, "u0", 2); !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("partner gift err = %v, want ErrInvalidRecipient", err)
	}

	events, err := s.ChooseDragonRecipient(m, "u0", 3)
	if err != nil {
		t.Fatalf("ChooseDragonRecipient: %v", err)
	}
	ev, ok := findEvent(events, EventDragonGifted)
	if !ok {
		t.Fatalf("missing dragon gifted event")
	}
	gift := ev.Payload.(DragonGiftedPayload)
	if gift.RecipientSeat != 3 || gift.Points != 25 {
		t.Fatalf("gift = %+v, want 25 points to seat 3", gift)
	}
	if got := domain.CardPoints(m.Players[3].TricksWon); got != 25 {
		t.Fatalf("recipient pile points = %d, want 25", got)
	}
	if m.Round.DragonChoice != nil || m.Round.TurnSeat != 0 {
		t.Fatalf("winner must lead after the gift resolves")
	}
}

func TestDoubleFinishEndsRoundImmediately(t *testing.T) {
	s := newTestService()
	m := playReady([domain.NumSeats][]domain.Card{
		{pick(t, "5", domain.SuitSpades)},
		{pick(t, "6", domain.SuitSpades), pick(t, "2", domain.SuitHearts)},
		{pick(t, "7", domain.SuitSpades)},
		{pick(t, "8", domain.SuitSpades), pick(t, "3", domain.SuitHearts)},
	})

	if _, err := s.PlayCards(m, "u0", refsOf(pick(t, "5", domain.SuitSpades))); err != nil {
		t.Fatalf("seat 0 final play: %v", err)
	}
	if _, err := s.PlayCards(m, "u1", refsOf(pick(t, "6", domain.SuitSpades))); err != nil {
		t.Fatalf("seat 1 play: %v", err)
	}
	events, err := s.PlayCards(m, "u2", refsOf(pick(t, "7", domain.SuitSpades)))
	if err != nil {
		t.Fatalf("seat 2 final play: %v", err)
	}

	if !m.Round.DoubleFinish {
		t.Fatalf("seats 0 and 2 finishing first must flag a double finish")
	}
	ev, ok := findEvent(events, EventRoundSettled)
	if !ok {
		t.Fatalf("double finish must settle the round")
	}
	settled := ev.Payload.(RoundSettledPayload)
	if !settled.DoubleFinish || settled.Points[domain.TeamA] != 200 || settled.Points[domain.TeamB] != 0 {
		t.Fatalf("settlement = %+v, want flat 200 for team A", settled)
	}
	if m.Round.Phase != domain.PhaseSettled {
		t.Fatalf("phase = %v, want settled", m.Round.Phase)
	}
}

func TestRoundSettlesWhenThirdPlayerFinishes(t *testing.T) {
	s := newTestService()
	m := playReady([domain.NumSeats][]domain.Card{
		{pick(t, "2", domain.SuitSpades)},
		{pick(t, "3", domain.SuitSpades)},
		{pick(t, "4", domain.SuitSpades)},
		{pick(t, "5", domain.SuitHearts)},
	})

	if _, err := s.PlayCards(m, "u0", refsOf(pick(t, "2", domain.SuitSpades))); err != nil {
		t.Fatalf("seat 0 play: %v", err)
	}
	if _, err := s.PlayCards(m, "u1", refsOf(pick(t, "3", domain.SuitSpades))); err != nil {
		t.Fatalf("seat 1 play: %v", err)
	}
	events, err := s.PlayCards(m, "u2", refsOf(pick(t, "4", domain.SuitSpades)))
	if err != nil {
		t.Fatalf("seat 2 play: %v", err)
	}

	ev, ok := findEvent(events, EventRoundSettled)
	if !ok {
		t.Fatalf("round must settle once three seats finish")
	}
	settled := ev.Payload.(RoundSettledPayload)

	// The open trick goes to seat 2 as the last aggressor. Seat 3 is left
	// behind: their 5 of hearts transfers to first finisher seat 0's team.
	if got := len(m.Players[2].TricksWon); got != 3 {
		t.Fatalf("aggressor pile size = %d, want the 3 open trick cards", got)
	}
	if settled.Points[domain.TeamA] != 5 || settled.Points[domain.TeamB] != 0 {
		t.Fatalf("settlement points = %+v, want 5/0", settled.Points)
	}
	if want := []int{0, 1, 2}; len(settled.FinishOrder) != 3 ||
		settled.FinishOrder[0] != want[0] || settled.FinishOrder[1] != want[1] || settled.FinishOrder[2] != want[2] {
		t.Fatalf("finish order = %v, want %v", settled.FinishOrder, want)
	}
}

func TestDeclareTichuWindow(t *testing.T) {
	s := newTestService()
	m := playReady([domain.NumSeats][]domain.Card{
		{pick(t, "5", domain.SuitSpades), pick(t, "2", domain.SuitSpades)},
		{pick(t, "6", domain.SuitSpades)},
		{pick(t, "7", domain.SuitSpades)},
		{pick(t, "8", domain.SuitSpades)},
	})

	if _, err := s.DeclareTichu(m, "u1"); err != nil {
		t.Fatalf("DeclareTichu: %v", err)
	}
	if _, err := s.DeclareTichu(m, "u1"); !errors.Is(err, ErrAlreadyDeclared) {
		t.Fatalf("repeat call err = %v, want ErrAlreadyDeclared", err)
	}

	yes := true
	m.Players[2].GrandTichu = &yes
	if _, err := s.DeclareTichu(m, "u2"); !errors.Is(err, ErrAlreadyDeclared) {
		t.Fatalf("tichu over grand tichu err = %v, want ErrAlreadyDeclared", err)
	}

	if _, err := s.PlayCards(m, "u0", refsOf(pick(t, "5", domain.SuitSpades))); err != nil {
		t.Fatalf("lead: %v", err)
	}
	if _, err := s.DeclareTichu(m, "u0"); !errors.Is(err, ErrTichuWindowClosed) {
		t.Fatalf("post-play call err = %v, want ErrTichuWindowClosed", err)
	}
}

func TestMatchEndsAtTargetScore(t *testing.T) {
	s := newTestService()
	m := playReady([domain.NumSeats][]domain.Card{
		{pick(t, "5", domain.SuitSpades)},
		{pick(t, "6", domain.SuitSpades), pick(t, "2", domain.SuitHearts)},
		{pick(t, "7", domain.SuitSpades)},
		{pick(t, "8", domain.SuitSpades), pick(t, "3", domain.SuitHearts)},
	})
	m.Scores[domain.TeamA] = 900

	if _, err := s.PlayCards(m, "u0", refsOf(pick(t, "5", domain.SuitSpades))); err != nil {
		t.Fatalf("seat 0 play: %v", err)
	}
	if _, err := s.PlayCards(m, "u1", refsOf(pick(t, "6", domain.SuitSpades))); err != nil {
		t.Fatalf("seat 1 play: %v", err)
	}
	events, err := s.PlayCards(m, "u2", refsOf(pick(t, "7", domain.SuitSpades)))
	if err != nil {
		t.Fatalf("seat 2 play: %v", err)
	}

	ev, ok := findEvent(events, EventMatchEnded)
	if !ok {
		t.Fatalf("match must end once a team clears the target with a lead")
	}
	ended := ev.Payload.(MatchEndedPayload)
	if ended.Winner != domain.TeamA || ended.Totals[domain.TeamA] != 1100 {
		t.Fatalf("match end = %+v, want team A at 1100", ended)
	}
}
