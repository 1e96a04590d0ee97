package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"tichu/internal/domain"
)

// Service contains the Tichu use-cases operating on domain state. Every
// method validates the acting player's intent, mutates the match on success
// and returns the events to dispatch. A rejected action returns a sentinel
// error and leaves the match exactly as it was.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrWrongPhase          = errors.New("action not valid in current phase")
	ErrUnknownPlayer       = errors.New("player not at table")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrPlayerFinished      = errors.New("player already finished")
	ErrInvalidCombo        = errors.New("cards do not form a playable combo")
	ErrCannotBeat          = errors.New("combo does not beat the trick")
	ErrWishUnsatisfied     = errors.New("outstanding wish must be honored")
	ErrTrickEmpty          = errors.New("trick leader must play")
	ErrAlreadyDeclared     = errors.New("declaration already made")
	ErrTichuWindowClosed   = errors.New("tichu window closed")
	ErrBadPassAssignment   = errors.New("invalid pass assignment")
	ErrNoWishPending       = errors.New("no wish pending")
	ErrInvalidWishRank     = errors.New("invalid wish rank")
	ErrDragonChoicePending = errors.New("dragon gift must be resolved first")
	ErrNoDragonChoice      = errors.New("no dragon gift pending")
	ErrInvalidRecipient    = errors.New("recipient not eligible for dragon gift")
)

const (
	firstDealSize  = 8
	secondDealSize = 6
	fullHandSize   = firstDealSize + secondDealSize
)

// StartRound deals the first eight cards of a fresh round and opens the
// Grand Tichu declarations. The previous round, if any, must be settled.
func (s *Service) StartRound(m *domain.Match) ([]Event, error) {
	if m.Round != nil && m.Round.Phase != domain.PhaseSettled {
		return nil, ErrWrongPhase
	}

	m.RoundNumber++
	m.Round = domain.NewRound()

	deck := domain.NewDeck()
	s.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	events := []Event{{
		Kind:    EventRoundStarted,
		Payload: RoundStartedPayload{RoundNumber: m.RoundNumber},
	}}

	for seat, p := range m.Players {
		p.ResetForRound()
		p.Hand = append([]domain.Card{}, deck[seat*firstDealSize:(seat+1)*firstDealSize]...)
		domain.SortHand(p.Hand)
	}
	m.Round.Deck = deck[domain.NumSeats*firstDealSize:]

	events = append(events, s.handSnapshots(m)...)
	return events, nil
}

// DeclareGrandTichu records a seat's Grand Tichu answer. Repeating the
// declaration overwrites the previous answer. Once all four seats have
// answered, the remaining six cards are dealt and passing begins.
func (s *Service) DeclareGrandTichu(m *domain.Match, userID string, declare bool) ([]Event, error) {
	p, err := s.actor(m, userID)
	if err != nil {
		return nil, err
	}
	if m.Round == nil || m.Round.Phase != domain.PhaseGrandTichu {
		return nil, ErrWrongPhase
	}

	answer := declare
	p.GrandTichu = &answer

	events := []Event{{
		Kind:    EventGrandTichu,
		Payload: GrandTichuPayload{Seat: p.Seat, Declared: declare},
	}}

	for _, pl := range m.Players {
		if pl.GrandTichu == nil {
			return events, nil
		}
	}

	// All four answered: complete the deal.
	deck := m.Round.Deck
	for seat, pl := range m.Players {
		pl.Hand = append(pl.Hand, deck[seat*secondDealSize:(seat+1)*secondDealSize]...)
		domain.SortHand(pl.Hand)
	}
	m.Round.Deck = nil
	m.Round.Phase = domain.PhasePassing

	events = append(events, Event{Kind: EventPassingStarted, Payload: struct{}{}})
	events = append(events, s.handSnapshots(m)...)
	return events, nil
}

// DeclareTichu records a plain Tichu call. The call is only open while the
// caller still holds a full untouched hand.
func (s *Service) DeclareTichu(m *domain.Match, userID string) ([]Event, error) {
	p, err := s.actor(m, userID)
	if err != nil {
		return nil, err
	}
	if m.Round == nil {
		return nil, ErrWrongPhase
	}
	switch m.Round.Phase {
	case domain.PhasePassing, domain.PhasePlay:
	default:
		return nil, ErrWrongPhase
	}
	if p.CalledTichu || (p.GrandTichu != nil && *p.GrandTichu) {
		return nil, ErrAlreadyDeclared
	}
	if p.PlayedThisRound || p.Finished {
		return nil, ErrTichuWindowClosed
	}

	p.CalledTichu = true
	return []Event{{
		Kind:    EventTichuCalled,
		Payload: TichuCalledPayload{Seat: p.Seat},
	}}, nil
}

// SubmitPassAssignment buffers one seat's three-card assignment, one card
// to each other seat. Resubmitting replaces the buffered assignment. Once
// all four seats have submitted, the exchanges apply atomically and play
// opens with the Mah Jong holder.
func (s *Service) SubmitPassAssignment(m *domain.Match, userID string, assignment map[int]domain.CardRef) ([]Event, error) {
	p, err := s.actor(m, userID)
	if err != nil {
		return nil, err
	}
	r := m.Round
	if r == nil || r.Phase != domain.PhasePassing {
		return nil, ErrWrongPhase
	}
	if len(assignment) != domain.NumSeats-1 {
		return nil, fmt.Errorf("%w: want one card per other seat", ErrBadPassAssignment)
	}

	refs := make([]domain.CardRef, 0, len(assignment))
	recipients := make([]int, 0, len(assignment))
	for seat := 0; seat < domain.NumSeats; seat++ {
		if seat == p.Seat {
			continue
		}
		ref, ok := assignment[seat]
		if !ok {
			return nil, fmt.Errorf("%w: no card for seat %d", ErrBadPassAssignment, seat)
		}
		refs = append(refs, ref)
		recipients = append(recipients, seat)
	}

	cards, err := domain.FindCards(p.Hand, refs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPassAssignment, err)
	}

	buffered := make(map[int]domain.Card, len(cards))
	for i, seat := range recipients {
		buffered[seat] = cards[i]
	}
	r.PassSubmissions[p.Seat] = buffered

	events := []Event{{
		Kind:    EventPassSubmitted,
		Payload: PassSubmittedPayload{Seat: p.Seat},
	}}

	if !r.AllPassSubmissionsIn() {
		return events, nil
	}

	if err := s.applyPassExchange(m); err != nil {
		return nil, err
	}

	events = append(events, Event{
		Kind:    EventPassingCompleted,
		Payload: PassingCompletedPayload{LeaderSeat: r.TurnSeat},
	})
	events = append(events, s.handSnapshots(m)...)
	return events, nil
}

// applyPassExchange removes all buffered cards first and only then
// distributes them, so a failed removal leaves every hand untouched.
func (s *Service) applyPassExchange(m *domain.Match) error {
	r := m.Round

	newHands := make([][]domain.Card, domain.NumSeats)
	for seat, p := range m.Players {
		given := r.PassSubmissions[seat]
		outgoing := make([]domain.Card, 0, len(given))
		for _, c := range given {
			outgoing = append(outgoing, c)
		}
		hand, err := domain.RemoveCards(p.Hand, outgoing)
		if err != nil {
			return fmt.Errorf("%w: seat %d: %v", ErrBadPassAssignment, seat, err)
		}
		newHands[seat] = hand
	}

	for giver := 0; giver < domain.NumSeats; giver++ {
		for recipient, c := range r.PassSubmissions[giver] {
			newHands[recipient] = append(newHands[recipient], c)
		}
	}

	leader := -1
	for seat, p := range m.Players {
		p.Hand = newHands[seat]
		domain.SortHand(p.Hand)
		if domain.ContainsName(p.Hand, domain.NameMahJong) {
			leader = seat
		}
	}

	r.Phase = domain.PhasePlay
	r.TurnSeat = leader
	return nil
}

// PlayCards validates and applies one combo play by the acting player.
func (s *Service) PlayCards(m *domain.Match, userID string, refs []domain.CardRef) ([]Event, error) {
	p, err := s.actor(m, userID)
	if err != nil {
		return nil, err
	}
	r := m.Round
	if r == nil || r.Phase != domain.PhasePlay {
		return nil, ErrWrongPhase
	}
	if r.DragonChoice != nil {
		return nil, ErrDragonChoicePending
	}
	if p.Finished {
		return nil, ErrPlayerFinished
	}
	if r.TurnSeat != p.Seat {
		return nil, ErrNotYourTurn
	}

	cards, err := domain.FindCards(p.Hand, refs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCombo, err)
	}

	var prev *domain.Combo
	if top := r.Trick.Top(); top != nil {
		prev = &top.Combo
	}
	combo := domain.IdentifyCombo(cards, prev)
	if combo.Type == domain.ComboInvalid {
		return nil, ErrInvalidCombo
	}
	if domain.WishBlocks(r.Wish, p.Hand, cards) {
		return nil, ErrWishUnsatisfied
	}
	if prev != nil && !domain.CanBeat(*prev, combo) {
		return nil, ErrCannotBeat
	}

	hand, err := domain.RemoveCards(p.Hand, cards)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCombo, err)
	}
	p.Hand = hand
	p.PlayedThisRound = true

	wishCleared := false
	if r.Wish != "" && domain.ContainsName(cards, r.Wish) {
		r.Wish = ""
		wishCleared = true
	}

	var events []Event

	if combo.Type == domain.ComboDog {
		events = s.playDog(m, p, cards, wishCleared)
	} else {
		r.Trick.Add(p.Seat, combo)
		r.PassCount = 0
		next := m.NextActiveSeat(p.Seat)
		r.TurnSeat = next
		events = append(events, Event{
			Kind: EventCardPlayed,
			Payload: CardPlayedPayload{
				Seat:         p.Seat,
				Cards:        cards,
				ComboType:    combo.Type.String(),
				ComboRank:    combo.Rank,
				NextTurnSeat: next,
				WishCleared:  wishCleared,
			},
		})
		if domain.ContainsName(cards, domain.NameMahJong) {
			r.WishPending = true
			r.WishSeat = p.Seat
			events = append(events, Event{
				Kind:    EventWishRequested,
				Payload: WishRequestedPayload{Seat: p.Seat},
			})
		}
	}

	events = append(events, s.handSnapshot(m, p.Seat))
	events = append(events, s.checkFinish(m, p)...)
	return events, nil
}

// playDog applies the Dog lead: the trick is won instantly by the partner,
// who leads next, or the next active seat after them when they have already
// finished.
func (s *Service) playDog(m *domain.Match, p *domain.Player, cards []domain.Card, wishCleared bool) []Event {
	r := m.Round
	partner := domain.PartnerSeat(p.Seat)
	m.Players[partner].TricksWon = append(m.Players[partner].TricksWon, cards...)

	next := partner
	if m.Players[partner].Finished {
		next = m.NextActiveSeat(partner)
	}
	r.Trick.Reset()
	r.PassCount = 0
	r.TurnSeat = next

	return []Event{
		{
			Kind: EventCardPlayed,
			Payload: CardPlayedPayload{
				Seat:         p.Seat,
				Cards:        cards,
				ComboType:    domain.ComboDog.String(),
				NextTurnSeat: next,
				WishCleared:  wishCleared,
			},
		},
		{
			Kind:    EventTrickWon,
			Payload: TrickWonPayload{WinnerSeat: partner, NextTurnSeat: next},
		},
	}
}

// checkFinish records an emptied hand, detects the double finish and, when
// the round is over, awards any open trick to its last aggressor and
// settles.
func (s *Service) checkFinish(m *domain.Match, p *domain.Player) []Event {
	r := m.Round
	if len(p.Hand) > 0 || p.Finished {
		return nil
	}

	p.Finished = true
	r.FinishOrder = append(r.FinishOrder, p.Seat)

	events := []Event{{
		Kind:    EventPlayerFinished,
		Payload: PlayerFinishedPayload{Seat: p.Seat, Place: len(r.FinishOrder)},
	}}

	if len(r.FinishOrder) == 2 {
		first := m.Players[r.FinishOrder[0]]
		if first.Team == p.Team {
			r.DoubleFinish = true
		}
	}

	if !r.Over() {
		if r.TurnSeat == p.Seat {
			r.TurnSeat = m.NextActiveSeat(p.Seat)
		}
		return events
	}

	// The round is over mid-trick. On a double finish card points are
	// never tallied, and otherwise at most one opponent of the winner is
	// still active, so the Dragon gift choice has no stakes either way:
	// the open trick simply goes to its last aggressor.
	if top := r.Trick.Top(); top != nil {
		winner := m.Players[top.Seat]
		winner.TricksWon = append(winner.TricksWon, r.Trick.Cards()...)
		r.Trick.Reset()
	}

	return append(events, s.settle(m)...)
}

func (s *Service) settle(m *domain.Match) []Event {
	result := domain.SettleRound(m)

	events := []Event{{
		Kind: EventRoundSettled,
		Payload: RoundSettledPayload{
			RoundNumber:  m.RoundNumber,
			Points:       result.Points,
			CardPoints:   result.CardPoints,
			Bonuses:      result.Bonuses,
			DoubleFinish: result.DoubleFinish,
			Totals:       result.Totals,
			FinishOrder:  m.Round.FinishOrder,
		},
	}}

	if m.Ended() {
		events = append(events, Event{
			Kind:    EventMatchEnded,
			Payload: MatchEndedPayload{Winner: m.Leader(), Totals: result.Totals},
		})
	}
	return events
}

// PassTurn applies a pass by the acting player and closes the trick once
// every other still-active player has passed on the last play.
func (s *Service) PassTurn(m *domain.Match, userID string) ([]Event, error) {
	p, err := s.actor(m, userID)
	if err != nil {
		return nil, err
	}
	r := m.Round
	if r == nil || r.Phase != domain.PhasePlay {
		return nil, ErrWrongPhase
	}
	if r.DragonChoice != nil {
		return nil, ErrDragonChoicePending
	}
	if p.Finished {
		return nil, ErrPlayerFinished
	}
	if r.TurnSeat != p.Seat {
		return nil, ErrNotYourTurn
	}
	if r.Trick.Empty() {
		return nil, ErrTrickEmpty
	}

	r.PassCount++

	if r.PassCount < r.PassThreshold() {
		next := m.NextActiveSeat(p.Seat)
		r.TurnSeat = next
		return []Event{{
			Kind:    EventTurnPassed,
			Payload: TurnPassedPayload{Seat: p.Seat, NextTurnSeat: next},
		}}, nil
	}

	// Trick closes: the last aggressor wins.
	top := r.Trick.Top()
	winner := m.Players[top.Seat]

	if top.Combo.ContainsDragon && r.ActiveCount() >= 2 {
		candidates := []int{
			(winner.Seat + 1) % domain.NumSeats,
			(winner.Seat + 3) % domain.NumSeats,
		}
		r.DragonChoice = &domain.DragonChoice{WinnerSeat: winner.Seat, Candidates: candidates}
		return []Event{
			{
				Kind:    EventTurnPassed,
				Payload: TurnPassedPayload{Seat: p.Seat, NextTurnSeat: winner.Seat},
			},
			{
				Kind:    EventDragonChoice,
				Payload: DragonChoicePayload{WinnerSeat: winner.Seat, Candidates: candidates},
			},
		}, nil
	}

	points := domain.CardPoints(r.Trick.Cards())
	winner.TricksWon = append(winner.TricksWon, r.Trick.Cards()...)
	r.Trick.Reset()
	r.PassCount = 0

	next := winner.Seat
	if winner.Finished {
		next = m.NextActiveSeat(winner.Seat)
	}
	r.TurnSeat = next

	return []Event{
		{
			Kind:    EventTurnPassed,
			Payload: TurnPassedPayload{Seat: p.Seat, NextTurnSeat: next},
		},
		{
			Kind:    EventTrickWon,
			Payload: TrickWonPayload{WinnerSeat: winner.Seat, Points: points, NextTurnSeat: next},
		},
	}, nil
}

// SetWish records the Mah Jong player's wish, or clears the request when
// rank is empty. Play is not suspended while the wish is pending.
func (s *Service) SetWish(m *domain.Match, userID string, rank string) ([]Event, error) {
	p, err := s.actor(m, userID)
	if err != nil {
		return nil, err
	}
	r := m.Round
	if r == nil || r.Phase != domain.PhasePlay {
		return nil, ErrWrongPhase
	}
	if !r.WishPending {
		return nil, ErrNoWishPending
	}
	if r.WishSeat != p.Seat {
		return nil, ErrNotYourTurn
	}
	if rank != "" && domain.StandardRank(rank) == 0 {
		return nil, ErrInvalidWishRank
	}

	r.Wish = rank
	r.WishPending = false

	return []Event{{
		Kind:    EventWishSet,
		Payload: WishSetPayload{Seat: p.Seat, Rank: rank},
	}}, nil
}

// ChooseDragonRecipient resolves the pending Dragon gift: the winner hands
// the whole trick to one opposing player, then leads the next trick.
func (s *Service) ChooseDragonRecipient(m *domain.Match, userID string, recipientSeat int) ([]Event, error) {
	p, err := s.actor(m, userID)
	if err != nil {
		return nil, err
	}
	r := m.Round
	if r == nil || r.Phase != domain.PhasePlay {
		return nil, ErrWrongPhase
	}
	choice := r.DragonChoice
	if choice == nil {
		return nil, ErrNoDragonChoice
	}
	if choice.WinnerSeat != p.Seat {
		return nil, ErrNotYourTurn
	}
	eligible := false
	for _, seat := range choice.Candidates {
		if seat == recipientSeat {
			eligible = true
			break
		}
	}
	if !eligible {
		return nil, ErrInvalidRecipient
	}

	points := domain.CardPoints(r.Trick.Cards())
	recipient := m.Players[recipientSeat]
	recipient.TricksWon = append(recipient.TricksWon, r.Trick.Cards()...)
	r.Trick.Reset()
	r.PassCount = 0
	r.DragonChoice = nil

	next := p.Seat
	if p.Finished {
		next = m.NextActiveSeat(p.Seat)
	}
	r.TurnSeat = next

	return []Event{{
		Kind: EventDragonGifted,
		Payload: DragonGiftedPayload{
			WinnerSeat:    p.Seat,
			RecipientSeat: recipientSeat,
			Points:        points,
			NextTurnSeat:  next,
		},
	}}, nil
}

func (s *Service) actor(m *domain.Match, userID string) (*domain.Player, error) {
	seat := m.SeatOf(userID)
	if seat < 0 {
		return nil, ErrUnknownPlayer
	}
	return m.Players[seat], nil
}

// handSnapshot builds the targeted hand event for one seat after a
// mutation.
func (s *Service) handSnapshot(m *domain.Match, seat int) Event {
	var sizes [domain.NumSeats]int
	for i, p := range m.Players {
		sizes[i] = len(p.Hand)
	}
	p := m.Players[seat]
	return Event{
		Kind: EventHandUpdated,
		Payload: HandUpdatedPayload{
			Seat:      seat,
			Cards:     append([]domain.Card{}, p.Hand...),
			HandSizes: sizes,
		},
		Recipients: []string{p.UserID},
	}
}

func (s *Service) handSnapshots(m *domain.Match) []Event {
	events := make([]Event, 0, domain.NumSeats)
	for seat := range m.Players {
		events = append(events, s.handSnapshot(m, seat))
	}
	return events
}
