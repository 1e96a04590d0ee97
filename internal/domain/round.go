package domain

// RoundPhase is the lifecycle stage of a single deal-to-settlement cycle.
type RoundPhase int

const (
	// PhaseGrandTichu: first eight cards are out, declarations pending.
	PhaseGrandTichu RoundPhase = iota
	// PhasePassing: full hands dealt, three-card assignments pending.
	PhasePassing
	// PhasePlay: tricks are being played.
	PhasePlay
	// PhaseSettled: the round has been scored.
	PhaseSettled
)

func (p RoundPhase) String() string {
	switch p {
	case PhaseGrandTichu:
		return "grand_tichu"
	case PhasePassing:
		return "passing"
	case PhasePlay:
		return "play"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// DragonChoice is the pending mandatory gift after winning a trick with the
// Dragon. While non-nil, only the winner may act, and only by choosing a
// recipient from Candidates.
type DragonChoice struct {
	WinnerSeat int
	Candidates []int
}

// Round holds the state of one deal-to-settlement cycle. It is created by
// the Match and discarded after settlement.
type Round struct {
	Phase    RoundPhase
	TurnSeat int
	Trick    Trick

	// Consecutive passes since the last play. The trick closes once every
	// still-active player besides the last aggressor has passed.
	PassCount int

	// Wish is the rank label the Mah Jong player wished for, or "" when no
	// wish is outstanding. WishPending marks that the Mah Jong has been
	// played but its wish not yet chosen; play continues meanwhile.
	Wish        string
	WishPending bool
	WishSeat    int

	DragonChoice *DragonChoice

	// FinishOrder records seats in the order their hands emptied. The order
	// decides first place for scoring.
	FinishOrder []int

	// DoubleFinish is set when both members of one partnership finished
	// before either opponent.
	DoubleFinish bool

	// PassSubmissions buffers the three-card assignments per giving seat
	// until all four have submitted; exchanges then apply atomically.
	PassSubmissions [NumSeats]map[int]Card

	// Deck is the undealt remainder; emptied once the last six cards per
	// player are out.
	Deck []Card
}

// NewRound returns an empty round awaiting the first deal.
func NewRound() *Round {
	return &Round{Phase: PhaseGrandTichu, TurnSeat: -1}
}

// FinishedCount returns how many seats have emptied their hands.
func (r *Round) FinishedCount() int {
	return len(r.FinishOrder)
}

// ActiveCount returns how many seats still hold cards.
func (r *Round) ActiveCount() int {
	return NumSeats - len(r.FinishOrder)
}

// PassThreshold is the number of consecutive passes that closes the trick.
// It shrinks as players finish so a trick among fewer active players can
// still close.
func (r *Round) PassThreshold() int {
	return NumSeats - len(r.FinishOrder) - 1
}

// Over reports whether the round has reached a terminating condition: three
// seats finished, or a double-team finish.
func (r *Round) Over() bool {
	return r.DoubleFinish || len(r.FinishOrder) >= NumSeats-1
}

// AllPassSubmissionsIn reports whether every seat has a buffered assignment.
func (r *Round) AllPassSubmissionsIn() bool {
	for _, sub := range r.PassSubmissions {
		if sub == nil {
			return false
		}
	}
	return true
}
