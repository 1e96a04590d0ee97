package domain

// NumSeats is the fixed player count of a Tichu table.
const NumSeats = 4

// Team identifies one of the two fixed partnerships.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// Opposing returns the other partnership.
func Opposing(t Team) Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// TeamForSeat returns the partnership for a seat: even seats are team A,
// odd seats team B, so partners face each other.
func TeamForSeat(seat int) Team {
	if seat%2 == 0 {
		return TeamA
	}
	return TeamB
}

// PartnerSeat returns the seat of a player's partner.
func PartnerSeat(seat int) int {
	return (seat + 2) % NumSeats
}

// Player holds one seat's state. Hand and trick pile reset at round start;
// identity and team persist for the whole match.
type Player struct {
	UserID string
	Seat   int
	Team   Team

	Hand      []Card
	TricksWon []Card

	// CalledTichu is set once the player wagers a Tichu this round.
	// GrandTichu is the tri-state declaration: nil until the player has
	// answered, then the answer; a repeated declaration overwrites.
	CalledTichu bool
	GrandTichu  *bool

	// PlayedThisRound gates the Tichu call: it is only open to a player who
	// has not yet laid a card.
	PlayedThisRound bool

	Finished bool
}

// ResetForRound clears per-round state ahead of a new deal.
func (p *Player) ResetForRound() {
	p.Hand = nil
	p.TricksWon = nil
	p.CalledTichu = false
	p.GrandTichu = nil
	p.PlayedThisRound = false
	p.Finished = false
}

// Match is one table: four fixed seats, cumulative team scores, and the
// round in progress. One Match value exists per table; there is no shared
// process-wide state.
type Match struct {
	Players     [NumSeats]*Player
	Scores      map[Team]int
	RoundNumber int
	TargetScore int
	Round       *Round
}

// NewMatch seats the four players in order and assigns the fixed
// partnerships.
func NewMatch(userIDs [NumSeats]string, targetScore int) *Match {
	m := &Match{
		Scores:      map[Team]int{TeamA: 0, TeamB: 0},
		TargetScore: targetScore,
	}
	for seat, id := range userIDs {
		m.Players[seat] = &Player{
			UserID: id,
			Seat:   seat,
			Team:   TeamForSeat(seat),
		}
	}
	return m
}

// PlayerBySeat returns the player in the given seat, or nil for an invalid
// seat index.
func (m *Match) PlayerBySeat(seat int) *Player {
	if seat < 0 || seat >= NumSeats {
		return nil
	}
	return m.Players[seat]
}

// SeatOf returns the seat of the given user, or -1 if the user is not at
// the table.
func (m *Match) SeatOf(userID string) int {
	for seat, p := range m.Players {
		if p != nil && p.UserID == userID {
			return seat
		}
	}
	return -1
}

// NextActiveSeat returns the next seat after from, skipping finished
// players. It returns -1 when no other active seat exists.
func (m *Match) NextActiveSeat(from int) int {
	for i := 1; i <= NumSeats; i++ {
		seat := (from + i) % NumSeats
		if !m.Players[seat].Finished {
			return seat
		}
	}
	return -1
}

// Ended reports whether a partnership has reached the target score with a
// lead. A tie at or above the target keeps the match going.
func (m *Match) Ended() bool {
	a, b := m.Scores[TeamA], m.Scores[TeamB]
	if a == b {
		return false
	}
	return a >= m.TargetScore || b >= m.TargetScore
}

// Leader returns the partnership with the higher cumulative score.
func (m *Match) Leader() Team {
	if m.Scores[TeamB] > m.Scores[TeamA] {
		return TeamB
	}
	return TeamA
}
