package bot

import "tichu/internal/domain"

// Move represents a bot's play decision.
type Move struct {
	Pass  bool
	Cards []domain.CardRef
}

// Brain is the interface all bot strategies implement. Every method is
// consulted for the seat the agent occupies; implementations must only read
// that seat's hand.
type Brain interface {
	// DeclareGrandTichu answers the pre-deal declaration from the first
	// eight cards.
	DeclareGrandTichu(m *domain.Match, seat int) bool

	// ChoosePass picks one card for each other seat.
	ChoosePass(m *domain.Match, seat int) map[int]domain.CardRef

	// PlayTurn decides the seat's action on its turn.
	PlayTurn(m *domain.Match, seat int) Move

	// ChooseWish picks the rank to wish after playing the Mah Jong, or ""
	// for no wish.
	ChooseWish(m *domain.Match, seat int) string

	// ChooseDragonRecipient picks the opponent to receive a Dragon trick.
	ChooseDragonRecipient(m *domain.Match, seat int, candidates []int) int
}
