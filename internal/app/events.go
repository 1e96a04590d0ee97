package app

import "tichu/internal/domain"

// EventKind identifies emitted engine events for Nakama dispatch.
type EventKind string

const (
	EventRoundStarted     EventKind = "round_started"
	EventHandUpdated      EventKind = "hand_updated"
	EventGrandTichu       EventKind = "grand_tichu_declared"
	EventPassingStarted   EventKind = "passing_started"
	EventTichuCalled      EventKind = "tichu_called"
	EventPassSubmitted    EventKind = "pass_submitted"
	EventPassingCompleted EventKind = "passing_completed"
	EventCardPlayed       EventKind = "card_played"
	EventTurnPassed       EventKind = "turn_passed"
	EventTrickWon         EventKind = "trick_won"
	EventWishRequested    EventKind = "wish_requested"
	EventWishSet          EventKind = "wish_set"
	EventDragonChoice     EventKind = "dragon_choice_required"
	EventDragonGifted     EventKind = "dragon_gifted"
	EventPlayerFinished   EventKind = "player_finished"
	EventRoundSettled     EventKind = "round_settled"
	EventMatchEnded       EventKind = "match_ended"
)

// Event is an engine event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type RoundStartedPayload struct {
	RoundNumber int `json:"round_number"`
}

// HandUpdatedPayload is always targeted at the hand's owner; other seats
// only ever learn the counts.
type HandUpdatedPayload struct {
	Seat      int                  `json:"seat"`
	Cards     []domain.Card        `json:"cards"`
	HandSizes [domain.NumSeats]int `json:"hand_sizes"`
}

type GrandTichuPayload struct {
	Seat     int  `json:"seat"`
	Declared bool `json:"declared"`
}

type TichuCalledPayload struct {
	Seat int `json:"seat"`
}

type PassSubmittedPayload struct {
	Seat int `json:"seat"`
}

type PassingCompletedPayload struct {
	LeaderSeat int `json:"leader_seat"`
}

type CardPlayedPayload struct {
	Seat         int           `json:"seat"`
	Cards        []domain.Card `json:"cards"`
	ComboType    string        `json:"combo_type"`
	ComboRank    float64       `json:"combo_rank"`
	NextTurnSeat int           `json:"next_turn_seat"`
	WishCleared  bool          `json:"wish_cleared,omitempty"`
}

type TurnPassedPayload struct {
	Seat         int `json:"seat"`
	NextTurnSeat int `json:"next_turn_seat"`
}

type TrickWonPayload struct {
	WinnerSeat   int `json:"winner_seat"`
	Points       int `json:"points"`
	NextTurnSeat int `json:"next_turn_seat"`
}

type WishRequestedPayload struct {
	Seat int `json:"seat"`
}

type WishSetPayload struct {
	Seat int    `json:"seat"`
	Rank string `json:"rank"`
}

type DragonChoicePayload struct {
	WinnerSeat int   `json:"winner_seat"`
	Candidates []int `json:"candidates"`
}

type DragonGiftedPayload struct {
	WinnerSeat    int `json:"winner_seat"`
	RecipientSeat int `json:"recipient_seat"`
	Points        int `json:"points"`
	NextTurnSeat  int `json:"next_turn_seat"`
}

type PlayerFinishedPayload struct {
	Seat  int `json:"seat"`
	Place int `json:"place"`
}

type RoundSettledPayload struct {
	RoundNumber  int                 `json:"round_number"`
	Points       map[domain.Team]int `json:"points"`
	CardPoints   map[domain.Team]int `json:"card_points"`
	Bonuses      []domain.Bonus      `json:"bonuses,omitempty"`
	DoubleFinish bool                `json:"double_finish"`
	Totals       map[domain.Team]int `json:"totals"`
	FinishOrder  []int               `json:"finish_order"`
}

type MatchEndedPayload struct {
	Winner domain.Team         `json:"winner"`
	Totals map[domain.Team]int `json:"totals"`
}
