package nakama

import (
	"context"
	"math/rand"
	"time"

	"tichu/internal/app"
	"tichu/internal/bot"
	"tichu/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// interRoundDelaySeconds is how long the table pauses on a settled round
// before the next one is dealt automatically.
const interRoundDelaySeconds = 5

// fallbackBrain acts for stalled human seats when the turn timer expires.
// Bombs stay in reserve so an absent player never burns their strongest
// cards on autopilot.
var fallbackBrain = &bot.StandardBrain{}

// observeTurn records the current decision seat and restarts the countdown.
// Called after every successful state change.
func (mh *matchHandler) observeTurn(state *MatchState) {
	if state.Match == nil || state.Match.Round == nil {
		mh.resetTurnTimer(state)
		return
	}

	r := state.Match.Round
	now := time.Now().Unix()

	switch r.Phase {
	case domain.PhaseSettled:
		state.TurnSeat = -1
		state.TurnDeadline = now + interRoundDelaySeconds
	case domain.PhaseGrandTichu, domain.PhasePassing:
		// Multiple seats act concurrently, one shared deadline.
		state.TurnSeat = -1
		state.TurnDeadline = now + state.TurnDuration
	case domain.PhasePlay:
		seat := r.TurnSeat
		if r.DragonChoice != nil {
			seat = r.DragonChoice.WinnerSeat
		}
		state.TurnSeat = seat
		state.TurnDeadline = now + state.TurnDuration
	default:
		mh.resetTurnTimer(state)
	}
}

func (mh *matchHandler) resetTurnTimer(state *MatchState) {
	state.TurnSeat = -1
	state.TurnDeadline = 0
}

// enforceTurnTimer acts on behalf of whoever is blocking the table once the
// deadline passes. Bot seats are driven by processBots instead.
func (mh *matchHandler) enforceTurnTimer(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Match == nil || state.Match.Round == nil || state.TurnDeadline == 0 {
		return
	}
	if time.Now().Unix() < state.TurnDeadline {
		return
	}

	m := state.Match
	r := m.Round

	switch r.Phase {
	case domain.PhaseSettled:
		if m.Ended() {
			mh.resetTurnTimer(state)
			return
		}
		events, err := state.App.StartRound(m)
		if err != nil {
			logger.Error("TurnTimer: Failed to deal next round: %v", err)
			mh.resetTurnTimer(state)
			return
		}
		logger.Info("TurnTimer: Round %d dealt automatically.", m.RoundNumber)
		mh.dispatchEvents(ctx, state, dispatcher, logger, events)

	case domain.PhaseGrandTichu:
		for seat, p := range m.Players {
			if p.GrandTichu != nil || isBotUserId(p.UserID) {
				continue
			}
			declare := fallbackBrain.DeclareGrandTichu(m, seat)
			events, err := state.App.DeclareGrandTichu(m, p.UserID, declare)
			if err != nil {
				logger.Warn("TurnTimer: Grand Tichu fallback for seat %d rejected: %v", seat, err)
				continue
			}
			logger.Info("TurnTimer: Declared for stalled seat %d.", seat)
			mh.dispatchEvents(ctx, state, dispatcher, logger, events)
		}

	case domain.PhasePassing:
		for seat, p := range m.Players {
			if r.PassSubmissions[seat] != nil || isBotUserId(p.UserID) {
				continue
			}
			assignment := fallbackBrain.ChoosePass(m, seat)
			events, err := state.App.SubmitPassAssignment(m, p.UserID, assignment)
			if err != nil {
				logger.Warn("TurnTimer: Pass fallback for seat %d rejected: %v", seat, err)
				continue
			}
			logger.Info("TurnTimer: Passed cards for stalled seat %d.", seat)
			mh.dispatchEvents(ctx, state, dispatcher, logger, events)
		}

	case domain.PhasePlay:
		if r.DragonChoice != nil {
			winner := m.PlayerBySeat(r.DragonChoice.WinnerSeat)
			if winner == nil || isBotUserId(winner.UserID) {
				return
			}
			recipient := fallbackBrain.ChooseDragonRecipient(m, winner.Seat, r.DragonChoice.Candidates)
			events, err := state.App.ChooseDragonRecipient(m, winner.UserID, recipient)
			if err != nil {
				logger.Warn("TurnTimer: Dragon fallback rejected: %v", err)
				return
			}
			logger.Info("TurnTimer: Gifted dragon trick for stalled seat %d.", winner.Seat)
			mh.dispatchEvents(ctx, state, dispatcher, logger, events)
			return
		}

		mh.runWishFallback(ctx, state, dispatcher, logger)

		actor := m.PlayerBySeat(r.TurnSeat)
		if actor == nil || isBotUserId(actor.UserID) {
			return
		}
		move := fallbackBrain.PlayTurn(m, actor.Seat)
		var events []app.Event
		var err error
		if move.Pass {
			events, err = state.App.PassTurn(m, actor.UserID)
		} else {
			events, err = state.App.PlayCards(m, actor.UserID, move.Cards)
		}
		if err != nil {
			logger.Warn("TurnTimer: Fallback move for seat %d rejected: %v", actor.Seat, err)
			mh.resetTurnTimer(state)
			return
		}
		logger.Info("TurnTimer: Played for stalled seat %d.", actor.Seat)
		mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	}
}

// runWishFallback states a wish for a stalled human who played the Mah Jong
// and never announced one. The wish does not block play but the table should
// not sit on an open request forever.
func (mh *matchHandler) runWishFallback(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	m := state.Match
	r := m.Round
	if !r.WishPending {
		return
	}
	wisher := m.PlayerBySeat(r.WishSeat)
	if wisher == nil || isBotUserId(wisher.UserID) {
		return
	}
	rank := fallbackBrain.ChooseWish(m, wisher.Seat)
	events, err := state.App.SetWish(m, wisher.UserID, rank)
	if err != nil {
		logger.Warn("TurnTimer: Wish fallback rejected: %v", err)
		return
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

// processBots drives every bot seat. Declarations and card passing happen
// immediately; turn actions wait behind a randomized delay so the table
// does not feel instantaneous.
func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.autoFillWithBots(ctx, state, dispatcher, logger)

	if state.Match == nil || state.Match.Round == nil {
		return
	}

	m := state.Match
	r := m.Round
	now := time.Now().Unix()

	switch r.Phase {
	case domain.PhaseGrandTichu:
		for seat, p := range m.Players {
			agent := state.Bots[p.UserID]
			if agent == nil || p.GrandTichu != nil {
				continue
			}
			declare, err := agent.DeclareGrandTichu(m)
			if err != nil {
				logger.Error("Bot %s failed Grand Tichu decision: %v", agent.Name, err)
				continue
			}
			events, err := state.App.DeclareGrandTichu(m, p.UserID, declare)
			if err != nil {
				logger.Error("Bot %s Grand Tichu rejected: %v", agent.Name, err)
				continue
			}
			logger.Debug("Bot %s (seat %d) declared grand tichu=%v", agent.Name, seat, declare)
			mh.dispatchEvents(ctx, state, dispatcher, logger, events)
		}

	case domain.PhasePassing:
		for seat, p := range m.Players {
			agent := state.Bots[p.UserID]
			if agent == nil || r.PassSubmissions[seat] != nil {
				continue
			}
			assignment, err := agent.ChoosePass(m)
			if err != nil {
				logger.Error("Bot %s failed pass decision: %v", agent.Name, err)
				continue
			}
			events, err := state.App.SubmitPassAssignment(m, p.UserID, assignment)
			if err != nil {
				logger.Error("Bot %s pass assignment rejected: %v", agent.Name, err)
				continue
			}
			mh.dispatchEvents(ctx, state, dispatcher, logger, events)
		}

	case domain.PhasePlay:
		if r.WishPending {
			if wisher := m.PlayerBySeat(r.WishSeat); wisher != nil {
				if agent := state.Bots[wisher.UserID]; agent != nil {
					rank, err := agent.ChooseWish(m)
					if err == nil {
						if events, err := state.App.SetWish(m, wisher.UserID, rank); err == nil {
							mh.dispatchEvents(ctx, state, dispatcher, logger, events)
						} else {
							logger.Error("Bot %s wish rejected: %v", agent.Name, err)
						}
					}
				}
			}
		}

		if r.DragonChoice != nil {
			winner := m.PlayerBySeat(r.DragonChoice.WinnerSeat)
			if winner == nil {
				return
			}
			agent := state.Bots[winner.UserID]
			if agent == nil {
				return
			}
			if !mh.botDelayElapsed(state, now) {
				return
			}
			recipient, err := agent.ChooseDragonRecipient(m, r.DragonChoice.Candidates)
			if err != nil {
				logger.Error("Bot %s failed dragon decision: %v", agent.Name, err)
				return
			}
			events, err := state.App.ChooseDragonRecipient(m, winner.UserID, recipient)
			if err != nil {
				logger.Error("Bot %s dragon gift rejected: %v", agent.Name, err)
				return
			}
			mh.dispatchEvents(ctx, state, dispatcher, logger, events)
			return
		}

		actor := m.PlayerBySeat(r.TurnSeat)
		if actor == nil {
			return
		}
		agent := state.Bots[actor.UserID]
		if agent == nil {
			state.BotWaitUntil = 0
			return
		}
		if !mh.botDelayElapsed(state, now) {
			return
		}

		move, err := agent.PlayTurn(m)
		if err != nil {
			logger.Error("Bot %s failed to choose a move: %v", agent.Name, err)
			return
		}
		var events []app.Event
		if move.Pass {
			events, err = state.App.PassTurn(m, actor.UserID)
		} else {
			events, err = state.App.PlayCards(m, actor.UserID, move.Cards)
		}
		if err != nil {
			logger.Error("Bot %s move rejected: %v", agent.Name, err)
			return
		}
		mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	}
}

// botDelayElapsed gates a bot turn action behind a randomized think delay.
// Returns true once the delay has passed and clears it for the next turn.
func (mh *matchHandler) botDelayElapsed(state *MatchState, now int64) bool {
	if state.BotWaitUntil == 0 {
		delay := state.BotMinDelay
		if state.BotMaxDelay > state.BotMinDelay {
			delay += rand.Intn(state.BotMaxDelay - state.BotMinDelay + 1)
		}
		state.BotWaitUntil = now + int64(delay)
		return false
	}
	if now < state.BotWaitUntil {
		return false
	}
	state.BotWaitUntil = 0
	return true
}

// autoFillWithBots seats bots after a lone human has waited long enough in
// the lobby for the table to fill.
func (mh *matchHandler) autoFillWithBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Match != nil || state.Private {
		state.LastSinglePlayerTick = 0
		return
	}
	if state.GetHumanPlayerCount() == 0 || state.GetOpenSeatsCount() == 0 {
		state.LastSinglePlayerTick = 0
		return
	}

	now := time.Now().Unix()
	if state.LastSinglePlayerTick == 0 {
		state.LastSinglePlayerTick = now
		return
	}
	if now-state.LastSinglePlayerTick < int64(state.BotAutoFillDelay) {
		return
	}

	botIndex := 0
	for i, seatUserId := range state.Seats {
		if seatUserId != "" {
			continue
		}
		identity := bot.GetBotIdentity(botIndex)
		botIndex++
		for identity.UserID == "" || state.Bots[identity.UserID] != nil {
			if botIndex >= domain.NumSeats*2 {
				logger.Warn("autoFillWithBots: Ran out of bot identities.")
				return
			}
			identity = bot.GetBotIdentity(botIndex)
			botIndex++
		}
		agent, err := bot.NewAgent(identity.UserID)
		if err != nil {
			logger.Error("autoFillWithBots: Failed to build agent for %s: %v", identity.UserID, err)
			continue
		}
		state.Seats[i] = identity.UserID
		state.Bots[identity.UserID] = agent
		logger.Info("autoFillWithBots: Seated bot %s at seat %d.", identity.Username, i)
	}

	state.LastSinglePlayerTick = 0
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastMatchState(state, dispatcher, logger)
}
