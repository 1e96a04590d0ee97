package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"tichu/internal/app"
	"tichu/internal/bot"
	"tichu/internal/config"
	"tichu/internal/domain"
	"tichu/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchLabel is the queryable JSON label kept up to date on the match.
type MatchLabel struct {
	Open    int    `json:"open"`
	Game    string `json:"game"`
	Phase   string `json:"phase"` // "lobby" or "playing"
	Private bool   `json:"private"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [domain.NumSeats]string     `json:"seats"`      // User IDs, empty string means the seat is open
	OwnerSeat int                         `json:"owner_seat"` // Seat index of the table owner
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"` // UserID -> Presence for targeted messaging
	App       *app.Service                `json:"-"`
	Match     *domain.Match               `json:"-"` // Active match state, nil while in lobby

	Private   bool               `json:"private"`
	Invites   *app.InviteService `json:"-"` // Verifies join tokens when Private
	StakeTier string             `json:"stake_tier"`

	// Turn timer: once the deadline passes, the fallback strategy acts for
	// the stalled seat so a departed or idle player cannot halt the table.
	TurnDuration int64 `json:"turn_duration"`
	TurnSeat     int   `json:"turn_seat"`
	TurnDeadline int64 `json:"turn_deadline"`

	BotsEnabled          bool                  `json:"bots_enabled"`
	BotMinDelay          int                   `json:"bot_min_delay"`
	BotMaxDelay          int                   `json:"bot_max_delay"`
	BotAutoFillDelay     int                   `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64                 `json:"bot_wait_until"`
	LastSinglePlayerTick int64                 `json:"last_single_player_tick"`
	Bots                 map[string]*bot.Agent `json:"-"`

	Economy ports.EconomyPort `json:"-"`
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return domain.NumSeats - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) int {
	for i, seat := range ms.Seats {
		if seat == userID {
			return i
		}
	}
	return -1
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// Client request payloads. Cards travel as (name, suit) pairs; the engine
// resolves them against the acting player's hand.
type playCardsRequest struct {
	Cards []domain.CardRef `json:"cards"`
}

type declareGrandTichuRequest struct {
	Declare bool `json:"declare"`
}

type submitPassRequest struct {
	// Assignment maps recipient seat (JSON object keys are strings) to the
	// card given to that seat.
	Assignment map[string]domain.CardRef `json:"assignment"`
}

type setWishRequest struct {
	Rank string `json:"rank"`
}

type chooseDragonRecipientRequest struct {
	Seat int `json:"seat"`
}

type gameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}
	cfg := config.GetGameConfig()

	state := &MatchState{
		Tick:        time.Now().Unix(),
		Presences:   make(map[string]runtime.Presence),
		App:         app.NewService(nil),
		OwnerSeat:   -1,
		TurnSeat:    -1,
		BotsEnabled: true,
		Bots:        make(map[string]*bot.Agent),
		Economy:     NewNakamaEconomyAdapter(nk),
	}

	if v, ok := params["private"].(bool); ok {
		state.Private = v
	}
	if v, ok := params["tier"].(string); ok {
		state.StakeTier = v
	}
	if state.Private {
		state.Invites = inviteServiceFromEnv(ctx)
		if state.Invites == nil {
			logger.Warn("MatchInit: Private table without %s, joins will be rejected.", inviteSecretEnvKey)
		}
	}

	if cfg != nil {
		state.TurnDuration = int64(cfg.TurnDurationSeconds)
		state.BotMinDelay = cfg.BotMinDelaySeconds
		state.BotMaxDelay = cfg.BotMaxDelaySeconds
		state.BotAutoFillDelay = cfg.BotAutoFillDelaySeconds
	}

	// Environment overrides.
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["tichu_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["tichu_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["tichu_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["tichu_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}
	if val, ok := env["tichu_turn_duration_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.TurnDuration = int64(i)
		}
	}

	// Defaults if not set
	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay == 0 {
		state.BotMaxDelay = 3
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = 5
	}
	if state.TurnDuration == 0 {
		state.TurnDuration = 30
	}

	labelBytes, err := json.Marshal(mh.buildLabel(state))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Private tables require the invite token issued at creation.
	if matchState.Private {
		if matchState.Invites == nil {
			return state, false, "invites unavailable"
		}
		invite, err := matchState.Invites.VerifyToken(metadata["invite_token"])
		if err != nil {
			return state, false, "invite required"
		}
		matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
		if invite.MatchID != matchID {
			return state, false, "invite is for another table"
		}
	}

	// Allow join if there is an empty seat OR a bot to replace (if the match hasn't started)
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Match == nil {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		// Assign seat: try empty seats first, then bots (while in lobby)
		assigned := false
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && matchState.Match == nil {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
			continue
		}
	}

	// Ensure the owner seat is held by a human.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match. A seat in
// an active match stays bound to its user so the turn-timer fallback can
// keep playing for them; in the lobby the seat is simply freed.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		if matchState.Match != nil {
			logger.Debug("MatchLeave: User %s left mid-match, seat stays bound.", p.GetUserId())
			continue
		}
		for i, seatUserId := range matchState.Seats {
			if seatUserId == p.GetUserId() {
				matchState.Seats[i] = ""
				logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), i)
				break
			}
		}
	}

	connectedHumans := 0
	for uid := range matchState.Presences {
		if !isBotUserId(uid) {
			connectedHumans++
		}
	}
	if connectedHumans == 0 && (matchState.Match == nil || shouldTerminateNoHumans(matchState.Seats[:])) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	newOwnerSeat := matchState.OwnerSeat
	if !isHumanSeat(matchState.Seats[:], newOwnerSeat) || matchState.Presences[matchState.Seats[newOwnerSeat]] == nil {
		newOwnerSeat = -1
		for i, uid := range matchState.Seats {
			if isHumanSeat(matchState.Seats[:], i) && matchState.Presences[uid] != nil {
				newOwnerSeat = i
				break
			}
		}
	}
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
		logger.Debug("MatchLeave: Owner moved to seat %d.", newOwnerSeat)
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg)
	}

	mh.enforceTurnTimer(ctx, matchState, dispatcher, logger)

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	switch msg.GetOpCode() {
	case OpStartGame:
		mh.handleStartGame(ctx, state, dispatcher, logger, msg)
		return
	}

	if state.Match == nil {
		logger.Warn("handleMessage: Opcode %d from %s before the match started.", msg.GetOpCode(), senderID)
		mh.sendError(state, dispatcher, logger, senderID, 409, "match not started")
		return
	}

	var events []app.Event
	var err error

	switch msg.GetOpCode() {
	case OpPlayCards:
		var req playCardsRequest
		if jsonErr := json.Unmarshal(msg.GetData(), &req); jsonErr != nil {
			mh.sendError(state, dispatcher, logger, senderID, 400, "malformed play request")
			return
		}
		events, err = state.App.PlayCards(state.Match, senderID, req.Cards)
	case OpPassTurn:
		events, err = state.App.PassTurn(state.Match, senderID)
	case OpDeclareGrandTichu:
		var req declareGrandTichuRequest
		if jsonErr := json.Unmarshal(msg.GetData(), &req); jsonErr != nil {
			mh.sendError(state, dispatcher, logger, senderID, 400, "malformed declaration")
			return
		}
		events, err = state.App.DeclareGrandTichu(state.Match, senderID, req.Declare)
	case OpDeclareTichu:
		events, err = state.App.DeclareTichu(state.Match, senderID)
	case OpSubmitPassAssignment:
		var req submitPassRequest
		if jsonErr := json.Unmarshal(msg.GetData(), &req); jsonErr != nil {
			mh.sendError(state, dispatcher, logger, senderID, 400, "malformed pass assignment")
			return
		}
		assignment := make(map[int]domain.CardRef, len(req.Assignment))
		for seatKey, ref := range req.Assignment {
			seat, convErr := strconv.Atoi(seatKey)
			if convErr != nil {
				mh.sendError(state, dispatcher, logger, senderID, 400, "malformed pass assignment")
				return
			}
			assignment[seat] = ref
		}
		events, err = state.App.SubmitPassAssignment(state.Match, senderID, assignment)
	case OpSetWish:
		var req setWishRequest
		if jsonErr := json.Unmarshal(msg.GetData(), &req); jsonErr != nil {
			mh.sendError(state, dispatcher, logger, senderID, 400, "malformed wish")
			return
		}
		events, err = state.App.SetWish(state.Match, senderID, req.Rank)
	case OpChooseDragonRecipient:
		var req chooseDragonRecipientRequest
		if jsonErr := json.Unmarshal(msg.GetData(), &req); jsonErr != nil {
			mh.sendError(state, dispatcher, logger, senderID, 400, "malformed dragon choice")
			return
		}
		events, err = state.App.ChooseDragonRecipient(state.Match, senderID, req.Seat)
	default:
		logger.Warn("handleMessage: Unknown opcode received: %d", msg.GetOpCode())
		return
	}

	if err != nil {
		logger.Warn("handleMessage: Opcode %d from %s rejected: %v", msg.GetOpCode(), senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start but is not the owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the owner may start")
		return
	}
	if state.GetOpenSeatsCount() > 0 {
		logger.Warn("StartGame: Cannot start with %d open seats.", state.GetOpenSeatsCount())
		mh.sendError(state, dispatcher, logger, senderID, 409, "table is not full")
		return
	}

	if state.Match == nil {
		state.Match = domain.NewMatch(state.Seats, config.GetTargetScore())
	} else if state.Match.Round != nil && state.Match.Round.Phase != domain.PhaseSettled {
		mh.sendError(state, dispatcher, logger, senderID, 409, "round already in progress")
		return
	}

	events, err := state.App.StartRound(state.Match)
	if err != nil {
		logger.Error("StartGame: Failed to start round: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 409, err.Error())
		return
	}

	mh.updateLabel(state, dispatcher, logger)
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)

	logger.Info("StartGame: Round %d started.", state.Match.RoundNumber)
}

// dispatchEvents converts app events to opcode broadcasts and applies the
// handler-level side effects of terminal events.
func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)

		if ev.Kind == app.EventMatchEnded {
			mh.settleStakes(ctx, state, logger, ev)
			state.Match = nil
			mh.updateLabel(state, dispatcher, logger)
		}
	}
	mh.observeTurn(state)
}

var eventOpCodes = map[app.EventKind]int64{
	app.EventRoundStarted:     OpRoundStarted,
	app.EventHandUpdated:      OpHandUpdated,
	app.EventGrandTichu:       OpGrandTichu,
	app.EventPassingStarted:   OpPassingStarted,
	app.EventTichuCalled:      OpTichuCalled,
	app.EventPassSubmitted:    OpPassSubmitted,
	app.EventPassingCompleted: OpPassingCompleted,
	app.EventCardPlayed:       OpCardPlayed,
	app.EventTurnPassed:       OpTurnPassed,
	app.EventTrickWon:         OpTrickWon,
	app.EventWishRequested:    OpWishRequested,
	app.EventWishSet:          OpWishSet,
	app.EventDragonChoice:     OpDragonChoice,
	app.EventDragonGifted:     OpDragonGifted,
	app.EventPlayerFinished:   OpPlayerFinished,
	app.EventRoundSettled:     OpRoundSettled,
	app.EventMatchEnded:       OpMatchEnded,
}

// broadcastEvent serializes one app event and dispatches it to its
// recipients, or to everyone when the event carries none.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they
		// are bots), we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// settleStakes pays the winning partnership and charges the losers.
func (mh *matchHandler) settleStakes(ctx context.Context, state *MatchState, logger runtime.Logger, ev app.Event) {
	if state.Economy == nil || state.Match == nil {
		return
	}
	ended, ok := ev.Payload.(app.MatchEndedPayload)
	if !ok {
		return
	}

	stake := config.GetStake(state.StakeTier)
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	var updates []ports.WalletUpdate
	for _, p := range state.Match.Players {
		if isBotUserId(p.UserID) {
			continue
		}
		amount := stake
		if p.Team != ended.Winner {
			amount = -stake
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: p.UserID,
			Amount: amount,
			Metadata: map[string]interface{}{
				"match_id": matchID,
				"reason":   "match_settlement",
			},
		})
	}

	if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("Failed to settle stakes: %v", err)
	}
}

// sendError sends a gameErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(gameErrorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal game error: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

// matchStatePlayer is one seat's public snapshot.
type matchStatePlayer struct {
	UserID         string `json:"user_id"`
	Seat           int    `json:"seat"`
	IsOwner        bool   `json:"is_owner"`
	CardsRemaining int    `json:"cards_remaining"`
	DisplayName    string `json:"display_name"`
}

type matchStateSnapshot struct {
	Seats     []string           `json:"seats"`
	OwnerSeat int                `json:"owner_seat"`
	Tick      int64              `json:"tick"`
	Players   []matchStatePlayer `json:"players"`
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	var players []matchStatePlayer
	for i, userId := range state.Seats {
		if userId == "" {
			continue
		}

		displayName := userId
		if p, exists := state.Presences[userId]; exists {
			displayName = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userId); name != "" {
			displayName = name
		}

		cardsRemaining := 0
		if state.Match != nil {
			cardsRemaining = len(state.Match.Players[i].Hand)
		}

		players = append(players, matchStatePlayer{
			UserID:         userId,
			Seat:           i,
			IsOwner:        i == state.OwnerSeat,
			CardsRemaining: cardsRemaining,
			DisplayName:    displayName,
		})
	}

	snapshot := matchStateSnapshot{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Tick:      state.Tick,
		Players:   players,
	}
	bytes, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("Failed to marshal match state snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpMatchState, bytes, nil, nil, true)
}

func (mh *matchHandler) buildLabel(state *MatchState) MatchLabel {
	phase := "lobby"
	if state.Match != nil {
		phase = "playing"
	}
	return MatchLabel{
		Open:    state.GetOpenSeatsCount(),
		Game:    "tichu",
		Phase:   phase,
		Private: state.Private,
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(mh.buildLabel(state))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
