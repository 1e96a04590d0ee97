package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create an open public table.
	RpcQuickMatch = "quick_match"

	// RpcCreatePrivateTable is the Nakama RPC id clients call to open an invite-only table.
	RpcCreatePrivateTable = "create_private_table"

	// MatchNameTichu is the authoritative match handler name registered with Nakama.
	MatchNameTichu = "tichu_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame             int64 = 1
	OpPlayCards             int64 = 2
	OpPassTurn              int64 = 3
	OpDeclareGrandTichu     int64 = 4
	OpDeclareTichu          int64 = 5
	OpSubmitPassAssignment  int64 = 6
	OpSetWish               int64 = 7
	OpChooseDragonRecipient int64 = 8

	// Server -> Client events
	OpMatchState       int64 = 100
	OpRoundStarted     int64 = 101
	OpHandUpdated      int64 = 102 // send privately
	OpGrandTichu       int64 = 103
	OpPassingStarted   int64 = 104
	OpTichuCalled      int64 = 105
	OpPassSubmitted    int64 = 106
	OpPassingCompleted int64 = 107
	OpCardPlayed       int64 = 108
	OpTurnPassed       int64 = 109
	OpTrickWon         int64 = 110
	OpWishRequested    int64 = 111
	OpWishSet          int64 = 112
	OpDragonChoice     int64 = 113
	OpDragonGifted     int64 = 114
	OpPlayerFinished   int64 = 115
	OpRoundSettled     int64 = 116
	OpMatchEnded       int64 = 117
	OpGameError        int64 = 120
)
