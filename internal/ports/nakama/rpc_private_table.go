package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tichu/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	inviteSecretEnvKey = "tichu_invite_secret"
	inviteIssuer       = "tichu-server"
	inviteTTL          = 24 * time.Hour
)

// CreatePrivateTableRequest carries optional table parameters.
type CreatePrivateTableRequest struct {
	Tier string `json:"tier,omitempty"`
}

// CreatePrivateTableResponse returns the new match and the invite token that
// friends must present in their join metadata.
type CreatePrivateTableResponse struct {
	MatchID     string `json:"match_id"`
	InviteToken string `json:"invite_token"`
}

// inviteServiceFromEnv builds an invite token service from runtime env vars.
// Returns nil when no secret is configured.
func inviteServiceFromEnv(ctx context.Context) *app.InviteService {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	secret := env[inviteSecretEnvKey]
	if secret == "" {
		return nil
	}
	return app.NewInviteService(secret, inviteIssuer, inviteTTL)
}

func rpcCreatePrivateTable(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", fmt.Errorf("authenticated user required")
	}

	invites := inviteServiceFromEnv(ctx)
	if invites == nil {
		logger.Error("rpcCreatePrivateTable: %s is not configured.", inviteSecretEnvKey)
		return "", fmt.Errorf("private tables are not available")
	}

	var req CreatePrivateTableRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			logger.Warn("rpcCreatePrivateTable: Ignoring malformed payload: %v", err)
		}
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameTichu, map[string]interface{}{
		"private": true,
		"tier":    req.Tier,
	})
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	token, err := invites.IssueToken(matchID, userID)
	if err != nil {
		logger.Error("rpcCreatePrivateTable: Failed to issue invite token: %v", err)
		return "", err
	}

	resp := CreatePrivateTableResponse{MatchID: matchID, InviteToken: token}
	b, _ := json.Marshal(resp)
	return string(b), nil
}
