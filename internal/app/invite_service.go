package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// InviteService issues and verifies signed invite tokens for private
// tables. An invite binds a match ID to the inviting user and expires on
// its own, so the table owner never has to revoke anything.
type InviteService struct {
	secret string
	issuer string
	ttl    time.Duration
}

// Invite is the verified content of an invite token.
type Invite struct {
	MatchID   string
	InviterID string
}

func NewInviteService(secret, issuer string, ttl time.Duration) *InviteService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &InviteService{secret: secret, issuer: issuer, ttl: ttl}
}

// IssueToken signs an invite for the given match on behalf of the inviter.
func (s *InviteService) IssueToken(matchID, inviterID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("invite service is nil")
	}
	if matchID == "" {
		return "", fmt.Errorf("match id is required")
	}
	if inviterID == "" {
		return "", fmt.Errorf("inviter is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("invite config is incomplete")
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": inviterID,
		"mid": matchID,
		"exp": time.Now().Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// VerifyToken checks the signature, issuer and expiry of an invite token
// and returns its content.
func (s *InviteService) VerifyToken(tokenString string) (*Invite, error) {
	if s == nil || s.secret == "" {
		return nil, fmt.Errorf("invite config is incomplete")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse invite token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invite token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invite claims are malformed")
	}
	if iss, _ := claims["iss"].(string); iss != s.issuer {
		return nil, fmt.Errorf("invite issuer mismatch")
	}

	matchID, _ := claims["mid"].(string)
	inviterID, _ := claims["sub"].(string)
	if matchID == "" || inviterID == "" {
		return nil, fmt.Errorf("invite claims are incomplete")
	}

	return &Invite{MatchID: matchID, InviterID: inviterID}, nil
}
