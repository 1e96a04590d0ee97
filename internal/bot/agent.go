package bot

import (
	"fmt"

	"tichu/internal/domain"
)

// Agent represents an autonomous bot player occupying one seat.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgent builds an agent for a provisioned bot identity. Harder bots are
// allowed to spend their bombs.
func NewAgent(botID string) (*Agent, error) {
	identity, ok := GetBotConfig(botID)
	if !ok {
		return nil, fmt.Errorf("unknown bot id: %s", botID)
	}

	brain := &StandardBrain{UseBombs: identity.Difficulty == "hard"}
	return &Agent{
		ID:       identity.UserID,
		Name:     identity.DisplayName,
		Strategy: brain,
	}, nil
}

func (a *Agent) seat(m *domain.Match) (int, error) {
	seat := m.SeatOf(a.ID)
	if seat < 0 {
		return 0, fmt.Errorf("bot %s not seated", a.ID)
	}
	return seat, nil
}

// DeclareGrandTichu answers the agent's pre-deal declaration.
func (a *Agent) DeclareGrandTichu(m *domain.Match) (bool, error) {
	seat, err := a.seat(m)
	if err != nil {
		return false, err
	}
	return a.Strategy.DeclareGrandTichu(m, seat), nil
}

// ChoosePass picks the agent's three-card assignment.
func (a *Agent) ChoosePass(m *domain.Match) (map[int]domain.CardRef, error) {
	seat, err := a.seat(m)
	if err != nil {
		return nil, err
	}
	return a.Strategy.ChoosePass(m, seat), nil
}

// PlayTurn decides the agent's action on its turn.
func (a *Agent) PlayTurn(m *domain.Match) (Move, error) {
	seat, err := a.seat(m)
	if err != nil {
		return Move{Pass: true}, err
	}
	return a.Strategy.PlayTurn(m, seat), nil
}

// ChooseWish picks the agent's wish after it played the Mah Jong.
func (a *Agent) ChooseWish(m *domain.Match) (string, error) {
	seat, err := a.seat(m)
	if err != nil {
		return "", err
	}
	return a.Strategy.ChooseWish(m, seat), nil
}

// ChooseDragonRecipient picks the opponent receiving the agent's Dragon
// trick.
func (a *Agent) ChooseDragonRecipient(m *domain.Match, candidates []int) (int, error) {
	seat, err := a.seat(m)
	if err != nil {
		return 0, err
	}
	return a.Strategy.ChooseDragonRecipient(m, seat, candidates), nil
}
