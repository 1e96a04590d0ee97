package domain

import "fmt"

// Suit identifies one of the four Tichu suits. Special cards carry no suit.
type Suit string

const (
	SuitSpades   Suit = "spades"
	SuitDiamonds Suit = "diamonds"
	SuitHearts   Suit = "hearts"
	SuitClubs    Suit = "clubs"
)

// Suits lists the four suits in deck-construction order.
var Suits = []Suit{SuitSpades, SuitDiamonds, SuitHearts, SuitClubs}

// Special card names. Standard cards use their rank label ("2".."10","J","Q","K","A").
const (
	NameMahJong = "mahjong"
	NameDog     = "dog"
	NamePhoenix = "phoenix"
	NameDragon  = "dragon"
)

// Ranks of the special cards. The Dog sorts below everything; the Phoenix
// ranks contextually and its own rank is only a placeholder.
const (
	RankDog     = -1
	RankPhoenix = 0
	RankMahJong = 1
	RankDragon  = 15
)

// Card is an immutable Tichu card. Identity is the (Name, Suit) pair, which
// is unique within the 56-card deck: each rank label occurs once per suit and
// the four specials are suitless singletons.
type Card struct {
	Name   string `json:"name"`
	Suit   Suit   `json:"suit,omitempty"`
	Rank   int    `json:"rank"`
	Points int    `json:"points"`
}

// IsSpecial reports whether the card is one of the four suitless specials.
func (c Card) IsSpecial() bool {
	return c.Suit == ""
}

// ID returns the stable wire identity of the card.
func (c Card) ID() string {
	if c.Suit == "" {
		return c.Name
	}
	return c.Name + "_" + string(c.Suit)
}

func (c Card) String() string {
	if c.Suit == "" {
		return c.Name
	}
	return fmt.Sprintf("%s of %s", c.Name, c.Suit)
}

var standardNames = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

var standardPoints = map[string]int{"5": 5, "10": 10, "K": 10}

// StandardRank maps a rank label to its ordering value (2..14), or 0 if the
// name is not a standard rank label.
func StandardRank(name string) int {
	for i, n := range standardNames {
		if n == name {
			return i + 2
		}
	}
	return 0
}

// StandardName maps an ordering value (2..14) back to its rank label, or ""
// for out-of-range values.
func StandardName(rank int) string {
	if rank < 2 || rank > 14 {
		return ""
	}
	return standardNames[rank-2]
}

// CardRef is the wire identity of a card in an action request.
type CardRef struct {
	Name string `json:"name"`
	Suit Suit   `json:"suit,omitempty"`
}

// Ref returns the card's wire identity.
func (c Card) Ref() CardRef {
	return CardRef{Name: c.Name, Suit: c.Suit}
}

// Matches reports whether the card is the one the ref names.
func (r CardRef) Matches(c Card) bool {
	return c.Name == r.Name && c.Suit == r.Suit
}
