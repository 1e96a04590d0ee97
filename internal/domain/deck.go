package domain

import (
	"fmt"
	"sort"
)

// DeckSize is the fixed card count of a Tichu deck.
const DeckSize = 56

// NewDeck returns the ordered 56-card Tichu deck: 13 ranks in four suits
// plus the four specials.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, name := range standardNames {
			deck = append(deck, Card{
				Name:   name,
				Suit:   suit,
				Rank:   StandardRank(name),
				Points: standardPoints[name],
			})
		}
	}
	deck = append(deck,
		Card{Name: NameMahJong, Rank: RankMahJong},
		Card{Name: NameDog, Rank: RankDog},
		Card{Name: NamePhoenix, Rank: RankPhoenix, Points: -25},
		Card{Name: NameDragon, Rank: RankDragon, Points: 25},
	)
	return deck
}

// SortHand orders cards by ascending rank in place.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool { return cards[i].Rank < cards[j].Rank })
}

// CardPoints sums the point values of the given cards.
func CardPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points
	}
	return total
}

// FindCards resolves wire identities against a hand. Every ref must match a
// card in the hand and no two refs may name the same card; otherwise the
// whole lookup fails and no cards are returned.
func FindCards(hand []Card, refs []CardRef) ([]Card, error) {
	found := make([]Card, 0, len(refs))
	used := make(map[CardRef]bool, len(refs))
	for _, ref := range refs {
		if used[ref] {
			return nil, fmt.Errorf("card %s referenced twice", ref.Name)
		}
		matched := false
		for _, c := range hand {
			if ref.Matches(c) {
				found = append(found, c)
				used[ref] = true
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("card %s not in hand", ref.Name)
		}
	}
	return found, nil
}

// RemoveCards returns the hand with the given cards removed. The removal is
// all-or-nothing: if any card is missing the hand is returned unchanged with
// an error.
func RemoveCards(hand []Card, toRemove []Card) ([]Card, error) {
	out := append([]Card{}, hand...)
	for _, rc := range toRemove {
		idx := -1
		for i, c := range out {
			if c == rc {
				idx = i
				break
			}
		}
		if idx < 0 {
			return hand, fmt.Errorf("card %s not in hand", rc.ID())
		}
		out = append(out[:idx], out[idx+1:]...)
	}
	return out, nil
}

// ContainsName reports whether any card carries the given name.
func ContainsName(cards []Card, name string) bool {
	for _, c := range cards {
		if c.Name == name {
			return true
		}
	}
	return false
}
