package domain

// Play is one combo laid on the trick by a seat.
type Play struct {
	Seat  int
	Combo Combo
}

// Trick is the ordered sequence of plays since the last trick reset.
type Trick struct {
	Plays []Play
}

// Empty reports whether no combo is on the table.
func (t *Trick) Empty() bool {
	return len(t.Plays) == 0
}

// Top returns the most recent play, or nil on an empty trick.
func (t *Trick) Top() *Play {
	if len(t.Plays) == 0 {
		return nil
	}
	return &t.Plays[len(t.Plays)-1]
}

// Add appends a play to the trick.
func (t *Trick) Add(seat int, combo Combo) {
	t.Plays = append(t.Plays, Play{Seat: seat, Combo: combo})
}

// Cards returns every card in the trick, oldest play first.
func (t *Trick) Cards() []Card {
	var cards []Card
	for _, p := range t.Plays {
		cards = append(cards, p.Combo.Cards...)
	}
	return cards
}

// Reset clears the trick for the next lead.
func (t *Trick) Reset() {
	t.Plays = nil
}
