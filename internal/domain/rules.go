package domain

// CanBeat determines whether next may be played on top of prev. Non-bomb
// combos must match prev's type and size and carry a strictly higher rank.
// A four-of-a-kind bomb beats everything except a straight bomb; a straight
// bomb beats everything except a longer or higher straight bomb.
func CanBeat(prev, next Combo) bool {
	switch next.Type {
	case ComboInvalid, ComboDog:
		return false
	case ComboBombStraight:
		if prev.Type == ComboBombStraight {
			// The 100*length rank factor makes longer bombs win outright.
			return next.Rank > prev.Rank
		}
		return true
	case ComboBomb4Kind:
		switch prev.Type {
		case ComboBombStraight:
			return false
		case ComboBomb4Kind:
			return next.Rank > prev.Rank
		default:
			return true
		}
	}
	if prev.Type.IsBomb() {
		return false
	}
	if next.Type != prev.Type || next.Size != prev.Size {
		return false
	}
	return next.Rank > prev.Rank
}

// WishBlocks reports whether an outstanding wish forbids the candidate play.
// The wish binds as soon as the wished rank is in the acting player's hand
// and the candidate does not include it; whether any combo containing the
// rank could actually beat the trick is deliberately not checked here.
func WishBlocks(wish string, hand []Card, candidate []Card) bool {
	if wish == "" {
		return false
	}
	return ContainsName(hand, wish) && !ContainsName(candidate, wish)
}
