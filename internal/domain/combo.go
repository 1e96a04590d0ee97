package domain

// ComboType identifies the shape of a played card set.
type ComboType int

const (
	ComboInvalid ComboType = iota
	ComboDog
	ComboSingle
	ComboPair
	ComboTriple
	ComboFullHouse
	ComboStraight
	ComboBomb4Kind
	ComboBombStraight
)

func (t ComboType) String() string {
	switch t {
	case ComboDog:
		return "dog"
	case ComboSingle:
		return "single"
	case ComboPair:
		return "pair"
	case ComboTriple:
		return "triple"
	case ComboFullHouse:
		return "full_house"
	case ComboStraight:
		return "straight"
	case ComboBomb4Kind:
		return "bomb_4kind"
	case ComboBombStraight:
		return "bomb_straight"
	default:
		return "invalid"
	}
}

// IsBomb reports whether the type beats out of sequence.
func (t ComboType) IsBomb() bool {
	return t == ComboBomb4Kind || t == ComboBombStraight
}

// Combo is the classification of a candidate card set. It is recomputed for
// every play and never stored outside the active trick.
type Combo struct {
	Type            ComboType
	Cards           []Card
	Rank            float64
	Size            int
	ContainsPhoenix bool
	ContainsDragon  bool
}

// IdentifyCombo classifies a card set. prev is the top combo of the active
// trick, or nil when the candidate would open a trick; it is only consulted
// for the rank of a Phoenix played alone.
func IdentifyCombo(cards []Card, prev *Combo) Combo {
	combo := Combo{
		Cards:           cards,
		Size:            len(cards),
		ContainsPhoenix: ContainsName(cards, NamePhoenix),
		ContainsDragon:  ContainsName(cards, NameDragon),
	}
	phoenixTop := false
	combo.Type, phoenixTop = classify(cards, combo.ContainsPhoenix)
	combo.Rank = comboRank(combo, prev, phoenixTop)
	return combo
}

func classify(cards []Card, phoenix bool) (ComboType, bool) {
	counts := map[string]int{}
	for _, c := range cards {
		counts[c.Name]++
	}

	// The Dog is only ever playable alone.
	if len(cards) > 1 && counts[NameDog] > 0 {
		return ComboInvalid, false
	}

	switch len(cards) {
	case 1:
		if cards[0].Name == NameDog {
			return ComboDog, false
		}
		return ComboSingle, false
	case 2:
		if len(counts) == 1 {
			return ComboPair, false
		}
		if phoenix && len(counts) == 2 {
			return ComboPair, false
		}
	case 3:
		if len(counts) == 1 {
			return ComboTriple, false
		}
		if phoenix && len(counts) == 2 {
			return ComboTriple, false
		}
	case 4:
		if len(counts) == 1 {
			return ComboBomb4Kind, false
		}
	}

	if len(cards) == 5 {
		if shapeIs(counts, 2, 3) {
			return ComboFullHouse, false
		}
		if phoenix && (shapeIs(counts, 1, 2, 2) || shapeIs(counts, 1, 1, 3)) {
			return ComboFullHouse, false
		}
	}

	if len(cards) >= 5 {
		if ok, phoenixTop := isStraight(cards, phoenix); ok {
			if sameSuit(cards) {
				return ComboBombStraight, phoenixTop
			}
			return ComboStraight, phoenixTop
		}
	}

	return ComboInvalid, false
}

// shapeIs reports whether the multiplicity multiset matches want exactly.
func shapeIs(counts map[string]int, want ...int) bool {
	if len(counts) != len(want) {
		return false
	}
	remaining := append([]int{}, want...)
	for _, n := range counts {
		idx := -1
		for i, w := range remaining {
			if w == n {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return true
}

func sameSuit(cards []Card) bool {
	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// isStraight reports whether the ranks form a contiguous run of exactly
// len(cards) values. With the Phoenix, every insertion point over
// [min, max+1] is tried; the second return value marks a Phoenix sitting at
// the top edge of the run, which nudges the straight's rank.
func isStraight(cards []Card, phoenix bool) (bool, bool) {
	seen := map[int]bool{}
	values := make([]int, 0, len(cards))
	for _, c := range cards {
		if !seen[c.Rank] {
			seen[c.Rank] = true
			values = append(values, c.Rank)
		}
	}
	if len(values) != len(cards) {
		return false, false
	}
	sortInts(values)

	if !phoenix {
		return contiguous(values), false
	}

	// Drop the Phoenix's own rank (0, always the minimum) and try each fill.
	values = values[1:]
	lo, hi := values[0], values[len(values)-1]
	for fill := lo; fill <= hi+1; fill++ {
		trial := append([]int{}, values...)
		trial = append(trial, fill)
		sortInts(trial)
		if contiguous(trial) {
			return true, fill == hi+1
		}
	}
	return false, false
}

func contiguous(values []int) bool {
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return false
		}
	}
	return true
}

func sortInts(v []int) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}

func comboRank(combo Combo, prev *Combo, phoenixTop bool) float64 {
	cards := combo.Cards
	switch combo.Type {
	case ComboSingle:
		if combo.ContainsPhoenix {
			// A lone Phoenix beats the current top card by half a rank,
			// capped just under the Dragon; as an opener it sits just above
			// the Mah Jong.
			if prev != nil {
				r := prev.Rank + 0.5
				if r > 14.5 {
					r = 14.5
				}
				return r
			}
			return 1.5
		}
		return float64(cards[0].Rank)
	case ComboPair, ComboTriple:
		for _, c := range cards {
			if c.Name != NamePhoenix {
				return float64(c.Rank)
			}
		}
		return -1
	case ComboBomb4Kind:
		return float64(cards[0].Rank)
	case ComboFullHouse:
		return fullHouseRank(cards, combo.ContainsPhoenix)
	case ComboStraight, ComboBombStraight:
		high := 0
		for _, c := range cards {
			if c.Rank > high {
				high = c.Rank
			}
		}
		rank := float64(100*len(cards) + high)
		if phoenixTop {
			rank++
		}
		return rank
	default:
		return -1
	}
}

// fullHouseRank is the rank of the triple group. When the Phoenix completes
// the triple, the higher pair claims it.
func fullHouseRank(cards []Card, phoenix bool) float64 {
	counts := map[int]int{}
	for _, c := range cards {
		counts[c.Rank]++
	}
	best := 0
	for rank, n := range counts {
		if n == 3 {
			return float64(rank)
		}
		if phoenix && n == 2 && rank > best {
			best = rank
		}
	}
	return float64(best)
}
