package qtable

// HandSize is the number of cards each player holds at the start of a hand.
// The game rules are fixed around this constant; smaller sizes are only used
// by tests, which is why the encoding functions take the size explicitly.
const HandSize = 7

// NumStates returns the size of the syntactic id space for a hand size: one
// bit per card value per side plus the two flag bits.
func NumStates(handSize int) uint32 {
	return 1 << (2 + 2*handSize)
}

// Encode packs a decision point into its table id. own and opp are the
// remaining card values for the acting player and its opponent; first marks
// whether the acting player leads the current round; oppOdd is the parity of
// the opponent's already-revealed card and is only meaningful when acting
// second (callers pass false as a placeholder when first is true).
//
// Layout: own card v sets bit v+1, opponent card v sets bit v+1+handSize,
// bit 1 is the first-mover flag and bit 0 the odd flag. The function is a
// bijection on the reachable state set.
func Encode(handSize int, own, opp []int, first, oppOdd bool) uint32 {
	var id uint32
	for _, v := range own {
		id |= 1 << uint(v+1)
	}
	for _, v := range opp {
		id |= 1 << uint(v+1+handSize)
	}
	if first {
		id |= 0b10
	}
	if oppOdd {
		id |= 0b01
	}
	return id
}
