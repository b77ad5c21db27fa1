package policy

import (
	"github.com/lox/highcard/internal/qtable"
)

// TablePolicy chooses cards by looking the current state up in a Q-table and
// delegating to a Selector. It satisfies match.Chooser.
type TablePolicy struct {
	table     *qtable.Table
	selector  *Selector
	epsilon   float64
	softBound float64
}

// NewTablePolicy returns a policy reading from table. epsilon and softBound
// follow the Selector semantics; a deployed agent uses epsilon 0 and a fully
// random baseline uses epsilon 1.
func NewTablePolicy(table *qtable.Table, selector *Selector, epsilon, softBound float64) *TablePolicy {
	return &TablePolicy{
		table:     table,
		selector:  selector,
		epsilon:   epsilon,
		softBound: softBound,
	}
}

// Choose returns the index of the card to play from hand.
func (p *TablePolicy) Choose(hand, oppHand []int, first, oppOdd bool) (int, error) {
	id := qtable.Encode(p.table.HandSize(), hand, oppHand, first, oppOdd)
	row, err := p.table.Row(id)
	if err != nil {
		return 0, err
	}
	return p.selector.Select(row, p.epsilon, p.softBound), nil
}

// PlaySoftBound returns the softmax/greedy split used by deployed agents:
// softmax while more than half a hand remains, greedy afterwards.
func PlaySoftBound(handSize int) float64 {
	return float64(handSize) / 2
}
