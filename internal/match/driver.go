// Package match drives one full hand of the card duel between two choosers.
// Both players start with the values 1..N, alternately reveal one card per
// round, the higher card takes the round point, and the round winner leads
// the next round. Once one side's remaining cards all dominate the
// opponent's the hand ends early with the remaining rounds awarded as a
// bonus.
package match

import (
	"fmt"
	rand "math/rand/v2"
)

// Chooser selects which card to play. hand and oppHand are the ascending
// remaining cards for the chooser and its opponent as visible at decision
// time: when acting second, oppHand still includes the card the leader just
// revealed. first marks whether the chooser leads this round; oppOdd is the
// parity of the leader's revealed card and is only meaningful when first is
// false.
type Chooser interface {
	Choose(hand, oppHand []int, first, oppOdd bool) (int, error)
}

// Observer receives per-round callbacks from the driver. The trainer uses
// them to apply TD updates; the interactive game uses them for narration.
type Observer interface {
	// RoundStarted fires before the leader chooses.
	RoundStarted(round int, hands [2][]int, leader int)
	// RoundPlayed fires after both cards are revealed and the round is
	// scored.
	RoundPlayed(r RoundResult)
}

// RoundResult describes one completed round.
type RoundResult struct {
	Round            int
	Leader, Follower int      // player indices
	LeaderHand       []int    // leader's hand at decision time (card still included)
	FollowerHand     []int    // follower's hand at decision time
	LeaderAction     int      // chosen index into LeaderHand
	FollowerAction   int      // chosen index into FollowerHand
	LeaderCard       int
	FollowerCard     int
	Winner           int      // player index, or -1 on a tied round
	Remaining        [2][]int // hands after the round
	Ended            bool     // hand over after this round
	NextLeader       int      // leader of the next round when the hand continues
}

// Result is the terminal outcome of a hand.
type Result struct {
	Scores    [2]int
	Rounds    int
	EarlyStop bool
}

// Winner returns the index of the player with the higher aggregate score,
// or -1 on a tie.
func (r Result) Winner() int {
	switch {
	case r.Scores[0] > r.Scores[1]:
		return 0
	case r.Scores[1] > r.Scores[0]:
		return 1
	default:
		return -1
	}
}

// Driver simulates hands between two choosers.
type Driver struct {
	handSize    int
	players     [2]Chooser
	rng         *rand.Rand
	obs         Observer
	firstLeader int // -1 draws the opening leader at random
}

// Option configures a Driver.
type Option func(*Driver)

// WithObserver attaches per-round callbacks.
func WithObserver(obs Observer) Option {
	return func(d *Driver) { d.obs = obs }
}

// WithFirstLeader fixes the opening leader instead of drawing it at random.
func WithFirstLeader(p int) Option {
	return func(d *Driver) { d.firstLeader = p }
}

// New returns a driver for hands of the given size between the two players.
func New(handSize int, players [2]Chooser, rng *rand.Rand, opts ...Option) *Driver {
	d := &Driver{
		handSize:    handSize,
		players:     players,
		rng:         rng,
		firstLeader: -1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Play runs one full hand and returns its outcome.
func (d *Driver) Play() (Result, error) {
	var hands [2][]int
	for i := range hands {
		hands[i] = make([]int, d.handSize)
		for v := 1; v <= d.handSize; v++ {
			hands[i][v-1] = v
		}
	}

	leader := d.firstLeader
	if leader < 0 {
		leader = d.rng.IntN(2)
	}

	var res Result
	for len(hands[0]) > 0 {
		follower := 1 - leader
		res.Rounds++

		if d.obs != nil {
			d.obs.RoundStarted(res.Rounds, [2][]int{cloneHand(hands[0]), cloneHand(hands[1])}, leader)
		}

		leaderHand := cloneHand(hands[leader])
		followerHand := cloneHand(hands[follower])

		lAction, err := d.players[leader].Choose(hands[leader], hands[follower], true, false)
		if err != nil {
			return res, fmt.Errorf("player %d choose: %w", leader, err)
		}
		if lAction < 0 || lAction >= len(hands[leader]) {
			return res, fmt.Errorf("player %d chose index %d of %d", leader, lAction, len(hands[leader]))
		}
		lCard := hands[leader][lAction]

		// The follower still sees the leader's full hand; the reveal is
		// communicated only as the parity flag.
		fAction, err := d.players[follower].Choose(hands[follower], hands[leader], false, lCard%2 != 0)
		if err != nil {
			return res, fmt.Errorf("player %d choose: %w", follower, err)
		}
		if fAction < 0 || fAction >= len(hands[follower]) {
			return res, fmt.Errorf("player %d chose index %d of %d", follower, fAction, len(hands[follower]))
		}
		fCard := hands[follower][fAction]

		hands[leader] = removeAt(hands[leader], lAction)
		hands[follower] = removeAt(hands[follower], fAction)

		winner := -1
		switch {
		case lCard > fCard:
			winner = leader
		case fCard > lCard:
			winner = follower
		}
		if winner >= 0 {
			res.Scores[winner]++
		}

		nextLeader := leader
		if winner >= 0 {
			nextLeader = winner
		}

		ended := len(hands[0]) == 0
		if !ended {
			ended = d.applyDominance(&hands, &res)
		}

		if d.obs != nil {
			d.obs.RoundPlayed(RoundResult{
				Round:          res.Rounds,
				Leader:         leader,
				Follower:       follower,
				LeaderHand:     leaderHand,
				FollowerHand:   followerHand,
				LeaderAction:   lAction,
				FollowerAction: fAction,
				LeaderCard:     lCard,
				FollowerCard:   fCard,
				Winner:         winner,
				Remaining:      [2][]int{cloneHand(hands[0]), cloneHand(hands[1])},
				Ended:          ended,
				NextLeader:     nextLeader,
			})
		}

		if ended {
			break
		}
		leader = nextLeader
	}

	return res, nil
}

// applyDominance checks the early-stop rule: if every remaining card of one
// side is at least the opponent's maximum, all remaining rounds are decided.
// The dominant side scores one point per unplayed round, minus one when the
// boundary values are exactly equal, since that edge card would only tie its
// round.
func (d *Driver) applyDominance(hands *[2][]int, res *Result) bool {
	for i := 0; i < 2; i++ {
		low := hands[i][0]
		oppHigh := hands[1-i][len(hands[1-i])-1]
		if low >= oppHigh {
			bonus := len(hands[i])
			if low == oppHigh {
				bonus--
			}
			res.Scores[i] += bonus
			res.EarlyStop = true
			return true
		}
	}
	return false
}

func cloneHand(h []int) []int {
	out := make([]int, len(h))
	copy(out, h)
	return out
}

func removeAt(h []int, i int) []int {
	return append(h[:i], h[i+1:]...)
}
