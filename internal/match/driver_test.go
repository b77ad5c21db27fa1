package match

import (
	"testing"

	"github.com/lox/highcard/internal/randutil"
)

// scriptedChooser plays a fixed sequence of card values.
type scriptedChooser struct {
	cards []int
	next  int
}

func (c *scriptedChooser) Choose(hand, oppHand []int, first, oppOdd bool) (int, error) {
	v := c.cards[c.next]
	c.next++
	for i, card := range hand {
		if card == v {
			return i, nil
		}
	}
	panic("scripted card not in hand")
}

// recordingChooser captures the view presented at each decision.
type recordingChooser struct {
	scriptedChooser
	firsts  []bool
	oppOdds []bool
	oppLens []int
}

func (c *recordingChooser) Choose(hand, oppHand []int, first, oppOdd bool) (int, error) {
	c.firsts = append(c.firsts, first)
	c.oppOdds = append(c.oppOdds, oppOdd)
	c.oppLens = append(c.oppLens, len(oppHand))
	return c.scriptedChooser.Choose(hand, oppHand, first, oppOdd)
}

func TestPlayEarlyStopBonus(t *testing.T) {
	// Player 0 burns its low cards while player 1 spends its high ones.
	// After three rounds player 0 holds {4,5} against {2,3}: every
	// remaining card wins, so the last two rounds are awarded unplayed.
	a := &scriptedChooser{cards: []int{1, 2, 3}}
	b := &scriptedChooser{cards: []int{5, 4, 1}}

	d := New(5, [2]Chooser{a, b}, randutil.New(1), WithFirstLeader(0))
	res, err := d.Play()
	if err != nil {
		t.Fatalf("Play: %v", err)
	}

	if !res.EarlyStop {
		t.Error("expected early stop")
	}
	if res.Rounds != 3 {
		t.Errorf("Rounds = %d, want 3", res.Rounds)
	}
	if res.Scores != [2]int{3, 2} {
		t.Errorf("Scores = %v, want [3 2]", res.Scores)
	}
	if res.Winner() != 0 {
		t.Errorf("Winner = %d, want 0", res.Winner())
	}
}

func TestPlayBoundaryEqualBonus(t *testing.T) {
	// Both open with their 1, leaving 2 vs 2. The dominance rule fires but
	// the boundary cards are equal, so no bonus point is scored.
	a := &scriptedChooser{cards: []int{1}}
	b := &scriptedChooser{cards: []int{1}}

	d := New(2, [2]Chooser{a, b}, randutil.New(1), WithFirstLeader(0))
	res, err := d.Play()
	if err != nil {
		t.Fatalf("Play: %v", err)
	}

	if !res.EarlyStop {
		t.Error("expected early stop")
	}
	if res.Rounds != 1 {
		t.Errorf("Rounds = %d, want 1", res.Rounds)
	}
	if res.Scores != [2]int{0, 0} {
		t.Errorf("Scores = %v, want [0 0]", res.Scores)
	}
	if res.Winner() != -1 {
		t.Errorf("Winner = %d, want -1 for a tie", res.Winner())
	}
}

func TestPlayRoundWinnerLeadsNext(t *testing.T) {
	// Round 1: leader 0 plays 1, follower 1 plays 2 and takes the round,
	// so player 1 leads round 2.
	a := &recordingChooser{scriptedChooser: scriptedChooser{cards: []int{1, 2}}}
	b := &recordingChooser{scriptedChooser: scriptedChooser{cards: []int{2, 3}}}

	d := New(3, [2]Chooser{a, b}, randutil.New(1), WithFirstLeader(0))
	if _, err := d.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	if !a.firsts[0] {
		t.Error("player 0 should lead round 1")
	}
	if b.firsts[0] {
		t.Error("player 1 should follow round 1")
	}
	if len(b.firsts) < 2 {
		t.Fatal("expected a second round")
	}
	if !b.firsts[1] {
		t.Error("player 1 won round 1 and should lead round 2")
	}
}

func TestPlayFollowerSeesParityAndFullHand(t *testing.T) {
	a := &scriptedChooser{cards: []int{3, 1, 2}}
	b := &recordingChooser{scriptedChooser: scriptedChooser{cards: []int{2, 3, 1}}}

	d := New(3, [2]Chooser{a, b}, randutil.New(1), WithFirstLeader(0))
	if _, err := d.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	// Leader revealed 3, an odd card, but the follower still sees all
	// three opposing cards: the reveal travels only as the parity flag.
	if !b.oppOdds[0] {
		t.Error("follower should see oppOdd for leader card 3")
	}
	if b.oppLens[0] != 3 {
		t.Errorf("follower saw %d opposing cards, want 3", b.oppLens[0])
	}
}

func TestPlayTieKeepsLeader(t *testing.T) {
	a := &recordingChooser{scriptedChooser: scriptedChooser{cards: []int{2, 1, 3}}}
	b := &recordingChooser{scriptedChooser: scriptedChooser{cards: []int{2, 3, 1}}}

	d := New(3, [2]Chooser{a, b}, randutil.New(1), WithFirstLeader(0))
	if _, err := d.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	// Round 1 ties on 2 vs 2, so player 0 leads again.
	if len(a.firsts) < 2 {
		t.Fatal("expected a second round")
	}
	if !a.firsts[1] {
		t.Error("tied round should keep the same leader")
	}
}

type roundCollector struct {
	rounds []RoundResult
}

func (c *roundCollector) RoundStarted(int, [2][]int, int) {}
func (c *roundCollector) RoundPlayed(r RoundResult)       { c.rounds = append(c.rounds, r) }

func TestPlayObserverSeesDecisionTimeHands(t *testing.T) {
	a := &scriptedChooser{cards: []int{1, 2, 3}}
	b := &scriptedChooser{cards: []int{5, 4, 1}}
	obs := &roundCollector{}

	d := New(5, [2]Chooser{a, b}, randutil.New(1), WithFirstLeader(0), WithObserver(obs))
	if _, err := d.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	if len(obs.rounds) != 3 {
		t.Fatalf("observed %d rounds, want 3", len(obs.rounds))
	}

	r1 := obs.rounds[0]
	if r1.Leader != 0 || r1.Follower != 1 {
		t.Fatalf("round 1 leader/follower = %d/%d", r1.Leader, r1.Follower)
	}
	// Hands are snapshots from before the cards were removed.
	if len(r1.LeaderHand) != 5 || len(r1.FollowerHand) != 5 {
		t.Errorf("round 1 hand sizes = %d/%d, want 5/5", len(r1.LeaderHand), len(r1.FollowerHand))
	}
	if r1.LeaderCard != 1 || r1.FollowerCard != 5 {
		t.Errorf("round 1 cards = %d/%d, want 1/5", r1.LeaderCard, r1.FollowerCard)
	}
	if r1.Winner != 1 || r1.NextLeader != 1 {
		t.Errorf("round 1 winner/nextLeader = %d/%d, want 1/1", r1.Winner, r1.NextLeader)
	}
	if len(r1.Remaining[0]) != 4 || len(r1.Remaining[1]) != 4 {
		t.Errorf("round 1 remaining sizes = %d/%d, want 4/4", len(r1.Remaining[0]), len(r1.Remaining[1]))
	}

	last := obs.rounds[2]
	if !last.Ended {
		t.Error("final observed round should be marked ended")
	}
}
