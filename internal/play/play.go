// Package play runs an interactive hand against the trained policy.
package play

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/highcard/internal/match"
	"github.com/lox/highcard/internal/policy"
	"github.com/lox/highcard/internal/qtable"
	"github.com/lox/highcard/internal/randutil"
)

// Player indices within an interactive hand.
const (
	Human    = 0
	Computer = 1
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	winStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	loseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	tieStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// Game wires a human on in/out against the table's greedy policy.
type Game struct {
	table *qtable.Table
	in    io.Reader
	out   io.Writer
	rng   *rand.Rand
}

// New returns a game reading human moves from in and narrating to out.
func New(table *qtable.Table, in io.Reader, out io.Writer, rng *rand.Rand) *Game {
	return &Game{table: table, in: in, out: out, rng: rng}
}

// Run plays a single hand and prints the outcome. The opening leader is drawn
// at random, as in a fresh deal.
func (g *Game) Run() error {
	n := g.table.HandSize()

	fmt.Fprintln(g.out, headerStyle.Render(fmt.Sprintf("High card duel: cards 1-%d, higher card takes the round.", n)))

	selector := policy.NewSelector(randutil.Split(g.rng))
	computer := policy.NewTablePolicy(g.table, selector, 0, policy.PlaySoftBound(n))
	human := &humanChooser{scanner: bufio.NewScanner(g.in), out: g.out}

	nar := &narrator{out: g.out}
	driver := match.New(n, [2]match.Chooser{Human: human, Computer: computer}, g.rng,
		match.WithObserver(nar))

	res, err := driver.Play()
	if err != nil {
		return err
	}

	if res.EarlyStop {
		fmt.Fprintln(g.out, faintStyle.Render("Remaining rounds are already decided; hand ends early."))
	}
	fmt.Fprintf(g.out, "Final score: you %d, computer %d.\n", res.Scores[Human], res.Scores[Computer])
	switch res.Winner() {
	case Human:
		fmt.Fprintln(g.out, winStyle.Render("You win the hand!"))
	case Computer:
		fmt.Fprintln(g.out, loseStyle.Render("The computer wins the hand."))
	default:
		fmt.Fprintln(g.out, tieStyle.Render("The hand is a tie."))
	}
	return nil
}

// humanChooser prompts until the input names a card still in hand. It
// satisfies match.Chooser.
type humanChooser struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (h *humanChooser) Choose(hand, oppHand []int, first, oppOdd bool) (int, error) {
	if first {
		fmt.Fprintln(h.out, headerStyle.Render("You lead this round."))
	} else {
		parity := "even"
		if oppOdd {
			parity = "odd"
		}
		fmt.Fprintf(h.out, "The computer has played an %s card.\n", parity)
	}
	fmt.Fprintf(h.out, "Your hand: %s\n", formatHand(hand))

	for {
		fmt.Fprint(h.out, "Play a card: ")
		if !h.scanner.Scan() {
			if err := h.scanner.Err(); err != nil {
				return 0, err
			}
			return 0, errors.New("input closed before a card was chosen")
		}
		text := strings.TrimSpace(h.scanner.Text())
		v, err := strconv.Atoi(text)
		if err != nil {
			fmt.Fprintf(h.out, "%q is not a number.\n", text)
			continue
		}
		for i, c := range hand {
			if c == v {
				return i, nil
			}
		}
		fmt.Fprintf(h.out, "%d is not in your hand.\n", v)
	}
}

// narrator prints each round's outcome and the running score.
type narrator struct {
	out    io.Writer
	scores [2]int
}

func (n *narrator) RoundStarted(round int, hands [2][]int, leader int) {
	fmt.Fprintln(n.out, faintStyle.Render(fmt.Sprintf("-- round %d --", round)))
}

func (n *narrator) RoundPlayed(r match.RoundResult) {
	var you, them int
	if r.Leader == Human {
		you, them = r.LeaderCard, r.FollowerCard
	} else {
		you, them = r.FollowerCard, r.LeaderCard
	}
	fmt.Fprintf(n.out, "You played %d, the computer played %d. ", you, them)

	switch r.Winner {
	case Human:
		n.scores[Human]++
		fmt.Fprintln(n.out, winStyle.Render("You take the round."))
	case Computer:
		n.scores[Computer]++
		fmt.Fprintln(n.out, loseStyle.Render("The computer takes the round."))
	default:
		fmt.Fprintln(n.out, tieStyle.Render("The round is tied."))
	}
	fmt.Fprintf(n.out, "Score: you %d, computer %d.\n", n.scores[Human], n.scores[Computer])
}

func formatHand(hand []int) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, " ")
}
