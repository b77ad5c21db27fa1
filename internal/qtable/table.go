// Package qtable implements the state encoding and the sparse action-value
// table the policy learns into.
package qtable

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/highcard/internal/fileutil"
)

var (
	// ErrUnknownState is returned when a state id has no table entry. Only
	// unreachable ids are absent, so hitting this during training or play
	// indicates a driver bug rather than a user-facing condition.
	ErrUnknownState = errors.New("unknown state")

	// ErrIndexOutOfRange is returned when an action index exceeds the
	// action-value vector for a state.
	ErrIndexOutOfRange = errors.New("action index out of range")
)

// Table maps reachable state ids to action-value vectors, one value per
// remaining own card in ascending card order. Rows are allocated once by
// Init or restored by Read, mutated in place during training, and read-only
// during play. Not safe for concurrent mutation.
type Table struct {
	handSize int
	rows     map[uint32][]float64
}

// New returns an empty table for the given hand size. Call Init or ReadFile
// before use.
func New(handSize int) *Table {
	return &Table{
		handSize: handSize,
		rows:     make(map[uint32][]float64),
	}
}

// HandSize returns the hand size the table was built for.
func (t *Table) HandSize() int {
	return t.handSize
}

// Init allocates a zero row for every reachable state id and discards any
// existing content. An id is reachable when:
//
//   - its low two bits are not the reserved 0b11 pattern (first-mover states
//     ignore the odd flag, so only the odd=false encoding exists for them);
//   - both sides hold the same number of cards, and more than one each
//     (once a single card remains the dominance rule below has already
//     ended the hand, so no decision is taken there);
//   - the two hands' value ranges strictly overlap: min(own) < max(opp) and
//     min(opp) < max(own). The hand ends on the non-strict comparison, so
//     boundary-equal hands never reach another decision.
func (t *Table) Init() {
	t.rows = make(map[uint32][]float64)
	mask := uint32(1)<<uint(t.handSize) - 1
	for id := uint32(0); id < NumStates(t.handSize); id++ {
		if id&0b11 == 0b11 {
			continue
		}
		own := (id >> 2) & mask
		opp := (id >> uint(2+t.handSize)) & mask
		nOwn := bits.OnesCount32(own)
		if nOwn != bits.OnesCount32(opp) || nOwn < 2 {
			continue
		}
		if !overlaps(own, opp) {
			continue
		}
		t.rows[id] = make([]float64, nOwn)
	}
}

// overlaps reports whether the two hand bitmasks strictly overlap in value
// range. Masks must be non-empty.
func overlaps(a, b uint32) bool {
	minA, maxA := bits.TrailingZeros32(a), bits.Len32(a)-1
	minB, maxB := bits.TrailingZeros32(b), bits.Len32(b)-1
	return minA < maxB && minB < maxA
}

// Len returns the number of states present.
func (t *Table) Len() int {
	return len(t.rows)
}

// AbsSum returns the sum of absolute action values across the whole table.
// A freshly initialised table sums to zero; training moves it away.
func (t *Table) AbsSum() float64 {
	var sum float64
	for _, row := range t.rows {
		for _, v := range row {
			sum += math.Abs(v)
		}
	}
	return sum
}

// Row returns the action-value vector for id. The returned slice aliases the
// table's storage; callers must not mutate it outside Update.
func (t *Table) Row(id uint32) ([]float64, error) {
	row, ok := t.rows[id]
	if !ok {
		return nil, fmt.Errorf("state %d: %w", id, ErrUnknownState)
	}
	return row, nil
}

// Max returns the maximum action value for id.
func (t *Table) Max(id uint32) (float64, error) {
	row, err := t.Row(id)
	if err != nil {
		return 0, err
	}
	best := row[0]
	for _, v := range row[1:] {
		if v > best {
			best = v
		}
	}
	return best, nil
}

// Update adds delta to the value at action for id.
func (t *Table) Update(id uint32, action int, delta float64) error {
	row, ok := t.rows[id]
	if !ok {
		return fmt.Errorf("state %d: %w", id, ErrUnknownState)
	}
	if action < 0 || action >= len(row) {
		return fmt.Errorf("state %d action %d of %d: %w", id, action, len(row), ErrIndexOutOfRange)
	}
	row[action] += delta
	return nil
}

// Read replaces the table content with the persisted form: one line per
// state, a leading integer id followed by whitespace-separated float values.
// A malformed token aborts the load.
func (t *Table) Read(r io.Reader) error {
	rows := make(map[uint32][]float64)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return fmt.Errorf("line %d: parse state id %q: %w", lineNum, fields[0], err)
		}
		row := make([]float64, 0, len(fields)-1)
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return fmt.Errorf("line %d: parse value %q: %w", lineNum, f, err)
			}
			row = append(row, v)
		}
		rows[uint32(id)] = row
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read table: %w", err)
	}
	t.rows = rows
	return nil
}

// Write serialises every present state in table iteration order. Lines are
// self-describing by leading id, so the order is immaterial to readers.
func (t *Table) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for id, row := range t.rows {
		if _, err := fmt.Fprintf(bw, "%d", id); err != nil {
			return err
		}
		for _, v := range row {
			if _, err := fmt.Fprintf(bw, " %g", v); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadFile loads the table from path. A missing file is not an error: the
// table falls back to a fresh Init and logs a notice, matching the
// first-run experience where no trained table exists yet.
func (t *Table) ReadFile(path string, logger *log.Logger) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("table file not found, initialising fresh table", "path", path)
		t.Init()
		return nil
	}
	if err != nil {
		return fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	if err := t.Read(f); err != nil {
		return fmt.Errorf("load table %s: %w", path, err)
	}
	return nil
}

// WriteFile persists the table to path atomically.
func (t *Table) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := t.Write(&buf); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}
