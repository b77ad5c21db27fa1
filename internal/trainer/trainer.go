// Package trainer runs self-play Q-learning episodes and applies the
// temporal-difference update rule to the shared table.
package trainer

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/highcard/internal/match"
	"github.com/lox/highcard/internal/policy"
	"github.com/lox/highcard/internal/qtable"
	"github.com/lox/highcard/internal/randutil"
)

// Progress is emitted periodically during a training run.
type Progress struct {
	Episode int
	Epochs  int
	States  int     // states present in the table
	Epsilon float64 // decayed exploration rate for the current episode
}

// Trainer owns one training run over an externally constructed table.
type Trainer struct {
	cfg    Config
	table  *qtable.Table
	logger *log.Logger
	seed   int64
}

// New constructs a trainer. The table must already be initialised or loaded.
func New(cfg Config, table *qtable.Table, logger *log.Logger) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Trainer{
		cfg:    cfg,
		table:  table,
		logger: logger,
		seed:   seed,
	}, nil
}

// Seed returns the seed the run draws from, for reproducing a run.
func (t *Trainer) Seed() int64 {
	return t.seed
}

// Run executes the configured number of self-play episodes, mutating the
// table in place. The exploration rate decays per episode as
// epsilon/(1+episode/epochs). Both sides share the table; each episode is a
// fresh hand driven by two exploring policy instances.
func (t *Trainer) Run(ctx context.Context, progress func(Progress)) error {
	rng := randutil.New(t.seed)
	selector := policy.NewSelector(randutil.Split(rng))

	batch := t.cfg.ProgressEvery
	if batch == 0 {
		batch = t.cfg.Epochs / 100
		if batch == 0 {
			batch = 1
		}
	}

	for episode := 0; episode < t.cfg.Epochs; episode++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		epsilon := t.cfg.Epsilon / (1 + float64(episode)/float64(t.cfg.Epochs))

		// Softmax exploitation whenever a real choice exists: greedy
		// collapse is deferred to deployed play.
		players := [2]match.Chooser{
			policy.NewTablePolicy(t.table, selector, epsilon, 1),
			policy.NewTablePolicy(t.table, selector, epsilon, 1),
		}

		upd := &episodeUpdater{cfg: t.cfg, table: t.table}
		driver := match.New(t.cfg.HandSize, players, rng, match.WithObserver(upd))

		res, err := driver.Play()
		if err != nil {
			return err
		}
		if upd.err != nil {
			return upd.err
		}
		if err := upd.finish(res); err != nil {
			return err
		}

		if progress != nil && (episode+1)%batch == 0 {
			progress(Progress{
				Episode: episode + 1,
				Epochs:  t.cfg.Epochs,
				States:  t.table.Len(),
				Epsilon: epsilon,
			})
		}

		if t.cfg.CheckpointPath != "" && t.cfg.CheckpointEvery > 0 && (episode+1)%t.cfg.CheckpointEvery == 0 {
			if err := t.table.WriteFile(t.cfg.CheckpointPath); err != nil {
				return err
			}
			t.logger.Debug("wrote checkpoint", "path", t.cfg.CheckpointPath, "episode", episode+1)
		}
	}
	return nil
}

// step is one recorded trajectory entry: where the side acted, which action
// it took, and the bootstrap term lr*(discount*nextMax - q) captured at
// update time. The terminal pass re-applies the term alongside the flat
// final reward.
type step struct {
	state  uint32
	action int
	boot   float64
}

// episodeUpdater applies the per-round TD update as an Observer and keeps
// each side's trajectory for the terminal shaping pass.
type episodeUpdater struct {
	cfg   Config
	table *qtable.Table
	steps [2][]step
	err   error
}

func (u *episodeUpdater) RoundStarted(int, [2][]int, int) {}

func (u *episodeUpdater) RoundPlayed(r match.RoundResult) {
	if u.err != nil {
		return
	}
	u.err = u.update(r)
}

func (u *episodeUpdater) update(r match.RoundResult) error {
	n := u.cfg.HandSize

	lState := qtable.Encode(n, r.LeaderHand, r.FollowerHand, true, false)
	fState := qtable.Encode(n, r.FollowerHand, r.LeaderHand, false, r.LeaderCard%2 != 0)

	lRow, err := u.table.Row(lState)
	if err != nil {
		return err
	}
	fRow, err := u.table.Row(fState)
	if err != nil {
		return err
	}
	lQ := lRow[r.LeaderAction]
	fQ := fRow[r.FollowerAction]

	var lNext, fNext float64
	if !r.Ended {
		if lNext, err = u.nextMax(r, r.Leader); err != nil {
			return err
		}
		if fNext, err = u.nextMax(r, r.Follower); err != nil {
			return err
		}
	}

	var lReward, fReward float64
	switch r.Winner {
	case r.Leader:
		lReward, fReward = u.cfg.RoundReward, -u.cfg.RoundReward
	case r.Follower:
		lReward, fReward = -u.cfg.RoundReward, u.cfg.RoundReward
	}

	lr, df := u.cfg.LearningRate, u.cfg.Discount
	if err := u.table.Update(lState, r.LeaderAction, lr*(lReward+df*lNext-lQ)); err != nil {
		return err
	}
	if err := u.table.Update(fState, r.FollowerAction, lr*(fReward+df*fNext-fQ)); err != nil {
		return err
	}

	u.steps[r.Leader] = append(u.steps[r.Leader], step{lState, r.LeaderAction, lr * (df*lNext - lQ)})
	u.steps[r.Follower] = append(u.steps[r.Follower], step{fState, r.FollowerAction, lr * (df*fNext - fQ)})
	return nil
}

// nextMax is the TD bootstrap for player p at the resulting state. The side
// leading the next round reads its single first-mover row; the side acting
// second takes the max over both odd-flag rows, since its odd flag is
// unknown until the opponent reveals.
func (u *episodeUpdater) nextMax(r match.RoundResult, p int) (float64, error) {
	n := u.cfg.HandSize
	own := r.Remaining[p]
	opp := r.Remaining[1-p]

	if p == r.NextLeader {
		return u.table.Max(qtable.Encode(n, own, opp, true, false))
	}

	evenMax, err := u.table.Max(qtable.Encode(n, own, opp, false, false))
	if err != nil {
		return 0, err
	}
	oddMax, err := u.table.Max(qtable.Encode(n, own, opp, false, true))
	if err != nil {
		return 0, err
	}
	if oddMax > evenMax {
		return oddMax, nil
	}
	return evenMax, nil
}

// finish applies the terminal shaping pass: once the hand's winner is known,
// every recorded step gets a flat final-reward bonus or penalty plus its
// bootstrap term again. An aggregate tie leaves the trajectory as-is.
func (u *episodeUpdater) finish(res match.Result) error {
	winner := res.Winner()
	if winner < 0 {
		return nil
	}
	for _, s := range u.steps[winner] {
		if err := u.table.Update(s.state, s.action, u.cfg.FinalReward+s.boot); err != nil {
			return err
		}
	}
	for _, s := range u.steps[1-winner] {
		if err := u.table.Update(s.state, s.action, -u.cfg.FinalReward+s.boot); err != nil {
			return err
		}
	}
	return nil
}
