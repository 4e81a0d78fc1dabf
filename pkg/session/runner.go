package session

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gitrdm/gokansweeper/internal/config"
	"github.com/gitrdm/gokansweeper/internal/logging"
	"github.com/gitrdm/gokansweeper/internal/parallel"
	"github.com/gitrdm/gokansweeper/pkg/board"
	"github.com/gitrdm/gokansweeper/pkg/minesweeper"
)

// Spec describes one game for a Runner.
type Spec struct {
	Name     string
	Board    *board.Board
	Seed     uint64
	MaxMoves int
}

// Runner plays a batch of independent sessions on a bounded worker pool.
// Each session gets its own knowledge base and random source; only the
// logger and metrics are shared.
type Runner struct {
	// Workers bounds concurrency (0 = one per CPU)
	Workers int

	// Logger receives session logs; nil discards them
	Logger *zap.Logger

	// Metrics, when set, collects session and knowledge base metrics
	Metrics *Metrics
}

// Run plays every spec and returns results in spec order. If ctx ends early,
// unfinished sessions report ctx's error in Result.Err and Run returns it.
func (r *Runner) Run(ctx context.Context, specs []Spec) ([]Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pool := parallel.NewWorkerPool(r.Workers)
	defer pool.Shutdown()

	results := make([]Result, len(specs))
	for i, spec := range specs {
		err := pool.Submit(ctx, func() {
			results[i] = r.play(ctx, spec, logger)
		})
		if err != nil {
			// Sessions never handed to the pool keep their name and the reason.
			for k := i; k < len(specs); k++ {
				results[k] = Result{Name: specs[k].Name, Status: Playing, Err: err}
			}
			pool.Wait()
			return results, fmt.Errorf("submitting session %q: %w", spec.Name, err)
		}
	}
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) play(ctx context.Context, spec Spec, logger *zap.Logger) Result {
	var kbOpts []minesweeper.Option
	kbOpts = append(kbOpts, minesweeper.WithLogger(logger.Named("kb").With(zap.String("name", spec.Name))))
	if r.Metrics != nil {
		kbOpts = append(kbOpts, minesweeper.WithMetrics(r.Metrics.KnowledgeBase))
	}

	rng := rand.New(rand.NewPCG(spec.Seed, spec.Seed^0x9e3779b97f4a7c15))
	s, err := New(spec.Board, rng,
		WithName(spec.Name),
		WithLogger(logger),
		WithMaxMoves(spec.MaxMoves),
		WithKnowledgeBaseOptions(kbOpts...))
	if err != nil {
		logger.Error("session setup failed", zap.String("name", spec.Name), zap.Error(err))
		return Result{Name: spec.Name, Status: Stuck, Err: err}
	}

	res, err := s.Run(ctx)
	if err != nil {
		res.Err = err
		logger.Warn("session ended early", zap.String("name", spec.Name), zap.Error(err))
	}
	if r.Metrics != nil && res.Status != Playing {
		r.Metrics.record(res)
	}
	return res
}

// RunFile loads a batch configuration from path and plays it. Metrics are
// registered on reg when the configuration enables them.
func RunFile(ctx context.Context, path string, reg prometheus.Registerer) ([]Result, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return runConfig(ctx, cfg, reg)
}

// RunYAML plays a batch configuration given as YAML.
func RunYAML(ctx context.Context, data []byte, reg prometheus.Registerer) ([]Result, error) {
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, err
	}
	return runConfig(ctx, cfg, reg)
}

func runConfig(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) ([]Result, error) {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	defer func() { _ = logger.Sync() }()

	specs, err := specsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	runner := &Runner{Workers: cfg.Workers, Logger: logger}
	if cfg.Metrics.Enabled {
		m, err := NewMetrics(reg)
		if err != nil {
			return nil, err
		}
		runner.Metrics = m
	}

	results, err := runner.Run(ctx, specs)
	logger.Info("batch finished", zap.Int("sessions", len(results)), zap.Int("won", countStatus(results, Won)))
	return results, err
}

func specsFromConfig(cfg *config.Config) ([]Spec, error) {
	specs := make([]Spec, 0, len(cfg.Sessions))
	for _, sc := range cfg.Sessions {
		b, err := board.Parse(sc.Layout)
		if err != nil {
			return nil, fmt.Errorf("session %q: %w", sc.Name, err)
		}
		specs = append(specs, Spec{Name: sc.Name, Board: b, Seed: sc.Seed, MaxMoves: sc.MaxMoves})
	}
	return specs, nil
}

func countStatus(results []Result, status Status) int {
	n := 0
	for _, r := range results {
		if r.Status == status {
			n++
		}
	}
	return n
}
