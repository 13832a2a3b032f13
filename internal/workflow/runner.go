package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"cleanfolder/internal/archive"
	"cleanfolder/internal/category"
	"cleanfolder/internal/config"
	"cleanfolder/internal/logging"
	"cleanfolder/internal/organizer"
	"cleanfolder/internal/planner"
	"cleanfolder/internal/preflight"
	"cleanfolder/internal/services"
	"cleanfolder/internal/staging"
)

// RunOptions customise a single run.
type RunOptions struct {
	DryRun bool
}

// Summary describes a finished run.
type Summary struct {
	RunID    string
	Root     string
	DryRun   bool
	Plan     *planner.Plan
	Result   *organizer.Result
	Pruned   staging.PruneResult
	Started  time.Time
	Duration time.Duration
}

// Runner executes cleanup runs using a loaded configuration.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	extractor archive.Extractor
	newID     func() string
}

// RunnerOption configures optional Runner behavior.
type RunnerOption func(*Runner)

// WithExtractor overrides the archive extractor (used in tests).
func WithExtractor(e archive.Extractor) RunnerOption {
	return func(r *Runner) {
		r.extractor = e
	}
}

// WithIDGenerator overrides run ID generation (used in tests).
func WithIDGenerator(fn func() string) RunnerOption {
	return func(r *Runner) {
		r.newID = fn
	}
}

// NewRunner constructs a runner.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "workflow"),
		extractor: archive.New(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run cleans root. The returned error is non-nil for invalid invocations
// (preflight failure, lock held, configuration problems) and for
// cancellation; in the latter case the partial Summary is also returned.
func (r *Runner) Run(ctx context.Context, root string, opts RunOptions) (*Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "load config", "Configuration not loaded", nil)
	}

	absRoot, err := config.ExpandPath(root)
	if err != nil || absRoot == "" {
		return nil, services.Wrap(services.ErrValidation, "run", "resolve root", "Could not resolve root directory", err)
	}
	table, err := r.cfg.CategoryTable()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "build category table", "Invalid category configuration", err)
	}
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "ensure state dir", "Could not create state directory", err)
	}

	if err := r.runPreflightChecks(ctx, absRoot); err != nil {
		return nil, err
	}

	lockPath := r.cfg.LockPath(absRoot)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "run", "acquire lock", "Could not acquire run lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrLocked, "run", "acquire lock",
			fmt.Sprintf("Another clean-folder run is already processing %s", absRoot), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.String("lock", lockPath), logging.Error(err))
		}
	}()

	summary := &Summary{
		RunID:   r.newID(),
		Root:    absRoot,
		DryRun:  opts.DryRun,
		Started: time.Now(),
	}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("cleanup started",
		logging.String("root", absRoot),
		logging.Bool("dry_run", opts.DryRun),
		logging.String(logging.FieldEventType, "run_started"),
	)

	rec := r.openRecorder(ctx, logger, summary)
	defer rec.close()

	runErr := r.execute(ctx, logger, table, summary)
	summary.Duration = time.Since(summary.Started)

	rec.finish(ctx, summary, runErr)

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			logger.Warn("cleanup interrupted",
				logging.Duration("elapsed", summary.Duration),
				logging.String(logging.FieldEventType, "run_interrupted"),
				logging.String(logging.FieldErrorHint, "rerun to finish organizing the remaining files"),
				logging.String(logging.FieldImpact, "some files were not organized"),
			)
			return summary, runErr
		}
		return nil, runErr
	}

	logger.Info("cleanup finished",
		logging.Int("moved", len(summary.Result.Moved)),
		logging.Int("failed", len(summary.Result.Failures)),
		logging.Int("pruned", len(summary.Pruned.Removed)),
		logging.Duration("elapsed", summary.Duration),
		logging.String(logging.FieldEventType, "run_completed"),
	)
	return summary, nil
}

func (r *Runner) execute(ctx context.Context, logger *slog.Logger, table category.Table, summary *Summary) error {
	planCtx := services.WithStage(ctx, "plan")
	plan, err := planner.Build(planCtx, summary.Root, table, planner.Options{
		Ignore:  r.cfg.Walk.Ignore,
		Exclude: []string{r.cfg.Paths.StateDir},
		Logger:  logging.WithContext(planCtx, logger),
	})
	if err != nil {
		return err
	}
	summary.Plan = plan
	counts := plan.Counts()
	logger.Info("plan ready",
		logging.Int("known", counts[planner.ActionMoveKnown]),
		logging.Int("archives", counts[planner.ActionExtract]),
		logging.Int("unknown", counts[planner.ActionMoveUnknown]),
		logging.Int("ignored", len(plan.Ignored)),
	)

	orgOpts := organizer.OptionsFromConfig(r.cfg)
	orgOpts.DryRun = summary.DryRun
	org := organizer.New(r.extractor, orgOpts, logger)
	result, err := org.Apply(ctx, plan)
	summary.Result = result
	if err != nil {
		return err
	}

	if summary.DryRun {
		return nil
	}
	pruneCtx := services.WithStage(ctx, "prune")
	summary.Pruned = staging.PruneEmpty(pruneCtx, summary.Root, plan.Filter, logging.WithContext(pruneCtx, logger))
	return ctx.Err()
}

// runPreflightChecks validates the root and state directory before any mutation.
func (r *Runner) runPreflightChecks(ctx context.Context, root string) error {
	results := preflight.RunAll(ctx, r.cfg, root)
	for _, res := range results {
		if res.Passed {
			r.logger.Debug("preflight check passed",
				logging.String("check", res.Name),
				logging.String("detail", res.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		logging.ErrorWithContext(r.logger, "preflight check failed", "preflight_failed",
			logging.String("check", res.Name),
			logging.String("detail", res.Detail),
			logging.String(logging.FieldErrorHint, "fix the reported issue and rerun"),
		)
	}
	return preflight.Err(results)
}
