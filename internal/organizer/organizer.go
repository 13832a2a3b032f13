package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cleanfolder/internal/archive"
	"cleanfolder/internal/category"
	"cleanfolder/internal/config"
	"cleanfolder/internal/fileutil"
	"cleanfolder/internal/logging"
	"cleanfolder/internal/planner"
	"cleanfolder/internal/services"
	"cleanfolder/internal/textutil"
)

const stageName = "organize"

// Options customise how a plan is applied.
type Options struct {
	// Collision is config.CollisionSuffix or config.CollisionFail.
	Collision  string
	Normalizer textutil.Normalizer
	// DryRun resolves destinations without touching the filesystem.
	DryRun bool
}

// OptionsFromConfig derives organizer options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{Collision: config.CollisionSuffix}
	}
	return Options{
		Collision:  cfg.Naming.Collision,
		Normalizer: textutil.Normalizer{ASCIIOnly: cfg.Naming.ASCIIOnly},
	}
}

// Organizer relocates planned files under a single root.
type Organizer struct {
	extractor archive.Extractor
	opts      Options
	logger    *slog.Logger
}

// New constructs an organizer. A nil extractor selects archive.New().
func New(extractor archive.Extractor, opts Options, logger *slog.Logger) *Organizer {
	if extractor == nil {
		extractor = archive.New()
	}
	if opts.Collision == "" {
		opts.Collision = config.CollisionSuffix
	}
	return &Organizer{
		extractor: extractor,
		opts:      opts,
		logger:    logging.NewComponentLogger(logger, "organizer"),
	}
}

// Apply executes every operation in plan. The returned error is non-nil only
// when ctx is cancelled; the partial Result is still returned in that case.
func (o *Organizer) Apply(ctx context.Context, plan *planner.Plan) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithStage(ctx, stageName)
	logger := logging.WithContext(ctx, o.logger)

	if plan == nil {
		return nil, services.Wrap(services.ErrValidation, stageName, "apply plan", "No plan to apply", nil)
	}

	run := &applyRun{
		Organizer: o,
		root:      plan.Root,
		logger:    logger,
		resolver:  newCollisionResolver(o.opts.Collision),
		result:    newResult(plan.Root, o.opts.DryRun),
	}

	for _, op := range plan.Operations {
		if err := ctx.Err(); err != nil {
			logger.Info("organize interrupted",
				logging.Int("remaining", len(plan.Operations)-len(run.result.Moved)-len(run.result.Failures)),
			)
			return run.result, err
		}
		run.apply(ctx, op)
	}

	logger.Info("organize complete",
		logging.Int("moved", len(run.result.Moved)),
		logging.Int("failed", len(run.result.Failures)),
		logging.Bool("dry_run", o.opts.DryRun),
	)
	return run.result, nil
}

type applyRun struct {
	*Organizer
	root     string
	logger   *slog.Logger
	resolver *collisionResolver
	result   *Result
}

func (r *applyRun) apply(ctx context.Context, op planner.Operation) {
	switch op.Action {
	case planner.ActionExtract:
		r.result.record(op.Ext, true)
		r.extract(ctx, op)
	case planner.ActionMoveKnown:
		r.result.record(op.Ext, true)
		name := r.opts.Normalizer.Normalize(op.Name).Full
		r.move(op, filepath.Join(r.root, string(op.Category)), name)
	default:
		r.result.record(op.Ext, false)
		r.move(op, filepath.Join(r.root, string(category.Unknown)), op.Name)
	}
}

func (r *applyRun) move(op planner.Operation, dir, name string) {
	if !r.opts.DryRun {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			r.fail(op, services.Wrap(services.ErrIO, stageName, "create category folder", "Failed to create destination folder", err))
			return
		}
	}
	dest, err := r.resolver.Resolve(dir, name)
	if err != nil {
		r.fail(op, err)
		return
	}
	if !r.opts.DryRun {
		if err := fileutil.MoveFile(op.Source, dest); err != nil {
			r.resolver.Release(dest)
			r.fail(op, services.Wrap(services.ErrIO, stageName, "move file", "Failed to move file into category folder", err))
			return
		}
	}
	r.succeed(op, dest)
}

func (r *applyRun) extract(ctx context.Context, op planner.Operation) {
	archivesDir := filepath.Join(r.root, string(category.Archives))
	stem := r.opts.Normalizer.Normalize(op.Name).Stem

	if !r.opts.DryRun {
		if err := os.MkdirAll(archivesDir, 0o755); err != nil {
			r.fail(op, services.Wrap(services.ErrIO, stageName, "create category folder", "Failed to create Archives folder", err))
			return
		}
	}
	dest, err := r.resolver.Resolve(archivesDir, stem)
	if err != nil {
		r.fail(op, err)
		return
	}
	if r.opts.DryRun {
		r.succeed(op, dest)
		return
	}

	if err := os.Mkdir(dest, 0o755); err != nil {
		r.resolver.Release(dest)
		r.fail(op, services.Wrap(services.ErrIO, stageName, "create extraction folder", "Failed to create extraction folder", err))
		return
	}
	if err := r.extractor.Extract(ctx, op.Source, dest); err != nil {
		if rmErr := os.RemoveAll(dest); rmErr != nil {
			r.logger.Debug("partial extraction folder not removed",
				logging.String("path", dest),
				logging.Error(rmErr),
			)
		}
		r.resolver.Release(dest)
		r.fail(op, services.Wrap(services.ErrExtraction, stageName, "extract archive",
			fmt.Sprintf("Could not extract %s; archive left in place", op.Name), err))
		return
	}
	if err := os.Remove(op.Source); err != nil {
		r.fail(op, services.Wrap(services.ErrIO, stageName, "remove archive",
			fmt.Sprintf("Extracted into %s but the original archive could not be removed", dest), err))
		return
	}
	r.succeed(op, dest)
}

func (r *applyRun) succeed(op planner.Operation, dest string) {
	r.result.Moved = append(r.result.Moved, Relocation{
		Source:   op.Source,
		Dest:     dest,
		Action:   op.Action,
		Category: op.Category,
		Size:     op.Size,
	})
	verb := "moved file"
	if op.Action == planner.ActionExtract {
		verb = "extracted archive"
	}
	if r.opts.DryRun {
		verb = "would have " + verb
	}
	r.logger.Debug(verb,
		logging.String("source", op.Source),
		logging.String("dest", dest),
		logging.String("category", string(op.Category)),
	)
}

func (r *applyRun) fail(op planner.Operation, err error) {
	r.result.Failures = append(r.result.Failures, Failure{
		Source:   op.Source,
		Action:   op.Action,
		Category: op.Category,
		Err:      err,
	})
	logging.WarnWithContext(r.logger, "file left in place", "organize_failed",
		logging.String("source", op.Source),
		logging.String("action", string(op.Action)),
		logging.String("kind", services.Kind(err)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hintFor(err)),
		logging.String(logging.FieldImpact, "file was not organized"),
	)
}

func hintFor(err error) string {
	switch services.Kind(err) {
	case "collision":
		return "rename the file or set naming.collision = \"suffix\""
	case "extraction":
		return "check the archive is readable and in zip, tar, or gz format"
	default:
		return "check permissions on the root directory"
	}
}
