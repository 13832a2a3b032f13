package preflight

import (
	"context"
	"fmt"
	"strings"

	"cleanfolder/internal/config"
	"cleanfolder/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for a run against root.
func RunAll(ctx context.Context, cfg *config.Config, root string) []Result {
	results := []Result{CheckRoot(root)}
	if !results[0].Passed {
		return results
	}
	results = append(results, CheckCategoryFolders(root)...)

	if cfg != nil && cfg.Journal.Enabled {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}
	return results
}

// Err converts failed results into a single validation error, or nil.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(
		services.ErrValidation,
		"preflight",
		"check environment",
		strings.Join(failed, "; "),
		nil,
	)
}
