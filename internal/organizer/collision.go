package organizer

import (
	"fmt"
	"path/filepath"

	"cleanfolder/internal/config"
	"cleanfolder/internal/fileutil"
	"cleanfolder/internal/services"
	"cleanfolder/internal/textutil"
)

const maxSuffixAttempts = 10000

// collisionResolver hands out destination paths that are neither present on
// disk nor already claimed earlier in the same run. Claims matter in dry-run
// mode where nothing lands on disk.
type collisionResolver struct {
	policy  string
	claimed map[string]struct{}
	exists  func(string) bool
}

func newCollisionResolver(policy string) *collisionResolver {
	return &collisionResolver{
		policy:  policy,
		claimed: make(map[string]struct{}),
		exists:  fileutil.Exists,
	}
}

// Resolve returns a free path for name inside dir and claims it.
func (r *collisionResolver) Resolve(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	if r.free(candidate) {
		r.claim(candidate)
		return candidate, nil
	}
	if r.policy == config.CollisionFail {
		return "", services.Wrap(
			services.ErrCollision,
			"organize",
			"resolve destination",
			fmt.Sprintf("Destination %s already exists", candidate),
			nil,
		)
	}

	stem, ext := textutil.SplitExt(name)
	for i := 1; i <= maxSuffixAttempts; i++ {
		alt := fmt.Sprintf("%s_%d", stem, i)
		if ext != "" {
			alt += "." + ext
		}
		candidate = filepath.Join(dir, alt)
		if r.free(candidate) {
			r.claim(candidate)
			return candidate, nil
		}
	}
	return "", services.Wrap(
		services.ErrCollision,
		"organize",
		"resolve destination",
		fmt.Sprintf("Exhausted suffixes for %s in %s", name, dir),
		nil,
	)
}

// Release drops a claim after a failed operation so the name can be reused.
func (r *collisionResolver) Release(path string) {
	delete(r.claimed, path)
}

func (r *collisionResolver) free(path string) bool {
	if _, taken := r.claimed[path]; taken {
		return false
	}
	return !r.exists(path)
}

func (r *collisionResolver) claim(path string) {
	r.claimed[path] = struct{}{}
}
