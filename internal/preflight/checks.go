package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"cleanfolder/internal/category"
)

// CheckRoot verifies the cleanup root exists, is a directory, and can be
// traversed and modified.
func CheckRoot(root string) Result {
	return CheckDirectoryAccess("Root directory", root)
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "(error: path not set)"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCategoryFolders verifies that any existing category folder directly
// under root is a writable directory. A regular file named like a category
// folder would make every relocation into it fail.
func CheckCategoryFolders(root string) []Result {
	var results []Result
	for _, c := range category.Reserved() {
		path := filepath.Join(root, string(c))
		info, err := os.Lstat(path)
		if err != nil {
			continue
		}
		name := fmt.Sprintf("%s folder", c)
		if !info.IsDir() {
			results = append(results, Result{Name: name, Detail: fmt.Sprintf("%s (error: exists but is not a directory)", path)})
			continue
		}
		results = append(results, CheckDirectoryAccess(name, path))
	}
	return results
}
