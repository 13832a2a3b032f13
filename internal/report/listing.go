package report

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"cleanfolder/internal/category"
)

// ArchiveListing holds the files unpacked into one Archives subfolder.
type ArchiveListing struct {
	Folder string
	// Files are paths relative to the subfolder, slash separated.
	Files []string
}

// ListCategory returns the sorted names of the regular files (and links)
// directly inside root/<c>. A missing folder yields ok=false.
func ListCategory(root string, c category.Category) (names []string, ok bool, err error) {
	entries, err := os.ReadDir(filepath.Join(root, string(c)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, true, nil
}

// ListArchives returns one listing per subfolder of root/Archives, with the
// files found recursively inside it. Loose files directly in Archives are
// grouped under an empty Folder name.
func ListArchives(root string) ([]ArchiveListing, bool, error) {
	base := filepath.Join(root, string(category.Archives))
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var (
		listings []ArchiveListing
		loose    []string
	)
	for _, entry := range entries {
		if !entry.IsDir() {
			loose = append(loose, entry.Name())
			continue
		}
		dir := filepath.Join(base, entry.Name())
		listing := ArchiveListing{Folder: entry.Name()}
		walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				return relErr
			}
			listing.Files = append(listing.Files, filepath.ToSlash(rel))
			return nil
		})
		if walkErr != nil {
			return nil, true, walkErr
		}
		sort.Strings(listing.Files)
		listings = append(listings, listing)
	}
	if len(loose) > 0 {
		listings = append([]ArchiveListing{{Files: loose}}, listings...)
	}
	return listings, true, nil
}
