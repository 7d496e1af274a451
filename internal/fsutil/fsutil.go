// Package fsutil defiens a set of internal utility functions used to
// interact with the file system.
package fsutil

import (
	"os"
	"path/filepath"
)

// ListFileExt is the extension a sources-list fragment must carry to be
// picked up from the sources-list directory.
const ListFileExt = ".list"

// IsListFile tests whether a DirEntry appears to be a sources-list file.
func IsListFile(e os.DirEntry) (bool, error) {
	if e.IsDir() || filepath.Ext(e.Name()) != ListFileExt {
		return false, nil
	}

	info, err := e.Info()
	if err != nil {
		return false, err
	}

	return info.Mode().IsRegular(), nil
}
