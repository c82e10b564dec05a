//go:build windows

package safepath

import "os"

// openFileNoFollow opens path for writing. Windows has no O_NOFOLLOW; Check
// has already rejected a symlinked target.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, flag, perm)
}
