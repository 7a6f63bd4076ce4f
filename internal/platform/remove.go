package platform

import (
	"os"

	"github.com/Aman-CERP/everyfind/internal/errors"
)

// Remove deletes a file, or a directory and its contents when recursive.
// A path that does not exist is a failure: the user asked to delete
// something they saw in the results.
func (n *Native) Remove(path string, recursive bool) error {
	info, err := os.Lstat(path)
	if err != nil {
		return errors.New(errors.ErrCodeDeleteFailed, "can't delete "+path, err).
			WithDetail("path", path)
	}

	if info.IsDir() && recursive {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return errors.New(errors.ErrCodeDeleteFailed, "can't delete "+path, err).
			WithDetail("path", path)
	}

	n.logger.Info("deleted", "path", path, "recursive", recursive)
	return nil
}
