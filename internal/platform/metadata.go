package platform

import (
	"os"
	"runtime"

	"github.com/spf13/afero"
)

// Chmod sets file permissions. On Windows this is a no-op.
func Chmod(fsys afero.Fs, path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return fsys.Chmod(path, mode)
}

// CopyMetadata applies the permission bits and modification time of src to
// the file at dst. Access time is set to the modification time because
// os.FileInfo does not expose it portably.
func CopyMetadata(fsys afero.Fs, src os.FileInfo, dst string) error {
	if err := Chmod(fsys, dst, src.Mode().Perm()); err != nil {
		return err
	}
	return fsys.Chtimes(dst, src.ModTime(), src.ModTime())
}
