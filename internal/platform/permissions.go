package platform

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
)

// Default permissions for scaffolded output.
const (
	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// ParseMode parses an octal permission string such as "0755" or "644".
// An empty string yields FilePerm.
func ParseMode(s string) (os.FileMode, error) {
	if s == "" {
		return FilePerm, nil
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid file mode %q: %w", s, err)
	}
	if v > 0777 {
		return 0, fmt.Errorf("invalid file mode %q: only permission bits are allowed", s)
	}
	return os.FileMode(v), nil
}

// FormatMode renders mode as a four-digit octal string, e.g. "0644".
func FormatMode(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}

// PermMatches reports whether info carries exactly the permission bits of
// mode. It always reports true on Windows, where Chmod is a no-op.
func PermMatches(info os.FileInfo, mode os.FileMode) bool {
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm() == mode.Perm()
}
