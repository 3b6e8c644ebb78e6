package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrEmptyPath    = errors.New("path cannot be empty")
	ErrNotFound     = errors.New("file does not exist")
	ErrNotRegular   = errors.New("not a regular file")
	ErrSymlink      = errors.New("path is a symbolic link")
	ErrReservedPath = errors.New("path is inside a reserved system directory")
)

// ValidateTarget checks that path names an existing regular file that may be
// shredded. It never follows a final symlink: shredding through a link would
// destroy the link target's content while only unlinking the link itself.
//
// Parameters:
//   - path: The file path to validate (already expanded)
//   - protectSystem: Refuse files inside reserved system directories
//
// Returns:
//   - error: Wraps one of ErrEmptyPath, ErrNotFound, ErrNotRegular, ErrSymlink
//     or ErrReservedPath, or a raw stat error
//
// Usage example:
//
//	if err := fileops.ValidateTarget("/tmp/secret.txt", true); err != nil {
//	    return err
//	}
func ValidateTarget(path string, protectSystem bool) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}

	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%w: %s", ErrSymlink, path)
	}
	if !info.Mode().IsRegular() {
		if info.IsDir() {
			return fmt.Errorf("%w: %s is a directory", ErrNotRegular, path)
		}
		return fmt.Errorf("%w: %s (%s)", ErrNotRegular, path, info.Mode().Type())
	}

	if protectSystem && IsReservedDirectory(path) {
		return fmt.Errorf("%w: %s", ErrReservedPath, path)
	}

	return nil
}

// ExpandPath expands a path that starts with "~/" to the user's home directory.
//
// Usage example:
//
//	expanded := fileops.ExpandPath("~/Documents/file.txt")
//	// Returns something like "/home/user/Documents/file.txt"
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// IsReservedDirectory checks if the path is, or lives inside, a system or
// reserved directory. Files there are almost never something a user means to
// destroy, so thermite refuses them unless forced.
//
// Symlinks in the path are resolved before comparing, and user temp
// directories nested under a reserved root are allowed.
//
// Usage example:
//
//	if fileops.IsReservedDirectory("/etc/passwd") {
//	    return fmt.Errorf("cannot shred system files")
//	}
func IsReservedDirectory(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return true // If we can't resolve it, treat as reserved
	}
	absPath = filepath.Clean(absPath)

	// Resolve any symlinks in the path for comparison
	if resolvedPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolvedPath
	}

	// Always treat root as reserved
	if absPath == "/" || absPath == "\\" || absPath == "C:\\" {
		return true
	}

	for _, reserved := range getReservedDirectories() {
		reservedAbs, err := filepath.Abs(reserved)
		if err != nil {
			continue
		}
		if resolvedReserved, err := filepath.EvalSymlinks(reservedAbs); err == nil {
			reservedAbs = resolvedReserved
		}
		reservedAbs = filepath.Clean(reservedAbs)

		if strings.EqualFold(absPath, reservedAbs) {
			return true
		}

		reservedPrefix := strings.ToLower(reservedAbs) + string(os.PathSeparator)
		if strings.HasPrefix(strings.ToLower(absPath), reservedPrefix) {
			// Exception: user temp directories nested under a reserved root
			if isUserTempDirectory(absPath) {
				continue
			}
			return true
		}
	}

	return false
}

// getReservedDirectories returns platform-specific reserved directories
func getReservedDirectories() []string {
	var reservedDirs []string

	switch runtime.GOOS {
	case "windows":
		reservedDirs = []string{
			"C:\\Windows",
			"C:\\Program Files",
			"C:\\Program Files (x86)",
			"C:\\System32",
			"C:\\ProgramData\\Microsoft",
		}

	case "darwin":
		reservedDirs = []string{
			"/System",
			"/usr/bin",
			"/usr/sbin",
			"/usr/lib",
			"/bin",
			"/sbin",
			"/etc",
			"/var/db",
			"/var/root",
			"/Library/System",
			"/Applications",
			"/private/etc",
		}

	default: // Linux and other Unix
		reservedDirs = []string{
			"/bin",
			"/sbin",
			"/usr/bin",
			"/usr/sbin",
			"/usr/lib",
			"/lib",
			"/lib64",
			"/etc",
			"/boot",
			"/dev",
			"/proc",
			"/sys",
			"/var/lib",
		}
	}

	return reservedDirs
}

// isUserTempDirectory detects legitimate user temp directories
func isUserTempDirectory(path string) bool {
	// macOS: /var/folders/xx/yyyy/T/ are user temp dirs
	if runtime.GOOS == "darwin" && strings.Contains(path, "/var/folders/") {
		return true
	}

	if runtime.GOOS == "linux" && (strings.HasPrefix(path, "/tmp/") || path == "/tmp") {
		return true
	}

	if runtime.GOOS == "windows" {
		lower := strings.ToLower(path)
		if strings.Contains(lower, "\\temp\\") || strings.Contains(lower, "\\tmp\\") {
			return true
		}
	}

	cleanSystemTemp := filepath.Clean(os.TempDir())
	return strings.HasPrefix(filepath.Clean(path), cleanSystemTemp+string(os.PathSeparator))
}
