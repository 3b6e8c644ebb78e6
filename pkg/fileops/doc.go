// Package fileops provides the path checks thermite runs before it touches a
// target file.
//
// Shredding is irreversible, so every target goes through the same gate
// before any byte is written. Whether the file can actually be opened for
// writing is left to the caller, which has to open it anyway:
//
//  1. ExpandPath resolves a leading "~/".
//  2. ValidateTarget rejects empty paths, missing files, symlinks and anything
//     that is not a regular file.
//  3. With system protection enabled, ValidateTarget also refuses files that
//     live inside reserved system directories (see IsReservedDirectory).
//
// # Example
//
//	path := fileops.ExpandPath(arg)
//	if err := fileops.ValidateTarget(path, true); err != nil {
//	    return fmt.Errorf("refusing to shred: %w", err)
//	}
//
// Errors wrap the sentinel values ErrEmptyPath, ErrNotFound, ErrNotRegular,
// ErrSymlink and ErrReservedPath so callers can classify them with errors.Is.
package fileops
