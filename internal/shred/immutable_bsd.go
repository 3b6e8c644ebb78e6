//go:build darwin || freebsd

package shred

import (
	"os"

	"golang.org/x/sys/unix"
)

// User flags from sys/stat.h; identical on Darwin and FreeBSD.
const (
	ufImmutable = 0x00000002 // UF_IMMUTABLE
	ufAppend    = 0x00000004 // UF_APPEND
)

// clearImmutable drops the user immutable and append-only flags (chflags nouchg,nouappnd).
func clearImmutable(path string) error {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return &os.PathError{Op: "lstat", Path: path, Err: err}
	}

	mask := uint32(ufImmutable | ufAppend)
	if uint32(st.Flags)&mask == 0 {
		return nil
	}
	if err := unix.Chflags(path, int(uint32(st.Flags)&^mask)); err != nil {
		return &os.PathError{Op: "chflags", Path: path, Err: err}
	}
	return nil
}
