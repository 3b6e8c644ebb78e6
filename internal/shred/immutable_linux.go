//go:build linux

package shred

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// Inode attribute bits from linux/fs.h.
const (
	fsImmutableFL = 0x00000010 // FS_IMMUTABLE_FL
	fsAppendFL    = 0x00000020 // FS_APPEND_FL
)

// clearImmutable drops the immutable and append-only attributes (chattr -ia).
// Filesystems without attribute support are treated as having none set.
func clearImmutable(path string) error {
	f, err := os.OpenFile(path, os.O_RDONLY|unix.O_NOFOLLOW|unix.O_NONBLOCK, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	fd := int(f.Fd())
	flags, err := unix.IoctlGetUint32(fd, unix.FS_IOC_GETFLAGS)
	if err != nil {
		if unsupportedAttr(err) {
			return nil
		}
		return &os.PathError{Op: "ioctl FS_IOC_GETFLAGS", Path: path, Err: err}
	}

	if flags&(fsImmutableFL|fsAppendFL) == 0 {
		return nil
	}

	cleared := flags &^ (fsImmutableFL | fsAppendFL)
	if err := unix.IoctlSetPointerInt(fd, unix.FS_IOC_SETFLAGS, int(cleared)); err != nil {
		return &os.PathError{Op: "ioctl FS_IOC_SETFLAGS", Path: path, Err: err}
	}
	return nil
}

func unsupportedAttr(err error) bool {
	return errors.Is(err, unix.ENOTTY) ||
		errors.Is(err, unix.EOPNOTSUPP) ||
		errors.Is(err, unix.ENOSYS) ||
		errors.Is(err, unix.EINVAL)
}
