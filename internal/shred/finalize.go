package shred

import (
	"encoding/hex"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"thermite/internal/logging"

	"github.com/cockroachdb/errors"
)

// randomNameBytes is the entropy in an intermediate name; hex-encoded it
// gives 32 characters.
const randomNameBytes = 16

// renameAttempts bounds retries when a random name is already taken.
const renameAttempts = 5

// finalizer takes an overwritten file through
// Overwritten -> MetadataStripped -> Renamed -> Unlinked.
// Filesystem calls are fields so tests can observe their order and inject failures.
type finalizer struct {
	truncate       func(name string, size int64) error
	clearImmutable func(name string) error
	chmod          func(name string, mode os.FileMode) error
	chtimes        func(name string, atime, mtime time.Time) error
	lstat          func(name string) (os.FileInfo, error)
	rename         func(oldpath, newpath string) error
	remove         func(name string) error

	random   io.Reader
	reporter Reporter
	logger   *logging.AppLogger
}

func newFinalizer(random io.Reader, reporter Reporter, logger *logging.AppLogger) *finalizer {
	return &finalizer{
		truncate:       os.Truncate,
		clearImmutable: clearImmutable,
		chmod:          os.Chmod,
		chtimes:        os.Chtimes,
		lstat:          os.Lstat,
		rename:         os.Rename,
		remove:         os.Remove,
		random:         random,
		reporter:       reporter,
		logger:         logger,
	}
}

// finalize strips metadata, renames and unlinks path. A metadata failure is
// returned as metaErr and does not stop the sequence; a rename or unlink
// failure is returned as err and does.
func (f *finalizer) finalize(path string) (newPath string, metaErr error, err error) {
	if mErr := f.stripMetadata(path); mErr != nil {
		metaErr = mErr
		f.logger.Debug("Could not remove all metadata", "path", path, "error", mErr)
		f.reporter.Report(Event{Kind: EventWarning, Path: path, Err: mErr})
	}
	f.logger.LogStateTransition("finalizer", "overwritten", "metadata_stripped")

	newPath, err = f.renameToRandom(path)
	if err != nil {
		return "", metaErr, err
	}
	f.logger.LogStateTransition("finalizer", "metadata_stripped", "renamed")
	f.reporter.Report(Event{Kind: EventRenamed, Path: path, NewName: filepath.Base(newPath)})

	if err := f.remove(newPath); err != nil {
		return newPath, metaErr, &Error{
			Kind:  KindIO,
			Stage: StageUnlink,
			Path:  newPath,
			Err: errors.WithHint(errors.Wrap(err, "remove"),
				"the content is destroyed but the directory entry still exists under the name shown"),
		}
	}
	f.logger.LogStateTransition("finalizer", "renamed", "unlinked")

	return newPath, metaErr, nil
}

// stripMetadata runs every step even if an earlier one failed. The
// immutability flag is cleared first since it blocks the later steps, and
// the file is truncated before its permissions are revoked.
func (f *finalizer) stripMetadata(path string) error {
	epoch := time.Unix(0, 0)
	steps := []struct {
		name string
		fn   func() error
	}{
		{"clear immutable flag", func() error { return f.clearImmutable(path) }},
		{"truncate", func() error { return f.truncate(path, 0) }},
		{"revoke permissions", func() error { return f.chmod(path, 0) }},
		{"reset timestamps", func() error { return f.chtimes(path, epoch, epoch) }},
	}

	var errs []error
	for _, step := range steps {
		if err := step.fn(); err != nil {
			errs = append(errs, errors.Wrap(err, step.name))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &Error{
		Kind:  KindMetadata,
		Stage: StageMetadata,
		Path:  path,
		Err:   stderrors.Join(errs...),
	}
}

// renameToRandom moves path to a random 32-hex-character name in the same directory.
func (f *finalizer) renameToRandom(path string) (string, error) {
	dir := filepath.Dir(path)

	for attempt := 0; attempt < renameAttempts; attempt++ {
		name, err := RandomName(f.random)
		if err != nil {
			return "", &Error{Kind: KindIO, Stage: StageRename, Path: path, Err: err}
		}
		candidate := filepath.Join(dir, name)

		if _, err := f.lstat(candidate); err == nil {
			f.logger.Debug("Random name already taken, drawing another", "attempt", attempt+1)
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", &Error{Kind: KindIO, Stage: StageRename, Path: path, Err: errors.Wrap(err, "check intermediate name")}
		}

		if err := f.rename(path, candidate); err != nil {
			return "", &Error{
				Kind:  KindIO,
				Stage: StageRename,
				Path:  path,
				Err: errors.WithHint(errors.Wrap(err, "rename"),
					"the content is destroyed but the file still exists under its original name"),
			}
		}
		return candidate, nil
	}

	return "", &Error{
		Kind:  KindIO,
		Stage: StageRename,
		Path:  path,
		Err:   errors.Newf("no free random name after %d attempts", renameAttempts),
	}
}

// RandomName returns 16 bytes from r, hex-encoded.
func RandomName(r io.Reader) (string, error) {
	buf := make([]byte, randomNameBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", errors.Wrap(err, "generate random name")
	}
	return hex.EncodeToString(buf), nil
}
