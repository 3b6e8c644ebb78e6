package shred

import (
	"bytes"
	"crypto/rand"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"thermite/internal/logging"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexName = regexp.MustCompile(`^[0-9a-f]{32}$`)

// recordingFinalizer returns a finalizer whose filesystem calls are logged
// in order and otherwise succeed without touching the disk.
func recordingFinalizer(t *testing.T) (*finalizer, *[]string) {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	var calls []string

	f := newFinalizer(rand.Reader, NopReporter, logger)
	f.clearImmutable = func(string) error { calls = append(calls, "clearImmutable"); return nil }
	f.truncate = func(string, int64) error { calls = append(calls, "truncate"); return nil }
	f.chmod = func(string, os.FileMode) error { calls = append(calls, "chmod"); return nil }
	f.chtimes = func(string, time.Time, time.Time) error { calls = append(calls, "chtimes"); return nil }
	f.lstat = func(string) (os.FileInfo, error) { return nil, fs.ErrNotExist }
	f.rename = func(string, string) error { calls = append(calls, "rename"); return nil }
	f.remove = func(string) error { calls = append(calls, "remove"); return nil }
	return f, &calls
}

func TestFinalize_Order(t *testing.T) {
	f, calls := recordingFinalizer(t)

	newPath, metaErr, err := f.finalize("/data/secret.txt")
	require.NoError(t, err)
	assert.NoError(t, metaErr)
	assert.Equal(t, "/data", filepath.Dir(newPath))
	assert.Regexp(t, hexName, filepath.Base(newPath))
	assert.Equal(t, []string{"clearImmutable", "truncate", "chmod", "chtimes", "rename", "remove"}, *calls)
}

func TestFinalize_MetadataFailureContinues(t *testing.T) {
	f, calls := recordingFinalizer(t)
	f.chmod = func(string, os.FileMode) error { *calls = append(*calls, "chmod"); return fs.ErrPermission }
	f.chtimes = func(string, time.Time, time.Time) error {
		*calls = append(*calls, "chtimes")
		return errors.New("read-only filesystem")
	}

	var events []Event
	f.reporter = ReporterFunc(func(e Event) { events = append(events, e) })

	_, metaErr, err := f.finalize("/data/secret.txt")
	require.NoError(t, err, "metadata failure is not fatal")
	require.Error(t, metaErr)

	assert.True(t, errors.Is(metaErr, ErrMetadata))
	assert.ErrorIs(t, metaErr, fs.ErrPermission)
	assert.Contains(t, metaErr.Error(), "revoke permissions")
	assert.Contains(t, metaErr.Error(), "reset timestamps")
	assert.Equal(t, []string{"clearImmutable", "truncate", "chmod", "chtimes", "rename", "remove"}, *calls)

	require.NotEmpty(t, events)
	assert.Equal(t, EventWarning, events[0].Kind)
}

func TestFinalize_UnlinkFailure(t *testing.T) {
	f, _ := recordingFinalizer(t)
	f.remove = func(string) error { return fs.ErrPermission }

	newPath, _, err := f.finalize("/data/secret.txt")
	require.Error(t, err)

	var typed *Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, KindIO, typed.Kind)
	assert.Equal(t, StageUnlink, typed.Stage)
	assert.Equal(t, newPath, typed.Path, "error names the intermediate path")
	assert.Regexp(t, hexName, filepath.Base(typed.Path))
}

func TestFinalize_RenameFailureSkipsUnlink(t *testing.T) {
	f, calls := recordingFinalizer(t)
	f.rename = func(string, string) error { return fs.ErrPermission }

	_, _, err := f.finalize("/data/secret.txt")
	require.Error(t, err)

	var typed *Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, StageRename, typed.Stage)
	assert.Equal(t, "/data/secret.txt", typed.Path)
	assert.NotContains(t, *calls, "remove")
}

func TestRenameToRandom_RetriesOnCollision(t *testing.T) {
	f, _ := recordingFinalizer(t)

	taken := 0
	f.lstat = func(string) (os.FileInfo, error) {
		if taken < 2 {
			taken++
			return nil, nil
		}
		return nil, fs.ErrNotExist
	}

	newPath, err := f.renameToRandom("/data/secret.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, taken)
	assert.Regexp(t, hexName, filepath.Base(newPath))
}

func TestRenameToRandom_GivesUp(t *testing.T) {
	f, calls := recordingFinalizer(t)
	f.lstat = func(string) (os.FileInfo, error) { return nil, nil }

	_, err := f.renameToRandom("/data/secret.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
	assert.NotContains(t, *calls, "rename")
}

func TestStripMetadata_RealFile(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	path := filepath.Join(t.TempDir(), "meta.bin")
	require.NoError(t, os.WriteFile(path, []byte("residual"), 0o644))

	f := newFinalizer(rand.Reader, NopReporter, logger)
	require.NoError(t, f.stripMetadata(path))

	info, err := os.Lstat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
	assert.Equal(t, os.FileMode(0), info.Mode().Perm())
	assert.Equal(t, int64(0), info.ModTime().Unix())
}

func TestRandomName(t *testing.T) {
	a, err := RandomName(rand.Reader)
	require.NoError(t, err)
	b, err := RandomName(rand.Reader)
	require.NoError(t, err)

	assert.Regexp(t, hexName, a)
	assert.NotEqual(t, a, b)

	_, err = RandomName(bytes.NewReader(nil))
	assert.Error(t, err)
}
