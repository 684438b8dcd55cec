package readonlyfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/unifs/pkg/vfs"
	"github.com/marmos91/unifs/pkg/vfs/memfs"
)

func newTestFS(t *testing.T) (*memfs.FS, *FS) {
	t.Helper()
	inner := memfs.New()
	require.NoError(t, inner.CreateDir("/docs"))
	require.NoError(t, inner.Write("/docs/readme.txt", []byte("hello")))
	return inner, New(inner)
}

func TestReadsDelegate(t *testing.T) {
	_, fs := newTestFS(t)

	data, err := fs.Read("/docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	s, err := fs.ReadToString("/docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	ok, err := fs.Exists("/docs")
	require.NoError(t, err)
	assert.True(t, ok)

	entries, err := fs.ReadDir("/docs")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	meta, err := fs.Metadata("/docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), meta.Len())

	got, err := fs.Canonicalize("/docs/../docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "/docs/readme.txt", got)
}

func TestMutationsFail(t *testing.T) {
	inner, fs := newTestFS(t)

	assert.True(t, vfs.IsReadOnly(fs.Write("/new.txt", []byte("x"))))
	assert.True(t, vfs.IsReadOnly(fs.CreateDir("/new")))
	assert.True(t, vfs.IsReadOnly(fs.CreateDirAll("/new/deep")))
	assert.True(t, vfs.IsReadOnly(fs.RemoveFile("/docs/readme.txt")))
	assert.True(t, vfs.IsReadOnly(fs.RemoveDir("/docs")))
	assert.True(t, vfs.IsReadOnly(fs.RemoveDirAll("/docs")))
	assert.True(t, vfs.IsReadOnly(fs.Rename("/docs/readme.txt", "/moved.txt")))
	assert.True(t, vfs.IsReadOnly(fs.HardLink("/docs/readme.txt", "/link.txt")))
	assert.True(t, vfs.IsReadOnly(fs.SetPermissions("/docs/readme.txt", vfs.NewPermissions(true))))

	_, err := fs.Copy("/docs/readme.txt", "/copy.txt")
	assert.True(t, vfs.IsReadOnly(err))

	_, err = fs.CreateFile("/new.txt")
	assert.True(t, vfs.IsReadOnly(err))

	_, err = fs.CreateNewFile("/new.txt")
	assert.True(t, vfs.IsReadOnly(err))

	assert.True(t, vfs.IsReadOnly(fs.NewDirBuilder().Recursive(true).Create("/new")))

	// the wrapped filesystem is untouched
	ok, err := inner.Exists("/docs/readme.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpenOptions(t *testing.T) {
	t.Run("PureReadsPass", func(t *testing.T) {
		_, fs := newTestFS(t)

		f, err := fs.OpenFile("/docs/readme.txt")
		require.NoError(t, err)
		require.NoError(t, f.Close())
	})

	t.Run("MutatingFlagsAreRejected", func(t *testing.T) {
		_, fs := newTestFS(t)

		for name, open := range map[string]func() (vfs.File, error){
			"Write":    func() (vfs.File, error) { return fs.NewOpenOptions().Write(true).Open("/docs/readme.txt") },
			"Append":   func() (vfs.File, error) { return fs.NewOpenOptions().Append(true).Open("/docs/readme.txt") },
			"Truncate": func() (vfs.File, error) { return fs.NewOpenOptions().Truncate(true).Open("/docs/readme.txt") },
			"Create":   func() (vfs.File, error) { return fs.NewOpenOptions().Create(true).Open("/new.txt") },
			"CreateNew": func() (vfs.File, error) {
				return fs.NewOpenOptions().CreateNew(true).Open("/new.txt")
			},
		} {
			_, err := open()
			assert.True(t, vfs.IsReadOnly(err), name)
		}
	})
}
