package badgerfs

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/unifs/pkg/vfs"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	fs, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })
	return fs
}

func TestDirectories(t *testing.T) {
	t.Run("CreateAndList", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.CreateDir("/a"))
		require.NoError(t, fs.CreateDirAll("/a/b/c"))
		require.NoError(t, fs.Write("/a/file.txt", []byte("x")))

		entries, err := fs.ReadDir("/a")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "b", entries[0].FileName())
		assert.Equal(t, "file.txt", entries[1].FileName())
	})

	t.Run("CreateExistingFails", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.CreateDir("/a"))

		err := fs.CreateDir("/a")
		require.Error(t, err)
		assert.True(t, vfs.IsAlreadyExists(err))
	})

	t.Run("CreateWithoutParentFails", func(t *testing.T) {
		fs := newTestFS(t)

		err := fs.CreateDir("/a/b")
		require.Error(t, err)
		assert.True(t, vfs.IsNotFound(err))
	})

	t.Run("RemoveNonEmptyFails", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.CreateDirAll("/a/b"))

		err := fs.RemoveDir("/a")
		require.Error(t, err)
		assert.True(t, vfs.IsDirectoryNotEmpty(err))
	})

	t.Run("RemoveAllRemovesSubtreeAndBlobs", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.CreateDirAll("/a/b"))
		require.NoError(t, fs.Write("/a/b/file.txt", []byte("contents")))

		require.NoError(t, fs.RemoveDirAll("/a"))

		for _, path := range []string{"/a", "/a/b", "/a/b/file.txt"} {
			ok, err := fs.Exists(path)
			require.NoError(t, err)
			assert.False(t, ok, path)
		}
	})

	t.Run("RootCannotBeRemoved", func(t *testing.T) {
		fs := newTestFS(t)

		assert.True(t, vfs.IsInvalidInput(fs.RemoveDir("/")))
		assert.True(t, vfs.IsInvalidInput(fs.RemoveDirAll("/")))
	})
}

func TestFiles(t *testing.T) {
	t.Run("WriteAndRead", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.Write("/file.txt", []byte("hello badger")))

		data, err := fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello badger"), data)

		meta, err := fs.Metadata("/file.txt")
		require.NoError(t, err)
		assert.True(t, meta.IsFile())
		assert.Equal(t, uint64(12), meta.Len())
	})

	t.Run("Copy", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.Write("/src.txt", []byte("payload")))

		n, err := fs.Copy("/src.txt", "/dst.txt")
		require.NoError(t, err)
		assert.Equal(t, uint64(7), n)

		// contents are independent after the copy
		require.NoError(t, fs.Write("/src.txt", []byte("changed")))
		data, err := fs.Read("/dst.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)
	})

	t.Run("CopyOntoHardLinkWritesThroughToTarget", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.Write("/target.txt", []byte("old contents")))
		require.NoError(t, fs.HardLink("/target.txt", "/link.txt"))
		require.NoError(t, fs.Write("/src.txt", []byte("fresh")))

		_, err := fs.Copy("/src.txt", "/link.txt")
		require.NoError(t, err)

		data, err := fs.Read("/target.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("fresh"), data, "the copy lands on the link target")

		// the link record survives and still resolves to the target
		got, err := fs.Canonicalize("/link.txt")
		require.NoError(t, err)
		assert.Equal(t, "/target.txt", got)
	})

	t.Run("RemoveFile", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.Write("/file.txt", []byte("x")))
		require.NoError(t, fs.RemoveFile("/file.txt"))

		_, err := fs.Read("/file.txt")
		require.Error(t, err)
		assert.True(t, vfs.IsNotFound(err))
	})

	t.Run("SetPermissions", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.Write("/file.txt", []byte("x")))

		require.NoError(t, fs.SetPermissions("/file.txt", vfs.NewPermissions(true)))

		meta, err := fs.Metadata("/file.txt")
		require.NoError(t, err)
		assert.True(t, meta.Permissions().Readonly())
	})

	t.Run("SymlinksUnsupported", func(t *testing.T) {
		fs := newTestFS(t)

		_, err := fs.ReadLink("/anything")
		assert.True(t, vfs.IsUnsupported(err))

		_, err = fs.SymlinkMetadata("/anything")
		assert.True(t, vfs.IsUnsupported(err))
	})
}

func TestHardLinks(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.Write("/original.txt", []byte("content")))
	require.NoError(t, fs.HardLink("/original.txt", "/link.txt"))

	data, err := fs.Read("/link.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)

	// removing through the alias removes the target
	require.NoError(t, fs.RemoveFile("/link.txt"))
	ok, err := fs.Exists("/original.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRename(t *testing.T) {
	t.Run("File", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.Write("/old.txt", []byte("content")))

		require.NoError(t, fs.Rename("/old.txt", "/new.txt"))

		ok, err := fs.Exists("/old.txt")
		require.NoError(t, err)
		assert.False(t, ok)

		data, err := fs.Read("/new.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("content"), data)
	})

	t.Run("SameParent", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.CreateDir("/dir"))
		require.NoError(t, fs.Write("/dir/a.txt", []byte("a")))
		require.NoError(t, fs.Write("/dir/keep.txt", []byte("keep")))

		require.NoError(t, fs.Rename("/dir/a.txt", "/dir/b.txt"))

		entries, err := fs.ReadDir("/dir")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "b.txt", entries[0].FileName())
		assert.Equal(t, "keep.txt", entries[1].FileName())
	})

	t.Run("DirectoryMovesSubtree", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.CreateDirAll("/src/nested"))
		require.NoError(t, fs.Write("/src/nested/file.txt", []byte("deep")))
		require.NoError(t, fs.CreateDir("/dst"))

		require.NoError(t, fs.Rename("/src", "/dst/src"))

		data, err := fs.Read("/dst/src/nested/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("deep"), data)

		ok, err := fs.Exists("/src")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RootFails", func(t *testing.T) {
		fs := newTestFS(t)

		err := fs.Rename("/", "/elsewhere")
		require.Error(t, err)
		assert.True(t, vfs.IsInvalidInput(err))
	})
}

func TestFileHandle(t *testing.T) {
	t.Run("ReadWriteSeek", func(t *testing.T) {
		fs := newTestFS(t)
		f, err := fs.CreateNewFile("/file.txt")
		require.NoError(t, err)

		_, err = f.Write([]byte("hello world"))
		require.NoError(t, err)

		pos, err := f.Seek(6, io.SeekStart)
		require.NoError(t, err)
		assert.Equal(t, int64(6), pos)

		buf := make([]byte, 5)
		n, err := f.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "world", string(buf[:n]))

		_, err = f.Read(buf)
		assert.Equal(t, io.EOF, err)

		require.NoError(t, f.Close())
	})

	t.Run("WriteWithoutWriteAccessFails", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.Write("/file.txt", []byte("x")))

		f, err := fs.OpenFile("/file.txt")
		require.NoError(t, err)
		defer f.Close()

		_, err = f.Write([]byte("y"))
		require.Error(t, err)
		assert.True(t, vfs.IsPermissionDenied(err))
	})

	t.Run("HandleSurvivesRename", func(t *testing.T) {
		fs := newTestFS(t)
		f, err := fs.CreateNewFile("/old.txt")
		require.NoError(t, err)
		defer f.Close()

		require.NoError(t, fs.Rename("/old.txt", "/new.txt"))

		_, err = f.Write([]byte("after rename"))
		require.NoError(t, err)

		data, err := fs.Read("/new.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("after rename"), data)
	})

	t.Run("SetLen", func(t *testing.T) {
		fs := newTestFS(t)
		f, err := fs.CreateNewFile("/file.txt")
		require.NoError(t, err)

		_, err = f.Write([]byte("0123456789"))
		require.NoError(t, err)

		require.NoError(t, f.SetLen(4))
		data, err := fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("0123"), data)

		require.NoError(t, f.Close())
	})
}

func TestOpenOptions(t *testing.T) {
	t.Run("CreateNewFailsOnExisting", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.Write("/file.txt", []byte("x")))

		_, err := fs.CreateNewFile("/file.txt")
		require.Error(t, err)
		assert.True(t, vfs.IsAlreadyExists(err))
	})

	t.Run("OpenDirectoryFails", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.CreateDir("/dir"))

		_, err := fs.OpenFile("/dir")
		require.Error(t, err)
		assert.True(t, vfs.IsInvalidInput(err))
	})

	t.Run("TruncateClearsContents", func(t *testing.T) {
		fs := newTestFS(t)
		require.NoError(t, fs.Write("/file.txt", []byte("old")))

		f, err := fs.NewOpenOptions().Write(true).Truncate(true).Open("/file.txt")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		data, err := fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Empty(t, data)
	})
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()

	fs, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, fs.CreateDirAll("/docs"))
	require.NoError(t, fs.Write("/docs/readme.txt", []byte("survives reopen")))
	require.NoError(t, fs.Close())

	fs, err = Open(dir)
	require.NoError(t, err)
	defer fs.Close()

	data, err := fs.Read("/docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("survives reopen"), data)
}
