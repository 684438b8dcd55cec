package memfs

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/unifs/pkg/vfs"
)

// ============================================================================
// Path resolution
// ============================================================================

func TestCanonicalize(t *testing.T) {
	t.Run("DropsDotComponents", func(t *testing.T) {
		fs := New()

		got, err := fs.Canonicalize("/foo/../bar/./baz")
		require.NoError(t, err)
		assert.Equal(t, "/bar/baz", got)
	})

	t.Run("RootsRelativePaths", func(t *testing.T) {
		fs := New()

		got, err := fs.Canonicalize("test")
		require.NoError(t, err)
		assert.Equal(t, "/test", got)
	})

	t.Run("FinalComponentNeedNotExist", func(t *testing.T) {
		fs := New()

		got, err := fs.Canonicalize("/does/not/exist")
		require.NoError(t, err)
		assert.Equal(t, "/does/not/exist", got)
	})

	t.Run("EscapingRootFails", func(t *testing.T) {
		fs := New()

		_, err := fs.Canonicalize("foo/../../bar")
		require.Error(t, err)
		assert.True(t, vfs.IsNotFound(err))
	})

	t.Run("ResolvesAliasEntries", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.CreateDir("/dir"))
		require.NoError(t, fs.Write("/dir/file.txt", []byte("hi")))
		require.NoError(t, fs.HardLink("/dir", "/alias"))

		got, err := fs.Canonicalize("/alias/file.txt")
		require.NoError(t, err)
		assert.Equal(t, "/dir/file.txt", got)
	})
}

// ============================================================================
// Directories
// ============================================================================

func TestDirectories(t *testing.T) {
	t.Run("CreateAndList", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.CreateDir("/a"))
		require.NoError(t, fs.CreateDir("/a/b"))
		require.NoError(t, fs.Write("/a/file.txt", []byte("x")))

		entries, err := fs.ReadDir("/a")
		require.NoError(t, err)
		require.Len(t, entries, 2)

		// sorted by name
		assert.Equal(t, "b", entries[0].FileName())
		assert.Equal(t, "/a/b", entries[0].Path())
		assert.Equal(t, "file.txt", entries[1].FileName())

		ft, err := entries[0].FileType()
		require.NoError(t, err)
		assert.True(t, ft.IsDir())
	})

	t.Run("CreateExistingFails", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.CreateDir("/a"))

		err := fs.CreateDir("/a")
		require.Error(t, err)
		assert.True(t, vfs.IsAlreadyExists(err))
	})

	t.Run("CreateWithoutParentFails", func(t *testing.T) {
		fs := New()

		err := fs.CreateDir("/a/b/c")
		require.Error(t, err)
		assert.True(t, vfs.IsNotFound(err))
	})

	t.Run("CreateDirAllCreatesAncestors", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.CreateDirAll("/a/b/c"))

		for _, path := range []string{"/a", "/a/b", "/a/b/c"} {
			ok, err := fs.Exists(path)
			require.NoError(t, err)
			assert.True(t, ok, path)
		}

		// idempotent
		require.NoError(t, fs.CreateDirAll("/a/b/c"))
	})

	t.Run("ReadDirOnFileFails", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/file.txt", []byte("x")))

		_, err := fs.ReadDir("/file.txt")
		require.Error(t, err)
		assert.True(t, vfs.IsInvalidInput(err))
	})

	t.Run("RemoveNonEmptyFails", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.CreateDirAll("/a/b"))

		err := fs.RemoveDir("/a")
		require.Error(t, err)
		assert.True(t, vfs.IsDirectoryNotEmpty(err))
	})

	t.Run("RemoveEmpty", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.CreateDir("/a"))
		require.NoError(t, fs.RemoveDir("/a"))

		ok, err := fs.Exists("/a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RemoveAllRemovesSubtree", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.CreateDirAll("/a/b/c"))
		require.NoError(t, fs.Write("/a/b/file.txt", []byte("x")))

		require.NoError(t, fs.RemoveDirAll("/a"))

		for _, path := range []string{"/a", "/a/b", "/a/b/c", "/a/b/file.txt"} {
			ok, err := fs.Exists(path)
			require.NoError(t, err)
			assert.False(t, ok, path)
		}
	})

	t.Run("RootCannotBeRemoved", func(t *testing.T) {
		fs := New()

		assert.True(t, vfs.IsInvalidInput(fs.RemoveDir("/")))
		assert.True(t, vfs.IsInvalidInput(fs.RemoveDirAll("/")))
	})
}

// ============================================================================
// Files
// ============================================================================

func TestFiles(t *testing.T) {
	t.Run("WriteAndRead", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/file.txt", []byte("hello world")))

		data, err := fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello world"), data)

		s, err := fs.ReadToString("/file.txt")
		require.NoError(t, err)
		assert.Equal(t, "hello world", s)
	})

	t.Run("WriteTruncatesExisting", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/file.txt", []byte("a longer first version")))
		require.NoError(t, fs.Write("/file.txt", []byte("short")))

		data, err := fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("short"), data)
	})

	t.Run("ReadMissingFails", func(t *testing.T) {
		fs := New()

		_, err := fs.Read("/missing.txt")
		require.Error(t, err)
		assert.True(t, vfs.IsNotFound(err))
	})

	t.Run("ReadToStringRejectsInvalidUTF8", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/bin", []byte{0xff, 0xfe, 0xfd}))

		_, err := fs.ReadToString("/bin")
		require.Error(t, err)
		assert.Equal(t, vfs.ErrOther, vfs.CodeOf(err))
	})

	t.Run("Metadata", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/file.txt", []byte("12345")))

		meta, err := fs.Metadata("/file.txt")
		require.NoError(t, err)
		assert.True(t, meta.IsFile())
		assert.False(t, meta.IsDir())
		assert.Equal(t, uint64(5), meta.Len())
		assert.False(t, meta.Permissions().Readonly())

		_, err = meta.Created()
		assert.NoError(t, err)
	})

	t.Run("Copy", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/src.txt", []byte("payload")))

		n, err := fs.Copy("/src.txt", "/dst.txt")
		require.NoError(t, err)
		assert.Equal(t, uint64(7), n)

		data, err := fs.Read("/dst.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)

		// contents are independent after the copy
		require.NoError(t, fs.Write("/src.txt", []byte("changed")))
		data, err = fs.Read("/dst.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)
	})

	t.Run("CopyOntoHardLinkWritesThroughToTarget", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/target.txt", []byte("old contents")))
		require.NoError(t, fs.HardLink("/target.txt", "/link.txt"))
		require.NoError(t, fs.Write("/src.txt", []byte("fresh")))

		_, err := fs.Copy("/src.txt", "/link.txt")
		require.NoError(t, err)

		data, err := fs.Read("/target.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("fresh"), data, "the copy lands on the link target")

		// the link entry survives and still resolves to the target
		got, err := fs.Canonicalize("/link.txt")
		require.NoError(t, err)
		assert.Equal(t, "/target.txt", got)

		data, err = fs.Read("/link.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("fresh"), data)
	})

	t.Run("CopyDirectoryFails", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.CreateDir("/dir"))

		_, err := fs.Copy("/dir", "/dst")
		require.Error(t, err)
		assert.True(t, vfs.IsInvalidInput(err))
	})

	t.Run("CopyOntoDirectoryFails", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/src.txt", []byte("x")))
		require.NoError(t, fs.CreateDir("/dir"))

		_, err := fs.Copy("/src.txt", "/dir")
		require.Error(t, err)
		assert.True(t, vfs.IsInvalidInput(err))
	})

	t.Run("RemoveFile", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/file.txt", []byte("x")))
		require.NoError(t, fs.RemoveFile("/file.txt"))

		ok, err := fs.Exists("/file.txt")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RemoveFileOnDirectoryFails", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.CreateDir("/dir"))

		err := fs.RemoveFile("/dir")
		require.Error(t, err)
		assert.True(t, vfs.IsInvalidInput(err))
	})

	t.Run("SetPermissions", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/file.txt", []byte("x")))

		require.NoError(t, fs.SetPermissions("/file.txt", vfs.NewPermissions(true)))

		meta, err := fs.Metadata("/file.txt")
		require.NoError(t, err)
		assert.True(t, meta.Permissions().Readonly())
	})
}

// ============================================================================
// Hard links
// ============================================================================

func TestHardLinks(t *testing.T) {
	t.Run("ReadThroughLink", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/original.txt", []byte("content")))
		require.NoError(t, fs.HardLink("/original.txt", "/link.txt"))

		data, err := fs.Read("/link.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("content"), data)
	})

	t.Run("LinkSurfacesAsSymlinkInListing", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/original.txt", []byte("x")))
		require.NoError(t, fs.HardLink("/original.txt", "/link.txt"))

		entries, err := fs.ReadDir("/")
		require.NoError(t, err)
		require.Len(t, entries, 2)

		ft, err := entries[0].FileType()
		require.NoError(t, err)
		assert.True(t, ft.IsSymlink(), "link.txt sorts first")
	})

	t.Run("RemoveThroughLinkRemovesTarget", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/original.txt", []byte("x")))
		require.NoError(t, fs.HardLink("/original.txt", "/link.txt"))

		require.NoError(t, fs.RemoveFile("/link.txt"))

		ok, err := fs.Exists("/original.txt")
		require.NoError(t, err)
		assert.False(t, ok)

		// the alias entry dangles; opening it resolves to the missing target
		_, err = fs.OpenFile("/link.txt")
		require.Error(t, err)
		assert.True(t, vfs.IsNotFound(err))
	})

	t.Run("LinkToMissingTargetFails", func(t *testing.T) {
		fs := New()

		err := fs.HardLink("/missing.txt", "/link.txt")
		require.Error(t, err)
		assert.True(t, vfs.IsNotFound(err))
	})

	t.Run("LinkOverExistingFails", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/a.txt", []byte("a")))
		require.NoError(t, fs.Write("/b.txt", []byte("b")))

		err := fs.HardLink("/a.txt", "/b.txt")
		require.Error(t, err)
		assert.True(t, vfs.IsAlreadyExists(err))
	})

	t.Run("SymlinksUnsupported", func(t *testing.T) {
		fs := New()

		_, err := fs.ReadLink("/anything")
		assert.True(t, vfs.IsUnsupported(err))

		_, err = fs.SymlinkMetadata("/anything")
		assert.True(t, vfs.IsUnsupported(err))
	})
}

// ============================================================================
// Rename
// ============================================================================

func TestRename(t *testing.T) {
	t.Run("File", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/old.txt", []byte("content")))

		require.NoError(t, fs.Rename("/old.txt", "/new.txt"))

		ok, err := fs.Exists("/old.txt")
		require.NoError(t, err)
		assert.False(t, ok)

		data, err := fs.Read("/new.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("content"), data)
	})

	t.Run("DirectoryMovesSubtree", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.CreateDirAll("/src/nested"))
		require.NoError(t, fs.Write("/src/nested/file.txt", []byte("deep")))
		require.NoError(t, fs.CreateDir("/dst-parent"))

		require.NoError(t, fs.Rename("/src", "/dst-parent/src"))

		data, err := fs.Read("/dst-parent/src/nested/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("deep"), data)

		ok, err := fs.Exists("/src")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RefreshesTimestamps", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/old.txt", nil))

		before := time.Now()
		require.NoError(t, fs.Rename("/old.txt", "/new.txt"))

		meta, err := fs.Metadata("/new.txt")
		require.NoError(t, err)

		modified, err := meta.Modified()
		require.NoError(t, err)
		assert.False(t, modified.Before(before))

		accessed, err := meta.Accessed()
		require.NoError(t, err)
		assert.False(t, accessed.Before(before))
	})

	t.Run("RootFails", func(t *testing.T) {
		fs := New()

		err := fs.Rename("/", "/elsewhere")
		require.Error(t, err)
		assert.True(t, vfs.IsInvalidInput(err))
	})

	t.Run("MissingSourceFails", func(t *testing.T) {
		fs := New()

		err := fs.Rename("/missing", "/dst")
		require.Error(t, err)
		assert.True(t, vfs.IsNotFound(err))
	})

	t.Run("OntoExistingDirectoryFails", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/file.txt", []byte("x")))
		require.NoError(t, fs.CreateDir("/dir"))

		err := fs.Rename("/file.txt", "/dir")
		require.Error(t, err)
		assert.True(t, vfs.IsAlreadyExists(err))
	})

	t.Run("OntoExistingFileReplacesIt", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/a.txt", []byte("a")))
		require.NoError(t, fs.Write("/b.txt", []byte("b")))

		require.NoError(t, fs.Rename("/a.txt", "/b.txt"))

		data, err := fs.Read("/b.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), data)
	})
}

// ============================================================================
// Open options
// ============================================================================

func TestOpenOptions(t *testing.T) {
	t.Run("CreateNewFailsOnExisting", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/file.txt", []byte("x")))

		_, err := fs.CreateNewFile("/file.txt")
		require.Error(t, err)
		assert.True(t, vfs.IsAlreadyExists(err))
	})

	t.Run("OpenMissingWithoutCreateFails", func(t *testing.T) {
		fs := New()

		_, err := fs.OpenFile("/missing.txt")
		require.Error(t, err)
		assert.True(t, vfs.IsNotFound(err))
	})

	t.Run("OpenDirectoryFails", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.CreateDir("/dir"))

		_, err := fs.OpenFile("/dir")
		require.Error(t, err)
		assert.True(t, vfs.IsInvalidInput(err))
	})

	t.Run("CreateWithoutWriteFails", func(t *testing.T) {
		fs := New()

		_, err := fs.NewOpenOptions().Read(true).Create(true).Open("/new.txt")
		require.Error(t, err)
		assert.True(t, vfs.IsInvalidInput(err))
	})

	t.Run("CreateWithoutParentFails", func(t *testing.T) {
		fs := New()

		_, err := fs.CreateFile("/no/parent.txt")
		require.Error(t, err)
		assert.True(t, vfs.IsNotFound(err))
	})

	t.Run("TruncateClearsContents", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/file.txt", []byte("old contents")))

		f, err := fs.NewOpenOptions().Write(true).Truncate(true).Open("/file.txt")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		data, err := fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("AppendImpliesWrite", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/file.txt", []byte("start")))

		f, err := fs.NewOpenOptions().Append(true).Open("/file.txt")
		require.NoError(t, err)

		_, err = f.Write([]byte("+end"))
		require.NoError(t, err)
		require.NoError(t, f.Close())

		data, err := fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("start+end"), data)
	})
}

// ============================================================================
// File handles
// ============================================================================

func TestFileHandle(t *testing.T) {
	t.Run("ReadWriteSeek", func(t *testing.T) {
		fs := New()
		f, err := fs.CreateNewFile("/file.txt")
		require.NoError(t, err)

		n, err := f.Write([]byte("hello world"))
		require.NoError(t, err)
		assert.Equal(t, 11, n)

		pos, err := f.Seek(6, io.SeekStart)
		require.NoError(t, err)
		assert.Equal(t, int64(6), pos)

		buf := make([]byte, 5)
		n, err = f.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "world", string(buf[:n]))

		// at end-of-buffer reads report EOF
		_, err = f.Read(buf)
		assert.Equal(t, io.EOF, err)

		require.NoError(t, f.Close())
	})

	t.Run("WriteWithoutWriteAccessFails", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/file.txt", []byte("x")))

		f, err := fs.OpenFile("/file.txt")
		require.NoError(t, err)
		defer f.Close()

		_, err = f.Write([]byte("y"))
		require.Error(t, err)
		assert.True(t, vfs.IsPermissionDenied(err))
	})

	t.Run("SeekPastEndZeroExtendsOnWrite", func(t *testing.T) {
		fs := New()
		f, err := fs.CreateNewFile("/file.txt")
		require.NoError(t, err)

		_, err = f.Seek(4, io.SeekStart)
		require.NoError(t, err)
		_, err = f.Write([]byte("tail"))
		require.NoError(t, err)
		require.NoError(t, f.Close())

		data, err := fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0, 0, 0, 't', 'a', 'i', 'l'}, data)
	})

	t.Run("NegativeSeekFails", func(t *testing.T) {
		fs := New()
		f, err := fs.CreateNewFile("/file.txt")
		require.NoError(t, err)
		defer f.Close()

		_, err = f.Seek(-1, io.SeekStart)
		require.Error(t, err)
		assert.True(t, vfs.IsInvalidInput(err))
	})

	t.Run("SeekDisablesAppend", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/file.txt", []byte("0123456789")))

		f, err := fs.NewOpenOptions().Append(true).Open("/file.txt")
		require.NoError(t, err)

		_, err = f.Seek(0, io.SeekStart)
		require.NoError(t, err)
		_, err = f.Write([]byte("XX"))
		require.NoError(t, err)
		require.NoError(t, f.Close())

		data, err := fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("XX23456789"), data)
	})

	t.Run("FailedSeekStillDisablesAppend", func(t *testing.T) {
		fs := New()
		require.NoError(t, fs.Write("/file.txt", []byte("0123456789")))

		f, err := fs.NewOpenOptions().Append(true).Open("/file.txt")
		require.NoError(t, err)

		_, err = f.Seek(-5, io.SeekStart)
		require.Error(t, err)
		_, err = f.Write([]byte("XX"))
		require.NoError(t, err)
		require.NoError(t, f.Close())

		// the write lands at the untouched cursor, not at the end
		data, err := fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("XX23456789"), data)
	})

	t.Run("CloneSharesContentsAndCursor", func(t *testing.T) {
		fs := New()
		f, err := fs.CreateNewFile("/file.txt")
		require.NoError(t, err)

		clone, err := f.TryClone()
		require.NoError(t, err)

		_, err = f.Write([]byte("first"))
		require.NoError(t, err)
		_, err = clone.Write([]byte("+second"))
		require.NoError(t, err)

		require.NoError(t, f.Close())
		require.NoError(t, clone.Close())

		data, err := fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("first+second"), data)
	})

	t.Run("SetLen", func(t *testing.T) {
		fs := New()
		f, err := fs.CreateNewFile("/file.txt")
		require.NoError(t, err)

		_, err = f.Write([]byte("0123456789"))
		require.NoError(t, err)

		require.NoError(t, f.SetLen(4))
		data, err := fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("0123"), data)

		require.NoError(t, f.SetLen(6))
		data, err = fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte{'0', '1', '2', '3', 0, 0}, data)

		require.NoError(t, f.Close())
	})

	t.Run("WritesAreVisibleThroughFilesystemReads", func(t *testing.T) {
		fs := New()
		f, err := fs.CreateNewFile("/file.txt")
		require.NoError(t, err)
		defer f.Close()

		// a fresh file has no modification time yet
		meta, err := fs.Metadata("/file.txt")
		require.NoError(t, err)
		_, err = meta.Modified()
		assert.True(t, vfs.IsNotFound(err))

		before := time.Now()
		_, err = f.Write([]byte("data"))
		require.NoError(t, err)

		data, err := fs.Read("/file.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("data"), data)

		meta, err = fs.Metadata("/file.txt")
		require.NoError(t, err)
		modified, err := meta.Modified()
		require.NoError(t, err)
		assert.False(t, modified.Before(before))
	})

	t.Run("SetTimes", func(t *testing.T) {
		fs := New()
		f, err := fs.CreateNewFile("/file.txt")
		require.NoError(t, err)
		defer f.Close()

		stamp := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, f.SetTimes(vfs.NewTimes().WithModified(stamp).WithAccessed(stamp)))

		meta, err := fs.Metadata("/file.txt")
		require.NoError(t, err)

		modified, err := meta.Modified()
		require.NoError(t, err)
		assert.True(t, modified.Equal(stamp))

		accessed, err := meta.Accessed()
		require.NoError(t, err)
		assert.True(t, accessed.Equal(stamp))
	})

	t.Run("HandleSurvivesRename", func(t *testing.T) {
		fs := New()
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
}

// ============================================================================
// Import and export
// ============================================================================

func TestLoadFromDir(t *testing.T) {
	src := New()
	require.NoError(t, src.CreateDirAll("/docs/nested"))
	require.NoError(t, src.Write("/docs/readme.txt", []byte("readme")))
	require.NoError(t, src.Write("/docs/nested/deep.txt", []byte("deep")))
	require.NoError(t, src.Write("/other.txt", []byte("outside")))

	fs, err := LoadFromDir(src, "/docs")
	require.NoError(t, err)

	data, err := fs.Read("/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("readme"), data)

	data, err = fs.Read("/nested/deep.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("deep"), data)

	ok, err := fs.Exists("/other.txt")
	require.NoError(t, err)
	assert.False(t, ok, "entries outside the root are not imported")
}

func TestZip(t *testing.T) {
	fs := New()
	require.NoError(t, fs.CreateDir("/docs"))
	require.NoError(t, fs.Write("/docs/readme.txt", []byte("hello zip")))
	require.NoError(t, fs.Write("/top.txt", []byte("top")))

	data, err := fs.Zip()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	contents := make(map[string]string)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			contents[f.Name] = ""
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		contents[f.Name] = string(body)
	}

	assert.Contains(t, contents, "docs/")
	assert.Equal(t, "hello zip", contents["docs/readme.txt"])
	assert.Equal(t, "top", contents["top.txt"])
}
