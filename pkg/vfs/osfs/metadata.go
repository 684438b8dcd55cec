package osfs

import (
	iofs "io/fs"
	"os"
	"syscall"
	"time"

	"github.com/marmos91/unifs/pkg/vfs"
)

// Metadata wraps an os.FileInfo.
type Metadata struct {
	info os.FileInfo
}

var _ vfs.Metadata = (*Metadata)(nil)

func entryType(mode iofs.FileMode) vfs.EntryType {
	switch {
	case mode.IsDir():
		return vfs.EntryTypeDirectory
	case mode&iofs.ModeSymlink != 0:
		return vfs.EntryTypeSymlink
	default:
		return vfs.EntryTypeFile
	}
}

func (m *Metadata) FileType() vfs.FileType { return entryType(m.info.Mode()) }
func (m *Metadata) IsDir() bool            { return m.info.IsDir() }
func (m *Metadata) IsFile() bool           { return m.info.Mode().IsRegular() }
func (m *Metadata) IsSymlink() bool        { return m.info.Mode()&iofs.ModeSymlink != 0 }
func (m *Metadata) Len() uint64            { return uint64(m.info.Size()) }

func (m *Metadata) Permissions() vfs.Permissions {
	return vfs.NewPermissions(m.info.Mode().Perm()&0o200 == 0)
}

// Created is not portably available from stat.
func (m *Metadata) Created() (time.Time, error) {
	return time.Time{}, &vfs.Error{
		Code:    vfs.ErrUnsupported,
		Message: "creation time not available",
	}
}

func (m *Metadata) Modified() (time.Time, error) {
	return m.info.ModTime(), nil
}

func (m *Metadata) Accessed() (time.Time, error) {
	if st, ok := m.info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Atim.Sec, st.Atim.Nsec), nil
	}
	return time.Time{}, &vfs.Error{
		Code:    vfs.ErrUnsupported,
		Message: "accessed time not available",
	}
}

// DirEntry wraps an os.DirEntry together with its full path.
type DirEntry struct {
	path  string
	entry os.DirEntry
}

var _ vfs.DirEntry = (*DirEntry)(nil)

func (d *DirEntry) Path() string     { return d.path }
func (d *DirEntry) FileName() string { return d.entry.Name() }

func (d *DirEntry) FileType() (vfs.FileType, error) {
	return entryType(d.entry.Type()), nil
}

func (d *DirEntry) Metadata() (vfs.Metadata, error) {
	info, err := d.entry.Info()
	if err != nil {
		return nil, wrapError(err, d.path)
	}
	return &Metadata{info: info}, nil
}
