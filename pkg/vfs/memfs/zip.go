package memfs

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"

	"github.com/marmos91/unifs/pkg/vfs"
)

// WriteZip writes the whole filesystem as a zip archive to w. Directories
// become directory entries and files are deflated with their modification
// time when one is recorded. Alias entries are skipped.
func (fs *FS) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)

	err := vfs.Walk(fs, "/", func(entry vfs.DirEntry) error {
		name := strings.TrimPrefix(entry.Path(), "/")

		fileType, err := entry.FileType()
		if err != nil {
			return err
		}

		switch {
		case fileType.IsDir():
			_, err := zw.Create(name + "/")
			return err
		case fileType.IsFile():
			header := &zip.FileHeader{
				Name:   name,
				Method: zip.Deflate,
			}
			if meta, err := entry.Metadata(); err == nil {
				if mt, err := meta.Modified(); err == nil {
					header.Modified = mt
				}
			}

			fw, err := zw.CreateHeader(header)
			if err != nil {
				return err
			}

			data, err := fs.Read(entry.Path())
			if err != nil {
				return err
			}

			_, err = fw.Write(data)
			return err
		default:
			return nil
		}
	})
	if err != nil {
		zw.Close()
		return err
	}

	return zw.Close()
}

// Zip returns the whole filesystem as a zip archive.
func (fs *FS) Zip() ([]byte, error) {
	var buf bytes.Buffer
	if err := fs.WriteZip(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
