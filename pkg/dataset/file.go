package dataset

import (
	"fmt"
	"io/fs"
	"path"
)

// File represents a file containing a reference table.
// This is typically a CSV export or a sheet in Excel format.
type File struct {
	Name    string
	Title   string
	Content []byte
}

// ReadContent loads the file body from fsys.
func (f *File) ReadContent(fsys fs.FS) error {
	data, err := fs.ReadFile(fsys, f.Name)
	if err != nil {
		return fmt.Errorf("could not read %s (%s): %w", f.Title, f.Name, err)
	}
	f.Content = data
	return nil
}

// sourceExtensions lists the formats a reference table may be stored in,
// in lookup order.
var sourceExtensions = []string{".csv", ".xlsx", ".xls"}

// findFile locates the first existing source file for base and returns it
// with the filesystem it lives in. Layers of an overlayFS are searched one
// after the other, so a file of any format in an upper layer wins.
func findFile(fsys fs.FS, base, title string) (*File, fs.FS, bool) {
	layers, ok := fsys.(overlayFS)
	if !ok {
		layers = overlayFS{fsys}
	}
	for _, layer := range layers {
		for _, ext := range sourceExtensions {
			name := base + ext
			if _, err := fs.Stat(layer, name); err == nil {
				return &File{Name: name, Title: title}, layer, true
			}
		}
	}
	return nil, nil, false
}

func (f *File) ext() string {
	return path.Ext(f.Name)
}
