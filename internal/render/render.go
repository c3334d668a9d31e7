// Package render turns a template name into the HTML document served for it
package render

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// ErrTemplateNotFound is returned when the named template does not exist
var ErrTemplateNotFound = errors.New("template not found")

// Renderer writes the document for the template called name to w.
// Implementations must be safe for concurrent use.
type Renderer interface {
	Render(w io.Writer, name string) error
}

// readTemplate loads a flat template name from fsys.
// Anything that is not a plain file name is treated as missing.
func readTemplate(fsys fs.FS, name string) ([]byte, error) {
	if !fs.ValidPath(name) || name == "." || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	return data, nil
}

// StaticRenderer copies template files to the response unchanged
type StaticRenderer struct {
	fsys fs.FS
}

func NewStaticRenderer(fsys fs.FS) *StaticRenderer {
	return &StaticRenderer{fsys: fsys}
}

func (r *StaticRenderer) Render(w io.Writer, name string) error {
	data, err := readTemplate(r.fsys, name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
