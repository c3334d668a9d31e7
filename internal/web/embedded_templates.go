package web

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed templates/*.html
var EmbeddedTemplatesFS embed.FS

// ListEmbeddedTemplates returns a list of all embedded template files for debugging
func ListEmbeddedTemplates() ([]string, error) {
	return fs.Glob(TemplatesFS(), "*.html")
}

// TemplatesFS returns the embedded templates rooted at the templates directory
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(EmbeddedTemplatesFS, "templates")
	if err != nil {
		panic("Failed to create embedded templates filesystem: " + err.Error())
	}
	return sub
}

// OpenTemplates returns dir as a filesystem, or the embedded templates when dir is empty
func OpenTemplates(dir string) (fs.FS, error) {
	if dir == "" {
		return TemplatesFS(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("template dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template dir %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}
