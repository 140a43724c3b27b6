package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// File is a rendered output file.
type File struct {
	// Name is the path of the file relative to the target directory.
	Name string
	// Content holds the formatted source.
	Content []byte
}

// FormatSource formats rendered Go source with goimports. Imports are
// already tracked by jennifer, so only formatting and grouping apply.
func FormatSource(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
}

// render renders a jennifer file and formats it. On format failures the
// unformatted source is written next to the target for debugging.
func render(f *jen.File, dir, name string) (*File, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError("render", name, "", err)
	}
	formatted, err := FormatSource(name, buf.Bytes())
	if err != nil {
		if dir != "" {
			debugPath := filepath.Join(dir, name+".error")
			_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
			_ = os.WriteFile(debugPath, buf.Bytes(), 0o644)
			return nil, NewGenerationError("format", name, fmt.Sprintf("unformatted written to %s", debugPath), err)
		}
		return nil, NewGenerationError("format", name, "", err)
	}
	return &File{Name: name, Content: formatted}, nil
}

// write writes the file under dir, creating parent directories.
func (f *File) write(dir string) error {
	path := filepath.Join(dir, f.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewGenerationError("write", f.Name, "create directory", err)
	}
	if err := os.WriteFile(path, f.Content, 0o644); err != nil {
		return NewGenerationError("write", f.Name, "", err)
	}
	return nil
}
