package capture

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Files opens inputs and creates outputs on a filesystem, the OS one in
// production and an in-memory one in tests.
type Files struct {
	Fs  afero.Fs
	Dir string
}

// NewFiles returns Files rooted at dir ("" for the working directory).
func NewFiles(fs afero.Fs, dir string) *Files {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Files{Fs: fs, Dir: dir}
}

// Open opens an input capture and reports its size in bytes.
func (f *Files) Open(path string) (afero.File, int64, error) {
	in, err := f.Fs.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("capture: open input: %w", err)
	}
	info, err := in.Stat()
	if err != nil {
		_ = in.Close()
		return nil, 0, fmt.Errorf("capture: stat input: %w", err)
	}
	if info.IsDir() {
		_ = in.Close()
		return nil, 0, fmt.Errorf("capture: input %s is a directory", path)
	}
	return in, info.Size(), nil
}

// Path joins an output name onto the output directory.
func (f *Files) Path(name string) string {
	if f.Dir == "" {
		return name
	}
	return filepath.Join(f.Dir, name)
}

// Create creates or truncates the named output in the output directory.
func (f *Files) Create(name string) (afero.File, error) {
	if f.Dir != "" {
		if err := f.Fs.MkdirAll(f.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("capture: output dir: %w", err)
		}
	}
	out, err := f.Fs.Create(f.Path(name))
	if err != nil {
		return nil, fmt.Errorf("capture: create output: %w", err)
	}
	return out, nil
}

// WriteFile writes data to the named output in one call.
func (f *Files) WriteFile(name string, data []byte) error {
	if f.Dir != "" {
		if err := f.Fs.MkdirAll(f.Dir, 0o755); err != nil {
			return fmt.Errorf("capture: output dir: %w", err)
		}
	}
	return afero.WriteFile(f.Fs, f.Path(name), data, 0o644)
}
