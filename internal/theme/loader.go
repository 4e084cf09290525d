package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no source provides the requested theme.
var ErrNotFound = errors.New("theme not found")

const themeExt = ".theme"

// Loader resolves theme names against the embedded defaults and a list of
// directories searched in order.
type Loader struct {
	Dirs []string
}

// NewLoader searches the user config directory, then the system share
// directory.
func NewLoader() *Loader {
	var dirs []string
	if cfg, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(cfg, "shineymark", "themes"))
	}
	dirs = append(dirs, "/usr/share/shineymark/themes")
	return &Loader{Dirs: dirs}
}

// Load returns the theme called name. A name that is an existing file is
// parsed directly; otherwise the embedded themes win over the directories.
// The empty name is the built-in default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return parseFile(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}

	file := name
	if !strings.HasSuffix(file, themeExt) {
		file += themeExt
	}
	if t, err := parseFile(EmbeddedThemes, "defaults/"+file); !errors.Is(err, fs.ErrNotExist) {
		return t, err
	}
	for _, dir := range l.Dirs {
		t, err := parseFile(os.DirFS(dir), file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return t, err
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func parseFile(fsys fs.FS, name string) (*Theme, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", name, err)
	}
	return t, nil
}
