package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDir     = "shineymark"
	configFile = "config.rc"
	devFile    = ".shineymarkrc"
)

// Loader locates and reads the configuration file.
type Loader struct {
	// Version is the build version. Development builds also look in the
	// working directory.
	Version string
	// OverridePath, when it exists, is used before any other location.
	OverridePath string
}

func NewLoader(version string, overridePath string) *Loader {
	return &Loader{Version: version, OverridePath: overridePath}
}

// Load reads the first configuration file found. With no file the defaults
// are returned.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath is where a new configuration file is written.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, configFile), nil
}

func (l *Loader) candidates() []string {
	var paths []string
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, devFile))
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths,
			filepath.Join(dir, appDir, configFile),
			filepath.Join(dir, appDir, appDir+".rc"),
		)
	}
	return paths
}

// GetConfigPath returns the first existing configuration file, or "".
func (l *Loader) GetConfigPath() string {
	for _, p := range l.candidates() {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}
