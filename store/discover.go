package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// EnvConfigDir overrides the user configuration root.
	EnvConfigDir = "STRATO_CONFIG_DIR"
	// EnvInstallRoot points at the shared installation root.
	EnvInstallRoot = "STRATO_INSTALL_ROOT"

	appDirName = "stratoctl"
)

// Discover resolves the user configuration root: the STRATO_CONFIG_DIR
// override first, then $XDG_CONFIG_HOME/stratoctl, then ~/.config/stratoctl.
func Discover() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// DiscoverInstallationRoot reports the shared installation root, when the
// environment configures one.
func DiscoverInstallationRoot() (string, bool) {
	dir := os.Getenv(EnvInstallRoot)
	return dir, dir != ""
}

// Open discovers both roots and builds the file store, for command entry
// points.
func Open() (*File, error) {
	root, err := Discover()
	if err != nil {
		return nil, err
	}
	var opts []FileOption
	if install, ok := DiscoverInstallationRoot(); ok {
		opts = append(opts, WithInstallationRoot(install))
	}
	return NewFile(root, opts...), nil
}
