// Package store provides the durable property stores behind the engine's
// persisted layer: a file-backed implementation with named user profiles and
// an optional installation-wide layer, plus an in-memory implementation for
// tests and embedding.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/stratoctl/properties"
)

// Layout under the user root:
//
//	<root>/active_config                        name of the active profile
//	<root>/configurations/config_<name>.toml    one file per profile
//
// plus an optional shared layer at <installRoot>/properties.toml.
const (
	activeConfigFile  = "active_config"
	configurationsDir = "configurations"
	defaultProfile    = "default"
	installFileName   = "properties.toml"
)

// File is the durable property store. Reads merge the installation layer
// under the active user profile (the profile wins); writes target exactly
// one scope. Files are parsed on every access, so external edits are picked
// up without any reload protocol.
type File struct {
	root        string
	installRoot string
}

// FileOption configures a File store.
type FileOption func(*File)

// WithInstallationRoot enables the installation scope, backed by
// <dir>/properties.toml. Without it, installation writes fail with
// properties.ErrMissingInstallationConfig.
func WithInstallationRoot(dir string) FileOption {
	return func(f *File) { f.installRoot = dir }
}

// NewFile returns a store rooted at the user configuration directory. The
// directory does not have to exist yet; it is created on first write.
func NewFile(root string, opts ...FileOption) *File {
	f := &File{root: root}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ActiveProfile returns the named profile user-scope reads and writes
// target. A missing or empty active_config file selects "default". Profile
// switching itself is owned by other tooling; this store only follows the
// selection.
func (f *File) ActiveProfile() string {
	data, err := os.ReadFile(filepath.Join(f.root, activeConfigFile))
	if err != nil {
		return defaultProfile
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return defaultProfile
	}
	return name
}

func (f *File) userPath() string {
	return filepath.Join(f.root, configurationsDir, "config_"+f.ActiveProfile()+".toml")
}

func (f *File) installPath() (string, bool) {
	if f.installRoot == "" {
		return "", false
	}
	return filepath.Join(f.installRoot, installFileName), true
}

// Get returns the effective persisted value for (section, name): the active
// profile first, then the installation layer. Unreadable or corrupt files
// resolve as absent, with a warning, so one bad layer cannot take down every
// resolution.
func (f *File) Get(section, name string) (string, bool) {
	if v, ok := lookupIn(f.readLayer(f.userPath()), section, name); ok {
		return v, true
	}
	if path, ok := f.installPath(); ok {
		if v, ok := lookupIn(f.readLayer(path), section, name); ok {
			return v, true
		}
	}
	return "", false
}

// Set writes value for (section, name) into the file selected by scope.
func (f *File) Set(section, name, value string, scope properties.Scope) error {
	path, err := f.writePath(scope)
	if err != nil {
		return err
	}
	props, err := readPropsOrEmpty(path)
	if err != nil {
		return err
	}
	sec := props[section]
	if sec == nil {
		sec = make(map[string]string)
		props[section] = sec
	}
	sec[name] = value
	return writeProps(path, props)
}

// Delete removes (section, name) from the file selected by scope. Deleting a
// value that is not present is not an error.
func (f *File) Delete(section, name string, scope properties.Scope) error {
	path, err := f.writePath(scope)
	if err != nil {
		return err
	}
	props, err := readPropsOrEmpty(path)
	if err != nil {
		return err
	}
	sec, ok := props[section]
	if !ok {
		return nil
	}
	if _, ok := sec[name]; !ok {
		return nil
	}
	delete(sec, name)
	if len(sec) == 0 {
		delete(props, section)
	}
	return writeProps(path, props)
}

// Import parses a property file in any supported format (TOML, JSON with
// comments, YAML) and merges every entry into the file selected by scope.
// It returns the number of imported properties.
func (f *File) Import(path string, scope properties.Scope) (int, error) {
	imported, err := readProps(path)
	if err != nil {
		return 0, fmt.Errorf("import %q: %w", path, err)
	}

	target, err := f.writePath(scope)
	if err != nil {
		return 0, err
	}
	props, err := readPropsOrEmpty(target)
	if err != nil {
		return 0, err
	}

	count := 0
	for section, entries := range imported {
		sec := props[section]
		if sec == nil {
			sec = make(map[string]string)
			props[section] = sec
		}
		for name, value := range entries {
			sec[name] = value
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return count, writeProps(target, props)
}

// writePath maps a scope to its backing file, failing for the installation
// scope when no installation root is configured.
func (f *File) writePath(scope properties.Scope) (string, error) {
	switch scope {
	case properties.ScopeUser:
		return f.userPath(), nil
	case properties.ScopeInstallation:
		path, ok := f.installPath()
		if !ok {
			return "", fmt.Errorf("%w: no installation root configured", properties.ErrMissingInstallationConfig)
		}
		return path, nil
	}
	return "", fmt.Errorf("unknown scope %v", scope)
}

// readLayer reads one layer for resolution. Absent files are normal; any
// other failure logs and resolves as empty.
func (f *File) readLayer(path string) map[string]map[string]string {
	props, err := readProps(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("skipping unreadable property file", "path", path, "error", err)
		}
		return nil
	}
	return props
}

// readPropsOrEmpty reads a layer for a read-modify-write. A missing file
// starts empty; a corrupt file is an error, so a write never clobbers data
// it could not parse.
func readPropsOrEmpty(path string) (map[string]map[string]string, error) {
	props, err := readProps(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]map[string]string), nil
		}
		return nil, err
	}
	return props, nil
}

func lookupIn(props map[string]map[string]string, section, name string) (string, bool) {
	sec, ok := props[section]
	if !ok {
		return "", false
	}
	v, ok := sec[name]
	return v, ok
}

type fileFormat string

const (
	formatTOML fileFormat = "toml"
	formatJSON fileFormat = "json"
	formatYAML fileFormat = "yaml"
)

// readProps parses a property file into section/name/value form. TOML is
// the canonical format; JSON (comments allowed) and YAML are accepted for
// files produced by other tooling.
func readProps(path string) (map[string]map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]any)
	switch detectFormat(path, data) {
	case formatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
	case formatJSON:
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.UseNumber()
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to determine property file format")
	}

	return flattenSections(raw)
}

// detectFormat determines format from the file extension, falling back to
// content detection for unknown extensions.
func detectFormat(path string, data []byte) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return formatTOML
	case ".json", ".jsonc":
		return formatJSON
	case ".yaml", ".yml":
		return formatYAML
	}
	return detectFormatFromContent(data)
}

// detectFormatFromContent attempts to detect format by parsing. JSON is the
// strictest, so it goes first; YAML accepts most JSON, so it follows; TOML
// is last.
func detectFormatFromContent(data []byte) fileFormat {
	var jsonTest any
	if err := json.Unmarshal(jsonc.ToJSON(data), &jsonTest); err == nil {
		return formatJSON
	}

	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return formatYAML
	}

	var tomlTest any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return formatTOML
	}

	return ""
}

// flattenSections converts a parsed document into two-level string form.
// Top-level entries must be tables of scalars; property values are stored as
// canonical strings regardless of the on-disk syntax.
func flattenSections(raw map[string]any) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(raw))
	for section, v := range raw {
		table, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("section %q is not a table", section)
		}
		props := make(map[string]string, len(table))
		for name, val := range table {
			s, err := scalarString(val)
			if err != nil {
				return nil, fmt.Errorf("property %s/%s: %w", section, name, err)
			}
			props[name] = s
		}
		out[section] = props
	}
	return out, nil
}

func scalarString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case map[string]any:
		return "", fmt.Errorf("nested tables are not allowed")
	case []any:
		return "", fmt.Errorf("arrays are not allowed")
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// writeProps marshals the full property map to TOML and writes it
// atomically. Writes always produce TOML, whatever format a file was
// imported from.
func writeProps(path string, props map[string]map[string]string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(props); err != nil {
		return fmt.Errorf("marshal properties to TOML: %w", err)
	}
	return atomicWrite(path, buf.Bytes())
}

// atomicWrite writes data through a temp file in the target directory,
// syncing before the rename so a crash never leaves a torn file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %q: %w", path, err)
	}
	return nil
}
