package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
)

// ToYaml formats the configuration into YAML and returns the bytes.
func ToYaml(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// ToYamlFile writes the configuration to a YAML file.
func ToYamlFile(c Config, path string) error {
	b, err := ToYaml(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}

// ToYamlTempFile writes the configuration to a YAML file in a new
// temporary directory. The returned cleanup function removes the directory.
func ToYamlTempFile(c Config, name string) (string, func(), error) {
	tmpdir, err := os.MkdirTemp("", "accelfit-config-")
	if err != nil {
		return "", func() {}, err
	}
	cleanup := func() {
		os.RemoveAll(tmpdir)
	}

	p := filepath.Join(tmpdir, name)
	if err := ToYamlFile(c, p); err != nil {
		cleanup()
		return "", func() {}, err
	}
	return p, cleanup, nil
}

// Parse parses a YAML doc into the given Config instance.
// Values missing from the doc keep whatever conf already holds.
func Parse(raw []byte, conf *Config) error {
	return yaml.Unmarshal(raw, conf)
}

// ParseFile parses an accelfit config file, which is formatted in YAML,
// into conf. An empty path is a no-op.
func ParseFile(relpath string, conf *Config) error {
	if relpath == "" {
		return nil
	}

	// Try to get absolute path. If it fails, fall back to relative path.
	path, abserr := filepath.Abs(relpath)
	if abserr != nil {
		path = relpath
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config at path %s: %v", path, err)
	}

	err = Parse(source, conf)
	if err != nil {
		return fmt.Errorf("failed to parse config at path %s: %v", path, err)
	}
	return nil
}
