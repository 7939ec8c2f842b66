package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned by Get and Set for a dotted key that names no config field.
var ErrUnknownKey = errors.New("unknown config key")

// LoadFile returns the defaults overlaid with the file at path, ignoring the environment.
// Commands that rewrite the file use it so env overrides are never persisted.
// A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	cfg.path = path
	if err := cfg.Load(); err != nil && !isNotExist(err) {
		return nil, err
	}
	return cfg, nil
}

// LoadUserFile is LoadFile for ~/.stockdesk/config.yaml.
func LoadUserFile() (*Config, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(dir, configFileName))
}

// Get returns the value at a dotted key such as "api.base_url".
// A section key returns the section rendered as YAML.
func (c *Config) Get(key string) (string, error) {
	root, err := c.node()
	if err != nil {
		return "", err
	}
	n, err := lookup(root, key)
	if err != nil {
		return "", err
	}
	if n.Kind == yaml.ScalarNode {
		return n.Value, nil
	}
	out, err := yaml.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("marshalling %s: %w", key, err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// Set assigns value to a dotted leaf key, converting it to the field's type.
// The config is not validated; call Validate afterwards.
func (c *Config) Set(key, value string) error {
	root, err := c.node()
	if err != nil {
		return err
	}
	n, err := lookup(root, key)
	if err != nil {
		return err
	}
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: %s is a section, not a value", ErrUnknownKey, key)
	}

	// strings keep their tag so "123" stays a string; other scalars are re-resolved
	if n.Tag != "!!str" {
		n.Tag = ""
	}
	n.Value = value
	n.Style = 0

	updated := Defaults()
	if err = root.Decode(updated); err != nil {
		return fmt.Errorf("setting %s=%q: %w", key, value, err)
	}
	updated.path = c.path
	*c = *updated
	return nil
}

// Keys lists every dotted leaf key in file order.
func (c *Config) Keys() []string {
	root, err := c.node()
	if err != nil {
		return nil
	}
	var keys []string
	var walk func(prefix string, n *yaml.Node)
	walk = func(prefix string, n *yaml.Node) {
		for i := 0; i+1 < len(n.Content); i += 2 {
			name := n.Content[i].Value
			if prefix != "" {
				name = prefix + "." + name
			}
			if child := n.Content[i+1]; child.Kind == yaml.MappingNode {
				walk(name, child)
			} else {
				keys = append(keys, name)
			}
		}
	}
	walk("", root)
	return keys
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func (c *Config) node() (*yaml.Node, error) {
	var doc yaml.Node
	if err := doc.Encode(c); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return &doc, nil
}

func lookup(root *yaml.Node, key string) (*yaml.Node, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrUnknownKey)
	}
	n := root
	for _, part := range strings.Split(key, ".") {
		if n.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == part {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		n = next
	}
	return n, nil
}
