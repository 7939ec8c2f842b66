package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// sectionDecoder replaces one top-level section of a Config from a YAML node.
type sectionDecoder func(n *yaml.Node) error

// replaceSection decodes into a fresh zero value so fields missing from the
// overlay are reset instead of merged.
func replaceSection[S any](dst *S) sectionDecoder {
	return func(n *yaml.Node) error {
		var v S
		if err := n.Decode(&v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func (c *Config) sections() map[string]sectionDecoder {
	return map[string]sectionDecoder{
		"api":     replaceSection(&c.API),
		"output":  replaceSection(&c.Output),
		"table":   replaceSection(&c.Table),
		"logging": replaceSection(&c.Logging),
	}
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay are left unchanged, and keys
// that name no section are ignored.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var doc yaml.Node
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("parsing overlay YAML from %s: top level must be a mapping", overlayPath)
	}

	decoders := target.sections()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		decode, ok := decoders[key]
		if !ok {
			continue
		}
		if err = decode(root.Content[i+1]); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}
