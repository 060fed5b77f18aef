package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
)

// ErrUnknownKey is returned for dotted keys that name no config field.
var ErrUnknownKey = errors.New("unknown config key")

// Document is a config file held as a YAML node tree. Edits go through the
// tree so the operator's comments and key order survive a rewrite, and keys
// the file never set stay absent.
type Document struct {
	root yaml.Node
}

// ParseDocument parses raw config file contents. Empty input is an empty mapping.
func ParseDocument(data []byte) (*Document, error) {
	d := &Document{}
	if err := yaml.Unmarshal(data, &d.root); err != nil {
		return nil, err
	}
	if d.root.Kind == 0 {
		d.root = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}
	if len(d.root.Content) == 0 || d.root.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("config file must hold a mapping")
	}
	return d, nil
}

// Set stores value under key, creating the sections the file omits.
func (d *Document) Set(key string, value interface{}) error {
	if !KnownKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	var node yaml.Node
	if err := node.Encode(value); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	section := d.root.Content[0]
	parts := strings.Split(key, ".")
	for i, part := range parts {
		last := i == len(parts)-1
		idx := valueIndex(section, part)
		if idx < 0 {
			next := &node
			if !last {
				next = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			}
			section.Content = append(section.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: part}, next)
			section = next
			continue
		}
		if last {
			node.LineComment = section.Content[idx].LineComment
			section.Content[idx] = &node
			return nil
		}
		section = section.Content[idx]
		if section.Kind != yaml.MappingNode {
			return fmt.Errorf("%s is not a section", strings.Join(parts[:i+1], "."))
		}
	}
	return nil
}

// Bytes renders the document with the two-space indent of the shipped file.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&d.root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Lookup renders the value at key in cfg as YAML.
func Lookup(cfg domain.Config, key string) ([]byte, error) {
	var root yaml.Node
	if err := root.Encode(cfg); err != nil {
		return nil, err
	}
	node := find(&root, key)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return yaml.Marshal(node)
}

// KnownKey reports whether key names a field of the config tree.
func KnownKey(key string) bool {
	var root yaml.Node
	if err := root.Encode(Defaults()); err != nil {
		return false
	}
	return find(&root, key) != nil
}

func find(root *yaml.Node, key string) *yaml.Node {
	node := root
	for _, part := range strings.Split(key, ".") {
		if node.Kind != yaml.MappingNode {
			return nil
		}
		idx := valueIndex(node, part)
		if idx < 0 {
			return nil
		}
		node = node.Content[idx]
	}
	return node
}

// valueIndex returns the index of the value paired with key in a mapping
// node, or -1.
func valueIndex(mapping *yaml.Node, key string) int {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return i + 1
		}
	}
	return -1
}
