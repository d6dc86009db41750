package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Document is a loaded schema or model payload. The payload is normalised to
// JSON when the document is built, so every consumer reads the same bytes
// whether the source was JSON or YAML.
type Document struct {
	source Source
	raw    []byte
	json   []byte
}

// NewDocument wraps raw and converts it to JSON. YAML payloads (by extension,
// or anything that is not valid JSON) are converted with mapping order kept.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	normalised := clone
	if FormatOf(src) == FormatYAML || !json.Valid(clone) {
		out, err := YAMLToJSON(clone)
		if err != nil {
			return Document{}, fmt.Errorf("schema: decode %s: %w", src.Location(), err)
		}
		normalised = out
	}
	return Document{source: src, raw: clone, json: normalised}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload as it was read.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// JSON returns a copy of the normalised payload.
func (d Document) JSON() []byte {
	return append([]byte(nil), d.json...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// YAMLToJSON converts a YAML document to JSON, keeping mapping order. Aliases
// are expanded and merge keys (<<) are resolved; explicit keys win over merged
// ones.
func YAMLToJSON(raw []byte) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return nil, errors.New("empty yaml document")
	}
	var buf bytes.Buffer
	if err := writeNode(&buf, &root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type mappingEntry struct {
	key   string
	value *yaml.Node
}

func writeNode(buf *bytes.Buffer, node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeNode(buf, node.Content[0])
	case yaml.AliasNode:
		return writeNode(buf, node.Alias)
	case yaml.MappingNode:
		entries, err := mappingEntries(node)
		if err != nil {
			return err
		}
		buf.WriteByte('{')
		for idx, entry := range entries {
			if idx > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(entry.key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeNode(buf, entry.value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for idx, item := range node.Content {
			if idx > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		return writeScalar(buf, node)
	default:
		return fmt.Errorf("unsupported yaml node kind %d at line %d", node.Kind, node.Line)
	}
}

// mappingEntries flattens a mapping in document order. Merged keys fill in
// only what is not already set; an explicit key replaces an earlier value in
// place.
func mappingEntries(node *yaml.Node) ([]mappingEntry, error) {
	var entries []mappingEntry
	position := make(map[string]int)

	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		key, value := node.Content[idx], node.Content[idx+1]
		if key.Kind == yaml.ScalarNode && key.ShortTag() == "!!merge" {
			merged, err := mergeSources(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", key.Line, err)
			}
			for _, entry := range merged {
				if _, seen := position[entry.key]; seen {
					continue
				}
				position[entry.key] = len(entries)
				entries = append(entries, entry)
			}
			continue
		}

		name := key.Value
		if pos, seen := position[name]; seen {
			entries[pos].value = value
			continue
		}
		position[name] = len(entries)
		entries = append(entries, mappingEntry{key: name, value: value})
	}
	return entries, nil
}

func mergeSources(value *yaml.Node) ([]mappingEntry, error) {
	value = resolveAlias(value)
	switch value.Kind {
	case yaml.MappingNode:
		return mappingEntries(value)
	case yaml.SequenceNode:
		var out []mappingEntry
		for _, item := range value.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.MappingNode {
				return nil, errors.New("merge sequence may only contain mappings")
			}
			entries, err := mappingEntries(item)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
		return out, nil
	default:
		return nil, errors.New("merge value must be a mapping or a sequence of mappings")
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func writeScalar(buf *bytes.Buffer, node *yaml.Node) error {
	switch node.ShortTag() {
	case "!!null":
		buf.WriteString("null")
		return nil
	case "!!bool":
		var value bool
		if err := node.Decode(&value); err != nil {
			return err
		}
		buf.WriteString(strconv.FormatBool(value))
		return nil
	case "!!int", "!!float":
		var value float64
		if err := node.Decode(&value); err != nil {
			return err
		}
		out, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		buf.Write(out)
		return nil
	default:
		out, err := json.Marshal(node.Value)
		if err != nil {
			return err
		}
		buf.Write(out)
		return nil
	}
}
