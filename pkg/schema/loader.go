package schema

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

type overlayDocument struct {
	Commands []overlayCommand `yaml:"commands"`
}

type overlayCommand struct {
	Command   string            `yaml:"command"`
	Operation string            `yaml:"operation"`
	Title     string            `yaml:"title"`
	Help      string            `yaml:"help"`
	Fields    yaml.Node         `yaml:"fields"`
	Meta      map[string]string `yaml:"meta"`
}

type overlayField struct {
	Name       yaml.Node `yaml:"name"`
	Descriptor yaml.Node `yaml:"descriptor"`
}

// LoadFS walks fsys and parses every YAML/JSON overlay file into records.
// Fields are declared as an ordered mapping of name to descriptor or as a list
// of {name, descriptor} entries; descriptors that are not scalars are treated
// as non-data members and skipped.
// A nil filesystem yields no records.
func LoadFS(fsys fs.FS) ([]Record, error) {
	if fsys == nil {
		return nil, nil
	}

	var (
		records []Record
		seen    = make(map[Key]string)
	)
	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isOverlayFile(name) {
			return nil
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", name, err)
		}
		parsed, err := ParseOverlay(data)
		if err != nil {
			return fmt.Errorf("schema: %s: %w", name, err)
		}
		for _, record := range parsed {
			key := record.Key().normalized()
			if first, dup := seen[key]; dup {
				return fmt.Errorf("%w: %s (files %s and %s)", ErrDuplicateCommand, key, first, name)
			}
			seen[key] = name
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ParseOverlay decodes a single overlay document.
func ParseOverlay(data []byte) ([]Record, error) {
	var doc overlayDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode overlay: %w", err)
	}

	records := make([]Record, 0, len(doc.Commands))
	for idx, cmd := range doc.Commands {
		command := strings.TrimSpace(cmd.Command)
		if command == "" {
			return nil, fmt.Errorf("commands[%d]: command is required", idx)
		}
		fields, err := decodeFields(&cmd.Fields)
		if err != nil {
			return nil, fmt.Errorf("commands[%d] (%s): %w", idx, command, err)
		}
		operation := strings.TrimSpace(cmd.Operation)
		if operation == "" {
			operation = AnyOperation
		}
		records = append(records, Record{
			Command:   command,
			Operation: operation,
			Title:     strings.TrimSpace(cmd.Title),
			Help:      SanitizeHelp(cmd.Help),
			Fields:    fields,
			Meta:      cmd.Meta,
		})
	}
	return records, nil
}

// decodeFields accepts either a mapping of name to descriptor or a sequence of
// {name, descriptor} entries. Both keep document order.
func decodeFields(node *yaml.Node) ([]Field, error) {
	if node == nil || node.Kind == 0 {
		return nil, nil
	}

	var pairs [][2]*yaml.Node
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			pairs = append(pairs, [2]*yaml.Node{node.Content[i], node.Content[i+1]})
		}
	case yaml.SequenceNode:
		for idx, item := range node.Content {
			var entry overlayField
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("fields[%d] must be a mapping with name and descriptor", idx)
			}
			if err := item.Decode(&entry); err != nil {
				return nil, fmt.Errorf("fields[%d]: %w", idx, err)
			}
			if strings.TrimSpace(entry.Name.Value) == "" {
				return nil, fmt.Errorf("fields[%d]: name is required", idx)
			}
			if entry.Descriptor.Kind == 0 {
				entry.Descriptor = yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str"}
			}
			pairs = append(pairs, [2]*yaml.Node{&entry.Name, &entry.Descriptor})
		}
	default:
		return nil, fmt.Errorf("fields must be a mapping of name to descriptor or a list of {name, descriptor}")
	}

	fields := make([]Field, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		name := strings.TrimSpace(pair[0].Value)
		value := pair[1]
		if name == "" {
			return nil, fmt.Errorf("field name is required")
		}
		if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate field %q", name)
		}
		seen[name] = struct{}{}
		fields = append(fields, Field{Name: name, Descriptor: ParseDescriptor(value.Value)})
	}
	return fields, nil
}

func isOverlayFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
