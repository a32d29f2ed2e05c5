package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Decode parses YAML (or JSON) into the document tree. Mappings become *Map,
// sequences []any and scalars their natural Go type. An empty document decodes
// to nil.
func Decode(raw []byte) (any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("data: decode: %w", err)
	}
	if node.Kind == 0 {
		return nil, nil
	}
	value, err := fromNode(&node)
	if err != nil {
		return nil, fmt.Errorf("data: decode: %w", err)
	}
	return value, nil
}

func fromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return fromNode(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, fmt.Errorf("line %d: dangling alias", node.Line)
		}
		return fromNode(node.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := fromNode(child)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.MappingNode:
		return mappingFromNode(node)
	case yaml.ScalarNode:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", node.Line, node.Kind)
	}
}

func mappingFromNode(node *yaml.Node) (*Map, error) {
	out := NewMap()
	var merges []*Map

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		value, err := fromNode(valueNode)
		if err != nil {
			return nil, err
		}
		if keyNode.ShortTag() == "!!merge" {
			merged, err := mergeSources(value, keyNode.Line)
			if err != nil {
				return nil, err
			}
			merges = append(merges, merged...)
			continue
		}
		out.Set(keyNode.Value, value)
	}

	// explicit keys win over << merges
	for _, src := range merges {
		src.Range(func(key string, value any) bool {
			if !out.Has(key) {
				out.Set(key, value)
			}
			return true
		})
	}
	return out, nil
}

func mergeSources(value any, line int) ([]*Map, error) {
	switch v := value.(type) {
	case *Map:
		return []*Map{v}, nil
	case []any:
		out := make([]*Map, 0, len(v))
		for _, item := range v {
			m, ok := item.(*Map)
			if !ok {
				return nil, fmt.Errorf("line %d: merge key expects mappings", line)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: merge key expects a mapping", line)
	}
}
