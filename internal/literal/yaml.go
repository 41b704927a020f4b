package literal

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrNotObject is returned by DecodeObject when the document root is not a mapping.
var ErrNotObject = errors.New("document root is not an object")

// Decode parses a YAML or JSON document into a literal value.
// JSON input is accepted because YAML 1.2 is a superset of it.
func Decode(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	return FromNode(&doc)
}

// DecodeObject parses a document whose root must be an object.
func DecodeObject(data []byte) (*Object, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w (got %s)", ErrNotObject, TypeName(v))
	}
	return obj, nil
}

// MaxAliasNodes caps how many nodes may be produced by expanding aliases in a
// single document.
const MaxAliasNodes = 10000

var (
	// ErrAliasCycle is returned when an alias refers to a node that contains it.
	ErrAliasCycle = errors.New("alias refers to an enclosing node")
	// ErrAliasExpansion is returned when aliases expand past MaxAliasNodes.
	ErrAliasExpansion = errors.New("aliases expand to too many nodes")
)

// FromNode converts a yaml.v3 node tree into a literal value.
// Mapping keys are kept in document order and repeated keys are preserved.
// Aliases are expanded in place; cycles and excessive expansion are errors.
func FromNode(n *yaml.Node) (any, error) {
	d := &nodeDecoder{expanding: make(map[*yaml.Node]bool)}
	return d.decode(n)
}

type nodeDecoder struct {
	expanding map[*yaml.Node]bool
	depth     int // aliases currently being expanded
	expanded  int // nodes produced under an alias
}

func (d *nodeDecoder) decode(n *yaml.Node) (any, error) {
	if d.depth > 0 {
		d.expanded++
		if d.expanded > MaxAliasNodes {
			return nil, fmt.Errorf("line %d: %w (limit %d)", n.Line, ErrAliasExpansion, MaxAliasNodes)
		}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.decode(n.Content[0])
	case yaml.AliasNode:
		target := n.Alias
		if target == nil {
			return nil, fmt.Errorf("line %d: unknown anchor %q", n.Line, n.Value)
		}
		if d.expanding[target] {
			return nil, fmt.Errorf("line %d: *%s: %w", n.Line, n.Value, ErrAliasCycle)
		}
		d.expanding[target] = true
		d.depth++
		v, err := d.decode(target)
		d.depth--
		delete(d.expanding, target)
		return v, err
	case yaml.MappingNode:
		d.expanding[n] = true
		defer delete(d.expanding, n)
		obj := &Object{Fields: make([]Field, 0, len(n.Content)/2)}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: object keys must be scalars", k.Line)
			}
			if k.ShortTag() == "!!merge" {
				return nil, fmt.Errorf("line %d: merge keys are not supported", k.Line)
			}
			val, err := d.decode(v)
			if err != nil {
				return nil, err
			}
			obj.Fields = append(obj.Fields, Field{Key: k.Value, Value: val})
		}
		return obj, nil
	case yaml.SequenceNode:
		d.expanding[n] = true
		defer delete(d.expanding, n)
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := d.decode(c)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil
	case yaml.ScalarNode:
		return scalar(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func scalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return b, nil
	case "!!int":
		var i int
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return i, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return f, nil
	default:
		return n.Value, nil
	}
}

// ToNode converts a literal value into a yaml.v3 node tree.
func ToNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(t)}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(t)}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(t, 10)}, nil
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return nil, fmt.Errorf("cannot encode non-finite number %v", t)
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(t, 'g', -1, 64)}, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			c, err := ToNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case *Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if t == nil {
			return n, nil
		}
		for _, f := range t.Fields {
			c, err := ToNode(f.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}, c)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unsupported literal type %T", v)
	}
}

// EncodeYAML renders a literal value as a YAML document.
func EncodeYAML(v any) ([]byte, error) {
	n, err := ToNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
