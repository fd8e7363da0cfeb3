package shadergraph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DocumentVersion is the version written by Marshal.
const DocumentVersion = 1

// Format is an on-disk encoding of a graph document.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("shadergraph: no graph format for %q", path)
}

// Document is the persisted form of a graph.
type Document struct {
	Version int            `json:"version" yaml:"version" toml:"version" validate:"gte=1"`
	Nodes   []NodeDocument `json:"nodes" yaml:"nodes" toml:"nodes" validate:"dive"`
}

// NodeDocument is the persisted form of a node.
type NodeDocument struct {
	ID        string           `json:"id" yaml:"id" toml:"id" validate:"required"`
	Template  string           `json:"template" yaml:"template" toml:"template" validate:"required"`
	Name      string           `json:"name" yaml:"name" toml:"name"`
	X         float64          `json:"x" yaml:"x" toml:"x"`
	Y         float64          `json:"y" yaml:"y" toml:"y"`
	Width     float64          `json:"width" yaml:"width" toml:"width" validate:"gte=0"`
	Height    float64          `json:"height" yaml:"height" toml:"height" validate:"gte=0"`
	Deletable bool             `json:"deletable" yaml:"deletable" toml:"deletable"`
	Inputs    []InputDocument  `json:"inputs" yaml:"inputs" toml:"inputs" validate:"dive"`
	Outputs   []OutputDocument `json:"outputs" yaml:"outputs" toml:"outputs" validate:"dive"`
}

// InputDocument is the persisted form of an input port. Value holds the
// unconnected value: a bool, a number or a list of numbers for vectors.
type InputDocument struct {
	ID    string `json:"id" yaml:"id" toml:"id" validate:"required"`
	Name  string `json:"name" yaml:"name" toml:"name"`
	Type  string `json:"type" yaml:"type" toml:"type" validate:"valuetype"`
	Link  string `json:"link,omitempty" yaml:"link,omitempty" toml:"link,omitempty"`
	Value any    `json:"value" yaml:"value" toml:"value"`
}

// OutputDocument is the persisted form of an output port.
type OutputDocument struct {
	ID   string `json:"id" yaml:"id" toml:"id" validate:"required"`
	Name string `json:"name" yaml:"name" toml:"name"`
	Type string `json:"type" yaml:"type" toml:"type" validate:"valuetype"`
}

var documentValidate *validator.Validate

func init() {
	documentValidate = validator.New()
	err := documentValidate.RegisterValidation("valuetype", func(fl validator.FieldLevel) bool {
		_, err := ParseValueType(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(err)
	}
}

// NewDocument captures the current state of g.
func NewDocument(g *Graph) *Document {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc := &Document{Version: DocumentVersion, Nodes: make([]NodeDocument, 0, len(g.nodes))}
	for _, n := range g.nodes {
		nd := NodeDocument{
			ID:        n.ID,
			Template:  n.TemplateID,
			Name:      n.Name,
			X:         n.Bounds.X,
			Y:         n.Bounds.Y,
			Width:     n.Bounds.Width,
			Height:    n.Bounds.Height,
			Deletable: n.Deletable,
			Inputs:    make([]InputDocument, len(n.Inputs)),
			Outputs:   make([]OutputDocument, len(n.Outputs)),
		}
		for i, in := range n.Inputs {
			nd.Inputs[i] = InputDocument{
				ID:    in.ID,
				Name:  in.Name,
				Type:  in.Type.String(),
				Link:  in.Link,
				Value: EncodeValue(NormalizeValue(in.Value, in.Type)),
			}
		}
		for i, out := range n.Outputs {
			nd.Outputs[i] = OutputDocument{ID: out.ID, Name: out.Name, Type: out.Type.String()}
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	return doc
}

// Graph builds a graph from the document. With a non-nil reg, nodes whose
// template is not registered are rejected.
func (d *Document) Graph(reg *Registry) (*Graph, error) {
	if err := documentValidate.Struct(d); err != nil {
		return nil, fmt.Errorf("shadergraph: invalid document: %w", err)
	}
	g := NewGraph()
	for _, nd := range d.Nodes {
		if reg != nil {
			if _, ok := reg.Lookup(nd.Template); !ok {
				return nil, fmt.Errorf("%w: node %s uses %q", ErrUnknownTemplate, nd.ID, nd.Template)
			}
		}
		n := &GraphNode{
			ID:         nd.ID,
			TemplateID: nd.Template,
			Name:       nd.Name,
			Bounds:     Rect{X: nd.X, Y: nd.Y, Width: nd.Width, Height: nd.Height},
			Deletable:  nd.Deletable,
			Inputs:     make([]*NodeInput, len(nd.Inputs)),
			Outputs:    make([]*NodeOutput, len(nd.Outputs)),
		}
		for i, id := range nd.Inputs {
			t, _ := ParseValueType(id.Type)
			n.Inputs[i] = &NodeInput{
				ID:    id.ID,
				Name:  id.Name,
				Type:  t,
				Link:  id.Link,
				Value: DecodeValue(id.Value, t),
			}
		}
		for i, od := range nd.Outputs {
			t, _ := ParseValueType(od.Type)
			n.Outputs[i] = &NodeOutput{ID: od.ID, Name: od.Name, Type: t}
		}
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// EncodeValue converts v to the plain form stored in documents.
func EncodeValue(v Value) any {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Int:
		return int64(x)
	case UInt:
		return int64(x)
	case Float:
		return float64(x)
	case Vec2, Vec3, Vec4:
		c, n := vectorComponents(v)
		out := make([]float64, n)
		for i := range out {
			out[i] = float64(c[i])
		}
		return out
	}
	return nil
}

// DecodeValue converts a stored value to type t. Anything that does not fit
// t decodes as the zero value of t.
func DecodeValue(raw any, t ValueType) Value {
	switch t {
	case TypeBool:
		if b, ok := raw.(bool); ok {
			return Bool(b)
		}
	case TypeInt, TypeUInt, TypeFloat:
		if f, ok := toFloat64(raw); ok {
			switch t {
			case TypeInt:
				return Int(int32(f))
			case TypeUInt:
				return UInt(uint32(f))
			default:
				return Float(f)
			}
		}
	case TypeVec2, TypeVec3, TypeVec4:
		var items []any
		switch x := raw.(type) {
		case []any:
			items = x
		case []float64:
			for _, f := range x {
				items = append(items, f)
			}
		default:
			return Zero(t)
		}
		if len(items) != t.Components() {
			return Zero(t)
		}
		var c [4]float32
		for i, item := range items {
			f, ok := toFloat64(item)
			if !ok {
				return Zero(t)
			}
			c[i] = float32(f)
		}
		return makeVector(t, c)
	}
	return Zero(t)
}

func toFloat64(raw any) (float64, bool) {
	switch x := raw.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// --- Encoding ---

// Marshal encodes g in the given format.
func Marshal(g *Graph, f Format) ([]byte, error) {
	doc := NewDocument(g)
	switch f {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		return toml.Marshal(doc)
	}
	return nil, fmt.Errorf("shadergraph: unsupported format %s", f)
}

// Unmarshal decodes a graph document in the given format. See Document.Graph
// for the role of reg.
func Unmarshal(data []byte, f Format, reg *Registry) (*Graph, error) {
	var doc Document
	var err error
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		err = fmt.Errorf("unsupported format %s", f)
	}
	if err != nil {
		return nil, fmt.Errorf("shadergraph: decode %s: %w", f, err)
	}
	return doc.Graph(reg)
}

// SaveFile writes g to path in the format implied by its extension.
func SaveFile(path string, g *Graph) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(g, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadFile reads a graph from path in the format implied by its extension.
func LoadFile(path string, reg *Registry) (*Graph, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data, f, reg)
}
