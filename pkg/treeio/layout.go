package treeio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cladekit/phylogram/pkg/errors"
	"github.com/cladekit/phylogram/pkg/figure"
	"github.com/cladekit/phylogram/pkg/layout"
)

// Primitive type tags in the layout document.
const (
	primMarker  = "marker"
	primSegment = "segment"
)

// LayoutDoc is the serialized form of one layout run: the drawable
// primitives, the ordered label/leaf sequences, and the axis metadata an
// external figure assembler needs. It is self-contained so a stored
// layout.json can be rendered without re-running the engine.
type LayoutDoc struct {
	Orientation string             `json:"orientation"`
	Signs       SignsDoc           `json:"signs"`
	Labels      []string           `json:"labels"`
	Leaves      []string           `json:"leaves"`
	Ticks       []float64          `json:"ticks"`
	Primitives  []PrimitiveDoc     `json:"primitives"`
	Axes        figure.Axes        `json:"axes"`
	Depths      map[string]float64 `json:"depths,omitempty"`
	Ranks       map[string]float64 `json:"ranks,omitempty"`
}

// SignsDoc mirrors layout.Signs for serialization.
type SignsDoc struct {
	Depth float64 `json:"depth"`
	Rank  float64 `json:"rank"`
}

// PrimitiveDoc is the tagged wire form of a layout.Primitive.
type PrimitiveDoc struct {
	Type string `json:"type"` // "marker" or "segment"

	// Marker fields
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Label string  `json:"label,omitempty"`
	Leaf  bool    `json:"leaf,omitempty"`

	// Segment fields
	X0 float64 `json:"x0,omitempty"`
	Y0 float64 `json:"y0,omitempty"`
	X1 float64 `json:"x1,omitempty"`
	Y1 float64 `json:"y1,omitempty"`
}

// FromResult converts a layout result into its serialized document,
// including derived axis metadata.
func FromResult(res layout.Result) LayoutDoc {
	doc := LayoutDoc{
		Orientation: string(res.Orientation),
		Signs:       SignsDoc{Depth: res.Signs.Depth, Rank: res.Signs.Rank},
		Labels:      res.Labels,
		Leaves:      res.Leaves,
		Ticks:       res.Ticks,
		Axes:        figure.BuildAxes(res),
		Depths:      res.Depths,
		Ranks:       res.Ranks,
	}
	doc.Primitives = make([]PrimitiveDoc, 0, len(res.Primitives))
	for _, p := range res.Primitives {
		switch v := p.(type) {
		case layout.NodeMarker:
			doc.Primitives = append(doc.Primitives, PrimitiveDoc{
				Type: primMarker, X: v.X, Y: v.Y, Label: v.Label, Leaf: v.Leaf,
			})
		case layout.BranchSegment:
			doc.Primitives = append(doc.Primitives, PrimitiveDoc{
				Type: primSegment, X0: v.X0, Y0: v.Y0, X1: v.X1, Y1: v.Y1,
			})
		}
	}
	return doc
}

// ToResult rebuilds a layout result from its serialized document.
func ToResult(doc LayoutDoc) (layout.Result, error) {
	orientation, err := layout.ParseOrientation(doc.Orientation)
	if err != nil {
		return layout.Result{}, err
	}
	res := layout.Result{
		Labels:      doc.Labels,
		Leaves:      doc.Leaves,
		Ticks:       doc.Ticks,
		Orientation: orientation,
		Signs:       layout.Signs{Depth: doc.Signs.Depth, Rank: doc.Signs.Rank},
		Depths:      doc.Depths,
		Ranks:       doc.Ranks,
	}
	for i, p := range doc.Primitives {
		switch p.Type {
		case primMarker:
			res.Primitives = append(res.Primitives, layout.NodeMarker{
				X: p.X, Y: p.Y, Label: p.Label, Leaf: p.Leaf,
			})
		case primSegment:
			res.Primitives = append(res.Primitives, layout.BranchSegment{
				X0: p.X0, Y0: p.Y0, X1: p.X1, Y1: p.Y1,
			})
		default:
			return layout.Result{}, errors.New(errors.ErrCodeInvalidInput,
				"unknown primitive type %q at index %d", p.Type, i)
		}
	}
	return res, nil
}

// WriteLayout encodes a layout result as an indented JSON document.
func WriteLayout(res layout.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromResult(res)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteLayoutFile writes a layout document to a JSON file.
func WriteLayoutFile(res layout.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayout(res, f)
}

// MarshalLayout encodes a layout result to JSON bytes.
func MarshalLayout(res layout.Result) ([]byte, error) {
	return json.Marshal(FromResult(res))
}

// ReadLayout decodes a layout document from r.
func ReadLayout(r io.Reader) (layout.Result, error) {
	var doc LayoutDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return layout.Result{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout")
	}
	return ToResult(doc)
}

// ReadLayoutFile reads a layout document from a file.
func ReadLayoutFile(path string) (layout.Result, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return layout.Result{}, errors.New(errors.ErrCodeFileNotFound, "layout file %s does not exist", path)
	}
	if err != nil {
		return layout.Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}

// UnmarshalLayout decodes a layout document from bytes.
func UnmarshalLayout(data []byte) (layout.Result, error) {
	var doc LayoutDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return layout.Result{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout")
	}
	return ToResult(doc)
}
