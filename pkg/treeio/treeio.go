// Package treeio reads and writes the JSON tree format consumed by the
// layout pipeline, and the layout document it produces.
//
// A tree document is the materialized form an external parser hands over;
// parsing the Newick text format itself is out of scope here.
//
//	{
//	  "name": "root",
//	  "children": [
//	    {"name": "A", "length": 1.5},
//	    {"children": [{"name": "B"}, {"name": "C", "length": 0}]}
//	  ]
//	}
//
// The format round-trips: import → normalize → export → re-import yields
// an identical structure.
package treeio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cladekit/phylogram/pkg/errors"
	"github.com/cladekit/phylogram/pkg/tree"
)

type jsonNode struct {
	Name     string     `json:"name,omitempty"`
	Length   *float64   `json:"length,omitempty"`
	Children []jsonNode `json:"children,omitempty"`
}

// =============================================================================
// Tree Reading
// =============================================================================

// ReadTree decodes a JSON tree document from r.
func ReadTree(r io.Reader) (*tree.Node, error) {
	var doc jsonNode
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode tree")
	}
	return fromJSON(doc), nil
}

// ReadTreeFile reads a JSON tree document from a file.
func ReadTreeFile(path string) (*tree.Node, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "tree file %s does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTree(f)
}

// UnmarshalTree decodes a JSON tree document from bytes.
func UnmarshalTree(data []byte) (*tree.Node, error) {
	var doc jsonNode
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode tree")
	}
	return fromJSON(doc), nil
}

func fromJSON(doc jsonNode) *tree.Node {
	n := &tree.Node{Name: doc.Name}
	if doc.Length != nil {
		l := *doc.Length
		n.Length = &l
	}
	for _, c := range doc.Children {
		n.Children = append(n.Children, fromJSON(c))
	}
	return n
}

// =============================================================================
// Tree Writing
// =============================================================================

// WriteTree encodes a tree as indented JSON to w.
func WriteTree(root *tree.Node, w io.Writer) error {
	if root == nil {
		return errors.New(errors.ErrCodeEmptyTree, "tree has no nodes")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toJSON(root)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTreeFile writes a tree to a JSON file.
// The file is created with 0644 permissions.
func WriteTreeFile(root *tree.Node, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTree(root, f)
}

// MarshalTree encodes a tree to JSON bytes. The encoding is deterministic
// for a given tree, which makes it usable as cache-key material.
func MarshalTree(root *tree.Node) ([]byte, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeEmptyTree, "tree has no nodes")
	}
	return json.Marshal(toJSON(root))
}

func toJSON(n *tree.Node) jsonNode {
	doc := jsonNode{Name: n.Name}
	if n.Length != nil {
		l := *n.Length
		doc.Length = &l
	}
	for _, c := range n.Children {
		doc.Children = append(doc.Children, toJSON(c))
	}
	return doc
}
