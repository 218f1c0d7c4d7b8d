package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/stekin/stekin/ast"
)

// Encoder writes a parsed module in one output format.
type Encoder interface {
	Encode(block *ast.Block) error
}

// Formats lists the names accepted by NewEncoder.
var Formats = []string{"tree", "json", "line", "stekin"}

// NewEncoder returns the encoder for the named format.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "tree":
		return &treeEncoder{w: w}, nil
	case "json":
		return NewASTJSONEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	case "stekin":
		return NewPrettyPrinter(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}

type treeEncoder struct {
	w io.Writer
}

func (e *treeEncoder) Encode(block *ast.Block) error {
	_, err := fmt.Fprintln(e.w, block.String())
	return err
}
