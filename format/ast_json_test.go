package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dhamidi/stekin/stekin/parser"
)

func TestASTJSONEncoder(t *testing.T) {
	block, _ := parser.ParseBytes([]byte("func f(a)\n    return a + 1\nx: f(2)\n"))

	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(block); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var root astJSONNode
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if root.Kind != "Block" || len(root.Children) != 2 {
		t.Fatalf("root = %s with %d children, want Block with 2", root.Kind, len(root.Children))
	}

	fn := root.Children[0]
	if fn.Kind != "Function" || fn.Name != "f" || len(fn.Names) != 1 {
		t.Errorf("first child = %+v, want Function f(a)", fn)
	}
	if fn.Pos == nil || fn.Pos.Line != 1 || fn.Pos.Column != 1 {
		t.Errorf("function pos = %+v, want 1:1", fn.Pos)
	}

	def := root.Children[1]
	if def.Kind != "NameDef" || def.Name != "x" {
		t.Fatalf("second child = %+v, want NameDef x", def)
	}
	call := def.Children[0]
	if call.Kind != "Call" || call.Role != "init" {
		t.Errorf("init = %s (%s), want Call (init)", call.Kind, call.Role)
	}
	if arg := call.Children[1]; arg.Kind != "Int" || arg.Value != float64(2) {
		t.Errorf("arg = %+v, want Int 2", arg)
	}
}
