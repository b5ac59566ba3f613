package spec

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-paramform/pkg/param"
)

const renderDeclaration = `
type: Render
name: render settings
parameters:
  - name: width
    kind: integer
    default: 640
    doc: Output width in pixels
    bounds: [1, 4096]
  - name: gain
    kind: number
    default: 2
    bounds: [0, null]
    soft_bounds: [0, 10]
  - name: format
    kind: object-selector
    objects: [png, svg]
    default: svg
  - name: layers
    kind: list-selector
    objects: [grid, axis, legend]
    default: [axis]
    item_limit: 2
  - name: contact
    kind: string
    rules: omitempty,email
    precedence: -1
  - name: locked
    kind: boolean
    default: true
    constant: true
  - name: preview
    kind: html-output
`

func TestLoad_BuildsObject(t *testing.T) {
	obj, err := Load([]byte(renderDeclaration))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if obj.TypeName() != "Render" || obj.Name() != "render settings" {
		t.Fatalf("unexpected identity %q/%q", obj.TypeName(), obj.Name())
	}

	wantNames := []string{param.NameField, "width", "gain", "format", "layers", "contact", "locked", "preview"}
	if diff := cmp.Diff(wantNames, obj.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	values := map[string]any{
		"width":  int64(640),
		"gain":   2.0,
		"format": "svg",
		"layers": []any{"axis"},
		"locked": true,
	}
	for name, want := range values {
		if diff := cmp.Diff(want, obj.Value(name)); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}

	if err := obj.Set("width", 0); !errors.Is(err, param.ErrInvalidValue) {
		t.Fatalf("expected lower bound to apply, got %v", err)
	}
	if err := obj.Set("gain", 1000); err != nil {
		t.Fatalf("open upper bound rejected value: %v", err)
	}
	if err := obj.Set("contact", "nope"); err == nil {
		t.Fatalf("expected rules to apply")
	}

	gain, _ := obj.Descriptor("gain")
	soft, ok := gain.(param.SoftBounded)
	if !ok {
		t.Fatalf("number should expose soft bounds")
	}
	if min, max := soft.SoftBounds(); min == nil || max == nil || *min != 0 || *max != 10 {
		t.Fatalf("unexpected soft bounds %v %v", min, max)
	}

	layers, _ := obj.Descriptor("layers")
	if limit, set := layers.(*param.ListSelector).ItemLimit(); !set || limit != 2 {
		t.Fatalf("expected item limit 2, got %d (%v)", limit, set)
	}
	contact, _ := obj.Descriptor("contact")
	if p := contact.Precedence(); p == nil || *p != -1 {
		t.Fatalf("expected precedence -1, got %v", p)
	}
	locked, _ := obj.Descriptor("locked")
	if !locked.Constant() {
		t.Fatalf("expected locked to be constant")
	}
}

func TestLoad_AcceptsJSON(t *testing.T) {
	obj, err := Load([]byte(`{"type": "Foo", "parameters": [{"name": "x", "kind": "number", "default": 1.5}]}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if obj.Value("x") != 1.5 {
		t.Fatalf("expected 1.5, got %v", obj.Value("x"))
	}
	if obj.Name() != "Foo" {
		t.Fatalf("expected type name as display name, got %q", obj.Name())
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "empty", input: "", wantErr: "empty"},
		{name: "missing type", input: "parameters: []", wantErr: "invalid declaration"},
		{name: "missing field name", input: "type: Foo\nparameters:\n  - kind: string", wantErr: "invalid declaration"},
		{name: "unknown key", input: "type: Foo\ncolour: red", wantErr: "decode"},
		{name: "bad bounds", input: "type: Foo\nparameters:\n  - name: x\n    kind: number\n    bounds: [1]", wantErr: "invalid declaration"},
		{name: "unsupported kind", input: "type: Foo\nparameters:\n  - name: x\n    kind: action", wantErr: "unsupported kind"},
		{name: "file selector without path", input: "type: Foo\nparameters:\n  - name: x\n    kind: file-selector", wantErr: "needs a path"},
		{name: "duplicate", input: "type: Foo\nparameters:\n  - name: x\n    kind: string\n  - name: x\n    kind: string", wantErr: "twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFile_FileSelector(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "b.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	declPath := filepath.Join(dir, "decl.yaml")
	decl := "type: Loader\nparameters:\n  - name: source\n    kind: file-selector\n    path: " + filepath.Join(dir, "*.csv") + "\n"
	if err := os.WriteFile(declPath, []byte(decl), 0o644); err != nil {
		t.Fatalf("write declaration: %v", err)
	}

	obj, err := LoadFile(declPath)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	d, _ := obj.Descriptor("source")
	ranged, ok := d.(param.Ranged)
	if !ok {
		t.Fatalf("file selector should expose a range")
	}
	if got := len(ranged.Range()); got != 2 {
		t.Fatalf("expected 2 files in range, got %d", got)
	}
}
