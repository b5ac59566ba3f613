// Package overrides pre-seeds object fields from a JSON document supplied by
// a file or an environment variable. YAML and TOML files are accepted too.
package overrides

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/param"
)

// DefaultVarName is the environment variable read when none is configured.
const DefaultVarName = "PARAMFORM_INIT"

// Initializer applies an override document to an object.
type Initializer struct {
	// VarName names the environment variable holding inline JSON or a file
	// path.
	VarName string
	// Target selects a sub-mapping of the document. Empty means the object's
	// type name.
	Target string
	// File is an explicit override file; it wins over the environment.
	File string

	lookupEnv func(string) (string, bool)
	readFile  func(string) ([]byte, error)
}

// Option configures an Initializer.
type Option func(*Initializer)

// WithVarName overrides the environment variable name.
func WithVarName(name string) Option {
	return func(i *Initializer) {
		if strings.TrimSpace(name) != "" {
			i.VarName = name
		}
	}
}

// WithTarget selects the sub-mapping key.
func WithTarget(target string) Option {
	return func(i *Initializer) {
		i.Target = target
	}
}

// WithFile reads overrides from path.
func WithFile(path string) Option {
	return func(i *Initializer) {
		i.File = path
	}
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(i *Initializer) {
		if fn != nil {
			i.lookupEnv = fn
		}
	}
}

// WithReadFile replaces os.ReadFile.
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(i *Initializer) {
		if fn != nil {
			i.readFile = fn
		}
	}
}

// New builds an initializer reading DefaultVarName unless configured.
func New(options ...Option) *Initializer {
	i := &Initializer{
		VarName:   DefaultVarName,
		lookupEnv: os.LookupEnv,
		readFile:  os.ReadFile,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i
}

// Func adapts the initializer to form.WithInitializer.
func (i *Initializer) Func() form.InitializerFunc {
	return func(obj *param.Object) {
		i.Apply(obj)
	}
}

// Apply resolves the override document and assigns every entry to obj.
// Problems are reported on the object's warning channel, never returned.
// An explicit file wins, then an environment value naming a file, then the
// environment value as inline JSON. Nothing configured is a no-op.
func (i *Initializer) Apply(obj *param.Object) {
	if obj == nil {
		return
	}
	doc, ok := i.load(obj)
	if !ok {
		return
	}

	mapping, ok := asMapping(doc)
	if !ok {
		obj.Warn("Override specification must be a mapping.")
		return
	}

	target := i.Target
	if target == "" {
		target = obj.TypeName()
	}
	values := mapping
	keyed := false
	if section, exists := mapping[target]; exists {
		if sub, isMap := asMapping(section); isMap {
			values = sub
			keyed = true
		}
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := values[key]
		if !keyed {
			if _, isField := obj.Descriptor(key); !isField {
				if _, isMap := asMapping(value); isMap {
					// Section addressed to another target.
					continue
				}
			}
		}
		if err := obj.Set(key, value); err != nil {
			obj.Warnf("Could not apply override for %s: %v", key, err)
		}
	}
}

func (i *Initializer) load(obj *param.Object) (any, bool) {
	env, hasEnv := "", false
	if i.VarName != "" {
		env, hasEnv = i.lookupEnv(i.VarName)
	}
	if i.File == "" && !hasEnv {
		return nil, false
	}

	path := i.File
	if path == "" && isFilePath(env) {
		path = env
	}
	if path != "" {
		doc, err := i.loadFile(path)
		if err != nil {
			obj.Warnf("Could not load override file %q: %v", path, err)
			return nil, false
		}
		return doc, true
	}

	var doc any
	if err := decodeJSON([]byte(env), &doc); err != nil {
		obj.Warnf("Could not parse %s as JSON: %v", i.VarName, err)
		return nil, false
	}
	return doc, true
}

func (i *Initializer) loadFile(path string) (any, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := i.readFile(abs)
	if err != nil {
		return nil, err
	}

	var doc any
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".toml":
		var table map[string]any
		_, err = toml.Decode(string(data), &table)
		doc = table
	default:
		err = decodeJSON(data, &doc)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func isFilePath(value string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(value))) {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

func decodeJSON(data []byte, out *any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON document")
	}
	return nil
}

// asMapping accepts the mapping shapes the decoders produce.
func asMapping(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	}
	return nil, false
}
