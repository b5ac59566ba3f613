package param

import (
	"fmt"
	"path/filepath"
	"sort"
)

// FileSelector is an object selector whose objects are the files matching a
// glob path. Changing the path and calling Update re-resolves the range.
type FileSelector struct {
	ObjectSelector
	path string
	glob func(pattern string) ([]string, error)
}

// NewFileSelector declares a selector over the files matching path. The
// range is resolved immediately.
func NewFileSelector(name, path string, options ...Option) *FileSelector {
	s := newSettings(options)
	s.allowNone = true
	sel := &FileSelector{
		ObjectSelector: ObjectSelector{base: newBase(name, KindFileSelector, s)},
		path:           path,
		glob:           filepath.Glob,
	}
	_ = sel.Update()
	if s.hasDefault {
		sel.def = s.defaultValue
	}
	return sel
}

// Path returns the glob pattern the range is resolved from.
func (p *FileSelector) Path() string {
	return p.path
}

// SetPath replaces the glob pattern. Call Update to re-resolve the range.
func (p *FileSelector) SetPath(path string) {
	p.path = path
}

// Update resolves the range from the current path. The default moves to the
// first match when it is no longer part of the range.
func (p *FileSelector) Update() error {
	matches, err := p.glob(p.path)
	if err != nil {
		p.objects = nil
		p.def = nil
		return fmt.Errorf("param: resolve %s path %q: %w", p.name, p.path, err)
	}
	sort.Strings(matches)
	objects := make([]any, len(matches))
	for i, match := range matches {
		objects[i] = match
	}
	p.objects = objects

	if len(objects) == 0 {
		p.def = nil
		return nil
	}
	for _, candidate := range objects {
		if sameValue(candidate, p.def) {
			return nil
		}
	}
	p.def = objects[0]
	return nil
}

// Check accepts nil (no file selected) or any resolved match.
func (p *FileSelector) Check(value any) (any, error) {
	if isNil(value) {
		return nil, nil
	}
	return p.ObjectSelector.Check(value)
}
