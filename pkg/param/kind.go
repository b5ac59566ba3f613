package param

// Kind tags the declared type of a descriptor. Control resolution walks the
// kind's ancestor list instead of inspecting Go types at runtime.
type Kind string

const (
	KindParameter      Kind = "parameter"
	KindString         Kind = "string"
	KindBoolean        Kind = "boolean"
	KindNumber         Kind = "number"
	KindInteger        Kind = "integer"
	KindSelector       Kind = "selector"
	KindObjectSelector Kind = "object-selector"
	KindFileSelector   Kind = "file-selector"
	KindListSelector   Kind = "list-selector"
	KindCallable       Kind = "callable"
	KindAction         Kind = "action"
	KindOutput         Kind = "output"
	KindHTMLOutput     Kind = "html-output"
)

// parents lists the direct ancestors of each kind in resolution order.
var parents = map[Kind][]Kind{
	KindString:         {KindParameter},
	KindBoolean:        {KindParameter},
	KindNumber:         {KindParameter},
	KindInteger:        {KindNumber},
	KindSelector:       {KindParameter},
	KindObjectSelector: {KindSelector},
	KindFileSelector:   {KindObjectSelector},
	KindListSelector:   {KindObjectSelector},
	KindCallable:       {KindParameter},
	KindAction:         {KindCallable},
	KindOutput:         {KindParameter},
	KindHTMLOutput:     {KindOutput, KindString},
}

// Ancestors returns the kind followed by every ancestor, most specific first.
// Multiple parents are visited left to right and each kind appears once, with
// KindParameter always last.
func Ancestors(kind Kind) []Kind {
	if kind == "" {
		return []Kind{KindParameter}
	}
	out := make([]Kind, 0, 4)
	seen := make(map[Kind]struct{})
	var visit func(Kind)
	visit = func(k Kind) {
		if k == KindParameter {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
		for _, parent := range parents[k] {
			visit(parent)
		}
	}
	visit(kind)
	return append(out, KindParameter)
}

// IsA reports whether kind is target or descends from it.
func IsA(kind, target Kind) bool {
	for _, candidate := range Ancestors(kind) {
		if candidate == target {
			return true
		}
	}
	return false
}

// Known reports whether kind is one of the built-in kinds.
func Known(kind Kind) bool {
	if kind == KindParameter {
		return true
	}
	_, ok := parents[kind]
	return ok
}
