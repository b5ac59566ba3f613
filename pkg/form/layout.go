package form

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-paramform/pkg/controls"
	"github.com/goliatone/go-paramform/pkg/param"
)

// EstimateLabelWidth sizes labels from the longest name: 7.5px per character
// with a 60px floor.
func EstimateLabelWidth(names []string) string {
	longest := 0
	for _, name := range names {
		if n := len([]rune(name)); n > longest {
			longest = n
		}
	}
	width := int(float64(longest) * 7.5)
	if width < 60 {
		width = 60
	}
	return fmt.Sprintf("%dpx", width)
}

// Layout returns the visible field names in display order, name excluded.
// Fields without precedence are always visible; the rest must meet the
// display threshold. Equal effective precedence keeps declaration order.
func Layout(obj *param.Object, cfg Config) []string {
	type entry struct {
		name       string
		precedence float64
	}
	var entries []entry
	for _, d := range obj.Descriptors() {
		if d.Name() == param.NameField {
			continue
		}
		declared := d.Precedence()
		if declared != nil && *declared < cfg.DisplayThreshold {
			continue
		}
		effective := cfg.DefaultPrecedence
		if declared != nil {
			effective = *declared
		}
		entries = append(entries, entry{name: d.Name(), precedence: effective})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].precedence < entries[j].precedence
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

func resolveLabelWidth(obj *param.Object, cfg Config) string {
	if cfg.LabelWidth.Fixed != "" {
		return cfg.LabelWidth.Fixed
	}
	if cfg.LabelWidth.Estimate == nil {
		return ""
	}
	return cfg.LabelWidth.Estimate(obj.Names())
}

func newFieldLabel(d param.Descriptor, cfg Config, width string) *controls.Label {
	text := d.Name()
	if param.IsA(d.Kind(), param.KindAction) {
		text = ""
	}
	tooltip := ""
	if cfg.Tooltips {
		tooltip = d.Doc()
	}
	return controls.NewLabel(text, tooltip, width)
}

// buttonLabel names the commit button after the advance count.
func buttonLabel(n Advance) string {
	switch {
	case n == AdvanceAll:
		return "Run all"
	case n > 0:
		return fmt.Sprintf("Run %d", n)
	default:
		return "Run"
	}
}

func wantsButton(cfg Config) bool {
	return cfg.Button && (cfg.Callback != nil || cfg.Next > 0)
}
