package html

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/param"
)

func newTestForm(t *testing.T, options ...form.Option) (*form.Form, *param.Object) {
	t.Helper()
	obj, err := param.New("Foo", []param.Descriptor{
		param.NewNumber("gain", param.WithDefault(2), param.WithBounds(param.Float(0), param.Float(10)), param.WithDoc("Gain <i>factor</i>")),
		param.NewInteger("steps", param.WithDefault(4)),
		param.NewBoolean("enabled", param.WithDefault(true)),
		param.NewObjectSelector("mode", param.WithObjects("fast", "slow"), param.WithDefault("slow")),
		param.NewListSelector("tags", param.WithObjects("a", "b"), param.WithDefault([]any{"b"})),
		param.NewString("label", param.WithDefault(`"quoted" <tag>`)),
		param.NewHTMLOutput("preview"),
		param.NewString("fixed", param.WithDefault("locked"), param.Constant()),
	}, param.WithName("demo"))
	if err != nil {
		t.Fatalf("new object: %v", err)
	}
	f, err := form.New(obj, options...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	t.Cleanup(f.Close)
	return f, obj
}

func renderForm(t *testing.T, r *Renderer, f *form.Form) string {
	t.Helper()
	out, err := r.Render(context.Background(), f)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_RendersEveryControlKind(t *testing.T) {
	f, obj := newTestForm(t, form.WithButton(true), form.WithNext(2))
	if err := obj.Set("preview", `<p onclick="evil()">chart</p><script>alert(1)</script>`); err != nil {
		t.Fatalf("set preview: %v", err)
	}

	r, err := New(WithIDGenerator(func() string { return "pf1" }))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	html := renderForm(t, r, f)

	expectations := []string{
		`<form class="paramform paramform-column" id="pf1" data-object="demo"`,
		`--paramform-label-width: 60px;`,
		`<div class="paramform-heading"><b>demo</b></div>`,
		`<div class="paramform-box paramform-row">`,
		`title="Gain factor"`,
		`<input type="range" class="paramform-control" id="pf1-gain" name="gain" min="0" max="10" step="any" value="2"`,
		`<input type="number" class="paramform-control" id="pf1-steps" name="steps" step="1" value="4"`,
		`id="pf1-enabled" name="enabled" checked`,
		`<option value="slow" selected>slow</option>`,
		`<option value="fast">fast</option>`,
		`multiple`,
		`<option value="b" selected>b</option>`,
		`value="&quot;quoted&quot; &lt;tag&gt;"`,
		`<p>chart</p>`,
		`<div class="paramform-control paramform-html" id="pf1-fixed">locked</div>`,
		`<button type="button" class="paramform-button" id="pf1-commit" name="commit">Run 2</button>`,
	}
	for _, fragment := range expectations {
		if !strings.Contains(html, fragment) {
			t.Fatalf("rendered html missing %q\n%s", fragment, html)
		}
	}
	for _, forbidden := range []string{"<script>", "onclick", "<i>factor</i>"} {
		if strings.Contains(html, forbidden) {
			t.Fatalf("rendered html should not contain %q\n%s", forbidden, html)
		}
	}
}

func TestRenderer_ReflectsLiveState(t *testing.T) {
	f, _ := newTestForm(t)
	r, err := New(WithIDGenerator(func() string { return "pf2" }))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	ctrl, err := f.Control("mode")
	if err != nil {
		t.Fatalf("control: %v", err)
	}
	if err := ctrl.SetValue("fast"); err != nil {
		t.Fatalf("set value: %v", err)
	}

	html := renderForm(t, r, f)
	if !strings.Contains(html, `<option value="fast" selected>fast</option>`) {
		t.Fatalf("expected fast to be selected\n%s", html)
	}
}

func TestRenderer_ThemeAndUniqueIDs(t *testing.T) {
	f, _ := newTestForm(t)
	r, err := New(WithTheme(&theme.RendererConfig{
		Theme:   "paper",
		Variant: "dark",
		CSSVars: map[string]string{"--paramform-accent": "#ff0066"},
	}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	first := renderForm(t, r, f)
	second := renderForm(t, r, f)
	for _, fragment := range []string{`data-theme="paper"`, `data-theme-variant="dark"`, `--paramform-accent: #ff0066;`} {
		if !strings.Contains(first, fragment) {
			t.Fatalf("themed html missing %q\n%s", fragment, first)
		}
	}
	if first == second {
		t.Fatalf("each render should get a fresh form id")
	}
}
