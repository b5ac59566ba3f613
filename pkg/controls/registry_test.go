package controls

import (
	"errors"
	"testing"

	"github.com/goliatone/go-paramform/pkg/param"
)

func build(t *testing.T, resolver *Resolver, d param.Descriptor, props Props) Control {
	t.Helper()
	factory, err := resolver.Resolve(d)
	if err != nil {
		t.Fatalf("resolve %s: %v", d.Name(), err)
	}
	ctrl, err := factory(props)
	if err != nil {
		t.Fatalf("build %s: %v", d.Name(), err)
	}
	return ctrl
}

func TestResolve_Builtins(t *testing.T) {
	resolver := NewResolver(nil)
	lo, hi := param.Float(0), param.Float(10)

	cases := []struct {
		name   string
		desc   param.Descriptor
		props  Props
		expect string
	}{
		{name: "string falls back to parameter", desc: param.NewString("s"), expect: KindText},
		{name: "boolean", desc: param.NewBoolean("b"), props: Props{Value: false}, expect: KindCheckbox},
		{name: "bounded number", desc: param.NewNumber("n"), props: Props{Min: lo, Max: hi}, expect: KindFloatSlider},
		{name: "half bounded number", desc: param.NewNumber("n"), props: Props{Min: lo}, expect: KindFloatText},
		{name: "bounded integer", desc: param.NewInteger("i"), props: Props{Min: lo, Max: hi}, expect: KindIntSlider},
		{name: "open integer", desc: param.NewInteger("i"), expect: KindIntText},
		{name: "object selector", desc: param.NewObjectSelector("o", param.WithObjects("a")), expect: KindDropdown},
		{name: "list selector", desc: param.NewListSelector("l"), expect: KindSelectMultiple},
		{name: "action", desc: param.NewAction("go", nil), expect: KindButton},
		{name: "html output", desc: param.NewHTMLOutput("out"), expect: KindActiveHTML},
		{name: "constant", desc: param.NewNumber("c", param.Constant()), props: Props{Value: 1.5}, expect: KindHTML},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := build(t, resolver, tc.desc, tc.props)
			if ctrl.Kind() != tc.expect {
				t.Fatalf("expected %s, got %s", tc.expect, ctrl.Kind())
			}
		})
	}
}

func TestResolve_ConstantIsReadOnly(t *testing.T) {
	resolver := NewResolver(nil)
	ctrl := build(t, resolver, param.NewNumber("c", param.Constant()), Props{Name: "c", Value: 1.5})

	if ctrl.Editable() {
		t.Fatalf("constant control should not be editable")
	}
	if ctrl.Value() != "1.5" {
		t.Fatalf("constant control should display formatted value, got %#v", ctrl.Value())
	}
	if err := ctrl.SetValue("2"); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestResolve_NoFactory(t *testing.T) {
	resolver := NewResolver(&Registry{})
	_, err := resolver.Resolve(param.NewString("s"))
	if !errors.Is(err, ErrNoFactory) {
		t.Fatalf("expected ErrNoFactory, got %v", err)
	}
}

func TestRegistry_LatestRegistrationWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register(param.KindString, DropdownWidget)

	resolver := NewResolver(reg)
	ctrl := build(t, resolver, param.NewString("s"), Props{})
	if ctrl.Kind() != KindDropdown {
		t.Fatalf("string override should win over parameter fallback, got %s", ctrl.Kind())
	}

	reg.Register(param.KindString, TextWidget)
	ctrl = build(t, resolver, param.NewString("s"), Props{})
	if ctrl.Kind() != KindText {
		t.Fatalf("latest registration should win, got %s", ctrl.Kind())
	}
}

func TestListSelectorWidget_ItemLimit(t *testing.T) {
	options := make([]param.NamedValue, 25)
	for i := range options {
		options[i] = param.NamedValue{Name: string(rune('a' + i)), Value: i}
	}
	few := options[:3]
	negative := -1
	unlimited := NoItemLimit

	cases := []struct {
		name    string
		factory Factory
		props   Props
		expect  string
	}{
		{name: "under default", factory: ListSelectorWidget(DefaultItemLimit), props: Props{Options: few}, expect: KindSelectMultiple},
		{name: "over default", factory: ListSelectorWidget(DefaultItemLimit), props: Props{Options: options}, expect: KindCrossSelect},
		{name: "negative forces cross", factory: ListSelectorWidget(-1), props: Props{Options: few}, expect: KindCrossSelect},
		{name: "disabled", factory: ListSelectorWidget(NoItemLimit), props: Props{Options: options}, expect: KindSelectMultiple},
		{name: "props override negative", factory: ListSelectorWidget(DefaultItemLimit), props: Props{Options: few, ItemLimit: &negative}, expect: KindCrossSelect},
		{name: "props override disabled", factory: ListSelectorWidget(DefaultItemLimit), props: Props{Options: options, ItemLimit: &unlimited}, expect: KindSelectMultiple},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl, err := tc.factory(tc.props)
			if err != nil {
				t.Fatalf("factory: %v", err)
			}
			if ctrl.Kind() != tc.expect {
				t.Fatalf("expected %s, got %s", tc.expect, ctrl.Kind())
			}
		})
	}
}

func TestActionButton_ClickRunsAction(t *testing.T) {
	calls := 0
	ctrl, err := ActionButton(Props{Name: "reload", Value: func() { calls++ }})
	if err != nil {
		t.Fatalf("action button: %v", err)
	}
	button, ok := ctrl.(*Button)
	if !ok {
		t.Fatalf("expected *Button, got %T", ctrl)
	}
	if button.Description() != "reload" {
		t.Fatalf("button should be labelled with the field name, got %q", button.Description())
	}
	button.Click()
	button.Click()
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}

	if _, err := ActionButton(Props{Name: "bad", Value: 3}); err == nil {
		t.Fatalf("expected error for non-func action value")
	}
}
