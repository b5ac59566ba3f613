package form

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-paramform/pkg/controls"
	"github.com/goliatone/go-paramform/pkg/param"
)

type advanceRecorder struct {
	calls []Advance
}

func (a *advanceRecorder) Advance(n Advance) {
	a.calls = append(a.calls, n)
}

type countingRecorder struct {
	commits map[string]int
	updates map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{commits: map[string]int{}, updates: map[string]int{}}
}

func (c *countingRecorder) RecordCommit(trigger string) {
	c.commits[trigger]++
}

func (c *countingRecorder) RecordFieldUpdate(field, outcome string) {
	c.updates[field+":"+outcome]++
}

func mustForm(t *testing.T, obj *param.Object, options ...Option) *Form {
	t.Helper()
	f, err := New(obj, options...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	t.Cleanup(f.Close)
	return f
}

func newObject(t *testing.T, descriptors ...param.Descriptor) *param.Object {
	t.Helper()
	obj, err := param.New("Foo", descriptors)
	if err != nil {
		t.Fatalf("new object: %v", err)
	}
	return obj
}

func TestLayout_OrderingAndThreshold(t *testing.T) {
	obj := newObject(t,
		param.NewNumber("c", param.WithPrecedence(2)),
		param.NewNumber("a"),
		param.NewNumber("hidden", param.WithPrecedence(-5)),
		param.NewNumber("b", param.WithPrecedence(2)),
		param.NewNumber("first", param.WithPrecedence(0)),
		param.NewNumber("z"),
	)

	cfg := newConfig(nil)
	got := Layout(obj, cfg)
	want := []string{"first", "a", "z", "c", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	cfg = newConfig([]Option{WithDisplayThreshold(-10)})
	got = Layout(obj, cfg)
	want = []string{"hidden", "first", "a", "z", "c", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order with lowered threshold mismatch (-want +got):\n%s", diff)
	}
}

func TestEstimateLabelWidth(t *testing.T) {
	cases := []struct {
		names []string
		want  string
	}{
		{names: nil, want: "60px"},
		{names: []string{"a", "bb"}, want: "60px"},
		{names: []string{"a_much_longer_name"}, want: "135px"},
		{names: []string{"twelve_chars"}, want: "90px"},
	}
	for _, tc := range cases {
		if got := EstimateLabelWidth(tc.names); got != tc.want {
			t.Fatalf("EstimateLabelWidth(%v) = %s, want %s", tc.names, got, tc.want)
		}
	}
}

func TestForm_NodesAndHeading(t *testing.T) {
	obj, err := param.New("Foo", []param.Descriptor{
		param.NewNumber("p1", param.WithDoc("first parameter")),
		param.NewAction("reload", nil),
	}, param.WithName("demo"))
	if err != nil {
		t.Fatalf("new object: %v", err)
	}

	f := mustForm(t, obj)
	nodes := f.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("expected heading plus two rows, got %d nodes", len(nodes))
	}
	heading, ok := nodes[0].(*controls.Label)
	if !ok || !heading.Heading() || heading.Text() != "demo" {
		t.Fatalf("expected heading with object name, got %#v", nodes[0])
	}

	row, ok := nodes[1].(*controls.Box)
	if !ok || row.Orientation() != controls.Row {
		t.Fatalf("expected row box, got %#v", nodes[1])
	}
	label := row.Children()[0].(*controls.Label)
	if label.Text() != "p1" || label.Tooltip() != "first parameter" || label.Width() != "60px" {
		t.Fatalf("unexpected label text=%q tooltip=%q width=%q", label.Text(), label.Tooltip(), label.Width())
	}

	actionLabel := nodes[2].(*controls.Box).Children()[0].(*controls.Label)
	if actionLabel.Text() != "" {
		t.Fatalf("action label should be empty, got %q", actionLabel.Text())
	}
	if f.Button() != nil {
		t.Fatalf("auto mode should not add a button")
	}
	if f.Root().Orientation() != controls.Column {
		t.Fatalf("root should default to column")
	}
}

func TestForm_LabelsAndTooltipsToggles(t *testing.T) {
	obj := newObject(t, param.NewNumber("p1", param.WithDoc("doc")))

	f := mustForm(t, obj, WithTooltips(false), WithLabelWidth("120px"))
	label := f.Nodes()[1].(*controls.Box).Children()[0].(*controls.Label)
	if label.Tooltip() != "" || label.Width() != "120px" {
		t.Fatalf("unexpected label tooltip=%q width=%q", label.Tooltip(), label.Width())
	}

	bare := mustForm(t, newObject(t, param.NewNumber("p1")), WithShowLabels(false))
	if _, isBox := bare.Nodes()[1].(*controls.Box); isBox {
		t.Fatalf("without labels the control should be emitted bare")
	}
}

func TestForm_ConstantFieldIsReadOnlyText(t *testing.T) {
	obj := newObject(t, param.NewListSelector("tags", param.WithObjects("a"), param.Constant()))
	f := mustForm(t, obj)

	ctrl, err := f.Control("tags")
	if err != nil {
		t.Fatalf("control: %v", err)
	}
	if ctrl.Kind() != controls.KindHTML || ctrl.Editable() {
		t.Fatalf("constant field should bind read-only html, got %s editable=%v", ctrl.Kind(), ctrl.Editable())
	}
}

func TestForm_ControlIsIdempotent(t *testing.T) {
	obj := newObject(t, param.NewNumber("p1"))
	f := mustForm(t, obj)

	first, err := f.Control("p1")
	if err != nil {
		t.Fatalf("control: %v", err)
	}
	second, err := f.Control("p1")
	if err != nil {
		t.Fatalf("control: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical control instances")
	}
	if _, err := f.Control("missing"); !errors.Is(err, param.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestForm_ControlOnlyForDisplayedFields(t *testing.T) {
	obj := newObject(t,
		param.NewNumber("p1"),
		param.NewNumber("hidden", param.WithPrecedence(-5)),
	)
	f := mustForm(t, obj)

	for _, name := range []string{"hidden", param.NameField} {
		if _, err := f.Control(name); !errors.Is(err, ErrNotDisplayed) {
			t.Fatalf("%s: expected ErrNotDisplayed, got %v", name, err)
		}
		if _, ok := f.Primary(name); ok {
			t.Fatalf("%s: no control should be bound", name)
		}
	}
}

func TestForm_PullWritesOnceAndCommitsOnce(t *testing.T) {
	obj := newObject(t, param.NewNumber("p1", param.WithBounds(param.Float(0), param.Float(10))))
	recorder := newCountingRecorder()
	var callbacks int
	f := mustForm(t, obj,
		WithCallback(func(*param.Object) { callbacks++ }),
		WithMetrics(recorder),
	)

	ctrl, _ := f.Control("p1")
	if err := ctrl.SetValue(4.0); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if obj.Value("p1") != 4.0 {
		t.Fatalf("field not updated, got %#v", obj.Value("p1"))
	}
	if callbacks != 1 || recorder.commits["change"] != 1 {
		t.Fatalf("expected exactly one commit, callbacks=%d commits=%v", callbacks, recorder.commits)
	}
	if recorder.updates["p1:accepted"] != 1 {
		t.Fatalf("expected one accepted update, got %v", recorder.updates)
	}
}

func TestForm_PullRejectedValueDoesNotCommit(t *testing.T) {
	obj := newObject(t, param.NewNumber("p1", param.WithDefault(1), param.WithBounds(param.Float(0), param.Float(10))))
	var callbacks int
	f := mustForm(t, obj, WithCallback(func(*param.Object) { callbacks++ }))

	ctrl, _ := f.Control("p1")
	err := ctrl.SetValue(42.0)
	if !errors.Is(err, param.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if callbacks != 0 {
		t.Fatalf("rejected value must not commit")
	}
	if obj.Value("p1") != 1.0 || ctrl.Value() != 1.0 {
		t.Fatalf("field and control should keep 1, got field=%#v control=%#v", obj.Value("p1"), ctrl.Value())
	}
}

func TestForm_ButtonMode(t *testing.T) {
	obj := newObject(t, param.NewNumber("p1"))
	var callbacks int
	f := mustForm(t, obj,
		WithButton(true),
		WithNext(3),
		WithCallback(func(*param.Object) { callbacks++ }),
	)

	ctrl, _ := f.Control("p1")
	if err := ctrl.SetValue(2.0); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if callbacks != 0 {
		t.Fatalf("button mode must not commit on change")
	}
	button := f.Button()
	if button == nil {
		t.Fatalf("expected a commit button")
	}
	if button.Description() != "Run 3" {
		t.Fatalf("unexpected button label %q", button.Description())
	}
	button.Click()
	if callbacks != 1 {
		t.Fatalf("expected one commit after click, got %d", callbacks)
	}
	nodes := f.Nodes()
	if nodes[len(nodes)-1] != controls.Control(button) {
		t.Fatalf("button should be the last node")
	}
}

func TestForm_ButtonRequiresCallbackOrAdvance(t *testing.T) {
	f := mustForm(t, newObject(t, param.NewNumber("p1")), WithButton(true))
	if f.Button() != nil {
		t.Fatalf("button without callback or advance should be omitted")
	}
	f = mustForm(t, newObject(t, param.NewNumber("p1")), WithButton(true), WithNext(AdvanceAll))
	if f.Button() == nil || f.Button().Description() != "Run all" {
		t.Fatalf("expected Run all button")
	}
	f = mustForm(t, newObject(t, param.NewNumber("p1")), WithButton(true), WithCallback(func(*param.Object) {}))
	if f.Button() == nil || f.Button().Description() != "Run" {
		t.Fatalf("expected Run button")
	}
}

func TestExecutor_AdvanceCounts(t *testing.T) {
	cases := []struct {
		name string
		next Advance
		want []Advance
	}{
		{name: "zero", next: 0, want: nil},
		{name: "negative", next: -1, want: nil},
		{name: "two", next: 2, want: []Advance{2}},
		{name: "all", next: AdvanceAll, want: []Advance{AdvanceAll}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			host := &advanceRecorder{}
			var order []string
			cfg := newConfig([]Option{
				WithNext(tc.next),
				WithAdvancer(AdvancerFunc(func(n Advance) {
					order = append(order, "advance")
					host.Advance(n)
				})),
				WithCallback(func(*param.Object) { order = append(order, "callback") }),
			})
			NewExecutor(newObject(t), cfg).Commit(TriggerButton)

			if diff := cmp.Diff(tc.want, host.calls); diff != "" {
				t.Fatalf("advance calls mismatch (-want +got):\n%s", diff)
			}
			if order[len(order)-1] != "callback" || (tc.want != nil && order[0] != "advance") {
				t.Fatalf("advance must run before the callback, got %v", order)
			}
		})
	}
}

func TestForm_OutputPushChannel(t *testing.T) {
	obj := newObject(t,
		param.NewOutput("plot", param.WithRenderer(func(v any) param.Rendered {
			return param.Rendered{Value: "<b>" + v.(string) + "</b>", Size: &param.Size{Width: 300, Height: 200}}
		})),
	)
	var callbacks int
	f := mustForm(t, obj, WithCallback(func(*param.Object) { callbacks++ }))

	ctrl, err := f.Control("plot")
	if err != nil {
		t.Fatalf("control: %v", err)
	}
	var changes int
	ctrl.Observe(func(controls.Change) error {
		changes++
		return nil
	})

	if err := obj.Set("plot", "chart"); err != nil {
		t.Fatalf("set output: %v", err)
	}
	if ctrl.Value() != "<b>chart</b>" {
		t.Fatalf("control should display the rendered value, got %#v", ctrl.Value())
	}
	if ctrl.Layout().MinWidth != "300px" || ctrl.Layout().MinHeight != "200px" {
		t.Fatalf("size not applied: %+v", ctrl.Layout())
	}
	if changes != 0 || callbacks != 0 {
		t.Fatalf("push channel must not raise change events or commits")
	}

	if err := f.Binder().ApplyExternalUpdate("plot", param.Rendered{Value: "direct"}); err != nil {
		t.Fatalf("apply external update: %v", err)
	}
	if ctrl.Value() != "direct" || ctrl.Layout().MinWidth != "300px" {
		t.Fatalf("update without size should keep layout, got value=%#v layout=%+v", ctrl.Value(), ctrl.Layout())
	}

	f.Close()
	if err := obj.Set("plot", "after"); err != nil {
		t.Fatalf("set output: %v", err)
	}
	if ctrl.Value() != "direct" {
		t.Fatalf("closed form should stop receiving updates")
	}
}

func TestForm_OutputInitialValueIsRenderedAndSized(t *testing.T) {
	obj := newObject(t,
		param.NewOutput("plot",
			param.WithDefault("chart"),
			param.WithRenderer(func(v any) param.Rendered {
				return param.Rendered{Value: "<b>" + v.(string) + "</b>", Size: &param.Size{Width: 320, Height: 240}}
			}),
		),
	)
	f := mustForm(t, obj)

	ctrl, err := f.Control("plot")
	if err != nil {
		t.Fatalf("control: %v", err)
	}
	if ctrl.Value() != "<b>chart</b>" {
		t.Fatalf("expected rendered initial value, got %#v", ctrl.Value())
	}
	if ctrl.Layout().MinWidth != "320px" || ctrl.Layout().MinHeight != "240px" {
		t.Fatalf("initial size not applied: %+v", ctrl.Layout())
	}
}

func TestForm_NumberBoundsReachSlider(t *testing.T) {
	cases := []struct {
		name    string
		desc    param.Descriptor
		wantMin float64
		wantMax float64
	}{
		{
			name:    "soft bounds win",
			desc:    param.NewNumber("gain", param.WithBounds(param.Float(-10), param.Float(10)), param.WithSoftBounds(param.Float(0), param.Float(5))),
			wantMin: 0,
			wantMax: 5,
		},
		{
			name:    "hard bounds only",
			desc:    param.NewNumber("gain", param.WithBounds(param.Float(-1), param.Float(1))),
			wantMin: -1,
			wantMax: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := mustForm(t, newObject(t, tc.desc))
			ctrl, err := f.Control("gain")
			if err != nil {
				t.Fatalf("control: %v", err)
			}
			slider, ok := ctrl.(*controls.FloatSlider)
			if !ok {
				t.Fatalf("expected float slider, got %s", ctrl.Kind())
			}
			min, max := slider.Bounds()
			if min == nil || max == nil || *min != tc.wantMin || *max != tc.wantMax {
				t.Fatalf("bounds mismatch: min=%v max=%v", min, max)
			}
		})
	}
}

func TestForm_ActionButtonRunsWithObject(t *testing.T) {
	var seen *param.Object
	obj := newObject(t, param.NewAction("reload", func(o *param.Object) { seen = o }))
	f := mustForm(t, obj)

	ctrl, _ := f.Control("reload")
	button, ok := ctrl.(controls.Clickable)
	if !ok {
		t.Fatalf("expected clickable control, got %T", ctrl)
	}
	button.Click()
	if seen != obj {
		t.Fatalf("action should receive the bound object")
	}
}

func TestForm_PathAugmentation(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "b.csv", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	obj := newObject(t, param.NewFileSelector("data", filepath.Join(dir, "*.csv")))
	var callbacks int
	f := mustForm(t, obj, WithCallback(func(*param.Object) { callbacks++ }))

	outer, _ := f.Control("data")
	box, ok := outer.(*controls.Box)
	if !ok || len(box.Children()) != 2 {
		t.Fatalf("expected path box with two children, got %T", outer)
	}
	pathInput := box.Children()[0]
	primary, _ := f.Primary("data")
	if box.Children()[1] != primary {
		t.Fatalf("primary control should follow the path input")
	}
	if primary.Kind() != controls.KindDropdown {
		t.Fatalf("file selector should bind a dropdown, got %s", primary.Kind())
	}

	if err := pathInput.SetValue(filepath.Join(dir, "*.txt")); err != nil {
		t.Fatalf("set path: %v", err)
	}
	txt := filepath.Join(dir, "c.txt")
	if obj.Value("data") != txt || primary.Value() != txt {
		t.Fatalf("selection should reset to the new default, field=%#v control=%#v", obj.Value("data"), primary.Value())
	}
	options := primary.(controls.OptionHolder).Options()
	if diff := cmp.Diff([]param.NamedValue{{Name: txt, Value: txt}}, options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if callbacks != 1 {
		t.Fatalf("non-empty range should commit once, got %d", callbacks)
	}

	if err := pathInput.SetValue(filepath.Join(dir, "*.none")); err != nil {
		t.Fatalf("set empty path: %v", err)
	}
	if obj.Value("data") != nil {
		t.Fatalf("empty range should clear the selection, got %#v", obj.Value("data"))
	}
	if callbacks != 1 {
		t.Fatalf("empty range must not commit, got %d", callbacks)
	}
}

func TestForm_InitializerRunsBeforeLayoutAndOnInitCommits(t *testing.T) {
	obj := newObject(t, param.NewNumber("p1"))
	var order []string
	f := mustForm(t, obj,
		WithInitializer(func(o *param.Object) {
			order = append(order, "init")
			if err := o.Set("p1", 5); err != nil {
				t.Fatalf("initializer set: %v", err)
			}
		}),
		WithOnInit(true),
		WithCallback(func(*param.Object) { order = append(order, "commit") }),
	)

	ctrl, _ := f.Control("p1")
	if ctrl.Value() != 5.0 {
		t.Fatalf("control should be built from the initialized value, got %#v", ctrl.Value())
	}
	if diff := cmp.Diff([]string{"init", "commit"}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_MissingFactoryFailsBuild(t *testing.T) {
	reg := &controls.Registry{}
	reg.Register(param.KindNumber, controls.FloatWidget)

	_, err := New(newObject(t, param.NewNumber("p1"), param.NewBoolean("flag")), WithRegistry(reg))
	if !errors.Is(err, controls.ErrNoFactory) {
		t.Fatalf("expected ErrNoFactory, got %v", err)
	}
}
