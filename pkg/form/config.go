package form

import (
	"math"

	"github.com/goliatone/go-paramform/pkg/controls"
	"github.com/goliatone/go-paramform/pkg/param"
)

// Advance is the number of downstream steps a commit asks the host to run.
type Advance int

// AdvanceAll asks the host to run every remaining step.
const AdvanceAll Advance = math.MaxInt

// DefaultPrecedence is the effective precedence of fields that declare none.
const DefaultPrecedence = 1e-8

// Advancer receives the fire-and-forget "advance N steps" request issued on
// every commit.
type Advancer interface {
	Advance(n Advance)
}

// AdvancerFunc adapts a func to Advancer.
type AdvancerFunc func(n Advance)

func (f AdvancerFunc) Advance(n Advance) {
	f(n)
}

// Callback is invoked with the target object on every commit.
type Callback func(obj *param.Object)

// InitializerFunc pre-seeds the object before any field is laid out.
type InitializerFunc func(obj *param.Object)

// LabelWidth selects a fixed CSS width or an estimator run over every field
// name. Fixed wins when both are set.
type LabelWidth struct {
	Fixed    string
	Estimate func(names []string) string
}

// Recorder counts engine events. telemetry.Metrics satisfies it.
type Recorder interface {
	RecordCommit(trigger string)
	RecordFieldUpdate(field, outcome string)
}

// Config is the immutable snapshot of form options.
type Config struct {
	Callback          Callback
	Next              Advance
	OnInit            bool
	Button            bool
	LabelWidth        LabelWidth
	Tooltips          bool
	ShowLabels        bool
	DisplayThreshold  float64
	DefaultPrecedence float64
	Initializer       InitializerFunc
	Orientation       controls.Orientation
	Advancer          Advancer
	Registry          *controls.Registry
	Recorder          Recorder
}

// Option mutates the configuration before the form is built.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		LabelWidth:        LabelWidth{Estimate: EstimateLabelWidth},
		Tooltips:          true,
		ShowLabels:        true,
		DefaultPrecedence: DefaultPrecedence,
		Orientation:       controls.Column,
	}
}

func newConfig(options []Option) Config {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.Orientation == "" {
		cfg.Orientation = controls.Column
	}
	if cfg.LabelWidth.Fixed == "" && cfg.LabelWidth.Estimate == nil {
		cfg.LabelWidth.Estimate = EstimateLabelWidth
	}
	return cfg
}

// WithCallback sets the function run on every commit.
func WithCallback(cb Callback) Option {
	return func(c *Config) {
		c.Callback = cb
	}
}

// WithNext sets how many downstream steps each commit advances. Use
// AdvanceAll for every remaining step; non-positive counts advance nothing.
func WithNext(n Advance) Option {
	return func(c *Config) {
		c.Next = n
	}
}

// WithOnInit commits once as soon as the form is built.
func WithOnInit(enabled bool) Option {
	return func(c *Config) {
		c.OnInit = enabled
	}
}

// WithButton switches to manual commit: field edits only update the object
// and a Run button triggers the commit.
func WithButton(enabled bool) Option {
	return func(c *Config) {
		c.Button = enabled
	}
}

// WithLabelWidth fixes the label width to a CSS size.
func WithLabelWidth(width string) Option {
	return func(c *Config) {
		c.LabelWidth = LabelWidth{Fixed: width}
	}
}

// WithLabelEstimator computes the label width from every field name.
func WithLabelEstimator(fn func(names []string) string) Option {
	return func(c *Config) {
		c.LabelWidth = LabelWidth{Estimate: fn}
	}
}

// WithTooltips toggles doc-string tooltips on labels.
func WithTooltips(enabled bool) Option {
	return func(c *Config) {
		c.Tooltips = enabled
	}
}

// WithShowLabels toggles the label next to each control.
func WithShowLabels(enabled bool) Option {
	return func(c *Config) {
		c.ShowLabels = enabled
	}
}

// WithDisplayThreshold hides fields whose precedence is below threshold.
func WithDisplayThreshold(threshold float64) Option {
	return func(c *Config) {
		c.DisplayThreshold = threshold
	}
}

// WithDefaultPrecedence sets the sort key of fields without a precedence.
func WithDefaultPrecedence(precedence float64) Option {
	return func(c *Config) {
		c.DefaultPrecedence = precedence
	}
}

// WithInitializer runs fn on the object before the form is laid out.
func WithInitializer(fn InitializerFunc) Option {
	return func(c *Config) {
		c.Initializer = fn
	}
}

// WithLayout sets the orientation of the form root.
func WithLayout(orientation controls.Orientation) Option {
	return func(c *Config) {
		c.Orientation = orientation
	}
}

// WithAdvancer sets the host that receives advance requests.
func WithAdvancer(a Advancer) Option {
	return func(c *Config) {
		c.Advancer = a
	}
}

// WithRegistry resolves controls against reg instead of the built-ins.
func WithRegistry(reg *controls.Registry) Option {
	return func(c *Config) {
		c.Registry = reg
	}
}

// WithMetrics records commits and field updates on r.
func WithMetrics(r Recorder) Option {
	return func(c *Config) {
		c.Recorder = r
	}
}
