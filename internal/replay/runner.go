package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/substate/internal/errors"
	"github.com/vango-dev/substate/pkg/reactive"
	"github.com/vango-dev/substate/pkg/substate"
)

// Options configures a Runner.
type Options struct {
	// Mode decides when layout effects run. Visual mode needs paint steps
	// before consumers attach.
	Mode reactive.Mode

	// FanOut delivers key-level updates to whole-store consumers.
	FanOut bool

	// MaxFlushPasses bounds re-render rounds per flush. Zero means the
	// reactive default.
	MaxFlushPasses int

	// Logger receives step and render records. Default: slog.Default().
	Logger *slog.Logger

	// Registerer receives the engine metrics. Nil disables metrics.
	Registerer prometheus.Registerer
}

// Runner executes scripts. Each Run uses a fresh component tree and engine.
type Runner struct {
	opts   Options
	logger *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{opts: opts, logger: logger}
}

// consumer is a mounted component bound to one key.
type consumer struct {
	id    string
	key   substate.Key
	comp  *reactive.Component
	value any
	gone  bool
}

// run holds the state of one script execution.
type run struct {
	*Runner
	script *Script

	root     *reactive.Root
	provider *reactive.Component
	engine   *substate.Engine

	consumers map[string]*consumer
	order     []*consumer
}

// Run executes every step of s and returns the resulting report. It stops at
// the first failing step; the report then covers the steps run so far.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	x := &run{
		Runner:    r,
		script:    s,
		consumers: make(map[string]*consumer),
	}
	x.start()
	defer x.root.Dispose()

	var err error
	steps := 0
	for i, step := range s.Steps {
		if err = ctx.Err(); err != nil {
			break
		}
		r.logger.Debug("replay step", "step", i+1, "op", step.Op, "id", step.ID)
		if err = x.step(ctx, step); err != nil {
			if e, ok := err.(*errors.Error); ok && e.Location == nil {
				e.At(s.Name, i+1, string(step.Op))
			}
			break
		}
		steps++
	}

	return x.report(steps), err
}

func (x *run) start() {
	opts := []reactive.RootOption{reactive.WithLogger(x.logger)}
	if x.opts.MaxFlushPasses > 0 {
		opts = append(opts, reactive.WithMaxFlushPasses(x.opts.MaxFlushPasses))
	}
	x.root = reactive.NewRoot(x.opts.Mode, opts...)

	engineOpts := []substate.Option{substate.WithLogger(x.logger)}
	if x.opts.Registerer != nil {
		engineOpts = append(engineOpts, substate.WithRegisterer(x.opts.Registerer))
	}
	if x.opts.FanOut {
		engineOpts = append(engineOpts, substate.WithWholeStoreFanOut())
	}

	x.provider = x.root.Mount(func() {
		x.engine = substate.UseProvider(substate.Store(x.script.Initial), engineOpts...)
	})
}

func (x *run) step(ctx context.Context, s Step) error {
	switch s.Op {
	case OpMount:
		return x.mount(s)
	case OpUnmount:
		return x.unmount(s)
	case OpSet:
		if s.Key == nil {
			return errors.New("R006").WithSuggestion("set needs a key; use replace for the whole store")
		}
		x.engine.UpdateContext(ctx, s.key(), s.Value)
	case OpAdd:
		return x.add(ctx, s)
	case OpReplace:
		if _, ok := s.Value.(map[string]any); !ok && s.Value != nil {
			return errors.New("R006").WithSuggestion("replace needs an object value")
		}
		x.engine.UpdateContext(ctx, substate.Whole, s.Value)
	case OpFlush:
		n := x.root.Flush()
		x.logger.Debug("replay flush", "renders", n)
	case OpPaint:
		x.root.Paint()
	case OpExpect:
		return x.expect(s)
	default:
		return errors.New("R001").
			WithDetail(fmt.Sprintf("%q is not a step operation. Valid operations are mount, unmount, set, add, replace, flush, paint and expect.", s.Op))
	}
	return nil
}

func (x *run) mount(s Step) error {
	if s.ID == "" {
		return errors.New("R006").WithSuggestion("mount needs a consumer id")
	}
	if _, ok := x.consumers[s.ID]; ok {
		return errors.New("R003").
			WithSuggestion(fmt.Sprintf(`unmount it first: {"op": "unmount", "id": %q}`, s.ID))
	}

	parent := x.provider
	if s.Parent != "" {
		p, err := x.lookup(s.Parent)
		if err != nil {
			return err
		}
		parent = p.comp
	}

	c := &consumer{id: s.ID, key: s.key()}
	initial := s.Initial
	c.comp = parent.Mount(func() {
		var v any
		if initial != nil {
			v, _ = substate.UseInit[any](c.key, initial)
		} else {
			v, _ = substate.Use[any](c.key)
		}
		c.value = snapshot(v)
		x.logger.Debug("replay render", "consumer", c.id, "key", c.key, "value", c.value)
	})

	x.consumers[c.id] = c
	x.order = append(x.order, c)
	return nil
}

func (x *run) unmount(s Step) error {
	c, err := x.lookup(s.ID)
	if err != nil {
		return err
	}
	c.comp.Unmount()

	// Descendants go with their parent.
	for id, other := range x.consumers {
		if other.comp.Owner().IsDisposed() {
			other.gone = true
			delete(x.consumers, id)
		}
	}
	return nil
}

func (x *run) add(ctx context.Context, s Step) error {
	if s.Key == nil || s.Delta == nil {
		return errors.New("R006").WithSuggestion(`add needs a key and a delta: {"op": "add", "key": "count", "delta": 1}`)
	}
	key, delta := s.key(), *s.Delta

	if cur, ok := x.engine.Get(key); ok && cur != nil {
		if _, isNum := cur.(float64); !isNum {
			return errors.New("R006").
				WithDetail(fmt.Sprintf("add needs a number under %s, found %T.", key, cur))
		}
	}

	x.engine.UpdateContext(ctx, key, func(cur any) any {
		n, _ := cur.(float64)
		return n + delta
	})
	return nil
}

func (x *run) expect(s Step) error {
	var got any
	var what string
	if s.ID != "" {
		c, err := x.lookup(s.ID)
		if err != nil {
			return err
		}
		got, what = c.value, "consumer "+c.id
	} else {
		v, _ := x.engine.Get(s.key())
		got, what = snapshot(v), "store "+s.key().String()
	}

	if !reflect.DeepEqual(got, s.Value) {
		return errors.New("R004").
			WithDetail(fmt.Sprintf("%s: got %s, want %s.", what, render(got), render(s.Value)))
	}
	return nil
}

func (x *run) lookup(id string) (*consumer, error) {
	c, ok := x.consumers[id]
	if !ok {
		return nil, errors.New("R002").
			WithSuggestion(fmt.Sprintf(`mount it first: {"op": "mount", "id": %q}`, id))
	}
	return c, nil
}

func (x *run) report(steps int) *Report {
	rep := &Report{
		Script: x.script.Name,
		Mode:   x.opts.Mode,
		Steps:  steps,
		Store:  map[string]any(x.engine.Snapshot()),
	}
	for _, c := range x.order {
		rep.Consumers = append(rep.Consumers, ConsumerReport{
			ID:        c.id,
			Key:       c.key,
			Renders:   c.comp.Renders(),
			Value:     c.value,
			Unmounted: c.gone,
		})
	}
	return rep
}

// snapshot copies whole-store values so later writes do not change what a
// consumer rendered.
func snapshot(v any) any {
	if s, ok := v.(substate.Store); ok {
		return map[string]any(maps.Clone(s))
	}
	return v
}

func render(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
