package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/plus3/framecore/ecs"
)

// Executor runs a compiled Plan once per frame. Stages run strictly in
// order; members of a parallel stage are dispatched on a bounded worker pool
// and the stage completes only when all of them have returned.
type Executor struct {
	ctx     *ecs.Context
	logger  *slog.Logger
	workers int
	onError func(error)

	plan     *Plan
	entries  []*entry
	commands *ecs.Commands

	frames atomic.Uint64
	failed atomic.Uint64
}

type entry struct {
	node    *node
	stage   int
	active  bool
	queries []queryField
	stats   *systemStatsInternal
}

// queryField is implemented by ecs.Query fields declared on systems.
type queryField interface {
	Execute()
}

// contextBinder is implemented by ecs.Query and ecs.Singleton fields.
type contextBinder interface {
	Init(ctx *ecs.Context)
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorkers bounds how many members of a parallel stage run at once.
// Values below one are ignored.
func WithWorkers(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithErrorHandler receives every frame error raised while Run is looping.
// Without one, Run logs each error at Warn level on slog.Default.
func WithErrorHandler(fn func(error)) Option {
	return func(e *Executor) {
		if fn != nil {
			e.onError = fn
		}
	}
}

// NewExecutor creates an executor for plan and activates it.
func NewExecutor(ctx *ecs.Context, plan *Plan, opts ...Option) *Executor {
	e := &Executor{
		ctx:      ctx,
		logger:   ctx.Logger.With(slog.String("component", "pipeline")),
		workers:  runtime.GOMAXPROCS(0),
		commands: ecs.NewCommands(),
		onError:  logFrameError,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.activate(plan)
	return e
}

func logFrameError(err error) {
	slog.Default().Warn("frame failed", slog.Any("err", err))
}

// Plan returns the active plan.
func (e *Executor) Plan() *Plan {
	return e.plan
}

// Load tears down the active plan and activates a new one. Setup hooks of the
// new plan run lazily on the next tick. Teardown failures are returned but do
// not prevent the new plan from loading.
func (e *Executor) Load(plan *Plan) error {
	err := e.deactivate()
	e.activate(plan)
	return err
}

// Close tears down every activated system.
func (e *Executor) Close() error {
	return e.deactivate()
}

func (e *Executor) activate(plan *Plan) {
	e.plan = plan
	e.entries = make([]*entry, len(plan.nodes))
	for _, s := range plan.stages {
		for _, n := range s.nodes {
			e.entries[n.index] = &entry{
				node:    n,
				stage:   s.Index,
				queries: bindFields(n.system, e.ctx),
				stats:   newSystemStats(),
			}
		}
	}

	e.logger.Debug("plan activated",
		slog.Int("systems", len(plan.nodes)),
		slog.Int("stages", len(plan.stages)))
}

func (e *Executor) deactivate() error {
	var errs []error
	for _, ent := range e.entries {
		if !ent.active {
			continue
		}
		ent.active = false

		t, ok := ent.node.system.(Teardowner)
		if !ok {
			continue
		}
		if err := t.Teardown(e.ctx); err != nil {
			errs = append(errs, &SystemError{System: ent.node.name, Phase: PhaseTeardown, Err: err})
		}
	}
	return errors.Join(errs...)
}

// bindFields initializes ecs.Query and ecs.Singleton fields of a system and
// returns the queries that need refreshing before every Process call.
func bindFields(system System, ctx *ecs.Context) []queryField {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() != reflect.Ptr || systemValue.IsNil() {
		return nil
	}
	systemValue = systemValue.Elem()
	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	ecsPkg := reflect.TypeFor[ecs.Context]().PkgPath()

	var queries []queryField
	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct || field.Type().PkgPath() != ecsPkg {
			continue
		}

		ptr := field.Addr().Interface()
		if b, ok := ptr.(contextBinder); ok {
			b.Init(ctx)
		}
		if q, ok := ptr.(queryField); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

// Tick runs every stage once. The first failing system aborts the frame:
// remaining stages are skipped, pending commands are discarded, and a
// FrameError is returned. The next Tick starts again from stage zero.
func (e *Executor) Tick(dt float64) error {
	frame := &Frame{
		Number:    e.frames.Add(1),
		DeltaTime: dt,
		Context:   e.ctx,
		Commands:  e.commands,
	}

	for i := range e.plan.stages {
		stage := &e.plan.stages[i]
		frame.Stage = i

		if err := e.runStage(stage, frame); err != nil {
			return e.abort(frame, i, err)
		}
		if err := e.commands.Flush(e.ctx); err != nil {
			return e.abort(frame, i, fmt.Errorf("flush commands: %w", err))
		}
	}
	return nil
}

func (e *Executor) abort(frame *Frame, stage int, err error) error {
	e.commands.Discard()
	e.failed.Add(1)
	e.logger.Warn("frame aborted",
		slog.Uint64("frame", frame.Number),
		slog.Int("stage", stage),
		slog.Any("err", err))
	return &FrameError{Frame: frame.Number, Stage: stage, Err: err}
}

func (e *Executor) runStage(stage *Stage, frame *Frame) error {
	if !stage.concurrent() || e.workers == 1 {
		for _, n := range stage.nodes {
			if err := e.runSystem(e.entries[n.index], frame); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	for _, n := range stage.nodes {
		ent := e.entries[n.index]
		g.Go(func() error {
			return e.runSystem(ent, frame)
		})
	}
	return g.Wait()
}

func (e *Executor) runSystem(ent *entry, frame *Frame) (err error) {
	phase := PhaseSetup
	defer func() {
		if r := recover(); r != nil {
			if phase == PhaseProcess {
				ent.stats.record(0, true)
			}
			err = &SystemError{System: ent.node.name, Phase: phase, Err: fmt.Errorf("%w: %v", ErrSystemPanic, r)}
		}
	}()

	if !ent.active {
		if s, ok := ent.node.system.(Setupper); ok {
			if err := s.Setup(e.ctx); err != nil {
				return &SystemError{System: ent.node.name, Phase: PhaseSetup, Err: err}
			}
		}
		ent.active = true
	}

	phase = PhaseProcess
	for _, q := range ent.queries {
		q.Execute()
	}

	start := time.Now()
	err = ent.node.system.Process(frame)
	ent.stats.record(time.Since(start), err != nil)
	if err != nil {
		return &SystemError{System: ent.node.name, Phase: PhaseProcess, Err: err}
	}
	return nil
}

// Run ticks the plan at the given interval until ctx is cancelled. Frame
// errors are passed to the error handler, or logged on slog.Default when none
// is set, and the loop continues.
func (e *Executor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if err := e.Tick(dt); err != nil {
				e.onError(err)
			}
		}
	}
}

// Stats returns statistics about system execution.
func (e *Executor) Stats() *ExecutorStats {
	stats := &ExecutorStats{
		SystemCount:  len(e.entries),
		StageCount:   len(e.plan.stages),
		Frames:       e.frames.Load(),
		FailedFrames: e.failed.Load(),
		Systems:      make([]SystemStats, len(e.entries)),
	}

	for i, ent := range e.entries {
		stats.Systems[i] = ent.stats.snapshot(ent.node.name, ent.stage)
		stats.TotalExecutions += stats.Systems[i].ExecutionCount
	}
	return stats
}
