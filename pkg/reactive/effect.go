package reactive

// Effect is a tracked computation. It reruns when any target key it read
// during its most recent run is triggered.
type Effect struct {
	id uint64

	fn        func()
	scheduler func(*Effect)
	onStop    func()

	// deps are back-references to every dep set this effect belongs to.
	deps []*dep

	// parent is the effect that was active when this one started running.
	parent *Effect

	active   bool
	running  bool
	computed bool
	lazy     bool

	runs int
}

// EffectOption configures an Effect.
type EffectOption func(*Effect)

// WithScheduler makes triggers call scheduler instead of rerunning the
// effect synchronously. The scheduler decides when (and whether) to call Run.
func WithScheduler(scheduler func(*Effect)) EffectOption {
	return func(e *Effect) {
		e.scheduler = scheduler
	}
}

// Lazy skips the initial run; the effect records nothing until Run is
// called.
func Lazy() EffectOption {
	return func(e *Effect) {
		e.lazy = true
	}
}

// OnStop registers fn to run once when the effect is stopped.
func OnStop(fn func()) EffectOption {
	return func(e *Effect) {
		e.onStop = fn
	}
}

// NewEffect creates an effect for fn and, unless Lazy is given, runs it
// immediately.
func NewEffect(fn func(), opts ...EffectOption) *Effect {
	e := &Effect{
		id:     nextID(),
		fn:     fn,
		active: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.lazy {
		e.Run()
	}
	return e
}

// ID returns the unique identifier of the effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Run executes the effect function, recording fresh dependencies. Stale
// edges from the previous run are removed first. A stopped effect runs its
// function without tracking. Run is a no-op if the effect is already on the
// goroutine's active chain.
func (e *Effect) Run() {
	if !e.active {
		e.fn()
		return
	}

	ctx := acquireTrackingContext()
	for p := ctx.activeEffect; p != nil; p = p.parent {
		if p == e {
			releaseTrackingContext(ctx)
			return
		}
	}

	cleanupEffect(e)

	e.parent = ctx.activeEffect
	ctx.activeEffect = e
	prevUntracked := ctx.untracked
	ctx.untracked = 0
	e.running = true
	e.runs++

	defer func() {
		e.running = false
		ctx.activeEffect = e.parent
		ctx.untracked = prevUntracked
		e.parent = nil
		releaseTrackingContext(ctx)
	}()

	e.fn()
}

// Stop detaches the effect from all of its dependencies. It is idempotent
// and safe to call from inside the effect's own function or scheduler.
func (e *Effect) Stop() {
	if !e.active {
		return
	}
	e.active = false
	cleanupEffect(e)
	if e.onStop != nil {
		e.onStop()
	}
}

// Active reports whether the effect has not been stopped.
func (e *Effect) Active() bool {
	return e.active
}

// Deps returns the number of (target, key) pairs the effect currently
// depends on.
func (e *Effect) Deps() int {
	return len(e.deps)
}

// Runs returns how many times the effect function has run while active.
func (e *Effect) Runs() int {
	return e.runs
}
