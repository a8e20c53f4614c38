package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for a goroutine.
type trackingContext struct {
	// activeEffect is the effect currently recording dependencies.
	activeEffect *Effect

	// untracked > 0 suppresses dependency recording.
	untracked int

	// batchDepth tracks nested Batch calls.
	batchDepth int

	// pending accumulates effects triggered inside a batch.
	pending []*Effect

	// owner is an opaque value owned by higher layers (the component
	// instance whose setup is running).
	owner any
}

func (c *trackingContext) idle() bool {
	return c.activeEffect == nil && c.untracked == 0 && c.batchDepth == 0 &&
		len(c.pending) == 0 && c.owner == nil
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine,
// parsed from the "goroutine <id> " header of the runtime stack.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// lookupTrackingContext returns the goroutine's context, or nil when the
// goroutine has never run an effect. Reads use this so that tracking on an
// idle goroutine allocates nothing.
func lookupTrackingContext() *trackingContext {
	if ctx, ok := trackingContexts.Load(getGoroutineID()); ok {
		return ctx.(*trackingContext)
	}
	return nil
}

// acquireTrackingContext returns the goroutine's context, creating it on
// first use. Pair with releaseTrackingContext.
func acquireTrackingContext() *trackingContext {
	gid := getGoroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// releaseTrackingContext drops the goroutine's context once nothing in it
// is live, so finished goroutines do not leak entries.
func releaseTrackingContext(ctx *trackingContext) {
	if ctx.idle() {
		trackingContexts.Delete(getGoroutineID())
	}
}

// ActiveEffect returns the effect currently recording dependencies on this
// goroutine, or nil.
func ActiveEffect() *Effect {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.activeEffect
	}
	return nil
}

// CurrentOwner returns the owner value installed with SetCurrentOwner.
func CurrentOwner() any {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.owner
	}
	return nil
}

// SetCurrentOwner installs owner as the goroutine's current owner and
// returns the previous one so the caller can restore it.
func SetCurrentOwner(owner any) any {
	ctx := acquireTrackingContext()
	old := ctx.owner
	ctx.owner = owner
	releaseTrackingContext(ctx)
	return old
}

// WithOwner runs fn with owner installed as the current owner. The previous
// owner is restored even if fn panics.
func WithOwner(owner any, fn func()) {
	old := SetCurrentOwner(owner)
	defer SetCurrentOwner(old)
	fn()
}
