package reactive

// Batch groups the triggers fired inside fn. Every affected effect is
// notified once, when the outermost batch completes.
//
//	Batch(func() {
//	    state.Set("first", "Ada")
//	    state.Set("last", "Lovelace")
//	})
//	// an effect reading both fields reruns once
func Batch(fn func()) {
	ctx := acquireTrackingContext()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			flushPending(ctx)
		}
		releaseTrackingContext(ctx)
	}()

	fn()
}

// flushPending deduplicates and dispatches the collected effects. Effects
// triggered while dispatching are collected into the next round.
func flushPending(ctx *trackingContext) {
	for len(ctx.pending) > 0 {
		pending := ctx.pending
		ctx.pending = nil

		seen := make(map[*Effect]struct{}, len(pending))
		for _, e := range pending {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			dispatch(e)
		}
	}
}

// Untracked runs fn without recording dependencies for the active effect.
func Untracked(fn func()) {
	ctx := acquireTrackingContext()
	ctx.untracked++
	defer func() {
		ctx.untracked--
		releaseTrackingContext(ctx)
	}()
	fn()
}
