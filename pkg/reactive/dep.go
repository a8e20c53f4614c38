package reactive

// IterateKey is the pseudo-key tracked by whole-collection reads (Keys, Len
// of an Object, Items of a List) and triggered when the key set changes.
const IterateKey = "$iterate"

// LengthKey is tracked by List.Len and triggered when a list changes size.
const LengthKey = "length"

// Target is anything that owns a dependency map and can therefore be passed
// to Track and Trigger. Embed a DepMap to make a custom type a Target.
type Target interface {
	depsMap() *DepMap
}

// DepMap maps keys to the effects that read them. The zero value is ready
// to use.
type DepMap struct {
	deps map[string]*dep
}

func (m *DepMap) depsMap() *DepMap { return m }

// Subscribers returns how many effects currently depend on key.
func (m *DepMap) Subscribers(key string) int {
	if d := m.deps[key]; d != nil {
		return len(d.subs)
	}
	return 0
}

// dep is the set of effects subscribed to one (target, key) pair. Effects
// keep back-references to the deps they belong to so cleanup can remove
// them without scanning every target.
type dep struct {
	owner *DepMap
	key   string
	subs  []*Effect
	index map[*Effect]struct{}
}

func (d *dep) has(e *Effect) bool {
	_, ok := d.index[e]
	return ok
}

func (d *dep) add(e *Effect) {
	if d.index == nil {
		d.index = make(map[*Effect]struct{})
	}
	d.index[e] = struct{}{}
	d.subs = append(d.subs, e)
}

func (d *dep) remove(e *Effect) {
	if _, ok := d.index[e]; !ok {
		return
	}
	delete(d.index, e)
	for i, s := range d.subs {
		if s == e {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			break
		}
	}
	if len(d.subs) == 0 && d.owner != nil && d.owner.deps[d.key] == d {
		delete(d.owner.deps, d.key)
	}
}

// Track records that the active effect read key on target. It is a no-op
// when no effect is running, inside Untracked, or when the active effect has
// been stopped.
func Track(target Target, key string) {
	ctx := lookupTrackingContext()
	if ctx == nil || ctx.untracked > 0 {
		return
	}
	e := ctx.activeEffect
	if e == nil || !e.active {
		return
	}

	m := target.depsMap()
	if m.deps == nil {
		m.deps = make(map[string]*dep)
	}
	d := m.deps[key]
	if d == nil {
		d = &dep{owner: m, key: key}
		m.deps[key] = d
	}
	if d.has(e) {
		return
	}
	d.add(e)
	e.deps = append(e.deps, d)
}

// Trigger reruns or schedules every effect subscribed to key on target.
// Subscribers are iterated over a snapshot, because a rerun changes the
// subscriber set. Computed values are invalidated before plain effects run,
// so an effect that reads a computed never observes a stale cache.
func Trigger(target Target, key string) {
	m := target.depsMap()
	d := m.deps[key]
	if d == nil || len(d.subs) == 0 {
		return
	}
	snapshot := make([]*Effect, len(d.subs))
	copy(snapshot, d.subs)
	triggerEffects(snapshot)
}

// TriggerKeys is Trigger for several keys at once. Every affected effect is
// notified at most once.
func TriggerKeys(target Target, keys ...string) {
	m := target.depsMap()
	var effects []*Effect
	seen := make(map[*Effect]struct{})
	for _, key := range keys {
		d := m.deps[key]
		if d == nil {
			continue
		}
		for _, e := range d.subs {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			effects = append(effects, e)
		}
	}
	if len(effects) > 0 {
		triggerEffects(effects)
	}
}

// triggerEffects notifies effects as one round. Computed values are
// invalidated first and immediately; every other effect is collected, so an
// effect reached both directly and through a computed runs once.
func triggerEffects(effects []*Effect) {
	ctx := acquireTrackingContext()
	ctx.batchDepth++
	for _, e := range effects {
		if e.computed {
			notify(ctx, e)
		}
	}
	for _, e := range effects {
		if !e.computed {
			notify(ctx, e)
		}
	}
	ctx.batchDepth--
	if ctx.batchDepth == 0 {
		flushPending(ctx)
	}
	releaseTrackingContext(ctx)
}

func notify(ctx *trackingContext, e *Effect) {
	// A running effect does not retrigger itself.
	if !e.active || e.running {
		return
	}
	if e.computed {
		e.scheduler(e)
		return
	}
	ctx.pending = append(ctx.pending, e)
}

// dispatch reruns e now, or hands it to its scheduler.
func dispatch(e *Effect) {
	if !e.active || e.running {
		return
	}
	if e.scheduler != nil {
		e.scheduler(e)
		return
	}
	e.Run()
}

// cleanupEffect removes e from every dep it belongs to and empties its
// dependency list.
func cleanupEffect(e *Effect) {
	for _, d := range e.deps {
		d.remove(e)
	}
	clear(e.deps)
	e.deps = e.deps[:0]
}
