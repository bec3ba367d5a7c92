package render

import (
	"sort"
	"sync"

	"github.com/gogpu/wgpu/hal"
)

// DrawFunc records the GPU commands for one draw entry. The function
// receives the open pass encoder, the view the pass renders, and the
// entry that scheduled it.
type DrawFunc func(rp hal.RenderPassEncoder, view ViewID, entry DrawEntry)

// DrawFunctionID references a registered DrawFunc.
type DrawFunctionID int

// DrawFunctions is a registry of draw functions. Registration normally
// happens once at setup; lookup happens on the render path and takes a
// read lock only.
type DrawFunctions struct {
	mu    sync.RWMutex
	funcs []DrawFunc
}

// NewDrawFunctions creates an empty registry.
func NewDrawFunctions() *DrawFunctions {
	return &DrawFunctions{}
}

// Add registers fn and returns its ID.
func (d *DrawFunctions) Add(fn DrawFunc) DrawFunctionID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.funcs = append(d.funcs, fn)
	return DrawFunctionID(len(d.funcs) - 1)
}

// Get returns the function for id.
func (d *DrawFunctions) Get(id DrawFunctionID) (DrawFunc, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if id < 0 || int(id) >= len(d.funcs) {
		return nil, false
	}
	return d.funcs[id], true
}

// DrawEntry schedules one draw function invocation within a view's
// render phase.
type DrawEntry struct {
	// Function identifies the registered DrawFunc to invoke.
	Function DrawFunctionID
	// Key carries a per-frame payload index to the draw function. For
	// the composite pass it is the view's registration index.
	Key int
	// SortKey orders entries within the phase. Entries with equal keys
	// keep their insertion order.
	SortKey int
}

// RenderPhase is a view's ordered draw list for one frame.
type RenderPhase struct {
	mu      sync.Mutex
	entries []DrawEntry
}

// Add appends an entry to the phase.
func (p *RenderPhase) Add(e DrawEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, e)
}

// Sort orders the entries by SortKey, keeping insertion order for ties.
func (p *RenderPhase) Sort() {
	p.mu.Lock()
	defer p.mu.Unlock()
	sort.SliceStable(p.entries, func(i, j int) bool {
		return p.entries[i].SortKey < p.entries[j].SortKey
	})
}

// Entries returns the current draw list. The slice aliases phase
// internals and is only valid until the next Add.
func (p *RenderPhase) Entries() []DrawEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entries
}

// Len returns the number of scheduled entries.
func (p *RenderPhase) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
