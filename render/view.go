package render

import (
	"sync"

	"github.com/gogpu/wgpu/hal"
)

// ViewID identifies a view in the render-side store. The host assigns
// IDs; the render side only compares them.
type ViewID uint64

// ExtractedView is the per-view data captured at the extraction
// boundary. Dimensions are in physical pixels.
type ExtractedView struct {
	ID     ViewID
	Width  uint32
	Height uint32
}

// viewUniformStride is the byte distance between per-view uniform
// blocks. Dynamic uniform offsets must be 256-byte aligned.
const viewUniformStride = 256

// viewUniformSize is the used byte size of one per-view block:
// viewport width, height and their reciprocals as four f32.
const viewUniformSize = 16

// packViewUniform serializes one per-view block, padded to the dynamic
// offset stride.
func packViewUniform(v ExtractedView) []byte {
	block := make([]byte, viewUniformStride)
	w := float32(v.Width)
	h := float32(v.Height)
	writeFloat32(block, 0, w)
	writeFloat32(block, 4, h)
	if w > 0 {
		writeFloat32(block, 8, 1/w)
	}
	if h > 0 {
		writeFloat32(block, 12, 1/h)
	}
	return block
}

// viewRecord is the render-side working set for one view. Records live
// for exactly one frame: extraction rebuilds them, preparation attaches
// the target and uniform offset, queueing attaches the bind group and
// draw entries.
type viewRecord struct {
	view  ExtractedView
	index int

	phase *RenderPhase

	target        *CachedTexture
	uniformOffset uint32
	hasUniform    bool

	bindGroup hal.BindGroup
}

// hasResources reports whether preparation or queueing gave this record
// anything to render.
func (r *viewRecord) hasResources() bool {
	return r.target != nil || r.phase.Len() > 0
}

// ViewStore holds the per-frame view records, keyed by ViewID and
// iterable in registration order.
type ViewStore struct {
	mu      sync.Mutex
	records map[ViewID]*viewRecord
	order   []ViewID
}

// NewViewStore creates an empty store.
func NewViewStore() *ViewStore {
	return &ViewStore{records: make(map[ViewID]*viewRecord)}
}

// beginFrame drops all records from the previous frame, releasing their
// bind groups through device.
func (s *ViewStore) beginFrame(device hal.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		if r := s.records[id]; r.bindGroup != nil {
			device.DestroyBindGroup(r.bindGroup)
		}
	}
	clear(s.records)
	s.order = s.order[:0]
}

// register adds a record for v, replacing any record with the same ID.
func (s *ViewStore) register(v ExtractedView) *viewRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.records[v.ID]; ok {
		r.view = v
		return r
	}
	r := &viewRecord{
		view:  v,
		index: len(s.order),
		phase: &RenderPhase{},
	}
	s.records[v.ID] = r
	s.order = append(s.order, v.ID)
	return r
}

// get returns the record for id, if registered this frame.
func (s *ViewStore) get(id ViewID) (*viewRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	return r, ok
}

// each calls fn for every record in registration order.
func (s *ViewStore) each(fn func(*viewRecord) error) error {
	s.mu.Lock()
	ids := make([]ViewID, len(s.order))
	copy(ids, s.order)
	s.mu.Unlock()

	for _, id := range ids {
		r, ok := s.get(id)
		if !ok {
			continue
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of views registered this frame.
func (s *ViewStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}
