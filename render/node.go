package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// SlotType identifies the kind of value a node input slot carries.
type SlotType int

const (
	// SlotTypeView carries a ViewID.
	SlotTypeView SlotType = iota
)

// String returns the string representation of SlotType.
func (t SlotType) String() string {
	switch t {
	case SlotTypeView:
		return "View"
	default:
		return fmt.Sprintf("SlotType(%d)", int(t))
	}
}

// SlotInfo declares one input slot of a node.
type SlotInfo struct {
	Name string
	Type SlotType
}

// Node is a schedulable render-graph stage. The frame graph resolves a
// node's input slots, then calls Run with an open command encoder. A
// returned error aborts the frame.
type Node interface {
	// Label names the node for diagnostics.
	Label() string
	// InputSlots declares the slots the graph must populate before Run.
	InputSlots() []SlotInfo
	// Run records the node's GPU work. The encoder is recording; the
	// node must not end it.
	Run(ctx *GraphContext, encoder hal.CommandEncoder) error
}

// GraphContext carries the resolved slot values for one node
// invocation.
type GraphContext struct {
	viewInputs map[string]ViewID
}

// NewGraphContext creates an empty context.
func NewGraphContext() *GraphContext {
	return &GraphContext{viewInputs: make(map[string]ViewID)}
}

// SetViewInput populates a view slot.
func (g *GraphContext) SetViewInput(name string, id ViewID) {
	g.viewInputs[name] = id
}

// ViewInput resolves a view slot, or reports that the graph never
// populated it.
func (g *GraphContext) ViewInput(name string) (ViewID, error) {
	id, ok := g.viewInputs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrSlotMissing, name)
	}
	return id, nil
}

// passState tracks the node through one Run invocation.
//
//	Idle -> (uniforms uploaded) -> Bound -> (pass begun) -> Passing -> Idle
type passState int

const (
	passStateIdle passState = iota
	passStateBound
	passStatePassing
)

// String returns the string representation of passState.
func (s passState) String() string {
	switch s {
	case passStateIdle:
		return "Idle"
	case passStateBound:
		return "Bound"
	case passStatePassing:
		return "Passing"
	default:
		return "Unknown"
	}
}

// PassNodeInView is the name of the node's single input slot.
const PassNodeInView = "view"

// PassNode records the composite pass for one view. The frame graph
// may instantiate it once per view; all instances share the borrowed
// Compositor and hold no state of their own between invocations.
type PassNode struct {
	compositor *Compositor
}

var _ Node = (*PassNode)(nil)

// Label implements Node.
func (n *PassNode) Label() string { return "composite_pass" }

// InputSlots implements Node.
func (n *PassNode) InputSlots() []SlotInfo {
	return []SlotInfo{{Name: PassNodeInView, Type: SlotTypeView}}
}

// Run implements Node. It uploads the frame's staged uniforms, opens a
// render pass on the view's target cleared to black, and replays the
// view's sorted draw list.
//
// A view that was registered but never given a target or draw entries
// is skipped successfully: other passes may legitimately schedule views
// this pass does not touch. A view absent from the store entirely is a
// graph wiring defect and fails the frame.
func (n *PassNode) Run(ctx *GraphContext, encoder hal.CommandEncoder) error {
	c := n.compositor
	state := passStateIdle

	id, err := ctx.ViewInput(PassNodeInView)
	if err != nil {
		return err
	}

	record, ok := c.views.get(id)
	if !ok {
		return fmt.Errorf("%w: view %d", ErrViewNotFound, id)
	}
	if !record.hasResources() {
		slogger().Debug("composite pass skipped", "view", id)
		return nil
	}
	if record.target == nil {
		slogger().Warn("composite pass has draws but no target", "view", id)
		return nil
	}

	// The uniform copies must land on the encoder before the pass so
	// the draws observe this frame's values.
	c.effectUniform.EncodeUpload(encoder)
	c.viewUniforms.encodeUpload(encoder)
	state = passStateBound
	slogger().Debug("composite pass state", "view", id, "state", state)

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "composite_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       record.target.View,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	state = passStatePassing
	slogger().Debug("composite pass state", "view", id, "state", state)

	record.phase.Sort()
	for _, entry := range record.phase.Entries() {
		fn, ok := c.drawFuncs.Get(entry.Function)
		if !ok {
			continue
		}
		fn(rp, id, entry)
	}

	rp.End()
	state = passStateIdle
	slogger().Debug("composite pass state", "view", id, "state", state)
	return nil
}
