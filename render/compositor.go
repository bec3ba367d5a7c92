package render

import (
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx"
)

// Compositor owns the render side of the post-processing pass. The
// host drives it through four per-frame stages, in order: [Compositor.Extract],
// [Compositor.Prepare], [Compositor.Queue], and the node returned by
// [Compositor.Node] running inside the frame graph. [Compositor.EndFrame]
// closes the frame and lets the texture cache age out unused targets.
//
// The device and queue are borrowed from the host; everything the
// Compositor creates on them is released by [Compositor.Destroy].
type Compositor struct {
	device hal.Device
	queue  hal.Queue

	pipeline *CompositePipeline
	textures *TextureCache
	views    *ViewStore

	effectUniform *UniformStaging
	viewUniforms  *bufferVec

	drawFuncs     *DrawFunctions
	drawComposite DrawFunctionID

	mu              sync.Mutex
	snapshot        postfx.Effects
	effectBindGroup hal.BindGroup
}

// NewCompositor creates the composite pass subsystem on the given
// device. Pipeline construction failures are returned as-is; without a
// pipeline the subsystem is unusable.
func NewCompositor(device hal.Device, queue hal.Queue) (*Compositor, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}

	pipeline, err := NewCompositePipeline(device)
	if err != nil {
		return nil, err
	}

	c := &Compositor{
		device:        device,
		queue:         queue,
		pipeline:      pipeline,
		textures:      NewTextureCache(device, DefaultRetentionFrames),
		views:         NewViewStore(),
		effectUniform: NewUniformStaging(device, queue),
		viewUniforms:  newBufferVec(device, queue, "postfx_views", viewUniformStride),
		drawFuncs:     NewDrawFunctions(),
	}
	c.drawComposite = c.drawFuncs.Add(c.recordComposite)
	return c, nil
}

// Pipeline exposes the immutable pipeline objects, mainly so that
// downstream passes can reuse the shared sampler.
func (c *Compositor) Pipeline() *CompositePipeline { return c.pipeline }

// Textures exposes the texture cache for statistics and tests.
func (c *Compositor) Textures() *TextureCache { return c.textures }

// Views exposes the per-frame view store.
func (c *Compositor) Views() *ViewStore { return c.views }

// ViewTarget returns the off-screen target for a view prepared this
// frame. Downstream passes sample it to apply the composite mask.
func (c *Compositor) ViewTarget(id ViewID) (*CachedTexture, bool) {
	r, ok := c.views.get(id)
	if !ok || r.target == nil {
		return nil, false
	}
	return r.target, true
}

// Node returns the render-graph node that records the composite pass.
// The node borrows the Compositor and stays valid until Destroy.
func (c *Compositor) Node() *PassNode {
	return &PassNode{compositor: c}
}

// EndFrame closes the frame: the texture cache advances and destroys
// targets that have gone unused past the retention window.
func (c *Compositor) EndFrame() {
	c.textures.EndFrame()
}

// resetFrame destroys last frame's bind groups and clears the view
// store. Bind groups are rebuilt from scratch every frame, so anything
// still attached to a record is from the frame that just ended.
func (c *Compositor) resetFrame() {
	c.mu.Lock()
	if c.effectBindGroup != nil {
		c.device.DestroyBindGroup(c.effectBindGroup)
		c.effectBindGroup = nil
	}
	c.mu.Unlock()

	c.views.beginFrame(c.device)
}

// Destroy releases every GPU object the Compositor owns. The borrowed
// device and queue are left untouched.
func (c *Compositor) Destroy() {
	c.resetFrame()
	c.effectUniform.Release()
	c.viewUniforms.release()
	c.textures.Destroy()
	if c.pipeline != nil {
		c.pipeline.Destroy()
	}
}
