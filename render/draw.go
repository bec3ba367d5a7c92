package render

import "github.com/gogpu/wgpu/hal"

// compositeVertexCount is the full-screen triangle: three vertices, no
// vertex buffer, positions derived from the vertex index in the shader.
const compositeVertexCount = 3

// recordComposite is the registered draw function for the composite
// pass. It binds the pipeline, the view's bind group with its dynamic
// uniform offset, and the shared effect bind group, then issues the
// full-screen triangle as a single instance.
func (c *Compositor) recordComposite(rp hal.RenderPassEncoder, view ViewID, entry DrawEntry) {
	record, ok := c.views.get(view)
	if !ok || record.bindGroup == nil {
		return
	}

	c.mu.Lock()
	effectBG := c.effectBindGroup
	c.mu.Unlock()
	if effectBG == nil {
		return
	}

	rp.SetPipeline(c.pipeline.Pipeline())
	rp.SetBindGroup(0, record.bindGroup, []uint32{record.uniformOffset})
	rp.SetBindGroup(1, effectBG, nil)
	rp.Draw(compositeVertexCount, 1, 0, 0)
}
