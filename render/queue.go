package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Queue runs the queueing stage: it rebuilds the frame's bind groups
// and emits one composite draw entry into every view's render phase.
//
// If preparation staged no view uniforms this frame, Queue returns
// immediately without creating any GPU objects. Bind groups are never
// carried across frames; rebuilding them here keeps them valid even
// when the uniform buffers were reallocated during preparation.
func (c *Compositor) Queue() error {
	if c.viewUniforms.len() < 1 {
		return nil
	}

	effectBG, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "composite_effect_bind_group",
		Layout: c.pipeline.EffectLayout(),
		Entries: []gputypes.BindGroupEntry{
			{
				Binding: 0,
				Resource: gputypes.BufferBinding{
					Buffer: c.effectUniform.Buffer().NativeHandle(),
					Offset: 0,
					Size:   UniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create effect bind group: %w", err)
	}

	c.mu.Lock()
	c.effectBindGroup = effectBG
	c.mu.Unlock()

	viewBuffer := c.viewUniforms.uniformHandle()
	err = c.views.each(func(r *viewRecord) error {
		if !r.hasUniform {
			return nil
		}
		bg, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "composite_view_bind_group",
			Layout: c.pipeline.ViewLayout(),
			Entries: []gputypes.BindGroupEntry{
				{
					Binding: 0,
					// The dynamic offset selects the view's block at
					// draw time; the binding always starts at zero.
					Resource: gputypes.BufferBinding{
						Buffer: viewBuffer.NativeHandle(),
						Offset: 0,
						Size:   viewUniformSize,
					},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("create view %d bind group: %w", r.view.ID, err)
		}
		r.bindGroup = bg

		r.phase.Add(DrawEntry{
			Function: c.drawComposite,
			Key:      r.index,
			SortKey:  0,
		})
		return nil
	})
	if err != nil {
		return err
	}

	slogger().Debug("frame queued", "views", c.views.Len())
	return nil
}
