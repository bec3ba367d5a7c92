package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// targetFormat is the pixel format of every composite target. A single
// channel is enough for the effect mask and keeps the targets cheap.
const targetFormat = gputypes.TextureFormatR8Unorm

// targetUsage covers rendering into the target and sampling it from a
// downstream pass.
const targetUsage = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding

// targetDescriptor builds the cache key for a view's composite target.
func targetDescriptor(v ExtractedView) TextureDescriptor {
	return TextureDescriptor{
		Label:         "postfx_target",
		Width:         v.Width,
		Height:        v.Height,
		Format:        targetFormat,
		Usage:         targetUsage,
		SampleCount:   1,
		MipLevelCount: 1,
	}
}

// Prepare runs the preparation stage for the current frame: it packs
// the effect uniform block, writes one per-view uniform block per
// registered view, and attaches a cached render target to every view.
// Matching descriptors reuse last frame's textures; only the uniform
// contents are rewritten.
//
// With no views registered, Prepare stages nothing and succeeds.
func (c *Compositor) Prepare() error {
	c.mu.Lock()
	cfg := c.snapshot
	c.mu.Unlock()

	n := c.views.Len()
	c.effectUniform.ReserveAndClear(1)
	c.viewUniforms.reserveAndClear(n)

	// The effect block is packed unconditionally, before the per-view
	// loop; a frame without views stages it and stops there.
	if _, err := c.effectUniform.Push(cfg); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	err := c.views.each(func(r *viewRecord) error {
		target, err := c.textures.Get(targetDescriptor(r.view))
		if err != nil {
			return fmt.Errorf("prepare view %d target: %w", r.view.ID, err)
		}
		r.target = target

		offset, err := c.viewUniforms.push(packViewUniform(r.view))
		if err != nil {
			return err
		}
		r.uniformOffset = offset
		r.hasUniform = true
		return nil
	})
	if err != nil {
		return err
	}

	if err := c.effectUniform.WriteToStaging(); err != nil {
		return err
	}
	if err := c.viewUniforms.writeToStaging(); err != nil {
		return err
	}

	slogger().Debug("frame prepared", "views", n)
	return nil
}
