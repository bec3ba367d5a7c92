package render

import "github.com/gogpu/postfx"

// Extract begins a new frame. It snapshots the host configuration and
// registers the views eligible for compositing; the host keeps full
// ownership of cfg and may mutate it freely once Extract returns.
//
// Calling Extract with no views is legal: the later stages then degrade
// to no-ops for the frame.
func (c *Compositor) Extract(cfg postfx.Effects, views []ExtractedView) {
	c.resetFrame()

	for _, v := range views {
		c.views.register(v)
	}

	c.mu.Lock()
	c.snapshot = cfg.Clone()
	c.mu.Unlock()

	slogger().Debug("frame extracted",
		"views", len(views), "flags", PackFlags(cfg))
}
