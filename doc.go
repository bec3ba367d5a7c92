// Package postfx provides a GPU post-processing compositor that folds
// bloom, channel mixing and tonemapping into a single full-screen pass.
//
// # Overview
//
// The package is split in two layers. The root package holds the
// host-facing configuration types ([Effects], [Bloom], [ChannelMixing],
// [Tonemapping]) and shared utilities such as [Color] and [Mat3]. The
// render sub-package owns everything that touches the GPU: uniform
// packing, the texture cache, pipeline construction and the per-frame
// staged pipeline (extract, prepare, queue, render).
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/postfx"
//	    "github.com/gogpu/postfx/render"
//	)
//
//	comp, err := render.NewCompositor(device, queue)
//
//	cfg := postfx.DefaultEffects()
//	cfg.Bloom.Enabled = true
//	cfg.Bloom.Intensity = 0.5
//	cfg.Tonemapping = postfx.TonemappingACES
//
//	// Per frame:
//	comp.Extract(cfg, views)
//	comp.Prepare()
//	comp.Queue()
//	// ... run comp.Node() inside the frame graph ...
//	comp.EndFrame()
//
// # Frame Model
//
// Each frame the host hands the render side a configuration snapshot and
// the set of views to composite. The render side packs the snapshot into
// a single uniform block, allocates (or reuses) a single-channel
// off-screen target per view, rebuilds bind groups from scratch, and
// records one full-screen triangle draw per view. Downstream consumers
// read the per-view target texture.
//
// # Logging
//
// postfx is silent by default. Call [SetLogger] to receive structured
// logs from every sub-package through a single *slog.Logger.
package postfx
