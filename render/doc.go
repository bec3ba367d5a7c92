// Package render implements the GPU side of the postfx compositor.
//
// # Architecture
//
// The package follows a staged per-frame pipeline. Each stage has a
// single entry point on [Compositor] and runs once per frame, in order:
//
//	Extract  — snapshot the host configuration and the set of views.
//	Prepare  — pack the uniform block, allocate per-view targets from
//	           the texture cache, stage uniform uploads.
//	Queue    — rebuild bind groups and emit one draw entry per view.
//	Run      — the render-graph node records the full-screen pass for
//	           one view into a command encoder.
//
// Bind groups are rebuilt from scratch every frame; only textures are
// cached across frames, keyed by their full descriptor. This trades a
// small amount of per-frame work for immunity to stale bindings when
// buffers are reallocated.
//
// # Resource ownership
//
// The [Compositor] owns every GPU object it creates (pipeline, buffers,
// bind groups, cached textures) and releases them in Destroy. The
// hal.Device and hal.Queue are borrowed from the host and never
// destroyed here.
//
// # Threading
//
// Per-view work inside a stage may run concurrently: the texture cache
// and the uniform staging buffers are safe for concurrent use. The
// stages themselves must not overlap for a given Compositor.
package render
