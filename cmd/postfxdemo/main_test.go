package main

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/render"
)

// TestRunNodeSubmitsFrame drives runNode through a full frame on the
// noop backend: extract, prepare, queue, then encode, submit and wait.
func TestRunNodeSubmitsFrame(t *testing.T) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	defer instance.Destroy()

	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	device, queue := openDev.Device, openDev.Queue
	defer device.Destroy()

	comp, err := render.NewCompositor(device, queue)
	if err != nil {
		t.Fatalf("NewCompositor failed: %v", err)
	}
	defer comp.Destroy()

	cfg := postfx.DefaultEffects()
	cfg.Bloom.Enabled = true
	cfg.Bloom.Intensity = 0.5
	cfg.Tonemapping = postfx.TonemappingACES

	const viewID = render.ViewID(1)
	views := []render.ExtractedView{{ID: viewID, Width: 800, Height: 600}}
	node := comp.Node()

	for frame := 0; frame < 2; frame++ {
		comp.Extract(cfg, views)
		if err := comp.Prepare(); err != nil {
			t.Fatalf("frame %d: Prepare failed: %v", frame, err)
		}
		if err := comp.Queue(); err != nil {
			t.Fatalf("frame %d: Queue failed: %v", frame, err)
		}
		if err := runNode(device, queue, node, viewID); err != nil {
			t.Fatalf("frame %d: runNode failed: %v", frame, err)
		}
		comp.EndFrame()
	}

	if got := comp.Textures().Allocations(); got != 1 {
		t.Errorf("Allocations = %d, want 1 (target reused across frames)", got)
	}
}
