package render

import (
	"testing"

	"github.com/gogpu/postfx"
)

func TestPackFlags(t *testing.T) {
	tests := []struct {
		name string
		cfg  func() postfx.Effects
		want EffectFlags
	}{
		{
			name: "all disabled",
			cfg:  postfx.DefaultEffects,
			want: 0,
		},
		{
			name: "bloom enabled",
			cfg: func() postfx.Effects {
				e := postfx.DefaultEffects()
				e.Bloom.Enabled = true
				return e
			},
			want: FlagBloom,
		},
		{
			name: "bloom enabled with zero intensity still sets the bit",
			cfg: func() postfx.Effects {
				e := postfx.DefaultEffects()
				e.Bloom.Enabled = true
				e.Bloom.Intensity = 0
				return e
			},
			want: FlagBloom,
		},
		{
			name: "nonzero intensity alone does not set the bit",
			cfg: func() postfx.Effects {
				e := postfx.DefaultEffects()
				e.Bloom.Intensity = 2.5
				return e
			},
			want: 0,
		},
		{
			name: "normal tonemapping",
			cfg: func() postfx.Effects {
				e := postfx.DefaultEffects()
				e.Tonemapping = postfx.TonemappingNormal
				return e
			},
			want: FlagNormalTonemapping,
		},
		{
			name: "aces tonemapping",
			cfg: func() postfx.Effects {
				e := postfx.DefaultEffects()
				e.Tonemapping = postfx.TonemappingACES
				return e
			},
			want: FlagACESTonemapping,
		},
		{
			name: "channel mixing",
			cfg: func() postfx.Effects {
				e := postfx.DefaultEffects()
				e.ChannelMixing.Enabled = true
				return e
			},
			want: FlagChannelMixing,
		},
		{
			name: "bits combine independently",
			cfg: func() postfx.Effects {
				e := postfx.DefaultEffects()
				e.Bloom.Enabled = true
				e.ChannelMixing.Enabled = true
				e.Tonemapping = postfx.TonemappingACES
				return e
			},
			want: FlagBloom | FlagACESTonemapping | FlagChannelMixing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PackFlags(tt.cfg()); got != tt.want {
				t.Errorf("PackFlags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectFlags_BitValues(t *testing.T) {
	// The shader branches on these literal values; they must not drift.
	if FlagBloom != 1 {
		t.Errorf("FlagBloom = %d, want 1", FlagBloom)
	}
	if FlagNormalTonemapping != 2 {
		t.Errorf("FlagNormalTonemapping = %d, want 2", FlagNormalTonemapping)
	}
	if FlagACESTonemapping != 4 {
		t.Errorf("FlagACESTonemapping = %d, want 4", FlagACESTonemapping)
	}
	if FlagChannelMixing != 8 {
		t.Errorf("FlagChannelMixing = %d, want 8", FlagChannelMixing)
	}
}

func TestEffectFlags_String(t *testing.T) {
	if got := EffectFlags(0).String(); got != "none" {
		t.Errorf("String() = %q, want none", got)
	}
	f := FlagBloom | FlagACESTonemapping
	if got := f.String(); got != "bloom|tonemap_aces" {
		t.Errorf("String() = %q", got)
	}
}

func TestPackUniform_Layout(t *testing.T) {
	cfg := postfx.DefaultEffects()
	cfg.Bloom.Enabled = true
	cfg.Bloom.Threshold = 1.5
	cfg.Bloom.Intensity = 0.25
	cfg.Bloom.Scatter = 0.6
	cfg.Bloom.Tint = postfx.Color{R: 0.1, G: 0.2, B: 0.3, A: 0.4}
	cfg.Bloom.Clamp = 100

	var block [UniformSize]byte
	PackUniform(cfg, block[:])

	if got := readUint32(block[:], 0); got != uint32(FlagBloom) {
		t.Errorf("flags word = %d, want %d", got, FlagBloom)
	}
	if got := readFloat32(block[:], 16); got != 1.5 {
		t.Errorf("threshold at offset 16 = %v, want 1.5", got)
	}
	if got := readFloat32(block[:], 20); got != 0.25 {
		t.Errorf("intensity at offset 20 = %v, want 0.25", got)
	}
	if got := readFloat32(block[:], 24); got != 0.6 {
		t.Errorf("scatter at offset 24 = %v, want 0.6", got)
	}
	if got := readFloat32(block[:], 32); got != 0.1 {
		t.Errorf("tint.r at offset 32 = %v, want 0.1", got)
	}
	if got := readFloat32(block[:], 44); got != 0.4 {
		t.Errorf("tint.a at offset 44 = %v, want 0.4", got)
	}
	if got := readFloat32(block[:], 48); got != 100 {
		t.Errorf("clamp at offset 48 = %v, want 100", got)
	}
	// Padding words stay zero.
	for _, off := range []int{4, 8, 12, 28, 52, 56, 60} {
		if got := readUint32(block[:], off); got != 0 {
			t.Errorf("padding at offset %d = %d, want 0", off, got)
		}
	}
}

func TestPackUniform_MatrixPlacement(t *testing.T) {
	cfg := postfx.DefaultEffects()
	cfg.ChannelMixing = postfx.ChannelMixing{
		Enabled: true,
		Red:     postfx.Color{R: 1, G: 2, B: 3, A: 9},
		Blue:    postfx.Color{R: 4, G: 5, B: 6, A: 9},
		Green:   postfx.Color{R: 7, G: 8, B: 9, A: 9},
	}

	var block [UniformSize]byte
	PackUniform(cfg, block[:])

	// Vector 0 at 64: red weights. Alpha never lands in the block.
	if got := readFloat32(block[:], 64); got != 1 {
		t.Errorf("matrix[0][0] = %v, want 1", got)
	}
	if got := readFloat32(block[:], 72); got != 3 {
		t.Errorf("matrix[0][2] = %v, want 3", got)
	}
	if got := readUint32(block[:], 76); got != 0 {
		t.Errorf("matrix vector 0 padding = %d, want 0", got)
	}
	// Vector 1 at 80: blue weights.
	if got := readFloat32(block[:], 80); got != 4 {
		t.Errorf("matrix[1][0] = %v, want 4", got)
	}
	// Vector 2 at 96: green weights.
	if got := readFloat32(block[:], 96); got != 7 {
		t.Errorf("matrix[2][0] = %v, want 7", got)
	}
	if got := readFloat32(block[:], 104); got != 9 {
		t.Errorf("matrix[2][2] = %v, want 9", got)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cfg  func() postfx.Effects
	}{
		{name: "defaults", cfg: postfx.DefaultEffects},
		{
			name: "everything enabled",
			cfg: func() postfx.Effects {
				e := postfx.DefaultEffects()
				e.Bloom.Enabled = true
				e.Bloom.Intensity = 0.5
				e.ChannelMixing.Enabled = true
				e.Tonemapping = postfx.TonemappingNormal
				return e
			},
		},
		{
			name: "negative and extreme values survive bit-exact",
			cfg: func() postfx.Effects {
				e := postfx.DefaultEffects()
				e.Bloom.Enabled = true
				e.Bloom.Threshold = -3.25
				e.Bloom.Intensity = 1e-30
				e.Bloom.Scatter = 1e30
				e.Bloom.Tint = postfx.Color{R: -1, G: 1e-8, B: 65504, A: 0}
				e.ChannelMixing.Enabled = true
				e.ChannelMixing.Red = postfx.Color{R: -0.5, G: 0.25, B: 0.125, A: 1}
				return e
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg()
			var block [UniformSize]byte
			PackUniform(cfg, block[:])

			flags, bloom, matrix := UnpackUniform(block[:])

			if want := PackFlags(cfg); flags != want {
				t.Errorf("flags = %v, want %v", flags, want)
			}
			if bloom != cfg.Bloom {
				t.Errorf("bloom = %+v, want %+v", bloom, cfg.Bloom)
			}
			if want := cfg.ChannelMixing.Matrix(); matrix != want {
				t.Errorf("matrix = %v, want %v", matrix, want)
			}

			// Repacking the decoded state reproduces the block bit for bit.
			cfg2 := cfg
			cfg2.Bloom = bloom
			var block2 [UniformSize]byte
			PackUniform(cfg2, block2[:])
			if block != block2 {
				t.Error("repacked block differs from original")
			}
		})
	}
}

func TestUniformStaging_PushAndStage(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	u := NewUniformStaging(device, queue)
	defer u.Release()

	u.ReserveAndClear(1)
	if u.Len() != 0 {
		t.Fatalf("Len() after reserve = %d, want 0", u.Len())
	}

	cfg := postfx.DefaultEffects()
	cfg.Bloom.Enabled = true
	offset, err := u.Push(cfg)
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if offset != 0 {
		t.Errorf("first block offset = %d, want 0", offset)
	}
	if u.Len() != 1 {
		t.Errorf("Len() = %d, want 1", u.Len())
	}

	// A second push exceeds the reservation.
	if _, err := u.Push(cfg); err == nil {
		t.Error("Push beyond reservation should fail")
	}

	if err := u.WriteToStaging(); err != nil {
		t.Fatalf("WriteToStaging failed: %v", err)
	}
	if u.Buffer() == nil {
		t.Error("Buffer() is nil after upload")
	}

	flags, _, _ := UnpackUniform(u.Bytes())
	if !flags.Has(FlagBloom) {
		t.Errorf("staged flags = %v, want bloom set", flags)
	}
}

func TestUniformStaging_ReserveClearsPreviousFrame(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	u := NewUniformStaging(device, queue)
	defer u.Release()

	cfg := postfx.DefaultEffects()
	cfg.Bloom.Enabled = true

	u.ReserveAndClear(1)
	if _, err := u.Push(cfg); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	u.ReserveAndClear(1)
	if u.Len() != 0 {
		t.Errorf("Len() after second reserve = %d, want 0", u.Len())
	}
	if _, err := u.Push(postfx.DefaultEffects()); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	flags, _, _ := UnpackUniform(u.Bytes())
	if flags != 0 {
		t.Errorf("staged flags = %v, want none", flags)
	}
}
