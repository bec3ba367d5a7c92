package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx"
)

// EffectFlags is the bitfield stored in the first word of the packed
// uniform block. The composite shader branches on the same bit values,
// so the two must change together.
type EffectFlags uint32

const (
	// FlagBloom enables the bloom contribution.
	FlagBloom EffectFlags = 1 << iota
	// FlagNormalTonemapping enables the Reinhard-style curve.
	FlagNormalTonemapping
	// FlagACESTonemapping enables the ACES filmic curve.
	FlagACESTonemapping
	// FlagChannelMixing enables the channel-mix matrix.
	FlagChannelMixing
)

// Has reports whether all bits in mask are set.
func (f EffectFlags) Has(mask EffectFlags) bool { return f&mask == mask }

// String returns the set bits as a readable list for debug logging.
func (f EffectFlags) String() string {
	if f == 0 {
		return "none"
	}
	s := ""
	add := func(name string) {
		if s != "" {
			s += "|"
		}
		s += name
	}
	if f.Has(FlagBloom) {
		add("bloom")
	}
	if f.Has(FlagNormalTonemapping) {
		add("tonemap_normal")
	}
	if f.Has(FlagACESTonemapping) {
		add("tonemap_aces")
	}
	if f.Has(FlagChannelMixing) {
		add("channel_mix")
	}
	if rest := f &^ (FlagBloom | FlagNormalTonemapping | FlagACESTonemapping | FlagChannelMixing); rest != 0 {
		add(fmt.Sprintf("unknown(0x%x)", uint32(rest)))
	}
	return s
}

// PackFlags derives the flag word from a configuration snapshot.
// Bloom and channel mixing contribute only when explicitly enabled;
// parameter values (such as a zero intensity) never flip a bit. The two
// tonemapping bits mirror the variant tag. Every bit is independent.
func PackFlags(cfg postfx.Effects) EffectFlags {
	var f EffectFlags
	if cfg.Bloom.Enabled {
		f |= FlagBloom
	}
	switch cfg.Tonemapping {
	case postfx.TonemappingNormal:
		f |= FlagNormalTonemapping
	case postfx.TonemappingACES:
		f |= FlagACESTonemapping
	}
	if cfg.ChannelMixing.Enabled {
		f |= FlagChannelMixing
	}
	return f
}

// UniformSize is the byte size of the packed effect uniform block.
//
// The layout follows WGSL uniform address space rules:
//
//	offset   0: flags (u32), then 12 bytes padding
//	offset  16: bloom threshold (f32)
//	offset  20: bloom intensity (f32)
//	offset  24: bloom scatter (f32), then 4 bytes padding
//	offset  32: bloom tint (vec4<f32>)
//	offset  48: bloom clamp (f32), then 12 bytes padding
//	offset  64: channel-mix matrix, 3 vectors of vec3<f32> each padded
//	            to 16 bytes
//	total: 112 bytes
const UniformSize = 112

// Byte offsets within the packed block. Exported layout facts live in
// the UniformSize comment; these keep PackUniform and UnpackUniform in
// lockstep.
const (
	offFlags        = 0
	offThreshold    = 16
	offIntensity    = 20
	offScatter      = 24
	offTint         = 32
	offClamp        = 48
	offMatrix       = 64
	matrixVecStride = 16
)

// PackUniform serializes a configuration snapshot into dst, which must
// be at least UniformSize bytes. All effect parameters are packed
// unconditionally: a cleared flag bit leaves its parameters present but
// inert, so toggling an effect never changes the block layout.
func PackUniform(cfg postfx.Effects, dst []byte) {
	_ = dst[UniformSize-1]

	writeUint32(dst, offFlags, uint32(PackFlags(cfg)))

	b := cfg.Bloom
	writeFloat32(dst, offThreshold, b.Threshold)
	writeFloat32(dst, offIntensity, b.Intensity)
	writeFloat32(dst, offScatter, b.Scatter)
	tint := b.Tint.Vec4()
	for i, v := range tint {
		writeFloat32(dst, offTint+i*4, v)
	}
	writeFloat32(dst, offClamp, b.Clamp)

	// Each Mat3 row lands in one 16-byte column of the shader's
	// mat3x3, so the shader applies the matrix as a row-vector product.
	m := cfg.ChannelMixing.Matrix()
	for i := 0; i < 3; i++ {
		base := offMatrix + i*matrixVecStride
		for j := 0; j < 3; j++ {
			writeFloat32(dst, base+j*4, m[i][j])
		}
	}
}

// UnpackUniform decodes a packed block. The bloom Enabled field is
// reconstructed from the flag word. It is the exact inverse of
// PackUniform for every field the block carries.
func UnpackUniform(src []byte) (EffectFlags, postfx.Bloom, postfx.Mat3) {
	_ = src[UniformSize-1]

	flags := EffectFlags(readUint32(src, offFlags))

	b := postfx.Bloom{
		Enabled:   flags.Has(FlagBloom),
		Threshold: readFloat32(src, offThreshold),
		Intensity: readFloat32(src, offIntensity),
		Scatter:   readFloat32(src, offScatter),
		Tint: postfx.Color{
			R: readFloat32(src, offTint),
			G: readFloat32(src, offTint+4),
			B: readFloat32(src, offTint+8),
			A: readFloat32(src, offTint+12),
		},
		Clamp: readFloat32(src, offClamp),
	}

	var m postfx.Mat3
	for i := 0; i < 3; i++ {
		base := offMatrix + i*matrixVecStride
		for j := 0; j < 3; j++ {
			m[i][j] = readFloat32(src, base+j*4)
		}
	}

	return flags, b, m
}

func writeUint32(buf []byte, offset int, val uint32) {
	buf[offset] = byte(val)
	buf[offset+1] = byte(val >> 8)
	buf[offset+2] = byte(val >> 16)
	buf[offset+3] = byte(val >> 24)
}

func writeFloat32(buf []byte, offset int, val float32) {
	bits := math.Float32bits(val)
	writeUint32(buf, offset, bits)
}

func readUint32(buf []byte, offset int) uint32 {
	return uint32(buf[offset]) |
		uint32(buf[offset+1])<<8 |
		uint32(buf[offset+2])<<16 |
		uint32(buf[offset+3])<<24
}

func readFloat32(buf []byte, offset int) float32 {
	return math.Float32frombits(readUint32(buf, offset))
}

// bufferVec stages a stream of fixed-stride uniform blocks for one
// frame. Blocks are packed into CPU scratch, uploaded to a device
// staging buffer with queue.WriteBuffer, then copied into the uniform
// buffer on the command encoder so the copy is ordered against the
// frame's passes.
//
// Device buffers are recreated only when the frame needs more capacity
// than they hold; shrinking frames reuse the existing allocations.
type bufferVec struct {
	mu     sync.Mutex
	device hal.Device
	queue  hal.Queue
	label  string
	stride int

	data     []byte
	count    int
	reserved int

	staging  hal.Buffer
	uniform  hal.Buffer
	capacity uint64
}

func newBufferVec(device hal.Device, queue hal.Queue, label string, stride int) *bufferVec {
	return &bufferVec{
		device: device,
		queue:  queue,
		label:  label,
		stride: stride,
	}
}

// reserveAndClear sizes the CPU scratch for exactly n blocks and
// discards anything staged by the previous frame.
func (v *bufferVec) reserveAndClear(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	need := n * v.stride
	if cap(v.data) < need {
		v.data = make([]byte, need)
	}
	v.data = v.data[:need]
	clear(v.data)
	v.count = 0
	v.reserved = n
}

// push appends one block and returns its byte offset within the
// buffer. The block must be exactly one stride long.
func (v *bufferVec) push(block []byte) (uint32, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.count >= v.reserved {
		return 0, fmt.Errorf("%w: %s holds %d blocks", ErrStagingOverflow, v.label, v.reserved)
	}
	offset := v.count * v.stride
	copy(v.data[offset:offset+v.stride], block)
	v.count++
	return uint32(offset), nil
}

// len returns the number of blocks staged this frame.
func (v *bufferVec) len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.count
}

// writeToStaging uploads the staged bytes to the device staging buffer,
// growing both device buffers first if the frame outgrew them.
func (v *bufferVec) writeToStaging() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.count == 0 {
		return nil
	}
	size := uint64(v.count * v.stride)
	if err := v.ensureCapacity(size); err != nil {
		return err
	}
	v.queue.WriteBuffer(v.staging, 0, v.data[:size])
	return nil
}

// encodeUpload records the staging-to-uniform copy on the encoder. It
// must run after writeToStaging and before any pass that reads the
// uniform buffer.
func (v *bufferVec) encodeUpload(encoder hal.CommandEncoder) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.count == 0 || v.staging == nil {
		return
	}
	size := uint64(v.count * v.stride)
	encoder.CopyBufferToBuffer(v.staging, v.uniform, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
}

// uniformHandle returns the uniform buffer for bind group assembly, or
// nil before the first upload.
func (v *bufferVec) uniformHandle() hal.Buffer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.uniform
}

// bytes returns the CPU-side staged data. The slice aliases internal
// scratch and is only valid until the next reserveAndClear.
func (v *bufferVec) bytes() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.data[:v.count*v.stride]
}

func (v *bufferVec) ensureCapacity(size uint64) error {
	if v.capacity >= size && v.staging != nil {
		return nil
	}
	v.releaseLocked()

	staging, err := v.device.CreateBuffer(&hal.BufferDescriptor{
		Label: v.label + "_staging",
		Size:  size,
		Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create %s staging buffer: %w", v.label, err)
	}
	uniform, err := v.device.CreateBuffer(&hal.BufferDescriptor{
		Label: v.label + "_uniform",
		Size:  size,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		v.device.DestroyBuffer(staging)
		return fmt.Errorf("create %s uniform buffer: %w", v.label, err)
	}

	v.staging = staging
	v.uniform = uniform
	v.capacity = size
	slogger().Debug("uniform buffers allocated", "label", v.label, "size", size)
	return nil
}

// release destroys the device buffers. The CPU scratch survives so the
// vec can be reused after a device loss.
func (v *bufferVec) release() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.releaseLocked()
}

func (v *bufferVec) releaseLocked() {
	if v.staging != nil {
		v.device.DestroyBuffer(v.staging)
		v.staging = nil
	}
	if v.uniform != nil {
		v.device.DestroyBuffer(v.uniform)
		v.uniform = nil
	}
	v.capacity = 0
}

// UniformStaging owns the per-frame effect uniform block: one packed
// [UniformSize] block per frame, staged on the CPU, uploaded through a
// staging buffer, and copied into the uniform buffer on the frame's
// command encoder.
type UniformStaging struct {
	vec *bufferVec
}

// NewUniformStaging creates the staging state for the effect uniform.
func NewUniformStaging(device hal.Device, queue hal.Queue) *UniformStaging {
	return &UniformStaging{
		vec: newBufferVec(device, queue, "postfx_effects", UniformSize),
	}
}

// ReserveAndClear prepares the staging for n blocks and discards the
// previous frame's contents.
func (u *UniformStaging) ReserveAndClear(n int) {
	u.vec.reserveAndClear(n)
}

// Push packs cfg as the next block and returns its byte offset.
func (u *UniformStaging) Push(cfg postfx.Effects) (uint32, error) {
	var block [UniformSize]byte
	PackUniform(cfg, block[:])
	return u.vec.push(block[:])
}

// Len returns the number of blocks staged this frame.
func (u *UniformStaging) Len() int { return u.vec.len() }

// Bytes returns the staged CPU-side data for inspection.
func (u *UniformStaging) Bytes() []byte { return u.vec.bytes() }

// WriteToStaging uploads the staged blocks to the device staging buffer.
func (u *UniformStaging) WriteToStaging() error { return u.vec.writeToStaging() }

// EncodeUpload records the staging-to-uniform copy on the encoder.
func (u *UniformStaging) EncodeUpload(encoder hal.CommandEncoder) { u.vec.encodeUpload(encoder) }

// Buffer returns the device uniform buffer, or nil before the first
// upload.
func (u *UniformStaging) Buffer() hal.Buffer { return u.vec.uniformHandle() }

// Release destroys the device buffers.
func (u *UniformStaging) Release() { u.vec.release() }
