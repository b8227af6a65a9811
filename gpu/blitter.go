//go:build !nogpu

package gpu

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu"

	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/iconmine/asset"
	"github.com/gogpu/iconmine/blit"
)

const (
	copyAlign   = 256
	mapTimeout  = 5 * time.Second
	blockAlign  = 4
	pixelStride = 4
)

// ErrClosed is returned by Blit after Close.
var ErrClosed = errors.New("gpu: blitter closed")

// Blitter renders textures through a lazily created wgpu device.
// Blits are serialized; the blitter is safe for concurrent use.
type Blitter struct {
	mu      sync.Mutex
	once    sync.Once
	initErr error
	closed  bool
	dev     *device
}

var _ blit.Blitter = (*Blitter)(nil)

// device is the GPU state shared by all blits.
type device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	bc       bool

	shader     *wgpu.ShaderModule
	bindLayout *wgpu.BindGroupLayout
	pipeLayout *wgpu.PipelineLayout
	pipelines  map[gputypes.TextureFormat]*wgpu.RenderPipeline
}

// New returns a Blitter. No GPU work happens until the first Blit.
func New() *Blitter { return &Blitter{} }

// Name returns blit.NameGPU.
func (b *Blitter) Name() string { return blit.NameGPU }

// Supports reports whether f is a format this blitter can upload. Block
// compressed formats still need adapter support, checked at Blit time.
func (b *Blitter) Supports(f gputypes.TextureFormat) bool {
	return asset.Is8BitColor(f) || asset.IsCompressed(f)
}

// Available initializes the device if needed and reports whether it is
// usable.
func (b *Blitter) Available() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.init() == nil
}

// Blit copies src into dst.
func (b *Blitter) Blit(src asset.Texture, dst *blit.Target) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if err := b.init(); err != nil {
		return fmt.Errorf("%w: %w", blit.ErrFallbackToCPU, err)
	}
	if asset.IsCompressed(src.Format()) && !b.dev.bc {
		return fmt.Errorf("%w: adapter lacks BC compression for %s", blit.ErrFallbackToCPU, src.Format())
	}
	if err := b.dev.blit(src, dst); err != nil {
		return err
	}
	dst.Premultiplied = src.Premultiplied()
	return nil
}

// Close releases the device. Later Blit calls return ErrClosed.
func (b *Blitter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	if b.dev != nil {
		b.dev.release()
		b.dev = nil
	}
}

// init creates the device once. Callers hold b.mu.
func (b *Blitter) init() error {
	b.once.Do(func() {
		b.dev, b.initErr = newDevice()
		log := blit.Logger()
		if b.initErr != nil {
			log.Warn("gpu: blitter unavailable, using CPU", "err", b.initErr)
			return
		}
		log.Info("gpu: blitter ready", "adapter", b.dev.adapter.Info().Name, "bc", b.dev.bc)
	})
	return b.initErr
}

func newDevice() (*device, error) {
	if _, err := naga.Compile(blitWGSL); err != nil {
		return nil, fmt.Errorf("gpu: compile blit shader: %w", err)
	}

	instance, err := wgpu.CreateInstance(&wgpu.InstanceDescriptor{Backends: wgpu.BackendsAll})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}

	d := &device{
		instance:  instance,
		adapter:   adapter,
		bc:        adapter.Features().Contains(gputypes.FeatureTextureCompressionBC),
		pipelines: make(map[gputypes.TextureFormat]*wgpu.RenderPipeline),
	}
	var features gputypes.Features
	if d.bc {
		features.Insert(gputypes.FeatureTextureCompressionBC)
	}
	d.device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "iconmine-blit",
		RequiredFeatures: features,
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}

	if err := d.createLayouts(); err != nil {
		d.release()
		return nil, err
	}
	return d, nil
}

func (d *device) createLayouts() error {
	var err error
	d.shader, err = d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "blit",
		WGSL:  blitWGSL,
	})
	if err != nil {
		return fmt.Errorf("gpu: create shader: %w", err)
	}

	d.bindLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "blit-source",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group layout: %w", err)
	}

	d.pipeLayout, err = d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "blit-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{d.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create pipeline layout: %w", err)
	}
	return nil
}

// pipeline returns the render pipeline writing format, creating it on first
// use.
func (d *device) pipeline(format gputypes.TextureFormat) (*wgpu.RenderPipeline, error) {
	if p, ok := d.pipelines[format]; ok {
		return p, nil
	}
	p, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "blit",
		Layout: d.pipeLayout,
		Vertex: wgpu.VertexState{
			Module:     d.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     d.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    format,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create pipeline for %s: %w", format, err)
	}
	d.pipelines[format] = p
	return p, nil
}

func (d *device) release() {
	for _, p := range d.pipelines {
		p.Release()
	}
	d.pipelines = nil
	if d.pipeLayout != nil {
		d.pipeLayout.Release()
	}
	if d.bindLayout != nil {
		d.bindLayout.Release()
	}
	if d.shader != nil {
		d.shader.Release()
	}
	if d.device != nil {
		d.device.Release()
	}
	d.adapter.Release()
	d.instance.Release()
}

// blit runs one upload, draw and readback.
func (d *device) blit(src asset.Texture, dst *blit.Target) error {
	w, h := uint32(dst.Width), uint32(dst.Height)
	if int(w) != src.Width() || int(h) != src.Height() {
		return fmt.Errorf("gpu: target %dx%d does not match %s %dx%d", w, h, src.Name(), src.Width(), src.Height())
	}

	// Sampling and writing with the same sRGB-ness keeps the stored bytes.
	upload := withSRGB(src.Format(), isSRGB(dst.Format))
	source, err := d.upload(src, upload)
	if err != nil {
		return err
	}
	defer source.Release()

	target, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "blit-target",
		Size:          wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        dst.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu: create target: %w", err)
	}
	defer target.Release()

	bytesPerRow := align(w*pixelStride, copyAlign)
	size := uint64(bytesPerRow) * uint64(h)
	staging, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "blit-readback",
		Size:  size,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return fmt.Errorf("gpu: create staging: %w", err)
	}
	defer staging.Release()

	if err := d.draw(source, target, staging, dst.Format, w, h, bytesPerRow); err != nil {
		return err
	}
	return readback(staging, size, bytesPerRow, dst)
}

// upload creates a sampled texture holding src's pixels stored as format.
// Block compressed textures are padded to whole blocks.
func (d *device) upload(src asset.Texture, format gputypes.TextureFormat) (*wgpu.Texture, error) {
	w, h := uint32(src.Width()), uint32(src.Height())
	rows := h
	if asset.IsCompressed(format) {
		w, h = align(w, blockAlign), align(h, blockAlign)
		rows = h / blockAlign
	}

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         src.Name(),
		Size:          wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create source: %w", err)
	}

	err = d.device.Queue().WriteTexture(
		&wgpu.ImageCopyTexture{Texture: tex, Aspect: gputypes.TextureAspectAll},
		src.Pixels(),
		&wgpu.ImageDataLayout{
			BytesPerRow:  uint32(asset.RowPitch(src.Format(), src.Width())),
			RowsPerImage: rows,
		},
		&wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("gpu: upload %s: %w", src.Name(), err)
	}
	return tex, nil
}

func (d *device) draw(source, target *wgpu.Texture, staging *wgpu.Buffer, format gputypes.TextureFormat, w, h, bytesPerRow uint32) error {
	pipeline, err := d.pipeline(format)
	if err != nil {
		return err
	}

	srcView, err := d.device.CreateTextureView(source, nil)
	if err != nil {
		return fmt.Errorf("gpu: create source view: %w", err)
	}
	defer srcView.Release()

	dstView, err := d.device.CreateTextureView(target, nil)
	if err != nil {
		return fmt.Errorf("gpu: create target view: %w", err)
	}
	defer dstView.Release()

	group, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "blit-source",
		Layout:  d.bindLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, TextureView: srcView}},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group: %w", err)
	}
	defer group.Release()

	encoder, err := d.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "blit"})
	if err != nil {
		return fmt.Errorf("gpu: create encoder: %w", err)
	}
	// No-op once Finish has taken the encoder.
	defer encoder.DiscardEncoding()

	pass, err := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       dstView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{},
		}},
	})
	if err != nil {
		return fmt.Errorf("gpu: begin render pass: %w", err)
	}
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, group, nil)
	pass.Draw(3, 1, 0, 0)
	if err := pass.End(); err != nil {
		return fmt.Errorf("gpu: end render pass: %w", err)
	}

	encoder.CopyTextureToBuffer(target, staging, []wgpu.BufferTextureCopy{{
		BufferLayout: wgpu.ImageDataLayout{BytesPerRow: bytesPerRow, RowsPerImage: h},
		TextureBase:  wgpu.ImageCopyTexture{Texture: target},
		Size:         wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmd, err := encoder.Finish()
	if err != nil {
		return fmt.Errorf("gpu: finish encoder: %w", err)
	}
	if _, err := d.device.Queue().Submit(cmd); err != nil {
		cmd.Release()
		return fmt.Errorf("gpu: submit: %w", err)
	}
	return nil
}

// readback maps staging and copies its padded rows into dst.
func readback(staging *wgpu.Buffer, size uint64, bytesPerRow uint32, dst *blit.Target) error {
	ctx, cancel := context.WithTimeout(context.Background(), mapTimeout)
	defer cancel()
	if err := staging.Map(ctx, wgpu.MapModeRead, 0, size); err != nil {
		return fmt.Errorf("gpu: map staging: %w", err)
	}
	rng, err := staging.MappedRange(0, size)
	if err != nil {
		_ = staging.Unmap()
		return fmt.Errorf("gpu: mapped range: %w", err)
	}

	data := rng.Bytes()
	stride := dst.Stride()
	for y := range dst.Height {
		off := y * int(bytesPerRow)
		copy(dst.Data[y*stride:(y+1)*stride], data[off:off+stride])
	}
	if err := staging.Unmap(); err != nil {
		return fmt.Errorf("gpu: unmap: %w", err)
	}
	return nil
}

func align(n, a uint32) uint32 {
	return (n + a - 1) / a * a
}
