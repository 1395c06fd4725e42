package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultClearColor is the color the main render pass clears to unless WithClearColor is given.
var DefaultClearColor = wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// ErrBufferMap is returned by ReadBuffer when the staging buffer could not be mapped.
var ErrBufferMap = errors.New("renderer: buffer map failed")

// depthFormat is the format of the depth attachment every render pass carries.
const depthFormat = wgpu.TextureFormatDepth24Plus

// wgpuFrame is the state of a render frame between BeginFrame and Present.
type wgpuFrame struct {
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
	surface *wgpu.Texture
	view    *wgpu.TextureView
}

// release drops whatever the frame still holds. The zero frame is a no-op.
func (f *wgpuFrame) release() {
	if f.encoder != nil {
		f.encoder.Release()
	}
	if f.view != nil {
		f.view.Release()
	}
	if f.surface != nil {
		f.surface.Release()
	}
	*f = wgpuFrame{}
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	msaaView      *wgpu.TextureView
	depthView     *wgpu.TextureView
	passDesc      *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color

	frame wgpuFrame

	// computeEncoder batches every dispatch between BeginComputeFrame and EndComputeFrame
	// into one submission.
	computeEncoder *wgpu.CommandEncoder
}

// wgpuRendererBackend is the WebGPU implementation behind Renderer. It takes pipelines
// rather than keys; the renderer resolves keys through its registry.
type wgpuRendererBackend interface {
	Resources
	FrameCycle

	// ConfigureSurface (re)configures the swapchain and rebuilds the MSAA and depth
	// attachments at width x height. Non-positive sizes are ignored.
	ConfigureSurface(width, height int)

	// SetPresentMode selects the present mode used by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the main pass clear color. Takes effect on the next frame.
	SetClearColor(color wgpu.Color)

	// RegisterRenderPipeline builds the shader modules, layout and render pipeline for p and
	// stores the result on p.
	//
	// Returns:
	//   - error: pipeline.ErrMissingShader, or the first wgpu error
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// RegisterComputePipeline is RegisterRenderPipeline for compute pipelines.
	RegisterComputePipeline(p pipeline.Pipeline) error

	// DispatchCompute encodes one compute pass with computeProvider's bind group at group 0.
	// Dispatches outside a compute frame are dropped.
	DispatchCompute(p pipeline.Pipeline, computeProvider bind_group_provider.BindGroupProvider, workGroupCount [3]uint32)

	// DrawCall encodes one draw in the open pass.
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider)
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend creates the instance, surface, adapter and device. It panics
// when no adapter or device is available. The calling goroutine stays locked to its OS
// thread.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()

	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(surfaceDescriptor)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    surface,
	})
	if err != nil {
		panic(fmt.Errorf("request adapter: %w", err))
	}

	// the model pass binds groups 0-2
	limits := wgpu.DefaultLimits()
	limits.MaxBindGroups = 4
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "oxy-shade device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: limits},
	})
	if err != nil {
		panic(fmt.Errorf("request device: %w", err))
	}

	common.Logger().Debug("wgpu device ready", "fallback", forceFallbackAdapter, "msaa", uint32(sampleCount))
	return &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    instance,
		surface:     surface,
		adapter:     adapter,
		device:      device,
		queue:       device.GetQueue(),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  DefaultClearColor,
	}
}

// attachment creates a render attachment of the given format and sample count and
// returns its view.
func (b *wgpuRendererBackendImpl) attachment(label string, width, height int, format wgpu.TextureFormat, samples uint32) *wgpu.TextureView {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(fmt.Errorf("%s: %w", label, err))
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		panic(fmt.Errorf("%s view: %w", label, err))
	}
	return view
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	caps := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = caps.Formats[0]
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   caps.AlphaModes[0],
	})

	for _, v := range []*wgpu.TextureView{b.msaaView, b.depthView} {
		if v != nil {
			v.Release()
		}
	}
	samples := uint32(b.sampleCount)
	b.msaaView = nil
	if samples > 1 {
		b.msaaView = b.attachment("msaa color", width, height, b.surfaceFormat, samples)
	}
	b.depthView = b.attachment("depth", width, height, depthFormat, samples)

	// with MSAA the pass renders into msaaView and resolves into the swapchain image
	color := wgpu.RenderPassColorAttachment{
		View:       b.msaaView,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: b.clearColor,
	}
	if samples > 1 {
		color.StoreOp = wgpu.StoreOpDiscard
	}
	b.passDesc = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = presentModeFor(mode)
}

func (b *wgpuRendererBackendImpl) SetClearColor(color wgpu.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearColor = color
	if b.passDesc != nil {
		b.passDesc.ColorAttachments[0].ClearValue = color
	}
}

func (b *wgpuRendererBackendImpl) BeginComputeFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	b.computeEncoder = encoder
	return nil
}

func (b *wgpuRendererBackendImpl) EndComputeFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	encoder := b.computeEncoder
	if encoder == nil {
		return
	}
	b.computeEncoder = nil
	defer encoder.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		common.Logger().Error("compute frame finish failed", "err", err)
		return
	}
	b.queue.Submit(cmd)
	cmd.Release()
}

func (b *wgpuRendererBackendImpl) DispatchCompute(p pipeline.Pipeline, computeProvider bind_group_provider.BindGroupProvider, workGroupCount [3]uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.computeEncoder == nil {
		return
	}
	pass := b.computeEncoder.BeginComputePass(nil)
	pass.SetPipeline(p.Pipeline().(*wgpu.ComputePipeline))
	pass.SetBindGroup(0, computeProvider.BindGroup(), nil)
	pass.DispatchWorkgroups(workGroupCount[0], workGroupCount[1], workGroupCount[2])
	pass.End()
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.surface != nil {
		return errors.New("previous frame not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	f := wgpuFrame{surface: surfaceTexture}
	if f.view, err = surfaceTexture.CreateView(nil); err != nil {
		f.release()
		return err
	}
	if f.encoder, err = b.device.CreateCommandEncoder(nil); err != nil {
		f.release()
		return err
	}

	if b.sampleCount > 1 {
		b.passDesc.ColorAttachments[0].ResolveTarget = f.view
	} else {
		b.passDesc.ColorAttachments[0].View = f.view
	}
	f.pass = f.encoder.BeginRenderPass(b.passDesc)
	b.frame = f
	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pass := b.frame.pass
	if pass == nil {
		return
	}
	pass.SetPipeline(p.Pipeline().(*wgpu.RenderPipeline))
	for group, bg := range bindGroups {
		pass.SetBindGroup(uint32(group), bg.BindGroup(), nil)
	}

	pass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	if inst := meshProvider.InstanceBuffer(); inst != nil {
		pass.SetVertexBuffer(1, inst, 0, wgpu.WholeSize)
	}

	if idx := meshProvider.IndexBuffer(); idx != nil {
		pass.SetIndexBuffer(idx, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(meshProvider.IndexCount()), instanceCount, 0, 0, 0)
		return
	}
	pass.Draw(uint32(meshProvider.VertexCount()), instanceCount, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.pass == nil {
		return
	}
	b.frame.pass.End()
	b.frame.pass = nil

	cmd, err := b.frame.encoder.Finish(nil)
	if err != nil {
		common.Logger().Error("render frame finish failed", "err", err)
		b.frame.release()
		return
	}
	b.queue.Submit(cmd)
	cmd.Release()

	b.frame.encoder.Release()
	b.frame.encoder = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame.surface == nil {
		return
	}
	b.surface.Present()
	b.frame.release()
}

// presentModeFor maps an engine PresentMode to the wgpu present mode.
func presentModeFor(mode PresentMode) wgpu.PresentMode {
	if mode == PresentModeUncapped {
		return wgpu.PresentModeImmediate
	}
	return wgpu.PresentModeFifo
}
