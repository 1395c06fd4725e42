package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// bufferUsageFor derives the buffer usage of a bind group buffer from its binding type.
func bufferUsageFor(t wgpu.BufferBindingType) wgpu.BufferUsage {
	switch t {
	case wgpu.BufferBindingTypeUniform:
		return wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	case wgpu.BufferBindingTypeStorage, wgpu.BufferBindingTypeReadOnlyStorage:
		return wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	}
	return wgpu.BufferUsageCopyDst
}

// createBuffer creates an empty CopyDst buffer with the extra usage flags.
func (b *wgpuRendererBackendImpl) createBuffer(label string, usage wgpu.BufferUsage, size uint64) (*wgpu.Buffer, error) {
	return b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
}

// createBufferInit creates a buffer sized to data and uploads data into it.
func (b *wgpuRendererBackendImpl) createBufferInit(label string, usage wgpu.BufferUsage, data []byte) (*wgpu.Buffer, error) {
	buf, err := b.createBuffer(label, usage, uint64(len(data)))
	if err != nil {
		return nil, err
	}
	if err := b.queue.WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) > 0 {
		buf, err := b.createBufferInit(provider.Label()+" vertices", wgpu.BufferUsageVertex, vertexData)
		if err != nil {
			return err
		}
		provider.SetVertexBuffer(buf, vertexCount)
	}
	if len(indexData) > 0 {
		buf, err := b.createBufferInit(provider.Label()+" indices", wgpu.BufferUsageIndex, indexData)
		if err != nil {
			return err
		}
		provider.SetIndexBuffer(buf)
		provider.SetIndexCount(indexCount)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) InitVertexBuffer(provider bind_group_provider.BindGroupProvider, size uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := b.createBuffer(provider.Label()+" vertices", wgpu.BufferUsageVertex, size)
	if err != nil {
		return err
	}
	provider.SetVertexBuffer(buf, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) WriteVertexBuffer(provider bind_group_provider.BindGroupProvider, offset uint64, data []byte, vertexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := provider.VertexBuffer()
	if buf == nil {
		return fmt.Errorf("%s: no vertex buffer", provider.Label())
	}
	if size := buf.GetSize(); offset+uint64(len(data)) > size {
		return fmt.Errorf("%s: %d bytes at offset %d overflow the %d byte vertex buffer", provider.Label(), len(data), offset, size)
	}
	if err := b.queue.WriteBuffer(buf, offset, data); err != nil {
		return err
	}
	provider.SetVertexCount(vertexCount)
	return nil
}

func (b *wgpuRendererBackendImpl) InitInstanceBuffer(provider bind_group_provider.BindGroupProvider, data []byte, instanceCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := b.createBufferInit(provider.Label()+" instances", wgpu.BufferUsageVertex, data)
	if err != nil {
		return err
	}
	provider.SetInstanceBuffer(buf, instanceCount)
	return nil
}

// bindGroupEntry resolves the resource behind one layout entry. Texture views and
// samplers must already be on the provider; buffers are created on first use, sized by
// MinBindingSize unless overridden.
func (b *wgpuRendererBackendImpl) bindGroupEntry(provider bind_group_provider.BindGroupProvider, entry wgpu.BindGroupLayoutEntry, usage wgpu.BufferUsage, size *uint64) (wgpu.BindGroupEntry, error) {
	binding := int(entry.Binding)
	out := wgpu.BindGroupEntry{Binding: entry.Binding}

	switch {
	case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
		if out.TextureView = provider.TextureView(binding); out.TextureView == nil {
			return out, fmt.Errorf("%s: texture binding %d has no view, call InitTextureView first", provider.Label(), binding)
		}
	case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
		if out.Sampler = provider.Sampler(binding); out.Sampler == nil {
			return out, fmt.Errorf("%s: sampler binding %d has no sampler, call InitSampler first", provider.Label(), binding)
		}
	default:
		buf := provider.Buffer(binding)
		if buf == nil {
			n := entry.Buffer.MinBindingSize
			if size != nil {
				n = *size
			}
			var err error
			buf, err = b.createBuffer(fmt.Sprintf("%s binding %d", provider.Label(), binding), bufferUsageFor(entry.Buffer.Type)|usage, n)
			if err != nil {
				return out, err
			}
			provider.SetBuffer(binding, buf)
		}
		out.Buffer = buf
		out.Size = wgpu.WholeSize
	}
	return out, nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		if layout, err = b.device.CreateBindGroupLayout(&descriptor); err != nil {
			return err
		}
		provider.SetBindGroupLayout(layout)
	}

	entries := make([]wgpu.BindGroupEntry, 0, len(descriptor.Entries))
	for _, e := range descriptor.Entries {
		var size *uint64
		if n, ok := bufferSizeOverrides[int(e.Binding)]; ok {
			size = &n
		}
		entry, err := b.bindGroupEntry(provider, e, bufferUsageOverrides[int(e.Binding)], size)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " bind group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(group)
	return nil
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	extent := wgpu.Extent3D{Width: stagingData.Width, Height: stagingData.Height, DepthOrArrayLayers: 1}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         provider.Label() + " texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          extent,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}

	dst := &wgpu.ImageCopyTexture{Texture: tex, Aspect: wgpu.TextureAspectAll}
	layout := &wgpu.TextureDataLayout{BytesPerRow: stagingData.Width * 4, RowsPerImage: stagingData.Height}
	if err := b.queue.WriteTexture(dst, stagingData.Pixels, layout, &extent); err != nil {
		return err
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		return err
	}
	provider.SetTextureView(bindingKey, view)
	return nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := samplerStagingData
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " sampler",
		AddressModeU:  common.Coalesce(s.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(s.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(s.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(s.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(s.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(s.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(s.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(s.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(s.MaxAnisotropy, 1),
		Compare:       s.Compare,
	})
	if err != nil {
		return err
	}
	provider.SetSampler(bindingKey, samp)
	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		if err := b.queue.WriteBuffer(buf, w.Offset, w.Data); err != nil {
			common.Logger().Warn("buffer write failed", "provider", w.Provider.Label(), "binding", w.Binding, "err", err)
		}
	}
}

// ReadBuffer copies the buffer at binding into a mappable staging buffer and blocks on
// the device until the map completes.
func (b *wgpuRendererBackendImpl) ReadBuffer(provider bind_group_provider.BindGroupProvider, binding int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	src := provider.Buffer(binding)
	if src == nil {
		return nil, fmt.Errorf("%s: no buffer at binding %d", provider.Label(), binding)
	}
	size := src.GetSize()

	staging, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " readback",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	defer staging.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Release()
	if err := encoder.CopyBufferToBuffer(src, 0, staging, 0, size); err != nil {
		return nil, err
	}
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, err
	}
	defer cmd.Release()
	b.queue.Submit(cmd)

	var status wgpu.BufferMapAsyncStatus
	if err := staging.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) { status = s }); err != nil {
		return nil, err
	}
	b.device.Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("%w: %s status %d", ErrBufferMap, provider.Label(), status)
	}
	defer staging.Unmap()

	return append([]byte(nil), staging.GetMappedRange(0, uint(size))...), nil
}
