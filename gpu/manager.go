// Package gpu owns the wgpu resources: the four variant pipelines built
// from the shared shader module, uniform and per-batch buffers, and the
// noise and LUT textures.
package gpu

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/meadow3d/meadow/core"
	"github.com/meadow3d/meadow/scene"
	"github.com/meadow3d/meadow/shaders"
)

const (
	vertexStride   = 7 * 4
	instanceStride = 32 * 4

	cameraSize     = 32 * 4
	renderDataSize = 8 * 4

	SampleCount = 4
	DepthFormat = wgpu.TextureFormatDepth32Float
)

// fragmentEntry names the shader entry point for each variant.
var fragmentEntry = map[core.Variant]string{
	core.VariantColorObject: "fs_color_object",
	core.VariantDust:        "fs_dust",
	core.VariantFloor:       "fs_floor",
	core.VariantGrass:       "fs_grass",
}

type batchBuffers struct {
	vertex        *wgpu.Buffer
	index         *wgpu.Buffer
	instance      *wgpu.Buffer
	indexCount    uint32
	instanceCount uint32
}

func (b *batchBuffers) release() {
	if b.vertex != nil {
		b.vertex.Release()
	}
	if b.index != nil {
		b.index.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}

type Manager struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue
	Format wgpu.TextureFormat

	CameraBuf     *wgpu.Buffer
	RenderDataBuf *wgpu.Buffer

	Pipelines map[core.Variant]*wgpu.RenderPipeline

	cameraLayout     *wgpu.BindGroupLayout
	renderDataLayout *wgpu.BindGroupLayout
	groundLayout     *wgpu.BindGroupLayout
	lutLayout        *wgpu.BindGroupLayout

	groundSampler *wgpu.Sampler
	lutSampler    *wgpu.Sampler

	noiseTexture *wgpu.Texture
	noiseView    *wgpu.TextureView

	lutTexture       *wgpu.Texture
	lutView          *wgpu.TextureView
	lutSize          int
	lutLinearTexture *wgpu.Texture
	lutLinearView    *wgpu.TextureView
	lutLinearSize    int

	cameraBG     *wgpu.BindGroup
	renderDataBG *wgpu.BindGroup
	groundBG     *wgpu.BindGroup
	lutBG        *wgpu.BindGroup
	lutLinearBG  *wgpu.BindGroup

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
	msaaTexture  *wgpu.Texture
	msaaView     *wgpu.TextureView

	batches map[scene.BatchId]*batchBuffers
}

func NewManager(device *wgpu.Device, format wgpu.TextureFormat) (*Manager, error) {
	m := &Manager{
		Device:    device,
		Queue:     device.GetQueue(),
		Format:    format,
		Pipelines: make(map[core.Variant]*wgpu.RenderPipeline),
		batches:   make(map[scene.BatchId]*batchBuffers),
	}

	var err error
	m.CameraBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "CameraUB",
		Size:  cameraSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	m.RenderDataBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "RenderDataUB",
		Size:  renderDataSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	// The noise texture tiles across the ground; the LUT pins out-of-range
	// age keys to its edge stops.
	m.groundSampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}
	m.lutSampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}

	if err := m.createPipelines(format); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) createPipelines(format wgpu.TextureFormat) error {
	module, err := m.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "MeadowShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.MeadowWGSL},
	})
	if err != nil {
		return err
	}

	m.cameraLayout, err = m.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "CameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: cameraSize,
			},
		}},
	})
	if err != nil {
		return err
	}
	m.renderDataLayout, err = m.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "RenderDataBGL",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: renderDataSize,
			},
		}},
	})
	if err != nil {
		return err
	}
	// Noise is sampled in the vertex stage for wind and in the fragment
	// stage for the ground tint.
	m.groundLayout, err = m.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "GroundBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return err
	}
	m.lutLayout, err = m.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "LutBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return err
	}

	layout, err := m.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{
			m.cameraLayout, m.renderDataLayout, m.groundLayout, m.lutLayout,
		},
	})
	if err != nil {
		return err
	}

	vertexBuffers := []wgpu.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32, Offset: 24, ShaderLocation: 2},
			},
		},
		{
			ArrayStride: instanceStride,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 3},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 4},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 5},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 6},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 7},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 80, ShaderLocation: 8},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 96, ShaderLocation: 9},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 112, ShaderLocation: 10},
			},
		},
	}

	for variant, entry := range fragmentEntry {
		pipeline, err := m.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  "MeadowPipeline/" + variant.String(),
			Layout: layout,
			Vertex: wgpu.VertexState{
				Module:     module,
				EntryPoint: "vs_main",
				Buffers:    vertexBuffers,
			},
			Fragment: &wgpu.FragmentState{
				Module:     module,
				EntryPoint: entry,
				Targets: []wgpu.ColorTargetState{{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
				}},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  wgpu.PrimitiveTopologyTriangleList,
				FrontFace: wgpu.FrontFaceCCW,
				CullMode:  wgpu.CullModeNone,
			},
			DepthStencil: &wgpu.DepthStencilState{
				Format:            DepthFormat,
				DepthWriteEnabled: true,
				DepthCompare:      wgpu.CompareFunctionLess,
				StencilFront: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
				StencilBack: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
			},
			Multisample: wgpu.MultisampleState{
				Count: SampleCount,
				Mask:  0xFFFFFFFF,
			},
		})
		if err != nil {
			return err
		}
		m.Pipelines[variant] = pipeline
	}
	return nil
}

// Resize recreates the depth and MSAA attachments for the new surface.
func (m *Manager) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	if m.depthView != nil {
		m.depthView.Release()
	}
	if m.depthTexture != nil {
		m.depthTexture.Release()
	}
	if m.msaaView != nil {
		m.msaaView.Release()
	}
	if m.msaaTexture != nil {
		m.msaaTexture.Release()
	}

	var err error
	m.depthTexture, err = m.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "DepthTex",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   SampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	m.depthView, err = m.depthTexture.CreateView(nil)
	if err != nil {
		return err
	}

	m.msaaTexture, err = m.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "MsaaTex",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   SampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        m.Format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	m.msaaView, err = m.msaaTexture.CreateView(nil)
	return err
}

// UpdateCamera uploads the camera uniform.
func (m *Manager) UpdateCamera(camera core.Camera) {
	raw := camera.Raw()
	m.Queue.WriteBuffer(m.CameraBuf, 0, floatsToBytes(raw[:]))
	if m.cameraBG == nil {
		m.cameraBG = m.uniformBindGroup("CameraBG", m.cameraLayout, m.CameraBuf)
	}
}

// UpdateRenderData uploads the animation parameters.
func (m *Manager) UpdateRenderData(rd core.RenderData) {
	raw := rd.Raw()
	m.Queue.WriteBuffer(m.RenderDataBuf, 0, floatsToBytes(raw[:]))
	if m.renderDataBG == nil {
		m.renderDataBG = m.uniformBindGroup("RenderDataBG", m.renderDataLayout, m.RenderDataBuf)
	}
}

func (m *Manager) uniformBindGroup(label string, layout *wgpu.BindGroupLayout, buf *wgpu.Buffer) *wgpu.BindGroup {
	bg, err := m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  layout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: buf, Size: wgpu.WholeSize}},
	})
	if err != nil {
		panic(err)
	}
	return bg
}

// SetNoiseTexture uploads the ground noise texture and binds it with the
// repeating sampler.
func (m *Manager) SetNoiseTexture(tex *core.Texture) error {
	if m.noiseTexture != nil {
		m.noiseTexture.Release()
	}
	var err error
	m.noiseTexture, m.noiseView, err = m.uploadTexture("NoiseTex", tex)
	if err != nil {
		return err
	}
	m.groundBG, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "GroundBG",
		Layout: m.groundLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: m.noiseView},
			{Binding: 1, Sampler: m.groundSampler},
		},
	})
	return err
}

// SetLutTextures uploads the stepped and linear LUT ramps. When the size
// is unchanged (hue drift) the pixels are rewritten in place.
func (m *Manager) SetLutTextures(stepped, linear *core.Texture) error {
	if m.lutTexture != nil && m.lutSize == stepped.Width &&
		m.lutLinearTexture != nil && m.lutLinearSize == linear.Width {
		m.writeTexture(m.lutTexture, stepped)
		m.writeTexture(m.lutLinearTexture, linear)
		return nil
	}

	if m.lutTexture != nil {
		m.lutTexture.Release()
	}
	if m.lutLinearTexture != nil {
		m.lutLinearTexture.Release()
	}

	var err error
	m.lutTexture, m.lutView, err = m.uploadTexture("LutTex", stepped)
	if err != nil {
		return err
	}
	m.lutSize = stepped.Width
	m.lutLinearTexture, m.lutLinearView, err = m.uploadTexture("LutLinearTex", linear)
	if err != nil {
		return err
	}
	m.lutLinearSize = linear.Width

	m.lutBG, err = m.lutBindGroup("LutBG", m.lutView)
	if err != nil {
		return err
	}
	m.lutLinearBG, err = m.lutBindGroup("LutLinearBG", m.lutLinearView)
	return err
}

func (m *Manager) lutBindGroup(label string, view *wgpu.TextureView) (*wgpu.BindGroup, error) {
	return m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label,
		Layout: m.lutLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: m.lutSampler},
		},
	})
}

func (m *Manager) uploadTexture(label string, src *core.Texture) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := m.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: uint32(src.Width), Height: uint32(src.Height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, nil, err
	}
	m.writeTexture(tex, src)
	view, err := tex.CreateView(nil)
	if err != nil {
		return nil, nil, err
	}
	return tex, view, nil
}

func (m *Manager) writeTexture(tex *wgpu.Texture, src *core.Texture) {
	m.Queue.WriteTexture(tex.AsImageCopy(), src.Pixels, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(src.Width) * 4,
		RowsPerImage: uint32(src.Height),
	}, &wgpu.Extent3D{Width: uint32(src.Width), Height: uint32(src.Height), DepthOrArrayLayers: 1})
}

// SyncBatches uploads dirty batch data and releases buffers of batches
// that no longer exist (recycled plants).
func (m *Manager) SyncBatches(batches []*scene.Batch) {
	live := make(map[scene.BatchId]bool, len(batches))
	for _, b := range batches {
		live[b.Id] = true
		m.syncBatch(b)
	}
	for id, bufs := range m.batches {
		if !live[id] {
			bufs.release()
			delete(m.batches, id)
		}
	}
}

func (m *Manager) syncBatch(b *scene.Batch) {
	bufs, ok := m.batches[b.Id]
	if !ok {
		bufs = &batchBuffers{}
		m.batches[b.Id] = bufs
	}

	if b.MeshDirty || bufs.vertex == nil {
		m.ensureBuffer("VertexBuf", &bufs.vertex, vertexBytes(b.Mesh.Vertices), wgpu.BufferUsageVertex)
		m.ensureBuffer("IndexBuf", &bufs.index, indexBytes(b.Mesh.Indices), wgpu.BufferUsageIndex)
		bufs.indexCount = uint32(len(b.Mesh.Indices))
		b.MeshDirty = false
	}
	if b.InstancesDirty || bufs.instance == nil {
		m.ensureBuffer("InstanceBuf", &bufs.instance, instanceBytes(b.Instances), wgpu.BufferUsageVertex)
		bufs.instanceCount = uint32(len(b.Instances))
		b.InstancesDirty = false
	}
}

func (m *Manager) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage) {
	neededSize := uint64(len(data))
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}
	if neededSize == 0 {
		neededSize = 4
	}

	current := *buf
	if current == nil || current.GetSize() < neededSize {
		if current != nil {
			current.Release()
		}
		newBuf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  neededSize,
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			panic(err)
		}
		*buf = newBuf
	}
	if len(data) > 0 {
		m.Queue.WriteBuffer(*buf, 0, data)
	}
}

// Render draws every batch into the MSAA target and resolves to view.
func (m *Manager) Render(encoder *wgpu.CommandEncoder, view *wgpu.TextureView, batches []*scene.Batch) error {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:          m.msaaView,
			ResolveTarget: view,
			LoadOp:        wgpu.LoadOpClear,
			StoreOp:       wgpu.StoreOpDiscard,
			ClearValue:    wgpu.Color{R: 0.2, G: 0.5, B: 1.0, A: 1.0},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            m.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	pass.SetBindGroup(0, m.cameraBG, nil)
	pass.SetBindGroup(1, m.renderDataBG, nil)
	pass.SetBindGroup(2, m.groundBG, nil)

	for _, b := range batches {
		bufs, ok := m.batches[b.Id]
		if !ok || bufs.indexCount == 0 || bufs.instanceCount == 0 {
			continue
		}
		pass.SetPipeline(m.Pipelines[b.Variant])
		lut := m.lutBG
		if b.LinearLut {
			lut = m.lutLinearBG
		}
		pass.SetBindGroup(3, lut, nil)
		pass.SetVertexBuffer(0, bufs.vertex, 0, bufs.vertex.GetSize())
		pass.SetVertexBuffer(1, bufs.instance, 0, bufs.instance.GetSize())
		pass.SetIndexBuffer(bufs.index, wgpu.IndexFormatUint32, 0, bufs.index.GetSize())
		pass.DrawIndexed(bufs.indexCount, bufs.instanceCount, 0, 0, 0)
	}
	return pass.End()
}

// Helpers

func floatsToBytes(vals []float32) []byte {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func vertexBytes(vertices []core.Vertex) []byte {
	buf := make([]byte, 0, len(vertices)*vertexStride)
	for _, v := range vertices {
		raw := v.Raw()
		buf = append(buf, floatsToBytes(raw[:])...)
	}
	return buf
}

func instanceBytes(instances []core.Instance) []byte {
	buf := make([]byte, 0, len(instances)*instanceStride)
	for _, in := range instances {
		raw := in.Raw()
		buf = append(buf, floatsToBytes(raw[:])...)
	}
	return buf
}

func indexBytes(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}
