package model

import (
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

func TestGPUTypeSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
		buf  []byte
		want int
	}{
		{"vertex", (&GPUVertex{}).Size(), (&GPUVertex{}).Marshal(), 32},
		{"texture vertex", (&GPUTextureVertex{}).Size(), (&GPUTextureVertex{}).Marshal(), 20},
		{"color vertex", (&GPUColorVertex{}).Size(), (&GPUColorVertex{}).Marshal(), 24},
		{"instance", (&GPUInstance{}).Size(), (&GPUInstance{}).Marshal(), 100},
		{"mesh transform", (&GPUMeshTransform{}).Size(), (&GPUMeshTransform{}).Marshal(), 144},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.size != tt.want || len(tt.buf) != tt.want {
				t.Errorf("size = %d, marshal = %d, want %d", tt.size, len(tt.buf), tt.want)
			}
		})
	}
}

func TestBuildInstanceGrid(t *testing.T) {
	grid := BuildInstanceGrid(InstancesPerRow, InstanceSpacing)
	if len(grid) != 100 {
		t.Fatalf("len = %d, want 100", len(grid))
	}

	first := grid[0]
	if first.Position != (mgl32.Vec3{-15, 0, -15}) {
		t.Errorf("grid[0] = %v", first.Position)
	}
	// index = z*10 + x
	if p := grid[1].Position; p != (mgl32.Vec3{-12, 0, -15}) {
		t.Errorf("grid[1] = %v, want x to advance first", p)
	}

	origin := grid[5*10+5]
	if origin.Position != (mgl32.Vec3{}) {
		t.Fatalf("grid[55] = %v, want origin", origin.Position)
	}
	if origin.Rotation != mgl32.QuatIdent() {
		t.Errorf("origin rotation = %v, want identity", origin.Rotation)
	}

	// 45° about the normalized position
	want := mgl32.QuatRotate(mgl32.DegToRad(45), first.Position.Normalize())
	if !first.Rotation.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("grid[0] rotation = %v, want %v", first.Rotation, want)
	}

	if BuildInstanceGrid(0, 1) != nil {
		t.Error("empty grid should be nil")
	}
}

func TestInstanceToRaw(t *testing.T) {
	inst := Instance{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}),
	}
	raw := inst.ToRaw()

	// translation column
	if raw.Model[3] != [4]float32{1, 2, 3, 1} {
		t.Errorf("translation column = %v", raw.Model[3])
	}

	// T*R applied to +X rotates to -Z then translates
	got := raw.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !got.ApproxEqualThreshold(mgl32.Vec4{1, 2, 2, 1}, 1e-5) {
		t.Errorf("model * x = %v, want (1, 2, 2, 1)", got)
	}

	// the normal matrix carries the rotation only
	n := mgl32.Mat3FromCols(raw.Normal[0], raw.Normal[1], raw.Normal[2])
	if rn := n.Mul3x1(mgl32.Vec3{1, 0, 0}); !rn.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("normal * x = %v, want (0, 0, -1)", rn)
	}

	buf := raw.Marshal()
	if common.Float32At(buf, 48) != 1 || common.Float32At(buf, 52) != 2 || common.Float32At(buf, 56) != 3 {
		t.Errorf("translation not at offset 48: %v %v %v",
			common.Float32At(buf, 48), common.Float32At(buf, 52), common.Float32At(buf, 56))
	}
}

func TestMeshTransform(t *testing.T) {
	m := mgl32.Translate3D(1, 0, 0).Mul4(mgl32.Scale3D(2, 2, 2))
	mt := NewMeshTransform(m, [4]uint32{7, 0, 0, 0})

	if !mt.InverseTransposeModel.ApproxEqualThreshold(m.Inv().Transpose(), 1e-6) {
		t.Error("inverse transpose mismatch")
	}
	buf := mt.Marshal()
	if buf[128] != 7 {
		t.Errorf("flags[0] byte = %d, want 7", buf[128])
	}
}

func TestCube(t *testing.T) {
	vertices, indices := Cube()
	if len(vertices) != 24 || len(indices) != 36 {
		t.Fatalf("cube = %d vertices, %d indices", len(vertices), len(indices))
	}

	for i := 0; i < len(indices); i += 3 {
		a := mgl32.Vec3(vertices[indices[i]].Position)
		b := mgl32.Vec3(vertices[indices[i+1]].Position)
		c := mgl32.Vec3(vertices[indices[i+2]].Position)
		n := mgl32.Vec3(vertices[indices[i]].Normal)

		face := b.Sub(a).Cross(c.Sub(a))
		if face.Dot(n) <= 0 {
			t.Errorf("triangle %d winds away from its normal %v", i/3, n)
		}
		for _, p := range []mgl32.Vec3{a, b, c} {
			if p.Dot(n) != 0.5 {
				t.Errorf("triangle %d vertex %v not on its face plane", i/3, p)
			}
		}
	}

	if got := len(MarshalVertices(vertices)); got != 24*32 {
		t.Errorf("marshalled vertices = %d bytes", got)
	}
	if got := len(MarshalIndices(indices)); got != 36*4 {
		t.Errorf("marshalled indices = %d bytes", got)
	}
}

func TestFullScreenQuadAndTriangle(t *testing.T) {
	quad := FullScreenQuad()
	if len(quad) != 6 {
		t.Fatalf("quad = %d vertices", len(quad))
	}
	if quad[0].TexCoord != [2]float32{0, 1} || quad[5].Position != [3]float32{1, -1, 0} {
		t.Errorf("unexpected quad corners: %+v", quad)
	}

	tri := ColorTriangle()
	if len(tri) != 3 || tri[0].Color != [3]float32{1, 0, 0} {
		t.Errorf("unexpected triangle: %+v", tri)
	}
	if got := len(MarshalVertices(tri)); got != 72 {
		t.Errorf("marshalled triangle = %d bytes, want 72", got)
	}
}

func TestVertexStage(t *testing.T) {
	v := GPUVertex{Position: [3]float32{1, 0, 0}, TexCoord: [2]float32{0.25, 0.75}}
	vp := mgl32.Scale3D(2, 2, 2)

	out := VertexStage(vp, v, nil)
	if out.ClipPosition != (mgl32.Vec4{2, 0, 0, 1}) {
		t.Errorf("non-instanced clip = %v", out.ClipPosition)
	}
	if out.TexCoord != (mgl32.Vec2{0.25, 0.75}) {
		t.Errorf("uv = %v", out.TexCoord)
	}

	inst := Instance{Position: mgl32.Vec3{0, 1, 0}, Rotation: mgl32.QuatIdent()}.ToRaw()
	out = VertexStage(vp, v, &inst)
	if !out.ClipPosition.ApproxEqualThreshold(mgl32.Vec4{2, 2, 0, 1}, 1e-6) {
		t.Errorf("instanced clip = %v", out.ClipPosition)
	}
}

func TestFragmentStage(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	tex := common.CheckerTexture(2, 1, red, blue)

	tests := []struct {
		name string
		uv   mgl32.Vec2
		want mgl32.Vec4
	}{
		{"top left", mgl32.Vec2{0.1, 0.1}, mgl32.Vec4{1, 0, 0, 1}},
		{"top right", mgl32.Vec2{0.9, 0.1}, mgl32.Vec4{0, 0, 1, 1}},
		{"bottom right", mgl32.Vec2{0.9, 0.9}, mgl32.Vec4{1, 0, 0, 1}},
		{"edge clamps to last texel", mgl32.Vec2{0.99999, 0}, mgl32.Vec4{0, 0, 1, 1}},
		{"repeat", mgl32.Vec2{1.1, 0.1}, mgl32.Vec4{1, 0, 0, 1}},
		{"negative repeat", mgl32.Vec2{-0.1, 0.1}, mgl32.Vec4{0, 0, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FragmentStage(tex, tt.uv); got != tt.want {
				t.Errorf("FragmentStage(%v) = %v, want %v", tt.uv, got, tt.want)
			}
		})
	}

	if got := FragmentStage(nil, mgl32.Vec2{}); got != (mgl32.Vec4{}) {
		t.Errorf("nil texture = %v", got)
	}
}

func TestNewModel(t *testing.T) {
	m := NewModel(WithName("cubes"), WithInstanceGrid(InstancesPerRow, InstanceSpacing))
	if m.IndexCount() != 36 || len(m.VertexData()) != 24*32 {
		t.Errorf("default mesh = %d indices, %d vertex bytes", m.IndexCount(), len(m.VertexData()))
	}
	if m.InstanceCount() != 100 {
		t.Errorf("InstanceCount = %d", m.InstanceCount())
	}
	if len(m.InstanceData()) != 100*100 {
		t.Errorf("InstanceData = %d bytes", len(m.InstanceData()))
	}
	if m.MeshProvider() == nil {
		t.Error("expected a mesh provider")
	}

	single := NewModel()
	if single.InstanceCount() != 1 || len(single.InstanceData()) != 100 {
		t.Errorf("uninstanced model = %d instances, %d bytes", single.InstanceCount(), len(single.InstanceData()))
	}
	raw := single.InstanceData()
	if common.Float32At(raw, 0) != 1 || common.Float32At(raw, 60) != 1 {
		t.Error("uninstanced model should upload the identity transform")
	}
}
