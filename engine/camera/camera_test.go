package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	lens := c.Lens()
	if !common.NearlyEqual(lens.Fov, mgl32.DegToRad(45), 1e-6) {
		t.Errorf("fov = %v", lens.Fov)
	}
	if lens.Near != 0.1 || lens.Far != 100 || lens.Aspect != 1 {
		t.Errorf("lens = %+v", lens)
	}
	if c.Controller().Position() != (mgl32.Vec3{0, 5, 10}) {
		t.Errorf("position = %v", c.Controller().Position())
	}
	if c.BindGroupProvider() == nil {
		t.Error("expected a default bind group provider")
	}
}

func TestCameraOptions(t *testing.T) {
	ctrl := NewCameraController()
	c := NewCamera(
		WithUp(0, 0, 1),
		WithFov(1),
		WithAspect(2),
		WithClipPlanes(0.5, 200),
		WithController(ctrl),
	)
	if c.Up() != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("Up = %v", c.Up())
	}
	if want := (Lens{Fov: 1, Aspect: 2, Near: 0.5, Far: 200}); c.Lens() != want {
		t.Errorf("lens = %+v, want %+v", c.Lens(), want)
	}
	if c.Controller() != ctrl {
		t.Error("controller not used")
	}
}

func TestViewMatrixMovesEyeToOrigin(t *testing.T) {
	c := NewCamera()
	eye := c.Controller().Position()
	got := c.Matrices().View.Mul4x1(eye.Vec4(1))
	if !got.ApproxEqualThreshold(mgl32.Vec4{0, 0, 0, 1}, 1e-5) {
		t.Errorf("view * eye = %v, want origin", got)
	}
}

func TestInverseMatrices(t *testing.T) {
	c := NewCamera(WithAspect(800.0 / 600.0))

	m := c.Matrices()

	if !m.InverseView.Mul4(m.View).ApproxEqualThreshold(mgl32.Ident4(), 1e-4) {
		t.Error("inv_view * view is not identity")
	}
	if !m.InverseProjection.Mul4(m.Projection).ApproxEqualThreshold(mgl32.Ident4(), 1e-4) {
		t.Error("inv_proj * proj is not identity")
	}
	if !m.ViewProjection.ApproxEqualThreshold(m.Projection.Mul4(m.View), 1e-5) {
		t.Error("view_proj != proj * view")
	}
}

func TestPointAheadIsVisible(t *testing.T) {
	c := NewCamera(WithAspect(1))
	ctrl := c.Controller()
	ahead := ctrl.Position().Add(ctrl.Direction().Mul(5))

	clip := c.Matrices().ViewProjection.Mul4x1(ahead.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.Z() < 0 || ndc.Z() > 1 {
		t.Errorf("depth = %v, want within [0, 1]", ndc.Z())
	}
	if !common.NearlyEqual(ndc.X(), 0, 1e-4) || !common.NearlyEqual(ndc.Y(), 0, 1e-4) {
		t.Errorf("point on the look axis projected to (%v, %v)", ndc.X(), ndc.Y())
	}
}

func TestResize(t *testing.T) {
	c := NewCamera()
	c.Resize(800, 600)
	if got := c.Lens().Aspect; !common.NearlyEqual(got, 800.0/600.0, 1e-6) {
		t.Errorf("aspect = %v", got)
	}
	c.Resize(0, 600)
	if got := c.Lens().Aspect; !common.NearlyEqual(got, 800.0/600.0, 1e-6) {
		t.Errorf("zero-width resize changed aspect to %v", got)
	}
}

func TestUniform(t *testing.T) {
	c := NewCamera()
	u := c.Uniform()
	if u.ViewPosition != [4]float32{0, 5, 10, 1} {
		t.Errorf("view_position = %v", u.ViewPosition)
	}
	if u.Size() != 272 {
		t.Fatalf("Size = %d, want 272", u.Size())
	}

	buf := u.Marshal()
	if len(buf) != 272 {
		t.Fatalf("len = %d, want 272", len(buf))
	}
	if common.Float32At(buf, 4) != 5 {
		t.Errorf("view_position.y = %v", common.Float32At(buf, 4))
	}
	// view_proj starts at offset 80
	if got := common.Float32At(buf, 80); got != u.ViewProj[0] {
		t.Errorf("view_proj[0] = %v, want %v", got, u.ViewProj[0])
	}
	// inv_view is last
	if got := common.Float32At(buf, 208+15*4); got != u.InvView[15] {
		t.Errorf("inv_view[15] = %v, want %v", got, u.InvView[15])
	}
}

func TestCameraUpdateFollowsController(t *testing.T) {
	c := NewCamera()
	before := c.Matrices().View
	c.Controller().ProcessKey(common.KeySpace, true)
	c.Update(1)
	if c.Matrices().View == before {
		t.Error("view matrix did not change after movement")
	}
}
