package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

func TestControllerDefaults(t *testing.T) {
	cc := NewCameraController()
	if cc.Speed() != 0.2 || cc.Sensitivity() != 0.2 {
		t.Errorf("speed/sensitivity = %v/%v", cc.Speed(), cc.Sensitivity())
	}
	if !common.NearlyEqual(cc.Yaw(), mgl32.DegToRad(-90), 1e-6) {
		t.Errorf("yaw = %v", cc.Yaw())
	}
	if !common.NearlyEqual(cc.Pitch(), mgl32.DegToRad(-20), 1e-6) {
		t.Errorf("pitch = %v", cc.Pitch())
	}
	dir := cc.Direction()
	if !common.NearlyEqual(dir.Len(), 1, 1e-5) {
		t.Errorf("direction not normalized: %v", dir)
	}
	if dir.Z() >= 0 || dir.Y() >= 0 {
		t.Errorf("default should look down and toward -Z, got %v", dir)
	}
}

func TestControllerMovement(t *testing.T) {
	tests := []struct {
		name string
		key  int
		want mgl32.Vec3
	}{
		{"forward", common.KeyW, mgl32.Vec3{0, 5, 9.8}},
		{"forward arrow", common.KeyUp, mgl32.Vec3{0, 5, 9.8}},
		{"backward", common.KeyS, mgl32.Vec3{0, 5, 10.2}},
		{"left", common.KeyA, mgl32.Vec3{-0.2, 5, 10}},
		{"right", common.KeyRight, mgl32.Vec3{0.2, 5, 10}},
		{"up", common.KeySpace, mgl32.Vec3{0, 5.2, 10}},
		{"down", common.KeyLeftShift, mgl32.Vec3{0, 4.8, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewCameraController()
			if !cc.ProcessKey(tt.key, true) {
				t.Fatalf("key %d not handled", tt.key)
			}
			cc.Update(1)
			if got := cc.Position(); !got.ApproxEqualThreshold(tt.want, 1e-5) {
				t.Errorf("position = %v, want %v", got, tt.want)
			}

			// releasing stops further movement
			cc.ProcessKey(tt.key, false)
			before := cc.Position()
			cc.Update(1)
			if cc.Position() != before {
				t.Errorf("moved after release: %v -> %v", before, cc.Position())
			}
		})
	}
}

func TestControllerUnknownKey(t *testing.T) {
	cc := NewCameraController()
	if cc.ProcessKey(common.KeyQ, true) {
		t.Error("Q should not be a movement key")
	}
}

func TestControllerDragRotates(t *testing.T) {
	cc := NewCameraController(WithYawPitch(0, 0))
	cc.ProcessDrag(1, 0.5)
	cc.Update(1)

	if !common.NearlyEqual(cc.Yaw(), 0.2, 1e-6) {
		t.Errorf("yaw = %v, want 0.2", cc.Yaw())
	}
	if !common.NearlyEqual(cc.Pitch(), -0.1, 1e-6) {
		t.Errorf("pitch = %v, want -0.1", cc.Pitch())
	}

	// rotation input is consumed by Update
	cc.Update(1)
	if !common.NearlyEqual(cc.Yaw(), 0.2, 1e-6) {
		t.Errorf("yaw changed without input: %v", cc.Yaw())
	}
}

func TestControllerPitchClamp(t *testing.T) {
	cc := NewCameraController()
	cc.SetOrientation(0, 10)
	if cc.Pitch() != clampPitch(10) || cc.Pitch() >= mgl32.DegToRad(90) {
		t.Errorf("pitch = %v, want clamped below π/2", cc.Pitch())
	}
	cc.SetOrientation(0, -10)
	if cc.Pitch() <= -mgl32.DegToRad(90) {
		t.Errorf("pitch = %v, want clamped above -π/2", cc.Pitch())
	}
}

func TestControllerScroll(t *testing.T) {
	cc := NewCameraController(WithPosition(0, 0, 0), WithYawPitch(0, 0))
	cc.ProcessScroll(1)
	cc.Update(1)

	// one line backs away along the look direction by 3.5 * speed * sensitivity
	want := mgl32.Vec3{-3.5 * 0.2 * 0.2, 0, 0}
	if got := cc.Position(); !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("position = %v, want %v", got, want)
	}

	cc.Update(1)
	if got := cc.Position(); !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("scroll applied twice: %v", got)
	}
}

func TestControllerTarget(t *testing.T) {
	cc := NewCameraController(WithPosition(1, 2, 3), WithYawPitch(0, 0))
	if got := cc.Target(); !got.ApproxEqualThreshold(mgl32.Vec3{2, 2, 3}, 1e-6) {
		t.Errorf("target = %v", got)
	}
}
