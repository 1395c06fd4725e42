package model

import "github.com/go-gl/mathgl/mgl32"

// InstancesPerRow is the side length of the default instance grid.
const InstancesPerRow = 10

// InstanceSpacing is the distance between neighbouring instances in the default grid.
const InstanceSpacing float32 = 3.0

// Instance is the CPU-side placement of one copy of a mesh.
type Instance struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// ToRaw converts the instance into its GPU vertex representation.
// The model matrix is T*R and the normal matrix is the rotation alone.
//
// Returns:
//   - GPUInstance: the per-instance vertex data
func (i Instance) ToRaw() GPUInstance {
	rot := i.Rotation.Mat4()
	m := mgl32.Translate3D(i.Position.X(), i.Position.Y(), i.Position.Z()).Mul4(rot)
	n := rot.Mat3()

	var raw GPUInstance
	for c := 0; c < 4; c++ {
		raw.Model[c] = m.Col(c)
	}
	for c := 0; c < 3; c++ {
		raw.Normal[c] = n.Col(c)
	}
	return raw
}

// BuildInstanceGrid lays out perRow*perRow instances on the XZ plane, centred on the origin.
// Each instance is rotated 45° about its own normalized position; the one at the origin
// keeps the identity rotation. Instances are ordered row by row along Z, then X.
//
// Parameters:
//   - perRow: the number of instances along each axis
//   - spacing: the distance between neighbouring instances
//
// Returns:
//   - []Instance: the grid, perRow*perRow entries
func BuildInstanceGrid(perRow int, spacing float32) []Instance {
	if perRow <= 0 {
		return nil
	}

	half := float32(perRow / 2)
	out := make([]Instance, 0, perRow*perRow)
	for z := 0; z < perRow; z++ {
		for x := 0; x < perRow; x++ {
			pos := mgl32.Vec3{
				spacing * (float32(x) - half),
				0,
				spacing * (float32(z) - half),
			}

			rot := mgl32.QuatIdent()
			if pos.Len() > 0 {
				rot = mgl32.QuatRotate(mgl32.DegToRad(45), pos.Normalize())
			}
			out = append(out, Instance{Position: pos, Rotation: rot})
		}
	}
	return out
}

// RawInstances converts a slice of instances to their GPU representation.
//
// Parameters:
//   - instances: the instances to convert
//
// Returns:
//   - []GPUInstance: the converted instances in the same order
func RawInstances(instances []Instance) []GPUInstance {
	out := make([]GPUInstance, len(instances))
	for i, inst := range instances {
		out[i] = inst.ToRaw()
	}
	return out
}
