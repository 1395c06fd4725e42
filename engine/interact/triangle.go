package interact

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Triangle is a single interactive primitive in pixel space.
type Triangle struct {
	// Points are the three corners in pixel space.
	Points [3]mgl32.Vec3

	// Color is shared by all three vertices.
	Color mgl32.Vec3

	// Flags is the control word written into every vertex.
	Flags uint32
}

// NewTriangle creates a triangle with no flags set.
//
// Parameters:
//   - points: the three corners
//   - color: the RGB color
//
// Returns:
//   - Triangle: the new triangle
func NewTriangle(points [3]mgl32.Vec3, color mgl32.Vec3) Triangle {
	return Triangle{Points: points, Color: color}
}

// PointInside reports whether p lies inside the triangle or on its edge.
// The corners are shifted so p is the origin; p is inside when the three
// edge cross products all point the same way.
//
// Parameters:
//   - p: the point to test
//
// Returns:
//   - bool: true if p is inside
func (t Triangle) PointInside(p mgl32.Vec3) bool {
	a := t.Points[0].Sub(p)
	b := t.Points[1].Sub(p)
	c := t.Points[2].Sub(p)

	u := b.Cross(a)
	v := c.Cross(b)
	w := a.Cross(c)

	if u.Dot(v) < 0 {
		return false
	}
	if u.Dot(w) < 0 {
		return false
	}
	return true
}

// Translate returns a copy of the triangle moved by diff.
func (t Triangle) Translate(diff mgl32.Vec3) Triangle {
	for i := range t.Points {
		t.Points[i] = t.Points[i].Add(diff)
	}
	return t
}

// Vertices expands the triangle into its three GPU vertices.
//
// Returns:
//   - [3]GPUVertex: the vertices in corner order
func (t Triangle) Vertices() [3]GPUVertex {
	var out [3]GPUVertex
	for i, p := range t.Points {
		out[i] = GPUVertex{
			Controls: [4]uint32{t.Flags, 0, 0, 0},
			Position: p,
			Color:    t.Color,
		}
	}
	return out
}

// Triangles is a mutex-guarded list of interactive triangles.
// The input callbacks mutate it while the render loop marshals it.
type Triangles struct {
	mu    sync.Mutex
	items []Triangle
}

// NewTriangles creates a collection holding the given triangles.
//
// Parameters:
//   - items: the initial triangles
//
// Returns:
//   - *Triangles: the new collection
func NewTriangles(items ...Triangle) *Triangles {
	return &Triangles{items: append([]Triangle(nil), items...)}
}

// Push appends a triangle.
func (ts *Triangles) Push(t Triangle) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.items = append(ts.items, t)
}

// Len returns the number of triangles.
func (ts *Triangles) Len() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.items)
}

// At returns a copy of the triangle at index i and whether the index was valid.
func (ts *Triangles) At(i int) (Triangle, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if i < 0 || i >= len(ts.items) {
		return Triangle{}, false
	}
	return ts.items[i], true
}

// Click sets the click bit on every triangle containing p and clears it on the rest.
//
// Parameters:
//   - p: the click position in pixel space
//
// Returns:
//   - int: the number of triangles hit
func (ts *Triangles) Click(p mgl32.Vec3) int {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	hits := 0
	for i := range ts.items {
		if ts.items[i].PointInside(p) {
			ts.items[i].Flags |= FlagClick
			hits++
		} else {
			ts.items[i].Flags &^= FlagClick
		}
	}
	return hits
}

// MoveTo translates every triangle by diff.
//
// Parameters:
//   - diff: the translation in pixel space
func (ts *Triangles) MoveTo(diff mgl32.Vec3) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for i := range ts.items {
		ts.items[i] = ts.items[i].Translate(diff)
	}
}

// Vertices flattens the collection into a vertex list, three per triangle.
//
// Returns:
//   - []GPUVertex: the vertices
func (ts *Triangles) Vertices() []GPUVertex {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]GPUVertex, 0, len(ts.items)*3)
	for _, t := range ts.items {
		v := t.Vertices()
		out = append(out, v[:]...)
	}
	return out
}

// Marshal serializes every vertex for upload to the vertex buffer.
//
// Returns:
//   - []byte: the packed vertex data
func (ts *Triangles) Marshal() []byte {
	verts := ts.Vertices()
	buf := make([]byte, len(verts)*GPUVertexSize)
	for i := range verts {
		verts[i].MarshalTo(buf[i*GPUVertexSize:])
	}
	return buf
}
