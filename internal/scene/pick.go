package scene

import (
	"sort"

	"github.com/Faultbox/scened/internal/engine/picking"
	"github.com/Faultbox/scened/pkg/math"
)

// Camera is the per-frame view state used for picking.
type Camera = picking.Camera

// SelectEntity returns the nearest entity whose bounding sphere is hit by
// the ray through ndc. Candidates are tested in ascending distance from the
// camera, so the first hit is the nearest.
func (s *Scene) SelectEntity(ndc math.Vec2, cam Camera) (Handle, bool) {
	type candidate struct {
		h    Handle
		e    *Entity
		dist float32
	}

	handles := s.entities.handles()
	candidates := make([]candidate, 0, len(handles))
	for _, h := range handles {
		e, _ := s.entities.get(h)
		candidates = append(candidates, candidate{h: h, e: e, dist: e.Position.Distance(cam.Position)})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	ray := picking.Unproject(ndc, cam)
	for _, c := range candidates {
		if ray.IntersectSphere(c.e.Position, c.e.BoundingRadius()) {
			return c.h, true
		}
	}
	return Nil, false
}

// ToWorld projects ndc onto the horizontal plane y = height. Points behind
// the camera are reported as a miss.
func (s *Scene) ToWorld(ndc math.Vec2, cam Camera, height float32) (math.Vec3, bool) {
	return picking.Unproject(ndc, cam).IntersectPlaneY(height)
}
