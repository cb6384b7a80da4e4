package physics

import (
	"github.com/solarlune/resolv"
)

// broadphase maps the horizontal (XZ) footprint of bodies onto a resolv cell space
// World X maps to space X, world Z maps to space Y, offset so the configured minimum is the space origin
// Bodies outside the covered area are simply never reported as candidates
type broadphase struct {
	space      *resolv.Space
	minX, minZ float64
	objects    map[uint32]*resolv.Object
}

func newBroadphase(cfg Config) *broadphase {
	return &broadphase{
		space:   resolv.NewSpace(cfg.Width, cfg.Depth, cfg.CellSize, cfg.CellSize),
		minX:    cfg.MinX,
		minZ:    cfg.MinZ,
		objects: make(map[uint32]*resolv.Object),
	}
}

// insert registers the footprint of body at arena index idx
func (bp *broadphase) insert(idx uint32, b *Body) {
	half := b.Shape.Half
	obj := resolv.NewObject(
		b.Position.X()-half.X()-bp.minX,
		b.Position.Z()-half.Z()-bp.minZ,
		2*half.X(),
		2*half.Z(),
		b.Category.String(),
	)
	obj.Data = idx
	bp.space.Add(obj)
	bp.objects[idx] = obj
}

// move updates the footprint after integration
func (bp *broadphase) move(idx uint32, b *Body) {
	obj, ok := bp.objects[idx]
	if !ok {
		return
	}
	obj.X = b.Position.X() - b.Shape.Half.X() - bp.minX
	obj.Y = b.Position.Z() - b.Shape.Half.Z() - bp.minZ
	obj.Update()
}

func (bp *broadphase) remove(idx uint32) {
	obj, ok := bp.objects[idx]
	if !ok {
		return
	}
	bp.space.Remove(obj)
	delete(bp.objects, idx)
}

// candidates returns arena indices of bodies sharing cells with idx after a horizontal offset
// Tags restrict the result to the given categories
func (bp *broadphase) candidates(idx uint32, dx, dz float64, mask Category, out []uint32) []uint32 {
	out = out[:0]
	obj, ok := bp.objects[idx]
	if !ok {
		return out
	}
	tags := mask.tags()
	if len(tags) == 0 {
		return out
	}
	collision := obj.Check(dx, dz, tags...)
	if collision == nil {
		return out
	}
	for _, other := range collision.Objects {
		if other == obj {
			continue
		}
		if oi, ok := other.Data.(uint32); ok {
			out = append(out, oi)
		}
	}
	return out
}

func (bp *broadphase) reset() {
	for idx, obj := range bp.objects {
		bp.space.Remove(obj)
		delete(bp.objects, idx)
	}
}
