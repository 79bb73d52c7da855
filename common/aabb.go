package common

// AABB is an axis-aligned bounding box defined by componentwise min/max
// corners. See spec.md §3 ("Scene AABB") and GLOSSARY.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns a degenerate box with Min > Max, used as the starting
// accumulator for Union when no primitive has been folded in yet.
func EmptyAABB() AABB {
	const inf = float32(3.402823e38)
	return AABB{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

// Valid reports whether the box has been expanded to cover at least one
// point (Min <= Max on every axis).
func (b AABB) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Union returns the smallest AABB containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: VecMin(b.Min, o.Min), Max: VecMax(b.Max, o.Max)}
}

// UnionPoint expands b to contain p.
func (b AABB) UnionPoint(p Vec3) AABB {
	return AABB{Min: VecMin(b.Min, p), Max: VecMax(b.Max, p)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extent returns max - min.
func (b AABB) Extent() Vec3 {
	return b.Max.Sub(b.Min)
}

// Diagonal returns the length of the box's diagonal.
func (b AABB) Diagonal() float32 {
	return b.Extent().Length()
}

// Clip clamps b's corners into the bounds of o, producing the intersection.
// The result may be degenerate (not Valid()) if b and o do not overlap.
func (b AABB) Clip(o AABB) AABB {
	return AABB{
		Min: VecMax(b.Min, o.Min),
		Max: VecMin(b.Max, o.Max),
	}
}

// ContainsPoint reports whether p lies within the box (inclusive).
func (b AABB) ContainsPoint(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectRay performs the slab method (GLOSSARY): intersects the ray with
// each pair of parallel planes and returns [tNear, tFar]. ok is false if the
// ray misses the box. Matches spec.md §4.4/§4.5's "Slab method" and the
// NaN-avoidance discipline — a direction component of exactly zero is
// treated as parallel-to-that-axis rather than divided by.
func (b AABB) IntersectRay(origin, dir Vec3) (tNear, tFar float32, ok bool) {
	tNear, tFar = -3.402823e38, 3.402823e38

	mins := [3]float32{b.Min.X, b.Min.Y, b.Min.Z}
	maxs := [3]float32{b.Max.X, b.Max.Y, b.Max.Z}
	o := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{dir.X, dir.Y, dir.Z}

	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < mins[i] || o[i] > maxs[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1.0 / d[i]
		t0 := (mins[i] - o[i]) * inv
		t1 := (maxs[i] - o[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tNear = maxF32(tNear, t0)
		tFar = minF32(tFar, t1)
		if tNear > tFar {
			return 0, 0, false
		}
	}
	return tNear, tFar, true
}
