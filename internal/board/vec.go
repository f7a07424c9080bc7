// internal/board/vec.go
package board

// Vec2 is a pair of half extents on the table plane (X across, Y along Z).
type Vec2 struct {
	X, Y float32
}

// Vec3 is a world position. X and Z span the table; Y is height above it.
type Vec3 struct {
	X, Y, Z float32
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// rect is an axis-aligned rectangle on the table plane.
type rect struct {
	minX, maxX, minZ, maxZ float32
}

func rectAt(center Vec3, half Vec2) rect {
	return rect{
		minX: center.X - half.X,
		maxX: center.X + half.X,
		minZ: center.Z - half.Y,
		maxZ: center.Z + half.Y,
	}
}

// overlaps uses closed bounds: touching edges count.
func (r rect) overlaps(o rect) bool {
	return r.minX <= o.maxX && r.maxX >= o.minX &&
		r.minZ <= o.maxZ && r.maxZ >= o.minZ
}

// contains is half-open so adjacent cards never both claim a point.
func (r rect) contains(p Vec3) bool {
	return p.X >= r.minX && p.X < r.maxX && p.Z >= r.minZ && p.Z < r.maxZ
}
