package gridroute

import (
	"fmt"
	"math"
)

// Eps is the per-axis tolerance used by Coord.Eq for float coordinates.
// It absorbs the floating error accumulated by repeated world/grid round
// trips at the default 0.1 mm resolution.
const Eps = 0.05

// Number constrains the component type of a Coord.
type Number interface {
	~int | ~float64
}

// Coord is an immutable 3D coordinate. World-space coordinates are
// Coord[float64] (see OutCoord), decoded grid indices are Coord[int].
type Coord[T Number] struct {
	X, Y, Z T
}

// OutCoord is a world-space coordinate in millimetres, with Z holding the
// copper layer index.
type OutCoord = Coord[float64]

// C is shorthand for constructing a Coord.
func C[T Number](x, y, z T) Coord[T] {
	return Coord[T]{X: x, Y: y, Z: z}
}

func (c Coord[T]) Add(o Coord[T]) Coord[T] { return Coord[T]{c.X + o.X, c.Y + o.Y, c.Z + o.Z} }

func (c Coord[T]) Sub(o Coord[T]) Coord[T] { return Coord[T]{c.X - o.X, c.Y - o.Y, c.Z - o.Z} }

func (c Coord[T]) Mul(o Coord[T]) Coord[T] { return Coord[T]{c.X * o.X, c.Y * o.Y, c.Z * o.Z} }

func (c Coord[T]) Div(o Coord[T]) Coord[T] { return Coord[T]{c.X / o.X, c.Y / o.Y, c.Z / o.Z} }

// Scale multiplies every component by s.
func (c Coord[T]) Scale(s T) Coord[T] { return Coord[T]{c.X * s, c.Y * s, c.Z * s} }

// Eq reports componentwise equality within Eps. For integer coordinates the
// tolerance degenerates to exact equality. Coords used as map keys should be
// normalized with Key first so that lookup agrees with Eq.
func (c Coord[T]) Eq(o Coord[T]) bool {
	return math.Abs(float64(c.X-o.X)) < Eps &&
		math.Abs(float64(c.Y-o.Y)) < Eps &&
		math.Abs(float64(c.Z-o.Z)) < Eps
}

// Quantize rounds every component to the nearest multiple of resolution.
// Quantizing twice with the same resolution is a no-op.
func (c Coord[T]) Quantize(resolution float64) Coord[T] {
	q := func(v T) T {
		return T(math.Round(float64(v)/resolution) * resolution)
	}
	return Coord[T]{q(c.X), q(c.Y), q(c.Z)}
}

// Key returns the Eps-quantized form of c, suitable as a map key consistent
// with Eq.
func (c Coord[T]) Key() Coord[T] { return c.Quantize(Eps) }

// Ceil rounds every component up to the next integer value.
func (c Coord[T]) Ceil() Coord[T] {
	return Coord[T]{T(math.Ceil(float64(c.X))), T(math.Ceil(float64(c.Y))), T(math.Ceil(float64(c.Z)))}
}

// Round rounds every component to the nearest integer value.
func (c Coord[T]) Round() Coord[T] {
	return Coord[T]{T(math.Round(float64(c.X))), T(math.Round(float64(c.Y))), T(math.Round(float64(c.Z)))}
}

// Float converts c to a float64 coordinate.
func (c Coord[T]) Float() Coord[float64] {
	return Coord[float64]{float64(c.X), float64(c.Y), float64(c.Z)}
}

// RoundToInt converts a world/float coordinate to an integer grid triple by
// rounding each component.
func RoundToInt(c Coord[float64]) Coord[int] {
	return Coord[int]{int(math.Round(c.X)), int(math.Round(c.Y)), int(math.Round(c.Z))}
}

func (c Coord[T]) String() string {
	switch any(c.X).(type) {
	case float64:
		return fmt.Sprintf("(%.2f, %.2f, %.2f)", float64(c.X), float64(c.Y), float64(c.Z))
	default:
		return fmt.Sprintf("(%v, %v, %v)", c.X, c.Y, c.Z)
	}
}
