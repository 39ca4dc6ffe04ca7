package geometry

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Length is a distance in nanometers.
type Length int64

const (
	Nanometer  Length = 1
	Micrometer        = 1000 * Nanometer
	Millimeter        = 1000 * Micrometer
	Meter             = 1000 * Millimeter
)

// Millimeters returns the length converted to millimeters.
func (l Length) Millimeters() float64 {
	return float64(l) / float64(Millimeter)
}

func (l Length) Abs() Length {
	if l < 0 {
		return -l
	}
	return l
}

type Point struct {
	X Length
	Y Length
}

type Vector2 = Point

type LineSegment struct {
	A Point
	B Point
}

type Rectangle struct {
	Min Point
	Max Point
}

func (a Vector2) Minus(b Vector2) Vector2 {
	return Vector2{
		X: a.X - b.X,
		Y: a.Y - b.Y,
	}
}

func (a Vector2) Add(b Vector2) Vector2 {
	return Vector2{
		X: a.X + b.X,
		Y: a.Y + b.Y,
	}
}

func (v Vector2) Magnitude() float64 {
	return math.Hypot(float64(v.X), float64(v.Y))
}

// CrossProductZ is exact; coordinates near the int64 limits would overflow a
// plain multiplication.
func (a Vector2) CrossProductZ(b Vector2) *big.Int {
	l := new(big.Int).Mul(big.NewInt(int64(a.X)), big.NewInt(int64(b.Y)))
	r := new(big.Int).Mul(big.NewInt(int64(a.Y)), big.NewInt(int64(b.X)))
	return l.Sub(l, r)
}

// DotProduct is exact, see CrossProductZ.
func (a Vector2) DotProduct(b Vector2) *big.Int {
	l := new(big.Int).Mul(big.NewInt(int64(a.X)), big.NewInt(int64(b.X)))
	r := new(big.Int).Mul(big.NewInt(int64(a.Y)), big.NewInt(int64(b.Y)))
	return l.Add(l, r)
}

// Distance returns the distance between two points.
func (p Point) Distance(other Point) float64 {
	return p.Minus(other).Magnitude()
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// ParsePoint parses "x,y" in nanometers.
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("point %q: expected x,y", s)
	}
	x, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return Point{X: Length(x), Y: Length(y)}, nil
}

func (s LineSegment) Length() float64 {
	return s.A.Distance(s.B)
}

// Distance returns the distance between a point and a line segment.
func (s LineSegment) Distance(p Point) float64 {
	if s.A == s.B {
		return p.Distance(s.A)
	}

	AB := s.B.Minus(s.A)
	AP := p.Minus(s.A)
	abx, aby := float64(AB.X), float64(AB.Y)
	apx, apy := float64(AP.X), float64(AP.Y)

	t := (apx*abx + apy*aby) / (abx*abx + aby*aby)
	if t <= 0 {
		return p.Distance(s.A)
	}
	if t >= 1 {
		return p.Distance(s.B)
	}
	return math.Abs(apx*aby-apy*abx) / math.Hypot(abx, aby)
}

// Contains reports whether p lies exactly on the segment, endpoints included.
// This is the "distance is zero" test without any floating point rounding.
func (s LineSegment) Contains(p Point) bool {
	if s.A == s.B {
		return p == s.A
	}
	AB := s.B.Minus(s.A)
	AP := p.Minus(s.A)
	if AP.CrossProductZ(AB).Sign() != 0 {
		return false
	}
	// collinear; p must be between A and B
	if AP.DotProduct(AB).Sign() < 0 {
		return false
	}
	BP := p.Minus(s.B)
	return BP.DotProduct(AB).Sign() <= 0
}

func (s LineSegment) Bounds() Rectangle {
	return Rectangle{
		Min: Point{X: min(s.A.X, s.B.X), Y: min(s.A.Y, s.B.Y)},
		Max: Point{X: max(s.A.X, s.B.X), Y: max(s.A.Y, s.B.Y)},
	}
}

// RectAround returns the rectangle centered on c with the given half sizes.
func RectAround(c Point, halfWidth, halfHeight Length) Rectangle {
	return Rectangle{
		Min: Point{X: c.X - halfWidth, Y: c.Y - halfHeight},
		Max: Point{X: c.X + halfWidth, Y: c.Y + halfHeight},
	}
}

func (r Rectangle) Contains(p Point) bool {
	return r.Min.X <= p.X && p.X <= r.Max.X &&
		r.Min.Y <= p.Y && p.Y <= r.Max.Y
}

// Grow returns the rectangle enlarged by d on every side.
func (r Rectangle) Grow(d Length) Rectangle {
	return Rectangle{
		Min: Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Point{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}
