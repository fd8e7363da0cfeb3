package shadergraph

import (
	"fmt"
	"image"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/draw"
)

// Matrix is a dense grid of typed per-pixel values produced by the simulator.
// Cells are stored row-major and always hold values of Type.
type Matrix struct {
	Width, Height int
	Type          ValueType
	Cells         []Value
	Err           error // set on the degenerate 1x1 result of a failed simulation
}

// NewMatrix returns a width x height matrix filled with the zero value of t.
func NewMatrix(width, height int, t ValueType) *Matrix {
	return UniformMatrix(width, height, Zero(t))
}

// UniformMatrix returns a width x height matrix with every cell set to v.
func UniformMatrix(width, height int, v Value) *Matrix {
	width, height = max(width, 1), max(height, 1)
	m := &Matrix{Width: width, Height: height, Type: v.Type(), Cells: make([]Value, width*height)}
	for i := range m.Cells {
		m.Cells[i] = v
	}
	return m
}

// ErrorMatrix returns the 1x1 result of a failed simulation. It renders as
// ColorMagenta.
func ErrorMatrix(err error) *Matrix {
	m := UniformMatrix(1, 1, Vec4{1, 0, 1, 1})
	m.Err = err
	return m
}

// At returns the value at (x, y). Coordinates are clamped to the grid.
func (m *Matrix) At(x, y int) Value {
	x = min(max(x, 0), m.Width-1)
	y = min(max(y, 0), m.Height-1)
	return m.Cells[y*m.Width+x]
}

// Set stores v at (x, y), normalized to the matrix type.
func (m *Matrix) Set(x, y int, v Value) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Cells[y*m.Width+x] = NormalizeValue(v, m.Type)
}

// Coerce returns the matrix converted cell by cell to type t. The receiver is
// returned unchanged when it already has type t.
func (m *Matrix) Coerce(t ValueType) *Matrix {
	if m.Type == t {
		return m
	}
	out := &Matrix{Width: m.Width, Height: m.Height, Type: t, Cells: make([]Value, len(m.Cells)), Err: m.Err}
	for i, v := range m.Cells {
		out.Cells[i] = Coerce(v, t)
	}
	return out
}

// Uniform reports whether every cell holds the same value.
func (m *Matrix) Uniform() bool {
	for _, v := range m.Cells[1:] {
		if v != m.Cells[0] {
			return false
		}
	}
	return true
}

// --- Colorization ---

// ColorOf maps a single value to its preview color: bool to white or black,
// scalars to clamped grayscale, vec2 to red/green, vec3 to RGB and vec4 to
// its RGB premultiplied by alpha, drawn opaque.
func ColorOf(v Value) Color {
	switch x := v.(type) {
	case Bool:
		if x {
			return ColorWhite
		}
		return ColorBlack
	case Int:
		g := float64(x)
		return Color{g, g, g, 1}
	case UInt:
		g := float64(x)
		return Color{g, g, g, 1}
	case Float:
		g := float64(x)
		return Color{g, g, g, 1}
	case Vec2:
		return Color{float64(x[0]), float64(x[1]), 0, 1}
	case Vec3:
		return Color{float64(x[0]), float64(x[1]), float64(x[2]), 1}
	case Vec4:
		a := clamp01(float64(x[3]))
		return Color{float64(x[0]) * a, float64(x[1]) * a, float64(x[2]) * a, 1}
	}
	return ColorMagenta
}

// Image renders the matrix at one image pixel per cell.
func (m *Matrix) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	if m.Err != nil {
		img.SetRGBA(0, 0, ColorMagenta.RGBA())
		return img
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			img.SetRGBA(x, y, ColorOf(m.Cells[y*m.Width+x]).RGBA())
		}
	}
	return img
}

// Preview renders the matrix scaled to width x height with nearest-neighbour
// sampling, so each cell stays a crisp block.
func (m *Matrix) Preview(width, height int) *image.RGBA {
	src := m.Image()
	dst := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SavePNG writes the preview at the given size as a PNG file.
func (m *Matrix) SavePNG(path string, width, height int) error {
	if err := imgio.Save(path, m.Preview(width, height), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("shadergraph: save preview: %w", err)
	}
	return nil
}

// --- Summary ---

// Summary describes the matrix for display next to its preview. Bool and
// scalar matrices report their value when uniform and "varies" otherwise;
// vector matrices report the per-component average. Numbers use three
// decimals.
func (m *Matrix) Summary() string {
	if m.Err != nil {
		return "error"
	}
	switch m.Type {
	case TypeBool, TypeInt, TypeUInt, TypeFloat:
		if !m.Uniform() {
			return "varies"
		}
		return summarizeScalar(m.Cells[0])
	}

	var sum [4]float64
	n := m.Type.Components()
	for _, v := range m.Cells {
		c, _ := vectorComponents(v)
		for i := 0; i < n; i++ {
			sum[i] += float64(c[i])
		}
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%.3f", sum[i]/float64(len(m.Cells)))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func summarizeScalar(v Value) string {
	switch x := v.(type) {
	case Bool:
		return x.String()
	case Int:
		return fmt.Sprintf("%.3f", float64(x))
	case UInt:
		return fmt.Sprintf("%.3f", float64(x))
	case Float:
		return fmt.Sprintf("%.3f", float64(x))
	}
	return v.String()
}
