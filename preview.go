package shadergraph

import "github.com/hajimehoshi/ebiten/v2"

// PreviewTexture is a persistent GPU image showing a simulated matrix. It is
// owned by the caller and reused across updates.
type PreviewTexture struct {
	image *ebiten.Image
	w, h  int
}

// NewPreviewTexture creates a preview texture of the given size in pixels.
func NewPreviewTexture(w, h int) *PreviewTexture {
	w, h = max(w, 1), max(h, 1)
	return &PreviewTexture{image: ebiten.NewImage(w, h), w: w, h: h}
}

// Image returns the underlying *ebiten.Image.
func (pt *PreviewTexture) Image() *ebiten.Image {
	return pt.image
}

// Width returns the texture width in pixels.
func (pt *PreviewTexture) Width() int {
	return pt.w
}

// Height returns the texture height in pixels.
func (pt *PreviewTexture) Height() int {
	return pt.h
}

// Update uploads m scaled to the texture size. Failed simulations show as a
// magenta square.
func (pt *PreviewTexture) Update(m *Matrix) {
	pt.image.WritePixels(m.Preview(pt.w, pt.h).Pix)
}

// Clear fills the texture with transparent black.
func (pt *PreviewTexture) Clear() {
	pt.image.Clear()
}

// DrawAt draws the texture onto dst with its top-left corner at (x, y).
func (pt *PreviewTexture) DrawAt(dst *ebiten.Image, x, y float64) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(x, y)
	dst.DrawImage(pt.image, &op)
}

// Dispose releases the GPU image. The texture must not be used afterwards.
func (pt *PreviewTexture) Dispose() {
	pt.image.Deallocate()
}
