package driver

import (
	"fmt"
	"image"
	"os"

	// Register the decoders for LoadTexture.
	_ "image/jpeg"
	_ "image/png"

	"github.com/hajimehoshi/ebiten/v2"
)

// Texture is a drawable surface. Draw operations queue as plain data and
// apply to the backing image on [Texture.Flush]; the window loop flushes the
// window canvas automatically after each update.
//
// The backing image is allocated lazily, so textures can be built and queued
// against before any graphics context exists.
type Texture struct {
	width, height int
	img           *ebiten.Image
	source        image.Image // decoded pixels awaiting upload, LoadTexture only
	queue         []drawCommand
}

type drawCommand struct {
	clear      bool
	r, g, b, a float32
	src        *Texture
	vertices   []ebiten.Vertex
	indices    []uint32
}

// NewTexture creates a blank texture of the given size.
func NewTexture(width, height int) *Texture {
	return &Texture{width: width, height: height}
}

// LoadTexture reads a PNG or JPEG file into a texture.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("driver: open texture: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("driver: decode texture %s: %w", path, err)
	}
	bounds := src.Bounds()
	return &Texture{
		width:  bounds.Dx(),
		height: bounds.Dy(),
		source: src,
	}, nil
}

// Size returns the texture dimensions in pixels.
func (t *Texture) Size() (width, height int) {
	return t.width, t.height
}

// AddClear queues a fill of the whole texture with the given color.
// Components are in [0, 1].
func (t *Texture) AddClear(r, g, b, a float32) {
	t.queue = append(t.queue, drawCommand{clear: true, r: r, g: g, b: b, a: a})
}

// AddDraw queues a textured triangle draw. The vertices reference src's
// pixel coordinates; indices triple into vertices.
func (t *Texture) AddDraw(src *Texture, vertices []ebiten.Vertex, indices []uint32) {
	t.queue = append(t.queue, drawCommand{src: src, vertices: vertices, indices: indices})
}

// Pending returns the number of queued operations not yet flushed.
func (t *Texture) Pending() int {
	return len(t.queue)
}

// Flush applies every queued operation to the backing image in order and
// empties the queue.
func (t *Texture) Flush() {
	if len(t.queue) == 0 {
		return
	}
	img := t.image()
	for _, cmd := range t.queue {
		if cmd.clear {
			img.Fill(colorOf(cmd.r, cmd.g, cmd.b, cmd.a))
			continue
		}
		var op ebiten.DrawTrianglesOptions
		img.DrawTriangles32(cmd.vertices, cmd.indices, cmd.src.image(), &op)
	}
	t.queue = t.queue[:0]
}

// Resize reallocates the texture at a new size. Pending operations and
// existing contents are dropped.
func (t *Texture) Resize(width, height int) {
	t.width, t.height = width, height
	t.queue = nil
	t.source = nil
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
}

// Destroy releases the backing image. The texture must not be used
// afterwards.
func (t *Texture) Destroy() {
	t.queue = nil
	t.source = nil
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
}

// Image exposes the backing ebiten image, allocating it on first use. For
// callers integrating with their own ebiten.Game loop.
func (t *Texture) Image() *ebiten.Image {
	return t.image()
}

func (t *Texture) image() *ebiten.Image {
	if t.img == nil {
		if t.source != nil {
			t.img = ebiten.NewImageFromImage(t.source)
			t.source = nil
		} else {
			t.img = ebiten.NewImage(t.width, t.height)
		}
	}
	return t.img
}

func colorOf(r, g, b, a float32) color {
	return color{r, g, b, a}
}

// color adapts float components to image/color.Color for Fill.
type color struct {
	r, g, b, a float32
}

func (c color) RGBA() (r, g, b, a uint32) {
	const max = 0xffff
	return uint32(c.r * max), uint32(c.g * max), uint32(c.b * max), uint32(c.a * max)
}
