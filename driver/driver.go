// Package driver hosts the window loop and texture resources for tgm games.
//
// The core scene graph is renderer-agnostic; this package supplies the
// concrete driver on [Ebitengine]: a window with polled input state, an
// update tick, and textures that queue draw operations until flushed. Game
// code receives the tick through the update function passed to [Window.Run]
// and typically forwards it into the graph as update events.
//
// [Ebitengine]: https://ebitengine.org
package driver

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	defaultWidth  = 640
	defaultHeight = 480
	defaultFPS    = 60
)

// Config holds optional window configuration for [Open].
type Config struct {
	// Caption sets the window title. Ignored on platforms without a title
	// bar.
	Caption string
	// Width and Height set the window size in device-independent pixels.
	// If zero, defaults to 640x480.
	Width, Height int
	// FPS sets the tick rate of the update function. If zero, defaults
	// to 60.
	FPS int
	// Resizable allows the user to resize the window.
	Resizable bool
}

// normalize fills zero fields with their defaults.
func (c Config) normalize() Config {
	if c.Width == 0 {
		c.Width = defaultWidth
	}
	if c.Height == 0 {
		c.Height = defaultHeight
	}
	if c.FPS == 0 {
		c.FPS = defaultFPS
	}
	return c
}

// UpdateFunc is called once per tick with the tick duration in seconds.
// Returning a non-nil error stops the loop and propagates out of Run.
type UpdateFunc func(dt float64) error

// Window is the game window: a drawing canvas plus the input state polled at
// the start of every tick. Fields are refreshed before the update function
// runs, so reads during update see the current frame.
type Window struct {
	cfg    Config
	canvas *Texture

	// MouseX and MouseY are the cursor position in window pixels.
	MouseX, MouseY float64

	mouseButtons map[ebiten.MouseButton]bool
	keys         []ebiten.Key
}

// Open creates a window with the given configuration. The window appears
// when [Window.Run] starts the loop.
func Open(cfg Config) *Window {
	cfg = cfg.normalize()
	return &Window{
		cfg:          cfg,
		canvas:       NewTexture(cfg.Width, cfg.Height),
		mouseButtons: make(map[ebiten.MouseButton]bool),
	}
}

// Canvas returns the texture the window presents each frame. Queue draws on
// it during update; the loop flushes and presents it after update returns.
func (w *Window) Canvas() *Texture {
	return w.canvas
}

// SetCaption changes the window title.
func (w *Window) SetCaption(caption string) {
	w.cfg.Caption = caption
	ebiten.SetWindowTitle(caption)
}

// Caption returns the current window title.
func (w *Window) Caption() string {
	return w.cfg.Caption
}

// MouseDown reports whether the given mouse button is held.
func (w *Window) MouseDown(b ebiten.MouseButton) bool {
	return w.mouseButtons[b]
}

// KeyDown reports whether the given key is held.
func (w *Window) KeyDown(k ebiten.Key) bool {
	for _, held := range w.keys {
		if held == k {
			return true
		}
	}
	return false
}

// Run opens the window and drives the update loop at the configured FPS
// until the update function returns an error or the window closes.
//
// For full control over the game loop, skip Run and implement ebiten.Game
// yourself, flushing textures manually.
func (w *Window) Run(update UpdateFunc) error {
	ebiten.SetWindowSize(w.cfg.Width, w.cfg.Height)
	if w.cfg.Caption != "" {
		ebiten.SetWindowTitle(w.cfg.Caption)
	}
	if w.cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(w.cfg.FPS)
	return ebiten.RunGame(&gameShell{window: w, update: update})
}

// gameShell implements ebiten.Game by delegating to a Window.
type gameShell struct {
	window *Window
	update UpdateFunc
}

func (g *gameShell) Update() error {
	g.window.pollInput()
	return g.update(1.0 / float64(ebiten.TPS()))
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	canvas := g.window.canvas
	canvas.Flush()
	if canvas.img != nil {
		screen.DrawImage(canvas.img, nil)
	}
}

func (g *gameShell) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.window.cfg.Width, g.window.cfg.Height
}

// pollInput refreshes the window's input state for the coming tick.
func (w *Window) pollInput() {
	x, y := ebiten.CursorPosition()
	w.MouseX, w.MouseY = float64(x), float64(y)

	for _, b := range []ebiten.MouseButton{
		ebiten.MouseButtonLeft, ebiten.MouseButtonRight, ebiten.MouseButtonMiddle,
	} {
		w.mouseButtons[b] = ebiten.IsMouseButtonPressed(b)
	}
	w.keys = inpututil.AppendPressedKeys(w.keys[:0])
}
