// Package graphics: ebitengine-backed windowed viewer.
package graphics

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	coreFrameWidth  = 256
	coreFrameHeight = 224
)

// EbitengineBackend implements Backend using github.com/hajimehoshi/ebiten/v2.
type EbitengineBackend struct {
	initialized bool
	config      Config
}

func NewEbitengineBackend() *EbitengineBackend { return &EbitengineBackend{} }

func (b *EbitengineBackend) Initialize(cfg Config) error {
	if b.initialized {
		return fmt.Errorf("ebitengine backend already initialized")
	}
	b.config = cfg
	b.initialized = true
	return nil
}

func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}
	if b.config.Headless {
		return nil, fmt.Errorf("cannot create window in headless mode")
	}

	game := &ebitengineGame{
		windowWidth:  width,
		windowHeight: height,
		frameImage:   ebiten.NewImage(coreFrameWidth, coreFrameHeight),
		imageBuffer:  image.NewRGBA(image.Rect(0, 0, coreFrameWidth, coreFrameHeight)),
	}
	win := &EbitengineWindow{title: title, width: width, height: height, game: game, running: true}
	game.window = win

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(b.config.VSync)

	return win, nil
}

func (b *EbitengineBackend) Cleanup() error  { b.initialized = false; return nil }
func (b *EbitengineBackend) IsHeadless() bool { return b.config.Headless }
func (b *EbitengineBackend) GetName() string  { return "ebitengine" }

// EbitengineWindow implements Window over an ebiten.Game.
type EbitengineWindow struct {
	title         string
	width, height int
	game          *ebitengineGame
	running       bool
}

func (w *EbitengineWindow) SetTitle(title string) {
	w.title = title
	ebiten.SetWindowTitle(title)
}

func (w *EbitengineWindow) GetSize() (int, int) { return w.width, w.height }
func (w *EbitengineWindow) ShouldClose() bool    { return !w.running }

func (w *EbitengineWindow) RenderFrame(frameBuffer []uint32) error {
	if w.game == nil {
		return fmt.Errorf("game not initialized")
	}
	if len(frameBuffer) != coreFrameWidth*coreFrameHeight {
		return fmt.Errorf("frame buffer has %d words, want %d", len(frameBuffer), coreFrameWidth*coreFrameHeight)
	}

	img := w.game.imageBuffer
	for y := 0; y < coreFrameHeight; y++ {
		for x := 0; x < coreFrameWidth; x++ {
			pixel := frameBuffer[y*coreFrameWidth+x]
			r := uint8((pixel >> 16) & 0xFF)
			g := uint8((pixel >> 8) & 0xFF)
			bl := uint8(pixel & 0xFF)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: bl, A: 255})
		}
	}
	w.game.frameImage.ReplacePixels(img.Pix)
	return nil
}

func (w *EbitengineWindow) Cleanup() error {
	w.running = false
	return nil
}

// Run starts the ebiten game loop; it blocks until the window closes.
func (w *EbitengineWindow) Run() error {
	if w.game == nil {
		return fmt.Errorf("game not initialized")
	}
	if err := ebiten.RunGame(w.game); err != nil && err != errWindowClosed {
		return err
	}
	return nil
}

// SetStepFunc installs the per-frame callback that advances the core.
func (w *EbitengineWindow) SetStepFunc(step func() error) {
	w.game.stepFunc = step
}

type ebitengineGame struct {
	window       *EbitengineWindow
	frameImage   *ebiten.Image
	imageBuffer  *image.RGBA
	windowWidth  int
	windowHeight int
	stepFunc     func() error
}

// errWindowClosed is returned from Update to stop ebiten.RunGame when the
// user presses Escape; RunGame propagates any non-nil Update error to its
// caller, so Run() treats this one as a clean exit.
var errWindowClosed = fmt.Errorf("window closed")

func (g *ebitengineGame) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.window.running = false
		return errWindowClosed
	}
	if g.stepFunc != nil {
		return g.stepFunc()
	}
	return nil
}

func (g *ebitengineGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0, G: 0, B: 0, A: 255})

	op := &ebiten.DrawImageOptions{}
	scaleX := float64(g.windowWidth) / float64(coreFrameWidth)
	scaleY := float64(g.windowHeight) / float64(coreFrameHeight)
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}
	offsetX := (float64(g.windowWidth) - float64(coreFrameWidth)*scale) / 2
	offsetY := (float64(g.windowHeight) - float64(coreFrameHeight)*scale) / 2
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)

	screen.DrawImage(g.frameImage, op)
}

func (g *ebitengineGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.windowWidth = outsideWidth
	g.windowHeight = outsideHeight
	return outsideWidth, outsideHeight
}
