// Package graphics provides an abstraction over the windowed viewer so the
// core itself never depends on a presentation library. A headless backend
// needs no third-party dependency; the ebitengine backend wires the
// teacher's own windowing stack (github.com/hajimehoshi/ebiten/v2) into
// this module's cmd/ harness.
package graphics

// Backend creates and tears down a rendering surface for the core's
// 256x224 framebuffer.
type Backend interface {
	Initialize(cfg Config) error
	CreateWindow(title string, width, height int) (Window, error)
	Cleanup() error
	IsHeadless() bool
	GetName() string
}

// Window presents one core frame per RenderFrame call.
type Window interface {
	SetTitle(title string)
	GetSize() (width, height int)
	ShouldClose() bool
	RenderFrame(frameBuffer []uint32) error
	Cleanup() error
}

// Config configures a Backend's window.
type Config struct {
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	VSync        bool
	Headless     bool
}

// BackendType names one of the available Backend implementations.
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
)

// NewBackend constructs a Backend of the named type, defaulting to
// ebitengine for any unrecognized value.
func NewBackend(backendType BackendType) Backend {
	switch backendType {
	case BackendHeadless:
		return NewHeadlessBackend()
	default:
		return NewEbitengineBackend()
	}
}
