package graphics

// HeadlessBackend discards every frame. It needs no third-party dependency.
// The CLI's -headless mode does not use it: that mode runs the core without
// any backend.
type HeadlessBackend struct{}

func NewHeadlessBackend() *HeadlessBackend { return &HeadlessBackend{} }

func (h *HeadlessBackend) Initialize(cfg Config) error { return nil }

func (h *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	return &headlessWindow{width: width, height: height}, nil
}

func (h *HeadlessBackend) Cleanup() error  { return nil }
func (h *HeadlessBackend) IsHeadless() bool { return true }
func (h *HeadlessBackend) GetName() string  { return "headless" }

type headlessWindow struct {
	title         string
	width, height int
}

func (w *headlessWindow) SetTitle(title string)     { w.title = title }
func (w *headlessWindow) GetSize() (int, int)        { return w.width, w.height }
func (w *headlessWindow) ShouldClose() bool          { return false }
func (w *headlessWindow) RenderFrame(_ []uint32) error { return nil }
func (w *headlessWindow) Cleanup() error              { return nil }
