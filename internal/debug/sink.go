// Package debug provides the diagnostic sink that the core's CPU, Bus and
// PPU write through instead of calling fmt/log directly.
package debug

import "log"

// Sink receives diagnostic output from the core. Warnf reports conditions
// worth a developer's attention (unknown opcode, bus anomaly); Tracef
// reports optional per-instruction trace output.
type Sink interface {
	Warnf(format string, args ...any)
	Tracef(format string, args ...any)
}

// NullSink discards everything. It is the zero-value default for CPU, Bus
// and PPU, so a core constructed without a sink stays silent rather than
// panicking or writing to stdout.
type NullSink struct{}

func (NullSink) Warnf(format string, args ...any)  {}
func (NullSink) Tracef(format string, args ...any) {}

// StdSink writes warnings always and trace lines only when Trace is true,
// through a standard *log.Logger.
type StdSink struct {
	Logger *log.Logger
	Trace  bool
}

// NewStdSink wraps logger, enabling trace output if trace is true. A nil
// logger falls back to log.Default().
func NewStdSink(logger *log.Logger, trace bool) *StdSink {
	if logger == nil {
		logger = log.Default()
	}
	return &StdSink{Logger: logger, Trace: trace}
}

func (s *StdSink) Warnf(format string, args ...any) {
	s.Logger.Printf("WARN "+format, args...)
}

func (s *StdSink) Tracef(format string, args ...any) {
	if !s.Trace {
		return
	}
	s.Logger.Printf("TRACE "+format, args...)
}
