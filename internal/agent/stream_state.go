package agent

// analysisMarker replaces a suppressed planning preamble when the model
// starts a tool call despite the no-preamble instruction.
const analysisMarker = "\n\n*Analyzing document...*\n\n"

type streamState int

const (
	// statePreTool buffers content until we know whether it is a planning
	// preamble (a tool call follows) or the start of a direct answer.
	statePreTool streamState = iota
	// statePostTool forwards every token unmodified.
	statePostTool
)

// streamFilter decides, token by token, what the client actually sees.
// Before the first tool call, content is held back; once the buffer grows
// past threshold runes the model is evidently answering directly, so the
// buffer is flushed and the filter goes transparent. A tool call arriving
// while the buffer is still held discards it as preamble.
type streamFilter struct {
	state     streamState
	threshold int
	buf       []rune
	emit      func(string) error
}

func newStreamFilter(threshold int, emit func(string) error) *streamFilter {
	return &streamFilter{
		state:     statePreTool,
		threshold: threshold,
		emit:      emit,
	}
}

// OnToken handles one content delta from the model stream.
func (f *streamFilter) OnToken(token string) error {
	if f.state == statePostTool {
		return f.emit(token)
	}

	f.buf = append(f.buf, []rune(token)...)
	if len(f.buf) >= f.threshold {
		return f.flush()
	}
	return nil
}

// OnToolStart handles the transition into tool execution. Buffered content
// is preamble by definition at this point and is dropped; showMarker
// controls whether the fixed analysis notice goes out in its place.
func (f *streamFilter) OnToolStart(showMarker bool) error {
	f.buf = nil
	f.state = statePostTool
	if !showMarker {
		return nil
	}
	return f.emit(analysisMarker)
}

// Finish flushes whatever is still buffered. A short answer with no tool
// call sits entirely under the threshold and only reaches the client here.
func (f *streamFilter) Finish() error {
	if f.state == statePreTool && len(f.buf) > 0 {
		return f.flush()
	}
	return nil
}

func (f *streamFilter) flush() error {
	content := string(f.buf)
	f.buf = nil
	f.state = statePostTool
	return f.emit(content)
}
