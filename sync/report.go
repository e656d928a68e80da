package sync

import (
	"fmt"
	"io"
)

// Reporter writes user-facing progress lines with a level prefix.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a Reporter writing to w. A nil writer discards output.
func NewReporter(w io.Writer) Reporter {
	if w == nil {
		w = io.Discard
	}

	return Reporter{w: w}
}

func (r Reporter) Info(format string, args ...any) {
	r.write("[INFO]", format, args...)
}

func (r Reporter) Success(format string, args ...any) {
	r.write("[SUCCESS]", format, args...)
}

func (r Reporter) Warning(format string, args ...any) {
	r.write("[WARNING]", format, args...)
}

func (r Reporter) Error(format string, args ...any) {
	r.write("[ERROR]", format, args...)
}

func (r Reporter) write(prefix, format string, args ...any) {
	fmt.Fprintf(r.w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
