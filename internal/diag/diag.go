// Copyright 2026 The SIN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag collects warnings and notes emitted during compilation so
// they can be flushed in source order once a translation unit finishes,
// rather than being printed ad hoc mid-compile. Compilation stages
// never write to stderr directly; they report through a narrow
// interface the driver owns.
package diag

import (
	"fmt"
	"io"

	"github.com/rlannon/sinc/internal/sinerr"
)

// Sink accumulates diagnostics in emission order.
type Sink struct {
	entries []*sinerr.Error
}

// NewSink returns an empty Sink.
func NewSink() *Sink { return &Sink{} }

// Report records a warning or note. Hard errors are never routed through
// Report — they're returned as Go errors and abort compilation.
func (s *Sink) Report(e *sinerr.Error) {
	s.entries = append(s.entries, e)
}

// Warnf is a convenience wrapper around Report(sinerr.Warn(...)).
func (s *Sink) Warnf(line int, code sinerr.Code, format string, args ...interface{}) {
	s.Report(sinerr.Warn(line, code, format, args...))
}

// Notef is a convenience wrapper around Report(sinerr.Note(...)).
func (s *Sink) Notef(line int, format string, args ...interface{}) {
	s.Report(sinerr.Note(line, format, args...))
}

// Len reports how many diagnostics have been recorded.
func (s *Sink) Len() int { return len(s.entries) }

// Entries returns the recorded diagnostics in emission order.
func (s *Sink) Entries() []*sinerr.Error { return s.entries }

// Flush writes every recorded diagnostic to w, one per line, and clears
// the sink.
func (s *Sink) Flush(w io.Writer) {
	for _, e := range s.entries {
		fmt.Fprintln(w, e.Error())
	}
	s.entries = s.entries[:0]
}
