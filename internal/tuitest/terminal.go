package tuitest

import (
	"bytes"
	"io"
)

// query is a terminal request and the canned reply a real emulator would
// give. Programs that probe the terminal would otherwise hang on a PTY.
type query struct {
	ask   []byte
	reply []byte
}

var queries = []query{
	{ask: []byte("\x1b[6n"), reply: []byte("\x1b[1;1R")},
	{ask: []byte("\x1b[c"), reply: []byte("\x1b[?62;22c")},
	{ask: []byte("\x1b[0c"), reply: []byte("\x1b[?62;22c")},
	{ask: []byte("\x1b]10;?\x07"), reply: []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{ask: []byte("\x1b]10;?\x1b\\"), reply: []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{ask: []byte("\x1b]11;?\x07"), reply: []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{ask: []byte("\x1b]11;?\x1b\\"), reply: []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, 128)}
}

// Process answers every query found in chunk, including queries split across
// chunks.
func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerFirst() {
	}
	// Keep a small tail so we can detect sequences that span reads.
	if len(tr.buf) > 256 {
		tr.buf = tr.buf[len(tr.buf)-64:]
	}
}

// answerFirst replies to the earliest query in the buffer and drops
// everything up to its end.
func (tr *terminalResponder) answerFirst() bool {
	first, at := -1, -1
	for i, q := range queries {
		idx := bytes.Index(tr.buf, q.ask)
		if idx >= 0 && (at < 0 || idx < at) {
			first, at = i, idx
		}
	}
	if first < 0 {
		return false
	}
	q := queries[first]
	tr.buf = tr.buf[at+len(q.ask):]
	_, _ = tr.w.Write(q.reply)
	return true
}
