package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler receives reports that name no handler of their own.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler replaces the global handler. Nil restores a plain LogHandler.
func SetHandler(h ErrorHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		h = &LogHandler{}
	}
	DefaultHandler = h
}

// Handler returns h, or the global handler when h is nil.
func Handler(h ErrorHandler) ErrorHandler {
	if h != nil {
		return h
	}
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// ReportTo sends err to h, or to the global handler when h is nil. A zero
// Timestamp is stamped with the current time.
func ReportTo(h ErrorHandler, err *BreezeError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h = Handler(h); h != nil {
		h.HandleError(err)
	}
}

// ReportPanicTo sends err to h, or to the global handler when h is nil.
func ReportPanicTo(h ErrorHandler, err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h = Handler(h); h != nil {
		h.HandlePanic(err)
	}
}

// RecoverTo must be deferred directly. It recovers a panic, reports it to h
// as a PanicError named op and passes the error to onPanic, if set.
//
//	defer errors.RecoverTo(h, "app.message", nil)
func RecoverTo(h ErrorHandler, op string, onPanic func(*PanicError)) {
	r := recover()
	if r == nil {
		return
	}
	perr := &PanicError{
		Op:         op,
		Value:      r,
		StackTrace: captureStack(3),
		Timestamp:  time.Now(),
	}
	ReportPanicTo(h, perr)
	if onPanic != nil {
		onPanic(perr)
	}
}

// CaptureStack returns the caller's stack, one "function\n\tfile:line" entry
// per frame.
func CaptureStack() string {
	return captureStack(3)
}

// CaptureStackSkip is CaptureStack with skip more frames hidden, for
// helpers that record their caller's stack.
func CaptureStackSkip(skip int) string {
	return captureStack(3 + skip)
}

func captureStack(skip int) string {
	const maxDepth = 32
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			return sb.String()
		}
	}
}
