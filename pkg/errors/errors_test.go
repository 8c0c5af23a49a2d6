package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"time"
)

type testHandler struct {
	onError func(*BreezeError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *BreezeError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func TestBreezeErrorString(t *testing.T) {
	err := &BreezeError{
		Op:   "app.Tick",
		Kind: KindOperation,
		Err:  stderrors.New("boom"),
	}
	want := "app.Tick [operation]: boom"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !stderrors.Is(err, err.Err) {
		t.Error("expected BreezeError to unwrap to its cause")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindConfig, "config"},
		{KindOperation, "operation"},
		{KindPanic, "panic"},
		{KindRender, "render"},
		{KindPlatform, "platform"},
		{KindInit, "init"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestConfigErrorIs(t *testing.T) {
	err := error(&ConfigError{Kind: TypeMismatch, Property: "Element::Width", Detail: "string is not float64"})

	if !stderrors.Is(err, &ConfigError{Kind: TypeMismatch}) {
		t.Error("expected match on same kind")
	}
	if !stderrors.Is(err, &ConfigError{}) {
		t.Error("expected zero-kind target to match any config error")
	}
	if stderrors.Is(err, &ConfigError{Kind: DuplicateProperty}) {
		t.Error("expected no match on different kind")
	}
	if !strings.Contains(err.Error(), "Element::Width") {
		t.Errorf("error %q should name the property", err.Error())
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}

	err.Op = "dispatcher.Process"
	if got, want := err.Error(), "panic in dispatcher.Process: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestAggregateError(t *testing.T) {
	first := stderrors.New("first")
	agg := &AggregateError{
		Phase: "render-pre",
		Failures: []*OperationError{
			{ID: "a", Priority: "render-pre", Err: first, CreationTrace: "main.main\n\tmain.go:10\n"},
			{ID: "b", Priority: "render-pre", Err: stderrors.New("second")},
		},
	}

	msg := agg.Error()
	for _, want := range []string{"2 operation(s)", "render-pre", "first", "second", "creation stack trace", "main.go:10"} {
		if !strings.Contains(msg, want) {
			t.Errorf("aggregate message %q missing %q", msg, want)
		}
	}
	if !stderrors.Is(agg, first) {
		t.Error("expected aggregate to unwrap to member failures")
	}
}

func TestReportToStampsTime(t *testing.T) {
	var captured *BreezeError
	old := DefaultHandler
	SetHandler(&testHandler{onError: func(err *BreezeError) { captured = err }})
	defer SetHandler(old)

	ReportTo(nil, &BreezeError{Op: "test.op", Kind: KindInit, Err: stderrors.New("x")})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportToPrefersExplicitHandler(t *testing.T) {
	var global, local int
	old := DefaultHandler
	SetHandler(&testHandler{onError: func(*BreezeError) { global++ }})
	defer SetHandler(old)

	ReportTo(&testHandler{onError: func(*BreezeError) { local++ }}, &BreezeError{Op: "x"})
	ReportTo(nil, &BreezeError{Op: "y"})

	if local != 1 || global != 1 {
		t.Errorf("local=%d global=%d, want 1 and 1", local, global)
	}
}

func TestRecoverTo(t *testing.T) {
	var global, local *PanicError
	old := DefaultHandler
	SetHandler(&testHandler{onPanic: func(err *PanicError) { global = err }})
	defer SetHandler(old)

	var seen *PanicError
	func() {
		defer RecoverTo(&testHandler{onPanic: func(err *PanicError) { local = err }}, "test.recover", func(err *PanicError) {
			seen = err
		})
		panic("intentional test panic")
	}()

	if global != nil {
		t.Error("panic reached the global handler")
	}
	if local == nil || local.Op != "test.recover" || local.Value != "intentional test panic" {
		t.Fatalf("local handler got %+v", local)
	}
	if seen != local {
		t.Error("callback did not receive the reported error")
	}
	if local.StackTrace == "" {
		t.Error("expected a stack trace")
	}
}

func TestRecoverToWithoutPanic(t *testing.T) {
	called := false
	func() {
		defer RecoverTo(&testHandler{onPanic: func(*PanicError) { called = true }}, "noop", func(*PanicError) { called = true })
	}()
	if called {
		t.Error("RecoverTo reported without a panic")
	}
}

func TestRecoverToGlobalFallback(t *testing.T) {
	var captured *PanicError
	old := DefaultHandler
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(old)

	func() {
		defer RecoverTo(nil, "global", nil)
		panic(stderrors.New("boom"))
	}()
	if captured == nil || captured.Op != "global" {
		t.Fatalf("captured = %+v", captured)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandlerVerbose(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Verbose: true, Out: &buf}
	h.HandleError(&BreezeError{Op: "render", Kind: KindRender, Err: stderrors.New("bad"), StackTrace: "frame"})
	h.HandlePanic(&PanicError{Op: "tick", Value: "oops"})

	out := buf.String()
	for _, want := range []string{"[breeze error] render [render]: bad", "Stack trace:", "[breeze panic] tick: oops"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}
