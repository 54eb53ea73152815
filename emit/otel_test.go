package emit

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return sr, tp
}

func TestOTelEmitterEmit(t *testing.T) {
	sr, tp := newRecordingTracer()
	o := NewOTelEmitter(tp.Tracer("test"))

	o.Emit(Event{
		CompileID: "c1",
		Phase:     "syntactic",
		NodeID:    "n1",
		Msg:       "node check",
		Meta:      map[string]interface{}{"code": "SYN001", "count": 3},
	})

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	if spans[0].Name() != "node check" {
		t.Errorf("span name = %q, want %q", spans[0].Name(), "node check")
	}

	attrs := make(map[string]bool)
	for _, a := range spans[0].Attributes() {
		attrs[string(a.Key)] = true
	}
	for _, want := range []string{"pxyzc.compile_id", "pxyzc.phase", "pxyzc.node_id", "code", "count"} {
		if !attrs[want] {
			t.Errorf("missing attribute %q among %v", want, attrs)
		}
	}
}

func TestOTelEmitterEmitBatch(t *testing.T) {
	sr, tp := newRecordingTracer()
	o := NewOTelEmitter(tp.Tracer("test"))

	err := o.EmitBatch(context.Background(), []Event{{Msg: "a"}, {Msg: "b"}})
	if err != nil {
		t.Fatalf("EmitBatch: %v", err)
	}
	if len(sr.Ended()) != 2 {
		t.Fatalf("expected 2 ended spans, got %d", len(sr.Ended()))
	}
}

func TestOTelEmitterRecordsErrorStatus(t *testing.T) {
	sr, tp := newRecordingTracer()
	o := NewOTelEmitter(tp.Tracer("test"))

	o.Emit(Event{Msg: "failing step", Meta: map[string]interface{}{"error": "boom"}})

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	if spans[0].Status().Code.String() != "Error" {
		t.Errorf("status = %v, want Error", spans[0].Status())
	}
}
