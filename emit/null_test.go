package emit

import (
	"context"
	"testing"
)

func TestNullEmitter(t *testing.T) {
	n := NewNullEmitter()
	n.Emit(Event{CompileID: "c1", Msg: "noop"})
	if err := n.EmitBatch(context.Background(), []Event{{Msg: "a"}, {Msg: "b"}}); err != nil {
		t.Errorf("EmitBatch returned error: %v", err)
	}
	if err := n.Flush(context.Background()); err != nil {
		t.Errorf("Flush returned error: %v", err)
	}
}
