package game

import (
	"encoding/json"
	"testing"
	"time"
)

// waitEvent reads from ch until an envelope of the wanted type arrives,
// discarding everything else.
func waitEvent(t *testing.T, ch chan []byte, event string) json.RawMessage {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-ch:
			var env Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				t.Fatalf("bad envelope: %v", err)
			}
			if env.Type == event {
				return env.Data
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", event)
		}
	}
}

// expectSilence fails if any envelope of the given type shows up within the
// grace window.
func expectSilence(t *testing.T, ch chan []byte, event string) {
	t.Helper()
	deadline := time.After(50 * time.Millisecond)
	for {
		select {
		case msg := <-ch:
			var env Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				t.Fatalf("bad envelope: %v", err)
			}
			if env.Type == event {
				t.Fatalf("unexpected %s event", event)
			}
		case <-deadline:
			return
		}
	}
}

func decodeInto(t *testing.T, data json.RawMessage, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
}
