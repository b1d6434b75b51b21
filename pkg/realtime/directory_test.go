package realtime

import "testing"

func TestDirectory_SetGet(t *testing.T) {
	d := NewDirectory()
	ch := make(chan []byte, 1)
	d.Set("u1", ch)

	got, ok := d.Get("u1")
	if !ok {
		t.Fatal("Get returned false for registered user")
	}
	if got != ch {
		t.Error("Get returned a different channel")
	}

	_, ok = d.Get("nobody")
	if ok {
		t.Error("Get should return false for unknown user")
	}
}

func TestDirectory_SendDeliversToUser(t *testing.T) {
	d := NewDirectory()
	ch := make(chan []byte, 1)
	d.Set("u1", ch)

	if !d.Send("u1", []byte("hello")) {
		t.Fatal("Send should return true for registered user")
	}
	if got := string(<-ch); got != "hello" {
		t.Errorf("got %q, want hello", got)
	}
}

func TestDirectory_SendAbsentUserIsNoop(t *testing.T) {
	d := NewDirectory()
	if d.Send("ghost", []byte("x")) {
		t.Error("Send should return false for absent user")
	}
}

func TestDirectory_SendFullChannelDrops(t *testing.T) {
	d := NewDirectory()
	ch := make(chan []byte, 1)
	d.Set("u1", ch)
	d.Send("u1", []byte("first"))

	if d.Send("u1", []byte("second")) {
		t.Error("Send to a full channel should drop and return false")
	}
	if got := string(<-ch); got != "first" {
		t.Errorf("got %q, want first", got)
	}
}

func TestDirectory_SetReplacesChannel(t *testing.T) {
	d := NewDirectory()
	old := make(chan []byte, 1)
	replacement := make(chan []byte, 1)
	d.Set("u1", old)
	d.Set("u1", replacement)

	d.Send("u1", []byte("msg"))
	select {
	case <-old:
		t.Error("message should not reach the replaced channel")
	default:
	}
	if got := string(<-replacement); got != "msg" {
		t.Errorf("got %q, want msg", got)
	}
}

func TestDirectory_RemoveClosesAndDeletes(t *testing.T) {
	d := NewDirectory()
	ch := make(chan []byte, 1)
	d.Set("u1", ch)
	d.Remove("u1", ch)

	if _, open := <-ch; open {
		t.Error("channel should be closed after Remove")
	}
	if _, ok := d.Get("u1"); ok {
		t.Error("entry should be gone after Remove")
	}
}

func TestDirectory_RemoveKeepsReconnectedEntry(t *testing.T) {
	d := NewDirectory()
	old := make(chan []byte, 1)
	d.Set("u1", old)
	replacement := make(chan []byte, 1)
	d.Set("u1", replacement)

	// The old connection tears down after the reconnect already replaced it.
	d.Remove("u1", old)

	got, ok := d.Get("u1")
	if !ok {
		t.Fatal("reconnected entry should survive stale Remove")
	}
	if got != replacement {
		t.Error("entry should still be the replacement channel")
	}
	if _, open := <-old; open {
		t.Error("stale channel should still be closed")
	}
}

func TestDirectory_Broadcast(t *testing.T) {
	d := NewDirectory()
	ch1 := make(chan []byte, 1)
	ch2 := make(chan []byte, 1)
	d.Set("u1", ch1)
	d.Set("u2", ch2)

	d.Broadcast([]byte("all"))
	if got := string(<-ch1); got != "all" {
		t.Errorf("u1 got %q, want all", got)
	}
	if got := string(<-ch2); got != "all" {
		t.Errorf("u2 got %q, want all", got)
	}
}

func TestDirectory_ForEach(t *testing.T) {
	d := NewDirectory()
	d.Set("u1", make(chan []byte, 1))
	d.Set("u2", make(chan []byte, 1))

	seen := make(map[string]bool)
	d.ForEach(func(userID string, ch chan []byte) {
		seen[userID] = ch != nil
	})
	if len(seen) != 2 || !seen["u1"] || !seen["u2"] {
		t.Errorf("visited %v, want u1 and u2", seen)
	}
}

func TestDirectory_SendEachSkipsAbsent(t *testing.T) {
	d := NewDirectory()
	ch := make(chan []byte, 1)
	d.Set("u1", ch)

	d.SendEach([]string{"u1", "ghost"}, []byte("msg"))
	if got := string(<-ch); got != "msg" {
		t.Errorf("got %q, want msg", got)
	}
}
