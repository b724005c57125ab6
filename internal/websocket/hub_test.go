package chatws

import (
	"context"
	"testing"
	"time"
)

func runHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func closedWithin(ch <-chan []byte, d time.Duration) bool {
	timeout := time.After(d)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return true
			}
		case <-timeout:
			return false
		}
	}
}

func TestHubDisconnectClosesEverySessionOfUser(t *testing.T) {
	hub := runHub(t)

	ann1 := NewClient(hub, nil, "ann@x.com")
	ann2 := NewClient(hub, nil, "ann@x.com")
	bob := NewClient(hub, nil, "bob@x.com")
	for _, c := range []*Client{ann1, ann2, bob} {
		hub.Register(c)
	}
	if n := hub.Sessions("ann@x.com"); n != 2 {
		t.Fatalf("expected 2 sessions for ann, got %d", n)
	}

	hub.Disconnect("ann@x.com")

	if !closedWithin(ann1.send, time.Second) || !closedWithin(ann2.send, time.Second) {
		t.Fatalf("expected ann's sessions to be closed")
	}
	if hub.Sessions("ann@x.com") != 0 || hub.Sessions("bob@x.com") != 1 {
		t.Fatalf("unexpected session counts after disconnect")
	}
	if !bob.Enqueue([]byte("still here")) {
		t.Fatalf("bob's session should be unaffected")
	}

	// The read pump of a dropped client still unregisters it.
	hub.Unregister(ann1)
}

func TestClientEnqueueAfterCloseIsRejected(t *testing.T) {
	hub := runHub(t)
	client := NewClient(hub, nil, "ann@x.com")
	hub.Register(client)
	hub.Unregister(client)
	if n := hub.Sessions("ann@x.com"); n != 0 {
		t.Fatalf("expected no sessions after unregister, got %d", n)
	}

	if client.Enqueue([]byte("late")) {
		t.Fatalf("enqueue on a closed client must fail")
	}
}

func TestClientEnqueueClosesSlowClient(t *testing.T) {
	client := NewClient(NewHub(), nil, "ann@x.com")
	for i := 0; i < cap(client.send); i++ {
		if !client.Enqueue([]byte("x")) {
			t.Fatalf("enqueue %d should fit", i)
		}
	}
	if client.Enqueue([]byte("overflow")) {
		t.Fatalf("expected overflow to be rejected")
	}
	if client.Enqueue([]byte("after")) {
		t.Fatalf("expected client closed after overflow")
	}
}

func TestHubCallsReturnAfterRunStops(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := NewClient(hub, nil, "ann@x.com")
	hub.Register(client)
	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if !closedWithin(client.send, time.Second) {
		t.Fatalf("expected shutdown to close live clients")
	}

	returned := make(chan struct{})
	go func() {
		hub.Unregister(client)
		hub.Disconnect("ann@x.com")
		if n := hub.Sessions("ann@x.com"); n != 0 {
			t.Errorf("expected 0 sessions after shutdown, got %d", n)
		}
		late := NewClient(hub, nil, "bob@x.com")
		hub.Register(late)
		if late.Enqueue([]byte("x")) {
			t.Errorf("a client registered after shutdown should be closed")
		}
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatalf("hub calls blocked after Run returned")
	}
}
