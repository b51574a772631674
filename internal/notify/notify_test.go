package notify

import (
	"sync"
	"testing"

	"github.com/dshills/rte/internal/engine/doc"
)

func TestSubscribeAll(t *testing.T) {
	n := New()
	defer n.Close()

	var got []Kind
	n.Subscribe(func(c Change) { got = append(got, c.Kind) })

	n.Notify(Change{Kind: KindEdit})
	n.Notify(Change{Kind: KindUndo})

	if len(got) != 2 || got[0] != KindEdit || got[1] != KindUndo {
		t.Errorf("received %v", got)
	}
}

func TestSubscribeKind(t *testing.T) {
	n := New()
	defer n.Close()

	var formats []string
	n.SubscribeKind(KindFormat, func(c Change) { formats = append(formats, c.Mark) })

	n.Notify(Change{Kind: KindEdit})
	n.Notify(Change{Kind: KindFormat, Mark: doc.Bold})

	if len(formats) != 1 || formats[0] != doc.Bold {
		t.Errorf("formats = %v", formats)
	}
}

func TestDeliveryOrder(t *testing.T) {
	n := New()
	defer n.Close()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		n.Subscribe(func(Change) { order = append(order, i) })
	}
	n.Notify(Change{})

	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v", order)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	n := New()
	defer n.Close()

	calls := 0
	sub := n.Subscribe(func(Change) { calls++ })
	n.Notify(Change{})
	sub.Unsubscribe()
	n.Notify(Change{})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n.Len() != 0 {
		t.Errorf("Len() = %d, want 0", n.Len())
	}
}

func TestObserverPanicIsContained(t *testing.T) {
	n := New()
	defer n.Close()

	called := false
	n.Subscribe(func(Change) { panic("boom") })
	n.Subscribe(func(Change) { called = true })
	n.Notify(Change{})

	if !called {
		t.Error("observer after panicking observer not called")
	}
}

func TestAsync(t *testing.T) {
	n := New(WithAsync(8))

	var mu sync.Mutex
	var got []string
	n.Subscribe(func(c Change) {
		mu.Lock()
		got = append(got, c.Session)
		mu.Unlock()
	})

	for _, s := range []string{"a", "b", "c"} {
		n.Notify(Change{Session: s})
	}
	n.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("got = %v", got)
	}

	n.Notify(Change{Session: "late"})
	if len(got) != 3 {
		t.Errorf("delivered after Close: %v", got)
	}
}

func TestKindString(t *testing.T) {
	want := map[Kind]string{KindEdit: "edit", KindFormat: "format", KindUndo: "undo", KindRedo: "redo", KindLoad: "load", Kind(99): "unknown"}
	for k, s := range want {
		if k.String() != s {
			t.Errorf("Kind(%d).String() = %q, want %q", k, k.String(), s)
		}
	}
}
