package feed

import (
	"sync"
	"testing"
	"time"
)

func TestOutbox_BasicSendReceive(t *testing.T) {
	o := NewOutbox[int](10)

	for i := 0; i < 5; i++ {
		if !o.Send(i) {
			t.Fatalf("Send(%d) returned false", i)
		}
	}

	if o.Len() != 5 {
		t.Errorf("Len() = %d, want 5", o.Len())
	}

	for i := 0; i < 5; i++ {
		val, ok := o.Receive()
		if !ok {
			t.Fatalf("Receive() returned false for item %d", i)
		}
		if val != i {
			t.Errorf("received %d, want %d", val, i)
		}
	}

	if o.Len() != 0 {
		t.Errorf("Len() = %d, want 0", o.Len())
	}
}

func TestOutbox_GrowAt70Percent(t *testing.T) {
	o := NewOutbox[int](10)

	// 7 items is 70% of 10
	for i := 0; i < 7; i++ {
		o.Send(i)
	}

	if o.Cap() <= 10 {
		t.Errorf("Cap() = %d, expected growth after 70%% fill", o.Cap())
	}

	// All items still accessible in order
	for i := 0; i < 7; i++ {
		val, ok := o.Receive()
		if !ok {
			t.Fatalf("Receive() returned false for item %d", i)
		}
		if val != i {
			t.Errorf("received %d, want %d", val, i)
		}
	}
}

func TestOutbox_WrapAroundGrow(t *testing.T) {
	o := NewOutbox[int](5)

	o.Send(1)
	o.Send(2)
	o.Send(3)

	o.Receive() // removes 1
	o.Receive() // removes 2

	// Wraps around, then grows with head > tail
	o.Send(4)
	o.Send(5)
	o.Send(6)
	o.Send(7)
	o.Send(8)

	expected := []int{3, 4, 5, 6, 7, 8}
	for _, want := range expected {
		got, ok := o.Receive()
		if !ok {
			t.Fatalf("Receive failed, expected %d", want)
		}
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
}

func TestOutbox_BlockingReceive(t *testing.T) {
	o := NewOutbox[int](10)

	received := make(chan int, 1)
	go func() {
		val, ok := o.Receive()
		if ok {
			received <- val
		}
	}()

	// Give receiver time to start waiting
	time.Sleep(10 * time.Millisecond)

	o.Send(42)

	select {
	case val := <-received:
		if val != 42 {
			t.Errorf("received %d, want 42", val)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for blocked receive")
	}
}

func TestOutbox_Close(t *testing.T) {
	o := NewOutbox[int](10)

	o.Send(1)
	o.Send(2)
	o.Close()

	if o.Send(3) {
		t.Error("Send should return false after Close")
	}

	// Remaining items still drain
	val, ok := o.Receive()
	if !ok || val != 1 {
		t.Errorf("Receive() = %d, %v; want 1, true", val, ok)
	}
	val, ok = o.Receive()
	if !ok || val != 2 {
		t.Errorf("Receive() = %d, %v; want 2, true", val, ok)
	}

	_, ok = o.Receive()
	if ok {
		t.Error("Receive should return false when empty and closed")
	}
}

func TestOutbox_CloseUnblocksReceive(t *testing.T) {
	o := NewOutbox[int](10)

	done := make(chan bool, 1)
	go func() {
		_, ok := o.Receive()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	o.Close()

	select {
	case ok := <-done:
		if ok {
			t.Error("Receive should return false when closed and empty")
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not unblock Receive")
	}
}

func TestOutbox_ConcurrentSendReceive(t *testing.T) {
	o := NewOutbox[int](10)
	const numItems = 1000

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < numItems; i++ {
			o.Send(i)
		}
	}()

	received := make([]int, 0, numItems)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < numItems; i++ {
			val, ok := o.Receive()
			if ok {
				received = append(received, val)
			}
		}
	}()

	wg.Wait()

	if len(received) != numItems {
		t.Fatalf("received %d items, want %d", len(received), numItems)
	}
	// Single receiver, so order is preserved.
	for i, val := range received {
		if val != i {
			t.Fatalf("received[%d] = %d, want %d", i, val, i)
		}
	}
}

func TestNewOutbox_MinCapacity(t *testing.T) {
	if o := NewOutbox[int](0); o.Cap() != 1 {
		t.Errorf("Cap() = %d, want 1 for initial capacity 0", o.Cap())
	}
	if o := NewOutbox[int](-5); o.Cap() != 1 {
		t.Errorf("Cap() = %d, want 1 for negative initial capacity", o.Cap())
	}
}
