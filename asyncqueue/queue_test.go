package asyncqueue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/joeycumines/go-asyncrw/internal/testutil"
)

func TestQueue_PutThenGet(t *testing.T) {
	q := New[int](nil)
	q.Put(1)
	q.Put(2)

	if n := q.Len(); n != 2 {
		t.Fatalf("expected len 2, got %d", n)
	}

	for _, want := range []int{1, 2} {
		f := q.Get()
		v, err := f.Wait(context.Background())
		if err != nil || v != want {
			t.Fatalf("want %d,nil got %d,%v", want, v, err)
		}
	}
	if n := q.Len(); n != 0 {
		t.Fatalf("expected len 0, got %d", n)
	}
}

func TestQueue_GetThenPut(t *testing.T) {
	defer testutil.CheckNumGoroutines(time.Second * 3)(t)

	q := New[string](nil)
	f := q.Get()
	if n := q.Len(); n != -1 {
		t.Fatalf("expected len -1, got %d", n)
	}

	select {
	case <-f.Done():
		t.Fatal("future settled before a matching Put")
	default:
	}

	q.Put("hello")

	v, err := f.Wait(context.Background())
	if err != nil || v != "hello" {
		t.Fatalf("want hello,nil got %v,%v", v, err)
	}
}

func TestQueue_InitialValues(t *testing.T) {
	q := New[int]([]int{10, 20, 30})
	if n := q.Len(); n != 3 {
		t.Fatalf("expected len 3, got %d", n)
	}
	v, err := q.Get().Wait(context.Background())
	if err != nil || v != 10 {
		t.Fatalf("want 10,nil got %v,%v", v, err)
	}
}

func TestQueue_StrictFIFOOrdering(t *testing.T) {
	const n = 50
	q := New[int](nil)

	var gets []*Future[int]
	for i := 0; i < n; i++ {
		gets = append(gets, q.Get())
	}
	for i := 0; i < n; i++ {
		q.Put(i)
	}

	for i, f := range gets {
		v, err := f.Wait(context.Background())
		if err != nil || v != i {
			t.Fatalf("get %d: want %d,nil got %d,%v", i, i, v, err)
		}
	}
}

func TestQueue_PutFuture_Pending(t *testing.T) {
	q := New[int](nil)
	f := q.Get()

	producer := newFuture[int]()
	q.PutFuture(producer)

	select {
	case <-f.Done():
		t.Fatal("consumer future settled before producer future resolved")
	default:
	}

	producer.settle(7, nil)

	v, err := f.Wait(context.Background())
	if err != nil || v != 7 {
		t.Fatalf("want 7,nil got %v,%v", v, err)
	}
}

func TestQueue_PutFuture_Error(t *testing.T) {
	q := New[int](nil)
	wantErr := errors.New("boom")
	producer := newFuture[int]()
	producer.settle(0, wantErr)
	q.PutFuture(producer)

	v, err := q.Get().Wait(context.Background())
	if !errors.Is(err, wantErr) || v != 0 {
		t.Fatalf("want 0,boom got %v,%v", v, err)
	}
}

func TestQueue_PutFuture_Nil(t *testing.T) {
	q := New[int](nil)
	q.PutFuture(nil)
	if n := q.Len(); n != 0 {
		t.Fatalf("expected len 0, got %d", n)
	}
}

func TestFuture_Wait_ContextCanceled(t *testing.T) {
	defer testutil.CheckNumGoroutines(time.Second * 3)(t)

	f := newFuture[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := f.Wait(ctx)
	if !errors.Is(err, context.Canceled) || v != 0 {
		t.Fatalf("want 0,Canceled got %v,%v", v, err)
	}
}

func TestFuture_Wait_NilContext(t *testing.T) {
	f := newSettledFuture[int](5, nil)
	v, err := f.Wait(nil)
	if err != nil || v != 5 {
		t.Fatalf("want 5,nil got %v,%v", v, err)
	}
}

func TestQueue_ConcurrentPutGet(t *testing.T) {
	defer testutil.CheckNumGoroutines(time.Second * 3)(t)

	q := New[int](nil)
	const n = 200

	var wg sync.WaitGroup
	results := make([]int, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := q.Get().Wait(context.Background())
			if err != nil {
				t.Error(err)
				return
			}
			results[i%n] = v
		}(i)
	}
	for i := 0; i < n; i++ {
		go q.Put(i)
	}
	wg.Wait()

	seen := make(map[int]bool, n)
	for _, v := range results {
		seen[v] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct values delivered exactly once, got %d", n, len(seen))
	}
}
