package asyncqueue_test

import (
	"context"
	"fmt"

	"github.com/joeycumines/go-asyncrw/asyncqueue"
)

func ExampleQueue_putBeforeGet() {
	q := asyncqueue.New[string](nil)
	q.Put("hello")
	q.Put("world")

	for i := 0; i < 2; i++ {
		v, err := q.Get().Wait(context.Background())
		if err != nil {
			panic(err)
		}
		fmt.Println(v)
	}

	// output:
	// hello
	// world
}

func ExampleQueue_getBeforePut() {
	q := asyncqueue.New[int](nil)

	f := q.Get() // parks: no value buffered yet

	done := make(chan struct{})
	go func() {
		defer close(done)
		v, err := f.Wait(context.Background())
		if err != nil {
			panic(err)
		}
		fmt.Println("received:", v)
	}()

	q.Put(42)
	<-done

	// output:
	// received: 42
}
