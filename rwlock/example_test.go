package rwlock_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"

	"github.com/joeycumines/go-asyncrw/rwlock"
)

func ExampleLock_readersAndWriter() {
	l := rwlock.New()

	r1, _ := l.Read(context.Background())
	r2, _ := l.Read(context.Background())
	fmt.Println("readers:", l.Stats().Count)

	r1.Release()
	r2.Release()

	w, _ := l.Write(context.Background())
	fmt.Println("writer:", l.Stats().Count)
	w.Release()

	// output:
	// readers: 2
	// writer: -1
}

func ExampleUpgradeableHandle_Upgrade() {
	l := rwlock.New()

	ur, _ := l.UpgradeableRead(context.Background())
	w, err := ur.Upgrade(context.Background())
	if err != nil {
		panic(err)
	}
	fmt.Println("upgraded count:", l.Stats().Count)

	w.Release()
	fmt.Println("post-release count:", l.Stats().Count)

	// output:
	// upgraded count: -1
	// post-release count: 1
}

// Example_withDiagnostics wires rwlock's optional diagnostics logger to
// log/slog via logiface-slog, the same composition used throughout this
// pack for injectable structured logging.
func Example_withDiagnostics() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})
	backend := logiface.New[*islog.Event](islog.NewLogger(handler, islog.WithLevel(logiface.LevelTrace)))

	l := rwlock.New(rwlock.WithLogger(backend.Logger()))

	w, _ := l.Write(context.Background())
	w.Release()

	fmt.Println("done")

	// output:
	// done
}
