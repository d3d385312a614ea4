package eventbus

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type ping struct{ n int }
type pong struct{}

func TestPublishSubscribe(t *testing.T) {
	Use(New())
	t.Cleanup(func() { Use(nil) })

	var got []string
	unsubA := Subscribe(func(_ context.Context, p ping) { got = append(got, "a") })
	unsubB := Subscribe(func(_ context.Context, p ping) { got = append(got, "b") })
	Subscribe(func(_ context.Context, _ pong) { got = append(got, "pong") })

	Publish(context.Background(), ping{n: 1})
	unsubA()
	unsubA()
	Publish(context.Background(), ping{n: 2})
	unsubB()
	Publish(context.Background(), ping{n: 3})
	Publish(context.Background(), pong{})

	if diff := cmp.Diff([]string{"a", "b", "b", "pong"}, got); diff != "" {
		t.Fatalf("handler calls (-want +got):\n%s", diff)
	}
}

func TestPublishWithoutBus(t *testing.T) {
	Use(nil)
	called := false
	unsub := Subscribe(func(context.Context, ping) { called = true })
	Publish(context.Background(), ping{})
	unsub()
	require.False(t, called)
}
