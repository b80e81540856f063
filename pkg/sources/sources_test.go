package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/dispatch/pkg/errors"
)

type action struct {
	kind string
	text string
}

func (a action) Name() string { return a.kind }

func decodeText(data []byte) (action, bool) {
	if string(data) == "skip" {
		return action{}, false
	}
	return action{kind: "Message", text: string(data)}, true
}

func onError(err error) action {
	return action{kind: "Failed", text: string(errors.GetCode(err))}
}

// collect reads ch until it closes.
func collect(t *testing.T, ch <-chan action) []action {
	t.Helper()
	var out []action
	timeout := time.After(5 * time.Second)
	for {
		select {
		case a, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, a)
		case <-timeout:
			t.Fatalf("stream did not end, got %v", out)
			return nil
		}
	}
}

func next(t *testing.T, ch <-chan action) action {
	t.Helper()
	select {
	case a, ok := <-ch:
		require.True(t, ok, "stream ended early")
		return a
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for action")
		return action{}
	}
}

type fakeSubscriber struct {
	subject string
	msgs    chan *nats.Msg
	err     error
}

func (f *fakeSubscriber) ChanSubscribe(subject string, ch chan *nats.Msg) (*nats.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.subject = subject
	f.msgs = ch
	return &nats.Subscription{}, nil
}

func TestNATSSubject_DecodesUntilCancelled(t *testing.T) {
	sub := &fakeSubscriber{}
	ctx, cancel := context.WithCancel(context.Background())
	ch := NATSSubject(sub, "weather.updates", decodeText, onError)(ctx)

	require.Equal(t, "weather.updates", sub.subject)
	sub.msgs <- &nats.Msg{Data: []byte("skip")}
	sub.msgs <- &nats.Msg{Data: []byte("sunny")}
	sub.msgs <- &nats.Msg{Data: []byte("rain")}

	assert.Equal(t, "sunny", next(t, ch).text)
	assert.Equal(t, "rain", next(t, ch).text)

	cancel()
	assert.Empty(t, collect(t, ch))
}

func TestNATSSubject_SubscribeFailure(t *testing.T) {
	sub := &fakeSubscriber{err: nats.ErrConnectionClosed}
	ch := NATSSubject(sub, "x", decodeText, onError)(context.Background())

	got := collect(t, ch)
	require.Len(t, got, 1)
	assert.Equal(t, action{kind: "Failed", text: string(errors.ErrCodeSourceConnect)}, got[0])

	ch = NATSSubject[action](sub, "x", decodeText, nil)(context.Background())
	assert.Empty(t, collect(t, ch))
}

func TestNATSSubject_LiveServer(t *testing.T) {
	url := os.Getenv("DISPATCH_TEST_NATS_URL")
	if url == "" {
		t.Skip("DISPATCH_TEST_NATS_URL not set")
	}
	conn, err := ConnectNATS(url, "dispatch-test")
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	subject := fmt.Sprintf("dispatch.test.%d", time.Now().UnixNano())
	ch := NATSSubject(conn, subject, decodeText, onError)(ctx)

	require.NoError(t, conn.Publish(subject, []byte("hello")))
	assert.Equal(t, "hello", next(t, ch).text)
}

func TestFileChanges(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	toAction := func(c FileChange) (action, bool) {
		if filepath.Ext(c.Path) != ".json" {
			return action{}, false
		}
		kind := "FileChanged"
		if c.Removed() {
			kind = "FileRemoved"
		}
		return action{kind: kind, text: filepath.Base(c.Path)}, true
	}
	ch := FileChanges(dir, toAction, onError)(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))
	path := filepath.Join(dir, "cities.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	got := next(t, ch)
	assert.Equal(t, action{kind: "FileChanged", text: "cities.json"}, got)

	require.NoError(t, os.Remove(path))
	for {
		a := next(t, ch)
		if a.kind == "FileRemoved" {
			assert.Equal(t, "cities.json", a.text)
			break
		}
	}

	cancel()
	collect(t, ch)
}

func TestFileChanges_MissingPath(t *testing.T) {
	toAction := func(FileChange) (action, bool) { return action{}, true }
	ch := FileChanges(filepath.Join(t.TempDir(), "missing"), toAction, onError)(context.Background())

	got := collect(t, ch)
	require.Len(t, got, 1)
	assert.Equal(t, string(errors.ErrCodeSourceConnect), got[0].text)
}
