package message_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dasdy/neoclock/message"
	"github.com/dasdy/neoclock/part"
	"github.com/dasdy/neoclock/widgets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected message.Envelope
	}{
		{"show", `{"type":"Show","id":3}`, message.Envelope{Type: "Show", ID: 3}},
		{"hide", `{"type":"Hide","id":0}`, message.Envelope{Type: "Hide"}},
		{"move", `{"type":"Move","id":1,"x":4,"y":8}`, message.Envelope{Type: "Move", ID: 1, X: 4, Y: 8}},
		{
			"flyer",
			`{"type":"Flyer","id":10,"text":"Hahaha","ttl":10}`,
			message.Envelope{Type: "Flyer", ID: 10, Payload: json.RawMessage(`{"text":"Hahaha","ttl":10}`)},
		},
		{
			"gif",
			`{"type":"Gif","id":2,"url":"http://example.com/a.gif"}`,
			message.Envelope{Type: "Gif", ID: 2, Payload: json.RawMessage(`{"url":"http://example.com/a.gif"}`)},
		},
		{"clock without fields", `{"type":"Clock","id":1}`, message.Envelope{Type: "Clock", ID: 1, Payload: json.RawMessage(`{}`)}},
	}

	for _, tc := range testCases {
		t.Run("decodes "+tc.name, func(t *testing.T) {
			env, err := message.Decode([]byte(tc.input))

			require.NoError(t, err)
			assert.Equal(t, tc.expected, env)
		})
	}

	errorCases := []struct {
		name  string
		input string
		err   error
	}{
		{"not json", `{"type":`, message.ErrMalformed},
		{"not an object", `[1, 2]`, message.ErrMalformed},
		{"missing type", `{"id":1}`, message.ErrMalformed},
		{"missing id", `{"type":"Show"}`, message.ErrMalformed},
		{"string id", `{"type":"Show","id":"1"}`, message.ErrMalformed},
		{"move without y", `{"type":"Move","id":1,"x":2}`, message.ErrMalformed},
		{"move with negative x", `{"type":"Move","id":1,"x":-2,"y":0}`, message.ErrMalformed},
		{"unknown type", `{"type":"Teleport","id":1}`, message.ErrUnknownType},
	}

	for _, tc := range errorCases {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			_, err := message.Decode([]byte(tc.input))

			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestEncode(t *testing.T) {
	for _, input := range []string{
		`{"type":"Move","id":1,"x":4,"y":8}`,
		`{"type":"Flyer","id":10,"text":"Hahaha","ttl":10}`,
		`{"type":"Hide","id":0}`,
	} {
		env, err := message.Decode([]byte(input))
		require.NoError(t, err)

		data, err := env.Encode()
		require.NoError(t, err)

		again, err := message.Decode(data)
		require.NoError(t, err)

		assert.Equal(t, env, again)
		assert.JSONEq(t, input, string(data))
	}
}

type fixture struct {
	router  *message.Router
	states  []*part.State
	inboxes []chan []byte
}

func newFixture(kinds ...widgets.Kind) *fixture {
	f := &fixture{}
	routes := make([]message.Route, 0, len(kinds))

	for i, k := range kinds {
		state := part.New(uint32(i), uint32(i), true)
		inbox := make(chan []byte, 1)

		f.states = append(f.states, state)
		f.inboxes = append(f.inboxes, inbox)
		routes = append(routes, message.Route{Kind: k, State: state, Inbox: inbox})
	}

	f.router = message.NewRouter(routes, nil)

	return f
}

func mustDecode(t *testing.T, s string) message.Envelope {
	t.Helper()

	env, err := message.Decode([]byte(s))
	require.NoError(t, err)

	return env
}

func TestRouterDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("show hide and move touch only the addressed widget", func(t *testing.T) {
		f := newFixture(widgets.KindSolid, widgets.KindSolid, widgets.KindSolid)

		assert.True(t, f.router.Dispatch(ctx, mustDecode(t, `{"type":"Hide","id":1}`)))
		assert.True(t, f.router.Dispatch(ctx, mustDecode(t, `{"type":"Move","id":1,"x":30,"y":40}`)))

		assert.Equal(t, part.Snapshot{X: 30, Y: 40, Visible: false}, f.states[1].Snapshot())
		assert.Equal(t, part.Snapshot{X: 0, Y: 0, Visible: true}, f.states[0].Snapshot())
		assert.Equal(t, part.Snapshot{X: 2, Y: 2, Visible: true}, f.states[2].Snapshot())

		assert.True(t, f.router.Dispatch(ctx, mustDecode(t, `{"type":"Show","id":1}`)))
		assert.True(t, f.states[1].Snapshot().Visible)
	})

	t.Run("out of range index is a no-op", func(t *testing.T) {
		f := newFixture(widgets.KindSolid)

		for _, s := range []string{
			`{"type":"Hide","id":1}`,
			`{"type":"Hide","id":-1}`,
			`{"type":"Move","id":7,"x":1,"y":1}`,
			`{"type":"Solid","id":5,"color":"red"}`,
		} {
			assert.False(t, f.router.Dispatch(ctx, mustDecode(t, s)))
		}

		assert.Equal(t, part.Snapshot{Visible: true}, f.states[0].Snapshot())
		assert.Empty(t, f.inboxes[0])
	})

	t.Run("forwards payloads to the addressed inbox only", func(t *testing.T) {
		f := newFixture(widgets.KindClock, widgets.KindFlyer)

		assert.True(t, f.router.Dispatch(ctx, mustDecode(t, `{"type":"Flyer","id":1,"text":"Hahaha","ttl":10}`)))

		assert.Empty(t, f.inboxes[0])
		require.Len(t, f.inboxes[1], 1)
		assert.JSONEq(t, `{"text":"Hahaha","ttl":10}`, string(<-f.inboxes[1]))
	})

	t.Run("drops payloads for a widget of another kind", func(t *testing.T) {
		f := newFixture(widgets.KindClock)

		assert.False(t, f.router.Dispatch(ctx, mustDecode(t, `{"type":"Gif","id":0,"url":"x"}`)))
		assert.Empty(t, f.inboxes[0])
	})

	t.Run("full inbox drops without blocking", func(t *testing.T) {
		f := newFixture(widgets.KindFlyer)
		env := mustDecode(t, `{"type":"Flyer","id":0,"text":"a","ttl":1}`)

		assert.True(t, f.router.Dispatch(ctx, env))

		done := make(chan bool)
		go func() { done <- f.router.Dispatch(ctx, env) }()

		select {
		case delivered := <-done:
			assert.False(t, delivered)
		case <-time.After(time.Second):
			t.Fatal("dispatch blocked on a full inbox")
		}

		assert.Len(t, f.inboxes[0], 1)
	})
}

func TestGeneric(t *testing.T) {
	testCases := []struct {
		typ      string
		expected bool
	}{
		{message.TypeShow, true},
		{message.TypeHide, true},
		{message.TypeMove, true},
		{string(widgets.KindSolid), false},
		{string(widgets.KindFlyer), false},
	}

	for _, tc := range testCases {
		t.Run(tc.typ, func(t *testing.T) {
			assert.Equal(t, tc.expected, message.Envelope{Type: tc.typ}.Generic())
		})
	}
}

func TestRouterDelivered(t *testing.T) {
	input := make(chan message.Envelope, 4)
	router := message.NewRouter([]message.Route{
		{Kind: widgets.KindSolid, State: part.New(0, 0, true), Inbox: make(chan []byte, 1)},
	}, input)

	delivered := make(chan message.Envelope, 4)
	router.WithDelivered(func(_ context.Context, env message.Envelope) { delivered <- env })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = router.Serve(ctx) }()

	input <- mustDecode(t, `{"type":"Hide","id":3}`)
	input <- mustDecode(t, `{"type":"Clock","id":0}`)
	input <- mustDecode(t, `{"type":"Solid","id":0,"color":"red"}`)
	input <- mustDecode(t, `{"type":"Solid","id":0,"color":"blue"}`)
	input <- mustDecode(t, `{"type":"Show","id":0}`)

	assert.Equal(t, "Solid", (<-delivered).Type)
	assert.Equal(t, message.TypeShow, (<-delivered).Type)

	assert.Never(t, func() bool { return len(delivered) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestRouterServe(t *testing.T) {
	state := part.New(0, 0, true)
	input := make(chan message.Envelope)
	router := message.NewRouter([]message.Route{{Kind: widgets.KindSolid, State: state, Inbox: make(chan []byte, 1)}}, input)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- router.Serve(ctx) }()

	input <- mustDecode(t, `{"type":"Move","id":0,"x":9,"y":9}`)
	input <- mustDecode(t, `{"type":"Hide","id":0}`)

	assert.Eventually(t, func() bool {
		return state.Snapshot() == part.Snapshot{X: 9, Y: 9}
	}, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
