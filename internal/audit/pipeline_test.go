package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCall() Call {
	return Call{
		ActorID:   "U1",
		Resource:  "contacts",
		Kind:      "POST",
		Path:      "/contacts",
		Params:    map[string]string{},
		Query:     map[string]any{"notify": "true"},
		Body:      map[string]any{"password": "p@ss", "email": "a@b.com"},
		UserAgent: "test-agent",
		ClientIP:  "10.0.0.1",
	}
}

func fixedPipeline(w Writer) *Pipeline {
	p := NewPipeline(w, nil)
	p.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	p.newID = func() string { return "rec-1" }
	return p
}

func TestExecuteRecordsSuccess(t *testing.T) {
	w := &syncWriter{}
	p := fixedPipeline(w)

	err := p.Execute(context.Background(), testCall(), func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	records := w.all()
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "rec-1", rec.ID)
	assert.Equal(t, "U1", rec.ActorID)
	assert.Equal(t, ActionCreate, rec.Action)
	assert.Equal(t, "contacts", rec.Entity)
	assert.True(t, rec.Success)
	assert.Equal(t, "success", rec.Details["result"])
	assert.Equal(t, "test-agent", rec.Details["user_agent"])
	assert.Equal(t, "10.0.0.1", rec.Details["ip"])

	body := rec.Details["body"].(map[string]any)
	assert.Equal(t, RedactedValue, body["password"])
	assert.Equal(t, "a@b.com", body["email"])
}

func TestExecuteRecordsFailureAndReturnsOriginalError(t *testing.T) {
	w := &syncWriter{}
	p := fixedPipeline(w)

	err := p.Execute(context.Background(), testCall(), func(ctx context.Context) error { return errBoom })
	assert.Same(t, errBoom, err)

	records := w.all()
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.Equal(t, "boom", records[0].Details["error"])
	assert.NotContains(t, records[0].Details, "result")
}

func TestExecuteRecordsPanicAndRepanics(t *testing.T) {
	w := &syncWriter{}
	p := fixedPipeline(w)

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = p.Execute(context.Background(), testCall(), func(ctx context.Context) error { panic("kaboom") })
	})
	records := w.all()
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.Equal(t, "panic: kaboom", records[0].Details["error"])
}

func TestExecuteTreatsCancellationAsFailure(t *testing.T) {
	w := &syncWriter{}
	p := fixedPipeline(w)
	ctx, cancel := context.WithCancel(context.Background())

	err := p.Execute(ctx, testCall(), func(ctx context.Context) error {
		cancel()
		return nil
	})
	require.NoError(t, err)
	records := w.all()
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.Equal(t, context.Canceled.Error(), records[0].Details["error"])
}

func TestExecuteSkipsAnonymousAndUndeclared(t *testing.T) {
	w := &syncWriter{}
	p := fixedPipeline(w)

	anon := testCall()
	anon.ActorID = ""
	require.NoError(t, p.Execute(context.Background(), anon, func(ctx context.Context) error { return nil }))

	undeclared := testCall()
	undeclared.Resource = ""
	assert.Same(t, errBoom, p.Execute(context.Background(), undeclared, func(ctx context.Context) error { return errBoom }))

	assert.Empty(t, w.all())
}

func TestStoreFailureDoesNotChangeOutcome(t *testing.T) {
	run := func(store *memStore, result error) error {
		writer := NewAsyncWriter(store, WriterConfig{BufferSize: 4}, nil, nil)
		p := NewPipeline(writer, nil)
		err := p.Execute(context.Background(), testCall(), func(ctx context.Context) error { return result })
		require.NoError(t, writer.Close(context.Background()))
		assert.Equal(t, 1, store.createCount())
		return err
	}

	assert.NoError(t, run(&memStore{}, nil))
	assert.NoError(t, run(&memStore{failWith: errBoom}, nil))

	failure := errBoom
	assert.Same(t, failure, run(&memStore{}, failure))
	assert.Same(t, failure, run(&memStore{failWith: errBoom}, failure))
}

func TestActionFromKind(t *testing.T) {
	cases := map[string]Action{
		"POST":    ActionCreate,
		"create":  ActionCreate,
		"GET":     ActionRead,
		"PUT":     ActionUpdate,
		"PATCH":   ActionUpdate,
		"update":  ActionUpdate,
		"DELETE":  ActionDelete,
		"remove":  ActionDelete,
		"OPTIONS": ActionRead,
		"":        ActionRead,
	}
	for kind, want := range cases {
		assert.Equal(t, want, ActionFromKind(kind), kind)
	}
}
