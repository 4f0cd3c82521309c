package anthropic

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readykit/report-api/config"
	"github.com/readykit/report-api/internal/domain/model"
)

// fakeDecoder replays a scripted event sequence, then reports err.
type fakeDecoder struct {
	events []ssestream.Event
	err    error
	idx    int
	closed bool
}

func (d *fakeDecoder) Next() bool {
	if d.idx >= len(d.events) {
		return false
	}
	d.idx++
	return true
}

func (d *fakeDecoder) Event() ssestream.Event { return d.events[d.idx-1] }
func (d *fakeDecoder) Close() error           { d.closed = true; return nil }
func (d *fakeDecoder) Err() error             { return d.err }

type fakeMessages struct {
	calls   []sdk.MessageNewParams
	streams []*fakeDecoder
}

func (f *fakeMessages) NewStreaming(_ context.Context, params sdk.MessageNewParams, _ ...option.RequestOption) *ssestream.Stream[sdk.MessageStreamEventUnion] {
	f.calls = append(f.calls, params)
	next := f.streams[0]
	if len(f.streams) > 1 {
		f.streams = f.streams[1:]
	}
	return ssestream.NewStream[sdk.MessageStreamEventUnion](next, nil)
}

func sse(eventType, data string) ssestream.Event {
	return ssestream.Event{Type: eventType, Data: []byte(data)}
}

// textStream scripts a complete single-block text completion.
func textStream(text string, in, out int64) *fakeDecoder {
	return &fakeDecoder{events: []ssestream.Event{
		sse("message_start", fmt.Sprintf(`{"type":"message_start","message":{"usage":{"input_tokens":%d}}}`, in)),
		sse("content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`),
		sse("content_block_delta", fmt.Sprintf(`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":%q}}`, text)),
		sse("content_block_stop", `{"type":"content_block_stop","index":0}`),
		sse("message_delta", fmt.Sprintf(`{"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"output_tokens":%d}}`, out)),
		sse("message_stop", `{"type":"message_stop"}`),
	}}
}

func failedStream(err error) *fakeDecoder {
	return &fakeDecoder{err: err}
}

func newTestGenerator(t *testing.T, messages messageAPI) *Generator {
	t.Helper()
	return MustNewGenerator(GeneratorOptions{
		Config:   config.GenerationConfig{Timeout: 10 * time.Second},
		Messages: messages,
	})
}

func TestGenerator_Generate(t *testing.T) {
	fake := &fakeMessages{streams: []*fakeDecoder{
		textStream("## Recommended Skills\n", 900, 400),
	}}
	g := newTestGenerator(t, fake)

	res, err := g.Generate(context.Background(), model.FeatureSkills, []byte(`{"zip":"97201"}`))
	require.NoError(t, err)
	assert.Equal(t, "## Recommended Skills\n", res.Content)
	assert.Equal(t, 900, res.InputTokens)
	assert.Equal(t, 400, res.OutputTokens)
	// Skills runs on the small model first.
	assert.Equal(t, "claude-haiku-4-5-20251001", res.Model)

	require.Len(t, fake.calls, 1)
	call := fake.calls[0]
	assert.Equal(t, int64(4096), call.MaxTokens)
	require.True(t, call.Temperature.Valid())
	assert.Equal(t, 0.7, call.Temperature.Value)
	require.Len(t, call.Messages, 1)
	require.Len(t, call.System, 1)
	assert.Contains(t, call.System[0].Text, "machine-parsed")
}

func TestGenerator_Generate_RiskRunsCooler(t *testing.T) {
	fake := &fakeMessages{streams: []*fakeDecoder{
		textStream("## Risk Assessment\n", 100, 50),
	}}
	g := newTestGenerator(t, fake)

	_, err := g.Generate(context.Background(), model.FeatureRiskIndicators, nil)
	require.NoError(t, err)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, 0.3, fake.calls[0].Temperature.Value)
	assert.Equal(t, int64(8192), fake.calls[0].MaxTokens)
}

func TestGenerator_Generate_FallsBackToNextModel(t *testing.T) {
	fake := &fakeMessages{streams: []*fakeDecoder{
		failedStream(errors.New("overloaded")),
		textStream("## Risk Assessment\n", 100, 50),
	}}
	g := newTestGenerator(t, fake)

	res, err := g.Generate(context.Background(), model.FeatureRiskIndicators, nil)
	require.NoError(t, err)
	require.Len(t, fake.calls, 2)
	assert.Equal(t, sdk.Model("claude-sonnet-4-5-20250929"), fake.calls[0].Model)
	assert.Equal(t, sdk.Model("claude-haiku-4-5-20251001"), fake.calls[1].Model)
	assert.Equal(t, "claude-haiku-4-5-20251001", res.Model)
}

func TestGenerator_Generate_AllModelsFail(t *testing.T) {
	fake := &fakeMessages{streams: []*fakeDecoder{
		failedStream(errors.New("overloaded")),
		failedStream(errors.New("overloaded")),
	}}
	g := newTestGenerator(t, fake)

	res, err := g.Generate(context.Background(), model.FeatureSkills, nil)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "all models failed")
	assert.Len(t, fake.calls, 2)
}

func TestGenerator_Generate_EmptyResponse(t *testing.T) {
	fake := &fakeMessages{streams: []*fakeDecoder{
		{events: []ssestream.Event{
			sse("message_start", `{"type":"message_start","message":{"usage":{"input_tokens":10}}}`),
			sse("message_stop", `{"type":"message_stop"}`),
		}},
		{events: []ssestream.Event{
			sse("message_start", `{"type":"message_start","message":{"usage":{"input_tokens":10}}}`),
			sse("message_stop", `{"type":"message_stop"}`),
		}},
	}}
	g := newTestGenerator(t, fake)

	// An empty completion is an invocation failure, so the chain moves on.
	_, err := g.Generate(context.Background(), model.FeatureSkills, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text content")
}

func TestGenerator_Generate_CancellationKeepsPartialUsage(t *testing.T) {
	interrupted := &fakeDecoder{
		events: []ssestream.Event{
			sse("message_start", `{"type":"message_start","message":{"usage":{"input_tokens":900}}}`),
			sse("content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`),
			sse("content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"## Recommended"}}`),
		},
		err: context.Canceled,
	}
	fake := &fakeMessages{streams: []*fakeDecoder{interrupted}}
	g := newTestGenerator(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := g.Generate(ctx, model.FeatureSkills, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	// Tokens consumed before the interruption are still reported, and
	// the chain does not retry on a dead context.
	assert.Equal(t, 900, res.InputTokens)
	assert.Equal(t, "## Recommended", res.Content)
	assert.Contains(t, err.Error(), "interrupted")
	assert.Len(t, fake.calls, 1)
	assert.True(t, interrupted.closed)
}

func TestBuildPrompt(t *testing.T) {
	t.Run("embeds profile", func(t *testing.T) {
		p, err := buildPrompt(model.FeatureEmergencyContacts, []byte(`{"zip":"97201"}`))
		require.NoError(t, err)
		assert.Contains(t, p.User, `"zip":"97201"`)
		assert.Contains(t, p.User, "## Emergency Contacts Analysis")
		assert.Contains(t, p.User, "## Meeting Locations")
	})

	t.Run("nil input becomes empty profile", func(t *testing.T) {
		p, err := buildPrompt(model.FeatureSkills, nil)
		require.NoError(t, err)
		assert.Contains(t, p.User, "{}")
	})

	t.Run("invalid json rejected", func(t *testing.T) {
		_, err := buildPrompt(model.FeatureSkills, []byte("nope"))
		require.Error(t, err)
	})

	t.Run("unknown feature rejected", func(t *testing.T) {
		_, err := buildPrompt(model.Feature("weather"), nil)
		require.Error(t, err)
	})
}

func TestNewGenerator_RequiresKeyWithoutOverride(t *testing.T) {
	_, err := NewGenerator(GeneratorOptions{})
	require.Error(t, err)
}
