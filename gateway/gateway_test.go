package gateway_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/promptweave/promptweave/core"
	"github.com/promptweave/promptweave/gateway"
	"github.com/promptweave/promptweave/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userMessage(text string) core.Message {
	return core.NewMessage(core.RoleUser, text)
}

func TestGateway_Send(t *testing.T) {
	conn := testutil.NewScriptedConnector("scripted", "test-model")
	conn.AddResponse("ping", "pong")
	g := gateway.New([]gateway.Connector{conn})

	res, err := g.Send(context.Background(), gateway.Request{
		Model:    "test-model",
		Messages: []core.Message{userMessage("ping")},
	})
	require.NoError(t, err)
	assert.Equal(t, "pong", res.Text)
	assert.Equal(t, "stop", res.FinishReason)
	assert.NotEmpty(t, res.Raw)
}

func TestGateway_UnknownModel(t *testing.T) {
	conn := testutil.NewScriptedConnector("scripted", "test-model")
	g := gateway.New([]gateway.Connector{conn})

	_, err := g.Send(context.Background(), gateway.Request{Model: "other-model"})
	var unknown *core.UnknownModelError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "other-model", unknown.Model)
}

func TestGateway_AmbiguousModel(t *testing.T) {
	a := testutil.NewScriptedConnector("first", "shared-model")
	b := testutil.NewScriptedConnector("second", "shared-model")
	g := gateway.New([]gateway.Connector{a, b})

	_, err := g.Send(context.Background(), gateway.Request{Model: "shared-model"})
	var ambiguous *core.AmbiguousModelError
	require.True(t, errors.As(err, &ambiguous))
	assert.ElementsMatch(t, []string{"first", "second"}, ambiguous.Connectors)
}

func TestGateway_StreamConcatEqualsDirect(t *testing.T) {
	conn := testutil.NewScriptedConnector("scripted", "test-model")
	conn.AddResponse("ping", "a longer streamed response")
	g := gateway.New([]gateway.Connector{conn})

	direct, err := g.Send(context.Background(), gateway.Request{
		Model:    "test-model",
		Messages: []core.Message{userMessage("ping")},
	})
	require.NoError(t, err)

	var deltas strings.Builder
	streamed, err := g.SendStream(context.Background(), gateway.Request{
		Model:    "test-model",
		Messages: []core.Message{userMessage("ping")},
	}, func(delta string) { deltas.WriteString(delta) })
	require.NoError(t, err)

	assert.Equal(t, direct.Text, streamed.Text)
	assert.Equal(t, direct.Text, deltas.String())
}

func TestGateway_ConnectorFailure(t *testing.T) {
	conn := testutil.NewScriptedConnector("scripted", "test-model")
	conn.Err = errors.New("backend exploded")
	g := gateway.New([]gateway.Connector{conn})

	_, err := g.Send(context.Background(), gateway.Request{Model: "test-model"})
	var provErr *core.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, "scripted", provErr.Provider)
	assert.False(t, provErr.Timeout())
}

func TestGateway_Timeout(t *testing.T) {
	conn := &testutil.HangingConnector{Provider: "slow", Models: []string{"slow-model"}}
	g := gateway.New([]gateway.Connector{conn}, func(o *gateway.Options) {
		o.Timeout = 10 * time.Millisecond
	})

	_, err := g.Send(context.Background(), gateway.Request{Model: "slow-model"})
	var provErr *core.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.True(t, provErr.Timeout())
}

func TestGateway_Cancellation(t *testing.T) {
	conn := &testutil.HangingConnector{Provider: "slow", Models: []string{"slow-model"}}
	g := gateway.New([]gateway.Connector{conn})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := g.Send(ctx, gateway.Request{Model: "slow-model"})
	var provErr *core.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.False(t, provErr.Timeout())
	assert.ErrorIs(t, err, context.Canceled)
}
