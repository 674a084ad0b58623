package mediator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct{ Value string }

type pingHandler struct{}

func (h *pingHandler) Handle(_ context.Context, request Request) (Response, error) {
	cmd, ok := request.(*pingCommand)
	if !ok {
		return nil, errors.New("invalid request type")
	}
	return "pong:" + cmd.Value, nil
}

func TestMediator_DispatchesByRequestType(t *testing.T) {
	m := NewMediator()
	require.NoError(t, RegisterHandler[*pingCommand](m, &pingHandler{}))

	resp, err := Send[string](context.Background(), m, &pingCommand{Value: "a"})

	require.NoError(t, err)
	assert.Equal(t, "pong:a", resp)
}

func TestMediator_RejectsDuplicateAndUnknown(t *testing.T) {
	m := NewMediator()
	require.NoError(t, RegisterHandler[*pingCommand](m, &pingHandler{}))

	assert.Error(t, RegisterHandler[*pingCommand](m, &pingHandler{}))

	_, err := m.Send(context.Background(), struct{}{})
	assert.Error(t, err)

	_, err = m.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	m := NewMediator()
	require.NoError(t, RegisterHandler[*pingCommand](m, &pingHandler{}))

	var order []string
	trace := func(name string) Middleware {
		return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
			order = append(order, name+":before")
			resp, err := next(ctx, request)
			order = append(order, name+":after")
			return resp, err
		}
	}
	m.RegisterMiddleware(trace("outer"))
	m.RegisterMiddleware(trace("inner"))

	_, err := m.Send(context.Background(), &pingCommand{})

	require.NoError(t, err)
	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, order)
}

func TestSend_WrongResponseType(t *testing.T) {
	m := NewMediator()
	require.NoError(t, RegisterHandler[*pingCommand](m, &pingHandler{}))

	_, err := Send[int](context.Background(), m, &pingCommand{})
	assert.Error(t, err)
}
