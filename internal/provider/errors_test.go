package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"timeout keyword", errors.New("context deadline exceeded"), KindTimeout},
		{"timed out", errors.New("request timed out after 30s"), KindTimeout},
		{"rate limit status", errors.New("service returned 429: too many requests"), KindRateLimit},
		{"rate limit phrase", errors.New("rate limit exceeded"), KindRateLimit},
		{"missing api key", errors.New("invalid API key provided"), KindInvalidCredential},
		{"unauthorized status", errors.New("service returned 401: unauthorized"), KindInvalidCredential},
		{"json decode", errors.New("failed to unmarshal response"), KindParsing},
		{"connection refused", errors.New("dial tcp: connection refused"), KindNetwork},
		{"dns failure", errors.New("no such host"), KindNetwork},
		{"anything else", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serr := Classify("openai", tt.err)
			require.Equal(t, tt.want, serr.Kind)
			require.Equal(t, "openai", serr.Provider)
			require.ErrorIs(t, serr, tt.err)
		})
	}
}

func TestClassifyTimeoutWinsOverNetwork(t *testing.T) {
	// "connection timeout" matches both categories; timeout is checked first.
	serr := Classify("openai", errors.New("connection timeout"))
	require.Equal(t, KindTimeout, serr.Kind)
}

func TestClassifyPassesThroughServiceError(t *testing.T) {
	original := &ServiceError{Provider: "mock", Kind: KindParsing, Message: KindParsing.UserMessage()}
	serr := Classify("openai", original)
	require.Same(t, original, serr)
}

func TestUserMessage(t *testing.T) {
	require.Equal(t, "Demasiadas solicitudes. Por favor, espera un momento.", KindRateLimit.UserMessage())
	require.Equal(t, KindUnknown.UserMessage(), Kind("made-up").UserMessage())
}

func TestServiceErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	serr := Classify("mock", base)
	require.Equal(t, base, errors.Unwrap(serr))

	var target *ServiceError
	require.True(t, errors.As(serr, &target))
}
