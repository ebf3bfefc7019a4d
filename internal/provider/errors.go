package provider

import (
	"fmt"
	"strings"
)

// Kind classifies a service failure. Classification is best-effort, based
// on message substrings rather than structured error codes.
type Kind string

const (
	KindNetwork           Kind = "network"
	KindRateLimit         Kind = "rate_limit"
	KindInvalidCredential Kind = "invalid_credential"
	KindParsing           Kind = "parsing"
	KindTimeout           Kind = "timeout"
	KindUnknown           Kind = "unknown"
)

// ServiceError represents a failure from a text-generation provider.
type ServiceError struct {
	// Provider is the name of the provider that encountered the error.
	Provider string

	// Kind is the classified failure category.
	Kind Kind

	// Message is a localized, user-presentable message. Raw error detail
	// is never shown to the user.
	Message string

	// Err is the underlying error (if any).
	Err error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s provider error (%s): %s: %v", e.Provider, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s provider error (%s): %s", e.Provider, e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// User-presentable messages per failure kind.
var kindMessages = map[Kind]string{
	KindNetwork:           "Error de conexión. Por favor, verifica tu conexión a internet.",
	KindRateLimit:         "Demasiadas solicitudes. Por favor, espera un momento.",
	KindInvalidCredential: "Error de autenticación con el servicio de IA.",
	KindParsing:           "Error al procesar la respuesta de IA.",
	KindTimeout:           "La solicitud tardó demasiado. Por favor, intenta de nuevo.",
	KindUnknown:           "Ocurrió un error inesperado. Por favor, intenta de nuevo.",
}

// UserMessage returns the localized message for a failure kind.
func (k Kind) UserMessage() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return kindMessages[KindUnknown]
}

// Classify wraps an error in a ServiceError, inferring its kind from
// keyword substrings in the error text.
func Classify(providerName string, err error) *ServiceError {
	if serr, ok := err.(*ServiceError); ok {
		return serr
	}

	kind := classifyKind(err)
	return &ServiceError{
		Provider: providerName,
		Kind:     kind,
		Message:  kind.UserMessage(),
		Err:      err,
	}
}

func classifyKind(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	msg := strings.ToLower(err.Error())

	switch {
	case containsAny(msg, "timeout", "timed out", "deadline exceeded"):
		return KindTimeout
	case containsAny(msg, "rate limit", "429"):
		return KindRateLimit
	case containsAny(msg, "api key", "401", "403", "unauthorized"):
		return KindInvalidCredential
	case containsAny(msg, "parse", "json", "unmarshal"):
		return KindParsing
	case containsAny(msg, "connection", "network", "no such host", "refused"):
		return KindNetwork
	}
	return KindUnknown
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
