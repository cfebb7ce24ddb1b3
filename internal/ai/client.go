package ai

import "context"

// Client is the inference boundary: submit video bytes plus a prompt, get
// back text or a failure. Implementations never panic past this interface;
// every transport, encoding or provider error comes back as the error value.
type Client interface {
	// Available reports whether a credential was configured at start.
	// When false the application runs in capture-only mode.
	Available() bool

	// Submit sends one payload for analysis. model may be empty to use the
	// configured default. Single request/response; no retries, no streaming.
	Submit(ctx context.Context, payload []byte, mimeType, prompt, model string) (string, error)
}
