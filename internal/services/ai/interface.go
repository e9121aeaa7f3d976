package ai

import "context"

// Provider is an adapter to an external reasoning service. Calls are
// single-shot: no retries, no streaming. Timeouts belong to the caller's
// context.
type Provider interface {
	// Answer sends a fully built prompt and returns the first candidate's
	// text.
	Answer(ctx context.Context, prompt string) (string, error)
	// DescribeImage sends an instruction together with raw image bytes.
	DescribeImage(ctx context.Context, data []byte, mimeType, instruction string) (string, error)
}
