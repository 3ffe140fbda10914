package port

import "context"

// CompletionInput carries one formatting request for the LLM.
type CompletionInput struct {
	Model             string
	SystemInstruction string
	UserContent       string
}

// CompletionFetcher abstracts LLM chat completion. Model reports the
// fetcher's currently configured model identifier, used when the caller does
// not override it.
type CompletionFetcher interface {
	Complete(ctx context.Context, input CompletionInput) (string, error)
	Model() string
}
