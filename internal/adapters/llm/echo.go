package llm

import "context"

// Echo returns the payload untouched; used for local runs without a key
type Echo struct{}

// Name returns "echo"
func (Echo) Name() string { return KindEcho }

// Complete returns p.Text, honoring cancellation
func (Echo) Complete(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.Text, nil
}
