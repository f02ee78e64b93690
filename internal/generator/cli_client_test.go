package generator

import (
	"context"
	"testing"
)

var _ LLMClient = (*CLIClient)(nil)

func TestCLIClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCLIClient("claude")
	if _, err := c.Generate(ctx, "system", "user"); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}
