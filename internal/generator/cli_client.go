package generator

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CLIClient runs prompts through a locally installed claude binary. Meant for
// development machines without an API key configured. The CLI does not report
// token usage, so both counts come back zero.
type CLIClient struct {
	binary string
}

func NewCLIClient(binary string) *CLIClient {
	return &CLIClient{binary: binary}
}

func (c *CLIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	cmd := exec.CommandContext(ctx, c.binary,
		"--print",
		"--output-format", "text",
		"--system-prompt", systemPrompt,
		"--max-turns", "1",
	)
	cmd.Stdin = strings.NewReader(userPrompt)

	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run %s: %w (stderr: %s)", c.binary, err, strings.TrimSpace(errOut.String()))
	}

	content := strings.TrimSpace(out.String())
	if content == "" {
		return nil, fmt.Errorf("%s produced no output", c.binary)
	}

	return &LLMResponse{Content: content}, nil
}
