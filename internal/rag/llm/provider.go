package llm

import "context"

// Provider generates text from a prompt. Retrieved context blocks are
// optional, metadata generation passes none.
type Provider interface {
	Generate(ctx context.Context, prompt string, contextBlocks []string) (string, error)
}
