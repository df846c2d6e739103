package checklist

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatProvider asks an Eino chat model for checklist steps.
type ChatProvider struct {
	model model.BaseChatModel
}

// NewChatProvider wraps a chat model.
func NewChatProvider(m model.BaseChatModel) *ChatProvider {
	return &ChatProvider{model: m}
}

// Steps sends the checklist prompt and parses the bulleted reply.
func (c *ChatProvider) Steps(ctx context.Context, goal string) ([]string, error) {
	resp, err := c.model.Generate(ctx, []*schema.Message{schema.UserMessage(Prompt(goal))})
	if err != nil {
		return nil, fmt.Errorf("failed to generate checklist: %w", err)
	}
	if resp == nil {
		return nil, ErrNoSteps
	}
	steps := ParseSteps(resp.Content)
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	return steps, nil
}
