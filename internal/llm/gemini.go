package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini is the Gemini-backed Provider.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini provider with the given API key.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client}, nil
}

// NewChat opens a fresh chat session against the named model.
func (g *Gemini) NewChat(model string) Chat {
	return &geminiChat{session: g.client.GenerativeModel(model).StartChat()}
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	g.client.Close()
	return nil
}

type geminiChat struct {
	session *genai.ChatSession
}

func (c *geminiChat) Send(ctx context.Context, message string) (string, error) {
	resp, err := c.session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from model")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("unexpected response type from model")
	}
	return b.String(), nil
}
