package agent

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type LLMClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewLLMClient(ctx context.Context) (*LLMClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel("gemini-2.5-flash")
	model.SetTemperature(0.7)

	return &LLMClient{
		client: client,
		model:  model,
	}, nil
}

// HolidayGreeting asks the model for a one-line celebratory description
// for a holiday gift code.
func (c *LLMClient) HolidayGreeting(ctx context.Context, holidayName string) (string, error) {
	prompt := fmt.Sprintf(`Write a single short celebratory sentence (no quotes, no emoji, max 120 characters) announcing a bonus points gift code for %s.`, holidayName)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from LLM")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}

	return "", fmt.Errorf("no text content in response")
}

func (c *LLMClient) Close() {
	c.client.Close()
}
