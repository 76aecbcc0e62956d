package llmHandlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/genproto/googleapis/api/httpbody"
)

// RawPredictor is the part of the aiplatform PredictionClient used to reach
// publisher models.
type RawPredictor interface {
	RawPredict(ctx context.Context, req *aiplatformpb.RawPredictRequest, opts ...gax.CallOption) (*httpbody.HttpBody, error)
}

// VertexAnthropicClient implements Client for Claude served from Vertex AI.
type VertexAnthropicClient struct {
	predictor RawPredictor
	endpoint  string

	MaxTokens int
}

func NewVertexAnthropicClient(predictor RawPredictor, projectID, location, modelID string) *VertexAnthropicClient {
	return &VertexAnthropicClient{
		predictor: predictor,
		endpoint:  fmt.Sprintf("projects/%s/locations/%s/publishers/anthropic/models/%s", projectID, location, modelID),
		MaxTokens: 1024,
	}
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	Messages         []claudeMessage `json:"messages"`
	MaxTokens        int             `json:"max_tokens"`
	System           string          `json:"system,omitempty"`
	Stream           bool            `json:"stream"`
}

type claudeResponse struct {
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *VertexAnthropicClient) Chat(ctx context.Context, systemMessage string, messages []Message) (string, error) {
	body := claudeRequest{
		AnthropicVersion: "vertex-2023-10-16",
		Messages:         make([]claudeMessage, 0, len(messages)),
		MaxTokens:        c.MaxTokens,
		System:           systemMessage,
	}
	for _, m := range messages {
		body.Messages = append(body.Messages, claudeMessage{Role: string(m.Role), Content: m.Content})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal body: %w", err)
	}

	resp, err := c.predictor.RawPredict(ctx, &aiplatformpb.RawPredictRequest{
		Endpoint: c.endpoint,
		HttpBody: &httpbody.HttpBody{
			ContentType: "application/json",
			Data:        payload,
		},
	})
	if err != nil {
		return "", fmt.Errorf("vertex RawPredict: %w", err)
	}

	var cr claudeResponse
	if err := json.Unmarshal(resp.GetData(), &cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	texts := []string{}
	for _, block := range cr.Content {
		if block.Type == "text" && block.Text != "" {
			texts = append(texts, block.Text)
		}
	}
	if len(texts) == 0 {
		return "", fmt.Errorf("vertex returned no text content (stop_reason %q)", cr.StopReason)
	}
	return strings.Join(texts, "\n\n"), nil
}
