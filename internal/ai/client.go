package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/BYMO9/griboul/internal/models"
)

// ErrUnparseable indicates the model returned something other than the
// requested JSON. Callers decide whether that degrades or fails.
var ErrUnparseable = errors.New("model response is not valid JSON")

// Analysis is the structured extraction produced from a transcript.
type Analysis struct {
	Technologies []string `json:"technologies"`
	Challenges   []string `json:"challenges"`
	Emotions     []string `json:"emotions"`
	TimeOfDay    string   `json:"timeOfDay"`
	Stage        string   `json:"stage"`
	Mood         string   `json:"mood"`
}

// Profile is the user information extracted from an intro transcript.
// Pointer fields are null when the transcript does not mention them.
type Profile struct {
	Name          *string `json:"name"`
	Age           *int    `json:"age"`
	Location      *string `json:"location"`
	Building      *string `json:"building"`
	MiniStatement string  `json:"miniStatement,omitempty"`
}

// Provider sequences the external completion and embedding calls. Each
// method is one network call with no automatic retry.
type Provider interface {
	GenerateStatement(ctx context.Context, transcript string) (string, error)
	Analyze(ctx context.Context, transcript string) (Analysis, error)
	Embed(ctx context.Context, text string) ([]float32, error)
	ExtractProfile(ctx context.Context, transcript string) (Profile, error)
}

// Transcriber converts a stored video into a transcript. The current
// implementation is a stand-in for a speech-to-text provider.
type Transcriber interface {
	Transcribe(ctx context.Context, videoURL string) (string, error)
}

// embedInputLimit bounds the text sent to the embeddings endpoint.
const embedInputLimit = 8000

// OpenAIClient implements Provider against the OpenAI API.
type OpenAIClient struct {
	api            *openai.Client
	chatModel      string
	embeddingModel string
}

// NewOpenAIClient constructs a client for the configured models.
func NewOpenAIClient(apiKey, chatModel, embeddingModel string) *OpenAIClient {
	return &OpenAIClient{
		api:            openai.NewClient(apiKey),
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
	}
}

// GenerateStatement produces the one-line mini-statement for a builder update.
func (c *OpenAIClient) GenerateStatement(ctx context.Context, transcript string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Temperature: 0.7,
		MaxTokens:   50,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: statementSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Create a mini-statement for this builder update: %q", transcript)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate statement: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("generate statement: empty completion")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Analyze extracts technologies, challenges, emotions, stage, and mood.
func (c *OpenAIClient) Analyze(ctx context.Context, transcript string) (Analysis, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Temperature: 0.3,
		MaxTokens:   200,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze transcript: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Analysis{}, errors.New("analyze transcript: empty completion")
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Choices[0].Message.Content)), &analysis); err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	return analysis, nil
}

// Embed converts text to a fixed-dimension vector, truncating long input.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > embedInputLimit {
		text = text[:embedInputLimit]
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.embeddingModel),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("create embedding: empty response")
	}

	embedding := resp.Data[0].Embedding
	if len(embedding) != models.EmbeddingDim {
		return nil, fmt.Errorf("create embedding: expected %d dimensions, got %d", models.EmbeddingDim, len(embedding))
	}

	return embedding, nil
}

// ExtractProfile pulls name, age, location, and project description from
// an intro transcript, then writes a one-line statement for the profile.
// Unlike Analyze, an unparseable response is a hard failure here.
func (c *OpenAIClient) ExtractProfile(ctx context.Context, transcript string) (Profile, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Temperature: 0.1,
		MaxTokens:   200,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: profileSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	})
	if err != nil {
		return Profile{}, fmt.Errorf("extract profile: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Profile{}, errors.New("extract profile: empty completion")
	}

	var profile Profile
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Choices[0].Message.Content)), &profile); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	statementResp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Temperature: 0.7,
		MaxTokens:   50,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: profileStatementSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(
				"Name: %s, Age: %s, Location: %s, Building: %s",
				stringOrNull(profile.Name), intOrNull(profile.Age),
				stringOrNull(profile.Location), stringOrNull(profile.Building))},
		},
	})
	if err != nil {
		return Profile{}, fmt.Errorf("extract profile statement: %w", err)
	}
	if len(statementResp.Choices) == 0 {
		return Profile{}, errors.New("extract profile statement: empty completion")
	}

	profile.MiniStatement = strings.TrimSpace(statementResp.Choices[0].Message.Content)

	return profile, nil
}

// stripCodeFence removes a markdown fence some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func stringOrNull(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}

func intOrNull(i *int) string {
	if i == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *i)
}

var _ Provider = (*OpenAIClient)(nil)
