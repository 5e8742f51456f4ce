package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const promptTemplate = `You are a highly accurate emotion detection system.
Analyze the uploaded image file of a human face.
From the following list of emotions: [%s],
identify exactly one dominant emotion.

Return only the emotion keyword: it must be exactly one of the listed words,
in lowercase, with no punctuation, no additional words or explanation.`

// Client wraps the Gemini API for single-label image classification.
type Client struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	logger    *zap.Logger
	modelName string
	timeout   time.Duration
}

// Config for the Gemini classifier client.
type Config struct {
	APIKey  string
	Model   string // Default: "gemini-2.5-flash"
	Timeout time.Duration
}

// NewClient creates a new Gemini classifier client.
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0.0),
		MaxOutputTokens: genai.Ptr[int32](16),
	}

	logger.Info("Gemini classifier initialized", zap.String("model", cfg.Model))

	return &Client{
		client:    client,
		model:     model,
		logger:    logger,
		modelName: cfg.Model,
		timeout:   cfg.Timeout,
	}, nil
}

// Close closes the underlying Gemini client.
func (c *Client) Close() error {
	return c.client.Close()
}

// Classify sends the image to Gemini and returns the single emotion
// keyword from its answer, lowercased and trimmed. The call is bounded
// by the configured timeout; the caller decides what to do with a
// keyword outside its taxonomy.
func (c *Client) Classify(ctx context.Context, image []byte, labels []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(promptTemplate, strings.Join(labels, ", "))

	resp, err := c.model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.ImageData(detectSubtype(image), image),
	)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	textPart, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from gemini")
	}

	answer := strings.ToLower(strings.TrimSpace(string(textPart)))
	c.logger.Debug("Classifier answered",
		zap.String("model", c.modelName),
		zap.String("emotion", answer))
	return answer, nil
}

// detectSubtype returns the MIME subtype Gemini expects for the image
// payload. Uploads reach this point already validated as JPEG or PNG.
func detectSubtype(image []byte) string {
	if len(image) >= 8 && string(image[:8]) == "\x89PNG\r\n\x1a\n" {
		return "png"
	}
	return "jpeg"
}
