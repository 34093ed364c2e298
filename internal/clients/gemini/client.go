// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"whaletrack/internal/common"
	"whaletrack/internal/interfaces"
	"whaletrack/internal/models"
)

const DefaultModel = "gemini-2.0-flash"

// Client implements the GeminiClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateContent generates AI content from a prompt
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating content")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// Commentary generates reviewer notes on one cycle's change set.
func (c *Client) Commentary(ctx context.Context, analysis *models.PortfolioAnalysis) (string, error) {
	return c.GenerateContent(ctx, buildCommentaryPrompt(analysis))
}

// buildCommentaryPrompt summarizes the change set into a compact prompt.
// Unchanged positions and price details are left out; the model comments
// on what moved, not on the whole book.
func buildCommentaryPrompt(analysis *models.PortfolioAnalysis) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "The institutional investor %s filed a quarterly holdings disclosure", analysis.Institution)
	if !analysis.FiledAt.IsZero() {
		fmt.Fprintf(&sb, " dated %s", analysis.FiledAt.Format("2006-01-02"))
	}
	fmt.Fprintf(&sb, ". Total reported value: %s.\n\n", common.FormatCompactMoney(analysis.TotalValue))

	sections := []struct {
		category models.ChangeCategory
		label    string
	}{
		{models.ChangeClosed, "Fully exited"},
		{models.ChangeDecreased, "Reduced"},
		{models.ChangeNew, "New positions"},
		{models.ChangeIncreased, "Added to"},
	}
	moved := false
	for _, section := range sections {
		changes := analysis.ChangesInCategory(section.category)
		if len(changes) == 0 {
			continue
		}
		moved = true
		fmt.Fprintf(&sb, "%s:\n", section.label)
		for _, ch := range changes {
			fmt.Fprintf(&sb, "- %s: %s -> %s shares\n",
				ch.Ticker, common.FormatShares(ch.PreviousShares), common.FormatShares(ch.CurrentShares))
		}
		sb.WriteString("\n")
	}
	if !moved {
		sb.WriteString("No positions changed since the prior filing.\n\n")
	}

	sb.WriteString("In two or three short paragraphs, comment on what these moves suggest ")
	sb.WriteString("about the investor's positioning. Be factual and measured; do not give ")
	sb.WriteString("investment advice or predictions.")

	return sb.String()
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// Ensure Client implements GeminiClient
var _ interfaces.GeminiClient = (*Client)(nil)
