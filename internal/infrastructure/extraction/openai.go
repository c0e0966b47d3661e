package extraction

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/commtrack/backend/internal/domain/review"
	"github.com/commtrack/backend/internal/infrastructure/config"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = `You extract structured data from invoice images for a commission tracker.
Return ONLY a valid JSON object with these fields:
{
  "invoice_number": "the invoice number or reference (required, empty string if unreadable)",
  "receipt_number": "the receipt number if one appears on the document",
  "customer": "the billed customer or company name",
  "amount_before_vat": "the amount before VAT as a plain decimal string, e.g. 1234.50",
  "currency_code": "ISO currency code like ILS, USD, EUR",
  "invoice_date": "the invoice issue date in YYYY-MM-DD format",
  "project_description": "short description of the billed work"
}
Use an empty string for any field you cannot read. Return no text before or after the JSON.`

// OpenAIExtractor extracts invoice fields from uploaded images using an
// OpenAI-compatible vision chat completion endpoint.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIExtractor creates a new OpenAIExtractor from configuration
func NewOpenAIExtractor(cfg config.ExtractionConfig, logger *zap.Logger) *OpenAIExtractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIExtractor{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger.Named("extraction"),
	}
}

// Extract sends the invoice image to the model and parses the structured reply.
func (e *OpenAIExtractor) Extract(ctx context.Context, image []byte, contentType string) (*review.RawInvoiceFields, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("empty invoice image")
	}
	if contentType == "" {
		contentType = "image/png"
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0.1,
		MaxTokens:   500,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Extract the invoice fields from this document.",
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURI,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("extraction returned no choices")
	}

	content := resp.Choices[0].Message.Content
	fields, err := ParseRawFields(content)
	if err != nil {
		e.logger.Warn("Failed to parse extraction response",
			zap.String("content", content),
			zap.Error(err),
		)
		return nil, err
	}

	e.logger.Info("Invoice fields extracted",
		zap.String("invoice_number", fields.InvoiceNumber),
		zap.String("amount", fields.AmountBeforeVAT),
		zap.String("currency", fields.CurrencyCode),
	)

	return fields, nil
}

// ParseRawFields parses a model reply into RawInvoiceFields. Models sometimes
// wrap the JSON in a markdown code fence, so fences are stripped first.
func ParseRawFields(content string) (*review.RawInvoiceFields, error) {
	cleaned := stripCodeFence(content)

	var fields review.RawInvoiceFields
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("invalid extraction JSON: %w", err)
	}

	fields.InvoiceNumber = strings.TrimSpace(fields.InvoiceNumber)
	fields.ReceiptNumber = strings.TrimSpace(fields.ReceiptNumber)
	fields.Customer = strings.TrimSpace(fields.Customer)
	fields.AmountBeforeVAT = strings.TrimSpace(fields.AmountBeforeVAT)
	fields.CurrencyCode = strings.ToUpper(strings.TrimSpace(fields.CurrencyCode))
	fields.InvoiceDate = strings.TrimSpace(fields.InvoiceDate)
	fields.ProjectDescription = strings.TrimSpace(fields.ProjectDescription)

	if fields.InvoiceNumber == "" && fields.AmountBeforeVAT == "" {
		return nil, fmt.Errorf("extraction produced no usable fields")
	}

	return &fields, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
