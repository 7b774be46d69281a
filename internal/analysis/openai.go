package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"mynotes/internal/config"
	"mynotes/internal/storage"
)

const (
	openAITimeout     = 60 * time.Second
	imageURLTTL       = 5 * time.Minute
	entityInstruction = `Extract the named entities (people, places, organizations, dates, events, titles, quantities, commercial items) from the user's text.
The text is written in the language with ISO 639-1 code %q.
Reply with a JSON object of the form {"entities":[{"text":"...","type":"..."}]} and nothing else.
Use the exact spans as they appear in the text.`
	labelInstruction = `List the objects, scenes and concepts visible in the image.
Reply with a JSON object of the form {"labels":[{"name":"...","confidence":0-100}]} and nothing else.
Names are short English nouns with the first letter capitalized.`
)

// ChatCompleter is the subset of the OpenAI client used here.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient builds a traced OpenAI client from configuration.
func NewOpenAIClient(cfg config.AnalysisConfig) *openai.Client {
	oc := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		oc.BaseURL = cfg.OpenAIBaseURL
	}
	oc.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   openAITimeout,
	}
	return openai.NewClientWithConfig(oc)
}

// OpenAIEntityExtractor asks a chat model for entity spans.
type OpenAIEntityExtractor struct {
	client ChatCompleter
	model  string
}

var _ EntityExtractor = (*OpenAIEntityExtractor)(nil)

func NewOpenAIEntityExtractor(client ChatCompleter, model string) *OpenAIEntityExtractor {
	return &OpenAIEntityExtractor{client: client, model: model}
}

type entityReply struct {
	Entities []struct {
		Text string `json:"text"`
		Type string `json:"type"`
	} `json:"entities"`
}

func (e *OpenAIEntityExtractor) Extract(ctx context.Context, text, languageCode string) ([]string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(entityInstruction, languageCode)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0,
	})
	if err != nil {
		return nil, fmt.Errorf("extract entities (%s): %w", languageCode, err)
	}

	var reply entityReply
	if err := decodeReply(resp, &reply); err != nil {
		return nil, fmt.Errorf("extract entities (%s): %w", languageCode, err)
	}

	out := make([]string, 0, len(reply.Entities))
	for _, ent := range reply.Entities {
		if s := strings.TrimSpace(ent.Text); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// Presigner issues short-lived read URLs for stored objects.
type Presigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (storage.SignedURL, error)
}

// OpenAIImageLabeler asks a vision model to label an image it reads through
// a presigned URL.
type OpenAIImageLabeler struct {
	client    ChatCompleter
	model     string
	presigner Presigner
}

var _ ImageLabeler = (*OpenAIImageLabeler)(nil)

func NewOpenAIImageLabeler(client ChatCompleter, model string, presigner Presigner) *OpenAIImageLabeler {
	return &OpenAIImageLabeler{client: client, model: model, presigner: presigner}
}

type labelReply struct {
	Labels []struct {
		Name       string  `json:"name"`
		Confidence float64 `json:"confidence"`
	} `json:"labels"`
}

func (l *OpenAIImageLabeler) DetectLabels(ctx context.Context, ref BlobRef, maxLabels int, minConfidence float64) ([]string, error) {
	signed, err := l.presigner.PresignGet(ctx, ref.Key, imageURLTTL)
	if err != nil {
		return nil, fmt.Errorf("detect labels %s/%s: %w", ref.Bucket, ref.Key, err)
	}

	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: labelInstruction},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    signed.URL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0,
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels %s/%s: %w", ref.Bucket, ref.Key, err)
	}

	var reply labelReply
	if err := decodeReply(resp, &reply); err != nil {
		return nil, fmt.Errorf("detect labels %s/%s: %w", ref.Bucket, ref.Key, err)
	}

	kept := reply.Labels[:0]
	for _, lb := range reply.Labels {
		lb.Name = strings.TrimSpace(lb.Name)
		if lb.Name != "" && lb.Confidence >= minConfidence {
			kept = append(kept, lb)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Confidence > kept[j].Confidence })
	if maxLabels > 0 && len(kept) > maxLabels {
		kept = kept[:maxLabels]
	}

	out := make([]string, 0, len(kept))
	for _, lb := range kept {
		out = append(out, lb.Name)
	}
	return out, nil
}

func decodeReply(resp openai.ChatCompletionResponse, v any) error {
	if len(resp.Choices) == 0 {
		return fmt.Errorf("empty completion")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return fmt.Errorf("decode completion: %w", err)
	}
	return nil
}
