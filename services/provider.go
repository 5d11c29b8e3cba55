// ABOUTME: Model provider adapter over the Bedrock runtime API
// ABOUTME: Probes candidate models once at startup and encodes chat and titan request shapes

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/markalston/migration-advisor/metrics"
)

// DefaultModelCandidates are probed in order when no model is configured.
var DefaultModelCandidates = []string{
	"anthropic.claude-3-haiku-20240307-v1:0",
	"anthropic.claude-3-5-sonnet-20240620-v1:0",
	"anthropic.claude-3-sonnet-20240229-v1:0",
	"amazon.titan-text-express-v1",
}

const (
	chatAnthropicVersion = "bedrock-2023-05-31"
	defaultMaxTokens     = 4000
	defaultTimeout       = 30 * time.Second
	probeMaxTokens       = 10
	probePrompt          = "Reply with the single word OK."
	temperature          = 0.1
	topP                 = 0.9
)

// ModelInvoker is the subset of the Bedrock runtime client the adapter uses.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// ProviderConfig holds the settings for NewBedrockProvider.
type ProviderConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	ModelIdentifier string // replaces the candidate list when set
	Timeout         time.Duration
	AllProxy        string // optional ssh+socks5 URL
	MaxTokens       int
}

// replyShape selects the request and response codec for a model family.
type replyShape int

const (
	shapeChat replyShape = iota
	shapeTitan
)

func (s replyShape) String() string {
	if s == shapeTitan {
		return "titan"
	}
	return "chat"
}

func shapeFor(modelID string) replyShape {
	if strings.HasPrefix(modelID, "amazon.titan") {
		return shapeTitan
	}
	return shapeChat
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	AnthropicVersion string        `json:"anthropic_version"`
	MaxTokens        int           `json:"max_tokens"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	TopP             float64       `json:"top_p"`
}

type chatReply struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type titanConfig struct {
	MaxTokenCount int     `json:"maxTokenCount"`
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"topP"`
}

type titanRequest struct {
	InputText            string      `json:"inputText"`
	TextGenerationConfig titanConfig `json:"textGenerationConfig"`
}

type titanReply struct {
	Results []struct {
		OutputText string `json:"outputText"`
	} `json:"results"`
}

func encodeRequest(shape replyShape, prompt string, maxTokens int) ([]byte, error) {
	if shape == shapeTitan {
		return json.Marshal(titanRequest{
			InputText: prompt,
			TextGenerationConfig: titanConfig{
				MaxTokenCount: maxTokens,
				Temperature:   temperature,
				TopP:          topP,
			},
		})
	}
	return json.Marshal(chatRequest{
		AnthropicVersion: chatAnthropicVersion,
		MaxTokens:        maxTokens,
		Messages:         []chatMessage{{Role: "user", Content: prompt}},
		Temperature:      temperature,
		TopP:             topP,
	})
}

// decodeReply extracts the reply text. A body that does not match the
// expected shape fails instead of yielding empty text.
func decodeReply(shape replyShape, body []byte) (string, error) {
	if shape == shapeTitan {
		var r titanReply
		if err := json.Unmarshal(body, &r); err != nil {
			return "", &LLMError{Reason: ReasonInvalidJSON, Err: fmt.Errorf("decoding titan reply: %w", err)}
		}
		if len(r.Results) == 0 {
			return "", &LLMError{Reason: ReasonSchemaMismatch, Err: errors.New("titan reply has no results")}
		}
		return r.Results[0].OutputText, nil
	}

	var r chatReply
	if err := json.Unmarshal(body, &r); err != nil {
		return "", &LLMError{Reason: ReasonInvalidJSON, Err: fmt.Errorf("decoding chat reply: %w", err)}
	}
	if len(r.Content) == 0 {
		return "", &LLMError{Reason: ReasonSchemaMismatch, Err: errors.New("chat reply has no content blocks")}
	}
	return r.Content[0].Text, nil
}

// BedrockProvider sends prompts to the model selected at construction.
// It holds no mutable state and is safe for concurrent use.
type BedrockProvider struct {
	invoker   ModelInvoker
	model     string
	shape     replyShape
	timeout   time.Duration
	maxTokens int
	reason    string // why the adapter is unusable; empty when usable
}

// NewBedrockProvider builds the runtime client and probes for a working model.
// Missing credentials or a failed probe yield an unusable adapter, never an error.
func NewBedrockProvider(ctx context.Context, cfg ProviderConfig) *BedrockProvider {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		slog.Warn("Model provider credentials not configured, running rule-based only")
		p := &BedrockProvider{reason: "provider credentials not configured"}
		metrics.SetProviderUsable(false)
		return p
	}

	httpClient := awshttp.NewBuildableClient()
	if cfg.AllProxy != "" {
		dial, err := NewSOCKS5DialContext(cfg.AllProxy)
		if err != nil {
			slog.Error("Ignoring PROVIDER_ALL_PROXY", "error", err)
		} else {
			httpClient = httpClient.WithTransportOptions(func(tr *http.Transport) {
				tr.DialContext = dial
			})
			slog.Info("Model provider traffic routed through SSH+SOCKS5 proxy")
		}
	}

	client := bedrockruntime.New(bedrockruntime.Options{
		Region:      cfg.Region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		HTTPClient:  httpClient,
		Retryer:     aws.NopRetryer{},
	})

	candidates := DefaultModelCandidates
	if cfg.ModelIdentifier != "" {
		candidates = []string{cfg.ModelIdentifier}
	}
	return NewBedrockProviderWithInvoker(ctx, client, candidates, cfg.Timeout, cfg.MaxTokens)
}

// NewBedrockProviderWithInvoker probes candidates in order with a short canary
// prompt and keeps the first that answers.
func NewBedrockProviderWithInvoker(ctx context.Context, invoker ModelInvoker, candidates []string, timeout time.Duration, maxTokens int) *BedrockProvider {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	p := &BedrockProvider{
		invoker:   invoker,
		timeout:   timeout,
		maxTokens: maxTokens,
		reason:    "no candidate model answered the startup probe",
	}

	for _, model := range candidates {
		if err := ValidateModelIdentifier(model); err != nil {
			slog.Warn("Skipping model candidate", "error", err)
			continue
		}
		text, err := p.call(ctx, model, probePrompt, probeMaxTokens)
		if err != nil {
			slog.Warn("Model probe failed", "model", model, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			slog.Warn("Model probe returned empty reply", "model", model)
			continue
		}
		p.model = model
		p.shape = shapeFor(model)
		p.reason = ""
		slog.Info("Model provider ready", "model", model, "shape", p.shape.String())
		break
	}

	if p.reason != "" {
		slog.Warn("Model provider unusable, running rule-based only", "reason", p.reason)
	}
	metrics.SetProviderUsable(p.Usable())
	return p
}

// Usable reports whether a model was selected at startup.
func (p *BedrockProvider) Usable() bool {
	return p != nil && p.reason == "" && p.model != ""
}

// ModelIdentifier returns the selected model, or "" when unusable.
func (p *BedrockProvider) ModelIdentifier() string {
	if !p.Usable() {
		return ""
	}
	return p.model
}

// UnusableReason explains why the adapter is unusable.
func (p *BedrockProvider) UnusableReason() string {
	if p == nil {
		return "provider not configured"
	}
	return p.reason
}

// Invoke sends one prompt and returns the reply text. There are no retries.
func (p *BedrockProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	if !p.Usable() {
		return "", &LLMError{Reason: ReasonProviderUnreachable, Err: errors.New(p.UnusableReason())}
	}
	return p.call(ctx, p.model, prompt, p.maxTokens)
}

func (p *BedrockProvider) call(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	shape := shapeFor(model)
	body, err := encodeRequest(shape, prompt, maxTokens)
	if err != nil {
		return "", fmt.Errorf("encoding %s request: %w", shape, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	out, err := p.invoker.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		metrics.ObserveProviderCall(model, "error", time.Since(start))
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("no reply within %s: %w", p.timeout, err)
		}
		return "", &LLMError{Reason: ReasonProviderUnreachable, Err: err}
	}
	metrics.ObserveProviderCall(model, "ok", time.Since(start))

	return decodeReply(shape, out.Body)
}
