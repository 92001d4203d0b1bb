// Package ai relays participant chat turns to the hosted inference endpoint.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"chatbot-evaluation/backend/internal/models"
	"chatbot-evaluation/backend/pkg/logger"
	"chatbot-evaluation/backend/pkg/middleware"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout bounds a single inference call
const DefaultTimeout = 100 * time.Second

const (
	errTimedOut      = "Request timed out"
	errEmptyMessage  = "Message must not be empty"
	errEmptyResponse = "Empty response from model"
	maxResponseBytes = 4 << 20
	instrumentation  = "chatbot-evaluation/backend/ai"
)

// PromptResolver supplies the system prompt of a condition
type PromptResolver interface {
	ResolvePrompt(useCase models.UseCase, style models.PromptStyle, model models.LanguageModel) (string, error)
}

// Config holds the gateway settings
type Config struct {
	// DefaultEndpoint serves models without an entry in Endpoints
	DefaultEndpoint string
	Endpoints       map[models.LanguageModel]string
	Timeout         time.Duration
	// APIKey is sent as a bearer token when set
	APIKey string
	Params ParamTable
}

// Gateway builds inference requests, performs them under a fixed timeout
// and normalizes the replies.
type Gateway struct {
	cfg        Config
	httpClient *http.Client
	prompts    PromptResolver
	log        *logger.Logger
	now        func() time.Time

	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewGateway creates a new gateway
func NewGateway(cfg Config, prompts PromptResolver, log *logger.Logger) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Params.ByModel == nil && cfg.Params.Default == (Params{}) {
		cfg.Params = DefaultParamTable()
	}

	meter := otel.Meter(instrumentation)
	requests, _ := meter.Int64Counter("gateway_requests_total",
		metric.WithDescription("Inference calls by model and outcome"))
	duration, _ := meter.Float64Histogram("gateway_request_duration_seconds",
		metric.WithDescription("Inference call latency"),
		metric.WithUnit("s"))

	return &Gateway{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		prompts:    prompts,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
		tracer:     otel.Tracer(instrumentation),
		requests:   requests,
		duration:   duration,
	}
}

// Endpoint returns the URL serving model
func (g *Gateway) Endpoint(model models.LanguageModel) string {
	if url, ok := g.cfg.Endpoints[model]; ok && url != "" {
		return url
	}
	return g.cfg.DefaultEndpoint
}

// SendTurn sends the conversation so far plus userMessage to the model of
// scope. It never returns an error: failures come back as a Result with
// Success false. Cancellation of ctx is not propagated to the call, which
// ends on its own timeout.
func (g *Gateway) SendTurn(ctx context.Context, scope ScopeConfig, history []Turn, userMessage string) Result {
	ctx = context.WithoutCancel(ctx)
	ctx, span := g.tracer.Start(ctx, "ai.SendTurn", trace.WithAttributes(
		attribute.String("llm.model", string(scope.Model)),
		attribute.String("study.use_case", string(scope.UseCase)),
		attribute.String("study.prompt_style", string(scope.PromptStyle)),
		attribute.Int("llm.history_length", len(history)),
	))
	defer span.End()

	start := time.Now()
	result := g.sendTurn(ctx, scope, history, userMessage)
	elapsed := time.Since(start)

	outcome := "success"
	if !result.Success {
		outcome = "failure"
		span.SetStatus(codes.Error, result.Error)
	}
	attrs := metric.WithAttributes(
		attribute.String("model", string(scope.Model)),
		attribute.String("outcome", outcome),
	)
	g.requests.Add(ctx, 1, attrs)
	g.duration.Record(ctx, elapsed.Seconds(), attrs)

	log := g.logger(ctx)
	if result.Success {
		log.Info("Inference call completed",
			"model", scope.Model,
			"latency_ms", elapsed.Milliseconds(),
			"has_reasoning", result.Reasoning != nil,
		)
	} else {
		log.Warn("Inference call failed",
			"model", scope.Model,
			"latency_ms", elapsed.Milliseconds(),
			"error", result.Error,
		)
	}

	return result
}

func (g *Gateway) sendTurn(ctx context.Context, scope ScopeConfig, history []Turn, userMessage string) Result {
	if strings.TrimSpace(userMessage) == "" {
		return g.failure(errEmptyMessage)
	}

	systemPrompt, err := g.prompts.ResolvePrompt(scope.UseCase, scope.PromptStyle, scope.Model)
	if err != nil {
		return g.failure(err.Error())
	}

	requestBody := ChatRequest{
		Model:    string(scope.Model),
		Messages: BuildMessages(systemPrompt, history, userMessage),
		Stream:   false,
		Options:  g.cfg.Params.For(scope.Model),
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return g.failure(fmt.Sprintf("error marshaling request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint(scope.Model), bytes.NewBuffer(jsonData))
	if err != nil {
		return g.failure(fmt.Sprintf("error creating request: %v", err))
	}

	req.Header.Set("Content-Type", "application/json")
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return g.failure(errTimedOut)
		}
		return g.failure(fmt.Sprintf("error making API request: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return g.failure(fmt.Sprintf("Server error: %d", resp.StatusCode))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&chatResp); err != nil {
		if isTimeout(err) {
			return g.failure(errTimedOut)
		}
		return g.failure(fmt.Sprintf("error unmarshaling response: %v", err))
	}

	content, reasoning := SplitReasoning(chatResp.Message.Content)
	if content == "" {
		return g.failure(errEmptyResponse)
	}

	return Result{
		Success:   true,
		Content:   content,
		Reasoning: reasoning,
		Timestamp: g.now(),
	}
}

func (g *Gateway) failure(msg string) Result {
	return Result{Success: false, Error: msg, Timestamp: g.now()}
}

func (g *Gateway) logger(ctx context.Context) *logger.Logger {
	if l, ok := logger.Lookup(ctx); ok {
		return l
	}
	if g.log != nil {
		return g.log
	}
	return logger.FromContext(ctx)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
