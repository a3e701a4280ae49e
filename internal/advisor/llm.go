package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/fitassist/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrEmptyResponse = errors.New("model returned an empty response")

var _ Advisor = (*LLMAdvisor)(nil)

// LLMAdvisor asks a text generation model: POST <endpoint>/api/generate.
type LLMAdvisor struct {
	model      string
	endpoint   string
	httpClient *http.Client
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func NewLLMAdvisor(model, endpoint string, httpClient *http.Client) *LLMAdvisor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &LLMAdvisor{
		model:      model,
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		httpClient: httpClient,
	}
}

func (a *LLMAdvisor) SuggestWorkouts(ctx context.Context, data TrainingData, count int) ([]Workout, error) {
	response, err := a.generate(ctx, "suggestWorkouts", workoutsPrompt(BuildContext(data, "", ""), count))
	if err != nil {
		return nil, fmt.Errorf("suggest workouts: %w", err)
	}
	return []Workout{{RawSuggestion: response}}, nil
}

func (a *LLMAdvisor) EvaluateRecovery(ctx context.Context, data TrainingData) (*RecoveryAdvice, error) {
	response, err := a.generate(ctx, "evaluateRecovery", recoveryPrompt(BuildContext(data, "", "")))
	if err != nil {
		return nil, fmt.Errorf("evaluate recovery: %w", err)
	}
	return &RecoveryAdvice{Recommendations: response}, nil
}

func (a *LLMAdvisor) AnalyzeProgress(ctx context.Context, data TrainingData, weeks int) (*ProgressAnalysis, error) {
	response, err := a.generate(ctx, "analyzeProgress", progressPrompt(BuildContext(data, "", ""), weeks))
	if err != nil {
		return nil, fmt.Errorf("analyze progress: %w", err)
	}
	return &ProgressAnalysis{Analysis: response}, nil
}

func (a *LLMAdvisor) TrainingPlan(ctx context.Context, data TrainingData, req PlanRequest) (*TrainingPlan, error) {
	prompt := planPrompt(BuildContext(data, req.GoalDistance, req.TargetTime), req)
	response, err := a.generate(ctx, "trainingPlan", prompt)
	if err != nil {
		return nil, fmt.Errorf("training plan: %w", err)
	}
	return &TrainingPlan{
		GoalDistance:    req.GoalDistance,
		TargetTime:      req.TargetTime,
		Weeks:           req.Weeks,
		SessionsPerWeek: req.SessionsPerWeek,
		RawPlan:         response,
		StructuredPlan:  structurePlan(response, req.Weeks),
	}, nil
}

func (a *LLMAdvisor) generate(ctx context.Context, operation, prompt string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "llmAdvisor."+operation)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("model", a.model))
	span.SetAttributes(attribute.Int("prompt.length", len(prompt)))

	body, err := json.Marshal(generateRequest{
		Model:  a.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read model response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debugf("model api error body: %s", respBytes)
		return "", fmt.Errorf("model api: status %d", resp.StatusCode)
	}

	var generated generateResponse
	if err := json.Unmarshal(respBytes, &generated); err != nil {
		return "", fmt.Errorf("unmarshal model response: %w", err)
	}
	if strings.TrimSpace(generated.Response) == "" {
		return "", ErrEmptyResponse
	}

	span.SetAttributes(attribute.Int("response.length", len(generated.Response)))
	return generated.Response, nil
}
