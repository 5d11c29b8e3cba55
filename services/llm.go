// ABOUTME: LLM advisor that turns model replies into typed advisory artifacts
// ABOUTME: Extracts the JSON object, checks required keys, and normalises confidence

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/markalston/migration-advisor/models"
)

// Failure reasons carried by LLMError and reported as fallback_reason.
const (
	ReasonProviderUnreachable = "provider-unreachable"
	ReasonInvalidJSON         = "invalid-json"
	ReasonSchemaMismatch      = "schema-mismatch"
	ReasonEmptyOutput         = "empty-output"
	ReasonValidationFailed    = "validation-failed"
)

// LLMError reports why the LLM path produced no artifact.
type LLMError struct {
	Reason string
	Err    error
}

func (e *LLMError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *LLMError) Unwrap() error {
	return e.Err
}

// FailureReason returns the reason tag of err, defaulting to provider-unreachable.
func FailureReason(err error) string {
	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		return llmErr.Reason
	}
	return ReasonProviderUnreachable
}

// Provider sends a prompt to a language model.
type Provider interface {
	Invoke(ctx context.Context, prompt string) (string, error)
	Usable() bool
	ModelIdentifier() string
}

// LLMAdvisor produces artifacts from model replies. Each call makes exactly
// one provider request and never returns a partial artifact.
type LLMAdvisor struct {
	provider Provider
}

// NewLLMAdvisor creates an LLM advisor over provider.
func NewLLMAdvisor(provider Provider) *LLMAdvisor {
	return &LLMAdvisor{provider: provider}
}

// EstimateCost asks the model for a full cost estimate.
func (a *LLMAdvisor) EstimateCost(ctx context.Context, snap models.Snapshot) (models.CostEstimate, error) {
	var est models.CostEstimate
	prompt, err := CostPrompt(snap)
	if err != nil {
		return est, err
	}
	confidence, err := a.produce(ctx, prompt, models.CostEstimateSchema, &est)
	if err != nil {
		return models.CostEstimate{}, err
	}
	est.AIInsights.Provenance = a.provenance(confidence)
	fillCostSlices(&est)
	return est, nil
}

// RecommendStrategy asks the model for a full migration strategy.
func (a *LLMAdvisor) RecommendStrategy(ctx context.Context, snap models.Snapshot) (models.MigrationStrategy, error) {
	var st models.MigrationStrategy
	prompt, err := StrategyPrompt(snap)
	if err != nil {
		return st, err
	}
	confidence, err := a.produce(ctx, prompt, models.MigrationStrategySchema, &st)
	if err != nil {
		return models.MigrationStrategy{}, err
	}
	st.AIInsights.Provenance = a.provenance(confidence)
	fillStrategySlices(&st)
	return st, nil
}

// timelineReview is the model's contribution to a timeline.
type timelineReview struct {
	AIInsights      models.TimelineInsights `json:"ai_insights"`
	RiskMitigation  []models.RiskMitigation `json:"risk_mitigation"`
	SuccessCriteria []string                `json:"success_criteria"`
}

// ReviewTimeline asks the model to review baseline and merges its insights,
// risks, and success criteria. Phase windows and dates stay as computed.
func (a *LLMAdvisor) ReviewTimeline(ctx context.Context, snap models.Snapshot, baseline models.Timeline) (models.Timeline, error) {
	prompt, err := TimelinePrompt(snap, baseline)
	if err != nil {
		return models.Timeline{}, err
	}
	var review timelineReview
	confidence, err := a.produce(ctx, prompt, models.TimelineInsightsSchema, &review)
	if err != nil {
		return models.Timeline{}, err
	}

	merged := baseline
	merged.AIInsights = review.AIInsights
	merged.AIInsights.Provenance = a.provenance(confidence)
	merged.ProjectOverview.ConfidenceLevel = confidence
	if len(review.RiskMitigation) > 0 {
		merged.RiskMitigation = normaliseRisks(review.RiskMitigation)
	}
	if len(review.SuccessCriteria) > 0 {
		merged.SuccessCriteria = review.SuccessCriteria
	}
	fillTimelineSlices(&merged)
	return merged, nil
}

func (a *LLMAdvisor) provenance(confidence float64) models.Provenance {
	return models.Provenance{
		ConfidenceLevel: confidence,
		FallbackUsed:    false,
		ModelIdentifier: a.provider.ModelIdentifier(),
		Source:          models.SourceLLM,
		Message:         "AI-generated analysis",
	}
}

// produce invokes the model once and decodes the reply into out. It returns
// the normalised ai_insights.confidence_level.
func (a *LLMAdvisor) produce(ctx context.Context, prompt string, schema models.Schema, out any) (float64, error) {
	if a.provider == nil || !a.provider.Usable() {
		return 0, &LLMError{Reason: ReasonProviderUnreachable, Err: errors.New("no usable model provider")}
	}

	reply, err := a.provider.Invoke(ctx, prompt)
	if err != nil {
		var llmErr *LLMError
		if errors.As(err, &llmErr) {
			return 0, llmErr
		}
		return 0, &LLMError{Reason: ReasonProviderUnreachable, Err: err}
	}
	if strings.TrimSpace(reply) == "" {
		return 0, &LLMError{Reason: ReasonEmptyOutput, Err: errors.New("model returned no text")}
	}

	raw, ok := extractJSON(reply)
	if !ok {
		return 0, &LLMError{Reason: ReasonInvalidJSON, Err: errors.New("reply contains no JSON object")}
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return 0, &LLMError{Reason: ReasonInvalidJSON, Err: err}
	}
	if missing := schema.MissingFields(doc); len(missing) > 0 {
		return 0, &LLMError{Reason: ReasonSchemaMismatch, Err: fmt.Errorf("missing keys: %s", strings.Join(missing, ", "))}
	}

	insights, _ := doc["ai_insights"].(map[string]any)
	confidence, ok := normaliseConfidence(insights["confidence_level"])
	if !ok {
		return 0, &LLMError{Reason: ReasonSchemaMismatch, Err: fmt.Errorf("unusable confidence_level %v", insights["confidence_level"])}
	}
	insights["confidence_level"] = confidence

	normalised, err := json.Marshal(doc)
	if err != nil {
		return 0, &LLMError{Reason: ReasonInvalidJSON, Err: err}
	}
	if err := json.Unmarshal(normalised, out); err != nil {
		return 0, &LLMError{Reason: ReasonSchemaMismatch, Err: err}
	}
	return confidence, nil
}

// extractJSON returns the substring from the first '{' to the last '}'.
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

var confidenceWords = map[string]float64{
	"very high": 0.95,
	"high":      0.9,
	"medium":    0.7,
	"moderate":  0.7,
	"low":       0.5,
	"very low":  0.3,
}

// normaliseConfidence maps a reported confidence onto [0, 1]. Numbers above 1
// are read as percentages.
func normaliseConfidence(v any) (float64, bool) {
	var f float64
	switch c := v.(type) {
	case float64:
		f = c
	case string:
		s := strings.ToLower(strings.TrimSpace(c))
		if w, ok := confidenceWords[s]; ok {
			return w, true
		}
		percent := strings.HasSuffix(s, "%")
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil {
			return 0, false
		}
		f = n
		if percent {
			f = n / 100
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > 1 {
		f /= 100
	}
	return clamp(f, 0, 1), true
}

func normaliseRisks(risks []models.RiskMitigation) []models.RiskMitigation {
	out := make([]models.RiskMitigation, 0, len(risks))
	for _, r := range risks {
		r.Probability = coerceLevel(string(r.Probability))
		r.Impact = coerceLevel(string(r.Impact))
		if r.TimelineBufferWeeks < 0 {
			r.TimelineBufferWeeks = 0
		}
		out = append(out, r)
	}
	return out
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// fillCostSlices replaces null lists from a model reply so they encode as [].
func fillCostSlices(est *models.CostEstimate) {
	infra := &est.CloudInfrastructure
	infra.Servers.ServerRecommendations = orEmpty(infra.Servers.ServerRecommendations)
	infra.Databases.DatabaseRecommendations = orEmpty(infra.Databases.DatabaseRecommendations)
	infra.Storage.StorageRecommendations = orEmpty(infra.Storage.StorageRecommendations)
	est.MigrationServices.ResourceBreakdown = orEmpty(est.MigrationServices.ResourceBreakdown)
	est.AIInsights.CostOptimizationTips = orEmpty(est.AIInsights.CostOptimizationTips)
	est.AIInsights.Recommendations = orEmpty(est.AIInsights.Recommendations)
}

func fillStrategySlices(st *models.MigrationStrategy) {
	c := &st.ComponentStrategies
	c.Servers = orEmpty(c.Servers)
	c.Databases = orEmpty(c.Databases)
	c.Storage = orEmpty(c.Storage)
	st.MigrationPhases = orEmpty(st.MigrationPhases)
	for i := range st.MigrationPhases {
		ph := &st.MigrationPhases[i]
		ph.Components = orEmpty(ph.Components)
		ph.Dependencies = orEmpty(ph.Dependencies)
		ph.Risks = orEmpty(ph.Risks)
		ph.SuccessCriteria = orEmpty(ph.SuccessCriteria)
	}
	r := &st.Recommendations
	r.QuickWins = orEmpty(r.QuickWins)
	r.CostOptimization = orEmpty(r.CostOptimization)
	r.PerformanceImprovements = orEmpty(r.PerformanceImprovements)
	r.ModernizationOpportunities = orEmpty(r.ModernizationOpportunities)
	ra := &st.RiskAssessment
	ra.HighRisks = orEmpty(ra.HighRisks)
	ra.MediumRisks = orEmpty(ra.MediumRisks)
	ra.LowRisks = orEmpty(ra.LowRisks)
	if ra.MitigationStrategies == nil {
		ra.MitigationStrategies = map[string]string{}
	}
	st.AIInsights.StrategicRecommendations = orEmpty(st.AIInsights.StrategicRecommendations)
}

func fillTimelineSlices(tl *models.Timeline) {
	tl.RiskMitigation = orEmpty(tl.RiskMitigation)
	tl.SuccessCriteria = orEmpty(tl.SuccessCriteria)
	tl.AIInsights.OptimizationSuggestions = orEmpty(tl.AIInsights.OptimizationSuggestions)
	tl.AIInsights.TimelineRisks = orEmpty(tl.AIInsights.TimelineRisks)
	tl.AIInsights.ResourceRecommendations = orEmpty(tl.AIInsights.ResourceRecommendations)
}
