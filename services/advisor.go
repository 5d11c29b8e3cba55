// ABOUTME: Advisory engine that orchestrates rule baselines and the LLM path
// ABOUTME: Falls back to the rule output with a reason tag whenever the LLM path fails

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/markalston/migration-advisor/metrics"
	"github.com/markalston/migration-advisor/models"
)

// fallbackCapabilities lists what the engine can still do without a model.
var fallbackCapabilities = []string{
	"Rule-based cost estimation",
	"Rule-based migration strategy",
	"Rule-based timeline generation",
}

// ErrNoTargetProvider is returned by cost and strategy calls when neither the
// request nor the stored cloud preference names a provider.
var ErrNoTargetProvider = errors.New("no target provider: set provider in the request or store a cloud preference")

// Snapshotter supplies the inventory snapshot for one request.
type Snapshotter interface {
	Snapshot(ctx context.Context, override models.TargetParameters) (models.Snapshot, error)
}

// Advisor produces advisory artifacts. It keeps no per-request state and is
// safe for concurrent use.
type Advisor struct {
	inventory Snapshotter
	rules     *RuleAdvisor
	llm       *LLMAdvisor
	provider  Provider
	now       func() time.Time
}

// NewAdvisor creates an engine. provider may be nil, in which case every
// artifact comes from the rule backend.
func NewAdvisor(inventory Snapshotter, rules *RuleAdvisor, provider Provider) *Advisor {
	if rules == nil {
		rules = NewRuleAdvisor(nil)
	}
	return &Advisor{
		inventory: inventory,
		rules:     rules,
		llm:       NewLLMAdvisor(provider),
		provider:  provider,
		now:       time.Now,
	}
}

func (a *Advisor) llmUsable() bool {
	return a.provider != nil && a.provider.Usable()
}

// markFallback tags a baseline returned in place of a failed LLM artifact.
func markFallback(p *models.Provenance, reason string) {
	p.FallbackReason = reason
	p.Message = fmt.Sprintf("AI analysis failed (%s) - using rule-based analysis", reason)
}

func (a *Advisor) snapshot(ctx context.Context, override models.TargetParameters) (models.Snapshot, error) {
	snap, err := a.inventory.Snapshot(ctx, override)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("taking inventory snapshot: %w", err)
	}
	return snap, nil
}

// targetSnapshot is snapshot for artifacts that are priced against a provider.
func (a *Advisor) targetSnapshot(ctx context.Context, override models.TargetParameters) (models.Snapshot, error) {
	snap, err := a.snapshot(ctx, override)
	if err != nil {
		return models.Snapshot{}, err
	}
	if snap.ProviderDefaulted {
		return models.Snapshot{}, ErrNoTargetProvider
	}
	return snap, nil
}

func logFallback(kind models.ArtifactKind, reason string, err error) {
	slog.Warn("LLM path failed, returning rule-based output",
		"artifact", string(kind), "reason", reason, "error", err)
	metrics.RecordLLMFailure(string(kind), reason)
}

// EstimateCost returns a cost estimate for the current inventory. It fails
// with a *SnapshotError or ErrNoTargetProvider.
func (a *Advisor) EstimateCost(ctx context.Context, target models.TargetParameters) (models.CostEstimate, error) {
	snap, err := a.targetSnapshot(ctx, target)
	if err != nil {
		return models.CostEstimate{}, err
	}
	baseline := a.rules.EstimateCost(snap)
	if !a.llmUsable() {
		slog.Info("Cost estimate from rule backend", "components", snap.ComponentCount())
		metrics.RecordArtifact(string(models.KindCostEstimate), models.SourceRuleBased)
		return baseline, nil
	}

	est, err := a.llm.EstimateCost(ctx, snap)
	if err == nil {
		if verr := ValidateCostEstimate(est); verr != nil {
			err = &LLMError{Reason: ReasonValidationFailed, Err: fmt.Errorf("cost estimate: %w", verr)}
		}
	}
	if err != nil {
		reason := FailureReason(err)
		logFallback(models.KindCostEstimate, reason, err)
		markFallback(&baseline.AIInsights.Provenance, reason)
		metrics.RecordArtifact(string(models.KindCostEstimate), models.SourceRuleBased)
		return baseline, nil
	}

	slog.Info("Cost estimate from LLM backend", "model", a.provider.ModelIdentifier())
	metrics.RecordArtifact(string(models.KindCostEstimate), models.SourceLLM)
	return est, nil
}

// RecommendStrategy returns a migration strategy for the current inventory.
func (a *Advisor) RecommendStrategy(ctx context.Context, target models.TargetParameters) (models.MigrationStrategy, error) {
	snap, err := a.targetSnapshot(ctx, target)
	if err != nil {
		return models.MigrationStrategy{}, err
	}
	baseline := a.rules.RecommendStrategy(snap)
	if !a.llmUsable() {
		slog.Info("Migration strategy from rule backend", "components", snap.ComponentCount())
		metrics.RecordArtifact(string(models.KindMigrationStrategy), models.SourceRuleBased)
		return baseline, nil
	}

	st, err := a.llm.RecommendStrategy(ctx, snap)
	if err == nil {
		if verr := ValidateStrategy(st); verr != nil {
			err = &LLMError{Reason: ReasonValidationFailed, Err: fmt.Errorf("migration strategy: %w", verr)}
		}
	}
	if err != nil {
		reason := FailureReason(err)
		logFallback(models.KindMigrationStrategy, reason, err)
		markFallback(&baseline.AIInsights.Provenance, reason)
		metrics.RecordArtifact(string(models.KindMigrationStrategy), models.SourceRuleBased)
		return baseline, nil
	}

	slog.Info("Migration strategy from LLM backend", "model", a.provider.ModelIdentifier())
	metrics.RecordArtifact(string(models.KindMigrationStrategy), models.SourceLLM)
	return st, nil
}

// BuildTimeline returns a project timeline starting on start, or today when
// start is zero.
func (a *Advisor) BuildTimeline(ctx context.Context, start time.Time) (models.Timeline, error) {
	snap, err := a.snapshot(ctx, models.TargetParameters{})
	if err != nil {
		return models.Timeline{}, err
	}
	if start.IsZero() {
		start = a.now().UTC()
	}
	baseline := a.rules.BuildTimeline(snap, start)
	if !a.llmUsable() {
		slog.Info("Timeline from rule backend", "weeks", baseline.ProjectOverview.TotalDurationWeeks)
		metrics.RecordArtifact(string(models.KindTimeline), models.SourceRuleBased)
		return baseline, nil
	}

	tl, err := a.llm.ReviewTimeline(ctx, snap, baseline)
	if err == nil {
		if verr := ValidateTimeline(tl); verr != nil {
			err = &LLMError{Reason: ReasonValidationFailed, Err: fmt.Errorf("timeline: %w", verr)}
		}
	}
	if err != nil {
		reason := FailureReason(err)
		logFallback(models.KindTimeline, reason, err)
		markFallback(&baseline.AIInsights.Provenance, reason)
		metrics.RecordArtifact(string(models.KindTimeline), models.SourceRuleBased)
		return baseline, nil
	}

	slog.Info("Timeline reviewed by LLM backend", "model", a.provider.ModelIdentifier())
	metrics.RecordArtifact(string(models.KindTimeline), models.SourceLLM)
	return tl, nil
}

// Status reports whether the LLM path is available.
func (a *Advisor) Status() models.AIStatus {
	if a.llmUsable() {
		model := a.provider.ModelIdentifier()
		return models.AIStatus{
			AIEnabled:       true,
			ModelIdentifier: &model,
			FallbackMode:    false,
			Message:         "AI-powered analysis available",
		}
	}
	return models.AIStatus{
		AIEnabled:            false,
		ModelIdentifier:      nil,
		FallbackMode:         true,
		Message:              RuleMessage,
		FallbackCapabilities: append([]string(nil), fallbackCapabilities...),
	}
}
