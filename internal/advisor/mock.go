package advisor

import (
	"context"
	"fmt"
	"strings"
)

var _ Advisor = (*MockAdvisor)(nil)

// MockAdvisor answers with canned text built from the prompt context,
// for development setups without a model.
type MockAdvisor struct {
	model string
}

func NewMockAdvisor(model string) *MockAdvisor {
	return &MockAdvisor{
		model: model,
	}
}

func (a *MockAdvisor) SuggestWorkouts(_ context.Context, data TrainingData, count int) ([]Workout, error) {
	workouts := make([]Workout, 0, count)
	kinds := []string{"Easy Run, 40 min conversational pace", "Intervals, 6x800m at 5K pace", "Long Run, 90 min easy"}
	for i := 0; i < count; i++ {
		workouts = append(workouts, Workout{
			RawSuggestion: fmt.Sprintf("[mock %s] %s", a.model, kinds[i%len(kinds)]),
		})
	}
	return workouts, nil
}

func (a *MockAdvisor) EvaluateRecovery(_ context.Context, data TrainingData) (*RecoveryAdvice, error) {
	return &RecoveryAdvice{
		Recommendations: a.reply("Take at least one full rest day this week and keep easy days easy.", data),
	}, nil
}

func (a *MockAdvisor) AnalyzeProgress(_ context.Context, data TrainingData, weeks int) (*ProgressAnalysis, error) {
	return &ProgressAnalysis{
		Analysis: a.reply(fmt.Sprintf("Progress over the past %d weeks looks steady.", weeks), data),
	}, nil
}

func (a *MockAdvisor) TrainingPlan(_ context.Context, data TrainingData, req PlanRequest) (*TrainingPlan, error) {
	var sb strings.Builder
	for week := 1; week <= req.Weeks; week++ {
		sb.WriteString(weekKey(week) + "\n")
		for session := 1; session <= req.SessionsPerWeek; session++ {
			sb.WriteString(fmt.Sprintf("Session %d: easy run, 45 min\n", session))
		}
	}
	raw := sb.String()

	return &TrainingPlan{
		GoalDistance:    req.GoalDistance,
		TargetTime:      req.TargetTime,
		Weeks:           req.Weeks,
		SessionsPerWeek: req.SessionsPerWeek,
		RawPlan:         raw,
		StructuredPlan:  structurePlan(raw, req.Weeks),
	}, nil
}

func (a *MockAdvisor) reply(text string, data TrainingData) string {
	summary := BuildContext(data, "", "")
	if summary == "" {
		return fmt.Sprintf("[mock %s] %s", a.model, text)
	}
	return fmt.Sprintf("[mock %s] %s\n\nBased on:\n%s", a.model, text, summary)
}
