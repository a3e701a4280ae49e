package advisor

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/2beens/fitassist/internal/analysis"
	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/pkg"

	log "github.com/sirupsen/logrus"
)

const recentStatusRows = 30

// TrainingData is what advice is based on. Any table may be nil.
type TrainingData struct {
	RacePredictions *ingest.Table
	TrainingHistory *ingest.Table
	Activities      *ingest.Table
}

func (d TrainingData) Empty() bool {
	return tableEmpty(d.RacePredictions) && tableEmpty(d.TrainingHistory) && tableEmpty(d.Activities)
}

func tableEmpty(t *ingest.Table) bool {
	return t == nil || t.Empty()
}

type PlanRequest struct {
	GoalDistance    string `json:"goal_distance"`
	TargetTime      string `json:"target_time"`
	Weeks           int    `json:"weeks"`
	SessionsPerWeek int    `json:"sessions_per_week"`
}

type Workout struct {
	RawSuggestion string `json:"raw_suggestion"`
}

type RecoveryAdvice struct {
	Recommendations string `json:"recovery_recommendations"`
}

type ProgressAnalysis struct {
	Analysis string `json:"analysis"`
}

type TrainingPlan struct {
	GoalDistance    string `json:"goal_distance"`
	TargetTime      string `json:"target_time"`
	Weeks           int    `json:"weeks"`
	SessionsPerWeek int    `json:"sessions_per_week"`
	RawPlan         string `json:"raw_plan"`
	// lines of the raw plan found under a "Week N" heading
	StructuredPlan map[string][]string `json:"structured_plan"`
}

// Advisor produces training advice from the stored tables of a user.
type Advisor interface {
	SuggestWorkouts(ctx context.Context, data TrainingData, count int) ([]Workout, error)
	EvaluateRecovery(ctx context.Context, data TrainingData) (*RecoveryAdvice, error)
	AnalyzeProgress(ctx context.Context, data TrainingData, weeks int) (*ProgressAnalysis, error)
	TrainingPlan(ctx context.Context, data TrainingData, req PlanRequest) (*TrainingPlan, error)
}

type Params struct {
	UseMock    bool
	ModelName  string
	Endpoint   string
	HTTPClient *http.Client
}

// New returns the mock advisor when asked to, the LLM backed one otherwise.
func New(params Params) Advisor {
	if params.UseMock {
		log.Infof("advisor: using mock advisor")
		return NewMockAdvisor(params.ModelName)
	}
	log.Infof("advisor: using model %s at %s", params.ModelName, params.Endpoint)
	return NewLLMAdvisor(params.ModelName, params.Endpoint, params.HTTPClient)
}

// BuildContext renders the data (and an optional goal) as prompt context.
func BuildContext(data TrainingData, goalDistance, targetTime string) string {
	var sections []string

	if !tableEmpty(data.RacePredictions) {
		if s := predictionsSection(data.RacePredictions); s != "" {
			sections = append(sections, s)
		}
	}

	if !tableEmpty(data.TrainingHistory) {
		counts := analysis.RecentStatusCounts(data.TrainingHistory, recentStatusRows)
		if len(counts) > 0 {
			var sb strings.Builder
			sb.WriteString("Recent training status (last 30 days):\n")
			for _, status := range sortedByCount(counts) {
				sb.WriteString(fmt.Sprintf("- %s: %d days\n", status, counts[status]))
			}
			sections = append(sections, strings.TrimSuffix(sb.String(), "\n"))
		}
	}

	if !tableEmpty(data.Activities) {
		sections = append(sections, fmt.Sprintf("Recent activities data is available (%d activities).", data.Activities.Len()))
	}

	if goalDistance != "" {
		sections = append(sections, "Goal race distance: "+goalDistance)
	}
	if targetTime != "" {
		sections = append(sections, "Target time: "+targetTime)
	}

	return strings.Join(sections, "\n\n")
}

func predictionsSection(t *ingest.Table) string {
	latest, ok := latestRow(t)
	if !ok {
		return ""
	}

	lines := []struct {
		label  string
		column string
		hms    bool
	}{
		{label: "5K", column: "raceTime5K"},
		{label: "10K", column: "raceTime10K"},
		{label: "Half Marathon", column: "raceTimeHalf", hms: true},
		{label: "Marathon", column: "raceTimeMarathon", hms: true},
	}

	var sb strings.Builder
	sb.WriteString("Current race predictions:\n")
	for _, line := range lines {
		seconds, ok := t.Value(latest, line.column).Int()
		if !ok {
			continue
		}
		formatted := pkg.FormatMinSec(seconds)
		if line.hms {
			formatted = pkg.FormatHMS(seconds)
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", line.label, formatted))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func latestRow(t *ingest.Table) (int, bool) {
	latest := -1
	for i := range t.Rows {
		at, ok := t.Value(i, ingest.ColumnTimestamp).Time()
		if !ok {
			continue
		}
		if latest < 0 {
			latest = i
			continue
		}
		if best, _ := t.Value(latest, ingest.ColumnTimestamp).Time(); at.After(best) {
			latest = i
		}
	}
	return latest, latest >= 0
}

func sortedByCount(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

var weekHeading = regexp.MustCompile(`(?i)^[\s#*\-]*week\s+(\d+)\b`)

// structurePlan groups the lines of a generated plan under their "Week N" headings.
func structurePlan(raw string, weeks int) map[string][]string {
	plan := make(map[string][]string, weeks)
	for week := 1; week <= weeks; week++ {
		plan[weekKey(week)] = []string{}
	}

	current := ""
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := weekHeading.FindStringSubmatch(line); m != nil {
			week, _ := strconv.Atoi(m[1])
			if week >= 1 && week <= weeks {
				current = weekKey(week)
			} else {
				current = ""
			}
			continue
		}
		if current != "" {
			plan[current] = append(plan[current], line)
		}
	}
	return plan
}

func weekKey(week int) string {
	return "Week " + strconv.Itoa(week)
}

func workoutsPrompt(summary string, count int) string {
	return fmt.Sprintf(`%s

Suggest %d workouts that would be beneficial based on the current fitness level and training status.
For each workout, provide:
1. Workout type
2. Duration or distance
3. Target intensity
4. Detailed description
5. Expected benefits
`, summary, count)
}

func recoveryPrompt(summary string) string {
	return fmt.Sprintf(`%s

Evaluate the current recovery needs based on recent training.
Consider:
1. Training load
2. Training status
3. Recent workout intensity

Provide recommendations on:
- Recovery techniques
- Rest days needed
- Warning signs to watch for
`, summary)
}

func progressPrompt(summary string, weeks int) string {
	return fmt.Sprintf(`%s

Analyze the progress over the past %d weeks. Consider:
1. Changes in predicted race times
2. Training status changes
3. Training load and recovery patterns

Provide insights on:
- Whether training is effective
- Areas of improvement
- Potential risks or issues
`, summary, weeks)
}

func planPrompt(summary string, req PlanRequest) string {
	return fmt.Sprintf(`%s

Create a %d-week training plan for a %s race with a target time of %s.
The plan should include %d sessions per week.
Start every week with a line "Week N". For each session, provide:
1. Day of the week
2. Type of session (e.g., Easy Run, Interval, Tempo, Long Run)
3. Distance or duration
4. Target pace or intensity
5. Description of the workout

The plan should progressively build up and include appropriate tapering before the race.
`, summary, req.Weeks, req.GoalDistance, req.TargetTime, req.SessionsPerWeek)
}
