package recommend

import (
	"encoding/json"

	identitymodel "lvlhub-server-go/internal/domain/identity/model"
)

// Engagement levels derived from the activity score.
const (
	EngagementHigh   = "high"
	EngagementMedium = "medium"
	EngagementLow    = "low"
)

// Patterns summarizes a user's behavior for the recommendation generators.
type Patterns struct {
	ActivityScore   float64 `json:"activity_score"`
	EngagementLevel string  `json:"engagement_level"`
}

// AnalyzePatterns scores the identity's usage patterns. Scoring weighs login
// frequency and feature usage heaviest, then engagement time and interaction
// depth.
func AnalyzePatterns(ident identitymodel.Identity) Patterns {
	score := activityScore(ident)
	return Patterns{
		ActivityScore:   score,
		EngagementLevel: engagementLevel(score),
	}
}

func activityScore(ident identitymodel.Identity) float64 {
	usage := ident.UsagePatterns
	if len(usage) == 0 {
		return 0
	}
	return 0.3*loginScore(usage) +
		0.3*featureUsageScore(ident.SuiteType, usage) +
		0.2*engagementTimeScore(usage) +
		0.2*interactionDepthScore(usage)
}

// loginScore normalizes logins over a 30 day window.
func loginScore(usage map[string]any) float64 {
	return clamp(floatField(usage, "monthly_logins") / 30.0)
}

// featureUsageScore is the ratio of used features to the suite's catalog.
func featureUsageScore(suite identitymodel.SuiteType, usage map[string]any) float64 {
	info, ok := suiteCatalog[suite]
	if !ok || len(info.Features) == 0 {
		return 0
	}
	used, ok := usage["feature_usage"].(map[string]any)
	if !ok {
		return 0
	}
	return clamp(float64(len(used)) / float64(len(info.Features)))
}

// engagementTimeScore saturates at two hours of daily usage.
func engagementTimeScore(usage map[string]any) float64 {
	return clamp(floatField(usage, "daily_usage_minutes") / 120.0)
}

func interactionDepthScore(usage map[string]any) float64 {
	depth, ok := usage["interaction_depth"].(map[string]any)
	if !ok || len(depth) == 0 {
		return 0
	}
	var total float64
	for _, v := range depth {
		if f, ok := toFloat(v); ok {
			total += clamp(f)
		}
	}
	return total / float64(len(depth))
}

func engagementLevel(score float64) string {
	switch {
	case score >= 0.7:
		return EngagementHigh
	case score >= 0.4:
		return EngagementMedium
	default:
		return EngagementLow
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// floatField digs a numeric value out of a decoded JSON map.
func floatField(m map[string]any, key string) float64 {
	f, _ := toFloat(m[key])
	return f
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
