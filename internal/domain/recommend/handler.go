package recommend

import (
	"context"

	"lvlhub-server-go/internal/domain/dispatch"
	identitymodel "lvlhub-server-go/internal/domain/identity/model"
)

// RequestType is the dispatch type this handler serves.
const RequestType = "recommendation"

const defaultLimit = 10

// Recommendation is one personalized suggestion.
type Recommendation struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Steps       []string `json:"steps,omitempty"`
}

// Response is the payload returned for a recommendation request.
type Response struct {
	Suite           identitymodel.SuiteType `json:"suite"`
	Context         string                  `json:"context,omitempty"`
	ActivityScore   float64                 `json:"activity_score"`
	EngagementLevel string                  `json:"engagement_level"`
	Recommendations []Recommendation        `json:"recommendations"`
}

// Handler produces suite-specific recommendations from usage patterns.
type Handler struct {
	logger dispatch.Logger
}

// NewHandler creates the recommendation handler.
func NewHandler(logger dispatch.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register binds the handler in the dispatch registry.
func (h *Handler) Register(registry *dispatch.Registry) error {
	return registry.Register(RequestType, h)
}

// Handle generates recommendations for the authenticated identity. It accepts
// an optional "context" string and a "limit" number (float64 after JSON
// decoding) capping the result count.
func (h *Handler) Handle(ctx context.Context, ident identitymodel.Identity, params map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	patterns := AnalyzePatterns(ident)
	recs := generate(ident, patterns)

	limit := defaultLimit
	if raw, ok := toFloat(params["limit"]); ok && raw > 0 {
		limit = int(raw)
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}

	requestContext, _ := params["context"].(string)
	if h.logger != nil {
		h.logger.Debug("generated %d recommendations for %s (%s suite)",
			len(recs), ident.UserID, ident.SuiteType)
	}
	return Response{
		Suite:           ident.SuiteType,
		Context:         requestContext,
		ActivityScore:   patterns.ActivityScore,
		EngagementLevel: patterns.EngagementLevel,
		Recommendations: recs,
	}, nil
}

func generate(ident identitymodel.Identity, patterns Patterns) []Recommendation {
	var recs []Recommendation
	switch ident.SuiteType {
	case identitymodel.SuitePersonal:
		recs = personalRecommendations(ident.UsagePatterns)
	case identitymodel.SuiteBusiness:
		recs = businessRecommendations(ident.UsagePatterns)
	case identitymodel.SuiteStudent:
		recs = studentRecommendations(ident.UsagePatterns)
	case identitymodel.SuiteLifestyle:
		recs = lifestyleRecommendations(ident.UsagePatterns)
	case identitymodel.SuiteProfessional:
		recs = professionalRecommendations(ident.UsagePatterns)
	case identitymodel.SuiteEnterprise:
		recs = enterpriseRecommendations(ident.UsagePatterns)
	case identitymodel.SuiteTech:
		recs = techRecommendations(ident.UsagePatterns)
	case identitymodel.SuiteEducation:
		recs = educationRecommendations(ident.UsagePatterns)
	}

	// Low engagement always earns an onboarding nudge, regardless of suite.
	if patterns.EngagementLevel == EngagementLow {
		recs = append(recs, Recommendation{
			Type:        "feature_discovery",
			Title:       "Explore Your Suite",
			Description: "Discover features you have not tried yet",
			Priority:    "low",
		})
	}
	return recs
}

func personalRecommendations(usage map[string]any) []Recommendation {
	var recs []Recommendation

	timeData, _ := usage["time_management"].(map[string]any)
	if floatField(timeData, "task_completion_rate") < 0.7 {
		recs = append(recs, Recommendation{
			Type:        "time_management",
			Title:       "Time Management Enhancement",
			Description: "Optimize your time usage",
			Priority:    "high",
			Steps: []string{
				"Break down large tasks into smaller, manageable chunks",
				"Set realistic deadlines for each task",
				"Use the Pomodoro Technique for focused work sessions",
			},
		})
	}
	if floatField(timeData, "productivity_score") < 0.6 {
		recs = append(recs, Recommendation{
			Type:        "productivity_enhancement",
			Title:       "Boost Productivity",
			Description: "Raise your daily output",
			Priority:    "medium",
			Steps: []string{
				"Identify and eliminate common distractions",
				"Schedule tasks during your peak productivity hours",
				"Implement regular breaks to maintain focus",
			},
		})
	}

	balance, _ := usage["life_balance"].(map[string]any)
	if floatField(balance, "overtime_frequency") > 0.3 {
		recs = append(recs, Recommendation{
			Type:        "life_balance",
			Title:       "Life Balance Optimization",
			Description: "Enhance work-life balance",
			Priority:    "high",
			Steps: []string{
				"Set clear boundaries between work and personal time",
				"Schedule regular breaks throughout the day",
				"Learn to delegate and prioritize tasks effectively",
			},
		})
	}
	return recs
}

func businessRecommendations(usage map[string]any) []Recommendation {
	var recs []Recommendation
	perf, _ := usage["business_performance"].(map[string]any)

	if floatField(perf, "revenue_growth_rate") < 0.05 {
		recs = append(recs, Recommendation{
			Type:        "revenue_optimization",
			Title:       "Accelerate Revenue Growth",
			Description: "Strengthen underperforming revenue streams",
			Priority:    "high",
			Steps: []string{
				"Analyze current revenue streams and identify gaps",
				"Develop strategies for market expansion",
				"Optimize pricing and packaging strategies",
			},
		})
	}
	if floatField(perf, "operations_score") < 0.7 {
		recs = append(recs, Recommendation{
			Type:        "operational_efficiency",
			Title:       "Improve Operational Efficiency",
			Description: "Streamline business operations",
			Priority:    "medium",
			Steps: []string{
				"Streamline internal processes and workflows",
				"Implement automation for repetitive tasks",
				"Optimize resource allocation and utilization",
			},
		})
	}
	if floatField(perf, "customer_satisfaction") < 0.8 {
		recs = append(recs, Recommendation{
			Type:        "customer_experience",
			Title:       "Enhance Customer Satisfaction",
			Description: "Lift customer satisfaction scores",
			Priority:    "high",
			Steps: []string{
				"Analyze customer feedback and pain points",
				"Implement customer success programs",
				"Improve response times and support quality",
			},
		})
	}
	return recs
}

func studentRecommendations(usage map[string]any) []Recommendation {
	var recs []Recommendation

	academic, _ := usage["academic_performance"].(map[string]any)
	if gpa, ok := toFloat(academic["gpa"]); ok && gpa < 3.0 {
		recs = append(recs, Recommendation{
			Type:        "academic_improvement",
			Title:       "Academic Performance Enhancement",
			Description: "Improve academic results",
			Priority:    "high",
			Steps: []string{
				"Focus additional practice on weak subjects",
				"Schedule additional practice sessions",
				"Seek tutoring or additional resources if needed",
			},
		})
	}

	study, _ := usage["study_habits"].(map[string]any)
	if floatField(study, "focus_score") < 0.6 {
		recs = append(recs, Recommendation{
			Type:        "focus_improvement",
			Title:       "Improve Study Focus",
			Description: "Build a distraction-free study practice",
			Priority:    "high",
			Steps: []string{
				"Create a dedicated study environment",
				"Use the Pomodoro Technique (25min study, 5min break)",
				"Remove distractions during study sessions",
			},
		})
	}
	if floatField(study, "retention_rate") < 0.7 {
		recs = append(recs, Recommendation{
			Type:        "retention_improvement",
			Title:       "Enhance Information Retention",
			Description: "Retain more of what you study",
			Priority:    "high",
			Steps: []string{
				"Practice active recall through self-testing",
				"Create mind maps and visual summaries",
				"Teach concepts to others to reinforce understanding",
			},
		})
	}
	return recs
}

func lifestyleRecommendations(usage map[string]any) []Recommendation {
	var recs []Recommendation

	health, _ := usage["health"].(map[string]any)
	if floatField(health, "wellness_score") < 0.7 {
		recs = append(recs, Recommendation{
			Type:        "health_optimization",
			Title:       "Health and Wellness Suggestions",
			Description: "Personalized health recommendations",
			Priority:    "high",
			Steps: []string{
				"Establish a consistent sleep schedule",
				"Incorporate regular exercise into your routine",
				"Track nutrition and hydration daily",
			},
		})
	}

	routine, _ := usage["daily_routine"].(map[string]any)
	if floatField(routine, "optimization_potential") > 0.3 {
		recs = append(recs, Recommendation{
			Type:        "routine_optimization",
			Title:       "Daily Routine Enhancement",
			Description: "Optimize your daily schedule",
			Priority:    "medium",
			Steps: []string{
				"Plan tomorrow's schedule the evening before",
				"Group similar activities into blocks",
				"Reserve mornings for the day's hardest task",
			},
		})
	}
	return recs
}

func professionalRecommendations(usage map[string]any) []Recommendation {
	var recs []Recommendation

	career, _ := usage["career"].(map[string]any)
	if floatField(career, "advancement_score") < 0.6 {
		recs = append(recs, Recommendation{
			Type:        "career_advancement",
			Title:       "Career Growth Opportunities",
			Description: "Steps to advance your career",
			Priority:    "high",
			Steps: []string{
				"Define a twelve month career objective",
				"Request feedback from peers and managers",
				"Volunteer for stretch assignments",
			},
		})
	}
	if gaps, ok := usage["skill_gaps"].([]any); ok && len(gaps) > 0 {
		recs = append(recs, Recommendation{
			Type:        "skill_development",
			Title:       "Professional Skill Enhancement",
			Description: "Key skills to develop",
			Priority:    "medium",
			Steps: []string{
				"Prioritize one skill gap per quarter",
				"Pair learning with an applied project",
				"Track progress against a concrete milestone",
			},
		})
	}
	if floatField(career, "network_activity") < 0.4 {
		recs = append(recs, Recommendation{
			Type:        "networking",
			Title:       "Networking Opportunities",
			Description: "Expand your professional network",
			Priority:    "medium",
			Steps: []string{
				"Attend one industry event per month",
				"Reconnect with dormant professional contacts",
				"Share work publicly to attract peers",
			},
		})
	}
	return recs
}

func enterpriseRecommendations(usage map[string]any) []Recommendation {
	var recs []Recommendation
	ops, _ := usage["enterprise_operations"].(map[string]any)

	if floatField(ops, "resource_utilization") < 0.6 {
		recs = append(recs, Recommendation{
			Type:        "resource_management",
			Title:       "Resource Allocation Review",
			Description: "Rebalance underused enterprise resources",
			Priority:    "high",
			Steps: []string{
				"Audit resource allocation across teams",
				"Retire or consolidate idle capacity",
				"Set quarterly utilization targets",
			},
		})
	}
	if floatField(ops, "collaboration_score") < 0.7 {
		recs = append(recs, Recommendation{
			Type:        "team_collaboration",
			Title:       "Strengthen Team Collaboration",
			Description: "Improve cross-team coordination",
			Priority:    "medium",
			Steps: []string{
				"Standardize project communication channels",
				"Introduce cross-team review checkpoints",
				"Publish shared objectives and key results",
			},
		})
	}
	return recs
}

func techRecommendations(usage map[string]any) []Recommendation {
	var recs []Recommendation
	eng, _ := usage["engineering"].(map[string]any)

	if floatField(eng, "code_quality_score") < 0.7 {
		recs = append(recs, Recommendation{
			Type:        "code_quality",
			Title:       "Raise Code Quality",
			Description: "Tighten the review and testing loop",
			Priority:    "high",
			Steps: []string{
				"Enable automated review checks on every change",
				"Increase test coverage on the riskiest packages",
				"Schedule periodic refactoring time",
			},
		})
	}
	if floatField(eng, "incident_rate") > 0.1 {
		recs = append(recs, Recommendation{
			Type:        "reliability",
			Title:       "Reduce Incident Rate",
			Description: "Invest in reliability engineering",
			Priority:    "high",
			Steps: []string{
				"Run blameless postmortems for every incident",
				"Add alerting on leading failure indicators",
				"Automate rollback for bad deployments",
			},
		})
	}
	return recs
}

func educationRecommendations(usage map[string]any) []Recommendation {
	var recs []Recommendation
	teaching, _ := usage["teaching"].(map[string]any)

	if floatField(teaching, "course_completion_rate") < 0.7 {
		recs = append(recs, Recommendation{
			Type:        "course_completion",
			Title:       "Improve Course Completion",
			Description: "Help more learners finish the material",
			Priority:    "high",
			Steps: []string{
				"Break long modules into shorter units",
				"Add checkpoints with early feedback",
				"Follow up with inactive learners weekly",
			},
		})
	}
	if floatField(teaching, "learner_engagement") < 0.6 {
		recs = append(recs, Recommendation{
			Type:        "learner_engagement",
			Title:       "Lift Learner Engagement",
			Description: "Make sessions more interactive",
			Priority:    "medium",
			Steps: []string{
				"Mix lectures with hands-on exercises",
				"Use polls and quizzes during sessions",
				"Invite learner questions asynchronously",
			},
		})
	}
	return recs
}
