package recommend

import identitymodel "lvlhub-server-go/internal/domain/identity/model"

// SuiteInfo describes one product suite and its feature catalog.
type SuiteInfo struct {
	Name     string            `json:"name"`
	Features map[string]string `json:"features"`
}

var suiteCatalog = map[identitymodel.SuiteType]SuiteInfo{
	identitymodel.SuiteStudent: {
		Name: "Student Suite",
		Features: map[string]string{
			"course_management": "Manage academic courses and materials",
			"study_groups":      "Coordinate study groups and collaboration",
			"ai_assistant":      "AI-powered study assistance",
			"mental_health":     "Mental health resources and support",
		},
	},
	identitymodel.SuiteBusiness: {
		Name: "Business Suite",
		Features: map[string]string{
			"crm":               "Customer Relationship Management",
			"inventory":         "Inventory Management System",
			"analytics":         "Business Analytics Dashboard",
			"employee_tracking": "Employee Performance Monitoring",
		},
	},
	identitymodel.SuitePersonal: {
		Name: "Personal Suite",
		Features: map[string]string{
			"task_management": "Personal Task Organization",
			"health_tracking": "Health and Wellness Monitoring",
			"finance":         "Personal Finance Management",
			"goals":           "Goal Setting and Tracking",
		},
	},
	identitymodel.SuiteEnterprise: {
		Name: "Enterprise Suite",
		Features: map[string]string{
			"advanced_analytics":   "Enterprise-level Analytics",
			"team_collaboration":   "Team Management and Collaboration",
			"resource_management":  "Enterprise Resource Planning",
			"secure_communication": "Encrypted Enterprise Communications",
		},
	},
	identitymodel.SuiteTech: {
		Name: "Tech Suite",
		Features: map[string]string{
			"code_review":      "Automated Code Review Insights",
			"deploy_pipeline":  "Deployment Pipeline Tracking",
			"incident_monitor": "Incident and Reliability Monitoring",
			"api_workbench":    "API Design and Testing Workbench",
		},
	},
	identitymodel.SuiteLifestyle: {
		Name: "Lifestyle Suite",
		Features: map[string]string{
			"wellness":         "Health and Wellness Suggestions",
			"daily_routine":    "Daily Routine Planning",
			"personal_growth":  "Personal Development Tracking",
			"social_calendar":  "Social and Leisure Scheduling",
		},
	},
	identitymodel.SuiteProfessional: {
		Name: "Professional Suite",
		Features: map[string]string{
			"career_planner": "Career Development Planning",
			"skill_tracker":  "Professional Skill Tracking",
			"networking":     "Professional Network Building",
			"portfolio":      "Work Portfolio Management",
		},
	},
	identitymodel.SuiteEducation: {
		Name: "Education Suite",
		Features: map[string]string{
			"curriculum":     "Curriculum Design and Delivery",
			"class_insights": "Classroom Engagement Insights",
			"assessments":    "Assessment Creation and Grading",
			"parent_portal":  "Parent and Guardian Communication",
		},
	},
}

// Catalog returns the full suite catalog keyed by suite type.
func Catalog() map[identitymodel.SuiteType]SuiteInfo {
	out := make(map[identitymodel.SuiteType]SuiteInfo, len(suiteCatalog))
	for suite, info := range suiteCatalog {
		out[suite] = info
	}
	return out
}

// SuiteFeatures returns the feature catalog for one suite.
func SuiteFeatures(suite identitymodel.SuiteType) (SuiteInfo, bool) {
	info, ok := suiteCatalog[suite]
	return info, ok
}
