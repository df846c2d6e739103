package checklist

import (
	"fmt"
	"strings"
)

// Category is the project type a goal is classified into.
type Category string

const (
	CategoryTravel  Category = "travel"
	CategoryStudy   Category = "study"
	CategoryWork    Category = "work"
	CategoryHealth  Category = "health"
	CategoryDefault Category = "default"
)

type strategy struct {
	category Category
	matches  func(goal string) bool
	steps    func(goal string) []string
}

func keywords(words ...string) func(string) bool {
	return func(goal string) bool {
		g := strings.ToLower(goal)
		for _, w := range words {
			if strings.Contains(g, w) {
				return true
			}
		}
		return false
	}
}

func fixed(steps ...string) func(string) []string {
	return func(string) []string {
		out := make([]string, len(steps))
		copy(out, steps)
		return out
	}
}

// strategies is evaluated top to bottom; the last entry always matches.
var strategies = []strategy{
	{
		category: CategoryTravel,
		matches:  keywords("travel", "trip", "visit", "flight", "hotel", "旅行", "出差", "订票"),
		steps: fixed(
			"Book flights and accommodation",
			"Pack luggage and essentials",
			"Check execution plan / itinerary",
			"Confirm travel documents (ID/Passport)",
		),
	},
	{
		category: CategoryStudy,
		matches:  keywords("study", "learn", "read", "course", "exam", "学习", "阅读", "考试", "看书"),
		steps: fixed(
			"Define learning objectives",
			"Gather study materials/books",
			"Daily study session (Morning)",
			"Review and summarize notes",
		),
	},
	{
		category: CategoryWork,
		matches:  keywords("code", "dev", "project", "meeting", "report", "工作", "代码", "项目", "会议"),
		steps: fixed(
			"Outline project requirements",
			"Draft initial implementation",
			"Review and refine",
			"Final submission/deployment",
		),
	},
	{
		category: CategoryHealth,
		matches:  keywords("gym", "run", "workout", "diet", "健身", "跑步", "运动"),
		steps: fixed(
			"Prepare gear/equipment",
			"Warm up exercise",
			"Main workout session",
			"Cool down and stretch",
		),
	},
	{
		category: CategoryDefault,
		matches:  func(string) bool { return true },
		steps: func(goal string) []string {
			return []string{
				fmt.Sprintf("Research info for %s", goal),
				fmt.Sprintf("Draft Plan for %s", goal),
				fmt.Sprintf("Execute %s", goal),
				"Review outcome",
			}
		},
	},
}

// Classify returns the first category whose keywords appear in goal.
func Classify(goal string) Category {
	return pick(goal).category
}

// TemplateSteps returns the fixed four-step checklist for goal's category.
func TemplateSteps(goal string) []string {
	return pick(goal).steps(goal)
}

func pick(goal string) strategy {
	for _, s := range strategies {
		if s.matches(goal) {
			return s
		}
	}
	return strategies[len(strategies)-1]
}
