package learning

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ajira/core"
)

// Skill levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

type Content struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Topic           string    `json:"topic"`
	Tags            []string  `json:"tags"`
	Summary         string    `json:"summary"`
	KeyConcepts     []string  `json:"key_concepts"`
	ApplicationTips string    `json:"application_tips"`
	Views           int       `json:"views"`
	CreatedAt       time.Time `json:"created_at"` // UTC
}

type Flashcard struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// Flashcards derives the three standard cards from a content item.
func (c Content) Flashcards() []Flashcard {
	title := strings.ToLower(c.Title)
	topic := c.Topic
	if topic == "" {
		topic = "general"
	}

	summary := c.Summary
	if len(summary) > 200 {
		summary = summary[:200]
	}
	concepts := strings.Join(c.KeyConcepts, ", ")
	tips := c.ApplicationTips
	if tips == "" {
		tips = "Practical applications of this concept"
	}

	return []Flashcard{
		{Question: "What is " + title + "?", Answer: summary, Topic: topic, Difficulty: "easy"},
		{Question: "Key concepts in " + title, Answer: concepts, Topic: topic, Difficulty: "medium"},
		{Question: "How to apply " + title + "?", Answer: tips, Topic: topic, Difficulty: "hard"},
	}
}

type Resource struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Topic      string    `json:"topic"`
	Tags       []string  `json:"tags"`
	Type       string    `json:"type"` // video, article, course...
	URL        string    `json:"url"`
	SkillLevel string    `json:"skill_level"`
	MatchScore int       `json:"match_score,omitempty"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

type Progress struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ContentID string    `json:"content_id"`
	ViewedAt  time.Time `json:"viewed_at"` // UTC
}

type Streak struct {
	CurrentStreak       int `json:"current_streak"`
	DaysActiveThisMonth int `json:"days_active_this_month"`
	TotalContentViewed  int `json:"total_content_viewed"`
}

// NewRoadmap is a student's request for a personalized learning roadmap.
type NewRoadmap struct {
	CareerGoal     string `json:"career_goal" validate:"required"`
	TimeCommitment string `json:"time_commitment" validate:"required"` // days per week
	CurrentLevel   string `json:"current_level" validate:"required,oneof=beginner intermediate advanced"`
}

func (nr *NewRoadmap) Validate(validate *validator.Validate) error {
	nr.CareerGoal = core.CleanString(nr.CareerGoal)
	nr.TimeCommitment = core.CleanString(nr.TimeCommitment)
	nr.CurrentLevel = core.CleanString(nr.CurrentLevel, true /* lower */)
	return validate.Struct(nr)
}

// RoadmapResource is a resource recommendation embedded in a roadmap stage.
type RoadmapResource struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

type RoadmapStage struct {
	Stage                int               `json:"stage"`
	Title                string            `json:"title"`
	Duration             string            `json:"duration"`
	Milestones           []string          `json:"milestones"`
	RecommendedResources []RoadmapResource `json:"recommended_resources"`
}

type RoadmapProgress struct {
	CurrentStage         int      `json:"current_stage"`
	CompletedMilestones  []string `json:"completed_milestones"`
	CompletionPercentage int      `json:"completion_percentage"`
}

type Roadmap struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	CareerGoal     string          `json:"career_goal"`
	TimeCommitment string          `json:"time_commitment"`
	CurrentLevel   string          `json:"current_level"`
	Stages         []RoadmapStage  `json:"stages"`
	Progress       RoadmapProgress `json:"progress"`
	CreatedAt      time.Time       `json:"created_at"` // UTC
}

// TopicCount pairs a topic with how often it was viewed.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Trends summarizes a user's content consumption over the past week.
type Trends struct {
	TopTopics          []TopicCount `json:"top_topics_this_week"`
	TotalContentViewed int          `json:"total_content_viewed"`
	Insights           []string     `json:"insights"`
}

type ResourceFilter struct {
	Topic      string `query:"topic"`
	SkillLevel string `query:"skill_level"`
}

func (rf *ResourceFilter) Clean() {
	rf.Topic = core.CleanString(rf.Topic, true /* lower */)
	rf.SkillLevel = core.CleanString(rf.SkillLevel, true /* lower */)
}
