package learning_test

import (
	"reflect"
	"testing"

	"github.com/trezcool/ajira/core/learning"
	"github.com/trezcool/ajira/core/user"
	inmemdb "github.com/trezcool/ajira/storage/database/inmem"
)

func setup(t *testing.T) learning.Service {
	t.Helper()
	return learning.NewService(inmemdb.NewLearningRepository(inmemdb.NewDB()))
}

func addContent(t *testing.T, svc learning.Service, title string, tags []string) learning.Content {
	t.Helper()

	c, err := svc.AddContent(learning.Content{
		Title:       title,
		Topic:       "go",
		Tags:        tags,
		Summary:     "short summary",
		KeyConcepts: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("AddContent() failed, %v", err)
	}
	return c
}

func TestService_DailyContent(t *testing.T) {
	svc := setup(t)
	goContent := addContent(t, svc, "Goroutines", []string{"go", "concurrency"})
	addContent(t, svc, "Joins", []string{"sql"})

	t.Run("matches user tags", func(t *testing.T) {
		usr := user.User{Tags: []string{"go", "docker"}}
		daily, err := svc.DailyContent(usr)
		if err != nil {
			t.Fatalf("DailyContent() failed, %v", err)
		}
		if len(daily) != 1 || daily[0].ID != goContent.ID {
			t.Errorf("DailyContent() = %v, want just %q", daily, goContent.Title)
		}
	})

	t.Run("fallback for no overlap", func(t *testing.T) {
		daily, err := svc.DailyContent(user.User{Tags: []string{"cobol"}})
		if err != nil {
			t.Fatalf("DailyContent() failed, %v", err)
		}
		if len(daily) != 2 {
			t.Errorf("len(daily) = %d, want 2", len(daily))
		}
	})
}

func TestService_MarkViewedAndStreak(t *testing.T) {
	svc := setup(t)
	usr := user.User{ID: "u1"}
	c := addContent(t, svc, "Goroutines", []string{"go"})

	if err := svc.MarkViewed(usr, "deadbeef"); err != learning.ErrContentNotFound {
		t.Errorf("MarkViewed() error = %v, want %v", err, learning.ErrContentNotFound)
	}

	streak, err := svc.Streak(usr)
	if err != nil {
		t.Fatalf("Streak() failed, %v", err)
	}
	if !reflect.DeepEqual(streak, learning.Streak{}) {
		t.Errorf("Streak() = %+v, want zero", streak)
	}

	if err := svc.MarkViewed(usr, c.ID); err != nil {
		t.Fatalf("MarkViewed() failed, %v", err)
	}
	streak, err = svc.Streak(usr)
	if err != nil {
		t.Fatalf("Streak() failed, %v", err)
	}
	if streak.TotalContentViewed != 1 || streak.CurrentStreak != 1 {
		t.Errorf("Streak() = %+v, want 1 view", streak)
	}
}

func TestService_Resources(t *testing.T) {
	svc := setup(t)

	goRes, err := svc.AddResource(learning.Resource{
		Title: "Tour of Go", Topic: "go", Tags: []string{"go", "basics"},
		Type: "course", URL: "https://go.dev/tour", SkillLevel: learning.LevelBeginner,
	})
	if err != nil {
		t.Fatalf("AddResource() failed, %v", err)
	}
	if _, err = svc.AddResource(learning.Resource{
		Title: "SQL Deep Dive", Topic: "sql", Tags: []string{"sql"},
		Type: "video", URL: "https://example.test/sql", SkillLevel: learning.LevelAdvanced,
	}); err != nil {
		t.Fatalf("AddResource() failed, %v", err)
	}

	usr := user.User{Interests: []string{"go", "basics"}}

	t.Run("ranked by interest overlap", func(t *testing.T) {
		resources, err := svc.Resources(usr, learning.ResourceFilter{})
		if err != nil {
			t.Fatalf("Resources() failed, %v", err)
		}
		if len(resources) != 2 {
			t.Fatalf("len(resources) = %d, want 2", len(resources))
		}
		if resources[0].ID != goRes.ID || resources[0].MatchScore != 2 {
			t.Errorf("first = %q score %d, want %q score 2", resources[0].Title, resources[0].MatchScore, goRes.Title)
		}
	})

	t.Run("skill level filter", func(t *testing.T) {
		resources, err := svc.Resources(usr, learning.ResourceFilter{SkillLevel: learning.LevelAdvanced})
		if err != nil {
			t.Fatalf("Resources() failed, %v", err)
		}
		if len(resources) != 1 || resources[0].Topic != "sql" {
			t.Errorf("Resources() = %v, want just the sql one", resources)
		}
	})
}

func TestContent_Flashcards(t *testing.T) {
	c := learning.Content{
		Title:           "Goroutines",
		Topic:           "go",
		Summary:         "lightweight threads",
		KeyConcepts:     []string{"scheduler", "channels"},
		ApplicationTips: "use for io-bound work",
	}

	cards := c.Flashcards()
	if len(cards) != 3 {
		t.Fatalf("len(cards) = %d, want 3", len(cards))
	}
	if cards[0].Question != "What is goroutines?" || cards[0].Difficulty != "easy" {
		t.Errorf("card 0 = %+v", cards[0])
	}
	if cards[1].Answer != "scheduler, channels" || cards[1].Difficulty != "medium" {
		t.Errorf("card 1 = %+v", cards[1])
	}
	if cards[2].Answer != "use for io-bound work" || cards[2].Difficulty != "hard" {
		t.Errorf("card 2 = %+v", cards[2])
	}

	t.Run("defaults", func(t *testing.T) {
		cards := learning.Content{Title: "Bare"}.Flashcards()
		if cards[0].Topic != "general" {
			t.Errorf("Topic = %s, want general", cards[0].Topic)
		}
		if cards[2].Answer != "Practical applications of this concept" {
			t.Errorf("Answer = %s", cards[2].Answer)
		}
	})
}

func TestService_CreateRoadmap(t *testing.T) {
	svc := setup(t)

	goRes, err := svc.AddResource(learning.Resource{
		Title: "Tour of Go", Topic: "go", Type: "course",
		URL: "https://go.dev/tour", SkillLevel: learning.LevelBeginner,
	})
	if err != nil {
		t.Fatalf("AddResource() failed, %v", err)
	}
	backendRes, err := svc.AddResource(learning.Resource{
		Title: "Backend Patterns", Topic: "backend engineering", Type: "article",
		URL: "https://example.test/backend", SkillLevel: learning.LevelBeginner,
	})
	if err != nil {
		t.Fatalf("AddResource() failed, %v", err)
	}
	if _, err = svc.AddResource(learning.Resource{
		Title: "Advanced Go", Topic: "go", Type: "video",
		URL: "https://example.test/adv-go", SkillLevel: learning.LevelAdvanced,
	}); err != nil {
		t.Fatalf("AddResource() failed, %v", err)
	}

	usr := user.User{ID: "u1", Tags: []string{"go", "sql", "docker"}}
	rm, err := svc.CreateRoadmap(usr, learning.NewRoadmap{
		CareerGoal:     "Backend Engineering",
		TimeCommitment: "5",
		CurrentLevel:   learning.LevelBeginner,
	})
	if err != nil {
		t.Fatalf("CreateRoadmap() failed, %v", err)
	}

	if rm.ID == "" || rm.UserID != usr.ID {
		t.Errorf("roadmap = %+v, want persisted for %q", rm, usr.ID)
	}
	if len(rm.Stages) != 3 {
		t.Fatalf("len(stages) = %d, want 3", len(rm.Stages))
	}
	if rm.Stages[0].Title != "Foundation in go, sql" {
		t.Errorf("stage 1 title = %q", rm.Stages[0].Title)
	}
	if len(rm.Stages[0].RecommendedResources) != 1 || rm.Stages[0].RecommendedResources[0].ID != goRes.ID {
		t.Errorf("stage 1 resources = %v, want just %q", rm.Stages[0].RecommendedResources, goRes.Title)
	}
	if rm.Stages[1].Title != "Advanced Backend Engineering Skills" {
		t.Errorf("stage 2 title = %q", rm.Stages[1].Title)
	}
	if len(rm.Stages[1].RecommendedResources) != 1 || rm.Stages[1].RecommendedResources[0].ID != backendRes.ID {
		t.Errorf("stage 2 resources = %v, want just %q", rm.Stages[1].RecommendedResources, backendRes.Title)
	}
	if len(rm.Stages[2].RecommendedResources) != 0 {
		t.Errorf("stage 3 resources = %v, want none", rm.Stages[2].RecommendedResources)
	}
	if rm.Progress.CurrentStage != 1 || rm.Progress.CompletionPercentage != 0 {
		t.Errorf("progress = %+v, want fresh", rm.Progress)
	}
}

func TestService_Trends(t *testing.T) {
	svc := setup(t)
	usr := user.User{ID: "u1"}

	t.Run("no activity", func(t *testing.T) {
		trends, err := svc.Trends(usr)
		if err != nil {
			t.Fatalf("Trends() failed, %v", err)
		}
		if trends.TotalContentViewed != 0 || len(trends.TopTopics) != 0 {
			t.Errorf("Trends() = %+v, want empty", trends)
		}
		if len(trends.Insights) == 0 {
			t.Error("Trends() returned no insights")
		}
	})

	goContent := addContent(t, svc, "Goroutines", []string{"go"})
	goContent2 := addContent(t, svc, "Channels", []string{"go"})
	sqlContent, err := svc.AddContent(learning.Content{Title: "Joins", Topic: "sql"})
	if err != nil {
		t.Fatalf("AddContent() failed, %v", err)
	}
	for _, id := range []string{goContent.ID, goContent2.ID, sqlContent.ID} {
		if err := svc.MarkViewed(usr, id); err != nil {
			t.Fatalf("MarkViewed() failed, %v", err)
		}
	}

	t.Run("topics ranked by views", func(t *testing.T) {
		trends, err := svc.Trends(usr)
		if err != nil {
			t.Fatalf("Trends() failed, %v", err)
		}
		if trends.TotalContentViewed != 3 {
			t.Errorf("TotalContentViewed = %d, want 3", trends.TotalContentViewed)
		}
		want := []learning.TopicCount{{Topic: "go", Count: 2}, {Topic: "sql", Count: 1}}
		if !reflect.DeepEqual(trends.TopTopics, want) {
			t.Errorf("TopTopics = %v, want %v", trends.TopTopics, want)
		}
		if len(trends.Insights) == 0 || trends.Insights[0] != "your interest in go is growing" {
			t.Errorf("Insights = %v", trends.Insights)
		}
	})
}
