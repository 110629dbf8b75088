package learning

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/trezcool/ajira/core"
	"github.com/trezcool/ajira/core/user"
)

const (
	dailyContentCount = 5
	streakWindowDays  = 30
	trendsWindowDays  = 7
	trendsTopTopics   = 3

	roadmapDomainCount        = 2
	roadmapResourcesPerDomain = 3
	roadmapResourceCap        = 5
)

var (
	// errors
	ErrContentNotFound = errors.New("content not found")
)

type (
	Repository interface {
		CreateContent(c Content) (Content, error)
		QueryAllContent() ([]Content, error)
		GetContentByID(id string) (Content, error)
		IncrementContentViews(id string) error
		CreateResource(r Resource) (Resource, error)
		// FilterResources applies AND on available ResourceFilter fields;
		// Topic does a case-insensitive substring match.
		FilterResources(filter ResourceFilter) ([]Resource, error)
		CreateProgress(p Progress) (Progress, error)
		// CountProgressSince counts a user's progress entries recorded at or
		// after the given time.
		CountProgressSince(userID string, since time.Time) (int, error)
		// QueryProgressSince returns a user's progress entries recorded at or
		// after the given time, newest first.
		QueryProgressSince(userID string, since time.Time) ([]Progress, error)
		CreateRoadmap(rm Roadmap) (Roadmap, error)
	}

	Service interface {
		AddContent(c Content) (Content, error)
		// DailyContent returns up to 5 items matching the user's tags, falling
		// back to the most viewed items when nothing matches.
		DailyContent(usr user.User) ([]Content, error)
		MarkViewed(usr user.User, contentID string) error
		AddResource(r Resource) (Resource, error)
		// Resources ranks filtered resources by tag overlap with the user's
		// interests.
		Resources(usr user.User, filter ResourceFilter) ([]Resource, error)
		Streak(usr user.User) (Streak, error)
		// CreateRoadmap builds and persists a 3-stage roadmap seeded with the
		// user's domains and matching resources.
		CreateRoadmap(usr user.User, nr NewRoadmap) (Roadmap, error)
		// Trends summarizes the topics the user consumed over the last 7 days.
		Trends(usr user.User) (Trends, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) AddContent(c Content) (Content, error) {
	c.CreatedAt = time.Now().UTC()
	return svc.repo.CreateContent(c)
}

func (svc *service) DailyContent(usr user.User) ([]Content, error) {
	all, err := svc.repo.QueryAllContent()
	if err != nil {
		return nil, err
	}

	userTags := usr.AllTags()
	matched := make([]Content, 0, dailyContentCount)
	for _, c := range all {
		if core.TagOverlap(userTags, c.Tags) > 0 {
			matched = append(matched, c)
			if len(matched) == dailyContentCount {
				break
			}
		}
	}
	if len(matched) > 0 {
		return matched, nil
	}

	// fallback: most viewed
	sort.SliceStable(all, func(i, j int) bool { return all[i].Views > all[j].Views })
	if len(all) > dailyContentCount {
		all = all[:dailyContentCount]
	}
	return all, nil
}

func (svc *service) MarkViewed(usr user.User, contentID string) error {
	if _, err := svc.repo.GetContentByID(contentID); err != nil {
		return err
	}
	if err := svc.repo.IncrementContentViews(contentID); err != nil {
		return err
	}
	_, err := svc.repo.CreateProgress(Progress{
		UserID:    usr.ID,
		ContentID: contentID,
		ViewedAt:  time.Now().UTC(),
	})
	return err
}

func (svc *service) AddResource(r Resource) (Resource, error) {
	r.CreatedAt = time.Now().UTC()
	return svc.repo.CreateResource(r)
}

func (svc *service) Resources(usr user.User, filter ResourceFilter) ([]Resource, error) {
	resources, err := svc.repo.FilterResources(filter)
	if err != nil {
		return nil, err
	}
	for i := range resources {
		resources[i].MatchScore = core.TagOverlap(usr.Interests, resources[i].Tags)
	}
	sort.SliceStable(resources, func(i, j int) bool { return resources[i].MatchScore > resources[j].MatchScore })
	return resources, nil
}

func (svc *service) Streak(usr user.User) (Streak, error) {
	since := time.Now().UTC().AddDate(0, 0, -streakWindowDays)
	count, err := svc.repo.CountProgressSince(usr.ID, since)
	if err != nil {
		return Streak{}, err
	}
	current := count
	if current > streakWindowDays {
		current = streakWindowDays
	}
	return Streak{
		CurrentStreak:       current,
		DaysActiveThisMonth: count,
		TotalContentViewed:  count,
	}, nil
}

func (svc *service) CreateRoadmap(usr user.User, nr NewRoadmap) (Roadmap, error) {
	domains := usr.Tags
	if len(domains) > roadmapDomainCount {
		domains = domains[:roadmapDomainCount]
	}
	if len(domains) == 0 {
		domains = []string{nr.CareerGoal}
	}

	foundation, err := svc.recommendResources(domains, nr.CurrentLevel)
	if err != nil {
		return Roadmap{}, err
	}
	advanced, err := svc.recommendResources([]string{nr.CareerGoal}, nr.CurrentLevel)
	if err != nil {
		return Roadmap{}, err
	}

	rm := Roadmap{
		UserID:         usr.ID,
		CareerGoal:     nr.CareerGoal,
		TimeCommitment: nr.TimeCommitment,
		CurrentLevel:   nr.CurrentLevel,
		Stages: []RoadmapStage{
			{
				Stage:                1,
				Title:                "Foundation in " + strings.Join(domains, ", "),
				Duration:             "2-3 weeks",
				Milestones:           []string{"Complete basics", "Build first projects"},
				RecommendedResources: foundation,
			},
			{
				Stage:                2,
				Title:                "Advanced " + nr.CareerGoal + " Skills",
				Duration:             "4-6 weeks",
				Milestones:           []string{"Master intermediate concepts", "Build portfolio project"},
				RecommendedResources: advanced,
			},
			{
				Stage:                3,
				Title:                "Specialization and Practice",
				Duration:             "6-8 weeks",
				Milestones:           []string{"Focus on weak areas", "Mock interviews", "Networking"},
				RecommendedResources: []RoadmapResource{},
			},
		},
		Progress:  RoadmapProgress{CurrentStage: 1, CompletedMilestones: []string{}},
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateRoadmap(rm)
}

func (svc *service) recommendResources(domains []string, skillLevel string) ([]RoadmapResource, error) {
	recommended := make([]RoadmapResource, 0, roadmapResourceCap)
	for _, domain := range domains {
		resources, err := svc.repo.FilterResources(ResourceFilter{Topic: strings.ToLower(domain), SkillLevel: skillLevel})
		if err != nil {
			return nil, err
		}
		if len(resources) > roadmapResourcesPerDomain {
			resources = resources[:roadmapResourcesPerDomain]
		}
		for _, r := range resources {
			recommended = append(recommended, RoadmapResource{ID: r.ID, Title: r.Title, Type: r.Type, URL: r.URL})
		}
	}
	if len(recommended) > roadmapResourceCap {
		recommended = recommended[:roadmapResourceCap]
	}
	return recommended, nil
}

func (svc *service) Trends(usr user.User) (Trends, error) {
	since := time.Now().UTC().AddDate(0, 0, -trendsWindowDays)
	progress, err := svc.repo.QueryProgressSince(usr.ID, since)
	if err != nil {
		return Trends{}, err
	}

	counts := make(map[string]int)
	for _, p := range progress {
		c, err := svc.repo.GetContentByID(p.ContentID)
		if err != nil {
			if err == ErrContentNotFound {
				continue
			}
			return Trends{}, err
		}
		topic := c.Topic
		if topic == "" {
			topic = "general"
		}
		counts[topic]++
	}

	top := make([]TopicCount, 0, len(counts))
	for topic, count := range counts {
		top = append(top, TopicCount{Topic: topic, Count: count})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > trendsTopTopics {
		top = top[:trendsTopTopics]
	}

	insights := make([]string, 0, 2)
	if len(top) > 0 {
		insights = append(insights, "your interest in "+top[0].Topic+" is growing")
	} else {
		insights = append(insights, "view some daily content to start building trends")
	}
	return Trends{
		TopTopics:          top,
		TotalContentViewed: len(progress),
		Insights:           insights,
	}, nil
}
