package inmemdb

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/ajira/core/learning"
)

type learningRepository struct {
	db *learningTable
}

var _ learning.Repository = (*learningRepository)(nil) // interface compliance check

func NewLearningRepository(db *DB) learning.Repository {
	return &learningRepository{db: db.learning}
}

func (repo *learningRepository) CreateContent(c learning.Content) (learning.Content, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.New().String()
	repo.db.contents[c.ID] = &c
	return c, nil
}

func (repo *learningRepository) QueryAllContent() ([]learning.Content, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	contents := make([]learning.Content, 0, len(repo.db.contents))
	for _, c := range repo.db.contents {
		contents = append(contents, *c)
	}
	sort.Slice(contents, func(i, j int) bool { return contents[i].CreatedAt.After(contents[j].CreatedAt) })
	return contents, nil
}

func (repo *learningRepository) GetContentByID(id string) (learning.Content, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.contents[id]; ok {
		return *c, nil
	}
	return learning.Content{}, learning.ErrContentNotFound
}

func (repo *learningRepository) IncrementContentViews(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.contents[id]
	if !ok {
		return learning.ErrContentNotFound
	}
	c.Views++
	return nil
}

func (repo *learningRepository) CreateResource(r learning.Resource) (learning.Resource, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	r.ID = uuid.New().String()
	repo.db.resources[r.ID] = &r
	return r, nil
}

func (repo *learningRepository) FilterResources(filter learning.ResourceFilter) ([]learning.Resource, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]learning.Resource, 0)
	for _, r := range repo.db.resources {
		if filter.Topic != "" && !strings.Contains(strings.ToLower(r.Topic), filter.Topic) {
			continue
		}
		if filter.SkillLevel != "" && r.SkillLevel != filter.SkillLevel {
			continue
		}
		matched = append(matched, *r)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}

func (repo *learningRepository) CreateProgress(p learning.Progress) (learning.Progress, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p.ID = uuid.New().String()
	repo.db.progress[p.ID] = &p
	return p, nil
}

func (repo *learningRepository) CountProgressSince(userID string, since time.Time) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, p := range repo.db.progress {
		if p.UserID == userID && !p.ViewedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (repo *learningRepository) QueryProgressSince(userID string, since time.Time) ([]learning.Progress, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]learning.Progress, 0)
	for _, p := range repo.db.progress {
		if p.UserID == userID && !p.ViewedAt.Before(since) {
			matched = append(matched, *p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ViewedAt.After(matched[j].ViewedAt) })
	return matched, nil
}

func (repo *learningRepository) CreateRoadmap(rm learning.Roadmap) (learning.Roadmap, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rm.ID = uuid.New().String()
	repo.db.roadmaps[rm.ID] = &rm
	return rm, nil
}
