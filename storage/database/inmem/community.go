package inmemdb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/ajira/core/community"
)

type communityRepository struct {
	db *communityTable
}

var _ community.Repository = (*communityRepository)(nil) // interface compliance check

func NewCommunityRepository(db *DB) community.Repository {
	return &communityRepository{db: db.community}
}

func (repo *communityRepository) query() []community.Community {
	communities := make([]community.Community, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		communities = append(communities, *c)
	}
	sort.Slice(communities, func(i, j int) bool { return communities[i].CreatedAt.After(communities[j].CreatedAt) })
	return communities
}

func (repo *communityRepository) CreateCommunity(c community.Community) (community.Community, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.New().String()
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *communityRepository) QueryAllCommunities() ([]community.Community, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *communityRepository) GetCommunityByID(id string) (community.Community, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return community.Community{}, community.ErrNotFound
}

func (repo *communityRepository) QueryCommunitiesByMember(userID string) ([]community.Community, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]community.Community, 0)
	for _, c := range repo.query() {
		if c.IsMember(userID) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (repo *communityRepository) AddMember(communityID, userID string) (community.Community, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.table[communityID]
	if !ok {
		return community.Community{}, community.ErrNotFound
	}
	c.Members = append(c.Members, userID)
	return *c, nil
}
