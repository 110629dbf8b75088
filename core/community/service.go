package community

import (
	"errors"
	"sort"
	"time"

	"github.com/trezcool/ajira/core"
	"github.com/trezcool/ajira/core/user"
)

const maxRecommendations = 5

var (
	// errors
	ErrNotFound      = errors.New("community not found")
	ErrAlreadyMember = errors.New("already a member of this community")
)

type (
	Repository interface {
		CreateCommunity(c Community) (Community, error)
		QueryAllCommunities() ([]Community, error)
		GetCommunityByID(id string) (Community, error)
		// QueryCommunitiesByMember returns communities the user belongs to.
		QueryCommunitiesByMember(userID string) ([]Community, error)
		AddMember(communityID, userID string) (Community, error)
	}

	Service interface {
		Create(c Community) (Community, error)
		QueryAll() ([]Community, error)
		GetByID(id string) (Community, error)
		Memberships(usr user.User) ([]Community, error)
		// Recommend ranks communities the user has not joined by tag overlap
		// with their profile.
		Recommend(usr user.User) ([]Recommendation, error)
		Join(usr user.User, communityID string) (Community, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(c Community) (Community, error) {
	c.CreatedAt = time.Now().UTC()
	return svc.repo.CreateCommunity(c)
}

func (svc *service) QueryAll() ([]Community, error) {
	return svc.repo.QueryAllCommunities()
}

func (svc *service) GetByID(id string) (Community, error) {
	return svc.repo.GetCommunityByID(id)
}

func (svc *service) Memberships(usr user.User) ([]Community, error) {
	return svc.repo.QueryCommunitiesByMember(usr.ID)
}

func (svc *service) Recommend(usr user.User) ([]Recommendation, error) {
	all, err := svc.repo.QueryAllCommunities()
	if err != nil {
		return nil, err
	}

	userTags := usr.AllTags()
	recs := make([]Recommendation, 0, len(all))
	for _, c := range all {
		if c.IsMember(usr.ID) {
			continue
		}
		score := core.TagOverlap(userTags, c.Tags)
		if score == 0 {
			continue
		}
		recs = append(recs, Recommendation{Community: c, MatchScore: score})
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].MatchScore > recs[j].MatchScore })
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs, nil
}

func (svc *service) Join(usr user.User, communityID string) (Community, error) {
	c, err := svc.repo.GetCommunityByID(communityID)
	if err != nil {
		return Community{}, err
	}
	if c.IsMember(usr.ID) {
		return Community{}, core.NewValidationError(ErrAlreadyMember)
	}
	return svc.repo.AddMember(communityID, usr.ID)
}
