package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/ajira/core/community"
)

type communityRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Topic     string         `db:"topic"`
	Tags      string         `db:"tags"`
	Members   pq.StringArray `db:"members"`
	CreatedAt time.Time      `db:"created_at"`
}

func (row communityRow) toCommunity() community.Community {
	return community.Community{
		ID:        row.ID,
		Name:      row.Name,
		Topic:     row.Topic,
		Tags:      splitList(row.Tags),
		Members:   row.Members,
		CreatedAt: row.CreatedAt,
	}
}

// communitySelect aggregates member IDs per community.
const communitySelect = `
	SELECT c.id, c.name, c.topic, c.tags, c.created_at,
		COALESCE(ARRAY_AGG(m.user_id::text) FILTER (WHERE m.user_id IS NOT NULL), '{}') AS members
	FROM community c
	LEFT JOIN community_member m ON m.community_id = c.id`

const communityGroup = ` GROUP BY c.id, c.name, c.topic, c.tags, c.created_at`

type communityRepository struct {
	db *sqlx.DB
}

var _ community.Repository = (*communityRepository)(nil) // interface compliance check

func NewCommunityRepository(db *sqlx.DB) community.Repository {
	return &communityRepository{db: db}
}

func (repo *communityRepository) toCommunities(rows []communityRow) []community.Community {
	comms := make([]community.Community, 0, len(rows))
	for _, row := range rows {
		comms = append(comms, row.toCommunity())
	}
	return comms
}

func (repo *communityRepository) CreateCommunity(c community.Community) (community.Community, error) {
	c.ID = uuid.New().String()
	tx, err := repo.db.Beginx()
	if err != nil {
		return community.Community{}, errors.Wrap(err, "beginning community insert")
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO community (id, name, topic, tags, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Topic, joinList(c.Tags), c.CreatedAt.UTC())
	if err != nil {
		return community.Community{}, errors.Wrap(err, "inserting community")
	}
	for _, userID := range c.Members {
		if _, err = tx.Exec(`INSERT INTO community_member (community_id, user_id) VALUES ($1, $2)`, c.ID, userID); err != nil {
			return community.Community{}, errors.Wrap(err, "inserting community member")
		}
	}
	if err = tx.Commit(); err != nil {
		return community.Community{}, errors.Wrap(err, "committing community insert")
	}
	return c, nil
}

func (repo *communityRepository) QueryAllCommunities() ([]community.Community, error) {
	var rows []communityRow
	if err := repo.db.Select(&rows, communitySelect+communityGroup+` ORDER BY c.created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying communities")
	}
	return repo.toCommunities(rows), nil
}

func (repo *communityRepository) GetCommunityByID(id string) (community.Community, error) {
	if _, err := uuid.Parse(id); err != nil {
		return community.Community{}, community.ErrNotFound
	}
	var row communityRow
	err := repo.db.Get(&row, communitySelect+` WHERE c.id = $1`+communityGroup, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return community.Community{}, community.ErrNotFound
		}
		return community.Community{}, errors.Wrap(err, "finding community by ID")
	}
	return row.toCommunity(), nil
}

func (repo *communityRepository) QueryCommunitiesByMember(userID string) ([]community.Community, error) {
	var rows []communityRow
	err := repo.db.Select(&rows, communitySelect+`
		WHERE c.id IN (SELECT community_id FROM community_member WHERE user_id = $1)`+communityGroup+`
		ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying communities by member")
	}
	return repo.toCommunities(rows), nil
}

func (repo *communityRepository) AddMember(communityID, userID string) (community.Community, error) {
	res, err := repo.db.Exec(`
		INSERT INTO community_member (community_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (community_id, user_id) DO NOTHING`,
		communityID, userID)
	if err != nil {
		return community.Community{}, errors.Wrap(err, "adding community member")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return community.Community{}, community.ErrAlreadyMember
	}
	return repo.GetCommunityByID(communityID)
}
