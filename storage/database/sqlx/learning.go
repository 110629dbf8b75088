package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ajira/core/learning"
)

const (
	contentCols  = `id, title, topic, tags, summary, key_concepts, application_tips, views, created_at`
	resourceCols = `id, title, topic, tags, type, url, skill_level, created_at`
)

type contentRow struct {
	ID              string    `db:"id"`
	Title           string    `db:"title"`
	Topic           string    `db:"topic"`
	Tags            string    `db:"tags"`
	Summary         string    `db:"summary"`
	KeyConcepts     string    `db:"key_concepts"`
	ApplicationTips string    `db:"application_tips"`
	Views           int       `db:"views"`
	CreatedAt       time.Time `db:"created_at"`
}

func (row contentRow) toContent() learning.Content {
	return learning.Content{
		ID:              row.ID,
		Title:           row.Title,
		Topic:           row.Topic,
		Tags:            splitList(row.Tags),
		Summary:         row.Summary,
		KeyConcepts:     splitList(row.KeyConcepts),
		ApplicationTips: row.ApplicationTips,
		Views:           row.Views,
		CreatedAt:       row.CreatedAt,
	}
}

type resourceRow struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	Topic      string    `db:"topic"`
	Tags       string    `db:"tags"`
	Type       string    `db:"type"`
	URL        string    `db:"url"`
	SkillLevel string    `db:"skill_level"`
	CreatedAt  time.Time `db:"created_at"`
}

func (row resourceRow) toResource() learning.Resource {
	return learning.Resource{
		ID:         row.ID,
		Title:      row.Title,
		Topic:      row.Topic,
		Tags:       splitList(row.Tags),
		Type:       row.Type,
		URL:        row.URL,
		SkillLevel: row.SkillLevel,
		CreatedAt:  row.CreatedAt,
	}
}

type progressRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ContentID string    `db:"content_id"`
	ViewedAt  time.Time `db:"viewed_at"`
}

type learningRepository struct {
	db *sqlx.DB
}

var _ learning.Repository = (*learningRepository)(nil) // interface compliance check

func NewLearningRepository(db *sqlx.DB) learning.Repository {
	return &learningRepository{db: db}
}

func (repo *learningRepository) CreateContent(c learning.Content) (learning.Content, error) {
	c.ID = uuid.New().String()
	_, err := repo.db.Exec(`
		INSERT INTO learning_content (`+contentCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Title, c.Topic, joinList(c.Tags), c.Summary, joinList(c.KeyConcepts), c.ApplicationTips, c.Views, c.CreatedAt.UTC())
	if err != nil {
		return learning.Content{}, errors.Wrap(err, "inserting learning content")
	}
	return c, nil
}

func (repo *learningRepository) QueryAllContent() ([]learning.Content, error) {
	var rows []contentRow
	if err := repo.db.Select(&rows, `SELECT `+contentCols+` FROM learning_content ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying learning content")
	}
	contents := make([]learning.Content, 0, len(rows))
	for _, row := range rows {
		contents = append(contents, row.toContent())
	}
	return contents, nil
}

func (repo *learningRepository) GetContentByID(id string) (learning.Content, error) {
	if _, err := uuid.Parse(id); err != nil {
		return learning.Content{}, learning.ErrContentNotFound
	}
	var row contentRow
	if err := repo.db.Get(&row, `SELECT `+contentCols+` FROM learning_content WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return learning.Content{}, learning.ErrContentNotFound
		}
		return learning.Content{}, errors.Wrap(err, "finding learning content by ID")
	}
	return row.toContent(), nil
}

func (repo *learningRepository) IncrementContentViews(id string) error {
	res, err := repo.db.Exec(`UPDATE learning_content SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "incrementing content views")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return learning.ErrContentNotFound
	}
	return nil
}

func (repo *learningRepository) CreateResource(r learning.Resource) (learning.Resource, error) {
	r.ID = uuid.New().String()
	_, err := repo.db.Exec(`
		INSERT INTO learning_resource (`+resourceCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.Title, r.Topic, joinList(r.Tags), r.Type, r.URL, r.SkillLevel, r.CreatedAt.UTC())
	if err != nil {
		return learning.Resource{}, errors.Wrap(err, "inserting learning resource")
	}
	return r, nil
}

func (repo *learningRepository) FilterResources(filter learning.ResourceFilter) ([]learning.Resource, error) {
	query := `SELECT ` + resourceCols + ` FROM learning_resource`
	var where []string
	var args []interface{}

	if filter.Topic != "" {
		args = append(args, "%"+filter.Topic+"%")
		where = append(where, fmt.Sprintf("topic ILIKE $%d", len(args)))
	}
	if filter.SkillLevel != "" {
		args = append(args, filter.SkillLevel)
		where = append(where, fmt.Sprintf("skill_level = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + joinWhere(where)
	}
	query += " ORDER BY created_at DESC"

	var rows []resourceRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering learning resources")
	}
	resources := make([]learning.Resource, 0, len(rows))
	for _, row := range rows {
		resources = append(resources, row.toResource())
	}
	return resources, nil
}

func (repo *learningRepository) CreateProgress(p learning.Progress) (learning.Progress, error) {
	p.ID = uuid.New().String()
	_, err := repo.db.Exec(`
		INSERT INTO learning_progress (id, user_id, content_id, viewed_at)
		VALUES ($1, $2, $3, $4)`,
		p.ID, p.UserID, p.ContentID, p.ViewedAt.UTC())
	if err != nil {
		return learning.Progress{}, errors.Wrap(err, "inserting learning progress")
	}
	return p, nil
}

func (repo *learningRepository) CountProgressSince(userID string, since time.Time) (int, error) {
	var cnt int
	err := repo.db.Get(&cnt, `SELECT COUNT(*) FROM learning_progress WHERE user_id = $1 AND viewed_at >= $2`, userID, since.UTC())
	if err != nil {
		return 0, errors.Wrap(err, "counting learning progress")
	}
	return cnt, nil
}

func (repo *learningRepository) QueryProgressSince(userID string, since time.Time) ([]learning.Progress, error) {
	var rows []progressRow
	err := repo.db.Select(&rows, `
		SELECT id, user_id, content_id, viewed_at FROM learning_progress
		WHERE user_id = $1 AND viewed_at >= $2
		ORDER BY viewed_at DESC`,
		userID, since.UTC())
	if err != nil {
		return nil, errors.Wrap(err, "querying learning progress")
	}
	progress := make([]learning.Progress, 0, len(rows))
	for _, row := range rows {
		progress = append(progress, learning.Progress(row))
	}
	return progress, nil
}

func (repo *learningRepository) CreateRoadmap(rm learning.Roadmap) (learning.Roadmap, error) {
	rm.ID = uuid.New().String()
	stages, err := json.Marshal(rm.Stages)
	if err != nil {
		return learning.Roadmap{}, errors.Wrap(err, "marshalling roadmap stages")
	}
	progress, err := json.Marshal(rm.Progress)
	if err != nil {
		return learning.Roadmap{}, errors.Wrap(err, "marshalling roadmap progress")
	}

	_, err = repo.db.Exec(`
		INSERT INTO learning_roadmap (id, user_id, career_goal, time_commitment, current_level, stages, progress, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rm.ID, rm.UserID, rm.CareerGoal, rm.TimeCommitment, rm.CurrentLevel, stages, progress, rm.CreatedAt.UTC())
	if err != nil {
		return learning.Roadmap{}, errors.Wrap(err, "inserting learning roadmap")
	}
	return rm, nil
}
