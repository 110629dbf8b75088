package sqlxrepos

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ajira/core/user"
)

const userCols = `id, name, email, role, tags, skills, interests, career_goal, points, badges, is_active, password_hash, created_at, updated_at, last_login`

type userRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	Tags         string    `db:"tags"`
	Skills       string    `db:"skills"`
	Interests    string    `db:"interests"`
	CareerGoal   string    `db:"career_goal"`
	Points       int       `db:"points"`
	Badges       string    `db:"badges"`
	IsActive     bool      `db:"is_active"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastLogin    null.Time `db:"last_login"`
}

func (row userRow) toUser() user.User {
	return user.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Role:         row.Role,
		Tags:         splitList(row.Tags),
		Skills:       splitList(row.Skills),
		Interests:    splitList(row.Interests),
		CareerGoal:   row.CareerGoal,
		Points:       row.Points,
		Badges:       splitList(row.Badges),
		IsActive:     row.IsActive,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		LastLogin:    row.LastLogin.Time,
	}
}

func newUserRow(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Email:        usr.Email,
		Role:         usr.Role,
		Tags:         joinList(usr.Tags),
		Skills:       joinList(usr.Skills),
		Interests:    joinList(usr.Interests),
		CareerGoal:   usr.CareerGoal,
		Points:       usr.Points,
		Badges:       joinList(usr.Badges),
		IsActive:     usr.IsActive,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo *userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *userRepository) toUsers(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toUser())
	}
	return users
}

func (repo *userRepository) CheckEmailUniqueness(email string, excludedUsers ...user.User) error {
	query := `SELECT EXISTS (SELECT 1 FROM "user" WHERE email = ?`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		query += ` AND id NOT IN (?)`
		args = append(args, ids)
	}
	query += `)`

	query, inArgs, err := sqlx.In(query, args...)
	if err != nil {
		return errors.Wrap(err, "expanding email uniqueness query")
	}

	var exists bool
	if err := repo.db.Get(&exists, repo.db.Rebind(query), inArgs...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	row := newUserRow(usr)
	_, err := repo.db.NamedExec(`
		INSERT INTO "user" (`+userCols+`)
		VALUES (:id, :name, :email, :role, :tags, :skills, :interests, :career_goal, :points, :badges, :is_active, :password_hash, :created_at, :updated_at, :last_login)`,
		row)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return row.toUser(), nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Select(&rows, `SELECT `+userCols+` FROM "user" ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return repo.toUsers(rows), nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrNotFound
	}
	var row userRow
	if err := repo.db.Get(&row, `SELECT `+userCols+` FROM "user" WHERE id = $1`, id); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by ID")
	}
	return row.toUser(), nil
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	var row userRow
	if err := repo.db.Get(&row, `SELECT `+userCols+` FROM "user" WHERE email = $1`, email); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by email")
	}
	return row.toUser(), nil
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	query := `SELECT ` + userCols + ` FROM "user"`
	var where []string
	var args []interface{}

	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		where = append(where, fmt.Sprintf("(name ILIKE %s OR email ILIKE %s)", arg(val), arg(val)))
	}
	if filter.Role != "" {
		where = append(where, "role = "+arg(filter.Role))
	}
	if filter.IsActive != nil {
		where = append(where, "is_active = "+arg(*filter.IsActive))
	}
	if !filter.CreatedFrom.IsZero() {
		where = append(where, "created_at >= "+arg(filter.CreatedFrom.UTC()))
	}
	if !filter.CreatedTo.IsZero() {
		where = append(where, "created_at <= "+arg(filter.CreatedTo.UTC()))
	}
	if len(where) > 0 {
		query += " WHERE " + joinWhere(where)
	}
	query += " ORDER BY created_at DESC"

	var rows []userRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return repo.toUsers(rows), nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	if isActive != nil {
		usr.IsActive = *isActive
	}
	row := newUserRow(usr)
	res, err := repo.db.NamedExec(`
		UPDATE "user"
		SET name = :name, email = :email, role = :role, tags = :tags, skills = :skills,
			interests = :interests, career_goal = :career_goal, points = :points, badges = :badges,
			is_active = :is_active, password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`,
		row)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return user.User{}, user.ErrNotFound
	}
	return row.toUser(), nil
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "expanding user delete query")
	}
	if _, err := repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
