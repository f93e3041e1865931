package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/notes/api/internal/database"
	"github.com/forgo/notes/api/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	roles := user.Roles
	if len(roles) == 0 {
		roles = model.DefaultRoles()
	}

	query := `
		CREATE user CONTENT {
			username: $username,
			username_lower: string::lowercase($username),
			password: $password,
			roles: $roles,
			active: true,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"username": user.Username,
		"password": user.Password,
		"roles":    rolesToStrings(roles),
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: username already exists", database.ErrDuplicate)
		}
		return err
	}

	rec, err := lastRecord(results)
	if err != nil {
		return err
	}
	created := parseUser(rec)

	user.ID = created.ID
	user.Roles = created.Roles
	user.Active = created.Active
	user.CreatedOn = created.CreatedOn
	user.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a user by ID. A missing user, or an id outside the user
// table, is reported as (nil, nil).
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	rid, ok := recordID("user", id)
	if !ok {
		return nil, nil
	}
	query := `SELECT * FROM $id`
	vars := map[string]interface{}{"id": rid}

	return r.getOne(ctx, query, vars)
}

// GetByUsername retrieves a user by username, ignoring case
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT * FROM user WHERE username_lower = string::lowercase($username) LIMIT 1`
	vars := map[string]interface{}{"username": username}

	return r.getOne(ctx, query, vars)
}

// GetByIDs retrieves every user whose id is in ids with a single query.
// Ids that do not resolve are simply absent from the result.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	rids := recordIDs("user", ids)
	if len(rids) == 0 {
		return []*model.User{}, nil
	}

	query := `SELECT * FROM user WHERE id IN $ids`
	vars := map[string]interface{}{"ids": rids}

	return r.getMany(ctx, query, vars)
}

// List retrieves all users ordered by username
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	return r.getMany(ctx, `SELECT * FROM user ORDER BY username_lower`, nil)
}

// Update updates a user's username, roles and active flag, and the password
// hash when one is set on the model
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	rid, ok := recordID("user", user.ID)
	if !ok {
		return database.ErrNotFound
	}
	query := `
		UPDATE $id SET
			username = $username,
			username_lower = string::lowercase($username),
			roles = $roles,
			active = $active,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":       rid,
		"username": user.Username,
		"roles":    rolesToStrings(user.Roles),
		"active":   user.Active,
	}
	if user.Password != "" {
		query = `
			UPDATE $id SET
				username = $username,
				username_lower = string::lowercase($username),
				roles = $roles,
				active = $active,
				password = $password,
				updated_on = time::now()
		`
		vars["password"] = user.Password
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: username already exists", database.ErrDuplicate)
		}
		return err
	}
	return nil
}

// Delete deletes a user
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	rid, ok := recordID("user", id)
	if !ok {
		return database.ErrNotFound
	}
	query := `DELETE $id`
	vars := map[string]interface{}{"id": rid}

	return r.db.Execute(ctx, query, vars)
}

func (r *UserRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseUser(data), nil
}

func (r *UserRepository) getMany(ctx context.Context, query string, vars map[string]interface{}) ([]*model.User, error) {
	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := extractQueryResults(results)
	users := make([]*model.User, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			users = append(users, parseUser(data))
		}
	}
	return users, nil
}

func parseUser(data map[string]interface{}) *model.User {
	user := &model.User{
		ID:        convertSurrealID(data["id"]),
		Username:  getString(data, "username"),
		Password:  getString(data, "password"),
		Active:    getBool(data, "active"),
		CreatedOn: parseTime(data["created_on"]),
		UpdatedOn: parseTime(data["updated_on"]),
	}
	for _, r := range getStringSlice(data, "roles") {
		user.Roles = append(user.Roles, model.Role(r))
	}
	return user
}

func rolesToStrings(roles []model.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
