package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/weanovas/agency-api/types"
)

// projectSortKeys is the closed set of caller-selectable orderings.
var projectSortKeys = map[string]string{
	"newest": "created_at DESC",
	"oldest": "created_at ASC",
	"title":  "title ASC",
}

// ProjectRepository handles persistence for projects.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) List(ctx context.Context, filter ListFilter) ([]types.Project, int, error) {
	where, args := whereClause(filter)

	countQuery := "SELECT COUNT(1) FROM projects" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`
		SELECT id, title, description, tech, image, image_key, link, featured, status, display_order, created_at, updated_at
		FROM projects%s
		ORDER BY %s
		OFFSET $%d LIMIT $%d`,
		where, orderBy(projectSortKeys, filter.Sort), len(args)+1, len(args)+2)
	args = append(args, filter.Offset, filter.Limit)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	projects := make([]types.Project, 0, filter.Limit)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Get fetches a project by id. A non-empty status narrows the lookup so
// that records outside that status read as absent.
func (r *ProjectRepository) Get(ctx context.Context, id int, status string) (types.Project, error) {
	query := `
		SELECT id, title, description, tech, image, image_key, link, featured, status, display_order, created_at, updated_at
		FROM projects
		WHERE id = $1`
	args := []any{id}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}

	project, err := scanProject(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Project{}, ErrNotFound
		}
		return types.Project{}, err
	}
	return project, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project types.Project) (types.Project, error) {
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	techJSON, err := json.Marshal(project.Tech)
	if err != nil {
		return types.Project{}, err
	}

	const query = `
		INSERT INTO projects (title, description, tech, image, image_key, link, featured, status, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		project.Title,
		project.Description,
		techJSON,
		project.Image,
		project.ImageKey,
		project.Link,
		project.Featured,
		project.Status,
		project.Order,
		project.CreatedAt,
		project.UpdatedAt,
	).Scan(&project.ID); err != nil {
		return types.Project{}, err
	}
	return project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project types.Project) (types.Project, error) {
	project.UpdatedAt = time.Now()

	techJSON, err := json.Marshal(project.Tech)
	if err != nil {
		return types.Project{}, err
	}

	const query = `
		UPDATE projects
		SET title = $1,
			description = $2,
			tech = $3,
			image = $4,
			image_key = $5,
			link = $6,
			featured = $7,
			status = $8,
			display_order = $9,
			updated_at = $10
		WHERE id = $11`
	result, err := r.db.ExecContext(
		ctx,
		query,
		project.Title,
		project.Description,
		techJSON,
		project.Image,
		project.ImageKey,
		project.Link,
		project.Featured,
		project.Status,
		project.Order,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return types.Project{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Project{}, err
	}
	if affected == 0 {
		return types.Project{}, ErrNotFound
	}
	return project, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM projects WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetOrder updates the display position of a single project.
func (r *ProjectRepository) SetOrder(ctx context.Context, id, order int) error {
	const query = `UPDATE projects SET display_order = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, order, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (types.Project, error) {
	var project types.Project
	var techJSON []byte
	if err := row.Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&techJSON,
		&project.Image,
		&project.ImageKey,
		&project.Link,
		&project.Featured,
		&project.Status,
		&project.Order,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		return types.Project{}, err
	}
	_ = json.Unmarshal(techJSON, &project.Tech)
	return project, nil
}
