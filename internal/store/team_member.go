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

var teamMemberSortKeys = map[string]string{
	"newest": "created_at DESC",
	"oldest": "created_at ASC",
	"name":   "name ASC",
	"role":   "role ASC",
	"joined": "joined_year DESC",
}

// TeamMemberRepository handles persistence for team members.
type TeamMemberRepository struct {
	db *sql.DB
}

func NewTeamMemberRepository(db *sql.DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

func (r *TeamMemberRepository) List(ctx context.Context, filter ListFilter) ([]types.TeamMember, int, error) {
	where, args := whereClause(filter)

	countQuery := "SELECT COUNT(1) FROM team_members" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`
		SELECT id, name, role, email, location, joined_year, bio, avatar, avatar_key,
			linkedin, twitter, github, portfolio, skills, status, display_order, created_at, updated_at
		FROM team_members%s
		ORDER BY %s
		OFFSET $%d LIMIT $%d`,
		where, orderBy(teamMemberSortKeys, filter.Sort), len(args)+1, len(args)+2)
	args = append(args, filter.Offset, filter.Limit)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	members := make([]types.TeamMember, 0, filter.Limit)
	for rows.Next() {
		member, err := scanTeamMember(rows)
		if err != nil {
			return nil, 0, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

func (r *TeamMemberRepository) Get(ctx context.Context, id int, status string) (types.TeamMember, error) {
	query := `
		SELECT id, name, role, email, location, joined_year, bio, avatar, avatar_key,
			linkedin, twitter, github, portfolio, skills, status, display_order, created_at, updated_at
		FROM team_members
		WHERE id = $1`
	args := []any{id}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}

	member, err := scanTeamMember(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.TeamMember{}, ErrNotFound
		}
		return types.TeamMember{}, err
	}
	return member, nil
}

func (r *TeamMemberRepository) Create(ctx context.Context, member types.TeamMember) (types.TeamMember, error) {
	now := time.Now()
	member.CreatedAt = now
	member.UpdatedAt = now

	skillsJSON, err := json.Marshal(member.Skills)
	if err != nil {
		return types.TeamMember{}, err
	}

	const query = `
		INSERT INTO team_members (name, role, email, location, joined_year, bio, avatar, avatar_key,
			linkedin, twitter, github, portfolio, skills, status, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		member.Name,
		member.Role,
		member.Email,
		member.Location,
		member.JoinedYear,
		member.Bio,
		member.Avatar,
		member.AvatarKey,
		member.Linkedin,
		member.Twitter,
		member.Github,
		member.Portfolio,
		skillsJSON,
		member.Status,
		member.Order,
		member.CreatedAt,
		member.UpdatedAt,
	).Scan(&member.ID); err != nil {
		return types.TeamMember{}, err
	}
	return member, nil
}

func (r *TeamMemberRepository) Update(ctx context.Context, member types.TeamMember) (types.TeamMember, error) {
	member.UpdatedAt = time.Now()

	skillsJSON, err := json.Marshal(member.Skills)
	if err != nil {
		return types.TeamMember{}, err
	}

	const query = `
		UPDATE team_members
		SET name = $1,
			role = $2,
			email = $3,
			location = $4,
			joined_year = $5,
			bio = $6,
			avatar = $7,
			avatar_key = $8,
			linkedin = $9,
			twitter = $10,
			github = $11,
			portfolio = $12,
			skills = $13,
			status = $14,
			display_order = $15,
			updated_at = $16
		WHERE id = $17`
	result, err := r.db.ExecContext(
		ctx,
		query,
		member.Name,
		member.Role,
		member.Email,
		member.Location,
		member.JoinedYear,
		member.Bio,
		member.Avatar,
		member.AvatarKey,
		member.Linkedin,
		member.Twitter,
		member.Github,
		member.Portfolio,
		skillsJSON,
		member.Status,
		member.Order,
		member.UpdatedAt,
		member.ID,
	)
	if err != nil {
		return types.TeamMember{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.TeamMember{}, err
	}
	if affected == 0 {
		return types.TeamMember{}, ErrNotFound
	}
	return member, nil
}

func (r *TeamMemberRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM team_members WHERE id = $1`
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

// SetOrder updates the display position of a single team member.
func (r *TeamMemberRepository) SetOrder(ctx context.Context, id, order int) error {
	const query = `UPDATE team_members SET display_order = $1, updated_at = $2 WHERE id = $3`
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

func scanTeamMember(row rowScanner) (types.TeamMember, error) {
	var member types.TeamMember
	var skillsJSON []byte
	if err := row.Scan(
		&member.ID,
		&member.Name,
		&member.Role,
		&member.Email,
		&member.Location,
		&member.JoinedYear,
		&member.Bio,
		&member.Avatar,
		&member.AvatarKey,
		&member.Linkedin,
		&member.Twitter,
		&member.Github,
		&member.Portfolio,
		&skillsJSON,
		&member.Status,
		&member.Order,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		return types.TeamMember{}, err
	}
	_ = json.Unmarshal(skillsJSON, &member.Skills)
	return member, nil
}
