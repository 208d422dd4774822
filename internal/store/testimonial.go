package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/weanovas/agency-api/types"
)

var testimonialSortKeys = map[string]string{
	"newest": "created_at DESC",
	"oldest": "created_at ASC",
	"author": "author ASC",
	"rating": "rating DESC",
}

// TestimonialRepository handles persistence for testimonials.
type TestimonialRepository struct {
	db *sql.DB
}

func NewTestimonialRepository(db *sql.DB) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

func (r *TestimonialRepository) List(ctx context.Context, filter ListFilter) ([]types.Testimonial, int, error) {
	where, args := whereClause(filter)

	countQuery := "SELECT COUNT(1) FROM testimonials" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`
		SELECT id, quote, author, role, company, avatar, avatar_key, rating, featured, status, display_order, created_at, updated_at
		FROM testimonials%s
		ORDER BY %s
		OFFSET $%d LIMIT $%d`,
		where, orderBy(testimonialSortKeys, filter.Sort), len(args)+1, len(args)+2)
	args = append(args, filter.Offset, filter.Limit)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	testimonials := make([]types.Testimonial, 0, filter.Limit)
	for rows.Next() {
		testimonial, err := scanTestimonial(rows)
		if err != nil {
			return nil, 0, err
		}
		testimonials = append(testimonials, testimonial)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return testimonials, total, nil
}

func (r *TestimonialRepository) Get(ctx context.Context, id int, status string) (types.Testimonial, error) {
	query := `
		SELECT id, quote, author, role, company, avatar, avatar_key, rating, featured, status, display_order, created_at, updated_at
		FROM testimonials
		WHERE id = $1`
	args := []any{id}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}

	testimonial, err := scanTestimonial(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Testimonial{}, ErrNotFound
		}
		return types.Testimonial{}, err
	}
	return testimonial, nil
}

func (r *TestimonialRepository) Create(ctx context.Context, testimonial types.Testimonial) (types.Testimonial, error) {
	now := time.Now()
	testimonial.CreatedAt = now
	testimonial.UpdatedAt = now

	const query = `
		INSERT INTO testimonials (quote, author, role, company, avatar, avatar_key, rating, featured, status, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		testimonial.Quote,
		testimonial.Author,
		testimonial.Role,
		testimonial.Company,
		testimonial.Avatar,
		testimonial.AvatarKey,
		testimonial.Rating,
		testimonial.Featured,
		testimonial.Status,
		testimonial.Order,
		testimonial.CreatedAt,
		testimonial.UpdatedAt,
	).Scan(&testimonial.ID); err != nil {
		return types.Testimonial{}, err
	}
	return testimonial, nil
}

func (r *TestimonialRepository) Update(ctx context.Context, testimonial types.Testimonial) (types.Testimonial, error) {
	testimonial.UpdatedAt = time.Now()

	const query = `
		UPDATE testimonials
		SET quote = $1,
			author = $2,
			role = $3,
			company = $4,
			avatar = $5,
			avatar_key = $6,
			rating = $7,
			featured = $8,
			status = $9,
			display_order = $10,
			updated_at = $11
		WHERE id = $12`
	result, err := r.db.ExecContext(
		ctx,
		query,
		testimonial.Quote,
		testimonial.Author,
		testimonial.Role,
		testimonial.Company,
		testimonial.Avatar,
		testimonial.AvatarKey,
		testimonial.Rating,
		testimonial.Featured,
		testimonial.Status,
		testimonial.Order,
		testimonial.UpdatedAt,
		testimonial.ID,
	)
	if err != nil {
		return types.Testimonial{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Testimonial{}, err
	}
	if affected == 0 {
		return types.Testimonial{}, ErrNotFound
	}
	return testimonial, nil
}

func (r *TestimonialRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM testimonials WHERE id = $1`
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

// SetOrder updates the display position of a single testimonial.
func (r *TestimonialRepository) SetOrder(ctx context.Context, id, order int) error {
	const query = `UPDATE testimonials SET display_order = $1, updated_at = $2 WHERE id = $3`
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

func scanTestimonial(row rowScanner) (types.Testimonial, error) {
	var testimonial types.Testimonial
	if err := row.Scan(
		&testimonial.ID,
		&testimonial.Quote,
		&testimonial.Author,
		&testimonial.Role,
		&testimonial.Company,
		&testimonial.Avatar,
		&testimonial.AvatarKey,
		&testimonial.Rating,
		&testimonial.Featured,
		&testimonial.Status,
		&testimonial.Order,
		&testimonial.CreatedAt,
		&testimonial.UpdatedAt,
	); err != nil {
		return types.Testimonial{}, err
	}
	return testimonial, nil
}
