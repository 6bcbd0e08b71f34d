package repository

import (
	"context"

	"github.com/snackparty/catering-api/internal/domain"
)

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Role   *domain.Role
	Limit  int
	Offset int
}

// ProfilePatch holds the self-editable profile fields.
type ProfilePatch struct {
	FullName *string
	Phone    *string
}

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, patch ProfilePatch) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	List(ctx context.Context, filter UserFilter) ([]domain.User, int64, error)
}

type userRepository struct {
	db Querier
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db Querier) UserRepository {
	return &userRepository{db: db}
}

const userSelect = `
        SELECT id, full_name, email, phone, password_hash, role, created_at
        FROM users`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (full_name, email, phone, password_hash, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		user.FullName,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, userSelect+" WHERE id=$1", id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, userSelect+" WHERE LOWER(email)=LOWER($1)", email))
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, patch ProfilePatch) error {
	var b clauseBuilder
	if patch.FullName != nil {
		b.add("full_name = %s", *patch.FullName)
	}
	if patch.Phone != nil {
		b.add("phone = %s", *patch.Phone)
	}
	if b.empty() {
		return nil
	}
	cmd, err := r.db.Exec(ctx, "UPDATE users SET "+b.set()+" WHERE id = "+b.bind(id), b.args...)
	if err != nil {
		return err
	}
	return requireAffected(cmd)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, id)
	if err != nil {
		return err
	}
	return requireAffected(cmd)
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, int64, error) {
	var countClause clauseBuilder
	if filter.Role != nil {
		countClause.add("role = %s", string(*filter.Role))
	}
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+countClause.where(), countClause.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	var b clauseBuilder
	if filter.Role != nil {
		b.add("role = %s", string(*filter.Role))
	}
	rows, err := r.db.Query(ctx, userSelect+b.where()+" ORDER BY created_at DESC, id DESC"+b.page(filter.Limit, filter.Offset), b.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func scanUser(row scanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
