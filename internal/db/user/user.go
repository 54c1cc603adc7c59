package user

import (
	c "aiexchange/internal/core/domain/common"
	e "aiexchange/internal/core/domain/errors"
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/db"
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const EMAIL_CONSTRAINT_NAME = "user_email_idx"

const userColumns = `id, email, password_hash, full_name, role, is_active, is_approved, created_at`

type PgxUserRepository struct {
	db db.DBTX
}

func NewPgxRepository(dbtx db.DBTX) *PgxUserRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: dbtx}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO "user" (email, password_hash, full_name, role, is_active, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		string(c.NewEmail(string(input.Email))),
		string(input.PasswordHash),
		input.FullName,
		string(input.Role),
		input.IsActive,
		input.IsApproved,
		input.CreatedAt,
	)
	u, err = scanUser(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgErr.Code == db.PG_UNIQUE_CONSTRAINT_ERR_CODE &&
		pgErr.ConstraintName == EMAIL_CONSTRAINT_NAME {
		return u, user.ErrEmailAlreadyExists
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, int64(id))
	return r.get(row)
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE email = $1`,
		string(c.NewEmail(string(email))),
	)
	return r.get(row)
}

func (r *PgxUserRepository) SetPassword(ctx context.Context, id user.ID, password user.PasswordHash) error {
	tag, err := r.db.Exec(ctx, `UPDATE "user" SET password_hash = $2 WHERE id = $1`, int64(id), string(password))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) get(row pgx.Row) (u user.User, err error) {
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id           int64
		email        string
		passwordHash string
		role         string
	)
	err = row.Scan(&id, &email, &passwordHash, &u.FullName, &role, &u.IsActive, &u.IsApproved, &u.CreatedAt)
	if err != nil {
		return user.User{}, err
	}
	u.ID = user.ID(id)
	u.Email = c.Email(email)
	u.PasswordHash = user.PasswordHash(passwordHash)
	u.Role = user.Role(role)
	return u, nil
}
