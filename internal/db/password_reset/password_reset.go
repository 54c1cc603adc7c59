package passwordreset

import (
	e "aiexchange/internal/core/domain/errors"
	passwordreset "aiexchange/internal/core/domain/password_reset"
	"aiexchange/internal/core/domain/user"
	"aiexchange/internal/db"
	"context"
	"errors"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const resetRequestColumns = `id, user_id, code, issued_at, expires_at, used`

type PgxResetRequestRepository struct {
	db db.DBTX
}

func NewPgxResetRequestRepository(dbtx db.DBTX) *PgxResetRequestRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxResetRequestRepository{db: dbtx}
}

func (r *PgxResetRequestRepository) Create(
	ctx context.Context,
	input passwordreset.CreateResetRequestInput,
) (passwordreset.ResetRequest, error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO password_reset_request (id, user_id, code, issued_at, expires_at, used)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING `+resetRequestColumns,
		encodeID(input.ID),
		int64(input.UserID),
		string(input.Code),
		input.IssuedAt,
		input.ExpiresAt,
	)
	return scanResetRequest(row)
}

func (r *PgxResetRequestRepository) FindByUserAndCode(
	ctx context.Context,
	userID user.ID,
	code passwordreset.Code,
	now time.Time,
) (passwordreset.ResetRequest, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+resetRequestColumns+`
		FROM password_reset_request
		WHERE user_id = $1 AND code = $2
		ORDER BY (NOT used AND expires_at > $3) DESC, issued_at DESC
		LIMIT 1`,
		int64(userID),
		string(code),
		now,
	)
	req, err := scanResetRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return req, passwordreset.ErrCodeNotFound
	}
	return req, err
}

func (r *PgxResetRequestRepository) MarkUsed(ctx context.Context, id passwordreset.ID) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE password_reset_request SET used = TRUE WHERE id = $1 AND NOT used`,
		encodeID(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var used bool
	err = r.db.QueryRow(ctx, `SELECT used FROM password_reset_request WHERE id = $1`, encodeID(id)).Scan(&used)
	if errors.Is(err, pgx.ErrNoRows) {
		return passwordreset.ErrCodeNotFound
	}
	if err != nil {
		return err
	}
	return passwordreset.ErrCodeAlreadyUsed
}

func (r *PgxResetRequestRepository) PurgeStale(ctx context.Context, input passwordreset.PurgeInput) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM password_reset_request
		WHERE issued_at < $2 AND (used OR expires_at <= $1)`,
		input.Now,
		input.IssuedBefore,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func encodeID(id passwordreset.ID) pgtype.UUID {
	return pgtype.UUID{Bytes: [16]byte(id), Status: pgtype.Present}
}

func scanResetRequest(row pgx.Row) (req passwordreset.ResetRequest, err error) {
	var (
		id     pgtype.UUID
		userID int64
		code   string
	)
	err = row.Scan(&id, &userID, &code, &req.IssuedAt, &req.ExpiresAt, &req.Used)
	if err != nil {
		return passwordreset.ResetRequest{}, err
	}
	req.ID = passwordreset.ID(id.Bytes)
	req.UserID = user.ID(userID)
	req.Code = passwordreset.Code(code)
	return req, nil
}
