package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, user *entities.User) (uint64, error)
	UpdateUser(ctx context.Context, user *entities.User) error
	SetStatus(ctx context.Context, id uint64, status string) error
	DeleteUser(ctx context.Context, id uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

const userFields = "id, email, fio, password_hash, role, status, permissions, created_at, updated_at"

// Карта прав хранится в JSONB и валидируется при чтении: кривое
// содержимое колонки — ошибка, а не тихий пустой набор прав.
func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	var permsJSON []byte

	err := row.Scan(
		&user.ID, &user.Email, &user.Fio, &user.PasswordHash,
		&user.Role, &user.Status, &permsJSON,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if len(permsJSON) > 0 {
		var raw map[string]map[string]bool
		if err := json.Unmarshal(permsJSON, &raw); err != nil {
			return nil, fmt.Errorf("разбор карты прав пользователя %d: %w", user.ID, err)
		}
		perms, err := authz.ParsePermissionSet(raw)
		if err != nil {
			return nil, fmt.Errorf("валидация карты прав пользователя %d: %w", user.ID, err)
		}
		user.Permissions = perms
	}

	return &user, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().From("users")
	if role, ok := filter.Filter["role"].(string); ok && role != "" {
		base = base.Where(sq.Eq{"role": role})
	}
	if status, ok := filter.Filter["status"].(string); ok && status != "" {
		base = base.Where(sq.Eq{"status": status})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{sq.ILike{"email": pattern}, sq.ILike{"fio": pattern}})
	}

	countQuery, countArgs, err := base.Columns("COUNT(id)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	query, args, err := base.Columns(userFields).
		OrderBy("id").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []entities.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userFields)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userFields)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) (uint64, error) {
	permsJSON, err := json.Marshal(user.Permissions)
	if err != nil {
		return 0, fmt.Errorf("сериализация карты прав: %w", err)
	}

	var id uint64
	err = r.storage.QueryRow(ctx, `
        INSERT INTO users (email, fio, password_hash, role, status, permissions)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, user.Email, user.Fio, user.PasswordHash, user.Role, user.Status, permsJSON).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	permsJSON, err := json.Marshal(user.Permissions)
	if err != nil {
		return fmt.Errorf("сериализация карты прав: %w", err)
	}

	result, err := r.storage.Exec(ctx, `
        UPDATE users
        SET email = $1, fio = $2, password_hash = $3, role = $4, permissions = $5, updated_at = CURRENT_TIMESTAMP
        WHERE id = $6
    `, user.Email, user.Fio, user.PasswordHash, user.Role, permsJSON, user.ID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetStatus(ctx context.Context, id uint64, status string) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE users SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
