package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/models"
	sq "github.com/Masterminds/squirrel"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	*DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		DB:     db,
		logger: logger,
	}
}

func scanUser(row sq.RowScanner) (models.User, error) {
	var (
		user  models.User
		role  string
		token sql.NullString
	)

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Photo,
		&role,
		&user.PasswordHash,
		&user.PasswordChangedAt,
		&token,
		&user.PasswordResetExpires,
		&user.Active,
		&user.CreatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	user.Role = models.Role(role)
	if token.Valid {
		user.PasswordResetToken = &token.String
	}

	return user, nil
}

func (r *userRepository) activeUsers() sq.SelectBuilder {
	return psql.Select(userColumns...).From(usersTable).Where(sq.Eq{"active": true})
}

// queryOne runs a single-row query and maps sql.ErrNoRows onto ErrNotFound.
func (r *userRepository) queryOne(ctx context.Context, funcName string, builder sq.Sqlizer, field, value string) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to build query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		log.Err(err).Str("func", funcName).Msg("failed to query user")
		return models.User{}, classifyPostgresError(err, field, value)
	}

	return user, nil
}

// Create inserts user, returning the stored row.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [*DuplicateError] naming the email.
func (r *userRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	builder := psql.Insert(usersTable).
		Columns("id", "name", "email", "photo", "role", "password_hash", "password_changed_at", "active").
		Values(user.ID, user.Name, user.Email, user.Photo, string(user.Role), user.PasswordHash, user.PasswordChangedAt, true).
		Suffix("RETURNING " + joinColumns(userColumns))

	return r.queryOne(ctx, "userRepository.Create", builder, "email", user.Email)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	if err := checkID(id); err != nil {
		return models.User{}, err
	}

	return r.queryOne(ctx, "userRepository.FindByID", r.activeUsers().Where(sq.Eq{"id": id}), "id", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.queryOne(ctx, "userRepository.FindByEmail", r.activeUsers().Where(sq.Eq{"email": email}), "email", email)
}

func (r *userRepository) FindByResetToken(ctx context.Context, hashedToken string, now time.Time) (models.User, error) {
	builder := r.activeUsers().Where(sq.And{
		sq.Eq{"password_reset_token": hashedToken},
		sq.Gt{"password_reset_expires": now},
	})

	return r.queryOne(ctx, "userRepository.FindByResetToken", builder, "token", hashedToken)
}

// List returns active users narrowed by features, newest first by default.
func (r *userRepository) List(ctx context.Context, features models.QueryFeatures) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := ApplyQueryFeatures(r.activeUsers(), features, userFilterColumns, "created_at DESC", "id").ToSql()
	if err != nil {
		log.Err(err).Str("func", "userRepository.List").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "userRepository.List").Msg("failed to execute query for listing users")
		return nil, classifyPostgresError(fmt.Errorf("%w: %w", ErrExecutingQuery, err), "query", describeFilters(features))
	}
	defer rows.Close()

	users := make([]models.User, 0, features.Limit)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "userRepository.List").Msg("failed to scan user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "userRepository.List").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

// Update applies the non-nil fields of update.
func (r *userRepository) Update(ctx context.Context, id string, update models.UserUpdate) (models.User, error) {
	if err := checkID(id); err != nil {
		return models.User{}, err
	}

	set := make(map[string]any, 5)
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Photo != nil {
		set["photo"] = *update.Photo
	}
	if update.Role != nil {
		set["role"] = string(*update.Role)
	}
	if update.Active != nil {
		set["active"] = *update.Active
	}
	if len(set) == 0 {
		return models.User{}, ErrNothingToUpdate
	}

	builder := psql.Update(usersTable).
		SetMap(set).
		Where(sq.Eq{"id": id, "active": true}).
		Suffix("RETURNING " + joinColumns(userColumns))

	value := id
	if update.Email != nil {
		value = *update.Email
	}
	return r.queryOne(ctx, "userRepository.Update", builder, "email", value)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) (models.User, error) {
	if err := checkID(id); err != nil {
		return models.User{}, err
	}

	builder := psql.Update(usersTable).
		Set("password_hash", passwordHash).
		Set("password_changed_at", changedAt).
		Set("password_reset_token", nil).
		Set("password_reset_expires", nil).
		Where(sq.Eq{"id": id, "active": true}).
		Suffix("RETURNING " + joinColumns(userColumns))

	return r.queryOne(ctx, "userRepository.UpdatePassword", builder, "id", id)
}

func (r *userRepository) SetResetToken(ctx context.Context, id, hashedToken string, expires time.Time) error {
	builder := psql.Update(usersTable).
		Set("password_reset_token", hashedToken).
		Set("password_reset_expires", expires).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, "userRepository.SetResetToken", builder, id)
}

func (r *userRepository) ClearResetToken(ctx context.Context, id string) error {
	builder := psql.Update(usersTable).
		Set("password_reset_token", nil).
		Set("password_reset_expires", nil).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, "userRepository.ClearResetToken", builder, id)
}

// Deactivate hides the account from every read without deleting it.
func (r *userRepository) Deactivate(ctx context.Context, id string) error {
	builder := psql.Update(usersTable).
		Set("active", false).
		Where(sq.Eq{"id": id})

	return r.exec(ctx, "userRepository.Deactivate", builder, id)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "userRepository.Delete", psql.Delete(usersTable).Where(sq.Eq{"id": id}), id)
}

func (r *userRepository) exec(ctx context.Context, funcName string, builder sq.Sqlizer, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	return execAffectingOne(ctx, r.DB, funcName, builder)
}
