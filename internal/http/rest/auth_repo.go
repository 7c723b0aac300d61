package rest

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/hazardhub/hazardhub_api/internal/model"
	"github.com/hazardhub/hazardhub_api/util"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, name, email, password_hash, auth_provider, role, created_at, updated_at`

func (api *API) CreateUserRepo(ctx context.Context, user model.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, auth_provider, role)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := api.DB.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.AuthProvider, user.Role)
	if err != nil {
		return errors.Wrap(err, "inserting user")
	}
	return nil
}

func (api *API) GetUserByEmailRepo(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return api.scanUser(api.DB.QueryRow(ctx, query, email))
}

func (api *API) GetUserByID(ctx context.Context, id string) (model.User, error) {
	userID, err := util.StringToUUID(id)
	if err != nil {
		return model.User{}, ErrUserNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return api.scanUser(api.DB.QueryRow(ctx, query, userID))
}

func (api *API) scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.AuthProvider, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, errors.Wrap(err, "scanning user")
	}
	return user, nil
}
