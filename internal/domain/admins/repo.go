package admins

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/materials-inventory/internal/apperr"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares in constant time; any mismatch is ErrInvalidCredentials.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return apperr.Validation("Usuario y contraseña son obligatorios")
	}
	return nil
}

func (r *Repo) Create(ctx context.Context, username, password string) (*Admin, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	var a Admin
	err = r.pool.QueryRow(ctx, `
		INSERT INTO admins (username, password_hash)
		VALUES ($1,$2)
		RETURNING id, username, password_hash, created_at
	`, strings.TrimSpace(username), hash).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrUsernameTaken
		}
		return nil, apperr.Storage("create admin", err)
	}
	return &a, nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	var a Admin
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM admins WHERE username = $1
	`, strings.TrimSpace(username)).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Storage("get admin", err)
	}
	return &a, nil
}

// Authenticate returns the admin whose credentials match. Unknown users and
// wrong passwords are both ErrInvalidCredentials.
func (r *Repo) Authenticate(ctx context.Context, username, password string) (*Admin, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	a, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrInvalidCredentials
	}
	if err := CheckPassword(a.PasswordHash, password); err != nil {
		return nil, err
	}
	return a, nil
}
