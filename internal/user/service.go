package user

import (
	"database/sql"
	"errors"

	"todo_api/internal/apperr"
	"todo_api/internal/auth"

	"github.com/sirupsen/logrus"
)

type UserService struct {
	repo UserRepositoryInterface
	db   *sql.DB
}

type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type UserServiceInterface interface {
	CreateUser(username, password string) (int, error)
	LoginUser(username, password, jwtSecret string) (*LoginResult, error)
}

func NewUserService(repo UserRepositoryInterface, db *sql.DB) UserServiceInterface {
	return &UserService{
		repo: repo,
		db:   db,
	}
}

// CreateUser hashes the password and persists a new user. Uniqueness is
// enforced by the store; a duplicate surfaces as apperr.ErrUsernameTaken.
func (s *UserService) CreateUser(username, password string) (int, error) {
	hashedPassword, err := auth.GeneratePasswordHash(password)
	if err != nil {
		logrus.WithError(err).Error("Failed to hash password")
		return 0, err
	}

	user := &User{
		Username: username,
		Password: hashedPassword,
	}

	tx, err := s.db.Begin()
	if err != nil {
		logrus.WithError(err).Error("Failed to begin transaction")
		return 0, err
	}
	defer tx.Rollback()

	id, err := s.repo.Create(tx, user)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		logrus.WithError(err).Error("Failed to commit transaction")
		return 0, err
	}

	return id, nil
}

// LoginUser validates credentials and issues a session token. An unknown
// username and a wrong password produce the same error so callers cannot
// tell which check failed.
func (s *UserService) LoginUser(username, password, jwtSecret string) (*LoginResult, error) {
	user, err := s.repo.GetByUsername(s.db, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.ComparePasswordHash([]byte(user.Password), password); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Username, jwtSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Username: user.Username}, nil
}
