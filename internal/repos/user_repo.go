package repos

import (
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, name, email, password_hash, role, created_at`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(u domain.User) error {
	_, err := r.DB.Exec(`
	  INSERT INTO users(id, name, email, password_hash, role)
	  VALUES(?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Email, u.Hash, u.Role)
	return err
}
