package domain

type User struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Hash      string `db:"password_hash" json:"-"`
	Role      string `db:"role" json:"role"` // user | admin
	CreatedAt string `db:"created_at" json:"createdAt"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
