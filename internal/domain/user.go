package domain

type User struct {
	ID    string `db:"id"`
	Login string `db:"login"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
}
