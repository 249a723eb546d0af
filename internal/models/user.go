package models

import "time"

// User is the full users row. PasswordHash never leaves the credential layer.
type User struct {
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Phone        string    `db:"phone" json:"phone"`
	JoinAt       time.Time `db:"join_at" json:"join_at"`
	LastLoginAt  time.Time `db:"last_login_at" json:"last_login_at"`
}

// UserDetail is the public projection of a single user.
type UserDetail struct {
	Username    string    `db:"username" json:"username"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Phone       string    `db:"phone" json:"phone"`
	JoinAt      time.Time `db:"join_at" json:"join_at"`
	LastLoginAt time.Time `db:"last_login_at" json:"last_login_at"`
}

// UserSummary is the basic info embedded in listings and message details.
type UserSummary struct {
	Username  string `db:"username" json:"username"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Phone     string `db:"phone" json:"phone"`
}

// LoginStamp is returned after a successful last_login_at update.
type LoginStamp struct {
	Username    string    `db:"username" json:"username"`
	LastLoginAt time.Time `db:"last_login_at" json:"last_login_at"`
}

// RegisterInput carries the fields accepted on registration.
type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}
