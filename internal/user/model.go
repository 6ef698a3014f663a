package user

import "time"

type User struct {
	ID        int64
	Username  string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RegisterInput struct {
	Username        string `form:"username" validate:"required,min=3,max=150"`
	Password        string `form:"password1" validate:"required,min=8,max=72"`
	PasswordConfirm string `form:"password2" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}
