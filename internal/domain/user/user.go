package user

import "team_achievements/internal/domain"

type User struct {
	Username  string           `json:"username"`
	CreatedAt domain.Timestamp `json:"created_at"`
}

type LoginRequest struct {
	Username string `json:"username"`
}

type LoginResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type UsersResponse struct {
	Users []User `json:"users"`
}

type DeleteUserResponse struct {
	Message     string `json:"message"`
	DeletedUser string `json:"deleted_user"`
}
