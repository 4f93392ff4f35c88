package models

// AdminProfile — профиль текущего администратора.
type AdminProfile struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Coins    int64  `json:"coins"`
}

// ProfileUpdate is the self-service update body; Password is sent only when set.
type ProfileUpdate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}
