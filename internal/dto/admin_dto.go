package dto

type FirstAdminRequest struct {
	Email               string `json:"email"`
	Password            string `json:"password"`
	AdminCreationSecret string `json:"admin_creation_secret"`
}

type AdminInviteRequest struct {
	Email               string `json:"email"`
	AdminCreationSecret string `json:"admin_creation_secret"`
}

type AcceptInviteRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
