package user

type CreateUserRequest struct {
	ID       string   `json:"id" binding:"required" validate:"required"`
	Name     string   `json:"name" binding:"required" validate:"required"`
	Last     string   `json:"last" binding:"required" validate:"required"`
	Email    string   `json:"email" binding:"required" validate:"required"`
	Password string   `json:"password" binding:"required" validate:"required"`
	Roles    []string `json:"roles" binding:"required" validate:"required"`
}

type RegisterRequest struct {
	ID       string `json:"id" binding:"required" validate:"required"`
	Name     string `json:"name" binding:"required" validate:"required"`
	Last     string `json:"last" binding:"required" validate:"required"`
	Email    string `json:"email" binding:"required" validate:"required"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Last  *string `json:"last"`
	Email *string `json:"email"`
}

type UpdateRolesRequest struct {
	Roles []string `json:"roles"`
}
