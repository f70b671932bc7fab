package auth

type RegisterRequest struct {
	Username        string `json:"username" form:"username" binding:"required,max=150"`
	Email           string `json:"email" form:"email" binding:"required,email,max=254"`
	FirstName       string `json:"first_name" form:"first_name" binding:"required,max=150"`
	LastName        string `json:"last_name" form:"last_name" binding:"required,max=150"`
	Password        string `json:"password" form:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" binding:"required,eqfield=Password"`
	Role            string `json:"role" form:"role" binding:"omitempty,oneof=employer employee"`
	Department      string `json:"department" form:"department" binding:"max=100"`
	Position        string `json:"position" form:"position" binding:"max=100"`
	HireDate        string `json:"hire_date" form:"hire_date"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type AuthResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	EmployeeID     string `json:"employee_id,omitempty"`
	EmployeeNumber string `json:"employee_number,omitempty"`
	Role           string `json:"role,omitempty"`
}

type LoginResult struct {
	AccessToken string       `json:"access_token"`
	User        AuthResponse `json:"user"`
}
