package employee

type UpdateProfileRequest struct {
	FirstName  string `json:"first_name" form:"first_name" binding:"required,max=150"`
	LastName   string `json:"last_name" form:"last_name" binding:"required,max=150"`
	Email      string `json:"email" form:"email" binding:"required,email,max=254"`
	Department string `json:"department" form:"department" binding:"max=100"`
	Position   string `json:"position" form:"position" binding:"max=100"`
}

type ProfileResponse struct {
	EmployeeID     string `json:"employee_id"`
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	EmployeeNumber string `json:"employee_number"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Department     string `json:"department"`
	Position       string `json:"position"`
	HireDate       string `json:"hire_date,omitempty"`
	IsEmployer     bool   `json:"is_employer"`
	Role           string `json:"role"`
}
