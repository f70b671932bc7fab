package leave

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type" form:"leave_type" binding:"omitempty,oneof=annual sick personal maternity emergency"`
	StartDate string `json:"start_date" form:"start_date" binding:"required"`
	EndDate   string `json:"end_date" form:"end_date" binding:"required"`
	Reason    string `json:"reason" form:"reason" binding:"required,max=2000"`
}

// ListFilter narrows the employer list. Empty fields do not filter.
type ListFilter struct {
	Status     string `json:"status"`
	Department string `json:"department"`
	Search     string `json:"search"`
	Page       int    `json:"page"`
}

type LeaveResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeNumber string  `json:"employee_number,omitempty"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	Department     string  `json:"department,omitempty"`
	LeaveType      string  `json:"leave_type"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	DurationDays   int     `json:"duration_days"`
	Reason         string  `json:"reason"`
	Status         string  `json:"status"`
	ApproverID     *string `json:"approver_id,omitempty"`
	ApproverName   *string `json:"approver_name,omitempty"`
	DecidedAt      *string `json:"decided_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// Stats are the dashboard counters.
type Stats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type EmployeeDashboardResponse struct {
	EmployeeNumber string          `json:"employee_number"`
	FullName       string          `json:"full_name"`
	Department     string          `json:"department"`
	Position       string          `json:"position"`
	Stats          Stats           `json:"stats"`
	Requests       []LeaveResponse `json:"requests"`
	LeaveTypes     []string        `json:"leave_types"`
}

type EmployerDashboardResponse struct {
	Stats  Stats           `json:"stats"`
	Recent []LeaveResponse `json:"recent_requests"`
}

type ListResponse struct {
	Items       []LeaveResponse `json:"items"`
	Stats       Stats           `json:"stats"`
	Filter      ListFilter      `json:"filter"`
	Departments []string        `json:"departments"`
	Statuses    []string        `json:"statuses"`
}
