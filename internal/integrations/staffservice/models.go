package staffservice

// StaffMember модель сотрудника из StaffService
type StaffMember struct {
	ID        int64   `json:"id"`
	FullName  string  `json:"full_name"`
	BranchIDs []int64 `json:"branch_ids"`
	Role      string  `json:"role"`
	Active    bool    `json:"active"`
}

// WorksAtBranch возвращает true, если сотрудник закреплен за филиалом
func (s *StaffMember) WorksAtBranch(branchID int64) bool {
	for _, id := range s.BranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}

// ErrorResponse модель ошибки от StaffService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
