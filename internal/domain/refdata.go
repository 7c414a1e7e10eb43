package domain

// Branch is a service location with an ordered list of counters
type Branch struct {
	ID       int64
	Name     string
	Code     string
	Address  string
	Counters []Counter
}

// Counter is a service point within a branch, permanently bound to one
// insurance type
type Counter struct {
	ID              int64
	BranchID        int64
	Name            string
	InsuranceTypeID int64
	Active          bool
}

// InsuranceType is a category of insurance service offered at counters
type InsuranceType struct {
	ID          int64
	Name        string
	Description string
}
