package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, corporateID, id string) (Employee, error)
	List(ctx context.Context, corporateID string, filter Filter) ([]Employee, error)
	ListCorporateIDs(ctx context.Context) ([]string, error)
}
