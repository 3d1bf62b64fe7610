package user

type Role string

const (
	RoleAdmin     Role = "admin"     // Head Office, may act for any corporate
	RoleCorporate Role = "corporate" // Franchise owner
	RoleManager   Role = "manager"   // Branch or HR manager
	RoleEmployee  Role = "employee"  // Staff member or driver
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCorporate, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// IsAdministrative reports whether r may run payroll and settle partners.
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleCorporate
}
