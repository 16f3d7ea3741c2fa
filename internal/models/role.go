package models

// Role is the closed set of account roles.
type Role string

const (
	RoleMainAdmin  Role = "MAIN_ADMIN"
	RoleStallAdmin Role = "STALL_ADMIN"
	RoleCustomer   Role = "CUSTOMER"
	RoleCourier    Role = "COURIER"
	RoleFarmer     Role = "FARMER"
	RoleRetailer   Role = "RETAILER"
)

// AllRoles lists every valid role in declaration order.
var AllRoles = []Role{
	RoleMainAdmin,
	RoleStallAdmin,
	RoleCustomer,
	RoleCourier,
	RoleFarmer,
	RoleRetailer,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// CanLoginUnverified reports whether accounts with this role may log in
// before their email address is verified.
func (r Role) CanLoginUnverified() bool {
	return r == RoleMainAdmin || r == RoleStallAdmin
}
