package middleware

import "pasar/internal/models"

// Operation ids guarded by the Policy.
const (
	OpUsersMe             = "users.me"
	OpUsersUpdateProfile  = "users.update_profile"
	OpUsersCreate         = "users.create"
	OpUsersList           = "users.list"
	OpUsersGet            = "users.get"
	OpUsersGetByEmail     = "users.get_by_email"
	OpUsersChangeRole     = "users.change_role"
	OpUsersChangePassword = "users.change_password"
	OpUsersDelete         = "users.delete"

	OpStallsCreate = "stalls.create"
	OpStallsList   = "stalls.list"
	OpStallsUpdate = "stalls.update"
	OpStallsDelete = "stalls.delete"

	OpProductsList         = "products.list"
	OpProductsGet          = "products.get"
	OpProductsGetByName    = "products.get_by_name"
	OpProductsCreate       = "products.create"
	OpProductsUpdate       = "products.update"
	OpProductsDelete       = "products.delete"
	OpProductsUpdateStatus = "products.update_status"
)

// Policy maps an operation id to the roles allowed to call it. An empty list
// admits any authenticated caller. It is built at start-up and only read
// afterwards.
type Policy map[string][]models.Role

var (
	anyRole     = []models.Role{}
	adminsOnly  = []models.Role{models.RoleMainAdmin}
	stallAdmins = []models.Role{models.RoleMainAdmin, models.RoleStallAdmin}
	sellers     = []models.Role{models.RoleMainAdmin, models.RoleStallAdmin, models.RoleFarmer, models.RoleRetailer}
)

// DefaultPolicy is the access policy of the marketplace API.
func DefaultPolicy() Policy {
	return Policy{
		OpUsersMe:             anyRole,
		OpUsersUpdateProfile:  anyRole,
		OpUsersCreate:         adminsOnly,
		OpUsersList:           adminsOnly,
		OpUsersGet:            adminsOnly,
		OpUsersGetByEmail:     adminsOnly,
		OpUsersChangeRole:     adminsOnly,
		OpUsersChangePassword: anyRole,
		OpUsersDelete:         adminsOnly,

		OpStallsCreate: stallAdmins,
		OpStallsList:   adminsOnly,
		OpStallsUpdate: stallAdmins,
		OpStallsDelete: stallAdmins,

		OpProductsList:         anyRole,
		OpProductsGet:          anyRole,
		OpProductsGetByName:    anyRole,
		OpProductsCreate:       sellers,
		OpProductsUpdate:       sellers,
		OpProductsDelete:       stallAdmins,
		OpProductsUpdateStatus: adminsOnly,
	}
}
