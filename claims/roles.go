package claims

// Role identifies the portal role embedded in a token. Role values are defined
// by the backend; RoleUsuario deliberately keeps the backend's capitalisation.
type Role string

const (
	RoleAdminGeneral Role = "admin_general"
	RoleAdminCiudad  Role = "admin_ciudad"
	RoleUsuario      Role = "Usuario"
	RoleInvitado     Role = "invitado"
)

// RolePermissions maps each role to the UI-level permissions it grants.
// Like the claims themselves this table is advisory only; the backend enforces
// the real authorization rules on every request.
var RolePermissions = map[Role][]string{
	RoleAdminGeneral: {
		"admin.access",
	},
	RoleAdminCiudad: {
		"admin.users.manage",
	},
	RoleUsuario: {
		"users.read",
	},
	RoleInvitado: {},
}

// HasPermission reports whether the role grants the given permission.
// Unknown roles grant nothing.
func (r Role) HasPermission(permission string) bool {
	for _, p := range RolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}
