package domain

import "time"

const (
	RoleManager = "manager"
	RoleSite    = "site"
	RoleWorker  = "worker"
)

// Permissions gate the screens a user may open.
const (
	PermDashboard     = "dashboard"
	PermClock         = "ponto"
	PermReports       = "relatorio"
	PermRegistry      = "cadastro"
	PermSites         = "hospitais"
	PermBiometrics    = "biometria"
	PermAudit         = "auditoria"
	PermManagement    = "gestao"
	PermMirror        = "espelho"
	PermAuthorization = "autorizacao"
)

// AllPermissions lists every permission, used for the bootstrap manager.
var AllPermissions = []string{
	PermDashboard, PermClock, PermReports, PermRegistry, PermSites,
	PermBiometrics, PermAudit, PermManagement, PermMirror, PermAuthorization,
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	WorkerID     string    `json:"worker_id,omitempty" bson:"worker_id,omitempty"`
	SiteID       string    `json:"site_id,omitempty" bson:"site_id,omitempty"`
	Permissions  []string  `json:"permissions" bson:"permissions"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// ValidRole reports whether role is known.
func ValidRole(role string) bool {
	return role == RoleManager || role == RoleSite || role == RoleWorker
}

// Can reports whether the user holds the permission.
func (u *User) Can(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
