package domain

// Role determines which incident operations and views a caller may use.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// DisplayName is the mock name shown for an identity holding the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "Admin User"
	case RoleStaff:
		return "Staff Member"
	default:
		return "Student User"
	}
}

// Capability names a permission granted by a role.
type Capability string

const (
	CapabilityChangeStatus    Capability = "change_status"
	CapabilityAssign          Capability = "assign"
	CapabilitySeeAllIncidents Capability = "see_all_incidents"
	CapabilityViewStats       Capability = "view_stats"
)

var roleCapabilities = map[Role][]Capability{
	RoleStudent: {},
	RoleStaff:   {CapabilitySeeAllIncidents, CapabilityViewStats},
	RoleAdmin:   {CapabilityChangeStatus, CapabilityAssign, CapabilitySeeAllIncidents, CapabilityViewStats},
}

// Can reports whether the role grants the capability.
func (r Role) Can(capability Capability) bool {
	for _, c := range roleCapabilities[r] {
		if c == capability {
			return true
		}
	}
	return false
}

func CanChangeStatus(r Role) bool    { return r.Can(CapabilityChangeStatus) }
func CanAssign(r Role) bool          { return r.Can(CapabilityAssign) }
func CanSeeAllIncidents(r Role) bool { return r.Can(CapabilitySeeAllIncidents) }
func CanViewStats(r Role) bool       { return r.Can(CapabilityViewStats) }
