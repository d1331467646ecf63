// Package components defines the plain value types shared by the simulation:
// vectors, obstacles and draw roles.
package components

// Role tags a draw request with what it represents.
// Roles are assigned by the population once per generation; renderers only map them to colors.
type Role uint8

const (
	RoleOrdinary Role = iota // Regular descendant
	RoleElite                // Unmutated clone of last generation's best dot
	RoleControl              // Fresh random dot kept as a baseline
	RoleTarget               // The goal point
)

// String returns the lowercase role name used in logs and wire frames.
func (r Role) String() string {
	names := RoleNames()
	if int(r) < len(names) {
		return names[r]
	}
	return "unknown"
}

// RoleNames returns the names for all roles.
// The order matches the Role constants.
func RoleNames() []string {
	return []string{"ordinary", "elite", "control", "target"}
}
