package core

// Role is the session role of the local process
type Role uint8

const (
	// RoleAuthority owns simulation truth and renders nothing (dedicated server)
	RoleAuthority Role = iota
	// RoleObserver renders replicated snapshots and never mutates simulation state
	RoleObserver
	// RoleAuthorityObserver owns simulation truth and also renders it (host)
	RoleAuthorityObserver
)

// IsAuthority reports whether this role may mutate simulation state
func (r Role) IsAuthority() bool {
	return r == RoleAuthority || r == RoleAuthorityObserver
}

// IsObserver reports whether this role presents state to a local player
func (r Role) IsObserver() bool {
	return r == RoleObserver || r == RoleAuthorityObserver
}

func (r Role) String() string {
	switch r {
	case RoleAuthority:
		return "authority"
	case RoleObserver:
		return "observer"
	case RoleAuthorityObserver:
		return "host"
	default:
		return "unknown"
	}
}
