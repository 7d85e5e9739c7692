package services

// ResolveRole determines the caller's effective role within a process by
// matching the caller against its participant records. Counselor and
// supervisor matches take precedence over a counselee match so that
// downstream write checks never under-privilege a staff member who also
// appears as a counselee record. Returns RoleNone when no record matches;
// callers decide whether that is fatal.
//
// For an INFORMAL process the sole participant is recorded as COUNSELEE but
// acts as the author of their own record, so the resolved role is upgraded
// to COUNSELOR within that process only.
func ResolveRole(p *CareProcess, participants []*Participant, callerID string) Role {
	if p == nil || callerID == "" {
		return RoleNone
	}
	role := RoleNone
	for _, pt := range participants {
		if pt.ProcessID != p.ID || pt.MemberID != callerID {
			continue
		}
		switch pt.Role {
		case RoleSupervisor:
			return RoleSupervisor
		case RoleCounselor:
			role = RoleCounselor
		case RoleCounselee:
			if role == RoleNone {
				role = RoleCounselee
			}
		}
	}
	if p.Type == ProcessInformal && role == RoleCounselee {
		return RoleCounselor
	}
	return role
}
