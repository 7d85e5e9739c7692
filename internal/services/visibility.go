package services

// CanReadNote resolves whether a note is readable by a viewer holding the
// given role in the note's process. PERSONAL notes are a private journal:
// only their author can read them, even other counselors on the same
// process cannot. SUPERVISION notes exist for pastoral oversight and are
// hidden from the counselee. SHARED is the only level a counselee sees.
func CanReadNote(n *Note, role Role, viewerID string) bool {
	if n == nil || role == RoleNone {
		return false
	}
	switch n.Visibility {
	case VisibilityShared:
		return true
	case VisibilityPersonal:
		return role.CanStaff() && viewerID == n.AuthorMemberID
	case VisibilitySupervision:
		return role.CanStaff()
	}
	return false
}

// CanEditNote resolves write access: only the author may mutate a note, and
// only while still holding a staff role on the process.
func CanEditNote(n *Note, role Role, viewerID string) bool {
	return n != nil && role.CanStaff() && viewerID == n.AuthorMemberID
}

// ValidateRequestedVisibility rejects any non-PERSONAL visibility on an
// INFORMAL process. The rule is a hard validation failure rather than a
// silent downgrade so the caller learns the request was wrong.
func ValidateRequestedVisibility(t ProcessType, v Visibility) error {
	if t == ProcessInformal && v != VisibilityPersonal {
		return NewFieldError("visibility", "informal processes only accept PERSONAL notes")
	}
	return nil
}

// FilterNotes returns the subset of notes readable by the viewer. Hidden
// notes are absent from the result, not redacted.
func FilterNotes(notes []*Note, role Role, viewerID string) []*Note {
	out := make([]*Note, 0, len(notes))
	for _, n := range notes {
		if CanReadNote(n, role, viewerID) {
			out = append(out, n)
		}
	}
	return out
}
