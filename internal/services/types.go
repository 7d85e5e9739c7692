package services

import "time"

// ProcessType distinguishes self-directed journals from supervised counseling.
type ProcessType string

const (
	ProcessInformal ProcessType = "INFORMAL"
	ProcessFormal   ProcessType = "FORMAL"
)

func ParseProcessType(s string) (ProcessType, error) {
	switch ProcessType(s) {
	case ProcessInformal, ProcessFormal:
		return ProcessType(s), nil
	}
	return "", NewInvalidError("unknown process type: " + s)
}

// ProcessStatus is the lifecycle state of a care process.
type ProcessStatus string

const (
	ProcessActive ProcessStatus = "ACTIVE"
	ProcessPaused ProcessStatus = "PAUSED"
	ProcessClosed ProcessStatus = "CLOSED"
)

func ParseProcessStatus(s string) (ProcessStatus, error) {
	switch ProcessStatus(s) {
	case ProcessActive, ProcessPaused, ProcessClosed:
		return ProcessStatus(s), nil
	}
	return "", NewInvalidError("unknown process status: " + s)
}

// Role is a member's role within one care process. RoleNone means the
// member has no participant record there.
type Role string

const (
	RoleCounselee  Role = "COUNSELEE"
	RoleCounselor  Role = "COUNSELOR"
	RoleSupervisor Role = "SUPERVISOR"
	RoleNone       Role = "NONE"
)

// CanStaff reports whether the role carries counselor-level write access.
func (r Role) CanStaff() bool { return r == RoleCounselor || r == RoleSupervisor }

// Visibility is the confidentiality tier of a note.
type Visibility string

const (
	VisibilityPersonal    Visibility = "PERSONAL"
	VisibilityShared      Visibility = "SHARED"
	VisibilitySupervision Visibility = "SUPERVISION"
)

func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPersonal, VisibilityShared, VisibilitySupervision:
		return Visibility(s), nil
	}
	return "", NewInvalidError("unknown visibility: " + s)
}

// SessionStatus is the scheduling state of a counseling session.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "SCHEDULED"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionCancelled SessionStatus = "CANCELLED"
	SessionPending   SessionStatus = "PENDING"
)

func ParseSessionStatus(s string) (SessionStatus, error) {
	switch SessionStatus(s) {
	case SessionScheduled, SessionCompleted, SessionCancelled, SessionPending:
		return SessionStatus(s), nil
	}
	return "", NewInvalidError("unknown session status: " + s)
}

// TaskStatus tracks counselee follow-through on an assigned task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskCompleted TaskStatus = "COMPLETED"
)

// Member is an authenticated church member (the identity directory record).
type Member struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// CareProcess is the overarching counseling relationship container.
type CareProcess struct {
	ID        string        `json:"id"`
	Type      ProcessType   `json:"type"`
	Status    ProcessStatus `json:"status"`
	Motive    string        `json:"motive"`
	CreatedBy string        `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
}

// Participant binds a member to a process under a single role.
type Participant struct {
	ProcessID string `json:"process_id"`
	MemberID  string `json:"member_id"`
	Role      Role   `json:"role"`
}

// Session is a scheduled encounter within a formal process.
type Session struct {
	ID              string        `json:"id"`
	ProcessID       string        `json:"process_id"`
	Date            time.Time     `json:"date"`
	DurationMinutes int           `json:"duration_minutes"`
	Topics          string        `json:"topics,omitempty"`
	Location        string        `json:"location,omitempty"`
	Status          SessionStatus `json:"status"`
}

// Note is a confidentiality-scoped journal entry. SessionID is empty for
// notes attached directly to the process.
type Note struct {
	ID             string     `json:"id"`
	ProcessID      string     `json:"process_id"`
	SessionID      string     `json:"session_id,omitempty"`
	AuthorMemberID string     `json:"author_member_id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Visibility     Visibility `json:"visibility"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Task is a counselor-assigned follow-up item. CounseleeResponse and
// CounselorFeedback are owned by different roles and never written by the
// same operation.
type Task struct {
	ID                string     `json:"id"`
	SessionID         string     `json:"session_id"`
	ProcessID         string     `json:"process_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	CounseleeResponse string     `json:"counselee_response,omitempty"`
	CounselorFeedback string     `json:"counselor_feedback,omitempty"`
	Status            TaskStatus `json:"status"`
}

type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}
