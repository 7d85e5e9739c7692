package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shepherd-app/shepherd/internal/api"
	"github.com/shepherd-app/shepherd/internal/services"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

var _ api.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Printf("sqlite store: %s: %v", prefix, err)
	}
}

func toNullString(v string) sql.NullString {
	if strings.TrimSpace(v) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func fromNullString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

func encodeTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func decodeTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		log.Printf("sqlite store: decode time %q: %v", v, err)
		return time.Time{}
	}
	return t
}

// members

func (s *SQLiteStore) AddMember(m *services.Member) {
	_, err := s.db.Exec(
		`INSERT INTO members (id, email, name, pass_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Email, toNullString(m.Name), m.PassHash, encodeTime(m.CreatedAt),
	)
	s.logErr("add member", err)
}

func (s *SQLiteStore) scanMember(row *sql.Row) *services.Member {
	var m services.Member
	var name sql.NullString
	var createdAt string
	err := row.Scan(&m.ID, &m.Email, &name, &m.PassHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logErr("scan member", err)
		return nil
	}
	m.Name = fromNullString(name)
	m.CreatedAt = decodeTime(createdAt)
	return &m
}

func (s *SQLiteStore) GetMember(id string) *services.Member {
	return s.scanMember(s.db.QueryRow(
		`SELECT id, email, name, pass_hash, created_at FROM members WHERE id = ?`, id))
}

func (s *SQLiteStore) FindMemberByEmail(email string) *services.Member {
	return s.scanMember(s.db.QueryRow(
		`SELECT id, email, name, pass_hash, created_at FROM members WHERE email = ? COLLATE NOCASE`, email))
}

// care processes

func (s *SQLiteStore) AddProcess(p *services.CareProcess) {
	_, err := s.db.Exec(
		`INSERT INTO care_processes (id, type, status, motive, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, string(p.Type), string(p.Status), p.Motive, p.CreatedBy, encodeTime(p.CreatedAt),
	)
	s.logErr("add process", err)
}

func (s *SQLiteStore) GetProcess(id string) *services.CareProcess {
	row := s.db.QueryRow(
		`SELECT id, type, status, motive, created_by, created_at FROM care_processes WHERE id = ?`, id)
	var p services.CareProcess
	var typ, status, createdAt string
	err := row.Scan(&p.ID, &typ, &status, &p.Motive, &p.CreatedBy, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logErr("get process", err)
		return nil
	}
	p.Type = services.ProcessType(typ)
	p.Status = services.ProcessStatus(status)
	p.CreatedAt = decodeTime(createdAt)
	return &p
}

func (s *SQLiteStore) UpdateProcess(p *services.CareProcess) bool {
	res, err := s.db.Exec(
		`UPDATE care_processes SET status = ?, motive = ? WHERE id = ?`,
		string(p.Status), p.Motive, p.ID,
	)
	if err != nil {
		s.logErr("update process", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) AddParticipant(pt *services.Participant) {
	_, err := s.db.Exec(
		`INSERT INTO participants (process_id, member_id, role) VALUES (?, ?, ?)`,
		pt.ProcessID, pt.MemberID, string(pt.Role),
	)
	s.logErr("add participant", err)
}

func (s *SQLiteStore) ListParticipants(processID string) []*services.Participant {
	rows, err := s.db.Query(
		`SELECT process_id, member_id, role FROM participants WHERE process_id = ?`, processID)
	if err != nil {
		s.logErr("list participants", err)
		return nil
	}
	defer rows.Close()
	out := []*services.Participant{}
	for rows.Next() {
		var pt services.Participant
		var role string
		if err := rows.Scan(&pt.ProcessID, &pt.MemberID, &role); err != nil {
			s.logErr("scan participant", err)
			continue
		}
		pt.Role = services.Role(role)
		out = append(out, &pt)
	}
	s.logErr("list participants rows", rows.Err())
	return out
}

// sessions

func (s *SQLiteStore) AddSession(sn *services.Session) {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, process_id, date, duration_minutes, topics, location, status) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sn.ID, sn.ProcessID, encodeTime(sn.Date), sn.DurationMinutes, toNullString(sn.Topics), toNullString(sn.Location), string(sn.Status),
	)
	s.logErr("add session", err)
}

func (s *SQLiteStore) scanSession(scan func(dest ...any) error) (*services.Session, error) {
	var sn services.Session
	var date, status string
	var topics, location sql.NullString
	if err := scan(&sn.ID, &sn.ProcessID, &date, &sn.DurationMinutes, &topics, &location, &status); err != nil {
		return nil, err
	}
	sn.Date = decodeTime(date)
	sn.Topics = fromNullString(topics)
	sn.Location = fromNullString(location)
	sn.Status = services.SessionStatus(status)
	return &sn, nil
}

func (s *SQLiteStore) GetSession(id string) *services.Session {
	row := s.db.QueryRow(
		`SELECT id, process_id, date, duration_minutes, topics, location, status FROM sessions WHERE id = ?`, id)
	sn, err := s.scanSession(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logErr("get session", err)
		return nil
	}
	return sn
}

func (s *SQLiteStore) UpdateSession(sn *services.Session) bool {
	res, err := s.db.Exec(
		`UPDATE sessions SET date = ?, duration_minutes = ?, topics = ?, location = ?, status = ? WHERE id = ?`,
		encodeTime(sn.Date), sn.DurationMinutes, toNullString(sn.Topics), toNullString(sn.Location), string(sn.Status), sn.ID,
	)
	if err != nil {
		s.logErr("update session", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) ListSessions(processID string) []*services.Session {
	rows, err := s.db.Query(
		`SELECT id, process_id, date, duration_minutes, topics, location, status FROM sessions WHERE process_id = ? ORDER BY date, id`, processID)
	if err != nil {
		s.logErr("list sessions", err)
		return nil
	}
	defer rows.Close()
	out := []*services.Session{}
	for rows.Next() {
		sn, err := s.scanSession(rows.Scan)
		if err != nil {
			s.logErr("scan session", err)
			continue
		}
		out = append(out, sn)
	}
	s.logErr("list sessions rows", rows.Err())
	return out
}

// notes

func (s *SQLiteStore) AddNote(n *services.Note) {
	_, err := s.db.Exec(
		`INSERT INTO notes (id, process_id, session_id, author_member_id, title, content, visibility, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.ProcessID, toNullString(n.SessionID), n.AuthorMemberID, n.Title, n.Content, string(n.Visibility), encodeTime(n.CreatedAt),
	)
	s.logErr("add note", err)
}

func (s *SQLiteStore) scanNote(scan func(dest ...any) error) (*services.Note, error) {
	var n services.Note
	var sessionID sql.NullString
	var visibility, createdAt string
	if err := scan(&n.ID, &n.ProcessID, &sessionID, &n.AuthorMemberID, &n.Title, &n.Content, &visibility, &createdAt); err != nil {
		return nil, err
	}
	n.SessionID = fromNullString(sessionID)
	n.Visibility = services.Visibility(visibility)
	n.CreatedAt = decodeTime(createdAt)
	return &n, nil
}

func (s *SQLiteStore) GetNote(id string) *services.Note {
	row := s.db.QueryRow(
		`SELECT id, process_id, session_id, author_member_id, title, content, visibility, created_at FROM notes WHERE id = ?`, id)
	n, err := s.scanNote(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logErr("get note", err)
		return nil
	}
	return n
}

func (s *SQLiteStore) UpdateNote(n *services.Note) bool {
	res, err := s.db.Exec(
		`UPDATE notes SET title = ?, content = ?, visibility = ? WHERE id = ?`,
		n.Title, n.Content, string(n.Visibility), n.ID,
	)
	if err != nil {
		s.logErr("update note", err)
		return false
	}
	rows, _ := res.RowsAffected()
	return rows > 0
}

func (s *SQLiteStore) DeleteNote(id string) bool {
	res, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		s.logErr("delete note", err)
		return false
	}
	rows, _ := res.RowsAffected()
	return rows > 0
}

func (s *SQLiteStore) ListNotes(processID string) []*services.Note {
	rows, err := s.db.Query(
		`SELECT id, process_id, session_id, author_member_id, title, content, visibility, created_at FROM notes WHERE process_id = ? ORDER BY created_at, id`, processID)
	if err != nil {
		s.logErr("list notes", err)
		return nil
	}
	defer rows.Close()
	out := []*services.Note{}
	for rows.Next() {
		n, err := s.scanNote(rows.Scan)
		if err != nil {
			s.logErr("scan note", err)
			continue
		}
		out = append(out, n)
	}
	s.logErr("list notes rows", rows.Err())
	return out
}

// tasks
//
// The tasks table stores the role-owned exchange fields under the generic
// column names `response` and `feedback`. The mapping to the descriptive
// domain names CounseleeResponse/CounselorFeedback lives in scanTask and
// the statements below, and nowhere else. Writes are column-scoped per
// role so a response and a feedback landing together never clobber each
// other.

func (s *SQLiteStore) AddTask(t *services.Task) {
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, session_id, process_id, title, description, response, feedback, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.SessionID, t.ProcessID, t.Title, toNullString(t.Description), toNullString(t.CounseleeResponse), toNullString(t.CounselorFeedback), string(t.Status),
	)
	s.logErr("add task", err)
}

func (s *SQLiteStore) scanTask(scan func(dest ...any) error) (*services.Task, error) {
	var t services.Task
	var description, response, feedback sql.NullString
	var status string
	if err := scan(&t.ID, &t.SessionID, &t.ProcessID, &t.Title, &description, &response, &feedback, &status); err != nil {
		return nil, err
	}
	t.Description = fromNullString(description)
	t.CounseleeResponse = fromNullString(response)
	t.CounselorFeedback = fromNullString(feedback)
	t.Status = services.TaskStatus(status)
	return &t, nil
}

func (s *SQLiteStore) GetTask(id string) *services.Task {
	row := s.db.QueryRow(
		`SELECT id, session_id, process_id, title, description, response, feedback, status FROM tasks WHERE id = ?`, id)
	t, err := s.scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logErr("get task", err)
		return nil
	}
	return t
}

func (s *SQLiteStore) SetTaskResponse(id, response string, status services.TaskStatus) bool {
	res, err := s.db.Exec(
		`UPDATE tasks SET response = ?, status = ? WHERE id = ?`,
		toNullString(response), string(status), id,
	)
	if err != nil {
		s.logErr("set task response", err)
		return false
	}
	rows, _ := res.RowsAffected()
	return rows > 0
}

func (s *SQLiteStore) SetTaskFeedback(id, feedback string) bool {
	res, err := s.db.Exec(
		`UPDATE tasks SET feedback = ? WHERE id = ?`,
		toNullString(feedback), id,
	)
	if err != nil {
		s.logErr("set task feedback", err)
		return false
	}
	rows, _ := res.RowsAffected()
	return rows > 0
}

func (s *SQLiteStore) SetTaskDefinition(id, title, description string) bool {
	res, err := s.db.Exec(
		`UPDATE tasks SET title = ?, description = ? WHERE id = ?`,
		title, toNullString(description), id,
	)
	if err != nil {
		s.logErr("set task definition", err)
		return false
	}
	rows, _ := res.RowsAffected()
	return rows > 0
}

func (s *SQLiteStore) listTasks(query, arg string) []*services.Task {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		s.logErr("list tasks", err)
		return nil
	}
	defer rows.Close()
	out := []*services.Task{}
	for rows.Next() {
		t, err := s.scanTask(rows.Scan)
		if err != nil {
			s.logErr("scan task", err)
			continue
		}
		out = append(out, t)
	}
	s.logErr("list tasks rows", rows.Err())
	return out
}

func (s *SQLiteStore) ListTasksBySession(sessionID string) []*services.Task {
	return s.listTasks(
		`SELECT id, session_id, process_id, title, description, response, feedback, status FROM tasks WHERE session_id = ? ORDER BY id`, sessionID)
}

func (s *SQLiteStore) ListTasksByProcess(processID string) []*services.Task {
	return s.listTasks(
		`SELECT id, session_id, process_id, title, description, response, feedback, status FROM tasks WHERE process_id = ? ORDER BY id`, processID)
}

// audit

func (s *SQLiteStore) AddAudit(e services.AuditEntry) {
	_, err := s.db.Exec(
		`INSERT INTO audit_log (time, actor, action, target, note) VALUES (?, ?, ?, ?, ?)`,
		encodeTime(e.Time), e.Actor, e.Action, e.Target, toNullString(e.Note),
	)
	s.logErr("add audit", err)
}

func (s *SQLiteStore) ListAudit() []services.AuditEntry {
	rows, err := s.db.Query(`SELECT time, actor, action, target, note FROM audit_log ORDER BY time`)
	if err != nil {
		s.logErr("list audit", err)
		return nil
	}
	defer rows.Close()
	out := []services.AuditEntry{}
	for rows.Next() {
		var e services.AuditEntry
		var ts string
		var note sql.NullString
		if err := rows.Scan(&ts, &e.Actor, &e.Action, &e.Target, &note); err != nil {
			s.logErr("scan audit", err)
			continue
		}
		e.Time = decodeTime(ts)
		e.Note = fromNullString(note)
		out = append(out, e)
	}
	s.logErr("list audit rows", rows.Err())
	return out
}
