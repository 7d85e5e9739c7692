package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shepherd-app/shepherd/internal/middleware"
	"github.com/shepherd-app/shepherd/internal/services"
)

// Router wires the HTTP surface to the domain services. Caller identity is
// taken from the verified token claims and passed to every service call as
// an explicit parameter.
type Router struct {
	store    Store
	auth     *services.AuthService
	process  *services.ProcessService
	sessions *services.SessionService
	notes    *services.NoteService
	tasks    *services.TaskService
	summary  *services.SummaryService
}

func NewRouter(store Store) *Router {
	return &Router{
		store:    store,
		auth:     services.NewAuthService(newAuthStoreAdapter(store), middleware.SignToken),
		process:  services.NewProcessService(newProcessStoreAdapter(store)),
		sessions: services.NewSessionService(newSessionStoreAdapter(store)),
		notes:    services.NewNoteService(newNoteStoreAdapter(store)),
		tasks:    services.NewTaskService(newTaskStoreAdapter(store)),
		summary:  services.NewSummaryService(newSummaryStoreAdapter(store)),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", rt.handleRegister) // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)       // POST
	mux.HandleFunc("/api/processes", rt.handleProcesses)    // POST
	mux.HandleFunc("/api/processes/", rt.handleProcessScoped)
	mux.HandleFunc("/api/sessions/", rt.handleSessionScoped)
	mux.HandleFunc("/api/notes/", rt.handleNoteScoped)
	mux.HandleFunc("/api/tasks/", rt.handleTaskScoped)
}

func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Register(req.Email, req.Password, req.Name)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, map[string]any{"token": res.Token, "member_id": res.MemberID})
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, map[string]any{"token": res.Token, "member_id": res.MemberID})
}

// POST /api/processes
func (rt *Router) handleProcesses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	caller, ok := callerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req struct {
		Type        string `json:"type"`
		Motive      string `json:"motive"`
		CounseleeID string `json:"counselee_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	typ, err := services.ParseProcessType(req.Type)
	if err != nil {
		writeErr(w, err)
		return
	}
	p, err := rt.process.CreateProcess(caller, typ, req.Motive, req.CounseleeID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, p)
}

// /api/processes/{id}[/status|/motive|/sessions|/notes|/summary]
func (rt *Router) handleProcessScoped(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/processes/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		view, err := rt.process.GetProcess(id, caller)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, view)
		return
	}

	switch parts[1] {
	case "status":
		if r.Method != http.MethodPut {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status, err := services.ParseProcessStatus(req.Status)
		if err != nil {
			writeErr(w, err)
			return
		}
		p, err := rt.process.UpdateStatus(id, caller, status)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, p)
	case "motive":
		if r.Method != http.MethodPut {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Motive string `json:"motive"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p, err := rt.process.UpdateMotive(id, caller, req.Motive)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, p)
	case "sessions":
		rt.handleProcessSessions(w, r, id, caller)
	case "notes":
		rt.handleProcessNotes(w, r, id, caller)
	case "summary":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		sum, err := rt.summary.Summary(id, caller)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, sum)
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) handleProcessSessions(w http.ResponseWriter, r *http.Request, processID, caller string) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Date            time.Time `json:"date"`
			DurationMinutes int       `json:"duration_minutes"`
			Topics          string    `json:"topics"`
			Location        string    `json:"location"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sn, err := rt.sessions.CreateSession(processID, caller, services.SessionInput{
			Date:            req.Date,
			DurationMinutes: req.DurationMinutes,
			Topics:          req.Topics,
			Location:        req.Location,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, sn)
	case http.MethodGet:
		list, err := rt.sessions.ListSessions(processID, caller)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"process_id": processID, "sessions": list})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (rt *Router) handleProcessNotes(w http.ResponseWriter, r *http.Request, processID, caller string) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			SessionID  string `json:"session_id"`
			Title      string `json:"title"`
			Content    string `json:"content"`
			Visibility string `json:"visibility"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		vis, err := services.ParseVisibility(req.Visibility)
		if err != nil {
			writeErr(w, err)
			return
		}
		n, err := rt.notes.CreateNote(processID, req.SessionID, caller, req.Title, req.Content, vis)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, n)
	case http.MethodGet:
		list, err := rt.notes.ListNotes(processID, caller, r.URL.Query().Get("session_id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"process_id": processID, "notes": list})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// /api/sessions/{id}/status | /api/sessions/{id}/tasks
func (rt *Router) handleSessionScoped(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) < 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]

	switch parts[1] {
	case "status":
		if r.Method != http.MethodPut {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status, err := services.ParseSessionStatus(req.Status)
		if err != nil {
			writeErr(w, err)
			return
		}
		sn, err := rt.sessions.UpdateStatus(id, caller, status)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, sn)
	case "tasks":
		switch r.Method {
		case http.MethodPost:
			var req struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			t, err := rt.tasks.AssignTask(id, caller, req.Title, req.Description)
			if err != nil {
				writeErr(w, err)
				return
			}
			writeJSON(w, t)
		case http.MethodGet:
			list, err := rt.tasks.ListTasks(id, caller)
			if err != nil {
				writeErr(w, err)
				return
			}
			writeJSON(w, map[string]any{"session_id": id, "tasks": list})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		http.NotFound(w, r)
	}
}

// /api/notes/{id}
func (rt *Router) handleNoteScoped(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/notes/"), "/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req struct {
			Title      *string `json:"title"`
			Content    *string `json:"content"`
			Visibility *string `json:"visibility"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		upd := services.NoteUpdate{Title: req.Title, Content: req.Content}
		if req.Visibility != nil {
			vis, err := services.ParseVisibility(*req.Visibility)
			if err != nil {
				writeErr(w, err)
				return
			}
			upd.Visibility = &vis
		}
		n, err := rt.notes.UpdateNote(id, caller, upd)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, n)
	case http.MethodDelete:
		if err := rt.notes.DeleteNote(id, caller); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// /api/tasks/{id} | /api/tasks/{id}/response | /api/tasks/{id}/feedback
func (rt *Router) handleTaskScoped(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]

	if len(parts) == 1 {
		if r.Method != http.MethodPut {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		t, err := rt.tasks.UpdateDefinition(id, caller, services.TaskDefinitionUpdate{Title: req.Title, Description: req.Description})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, t)
		return
	}

	switch parts[1] {
	case "response":
		if r.Method != http.MethodPut {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Response string `json:"response"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		t, err := rt.tasks.SubmitResponse(id, caller, req.Response)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, t)
	case "feedback":
		if r.Method != http.MethodPut {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Feedback string `json:"feedback"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		t, err := rt.tasks.SubmitFeedback(id, caller, req.Feedback)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, t)
	default:
		http.NotFound(w, r)
	}
}

func callerID(r *http.Request) (string, bool) {
	return middleware.MemberIDFromContext(r.Context())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		log.Printf("api: internal error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	status := http.StatusInternalServerError
	switch se.Code {
	case services.ErrorInvalid:
		status = http.StatusBadRequest
	case services.ErrorUnauthorized:
		status = http.StatusUnauthorized
	case services.ErrorForbidden:
		status = http.StatusForbidden
	case services.ErrorNotFound:
		status = http.StatusNotFound
	case services.ErrorConflict:
		status = http.StatusConflict
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": se.Code, "message": se.Message, "field": se.Field})
}
