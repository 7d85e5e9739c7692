//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("SHEPHERD_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:18080"
}

func TestCounselingJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	suffix := time.Now().UnixNano()
	password := "Secret123!"

	var counselorReg struct {
		Token    string `json:"token"`
		MemberID string `json:"member_id"`
	}
	doJSON(t, client, http.MethodPost, base+"/api/auth/register", "", map[string]string{
		"email":    fmt.Sprintf("counselor_%d@example.com", suffix),
		"password": password,
		"name":     "Integration Counselor",
	}, &counselorReg)
	if counselorReg.Token == "" || counselorReg.MemberID == "" {
		t.Fatalf("unexpected register response: %+v", counselorReg)
	}

	var counseleeReg struct {
		Token    string `json:"token"`
		MemberID string `json:"member_id"`
	}
	doJSON(t, client, http.MethodPost, base+"/api/auth/register", "", map[string]string{
		"email":    fmt.Sprintf("counselee_%d@example.com", suffix),
		"password": password,
	}, &counseleeReg)

	var process struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	doJSON(t, client, http.MethodPost, base+"/api/processes", counselorReg.Token, map[string]string{
		"type":         "FORMAL",
		"motive":       "Integration grief support",
		"counselee_id": counseleeReg.MemberID,
	}, &process)
	if process.ID == "" || process.Status != "ACTIVE" {
		t.Fatalf("unexpected process: %+v", process)
	}

	var session struct {
		ID string `json:"id"`
	}
	doJSON(t, client, http.MethodPost, base+"/api/processes/"+process.ID+"/sessions", counselorReg.Token, map[string]any{
		"date":             time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"duration_minutes": 45,
		"topics":           "First meeting",
	}, &session)
	if session.ID == "" {
		t.Fatalf("expected session id in response")
	}

	var note struct {
		ID string `json:"id"`
	}
	doJSON(t, client, http.MethodPost, base+"/api/processes/"+process.ID+"/notes", counselorReg.Token, map[string]string{
		"session_id": session.ID,
		"title":      "Supervision concern",
		"content":    "Needs follow-up with supervisor",
		"visibility": "SUPERVISION",
	}, &note)
	if note.ID == "" {
		t.Fatalf("expected note id in response")
	}

	// supervision notes must be invisible to the counselee
	var counseleeNotes struct {
		Notes []json.RawMessage `json:"notes"`
	}
	doJSON(t, client, http.MethodGet, base+"/api/processes/"+process.ID+"/notes", counseleeReg.Token, nil, &counseleeNotes)
	if len(counseleeNotes.Notes) != 0 {
		t.Fatalf("counselee saw %d supervision notes", len(counseleeNotes.Notes))
	}

	var task struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	doJSON(t, client, http.MethodPost, base+"/api/sessions/"+session.ID+"/tasks", counselorReg.Token, map[string]string{
		"title":       "Daily journaling",
		"description": "Write one page each evening",
	}, &task)
	if task.ID == "" || task.Status != "PENDING" {
		t.Fatalf("unexpected task: %+v", task)
	}

	doJSON(t, client, http.MethodPut, base+"/api/tasks/"+task.ID+"/response", counseleeReg.Token, map[string]string{
		"response": "Journaled every day this week",
	}, &task)
	if task.Status != "COMPLETED" {
		t.Fatalf("response should complete the task, got %s", task.Status)
	}

	var taskWithFeedback struct {
		Status            string `json:"status"`
		CounselorFeedback string `json:"counselor_feedback"`
	}
	doJSON(t, client, http.MethodPut, base+"/api/tasks/"+task.ID+"/feedback", counselorReg.Token, map[string]string{
		"feedback": "Excellent consistency",
	}, &taskWithFeedback)
	if taskWithFeedback.Status != "COMPLETED" || taskWithFeedback.CounselorFeedback != "Excellent consistency" {
		t.Fatalf("unexpected task after feedback: %+v", taskWithFeedback)
	}

	var counselorSummary struct {
		SessionCount     int `json:"session_count"`
		VisibleNoteCount int `json:"visible_note_count"`
		TaskCount        int `json:"task_count"`
	}
	doJSON(t, client, http.MethodGet, base+"/api/processes/"+process.ID+"/summary", counselorReg.Token, nil, &counselorSummary)
	if counselorSummary.SessionCount != 1 || counselorSummary.VisibleNoteCount != 1 || counselorSummary.TaskCount != 1 {
		t.Fatalf("unexpected counselor summary: %+v", counselorSummary)
	}

	var counseleeSummary struct {
		VisibleNoteCount int `json:"visible_note_count"`
	}
	doJSON(t, client, http.MethodGet, base+"/api/processes/"+process.ID+"/summary", counseleeReg.Token, nil, &counseleeSummary)
	if counseleeSummary.VisibleNoteCount != 0 {
		t.Fatalf("counselee summary should not count supervision notes: %+v", counseleeSummary)
	}
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any, out any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http %s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}
