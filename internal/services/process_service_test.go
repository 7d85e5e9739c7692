package services

import (
	"testing"
	"time"
)

func newTestProcessService(store *stubStore) *ProcessService {
	svc := NewProcessService(store)
	svc.now = func() time.Time { return time.Unix(0, 0).UTC() }
	n := 0
	svc.idGen = func() string { n++; return "p" + string(rune('0'+n)) }
	return svc
}

func TestCreateFormalProcess(t *testing.T) {
	store := newStubStore()
	store.members["c1"] = &Member{ID: "c1", Email: "c@example.com"}
	store.members["e1"] = &Member{ID: "e1", Email: "e@example.com"}
	svc := newTestProcessService(store)

	p, err := svc.CreateProcess("c1", ProcessFormal, "Marriage counseling", "e1")
	if err != nil {
		t.Fatalf("CreateProcess returned error: %v", err)
	}
	if p.Status != ProcessActive {
		t.Fatalf("new process should be active, got %s", p.Status)
	}
	parts, _ := store.ListParticipants(p.ID)
	if len(parts) != 2 {
		t.Fatalf("expected creator+counselee participants, got %d", len(parts))
	}
	if ResolveRole(p, parts, "c1") != RoleCounselor || ResolveRole(p, parts, "e1") != RoleCounselee {
		t.Fatalf("unexpected roles: %+v", parts)
	}
}

func TestCreateFormalProcessValidation(t *testing.T) {
	store := newStubStore()
	store.members["c1"] = &Member{ID: "c1"}
	svc := newTestProcessService(store)

	if _, err := svc.CreateProcess("c1", ProcessFormal, "Help", ""); !IsCode(err, ErrorInvalid) {
		t.Fatalf("missing counselee should be invalid, got %v", err)
	}
	if _, err := svc.CreateProcess("c1", ProcessFormal, "Help", "c1"); !IsCode(err, ErrorInvalid) {
		t.Fatalf("self counselee should be invalid, got %v", err)
	}
	if _, err := svc.CreateProcess("c1", ProcessFormal, "Help", "ghost"); !IsCode(err, ErrorNotFound) {
		t.Fatalf("unknown counselee should be not found, got %v", err)
	}
	if _, err := svc.CreateProcess("c1", ProcessFormal, "   ", "e1"); !IsCode(err, ErrorInvalid) {
		t.Fatalf("blank motive should be invalid, got %v", err)
	}
}

func TestCreateInformalProcess(t *testing.T) {
	store := newStubStore()
	store.members["m1"] = &Member{ID: "m1"}
	svc := newTestProcessService(store)

	p, err := svc.CreateProcess("m1", ProcessInformal, "Personal growth", "")
	if err != nil {
		t.Fatalf("CreateProcess returned error: %v", err)
	}
	parts, _ := store.ListParticipants(p.ID)
	if len(parts) != 1 || parts[0].Role != RoleCounselee {
		t.Fatalf("informal process should have one counselee participant: %+v", parts)
	}
	// Sole participant acts with author rights inside their own record.
	if ResolveRole(p, parts, "m1") != RoleCounselor {
		t.Fatalf("informal owner should resolve to counselor")
	}

	if _, err := svc.CreateProcess("m1", ProcessInformal, "Growth", "e1"); !IsCode(err, ErrorInvalid) {
		t.Fatalf("informal process with counselee should be invalid, got %v", err)
	}
}

func TestProcessStatusTransitions(t *testing.T) {
	store := newStubStore()
	store.seedFormal("p1")
	svc := newTestProcessService(store)

	if _, err := svc.UpdateStatus("p1", "c1", ProcessPaused); err != nil {
		t.Fatalf("active->paused: %v", err)
	}
	if _, err := svc.UpdateStatus("p1", "c1", ProcessActive); err != nil {
		t.Fatalf("paused->active: %v", err)
	}
	if _, err := svc.UpdateStatus("p1", "c1", ProcessActive); !IsCode(err, ErrorConflict) {
		t.Fatalf("self transition should conflict, got %v", err)
	}
	if _, err := svc.UpdateStatus("p1", "s1", ProcessClosed); err != nil {
		t.Fatalf("active->closed by supervisor: %v", err)
	}
	if _, err := svc.UpdateStatus("p1", "c1", ProcessActive); !IsCode(err, ErrorConflict) {
		t.Fatalf("closed is terminal, got %v", err)
	}
}

func TestProcessStatusGuards(t *testing.T) {
	store := newStubStore()
	store.seedFormal("p1")
	svc := newTestProcessService(store)

	if _, err := svc.UpdateStatus("p1", "e1", ProcessPaused); !IsCode(err, ErrorForbidden) {
		t.Fatalf("counselee must not change status, got %v", err)
	}
	if _, err := svc.UpdateStatus("p1", "stranger", ProcessPaused); !IsCode(err, ErrorNotFound) {
		t.Fatalf("non-participant should see not found, got %v", err)
	}
	if _, err := svc.UpdateStatus("missing", "c1", ProcessPaused); !IsCode(err, ErrorNotFound) {
		t.Fatalf("missing process should be not found, got %v", err)
	}
}

func TestUpdateMotiveRoundTrip(t *testing.T) {
	store := newStubStore()
	store.seedFormal("p1")
	svc := newTestProcessService(store)

	if _, err := svc.UpdateMotive("p1", "c1", "New direction"); err != nil {
		t.Fatalf("UpdateMotive: %v", err)
	}
	view, err := svc.GetProcess("p1", "c1")
	if err != nil {
		t.Fatalf("GetProcess: %v", err)
	}
	if view.Motive != "New direction" {
		t.Fatalf("motive not persisted, got %q", view.Motive)
	}

	if _, err := svc.UpdateMotive("p1", "e1", "Hijack"); !IsCode(err, ErrorForbidden) {
		t.Fatalf("counselee must not edit motive, got %v", err)
	}
}

func TestInformalOwnerEditsOwnMotive(t *testing.T) {
	store := newStubStore()
	store.seedInformal("p1")
	svc := newTestProcessService(store)

	if _, err := svc.UpdateMotive("p1", "m1", "Renewed focus"); err != nil {
		t.Fatalf("informal owner should edit own motive: %v", err)
	}
}

func TestGetProcessViewFiltersNotes(t *testing.T) {
	store := newStubStore()
	store.seedFormal("p1")
	store.notes["n1"] = &Note{ID: "n1", ProcessID: "p1", AuthorMemberID: "c1", Title: "a", Visibility: VisibilityShared}
	store.notes["n2"] = &Note{ID: "n2", ProcessID: "p1", AuthorMemberID: "c1", Title: "b", Visibility: VisibilitySupervision}
	svc := newTestProcessService(store)

	view, err := svc.GetProcess("p1", "e1")
	if err != nil {
		t.Fatalf("GetProcess as counselee: %v", err)
	}
	if len(view.Notes) != 1 || view.Notes[0].ID != "n1" {
		t.Fatalf("counselee view should inline only shared notes, got %d", len(view.Notes))
	}
	if len(view.Participants) != 3 {
		t.Fatalf("expected 3 participants, got %d", len(view.Participants))
	}

	if _, err := svc.GetProcess("p1", "stranger"); !IsCode(err, ErrorNotFound) {
		t.Fatalf("non-participant must get not found, got %v", err)
	}
}
