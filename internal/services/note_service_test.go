package services

import (
	"testing"
	"time"
)

func newTestNoteService(store *stubStore) *NoteService {
	svc := NewNoteService(store)
	svc.now = func() time.Time { return time.Unix(0, 0).UTC() }
	n := 0
	svc.idGen = func() string { n++; return "n" + string(rune('0'+n)) }
	return svc
}

func TestSupervisionNoteVisibility(t *testing.T) {
	store := newStubStore()
	store.seedFormal("p1")
	svc := newTestNoteService(store)

	note, err := svc.CreateNote("p1", "", "c1", "Oversight", "needs supervisor review", VisibilitySupervision)
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	asCounselee, err := svc.ListNotes("p1", "e1", "")
	if err != nil {
		t.Fatalf("ListNotes as counselee: %v", err)
	}
	if len(asCounselee) != 0 {
		t.Fatalf("counselee must not see supervision notes, got %d", len(asCounselee))
	}

	asCounselor, err := svc.ListNotes("p1", "c1", "")
	if err != nil {
		t.Fatalf("ListNotes as counselor: %v", err)
	}
	if len(asCounselor) != 1 || asCounselor[0].ID != note.ID {
		t.Fatalf("counselor should see the note, got %d", len(asCounselor))
	}

	asSupervisor, err := svc.ListNotes("p1", "s1", "")
	if err != nil {
		t.Fatalf("ListNotes as supervisor: %v", err)
	}
	if len(asSupervisor) != 1 {
		t.Fatalf("supervisor should see the note, got %d", len(asSupervisor))
	}
}

func TestInformalNotesForcedPersonal(t *testing.T) {
	store := newStubStore()
	store.seedInformal("p1")
	svc := newTestNoteService(store)

	if _, err := svc.CreateNote("p1", "", "m1", "Journal", "entry", VisibilityShared); !IsCode(err, ErrorInvalid) {
		t.Fatalf("shared note on informal process must fail validation, got %v", err)
	}
	note, err := svc.CreateNote("p1", "", "m1", "Journal", "entry", VisibilityPersonal)
	if err != nil {
		t.Fatalf("personal note on informal process: %v", err)
	}
	got, err := svc.ListNotes("p1", "m1", "")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(got) != 1 || got[0].ID != note.ID {
		t.Fatalf("owner should read own personal note, got %d", len(got))
	}
}

func TestCreateNoteGuards(t *testing.T) {
	store := newStubStore()
	store.seedFormal("p1")
	store.sessions["sn1"] = &Session{ID: "sn1", ProcessID: "p1", Status: SessionScheduled}
	store.sessions["foreign"] = &Session{ID: "foreign", ProcessID: "p9", Status: SessionScheduled}
	svc := newTestNoteService(store)

	if _, err := svc.CreateNote("p1", "", "e1", "t", "c", VisibilityShared); !IsCode(err, ErrorForbidden) {
		t.Fatalf("counselee must not author notes, got %v", err)
	}
	if _, err := svc.CreateNote("p1", "foreign", "c1", "t", "c", VisibilityShared); !IsCode(err, ErrorInvalid) {
		t.Fatalf("session of another process must be invalid, got %v", err)
	}
	if _, err := svc.CreateNote("p1", "sn1", "c1", "", "c", VisibilityShared); !IsCode(err, ErrorInvalid) {
		t.Fatalf("empty title must be invalid, got %v", err)
	}

	store.processes["p1"].Status = ProcessClosed
	if _, err := svc.CreateNote("p1", "", "c1", "t", "c", VisibilityShared); !IsCode(err, ErrorConflict) {
		t.Fatalf("closed process must reject note creation, got %v", err)
	}
	if _, err := svc.ListNotes("p1", "c1", ""); err != nil {
		t.Fatalf("reads remain allowed on closed process: %v", err)
	}
}

func TestListNotesSessionFilter(t *testing.T) {
	store := newStubStore()
	store.seedFormal("p1")
	store.notes["n1"] = &Note{ID: "n1", ProcessID: "p1", SessionID: "sn1", AuthorMemberID: "c1", Visibility: VisibilityShared}
	store.notes["n2"] = &Note{ID: "n2", ProcessID: "p1", AuthorMemberID: "c1", Visibility: VisibilityShared}
	svc := newTestNoteService(store)

	got, err := svc.ListNotes("p1", "c1", "sn1")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(got) != 1 || got[0].ID != "n1" {
		t.Fatalf("session filter broken, got %d", len(got))
	}
}

func TestUpdateNoteAuthorOnly(t *testing.T) {
	store := newStubStore()
	store.seedFormal("p1")
	store.participants = append(store.participants, &Participant{ProcessID: "p1", MemberID: "c2", Role: RoleCounselor})
	store.notes["n1"] = &Note{ID: "n1", ProcessID: "p1", AuthorMemberID: "c1", Title: "t", Content: "c", Visibility: VisibilityShared}
	svc := newTestNoteService(store)

	title := "revised"
	got, err := svc.UpdateNote("n1", "c1", NoteUpdate{Title: &title})
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if got.Title != "revised" {
		t.Fatalf("title not applied: %q", got.Title)
	}

	if _, err := svc.UpdateNote("n1", "c2", NoteUpdate{Title: &title}); !IsCode(err, ErrorForbidden) {
		t.Fatalf("non-author counselor must not edit, got %v", err)
	}
	if err := svc.DeleteNote("n1", "c2"); !IsCode(err, ErrorForbidden) {
		t.Fatalf("non-author counselor must not delete, got %v", err)
	}
	if err := svc.DeleteNote("n1", "c1"); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if err := svc.DeleteNote("n1", "c1"); !IsCode(err, ErrorNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestHiddenNoteIndistinguishableFromMissing(t *testing.T) {
	store := newStubStore()
	store.seedFormal("p1")
	store.participants = append(store.participants, &Participant{ProcessID: "p1", MemberID: "c2", Role: RoleCounselor})
	store.notes["n1"] = &Note{ID: "n1", ProcessID: "p1", AuthorMemberID: "c1", Visibility: VisibilityPersonal}
	svc := newTestNoteService(store)

	// Another counselor cannot read c1's personal note, so mutation
	// attempts must look exactly like the note not existing.
	title := "x"
	_, errHidden := svc.UpdateNote("n1", "c2", NoteUpdate{Title: &title})
	_, errMissing := svc.UpdateNote("nope", "c2", NoteUpdate{Title: &title})
	if !IsCode(errHidden, ErrorNotFound) || !IsCode(errMissing, ErrorNotFound) {
		t.Fatalf("expected not found for both, got %v / %v", errHidden, errMissing)
	}
	seHidden, _ := AsServiceError(errHidden)
	seMissing, _ := AsServiceError(errMissing)
	if seHidden.Message != seMissing.Message {
		t.Fatalf("hidden and missing must be indistinguishable: %q vs %q", seHidden.Message, seMissing.Message)
	}
}

func TestAuthorRoleRecheckedOnUpdate(t *testing.T) {
	store := newStubStore()
	store.seedFormal("p1")
	store.notes["n1"] = &Note{ID: "n1", ProcessID: "p1", AuthorMemberID: "c1", Visibility: VisibilityShared}
	svc := newTestNoteService(store)

	// Revoke the author's participant record; their edit rights must be
	// gone immediately even though they authored the note.
	kept := store.participants[:0]
	for _, pt := range store.participants {
		if !(pt.ProcessID == "p1" && pt.MemberID == "c1") {
			kept = append(kept, pt)
		}
	}
	store.participants = kept

	title := "x"
	if _, err := svc.UpdateNote("n1", "c1", NoteUpdate{Title: &title}); !IsCode(err, ErrorNotFound) {
		t.Fatalf("revoked author must lose access, got %v", err)
	}
}
