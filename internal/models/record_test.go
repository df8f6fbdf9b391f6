package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStatus_String(t *testing.T) {
	cases := map[Status]string{
		StatusBanned:   "BANNED(1)",
		StatusBorrowed: "BORROWED(2)",
		StatusExit:     "EXIT(3)",
		Status(9):      "Status(9)",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestParseStatus_CaseInsensitive(t *testing.T) {
	for _, in := range []string{"borrowed", "BORROWED", " Borrowed ", "bOrRoWeD"} {
		s, err := ParseStatus(in)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", in, err)
		}
		if s != StatusBorrowed {
			t.Errorf("ParseStatus(%q) = %v, want BORROWED", in, s)
		}
	}
}

func TestParseStatus_Unknown(t *testing.T) {
	for _, in := range []string{"", "LOST", "BANNED(1)", "1"} {
		_, err := ParseStatus(in)
		if !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("ParseStatus(%q) err = %v, want ErrInvalidStatus", in, err)
		}
	}
}

func TestRecord_String(t *testing.T) {
	r := NewRecord("Orwell", "1984", 1949, StatusBanned)
	want := "Book{author='Orwell', title='1984', year=1949, status=BANNED(1)}"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRecord_JSONUsesStatusName(t *testing.T) {
	data, err := json.Marshal(NewRecord("A", "T", 2000, StatusExit))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"author":"A","title":"T","year":2000,"status":"EXIT"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}

	var r Record
	if err := json.Unmarshal([]byte(`{"author":"A","title":"T","year":1,"status":"banned"}`), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if r.Status != StatusBanned {
		t.Errorf("status = %v, want BANNED", r.Status)
	}
	if err := json.Unmarshal([]byte(`{"status":"nope"}`), &r); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestEqualFoldASCII(t *testing.T) {
	if !EqualFoldASCII("Animal Farm", "ANIMAL farm") {
		t.Error("expected ASCII fold match")
	}
	if EqualFoldASCII("straße", "STRASSE") {
		t.Error("non-ASCII must not fold")
	}
	// Kelvin sign folds to k under Unicode rules but not under ASCII rules.
	if EqualFoldASCII("K", "k") {
		t.Error("Kelvin sign must not match k")
	}
}
