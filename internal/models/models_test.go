package models

import (
	"encoding/json"
	"testing"
)

// TestIDUnmarshal tests that ids decode from strings and numbers
func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ID
	}{
		{"string id", `"a1b2"`, "a1b2"},
		{"integer id", `42`, "42"},
		{"null id", `null`, ""},
		{"numeric string", `"7"`, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			if err := json.Unmarshal([]byte(tt.raw), &id); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.raw, err)
			}
			if id != tt.want {
				t.Errorf("got %q, want %q", id, tt.want)
			}
		})
	}
}

func TestIDUnmarshalInvalid(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`{"x":1}`), &id); err == nil {
		t.Fatal("expected error for object id")
	}
}

func TestUserDecodeNullDepartment(t *testing.T) {
	var u User
	raw := `{"id":3,"firstName":"Ada","lastName":"Lovelace","email":"ada@x.io","department":null}`
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.ID != "3" {
		t.Errorf("ID: got %q, want 3", u.ID)
	}
	if u.Department != nil {
		t.Errorf("Department: got %v, want nil", *u.Department)
	}
	if u.DepartmentLabel() != NoDepartment {
		t.Errorf("DepartmentLabel: got %q, want %q", u.DepartmentLabel(), NoDepartment)
	}
	if u.FullName() != "Ada Lovelace" {
		t.Errorf("FullName: got %q", u.FullName())
	}
}

func TestDraftFrom(t *testing.T) {
	dept := "Eng"
	u := User{ID: "9", FirstName: "Grace", LastName: "Hopper", Email: "g@navy.mil", Department: &dept}
	d := DraftFrom(u)
	want := Draft{FirstName: "Grace", LastName: "Hopper", Email: "g@navy.mil", Department: "Eng"}
	if d != want {
		t.Errorf("DraftFrom: got %+v, want %+v", d, want)
	}

	u.Department = nil
	if DraftFrom(u).Department != "" {
		t.Error("nil department should produce empty draft department")
	}
}

func TestDraftTrimmed(t *testing.T) {
	d := Draft{FirstName: "  Ann ", LastName: "Lee\t", Email: " a@b.co", Department: " Ops "}
	got := d.Trimmed()
	want := Draft{FirstName: "Ann", LastName: "Lee", Email: "a@b.co", Department: "Ops"}
	if got != want {
		t.Errorf("Trimmed: got %+v, want %+v", got, want)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{25, 10, 3},
		{30, 10, 3},
		{1, 10, 1},
		{0, 10, 0},
		{10, 0, 0},
		{-1, 10, 0},
		{101, 50, 3},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}

	p := Page{TotalCount: 25}
	if p.TotalPages(10) != 3 {
		t.Errorf("Page.TotalPages: got %d, want 3", p.TotalPages(10))
	}
}

func TestNormalizePageSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultPageSize},
		{-5, DefaultPageSize},
		{25, 25},
		{MaxPageSize, MaxPageSize},
		{500, MaxPageSize},
	}
	for _, tt := range tests {
		if got := NormalizePageSize(tt.in); got != tt.want {
			t.Errorf("NormalizePageSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
