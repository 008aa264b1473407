package visibility

import (
	"context"
	"encoding/json"
	"testing"
)

var groups = []string{"Fields", "Town Base", "Other"}

func TestDefaultsVisible(t *testing.T) {
	s := NewState(groups)
	for _, g := range groups {
		st, ok := s.Get(g)
		if !ok || !st.Visible || st.Opacity != 1 {
			t.Fatalf("%s: %+v ok=%v", g, st, ok)
		}
	}
	if s.Visible("Nope") {
		t.Fatal("unknown group should be hidden")
	}
}

func TestToggleAndOpacity(t *testing.T) {
	s := NewState(groups)
	if st, ok := s.Toggle("Fields"); !ok || st.Visible {
		t.Fatalf("toggle: %+v", st)
	}
	if s.Visible("Fields") {
		t.Fatal("Fields still visible")
	}
	if _, ok := s.Toggle("Nope"); ok {
		t.Fatal("toggle of unknown group reported success")
	}
	s.SetOpacity("Town Base", 1.7)
	if st, _ := s.Get("Town Base"); st.Opacity != 1 {
		t.Fatalf("opacity not clamped: %v", st.Opacity)
	}
	s.SetOpacity("Town Base", -3)
	if st, _ := s.Get("Town Base"); st.Opacity != 0 {
		t.Fatalf("opacity not clamped: %v", st.Opacity)
	}
	s.HideAll()
	for _, g := range groups {
		if s.Visible(g) {
			t.Fatalf("%s visible after HideAll", g)
		}
	}
	s.ShowAll()
	for _, g := range groups {
		if !s.Visible(g) {
			t.Fatalf("%s hidden after ShowAll", g)
		}
	}
	if !s.SetVisible("Fields", false) || s.Visible("Fields") {
		t.Fatal("SetVisible did not hide Fields")
	}
	if s.SetVisible("Bogus", true) || s.Visible("Bogus") {
		t.Fatal("SetVisible must ignore unknown groups")
	}
	s.Reset()
	if st, _ := s.Get("Town Base"); st.Opacity != 1 {
		t.Fatal("reset did not restore opacity")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := NewState(groups)
	s.Toggle("Other")
	s.SetOpacity("Fields", 0.25)
	data, err := s.Export()
	if err != nil {
		t.Fatal(err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil || len(rows) != 3 || rows[0]["groupId"] != "Fields" {
		t.Fatalf("export %s", data)
	}
	other := NewState(groups)
	if err := other.Import(data); err != nil {
		t.Fatal(err)
	}
	if other.Visible("Other") {
		t.Fatal("Other should be hidden after import")
	}
	if st, _ := other.Get("Fields"); st.Opacity != 0.25 {
		t.Fatalf("opacity %v", st.Opacity)
	}
}

func TestImportSkipsInvalidKeepsUnknown(t *testing.T) {
	s := NewState(groups)
	s.HideAll()
	in := `[
		{"groupId":"Fields","visible":false,"opacity":0.5},
		{"groupId":"Custom","visible":true},
		{"groupId":"Town Base","visible":"yes"},
		{"groupId":"Other","visible":null},
		{"visible":true},
		42
	]`
	if err := s.Import([]byte(in)); err != nil {
		t.Fatal(err)
	}
	if st, _ := s.Get("Fields"); st.Visible || st.Opacity != 0.5 {
		t.Fatalf("Fields %+v", st)
	}
	if st, ok := s.Get("Custom"); !ok || !st.Visible || st.Opacity != 1 {
		t.Fatalf("Custom %+v ok=%v", st, ok)
	}
	// 无效条目回落到默认值
	if !s.Visible("Town Base") || !s.Visible("Other") {
		t.Fatal("invalid entries should leave defaults")
	}
	if got := s.Groups(); len(got) != 4 || got[3] != "Custom" {
		t.Fatalf("groups %v", got)
	}
}

func TestImportRejectsNonArray(t *testing.T) {
	s := NewState(groups)
	s.Toggle("Fields")
	if err := s.Import([]byte(`{"groupId":"Fields"}`)); err == nil {
		t.Fatal("object accepted")
	}
	if s.Visible("Fields") {
		t.Fatal("failed import changed state")
	}
}

func TestRestoreAndPersist(t *testing.T) {
	ctx := context.Background()
	store := &MemoryStore{}
	s, err := Restore(ctx, store, groups)
	if err != nil || !s.Visible("Fields") {
		t.Fatalf("restore from empty: %v", err)
	}
	s.Toggle("Fields")
	if err := Persist(ctx, store, s); err != nil {
		t.Fatal(err)
	}
	again, err := Restore(ctx, store, groups)
	if err != nil || again.Visible("Fields") {
		t.Fatalf("restored state lost toggle: %v", err)
	}
	_ = store.Save(ctx, []byte("garbage"))
	fallback, err := Restore(ctx, store, groups)
	if err != nil || !fallback.Visible("Fields") {
		t.Fatalf("corrupt store should give defaults: %v", err)
	}
}
