package schemamodel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func idsOf(m SchemaModel) []string {
	out := make([]string, 0, len(m.Properties))
	for _, prop := range m.Properties {
		out = append(out, prop.ID)
	}
	return out
}

func abcdModel() SchemaModel {
	var m SchemaModel
	for _, id := range []string{"a", "b", "c", "d"} {
		m.Add(SchemaModelProperty{ID: id, Title: id, Type: TypeString})
	}
	return m
}

func TestSchemaModelMove(t *testing.T) {
	cases := []struct {
		from, to int
		want     []string
	}{
		{from: 0, to: 3, want: []string{"b", "c", "d", "a"}},
		{from: 3, to: 0, want: []string{"d", "a", "b", "c"}},
		{from: 1, to: 2, want: []string{"a", "c", "b", "d"}},
		{from: 2, to: 2, want: []string{"a", "b", "c", "d"}},
	}
	for _, tc := range cases {
		m := abcdModel()
		if err := m.Move(tc.from, tc.to); err != nil {
			t.Fatalf("move %d->%d: %v", tc.from, tc.to, err)
		}
		if diff := cmp.Diff(tc.want, idsOf(m)); diff != "" {
			t.Fatalf("move %d->%d mismatch (-want +got):\n%s", tc.from, tc.to, diff)
		}
	}

	m := abcdModel()
	if err := m.Move(-1, 2); err == nil {
		t.Fatalf("expected out of range error")
	}
	if err := m.Move(0, 4); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestSchemaModelRemoveAndIndex(t *testing.T) {
	m := abcdModel()
	if err := m.Remove(m.Index("b")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c", "d"}, idsOf(m)); diff != "" {
		t.Fatalf("remove mismatch (-want +got):\n%s", diff)
	}
	if got := m.Index("b"); got != -1 {
		t.Fatalf("expected removed id to be missing, got index %d", got)
	}
	if err := m.Remove(5); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestSchemaModelSanitize(t *testing.T) {
	m := SchemaModel{Properties: []SchemaModelProperty{
		{ID: "bio", Title: "<b>Bio</b>", Description: `Tom & Jerry <script>alert(1)</script>`, Type: TypeString},
		{ID: "plain", Title: "Plain", Description: "nothing to do", Type: TypeNumber},
	}}

	got := m.Sanitize()
	want := SchemaModel{Properties: []SchemaModelProperty{
		{ID: "bio", Title: "Bio", Description: "Tom & Jerry", Type: TypeString},
		{ID: "plain", Title: "Plain", Description: "nothing to do", Type: TypeNumber},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sanitize mismatch (-want +got):\n%s", diff)
	}
	if m.Properties[0].Title != "<b>Bio</b>" {
		t.Fatalf("sanitize must not modify the receiver")
	}
}

func TestSchemaModelResolveIDs(t *testing.T) {
	m := SchemaModel{Properties: []SchemaModelProperty{
		{Title: "a<b>c"},
		{ID: "kept", Title: "Other"},
	}}

	got := m.ResolveIDs()
	if diff := cmp.Diff([]string{"abc", "kept"}, idsOf(got)); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if m.Properties[0].ID != "" {
		t.Fatalf("expected receiver to be left untouched")
	}
}
