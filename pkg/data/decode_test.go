package data_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ymlgen/pkg/data"
)

var entries = cmp.Transformer("entries", (*data.Map).Entries)

func TestDecode_PreservesDocumentOrder(t *testing.T) {
	raw := []byte(`
zeta: 1
alpha:
  second: two
  first: [1, 2]
mid: true
`)
	got, err := data.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := data.MapOf(
		"zeta", 1,
		"alpha", data.MapOf(
			"second", "two",
			"first", []any{1, 2},
		),
		"mid", true,
	)
	if diff := cmp.Diff(want, got, entries); diff != "" {
		t.Fatalf("decoded tree mismatch (-want +got):\n%s", diff)
	}

	m := got.(*data.Map)
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, m.Keys()); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Empty(t *testing.T) {
	for _, raw := range []string{"", "   \n", "# only a comment\n"} {
		got, err := data.Decode([]byte(raw))
		if err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		if got != nil {
			t.Fatalf("decode %q: expected nil, got %#v", raw, got)
		}
	}
}

func TestDecode_JSON(t *testing.T) {
	got, err := data.Decode([]byte(`{"b": {"c": 1.5}, "a": ["x", null]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := data.MapOf(
		"b", data.MapOf("c", 1.5),
		"a", []any{"x", nil},
	)
	if diff := cmp.Diff(want, got, entries); diff != "" {
		t.Fatalf("decoded tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_AliasesAndMergeKeys(t *testing.T) {
	raw := []byte(`
base: &base
  host: localhost
  port: 80
service:
  <<: *base
  port: 8080
`)
	got, err := data.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	service := data.Select(got, "service")
	want := data.MapOf("port", 8080, "host", "localhost")
	if diff := cmp.Diff(want, service, entries); diff != "" {
		t.Fatalf("merge key mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_InvalidYAML(t *testing.T) {
	if _, err := data.Decode([]byte("a: [1, 2")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMap_MarshalJSON(t *testing.T) {
	m := data.MapOf("b", 1, "a", data.MapOf("z", "x", "y", []any{true}))
	b, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `{"b":1,"a":{"z":"x","y":[true]}}`; string(b) != want {
		t.Fatalf("marshal mismatch\nwant: %s\n got: %s", want, b)
	}
}

func TestMap_SetDelete(t *testing.T) {
	m := data.NewMap()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 3)
	m.Delete("missing")
	m.Delete("b")
	m.Set("c", 4)

	want := []data.Entry{{Key: "a", Value: 3}, {Key: "c", Value: 4}}
	if diff := cmp.Diff(want, m.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}
