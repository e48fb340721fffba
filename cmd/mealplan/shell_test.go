package mealplan

import (
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	t.Parallel()
	cases := map[string][]string{
		`meal add --name "Caesar salad"`: {"meal", "add", "--name", "Caesar salad"},
		`notes 'it''s'`:                  {"notes", "its"},
		`a\ b   c`:                       {"a b", "c"},
		`x ""`:                           {"x", ""},
		`say "quote \" inside"`:          {"say", `quote " inside`},
		"   ":                            nil,
		"tab\tseparated":                 {"tab", "separated"},
	}
	for line, want := range cases {
		got, err := splitArgs(line)
		if err != nil {
			t.Fatalf("%q: %v", line, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%q: got %#v want %#v", line, got, want)
		}
	}
	if _, err := splitArgs(`meal "open`); err == nil {
		t.Fatalf("expected unterminated quote error")
	}
}
