package types

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseStringList(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want StringList
	}{
		{"json array", `["React","Node.js"]`, StringList{"React", "Node.js"}},
		{"comma separated", "React, Node.js", StringList{"React", "Node.js"}},
		{"malformed json falls back to split", `[React`, StringList{"[React"}},
		{"empty string", "", nil},
		{"blank entries dropped", "Go, , ,Postgres", StringList{"Go", "Postgres"}},
		{"json array trims entries", `[" Go ",""]`, StringList{"Go"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseStringList(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseStringList(%q) = %#v, want %#v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestStringListUnmarshalJSON(t *testing.T) {
	var fromArray struct {
		Tech StringList `json:"tech"`
	}
	if err := json.Unmarshal([]byte(`{"tech":["Go","Postgres"]}`), &fromArray); err != nil {
		t.Fatalf("unmarshal array: %v", err)
	}
	if !reflect.DeepEqual(fromArray.Tech, StringList{"Go", "Postgres"}) {
		t.Fatalf("unexpected list from array: %#v", fromArray.Tech)
	}

	var fromString struct {
		Tech StringList `json:"tech"`
	}
	if err := json.Unmarshal([]byte(`{"tech":"Go, Postgres"}`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if !reflect.DeepEqual(fromString.Tech, StringList{"Go", "Postgres"}) {
		t.Fatalf("unexpected list from string: %#v", fromString.Tech)
	}
}
