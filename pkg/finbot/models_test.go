package finbot

import "testing"

func TestParsePositions(t *testing.T) {
	positions, err := ParsePositions([]byte(`[{"symbol":"2330.TW","cost":600,"shares":100},{"symbol":"AAPL","cost":150,"shares":10}]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}
	if positions[0].Symbol != "2330.TW" || positions[0].Cost != 600 || positions[0].Shares != 100 {
		t.Fatalf("unexpected first position: %+v", positions[0])
	}
}

func TestParsePositionsInvalid(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"bad json", `{"symbol":"AAPL"}`},
		{"empty list", `[]`},
		{"missing symbol", `[{"symbol":" ","cost":100,"shares":1}]`},
		{"zero cost", `[{"symbol":"AAPL","cost":0,"shares":1}]`},
		{"negative cost", `[{"symbol":"AAPL","cost":-5,"shares":1}]`},
	}
	for _, tc := range cases {
		if _, err := ParsePositions([]byte(tc.in)); !IsErrorCode(err, ErrCodeInvalidInput) {
			t.Fatalf("%s: expected INVALID_INPUT, got %v", tc.name, err)
		}
	}
}

func TestDefaultPositions(t *testing.T) {
	core := New(Options{})
	if len(core.Positions()) != len(DefaultPositions) {
		t.Fatalf("expected demo portfolio by default")
	}
}
