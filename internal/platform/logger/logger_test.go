package logger

import "testing"

func TestSanitizeKVs(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  interface{}
		want interface{}
	}{
		{name: "redacts_dsn", key: "postgres_dsn", val: "postgres://u:p@h/db", want: "[REDACTED]"},
		{name: "redacts_email", key: "contact_email", val: "chef@example.com", want: "[REDACTED]"},
		{name: "keeps_location", key: "location_id", val: "loc-1", want: "loc-1"},
		{name: "keeps_score", key: "overall_score", val: 88.5, want: 88.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := sanitizeKVs([]interface{}{tc.key, tc.val})
			if len(out) != 2 {
				t.Fatalf("len=%d want 2", len(out))
			}
			if out[1] != tc.want {
				t.Fatalf("sanitize(%q)=%v, want %v", tc.key, out[1], tc.want)
			}
		})
	}
}

func TestHashValueIsStable(t *testing.T) {
	a := hashValue("Maria Lopez")
	b := hashValue("Maria Lopez")
	if a != b || a == "" {
		t.Fatalf("hash not stable: %q vs %q", a, b)
	}
	if len(a) != len("hash:")+12 {
		t.Fatalf("unexpected hash length: %q", a)
	}
}

func TestNewTestModeIsNop(t *testing.T) {
	l, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("discarded", "k", "v")
	l.Sync()
}
