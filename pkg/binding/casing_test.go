package binding

import "testing"

func TestCasingConversions(t *testing.T) {
	t.Parallel()

	c := Casing{}

	tests := []struct {
		method string
		fn     func(string) string
		in     string
		want   string
	}{
		{"Pascal", c.Pascal, "user_profile", "UserProfile"},
		{"Pascal", c.Pascal, "user profile", "UserProfile"},
		{"Pascal", c.Pascal, "API_key", "APIKey"},
		{"Camel", c.Camel, "UserProfile", "userProfile"},
		{"Camel", c.Camel, "user_profile", "userProfile"},
		{"Camel", c.Camel, "API_key", "apiKey"},
		{"Snake", c.Snake, "UserProfile", "user_profile"},
		{"Snake", c.Snake, "APIKey", "api_key"},
		{"Snake", c.Snake, "already_snake", "already_snake"},
		{"Kebab", c.Kebab, "UserProfile", "user-profile"},
		{"Upper", c.Upper, "role", "ROLE"},
		{"Lower", c.Lower, "ROLE", "role"},
		{"Receiver", c.Receiver, "User", "u"},
		{"Receiver", c.Receiver, "", "x"},
	}
	for _, tc := range tests {
		if got := tc.fn(tc.in); got != tc.want {
			t.Fatalf("%s(%q) = %q, want %q", tc.method, tc.in, got, tc.want)
		}
	}
}

func TestSplitWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"UserProfile", []string{"User", "Profile"}},
		{"APIKey", []string{"API", "Key"}},
		{"user_id", []string{"user", "id"}},
		{"mixed-case string", []string{"mixed", "case", "string"}},
		{"", nil},
	}
	for _, tc := range tests {
		got := splitWords(tc.in)
		if len(got) != len(tc.want) {
			t.Fatalf("splitWords(%q) = %v, want %v", tc.in, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("splitWords(%q) = %v, want %v", tc.in, got, tc.want)
			}
		}
	}
}
