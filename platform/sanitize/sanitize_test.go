package sanitize

import "testing"

func TestName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "  Ada  ", want: "Ada"},
		{in: "Ada\t \nKing", want: "Ada King"},
		{in: "<b>Ada</b>", want: "Ada"},
		{in: "&lt;script&gt;alert(1)&lt;/script&gt;Ada", want: "alert(1)Ada"},
		{in: "O&#39;Brien", want: "O'Brien"},
		{in: "   ", want: ""},
	}
	for _, tc := range cases {
		if got := Name(tc.in); got != tc.want {
			t.Fatalf("Name(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNamePtr(t *testing.T) {
	if NamePtr(nil) != nil {
		t.Fatalf("expected nil to stay nil")
	}
	in := " <i>Grace</i> "
	if got := NamePtr(&in); got == nil || *got != "Grace" {
		t.Fatalf("unexpected result %v", got)
	}
}
