package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := map[string]string{
		"  Medellín  ":                        "Medellín",
		"<b>Ana</b>   María":                  "Ana María",
		"&lt;script&gt;alert(1)&lt;/script&gt;": "alert(1)",
		"Alimentos\n\t y bebidas":             "Alimentos y bebidas",
		"AT&amp;T":                            "AT&T",
	}
	for in, want := range cases {
		if got := Text(in); got != want {
			t.Fatalf("Text(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestTextPtr(t *testing.T) {
	if TextPtr(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
	in := " <i>Cali</i> "
	if got := TextPtr(&in); got == nil || *got != "Cali" {
		t.Fatalf("unexpected result %v", got)
	}
}
