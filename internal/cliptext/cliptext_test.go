package cliptext

import (
	"reflect"
	"testing"
)

func TestParseBasic(t *testing.T) {
	got := Parse("x\ty\nz\tw")
	want := [][]string{{"x", "y"}, {"z", "w"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse() = %q, want %q", got, want)
	}
}

func TestParseLineEndings(t *testing.T) {
	cases := map[string][][]string{
		"":              nil,
		"a\r\nb\rc\n":   {{"a"}, {"b"}, {"c"}},
		"a\n\n":         {{"a"}, {""}},
		"a\t":           {{"a", ""}},
		"\t\n":          {{"", ""}},
		"only":          {{"only"}},
		"1\t2\r\n3\t4":  {{"1", "2"}, {"3", "4"}},
		"a\tb\nc":       {{"a", "b"}, {"c"}},
		"\"\"":          {{""}},
		"say \"hi\"\tx": {{"say \"hi\"", "x"}},
	}
	for in, want := range cases {
		if got := Parse(in); !reflect.DeepEqual(got, want) {
			t.Fatalf("Parse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseQuotedCells(t *testing.T) {
	got := Parse("\"a\nb\"\t\"he said \"\"no\"\"\"\nnext")
	want := [][]string{{"a\nb", "he said \"no\""}, {"next"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse() = %q, want %q", got, want)
	}
}

func TestParseUnterminatedQuote(t *testing.T) {
	got := Parse("\"open\tcell\nstill")
	want := [][]string{{"open\tcell\nstill"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse() = %q, want %q", got, want)
	}
}

func TestEncodeQuotesLineBreaksOnly(t *testing.T) {
	got := Encode([][]string{{"a", "b\nc"}, {"", "x\"y\nz"}})
	want := "a\t\"b\nc\"\n\t\"x\"\"y\nz\""
	if got != want {
		t.Fatalf("Encode() = %q, want %q", got, want)
	}
	if got := Encode([][]string{{"plain \"quoted\" word"}}); got != "plain \"quoted\" word" {
		t.Fatalf("Encode() = %q, want no quoting", got)
	}
}

func TestRoundTrip(t *testing.T) {
	rects := [][][]string{
		{{"a", "b", "c"}, {"d", "e", "f"}},
		{{"a\nb"}},
		{{"multi\r\nline \"quoted\"", ""}, {"", "tail"}},
		{{"\"leading quote"}},
		{{"", ""}, {"x", ""}},
		{{"a"}, {""}},
		{{""}},
		{{"a", "b"}, {"", ""}},
		{{"a"}, {""}, {""}},
	}
	for _, rect := range rects {
		if got := Parse(Encode(rect)); !reflect.DeepEqual(got, rect) {
			t.Fatalf("Parse(Encode(%q)) = %q", rect, got)
		}
	}
}

func TestEncodeBlankLastRow(t *testing.T) {
	cases := []struct {
		rows [][]string
		want string
	}{
		{rows: [][]string{{"a"}, {""}}, want: "a\n\"\""},
		{rows: [][]string{{""}}, want: "\"\""},
		{rows: [][]string{{"a", "b"}, {"", ""}}, want: "a\tb\n\"\"\t"},
		{rows: [][]string{{""}, {"x"}}, want: "\nx"},
	}
	for _, tc := range cases {
		if got := Encode(tc.rows); got != tc.want {
			t.Fatalf("Encode(%q) = %q, want %q", tc.rows, got, tc.want)
		}
	}
}

func TestWidth(t *testing.T) {
	if got := Width([][]string{{"a"}, {"b", "c", "d"}, {}}); got != 3 {
		t.Fatalf("Width() = %d, want 3", got)
	}
	if got := Width(nil); got != 0 {
		t.Fatalf("Width(nil) = %d, want 0", got)
	}
}
