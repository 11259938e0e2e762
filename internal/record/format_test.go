package record

import "testing"

func TestFormatMillis(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0:00.000"},
		{-100, "0:00.000"},
		{999, "0:00.999"},
		{1000, "0:01.000"},
		{59999, "0:59.999"},
		{60000, "1:00.000"},
		{580000, "9:40.000"},
		{620000, "10:20.000"},
		{650000, "10:50.000"},
		{3599999, "59:59.999"},
		{3600000, "1:00:00.000"},
		{3661234, "1:01:01.234"},
	}
	for _, c := range cases {
		if got := FormatMillis(c.ms); got != c.want {
			t.Fatalf("FormatMillis(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}
