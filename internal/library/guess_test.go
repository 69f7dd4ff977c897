package library

import "testing"

func TestGuessEpisodeNumber(t *testing.T) {
	exts := []string{".mkv", ".mp4"}
	cases := []struct {
		file   string
		custom string
		want   int
		ok     bool
	}{
		{file: "Show S01E05.mkv", want: 5, ok: true},
		{file: "Show ep12.mkv", want: 12, ok: true},
		{file: "[Group] Show - 07 [1080p].mkv", want: 7, ok: true},
		{file: "Show - 03v2.mkv", want: 3, ok: true},
		{file: "Show_s2_104.mp4", want: 104, ok: true},
		{file: "Show 10-bit.mkv", ok: false},
		{file: "Show 1080p.mkv", ok: false},
		{file: "Credits.mkv", ok: false},
		{file: "Show Part4.mkv", custom: `Part(\d+)`, want: 4, ok: true},
		{file: "Show Part4 - 09.mkv", custom: `Part(\d+)`, want: 4, ok: true},
		{file: "Show 12.final.mkv", custom: `\s(\d+)(?=\.final)`, want: 12, ok: true},
	}
	for _, tc := range cases {
		got, ok, err := GuessEpisodeNumber(tc.file, tc.custom, exts)
		if err != nil {
			t.Fatalf("%s: %v", tc.file, err)
		}
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: got %d/%v, want %d/%v", tc.file, got, ok, tc.want, tc.ok)
		}
	}
}

func TestGuessEpisodeNumberRejectsBadCustomPattern(t *testing.T) {
	if _, _, err := GuessEpisodeNumber("Show 01.mkv", "(", []string{".mkv"}); err == nil {
		t.Fatal("expected compile error")
	}
}
