package service

import (
	"reflect"
	"testing"
)

func TestExtractHashtags(t *testing.T) {
	testCases := []struct {
		name    string
		caption string
		want    []string
	}{
		{name: "no hashtags", caption: "just a plain caption", want: nil},
		{name: "single hashtag", caption: "loving my new shoes #ootd", want: []string{"ootd"}},
		{name: "multiple hashtags", caption: "#OOTD with #SummerVibes today", want: []string{"ootd", "summervibes"}},
		{name: "order preserved", caption: "#zebra then #apple", want: []string{"zebra", "apple"}},
		{name: "repeated tags kept", caption: "#sale #sale", want: []string{"sale", "sale"}},
		{name: "underscore and digits", caption: "#summer_2024 drop", want: []string{"summer_2024"}},
		{name: "bare hash ignored", caption: "price is # 10", want: nil},
		{name: "empty caption", caption: "", want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractHashtags(tc.caption)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ExtractHashtags(%q) = %v, want %v", tc.caption, got, tc.want)
			}
		})
	}
}

func TestNormalizeHashtags(t *testing.T) {
	testCases := []struct {
		name     string
		explicit []string
		caption  string
		want     []string
	}{
		{
			name:     "explicit wins over caption",
			explicit: []string{"Fashion", "#Style"},
			caption:  "totally different #tags here",
			want:     []string{"fashion", "style"},
		},
		{
			name:    "falls back to caption",
			caption: "check out #NewDrop",
			want:    []string{"newdrop"},
		},
		{
			name:     "blank explicit entries dropped",
			explicit: []string{" ", "#", "keep"},
			want:     []string{"keep"},
		},
		{
			name: "nothing anywhere",
			want: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeHashtags(tc.explicit, tc.caption)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("NormalizeHashtags(%v, %q) = %v, want %v", tc.explicit, tc.caption, got, tc.want)
			}
		})
	}
}

func TestSplitHashtagList(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "comma separated", input: "summer,ootd,fashion", want: []string{"summer", "ootd", "fashion"}},
		{name: "hash prefixes stripped", input: "#summer, #OOTD", want: []string{"summer", "ootd"}},
		{name: "blank tokens dropped", input: "a,,b, ,c", want: []string{"a", "b", "c"}},
		{name: "blank input", input: "  ", want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitHashtagList(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("SplitHashtagList(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
