package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	cases := map[string]string{
		"<b>What</b> is AI?":            "What is AI?",
		"no tags here":                  "no tags here",
		"<script>alert(1)</script>Hi":   "alert(1)Hi",
		"a < b and c > d":               "a  d",
		"<<nested>>":                    ">",
		"<p class=\"x\">Who</p> knows?": "Who knows?",
		"":                              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripTags(in), "input %q", in)
	}
}

func TestStripTags_Idempotent(t *testing.T) {
	for _, in := range []string{"<b>What</b> is AI?", "plain", "<i>x</i><u>y</u>"} {
		once := StripTags(in)
		assert.Equal(t, once, StripTags(once))
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", TruncateRunes("abc", 0))
	assert.Equal(t, "ab", TruncateRunes("abc", 2))
	assert.Equal(t, "abc", TruncateRunes("abc", 5))
	assert.Equal(t, "пр", TruncateRunes("привет", 2))
}
