package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{in: "Hello World", want: "hello-world"},
		{in: "  Hello,   World!  ", want: "hello-world"},
		{in: "Go 1.22 release", want: "go-1-22-release"},
		{in: "already-a-slug", want: "already-a-slug"},
		{in: "我的 第一篇 博客", want: "我的-第一篇-博客"},
		{in: "!!!", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}
