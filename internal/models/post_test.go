package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeExcerpt(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "short content is returned unchanged",
			content: "A short post.",
			want:    "A short post.",
		},
		{
			name:    "content of exactly 150 characters has no ellipsis",
			content: strings.Repeat("a", 150),
			want:    strings.Repeat("a", 150),
		},
		{
			name:    "longer content is cut at 150 characters",
			content: strings.Repeat("a", 151),
			want:    strings.Repeat("a", 150) + "...",
		},
		{
			name:    "multi-byte characters are not split",
			content: strings.Repeat("é", 200),
			want:    strings.Repeat("é", 150) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MakeExcerpt(tt.content))
		})
	}
}

func TestCalculateReadTime(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "empty content reads in one minute", content: "", want: 1},
		{name: "a single word reads in one minute", content: "hello", want: 1},
		{name: "exactly 200 words is one minute", content: strings.Repeat("word ", 200), want: 1},
		{name: "201 words rounds up to two minutes", content: strings.Repeat("word ", 201), want: 2},
		{name: "250 words is two minutes", content: strings.Repeat("word ", 250), want: 2},
		{name: "1000 words is five minutes", content: strings.Repeat("word ", 1000), want: 5},
		{name: "consecutive whitespace is a single separator", content: "one  \t two \n three", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateReadTime(tt.content))
		})
	}
}

func TestPostDerive(t *testing.T) {
	t.Run("generates excerpt and read time from content", func(t *testing.T) {
		content := strings.Repeat("word ", 250)
		p := Post{Content: content}
		p.Derive()

		assert.Equal(t, MakeExcerpt(content), p.Excerpt)
		assert.Equal(t, strings.Repeat("word ", 30)[:150]+"...", p.Excerpt)
		assert.Equal(t, 2, p.ReadTime)
	})

	t.Run("keeps an author-supplied excerpt", func(t *testing.T) {
		p := Post{Content: strings.Repeat("word ", 250), Excerpt: "my own summary"}
		p.Derive()

		assert.Equal(t, "my own summary", p.Excerpt)
		assert.Equal(t, 2, p.ReadTime)
	})

	t.Run("is idempotent", func(t *testing.T) {
		p := Post{Content: strings.Repeat("word ", 250)}
		p.Derive()
		excerpt, readTime := p.Excerpt, p.ReadTime
		p.Derive()

		assert.Equal(t, excerpt, p.Excerpt)
		assert.Equal(t, readTime, p.ReadTime)
	})
}

func TestPostLikes(t *testing.T) {
	p := Post{Likes: []uint{1, 3}}

	assert.True(t, p.IsLikedBy(1))
	assert.True(t, p.IsLikedBy(3))
	assert.False(t, p.IsLikedBy(2))
	assert.Equal(t, 2, p.LikesCount())

	empty := Post{}
	assert.False(t, empty.IsLikedBy(1))
	assert.Equal(t, 0, empty.LikesCount())
}
