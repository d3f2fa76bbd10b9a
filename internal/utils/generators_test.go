package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderID(t *testing.T) {
	patterns := map[string]*regexp.Regexp{
		CategoryBuffet: regexp.MustCompile(`^BUF-[A-Z0-9]{6}$`),
		CategorySingle: regexp.MustCompile(`^SP-[A-Z0-9]{6}$`),
	}

	for category, pattern := range patterns {
		for i := 0; i < 100; i++ {
			id := GenerateOrderID(category)
			assert.Regexp(t, pattern, id, "category %s", category)
		}
	}
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryBuffet, CategoryOf(GenerateOrderID(CategoryBuffet)))
	assert.Equal(t, CategorySingle, CategoryOf(GenerateOrderID(CategorySingle)))
	assert.Equal(t, "", CategoryOf("XX-ABCDEF"))
	assert.Equal(t, "", CategoryOf("BUFFER"))
	assert.Equal(t, "", CategoryOf(""))
}

func TestGenerateSessionToken(t *testing.T) {
	token := GenerateSessionToken()
	assert.Len(t, token, 32)
	assert.Regexp(t, `^[A-Z0-9]{32}$`, token)

	// Two tokens colliding would mean a broken random source.
	assert.NotEqual(t, token, GenerateSessionToken())
}
