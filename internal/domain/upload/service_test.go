package upload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateFilenameSanitizes(t *testing.T) {
	name := generateFilename("Smoked Paprika (Hot).JPG")
	assert.True(t, strings.HasPrefix(name, "smoked_paprika_hot_"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.NotContains(t, name, " ")
	assert.NotContains(t, name, "(")
}

func TestGenerateFilenameFallsBackOnEmptyBase(t *testing.T) {
	name := generateFilename("###.png")
	assert.True(t, strings.HasPrefix(name, "image_"))
	assert.True(t, strings.HasSuffix(name, ".png"))
}

func TestGenerateFilenameUnique(t *testing.T) {
	a := generateFilename("sumac.png")
	b := generateFilename("sumac.png")
	assert.NotEqual(t, a, b)
}
