package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductImagePath(t *testing.T) {
	assert.Equal(t, "products/12.png", ProductImagePath(12, "Boss.PNG"))
	assert.Equal(t, "products/3", ProductImagePath(3, "noext"))
}

func TestImageContentType(t *testing.T) {
	assert.Equal(t, "image/png", ImageContentType("a.png"))
	assert.Equal(t, "application/octet-stream", ImageContentType("a.unknownext"))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/bkt/products/1.jpg", PublicURL("bkt", "products/1.jpg"))
}
