package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelp(t *testing.T) {
	h := Help()
	assert.Contains(t, h, "# Rolling dice")
	assert.Contains(t, h, "`2d6+3`")
}
