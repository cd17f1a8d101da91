package utils_test

import (
	"testing"

	"github.com/canopyhq/canopy-go/utils"
	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	vars := map[string]string{"realm": "test", "deviceID": "d1"}

	s := utils.Substitute("v1/{realm}/devices/{deviceID}", vars)
	assert.Equal(t, "v1/test/devices/d1", s)

	// unknown variables substitute as empty
	s = utils.Substitute("v1/{realm}/groups/{groupName}", vars)
	assert.Equal(t, "v1/test/groups/", s)

	// no variables
	s = utils.Substitute("health", vars)
	assert.Equal(t, "health", s)

	// unterminated brace is left as-is
	s = utils.Substitute("v1/{realm", vars)
	assert.Equal(t, "v1/{realm", s)
}
