package utils_test

import (
	"testing"

	"github.com/canopyhq/canopy-go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeviceID(t *testing.T) {
	id1 := utils.GenerateDeviceID()
	id2 := utils.GenerateDeviceID()
	require.Len(t, id1, 22)
	assert.NotEqual(t, id1, id2)
	assert.True(t, utils.ValidateDeviceID(id1))
}

func TestValidateDeviceID(t *testing.T) {
	assert.True(t, utils.ValidateDeviceID("olFkumNuZ_J0f_d6-8XCDg"))
	assert.False(t, utils.ValidateDeviceID(""))
	assert.False(t, utils.ValidateDeviceID("not/base64/url!"))
	// valid base64 but not 128 bits
	assert.False(t, utils.ValidateDeviceID("c2hvcnQ"))
}
