package canopy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canopyhq/canopy-go/canopy"
)

func TestEndpointURL(t *testing.T) {
	ep := canopy.NewEndpoint("https://api.example.com/", "v1/{realm}/devices/{deviceID}")

	u := ep.URL(canopy.Params{"realm": "acme", "deviceID": "dev1"})
	assert.Equal(t, "https://api.example.com/v1/acme/devices/dev1", u)

	// parameter values are percent-encoded exactly once
	u = ep.URL(canopy.Params{"realm": "acme", "deviceID": "a b/c"})
	assert.Equal(t, "https://api.example.com/v1/acme/devices/a%20b%2Fc", u)

	// a missing parameter substitutes as empty; the caller owns that mistake
	u = ep.URL(canopy.Params{"realm": "acme"})
	assert.Equal(t, "https://api.example.com/v1/acme/devices/", u)
}

func TestEndpointURLKeepsPreEncodedValues(t *testing.T) {
	// a value that is already percent-encoded gains a second level, which is
	// what group-name paths rely on
	ep := canopy.NewEndpoint("https://api.example.com", "v1/{realm}/groups/{groupName}")
	u := ep.URL(canopy.Params{"realm": "acme", "groupName": "sports%20team"})
	assert.Equal(t, "https://api.example.com/v1/acme/groups/sports%2520team", u)
}
