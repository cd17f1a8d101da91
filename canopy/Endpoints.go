package canopy

import (
	"net/url"
	"strings"

	"github.com/canopyhq/canopy-go/utils"
)

// Params are the named path parameters of an endpoint.
type Params map[string]string

// Endpoint formats a fully qualified URL from a base URL and a parameterized
// path. It is a pure function of its parameters with no hidden state.
//
// Parameter values are percent-encoded before substitution. Parameters not
// present in the supplied record substitute as empty, producing a malformed
// URL; that is a caller programming error, not a handled failure.
type Endpoint struct {
	base string
	path string
}

// NewEndpoint builds an endpoint from a base URL and a path template with
// {name} parameters, eg "v1/{realm}/devices/{deviceID}".
func NewEndpoint(baseURL string, path string) Endpoint {
	return Endpoint{
		base: strings.TrimRight(baseURL, "/"),
		path: path,
	}
}

// URL resolves the endpoint path against its base URL.
func (ep Endpoint) URL(params Params) string {
	escaped := make(map[string]string, len(params))
	for name, value := range params {
		escaped[name] = url.PathEscape(value)
	}
	return ep.base + "/" + utils.Substitute(ep.path, escaped)
}

// endpointTable maps every logical backend operation to its URL builder.
// It is built once at client construction from the four plane base URLs; the
// realm placeholder is substituted per call from live client state, so a
// realm change after construction is honored.
type endpointTable struct {
	// device-data plane
	devices         Endpoint
	device          Endpoint
	deviceInterface Endpoint
	groups          Endpoint
	group           Endpoint
	groupDevices    Endpoint
	groupDevice     Endpoint
	appEngineHealth Endpoint

	// interface/trigger management plane
	interfaces            Endpoint
	interfaceMajors       Endpoint
	interfaceVersion      Endpoint
	triggers              Endpoint
	trigger               Endpoint
	policies              Endpoint
	policy                Endpoint
	realmManagementHealth Endpoint

	// pairing plane
	agentDevices  Endpoint
	agentDevice   Endpoint
	pairingHealth Endpoint

	// flow plane
	pipelines  Endpoint
	pipeline   Endpoint
	flows      Endpoint
	flow       Endpoint
	blocks     Endpoint
	block      Endpoint
	flowHealth Endpoint
}

func newEndpointTable(cfg *Config) endpointTable {
	appEngine := cfg.AppEngineURL
	realmMgmt := cfg.RealmManagementURL
	pairing := cfg.PairingURL
	flow := cfg.FlowURL

	return endpointTable{
		devices:         NewEndpoint(appEngine, "v1/{realm}/devices"),
		device:          NewEndpoint(appEngine, "v1/{realm}/devices/{deviceID}"),
		deviceInterface: NewEndpoint(appEngine, "v1/{realm}/devices/{deviceID}/interfaces/{interfaceName}"),
		groups:          NewEndpoint(appEngine, "v1/{realm}/groups"),
		group:           NewEndpoint(appEngine, "v1/{realm}/groups/{groupName}"),
		groupDevices:    NewEndpoint(appEngine, "v1/{realm}/groups/{groupName}/devices"),
		groupDevice:     NewEndpoint(appEngine, "v1/{realm}/groups/{groupName}/devices/{deviceID}"),
		appEngineHealth: NewEndpoint(appEngine, "health"),

		interfaces:            NewEndpoint(realmMgmt, "v1/{realm}/interfaces"),
		interfaceMajors:       NewEndpoint(realmMgmt, "v1/{realm}/interfaces/{interfaceName}"),
		interfaceVersion:      NewEndpoint(realmMgmt, "v1/{realm}/interfaces/{interfaceName}/{interfaceMajor}"),
		triggers:              NewEndpoint(realmMgmt, "v1/{realm}/triggers"),
		trigger:               NewEndpoint(realmMgmt, "v1/{realm}/triggers/{triggerName}"),
		policies:              NewEndpoint(realmMgmt, "v1/{realm}/policies"),
		policy:                NewEndpoint(realmMgmt, "v1/{realm}/policies/{policyName}"),
		realmManagementHealth: NewEndpoint(realmMgmt, "health"),

		agentDevices:  NewEndpoint(pairing, "v1/{realm}/agent/devices"),
		agentDevice:   NewEndpoint(pairing, "v1/{realm}/agent/devices/{deviceID}"),
		pairingHealth: NewEndpoint(pairing, "health"),

		pipelines:  NewEndpoint(flow, "v1/{realm}/pipelines"),
		pipeline:   NewEndpoint(flow, "v1/{realm}/pipelines/{pipelineName}"),
		flows:      NewEndpoint(flow, "v1/{realm}/flows"),
		flow:       NewEndpoint(flow, "v1/{realm}/flows/{flowName}"),
		blocks:     NewEndpoint(flow, "v1/{realm}/blocks"),
		block:      NewEndpoint(flow, "v1/{realm}/blocks/{blockName}"),
		flowHealth: NewEndpoint(flow, "health"),
	}
}
