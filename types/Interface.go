package types

import (
	"fmt"
)

// InterfaceType distinguishes streamed values from persistent properties.
type InterfaceType string

const (
	InterfaceTypeDatastream InterfaceType = "datastream"
	InterfaceTypeProperties InterfaceType = "properties"
)

// InterfaceOwnership declares which side of the connection writes the interface.
type InterfaceOwnership string

const (
	OwnershipDevice InterfaceOwnership = "device"
	OwnershipServer InterfaceOwnership = "server"
)

// InterfaceAggregation declares whether endpoints are sent individually or as
// a single object per base path.
type InterfaceAggregation string

const (
	AggregationIndividual InterfaceAggregation = "individual"
	AggregationObject     InterfaceAggregation = "object"
)

// Mapping is a single endpoint declaration of an interface.
type Mapping struct {
	// Endpoint path, possibly parameterized, eg /%{sensorID}/value
	Endpoint string
	// value type: double, integer, boolean, longinteger, string, binaryblob,
	// datetime or the corresponding array types
	Type string

	Reliability       string
	Retention         string
	Expiry            int
	ExplicitTimestamp bool
	AllowUnset        bool
	Description       string
	Doc               string
}

// Interface is the domain representation of an interface definition.
// Versioning uses a bare major/minor pair; a major of 0 marks an unstable
// draft interface.
type Interface struct {
	Name        string
	Major       int
	Minor       int
	Type        InterfaceType
	Ownership   InterfaceOwnership
	Aggregation InterfaceAggregation
	Description string
	Doc         string
	Mappings    []Mapping
}

// MappingDTO is the wire format of a Mapping.
type MappingDTO struct {
	Endpoint          string `json:"endpoint"`
	Type              string `json:"type"`
	Reliability       string `json:"reliability,omitempty"`
	Retention         string `json:"retention,omitempty"`
	Expiry            int    `json:"expiry,omitempty"`
	ExplicitTimestamp bool   `json:"explicit_timestamp,omitempty"`
	AllowUnset        bool   `json:"allow_unset,omitempty"`
	Description       string `json:"description,omitempty"`
	Doc               string `json:"doc,omitempty"`
}

// InterfaceDTO is the wire format of an interface definition.
type InterfaceDTO struct {
	Name        string       `json:"interface_name"`
	Major       int          `json:"version_major"`
	Minor       int          `json:"version_minor"`
	Type        string       `json:"type"`
	Ownership   string       `json:"ownership"`
	Aggregation string       `json:"aggregation,omitempty"`
	Description string       `json:"description,omitempty"`
	Doc         string       `json:"doc,omitempty"`
	Mappings    []MappingDTO `json:"mappings"`
}

// ToDTO converts the interface to its wire format.
func (iface *Interface) ToDTO() *InterfaceDTO {
	dto := &InterfaceDTO{
		Name:        iface.Name,
		Major:       iface.Major,
		Minor:       iface.Minor,
		Type:        string(iface.Type),
		Ownership:   string(iface.Ownership),
		Aggregation: string(iface.Aggregation),
		Description: iface.Description,
		Doc:         iface.Doc,
		Mappings:    make([]MappingDTO, 0, len(iface.Mappings)),
	}
	for _, m := range iface.Mappings {
		dto.Mappings = append(dto.Mappings, MappingDTO(m))
	}
	return dto
}

// InterfaceFromDTO converts a wire interface definition to its domain
// representation.
func InterfaceFromDTO(dto *InterfaceDTO) (*Interface, error) {
	if dto.Name == "" {
		return nil, fmt.Errorf("InterfaceFromDTO: missing interface_name")
	}
	if len(dto.Mappings) == 0 {
		return nil, fmt.Errorf("InterfaceFromDTO: interface '%s' has no mappings", dto.Name)
	}
	aggregation := InterfaceAggregation(dto.Aggregation)
	if aggregation == "" {
		aggregation = AggregationIndividual
	}
	iface := &Interface{
		Name:        dto.Name,
		Major:       dto.Major,
		Minor:       dto.Minor,
		Type:        InterfaceType(dto.Type),
		Ownership:   InterfaceOwnership(dto.Ownership),
		Aggregation: aggregation,
		Description: dto.Description,
		Doc:         dto.Doc,
		Mappings:    make([]Mapping, 0, len(dto.Mappings)),
	}
	for _, m := range dto.Mappings {
		iface.Mappings = append(iface.Mappings, Mapping(m))
	}
	return iface, nil
}
