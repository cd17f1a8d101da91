package types

import "fmt"

// TriggerAction describes the delivery target of a trigger.
// Only http actions are supported by the control plane at this time.
type TriggerAction struct {
	HTTPURL           string            `json:"http_url,omitempty"`
	HTTPMethod        string            `json:"http_method,omitempty"`
	HTTPStaticHeaders map[string]string `json:"http_static_headers,omitempty"`
	IgnoreSSLErrors   bool              `json:"ignore_ssl_errors,omitempty"`
	TemplateType      string            `json:"template_type,omitempty"`
	Template          string            `json:"template,omitempty"`
}

// SimpleTrigger is a single match condition of a trigger.
type SimpleTrigger struct {
	// Type is either data_trigger or device_trigger
	Type string `json:"type"`
	// On names the condition, eg incoming_data, value_change,
	// device_connected, device_disconnected
	On string `json:"on"`

	InterfaceName      string `json:"interface_name,omitempty"`
	InterfaceMajor     *int   `json:"interface_major,omitempty"`
	MatchPath          string `json:"match_path,omitempty"`
	ValueMatchOperator string `json:"value_match_operator,omitempty"`
	KnownValue         any    `json:"known_value,omitempty"`
	DeviceID           string `json:"device_id,omitempty"`
	GroupName          string `json:"group_name,omitempty"`
}

// Trigger is the domain representation of an installed trigger.
type Trigger struct {
	Name           string
	Action         TriggerAction
	SimpleTriggers []SimpleTrigger
	// Policy optionally names the delivery policy applied on failures
	Policy string
}

// TriggerDTO is the wire format of a trigger.
type TriggerDTO struct {
	Name           string          `json:"name"`
	Action         TriggerAction   `json:"action"`
	SimpleTriggers []SimpleTrigger `json:"simple_triggers"`
	Policy         string          `json:"policy,omitempty"`
}

func (t *Trigger) ToDTO() *TriggerDTO {
	return &TriggerDTO{
		Name:           t.Name,
		Action:         t.Action,
		SimpleTriggers: t.SimpleTriggers,
		Policy:         t.Policy,
	}
}

func TriggerFromDTO(dto *TriggerDTO) (*Trigger, error) {
	if dto.Name == "" {
		return nil, fmt.Errorf("TriggerFromDTO: missing trigger name")
	}
	return &Trigger{
		Name:           dto.Name,
		Action:         dto.Action,
		SimpleTriggers: dto.SimpleTriggers,
		Policy:         dto.Policy,
	}, nil
}

// PolicyErrorHandler maps a class of delivery errors to a strategy.
type PolicyErrorHandler struct {
	// On is any_error, client_error, server_error or a list of status codes
	On any `json:"on"`
	// Strategy is discard or retry
	Strategy string `json:"strategy"`
}

// TriggerDeliveryPolicy controls retries and buffering of trigger deliveries.
type TriggerDeliveryPolicy struct {
	Name            string               `json:"name"`
	ErrorHandlers   []PolicyErrorHandler `json:"error_handlers"`
	MaximumCapacity int                  `json:"maximum_capacity,omitempty"`
	RetryTimes      int                  `json:"retry_times,omitempty"`
	EventTTL        int                  `json:"event_ttl,omitempty"`
}
