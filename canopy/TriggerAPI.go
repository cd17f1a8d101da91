package canopy

import (
	"context"
	"fmt"

	"github.com/canopyhq/canopy-go/types"
)

// ListTriggers returns the names of the realm's installed triggers.
func (c *Client) ListTriggers(ctx context.Context) ([]string, error) {
	var names []string
	err := c.getData(ctx, c.url(c.endpoints.triggers, nil), nil, &names)
	return names, err
}

// GetTrigger returns one installed trigger.
func (c *Client) GetTrigger(ctx context.Context, triggerName string) (*types.Trigger, error) {
	if triggerName == "" {
		return nil, fmt.Errorf("GetTrigger: trigger name: %w", ErrEmptyIdentifier)
	}
	dto := &types.TriggerDTO{}
	err := c.getData(ctx, c.url(c.endpoints.trigger, Params{"triggerName": triggerName}), nil, dto)
	if err != nil {
		return nil, err
	}
	return types.TriggerFromDTO(dto)
}

// InstallTrigger installs a new trigger in the realm.
func (c *Client) InstallTrigger(ctx context.Context, trigger *types.Trigger) error {
	if trigger.Name == "" {
		return fmt.Errorf("InstallTrigger: trigger name: %w", ErrEmptyIdentifier)
	}
	return c.postData(ctx, c.url(c.endpoints.triggers, nil), trigger.ToDTO(), nil)
}

// DeleteTrigger removes an installed trigger.
func (c *Client) DeleteTrigger(ctx context.Context, triggerName string) error {
	if triggerName == "" {
		return fmt.Errorf("DeleteTrigger: trigger name: %w", ErrEmptyIdentifier)
	}
	return c.delete(ctx, c.url(c.endpoints.trigger, Params{"triggerName": triggerName}))
}

// ListPolicies returns the names of the realm's trigger delivery policies.
func (c *Client) ListPolicies(ctx context.Context) ([]string, error) {
	var names []string
	err := c.getData(ctx, c.url(c.endpoints.policies, nil), nil, &names)
	return names, err
}

// GetPolicy returns one trigger delivery policy.
func (c *Client) GetPolicy(ctx context.Context, policyName string) (*types.TriggerDeliveryPolicy, error) {
	if policyName == "" {
		return nil, fmt.Errorf("GetPolicy: policy name: %w", ErrEmptyIdentifier)
	}
	policy := &types.TriggerDeliveryPolicy{}
	err := c.getData(ctx, c.url(c.endpoints.policy, Params{"policyName": policyName}), nil, policy)
	if err != nil {
		return nil, err
	}
	return policy, nil
}

// InstallPolicy installs a new trigger delivery policy.
func (c *Client) InstallPolicy(ctx context.Context, policy *types.TriggerDeliveryPolicy) error {
	if policy.Name == "" {
		return fmt.Errorf("InstallPolicy: policy name: %w", ErrEmptyIdentifier)
	}
	return c.postData(ctx, c.url(c.endpoints.policies, nil), policy, nil)
}

// DeletePolicy removes a trigger delivery policy.
// The backend rejects deleting a policy that triggers still reference.
func (c *Client) DeletePolicy(ctx context.Context, policyName string) error {
	if policyName == "" {
		return fmt.Errorf("DeletePolicy: policy name: %w", ErrEmptyIdentifier)
	}
	return c.delete(ctx, c.url(c.endpoints.policy, Params{"policyName": policyName}))
}
