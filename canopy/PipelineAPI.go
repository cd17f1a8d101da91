package canopy

import (
	"context"
	"fmt"

	"github.com/canopyhq/canopy-go/types"
)

// ListPipelines returns the names of the realm's registered pipelines.
func (c *Client) ListPipelines(ctx context.Context) ([]string, error) {
	var names []string
	err := c.getData(ctx, c.url(c.endpoints.pipelines, nil), nil, &names)
	return names, err
}

// GetPipeline returns one registered pipeline.
func (c *Client) GetPipeline(ctx context.Context, pipelineName string) (*types.Pipeline, error) {
	if pipelineName == "" {
		return nil, fmt.Errorf("GetPipeline: pipeline name: %w", ErrEmptyIdentifier)
	}
	dto := &types.PipelineDTO{}
	err := c.getData(ctx, c.url(c.endpoints.pipeline, Params{"pipelineName": pipelineName}), nil, dto)
	if err != nil {
		return nil, err
	}
	return types.PipelineFromDTO(dto)
}

// InstallPipeline registers a new pipeline on the flow plane.
func (c *Client) InstallPipeline(ctx context.Context, pipeline *types.Pipeline) error {
	if pipeline.Name == "" {
		return fmt.Errorf("InstallPipeline: pipeline name: %w", ErrEmptyIdentifier)
	}
	return c.postData(ctx, c.url(c.endpoints.pipelines, nil), pipeline.ToDTO(), nil)
}

// DeletePipeline removes a registered pipeline.
func (c *Client) DeletePipeline(ctx context.Context, pipelineName string) error {
	if pipelineName == "" {
		return fmt.Errorf("DeletePipeline: pipeline name: %w", ErrEmptyIdentifier)
	}
	return c.delete(ctx, c.url(c.endpoints.pipeline, Params{"pipelineName": pipelineName}))
}

// ListFlows returns the names of the realm's running flow instances.
func (c *Client) ListFlows(ctx context.Context) ([]string, error) {
	var names []string
	err := c.getData(ctx, c.url(c.endpoints.flows, nil), nil, &names)
	return names, err
}

// GetFlow returns one running flow instance.
func (c *Client) GetFlow(ctx context.Context, flowName string) (*types.Flow, error) {
	if flowName == "" {
		return nil, fmt.Errorf("GetFlow: flow name: %w", ErrEmptyIdentifier)
	}
	flow := &types.Flow{}
	err := c.getData(ctx, c.url(c.endpoints.flow, Params{"flowName": flowName}), nil, flow)
	if err != nil {
		return nil, err
	}
	return flow, nil
}

// InstantiateFlow starts a new flow instance of a registered pipeline.
func (c *Client) InstantiateFlow(ctx context.Context, flow *types.Flow) error {
	if flow.Name == "" || flow.Pipeline == "" {
		return fmt.Errorf("InstantiateFlow: flow or pipeline name: %w", ErrEmptyIdentifier)
	}
	return c.postData(ctx, c.url(c.endpoints.flows, nil), flow, nil)
}

// DeleteFlow stops and removes a running flow instance.
func (c *Client) DeleteFlow(ctx context.Context, flowName string) error {
	if flowName == "" {
		return fmt.Errorf("DeleteFlow: flow name: %w", ErrEmptyIdentifier)
	}
	return c.delete(ctx, c.url(c.endpoints.flow, Params{"flowName": flowName}))
}
