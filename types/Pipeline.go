package types

import "fmt"

// Pipeline is a data processing pipeline description registered on the flow
// plane. Source holds the pipeline description in the platform's pipeline
// definition language; Schema optionally describes its configuration options.
type Pipeline struct {
	Name        string
	Source      string
	Description string
	Schema      map[string]any
}

// PipelineDTO is the wire format of a pipeline.
type PipelineDTO struct {
	Name        string         `json:"name"`
	Source      string         `json:"source"`
	Description string         `json:"description,omitempty"`
	Schema      map[string]any `json:"schema,omitempty"`
}

func (p *Pipeline) ToDTO() *PipelineDTO {
	return &PipelineDTO{
		Name:        p.Name,
		Source:      p.Source,
		Description: p.Description,
		Schema:      p.Schema,
	}
}

func PipelineFromDTO(dto *PipelineDTO) (*Pipeline, error) {
	if dto.Name == "" {
		return nil, fmt.Errorf("PipelineFromDTO: missing pipeline name")
	}
	return &Pipeline{
		Name:        dto.Name,
		Source:      dto.Source,
		Description: dto.Description,
		Schema:      dto.Schema,
	}, nil
}

// Flow is a running instance of a pipeline.
type Flow struct {
	Name     string         `json:"name"`
	Pipeline string         `json:"pipeline"`
	Config   map[string]any `json:"config,omitempty"`
}
