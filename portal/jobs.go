package portal

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// JobsService reads the job board and manages listings for admin roles.
type JobsService struct {
	client *Client
}

// Jobs returns the job-board endpoints.
func (c *Client) Jobs() *JobsService {
	return &JobsService{client: c}
}

// JobSummary is a board entry as the list endpoint returns it.
type JobSummary struct {
	ID               int64     `json:"id"`
	Titulo           string    `json:"titulo"`
	NombreEmpresa    string    `json:"nombre_empresa"`
	Ubicacion        string    `json:"ubicacion"`
	Salario          string    `json:"salario"`
	TipoContrato     string    `json:"tipo_contrato"`
	Estado           string    `json:"estado"`
	FechaPublicacion time.Time `json:"fecha_publicacion"`
}

// Job is the full listing.
type Job struct {
	JobSummary
	Descripcion       string   `json:"descripcion"`
	SobreEmpresa      string   `json:"sobre_empresa"`
	Requisitos        []string `json:"requisitos"`
	Responsabilidades []string `json:"responsabilidades"`
	PDF               *string  `json:"pdf"`
}

// JobInput is the admin create/update payload.
type JobInput struct {
	Titulo            *string  `json:"titulo,omitempty"`
	NombreEmpresa     *string  `json:"nombre_empresa,omitempty"`
	Ubicacion         *string  `json:"ubicacion,omitempty"`
	Salario           *string  `json:"salario,omitempty"`
	TipoContrato      *string  `json:"tipo_contrato,omitempty"`
	Estado            *string  `json:"estado,omitempty"`
	Descripcion       *string  `json:"descripcion,omitempty"`
	SobreEmpresa      *string  `json:"sobre_empresa,omitempty"`
	Requisitos        []string `json:"requisitos,omitempty"`
	Responsabilidades []string `json:"responsabilidades,omitempty"`
	PDF               *string  `json:"pdf,omitempty"`
}

func (s *JobsService) List(ctx context.Context) ([]JobSummary, error) {
	req, err := s.client.newRequest(ctx, http.MethodGet, "jobs/job/", nil, "")
	if err != nil {
		return nil, err
	}
	var items []JobSummary
	if err := s.client.do(req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *JobsService) Get(ctx context.Context, id int64) (*Job, error) {
	req, err := s.client.newRequest(ctx, http.MethodGet, fmt.Sprintf("jobs/job/%d/", id), nil, "")
	if err != nil {
		return nil, err
	}
	var item Job
	if err := s.client.do(req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *JobsService) AdminList(ctx context.Context) ([]Job, error) {
	req, err := s.client.newRequest(ctx, http.MethodGet, "jobs/job_admin/", nil, "")
	if err != nil {
		return nil, err
	}
	var items []Job
	if err := s.client.do(req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *JobsService) Create(ctx context.Context, input JobInput) (*Job, error) {
	req, err := s.client.newJSONRequest(ctx, http.MethodPost, "jobs/job_admin/", input)
	if err != nil {
		return nil, err
	}
	var item Job
	if err := s.client.do(req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *JobsService) Update(ctx context.Context, id int64, input JobInput) (*Job, error) {
	req, err := s.client.newJSONRequest(ctx, http.MethodPatch, fmt.Sprintf("jobs/job_admin/%d/", id), input)
	if err != nil {
		return nil, err
	}
	var item Job
	if err := s.client.do(req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *JobsService) Delete(ctx context.Context, id int64) error {
	req, err := s.client.newRequest(ctx, http.MethodDelete, fmt.Sprintf("jobs/job_admin/%d/", id), nil, "")
	if err != nil {
		return err
	}
	return s.client.do(req, nil)
}
