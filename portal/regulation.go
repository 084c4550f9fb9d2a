package portal

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// RegulationService lists the association's regulatory documents.
type RegulationService struct {
	client *Client
}

// Regulation returns the regulatory-document endpoints.
func (c *Client) Regulation() *RegulationService {
	return &RegulationService{client: c}
}

// RegulationDocument is a statute, bylaw or resolution with its attached PDF.
type RegulationDocument struct {
	ID               int64     `json:"id"`
	Nombre           string    `json:"nombre"`
	Descripcion      string    `json:"descripcion"`
	Categoria        string    `json:"categoria"`
	Estado           string    `json:"estado"`
	FechaPublicacion time.Time `json:"fecha_publicacion"`
	PDF              string    `json:"pdf"`
}

func (s *RegulationService) List(ctx context.Context) ([]RegulationDocument, error) {
	req, err := s.client.newRequest(ctx, http.MethodGet, "regulation/", nil, "")
	if err != nil {
		return nil, err
	}
	var items []RegulationDocument
	if err := s.client.do(req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *RegulationService) Get(ctx context.Context, id int64) (*RegulationDocument, error) {
	req, err := s.client.newRequest(ctx, http.MethodGet, fmt.Sprintf("regulation/%d/", id), nil, "")
	if err != nil {
		return nil, err
	}
	var item RegulationDocument
	if err := s.client.do(req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
