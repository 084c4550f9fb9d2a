package portal

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// NewsService reads the portal's news feed and, for admin roles, manages the
// entries behind it. All calls go through the authenticated pipeline.
type NewsService struct {
	client *Client
}

// News returns the news endpoints.
func (c *Client) News() *NewsService {
	return &NewsService{client: c}
}

// NewsSummary is a feed entry as the list endpoint returns it (no body text,
// no attachment).
type NewsSummary struct {
	ID               int64     `json:"id"`
	Titulo           string    `json:"titulo"`
	Categoria        string    `json:"categoria"`
	Resumen          string    `json:"resumen"`
	Estado           string    `json:"estado"`
	FechaPublicacion time.Time `json:"fecha_publicacion"`
	Imagen           *string   `json:"imagen"`
}

// News is the full entry returned by the detail and admin endpoints.
type News struct {
	ID               int64     `json:"id"`
	Titulo           string    `json:"titulo"`
	Categoria        string    `json:"categoria"`
	Descripcion      string    `json:"descripcion"`
	Estado           string    `json:"estado"`
	FechaPublicacion time.Time `json:"fecha_publicacion"`
	Imagen           *string   `json:"imagen"`
	PDF              *string   `json:"pdf"`
}

// NewsInput is the admin create/update payload. Nil fields are omitted, which
// makes the same type usable for partial updates.
type NewsInput struct {
	Titulo      *string `json:"titulo,omitempty"`
	Categoria   *string `json:"categoria,omitempty"`
	Resumen     *string `json:"resumen,omitempty"`
	Descripcion *string `json:"descripcion,omitempty"`
	Estado      *string `json:"estado,omitempty"`
	Imagen      *string `json:"imagen,omitempty"`
	PDF         *string `json:"pdf,omitempty"`
}

func (s *NewsService) List(ctx context.Context) ([]NewsSummary, error) {
	req, err := s.client.newRequest(ctx, http.MethodGet, "news/news/", nil, "")
	if err != nil {
		return nil, err
	}
	var items []NewsSummary
	if err := s.client.do(req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *NewsService) Get(ctx context.Context, id int64) (*News, error) {
	req, err := s.client.newRequest(ctx, http.MethodGet, fmt.Sprintf("news/news/%d/", id), nil, "")
	if err != nil {
		return nil, err
	}
	var item News
	if err := s.client.do(req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *NewsService) AdminList(ctx context.Context) ([]News, error) {
	req, err := s.client.newRequest(ctx, http.MethodGet, "news/news_admin/", nil, "")
	if err != nil {
		return nil, err
	}
	var items []News
	if err := s.client.do(req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *NewsService) Create(ctx context.Context, input NewsInput) (*News, error) {
	req, err := s.client.newJSONRequest(ctx, http.MethodPost, "news/news_admin/", input)
	if err != nil {
		return nil, err
	}
	var item News
	if err := s.client.do(req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *NewsService) Update(ctx context.Context, id int64, input NewsInput) (*News, error) {
	req, err := s.client.newJSONRequest(ctx, http.MethodPatch, fmt.Sprintf("news/news_admin/%d/", id), input)
	if err != nil {
		return nil, err
	}
	var item News
	if err := s.client.do(req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *NewsService) Delete(ctx context.Context, id int64) error {
	req, err := s.client.newRequest(ctx, http.MethodDelete, fmt.Sprintf("news/news_admin/%d/", id), nil, "")
	if err != nil {
		return err
	}
	return s.client.do(req, nil)
}
