package portal

import (
	"context"
	"net/http"
)

// CalculatorService submits fee calculations. The arithmetic lives on the
// backend; the client only ships the inputs and decodes the result.
type CalculatorService struct {
	client *Client
}

// Calculator returns the fee-calculator endpoint.
func (c *Client) Calculator() *CalculatorService {
	return &CalculatorService{client: c}
}

// ArancelInput describes the engineer and the engagement being priced.
type ArancelInput struct {
	Antiguedad   int    `json:"antiguedad"` // years of experience
	Departamento string `json:"departamento"`
	Formacion    string `json:"formacion"`
	Ubicacion    string `json:"ubicacion"` // "ciudad" or "campo"
	Actividad    string `json:"actividad"`
}

// ArancelResult is the calculated fee at the three billing granularities.
type ArancelResult struct {
	Mensual float64 `json:"mensual"`
	Hora    float64 `json:"hora"`
	Dia     float64 `json:"dia"`
}

// CalculateArancel prices an engagement.
func (s *CalculatorService) CalculateArancel(ctx context.Context, input ArancelInput) (*ArancelResult, error) {
	req, err := s.client.newJSONRequest(ctx, http.MethodPost, "civil_salary/aranceles/calculate-arancel/", input)
	if err != nil {
		return nil, err
	}
	var result ArancelResult
	if err := s.client.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
