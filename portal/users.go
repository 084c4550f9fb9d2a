package portal

import (
	"context"
	"fmt"
	"net/http"
)

// UsersService reads member details and, for admin roles, manages member
// records.
type UsersService struct {
	client *Client
}

// Users returns the member endpoints.
func (c *Client) Users() *UsersService {
	return &UsersService{client: c}
}

// Member is a registered member of the association.
type Member struct {
	RNIC             string   `json:"rnic"`
	Nombre           string   `json:"nombre"`
	FechaInscripcion string   `json:"fecha_inscripcion"`
	Departamento     string   `json:"departamento"`
	Especialidad     string   `json:"especialidad"`
	Celular          string   `json:"celular"`
	Imagen           *string  `json:"imagen"`
	RegistroEmpleado string   `json:"registro_empleado"`
	Estado           string   `json:"estado"`
	Certificaciones  []string `json:"certificaciones"`
	Mail             string   `json:"mail"`
	Rol              string   `json:"rol"`
}

// MemberInput is the admin create/update payload.
type MemberInput struct {
	RNIC             *string  `json:"rnic,omitempty"`
	RNI              *string  `json:"rni,omitempty"` // write-only credential field
	Nombre           *string  `json:"nombre,omitempty"`
	Departamento     *string  `json:"departamento,omitempty"`
	Especialidad     *string  `json:"especialidad,omitempty"`
	Celular          *string  `json:"celular,omitempty"`
	Imagen           *string  `json:"imagen,omitempty"`
	RegistroEmpleado *string  `json:"registro_empleado,omitempty"`
	Estado           *string  `json:"estado,omitempty"`
	Certificaciones  []string `json:"certificaciones,omitempty"`
	Mail             *string  `json:"mail,omitempty"`
	Rol              *string  `json:"rol,omitempty"`
}

// Details returns the member card for one member.
func (s *UsersService) Details(ctx context.Context, id int64) (*Member, error) {
	req, err := s.client.newRequest(ctx, http.MethodGet, fmt.Sprintf("users/details/%d/", id), nil, "")
	if err != nil {
		return nil, err
	}
	var member Member
	if err := s.client.do(req, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *UsersService) List(ctx context.Context) ([]Member, error) {
	req, err := s.client.newRequest(ctx, http.MethodGet, "users/", nil, "")
	if err != nil {
		return nil, err
	}
	var members []Member
	if err := s.client.do(req, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *UsersService) Create(ctx context.Context, input MemberInput) (*Member, error) {
	req, err := s.client.newJSONRequest(ctx, http.MethodPost, "users/", input)
	if err != nil {
		return nil, err
	}
	var member Member
	if err := s.client.do(req, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *UsersService) Update(ctx context.Context, id int64, input MemberInput) (*Member, error) {
	req, err := s.client.newJSONRequest(ctx, http.MethodPatch, fmt.Sprintf("users/%d/", id), input)
	if err != nil {
		return nil, err
	}
	var member Member
	if err := s.client.do(req, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *UsersService) Delete(ctx context.Context, id int64) error {
	req, err := s.client.newRequest(ctx, http.MethodDelete, fmt.Sprintf("users/%d/", id), nil, "")
	if err != nil {
		return err
	}
	return s.client.do(req, nil)
}
