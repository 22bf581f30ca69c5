package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
	apperrors "github.com/aulaplus/aula-ui/internal/errors"
	"github.com/aulaplus/aula-ui/internal/ports"
)

// Operation documents. The schema is owned by the school API server; only the
// operation names and the fields consumed here are part of the contract.
const (
	verifyTokenQuery = `query VerificarToken {
  verificarToken {
    valido
    usuario { id rol }
  }
}`

	loginEstudianteMutation = `mutation LoginEstudiante($numeroIdentificacion: String!, $password: String!) {
  loginEstudiante(numero_identificacion: $numeroIdentificacion, password: $password) {
    token
    estudiante { id nombre_completo correo activo fecha_creacion ultimo_login fecha_actualizacion }
  }
}`

	loginMaestroMutation = `mutation LoginMaestro($numeroIdentificacion: String!, $password: String!) {
  loginMaestro(numero_identificacion: $numeroIdentificacion, password: $password) {
    token
    maestro { id nombre_completo correo activo fecha_creacion ultimo_login fecha_actualizacion }
  }
}`

	loginAdminMutation = `mutation LoginAdmin($email: String!, $password: String!) {
  loginAdmin(email: $email, password: $password) {
    token
    usuario { id email rol activo }
  }
}`

	miEstudianteQuery = `query MiPerfil {
  miEstudiante { id nombre_completo correo activo fecha_creacion ultimo_login fecha_actualizacion }
}`

	miMaestroQuery = `query MiPerfil {
  miMaestro { id nombre_completo correo activo fecha_creacion ultimo_login fecha_actualizacion }
}`

	miUsuarioQuery = `query MiPerfil {
  miUsuario { id email rol activo }
}`

	actualizarPerfilMutation = `mutation ActualizarPerfil($nombreCompleto: String, $correo: String) {
  actualizarPerfil(nombre_completo: $nombreCompleto, correo: $correo) {
    id nombre_completo correo email rol activo fecha_actualizacion
  }
}`

	actividadesQuery = `query Actividades {
  actividades { id nombre descripcion fecha_entrega curso { id nombre } }
}`

	tareasQuery = `query Tareas {
  tareas { id titulo descripcion fecha_limite estado }
}`

	calificacionesQuery = `query Calificaciones {
  calificaciones { id nota periodo actividad { id nombre } }
}`
)

// perfilPayload is the superset of the profile shapes the API returns.
// Students and teachers report nombre_completo/correo; admin usuarios report
// email and an explicit rol.
type perfilPayload struct {
	ID                 string    `json:"id"`
	NombreCompleto     string    `json:"nombre_completo"`
	Correo             string    `json:"correo"`
	Email              string    `json:"email"`
	Rol                string    `json:"rol"`
	Activo             bool      `json:"activo"`
	FechaCreacion      time.Time `json:"fecha_creacion"`
	UltimoLogin        time.Time `json:"ultimo_login"`
	FechaActualizacion time.Time `json:"fecha_actualizacion"`
}

// identity maps a profile payload onto the domain identity. fallback supplies
// the role for actors whose payload carries none (students and teachers).
func (p perfilPayload) identity(fallback domainauth.Role) (domainauth.Identity, error) {
	if p.ID == "" {
		return domainauth.Identity{}, apperrors.MalformedResponse("profile payload missing id")
	}

	role := fallback
	if p.Rol != "" {
		role = domainauth.Role(p.Rol)
	}
	if !role.Valid() {
		return domainauth.Identity{}, apperrors.MalformedResponse("profile payload has unknown role")
	}

	email := p.Correo
	if email == "" {
		email = p.Email
	}

	return domainauth.Identity{
		ID:        p.ID,
		Role:      role,
		FullName:  p.NombreCompleto,
		Email:     email,
		Active:    p.Activo,
		CreatedAt: p.FechaCreacion,
		LastLogin: p.UltimoLogin,
		UpdatedAt: p.FechaActualizacion,
	}, nil
}

type loginPayload struct {
	Token      string         `json:"token"`
	Estudiante *perfilPayload `json:"estudiante"`
	Maestro    *perfilPayload `json:"maestro"`
	Usuario    *perfilPayload `json:"usuario"`
}

func (p loginPayload) profile() *perfilPayload {
	switch {
	case p.Estudiante != nil:
		return p.Estudiante
	case p.Maestro != nil:
		return p.Maestro
	default:
		return p.Usuario
	}
}

// VerifyToken validates a bearer token via the verify-token query.
// Any failure normalizes to an unauthenticated or malformed-response error.
func (c *Client) VerifyToken(ctx context.Context, token string) (ports.VerifiedUser, error) {
	if token == "" {
		return ports.VerifiedUser{}, apperrors.Unauthenticated("no token to verify")
	}

	data, err := c.do(ctx, token, verifyTokenQuery, nil)
	if err != nil {
		var uerr *upstreamError
		if errors.As(err, &uerr) {
			return ports.VerifiedUser{}, apperrors.Unauthenticated(uerr.message)
		}
		return ports.VerifiedUser{}, err
	}

	raw, err := field(data, "verificarToken")
	if err != nil {
		return ports.VerifiedUser{}, err
	}

	var out struct {
		Valido  bool `json:"valido"`
		Usuario *struct {
			ID  string `json:"id"`
			Rol string `json:"rol"`
		} `json:"usuario"`
	}
	if decodeErr := json.Unmarshal(raw, &out); decodeErr != nil {
		return ports.VerifiedUser{}, apperrors.Wrap(decodeErr, apperrors.ErrCodeMalformedResponse, "decode verify-token payload")
	}

	if !out.Valido {
		return ports.VerifiedUser{}, apperrors.Unauthenticated("token rejected by school API")
	}
	// valido=true with an empty or unknown usuario is a contract violation,
	// not a default-role grant.
	if out.Usuario == nil || out.Usuario.ID == "" || !domainauth.Role(out.Usuario.Rol).Valid() {
		return ports.VerifiedUser{}, apperrors.MalformedResponse("verify-token payload missing usuario")
	}

	return ports.VerifiedUser{ID: out.Usuario.ID, Role: out.Usuario.Rol}, nil
}

// LoginEstudiante exchanges student credentials for a token.
func (c *Client) LoginEstudiante(ctx context.Context, numeroIdentificacion, password string) (ports.LoginResult, error) {
	vars := map[string]any{"numeroIdentificacion": numeroIdentificacion, "password": password}
	return c.login(ctx, loginEstudianteMutation, "loginEstudiante", vars, domainauth.RoleEstudiante)
}

// LoginMaestro exchanges teacher credentials for a token.
func (c *Client) LoginMaestro(ctx context.Context, numeroIdentificacion, password string) (ports.LoginResult, error) {
	vars := map[string]any{"numeroIdentificacion": numeroIdentificacion, "password": password}
	return c.login(ctx, loginMaestroMutation, "loginMaestro", vars, domainauth.RoleMaestro)
}

// LoginAdmin exchanges admin credentials for a token.
func (c *Client) LoginAdmin(ctx context.Context, email, password string) (ports.LoginResult, error) {
	vars := map[string]any{"email": email, "password": password}
	return c.login(ctx, loginAdminMutation, "loginAdmin", vars, domainauth.RoleAdmin)
}

func (c *Client) login(ctx context.Context, query, member string, vars map[string]any, role domainauth.Role) (ports.LoginResult, error) {
	data, err := c.do(ctx, "", query, vars)
	if err != nil {
		var uerr *upstreamError
		if errors.As(err, &uerr) {
			return ports.LoginResult{}, apperrors.InvalidCredentials(uerr.message)
		}
		return ports.LoginResult{}, err
	}

	raw, err := field(data, member)
	if err != nil {
		return ports.LoginResult{}, err
	}

	var out loginPayload
	if decodeErr := json.Unmarshal(raw, &out); decodeErr != nil {
		return ports.LoginResult{}, apperrors.Wrap(decodeErr, apperrors.ErrCodeMalformedResponse, "decode login payload")
	}
	if out.Token == "" {
		return ports.LoginResult{}, apperrors.MalformedResponse("login payload missing token")
	}
	profile := out.profile()
	if profile == nil {
		return ports.LoginResult{}, apperrors.MalformedResponse("login payload missing profile")
	}

	identity, err := profile.identity(role)
	if err != nil {
		return ports.LoginResult{}, err
	}

	return ports.LoginResult{Token: out.Token, Identity: identity}, nil
}

// Perfil fetches the role-specific profile for the token's owner.
func (c *Client) Perfil(ctx context.Context, token string, role domainauth.Role) (domainauth.Identity, error) {
	var query, member string
	switch role {
	case domainauth.RoleEstudiante:
		query, member = miEstudianteQuery, "miEstudiante"
	case domainauth.RoleMaestro:
		query, member = miMaestroQuery, "miMaestro"
	case domainauth.RoleAdmin:
		query, member = miUsuarioQuery, "miUsuario"
	default:
		return domainauth.Identity{}, apperrors.Validation("unknown role for profile lookup")
	}

	raw, err := c.authedField(ctx, token, query, member)
	if err != nil {
		return domainauth.Identity{}, err
	}

	var out perfilPayload
	if decodeErr := json.Unmarshal(raw, &out); decodeErr != nil {
		return domainauth.Identity{}, apperrors.Wrap(decodeErr, apperrors.ErrCodeMalformedResponse, "decode profile payload")
	}
	return out.identity(role)
}

// ActualizarPerfil updates contact fields server-side.
func (c *Client) ActualizarPerfil(ctx context.Context, token string, patch ports.IdentityPatch) (domainauth.Identity, error) {
	vars := map[string]any{}
	if patch.FullName != nil {
		vars["nombreCompleto"] = *patch.FullName
	}
	if patch.Email != nil {
		vars["correo"] = *patch.Email
	}

	data, err := c.do(ctx, token, actualizarPerfilMutation, vars)
	if err != nil {
		var uerr *upstreamError
		if errors.As(err, &uerr) {
			return domainauth.Identity{}, apperrors.Validation(uerr.message)
		}
		return domainauth.Identity{}, err
	}

	raw, err := field(data, "actualizarPerfil")
	if err != nil {
		return domainauth.Identity{}, err
	}

	var out perfilPayload
	if decodeErr := json.Unmarshal(raw, &out); decodeErr != nil {
		return domainauth.Identity{}, apperrors.Wrap(decodeErr, apperrors.ErrCodeMalformedResponse, "decode profile payload")
	}
	if out.ID == "" {
		return domainauth.Identity{}, apperrors.MalformedResponse("profile payload missing id")
	}

	// Rol is reported for admins only; students and teachers get their role
	// merged from the existing session identity by the caller.
	email := out.Correo
	if email == "" {
		email = out.Email
	}
	return domainauth.Identity{
		ID:        out.ID,
		Role:      domainauth.Role(out.Rol),
		FullName:  out.NombreCompleto,
		Email:     email,
		Active:    out.Activo,
		UpdatedAt: out.FechaActualizacion,
	}, nil
}

// Actividades proxies the activities listing for page consumers.
func (c *Client) Actividades(ctx context.Context, token string) (json.RawMessage, error) {
	return c.authedField(ctx, token, actividadesQuery, "actividades")
}

// Tareas proxies the assignments listing for page consumers.
func (c *Client) Tareas(ctx context.Context, token string) (json.RawMessage, error) {
	return c.authedField(ctx, token, tareasQuery, "tareas")
}

// Calificaciones proxies the grades listing for page consumers.
func (c *Client) Calificaciones(ctx context.Context, token string) (json.RawMessage, error) {
	return c.authedField(ctx, token, calificacionesQuery, "calificaciones")
}

// authedField posts an authenticated query and extracts one data member.
func (c *Client) authedField(ctx context.Context, token, query, member string) (json.RawMessage, error) {
	data, err := c.do(ctx, token, query, nil)
	if err != nil {
		var uerr *upstreamError
		if errors.As(err, &uerr) {
			return nil, apperrors.Wrap(uerr, apperrors.ErrCodeInternal, "school API rejected "+member)
		}
		return nil, err
	}
	return field(data, member)
}
