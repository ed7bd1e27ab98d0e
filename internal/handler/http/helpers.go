package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// maxBodyBytes covers a 128-float face descriptor with room to spare.
const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// actorFrom builds the audit actor for the authenticated caller.
func actorFrom(r *http.Request) (audit.Actor, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return audit.Actor{}, auth.ErrInvalidToken
	}

	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}

	return audit.Actor{
		UserID:     claims.UserID,
		EmployeeID: claims.EmployeeID,
		Role:       string(claims.Role),
		IPAddress:  ip,
		UserAgent:  r.UserAgent(),
	}, nil
}

// authorizeEmployee rejects employees acting on someone else's records.
func authorizeEmployee(r *http.Request, employeeID string) error {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return auth.ErrInvalidToken
	}
	if !claims.CanAccessEmployee(employeeID) {
		return auth.ErrSelfAccessOnly
	}
	return nil
}

func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// optionalIntQuery parses an integer query parameter. A malformed value is
// reported as a validation error on key.
func optionalIntQuery(r *http.Request, key string) (*int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, validator.ValidationErrors{{Field: key, Message: key + " must be a number"}}
	}
	return &n, nil
}
