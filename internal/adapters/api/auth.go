package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoToken is returned when a login succeeds but carries no token.
var ErrNoToken = errors.New("login response carried no token")

// Credentials is a login form. Admins log in by username, doctors and
// patients by email; both go in Identifier.
type Credentials struct {
	Identifier string
	Password   string
}

// AdminLogin exchanges admin credentials for a token.
func (c *Client) AdminLogin(ctx context.Context, cred Credentials) (string, error) {
	body := map[string]string{"username": cred.Identifier, "password": cred.Password}
	return c.login(ctx, "admin.login", "/admin/login", body)
}

// DoctorLogin exchanges doctor credentials for a token.
func (c *Client) DoctorLogin(ctx context.Context, cred Credentials) (string, error) {
	body := map[string]string{"email": cred.Identifier, "password": cred.Password}
	return c.login(ctx, "doctor.login", "/doctor/login", body)
}

// PatientLogin exchanges patient credentials for a token.
func (c *Client) PatientLogin(ctx context.Context, cred Credentials) (string, error) {
	body := map[string]string{"email": cred.Identifier, "password": cred.Password}
	return c.login(ctx, "patient.login", "/patient/login", body)
}

// login posts credentials and extracts the token from {"token": ...}, a JSON
// string, or a plain-text body.
// POST: Non-2xx responses yield a *StatusError carrying the backend message
func (c *Client) login(ctx context.Context, endpoint, path string, body any) (string, error) {
	status, respBody, err := c.call(ctx, endpoint, http.MethodPost, path, body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", endpoint, err)
	}
	if status < 200 || status > 299 {
		return "", &StatusError{Endpoint: endpoint, StatusCode: status, Message: messageFrom(respBody, "Invalid credentials!")}
	}
	token := tokenFrom(respBody)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func tokenFrom(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	switch trimmed[0] {
	case '{':
		var obj struct {
			Token string `json:"token"`
		}
		if json.Unmarshal(trimmed, &obj) != nil {
			return ""
		}
		return obj.Token
	case '"':
		var s string
		if json.Unmarshal(trimmed, &s) != nil {
			return ""
		}
		return s
	}
	return strings.TrimSpace(string(trimmed))
}
