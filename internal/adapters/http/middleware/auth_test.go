package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hospitalcms/internal/domain/role"
	"hospitalcms/internal/domain/session"
)

// mockStore implements SessionReader for testing.
// PRE: values keyed by sid then key
// POST: Get and Remove operate on the map; err, when set, fails every Get
type mockStore struct {
	values  map[string]map[string]string
	removed []string
	touched []string
	err     error
}

func (m *mockStore) Get(_ context.Context, sid, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[sid][key]
	return v, ok, nil
}

func (m *mockStore) Remove(_ context.Context, sid, key string) error {
	m.removed = append(m.removed, key)
	delete(m.values[sid], key)
	return nil
}

func (m *mockStore) Touch(_ context.Context, sid string) error {
	m.touched = append(m.touched, sid)
	return nil
}

const testSID = "0f8fad5b-d9cb-469f-a165-70867728950e"

func capture(got *session.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = FromContext(r.Context())
	})
}

func withCookie(sid string) *http.Request {
	req := httptest.NewRequest("GET", "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sid})
	return req
}

func TestSessions_LoadsTokenAndRole(t *testing.T) {
	store := &mockStore{values: map[string]map[string]string{
		testSID: {session.KeyToken: "tok", session.KeyUserRole: role.ValueAdmin},
	}}
	var got session.Context
	rr := httptest.NewRecorder()
	Sessions(store, false)(capture(&got)).ServeHTTP(rr, withCookie(testSID))

	if got.ID != testSID || got.Token != "tok" || got.Role != role.Admin {
		t.Errorf("session = %+v", got)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("existing session re-issued a cookie")
	}
}

// TestSessions_IssuesCookie verifies a browser without a valid id gets a fresh one.
func TestSessions_IssuesCookie(t *testing.T) {
	for _, req := range []*http.Request{httptest.NewRequest("GET", "/", nil), withCookie("not-a-uuid")} {
		var got session.Context
		rr := httptest.NewRecorder()
		Sessions(&mockStore{}, false)(capture(&got)).ServeHTTP(rr, req)

		cookies := rr.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != SessionCookieName || !cookies[0].HttpOnly {
			t.Fatalf("cookies = %+v", cookies)
		}
		if got.ID != cookies[0].Value || got.Role != role.GuestPatient {
			t.Errorf("session = %+v", got)
		}
	}
}

// TestSessions_UnknownRoleCleared verifies an unrecognised role is removed and treated as guest.
func TestSessions_UnknownRoleCleared(t *testing.T) {
	store := &mockStore{values: map[string]map[string]string{
		testSID: {session.KeyUserRole: "superuser"},
	}}
	var got session.Context
	Sessions(store, false)(capture(&got)).ServeHTTP(httptest.NewRecorder(), withCookie(testSID))

	if got.Role != role.GuestPatient {
		t.Errorf("role = %s, want guest", got.Role)
	}
	if len(store.removed) != 1 || store.removed[0] != session.KeyUserRole {
		t.Errorf("removed = %v", store.removed)
	}
}

func TestSessions_StoreFailureIsGuest(t *testing.T) {
	var got session.Context
	Sessions(&mockStore{err: errors.New("disk")}, false)(capture(&got)).ServeHTTP(httptest.NewRecorder(), withCookie(testSID))
	if got.ID != testSID || got.Role != role.GuestPatient || got.Token != "" {
		t.Errorf("session = %+v", got)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		r    role.Role
		want int
	}{
		{"allowed", role.Doctor, http.StatusOK},
		{"other role", role.Admin, http.StatusSeeOther},
		{"guest", role.GuestPatient, http.StatusSeeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/doctor/dashboard", nil)
			req = req.WithContext(ContextWithSession(req.Context(), session.Context{Role: tt.r, Token: "t"}))
			rr := httptest.NewRecorder()
			RequireRole(role.Doctor)(okHandler()).ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
			if tt.want == http.StatusSeeOther && rr.Header().Get("Location") != "/" {
				t.Errorf("Location = %q", rr.Header().Get("Location"))
			}
		})
	}
}

// TestSessions_TouchesOnlyStoredSessions verifies active sessions are kept alive and empty ones are not written.
func TestSessions_TouchesOnlyStoredSessions(t *testing.T) {
	store := &mockStore{values: map[string]map[string]string{
		testSID: {session.KeyToken: "tok", session.KeyUserRole: role.ValueDoctor},
	}}
	var got session.Context
	Sessions(store, false)(capture(&got)).ServeHTTP(httptest.NewRecorder(), withCookie(testSID))
	if len(store.touched) != 1 || store.touched[0] != testSID {
		t.Errorf("touched = %v, want [%s]", store.touched, testSID)
	}

	empty := &mockStore{values: map[string]map[string]string{}}
	Sessions(empty, false)(capture(&got)).ServeHTTP(httptest.NewRecorder(), withCookie(testSID))
	if len(empty.touched) != 0 {
		t.Errorf("empty session touched: %v", empty.touched)
	}
}
