package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Jegadheeswaran/Rentify-backend/internal/api"
	"github.com/Jegadheeswaran/Rentify-backend/internal/auth"
	"github.com/Jegadheeswaran/Rentify-backend/internal/database"
	"github.com/Jegadheeswaran/Rentify-backend/internal/models"
	"github.com/Jegadheeswaran/Rentify-backend/internal/services"
)

const testOrigin = "https://rentify.test"

type testServer struct {
	handler http.Handler
	tokens  *auth.TokenService
	db      *sqlx.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "rentify.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	tokens, err := auth.NewTokenService("test-secret", 0)
	require.NoError(t, err)

	events := services.NewEventService(db)
	router := api.NewRouter(tokens, []string{testOrigin},
		services.NewUserService(db, events),
		services.NewPropertyService(db, events),
		events,
	)
	return &testServer{handler: router, tokens: tokens, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func signupBody(n int) map[string]any {
	return map[string]any{
		"email":     fmt.Sprintf("user%d@example.com", n),
		"password":  "hunter2",
		"number":    fmt.Sprintf("91234%05d", n),
		"firstName": "Asha",
		"lastName":  fmt.Sprintf("Rao%d", n),
	}
}

func propertyBody(city, state string, bedrooms, bathrooms int) map[string]any {
	return map[string]any{
		"street":         "4 Lake View",
		"area":           "Baner",
		"city":           city,
		"state":          state,
		"noOfBedRooms":   bedrooms,
		"noOfBathRooms":  bathrooms,
		"nearbyHospital": true,
		"nearByCollege":  true,
	}
}

// signup registers user n and returns its token and id.
func (s *testServer) signup(t *testing.T, n int) (string, int64) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/signup", "", signupBody(n))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "User created successfully", resp.Message)

	userID, err := s.tokens.Verify(resp.Token)
	require.NoError(t, err)
	return resp.Token, userID
}

func (s *testServer) createProperty(t *testing.T, token string, body map[string]any) models.Property {
	t.Helper()
	w := s.do(t, http.MethodPost, "/property", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Message  string          `json:"message"`
		Property models.Property `json:"property"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Property created successfully", resp.Message)
	return resp.Property
}

func (s *testServer) countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func decodeProperties(t *testing.T, w *httptest.ResponseRecorder) []models.Property {
	t.Helper()
	var properties []models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &properties))
	return properties
}

func TestSignupIssuesTokenForNewUser(t *testing.T) {
	s := newTestServer(t)
	_, userID := s.signup(t, 1)

	var email string
	require.NoError(t, s.db.Get(&email, "SELECT email FROM users WHERE id = ?", userID))
	require.Equal(t, "user1@example.com", email)
}

func TestSignupRejectsDuplicates(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, 1)

	dupEmail := signupBody(2)
	dupEmail["email"] = "user1@example.com"
	dupNumber := signupBody(3)
	dupNumber["number"] = signupBody(1)["number"]

	for _, body := range []map[string]any{dupEmail, dupNumber} {
		w := s.do(t, http.MethodPost, "/signup", "", body)
		require.Equal(t, http.StatusLengthRequired, w.Code)
		require.Equal(t, "Email/Mobile number is taken", message(t, w))
	}
	require.Equal(t, 1, s.countRows(t, "users"))
}

func TestSignupRejectsInvalidInput(t *testing.T) {
	s := newTestServer(t)

	shortNumber := signupBody(1)
	shortNumber["number"] = "123"
	numericNumber := signupBody(1)
	numericNumber["number"] = 9123400001

	for _, body := range []any{"{not json", shortNumber, numericNumber, map[string]any{}} {
		w := s.do(t, http.MethodPost, "/signup", "", body)
		require.Equal(t, http.StatusLengthRequired, w.Code)
		require.Equal(t, "Incorrect inputs", message(t, w))
	}
	require.Equal(t, 0, s.countRows(t, "users"))
}

func TestSignin(t *testing.T) {
	s := newTestServer(t)
	_, userID := s.signup(t, 1)

	w := s.do(t, http.MethodPost, "/signin", "", map[string]string{"email": "user1@example.com", "password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	got, err := s.tokens.Verify(resp["token"])
	require.NoError(t, err)
	require.Equal(t, userID, got)

	w = s.do(t, http.MethodPost, "/signin", "", map[string]string{"email": "user1@example.com", "password": "nope"})
	require.Equal(t, http.StatusForbidden, w.Code)
	wrongPassword := message(t, w)

	w = s.do(t, http.MethodPost, "/signin", "", map[string]string{"email": "ghost@example.com", "password": "hunter2"})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, wrongPassword, message(t, w))
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup(t, 1)
	foreign, err := auth.NewTokenService("another-secret", 0)
	require.NoError(t, err)
	forged, err := foreign.Issue(1)
	require.NoError(t, err)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/property"},
		{http.MethodPut, "/properties/1"},
		{http.MethodDelete, "/properties/1"},
		{http.MethodGet, "/properties"},
		{http.MethodGet, "/property/1"},
		{http.MethodGet, "/events"},
	}
	for _, route := range routes {
		w := s.do(t, route.method, route.path, "", propertyBody("Pune", "MH", 1, 1))
		require.Equal(t, http.StatusForbidden, w.Code, route.path)
		require.Equal(t, "Authorization is not present", message(t, w))

		req := httptest.NewRequest(route.method, route.path, nil)
		req.Header.Set("Authorization", "Basic "+token)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code, route.path)
		require.Equal(t, "Authorization is not present", message(t, rec))

		w = s.do(t, route.method, route.path, forged, propertyBody("Pune", "MH", 1, 1))
		require.Equal(t, http.StatusForbidden, w.Code, route.path)
		require.Equal(t, "incorrect token", message(t, w))

		w = s.do(t, route.method, route.path, token+"x", propertyBody("Pune", "MH", 1, 1))
		require.Equal(t, http.StatusForbidden, w.Code, route.path)
		require.Equal(t, "incorrect token", message(t, w))
	}
	require.Equal(t, 0, s.countRows(t, "properties"))
}

func TestCreatePropertyIgnoresForgedOwner(t *testing.T) {
	s := newTestServer(t)
	_, aliceID := s.signup(t, 1)
	bobToken, bobID := s.signup(t, 2)

	body := propertyBody("Pune", "MH", 2, 1)
	body["userId"] = aliceID
	property := s.createProperty(t, bobToken, body)
	require.Equal(t, bobID, property.UserID)

	var owner int64
	require.NoError(t, s.db.Get(&owner, "SELECT user_id FROM properties WHERE id = ?", property.ID))
	require.Equal(t, bobID, owner)
}

func TestCreatePropertyRejectsInvalidInput(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup(t, 1)

	fractional := propertyBody("Pune", "MH", 1, 1)
	fractional["noOfBedRooms"] = 1.5
	stringly := propertyBody("Pune", "MH", 1, 1)
	stringly["nearbyHospital"] = "yes"
	missing := propertyBody("Pune", "MH", 1, 1)
	delete(missing, "nearByCollege")

	for _, body := range []any{fractional, stringly, missing, "[]"} {
		w := s.do(t, http.MethodPost, "/property", token, body)
		require.Equal(t, http.StatusLengthRequired, w.Code)
		require.Equal(t, "Incorrect inputs", message(t, w))
	}
	require.Equal(t, 0, s.countRows(t, "properties"))
}

func TestUpdateAndDeleteAreOwnerScoped(t *testing.T) {
	s := newTestServer(t)
	aliceToken, _ := s.signup(t, 1)
	bobToken, _ := s.signup(t, 2)
	property := s.createProperty(t, aliceToken, propertyBody("Pune", "MH", 2, 1))

	path := fmt.Sprintf("/properties/%d", property.ID)
	missingPath := fmt.Sprintf("/properties/%d", property.ID+1000)
	patch := map[string]any{"city": "Nashik"}

	foreign := s.do(t, http.MethodPut, path, bobToken, patch)
	missing := s.do(t, http.MethodPut, missingPath, bobToken, patch)
	junk := s.do(t, http.MethodPut, "/properties/abc", bobToken, patch)
	require.Equal(t, http.StatusNotFound, foreign.Code)
	require.Equal(t, foreign.Code, missing.Code)
	require.Equal(t, foreign.Body.String(), missing.Body.String())
	require.Equal(t, foreign.Body.String(), junk.Body.String())

	foreign = s.do(t, http.MethodDelete, path, bobToken, nil)
	missing = s.do(t, http.MethodDelete, missingPath, bobToken, nil)
	require.Equal(t, http.StatusNotFound, foreign.Code)
	require.Equal(t, foreign.Body.String(), missing.Body.String())

	w := s.do(t, http.MethodPut, path, aliceToken, map[string]any{"state": "Maharashtra", "noOfBathRooms": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated struct {
		Message  string          `json:"message"`
		Property models.Property `json:"property"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, "Property updated successfully", updated.Message)
	require.Equal(t, "Maharashtra", updated.Property.State)
	require.Equal(t, 2, updated.Property.NoOfBathRooms)
	require.Equal(t, "Pune", updated.Property.City)

	w = s.do(t, http.MethodPut, path, aliceToken, map[string]any{"noOfBedRooms": -1})
	require.Equal(t, http.StatusLengthRequired, w.Code)

	w = s.do(t, http.MethodDelete, path, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Property deleted successfully", message(t, w))
	require.Equal(t, 0, s.countRows(t, "properties"))
}

func TestListMineReturnsOnlyOwnProperties(t *testing.T) {
	s := newTestServer(t)
	aliceToken, aliceID := s.signup(t, 1)
	bobToken, _ := s.signup(t, 2)

	w := s.do(t, http.MethodGet, "/properties", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())

	s.createProperty(t, aliceToken, propertyBody("Pune", "MH", 1, 1))
	s.createProperty(t, bobToken, propertyBody("Pune", "MH", 1, 1))
	s.createProperty(t, aliceToken, propertyBody("Goa", "GA", 2, 2))

	w = s.do(t, http.MethodGet, "/properties", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decodeProperties(t, w)
	require.Len(t, mine, 2)
	for _, p := range mine {
		require.Equal(t, aliceID, p.UserID)
	}
}

func TestPropertyDetailReturnsOwnerProfile(t *testing.T) {
	s := newTestServer(t)
	aliceToken, aliceID := s.signup(t, 1)
	bobToken, _ := s.signup(t, 2)
	property := s.createProperty(t, aliceToken, propertyBody("Pune", "MH", 1, 1))

	w := s.do(t, http.MethodGet, fmt.Sprintf("/property/%d", property.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var owner map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &owner))
	require.Equal(t, float64(aliceID), owner["id"])
	require.Equal(t, "user1@example.com", owner["email"])
	require.Equal(t, "Asha", owner["firstName"])
	require.NotContains(t, owner, "password")
	require.NotContains(t, owner, "passwordHash")
	require.NotContains(t, w.Body.String(), "hunter2")

	w = s.do(t, http.MethodGet, fmt.Sprintf("/property/%d", property.ID+1), bobToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Property not found", message(t, w))
}

func TestAllPropertiesFilters(t *testing.T) {
	s := newTestServer(t)
	aliceToken, _ := s.signup(t, 1)
	bobToken, _ := s.signup(t, 2)

	pune := s.createProperty(t, aliceToken, propertyBody("Pune", "MH", 1, 1))
	puneBig := s.createProperty(t, bobToken, propertyBody("Pune", "KA", 4, 3))
	mumbai := s.createProperty(t, bobToken, propertyBody("Mumbai", "MH", 2, 2))

	ids := func(w *httptest.ResponseRecorder) []int64 {
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		out := []int64{}
		for _, p := range decodeProperties(t, w) {
			out = append(out, p.ID)
		}
		return out
	}

	all := []int64{pune.ID, puneBig.ID, mumbai.ID}
	require.Equal(t, all, ids(s.do(t, http.MethodGet, "/allproperties", "", nil)))
	require.Equal(t, all, ids(s.do(t, http.MethodGet, "/allproperties?city=&minBedrooms=", "", nil)))
	require.Equal(t, []int64{pune.ID, puneBig.ID}, ids(s.do(t, http.MethodGet, "/allproperties?city=Pune", "", nil)))
	require.Equal(t, []int64{pune.ID, mumbai.ID}, ids(s.do(t, http.MethodGet, "/allproperties?state=MH", "", nil)))
	require.Equal(t, []int64{puneBig.ID, mumbai.ID}, ids(s.do(t, http.MethodGet, "/allproperties?minBedrooms=2&maxBathrooms=3", "", nil)))
	require.Equal(t, []int64{pune.ID}, ids(s.do(t, http.MethodGet, "/allproperties?city=Pune&maxBedrooms=1&minBathrooms=1", "", nil)))
	require.Equal(t, []int64{}, ids(s.do(t, http.MethodGet, "/allproperties?city=Delhi", "", nil)))

	w := s.do(t, http.MethodGet, "/allproperties?minBedrooms=two", "", nil)
	require.Equal(t, http.StatusLengthRequired, w.Code)
}

func TestEventsAreScopedToCaller(t *testing.T) {
	s := newTestServer(t)
	aliceToken, aliceID := s.signup(t, 1)
	bobToken, _ := s.signup(t, 2)
	s.createProperty(t, aliceToken, propertyBody("Pune", "MH", 1, 1))

	w := s.do(t, http.MethodGet, "/events", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 2)
	require.Equal(t, services.EventPropertyCreate, events[0].Type)
	for _, e := range events {
		require.Equal(t, aliceID, e.UserID)
	}

	w = s.do(t, http.MethodGet, "/events?limit=1", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 1)
	require.Equal(t, services.EventUserSignup, events[0].Type)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/property", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	require.Equal(t, testOrigin, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/allproperties", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
