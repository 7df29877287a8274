package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/gorilla/sessions"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"

	"gitlab.com/dirk.krummacker/personal-crm/internal/auth"
	"gitlab.com/dirk.krummacker/personal-crm/internal/config"
	"gitlab.com/dirk.krummacker/personal-crm/internal/database"
	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
	"gitlab.com/dirk.krummacker/personal-crm/internal/store"
	"gitlab.com/dirk.krummacker/personal-crm/internal/validation"
)

const (
	contactID = "6f1c2a1e-8f0b-4c39-9a53-4f1a9cf7c001"
	circleID  = "0b6a1c3e-7a55-4d8e-b2a4-3f1e0c9d0c01"
)

var contactColumns = []string{"id", "user_id", "name", "profile_link", "reason", "favorite", "created_at"}

var created = time.Date(2024, time.May, 17, 14, 30, 0, 0, time.UTC)

// fakeSessions signs every request in as the configured user, or as nobody.
type fakeSessions struct {
	user  *model.User
	store *sessions.CookieStore
}

func (f *fakeSessions) Resolve(r *http.Request) (*model.User, *sessions.Session, error) {
	session := sessions.NewSession(f.store, auth.SessionName)
	session.Options = &sessions.Options{Path: "/", MaxAge: 3600}
	return f.user, session, nil
}

func (f *fakeSessions) Start(w http.ResponseWriter, r *http.Request) (string, error) {
	return "https://idp.example.com/authorize?state=xyz", nil
}

func (f *fakeSessions) Finish(w http.ResponseWriter, r *http.Request) (*auth.Grant, error) {
	return nil, auth.ErrInvalidState
}

func (f *fakeSessions) Establish(w http.ResponseWriter, r *http.Request, grant *auth.Grant) error {
	return nil
}

func (f *fakeSessions) Clear(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// fakeProvider stands in for the identity provider behind real cookie sessions.
type fakeProvider struct{}

func (fakeProvider) AuthCodeURL(state string) string {
	return "https://idp.example.com/authorize?state=" + url.QueryEscape(state)
}

func (fakeProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "access-" + code}, nil
}

func (fakeProvider) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	return token, nil
}

func (fakeProvider) UserInfo(ctx context.Context, token *oauth2.Token) (*model.User, error) {
	return &model.User{ID: "google:42", Email: "jane@example.com"}, nil
}

// fakePinger reports a fixed database health.
type fakePinger struct {
	err error
}

func (p fakePinger) Ping(ctx context.Context) error {
	return p.err
}

// createMockObjects builds mock database handles for both database identities and mock objects
// for defining our expected SQL calls.
func createMockObjects(t *testing.T) (*database.Factory, sqlmock.Sqlmock, sqlmock.Sqlmock) {
	sessionDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	privilegedDB, privileged, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() {
		sessionDB.Close()
		privilegedDB.Close()
	})
	return database.NewFactory(sqlx.NewDb(sessionDB, "mysql"), sqlx.NewDb(privilegedDB, "mysql")), mock, privileged
}

// initializeService sets up the service with the mock database, signed in as userID (or
// anonymous for an empty id), and returns a handle to the gin engine against which requests can
// be executed.
func initializeService(factory *database.Factory, userID string, pinger Pinger) *gin.Engine {
	fake := &fakeSessions{store: sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))}
	if userID != "" {
		fake.user = &model.User{ID: userID}
	}
	if pinger == nil {
		pinger = fakePinger{}
	}
	return newRouter(factory, fake, pinger)
}

func newRouter(factory *database.Factory, manager SessionManager, pinger Pinger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s := New(store.New(factory, validation.New()), manager, pinger, logger)
	return SetupHttpRouter(s, true)
}

// runTest executes the HTTP request with the specified arguments and returns the response.
func runTest(router *gin.Engine, method string, url string, body *strings.Reader) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	if body == nil {
		body = strings.NewReader("")
	}
	request, _ := http.NewRequest(method, url, body)
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)
	return recorder
}

func expectationsMet(t *testing.T, mocks ...sqlmock.Sqlmock) {
	for _, mock := range mocks {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	}
}

// TestGetAll executes a GET request for all contacts of the signed-in user. It expects that the
// JSON for a list of contacts is returned and that only the user's rows were asked for.
func TestGetAll(t *testing.T) {
	factory, mock, _ := createMockObjects(t)

	// Define expectations on SQL statements
	rows := mock.NewRows(contactColumns).
		AddRow(contactID, "u1", "Jane Doe", "https://x.com/jane", "met at GopherCon", true, created).
		AddRow("6f1c2a1e-8f0b-4c39-9a53-4f1a9cf7c002", "u1", "John Roe", "https://x.com/john", "neighbour", false, created)
	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE user_id = \\? ORDER BY created_at DESC").
		WithArgs("u1").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT contact_id, circle_id FROM contacts_circles WHERE user_id = \\?").
		WithArgs("u1").
		WillReturnRows(mock.NewRows([]string{"contact_id", "circle_id"}))

	// Run test and compare results
	recorder := runTest(initializeService(factory, "u1", nil), "GET", "/contacts?q=gopher", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var contacts []model.ContactView
	json.Unmarshal(recorder.Body.Bytes(), &contacts)
	assert.Equal(t, 1, len(contacts))
	assert.Equal(t, contactID, contacts[0].ID)
	assert.Equal(t, "Jane Doe", contacts[0].Name)
	assert.True(t, contacts[0].Favorite)
	assert.Empty(t, contacts[0].Circles)
	expectationsMet(t, mock)
}

// TestGetAllAnonymous executes a GET request without a session. It expects a redirect to the
// sign-in page and no database access.
func TestGetAllAnonymous(t *testing.T) {
	factory, mock, _ := createMockObjects(t)

	recorder := runTest(initializeService(factory, "", nil), "GET", "/contacts", nil)
	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/signin", recorder.Header().Get("Location"))
	expectationsMet(t, mock)
}

// TestGet executes a GET request for a single contact with a valid ID. It expects that the JSON
// for the contact is returned.
func TestGet(t *testing.T) {
	factory, mock, _ := createMockObjects(t)

	// Define expectations on SQL statements
	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE user_id = \\? AND id = \\?").
		WithArgs("u1", contactID).
		WillReturnRows(mock.NewRows(contactColumns).
			AddRow(contactID, "u1", "Jane Doe", "https://x.com/jane", "met at GopherCon", false, created))
	mock.ExpectQuery("SELECT contact_id, circle_id FROM contacts_circles WHERE user_id = \\? AND contact_id IN \\(\\?\\)").
		WithArgs("u1", contactID).
		WillReturnRows(mock.NewRows([]string{"contact_id", "circle_id"}).AddRow(contactID, circleID))
	mock.ExpectQuery("SELECT id, name, color FROM circles WHERE user_id = \\? AND id IN \\(\\?\\)").
		WithArgs("u1", circleID).
		WillReturnRows(mock.NewRows([]string{"id", "name", "color"}).AddRow(circleID, "Friends", "#33cc66"))

	// Run test and compare results
	recorder := runTest(initializeService(factory, "u1", nil), "GET", "/contacts/"+contactID, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	var getBody map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &getBody)
	assert.Equal(t, contactID, getBody["id"])
	assert.Equal(t, "Jane Doe", getBody["name"])
	assert.Equal(t, "2024-05-17T14:30:00Z", getBody["created_at"])
	assert.NotContains(t, getBody, "user_id")
	circles := getBody["circles"].([]interface{})
	assert.Equal(t, "Friends", circles[0].(map[string]interface{})["name"])
	expectationsMet(t, mock)
}

// TestGetOtherUsersContact executes a GET request for a contact that exists for another user. It
// expects that the HTTP request is answered with the NOT FOUND status code.
func TestGetOtherUsersContact(t *testing.T) {
	factory, mock, _ := createMockObjects(t)

	// Define expectations on SQL statements
	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE user_id = \\? AND id = \\?").
		WithArgs("u2", contactID).
		WillReturnRows(mock.NewRows(contactColumns))

	// Run test and compare results
	recorder := runTest(initializeService(factory, "u2", nil), "GET", "/contacts/"+contactID, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	expectationsMet(t, mock)
}

// TestGetInvalidCharacterID executes a GET request with an ID that is no UUID. It expects that
// the HTTP request is answered with the NOT FOUND status code. It also expects that we do not
// reach out to the database in the first place.
func TestGetInvalidCharacterID(t *testing.T) {
	factory, mock, _ := createMockObjects(t)

	recorder := runTest(initializeService(factory, "u1", nil), "GET", "/contacts/INVALID", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	expectationsMet(t, mock)
}

// TestPost executes a POST request with a valid body. It expects that the HTTP request is
// answered with the CREATED status code, a body with the posted values and the views to reload.
func TestPost(t *testing.T) {
	factory, mock, _ := createMockObjects(t)

	// Define expectations on SQL statements
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO contacts \\(user_id, id, name, profile_link, reason, favorite, created_at\\)").
		WithArgs("u1", sqlmock.AnyArg(), "Erika Mustermann", "https://example.com/erika", "old friend", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Run test and compare results
	recorder := runTest(initializeService(factory, "u1", nil), "POST", "/contacts", strings.NewReader(`
		{
			"name": " Erika Mustermann ",
			"profile_link": "https://example.com/erika",
			"reason": "old friend"
		}
	`))
	assert.Equal(t, http.StatusCreated, recorder.Code)
	var postBody map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &postBody)
	assert.Equal(t, "Erika Mustermann", postBody["name"])
	assert.Equal(t, "https://example.com/erika", postBody["profile_link"])
	assert.NotEmpty(t, postBody["id"])

	var trigger map[string][]string
	json.Unmarshal([]byte(recorder.Header().Get("HX-Trigger")), &trigger)
	assert.Contains(t, trigger["revalidate"], "/contacts")
	expectationsMet(t, mock)
}

// TestPostInvalidBodies executes POST requests with invalid bodies. It expects that the HTTP
// requests are all answered with the BAD REQUEST status code and never reach the database.
func TestPostInvalidBodies(t *testing.T) {
	invalidRequestBodies := []string{
		"",
		"not JSON",
		`{
			"name": "Erika Mustermann"
			"profile_link": "https://example.com/erika"
		}`, // commas missing
		`{"name": "", "profile_link": "https://example.com/erika", "reason": "r"}`,
		`{"name": "Erika", "profile_link": "javascript:alert(1)", "reason": "r"}`,
		`{"name": "Erika", "profile_link": "https://example.com/erika", "reason": "r", "circle_ids": ["c1"]}`,
	}
	for _, body := range invalidRequestBodies {
		factory, mock, _ := createMockObjects(t)

		recorder := runTest(initializeService(factory, "u1", nil), "POST", "/contacts", strings.NewReader(body))
		assert.Equal(t, http.StatusBadRequest, recorder.Code, body)
		expectationsMet(t, mock)
	}
}

// TestPostValidationDetails checks the body of a validation failure.
func TestPostValidationDetails(t *testing.T) {
	factory, _, _ := createMockObjects(t)

	recorder := runTest(initializeService(factory, "u1", nil), "POST", "/circles",
		strings.NewReader(`{"name": "Work", "color": "blue"}`))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var body map[string]string
	json.Unmarshal(recorder.Body.Bytes(), &body)
	assert.Equal(t, "validation_failed", body["code"])
	assert.Equal(t, "color", body["field"])
	assert.Equal(t, "hexcolor", body["rule"])
}

// TestPutUnknownContact executes a PUT request for a contact that does not exist for the user. It
// expects the NOT FOUND status code.
func TestPutUnknownContact(t *testing.T) {
	factory, mock, _ := createMockObjects(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE contacts SET name = \\?, profile_link = \\?, reason = \\?, favorite = \\? WHERE user_id = \\? AND id = \\?").
		WithArgs("Jane", "https://x.com/jane", "r", false, "u1", contactID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	recorder := runTest(initializeService(factory, "u1", nil), "PUT", "/contacts/"+contactID,
		strings.NewReader(`{"name": "Jane", "profile_link": "https://x.com/jane", "reason": "r"}`))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	expectationsMet(t, mock)
}

// TestDelete executes a DELETE request for an existing contact. It expects the OK status code.
func TestDelete(t *testing.T) {
	factory, mock, _ := createMockObjects(t)

	mock.ExpectExec("DELETE FROM contacts WHERE user_id = \\? AND id = \\?").
		WithArgs("u1", contactID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	recorder := runTest(initializeService(factory, "u1", nil), "DELETE", "/contacts/"+contactID, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("HX-Trigger"), "/contacts/"+contactID)
	expectationsMet(t, mock)
}

// TestDeleteUnknown executes a DELETE request for a contact that does not exist. It expects the
// NOT FOUND status code.
func TestDeleteUnknown(t *testing.T) {
	factory, mock, _ := createMockObjects(t)

	mock.ExpectExec("DELETE FROM contacts WHERE user_id = \\? AND id = \\?").
		WithArgs("u1", contactID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	recorder := runTest(initializeService(factory, "u1", nil), "DELETE", "/contacts/"+contactID, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Empty(t, recorder.Header().Get("HX-Trigger"))
	expectationsMet(t, mock)
}

// TestPostDuplicateCircle executes a POST request for a circle whose name is taken. It expects
// the CONFLICT status code.
func TestPostDuplicateCircle(t *testing.T) {
	factory, mock, _ := createMockObjects(t)

	mock.ExpectExec("INSERT INTO circles").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	recorder := runTest(initializeService(factory, "u1", nil), "POST", "/circles", strings.NewReader(`{"name": "Work"}`))
	assert.Equal(t, http.StatusConflict, recorder.Code)
	expectationsMet(t, mock)
}

// TestStoreFailure executes a POST request while the database fails. It expects the INTERNAL
// SERVER ERROR status code without the database message in the body.
func TestStoreFailure(t *testing.T) {
	factory, mock, _ := createMockObjects(t)

	mock.ExpectExec("INSERT INTO circles").
		WillReturnError(errors.New("server has gone away"))

	recorder := runTest(initializeService(factory, "u1", nil), "POST", "/circles", strings.NewReader(`{"name": "Work"}`))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "gone away")
	expectationsMet(t, mock)
}

// TestGetCircles executes a GET request for the circles. It expects the counts of a single grouped
// statement.
func TestGetCircles(t *testing.T) {
	factory, mock, _ := createMockObjects(t)

	mock.ExpectQuery("SELECT (.+) FROM circles WHERE user_id = \\? ORDER BY created_at DESC").
		WithArgs("u1").
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "name", "color", "description", "icon", "favorite", "created_at"}).
			AddRow(circleID, "u1", "Friends", nil, nil, nil, false, created))
	mock.ExpectQuery("SELECT circle_id AS k, COUNT\\(\\*\\) AS n FROM contacts_circles WHERE user_id = \\? GROUP BY circle_id").
		WithArgs("u1").
		WillReturnRows(mock.NewRows([]string{"k", "n"}).AddRow(circleID, 3))

	recorder := runTest(initializeService(factory, "u1", nil), "GET", "/circles", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	var circles []model.CircleView
	json.Unmarshal(recorder.Body.Bytes(), &circles)
	assert.Equal(t, 1, len(circles))
	assert.Equal(t, 3, circles[0].ContactCount)
	expectationsMet(t, mock)
}

// TestGetEventsInvalidFilter executes a GET request with an unknown filter. It expects the BAD
// REQUEST status code.
func TestGetEventsInvalidFilter(t *testing.T) {
	factory, mock, _ := createMockObjects(t)

	recorder := runTest(initializeService(factory, "u1", nil), "GET", "/events?filter=tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	expectationsMet(t, mock)
}

// TestGetStats executes GET requests for the statistics as a regular user and as an administrator.
// It expects FORBIDDEN for the former and the three counts for the latter.
func TestGetStats(t *testing.T) {
	settingsColumns := []string{"user_id", "qr_code_link", "is_admin"}

	factory, mock, privileged := createMockObjects(t)
	mock.ExpectQuery("SELECT user_id, qr_code_link, is_admin FROM settings WHERE user_id = \\?").
		WithArgs("u1").
		WillReturnRows(mock.NewRows(settingsColumns).AddRow("u1", nil, false))

	recorder := runTest(initializeService(factory, "u1", nil), "GET", "/admin/stats", nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	expectationsMet(t, mock, privileged)

	factory, mock, privileged = createMockObjects(t)
	privileged.MatchExpectationsInOrder(false)
	mock.ExpectQuery("SELECT user_id, qr_code_link, is_admin FROM settings WHERE user_id = \\?").
		WithArgs("admin").
		WillReturnRows(mock.NewRows(settingsColumns).AddRow("admin", nil, true))
	privileged.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users").
		WillReturnRows(privileged.NewRows([]string{"count"}).AddRow(2))
	privileged.ExpectQuery("SELECT COUNT\\(\\*\\) FROM contacts").
		WillReturnRows(privileged.NewRows([]string{"count"}).AddRow(10))
	privileged.ExpectQuery("SELECT COUNT\\(\\*\\) FROM circles").
		WillReturnRows(privileged.NewRows([]string{"count"}).AddRow(3))

	recorder = runTest(initializeService(factory, "admin", nil), "GET", "/admin/stats", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	var stats model.Stats
	json.Unmarshal(recorder.Body.Bytes(), &stats)
	assert.Equal(t, model.Stats{UsersCount: 2, ContactsCount: 10, CirclesCount: 3}, stats)
	expectationsMet(t, mock, privileged)
}

// TestHealth executes GET requests against the health endpoint, which needs no session.
func TestHealth(t *testing.T) {
	factory, _, _ := createMockObjects(t)

	recorder := runTest(initializeService(factory, "", nil), "GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = runTest(initializeService(factory, "", fakePinger{err: errors.New("down")}), "GET", "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

// startSignIn runs GET /signin and returns the callback request the identity provider would send
// the browser back with.
func startSignIn(t *testing.T, router *gin.Engine) *http.Request {
	recorder := runTest(router, "GET", "/signin", nil)
	assert.Equal(t, http.StatusFound, recorder.Code)
	location, err := url.Parse(recorder.Header().Get("Location"))
	if err != nil {
		t.Fatalf("an error '%s' was not expected when parsing the redirect", err)
	}
	assert.Equal(t, "idp.example.com", location.Host)

	callback, _ := http.NewRequest("GET", "/auth/callback?code=abc&state="+url.QueryEscape(location.Query().Get("state")), nil)
	for _, c := range recorder.Result().Cookies() {
		callback.AddCookie(c)
	}
	return callback
}

func sessionCookie(recorder *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range recorder.Result().Cookies() {
		if c.Name == auth.SessionName {
			return c
		}
	}
	return nil
}

func newSessions() *auth.Sessions {
	return auth.NewSessions(config.AuthConfig{
		SessionSecret:  "0123456789abcdef0123456789abcdef",
		SessionMaxAge:  time.Hour,
		VerifyInterval: time.Hour,
	}, fakeProvider{})
}

// TestSignInFlow executes the sign-in redirect and the callback. It expects the user to be
// recorded through the user's own session handle, never the privileged one, and the session
// cookie to be issued afterwards.
func TestSignInFlow(t *testing.T) {
	factory, mock, privileged := createMockObjects(t)
	router := newRouter(factory, newSessions(), fakePinger{})
	callback := startSignIn(t, router)

	mock.ExpectExec("INSERT INTO users \\(id, email, created_at\\) VALUES \\(\\?, \\?, \\?\\) ON DUPLICATE KEY UPDATE email = VALUES\\(email\\)").
		WithArgs("google:42", "jane@example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, callback)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/", recorder.Header().Get("Location"))
	assert.NotNil(t, sessionCookie(recorder))
	expectationsMet(t, mock, privileged)

	recorder = runTest(router, "GET", "/auth/callback?error=access_denied", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

// TestSignInUserNotRecorded executes a callback while recording the user fails. It expects the
// INTERNAL SERVER ERROR status code and no session cookie, so that the browser is not signed in
// as a user without a users row.
func TestSignInUserNotRecorded(t *testing.T) {
	factory, mock, privileged := createMockObjects(t)
	router := newRouter(factory, newSessions(), fakePinger{})
	callback := startSignIn(t, router)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("server has gone away"))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, callback)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Nil(t, sessionCookie(recorder))
	expectationsMet(t, mock, privileged)
}
