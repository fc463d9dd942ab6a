package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/contacts-api/internal/logging"
)

func newHandlerFixture(t *testing.T) (*chi.Mux, *Service) {
	t.Helper()

	svc, _ := newContactService(t)
	handler := NewHandler(svc, logging.NewLogger(true))

	r := chi.NewRouter()
	r.Route("/contacts", func(r chi.Router) {
		r.Post("/", handler.Create)
		r.Get("/", handler.List)
		r.Get("/search", handler.Search)
		r.Get("/birthdays", handler.Birthdays)
		r.Get("/{id}", handler.Get)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
	})
	return r, svc
}

func TestHandlerCreate(t *testing.T) {
	t.Parallel()
	router, _ := newHandlerFixture(t)

	body := `{
		"first_name": "john",
		"last_name": "smith",
		"email": "john@example.com",
		"phone_number": "555-123-4567",
		"date_of_birth": "1990-03-10"
	}`
	req := httptest.NewRequest(http.MethodPost, "/contacts/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "John", created.FirstName)
	assert.Equal(t, "5551234567", created.PhoneNumber)
	assert.Equal(t, "1990-03-10", created.DateOfBirth.Format("2006-01-02"))
}

func TestHandlerCreate_InvalidBody(t *testing.T) {
	t.Parallel()
	router, _ := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/contacts/", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerCreate_ValidationError(t *testing.T) {
	t.Parallel()
	router, _ := newHandlerFixture(t)

	body := `{
		"first_name": "j0hn",
		"last_name": "smith",
		"email": "john@example.com",
		"phone_number": "5551234567",
		"date_of_birth": "1990-03-10"
	}`
	req := httptest.NewRequest(http.MethodPost, "/contacts/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "first_name")
}

func TestHandlerCreate_DuplicateEmail(t *testing.T) {
	t.Parallel()
	router, svc := newHandlerFixture(t)

	_, err := svc.CreateContact(context.Background(), validInput())
	require.NoError(t, err)

	body := `{
		"first_name": "johnny",
		"last_name": "smith",
		"email": "john@example.com",
		"phone_number": "5559876543",
		"date_of_birth": "1991-04-11"
	}`
	req := httptest.NewRequest(http.MethodPost, "/contacts/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerGet_NotFound(t *testing.T) {
	t.Parallel()
	router, _ := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/contacts/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerGet_MalformedID(t *testing.T) {
	t.Parallel()
	router, _ := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/contacts/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerList_Pagination(t *testing.T) {
	t.Parallel()
	router, svc := newHandlerFixture(t)
	ctx := context.Background()

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		in := validInput()
		in.Email = email
		in.PhoneNumber = "555123456" + string(rune('0'+i))
		_, err := svc.CreateContact(ctx, in)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/contacts/?page=2&page_size=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ContactListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 2, resp.PageSize)
	assert.Len(t, resp.Contacts, 1)
}

func TestHandlerSearch(t *testing.T) {
	t.Parallel()
	router, svc := newHandlerFixture(t)
	ctx := context.Background()

	_, err := svc.CreateContact(ctx, validInput())
	require.NoError(t, err)

	anna := validInput()
	anna.FirstName = "anna"
	anna.Email = "anna@example.com"
	anna.PhoneNumber = "5559876543"
	_, err = svc.CreateContact(ctx, anna)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/contacts/search?q=ann", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ContactListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Contacts, 1)
	assert.Equal(t, "Anna", resp.Contacts[0].FirstName)
}

func TestHandlerBirthdays_BadDaysParam(t *testing.T) {
	t.Parallel()
	router, _ := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/contacts/birthdays?days=soon", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/contacts/birthdays?days=500", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUpdate(t *testing.T) {
	t.Parallel()
	router, svc := newHandlerFixture(t)

	created, err := svc.CreateContact(context.Background(), validInput())
	require.NoError(t, err)

	body := `{"first_name": "johnny"}`
	req := httptest.NewRequest(http.MethodPut, "/contacts/"+created.ID.String(), strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var updated Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Johnny", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
}

func TestHandlerDelete(t *testing.T) {
	t.Parallel()
	router, svc := newHandlerFixture(t)

	created, err := svc.CreateContact(context.Background(), validInput())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/contacts/"+created.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/contacts/"+created.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerBirthdays(t *testing.T) {
	t.Parallel()
	router, svc := newHandlerFixture(t)
	ctx := context.Background()

	soon := validInput()
	soon.DateOfBirth = NewDate(1995, time.January, 2)
	_, err := svc.CreateContact(ctx, soon)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/contacts/birthdays?days=7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var contacts []Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contacts))
	require.Len(t, contacts, 1)
	assert.Equal(t, "john@example.com", contacts[0].Email)
}
