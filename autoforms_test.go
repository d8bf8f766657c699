package autoforms_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/autoforms/autoforms"
	"github.com/autoforms/autoforms/auth"
	"github.com/autoforms/autoforms/clause"
	"github.com/autoforms/autoforms/logger"
	"github.com/autoforms/autoforms/schema"
	"github.com/autoforms/autoforms/session"
	"github.com/autoforms/autoforms/store"
)

func init() {
	auth.Cost = bcrypt.MinCost
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

type harness struct {
	t       *testing.T
	server  *autoforms.Server
	store   *store.MemoryStore
	handler http.Handler
	cookies []*http.Cookie
}

func discoveries() *schema.Form {
	form := schema.NewForm("/discoveries", "discoveries",
		&schema.Field{Name: "name", InputLabel: "Name", Required: true, List: true, ListOrder: intPtr(1), SortOrder: intPtr(1)},
		&schema.Field{Name: "revision", Type: schema.Int, Min: floatPtr(0), List: true},
	)
	form.CanAdd = true
	form.CanEdit = true
	form.CanArchive = true
	form.CanDelete = true
	return form
}

func newHarness(t *testing.T, forms ...*schema.Form) *harness {
	t.Helper()

	memory := store.NewMemoryStore()
	server, err := autoforms.New(&autoforms.Config{
		Store:  memory,
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	for _, form := range forms {
		require.NoError(t, server.AddForm(form))
	}
	require.NoError(t, server.Migrate(context.Background()))

	return &harness{t: t, server: server, store: memory, handler: server.Handler()}
}

func (h *harness) do(method, target string, body url.Values) *httptest.ResponseRecorder {
	h.t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, cookie := range h.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		h.setCookie(cookie)
	}
	assert.Zero(h.t, h.store.OpenHandles(), "store handle leaked by %s %s", method, target)
	return w
}

func (h *harness) setCookie(cookie *http.Cookie) {
	for idx, existing := range h.cookies {
		if existing.Name == cookie.Name {
			if cookie.MaxAge < 0 {
				h.cookies = append(h.cookies[:idx], h.cookies[idx+1:]...)
			} else {
				h.cookies[idx] = cookie
			}
			return
		}
	}
	if cookie.MaxAge >= 0 {
		h.cookies = append(h.cookies, cookie)
	}
}

func (h *harness) user(username, password string, permissions ...int) {
	h.t.Helper()

	hash, err := auth.Hash(password)
	require.NoError(h.t, err)

	handle, err := h.store.Begin(context.Background())
	require.NoError(h.t, err)
	defer handle.Close()
	require.NoError(h.t, handle.CreateUser(&store.User{Active: true, Username: username, Password: hash, Permissions: permissions}))
}

func (h *harness) login(prefix, username, password string) {
	h.t.Helper()
	w := h.do(http.MethodPost, prefix+"/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(h.t, http.StatusFound, w.Code, w.Body.String())
}

func (h *harness) insert(form *schema.Form, records ...store.Record) {
	h.t.Helper()

	handle, err := h.store.Begin(context.Background())
	require.NoError(h.t, err)
	defer handle.Close()
	for _, record := range records {
		_, err := handle.Insert(form.Layout(), record)
		require.NoError(h.t, err)
	}
}

func location(w *httptest.ResponseRecorder) string {
	return w.Header().Get("Location")
}

func TestPermissionGate(t *testing.T) {
	enabled := discoveries()
	disabled := discoveries()
	disabled.Path = "/disabled"
	disabled.CanAdd = false

	h := newHarness(t, enabled, disabled)

	w := h.do(http.MethodGet, "/discoveries/add", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/discoveries/login?return=add", location(w))

	w = h.do(http.MethodGet, "/disabled/add", nil)
	assert.Equal(t, "/disabled/list", location(w))

	h.user("alice", "Secret123")
	h.login("/disabled", "alice", "Secret123")

	w = h.do(http.MethodGet, "/disabled/add", nil)
	assert.Equal(t, "/disabled/list", location(w))

	w = h.do(http.MethodGet, "/discoveries/add", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Add Discovery")
}

func TestListRequiresLogin(t *testing.T) {
	h := newHarness(t, discoveries())

	w := h.do(http.MethodGet, "/discoveries/list", nil)
	assert.Equal(t, "/discoveries/login?return=list", location(w))

	w = h.do(http.MethodGet, "/discoveries", nil)
	assert.Equal(t, "/discoveries/list", location(w))
}

func TestPermissionRequired(t *testing.T) {
	form := discoveries()
	form.ArchivePermission = 3
	form.DeletePermission = 4

	h := newHarness(t, form)
	h.insert(form, store.Record{"name": "Io", "revision": int64(1), "active": true})
	h.user("alice", "Secret123", 3)
	h.login("/discoveries", "alice", "Secret123")

	w := h.do(http.MethodGet, "/discoveries/delete?id=1", nil)
	assert.Equal(t, "/discoveries/login?return=delete", location(w))
	assert.Len(t, h.store.Rows("discoveries"), 1)

	w = h.do(http.MethodGet, "/discoveries/list", nil)
	body := w.Body.String()
	assert.Contains(t, body, `href="archive?id=1"`)
	assert.NotContains(t, body, `href="delete?id=1"`)

	w = h.do(http.MethodGet, "/discoveries/archive?id=1", nil)
	assert.Equal(t, "/discoveries/list?offset=0", location(w))
	assert.Equal(t, false, h.store.Rows("discoveries")[0]["active"])
}

func TestAddCoercesInvalidInt(t *testing.T) {
	form := schema.NewForm("/", "discoveries", &schema.Field{Name: "revision", Type: schema.Int, Min: floatPtr(0)})
	form.CanAdd = true

	h := newHarness(t, form)
	h.user("alice", "Secret123")
	h.login("", "alice", "Secret123")

	w := h.do(http.MethodPost, "/add", url.Values{"revision": {"abc"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/list", location(w))

	rows := h.store.Rows("discoveries")
	require.Len(t, rows, 1)
	assert.Equal(t, int64(0), rows[0]["revision"])
	_, archivable := rows[0]["active"]
	assert.False(t, archivable)
}

func TestAddAndList(t *testing.T) {
	form := discoveries()
	h := newHarness(t, form)
	h.user("alice", "Secret123")
	h.login("/discoveries", "alice", "Secret123")

	w := h.do(http.MethodGet, "/discoveries/list", nil)
	assert.Contains(t, w.Body.String(), `colspan="5"`)
	assert.Contains(t, w.Body.String(), "There were no records in the database.")

	for _, name := range []string{"Titan", "Io"} {
		w = h.do(http.MethodPost, "/discoveries/add", url.Values{"name": {name}, "revision": {"2"}})
		assert.Equal(t, "/discoveries/list", location(w))
	}

	rows := h.store.Rows("discoveries")
	require.Len(t, rows, 2)
	assert.Equal(t, true, rows[0]["active"])
	assert.Equal(t, int64(2), rows[0]["revision"])

	w = h.do(http.MethodGet, "/discoveries/list", nil)
	body := w.Body.String()
	assert.Less(t, strings.Index(body, "<td>Io</td>"), strings.Index(body, "<td>Titan</td>"))
	assert.Contains(t, body, `href="edit?id=1"`)
	assert.Contains(t, body, `href="archive?id=2"`)
	assert.Contains(t, body, `href="delete?id=2"`)
	assert.NotContains(t, body, "no-results")
}

func TestAddValidationRendersInline(t *testing.T) {
	form := discoveries()
	form.Fields[0].Predicate = func(value interface{}) bool {
		s, _ := value.(string)
		return s != "" && strings.ToUpper(s[:1]) == s[:1]
	}
	form.Fields[0].ValidationMessage = "Name must be capitalized"

	h := newHarness(t, form)
	h.user("alice", "Secret123")
	h.login("/discoveries", "alice", "Secret123")

	w := h.do(http.MethodPost, "/discoveries/add", url.Values{"name": {"io"}, "revision": {"-1"}})
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Name must be capitalized")
	assert.Contains(t, body, "Please correct the highlighted fields.")
	assert.Contains(t, body, `value="io"`)
	assert.Contains(t, body, "revision must be at least 0")
	assert.Empty(t, h.store.Rows("discoveries"))

	w = h.do(http.MethodPost, "/discoveries/add", url.Values{"name": {""}, "revision": {"1"}})
	assert.Contains(t, w.Body.String(), "Name must be capitalized")
	assert.Empty(t, h.store.Rows("discoveries"))
}

func TestEdit(t *testing.T) {
	form := discoveries()
	h := newHarness(t, form)
	h.insert(form, store.Record{"name": "Io", "revision": int64(1), "active": true})
	h.user("alice", "Secret123")
	h.login("/discoveries", "alice", "Secret123")

	w := h.do(http.MethodGet, "/discoveries/edit?id=1&offset=15", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Edit Discovery")
	assert.Contains(t, body, `value="Io"`)
	assert.Contains(t, body, `<input type="hidden" name="id" value="1">`)
	assert.Contains(t, body, `<input type="hidden" name="offset" value="15">`)

	w = h.do(http.MethodPost, "/discoveries/edit", url.Values{"id": {"1"}, "offset": {"15"}, "name": {"Europa"}, "revision": {"2"}})
	assert.Equal(t, "/discoveries/list?offset=15", location(w))

	row := h.store.Rows("discoveries")[0]
	assert.Equal(t, "Europa", row["name"])
	assert.Equal(t, int64(2), row["revision"])
	assert.Equal(t, true, row["active"])
}

func TestEditMissingRecord(t *testing.T) {
	h := newHarness(t, discoveries())
	h.user("alice", "Secret123")
	h.login("/discoveries", "alice", "Secret123")

	for _, target := range []string{"/discoveries/edit?id=42", "/discoveries/edit?id=abc", "/discoveries/edit"} {
		w := h.do(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusFound, w.Code, target)
		assert.Equal(t, "/discoveries/list?offset=0", location(w), target)
	}
}

func TestArchive(t *testing.T) {
	form := discoveries()
	h := newHarness(t, form)
	for i := 0; i < 7; i++ {
		h.insert(form, store.Record{"name": "moon", "revision": int64(i), "active": true})
	}
	h.user("alice", "Secret123")
	h.login("/discoveries", "alice", "Secret123")

	w := h.do(http.MethodPost, "/discoveries/archive?id=7&offset=30", url.Values{})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/discoveries/list?offset=30", location(w))

	rows := h.store.Rows("discoveries")
	assert.Equal(t, false, rows[6]["active"])
	assert.Equal(t, true, rows[5]["active"])

	w = h.do(http.MethodGet, "/discoveries/list", nil)
	assert.NotContains(t, w.Body.String(), `href="edit?id=7"`)
	assert.Contains(t, w.Body.String(), `href="edit?id=6"`)
}

func TestDelete(t *testing.T) {
	form := discoveries()
	h := newHarness(t, form)
	h.insert(form, store.Record{"name": "Io", "active": true}, store.Record{"name": "Europa", "active": true})
	h.user("alice", "Secret123")
	h.login("/discoveries", "alice", "Secret123")

	w := h.do(http.MethodPost, "/discoveries/delete", url.Values{"id": {"1"}, "offset": {"15"}})
	assert.Equal(t, "/discoveries/list?offset=15", location(w))

	rows := h.store.Rows("discoveries")
	require.Len(t, rows, 1)
	assert.Equal(t, "Europa", rows[0]["name"])
}

func TestPaging(t *testing.T) {
	form := discoveries()
	h := newHarness(t, form)
	for i := 0; i < 40; i++ {
		h.insert(form, store.Record{"name": "moon", "revision": int64(i), "active": true})
	}
	h.user("alice", "Secret123")
	h.login("/discoveries", "alice", "Secret123")

	w := h.do(http.MethodGet, "/discoveries/list?offset=15", nil)
	body := w.Body.String()
	assert.Equal(t, 15, strings.Count(body, `href="edit?id=`))
	assert.Contains(t, body, `href="edit?id=16&amp;offset=15"`)
	assert.Contains(t, body, `class="paging selected" href="list?offset=15">2</a>`)
	assert.Contains(t, body, `href="list?offset=30">3</a>`)

	w = h.do(http.MethodGet, "/discoveries/list?offset=30&numRows=5", nil)
	assert.Equal(t, 5, strings.Count(w.Body.String(), `href="edit?id=`))
	assert.Contains(t, w.Body.String(), `href="list?numRows=5&amp;offset=35"`)
}

// failingStore fails list queries while users still resolve
type failingStore struct {
	*store.MemoryStore
}

type failingHandle struct {
	store.Handle
}

func (s failingStore) Begin(ctx context.Context) (store.Handle, error) {
	h, err := s.MemoryStore.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return failingHandle{h}, nil
}

func (failingHandle) Query(*schema.Layout, *clause.Statement) ([]store.Record, error) {
	return nil, errors.New("disk on fire")
}

func TestStoreFailureIsHandled(t *testing.T) {
	form := discoveries()
	h := newHarness(t, form)
	h.user("alice", "Secret123")
	h.login("/discoveries", "alice", "Secret123")

	h.server.Store = failingStore{h.store}

	w := h.do(http.MethodGet, "/discoveries/list", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The records could not be loaded.")
	assert.Contains(t, w.Body.String(), "There were no records in the database.")

	h.store.Err = errors.New("disk on fire")

	w = h.do(http.MethodGet, "/discoveries/list", nil)
	assert.Equal(t, "/discoveries/login?return=list", location(w))
}

func TestLogin(t *testing.T) {
	h := newHarness(t, discoveries())
	h.user("alice", "Secret123")

	w := h.do(http.MethodGet, "/discoveries/login?return=edit", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<input type="hidden" name="return" value="edit">`)

	w = h.do(http.MethodPost, "/discoveries/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Username or password invalid!")
	assert.Empty(t, h.cookies)

	w = h.do(http.MethodPost, "/discoveries/login", url.Values{"username": {"bob"}, "password": {"Secret123"}})
	assert.Contains(t, w.Body.String(), "Username or password invalid!")

	w = h.do(http.MethodPost, "/discoveries/login", url.Values{"username": {"alice"}, "password": {"Secret123"}, "return": {"add"}})
	assert.Equal(t, "/discoveries/add", location(w))
	require.Len(t, h.cookies, 1)
	assert.Equal(t, session.DefaultCookieName, h.cookies[0].Name)

	w = h.do(http.MethodPost, "/discoveries/login", url.Values{"username": {"alice"}, "password": {"Secret123"}, "return": {"https://evil.example"}})
	assert.Equal(t, "/discoveries/list", location(w))

	w = h.do(http.MethodGet, "/discoveries/list", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")

	w = h.do(http.MethodGet, "/discoveries/logout", nil)
	assert.Equal(t, "/discoveries/login", location(w))
	assert.Empty(t, h.cookies)

	w = h.do(http.MethodGet, "/discoveries/list", nil)
	assert.Equal(t, "/discoveries/login?return=list", location(w))
}

func TestSessionEndsWhenUserDisappears(t *testing.T) {
	h := newHarness(t, discoveries())
	h.user("alice", "Secret123")
	h.login("/discoveries", "alice", "Secret123")
	require.Len(t, h.cookies, 1)

	h.store = store.NewMemoryStore()
	h.server.Store = h.store

	w := h.do(http.MethodGet, "/discoveries/list", nil)
	assert.Equal(t, "/discoveries/login?return=list", location(w))
	assert.Empty(t, h.cookies)
}

func TestInactiveUserCannotLogin(t *testing.T) {
	h := newHarness(t, discoveries())

	hash, err := auth.Hash("Secret123")
	require.NoError(t, err)
	handle, err := h.store.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, handle.CreateUser(&store.User{Username: "alice", Password: hash}))
	require.NoError(t, handle.Close())

	w := h.do(http.MethodPost, "/discoveries/login", url.Values{"username": {"alice"}, "password": {"Secret123"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Username or password invalid!")
	assert.Empty(t, h.cookies)
}

func TestCreateAccount(t *testing.T) {
	h := newHarness(t, discoveries())
	h.user("alice", "Secret123")

	w := h.do(http.MethodGet, "/discoveries/create", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Create Account")

	valid := url.Values{"username": {"bobby"}, "email": {"bobby@example.org"}, "password": {"Secret123"}, "password2": {"Secret123"}}

	weak := url.Values{}
	for k, v := range valid {
		weak[k] = v
	}
	weak.Set("password2", "Secret124")
	w = h.do(http.MethodPost, "/discoveries/create", weak)
	assert.Contains(t, w.Body.String(), "passwords do not match")
	assert.Contains(t, w.Body.String(), `value="bobby@example.org"`)

	taken := url.Values{}
	for k, v := range valid {
		taken[k] = v
	}
	taken.Set("username", "alice")
	w = h.do(http.MethodPost, "/discoveries/create", taken)
	assert.Contains(t, w.Body.String(), "That username already exists.")

	w = h.do(http.MethodPost, "/discoveries/create", valid)
	assert.Equal(t, "/discoveries/list", location(w))
	require.Len(t, h.cookies, 1)

	w = h.do(http.MethodGet, "/discoveries/list", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bobby")
}

func TestAssetsAndRequestID(t *testing.T) {
	h := newHarness(t, discoveries())

	w := h.do(http.MethodGet, "/autoforms/autoforms.css", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".paging")
	assert.NotEmpty(t, w.Header().Get(autoforms.RequestIDHeader))

	for _, icon := range []string{"edit", "archive", "delete"} {
		w = h.do(http.MethodGet, "/images/"+icon+".png", nil)
		assert.Equal(t, http.StatusOK, w.Code, icon)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	}
}

func TestAddForm(t *testing.T) {
	server, err := autoforms.New(nil)
	require.NoError(t, err)

	err = server.AddForm(schema.NewForm("/bad path", "discoveries", &schema.Field{Name: "name"}))
	assert.True(t, errors.Is(err, schema.ErrConfig))
	assert.Equal(t, schema.InvalidPath, schema.KindOf(err))

	require.NoError(t, server.AddForm(discoveries()))

	err = server.AddForm(discoveries())
	assert.Equal(t, schema.InvalidPath, schema.KindOf(err))

	assert.Len(t, server.Forms(), 1)
	server.Handler()

	other := discoveries()
	other.Path = "/other"
	assert.ErrorIs(t, server.AddForm(other), autoforms.ErrServing)
}
