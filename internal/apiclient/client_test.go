package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRequestSendsPortalHeaders(t *testing.T) {
	var got *http.Request
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second).WithToken("abc")
	resp, err := c.Post(context.Background(), "/todos", map[string]string{"title": "Print badges"})
	require.NoError(t, err)
	require.True(t, resp.IsJSON)

	require.Equal(t, "/todos", got.URL.Path)
	require.Equal(t, "Bearer abc", got.Header.Get("Authorization"))
	require.Equal(t, "application/json", got.Header.Get("Accept"))
	require.Equal(t, "XMLHttpRequest", got.Header.Get("X-Requested-With"))
	require.Equal(t, "application/json", got.Header.Get("Content-Type"))
	require.JSONEq(t, `{"title":"Print badges"}`, body)
}

func TestRequestWithoutTokenOmitsAuthorization(t *testing.T) {
	var auth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Values("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := New(srv.URL, time.Second).Delete(context.Background(), "/todos/1")
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.Status)
	require.False(t, resp.IsJSON)
	require.Empty(t, auth)
}

func TestClearAuthTokenDropsAuthorization(t *testing.T) {
	var auth [][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Values("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.SetAuthToken("abc")
	_, err := c.Get(context.Background(), "/auth/me")
	require.NoError(t, err)

	c.ClearAuthToken()
	require.Empty(t, c.Token())
	_, err = c.Get(context.Background(), "/auth/me")
	require.NoError(t, err)

	require.Len(t, auth, 2)
	require.Equal(t, []string{"Bearer abc"}, auth[0])
	require.Empty(t, auth[1])
}

func TestFormLeavesBoundaryToMultipartWriter(t *testing.T) {
	var contentType, method, filename, content string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			method = r.FormValue("_method")
			if file, header, err := r.FormFile("evidence"); err == nil {
				raw, _ := io.ReadAll(file)
				file.Close()
				filename, content = header.Filename, string(raw)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	form := NewForm().Set("_method", "PATCH").AddFile("evidence", "proof.jpg", []byte("jpeg-bytes"))
	_, err := New(srv.URL, time.Second).Post(context.Background(), "/todos/1/submit", form)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="))
	require.Equal(t, "PATCH", method)
	require.Equal(t, "proof.jpg", filename)
	require.Equal(t, "jpeg-bytes", content)
}

func TestErrorCarriesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/plain" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"The title field is required."}`))
	}))
	defer srv.Close()
	c := New(srv.URL, time.Second)

	_, err := c.Post(context.Background(), "/todos", map[string]string{})
	require.Error(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, StatusOf(err))
	require.Equal(t, "The title field is required.", MessageOr(err, "Failed to save"))

	_, err = c.Get(context.Background(), "/plain")
	require.Error(t, err)
	require.Zero(t, StatusOf(err))
	require.Equal(t, "Failed to load", MessageOr(err, "Failed to load"))
}

func TestDecodeList(t *testing.T) {
	type todo struct {
		ID int `json:"id"`
	}

	items, err := DecodeList[todo]([]byte(`[{"id":1},{"id":2}]`))
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = DecodeList[todo]([]byte(`{"data":[{"id":3}],"total":1}`))
	require.NoError(t, err)
	require.Equal(t, []todo{{ID: 3}}, items)

	items, err = DecodeList[todo]([]byte(`{"data":{"id":3}}`))
	require.NoError(t, err)
	require.Empty(t, items)

	items, err = DecodeList[todo]([]byte(``))
	require.NoError(t, err)
	require.NotNil(t, items)
}

func TestGetPageWrapsBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(`{"data":[{"id":"v3"}],"current_page":2,"last_page":2,"per_page":2,"total":3}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"v1"},{"id":"v2"}]`))
	}))
	defer srv.Close()
	c := New(srv.URL, time.Second)

	type visitor struct {
		ID string `json:"id"`
	}
	page, err := GetPage[visitor](context.Background(), c, "/visitors")
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	require.Equal(t, 1, page.LastPage)
	require.Equal(t, 2, page.Total)

	page, err = GetPage[visitor](context.Background(), c, "/visitors?page=2")
	require.NoError(t, err)
	require.Equal(t, 2, page.CurrentPage)
	require.Equal(t, 3, page.Total)
}

func TestFileURL(t *testing.T) {
	c := New("http://ga.local/api", time.Second)
	require.Equal(t, "http://ga.local/storage/visitors/face.jpg", c.FileURL("/visitors/face.jpg"))
	require.Empty(t, c.FileURL(""))
}
