package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
)

func newTestStore(t *testing.T, h http.HandlerFunc, opts ...Option) *HTTPStore {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	s, err := NewHTTPStore(srv.URL+"/", opts...)
	require.NoError(t, err)
	return s
}

func TestNewHTTPStore_RejectsBadURL(t *testing.T) {
	for _, in := range []string{"", "localhost:8080", "ftp://host", "http://"} {
		_, err := NewHTTPStore(in)
		assert.ErrorIs(t, err, ErrInvalidURL, in)
	}
}

func TestListQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter models.Filter
		sort   models.Sort
		want   string
	}{
		{
			name:   "defaults only",
			filter: models.Filter{},
			sort:   models.DefaultSort(),
			want:   "order=asc&sortBy=name",
		},
		{
			name:   "email only",
			filter: models.Filter{Email: "x"},
			sort:   models.Sort{Field: models.SortByZipcode, Order: models.OrderDesc},
			want:   "email=x&order=desc&sortBy=zipcode",
		},
		{
			name:   "all fields escaped",
			filter: models.Filter{Name: "Ann Lee", Email: "a@b", Phone: "+7 999"},
			sort:   models.Sort{Field: models.SortByID, Order: models.OrderAsc},
			want:   "email=a%40b&name=Ann+Lee&order=asc&phone=%2B7+999&sortBy=id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ListQuery(tt.filter, tt.sort).Encode())
		})
	}
}

func TestHTTPStore_List(t *testing.T) {
	var gotReq *http.Request
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"2","name":"Bob"},{"id":1,"name":"Ann"}]`)
	})

	users, err := s.List(context.Background(), models.Filter{Email: "x"}, models.DefaultSort())
	require.NoError(t, err)

	want := []models.User{{ID: 2, Name: "Bob"}, {ID: 1, Name: "Ann"}}
	if diff := cmp.Diff(want, users); diff != "" {
		t.Fatalf("users mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, gotReq)
	assert.Equal(t, http.MethodGet, gotReq.Method)
	assert.Equal(t, "/users", gotReq.URL.Path)
	assert.Equal(t, "x", gotReq.URL.Query().Get("email"))
	assert.False(t, gotReq.URL.Query().Has("name"))
	assert.False(t, gotReq.URL.Query().Has("phone"))
	assert.Equal(t, "name", gotReq.URL.Query().Get("sortBy"))
	assert.Equal(t, "asc", gotReq.URL.Query().Get("order"))
	assert.NotEmpty(t, gotReq.Header.Get(RequestIDHeader))
}

func TestHTTPStore_List_EmptyBodyIsEmptySlice(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	users, err := s.List(context.Background(), models.Filter{}, models.DefaultSort())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestHTTPStore_List_Non2xxIsNetworkError(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	_, err := s.List(context.Background(), models.Filter{}, models.DefaultSort())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "Not found", se.Body)
}

func TestHTTPStore_List_TransportErrorIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s, err := NewHTTPStore(url)
	require.NoError(t, err)

	_, err = s.List(context.Background(), models.Filter{}, models.DefaultSort())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestHTTPStore_List_BadJSONIsNetworkError(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"oops"`)
	})

	_, err := s.List(context.Background(), models.Filter{}, models.DefaultSort())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestHTTPStore_List_HonoursTimeout(t *testing.T) {
	release := make(chan struct{})
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeout(50*time.Millisecond))
	t.Cleanup(func() { close(release) })

	_, err := s.List(context.Background(), models.Filter{}, models.DefaultSort())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestWithTimeout_LeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{}

	tests := []struct {
		name string
		opts []Option
	}{
		{"timeout after client", []Option{WithHTTPClient(shared), WithTimeout(time.Second)}},
		{"timeout before client", []Option{WithTimeout(time.Second), WithHTTPClient(shared)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewHTTPStore("http://example.test", tt.opts...)
			require.NoError(t, err)

			assert.Equal(t, time.Second, s.httpClient.Timeout)
			assert.NotSame(t, shared, s.httpClient)
			assert.Zero(t, shared.Timeout)
		})
	}
}

func TestHTTPStore_Create(t *testing.T) {
	var got map[string]any
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"51","name":"Eve"}`)
	})

	in := models.NewUser{Name: "Eve", Username: "eve", Email: "eve@example.com"}.WithDerivedPhoto()
	created, err := s.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(51), created.ID)

	assert.Equal(t, "Eve", got["name"])
	assert.Equal(t, models.AvatarURL("Eve"), got["photo"])
	assert.NotContains(t, got, "id")
}

func TestHTTPStore_Create_Failure(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := s.Create(context.Background(), models.NewUser{Name: "Eve"})
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestHTTPStore_Delete(t *testing.T) {
	var method, path string
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_, _ = io.WriteString(w, `{"id":"7"}`)
	})

	require.NoError(t, s.Delete(context.Background(), 7))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/users/7", path)
}

func TestHTTPStore_DeleteMany_AllSucceed(t *testing.T) {
	var (
		mu      sync.Mutex
		deleted []string
	)
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		deleted = append(deleted, strings.TrimPrefix(r.URL.Path, "/users/"))
		mu.Unlock()
	})

	require.NoError(t, s.DeleteMany(context.Background(), []int64{1, 2, 3, 2}))
	assert.ElementsMatch(t, []string{"1", "2", "3"}, deleted, "one request per distinct id")
}

func TestHTTPStore_DeleteMany_Empty(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	assert.NoError(t, s.DeleteMany(context.Background(), nil))
}

func TestHTTPStore_DeleteMany_ReportsFailedIDs(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/2", "/users/4":
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	err := s.DeleteMany(context.Background(), []int64{1, 2, 3, 4})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)

	var de *DeleteError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []int64{2, 4}, de.IDs())
	assert.Equal(t, 4, de.Requested)
	assert.Contains(t, de.Error(), "failed to delete 2 of 4 users (ids 2, 4)")

	var se *StatusError
	assert.True(t, errors.As(err, &se))
}

func TestDeleteError_BuiltDirectly(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		err     *DeleteError
		wantMsg string
		wantIs  []error
	}{
		{
			name:    "nil cause",
			err:     &DeleteError{Failed: map[int64]error{2: nil}, Requested: 3},
			wantMsg: "failed to delete 1 of 3 users (ids 2): user 2: network error",
			wantIs:  []error{ErrNetwork},
		},
		{
			name:    "plain cause",
			err:     &DeleteError{Failed: map[int64]error{5: boom, 1: boom}, Requested: 5},
			wantMsg: "failed to delete 2 of 5 users (ids 1, 5): user 1: boom; user 5: boom",
			wantIs:  []error{ErrNetwork, boom},
		},
		{
			name:    "no failures",
			err:     &DeleteError{Requested: 2},
			wantMsg: "failed to delete 0 of 2 users",
			wantIs:  []error{ErrNetwork},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error = tt.err
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.NotContains(t, err.Error(), "<nil>")
			for _, target := range tt.wantIs {
				assert.ErrorIs(t, err, target)
			}
		})
	}
}

func TestHTTPStore_DeleteMany_RespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
	}, WithDeleteConcurrency(2))

	require.NoError(t, s.DeleteMany(context.Background(), []int64{1, 2, 3, 4, 5, 6}))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}
