package publish

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnat/docsync/pkg/confluence"
)

// fakeStore is an in-memory Store that records every call.
type fakeStore struct {
	post      *confluence.Content
	fetchErr  error
	updateErr error

	fetched []string
	updates []*confluence.Content
}

func (f *fakeStore) Fetch(ctx context.Context, id string) (*confluence.Content, error) {
	f.fetched = append(f.fetched, id)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.post, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, content *confluence.Content) (*confluence.Content, error) {
	f.updates = append(f.updates, content)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return content, nil
}

func existingPost() *confluence.Content {
	return &confluence.Content{
		ID:      "42",
		Type:    "page",
		Title:   "Command Resolution",
		Space:   &confluence.Space{Key: "CS"},
		Version: &confluence.Version{Number: 5},
		Links:   &confluence.Links{Base: "https://wiki.xnat.org", WebUI: "/pages/viewpage.action?pageId=42"},
	}
}

func newTestPublisher(t *testing.T, store Store, files map[string]string) *Publisher {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	p, err := New(Config{
		Store:  store,
		Fs:     fs,
		Logger: hclog.NewNullLogger(),
	})
	require.NoError(t, err)
	return p
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store is required")
}

func TestPublish_IncrementsVersion(t *testing.T) {
	store := &fakeStore{post: existingPost()}
	body := "<!-- id: 42 -->\n<p>new body</p>"
	p := newTestPublisher(t, store, map[string]string{"page.html": body})

	result, err := p.Publish(context.Background(), Request{
		Path:    "page.html",
		Message: []string{"fix", "typos"},
	})
	require.NoError(t, err)

	require.Len(t, store.updates, 1)
	sent := store.updates[0]
	assert.Equal(t, "42", sent.ID)
	assert.Equal(t, "page", sent.Type)
	assert.Equal(t, "Command Resolution", sent.Title)
	assert.Equal(t, "CS", sent.SpaceKey())
	assert.Equal(t, 6, sent.Version.Number)
	assert.Equal(t, "fix typos", sent.Version.Message)
	assert.Equal(t, "storage", sent.Body.Storage.Representation)
	assert.Equal(t, body, sent.Body.Storage.Value)
	assert.Nil(t, sent.Links)

	assert.Equal(t, "42", result.PostID)
	assert.Equal(t, 5, result.PreviousVersion)
	assert.Equal(t, 6, result.Version)
	assert.Equal(t, "fix typos", result.Message)
	assert.Equal(t, "https://wiki.xnat.org/pages/viewpage.action?pageId=42", result.WebURL)
}

func TestPublish_ExplicitIDAndDefaultMessage(t *testing.T) {
	store := &fakeStore{post: existingPost()}
	p := newTestPublisher(t, store, map[string]string{"page.html": "<!-- id: 7 -->\n<p>x</p>"})

	result, err := p.Publish(context.Background(), Request{PostID: "42", Path: "page.html"})
	require.NoError(t, err)

	assert.Equal(t, []string{"42"}, store.fetched)
	assert.Equal(t, DefaultMessage, store.updates[0].Version.Message)
	assert.Equal(t, "42", result.PostID)
}

func TestPublish_Failures(t *testing.T) {
	tests := []struct {
		name       string
		store      *fakeStore
		file       string
		req        Request
		wantKind   ErrorKind
		wantState  State
		wantErr    error
		wantFetch  bool
		wantUpdate bool
	}{
		{
			name:      "missing file",
			store:     &fakeStore{post: existingPost()},
			req:       Request{Path: "absent.html"},
			wantKind:  InputError,
			wantState: Idle,
		},
		{
			name:      "no id marker and no explicit id",
			store:     &fakeStore{post: existingPost()},
			file:      "<h1>Title</h1>\n<!-- id: 42 -->",
			req:       Request{Path: "page.html"},
			wantKind:  InputError,
			wantState: Idle,
			wantErr:   ErrMissingPostID,
		},
		{
			name:      "unparseable marker",
			store:     &fakeStore{post: existingPost()},
			file:      "<!-- id: -->\n<p>x</p>",
			req:       Request{Path: "page.html"},
			wantKind:  InputError,
			wantState: Idle,
			wantErr:   ErrMalformedMarker,
		},
		{
			name:      "fetch fails",
			store:     &fakeStore{fetchErr: errors.New("boom")},
			file:      "<!-- id: 42 -->",
			req:       Request{Path: "page.html"},
			wantKind:  RemoteReadError,
			wantState: MessageResolved,
			wantFetch: true,
		},
		{
			name: "missing version",
			store: &fakeStore{post: &confluence.Content{
				Type: "page", Title: "T", Space: &confluence.Space{Key: "CS"},
			}},
			file:      "<!-- id: 42 -->",
			req:       Request{Path: "page.html"},
			wantKind:  RemoteReadError,
			wantState: Fetched,
			wantErr:   ErrMissingVersion,
			wantFetch: true,
		},
		{
			name: "missing space key with valid version",
			store: &fakeStore{post: &confluence.Content{
				Type: "page", Title: "T", Version: &confluence.Version{Number: 3},
			}},
			file:      "<!-- id: 42 -->",
			req:       Request{Path: "page.html"},
			wantKind:  RemoteReadError,
			wantState: Fetched,
			wantErr:   ErrMissingSpaceKey,
			wantFetch: true,
		},
		{
			name:       "update rejected",
			store:      &fakeStore{post: existingPost(), updateErr: errors.New("conflict")},
			file:       "<!-- id: 42 -->",
			req:        Request{Path: "page.html"},
			wantKind:   RemoteWriteError,
			wantState:  VersionValidated,
			wantFetch:  true,
			wantUpdate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{}
			if tt.file != "" {
				files["page.html"] = tt.file
			}
			p := newTestPublisher(t, tt.store, files)

			result, err := p.Publish(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, result)

			var pe *Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantKind, pe.Kind)
			assert.Equal(t, tt.wantState, pe.State)
			assert.Equal(t, tt.wantKind, KindOf(err))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			assert.Equal(t, tt.wantFetch, len(tt.store.fetched) > 0, "fetch issued")
			assert.Equal(t, tt.wantUpdate, len(tt.store.updates) > 0, "update issued")
		})
	}
}

func TestPublish_AgainstConfluenceServer(t *testing.T) {
	var puts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"statusCode": 401, "message": "Authentication failed"}`)
		case http.MethodPut:
			puts++
			var c confluence.Content
			json.NewDecoder(r.Body).Decode(&c)
			json.NewEncoder(w).Encode(c)
		}
	}))
	defer server.Close()

	client, err := confluence.NewClient(&confluence.Config{
		BaseURL:  server.URL,
		Username: "alice",
		Password: "wrong",
	}, hclog.NewNullLogger())
	require.NoError(t, err)

	p := newTestPublisher(t, client, map[string]string{"page.html": "<!-- id: 42 -->\n<p>x</p>"})

	_, err = p.Publish(context.Background(), Request{Path: "page.html"})
	require.Error(t, err)

	assert.Equal(t, RemoteReadError, KindOf(err))
	assert.Contains(t, err.Error(), "Authentication failed")
	assert.Equal(t, 0, puts)
}
