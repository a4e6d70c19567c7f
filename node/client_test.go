package node

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/caslabs/ipfs-node-client/common/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL)
	require.NoError(t, err)
	return client, server
}

func TestNewClientBadURL(t *testing.T) {
	for _, u := range []string{"", "://nope", "not a url", "/relative/only"} {
		_, err := NewClient(u)
		require.Error(t, err, u)
		assert.Equal(t, httpx.KindBadURL, httpx.KindOf(err))
	}
}

func TestNewClientNormalizesURL(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:5001/?foo=bar#frag")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5001", client.URL())
}

func TestCat(t *testing.T) {
	for _, body := range []string{"hello world", "", "{\"not\":\"decoded\"}", "\x00\x01binary"} {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v0/cat", r.URL.Path)
			assert.Equal(t, "/ipfs/Qm123", r.URL.Query().Get("arg"))
			io.WriteString(w, body)
		}))

		content, err := client.Cat(context.Background(), MustParseHash("Qm123"))
		require.NoError(t, err)
		assert.Equal(t, body, content)
	}
}

func TestCatZeroHash(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:5001")
	require.NoError(t, err)

	_, err = client.Cat(context.Background(), ContentHash{})
	require.Error(t, err)
	assert.Equal(t, httpx.KindNode, httpx.KindOf(err))
}

func TestCatBadStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	_, err := client.Cat(context.Background(), MustParseHash("Qm123"))
	require.Error(t, err)
	assert.Equal(t, httpx.KindBadStatus, httpx.KindOf(err))

	var httpErr *httpx.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestAdd(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v0/add", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("wrap-with-directory"))
		assert.Equal(t, "readme.md", r.URL.Query().Get("stdin-name"))
		assert.Equal(t, "true", r.URL.Query().Get("silent"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("readme.md")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "readme.md", header.Filename)

		payload, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "# hello", string(payload))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"Name":"readme.md","Hash":"QmAdded","Size":"7"}`)
	}))

	link, err := client.Add(context.Background(), "readme.md", "# hello")
	require.NoError(t, err)
	assert.Equal(t, "readme.md", link.Name)
	assert.Equal(t, MustParseHash("QmAdded"), link.Hash)
	assert.Equal(t, "7", link.Size.String())
}

func TestAddDecodeFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "this is not json")
	}))

	_, err := client.Add(context.Background(), "a.txt", "data")
	require.Error(t, err)
	assert.Equal(t, httpx.KindDecode, httpx.KindOf(err))
	assert.NotEqual(t, httpx.KindBadStatus, httpx.KindOf(err))
}

func TestAddEmptyFilename(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:5001")
	require.NoError(t, err)

	_, err = client.Add(context.Background(), "", "data")
	require.Error(t, err)
	assert.Equal(t, httpx.KindNode, httpx.KindOf(err))
}

func linksHandler(t *testing.T, payload string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/object/get", r.URL.Path)
		assert.Equal(t, "/ipfs/QmDir", r.URL.Query().Get("arg"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, payload)
	})
}

func TestLinks(t *testing.T) {
	client, _ := newTestClient(t, linksHandler(t, `{"Links":[
		{"Name":"a","Hash":"Qm1","Size":"1"},
		{"Name":"b","Hash":"Qm2","Size":"2"}
	]}`))

	links, err := client.Links(context.Background(), MustParseHash("QmDir"))
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "a", links[0].Name)
	assert.Equal(t, "b", links[1].Name)
}

func TestResolveLink(t *testing.T) {
	client, _ := newTestClient(t, linksHandler(t, `{"Links":[
		{"Name":"a","Hash":"Qm1","Size":"1"},
		{"Name":"b","Hash":"Qm2","Size":"2"}
	]}`))

	link, err := client.ResolveLink(context.Background(), MustParseHash("QmDir"), "b")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "b", link.Name)
	assert.Equal(t, MustParseHash("Qm2"), link.Hash)

	link, err = client.ResolveLink(context.Background(), MustParseHash("QmDir"), "z")
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestResolveLinkFirstMatchWins(t *testing.T) {
	client, _ := newTestClient(t, linksHandler(t, `{"Links":[
		{"Name":"dup","Hash":"Qm1","Size":"1"},
		{"Name":"dup","Hash":"Qm2","Size":"2"}
	]}`))

	link, err := client.ResolveLink(context.Background(), MustParseHash("QmDir"), "dup")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, MustParseHash("Qm1"), link.Hash)
}

func TestResolveLinkPropagatesError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.ResolveLink(context.Background(), MustParseHash("QmDir"), "a")
	require.Error(t, err)
	assert.Equal(t, httpx.KindBadStatus, httpx.KindOf(err))
}

func TestVersion(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/version", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("number"))
		io.WriteString(w, "0.29.0")
	}))

	version, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.29.0", version)
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(url)
	require.NoError(t, err)

	_, err = client.Version(context.Background())
	require.Error(t, err)
	assert.Equal(t, httpx.KindNetwork, httpx.KindOf(err))
}

func TestTimeout(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Version(ctx)
	require.Error(t, err)
	assert.Equal(t, httpx.KindTimeout, httpx.KindOf(err))
}
