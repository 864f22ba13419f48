package requisition

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/constrogen/procure"
	"github.com/constrogen/procure/client"
	"github.com/constrogen/procure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memCounter int

func newService(t *testing.T, handler http.HandlerFunc) (*Service, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	memCounter++
	store := storage.NewAfsStore(fmt.Sprintf("mem://localhost/requisition%d", memCounter))
	c, err := client.New(server.URL, store)
	require.NoError(t, err)
	return New(c), server.Close
}

func TestService_ReferenceLookups(t *testing.T) {
	var path, query string
	service, closer := newService(t, func(w http.ResponseWriter, r *http.Request) {
		path, query = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(`{"data":[{"key":1,"descr":"cement"}]}`))
	})
	defer closer()
	ctx := context.Background()

	items := service.Items(ctx, 3)
	require.Len(t, items, 1)
	assert.Equal(t, "cement", items[0].Descr)
	assert.Equal(t, "/api/inventory/item/", path)
	assert.Contains(t, query, "item_types=3")
	assert.Contains(t, query, "without_pagination=1")

	uoms := service.UOMs(ctx, 3)
	require.Len(t, uoms, 1)
	assert.Equal(t, "/api/inventory/item_uom/", path)
	assert.Contains(t, query, "item_type=3")

	itemTypes := service.ItemTypes(ctx)
	require.Len(t, itemTypes, 1)
	assert.Equal(t, "/api/inventory/item_type/", path)
}

func TestService_ProjectsFailureResolvesEmpty(t *testing.T) {
	service, closer := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer closer()

	projects := service.Projects(context.Background())
	require.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestService_NextDocID(t *testing.T) {
	service, closer := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transaction/doc/id/next", r.URL.Path)
		assert.Equal(t, "PR", r.URL.Query().Get("docid"))
		w.Write([]byte(`{"next_doc_id":42}`))
	})
	defer closer()

	assert.Equal(t, 42, service.NextDocID(context.Background()))
}

func TestService_NextDocIDFailureResolvesZero(t *testing.T) {
	service, closer := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer closer()

	assert.Equal(t, 0, service.NextDocID(context.Background()))
}

func TestService_Submit(t *testing.T) {
	var method, path string
	var posted Requisition
	service, closer := newService(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		json.NewDecoder(r.Body).Decode(&posted)
		w.Write([]byte(`{"key":101}`))
	})
	defer closer()

	requisition := &Requisition{
		ProjectKey:  1,
		ItemTypeKey: 3,
		DocID:       "PR",
		Number:      42,
		Items:       []Line{{ItemKey: 9, Qty: "5", ItemUOMKey: 2}},
	}
	_, err := service.Submit(context.Background(), requisition)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/api/transaction/purchase/requisition/", path)
	assert.Equal(t, 42, posted.Number)
	require.Len(t, posted.Items, 1)
}

func TestService_UpdatePropagatesFailure(t *testing.T) {
	service, closer := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"qty required"}`))
	})
	defer closer()

	_, err := service.Update(context.Background(), 5, &Requisition{})
	require.Error(t, err)
	apiErr, ok := procure.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "qty required", apiErr.Message)
}
