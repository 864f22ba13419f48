package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/constrogen/procure"
	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
)

func TestScyStore_RoundTrip(t *testing.T) {
	store := NewScyStore(memBaseURL(), "")
	ctx := context.Background()

	value := &procure.AuthInfo{
		IsAuthenticated:   true,
		Access:            "access-token",
		Refresh:           "refresh-token",
		ModulePermissions: json.RawMessage(`[{"id":1,"name":"purchase"}]`),
		ClientID:          "12",
		CompanyID:         "34",
		User: &procure.User{
			Email: "a@b.com",
			Role: []procure.Role{
				{ID: 1, Name: "buyer", Access: []procure.Permission{{ID: 4, Name: "approve"}}},
			},
		},
	}
	if err := store.Set(ctx, procure.AuthInfoKey, value); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	actual := &procure.AuthInfo{}
	if ok := store.Get(ctx, procure.AuthInfoKey, actual); !ok {
		t.Fatalf("expected value for key %q", procure.AuthInfoKey)
	}
	assert.EqualValues(t, value, actual)
}

func TestScyStore_EncryptsAtRest(t *testing.T) {
	baseURL := memBaseURL()
	store := NewScyStore(baseURL, "")
	ctx := context.Background()
	if err := store.Set(ctx, procure.AuthInfoKey, &procure.AuthInfo{Access: "plain-token"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, baseURL+"/"+procure.AuthInfoKey+".enc")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	assert.NotContains(t, string(data), "plain-token")
}

func TestScyStore_GetAbsent(t *testing.T) {
	store := NewScyStore(memBaseURL(), "")
	actual := &procure.AuthInfo{}
	if ok := store.Get(context.Background(), procure.AuthInfoKey, actual); ok {
		t.Errorf("expected absent key to report not found")
	}
}

func TestScyStore_Remove(t *testing.T) {
	store := NewScyStore(memBaseURL(), "")
	ctx := context.Background()
	if err := store.Set(ctx, procure.AuthInfoKey, &procure.AuthInfo{Access: "a"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Remove(ctx, procure.AuthInfoKey); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	actual := &procure.AuthInfo{}
	if ok := store.Get(ctx, procure.AuthInfoKey, actual); ok {
		t.Errorf("expected removed key to report not found")
	}
	if err := store.Remove(ctx, procure.AuthInfoKey); err != nil {
		t.Errorf("removing an absent key must not fail: %v", err)
	}
}

func TestScyStore_IsAvailable(t *testing.T) {
	store := NewScyStore(memBaseURL(), "")
	if !store.IsAvailable(context.Background()) {
		t.Errorf("expected mem backend to be available")
	}
}
