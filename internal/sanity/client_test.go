package sanity_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/craftsync/internal/sanity"
	"github.com/JaimeStill/craftsync/pkg/logging"
)

func newClient(t *testing.T, handler http.HandlerFunc) *sanity.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return sanity.New(sanity.Config{
		ProjectID:  "proj",
		Dataset:    "production",
		Token:      "tok",
		APIVersion: "v2024-01-01",
		APIHost:    srv.URL,
	}, logging.Discard())
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	return body
}

func TestFetch(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2024-01-01/data/query/production" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token")
		}
		body := decodeBody(t, r)
		if body["query"] != `*[_type == $type]` {
			t.Errorf("query = %v", body["query"])
		}
		params := body["params"].(map[string]any)
		if params["type"] != "author" {
			t.Errorf("params = %v", params)
		}
		w.Write([]byte(`{"ms":3,"result":[{"_id":"a1","name":"Jan Doe"}]}`))
	})

	var out []sanity.Document
	err := client.Fetch(context.Background(), `*[_type == $type]`, map[string]any{"type": "author"}, &out)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(out) != 1 || out[0].ID() != "a1" {
		t.Errorf("Fetch() = %v", out)
	}
}

func TestFetch_NullResult(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":null}`))
	})

	out := &sanity.Document{"_id": "stale"}
	if err := client.Fetch(context.Background(), `*[_id == "x"][0]`, nil, &out); err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if out != nil {
		t.Errorf("Fetch() null result = %v, want nil", out)
	}
}

func TestCreate(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2024-01-01/data/mutate/production" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("returnDocuments") != "true" {
			t.Errorf("returnDocuments not requested")
		}
		body := decodeBody(t, r)
		mutations := body["mutations"].([]any)
		create := mutations[0].(map[string]any)["create"].(map[string]any)
		if create["_type"] != "category" {
			t.Errorf("create = %v", create)
		}
		w.Write([]byte(`{"transactionId":"tx","results":[{"id":"c1","operation":"create","document":{"_id":"c1","_type":"category","title":"Tech"}}]}`))
	})

	doc, err := client.Create(context.Background(), sanity.Document{"_type": "category", "title": "Tech"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if doc.ID() != "c1" || doc.Type() != "category" {
		t.Errorf("Create() = %v", doc)
	}
}

func TestPatch_SetCommit(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		patch := body["mutations"].([]any)[0].(map[string]any)["patch"].(map[string]any)
		if patch["id"] != "p1" {
			t.Errorf("patch id = %v", patch["id"])
		}
		set := patch["set"].(map[string]any)
		if set["title"] != "New" || set["excerpt"] != "E" {
			t.Errorf("patch set = %v", set)
		}
		w.Write([]byte(`{"results":[{"id":"p1","operation":"update","document":{"_id":"p1","title":"New"}}]}`))
	})

	doc, err := client.Patch("p1").
		Set(map[string]any{"title": "Old"}).
		Set(map[string]any{"title": "New", "excerpt": "E"}).
		Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	if doc["title"] != "New" {
		t.Errorf("Commit() = %v", doc)
	}
}

func TestCreateOrReplace(t *testing.T) {
	t.Run("requires id", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("request sent without _id")
		})
		_, err := client.CreateOrReplace(context.Background(), sanity.Document{"_type": "post"})
		if !errors.Is(err, sanity.ErrMissingID) {
			t.Errorf("error = %v, want ErrMissingID", err)
		}
	})

	t.Run("falls back to result id", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			cor := body["mutations"].([]any)[0].(map[string]any)["createOrReplace"].(map[string]any)
			if cor["_id"] != "drafts.p1" {
				t.Errorf("createOrReplace = %v", cor)
			}
			w.Write([]byte(`{"results":[{"id":"drafts.p1","operation":"create"}]}`))
		})
		doc, err := client.CreateOrReplace(context.Background(), sanity.Document{"_id": "drafts.p1", "_type": "post"})
		if err != nil {
			t.Fatalf("CreateOrReplace() failed: %v", err)
		}
		if doc.ID() != "drafts.p1" {
			t.Errorf("CreateOrReplace() = %v", doc)
		}
	})
}

func TestUploadAsset(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2024-01-01/assets/images/production" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("filename") != "image-1.png" {
			t.Errorf("filename = %q", r.URL.Query().Get("filename"))
		}
		if r.Header.Get("Content-Type") != "image/png" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		data, _ := io.ReadAll(r.Body)
		if string(data) != "PNGDATA" {
			t.Errorf("body = %q", data)
		}
		w.Write([]byte(`{"document":{"_id":"image-abc-10x10-png","url":"https://cdn/x.png","mimeType":"image/png"}}`))
	})

	asset, err := client.UploadAsset(context.Background(), sanity.AssetImage, []byte("PNGDATA"), sanity.UploadOptions{
		Filename:    "image-1.png",
		ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("UploadAsset() failed: %v", err)
	}
	if asset.ID != "image-abc-10x10-png" {
		t.Errorf("asset ID = %q", asset.ID)
	}
}

func TestAPIError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"description":"Insufficient permissions"}}`))
	})

	_, err := client.Create(context.Background(), sanity.Document{"_type": "post"})

	var apiErr *sanity.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Description != "Insufficient permissions" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestDraftID(t *testing.T) {
	if got := sanity.DraftID("p1"); got != "drafts.p1" {
		t.Errorf("DraftID(p1) = %q", got)
	}
	if got := sanity.DraftID("drafts.p1"); got != "drafts.p1" {
		t.Errorf("DraftID(drafts.p1) = %q", got)
	}
	if !sanity.IsDraftID("drafts.x") || sanity.IsDraftID("x") {
		t.Error("IsDraftID misclassified")
	}
}
