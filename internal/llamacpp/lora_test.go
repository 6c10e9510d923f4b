package llamacpp

import (
	"context"
	"net/http"
	"testing"

	"llamamcp/pkg/types"
)

func TestListAdapters(t *testing.T) {
	var cap capture
	c := newTestClient(t, http.StatusOK, `[{"id":0,"path":"/lora/a.gguf","scale":1.0}]`, &cap)
	res, err := c.ListAdapters(context.Background())
	if err != nil {
		t.Fatalf("ListAdapters: %v", err)
	}
	if cap.method != http.MethodGet || cap.path != "/lora-adapters" {
		t.Fatalf("unexpected request %s %s", cap.method, cap.path)
	}
	if len(res) != 1 || res[0].Path != "/lora/a.gguf" || res[0].Scale != 1.0 {
		t.Fatalf("unexpected adapters: %+v", res)
	}
}

func TestSetAdaptersScaleZeroRoundTrip(t *testing.T) {
	var cap capture
	c := newTestClient(t, http.StatusOK, `[{"id":0,"path":"/lora/a.gguf","scale":0}]`, &cap)
	res, err := c.SetAdapters(context.Background(), []types.AdapterScale{{ID: 0, Scale: 0}})
	if err != nil {
		t.Fatalf("SetAdapters: %v", err)
	}
	if got, want := string(cap.body), `[{"id":0,"scale":0}]`; got != want {
		t.Fatalf("set body mismatch: got %s want %s", got, want)
	}
	if len(res) != 1 || res[0].ID != 0 || res[0].Scale != 0 {
		t.Fatalf("updated list should reflect scale 0: %+v", res)
	}
}

func TestSetAdaptersNilSendsEmptyArray(t *testing.T) {
	var cap capture
	c := newTestClient(t, http.StatusOK, `[]`, &cap)
	if _, err := c.SetAdapters(context.Background(), nil); err != nil {
		t.Fatalf("SetAdapters: %v", err)
	}
	if got := string(cap.body); got != `[]` {
		t.Fatalf("nil scales should serialize as empty array, got %s", got)
	}
}
