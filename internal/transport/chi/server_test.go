package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/localmart/khoj/internal/domain"
	"github.com/localmart/khoj/internal/domain/entity"
	healthuc "github.com/localmart/khoj/internal/usecase/health"
	orderuc "github.com/localmart/khoj/internal/usecase/order"
	searchuc "github.com/localmart/khoj/internal/usecase/search"
)

// --- Mocks ---

type mockSnapshots struct {
	snap *entity.Snapshot
	err  error
}

func (m *mockSnapshots) Snapshot(_ context.Context) (*entity.Snapshot, error) {
	return m.snap, m.err
}

func (m *mockSnapshots) Interval() time.Duration { return 5 * time.Minute }

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func fixture(t *testing.T, kind entity.Kind, id, rawRef, name string, attrs entity.Attrs) entity.Entity {
	t.Helper()
	ref, err := entity.ParseReferenceID(rawRef)
	if err != nil {
		t.Fatalf("fixture ref: %v", err)
	}
	e, err := entity.New(kind, id, ref, name, attrs)
	if err != nil {
		t.Fatalf("fixture entity: %v", err)
	}
	return e
}

func testRouter(t *testing.T, snapErr error) http.Handler {
	t.Helper()

	var snap *entity.Snapshot
	if snapErr == nil {
		snap = entity.NewSnapshot([]entity.Entity{
			fixture(t, entity.Product, "basmati-1kg", "PRD-MAN-001", "Basmati Rice 1kg", entity.Attrs{
				Category: "Groceries", Brand: "India Gate", Price: 180, Stock: 12,
				ParentShopID: "sharma-kirana",
			}),
			fixture(t, entity.Product, "poha", "PRD-MAN-003", "Poha", entity.Attrs{Price: 45, Stock: 0}),
			fixture(t, entity.Shop, "sharma-kirana", "SHP-KIR-001", "Sharma Kirana Store", entity.Attrs{
				Category: "Groceries",
			}),
		}, time.Now())
	}

	snaps := &mockSnapshots{snap: snap, err: snapErr}
	server := NewServer(
		searchuc.New(snaps),
		orderuc.New(snaps),
		healthuc.New(&mockPinger{}, snaps),
		zap.NewNop(),
	)

	r := chi.NewRouter()
	server.Routes(r)
	return r
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// --- Tests ---

func TestSearchEndpoint_OK(t *testing.T) {
	r := testRouter(t, nil)

	rr := doJSON(t, r, "POST", "/api/v1/search", SearchRequest{Query: "rice"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp searchuc.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalResults == 0 {
		t.Error("expected results for rice")
	}
	for _, item := range resp.Results {
		if item.EntityRef.ReferenceID == "PRD-MAN-003" {
			t.Error("out-of-stock product leaked into default search")
		}
	}
}

func TestSearchEndpoint_BadBody(t *testing.T) {
	r := testRouter(t, nil)

	req := httptest.NewRequest("POST", "/api/v1/search", bytes.NewReader([]byte("{broken")))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestSearchEndpoint_ValidationError(t *testing.T) {
	r := testRouter(t, nil)

	rr := doJSON(t, r, "POST", "/api/v1/search", SearchRequest{Query: "rice", Kinds: []string{"gadget"}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != CodeValidationFailed {
		t.Errorf("code = %q, want validation_failed", errResp.Code)
	}
}

func TestSearchEndpoint_DegradedNotError(t *testing.T) {
	r := testRouter(t, domain.ErrCatalogUnavailable)

	rr := doJSON(t, r, "POST", "/api/v1/search", SearchRequest{Query: "rice"})
	if rr.Code != http.StatusOK {
		t.Fatalf("degraded search status = %d, want 200", rr.Code)
	}
	var resp searchuc.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Degraded {
		t.Error("response should be flagged degraded")
	}
}

func TestSearchEndpoint_ReferenceNotFound(t *testing.T) {
	r := testRouter(t, nil)

	rr := doJSON(t, r, "POST", "/api/v1/search", SearchRequest{Query: "PRD-MAN-999"})
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestSuggestEndpoint(t *testing.T) {
	r := testRouter(t, nil)

	rr := doJSON(t, r, "GET", "/api/v1/suggest?q=basm", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp map[string][]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp["suggestions"]) == 0 {
		t.Error("expected suggestions")
	}
}

func TestSuggestEndpoint_MissingQuery(t *testing.T) {
	r := testRouter(t, nil)

	rr := doJSON(t, r, "GET", "/api/v1/suggest", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestEntityEndpoint_OK(t *testing.T) {
	r := testRouter(t, nil)

	rr := doJSON(t, r, "GET", "/api/v1/entities/PRD-MAN-001", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var detail searchuc.EntityDetail
	if err := json.NewDecoder(rr.Body).Decode(&detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.EntityRef.Name != "Basmati Rice 1kg" || detail.Brand != "India Gate" {
		t.Errorf("detail = %+v", detail)
	}
}

func TestEntityEndpoint_StatusMapping(t *testing.T) {
	r := testRouter(t, nil)

	tests := []struct {
		path string
		want int
		code ErrorCode
	}{
		{"/api/v1/entities/not-an-id", http.StatusBadRequest, CodeInvalidReferenceID},
		{"/api/v1/entities/PRD-MAN-999", http.StatusNotFound, CodeEntityNotFound},
	}
	for _, tt := range tests {
		rr := doJSON(t, r, "GET", tt.path, nil)
		if rr.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.path, rr.Code, tt.want)
			continue
		}
		var errResp ErrorResponse
		if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if errResp.Code != tt.code {
			t.Errorf("%s: code = %q, want %q", tt.path, errResp.Code, tt.code)
		}
	}
}

func TestEntityEndpoint_CatalogUnavailable(t *testing.T) {
	r := testRouter(t, domain.ErrCatalogUnavailable)

	rr := doJSON(t, r, "GET", "/api/v1/entities/PRD-MAN-001", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}

func TestDraftOrderEndpoint_OK(t *testing.T) {
	r := testRouter(t, nil)

	rr := doJSON(t, r, "POST", "/api/v1/orders/draft", DraftOrderRequest{
		Lines: []DraftOrderLine{{ReferenceID: "PRD-MAN-001", Quantity: 2}},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var draft orderuc.Draft
	if err := json.NewDecoder(rr.Body).Decode(&draft); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if draft.Total != 360 {
		t.Errorf("total = %.2f, want 360", draft.Total)
	}
}

func TestDraftOrderEndpoint_Unavailable(t *testing.T) {
	r := testRouter(t, nil)

	rr := doJSON(t, r, "POST", "/api/v1/orders/draft", DraftOrderRequest{
		Lines: []DraftOrderLine{{ReferenceID: "PRD-MAN-003", Quantity: 1}},
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
}

func TestDraftOrderEndpoint_EmptyOrder(t *testing.T) {
	r := testRouter(t, nil)

	rr := doJSON(t, r, "POST", "/api/v1/orders/draft", DraftOrderRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(t, nil)

	rr := doJSON(t, r, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := testRouter(t, nil)

	rr := doJSON(t, r, "GET", "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
}
