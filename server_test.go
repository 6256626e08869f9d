package extrude

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func setupTestServer(t *testing.T) *httptest.Server {
	srv := NewServer("1.0.0-test", 2)

	ts := httptest.NewServer(srv.Router(30 * time.Second))

	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})

	return ts
}

func pngBody(t *testing.T, width, height int) *bytes.Buffer {
	var buf bytes.Buffer

	if err := png.Encode(&buf, testGrid(width, height)); err != nil {
		t.Fatal(err)
	}

	return &buf
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	if contentType := resp.Header.Get("Content-Type"); contentType != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", contentType)
	}

	var health healthResponse

	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if health.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got %s", health.Status)
	}

	if health.Version != "1.0.0-test" {
		t.Errorf("Expected version '1.0.0-test', got %s", health.Version)
	}
}

func TestExtrudeEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/extrude", "image/png", pngBody(t, 32, 32))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	if contentType := resp.Header.Get("Content-Type"); contentType != "image/png" {
		t.Errorf("Expected Content-Type image/png, got %s", contentType)
	}

	out, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Failed to decode response image: %v", err)
	}

	b := out.Bounds()
	if b.Dx() != 38 || b.Dy() != 38 {
		t.Errorf("Expected a 38x38 sheet, got %dx%d", b.Dx(), b.Dy())
	}

	src := testGrid(32, 32)

	got := color.RGBAModel.Convert(out.At(2, 2)).(color.RGBA)
	if want := src.RGBAAt(0, 0); got != want {
		t.Errorf("Core origin mismatch: got %v, want %v", got, want)
	}
}

func TestExtrudeEndpointCustomGeometry(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/extrude?extrude=2&border=0", "image/png", pngBody(t, 32, 32))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	out, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Failed to decode response image: %v", err)
	}

	// step is 16 + 4, two tiles per axis, no border.
	b := out.Bounds()
	if b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("Expected a 40x40 sheet, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestExtrudeEndpointGridMismatch(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/extrude", "image/png", pngBody(t, 17, 16))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestExtrudeEndpointBadImage(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/extrude", "image/png", strings.NewReader("not an image"))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("Expected status 415, got %d", resp.StatusCode)
	}
}

func TestExtrudeEndpointBadQuery(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/extrude?extrude=two", "image/png", pngBody(t, 32, 32))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}
