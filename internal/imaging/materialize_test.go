package imaging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestPhoto(t *testing.T, dir, name string) string {
	t.Helper()
	data := encodeJPEG(t, createTestImage(1200, 800, color.White))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMaterialize_LocalFile(t *testing.T) {
	dir := t.TempDir()
	writeTestPhoto(t, dir, "hero.jpg")

	m := NewMaterializer(PolicyExclude, dir, 400, nil)
	payload, err := m.Materialize(context.Background(), "/hero.jpg")
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	if payload.MediaType != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", payload.MediaType)
	}
	if payload.Degraded {
		t.Error("successful materialization must not be degraded")
	}

	img, _, err := image.Decode(bytes.NewReader(payload.Data))
	if err != nil {
		t.Fatalf("payload is not a decodable image: %v", err)
	}
	if img.Bounds().Dx() > 400 || img.Bounds().Dy() > 400 {
		t.Errorf("payload not resized: %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestMaterialize_HTTPFetch(t *testing.T) {
	data := encodeJPEG(t, createTestImage(100, 100, color.Black))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(data)
	}))
	defer server.Close()

	m := NewMaterializer(PolicyExclude, t.TempDir(), 400, nil)
	payload, err := m.Materialize(context.Background(), server.URL+"/art.jpg")
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if payload.Empty() {
		t.Error("expected non-empty payload")
	}
}

func TestMaterialize_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	m := NewMaterializer(PolicyExclude, t.TempDir(), 400, nil)
	_, err := m.Materialize(context.Background(), server.URL+"/missing.jpg")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestMaterialize_MissingFile_ExcludePolicy(t *testing.T) {
	m := NewMaterializer(PolicyExclude, t.TempDir(), 400, nil)
	_, err := m.Materialize(context.Background(), "/missing.png")
	if err == nil {
		t.Fatal("expected error under exclude policy")
	}
}

func TestMaterialize_MissingFile_PlaceholderPolicy(t *testing.T) {
	m := NewMaterializer(PolicyPlaceholder, t.TempDir(), 400, nil)
	payload, err := m.Materialize(context.Background(), "/missing.png")
	if err != nil {
		t.Fatalf("placeholder policy must absorb the failure, got: %v", err)
	}

	if !payload.Degraded {
		t.Error("placeholder payload must be marked degraded")
	}
	if payload.MediaType != "image/svg+xml" {
		t.Errorf("expected placeholder media type image/svg+xml, got %s", payload.MediaType)
	}
	if payload.Empty() {
		t.Error("placeholder payload must carry the bundled art")
	}
}

func TestMaterialize_SVGPassthrough(t *testing.T) {
	dir := t.TempDir()
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	if err := os.WriteFile(filepath.Join(dir, "logo.svg"), svg, 0o600); err != nil {
		t.Fatal(err)
	}

	m := NewMaterializer(PolicyExclude, dir, 400, nil)
	payload, err := m.Materialize(context.Background(), "/logo.svg")
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	if payload.MediaType != "image/svg+xml" {
		t.Errorf("expected image/svg+xml, got %s", payload.MediaType)
	}
	if !bytes.Equal(payload.Data, svg) {
		t.Error("SVG bytes must pass through unmodified")
	}
}

func TestDataURI(t *testing.T) {
	p := Payload{MediaType: "image/png", Data: []byte{1, 2, 3}}
	uri := p.DataURI()

	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("unexpected data URI prefix: %s", uri)
	}
}

func TestFromBytes(t *testing.T) {
	data := encodeJPEG(t, createTestImage(2000, 2000, color.White))

	payload, err := FromBytes(data, 500)
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(payload.Data))
	if err != nil {
		t.Fatalf("payload is not a decodable image: %v", err)
	}
	if img.Bounds().Dx() != 500 {
		t.Errorf("expected width 500, got %d", img.Bounds().Dx())
	}
}

func TestFromBytes_InvalidUpload(t *testing.T) {
	_, err := FromBytes([]byte("definitely not a photo"), 500)
	if err == nil {
		t.Fatal("expected error for invalid upload")
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    Policy
		wantErr bool
	}{
		{"", PolicyExclude, false},
		{"exclude", PolicyExclude, false},
		{"placeholder", PolicyPlaceholder, false},
		{"fabricate", "", true},
	}

	for _, tc := range tests {
		got, err := ParsePolicy(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePolicy(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePolicy(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("ParsePolicy(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
