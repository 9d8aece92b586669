//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func checkProbe(t *testing.T, path string) {
	t.Helper()

	resp := doGet(t, path)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
	}
	if body := decodeJSON[healthResponse](t, resp); body.Status != "ok" {
		t.Fatalf("%s: expected status ok, got %q", path, body.Status)
	}
}

func TestLivez(t *testing.T) {
	checkProbe(t, "/livez")
}

func TestReadyz(t *testing.T) {
	checkProbe(t, "/readyz")
}
