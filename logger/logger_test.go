package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestWithComponentWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, Level: "debug"}).WithComponent("cart")
	log.Info("line added", "food_id", 7)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %v (%s)", err, buf.String())
	}
	if entry["component"] != "cart" || entry["msg"] != "line added" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["food_id"] != float64(7) {
		t.Errorf("food_id = %v", entry["food_id"])
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, Level: "warn"})
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info written at warn level: %s", buf.String())
	}
	log.Error("shown")
	if !bytes.Contains(buf.Bytes(), []byte("caller")) {
		t.Errorf("error entry missing caller: %s", buf.String())
	}
}

func TestMiddlewareLogsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := New(Config{Output: &buf})

	r := gin.New()
	r.Use(log.Middleware())
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("bad log line: %v", err)
	}
	if entry["status"] != float64(404) || entry["level"] != "WARN" {
		t.Errorf("unexpected entry %v", entry)
	}
}
