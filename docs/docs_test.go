package docs

import (
	"encoding/json"
	"testing"
)

func TestSwaggerDocMatchesRoutes(t *testing.T) {
	var doc struct {
		BasePath string `json:"basePath"`
		Paths    map[string]map[string]struct {
			Responses map[string]json.RawMessage `json:"responses"`
		} `json:"paths"`
	}
	if err := json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc); err != nil {
		t.Fatalf("invalid swagger document: %v", err)
	}
	if doc.BasePath != "/" {
		t.Errorf("basePath: got %q, want /", doc.BasePath)
	}

	want := map[string][]string{
		"/healthz":                      {"200"},
		"/api/matches":                  {"200", "503"},
		"/api/matches/{matchID}":        {"200", "400", "404", "503"},
		"/api/matches/{matchID}/events": {"200", "400", "404", "503"},
	}
	for path, codes := range want {
		op, ok := doc.Paths[path]["get"]
		if !ok {
			t.Errorf("missing GET %s", path)
			continue
		}
		for _, code := range codes {
			if _, ok := op.Responses[code]; !ok {
				t.Errorf("GET %s: missing %s response", path, code)
			}
		}
	}
}
