package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Afzalsd/Ecom-SAAS/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindProbe struct {
	Title string `json:"title" binding:"required,min=3"`
	Count int    `json:"count" binding:"gte=1"`
}

func bindRouter() *gin.Engine {
	r := gin.New()

	r.POST("/probe", func(c *gin.Context) {
		var req bindProbe
		if !handlers.BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	return r
}

type errBody struct {
	Message string `json:"message"`
	Details struct {
		Fields []handlers.FieldError `json:"fields"`
		JSON   string                `json:"json"`
	} `json:"details"`
}

func TestBindJSONValid(t *testing.T) {
	w := doJSON(bindRouter(), http.MethodPost, "/probe", `{"title":"abc","count":2}`)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
	}
}

func TestBindJSONReportsJSONFieldNames(t *testing.T) {
	w := doJSON(bindRouter(), http.MethodPost, "/probe", `{"count":0}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var body errBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(body.Details.Fields) != 2 {
		t.Fatalf("got %d field errors, want 2: %+v", len(body.Details.Fields), body.Details.Fields)
	}

	seen := map[string]string{}
	for _, fe := range body.Details.Fields {
		seen[fe.Field] = fe.Rule
	}

	if seen["title"] != "required" {
		t.Errorf("title rule = %q, want required", seen["title"])
	}
	if seen["count"] != "gte" {
		t.Errorf("count rule = %q, want gte", seen["count"])
	}
}

func TestBindJSONBadSyntax(t *testing.T) {
	w := doJSON(bindRouter(), http.MethodPost, "/probe", `{"title": oops`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var body errBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if body.Details.JSON != "invalid_json_syntax" {
		t.Errorf("json marker = %q, want invalid_json_syntax", body.Details.JSON)
	}
}

func TestBindJSONTypeMismatch(t *testing.T) {
	w := doJSON(bindRouter(), http.MethodPost, "/probe", `{"title":"abc","count":"two"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var body errBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if body.Details.JSON != "invalid_json_type" {
		t.Errorf("json marker = %q, want invalid_json_type", body.Details.JSON)
	}
}
