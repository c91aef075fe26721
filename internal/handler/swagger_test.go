package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestTransformRefs(t *testing.T) {
	in := map[string]interface{}{
		"schema": map[string]interface{}{"$ref": "#/definitions/handler.LoanResponse"},
		"items":  []interface{}{map[string]interface{}{"$ref": "#/definitions/handler.ProblemDetails"}},
	}

	out := transformRefs(in).(map[string]interface{})
	schema := out["schema"].(map[string]interface{})
	if schema["$ref"] != "#/components/schemas/handler.LoanResponse" {
		t.Errorf("Unexpected ref: %v", schema["$ref"])
	}
	item := out["items"].([]interface{})[0].(map[string]interface{})
	if item["$ref"] != "#/components/schemas/handler.ProblemDetails" {
		t.Errorf("Unexpected item ref: %v", item["$ref"])
	}
}

func TestConvertOperation(t *testing.T) {
	op := map[string]interface{}{
		"summary":  "Record repayment",
		"consumes": []interface{}{"application/json"},
		"produces": []interface{}{"application/json"},
		"parameters": []interface{}{
			map[string]interface{}{"type": "integer", "name": "id", "in": "path", "required": true},
			map[string]interface{}{"name": "request", "in": "body", "required": true, "schema": map[string]interface{}{"$ref": "#/definitions/handler.RecordRepaymentRequest"}},
		},
		"responses": map[string]interface{}{
			"200": map[string]interface{}{"description": "OK", "schema": map[string]interface{}{"$ref": "#/definitions/handler.RecordRepaymentResponse"}},
		},
	}

	out := convertOperation(op)

	params := out["parameters"].([]interface{})
	if len(params) != 1 {
		t.Fatalf("Expected only the path parameter, got %d", len(params))
	}
	if schema := params[0].(map[string]interface{})["schema"].(map[string]interface{}); schema["type"] != "integer" {
		t.Errorf("Expected integer schema, got %v", schema)
	}

	body := out["requestBody"].(map[string]interface{})
	content := body["content"].(map[string]interface{})["application/json"].(map[string]interface{})
	if content["schema"].(map[string]interface{})["$ref"] != "#/components/schemas/handler.RecordRepaymentRequest" {
		t.Errorf("Unexpected request body: %v", body)
	}

	resp := out["responses"].(map[string]interface{})["200"].(map[string]interface{})
	if _, ok := resp["content"]; !ok {
		t.Errorf("Expected response content, got %v", resp)
	}
}

func TestConvertOperation_FileUpload(t *testing.T) {
	op := map[string]interface{}{
		"consumes": []interface{}{"multipart/form-data"},
		"parameters": []interface{}{
			map[string]interface{}{"type": "file", "name": "file", "in": "formData", "required": true},
		},
		"responses": map[string]interface{}{"201": map[string]interface{}{"description": "Created"}},
	}

	out := convertOperation(op)

	if _, ok := out["parameters"]; ok {
		t.Error("Expected form fields to move into the request body")
	}
	content := out["requestBody"].(map[string]interface{})["content"].(map[string]interface{})
	schema := content["multipart/form-data"].(map[string]interface{})["schema"].(map[string]interface{})
	file := schema["properties"].(map[string]interface{})["file"].(map[string]interface{})
	if file["format"] != "binary" {
		t.Errorf("Expected binary file field, got %v", file)
	}
}

func TestOpenAPIHandler_Serve(t *testing.T) {
	h := NewOpenAPIHandler(Server{URL: "http://localhost:8080/api/v1", Description: "Local"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	rec := httptest.NewRecorder()
	if err := h.Serve(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var spec OpenAPI3Spec
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatalf("Failed to unmarshal spec: %v", err)
	}
	if spec.OpenAPI != "3.0.3" || len(spec.Servers) != 1 {
		t.Errorf("Unexpected spec header: %s %v", spec.OpenAPI, spec.Servers)
	}
	if _, ok := spec.Paths["/loans/{id}/repayments"]; !ok {
		t.Error("Expected the repayments path")
	}
	schemas := spec.Components["schemas"].(map[string]interface{})
	if _, ok := schemas["handler.LoanDetailResponse"]; !ok {
		t.Error("Expected the loan detail schema")
	}
}
