package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/dafibh/kikoba/kikoba-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec represents an OpenAPI 3.0 spec structure
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// OpenAPIHandler serves the swag generated Swagger 2.0 document as OpenAPI 3.0.
// The conversion runs once.
type OpenAPIHandler struct {
	servers []Server

	once sync.Once
	spec *OpenAPI3Spec
	err  error
}

// NewOpenAPIHandler creates an OpenAPIHandler advertising the given servers
func NewOpenAPIHandler(servers ...Server) *OpenAPIHandler {
	return &OpenAPIHandler{servers: servers}
}

// Serve handles GET /openapi.json
func (h *OpenAPIHandler) Serve(c echo.Context) error {
	h.once.Do(func() {
		var doc string
		doc, h.err = swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if h.err == nil {
			h.spec, h.err = convertSwagger2(doc, h.servers)
		}
		if h.err != nil {
			log.Error().Err(h.err).Msg("Failed to build OpenAPI document")
		}
	})
	if h.err != nil {
		return NewInternalError(c, "Failed to build API document")
	}
	return c.JSON(http.StatusOK, h.spec)
}

func convertSwagger2(doc string, servers []Server) (*OpenAPI3Spec, error) {
	var swagger2 map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return nil, err
	}

	info, _ := swagger2["info"].(map[string]interface{})

	paths := make(map[string]interface{})
	if raw, ok := swagger2["paths"].(map[string]interface{}); ok {
		for path, item := range raw {
			methods, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			converted := make(map[string]interface{}, len(methods))
			for method, op := range methods {
				if opMap, ok := op.(map[string]interface{}); ok {
					converted[method] = convertOperation(opMap)
				}
			}
			paths[path] = converted
		}
	}

	components := make(map[string]interface{})
	if secDefs, ok := swagger2["securityDefinitions"].(map[string]interface{}); ok {
		schemes := make(map[string]interface{}, len(secDefs))
		for name := range secDefs {
			// Auth0 access tokens are sent as "Authorization: Bearer <jwt>"
			schemes[name] = map[string]interface{}{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
		}
		components["securitySchemes"] = schemes
	}
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = transformRefs(definitions)
	}

	return &OpenAPI3Spec{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    servers,
		Paths:      paths,
		Components: components,
	}, nil
}

// convertOperation moves body and formData parameters into requestBody and
// wraps response schemas in content
func convertOperation(op map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(op))
	for key, value := range op {
		switch key {
		case "parameters", "responses", "consumes", "produces":
		default:
			result[key] = transformRefs(value)
		}
	}

	consumes := stringList(op["consumes"], "application/json")
	produces := stringList(op["produces"], "application/json")

	var params []interface{}
	formProps := make(map[string]interface{})
	var formRequired []string
	if raw, ok := op["parameters"].([]interface{}); ok {
		for _, p := range raw {
			param, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			switch param["in"] {
			case "body":
				content := make(map[string]interface{}, len(consumes))
				for _, mediaType := range consumes {
					content[mediaType] = map[string]interface{}{"schema": transformRefs(param["schema"])}
				}
				result["requestBody"] = map[string]interface{}{
					"description": param["description"],
					"required":    param["required"],
					"content":     content,
				}
			case "formData":
				name, _ := param["name"].(string)
				prop := map[string]interface{}{"type": param["type"]}
				if param["type"] == "file" {
					prop = map[string]interface{}{"type": "string", "format": "binary"}
				}
				if desc, ok := param["description"]; ok {
					prop["description"] = desc
				}
				formProps[name] = prop
				if required, _ := param["required"].(bool); required {
					formRequired = append(formRequired, name)
				}
			default:
				params = append(params, transformParameter(param))
			}
		}
	}
	if len(params) > 0 {
		result["parameters"] = params
	}
	if len(formProps) > 0 {
		schema := map[string]interface{}{"type": "object", "properties": formProps}
		if len(formRequired) > 0 {
			schema["required"] = formRequired
		}
		result["requestBody"] = map[string]interface{}{
			"content": map[string]interface{}{consumes[0]: map[string]interface{}{"schema": schema}},
		}
	}

	if raw, ok := op["responses"].(map[string]interface{}); ok {
		responses := make(map[string]interface{}, len(raw))
		for code, r := range raw {
			resp, ok := r.(map[string]interface{})
			if !ok {
				continue
			}
			converted := map[string]interface{}{"description": resp["description"]}
			if schema, ok := resp["schema"]; ok {
				content := make(map[string]interface{}, len(produces))
				for _, mediaType := range produces {
					content[mediaType] = map[string]interface{}{"schema": transformRefs(schema)}
				}
				converted["content"] = content
			}
			responses[code] = converted
		}
		result["responses"] = responses
	}

	return result
}

// transformRefs recursively rewrites $ref from #/definitions/ to #/components/schemas/
func transformRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				result[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			result[key] = transformRefs(value)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = transformRefs(item)
		}
		return result
	default:
		return data
	}
}

// transformParameter converts a Swagger 2.0 path or query parameter to OpenAPI 3.0
func transformParameter(param map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		if val, ok := param[field]; ok {
			schema[field] = transformRefs(val)
		}
	}
	if len(schema) > 0 {
		result["schema"] = schema
	}
	return result
}

func stringList(v interface{}, fallback string) []string {
	raw, _ := v.([]interface{})
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = append(out, fallback)
	}
	return out
}
