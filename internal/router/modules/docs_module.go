package modules

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
)

// DocsModule serves the validated OpenAPI document at /api/openapi.json.
type DocsModule struct {
	doc []byte
}

// LoadOpenAPI parses and validates raw (YAML or JSON).
func LoadOpenAPI(ctx context.Context, raw []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("load openapi: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi: %w", err)
	}
	return doc, nil
}

func NewDocsModule(ctx context.Context, raw []byte) (*DocsModule, error) {
	doc, err := LoadOpenAPI(ctx, raw)
	if err != nil {
		return nil, err
	}
	b, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return &DocsModule{doc: b}, nil
}

func (m *DocsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", m.doc)
	})
}
