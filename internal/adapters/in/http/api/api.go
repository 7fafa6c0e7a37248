// Package api holds the HTTP contract of the service. The embedded OpenAPI document
// validates incoming requests and is served by the docs UI.
package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var document []byte

var registerOnce sync.Once

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, err
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}

// NewRouter returns a router that resolves requests to operations of doc.
func NewRouter(doc *openapi3.T) (routers.Router, error) {
	return gorillamux.NewRouter(doc)
}

// RegisterDocs publishes doc in the swag registry, where the docs UI reads it.
// Only the first call has an effect.
func RegisterDocs(doc *openapi3.T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	registerOnce.Do(func() {
		swag.Register(swag.Name, &swaggerDoc{json: string(raw)})
	})
	return nil
}

type swaggerDoc struct {
	json string
}

func (d *swaggerDoc) ReadDoc() string {
	return d.json
}
