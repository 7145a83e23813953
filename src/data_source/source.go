package datasource

import (
	"encoding/json"
	"math"
	"strings"

	"live-indices/src/helpers"
	"live-indices/src/models"
)

// endpoint joins the backend base URL and a path.
func endpoint(cfg *models.MConfig, path string) string {
	return strings.TrimRight(cfg.Backend.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// -----------------------------------------------------------------------------

// decode unmarshals a feed body, mapping failures to *helpers.PayloadError.
func decode(what string, body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return helpers.NewPayloadError(what+": json unmarshal failed", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func value(p *float64) float64 {
	if p == nil || !finite(*p) {
		return 0
	}
	return *p
}

func clonePtr(p *float64) *float64 {
	if p == nil || !finite(*p) {
		return nil
	}
	v := *p
	return &v
}

// -----------------------------------------------------------------------------

// tracked returns the configured entity keys as a set.
func tracked(cfg *models.MConfig) map[string]struct{} {
	set := make(map[string]struct{}, len(cfg.Entities))
	for _, e := range cfg.Entities {
		set[e.Key] = struct{}{}
	}
	return set
}
