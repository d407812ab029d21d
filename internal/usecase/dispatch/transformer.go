package dispatch

import (
	"encoding/json"
	"strings"
	"time"

	endpointModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/endpoint"
	notificationModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/notification"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
)

// staticPrefix marks a mapping value as a literal instead of a field
// reference.
const staticPrefix = "static:"

// Transform applies the endpoint's declarative field mapping to the
// notification and returns the endpoint-specific message body. It is pure:
// the same (notification, endpoint) pair always yields the same bytes, which
// makes retries safe. An endpoint without a mapping gets the default body.
func Transform(n *notificationModels.Notification, ep *endpointModels.Endpoint) ([]byte, error) {
	mapping, err := ep.FieldMapping()
	if err != nil {
		return nil, errors.NewMapping("endpoint "+ep.Name+": malformed mapping", err)
	}

	if len(mapping) == 0 {
		return json.Marshal(defaultBody(n))
	}

	out := make(map[string]interface{}, len(mapping))
	for field, expr := range mapping {
		if strings.HasPrefix(expr, staticPrefix) {
			out[field] = strings.TrimPrefix(expr, staticPrefix)
			continue
		}
		v, ok := fieldValue(n, expr)
		if !ok {
			return nil, errors.NewMapping("endpoint "+ep.Name+": unknown field "+expr, nil)
		}
		out[field] = v
	}

	// map keys are emitted in sorted order, so the output is stable.
	return json.Marshal(out)
}

func defaultBody(n *notificationModels.Notification) map[string]interface{} {
	return map[string]interface{}{
		"id":         n.ID,
		"title":      n.Title,
		"body":       n.Body,
		"severity":   n.Severity,
		"origin_tag": n.OriginTag,
		"categories": []string(n.Categories),
	}
}

func fieldValue(n *notificationModels.Notification, name string) (interface{}, bool) {
	switch name {
	case "id":
		return n.ID, true
	case "org_id":
		return n.OrgID, true
	case "title":
		return n.Title, true
	case "body":
		return n.Body, true
	case "severity":
		return n.Severity, true
	case "origin_tag":
		return n.OriginTag, true
	case "status":
		return n.Status, true
	case "categories":
		return []string(n.Categories), true
	case "targets":
		return []string(n.Targets), true
	case "created_at":
		return n.CreatedAt.UTC().Format(time.RFC3339), true
	default:
		return nil, false
	}
}
