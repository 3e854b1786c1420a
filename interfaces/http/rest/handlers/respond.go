// Package handlers contains the HTTP handlers of the REST API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"srm-backend/application/queries"
	pkgerrors "srm-backend/pkg/errors"
)

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// parseFilter reads min_numbers, max_numbers and numbers from the query string.
// numbers may be comma separated, repeated, or both.
func parseFilter(r *http.Request) (queries.GroupFilter, error) {
	var filter queries.GroupFilter
	values := r.URL.Query()

	var err error
	if filter.MinNumbers, err = intParam(values.Get("min_numbers"), "min_numbers"); err != nil {
		return filter, err
	}
	if filter.MaxNumbers, err = intParam(values.Get("max_numbers"), "max_numbers"); err != nil {
		return filter, err
	}

	for _, raw := range values["numbers"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := intParam(part, "numbers")
			if err != nil {
				return filter, err
			}
			filter.Numbers = append(filter.Numbers, n)
		}
	}
	return filter, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.NewValidationError(name + " must be an integer").
			WithCode(pkgerrors.CodeInvalidQuery).
			WithDetails(map[string]interface{}{"parameter": name, "value": raw})
	}
	return n, nil
}

func boolParam(raw, name string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.NewValidationError(name + " must be a boolean").
			WithCode(pkgerrors.CodeInvalidQuery).
			WithDetails(map[string]interface{}{"parameter": name, "value": raw})
	}
	return b, nil
}
