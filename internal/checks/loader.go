package checks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/smokecheck/internal/config"
	"github.com/hamed0406/smokecheck/internal/domain"
)

const sourceJSON = "CHECKS_JSON"

var knownFields = map[string]bool{
	"name":            true,
	"method":          true,
	"path":            true,
	"headers":         true,
	"body":            true,
	"json":            true,
	"expected_status": true,
}

var validMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
	http.MethodConnect: true,
}

// Load builds the ordered check list for a run. An explicit CHECKS_JSON wins
// over CHECKS_FILE, which wins over the built-in table for the deploy target.
// Any problem with explicit input is returned as *ConfigurationError.
func Load(cfg config.Config) ([]domain.CheckSpec, error) {
	if cfg.ChecksJSON != "" {
		specs, err := ParseJSON([]byte(cfg.ChecksJSON))
		if err != nil {
			return nil, &ConfigurationError{Source: sourceJSON, Err: err}
		}
		return specs, nil
	}

	if cfg.ChecksFile != "" {
		data, err := os.ReadFile(cfg.ChecksFile)
		if err != nil {
			return nil, &ConfigurationError{Source: cfg.ChecksFile, Err: fmt.Errorf("read checks file: %w", err)}
		}
		specs, err := ParseYAML(data)
		if err != nil {
			return nil, &ConfigurationError{Source: cfg.ChecksFile, Err: err}
		}
		return specs, nil
	}

	return Defaults(cfg.DeployTarget, cfg.RunID, cfg.EmailTo), nil
}

// ParseJSON decodes a JSON array of check objects.
func ParseJSON(data []byte) ([]domain.CheckSpec, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("parse json: unexpected data after the check list")
	}
	return fromList(v)
}

// ParseYAML decodes a YAML sequence of check mappings. JSON input is valid
// YAML and is accepted as well.
func ParseYAML(data []byte) ([]domain.CheckSpec, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return fromList(v)
}

func fromList(v any) ([]domain.CheckSpec, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("check list must be a list, got %s", kindOf(v))
	}

	specs := make([]domain.CheckSpec, 0, len(items))
	var errs error
	for i, item := range items {
		spec, err := parseCheck(item)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("check #%d: %w", i+1, err))
			continue
		}
		specs = append(specs, spec)
	}
	if errs != nil {
		return nil, errs
	}
	return specs, nil
}

func parseCheck(item any) (domain.CheckSpec, error) {
	if _, ok := item.(map[any]any); ok {
		return domain.CheckSpec{}, errors.New("object keys must be strings")
	}
	obj, ok := item.(map[string]any)
	if !ok {
		return domain.CheckSpec{}, fmt.Errorf("must be an object, got %s", kindOf(item))
	}

	var errs error
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !knownFields[k] {
			errs = multierr.Append(errs, fmt.Errorf("unknown field %q", k))
		}
	}

	path, err := optionalString(obj, "path")
	switch {
	case err != nil:
		errs = multierr.Append(errs, err)
	case path == "":
		errs = multierr.Append(errs, errors.New("path is required"))
	case !strings.HasPrefix(path, "/"):
		errs = multierr.Append(errs, fmt.Errorf("path %q must begin with /", path))
	}

	method, err := optionalString(obj, "method")
	if err != nil {
		errs = multierr.Append(errs, err)
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	if !validMethods[method] {
		errs = multierr.Append(errs, fmt.Errorf("unsupported method %q", method))
	}

	name, err := optionalString(obj, "name")
	if err != nil {
		errs = multierr.Append(errs, err)
	}
	if name == "" {
		name = method + " " + path
	}

	headers, err := parseHeaders(obj["headers"])
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	body, err := parseBody(obj)
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	expected, err := parseStatuses(obj["expected_status"])
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	if errs != nil {
		return domain.CheckSpec{}, errs
	}
	return domain.CheckSpec{
		Name:           name,
		Method:         method,
		Path:           path,
		Headers:        headers,
		Body:           body,
		ExpectedStatus: expected,
	}, nil
}

func optionalString(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %s", key, kindOf(v))
	}
	return s, nil
}

func parseHeaders(v any) (map[string]string, error) {
	headers := map[string]string{}
	if v == nil {
		return headers, nil
	}
	if _, ok := v.(map[any]any); ok {
		return nil, errors.New("header names must be strings")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("headers must be an object, got %s", kindOf(v))
	}
	for k, raw := range obj {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("header %q must be a string, got %s", k, kindOf(raw))
		}
		headers[k] = s
	}
	return headers, nil
}

func parseBody(obj map[string]any) (domain.Body, error) {
	raw, hasRaw := obj["body"]
	structured, hasJSON := obj["json"]

	switch {
	case hasRaw && hasJSON:
		return domain.Body{}, errors.New("body and json are mutually exclusive")
	case hasRaw:
		s, ok := raw.(string)
		if !ok {
			return domain.Body{}, fmt.Errorf("body must be a string, got %s", kindOf(raw))
		}
		return domain.RawBody([]byte(s)), nil
	case hasJSON:
		if structured == nil {
			return domain.Body{}, errors.New("json must not be null")
		}
		return domain.JSONBody(structured)
	}
	return domain.Body{}, nil
}

// parseStatuses accepts a single status or a non-empty list of positive ints.
func parseStatuses(v any) ([]int, error) {
	if v == nil {
		return nil, nil
	}
	if n, ok := asInt(v); ok {
		if n <= 0 {
			return nil, fmt.Errorf("expected_status must be positive, got %d", n)
		}
		return []int{n}, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected_status must be an int or list of ints, got %s", kindOf(v))
	}
	if len(list) == 0 {
		return nil, errors.New("expected_status must not be empty")
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		n, ok := asInt(item)
		if !ok || n <= 0 {
			return nil, fmt.Errorf("expected_status entries must be positive ints, got %v", item)
		}
		out = append(out, n)
	}
	return out, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			if i > math.MaxInt32 || i < math.MinInt32 {
				return 0, false
			}
			return int(i), true
		}
		// 200.0 is accepted the same way YAML floats are
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return asInt(f)
	}
	return 0, false
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any, map[any]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number, int, int64, uint64, float64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
