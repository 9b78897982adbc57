// Package confmap assembles loosely typed configuration maps from
// environment variables, JSON files, JSON strings and key=value pairs.
package confmap

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"strconv"
	"strings"
)

// Sources names every place a configuration map may come from.
// Precedence, lowest first: env < file < JSON < KV.
type Sources struct {
	EnvPrefix string
	File      string
	JSON      string
	KV        []string
}

// Build merges all sources into one map. The result is never nil.
func Build(src Sources) (map[string]any, error) {
	var layers []map[string]any

	if src.EnvPrefix != "" {
		layers = append(layers, FromEnv(src.EnvPrefix))
	}

	if src.File != "" {
		fileConf, err := ParseFile(src.File)
		if err != nil {
			return nil, err
		}
		layers = append(layers, fileConf)
	}

	if src.JSON != "" {
		jsonConf, err := ParseJSON(src.JSON)
		if err != nil {
			return nil, err
		}
		layers = append(layers, jsonConf)
	}

	if len(src.KV) > 0 {
		kvConf := make(map[string]any, len(src.KV))
		for _, kv := range src.KV {
			key, value, err := ParseKV(kv)
			if err != nil {
				return nil, err
			}
			kvConf[key] = value
		}
		layers = append(layers, kvConf)
	}

	return Merge(layers...), nil
}

// ParseKV parses a key=value pair. The value is kept verbatim; typed
// getters convert it on read.
func ParseKV(kvPair string) (string, string, error) {
	key, raw, ok := strings.Cut(kvPair, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid format, expected key=value: %s", kvPair)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("empty key in key=value pair")
	}

	return key, strings.TrimSpace(raw), nil
}

// ParseJSON parses a JSON object
func ParseJSON(jsonStr string) (map[string]any, error) {
	var result map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	return result, nil
}

// ParseFile reads a JSON object from a file
func ParseFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("invalid JSON object in file %s: %w", path, err)
	}
	return result, nil
}

// FromEnv reads PREFIX (a JSON object, ignored when invalid) and PREFIX_*
// variables. Keys of PREFIX_* variables are lower-cased.
func FromEnv(prefix string) map[string]any {
	conf := make(map[string]any)

	if jsonStr := os.Getenv(prefix); jsonStr != "" {
		if parsed, err := ParseJSON(jsonStr); err == nil {
			maps.Copy(conf, parsed)
		}
	}

	envPrefix := prefix + "_"
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key == "" {
			continue
		}
		conf[key] = value
	}

	if len(conf) == 0 {
		return nil
	}
	return conf
}

// Merge copies layers into a new map, later layers overriding earlier ones
func Merge(layers ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, layer := range layers {
		maps.Copy(result, layer)
	}
	return result
}

// String returns m[key] as a string. Empty strings and non-string values
// report false.
func String(m map[string]any, key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok && v != ""
}

// StringOr returns m[key] as a string, or def
func StringOr(m map[string]any, key, def string) string {
	if s, ok := String(m, key); ok {
		return s
	}
	return def
}

// Bool returns m[key] as a bool, accepting strconv.ParseBool strings
func Bool(m map[string]any, key string, def bool) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Int returns m[key] as an int. JSON numbers arrive as float64.
func Int(m map[string]any, key string, def int) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// StringMap returns the object at m[key] with string values. A missing key
// yields nil; anything else that is not an object of strings is an error.
func StringMap(m map[string]any, key string) (map[string]string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object, got %T", key, raw)
	}
	result := make(map[string]string, len(obj))
	for k, v := range obj {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s.%s must be a string, got %T", key, k, v)
		}
		result[k] = s
	}
	return result, nil
}
