package config

import (
	"maps"
	"strings"
)

const keySep = "."

// secretKeys are masked by `config list`.
var secretKeys = map[string]bool{
	"api.token": true,
}

func IsSecretKey(key string) bool {
	return secretKeys[key]
}

// Flatten turns {"api": {"endpoint": "http://x"}} into {"api.endpoint": "http://x"}.
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any)
	var walk func(prefix string, node map[string]any)
	walk = func(prefix string, node map[string]any) {
		for k, v := range node {
			if prefix != "" {
				k = prefix + keySep + k
			}
			if child, ok := v.(map[string]any); ok {
				walk(k, child)
				continue
			}
			out[k] = v
		}
	}
	walk("", m)
	return out
}

// Unflatten is the inverse of Flatten. A scalar sitting where a nested key
// needs an object is replaced by the object.
func Unflatten(flat map[string]any) map[string]any {
	out := make(map[string]any)
	for key, v := range flat {
		path := strings.Split(key, keySep)
		node := out
		for _, seg := range path[:len(path)-1] {
			child, ok := node[seg].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[seg] = child
			}
			node = child
		}
		node[path[len(path)-1]] = v
	}
	return out
}

// MaskSecrets copies flat, showing secret strings as "***" plus their last
// four characters. Empty secrets stay empty.
func MaskSecrets(flat map[string]any) map[string]any {
	out := maps.Clone(flat)
	for k := range secretKeys {
		if s, ok := out[k].(string); ok && s != "" {
			out[k] = "***" + s[max(0, len(s)-4):]
		}
	}
	return out
}
