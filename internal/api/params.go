package api

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	sdkerrors "github.com/recallrai/sdk-go/internal/errors"
)

// query builds url.Values and leaves out every absent parameter.
type query url.Values

func newQuery() query { return query{} }

func (q query) values() url.Values { return url.Values(q) }

func (q query) setInt(key string, v int) { url.Values(q).Set(key, strconv.Itoa(v)) }

func (q query) optInt(key string, v *int) {
	if v != nil {
		q.setInt(key, *v)
	}
}

func (q query) optFloat(key string, v *float64) {
	if v != nil {
		url.Values(q).Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}

func (q query) optBool(key string, v *bool) {
	if v != nil {
		url.Values(q).Set(key, strconv.FormatBool(*v))
	}
}

func (q query) optString(key, v string) {
	if v != "" {
		url.Values(q).Set(key, v)
	}
}

// list sends one key=value pair per element.
func (q query) list(key string, vs []string) {
	for _, v := range vs {
		url.Values(q).Add(key, v)
	}
}

// jsonFilter sends a structured filter as one JSON-encoded value.
func (q query) jsonFilter(key string, v map[string]any) error {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sdkerrors.Local("%s: %v", key, err)
	}
	url.Values(q).Set(key, string(b))
	return nil
}

// body is a JSON request body that drops nil values.
type body map[string]any

func (b body) set(key string, v any) body {
	if v == nil {
		return b
	}
	b[key] = v
	return b
}

func (b body) optString(key, v string) body {
	if v != "" {
		b[key] = v
	}
	return b
}

func (b body) optMap(key string, v map[string]any) body {
	if v != nil {
		b[key] = v
	}
	return b
}

func strList[T ~string](in []T) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func describe(method, path string) string { return fmt.Sprintf("%s %s", method, path) }
