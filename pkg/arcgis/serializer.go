package arcgis

import (
	"fmt"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/geoplatform/arcrest/pkg/types"
)

// Serializer converts between the caller's typed world and the wire.
// Flatten turns an operation's parameter object into the flat
// string-keyed mapping the platform expects in query strings and form
// bodies; Parse decodes a raw response payload into a typed result
// exposing the optional error slot. A serializer is supplied at
// gateway construction and can be replaced by the caller.
type Serializer interface {
	Flatten(params any) (map[string]string, error)
	Parse(data []byte, out types.Result) error
}

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONSerializer is the default Serializer. It decodes JSON responses
// and flattens parameter structs and maps by their json tags, encoding
// composite values (geometries, arbitrary JSON blobs) as JSON strings.
type JSONSerializer struct{}

// Parse decodes a JSON response payload into out.
func (JSONSerializer) Parse(data []byte, out types.Result) error {
	if !gjson.ValidBytes(data) {
		return errors.New("response body is not valid JSON")
	}
	if err := jsonCodec.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// Flatten converts a parameter object into a flat string mapping.
// Accepts nil, map[string]string, url.Values (first value wins), and
// arbitrary structs or maps, which are flattened by json tag.
func (JSONSerializer) Flatten(params any) (map[string]string, error) {
	switch p := params.(type) {
	case nil:
		return map[string]string{}, nil
	case map[string]string:
		out := make(map[string]string, len(p))
		for k, v := range p {
			out[k] = v
		}
		return out, nil
	case url.Values:
		out := make(map[string]string, len(p))
		for k := range p {
			out[k] = p.Get(k)
		}
		return out, nil
	}

	fields := map[string]any{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &fields,
	})
	if err != nil {
		return nil, errors.Wrap(err, "flatten parameters")
	}
	if err := dec.Decode(params); err != nil {
		return nil, errors.Wrap(err, "flatten parameters")
	}

	out := make(map[string]string, len(fields))
	for k, v := range fields {
		s, err := stringifyParam(v)
		if err != nil {
			return nil, errors.Wrapf(err, "flatten parameter %q", k)
		}
		out[k] = s
	}
	return out, nil
}

func stringifyParam(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		b, err := jsonCodec.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
