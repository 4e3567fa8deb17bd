package cycler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"settingscycler/pkg/cyclertypes"
)

// Errors returned for payloads that cannot be cycled.
var (
	ErrInvalidRequest = errors.New("invalid cycle request")
	ErrEmptyRequest   = errors.New("empty cycle request")
)

// PayloadShape identifies which of the accepted payload forms a request used.
type PayloadShape int

// Accepted payload forms.
const (
	// PayloadSnapshot is a single snapshot object.
	PayloadSnapshot PayloadShape = iota
	// PayloadList is an array of snapshot objects.
	PayloadList
	// PayloadWrapper is an object with a "values" key and optional "id" and "global".
	PayloadWrapper
)

// String returns the shape name, which also feeds identity hashing.
func (s PayloadShape) String() string {
	switch s {
	case PayloadSnapshot:
		return "snapshot"
	case PayloadList:
		return "list"
	case PayloadWrapper:
		return "wrapper"
	default:
		return "shape(" + strconv.Itoa(int(s)) + ")"
	}
}

// Wrapper payload keys.
const (
	wrapperKeyID     = "id"
	wrapperKeyGlobal = "global"
	wrapperKeyValues = "values"
)

// Request is a decoded cycle payload in canonical form.
type Request struct {
	Shape      PayloadShape
	ID         string
	ExplicitID bool
	Global     bool
	Snapshots  []cyclertypes.Snapshot
}

// RequestOption overrides part of a decoded request before its identity is derived.
type RequestOption func(*Request)

// WithID sets an explicit cycle identity. An empty id is ignored.
func WithID(id string) RequestOption {
	return func(r *Request) {
		if id != "" {
			r.ID = id
			r.ExplicitID = true
		}
	}
}

// WithGlobal sets whether the request writes to the global scope.
func WithGlobal(global bool) RequestOption {
	return func(r *Request) {
		r.Global = global
	}
}

// DecodeRequestJSON decodes a JSON payload and then calls DecodeRequest.
func DecodeRequestJSON(data []byte, opts ...RequestOption) (*Request, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return DecodeRequest(payload, opts...)
}

// DecodeRequest converts a loosely typed payload into a Request. The shape is
// decided once here; nothing downstream inspects the raw payload again.
func DecodeRequest(payload any, opts ...RequestOption) (*Request, error) {
	payload = cyclertypes.NormalizeValue(payload)

	var req *Request
	var err error

	switch p := payload.(type) {
	case nil:
		return nil, fmt.Errorf("%w: payload is empty", ErrInvalidRequest)
	case map[string]any:
		if _, wrapped := p[wrapperKeyValues]; wrapped {
			req, err = decodeWrapper(p)
		} else {
			req = &Request{Shape: PayloadSnapshot, Snapshots: []cyclertypes.Snapshot{p}}
		}
	case []any:
		var snaps []cyclertypes.Snapshot
		snaps, err = decodeList(p)
		req = &Request{Shape: PayloadList, Snapshots: snaps}
	default:
		return nil, fmt.Errorf("%w: unsupported payload type %T", ErrInvalidRequest, payload)
	}
	if err != nil {
		return nil, err
	}

	if len(req.Snapshots) == 0 {
		return nil, fmt.Errorf("%w: no values to cycle through", ErrEmptyRequest)
	}

	for _, opt := range opts {
		opt(req)
	}
	if req.ID == "" {
		req.ID = DeriveIdentity(req)
	}
	return req, nil
}

func decodeWrapper(p map[string]any) (*Request, error) {
	req := &Request{Shape: PayloadWrapper}

	if raw, ok := p[wrapperKeyID]; ok && raw != nil {
		id, isString := raw.(string)
		if !isString {
			return nil, fmt.Errorf("%w: id must be a string, got %T", ErrInvalidRequest, raw)
		}
		req.ID = id
		req.ExplicitID = id != ""
	}

	if raw, ok := p[wrapperKeyGlobal]; ok && raw != nil {
		global, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: global flag: %v", ErrInvalidRequest, err)
		}
		req.Global = global
	}

	switch values := p[wrapperKeyValues].(type) {
	case map[string]any:
		req.Snapshots = []cyclertypes.Snapshot{values}
	case []any:
		snaps, err := decodeList(values)
		if err != nil {
			return nil, err
		}
		req.Snapshots = snaps
	case nil:
		return nil, fmt.Errorf("%w: values are empty", ErrInvalidRequest)
	default:
		return nil, fmt.Errorf("%w: values must be an object or an array, got %T", ErrInvalidRequest, values)
	}
	return req, nil
}

func decodeList(items []any) ([]cyclertypes.Snapshot, error) {
	snaps := make([]cyclertypes.Snapshot, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: value %d must be an object, got %T", ErrInvalidRequest, i, item)
		}
		snaps = append(snaps, m)
	}
	return snaps, nil
}

// DeriveIdentity hashes the canonical request content. Identical snapshot sets
// in the same payload shape share an identity; the same snapshots sent in a
// different shape do not.
func DeriveIdentity(req *Request) string {
	canonical := map[string]any{
		"shape":  req.Shape.String(),
		"global": req.Global,
		"values": req.Snapshots,
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		// fmt prints maps with sorted keys, which keeps the fallback stable.
		data = []byte(fmt.Sprintf("%v", canonical))
	}
	return fmt.Sprintf("auto:%016x", xxhash.Sum64(data))
}

// Inherited returns the control defaults a request hands to each snapshot.
func (r *Request) Inherited() cyclertypes.CyclerControl {
	control := cyclertypes.DefaultControl()
	control.Global = r.Global
	return control
}
