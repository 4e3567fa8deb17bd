package cycler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settingscycler/pkg/cyclertypes"
)

func TestDecodeRequest_Shapes(t *testing.T) {
	tests := []struct {
		name          string
		payload       any
		expectedShape PayloadShape
		expectedLen   int
		expectedID    string
		global        bool
	}{
		{
			name:          "single snapshot",
			payload:       map[string]any{"editor.fontSize": 14},
			expectedShape: PayloadSnapshot,
			expectedLen:   1,
		},
		{
			name:          "list of snapshots",
			payload:       []any{map[string]any{"a": 1}, map[string]any{"a": 2}},
			expectedShape: PayloadList,
			expectedLen:   2,
		},
		{
			name: "wrapper with id and list",
			payload: map[string]any{
				"id":     "font-size",
				"values": []any{map[string]any{"a": 1}, map[string]any{"a": 2}, map[string]any{"a": 3}},
			},
			expectedShape: PayloadWrapper,
			expectedLen:   3,
			expectedID:    "font-size",
		},
		{
			name: "wrapper with global flag and single value",
			payload: map[string]any{
				"global": true,
				"values": map[string]any{"files.autoSave": "$toggle"},
			},
			expectedShape: PayloadWrapper,
			expectedLen:   1,
			global:        true,
		},
		{
			name:          "typed snapshot slice",
			payload:       []cyclertypes.Snapshot{{"a": 1}},
			expectedShape: PayloadList,
			expectedLen:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest(tt.payload)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedShape, req.Shape)
			assert.Len(t, req.Snapshots, tt.expectedLen)
			assert.Equal(t, tt.global, req.Global)
			if tt.expectedID != "" {
				assert.Equal(t, tt.expectedID, req.ID)
				assert.True(t, req.ExplicitID)
			} else {
				assert.True(t, strings.HasPrefix(req.ID, "auto:"))
				assert.False(t, req.ExplicitID)
			}
		})
	}
}

func TestDecodeRequest_NormalizesNumbers(t *testing.T) {
	req, err := DecodeRequest(map[string]any{"editor.tabSize": 2})
	require.NoError(t, err)
	assert.Equal(t, 2.0, req.Snapshots[0]["editor.tabSize"])
}

func TestDecodeRequest_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		target  error
	}{
		{"nil payload", nil, ErrInvalidRequest},
		{"string payload", "zen", ErrInvalidRequest},
		{"number payload", 3, ErrInvalidRequest},
		{"list with non object", []any{map[string]any{"a": 1}, "b"}, ErrInvalidRequest},
		{"wrapper with null values", map[string]any{"values": nil}, ErrInvalidRequest},
		{"wrapper with scalar values", map[string]any{"values": 5}, ErrInvalidRequest},
		{"wrapper with numeric id", map[string]any{"id": 7, "values": map[string]any{"a": 1}}, ErrInvalidRequest},
		{"wrapper with bad global", map[string]any{"global": "sometimes", "values": map[string]any{"a": 1}}, ErrInvalidRequest},
		{"empty list", []any{}, ErrEmptyRequest},
		{"wrapper with empty list", map[string]any{"values": []any{}}, ErrEmptyRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest(tt.payload)
			assert.Nil(t, req)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestDecodeRequestJSON(t *testing.T) {
	req, err := DecodeRequestJSON([]byte(`{"id":"zen","values":[{"zenMode.fullScreen":true},{"zenMode.fullScreen":false}]}`))
	require.NoError(t, err)
	assert.Equal(t, "zen", req.ID)
	assert.Len(t, req.Snapshots, 2)

	_, err = DecodeRequestJSON([]byte(`{"broken"`))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = DecodeRequestJSON([]byte(`null`))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestDeriveIdentity(t *testing.T) {
	a, err := DecodeRequest([]any{map[string]any{"x": 1, "y": "on"}, map[string]any{"x": 2}})
	require.NoError(t, err)
	b, err := DecodeRequest([]any{map[string]any{"y": "on", "x": 1.0}, map[string]any{"x": 2}})
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID, "identical snapshot sets share an identity")

	reordered, err := DecodeRequest([]any{map[string]any{"x": 2}, map[string]any{"x": 1, "y": "on"}})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, reordered.ID, "order is part of a cycle")

	single, err := DecodeRequest(map[string]any{"x": 1})
	require.NoError(t, err)
	list, err := DecodeRequest([]any{map[string]any{"x": 1}})
	require.NoError(t, err)
	wrapped, err := DecodeRequest(map[string]any{"values": map[string]any{"x": 1}})
	require.NoError(t, err)
	assert.NotEqual(t, single.ID, list.ID)
	assert.NotEqual(t, list.ID, wrapped.ID)
	assert.NotEqual(t, single.ID, wrapped.ID)

	global, err := DecodeRequest(map[string]any{"global": true, "values": map[string]any{"x": 1}})
	require.NoError(t, err)
	assert.NotEqual(t, wrapped.ID, global.ID)
}

func TestDecodeRequest_Options(t *testing.T) {
	payload := []any{map[string]any{"x": 1}, map[string]any{"x": 2}}

	plain, err := DecodeRequest(payload)
	require.NoError(t, err)

	named, err := DecodeRequest(payload, WithID("xs"))
	require.NoError(t, err)
	assert.Equal(t, "xs", named.ID)
	assert.True(t, named.ExplicitID)

	unnamed, err := DecodeRequest(payload, WithID(""))
	require.NoError(t, err)
	assert.Equal(t, plain.ID, unnamed.ID)
	assert.False(t, unnamed.ExplicitID)

	global, err := DecodeRequest(payload, WithGlobal(true))
	require.NoError(t, err)
	assert.True(t, global.Global)
	assert.NotEqual(t, plain.ID, global.ID, "identity is derived after options apply")

	overridden, err := DecodeRequest(map[string]any{"id": "a", "global": true, "values": payload}, WithID("b"), WithGlobal(false))
	require.NoError(t, err)
	assert.Equal(t, "b", overridden.ID)
	assert.False(t, overridden.Global)
}

func TestRequest_Inherited(t *testing.T) {
	req := &Request{Global: true}
	ctl := req.Inherited()
	assert.True(t, ctl.Global)
	assert.Equal(t, 1.0, ctl.Step)
}

func TestPayloadShape_String(t *testing.T) {
	assert.Equal(t, "snapshot", PayloadSnapshot.String())
	assert.Equal(t, "list", PayloadList.String())
	assert.Equal(t, "wrapper", PayloadWrapper.String())
	assert.Equal(t, "shape(9)", PayloadShape(9).String())
}
