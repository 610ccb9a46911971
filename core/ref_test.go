package core_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/arcboundrav/layer-sort/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRef(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		module  string
		refType string
		wantErr bool
	}{
		{name: "valid ref", value: "flying", module: "core", refType: "keyword-ability"},
		{name: "empty value", value: "", module: "core", refType: "keyword-ability", wantErr: true},
		{name: "empty module", value: "flying", module: "", refType: "keyword-ability", wantErr: true},
		{name: "empty type", value: "flying", module: "core", refType: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := core.NewRef(core.RefInput{Module: tt.module, Type: tt.refType, Value: tt.value})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, r.Value)
			assert.Equal(t, tt.module, r.Module)
			assert.Equal(t, tt.refType, r.Type)
		})
	}
}

func TestRef_String(t *testing.T) {
	r := core.MustNewRef(core.RefInput{Module: "core", Type: "keyword-ability", Value: "flying"})
	assert.Equal(t, "core:keyword-ability:flying", r.String())
}

func TestRef_Equals(t *testing.T) {
	r1 := core.MustNewRef(core.RefInput{Module: "core", Type: "keyword-ability", Value: "flying"})
	r2 := core.MustNewRef(core.RefInput{Module: "core", Type: "keyword-ability", Value: "flying"})
	r3 := core.MustNewRef(core.RefInput{Module: "core", Type: "marker", Value: "flying"})
	r4 := core.MustNewRef(core.RefInput{Module: "core", Type: "keyword-ability", Value: "trample"})

	assert.True(t, r1.Equals(r2), "identical refs should be equal")
	assert.False(t, r1.Equals(r3), "different types should not be equal")
	assert.False(t, r1.Equals(r4), "different values should not be equal")

	var nilRef *core.Ref
	var nilRef2 *core.Ref
	assert.False(t, r1.Equals(nilRef), "non-nil should not equal nil")
	assert.True(t, nilRef.Equals(nilRef2), "nil should equal nil")
}

func TestRef_JSONMarshaling(t *testing.T) {
	original := core.MustNewRef(core.RefInput{Module: "core", Type: "origin", Value: "copiable_effect"})

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"core:origin:copiable_effect"`, string(data))

	var unmarshaled core.Ref
	err = json.Unmarshal(data, &unmarshaled)
	require.NoError(t, err)
	assert.True(t, original.Equals(&unmarshaled))
}

func TestRef_JSONUnmarshal_BackwardCompatibility(t *testing.T) {
	objectFormat := `{"module":"core","type":"origin","value":"granted"}`

	var r core.Ref
	err := json.Unmarshal([]byte(objectFormat), &r)
	require.NoError(t, err)

	assert.Equal(t, "granted", r.Value)
	assert.Equal(t, "core", r.Module)
	assert.Equal(t, "origin", r.Type)
}

func TestMustNewRef_Panics(t *testing.T) {
	assert.Panics(t, func() {
		core.MustNewRef(core.RefInput{Module: "core", Type: "origin", Value: ""})
	}, "MustNewRef should panic with invalid input")
}

func TestParseString(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       *core.Ref
		wantErr    error
		wantErrMsg string
	}{
		{
			name:  "valid ref",
			input: "core:origin:rules_text",
			want:  core.MustNewRef(core.RefInput{Module: "core", Type: "origin", Value: "rules_text"}),
		},
		{
			name:  "valid with underscores",
			input: "core:origin:copiable_effect",
			want:  core.MustNewRef(core.RefInput{Module: "core", Type: "origin", Value: "copiable_effect"}),
		},
		{
			name:  "valid with dashes",
			input: "third-party:keyword-ability:first-strike",
			want:  core.MustNewRef(core.RefInput{Module: "third-party", Type: "keyword-ability", Value: "first-strike"}),
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: core.ErrEmptyString,
		},
		{
			name:       "missing parts",
			input:      "core:origin",
			wantErr:    core.ErrTooFewSegments,
			wantErrMsg: "expected 3 segments, got 2",
		},
		{
			name:       "too many parts",
			input:      "core:origin:rules_text:extra",
			wantErr:    core.ErrTooManySegments,
			wantErrMsg: "expected 3 segments, got 4",
		},
		{
			name:       "empty module",
			input:      ":origin:rules_text",
			wantErr:    core.ErrEmptyComponent,
			wantErrMsg: "module",
		},
		{
			name:       "empty type",
			input:      "core::rules_text",
			wantErr:    core.ErrEmptyComponent,
			wantErrMsg: "type",
		},
		{
			name:       "empty value",
			input:      "core:origin:",
			wantErr:    core.ErrEmptyComponent,
			wantErrMsg: "value",
		},
		{
			name:       "invalid characters - spaces",
			input:      "core:origin:rules text",
			wantErr:    core.ErrInvalidCharacters,
			wantErrMsg: "invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.ParseString(tt.input)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantErrMsg != "" {
					assert.Contains(t, err.Error(), tt.wantErrMsg)
				}

				var parseErr *core.ParseError
				if errors.As(err, &parseErr) {
					assert.Equal(t, tt.input, parseErr.Input)
				}
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, got.Equals(tt.want), "parsed Ref should equal expected")
		})
	}
}
