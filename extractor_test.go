package datapilot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type extractArgs struct {
	Column string `json:"column"`
	Limit  int    `json:"limit,omitempty"`
}

func TestExtractor_ParseAndValidate(t *testing.T) {
	ext, err := NewExtractor[extractArgs]("cmd", false)
	require.NoError(t, err)

	args, err := ext.ParseAndValidate([]byte(`{"column":"age","limit":5}`))
	require.NoError(t, err)
	assert.Equal(t, extractArgs{Column: "age", Limit: 5}, args)
}

func TestExtractor_ParseAndValidate_SchemaFailure(t *testing.T) {
	ext, err := NewExtractor[extractArgs]("cmd", false)
	require.NoError(t, err)

	_, err = ext.ParseAndValidate([]byte(`{"limit":5}`))
	require.Error(t, err)
	assert.True(t, IsArgumentMismatch(err))
	var ae *ArgumentMismatchError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "cmd", ae.Command)
}

func TestExtractor_ParseAndValidate_BadJSON(t *testing.T) {
	ext, err := NewExtractor[extractArgs]("cmd", false)
	require.NoError(t, err)

	_, err = ext.ParseAndValidate([]byte(`{"column"`))
	require.Error(t, err)
	assert.True(t, IsArgumentMismatch(err))
	assert.Contains(t, err.Error(), "json parse error")
}

func TestExtractor_Schema_CopyIsShallow(t *testing.T) {
	ext, err := NewExtractor[extractArgs]("cmd", false)
	require.NoError(t, err)

	first := ext.Schema()
	first["type"] = "mutated"
	second := ext.Schema()
	assert.Equal(t, "object", second["type"], "top-level mutation must not leak back")
}

// boundedArgs exercises Layer 2 (Validatable) with a value receiver.
type boundedArgs struct {
	Limit int `json:"limit"`
}

func (a boundedArgs) Validate() error {
	if a.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}

func TestExtractor_Layer2Validation(t *testing.T) {
	ext, err := NewExtractor[boundedArgs]("cmd", false)
	require.NoError(t, err)

	_, err = ext.ParseAndValidate([]byte(`{"limit":3}`))
	require.NoError(t, err)

	_, err = ext.ParseAndValidate([]byte(`{"limit":-1}`))
	require.Error(t, err)
	assert.True(t, IsArgumentMismatch(err))
	assert.Contains(t, err.Error(), "limit must not be negative")
}

// pointerArgs exercises Layer 2 with a pointer receiver on a value type.
type pointerArgs struct {
	Name string `json:"name"`
}

func (a *pointerArgs) Validate() error {
	if a.Name == "forbidden" {
		return errors.New("name is forbidden")
	}
	return nil
}

func TestExtractor_Layer2PointerReceiver(t *testing.T) {
	ext, err := NewExtractor[pointerArgs]("cmd", false)
	require.NoError(t, err)

	_, err = ext.ParseAndValidate([]byte(`{"name":"ok"}`))
	require.NoError(t, err)

	_, err = ext.ParseAndValidate([]byte(`{"name":"forbidden"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is forbidden")
}
