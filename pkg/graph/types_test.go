package graph_test

import (
	"encoding/json"
	"testing"

	"github.com/fivetwenty-io/aadgraph/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_Accessors(t *testing.T) {
	t.Parallel()

	var obj graph.Object

	err := json.Unmarshal([]byte(`{
		"objectType": "User",
		"objectId": "8f1e",
		"accountEnabled": true,
		"otherMails": ["a@example.com"],
		"manager": null
	}`), &obj)
	require.NoError(t, err)

	assert.Equal(t, "User", obj.ObjectType())
	assert.Equal(t, "8f1e", obj.ObjectID())
	assert.Equal(t, "true", obj.String("accountEnabled"))
	assert.Equal(t, `["a@example.com"]`, obj.String("otherMails"))
	assert.Empty(t, obj.String("manager"))
	assert.Empty(t, obj.String("missing"))
}

func TestPage_Decode(t *testing.T) {
	t.Parallel()

	var page graph.Page

	err := json.Unmarshal([]byte(`{
		"odata.metadata": "https://graph.windows.net/t/$metadata#directoryObjects",
		"value": [{"objectType": "Group"}, {"objectType": "Role"}],
		"odata.nextLink": "directoryObjects/$/Microsoft.DirectoryServices.User/x/memberOf?$skiptoken=abc"
	}`), &page)
	require.NoError(t, err)

	assert.Len(t, page.Value, 2)
	assert.Equal(t, "Role", page.Value[1].ObjectType())
	assert.True(t, page.HasNext())

	page.NextLink = ""
	assert.False(t, page.HasNext())
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "collection envelope", body: `{"odata.metadata":"m","value":[{"a":1}]}`, expected: `[{"a":1}]`},
		{name: "empty collection", body: `{"value":[]}`, expected: `[]`},
		{name: "single entity", body: `{"objectId":"1"}`, expected: `{"objectId":"1"}`},
		{name: "null value", body: `{"value":null}`, expected: `{"value":null}`},
		{name: "array body", body: `[1,2]`, expected: `[1,2]`},
		{name: "scalar value", body: `{"value":"x"}`, expected: `"x"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.JSONEq(t, tt.expected, string(graph.Unwrap(json.RawMessage(tt.body))))
		})
	}

	t.Run("nil body", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, graph.Unwrap(nil))
	})
}
