package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDocListsPortalRoutes(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.Contains(t, doc.Paths["/auth/login"], "post")
	require.Contains(t, doc.Paths["/todos/{id}/status"], "patch")
	require.Contains(t, doc.Paths["/admin/visitors/export"], "get")
	require.Contains(t, doc.Paths["/procurement/ws"], "get")
}
