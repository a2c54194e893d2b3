package service

import (
	"context"
	"testing"

	"gaportal/internal/model"
	"gaportal/internal/resource"
	"gaportal/internal/view"

	"github.com/stretchr/testify/require"
)

func TestAssetListLinksProofs(t *testing.T) {
	b := newStubBackend(t, map[string]string{
		"GET /assets/mine": `[
			{"id":1,"asset_code":"AST-1","category":"IT Equipment","status":"received","receipt_proof":"proofs/a.jpg"},
			{"id":2,"asset_code":"AST-2","category":"Pantry","status":"not_received"}
		]`,
	})
	s := NewAssetService(newTestAudit())

	list := s.List(context.Background(), b.actor(model.RoleUser), resource.Filter{})
	require.Len(t, list.Rows, 2)
	require.Equal(t, []view.FileLink{{Field: "receipt_proof", Path: "proofs/a.jpg", URL: b.URL + "/storage/proofs/a.jpg"}}, list.Rows[0].Files)
	require.Equal(t, view.Badge{Label: "IT Equipment", Color: "blue", Icon: "monitor"}, *list.Rows[0].Category)

	require.Empty(t, list.Rows[1].Files)
	require.Equal(t, "Pantry", list.Rows[1].Category.Label)
	require.Equal(t, AssetSummary{Pending: 1, Received: 1}, list.Summary)
}
