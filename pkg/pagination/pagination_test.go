package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func parseURL(t *testing.T, target string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return Parse(c)
}

func TestParse(t *testing.T) {
	require.Equal(t, Params{Page: 1, Limit: DefaultLimit, Offset: 0}, parseURL(t, "/visitors"))
	require.Equal(t, Params{Page: 3, Limit: 25, Offset: 50}, parseURL(t, "/visitors?page=3&per_page=25"))
	require.Equal(t, Params{Page: 2, Limit: 20, Offset: 20}, parseURL(t, "/audit-logs?page=2&limit=20"))
	require.Equal(t, Params{Page: 1, Limit: MaxLimit, Offset: 0}, parseURL(t, "/visitors?page=-4&per_page=5000"))
	require.Equal(t, Params{Page: 1, Limit: DefaultLimit, Offset: 0}, parseURL(t, "/visitors?page=x&per_page=0"))
}

func TestQuery(t *testing.T) {
	require.Equal(t, "per_page=10&page=2", New(2, 10).Query())
}
