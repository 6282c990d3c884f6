package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func searchContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestSearchTerm(t *testing.T) {
	cases := []struct {
		target string
		want   string
	}{
		{"/api/v1/users/search?query=smith", "smith"},
		{"/api/v1/users/search?q=smith", "smith"},
		{"/api/v1/users/search?query=smith&q=jones", "smith"},
		{"/api/v1/users/search?query=%20%20smith%20", "smith"},
		{"/api/v1/users/search", ""},
	}
	for _, tc := range cases {
		if got := searchTerm(searchContext(t, tc.target)); got != tc.want {
			t.Errorf("searchTerm(%q) = %q, want %q", tc.target, got, tc.want)
		}
	}
}
