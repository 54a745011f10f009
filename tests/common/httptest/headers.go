//go:build unit || integration

package httptest

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		assert.Equal(t, v, w.Header().Get(k), "header %s mismatch", k)
	}
}

// AssertHeaderListContains checks a comma separated header such as
// Access-Control-Expose-Headers, ignoring case and spacing.
func AssertHeaderListContains(t *testing.T, w *httptest.ResponseRecorder, header string, values ...string) {
	t.Helper()
	var got []string
	for _, line := range w.Header().Values(header) {
		for _, v := range strings.Split(line, ",") {
			got = append(got, strings.ToLower(strings.TrimSpace(v)))
		}
	}
	for _, v := range values {
		assert.Contains(t, got, strings.ToLower(v), "%s missing %q", header, v)
	}
}
