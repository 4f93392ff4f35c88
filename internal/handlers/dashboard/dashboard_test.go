package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationTotal(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{`{"total":1200,"page":1}`, 1200, true},
		{`{"totalUsers":7}`, 7, true},
		{`{"totalDocs":3}`, 3, true},
		{`{"page":1}`, 0, false},
		{`[]`, 0, false},
		{``, 0, false},
	}
	for _, tt := range tests {
		got, ok := paginationTotal(json.RawMessage(tt.raw))
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
