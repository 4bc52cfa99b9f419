package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int
		want  Pagination
	}{
		{"exact division", 1, 10, 30, Pagination{Page: 1, Limit: 10, Total: 30, Pages: 3}},
		{"partial last page", 2, 10, 31, Pagination{Page: 2, Limit: 10, Total: 31, Pages: 4}},
		{"empty result", 1, 10, 0, Pagination{Page: 1, Limit: 10, Total: 0, Pages: 0}},
		{"zero page defaults", 0, 0, 5, Pagination{Page: 1, Limit: 10, Total: 5, Pages: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.want, *got)
		})
	}
}
