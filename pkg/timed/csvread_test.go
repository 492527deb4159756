package timed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []Row
		wantErr bool
	}{
		{"header only", "function,duration_ms\n", nil, false},
		{"rows", "function,duration_ms\nf,12.345\ng,0.001\n", []Row{{"f", 12.345}, {"g", 0.001}}, false},
		{"quoted name", "function,duration_ms\n\"a,b\",1.000\n", []Row{{"a,b", 1}}, false},
		{"empty", "", nil, true},
		{"wrong header", "name,ms\nf,1\n", nil, true},
		{"extra field", "function,duration_ms\nf,1,2\n", nil, true},
		{"missing field", "function,duration_ms\nf\n", nil, true},
		{"not a number", "function,duration_ms\nf,fast\n", nil, true},
		{"negative", "function,duration_ms\nf,-1\n", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadCSV(strings.NewReader(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}
