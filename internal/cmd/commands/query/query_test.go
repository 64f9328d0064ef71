package query

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/cosmosrest/internal/cmd/base/basetest"
	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"status=open", "@min=10", "note=a=b", "flag=true"})
	require.NoError(t, err)
	assert.Equal(t, []cosmos.QueryParam{
		{Name: "status", Value: "open"},
		{Name: "min", Value: float64(10)},
		{Name: "note", Value: "a=b"},
		{Name: "flag", Value: true},
	}, params)

	_, err = parseParams([]string{"status"})
	assert.Error(t, err)

	_, err = parseParams([]string{"=open"})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	b, ui := basetest.NewCommand(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "true", r.Header.Get("x-ms-documentdb-isquery"))
		assert.Equal(t, "true", r.Header.Get("x-ms-documentdb-query-enablecrosspartition"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{
			"query": "SELECT * FROM o WHERE o.status = @status AND o.total > @min",
			"parameters": [
				{"name": "@status", "value": "open"},
				{"name": "@min", "value": 10}
			]
		}`, string(body))

		_, _ = w.Write([]byte(`{"_rid":"X","Documents":[{"id":"o-1","status":"open","total":12}],"_count":1}`))
	}))
	c := &Command{Command: b}

	code := c.Run(basetest.ContainerArgs(
		"-param", "status=open",
		"-param", "min=10",
		"-cross-partition",
		"SELECT * FROM o WHERE o.status = @status AND o.total > @min",
	))
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.JSONEq(t, `[{"id":"o-1","status":"open","total":12}]`, ui.OutputWriter.String())
}

func TestRun_Validation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "no query",
			args:    basetest.ContainerArgs(),
			wantErr: "exactly one query argument is required",
		},
		{
			name:    "bad param",
			args:    basetest.ContainerArgs("-param", "status", "SELECT 1"),
			wantErr: "invalid param",
		},
		{
			name:    "bad continuation",
			args:    basetest.ContainerArgs("-continuation", "{", "SELECT 1"),
			wantErr: "invalid continuation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ui := basetest.NewCommand(t, http.NotFoundHandler())
			c := &Command{Command: b}

			assert.Equal(t, 1, c.Run(tt.args))
			assert.Contains(t, ui.ErrorWriter.String(), tt.wantErr)
		})
	}
}
