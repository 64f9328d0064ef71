package cosmos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name      string
		database  string
		container string
		wantErr   bool
	}{
		{name: "valid", database: "orders", container: "open"},
		{name: "missing database", database: "", container: "open", wantErr: true},
		{name: "missing container", database: "orders", container: "", wantErr: true},
		{name: "blank database", database: "  ", container: "open", wantErr: true},
		{name: "slash in container", database: "orders", container: "open/closed", wantErr: true},
		{name: "question mark in database", database: "ord?ers", container: "open", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainer(tt.database, tt.container)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				assert.True(t, c.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.database, c.Database())
			assert.Equal(t, tt.container, c.Name())
			assert.False(t, c.IsZero())
		})
	}
}

func TestContainer_Paths(t *testing.T) {
	c := MustNewContainer("orders", "open")

	assert.Equal(t, "dbs/orders/colls/open", c.Path())
	assert.Equal(t, "dbs/orders/colls/open/docs", c.DocumentsPath())
	assert.Equal(t, "dbs/orders/colls/open/docs/o-1", c.DocumentPath("o-1"))
	assert.Equal(t, c.Path(), c.String())
}

func TestContainer_IsValue(t *testing.T) {
	a := MustNewContainer("orders", "open")
	b := a
	assert.Equal(t, a, b)

	var zero Container
	assert.True(t, zero.IsZero())

	assert.Panics(t, func() { MustNewContainer("", "open") })
}
