package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c4-modeller/engine/internal/store"
)

func TestNewServerRegistersTools(t *testing.T) {
	var s *Server
	assert.NotPanics(t, func() { s = NewServer(store.New(), nil) })
	assert.NotNil(t, s.MCPServer())
	assert.NotNil(t, s.HTTPHandler())
}
