package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/smolbox"
	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *smolbox.Engine) {
	t.Helper()
	engine, err := smolbox.New(smolbox.WithRoot(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	return NewServer(engine), engine
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	content, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return content.Text
}

func TestServer_SetAndGetKey(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleSetKey(ctx, call(map[string]any{"key": "model_path", "value": "/m/base"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleGetKey(ctx, call(map[string]any{"key": "model_path"}))
	require.NoError(t, err)
	assert.Equal(t, `"/m/base"`, text(t, res))

	res, err = s.handleGetKey(ctx, call(map[string]any{"key": "dataset_path"}))
	require.NoError(t, err)
	assert.Equal(t, "null", text(t, res))
}

func TestServer_InvalidKeyIsToolError(t *testing.T) {
	s, engine := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleSetKey(ctx, call(map[string]any{"key": "bogus", "value": "/x"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "invalid key name")

	rec, err := engine.Current(ctx)
	require.NoError(t, err)
	_, ok := rec["bogus"]
	assert.False(t, ok)
}

func TestServer_ResolveKey(t *testing.T) {
	s, engine := newTestServer(t)
	ctx := context.Background()

	t.Run("Unresolved read", func(t *testing.T) {
		res, err := s.handleResolve(ctx, call(map[string]any{"key": "dataset_path"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, text(t, res), "could not resolve key")
	})

	t.Run("Allocate on write", func(t *testing.T) {
		res, err := s.handleResolve(ctx, call(map[string]any{"key": "output_model_path", "write": true}))
		require.NoError(t, err)
		require.False(t, res.IsError)
		path := text(t, res)
		assert.DirExists(t, path)

		got, err := engine.Get(ctx, domain.KeyOutputModelPath)
		require.NoError(t, err)
		assert.Equal(t, path, got.Value)
	})

	t.Run("Explicit value", func(t *testing.T) {
		res, err := s.handleResolve(ctx, call(map[string]any{"key": "dataset_path", "value": "/data/raw"}))
		require.NoError(t, err)
		assert.Equal(t, "/data/raw", text(t, res))
	})
}

func TestServer_AdvanceAndState(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleSetKey(ctx, call(map[string]any{"key": "output_dataset_path", "value": "/data/clean"}))
	require.NoError(t, err)

	res, err := s.handleAdvance(ctx, call(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var rec domain.Record
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &rec))
	assert.Equal(t, "/data/clean", rec["dataset_path"])
	assert.Nil(t, rec["output_dataset_path"])

	res, err = s.handleGetState(ctx, call(nil))
	require.NoError(t, err)
	var current domain.Record
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &current))
	assert.Equal(t, "/data/clean", current["dataset_path"])
}

func TestServer_ListModels(t *testing.T) {
	s, engine := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleListModels(ctx, call(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", text(t, res))

	require.NoError(t, os.MkdirAll(filepath.Join(engine.Root(), "models", "base"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(engine.Root(), "models", ".cache"), 0755))

	res, err = s.handleListModels(ctx, call(nil))
	require.NoError(t, err)
	var models []string
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &models))
	assert.Equal(t, []string{"base"}, models)
}
