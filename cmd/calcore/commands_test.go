package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testdataPath(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	require.NoError(t, w.Close())
	os.Stdout = old
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestTokensCommandJSON(t *testing.T) {
	out := captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"tokens", "--format=json", testdataPath("codeunit_sample.cal")})
		require.NoError(t, root.Execute())
	})

	var toks []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &toks))
	assert.NotEmpty(t, toks)
}

func TestTokensCommandText(t *testing.T) {
	out := captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"tokens", testdataPath("codeunit_sample.cal")})
		require.NoError(t, root.Execute())
	})
	assert.Contains(t, out, "OBJECT")
}

func TestParseCommandTextOutput(t *testing.T) {
	out := captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"parse", testdataPath("table_customer.cal")})
		require.NoError(t, root.Execute())
	})
	assert.Contains(t, out, "Customer")
}

func TestSymbolsCommandPrintsScopeTree(t *testing.T) {
	out := captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"symbols", testdataPath("table_customer.cal")})
		require.NoError(t, root.Execute())
	})
	assert.Contains(t, out, "CustSetup")
	assert.Contains(t, out, "global variable")
}

func TestCheckCommandCleanFileSucceeds(t *testing.T) {
	var execErr error
	out := captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"check", testdataPath("table_customer.cal")})
		execErr = root.Execute()
	})
	require.NoError(t, execErr)
	_ = out
}

func TestTokensCommandMissingFileReturnsError(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"tokens", testdataPath("does-not-exist.cal")})
	err := root.Execute()
	assert.Error(t, err)
}
