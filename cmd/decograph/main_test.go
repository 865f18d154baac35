package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	defer func() { os.Stdout = old }()

	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() { io.Copy(&buf, r); close(done) }()

	err := fn()
	w.Close()
	<-done
	return buf.String(), err
}

func writeSchemaFile(t *testing.T, sdl string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "schema.graphql")
	require.NoError(t, os.WriteFile(file, []byte(sdl), 0644))
	return file
}

func TestHelp(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return run([]string{"help", "render"})
	})
	require.NoError(t, err)
	require.Contains(t, out, "render FLAGS")
}

func TestValidate(t *testing.T) {
	file := writeSchemaFile(t, `
		type Query { hello: String }
	`)
	out, err := captureStdout(t, func() error {
		return run([]string{"validate", "-schema", file})
	})
	require.NoError(t, err)
	require.Contains(t, out, "query root Query")
}

func TestValidateRejectsMissingQueryRoot(t *testing.T) {
	file := writeSchemaFile(t, `
		type Book { title: String }
	`)
	_, err := captureStdout(t, func() error {
		return run([]string{"validate", "-schema", file})
	})
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	file := writeSchemaFile(t, `
		type Query { book: Book }
		type Book { title: String @async }
	`)
	out, err := captureStdout(t, func() error {
		return run([]string{"render", "-schema", file})
	})
	require.NoError(t, err)
	require.Contains(t, out, "type Query")
	require.Contains(t, out, "title: String @async")
}

func TestUnknownCommand(t *testing.T) {
	require.Error(t, run([]string{"frobnicate"}))
}
