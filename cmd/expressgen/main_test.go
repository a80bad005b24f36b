package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-format", "text"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	_, err := runCmd(t, "init", dir,
		"--db", "mongodb://localhost:27017/blog",
		"--port", "2308",
		"--model", "posts:title=String,views=Number",
		"--model", "comments:body=String",
	)
	require.NoError(t, err)

	server, err := os.ReadFile(filepath.Join(dir, "server.js"))
	require.NoError(t, err)
	assert.Contains(t, string(server), "app.use('/comments', commentsRoute);")
	assert.Contains(t, string(server), "const PORT = process.env.PORT || 2308;")

	manifest, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `"name": "`+filepath.Base(dir)+`"`)

	for _, p := range []string{"api/models/postsModel.js", "api/controllers/commentsController.js", "api/routes/homeRoute.js"} {
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(p)))
	}
}

func TestInitCmdFromConfigAndGoModels(t *testing.T) {
	dir := t.TempDir()
	models := filepath.Join(dir, "models")
	require.NoError(t, os.Mkdir(models, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(models, "tag.go"), []byte("package models\n\ntype Tag struct {\n\tLabel string\n}\n"), 0o644))

	out := filepath.Join(dir, "out")
	_, err := runCmd(t, "init", out,
		"-c", filepath.Join("..", "..", "internal", "testdata", "demo.yaml"),
		"--models-dir", models,
		"--name", "blog",
	)
	require.NoError(t, err)

	server, err := os.ReadFile(filepath.Join(out, "server.js"))
	require.NoError(t, err)
	assert.Contains(t, string(server), "app.use('/posts', postsRoute);\napp.use('/comments', commentsRoute);\napp.use('/tags', tagsRoute);\n")
	assert.FileExists(t, filepath.Join(out, "api", "models", "tagsModel.js"))

	manifest, err := os.ReadFile(filepath.Join(out, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `"name": "blog"`)
}

func TestInitCmdRejectsInvalidProject(t *testing.T) {
	_, err := runCmd(t, "init", t.TempDir(), "--db", "mongodb://localhost/x", "--model", "bad-name:title=String")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestPlanCmd(t *testing.T) {
	dir := t.TempDir()
	out, err := runCmd(t, "plan", dir, "--db", "mongodb://localhost/blog", "--model", "posts:title=String")
	require.NoError(t, err)

	for _, want := range []string{"package.json", "server.js", "api/routes/postsRoute.js", "created"} {
		assert.Contains(t, out, want)
	}
	assert.NoFileExists(t, filepath.Join(dir, "package.json"))
	assert.Equal(t, 6, strings.Count(out, "created"))
}

func TestDoctorCmd(t *testing.T) {
	_, err := runCmd(t, "doctor", "--db", "mongodb://user:pw@localhost:27017/blog")
	require.NoError(t, err)

	_, err = runCmd(t, "doctor", "--db", "http://localhost")
	require.Error(t, err)

	_, err = runCmd(t, "doctor")
	require.Error(t, err)
}

func TestUnknownLogFormat(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--log-format", "xml", "version"})
	cmd.SetOut(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
}

func TestInitCmdFromGormStyleModels(t *testing.T) {
	dir := t.TempDir()
	models := filepath.Join(dir, "models")
	require.NoError(t, os.Mkdir(models, 0o755))
	src := "package models\n\nimport \"time\"\n\ntype Post struct {\n\tID        uint\n\tTitle     string\n\tCreatedAt time.Time\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(models, "post.go"), []byte(src), 0o644))

	out := filepath.Join(dir, "out")
	_, err := runCmd(t, "init", out, "--db", "mongodb://localhost/blog", "--models-dir", models)
	require.NoError(t, err)

	model, err := os.ReadFile(filepath.Join(out, "api", "models", "postsModel.js"))
	require.NoError(t, err)
	assert.Contains(t, string(model), "  title: {\n    type: String,")
	assert.Equal(t, 1, strings.Count(string(model), "createdAt:"))
}

func TestRootCmdsDoNotShareFlags(t *testing.T) {
	var out bytes.Buffer
	first := newRootCmd()
	first.SetArgs([]string{"version"})
	first.SetOut(&out)

	second := newRootCmd()
	second.SetArgs([]string{"--log-format", "xml", "version"})
	second.SetOut(&bytes.Buffer{})
	require.Error(t, second.Execute())

	require.NoError(t, first.Execute())
	assert.Equal(t, version+"\n", out.String())
}
