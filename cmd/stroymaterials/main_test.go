package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fekuna/stroymaterials/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	db     string
	export string
}

func newEnv(t *testing.T) *env {
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("EXPORT_DIR", filepath.Join(dir, "exports"))
	t.Setenv("LOGGER_LEVEL", "error")
	t.Setenv("STROY_USERNAME", "")
	t.Setenv("STROY_PASSWORD", "")
	return &env{db: filepath.Join(dir, "app.db"), export: filepath.Join(dir, "exports")}
}

func (e *env) run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"-db", e.db}, args...), strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func (e *env) admin(args ...string) (int, string, string) {
	return e.run(append([]string{"-user", "admin", "-password", "1234"}, args...)...)
}

func TestBootstrapAndSeed(t *testing.T) {
	e := newEnv(t)

	code, out, errOut := e.run("seed")
	require.Equal(t, cli.ExitOK, code, errOut)
	assert.Contains(t, out, "demo data loaded")

	code, _, _ = e.run("seed")
	assert.Equal(t, cli.ExitDenied, code, "reseeding needs an admin once accounts exist")

	code, out, errOut = e.admin("stats")
	require.Equal(t, cli.ExitOK, code, errOut)
	assert.Regexp(t, `Материалов\s+10`, out)
	assert.Regexp(t, `Поставщиков\s+5`, out)
	assert.Regexp(t, `Поставок\s+8`, out)
	assert.Regexp(t, `Стоимость запасов\s+1571000`, out)
}

func TestLoginAndRoles(t *testing.T) {
	e := newEnv(t)
	code, _, errOut := e.run("init-users")
	require.Equal(t, cli.ExitOK, code, errOut)

	code, out, _ := e.run("-user", "guest", "-password", "guest123", "login")
	assert.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "guest (гость)")

	code, _, errOut = e.run("-user", "admin", "-password", "wrong", "login")
	assert.Equal(t, cli.ExitDenied, code)
	assert.Contains(t, errOut, "invalid username or password")

	code, _, _ = e.run("materials", "list")
	assert.Equal(t, cli.ExitDenied, code, "listing requires a signed in user")

	code, _, _ = e.run("-user", "guest", "-password", "guest123",
		"suppliers", "create", "-name", "ООО Альфа")
	assert.Equal(t, cli.ExitDenied, code)

	code, out, errOut = e.admin("suppliers", "create", "-name", "ООО Альфа")
	require.Equal(t, cli.ExitOK, code, errOut)
	assert.Contains(t, out, "created supplier 1")
}

func TestExitCodes(t *testing.T) {
	e := newEnv(t)
	code, _, errOut := e.run("init-users")
	require.Equal(t, cli.ExitOK, code, errOut)

	code, _, _ = e.run("bogus")
	assert.Equal(t, cli.ExitUsage, code)

	code, _, _ = e.admin("materials", "delete", "42")
	assert.Equal(t, cli.ExitNotFound, code)

	code, _, _ = e.admin("suppliers", "create", "-name", "")
	assert.Equal(t, cli.ExitValidation, code)

	code, _, _ = e.admin("users", "create", "-name", "guest", "-password", "x")
	assert.Equal(t, cli.ExitConflict, code)
}

func TestExportAndBackup(t *testing.T) {
	e := newEnv(t)
	code, _, errOut := e.run("seed")
	require.Equal(t, cli.ExitOK, code, errOut)

	code, out, errOut := e.admin("export")
	require.Equal(t, cli.ExitOK, code, errOut)
	path := strings.TrimSpace(out)
	assert.Equal(t, e.export, filepath.Dir(path))
	assert.Regexp(t, `stroymaterials_export_\d{8}_\d{6}\.csv$`, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8, strings.Count(string(data), "\nПоставка,"))

	code, out, errOut = e.admin("export", "-format", "xlsx")
	require.Equal(t, cli.ExitOK, code, errOut)
	assert.FileExists(t, strings.TrimSpace(out))

	code, _, _ = e.run("-user", "guest", "-password", "guest123", "backup")
	assert.Equal(t, cli.ExitDenied, code)

	code, out, errOut = e.admin("backup")
	require.Equal(t, cli.ExitOK, code, errOut)
	assert.Regexp(t, `stroymaterials_backup_\d{8}_\d{6}\.db$`, strings.TrimSpace(out))
	assert.FileExists(t, strings.TrimSpace(out))
}
