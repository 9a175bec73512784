package plugins

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newInitializedManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(zap.NewNop())
	require.NoError(t, m.Initialize())
	return m
}

func TestManager_InitializeRegistersBuiltins(t *testing.T) {
	m := newInitializedManager(t)

	assert.ElementsMatch(t,
		[]string{"javascript", "typescript", "python", "java", "go"},
		m.GetSupportedLanguages())
	assert.Contains(t, m.GetSupportedExtensions(), ".py")
	assert.Len(t, m.GetAllPlugins(), 5)
}

func TestManager_InitializeIsIdempotent(t *testing.T) {
	m := newInitializedManager(t)
	require.NoError(t, m.Initialize())
	assert.Len(t, m.GetAllPlugins(), 5)
}

func TestManager_UnregisterPlugin(t *testing.T) {
	m := newInitializedManager(t)

	assert.True(t, m.UnregisterPlugin("java"))
	_, ok := m.GetPlugin("java")
	assert.False(t, ok)
	_, ok = m.GetPluginByExtension(".java")
	assert.False(t, ok)

	assert.False(t, m.UnregisterPlugin("java"))
}

func TestManager_DetectLanguage_ByExtension(t *testing.T) {
	m := newInitializedManager(t)

	assert.Equal(t, "python", m.DetectLanguage("foo.py", ""))
	assert.Equal(t, "typescript", m.DetectLanguage("src/app.TS", ""))
}

func TestManager_DetectLanguage_ByContent(t *testing.T) {
	m := newInitializedManager(t)

	assert.Equal(t, "python", m.DetectLanguage("foo.txt", "def foo():\n    pass"))
	assert.Equal(t, "go", m.DetectLanguage("foo.txt", "package main\n\nimport (\n\t\"fmt\"\n)\n\nfunc main() {}\n"))
}

func TestManager_DetectLanguage_Shebang(t *testing.T) {
	m := newInitializedManager(t)

	assert.Equal(t, "python", m.DetectLanguage("script", "#!/usr/bin/env python\nprint('hi')"))
	assert.Equal(t, "javascript", m.DetectLanguage("script", "#!/usr/bin/env node\nconsole.log('hi')"))
}

func TestManager_DetectLanguage_Unknown(t *testing.T) {
	m := newInitializedManager(t)

	assert.Equal(t, "", m.DetectLanguage("foo.txt", ""))
	assert.Equal(t, "", m.DetectLanguage("foo.txt", "plain prose with no code at all"))
}

func TestManager_ParseCode_UnknownLanguageFails(t *testing.T) {
	m := newInitializedManager(t)

	_, err := m.ParseCode("cobol", "DISPLAY 'HELLO'.")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPluginNotFound))
}

func TestManager_GenerateCode_MissingCapabilityFails(t *testing.T) {
	m := newInitializedManager(t)

	// Java ships without a generator.
	_, err := m.GenerateCode("java", "make a thing")
	assert.True(t, errors.Is(err, ErrPluginNotFound))

	code, err := m.GenerateCode("javascript", "make a thing")
	require.NoError(t, err)
	assert.Contains(t, code, "function")
}

func TestManager_LintAndFormatDegradeGracefully(t *testing.T) {
	m := newInitializedManager(t)

	// Java has no linter or formatter; both degrade instead of failing.
	assert.Nil(t, m.LintCode("java", "class A {}"))
	assert.Equal(t, "class A {}", m.FormatCode("java", "class A {}"))

	issues := m.LintCode("javascript", "var x = 1;")
	require.NotEmpty(t, issues)
	assert.Equal(t, "use of var detected", issues[0].Message)

	formatted := m.FormatCode("go", "package main  \n")
	assert.Equal(t, "package main\n", formatted)
}

func TestManager_Shutdown(t *testing.T) {
	m := newInitializedManager(t)

	m.Shutdown()
	assert.Empty(t, m.GetAllPlugins())

	// Shutdown resets the initialized flag, so Initialize works again.
	require.NoError(t, m.Initialize())
	assert.Len(t, m.GetAllPlugins(), 5)
	m.Shutdown()
	m.Shutdown()
}
