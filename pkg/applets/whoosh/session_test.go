package whoosh

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcarmo/go-whoosh/pkg/core"
	"github.com/rcarmo/go-whoosh/pkg/testutil"
)

// newTestSession builds a session rooted at dir without touching the
// process working directory.
func newTestSession(t *testing.T, dir string) (*Session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	stdio, out, errBuf := testutil.CaptureStdio("")
	s := &Session{
		Stdio:  stdio,
		Dir:    dir,
		Home:   dir,
		Path:   "",
		ID:     "test",
		config: DefaultConfig(),
	}
	s.logger = newDiscardLogger()
	return s, out, errBuf
}

func TestEnvironReplacesPathAndPwd(t *testing.T) {
	s, _, _ := newTestSession(t, "/work")
	s.env = []string{"HOME=/home/u", "PATH=/usr/bin", "PWD=/old", "LANG=C"}
	s.Path = "/opt/bin"

	env := s.Environ()
	assert.Contains(t, env, "HOME=/home/u")
	assert.Contains(t, env, "LANG=C")
	assert.Contains(t, env, "PATH=/opt/bin")
	assert.Contains(t, env, "PWD=/work")
	assert.NotContains(t, env, "PATH=/usr/bin")
	assert.NotContains(t, env, "PWD=/old")
}

func TestLookPath(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, map[string]string{"bin/plain": "data"})
	tool := filepath.Join(dir, "bin", "tool")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0755))

	s, _, _ := newTestSession(t, dir)
	s.Path = strings.Join([]string{filepath.Join(dir, "missing"), "bin"}, string(filepath.ListSeparator))

	got, err := s.lookPath("tool")
	require.NoError(t, err)
	assert.Equal(t, tool, got)

	_, err = s.lookPath("plain")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = s.lookPath("bin/tool")
	require.NoError(t, err)
	assert.Equal(t, tool, got)

	_, err = s.lookPath("nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChdir(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, map[string]string{"sub/": "", "file": "x"})
	s, _, _ := newTestSession(t, dir)

	require.NoError(t, s.chdir("sub"))
	assert.Equal(t, filepath.Join(dir, "sub"), s.Dir)

	assert.Error(t, s.chdir("../file"))
	assert.Error(t, s.chdir(""))
	assert.Equal(t, filepath.Join(dir, "sub"), s.Dir)

	require.NoError(t, s.chdir(dir))
	assert.Equal(t, dir, s.Dir)
}

func TestChdirResolvesSymlinks(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, map[string]string{"real/": ""})
	require.NoError(t, os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "link")))
	s, _, _ := newTestSession(t, dir)

	require.NoError(t, s.chdir("link"))
	assert.Equal(t, filepath.Join(dir, "real"), s.Dir)
}

func TestPwdFailsWhenDirectoryRemoved(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, map[string]string{"gone/": ""})
	s, out, _ := newTestSession(t, filepath.Join(dir, "gone"))
	require.NoError(t, os.Remove(s.Dir))

	err := runPwd(s, &Command{Args: []string{"pwd"}})
	assert.True(t, IsFatal(err))
	assert.Empty(t, out.String())
}

func TestPathAppends(t *testing.T) {
	s, _, _ := newTestSession(t, "/")
	s.Path = "/usr/bin"

	require.NoError(t, runPath(s, &Command{Args: []string{"path", "/a", "/b"}}))
	assert.Equal(t, "/usr/bin:/a:/b", s.Path)

	s.Path = ""
	require.NoError(t, runPath(s, &Command{Args: []string{"path", "/c"}}))
	assert.Equal(t, "/c", s.Path)

	err := runPath(s, &Command{Args: []string{"path"}})
	assert.True(t, IsFatal(err))
	assert.ErrorIs(t, err, ErrUsage)
}

func TestExit(t *testing.T) {
	s, _, _ := newTestSession(t, "/")
	assert.ErrorIs(t, runExit(s, &Command{Args: []string{"exit"}}), ErrExit)

	err := runExit(s, &Command{Args: []string{"exit", "0"}})
	assert.True(t, IsFatal(err))
	assert.NotErrorIs(t, err, ErrExit)
}

func TestRedirectRestores(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, nil)
	s, out, errBuf := newTestSession(t, dir)
	origOut, origErr := s.Stdio.Out, s.Stdio.Err

	restore, err := s.redirect("log")
	require.NoError(t, err)
	s.Stdio.Printf("to file\n")
	s.Stdio.Errorf("err file\n")
	restore()
	restore()

	assert.Same(t, origOut, s.Stdio.Out)
	assert.Same(t, origErr, s.Stdio.Err)
	assert.Empty(t, out.String())
	assert.Empty(t, errBuf.String())
	testutil.AssertFileContent(t, filepath.Join(dir, "log.out"), "to file\n")
	testutil.AssertFileContent(t, filepath.Join(dir, "log.err"), "err file\n")
}

func TestRedirectOpenFailureLeavesStdio(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, map[string]string{"t.err/": ""})
	s, _, _ := newTestSession(t, dir)
	origOut := s.Stdio.Out

	restore, err := s.redirect("t")
	assert.ErrorIs(t, err, ErrRedirect)
	assert.Nil(t, restore)
	assert.Same(t, origOut, s.Stdio.Out)
}

func TestDispatchRestoresAfterFatal(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, nil)
	s, out, _ := newTestSession(t, dir)

	err := s.dispatch(&Command{Args: []string{"exit", "now"}, Target: "x", Redirect: true})
	assert.True(t, IsFatal(err))

	s.Stdio.Printf("after\n")
	assert.Equal(t, "after\n", out.String())
	testutil.AssertFileExists(t, filepath.Join(dir, "x.out"))
}

func TestDispatchRejectsBeforeRedirect(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, nil)
	s, _, _ := newTestSession(t, dir)

	err := s.dispatch(&Command{Args: []string{"cat", "f"}, Target: "x", Redirect: true})
	assert.ErrorIs(t, err, ErrRedirect)
	err = s.dispatch(&Command{Args: []string{"ls", "../up"}, Target: "x", Redirect: true})
	assert.ErrorIs(t, err, ErrRedirect)
	testutil.AssertFileNotExists(t, filepath.Join(dir, "x.out"))
}

func TestExecuteReportsGenericMessage(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, nil)
	s, _, errBuf := newTestSession(t, dir)

	code, done := s.execute("cd a b c")
	assert.False(t, done)
	assert.Equal(t, core.ExitSuccess, code)
	assert.Equal(t, defaultErrorMessage, errBuf.String())

	errBuf.Reset()
	code, done = s.execute("path")
	assert.True(t, done)
	assert.Equal(t, core.ExitFailure, code)
	assert.Equal(t, defaultErrorMessage, errBuf.String())
}

func TestBackgroundOptIn(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slow"), []byte("#!/bin/sh\nsleep 0.2\ntouch done\n"), 0755))

	out, err := os.Create(filepath.Join(dir, "console"))
	require.NoError(t, err)
	defer out.Close()

	s, _, _ := newTestSession(t, dir)
	s.Stdio.Out = out
	s.Stdio.Err = out
	s.Path = dir + string(filepath.ListSeparator) + os.Getenv("PATH")
	s.env = os.Environ()
	s.config.Background = true

	require.NoError(t, s.dispatch(&Command{Args: []string{"slow"}, Background: true}))
	testutil.AssertFileNotExists(t, filepath.Join(dir, "done"))
	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "done"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
}

func TestBackgroundWaitsForBufferedOutput(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slow"), []byte("#!/bin/sh\nsleep 0.1\necho finished\n"), 0755))

	s, out, _ := newTestSession(t, dir)
	s.Path = dir + string(filepath.ListSeparator) + os.Getenv("PATH")
	s.env = os.Environ()
	s.config.Background = true

	require.NoError(t, s.dispatch(&Command{Args: []string{"slow"}, Background: true}))
	assert.Equal(t, "finished\n", out.String())
}

func TestExecFailureIsRecoverable(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk"), []byte("\x7fELFjunk"), 0755))

	s, _, _ := newTestSession(t, dir)
	s.Path = dir

	err := s.dispatch(&Command{Args: []string{"junk"}})
	assert.ErrorIs(t, err, ErrExec)
	assert.False(t, IsFatal(err))
}
