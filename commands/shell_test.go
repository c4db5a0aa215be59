package commands

import (
	"testing"

	"github.com/pegsh/pegsh/core/vos"
	"github.com/pegsh/pegsh/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestRunShell(t *testing.T) {
	cases := goldenTestSuite{
		"echo":             {Args: []string{"sh", "-c", `echo hello`}},
		"quoting-double":   {Args: []string{"sh", "-c", `echo "hello  world"`}},
		"quoting-single":   {Args: []string{"sh", "-c", `echo 'has "quotes" and #hash; safe'`}},
		"quoting-unclosed": {Args: []string{"sh", "-c", `echo "abc`}},

		// Redirects are order independent.
		"write-then-cat":  {Args: []string{"sh", "-c", `echo hello > greeting; cat greeting`}},
		"redirect-in-out": {Args: []string{"sh", "-c", `echo data > f; wc -c < f > count; cat count`}},
		"redirect-out-in": {Args: []string{"sh", "-c", `echo data > f; wc -c > count < f; cat count`}},

		// Pipes
		"pipe":               {Args: []string{"sh", "-c", `echo one two three | wc -w`}},
		"pipe-chain":         {Args: []string{"sh", "-c", `echo abc | cat | cat`}},
		"pipe-then-redirect": {Args: []string{"sh", "-c", `echo alpha beta | wc -w > n; cat n`}},

		// Globs expand against the working directory; a pattern without
		// matches stays literal.
		"glob":          {Args: []string{"sh", "-c", `touch b.txt a.txt; echo *.txt`}},
		"glob-no-match": {Args: []string{"sh", "-c", `echo *.xyz`}},

		// The job tag shows the last stage's PID.
		"background":          {Args: []string{"sh", "-c", `echo done &`}},
		"background-pipeline": {Args: []string{"sh", "-c", `echo hi | cat &`}},

		// Blank lines and comments never produce jobs.
		"comments":     {Args: []string{"sh", "-c", "# header\necho visible # trailing\n# footer"}},
		"semicolons":   {Args: []string{"sh", "-c", `echo a; echo b;;  ; echo c`}},
		"blank-lines":  {Args: []string{"sh", "-c", "\n\n  echo one\n\n\necho two\n\n"}},
		"empty-script": {Args: []string{"sh", "-c", `# nothing here`}},

		// Failures
		"syntax-error":           {Args: []string{"sh", "-c", `echo |`}},
		"background-not-last":    {Args: []string{"sh", "-c", `echo a & echo b`}},
		"command-not-found":      {Args: []string{"sh", "-c", `frobnicate --now`}},
		"redirect-missing-input": {Args: []string{"sh", "-c", `wc < nope`}},

		// Builtins
		"cd-pwd":        {Args: []string{"sh", "-c", `cd /tmp; pwd`}},
		"cd-home":       {Args: []string{"sh", "-c", `cd /tmp; cd; pwd`}},
		"cd-missing":    {Args: []string{"sh", "-c", `cd /no/such/dir`}},
		"cd-too-many":   {Args: []string{"sh", "-c", `cd a b`}},
		"help-builtin":  {Args: []string{"sh", "-c", `help`}},
		"history-empty": {Args: []string{"sh", "-c", `history`}},

		"script-file": {
			Args: []string{"sh", "script.sh"},
			Setup: func(virtOS vos.VOS) error {
				script := "echo from a script\nuname\n"
				return afero.WriteFile(virtOS, "/root/script.sh", []byte(script), 0755)
			},
		},
	}

	cases.RunInSandbox(t, RunShell)
}

func sandboxShell(script string) *vostest.Cmd {
	cmd := vostest.Command(RunShell, "sh", "-c", script)
	cmd.VOS = vostest.NewDeterministicOS(func(path string) vos.ProcessFunc {
		if proc := BuiltinProcessResolver(path); proc != nil {
			return proc
		}
		return RunShell
	})
	return cmd
}

func TestRunShell_exitCodes(t *testing.T) {
	cases := map[string]struct {
		script string
		want   int
	}{
		"clean":             {script: "echo ok", want: 0},
		"syntax-error":      {script: "echo |", want: 2},
		"command-not-found": {script: "frobnicate", want: 127},
		"missing-redirect":  {script: "wc < nope", want: 2},
		"exit-code":         {script: "exit 3", want: 3},
		"exit-wraps":        {script: "exit 300", want: 44},
		"background":        {script: "echo detached &", want: 0},
		"background-no-cmd": {script: "frobnicate &", want: 127},
		"last-job-wins":     {script: "frobnicate; echo ok", want: 0},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cmd := sandboxShell(tc.script)
			assert.NoError(t, SeedVFS(cmd.VOS))

			_, err := cmd.CombinedOutput()

			assert.NoError(t, err)
			assert.Equal(t, tc.want, cmd.ExitStatus)
		})
	}
}

func TestShellInit(t *testing.T) {
	virtOS := vostest.NewDeterministicOS(nil)

	s, err := NewShell(virtOS)
	assert.NoError(t, err)

	pwd, err := virtOS.Getwd()
	assert.NoError(t, err)
	assert.Equal(t, "/root", pwd)

	assert.Equal(t, "/root", virtOS.Getenv(EnvHome))
	assert.Equal(t, "localhost", virtOS.Getenv(EnvHostname))
	assert.Equal(t, "root", virtOS.Getenv(EnvUser))
	assert.Equal(t, "0", virtOS.Getenv(EnvUID))
	assert.Equal(t, DefaultPath, virtOS.Getenv(EnvPath))

	// No PTY means the plain prompt.
	assert.Equal(t, DefaultPrompt, virtOS.Getenv(EnvPrompt))
	assert.Equal(t, "root@localhost:~# ", s.prompt())
}
