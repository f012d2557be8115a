package completion

import (
	"testing"

	"github.com/chmouel/codemedic/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFlagsThemeValues(t *testing.T) {
	var themeFlag *FlagInfo
	for _, f := range GetFlags() {
		if f.Name == "theme" {
			themeFlag = &f
		}
	}
	require.NotNil(t, themeFlag)
	assert.Equal(t, theme.AvailableThemes(), themeFlag.Values)
}

func TestScriptPerShell(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{shell: "bash", want: []string{"complete -o filenames -F _codemedic codemedic", "--config-file", "languages", "dracula"}},
		{shell: "zsh", want: []string{"#compdef codemedic", "{-C,--config}", "'stats:Print project statistics'"}},
		{shell: "fish", want: []string{"complete -c codemedic -l no-icons", "-a tree", "-l theme -s t -r"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			script, err := Script(tt.shell)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, script, want)
			}
		})
	}
}

func TestScriptUnsupportedShell(t *testing.T) {
	_, err := Script("tcsh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported shell: tcsh")
}
