package completion

import (
	"fmt"
	"strings"
)

// Script returns the completion script for shell.
func Script(shell string) (string, error) {
	flags, commands := GetFlags(), GetCommands()
	switch shell {
	case "bash":
		return bashScript(flags, commands), nil
	case "zsh":
		return zshScript(flags, commands), nil
	case "fish":
		return fishScript(flags, commands), nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (supported: %s)", shell, strings.Join(Shells, ", "))
	}
}

func bashScript(flags []FlagInfo, commands []CommandInfo) string {
	var words []string
	for _, c := range commands {
		words = append(words, c.Name)
	}
	for _, f := range flags {
		words = append(words, "--"+f.Name)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}

	var b strings.Builder
	b.WriteString("# bash completion for codemedic\n")
	b.WriteString("_codemedic() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    case \"$prev\" in\n")
	for _, f := range flags {
		if len(f.Values) == 0 {
			continue
		}
		names := "--" + f.Name
		if f.Short != "" {
			names += "|-" + f.Short
		}
		fmt.Fprintf(&b, "        %s)\n", names)
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(f.Values, " "))
		b.WriteString("            return ;;\n")
	}
	b.WriteString("        completion)\n")
	fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(Shells, " "))
	b.WriteString("            return ;;\n")
	b.WriteString("        --config-file|--debug-log)\n")
	b.WriteString("            COMPREPLY=($(compgen -f -- \"$cur\"))\n")
	b.WriteString("            return ;;\n")
	b.WriteString("    esac\n")
	fmt.Fprintf(&b, "    COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -f -X '!*.zip' -- \"$cur\"))\n", strings.Join(words, " "))
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _codemedic codemedic\n")
	return b.String()
}

func zshScript(flags []FlagInfo, commands []CommandInfo) string {
	var b strings.Builder
	b.WriteString("#compdef codemedic\n\n")
	b.WriteString("_codemedic() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Description))
	}
	b.WriteString("    )\n")
	b.WriteString("    _arguments -s \\\n")
	for _, f := range flags {
		spec := "--" + f.Name
		if f.Short != "" {
			spec = "{-" + f.Short + ",--" + f.Name + "}"
		}
		desc := zshEscape(f.Description)
		switch {
		case len(f.Values) > 0:
			fmt.Fprintf(&b, "        %s'[%s]:%s:(%s)' \\\n", spec, desc, strings.ToLower(f.ValueHint), strings.Join(f.Values, " "))
		case f.ValueHint == "PATH":
			fmt.Fprintf(&b, "        %s'[%s]:%s:_files' \\\n", spec, desc, strings.ToLower(f.ValueHint))
		case f.HasValue:
			fmt.Fprintf(&b, "        %s'[%s]:%s:' \\\n", spec, desc, strings.ToLower(f.ValueHint))
		default:
			fmt.Fprintf(&b, "        %s'[%s]' \\\n", spec, desc)
		}
	}
	b.WriteString("        '1: :->first' \\\n")
	b.WriteString("        '*:: :_files -g \"*.zip\"'\n")
	b.WriteString("    case $state in\n")
	b.WriteString("        first)\n")
	b.WriteString("            _describe 'command' commands\n")
	b.WriteString("            _files -g '*.zip'\n")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _codemedic codemedic\n")
	return b.String()
}

func fishScript(flags []FlagInfo, commands []CommandInfo) string {
	var b strings.Builder
	b.WriteString("# fish completion for codemedic\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "complete -c codemedic -n '__fish_use_subcommand' -a %s -d %q\n", c.Name, c.Description)
	}
	fmt.Fprintf(&b, "complete -c codemedic -n '__fish_seen_subcommand_from completion' -a %q\n", strings.Join(Shells, " "))
	for _, f := range flags {
		line := "complete -c codemedic -l " + f.Name
		if f.Short != "" {
			line += " -s " + f.Short
		}
		if f.HasValue {
			line += " -r"
		}
		if len(f.Values) > 0 {
			line += fmt.Sprintf(" -a %q", strings.Join(f.Values, " "))
		}
		line += fmt.Sprintf(" -d %q", f.Description)
		b.WriteString(line + "\n")
	}
	return b.String()
}

func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	s = strings.ReplaceAll(s, "[", "\\[")
	return strings.ReplaceAll(s, "]", "\\]")
}
