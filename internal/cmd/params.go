package cmd

import (
	"fmt"
	"strings"
)

// installArgs is the result of parsing an install invocation by hand.
// Install commands accept arbitrary --param-name value pairs for manifest
// inputs, so flag parsing cannot be left to the flag package.
type installArgs struct {
	positionals []string
	params      map[string]string
	installType string
	force       bool
	yes         bool
	global      bool
	help        bool
}

// parseInstallArgs splits raw arguments into positionals, the fixed install
// flags, and free-form input parameters. Parameter names use dashes on the
// command line and map to underscore-separated manifest input names.
func parseInstallArgs(args []string) (*installArgs, error) {
	parsed := &installArgs{params: make(map[string]string)}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "-h" || arg == "--help" {
			parsed.help = true
			continue
		}
		if !strings.HasPrefix(arg, "--") {
			parsed.positionals = append(parsed.positionals, arg)
			continue
		}

		name := strings.TrimPrefix(arg, "--")
		value := ""
		hasValue := false
		if eq := strings.Index(name, "="); eq >= 0 {
			name, value = name[:eq], name[eq+1:]
			hasValue = true
		}

		switch name {
		case "force":
			parsed.force = true
		case "yes":
			parsed.yes = true
		case "global-install":
			parsed.global = true
		case "install-type":
			if !hasValue {
				if i+1 >= len(args) {
					return nil, fmt.Errorf("flag --install-type needs a value")
				}
				i++
				value = args[i]
			}
			parsed.installType = value
		default:
			if !hasValue {
				if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
					return nil, fmt.Errorf("parameter --%s needs a value", name)
				}
				i++
				value = args[i]
			}
			parsed.params[strings.ReplaceAll(name, "-", "_")] = value
		}
	}

	return parsed, nil
}
