// Package flagx lets several configuration sources read their own
// command-line flags out of os.Args without tripping over each other.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs keeps only the flags named in allowedFlags, together with their
// values. Both "-f value" and "-f=value" forms are recognised; a following
// argument that starts with "-" is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// LookupString returns the value of a string flag that may be spelled with
// any of names (given with their leading dash, e.g. "-c", "-config").
// When the flag is repeated the last occurrence wins; when it is absent the
// empty string is returned.
func LookupString(args []string, names ...string) string {
	var value string

	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, strings.TrimLeft(n, "-"), "", "")
	}
	_ = fs.Parse(FilterArgs(args, names))

	return value
}

// ConfigFile returns the JSON configuration path passed via -c or -config.
func ConfigFile() string {
	return LookupString(os.Args[1:], "-c", "-config")
}

// EnvFile returns the dotenv path passed via -env.
func EnvFile() string {
	return LookupString(os.Args[1:], "-env")
}
