package base

import (
	"bytes"
	"flag"
	"fmt"
	"strings"
)

// FlagSet wraps flag.FlagSet to render help in the cosmosctl format.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet returns a new FlagSet.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help returns the help text for all flags.
func (f *FlagSet) Help() string {
	var out bytes.Buffer

	first := true
	f.VisitAll(func(fl *flag.Flag) {
		if first {
			out.WriteString("\n\nOptions:")
			first = false
		}
		fmt.Fprintf(&out, "\n\n  -%s", fl.Name)
		if fl.DefValue != "" && fl.DefValue != "[]" {
			fmt.Fprintf(&out, "=%s", fl.DefValue)
		}
		fmt.Fprintf(&out, "\n      %s", fl.Usage)
	})

	return out.String()
}

// StringSliceVar defines a flag that may be repeated. Every occurrence is
// appended to p.
func (f *FlagSet) StringSliceVar(p *[]string, name string, usage string) {
	f.Var((*stringSliceValue)(p), name, usage)
}

type stringSliceValue []string

func (s *stringSliceValue) String() string {
	if s == nil {
		return ""
	}
	return "[" + strings.Join(*s, ",") + "]"
}

func (s *stringSliceValue) Set(v string) error {
	*s = append(*s, v)
	return nil
}
