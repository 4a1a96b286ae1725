package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser parses user-defined arguments into flags
type Parser struct {
	flagSet *CommandFlagSet
}

func NewParser(flagSet *CommandFlagSet) *Parser {
	return &Parser{
		flagSet: flagSet,
	}
}

func (cp *Parser) Parse(raw []string) (*CommandArgs, error) {
	args := &CommandArgs{
		Flags: make(map[string]any),
		Raw:   raw,
	}

	if cp.flagSet == nil {
		args.Args = append(args.Args, raw...)
		return args, nil
	}

	for flagName, flag := range cp.flagSet.Flags {
		if flag.Default != nil {
			args.Flags[flagName] = flag.Default
		}
	}

	longToName := make(map[string]string)
	shortToName := make(map[string]string)
	for flagName, flag := range cp.flagSet.Flags {
		longToName[flag.Name] = flagName
		if flag.Short != "" {
			shortToName[flag.Short] = flagName
		}
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		if arg == "--" {
			args.Args = append(args.Args, raw[i+1:]...)
			break
		}

		var flagName string
		var inline string
		var hasInline bool

		switch {
		case strings.HasPrefix(arg, "--"):
			key := strings.TrimPrefix(arg, "--")
			key, inline, hasInline = strings.Cut(key, "=")

			name, exists := longToName[key]
			if !exists {
				return nil, fmt.Errorf("unknown flag: --%s", key)
			}
			flagName = name

		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			name, exists := shortToName[arg[1:]]
			if !exists {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
			flagName = name

		default:
			args.Args = append(args.Args, arg)
			continue
		}

		flag := cp.flagSet.Flags[flagName]
		if flag.Type == "bool" {
			args.Flags[flagName] = true
			continue
		}

		if hasInline {
			value, err := coerce(inline, flag.Type)
			if err != nil {
				return nil, err
			}
			args.Flags[flagName] = value
			continue
		}

		if i+1 >= len(raw) {
			return nil, fmt.Errorf("flag --%s requires a value", flag.Name)
		}

		value, err := coerce(raw[i+1], flag.Type)
		if err != nil {
			return nil, err
		}
		args.Flags[flagName] = value
		i++
	}

	for flagName, flag := range cp.flagSet.Flags {
		if flag.Required {
			if _, ok := args.Flags[flagName]; !ok {
				return nil, fmt.Errorf("required flag: --%s", flag.Name)
			}
		}
	}

	return args, nil
}

func coerce(value, flagType string) (any, error) {
	switch flagType {
	case "float":
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", value)
		}
		return parsed, nil
	default:
		return value, nil
	}
}
