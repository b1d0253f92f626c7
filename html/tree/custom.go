package tree

import "strings"

// var() substitution over raw declaration values. Substitution is
// bounded: a resolution stack rejects cycles and the recursion depth
// is capped, both falling back to the comma fallback when present.
//
// See https://www.w3.org/TR/css-variables-1/

const maxVarDepth = 32

// resolveVars replaces every var() reference in input using the given
// custom property map. ok is false when a reference cannot be
// resolved, which invalidates the whole declaration.
func resolveVars(input string, custom map[string]string) (string, bool) {
	if !strings.Contains(strings.ToLower(input), "var(") {
		return input, true
	}
	var stack []string
	return resolveVarsRec(input, custom, &stack, 0)
}

func resolveVarsRec(input string, custom map[string]string, stack *[]string, depth int) (string, bool) {
	if depth > maxVarDepth {
		return "", false
	}
	lower := strings.ToLower(input)
	if !strings.Contains(lower, "var(") {
		return input, true
	}
	var out strings.Builder
	last := 0
	for i := 0; i+4 <= len(input); {
		if lower[i:i+4] != "var(" {
			i++
			continue
		}
		out.WriteString(input[last:i])
		args, consumed, ok := splitBalancedParens(input[i+4:])
		if !ok {
			return "", false
		}
		repl, ok := resolveVarArgs(args, custom, stack, depth+1)
		if !ok {
			return "", false
		}
		out.WriteString(repl)
		i += 4 + consumed
		last = i
	}
	out.WriteString(input[last:])
	return out.String(), true
}

func resolveVarArgs(args string, custom map[string]string, stack *[]string, depth int) (string, bool) {
	name, fallback, hasFallback := splitVarArguments(args)
	name = strings.ToLower(strings.TrimSpace(name))
	fallback = strings.TrimSpace(fallback)
	hasFallback = hasFallback && fallback != ""

	useFallback := func() (string, bool) {
		if !hasFallback {
			return "", false
		}
		return resolveVarsRec(fallback, custom, stack, depth)
	}

	if !strings.HasPrefix(name, "--") {
		return useFallback()
	}
	for _, entry := range *stack {
		if entry == name {
			return useFallback()
		}
	}
	raw, in := custom[name]
	if !in {
		return useFallback()
	}
	*stack = append(*stack, name)
	resolved, ok := resolveVarsRec(raw, custom, stack, depth+1)
	*stack = (*stack)[:len(*stack)-1]
	if !ok {
		return useFallback()
	}
	return resolved, true
}

// splitBalancedParens returns the content up to the paren balancing
// an already consumed open paren, plus the bytes consumed including
// the close paren.
func splitBalancedParens(input string) (content string, consumed int, ok bool) {
	depth := 1
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return input[:i], i + 1, true
			}
		}
	}
	return "", 0, false
}

// splitVarArguments splits "name, fallback" at the first top level
// comma.
func splitVarArguments(args string) (name, fallback string, hasFallback bool) {
	depth := 0
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				return args[:i], args[i+1:], true
			}
		}
	}
	return args, "", false
}
