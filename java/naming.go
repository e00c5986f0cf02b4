package java

import "strings"

var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true, "var": true, "record": true,
}

// Identifier returns name as a legal Java identifier. Reserved words get a
// trailing underscore.
func Identifier(name string) string {
	if keywords[name] {
		return name + "_"
	}
	return name
}

// SplitName separates a dotted type name into its package and the class
// path within it. Package segments are the leading lower-case ones:
// nl.test.SomeClass.Inner splits into nl.test and SomeClass.Inner.
func SplitName(name string) (pkg, class string) {
	parts := strings.Split(name, ".")
	n := 0
	for n < len(parts)-1 && !isUpper(parts[n]) {
		n++
	}
	return strings.Join(parts[:n], "."), strings.Join(parts[n:], ".")
}

func isUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// literal converts a JavaScript literal to Java source. ok is false for
// anything but plain strings, numbers and booleans.
func literal(js string) (string, bool) {
	js = strings.TrimSpace(js)
	switch {
	case js == "true" || js == "false":
		return js, true
	case len(js) >= 2 && (js[0] == '\'' || js[0] == '"') && js[len(js)-1] == js[0]:
		body := js[1 : len(js)-1]
		if js[0] == '\'' {
			body = strings.ReplaceAll(body, `\'`, `'`)
			body = strings.ReplaceAll(body, `"`, `\"`)
		}
		return `"` + body + `"`, true
	}
	if isNumber(js) {
		return js, true
	}
	return "", false
}

func isNumber(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	dot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot && i > 0:
			dot = true
		default:
			return false
		}
	}
	return true
}
