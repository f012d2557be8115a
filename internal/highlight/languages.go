package highlight

import (
	"path"
	"sort"
	"strings"
)

// Language is a highlighting language tag.
type Language string

// Supported language tags.
const (
	LangText       Language = "text"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangHTML       Language = "html"
	LangCSS        Language = "css"
	LangJSON       Language = "json"
	LangMarkdown   Language = "markdown"
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangCPP        Language = "cpp"
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangPHP        Language = "php"
	LangRuby       Language = "ruby"
	LangXML        Language = "xml"
	LangYAML       Language = "yaml"
)

// extensionLanguages is the complete extension table. Anything missing is text.
var extensionLanguages = map[string]Language{
	"js":   LangJavaScript,
	"jsx":  LangJavaScript,
	"ts":   LangTypeScript,
	"tsx":  LangTypeScript,
	"html": LangHTML,
	"css":  LangCSS,
	"scss": LangCSS,
	"sass": LangCSS,
	"json": LangJSON,
	"md":   LangMarkdown,
	"py":   LangPython,
	"java": LangJava,
	"cpp":  LangCPP,
	"c":    LangCPP,
	"go":   LangGo,
	"rs":   LangRust,
	"php":  LangPHP,
	"rb":   LangRuby,
	"xml":  LangXML,
	"yml":  LangYAML,
	"yaml": LangYAML,
}

// LanguageForExtension maps an extension, with or without the dot, to a language.
func LanguageForExtension(ext string) Language {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return LangText
}

// LanguageForFile picks the language from a file name or path.
func LanguageForFile(name string) Language {
	base := path.Base(name)
	ext := path.Ext(base)
	if ext == "" || ext == base {
		return LangText
	}
	return LanguageForExtension(ext)
}

// ExtensionMapping is one row of the extension table.
type ExtensionMapping struct {
	Extension string
	Language  Language
}

// Extensions returns the extension table sorted by language then extension.
func Extensions() []ExtensionMapping {
	out := make([]ExtensionMapping, 0, len(extensionLanguages))
	for ext, lang := range extensionLanguages {
		out = append(out, ExtensionMapping{Extension: ext, Language: lang})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Language != out[j].Language {
			return out[i].Language < out[j].Language
		}
		return out[i].Extension < out[j].Extension
	})
	return out
}

func keywords(words ...string) string {
	return `\b(?:` + strings.Join(words, "|") + `)\b`
}

const (
	numberPattern       = `\b\d+(?:\.\d+)?\b`
	quotedPattern       = `'(?:\\'|[^'])*'|"(?:\\"|[^"])*"`
	blockCommentPattern = `/\*.*?\*/`
	lineCommentPattern  = `//.*$`
	hashCommentPattern  = `#.*`
)

var (
	scriptRules = []Rule{
		rule(blockCommentPattern, ClassComment),
		rule(lineCommentPattern, ClassComment),
		rule("`(?:\\\\`|[^`])*`", ClassTemplate),
		rule(quotedPattern, ClassString),
		rule(keywords("true", "false", "null", "undefined", "NaN", "Infinity"), ClassConstant),
		rule(keywords("const", "let", "var", "function", "return", "if", "else", "for", "while", "do",
			"switch", "case", "break", "continue", "try", "catch", "finally", "throw", "new", "class",
			"extends", "super", "this", "import", "from", "export", "default", "as", "async", "await",
			"interface", "type", "implements", "public", "private", "protected", "readonly"), ClassKeyword),
		rule(keywords("number", "string", "boolean", "any", "void", "unknown", "never", "object",
			"Record", "Array", "Promise", "Map", "Set"), ClassType),
		rule(numberPattern, ClassNumber),
	}

	jsonRules = []Rule{
		ruleGroup(`("(?:[^"\\]|\\.)*")\s*:`, ClassKey, 1),
		rule(`"(?:[^"\\]|\\.)*"`, ClassString),
		rule(numberPattern, ClassNumber),
		rule(keywords("true", "false", "null"), ClassConstant),
	}

	markupRules = []Rule{
		rule(`<!--.*?-->`, ClassComment),
		rule(`</?[a-zA-Z0-9\-]+`, ClassTag),
		ruleGroup(`(\s+[a-zA-Z_:][a-zA-Z0-9_:\-]*)=`, ClassAttribute, 1),
		rule(`=\s*"[^"]*"|=\s*'[^']*'`, ClassString),
		rule(`/?>`, ClassTag),
	}

	cssRules = []Rule{
		rule(blockCommentPattern, ClassComment),
		rule(`#[0-9a-fA-F]{3,8}\b`, ClassNumber),
		rule(`\b\d+(?:\.\d+)?(?:px|em|rem|%|vh|vw)`, ClassNumber),
		ruleGroup(`:\s*([a-zA-Z\-]+)\s*;`, ClassValue, 1),
		ruleGroup(`\b([a-zA-Z\-]+)\s*:`, ClassProperty, 1),
		rule(`\.[a-zA-Z_][\w\-]*`, ClassSelector),
		rule(`#[a-zA-Z_][\w\-]*`, ClassSelector),
	}

	pythonRules = []Rule{
		rule(hashCommentPattern, ClassComment),
		rule(`""".*?"""|'''.*?'''`, ClassTemplate),
		rule(quotedPattern, ClassString),
		rule(`@[a-zA-Z_]\w*`, ClassDecorator),
		rule(`\b(?:from|import)\b\s+[a-zA-Z_][\w.]*`, ClassImport),
		rule(keywords("def", "class", "return", "if", "elif", "else", "for", "while", "try", "except",
			"finally", "with", "as", "import", "from", "pass", "break", "continue", "lambda", "yield",
			"global", "nonlocal", "assert", "del", "raise", "in", "is", "not", "and", "or"), ClassKeyword),
		rule(keywords("True", "False", "None"), ClassConstant),
		rule(keywords("int", "float", "str", "list", "dict", "set", "tuple", "Any", "List", "Dict",
			"Optional", "Union"), ClassType),
		rule(keywords("print", "len", "range", "open", "input", "type", "isinstance", "enumerate",
			"zip", "map", "filter", "sum", "min", "max", "abs", "sorted"), ClassBuiltin),
		rule(numberPattern, ClassNumber),
	}

	yamlRules = []Rule{
		rule(hashCommentPattern, ClassComment),
		rule(keywords("true", "false", "null"), ClassConstant),
		rule(numberPattern, ClassNumber),
		rule(`\b[a-zA-Z_][\w\-]*\s*:`, ClassKey),
		rule(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`, ClassString),
	}

	markdownRules = []Rule{
		rule(`^\s*#+\s.*$`, ClassHeading),
		rule(`\*\*[^*]+\*\*|__[^_]+__`, ClassBold),
		rule(`\*[^*]+\*|_[^_]+_`, ClassItalic),
		rule("`[^`]+`", ClassCode),
		rule(`\[[^\]]+\]\([^)]+\)`, ClassLink),
	}

	goRules = cLike(lineCommentPattern,
		keywords("break", "case", "chan", "const", "continue", "default", "defer", "else", "fallthrough",
			"for", "func", "go", "goto", "if", "import", "interface", "map", "package", "range", "return",
			"select", "struct", "switch", "type", "var"),
		keywords("true", "false", "nil", "iota"),
		keywords("bool", "byte", "error", "float32", "float64", "int", "int8", "int16", "int32", "int64",
			"rune", "string", "uint", "uint8", "uint16", "uint32", "uint64", "uintptr", "any"),
		"`[^`]*`")

	rustRules = cLike(lineCommentPattern,
		keywords("as", "async", "await", "break", "const", "continue", "crate", "dyn", "else", "enum",
			"extern", "fn", "for", "if", "impl", "in", "let", "loop", "match", "mod", "move", "mut", "pub",
			"ref", "return", "self", "Self", "static", "struct", "super", "trait", "type", "unsafe", "use",
			"where", "while"),
		keywords("true", "false", "None", "Some", "Ok", "Err"),
		keywords("i8", "i16", "i32", "i64", "i128", "isize", "u8", "u16", "u32", "u64", "u128", "usize",
			"f32", "f64", "bool", "char", "str", "String", "Vec", "Option", "Result", "Box"),
		"")

	javaRules = cLike(lineCommentPattern,
		keywords("abstract", "break", "case", "catch", "class", "continue", "default", "do", "else", "enum",
			"extends", "final", "finally", "for", "if", "implements", "import", "instanceof", "interface",
			"new", "package", "private", "protected", "public", "return", "static", "super", "switch",
			"synchronized", "this", "throw", "throws", "try", "void", "volatile", "while", "var", "record"),
		keywords("true", "false", "null"),
		keywords("boolean", "byte", "char", "double", "float", "int", "long", "short", "String", "Object",
			"List", "Map", "Set"),
		"")

	cppRules = cLike(lineCommentPattern,
		keywords("auto", "break", "case", "catch", "class", "const", "constexpr", "continue", "default",
			"delete", "do", "else", "enum", "explicit", "extern", "for", "friend", "goto", "if", "inline",
			"namespace", "new", "operator", "private", "protected", "public", "return", "sizeof", "static",
			"struct", "switch", "template", "this", "throw", "try", "typedef", "typename", "union", "using",
			"virtual", "volatile", "while"),
		keywords("true", "false", "NULL", "nullptr"),
		keywords("bool", "char", "double", "float", "int", "long", "short", "signed", "unsigned", "void",
			"size_t", "std"),
		"").withPrefix(rule(`^\s*#\s*\w+.*$`, ClassDecorator))

	phpRules = cLike(`(?://|#).*$`,
		keywords("abstract", "as", "break", "case", "catch", "class", "const", "continue", "default", "do",
			"echo", "else", "elseif", "extends", "final", "finally", "fn", "for", "foreach", "function",
			"if", "implements", "interface", "namespace", "new", "private", "protected", "public",
			"return", "static", "switch", "throw", "trait", "try", "use", "while", "yield"),
		keywords("true", "false", "null", "TRUE", "FALSE", "NULL"),
		keywords("array", "bool", "float", "int", "mixed", "object", "string", "void"),
		"").withSuffix(rule(`\$[a-zA-Z_]\w*`, ClassProperty))

	rubyRules = []Rule{
		rule(hashCommentPattern, ClassComment),
		rule(quotedPattern, ClassString),
		rule(`:[a-zA-Z_]\w*[?!]?`, ClassConstant),
		rule(keywords("true", "false", "nil", "self"), ClassConstant),
		rule(keywords("alias", "and", "begin", "break", "case", "class", "def", "defined", "do", "else",
			"elsif", "end", "ensure", "for", "if", "in", "module", "next", "not", "or", "redo", "rescue",
			"retry", "return", "super", "then", "undef", "unless", "until", "when", "while", "yield",
			"require", "attr_accessor", "attr_reader"), ClassKeyword),
		rule(`@{1,2}[a-zA-Z_]\w*`, ClassProperty),
		rule(numberPattern, ClassNumber),
	}
)

type ruleList []Rule

func (r ruleList) withPrefix(extra ...Rule) ruleList {
	return append(append(ruleList{}, extra...), r...)
}

func (r ruleList) withSuffix(extra ...Rule) ruleList {
	return append(append(ruleList{}, r...), extra...)
}

// cLike builds the ruleset shared by curly-brace languages.
func cLike(lineComment, kw, constants, types, rawString string) ruleList {
	rules := ruleList{
		rule(blockCommentPattern, ClassComment),
		rule(lineComment, ClassComment),
	}
	if rawString != "" {
		rules = append(rules, rule(rawString, ClassTemplate))
	}
	rules = append(rules,
		rule(quotedPattern, ClassString),
		rule(constants, ClassConstant),
		rule(kw, ClassKeyword),
		rule(types, ClassType),
		rule(numberPattern, ClassNumber),
	)
	return rules
}

var rulesets = map[Language][]Rule{
	LangJavaScript: scriptRules,
	LangTypeScript: scriptRules,
	LangJSON:       jsonRules,
	LangHTML:       markupRules,
	LangXML:        markupRules,
	LangCSS:        cssRules,
	LangPython:     pythonRules,
	LangYAML:       yamlRules,
	LangMarkdown:   markdownRules,
	LangGo:         goRules,
	LangRust:       rustRules,
	LangJava:       javaRules,
	LangCPP:        cppRules,
	LangPHP:        phpRules,
	LangRuby:       rubyRules,
}

// RulesFor returns the ordered rules of lang. Text and unknown tags have none.
func RulesFor(lang Language) []Rule {
	return rulesets[lang]
}
