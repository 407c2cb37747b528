package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	cardLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	cardParser = participle.MustBuild[Card](
		participle.Lexer(cardLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// Card 是 .scene 卡片文件的根节点：场景名加一组键值赋值。
// 卡片只描述内容（频率、风格、电台名、标签……），几何与配色由布局决定。
type Card struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Scene   string         `parser:"Newline* 'card' @String"`
	Entries []*Assignment  `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Assignment 使用冒号语法（key: value）。
type Assignment struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' Newline* @@"`
}

// Value 表示通用属性值：字符串、数字或数组。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Array  *ArrayValue    `parser:"| @@"`
}

// ArrayValue 捕获 `[ ... ]` 列表。
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// StringLiteral 在捕获时对 Go 风格字符串做反引号处理。
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse 从 io.Reader 解析卡片。
func Parse(r io.Reader) (*Card, error) {
	return cardParser.Parse("", r)
}

// ParseString 从字符串解析卡片。
func ParseString(input string) (*Card, error) {
	return cardParser.ParseString("", input)
}

// Text 返回键对应的字符串值；键未出现或不是字符串时返回空串。
func (c *Card) Text(key string) string {
	v := c.lookup(key)
	if v == nil || v.String == nil {
		return ""
	}
	return string(*v.String)
}

// List 返回键对应的字符串列表；单个字符串视为一元列表，键未出现时返回 nil。
func (c *Card) List(key string) []string {
	v := c.lookup(key)
	if v == nil {
		return nil
	}
	if v.String != nil {
		return []string{string(*v.String)}
	}
	if v.Array == nil {
		return nil
	}
	out := make([]string, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		if item.String != nil {
			out = append(out, string(*item.String))
		}
	}
	return out
}

func (c *Card) lookup(key string) *Value {
	if c == nil {
		return nil
	}
	for _, entry := range c.Entries {
		if entry.Key == key {
			return entry.Value
		}
	}
	return nil
}
