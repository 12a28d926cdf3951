// Package runtime implements the FilesDSL runtime value system: a
// tagged union over integers, strings, booleans, sequences,
// directories, files and builtins, plus the Directory and File
// objects the DSL's built-ins construct.
package runtime

import (
	"fmt"
	"strings"
)

// Kind tags a Value's active field.
type Kind int

const (
	IntKind Kind = iota
	StrKind
	BoolKind
	SeqKind
	DirKind
	FileKind
	BuiltinKind
)

// Value is the DSL's single runtime value type: Int | Str | Bool |
// Seq | Dir | File | Builtin. Exactly one field is meaningful,
// selected by Kind.
type Value struct {
	Kind    Kind
	Int     int64
	Str     string
	Bool    bool
	Seq     []Value
	Dir     *Directory
	File    *File
	Builtin *Builtin
}

// Builtin is a built-in callable: Directory, File, len or print.
type Builtin struct {
	Name string
	Fn   func(ctx *Context, args []Value, kwargs map[string]Value) (Value, error)
}

func Int(v int64) Value   { return Value{Kind: IntKind, Int: v} }
func Str(v string) Value  { return Value{Kind: StrKind, Str: v} }
func Bool(v bool) Value   { return Value{Kind: BoolKind, Bool: v} }
func Seq(v []Value) Value { return Value{Kind: SeqKind, Seq: v} }
func Dir(d *Directory) Value {
	return Value{Kind: DirKind, Dir: d}
}
func File_(f *File) Value {
	return Value{Kind: FileKind, File: f}
}
func BuiltinValue(b *Builtin) Value {
	return Value{Kind: BuiltinKind, Builtin: b}
}

// Truthy implements the DSL's truthiness: false, 0, "" and an empty
// sequence are falsy; everything else (including Directory and File)
// is truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case IntKind:
		return v.Int != 0
	case StrKind:
		return v.Str != ""
	case BoolKind:
		return v.Bool
	case SeqKind:
		return len(v.Seq) > 0
	default:
		return true
	}
}

// TypeName names a Value's kind for error messages.
func (v Value) TypeName() string {
	switch v.Kind {
	case IntKind:
		return "int"
	case StrKind:
		return "string"
	case BoolKind:
		return "bool"
	case SeqKind:
		return "list"
	case DirKind:
		return "Directory"
	case FileKind:
		return "File"
	case BuiltinKind:
		return "builtin"
	default:
		return "unknown"
	}
}

// Render implements print()'s rendering: booleans lowercase,
// sequences as "[e1, e2, ...]", Directory/File as their display path.
func (v Value) Render() string {
	switch v.Kind {
	case IntKind:
		return fmt.Sprintf("%d", v.Int)
	case StrKind:
		return v.Str
	case BoolKind:
		if v.Bool {
			return "true"
		}
		return "false"
	case SeqKind:
		parts := make([]string, len(v.Seq))
		for i, item := range v.Seq {
			parts[i] = item.renderNested()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case DirKind:
		return v.Dir.DisplayPath()
	case FileKind:
		return v.File.DisplayPath()
	case BuiltinKind:
		return "<builtin " + v.Builtin.Name + ">"
	default:
		return ""
	}
}

// renderNested renders a value as a list element: strings are not
// quoted, matching the original interpreter's recursive print.
func (v Value) renderNested() string {
	return v.Render()
}
