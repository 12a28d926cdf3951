package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_Truthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"zero int", Int(0), false},
		{"nonzero int", Int(1), true},
		{"negative int", Int(-1), true},
		{"empty string", Str(""), false},
		{"nonempty string", Str("x"), true},
		{"false bool", Bool(false), false},
		{"true bool", Bool(true), true},
		{"empty seq", Seq(nil), false},
		{"nonempty seq", Seq([]Value{Int(1)}), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.v.Truthy())
		})
	}
}

func TestValue_TypeName(t *testing.T) {
	assert.Equal(t, "int", Int(1).TypeName())
	assert.Equal(t, "string", Str("x").TypeName())
	assert.Equal(t, "bool", Bool(true).TypeName())
	assert.Equal(t, "list", Seq(nil).TypeName())
}

func TestValue_Render(t *testing.T) {
	t.Run("scalars", func(t *testing.T) {
		assert.Equal(t, "42", Int(42).Render())
		assert.Equal(t, "hello", Str("hello").Render())
		assert.Equal(t, "true", Bool(true).Render())
		assert.Equal(t, "false", Bool(false).Render())
	})

	t.Run("sequence of scalars", func(t *testing.T) {
		seq := Seq([]Value{Int(1), Str("x"), Bool(true)})
		assert.Equal(t, "[1, x, true]", seq.Render())
	})

	t.Run("nested sequence", func(t *testing.T) {
		seq := Seq([]Value{Int(1), Seq([]Value{Int(2), Int(3)})})
		assert.Equal(t, "[1, [2, 3]]", seq.Render())
	})

	t.Run("directory and file render their display path", func(t *testing.T) {
		d := &Directory{AbsPath: "/root/docs", DisplayRoot: "/root"}
		assert.Equal(t, "docs", Dir(d).Render())

		f := &File{AbsPath: "/root/docs/a.txt", DisplayRoot: "/root"}
		assert.Equal(t, "docs/a.txt", File_(f).Render())
	})

	t.Run("builtin renders its name", func(t *testing.T) {
		b := &Builtin{Name: "len"}
		assert.Equal(t, "<builtin len>", BuiltinValue(b).Render())
	})
}
