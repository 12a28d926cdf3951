package eval

import (
	"github.com/filesdsl/filesdsl/fdslerr"
	"github.com/filesdsl/filesdsl/runtime"
)

// dispatchMethod resolves obj.name(args, kwargs) for the File and
// Directory built-in objects. There are no user-defined methods: this
// closed set is the entirety of the DSL's postfix-call surface beyond
// the four global built-ins.
func (e *Evaluator) dispatchMethod(obj runtime.Value, name string, args []runtime.Value, kwargs map[string]runtime.Value, pos fdslerr.Pos) (runtime.Value, error) {
	switch obj.Kind {
	case runtime.FileKind:
		return e.dispatchFileMethod(obj.File, name, args, kwargs, pos)
	case runtime.DirKind:
		return e.dispatchDirectoryMethod(obj.Dir, name, args, kwargs, pos)
	default:
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: pos, Message: "value of type " + obj.TypeName() + " has no method '" + name + "'"}
	}
}

func (e *Evaluator) dispatchFileMethod(f *runtime.File, name string, args []runtime.Value, kwargs map[string]runtime.Value, pos fdslerr.Pos) (runtime.Value, error) {
	ctx := e.ctx
	switch name {
	case "read":
		pages, err := optionalPages(args, kwargs)
		if err != nil {
			return runtime.Value{}, err
		}
		return f.Read(ctx, pages)

	case "search":
		pattern, err := requireString(args, kwargs, 0, "pattern")
		if err != nil {
			return runtime.Value{}, err
		}
		ignoreCase, err := optionalBool(args, kwargs, 1, "ignore_case", false)
		if err != nil {
			return runtime.Value{}, err
		}
		pages, err := f.Search(ctx, pattern, ignoreCase)
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Seq(intSeqToValues(pages)), nil

	case "contains":
		pattern, err := requireString(args, kwargs, 0, "pattern")
		if err != nil {
			return runtime.Value{}, err
		}
		ignoreCase, err := optionalBool(args, kwargs, 1, "ignore_case", false)
		if err != nil {
			return runtime.Value{}, err
		}
		ok, err := f.Contains(ctx, pattern, ignoreCase)
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Bool(ok), nil

	case "head":
		s, err := f.Head(ctx)
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Str(s), nil

	case "tail":
		s, err := f.Tail(ctx)
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Str(s), nil

	case "table":
		maxItems, err := optionalInt(args, kwargs, 0, "max_items", 50)
		if err != nil {
			return runtime.Value{}, err
		}
		s, err := f.Table(ctx, int(maxItems))
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Str(s), nil

	case "snippets":
		pattern, err := requireString(args, kwargs, 0, "pattern")
		if err != nil {
			return runtime.Value{}, err
		}
		maxResults, err := optionalInt(args, kwargs, 1, "max_results", 5)
		if err != nil {
			return runtime.Value{}, err
		}
		contextChars, err := optionalInt(args, kwargs, 2, "context_chars", 80)
		if err != nil {
			return runtime.Value{}, err
		}
		ignoreCase, err := optionalBool(args, kwargs, 3, "ignore_case", false)
		if err != nil {
			return runtime.Value{}, err
		}
		snippets, err := f.Snippets(ctx, pattern, int(maxResults), int(contextChars), ignoreCase)
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Seq(strSeqToValues(snippets)), nil

	case "semantic_search":
		query, err := requireString(args, kwargs, 0, "query")
		if err != nil {
			return runtime.Value{}, err
		}
		topK, err := optionalInt(args, kwargs, 1, "top_k", 5)
		if err != nil {
			return runtime.Value{}, err
		}
		pages, err := f.SemanticSearch(ctx, query, int(topK))
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Seq(intSeqToValues(pages)), nil

	default:
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: pos, Message: "File has no method '" + name + "'"}
	}
}

func (e *Evaluator) dispatchDirectoryMethod(d *runtime.Directory, name string, args []runtime.Value, kwargs map[string]runtime.Value, pos fdslerr.Pos) (runtime.Value, error) {
	ctx := e.ctx
	switch name {
	case "files":
		recursive, err := optionalBoolPtr(args, kwargs, 0, "recursive")
		if err != nil {
			return runtime.Value{}, err
		}
		files, err := d.Files(ctx, recursive)
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Seq(fileSeqToValues(files)), nil

	case "search":
		pattern, err := requireString(args, kwargs, 0, "pattern")
		if err != nil {
			return runtime.Value{}, err
		}
		scope, err := optionalString(args, kwargs, 1, "scope", "name")
		if err != nil {
			return runtime.Value{}, err
		}
		inContent, err := optionalBool(args, kwargs, 2, "in_content", false)
		if err != nil {
			return runtime.Value{}, err
		}
		recursive, err := optionalBoolPtr(args, kwargs, 3, "recursive")
		if err != nil {
			return runtime.Value{}, err
		}
		ignoreCase, err := optionalBool(args, kwargs, 4, "ignore_case", false)
		if err != nil {
			return runtime.Value{}, err
		}
		files, err := d.Search(ctx, pattern, scope, inContent, recursive, ignoreCase)
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Seq(fileSeqToValues(files)), nil

	case "tree":
		maxDepth, err := optionalInt(args, kwargs, 0, "max_depth", 5)
		if err != nil {
			return runtime.Value{}, err
		}
		maxEntries, err := optionalInt(args, kwargs, 1, "max_entries", 500)
		if err != nil {
			return runtime.Value{}, err
		}
		s, err := d.Tree(int(maxDepth), int(maxEntries))
		if err != nil {
			return runtime.Value{}, err
		}
		return runtime.Str(s), nil

	default:
		return runtime.Value{}, &fdslerr.RuntimeError{Pos: pos, Message: "Directory has no method '" + name + "'"}
	}
}

func intSeqToValues(xs []int64) []runtime.Value {
	out := make([]runtime.Value, len(xs))
	for i, n := range xs {
		out[i] = runtime.Int(n)
	}
	return out
}

func strSeqToValues(xs []string) []runtime.Value {
	out := make([]runtime.Value, len(xs))
	for i, s := range xs {
		out[i] = runtime.Str(s)
	}
	return out
}

func fileSeqToValues(files []*runtime.File) []runtime.Value {
	out := make([]runtime.Value, len(files))
	for i, f := range files {
		out[i] = runtime.File_(f)
	}
	return out
}
