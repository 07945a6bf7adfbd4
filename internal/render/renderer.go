// Package render is the placeholder substitution engine shared by the SMS
// and email dispatch paths. Template strings use text/template syntax with
// field placeholders like {{.amount}} resolved against a flat string map.
package render

import (
	"strings"
	"text/template"
	"text/template/parse"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
)

// Render substitutes each placeholder in tmpl with the matching parameter
// value. A placeholder with no matching key renders as empty text. A
// malformed template surfaces as a TemplateCompilationError wrapping the
// compiler error.
func Render(tmpl string, parameters map[string]string) (string, error) {
	t, err := compile(tmpl)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := t.Execute(&b, parameters); err != nil {
		return "", &errs.TemplateCompilationError{Template: tmpl, Err: err}
	}
	return b.String(), nil
}

// ExtractVariables returns the set of distinct placeholder names referenced
// by tmpl, with the same failure mode as Render on malformed input.
func ExtractVariables(tmpl string) (map[string]struct{}, error) {
	t, err := compile(tmpl)
	if err != nil {
		return nil, err
	}

	variables := make(map[string]struct{})
	if t.Tree != nil && t.Tree.Root != nil {
		collectFields(t.Tree.Root, variables)
	}
	return variables, nil
}

func compile(tmpl string) (*template.Template, error) {
	// missingkey=zero renders absent map keys as the empty string instead
	// of failing execution.
	t, err := template.New("inline").Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return nil, &errs.TemplateCompilationError{Template: tmpl, Err: err}
	}
	return t, nil
}

func collectFields(node parse.Node, out map[string]struct{}) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			collectFields(child, out)
		}
	case *parse.ActionNode:
		collectPipe(n.Pipe, out)
	case *parse.IfNode:
		collectPipe(n.Pipe, out)
		collectFields(n.List, out)
		if n.ElseList != nil {
			collectFields(n.ElseList, out)
		}
	case *parse.RangeNode:
		collectPipe(n.Pipe, out)
		collectFields(n.List, out)
		if n.ElseList != nil {
			collectFields(n.ElseList, out)
		}
	case *parse.WithNode:
		collectPipe(n.Pipe, out)
		collectFields(n.List, out)
		if n.ElseList != nil {
			collectFields(n.ElseList, out)
		}
	}
}

func collectPipe(pipe *parse.PipeNode, out map[string]struct{}) {
	if pipe == nil {
		return
	}
	for _, cmd := range pipe.Cmds {
		for _, arg := range cmd.Args {
			if field, ok := arg.(*parse.FieldNode); ok && len(field.Ident) > 0 {
				out[field.Ident[0]] = struct{}{}
			}
		}
	}
}
