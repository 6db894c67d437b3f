// Package astjson gives internal/ast's surface tree a JSON wire form, for
// cmd/grustc-core's "read a fixture off stdin" entry point. internal/ast
// describes nodes entirely through interfaces (Expr, Pattern, TypeExpr,
// FlowExpr), which encoding/json cannot decode on its own: given a bare
// `{"op":"+","left":{...}}` object it has no way to know which concrete
// Go type to allocate. This package adds a one-field-of-indirection
// envelope, {"kind": "...", "data": {...}}, that carries the concrete
// type name alongside the payload so decoding can switch on it.
//
// No library in the example pack offers this (AILANG's own JSON types
// are plain data records with no interface fields to round-trip), and
// nothing in the broader Go ecosystem standardises a tagged-union JSON
// encoding the way protobuf's Any or serde's externally-tagged enums do
// for their languages, so this is hand-rolled against encoding/json
// rather than grounded on a third-party codec.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/grust-lang/grustc-core/internal/ast"
)

type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func pack(kind string, v interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: kind, Data: data})
}

func unpackEnvelope(raw json.RawMessage) (envelope, error) {
	var env envelope
	if len(raw) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, err
	}
	return env, nil
}

// EncodeFile renders f as JSON.
func EncodeFile(f *ast.File) ([]byte, error) {
	w, err := encodeFile(f)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// DecodeFile parses data, previously produced by EncodeFile, back into an
// *ast.File.
func DecodeFile(data []byte) (*ast.File, error) {
	var w fileWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return decodeFile(&w)
}

// --- File and declarations ---

type fileWire struct {
	Typedefs   []typedefWire    `json:"typedefs,omitempty"`
	Functions  []funcDeclWire   `json:"functions,omitempty"`
	Components []componentWire  `json:"components,omitempty"`
	Service    *serviceDeclWire `json:"service,omitempty"`
	Pos        ast.Pos          `json:"pos"`
}

func encodeFile(f *ast.File) (*fileWire, error) {
	w := &fileWire{Pos: f.Pos}
	for _, td := range f.Typedefs {
		etd, err := encodeTypedef(td)
		if err != nil {
			return nil, err
		}
		w.Typedefs = append(w.Typedefs, *etd)
	}
	for _, fn := range f.Functions {
		efn, err := encodeFuncDecl(fn)
		if err != nil {
			return nil, err
		}
		w.Functions = append(w.Functions, *efn)
	}
	for _, c := range f.Components {
		ec, err := encodeComponent(c)
		if err != nil {
			return nil, err
		}
		w.Components = append(w.Components, *ec)
	}
	if f.Service != nil {
		es, err := encodeServiceDecl(f.Service)
		if err != nil {
			return nil, err
		}
		w.Service = es
	}
	return w, nil
}

func decodeFile(w *fileWire) (*ast.File, error) {
	f := &ast.File{Pos: w.Pos}
	for i := range w.Typedefs {
		td, err := decodeTypedef(&w.Typedefs[i])
		if err != nil {
			return nil, err
		}
		f.Typedefs = append(f.Typedefs, td)
	}
	for i := range w.Functions {
		fn, err := decodeFuncDecl(&w.Functions[i])
		if err != nil {
			return nil, err
		}
		f.Functions = append(f.Functions, fn)
	}
	for i := range w.Components {
		c, err := decodeComponent(&w.Components[i])
		if err != nil {
			return nil, err
		}
		f.Components = append(f.Components, c)
	}
	if w.Service != nil {
		svc, err := decodeServiceDecl(w.Service)
		if err != nil {
			return nil, err
		}
		f.Service = svc
	}
	return f, nil
}

type fieldDeclWire struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
	Pos  ast.Pos         `json:"pos"`
}

type typedefWire struct {
	Name     string          `json:"name"`
	Kind     ast.TypedefKind `json:"kind"`
	Fields   []fieldDeclWire `json:"fields,omitempty"`
	Variants []string        `json:"variants,omitempty"`
	Elem     json.RawMessage `json:"elem,omitempty"`
	Size     int             `json:"size,omitempty"`
	Pos      ast.Pos         `json:"pos"`
}

func encodeTypedef(td *ast.TypedefDecl) (*typedefWire, error) {
	w := &typedefWire{Name: td.Name, Kind: td.Kind, Variants: td.Variants, Size: td.Size, Pos: td.Pos}
	for _, fd := range td.Fields {
		t, err := encodeTypeExpr(fd.Type)
		if err != nil {
			return nil, err
		}
		w.Fields = append(w.Fields, fieldDeclWire{Name: fd.Name, Type: t, Pos: fd.Pos})
	}
	if td.Elem != nil {
		t, err := encodeTypeExpr(td.Elem)
		if err != nil {
			return nil, err
		}
		w.Elem = t
	}
	return w, nil
}

func decodeTypedef(w *typedefWire) (*ast.TypedefDecl, error) {
	td := &ast.TypedefDecl{Name: w.Name, Kind: w.Kind, Variants: w.Variants, Size: w.Size, Pos: w.Pos}
	for _, fd := range w.Fields {
		t, err := decodeTypeExpr(fd.Type)
		if err != nil {
			return nil, err
		}
		td.Fields = append(td.Fields, ast.FieldDecl{Name: fd.Name, Type: t, Pos: fd.Pos})
	}
	if len(w.Elem) > 0 {
		t, err := decodeTypeExpr(w.Elem)
		if err != nil {
			return nil, err
		}
		td.Elem = t
	}
	return td, nil
}

type paramDeclWire struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
	Pos  ast.Pos         `json:"pos"`
}

func encodeParams(ps []ast.ParamDecl) ([]paramDeclWire, error) {
	out := make([]paramDeclWire, 0, len(ps))
	for _, p := range ps {
		t, err := encodeTypeExpr(p.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, paramDeclWire{Name: p.Name, Type: t, Pos: p.Pos})
	}
	return out, nil
}

func decodeParams(ws []paramDeclWire) ([]ast.ParamDecl, error) {
	out := make([]ast.ParamDecl, 0, len(ws))
	for _, w := range ws {
		t, err := decodeTypeExpr(w.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.ParamDecl{Name: w.Name, Type: t, Pos: w.Pos})
	}
	return out, nil
}

type funcDeclWire struct {
	Name   string          `json:"name"`
	Params []paramDeclWire `json:"params,omitempty"`
	Return json.RawMessage `json:"return"`
	Body   json.RawMessage `json:"body"`
	Pos    ast.Pos         `json:"pos"`
}

func encodeFuncDecl(fn *ast.FuncDecl) (*funcDeclWire, error) {
	params, err := encodeParams(fn.Params)
	if err != nil {
		return nil, err
	}
	ret, err := encodeTypeExpr(fn.Return)
	if err != nil {
		return nil, err
	}
	body, err := encodeExpr(fn.Body)
	if err != nil {
		return nil, err
	}
	return &funcDeclWire{Name: fn.Name, Params: params, Return: ret, Body: body, Pos: fn.Pos}, nil
}

func decodeFuncDecl(w *funcDeclWire) (*ast.FuncDecl, error) {
	params, err := decodeParams(w.Params)
	if err != nil {
		return nil, err
	}
	ret, err := decodeTypeExpr(w.Return)
	if err != nil {
		return nil, err
	}
	body, err := decodeExpr(w.Body)
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Name: w.Name, Params: params, Return: ret, Body: body, Pos: w.Pos}, nil
}

type statementWire struct {
	Pattern json.RawMessage `json:"pattern"`
	Expr    json.RawMessage `json:"expr"`
	Pos     ast.Pos         `json:"pos"`
}

func encodeStatement(s *ast.Statement) (*statementWire, error) {
	pat, err := encodePattern(s.Pattern)
	if err != nil {
		return nil, err
	}
	e, err := encodeExpr(s.Expr)
	if err != nil {
		return nil, err
	}
	return &statementWire{Pattern: pat, Expr: e, Pos: s.Pos}, nil
}

func decodeStatement(w *statementWire) (*ast.Statement, error) {
	pat, err := decodePattern(w.Pattern)
	if err != nil {
		return nil, err
	}
	e, err := decodeExpr(w.Expr)
	if err != nil {
		return nil, err
	}
	return &ast.Statement{Pattern: pat, Expr: e, Pos: w.Pos}, nil
}

type componentWire struct {
	Name       string            `json:"name"`
	Inputs     []paramDeclWire   `json:"inputs,omitempty"`
	Outputs    []paramDeclWire   `json:"outputs,omitempty"`
	Statements []statementWire   `json:"statements,omitempty"`
	Contract   []json.RawMessage `json:"contract,omitempty"`
	Pos        ast.Pos           `json:"pos"`
}

func encodeComponent(c *ast.ComponentDecl) (*componentWire, error) {
	inputs, err := encodeParams(c.Inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := encodeParams(c.Outputs)
	if err != nil {
		return nil, err
	}
	w := &componentWire{Name: c.Name, Inputs: inputs, Outputs: outputs, Pos: c.Pos}
	for _, s := range c.Statements {
		es, err := encodeStatement(s)
		if err != nil {
			return nil, err
		}
		w.Statements = append(w.Statements, *es)
	}
	for _, ce := range c.Contract {
		e, err := encodeExpr(ce)
		if err != nil {
			return nil, err
		}
		w.Contract = append(w.Contract, e)
	}
	return w, nil
}

func decodeComponent(w *componentWire) (*ast.ComponentDecl, error) {
	inputs, err := decodeParams(w.Inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := decodeParams(w.Outputs)
	if err != nil {
		return nil, err
	}
	c := &ast.ComponentDecl{Name: w.Name, Inputs: inputs, Outputs: outputs, Pos: w.Pos}
	for i := range w.Statements {
		s, err := decodeStatement(&w.Statements[i])
		if err != nil {
			return nil, err
		}
		c.Statements = append(c.Statements, s)
	}
	for _, raw := range w.Contract {
		e, err := decodeExpr(raw)
		if err != nil {
			return nil, err
		}
		c.Contract = append(c.Contract, e)
	}
	return c, nil
}

// --- Service ---

type importDeclWire struct {
	IsEvent bool            `json:"is_event"`
	Path    string          `json:"path"`
	Type    json.RawMessage `json:"type"`
	Pos     ast.Pos         `json:"pos"`
}

type exportDeclWire struct {
	IsEvent bool    `json:"is_event"`
	Path    string  `json:"path"`
	Local   string  `json:"local"`
	Pos     ast.Pos `json:"pos"`
}

type flowStatementWire struct {
	Pattern json.RawMessage `json:"pattern"`
	Flow    json.RawMessage `json:"flow"`
	Pos     ast.Pos         `json:"pos"`
}

type serviceDeclWire struct {
	Imports []importDeclWire    `json:"imports,omitempty"`
	Exports []exportDeclWire    `json:"exports,omitempty"`
	Flows   []flowStatementWire `json:"flows,omitempty"`
	Pos     ast.Pos             `json:"pos"`
}

func encodeServiceDecl(s *ast.ServiceDecl) (*serviceDeclWire, error) {
	w := &serviceDeclWire{Pos: s.Pos}
	for _, im := range s.Imports {
		t, err := encodeTypeExpr(im.Type)
		if err != nil {
			return nil, err
		}
		w.Imports = append(w.Imports, importDeclWire{IsEvent: im.IsEvent, Path: im.Path, Type: t, Pos: im.Pos})
	}
	for _, ex := range s.Exports {
		w.Exports = append(w.Exports, exportDeclWire{IsEvent: ex.IsEvent, Path: ex.Path, Local: ex.Local, Pos: ex.Pos})
	}
	for _, fs := range s.Flows {
		pat, err := encodePattern(fs.Pattern)
		if err != nil {
			return nil, err
		}
		flow, err := encodeFlowExpr(fs.Flow)
		if err != nil {
			return nil, err
		}
		w.Flows = append(w.Flows, flowStatementWire{Pattern: pat, Flow: flow, Pos: fs.Pos})
	}
	return w, nil
}

func decodeServiceDecl(w *serviceDeclWire) (*ast.ServiceDecl, error) {
	s := &ast.ServiceDecl{Pos: w.Pos}
	for _, im := range w.Imports {
		t, err := decodeTypeExpr(im.Type)
		if err != nil {
			return nil, err
		}
		s.Imports = append(s.Imports, &ast.ImportDecl{IsEvent: im.IsEvent, Path: im.Path, Type: t, Pos: im.Pos})
	}
	for _, ex := range w.Exports {
		s.Exports = append(s.Exports, &ast.ExportDecl{IsEvent: ex.IsEvent, Path: ex.Path, Local: ex.Local, Pos: ex.Pos})
	}
	for _, fs := range w.Flows {
		pat, err := decodePattern(fs.Pattern)
		if err != nil {
			return nil, err
		}
		flow, err := decodeFlowExpr(fs.Flow)
		if err != nil {
			return nil, err
		}
		s.Flows = append(s.Flows, &ast.FlowStatement{Pattern: pat, Flow: flow, Pos: fs.Pos})
	}
	return s, nil
}

// --- Expr ---

func encodeExpr(e ast.Expr) (json.RawMessage, error) {
	if e == nil {
		return nil, nil
	}
	switch v := e.(type) {
	case *ast.Ident:
		return pack("ident", struct {
			Name string  `json:"name"`
			Pos  ast.Pos `json:"pos"`
		}{v.Name, v.Pos})
	case *ast.Literal:
		return pack("lit", v)
	case *ast.Binop:
		left, err := encodeExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := encodeExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return pack("binop", struct {
			Op    ast.BinOp       `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
			Pos   ast.Pos         `json:"pos"`
		}{v.Op, left, right, v.Pos})
	case *ast.Unop:
		inner, err := encodeExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return pack("unop", struct {
			Op   ast.UnOp        `json:"op"`
			Expr json.RawMessage `json:"expr"`
			Pos  ast.Pos         `json:"pos"`
		}{v.Op, inner, v.Pos})
	case *ast.IfThenElse:
		cond, err := encodeExpr(v.Cond)
		if err != nil {
			return nil, err
		}
		then, err := encodeExpr(v.Then)
		if err != nil {
			return nil, err
		}
		els, err := encodeExpr(v.Else)
		if err != nil {
			return nil, err
		}
		return pack("if", struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
			Pos  ast.Pos         `json:"pos"`
		}{cond, then, els, v.Pos})
	case *ast.Application:
		fn, err := encodeExpr(v.Fn)
		if err != nil {
			return nil, err
		}
		args, err := encodeExprList(v.Args)
		if err != nil {
			return nil, err
		}
		return pack("app", struct {
			Fn   json.RawMessage   `json:"fn"`
			Args []json.RawMessage `json:"args"`
			Pos  ast.Pos           `json:"pos"`
		}{fn, args, v.Pos})
	case *ast.Array:
		elems, err := encodeExprList(v.Elems)
		if err != nil {
			return nil, err
		}
		return pack("array", struct {
			Elems []json.RawMessage `json:"elems"`
			Pos   ast.Pos           `json:"pos"`
		}{elems, v.Pos})
	case *ast.Tuple:
		elems, err := encodeExprList(v.Elems)
		if err != nil {
			return nil, err
		}
		return pack("tuple", struct {
			Elems []json.RawMessage `json:"elems"`
			Pos   ast.Pos           `json:"pos"`
		}{elems, v.Pos})
	case *ast.TupleElem:
		tup, err := encodeExpr(v.Tuple)
		if err != nil {
			return nil, err
		}
		return pack("tupleElem", struct {
			Tuple json.RawMessage `json:"tuple"`
			Index int             `json:"index"`
			Pos   ast.Pos         `json:"pos"`
		}{tup, v.Index, v.Pos})
	case *ast.FieldAccess:
		str, err := encodeExpr(v.Struct)
		if err != nil {
			return nil, err
		}
		return pack("fieldAccess", struct {
			Struct json.RawMessage `json:"struct"`
			Field  string          `json:"field"`
			Pos    ast.Pos         `json:"pos"`
		}{str, v.Field, v.Pos})
	case *ast.Structure:
		fields := make([]struct {
			Field string          `json:"field"`
			Value json.RawMessage `json:"value"`
		}, 0, len(v.Fields))
		for _, f := range v.Fields {
			val, err := encodeExpr(f.Value)
			if err != nil {
				return nil, err
			}
			fields = append(fields, struct {
				Field string          `json:"field"`
				Value json.RawMessage `json:"value"`
			}{f.Field, val})
		}
		return pack("struct", struct {
			Typedef string `json:"typedef"`
			Fields  []struct {
				Field string          `json:"field"`
				Value json.RawMessage `json:"value"`
			} `json:"fields"`
			Pos ast.Pos `json:"pos"`
		}{v.Typedef, fields, v.Pos})
	case *ast.Enumeration:
		return pack("enum", v)
	case *ast.Map:
		arr, err := encodeExpr(v.Arr)
		if err != nil {
			return nil, err
		}
		fn, err := encodeExpr(v.Fn)
		if err != nil {
			return nil, err
		}
		return pack("map", struct {
			Arr json.RawMessage `json:"arr"`
			Fn  json.RawMessage `json:"fn"`
			Pos ast.Pos         `json:"pos"`
		}{arr, fn, v.Pos})
	case *ast.Sort:
		arr, err := encodeExpr(v.Arr)
		if err != nil {
			return nil, err
		}
		cmp, err := encodeExpr(v.Cmp)
		if err != nil {
			return nil, err
		}
		return pack("sort", struct {
			Arr json.RawMessage `json:"arr"`
			Cmp json.RawMessage `json:"cmp"`
			Pos ast.Pos         `json:"pos"`
		}{arr, cmp, v.Pos})
	case *ast.Fold:
		init, err := encodeExpr(v.Init)
		if err != nil {
			return nil, err
		}
		step, err := encodeExpr(v.Step)
		if err != nil {
			return nil, err
		}
		arr, err := encodeExpr(v.Arr)
		if err != nil {
			return nil, err
		}
		return pack("fold", struct {
			Init json.RawMessage `json:"init"`
			Step json.RawMessage `json:"step"`
			Arr  json.RawMessage `json:"arr"`
			Pos  ast.Pos         `json:"pos"`
		}{init, step, arr, v.Pos})
	case *ast.Zip:
		arrs, err := encodeExprList(v.Arrs)
		if err != nil {
			return nil, err
		}
		return pack("zip", struct {
			Arrs []json.RawMessage `json:"arrs"`
			Pos  ast.Pos           `json:"pos"`
		}{arrs, v.Pos})
	case *ast.When:
		opt, err := encodeExpr(v.Opt)
		if err != nil {
			return nil, err
		}
		present, err := encodeExpr(v.Present)
		if err != nil {
			return nil, err
		}
		def, err := encodeExpr(v.Default)
		if err != nil {
			return nil, err
		}
		return pack("when", struct {
			Opt     json.RawMessage `json:"opt"`
			Binder  string          `json:"binder"`
			Present json.RawMessage `json:"present"`
			Default json.RawMessage `json:"default"`
			Pos     ast.Pos         `json:"pos"`
		}{opt, v.Binder, present, def, v.Pos})
	case *ast.Pure:
		inner, err := encodeExpr(v.Inner)
		if err != nil {
			return nil, err
		}
		return pack("pure", struct {
			Inner json.RawMessage `json:"inner"`
			Pos   ast.Pos         `json:"pos"`
		}{inner, v.Pos})
	case *ast.FollowedBy:
		init, err := encodeExpr(v.Init)
		if err != nil {
			return nil, err
		}
		next, err := encodeExpr(v.Next)
		if err != nil {
			return nil, err
		}
		return pack("fby", struct {
			Init json.RawMessage `json:"init"`
			Next json.RawMessage `json:"next"`
			Pos  ast.Pos         `json:"pos"`
		}{init, next, v.Pos})
	case *ast.SomeEvent:
		inner, err := encodeExpr(v.Inner)
		if err != nil {
			return nil, err
		}
		return pack("some", struct {
			Inner json.RawMessage `json:"inner"`
			Pos   ast.Pos         `json:"pos"`
		}{inner, v.Pos})
	case *ast.NoneEvent:
		return pack("none", struct {
			Pos ast.Pos `json:"pos"`
		}{v.Pos})
	case *ast.RisingEdge:
		arg, err := encodeExpr(v.Arg)
		if err != nil {
			return nil, err
		}
		return pack("risingEdge", struct {
			Arg json.RawMessage `json:"arg"`
			Pos ast.Pos         `json:"pos"`
		}{arg, v.Pos})
	case *ast.ComponentApply:
		inputs := make([]struct {
			Input string          `json:"input"`
			Value json.RawMessage `json:"value"`
		}, 0, len(v.Inputs))
		for _, in := range v.Inputs {
			val, err := encodeExpr(in.Value)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, struct {
				Input string          `json:"input"`
				Value json.RawMessage `json:"value"`
			}{in.Input, val})
		}
		return pack("componentApply", struct {
			Component      string `json:"component"`
			SelectedOutput string `json:"selected_output,omitempty"`
			Inputs         []struct {
				Input string          `json:"input"`
				Value json.RawMessage `json:"value"`
			} `json:"inputs"`
			Pos ast.Pos `json:"pos"`
		}{v.Component, v.SelectedOutput, inputs, v.Pos})
	default:
		return nil, fmt.Errorf("astjson: unhandled expr type %T", e)
	}
}

func encodeExprList(es []ast.Expr) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(es))
	for _, e := range es {
		raw, err := encodeExpr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func decodeExprList(raws []json.RawMessage) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(raws))
	for _, raw := range raws {
		e, err := decodeExpr(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeExpr(raw json.RawMessage) (ast.Expr, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	env, err := unpackEnvelope(raw)
	if err != nil {
		return nil, err
	}
	switch env.Kind {
	case "ident":
		var w struct {
			Name string  `json:"name"`
			Pos  ast.Pos `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		return &ast.Ident{Name: w.Name, Pos: w.Pos}, nil
	case "lit":
		var lit ast.Literal
		if err := json.Unmarshal(env.Data, &lit); err != nil {
			return nil, err
		}
		return &lit, nil
	case "binop":
		var w struct {
			Op    ast.BinOp       `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
			Pos   ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		left, err := decodeExpr(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(w.Right)
		if err != nil {
			return nil, err
		}
		return &ast.Binop{Op: w.Op, Left: left, Right: right, Pos: w.Pos}, nil
	case "unop":
		var w struct {
			Op   ast.UnOp        `json:"op"`
			Expr json.RawMessage `json:"expr"`
			Pos  ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(w.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.Unop{Op: w.Op, Expr: inner, Pos: w.Pos}, nil
	case "if":
		var w struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
			Pos  ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(w.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeExpr(w.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeExpr(w.Else)
		if err != nil {
			return nil, err
		}
		return &ast.IfThenElse{Cond: cond, Then: then, Else: els, Pos: w.Pos}, nil
	case "app":
		var w struct {
			Fn   json.RawMessage   `json:"fn"`
			Args []json.RawMessage `json:"args"`
			Pos  ast.Pos           `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		fn, err := decodeExpr(w.Fn)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprList(w.Args)
		if err != nil {
			return nil, err
		}
		return &ast.Application{Fn: fn, Args: args, Pos: w.Pos}, nil
	case "array":
		var w struct {
			Elems []json.RawMessage `json:"elems"`
			Pos   ast.Pos           `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		elems, err := decodeExprList(w.Elems)
		if err != nil {
			return nil, err
		}
		return &ast.Array{Elems: elems, Pos: w.Pos}, nil
	case "tuple":
		var w struct {
			Elems []json.RawMessage `json:"elems"`
			Pos   ast.Pos           `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		elems, err := decodeExprList(w.Elems)
		if err != nil {
			return nil, err
		}
		return &ast.Tuple{Elems: elems, Pos: w.Pos}, nil
	case "tupleElem":
		var w struct {
			Tuple json.RawMessage `json:"tuple"`
			Index int             `json:"index"`
			Pos   ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		tup, err := decodeExpr(w.Tuple)
		if err != nil {
			return nil, err
		}
		return &ast.TupleElem{Tuple: tup, Index: w.Index, Pos: w.Pos}, nil
	case "fieldAccess":
		var w struct {
			Struct json.RawMessage `json:"struct"`
			Field  string          `json:"field"`
			Pos    ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		str, err := decodeExpr(w.Struct)
		if err != nil {
			return nil, err
		}
		return &ast.FieldAccess{Struct: str, Field: w.Field, Pos: w.Pos}, nil
	case "struct":
		var w struct {
			Typedef string `json:"typedef"`
			Fields  []struct {
				Field string          `json:"field"`
				Value json.RawMessage `json:"value"`
			} `json:"fields"`
			Pos ast.Pos `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		s := &ast.Structure{Typedef: w.Typedef, Pos: w.Pos}
		for _, f := range w.Fields {
			val, err := decodeExpr(f.Value)
			if err != nil {
				return nil, err
			}
			s.Fields = append(s.Fields, ast.StructFieldInit{Field: f.Field, Value: val})
		}
		return s, nil
	case "enum":
		var e ast.Enumeration
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	case "map":
		var w struct {
			Arr json.RawMessage `json:"arr"`
			Fn  json.RawMessage `json:"fn"`
			Pos ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		arr, err := decodeExpr(w.Arr)
		if err != nil {
			return nil, err
		}
		fn, err := decodeExpr(w.Fn)
		if err != nil {
			return nil, err
		}
		return &ast.Map{Arr: arr, Fn: fn, Pos: w.Pos}, nil
	case "sort":
		var w struct {
			Arr json.RawMessage `json:"arr"`
			Cmp json.RawMessage `json:"cmp"`
			Pos ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		arr, err := decodeExpr(w.Arr)
		if err != nil {
			return nil, err
		}
		cmp, err := decodeExpr(w.Cmp)
		if err != nil {
			return nil, err
		}
		return &ast.Sort{Arr: arr, Cmp: cmp, Pos: w.Pos}, nil
	case "fold":
		var w struct {
			Init json.RawMessage `json:"init"`
			Step json.RawMessage `json:"step"`
			Arr  json.RawMessage `json:"arr"`
			Pos  ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		init, err := decodeExpr(w.Init)
		if err != nil {
			return nil, err
		}
		step, err := decodeExpr(w.Step)
		if err != nil {
			return nil, err
		}
		arr, err := decodeExpr(w.Arr)
		if err != nil {
			return nil, err
		}
		return &ast.Fold{Init: init, Step: step, Arr: arr, Pos: w.Pos}, nil
	case "zip":
		var w struct {
			Arrs []json.RawMessage `json:"arrs"`
			Pos  ast.Pos           `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		arrs, err := decodeExprList(w.Arrs)
		if err != nil {
			return nil, err
		}
		return &ast.Zip{Arrs: arrs, Pos: w.Pos}, nil
	case "when":
		var w struct {
			Opt     json.RawMessage `json:"opt"`
			Binder  string          `json:"binder"`
			Present json.RawMessage `json:"present"`
			Default json.RawMessage `json:"default"`
			Pos     ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		opt, err := decodeExpr(w.Opt)
		if err != nil {
			return nil, err
		}
		present, err := decodeExpr(w.Present)
		if err != nil {
			return nil, err
		}
		def, err := decodeExpr(w.Default)
		if err != nil {
			return nil, err
		}
		return &ast.When{Opt: opt, Binder: w.Binder, Present: present, Default: def, Pos: w.Pos}, nil
	case "pure":
		var w struct {
			Inner json.RawMessage `json:"inner"`
			Pos   ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(w.Inner)
		if err != nil {
			return nil, err
		}
		return &ast.Pure{Inner: inner, Pos: w.Pos}, nil
	case "fby":
		var w struct {
			Init json.RawMessage `json:"init"`
			Next json.RawMessage `json:"next"`
			Pos  ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		init, err := decodeExpr(w.Init)
		if err != nil {
			return nil, err
		}
		next, err := decodeExpr(w.Next)
		if err != nil {
			return nil, err
		}
		nextIdent, ok := next.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("astjson: fby.next must decode to an ident, got %T", next)
		}
		return &ast.FollowedBy{Init: init, Next: nextIdent, Pos: w.Pos}, nil
	case "some":
		var w struct {
			Inner json.RawMessage `json:"inner"`
			Pos   ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(w.Inner)
		if err != nil {
			return nil, err
		}
		return &ast.SomeEvent{Inner: inner, Pos: w.Pos}, nil
	case "none":
		var w struct {
			Pos ast.Pos `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		return &ast.NoneEvent{Pos: w.Pos}, nil
	case "risingEdge":
		var w struct {
			Arg json.RawMessage `json:"arg"`
			Pos ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		arg, err := decodeExpr(w.Arg)
		if err != nil {
			return nil, err
		}
		return &ast.RisingEdge{Arg: arg, Pos: w.Pos}, nil
	case "componentApply":
		var w struct {
			Component      string `json:"component"`
			SelectedOutput string `json:"selected_output,omitempty"`
			Inputs         []struct {
				Input string          `json:"input"`
				Value json.RawMessage `json:"value"`
			} `json:"inputs"`
			Pos ast.Pos `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		ca := &ast.ComponentApply{Component: w.Component, SelectedOutput: w.SelectedOutput, Pos: w.Pos}
		for _, in := range w.Inputs {
			val, err := decodeExpr(in.Value)
			if err != nil {
				return nil, err
			}
			ca.Inputs = append(ca.Inputs, ast.ComponentArg{Input: in.Input, Value: val})
		}
		return ca, nil
	default:
		return nil, fmt.Errorf("astjson: unknown expr kind %q", env.Kind)
	}
}

// --- Pattern ---

func encodePattern(p ast.Pattern) (json.RawMessage, error) {
	if p == nil {
		return nil, nil
	}
	switch v := p.(type) {
	case *ast.Ident:
		return pack("ident", struct {
			Name string  `json:"name"`
			Pos  ast.Pos `json:"pos"`
		}{v.Name, v.Pos})
	case *ast.TypedIdent:
		t, err := encodeTypeExpr(v.Type)
		if err != nil {
			return nil, err
		}
		return pack("typedIdent", struct {
			Name string          `json:"name"`
			Type json.RawMessage `json:"type"`
			Pos  ast.Pos         `json:"pos"`
		}{v.Name, t, v.Pos})
	case *ast.TuplePattern:
		elems := make([]json.RawMessage, 0, len(v.Elems))
		for _, e := range v.Elems {
			raw, err := encodePattern(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, raw)
		}
		return pack("tuplePattern", struct {
			Elems []json.RawMessage `json:"elems"`
			Pos   ast.Pos           `json:"pos"`
		}{elems, v.Pos})
	case *ast.SomePattern:
		inner, err := encodePattern(v.Inner)
		if err != nil {
			return nil, err
		}
		return pack("somePattern", struct {
			Inner json.RawMessage `json:"inner"`
			Pos   ast.Pos         `json:"pos"`
		}{inner, v.Pos})
	case *ast.NonePattern:
		return pack("nonePattern", struct {
			Pos ast.Pos `json:"pos"`
		}{v.Pos})
	default:
		return nil, fmt.Errorf("astjson: unhandled pattern type %T", p)
	}
}

func decodePattern(raw json.RawMessage) (ast.Pattern, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	env, err := unpackEnvelope(raw)
	if err != nil {
		return nil, err
	}
	switch env.Kind {
	case "ident":
		var w struct {
			Name string  `json:"name"`
			Pos  ast.Pos `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		return &ast.Ident{Name: w.Name, Pos: w.Pos}, nil
	case "typedIdent":
		var w struct {
			Name string          `json:"name"`
			Type json.RawMessage `json:"type"`
			Pos  ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		t, err := decodeTypeExpr(w.Type)
		if err != nil {
			return nil, err
		}
		return &ast.TypedIdent{Name: w.Name, Type: t, Pos: w.Pos}, nil
	case "tuplePattern":
		var w struct {
			Elems []json.RawMessage `json:"elems"`
			Pos   ast.Pos           `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		tp := &ast.TuplePattern{Pos: w.Pos}
		for _, raw := range w.Elems {
			e, err := decodePattern(raw)
			if err != nil {
				return nil, err
			}
			tp.Elems = append(tp.Elems, e)
		}
		return tp, nil
	case "somePattern":
		var w struct {
			Inner json.RawMessage `json:"inner"`
			Pos   ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		inner, err := decodePattern(w.Inner)
		if err != nil {
			return nil, err
		}
		return &ast.SomePattern{Inner: inner, Pos: w.Pos}, nil
	case "nonePattern":
		var w struct {
			Pos ast.Pos `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		return &ast.NonePattern{Pos: w.Pos}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown pattern kind %q", env.Kind)
	}
}

// --- TypeExpr ---

func encodeTypeExpr(t ast.TypeExpr) (json.RawMessage, error) {
	if t == nil {
		return nil, nil
	}
	switch v := t.(type) {
	case *ast.NamedType:
		return pack("named", v)
	case *ast.ArrayType:
		elem, err := encodeTypeExpr(v.Elem)
		if err != nil {
			return nil, err
		}
		return pack("array", struct {
			Elem json.RawMessage `json:"elem"`
			Size int             `json:"size"`
			Pos  ast.Pos         `json:"pos"`
		}{elem, v.Size, v.Pos})
	case *ast.TupleType:
		elems := make([]json.RawMessage, 0, len(v.Elems))
		for _, e := range v.Elems {
			raw, err := encodeTypeExpr(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, raw)
		}
		return pack("tuple", struct {
			Elems []json.RawMessage `json:"elems"`
			Pos   ast.Pos           `json:"pos"`
		}{elems, v.Pos})
	case *ast.OptionType:
		elem, err := encodeTypeExpr(v.Elem)
		if err != nil {
			return nil, err
		}
		return pack("option", struct {
			Elem json.RawMessage `json:"elem"`
			Pos  ast.Pos         `json:"pos"`
		}{elem, v.Pos})
	case *ast.FuncType:
		params := make([]json.RawMessage, 0, len(v.Params))
		for _, p := range v.Params {
			raw, err := encodeTypeExpr(p)
			if err != nil {
				return nil, err
			}
			params = append(params, raw)
		}
		result, err := encodeTypeExpr(v.Result)
		if err != nil {
			return nil, err
		}
		return pack("func", struct {
			Params []json.RawMessage `json:"params"`
			Result json.RawMessage   `json:"result"`
			Pos    ast.Pos           `json:"pos"`
		}{params, result, v.Pos})
	default:
		return nil, fmt.Errorf("astjson: unhandled type expr %T", t)
	}
}

func decodeTypeExpr(raw json.RawMessage) (ast.TypeExpr, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	env, err := unpackEnvelope(raw)
	if err != nil {
		return nil, err
	}
	switch env.Kind {
	case "named":
		var nt ast.NamedType
		if err := json.Unmarshal(env.Data, &nt); err != nil {
			return nil, err
		}
		return &nt, nil
	case "array":
		var w struct {
			Elem json.RawMessage `json:"elem"`
			Size int             `json:"size"`
			Pos  ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		elem, err := decodeTypeExpr(w.Elem)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayType{Elem: elem, Size: w.Size, Pos: w.Pos}, nil
	case "tuple":
		var w struct {
			Elems []json.RawMessage `json:"elems"`
			Pos   ast.Pos           `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		tt := &ast.TupleType{Pos: w.Pos}
		for _, raw := range w.Elems {
			e, err := decodeTypeExpr(raw)
			if err != nil {
				return nil, err
			}
			tt.Elems = append(tt.Elems, e)
		}
		return tt, nil
	case "option":
		var w struct {
			Elem json.RawMessage `json:"elem"`
			Pos  ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		elem, err := decodeTypeExpr(w.Elem)
		if err != nil {
			return nil, err
		}
		return &ast.OptionType{Elem: elem, Pos: w.Pos}, nil
	case "func":
		var w struct {
			Params []json.RawMessage `json:"params"`
			Result json.RawMessage   `json:"result"`
			Pos    ast.Pos           `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		ft := &ast.FuncType{Pos: w.Pos}
		for _, raw := range w.Params {
			p, err := decodeTypeExpr(raw)
			if err != nil {
				return nil, err
			}
			ft.Params = append(ft.Params, p)
		}
		result, err := decodeTypeExpr(w.Result)
		if err != nil {
			return nil, err
		}
		ft.Result = result
		return ft, nil
	default:
		return nil, fmt.Errorf("astjson: unknown type expr kind %q", env.Kind)
	}
}

// --- FlowExpr ---

func encodeFlowExpr(f ast.FlowExpr) (json.RawMessage, error) {
	if f == nil {
		return nil, nil
	}
	switch v := f.(type) {
	case *ast.FlowComponentApply:
		inputs := make([]struct {
			Input string          `json:"input"`
			Value json.RawMessage `json:"value"`
		}, 0, len(v.Inputs))
		for _, in := range v.Inputs {
			val, err := encodeExpr(in.Value)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, struct {
				Input string          `json:"input"`
				Value json.RawMessage `json:"value"`
			}{in.Input, val})
		}
		return pack("flowComponentApply", struct {
			Component string `json:"component"`
			Inputs    []struct {
				Input string          `json:"input"`
				Value json.RawMessage `json:"value"`
			} `json:"inputs"`
			Pos ast.Pos `json:"pos"`
		}{v.Component, inputs, v.Pos})
	case *ast.FlowOp:
		source, err := encodeFlowExpr(v.Source)
		if err != nil {
			return nil, err
		}
		var other json.RawMessage
		if v.Other != nil {
			other, err = encodeFlowExpr(v.Other)
			if err != nil {
				return nil, err
			}
		}
		return pack("flowOp", struct {
			Kind     ast.FlowOpKind  `json:"kind"`
			Source   json.RawMessage `json:"source"`
			Other    json.RawMessage `json:"other,omitempty"`
			Duration int64           `json:"duration,omitempty"`
			Pos      ast.Pos         `json:"pos"`
		}{v.Kind, source, other, v.Duration, v.Pos})
	case *ast.FlowIdent:
		return pack("flowIdent", v)
	default:
		return nil, fmt.Errorf("astjson: unhandled flow expr %T", f)
	}
}

func decodeFlowExpr(raw json.RawMessage) (ast.FlowExpr, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	env, err := unpackEnvelope(raw)
	if err != nil {
		return nil, err
	}
	switch env.Kind {
	case "flowComponentApply":
		var w struct {
			Component string `json:"component"`
			Inputs    []struct {
				Input string          `json:"input"`
				Value json.RawMessage `json:"value"`
			} `json:"inputs"`
			Pos ast.Pos `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		fca := &ast.FlowComponentApply{Component: w.Component, Pos: w.Pos}
		for _, in := range w.Inputs {
			val, err := decodeExpr(in.Value)
			if err != nil {
				return nil, err
			}
			fca.Inputs = append(fca.Inputs, ast.ComponentArg{Input: in.Input, Value: val})
		}
		return fca, nil
	case "flowOp":
		var w struct {
			Kind     ast.FlowOpKind  `json:"kind"`
			Source   json.RawMessage `json:"source"`
			Other    json.RawMessage `json:"other,omitempty"`
			Duration int64           `json:"duration,omitempty"`
			Pos      ast.Pos         `json:"pos"`
		}
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, err
		}
		source, err := decodeFlowExpr(w.Source)
		if err != nil {
			return nil, err
		}
		var other ast.FlowExpr
		if len(w.Other) > 0 {
			other, err = decodeFlowExpr(w.Other)
			if err != nil {
				return nil, err
			}
		}
		return &ast.FlowOp{Kind: w.Kind, Source: source, Other: other, Duration: w.Duration, Pos: w.Pos}, nil
	case "flowIdent":
		var fi ast.FlowIdent
		if err := json.Unmarshal(env.Data, &fi); err != nil {
			return nil, err
		}
		return &fi, nil
	default:
		return nil, fmt.Errorf("astjson: unknown flow expr kind %q", env.Kind)
	}
}
