package template

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Accessor resolves member accesses without reflection. A type that
// implements it is authoritative: a false return reports the member as
// absent and no reflective lookup happens.
type Accessor interface {
	Member(name string) (any, bool)
}

// Caller resolves method calls without reflection. found reports whether
// a method with that name accepted the arguments; when found is false
// err is ignored. A non-nil err with found true is a failure of the
// method itself.
type Caller interface {
	CallMethod(name string, args []any) (result any, found bool, err error)
}

// Indexer resolves index accesses without reflection. A false return
// reports the key as absent or out of range.
type Indexer interface {
	Index(key any) (any, bool)
}

// evalRef resolves a reference chain left to right: the base variable
// against the context, then each suffix against the previous result.
func evalRef(ref Reference, ctx *Context) (any, error) {
	switch r := ref.(type) {
	case *PlainRef:
		v, ok := ctx.Value(r.Name)
		if !ok {
			return nil, &EvalError{Kind: EvalUndefinedVariable, Name: r.Name}
		}
		return v, nil
	case *MemberRef:
		recv, err := evalRef(r.LHS, ctx)
		if err != nil {
			return nil, err
		}
		return evalMember(recv, r.Name)
	case *MethodRef:
		recv, err := evalRef(r.LHS, ctx)
		if err != nil {
			return nil, err
		}
		args := make([]any, len(r.Args))
		for i, arg := range r.Args {
			v, err := evalExpr(arg, ctx)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return evalMethod(recv, r.Name, args)
	case *IndexRef:
		recv, err := evalRef(r.LHS, ctx)
		if err != nil {
			return nil, err
		}
		key, err := evalExpr(r.Index, ctx)
		if err != nil {
			return nil, err
		}
		return evalIndex(recv, key)
	}
	return nil, fmt.Errorf("template: unhandled reference node %T", ref)
}

// evalExpr resolves an argument or index expression to a value.
func evalExpr(expr Expr, ctx *Context) (any, error) {
	switch e := expr.(type) {
	case *StringLit:
		return e.Value, nil
	case *IntLit:
		return e.Value, nil
	case *BoolLit:
		return e.Value, nil
	case Reference:
		return evalRef(e, ctx)
	}
	return nil, fmt.Errorf("template: unhandled expression node %T", expr)
}

// evalMember resolves a named member: the Accessor capability when the
// receiver implements it, then exported struct fields, string-keyed map
// entries, and finally argument-free methods.
func evalMember(recv any, name string) (any, error) {
	if recv == nil {
		return nil, &EvalError{Kind: EvalNoSuchMember, Name: name, Receiver: "nil"}
	}
	if acc, ok := recv.(Accessor); ok {
		if v, ok := acc.Member(name); ok {
			return v, nil
		}
		return nil, &EvalError{Kind: EvalNoSuchMember, Name: name, Receiver: typeName(recv)}
	}

	v := reflect.ValueOf(recv)
	elem, ok := indirect(v)
	if !ok {
		return nil, &EvalError{Kind: EvalNoSuchMember, Name: name, Receiver: typeName(recv)}
	}

	switch elem.Kind() {
	case reflect.Struct:
		if field := elem.FieldByName(name); field.IsValid() && field.CanInterface() {
			return field.Interface(), nil
		}
	case reflect.Map:
		if elem.Type().Key().Kind() == reflect.String {
			entry := elem.MapIndex(reflect.ValueOf(name).Convert(elem.Type().Key()))
			if entry.IsValid() {
				return entry.Interface(), nil
			}
		}
	}

	// a niladic method doubles as a property
	if m := methodByName(v, name); m.IsValid() {
		if out, matched, err := callMethod(m, nil); matched {
			if err != nil {
				return nil, &EvalError{Kind: EvalCallFailed, Name: name, Receiver: typeName(recv), Err: err}
			}
			return out, nil
		}
	}

	return nil, &EvalError{Kind: EvalNoSuchMember, Name: name, Receiver: typeName(recv)}
}

// evalMethod resolves and calls a named method. Arguments were evaluated
// left to right before resolution, so compatibility is checked against
// concrete values.
func evalMethod(recv any, name string, args []any) (any, error) {
	if recv == nil {
		return nil, &EvalError{Kind: EvalNoSuchMethod, Name: name, Receiver: "nil"}
	}
	if caller, ok := recv.(Caller); ok {
		out, found, err := caller.CallMethod(name, args)
		if !found {
			return nil, &EvalError{Kind: EvalNoSuchMethod, Name: name, Receiver: typeName(recv)}
		}
		if err != nil {
			return nil, &EvalError{Kind: EvalCallFailed, Name: name, Receiver: typeName(recv), Err: err}
		}
		return out, nil
	}

	m := methodByName(reflect.ValueOf(recv), name)
	if !m.IsValid() {
		return nil, &EvalError{Kind: EvalNoSuchMethod, Name: name, Receiver: typeName(recv)}
	}
	out, matched, err := callMethod(m, args)
	if !matched {
		return nil, &EvalError{Kind: EvalNoSuchMethod, Name: name, Receiver: typeName(recv)}
	}
	if err != nil {
		return nil, &EvalError{Kind: EvalCallFailed, Name: name, Receiver: typeName(recv), Err: err}
	}
	return out, nil
}

// evalIndex resolves an index access: the Indexer capability first, then
// integer positions on slices, arrays, and strings (by rune), and keys
// on maps.
func evalIndex(recv, key any) (any, error) {
	fail := func(receiver string) *EvalError {
		return &EvalError{Kind: EvalBadIndex, Name: indexText(key), Receiver: receiver}
	}
	if recv == nil {
		return nil, fail("nil")
	}
	if indexer, ok := recv.(Indexer); ok {
		if v, ok := indexer.Index(key); ok {
			return v, nil
		}
		return nil, fail(typeName(recv))
	}

	elem, ok := indirect(reflect.ValueOf(recv))
	if !ok {
		return nil, fail(typeName(recv))
	}

	switch elem.Kind() {
	case reflect.Slice, reflect.Array:
		i, ok := toInt(key)
		if !ok || i < 0 || i >= int64(elem.Len()) {
			return nil, fail(typeName(recv))
		}
		return elem.Index(int(i)).Interface(), nil
	case reflect.String:
		i, ok := toInt(key)
		if !ok || i < 0 {
			return nil, fail(typeName(recv))
		}
		n := int64(0)
		for _, r := range elem.String() {
			if n == i {
				return string(r), nil
			}
			n++
		}
		return nil, fail(typeName(recv))
	case reflect.Map:
		kv, ok := coerceValue(key, elem.Type().Key())
		if !ok {
			return nil, fail(typeName(recv))
		}
		entry := elem.MapIndex(kv)
		if !entry.IsValid() {
			return nil, fail(typeName(recv))
		}
		return entry.Interface(), nil
	}
	return nil, fail(typeName(recv))
}

// indirect walks pointers and interfaces down to the concrete value. A
// false return means a nil link was hit on the way.
func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v, false
		}
		v = v.Elem()
	}
	return v, true
}

// methodByName looks the method up on the value, then on an addressable
// copy so that pointer-receiver methods resolve for values bound by
// value.
func methodByName(v reflect.Value, name string) reflect.Value {
	if !v.IsValid() {
		return reflect.Value{}
	}
	if m := v.MethodByName(name); m.IsValid() {
		return m
	}
	if v.Kind() != reflect.Pointer && v.CanInterface() {
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		if m := p.MethodByName(name); m.IsValid() {
			return m
		}
	}
	return reflect.Value{}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// callMethod invokes fn when the argument list and return shape fit. The
// method must return one value, or one value and an error; a trailing
// error propagates to the render call. matched reports whether fn was
// callable with these arguments at all.
func callMethod(fn reflect.Value, args []any) (any, bool, error) {
	t := fn.Type()
	if t.NumOut() < 1 || t.NumOut() > 2 {
		return nil, false, nil
	}
	if t.NumOut() == 2 && t.Out(1) != errorType {
		return nil, false, nil
	}
	in, ok := coerceArgs(t, args)
	if !ok {
		return nil, false, nil
	}
	out, err := safeCall(fn, in)
	if err != nil {
		return nil, true, err
	}
	if len(out) == 2 && !out[1].IsNil() {
		return nil, true, out[1].Interface().(error)
	}
	return out[0].Interface(), true, nil
}

// safeCall recovers a panic from the reflected call and reports it as an
// error.
func safeCall(fn reflect.Value, in []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn.Call(in), nil
}

// coerceArgs shapes evaluated arguments onto the method signature,
// widening across numeric kinds. A false return means the signature does
// not accept this argument list.
func coerceArgs(t reflect.Type, args []any) ([]reflect.Value, bool) {
	n := t.NumIn()
	if t.IsVariadic() {
		if len(args) < n-1 {
			return nil, false
		}
	} else if len(args) != n {
		return nil, false
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var want reflect.Type
		if t.IsVariadic() && i >= n-1 {
			want = t.In(n - 1).Elem()
		} else {
			want = t.In(i)
		}
		v, ok := coerceValue(arg, want)
		if !ok {
			return nil, false
		}
		in[i] = v
	}
	return in, true
}

func coerceValue(arg any, want reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		switch want.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return reflect.Zero(want), true
		}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(want) {
		return v, true
	}
	if isNumericKind(v.Kind()) && isNumericKind(want.Kind()) && v.Type().ConvertibleTo(want) {
		return v.Convert(want), true
	}
	return reflect.Value{}, false
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// toInt widens any integer kind to int64 for positional indexing.
func toInt(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

// indexText renders an index value for diagnostics.
func indexText(key any) string {
	if s, ok := key.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprintf("%v", key)
}

// typeName names a receiver type for diagnostics.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
