package main

import "fmt"

// The expression compiler. Input is the tag-annotated ANF tree; output is a
// flat instruction stream. Results always land in EAX; EBX is scratch; ESI
// holds the heap bump pointer.
//
// Frame layout at body entry:
//
//	[ebp+4]   return address
//	[ebp+8]   self-closure pointer (pushed by the caller after the args)
//	[ebp+12]  first user argument, [ebp+16] second, ...
//	[ebp-4*i] local slot i
//
// Parameters therefore occupy slots -3, -4, ... and the self-closure is
// slot -2.

// Compile compiles a whole normalized program into the entry function's
// instruction stream, prologue and epilogue included. The first instruction
// after the prologue moves the runtime-provided heap pointer into ESI.
func Compile(e Expr) ([]Instruction, error) {
	body, err := compileExpr(EmptyEnv(), e)
	if err != nil {
		return nil, err
	}
	entry := append([]Instruction{Mov{ESI, RegOffset{Base: EBP, Off: 8}}}, body...)
	return Wrap(countVars(e), entry), nil
}

// Wrap surrounds a function body with the prologue and epilogue for n local
// slots. The stack pointer is 16-byte aligned after the local area is
// reserved.
func Wrap(n int, body []Instruction) []Instruction {
	out := []Instruction{
		Push{EBP},
		Mov{EBP, ESP},
		Sub{ESP, Const(int32(4 * n))},
		And{ESP, HexConst(0xFFFFFFF0)},
	}
	out = append(out, body...)
	return append(out,
		Mov{ESP, EBP},
		Pop{EBP},
		Ret{},
	)
}

// slotArg maps an environment slot to its frame address.
func slotArg(slot int) RegOffset {
	if slot > 0 {
		return RegOffset{Base: EBP, Off: int32(-4 * slot)}
	}
	return RegOffset{Base: EBP, Off: int32(4 * -slot)}
}

// immArg resolves an immediate expression to an operand. Reaching either
// error here means an upstream pass misbehaved.
func immArg(env *Env, e Expr) (Arg, error) {
	switch t := e.(type) {
	case *Number:
		return Const(reprNumber(t.Value)), nil
	case *Boolean:
		return HexConst(reprBool(t.Value)), nil
	case *Id:
		slot, ok := env.Lookup(t.Name)
		if !ok {
			return nil, fmt.Errorf("%s: unbound variable %q", t.Tag.Pos, t.Name)
		}
		return slotArg(slot), nil
	default:
		return nil, fmt.Errorf("%s: internal: expected an immediate, found %s", e.ExprTag().Pos, e)
	}
}

// jump constructors passed to condBranch.
func jumpEqual(target Arg) Instruction    { return Je{target} }
func jumpNotEqual(target Arg) Instruction { return Jne{target} }
func jumpLess(target Arg) Instruction     { return Jl{target} }
func jumpGreater(target Arg) Instruction  { return Jg{target} }

// condBranch is the shared two-label branch skeleton: the jump takes the
// true arm, the false arm sits inline.
//
//	j<cc> branch_true_<id>
//	<falseIs>
//	jmp branch_done_<id>
//	branch_true_<id>:
//	<trueIs>
//	branch_done_<id>:
func condBranch(tagID int, jump func(Arg) Instruction, trueIs, falseIs []Instruction) []Instruction {
	trueLabel := fmt.Sprintf("branch_true_%d", tagID)
	doneLabel := fmt.Sprintf("branch_done_%d", tagID)
	out := []Instruction{jump(CodePtr(trueLabel))}
	out = append(out, falseIs...)
	out = append(out, Jmp{CodePtr(doneLabel)}, Label{Name: trueLabel})
	out = append(out, trueIs...)
	return append(out, Label{Name: doneLabel})
}

// boolValue materializes an FDL boolean in EAX from the flags of a
// preceding cmp, using the branch skeleton.
func boolValue(tagID int, jump func(Arg) Instruction) []Instruction {
	return condBranch(tagID, jump,
		[]Instruction{Mov{EAX, HexConst(trueRepr)}},
		[]Instruction{Mov{EAX, HexConst(falseRepr)}},
	)
}

// compileExpr compiles e under env, leaving the result in EAX.
func compileExpr(env *Env, e Expr) ([]Instruction, error) {
	switch t := e.(type) {
	case *Number, *Boolean, *Id:
		arg, err := immArg(env, e)
		if err != nil {
			return nil, err
		}
		return []Instruction{Mov{EAX, arg}}, nil

	case *Let:
		return compileLet(env, t)

	case *If:
		return compileIf(env, t)

	case *Prim1:
		return compilePrim1(env, t)

	case *Prim2:
		return compilePrim2(env, t.Tag.ID, t.Op, t.Left, t.Right)

	case *Tuple:
		return compileTuple(env, t)

	case *GetItem:
		return compileGetItem(env, t)

	case *Lambda:
		return compileClosure(env, "", t.Params, t.Body, t, t.Tag)

	case *Fun:
		return compileClosure(env, t.Name, t.Params, t.Body, t, t.Tag)

	case *App:
		return compileApp(env, t)

	default:
		return nil, fmt.Errorf("%s: internal: unknown expression node %T", e.ExprTag().Pos, e)
	}
}

// compileLet flattens a right-leaning spine of lets and compiles each
// binding in order, extending the environment as it goes. Evaluation is
// strictly left to right.
func compileLet(env *Env, e *Let) ([]Instruction, error) {
	var out []Instruction
	var cur Expr = e
	for {
		let, ok := cur.(*Let)
		if !ok {
			break
		}
		rhsIs, err := compileExpr(env, let.Rhs)
		if err != nil {
			return nil, err
		}
		out = append(out, rhsIs...)
		var slot int
		slot, env = env.Push(let.Name)
		out = append(out, Mov{slotArg(slot), EAX})
		cur = let.Body
	}
	bodyIs, err := compileExpr(env, cur)
	if err != nil {
		return nil, err
	}
	return append(out, bodyIs...), nil
}

// compileIf asserts the test is a boolean, compares it against false and
// branches: equality falls through into the false arm, anything else jumps
// to the true arm.
func compileIf(env *Env, e *If) ([]Instruction, error) {
	condArg, err := immArg(env, e.Cond)
	if err != nil {
		return nil, err
	}
	thenIs, err := compileExpr(env, e.Then)
	if err != nil {
		return nil, err
	}
	elseIs, err := compileExpr(env, e.Else)
	if err != nil {
		return nil, err
	}
	out := assertType(condArg, TBoolean)
	out = append(out, Cmp{EAX, HexConst(falseRepr)})
	return append(out, condBranch(e.Tag.ID, jumpNotEqual, thenIs, elseIs)...), nil
}

func compilePrim1(env *Env, e *Prim1) ([]Instruction, error) {
	switch e.Op {
	case OpAdd1:
		return compilePrim2(env, e.Tag.ID, OpPlus, e.Arg, &Number{Value: 1, Tag: e.Tag})
	case OpSub1:
		return compilePrim2(env, e.Tag.ID, OpMinus, e.Arg, &Number{Value: 1, Tag: e.Tag})
	case OpIsNum, OpIsBool:
		arg, err := immArg(env, e.Arg)
		if err != nil {
			return nil, err
		}
		ty := TNumber
		if e.Op == OpIsBool {
			ty = TBoolean
		}
		return isType(e.Tag.ID, arg, ty), nil
	case OpPrint:
		arg, err := immArg(env, e.Arg)
		if err != nil {
			return nil, err
		}
		return []Instruction{
			Mov{EAX, arg},
			Push{EAX},
			Call{CodePtr("print")},
			Add{ESP, Const(4)},
		}, nil
	default:
		return nil, fmt.Errorf("%s: internal: unknown unary operator %d", e.Tag.Pos, e.Op)
	}
}

func compilePrim2(env *Env, tagID int, op Prim2Op, left, right Expr) ([]Instruction, error) {
	leftArg, err := immArg(env, left)
	if err != nil {
		return nil, err
	}
	rightArg, err := immArg(env, right)
	if err != nil {
		return nil, err
	}
	switch op {
	case OpPlus, OpMinus, OpTimes:
		out := assertType(leftArg, TNumber)
		out = append(out, assertType(rightArg, TNumber)...)
		out = append(out, Mov{EAX, leftArg}, Mov{EBX, rightArg})
		switch op {
		case OpPlus:
			out = append(out, Add{EAX, EBX}, Jo{ErrOverflow})
		case OpMinus:
			out = append(out, Sub{EAX, EBX}, Jo{ErrOverflow})
		case OpTimes:
			// Both operands carry the shift-by-one encoding, so the
			// product is shifted twice; one arithmetic shift corrects it.
			out = append(out, Mul{EAX, EBX}, Jo{ErrOverflow}, Sar{EAX, Const(1)})
		}
		return out, nil
	case OpLess, OpGreater:
		out := assertType(leftArg, TNumber)
		out = append(out, assertType(rightArg, TNumber)...)
		out = append(out, Mov{EAX, leftArg}, Mov{EBX, rightArg}, Cmp{EAX, EBX})
		jump := jumpLess
		if op == OpGreater {
			jump = jumpGreater
		}
		return append(out, boolValue(tagID, jump)...), nil
	case OpEqual:
		// Raw representation equality: encodings of different kinds never
		// collide, so no type assertion is needed.
		return append([]Instruction{
			Mov{EAX, leftArg},
			Mov{EBX, rightArg},
			Cmp{EAX, EBX},
		}, boolValue(tagID, jumpEqual)...), nil
	default:
		return nil, fmt.Errorf("internal: unknown binary operator %d", op)
	}
}

func compileTuple(env *Env, e *Tuple) ([]Instruction, error) {
	k := len(e.Elems)
	fields := make([]Arg, k)
	for i, elem := range e.Elems {
		arg, err := immArg(env, elem)
		if err != nil {
			return nil, err
		}
		fields[i] = arg
	}
	out := tupleAlloc(k)
	out = append(out, tupleWrite(fields, 1)...)
	out = append(out, addPad(k+1)...)
	return append(out, setTag(EAX, TTuple)...), nil
}

func compileGetItem(env *Env, e *GetItem) ([]Instruction, error) {
	tupArg, err := immArg(env, e.Tuple)
	if err != nil {
		return nil, err
	}
	idxArg, err := immArg(env, e.Index)
	if err != nil {
		return nil, err
	}
	out := assertType(tupArg, TTuple)
	out = append(out, assertType(idxArg, TNumber)...)
	out = append(out, assertBounds(tupArg, idxArg)...)
	return append(out,
		Mov{EBX, tupArg},
		Sub{EBX, HexConst(typeTag(TTuple))},
		Mov{EAX, idxArg},
		Sar{EAX, Const(1)},
		Add{EAX, Const(1)},
		Mov{EAX, RegIndex{Base: EBX, Index: EAX}},
	), nil
}

// compileClosure emits a function body out of line, guarded by a jump, then
// allocates the closure record. For named functions (name != "") the
// function itself is reachable inside the body through the self-closure
// slot, which is how recursion works: no cyclic data is ever built.
func compileClosure(env *Env, name string, params []string, body Expr, whole Expr, tag Tag) ([]Instruction, error) {
	captures := freeVars(whole)
	m := len(captures)

	inner := EmptyEnv()
	for i, y := range captures {
		inner = inner.Bind(y, i+1)
	}
	if name != "" {
		inner = inner.Bind(name, -2)
	}
	for i, x := range params {
		inner = inner.Bind(x, -(i + 3))
	}

	var start, end string
	if name != "" {
		start = fmt.Sprintf("def_start_%s_%d", name, tag.ID)
		end = fmt.Sprintf("def_end_%s_%d", name, tag.ID)
	} else {
		start = fmt.Sprintf("lambda_start_%d", tag.ID)
		end = fmt.Sprintf("lambda_end_%d", tag.ID)
	}

	// Restore captures from the self-closure into the leading local slots.
	var restore []Instruction
	if m > 0 {
		restore = append(restore,
			Mov{EBX, RegOffset{Base: EBP, Off: 8}},
			Sub{EBX, HexConst(typeTag(TClosure))},
		)
		for i := 1; i <= m; i++ {
			restore = append(restore,
				Mov{EAX, RegOffset{Base: EBX, Off: int32(4 * (i + 1))}},
				Mov{RegOffset{Base: EBP, Off: int32(-4 * i)}, EAX},
			)
		}
	}

	bodyIs, err := compileExpr(inner, body)
	if err != nil {
		return nil, err
	}

	locals := inner.Max() + countVars(body)
	out := []Instruction{Jmp{CodePtr(end)}, Label{Name: start}}
	out = append(out, Wrap(locals, append(restore, bodyIs...))...)
	out = append(out, Label{Name: end})

	// Capture values are read from the enclosing scope at allocation time.
	captureArgs := make([]Arg, m)
	for i, y := range captures {
		arg, err := immArg(env, &Id{Name: y, Tag: tag})
		if err != nil {
			return nil, err
		}
		captureArgs[i] = arg
	}
	return append(out, closureAlloc(len(params), start, captureArgs)...), nil
}

// compileApp checks the callee is a closure of the right arity, pushes the
// arguments in reverse followed by the closure itself, and calls through
// the stored code address.
func compileApp(env *Env, e *App) ([]Instruction, error) {
	calleeArg, err := immArg(env, e.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]Arg, len(e.Args))
	for i, a := range e.Args {
		arg, err := immArg(env, a)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	out := assertType(calleeArg, TClosure)
	out = append(out, assertArity(calleeArg, len(args))...)
	out = append(out,
		Mov{EBX, calleeArg},
		Sub{EBX, HexConst(typeTag(TClosure))},
		Mov{EAX, RegOffset{Base: EBX, Off: 4}},
	)
	for i := len(args) - 1; i >= 0; i-- {
		out = append(out, Push{args[i]})
	}
	out = append(out, Push{calleeArg})
	out = append(out, Call{EAX})
	return append(out, Add{ESP, Const(int32(4 * (len(args) + 1)))}), nil
}
