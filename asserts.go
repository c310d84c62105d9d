package main

// Dynamic assertions. Every check is a forward conditional jump to one of
// the runtime's named error stubs; control never falls through a failed
// assertion.

// errFor maps a value type to the stub its type assertion jumps to.
func errFor(ty ValueType) RuntimeErr {
	switch ty {
	case TNumber:
		return ErrNonNumber
	case TBoolean:
		return ErrNonBoolean
	case TTuple:
		return ErrNonTuple
	case TClosure:
		return ErrNonClosure
	default:
		return ErrNonNumber
	}
}

// assertType loads v into EAX, masks a scratch copy and jumps to the type
// error stub unless the tag bits match ty. EAX still holds v afterwards.
func assertType(v Arg, ty ValueType) []Instruction {
	return []Instruction{
		Mov{EAX, v},
		Mov{EBX, EAX},
		And{EBX, HexConst(typeMask(ty))},
		Cmp{EBX, HexConst(typeTag(ty))},
		Jne{errFor(ty)},
	}
}

// isType materializes the type test as an FDL boolean in EAX.
func isType(tagID int, v Arg, ty ValueType) []Instruction {
	out := []Instruction{
		Mov{EAX, v},
		And{EAX, HexConst(typeMask(ty))},
		Cmp{EAX, HexConst(typeTag(ty))},
	}
	return append(out, boolValue(tagID, jumpEqual)...)
}

// assertBounds checks an encoded index against a tuple's encoded size word.
// Both comparisons stay in the encoded domain: the shift-left-by-one
// encoding is monotonic, so no decoding is needed. The upper bound rejects
// index >= size.
func assertBounds(tup Arg, idx Arg) []Instruction {
	return []Instruction{
		Mov{EAX, idx},
		Cmp{EAX, Const(0)},
		Jl{ErrIndexLow},
		Mov{EBX, tup},
		Sub{EBX, HexConst(typeTag(TTuple))},
		Cmp{EAX, RegOffset{Base: EBX, Off: 0}},
		Jge{ErrIndexHigh},
	}
}

// assertArity compares a closure's stored arity word against the raw
// argument count of a call site.
func assertArity(clo Arg, n int) []Instruction {
	return []Instruction{
		Mov{EAX, clo},
		Sub{EAX, HexConst(typeTag(TClosure))},
		Cmp{RegOffset{Base: EAX, Off: 0}, Const(int32(n))},
		Jne{ErrArity},
	}
}
