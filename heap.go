package main

// Heap emission. Tuples and closures are carved out of a bump-allocated
// region whose pointer lives in ESI; the runtime points ESI at a writable,
// 8-byte-aligned region before entry. Allocations are rounded up to an even
// number of words so every heap address keeps its low three bits clear for
// the value tag.
//
// Tuple of arity k:           word[0] = k encoded as a number, word[1..k]
// elements, word[k+1] padding.
// Closure of arity a with m captures: word[0] = a raw, word[1] = code
// address, word[2..m+1] captures, word[m+2] padding.

// roundToEven rounds a word count up to the next even number.
func roundToEven(words int) int {
	if words%2 == 1 {
		return words + 1
	}
	return words
}

// tupleAlloc copies the bump pointer into EAX, stores the encoded arity at
// word[0] and advances the bump pointer past the whole (padded) record.
func tupleAlloc(k int) []Instruction {
	return []Instruction{
		Mov{EAX, ESI},
		Mov{RegOffset{Base: EAX, Off: 0}, Const(reprNumber(k))},
		Add{ESI, Const(int32(4 * roundToEven(k+1)))},
	}
}

// tupleWrite stores each field at word[start+i], moving values through the
// scratch register since both source and destination may be memory.
func tupleWrite(fields []Arg, start int) []Instruction {
	var out []Instruction
	for i, f := range fields {
		out = append(out,
			Mov{EBX, f},
			Mov{RegOffset{Base: EAX, Off: int32(4 * (start + i))}, EBX},
		)
	}
	return out
}

// addPad zeroes the word after the last field. When the record is already
// an even number of words the write lands on the first word of the next
// allocation, which its own tupleAlloc overwrites.
func addPad(index int) []Instruction {
	return []Instruction{
		Mov{RegOffset{Base: EAX, Off: int32(4 * index)}, Const(0)},
	}
}

// setTag ors the value tag for ty into reg, turning a raw heap address into
// a tagged value.
func setTag(reg Reg, ty ValueType) []Instruction {
	return []Instruction{
		Or{reg, HexConst(typeTag(ty))},
	}
}

// closureAlloc builds a closure record: raw arity, code address, then the
// captured values in capture order, padded and tagged like a tuple.
func closureAlloc(arity int, start string, captures []Arg) []Instruction {
	fields := 2 + len(captures)
	out := []Instruction{
		Mov{EAX, ESI},
		Mov{RegOffset{Base: EAX, Off: 0}, Const(int32(arity))},
		Mov{EBX, CodePtr(start)},
		Mov{RegOffset{Base: EAX, Off: 4}, EBX},
		Add{ESI, Const(int32(4 * roundToEven(fields)))},
	}
	out = append(out, tupleWrite(captures, 2)...)
	out = append(out, addPad(fields)...)
	out = append(out, setTag(EAX, TClosure)...)
	return out
}
