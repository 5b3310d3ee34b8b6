package capsule

// Event types shared by the capsule tests and benchmarks: one payload
// type, many value types, distinct discriminants.
type pay16 = [16]byte

type moveEvent struct {
	X, Y  int32
	Speed float32
}

func (moveEvent) Tag() Tag { return T16(0x10) }

type hitEvent struct {
	Target uint64
	Damage uint16
}

func (hitEvent) Tag() Tag { return T16(0x20) }

// exactly the payload size
type full16 struct {
	Raw [16]byte
}

func (full16) Tag() Tag { return T16(0x30) }

// one byte over
type over17 struct {
	Raw [17]byte
}

func (over17) Tag() Tag { return T16(0x31) }

type badValue struct {
	Name string
}

func (badValue) Tag() Tag { return T16(0x40) }
