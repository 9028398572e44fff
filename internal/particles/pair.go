package particles

// Pair holds two equally sized buffers and a one bit index naming the
// read slot. The other slot is the write slot.
type Pair[T any] struct {
	slots [2]T
	read  uint8
}

// NewPair returns a pair reading from a and writing to b.
func NewPair[T any](a, b T) *Pair[T] {
	return &Pair[T]{slots: [2]T{a, b}}
}

// Read returns the buffer the next step consumes.
func (p *Pair[T]) Read() T { return p.slots[p.read] }

// Write returns the buffer the next step fills.
func (p *Pair[T]) Write() T { return p.slots[p.read^1] }

// Swap exchanges the read and write roles.
func (p *Pair[T]) Swap() { p.read ^= 1 }

// ReadIndex returns the slot currently in the read role.
func (p *Pair[T]) ReadIndex() int { return int(p.read) }

// Slots returns both buffers in allocation order.
func (p *Pair[T]) Slots() [2]T { return p.slots }
