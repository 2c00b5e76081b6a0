package proto

func newReader(buf []byte) *reader {
	return &reader{buffer: buf, cursor: 0}
}

// reader is the decoding counterpart of Writer. Each method copies a value
// from the buffer into the provided pointer and advances the cursor. Bounds
// are not checked here: decoders validate the full region size before
// reading a single field, so a short buffer never reaches a reader.
type reader struct {
	buffer []byte
	cursor int
}

func (r *reader) u8(into *uint8) *reader {
	*into = r.buffer[r.cursor]
	r.cursor++
	return r
}

func (r *reader) i8(into *int8) *reader {
	*into = int8(r.buffer[r.cursor])
	r.cursor++
	return r
}

func (r *reader) u16(into *uint16) *reader {
	*into = u16Unmarshal(r.buffer[r.cursor:])
	r.cursor += 2
	return r
}

func (r *reader) i16(into *int16) *reader {
	*into = int16(u16Unmarshal(r.buffer[r.cursor:]))
	r.cursor += 2
	return r
}

func (r *reader) u32(into *uint32) *reader {
	*into = u32Unmarshal(r.buffer[r.cursor:])
	r.cursor += 4
	return r
}

func (r *reader) u64(into *uint64) *reader {
	*into = u64Unmarshal(r.buffer[r.cursor:])
	r.cursor += 8
	return r
}

func (r *reader) f32(into *float32) *reader {
	*into = f32Unmarshal(r.buffer[r.cursor:])
	r.cursor += 4
	return r
}

func (r *reader) vec3F32(into *Vector3[float32]) *reader {
	return r.f32(&into.X).f32(&into.Y).f32(&into.Z)
}

func (r *reader) vec3I16(into *Vector3[int16]) *reader {
	return r.i16(&into.X).i16(&into.Y).i16(&into.Z)
}

func (r *reader) wheelsF32(into *Wheels[float32]) *reader {
	return r.f32(&into.RearLeft).f32(&into.RearRight).f32(&into.FrontLeft).f32(&into.FrontRight)
}

func (r *reader) wheelsU16(into *Wheels[uint16]) *reader {
	return r.u16(&into.RearLeft).u16(&into.RearRight).u16(&into.FrontLeft).u16(&into.FrontRight)
}

func (r *reader) wheelsU8(into *Wheels[uint8]) *reader {
	return r.u8(&into.RearLeft).u8(&into.RearRight).u8(&into.FrontLeft).u8(&into.FrontRight)
}

// rest returns a copy of all bytes not yet consumed.
func (r *reader) rest() []byte {
	out := make([]byte, len(r.buffer)-r.cursor)
	copy(out, r.buffer[r.cursor:])
	return out
}
