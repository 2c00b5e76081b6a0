package proto

func newWriter(buf []byte) *Writer {
	return &Writer{buffer: buf, cursor: 0}
}

// Writer writes little-endian values into a preallocated buffer, advancing
// an internal cursor after each call. It does not grow the buffer; callers
// size it through Encoder.RequiredSize beforehand.
type Writer struct {
	buffer []byte
	cursor int
}

func (w *Writer) u8(b uint8) *Writer {
	w.buffer[w.cursor] = b
	w.cursor++
	return w
}

func (w *Writer) i8(v int8) *Writer { return w.u8(uint8(v)) }

func (w *Writer) u16(val uint16) *Writer {
	u16Marshal(w.buffer[w.cursor:], val)
	w.cursor += 2
	return w
}

func (w *Writer) i16(val int16) *Writer { return w.u16(uint16(val)) }

func (w *Writer) u32(val uint32) *Writer {
	u32Marshal(w.buffer[w.cursor:], val)
	w.cursor += 4
	return w
}

func (w *Writer) u64(val uint64) *Writer {
	u64Marshal(w.buffer[w.cursor:], val)
	w.cursor += 8
	return w
}

func (w *Writer) f32(val float32) *Writer {
	f32Marshal(w.buffer[w.cursor:], val)
	w.cursor += 4
	return w
}

func (w *Writer) bytes(value []byte) *Writer {
	copy(w.buffer[w.cursor:], value)
	w.cursor += len(value)
	return w
}

func (w *Writer) encoder(obj Encoder) *Writer {
	obj.Encode(w.buffer[w.cursor:])
	w.cursor += obj.RequiredSize()
	return w
}

func (w *Writer) vec3F32(v Vector3[float32]) *Writer { return w.f32(v.X).f32(v.Y).f32(v.Z) }

func (w *Writer) vec3I16(v Vector3[int16]) *Writer { return w.i16(v.X).i16(v.Y).i16(v.Z) }

func (w *Writer) wheelsF32(v Wheels[float32]) *Writer {
	return w.f32(v.RearLeft).f32(v.RearRight).f32(v.FrontLeft).f32(v.FrontRight)
}

func (w *Writer) wheelsU16(v Wheels[uint16]) *Writer {
	return w.u16(v.RearLeft).u16(v.RearRight).u16(v.FrontLeft).u16(v.FrontRight)
}

func (w *Writer) wheelsU8(v Wheels[uint8]) *Writer {
	return w.u8(v.RearLeft).u8(v.RearRight).u8(v.FrontLeft).u8(v.FrontRight)
}
