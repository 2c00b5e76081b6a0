package proto

// HeaderSize is the size of the header present in every packet:
// 2+1+1+1+1+8+4+4+1+1 bytes.
const HeaderSize = 24

// NoSecondaryPlayer is the SecondaryPlayerCarIndex value used when no
// split-screen player is present.
const NoSecondaryPlayer uint8 = 255

// Header is a structure present in every packet. It contains the format the
// packet belongs to, the game version that emitted it, the discriminator
// selecting the payload codec, and the session timing fields.
type Header struct {
	Format                  uint16
	GameMajorVersion        uint8
	GameMinorVersion        uint8
	PacketVersion           uint8
	PacketID                PacketID
	SessionUID              uint64
	SessionTime             float32
	FrameIdentifier         uint32
	PlayerCarIndex          uint8
	SecondaryPlayerCarIndex uint8
}

func (h Header) Encode(into []byte) {
	newWriter(into).
		u16(h.Format).
		u8(h.GameMajorVersion).
		u8(h.GameMinorVersion).
		u8(h.PacketVersion).
		u8(uint8(h.PacketID)).
		u64(h.SessionUID).
		f32(h.SessionTime).
		u32(h.FrameIdentifier).
		u8(h.PlayerCarIndex).
		u8(h.SecondaryPlayerCarIndex)
}

func (h Header) RequiredSize() int { return HeaderSize }

// Bytes returns a new slice containing the encoded header.
func (h Header) Bytes() []byte {
	buf := make([]byte, HeaderSize)
	h.Encode(buf)
	return buf
}

// DecodeHeader reads a Header from the start of data, returning it along with
// the amount of bytes consumed. The packet id is not validated here; only
// the buffer size is.
func DecodeHeader(data []byte) (Header, int, error) {
	if len(data) < HeaderSize {
		return Header{}, 0, &TruncatedBufferError{Region: "header", Need: HeaderSize, Have: len(data)}
	}

	var h Header
	var id uint8
	newReader(data).
		u16(&h.Format).
		u8(&h.GameMajorVersion).
		u8(&h.GameMinorVersion).
		u8(&h.PacketVersion).
		u8(&id).
		u64(&h.SessionUID).
		f32(&h.SessionTime).
		u32(&h.FrameIdentifier).
		u8(&h.PlayerCarIndex).
		u8(&h.SecondaryPlayerCarIndex)
	h.PacketID = PacketID(id)

	return h, HeaderSize, nil
}
