package mockgenerator

// SilentFlac returns a minimal FLAC stream header. Players accept it as an
// empty clip, which is enough for exercising the presentation layer offline.
func SilentFlac() []byte {
	streamInfo := []byte{
		0x10, 0x00, 0x10, 0x00, // min/max block size
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // min/max frame size
		0x0A, 0xC4, 0x40, 0xF0, 0x00, 0x00, 0x00, 0x00, // 44.1kHz, mono, 16 bit, 0 samples
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // md5
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	header := []byte{'f', 'L', 'a', 'C', 0x80, 0x00, 0x00, byte(len(streamInfo))}
	return append(header, streamInfo...)
}
