// Package compress provides the codecs used to read compressed MUX2 sources.
//
// Simulation archives are often shipped compressed. A source whose path ends in
// ".zst", ".s2" or ".lz4" is decompressed transparently while its header and
// data block are read; everything downstream sees the plain MUX2 byte stream.
//
// All codecs use the standard streaming/frame format of their algorithm, so
// files produced by the zstd, s2 and lz4 command-line tools are accepted:
//   - None: plain file, bytes pass through unchanged
//   - Zstd: Zstandard frames (klauspost/compress, or valyala/gozstd with the gozstd build tag)
//   - S2: S2 stream format (klauspost/compress/s2)
//   - LZ4: LZ4 frame format (pierrec/lz4)
//
// Example:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	rc, err := codec.NewReader(file)
//	if err != nil {
//	    return err
//	}
//	defer rc.Close()
package compress
