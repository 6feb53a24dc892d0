package binio

// EncodeZigZag32 maps signed to unsigned so that small magnitudes of
// either sign stay small: 0→0, -1→1, 1→2, -2→3, ...
func EncodeZigZag32(v int32) uint32 { return uint32(v<<1) ^ uint32(v>>31) }

// DecodeZigZag32 inverts EncodeZigZag32.
func DecodeZigZag32(v uint32) int32 { return int32(v>>1) ^ -int32(v&1) }

// EncodeZigZag64 is the 64-bit form of EncodeZigZag32.
func EncodeZigZag64(v int64) uint64 { return uint64(v<<1) ^ uint64(v>>63) }

// DecodeZigZag64 inverts EncodeZigZag64.
func DecodeZigZag64(v uint64) int64 { return int64(v>>1) ^ -int64(v&1) }
