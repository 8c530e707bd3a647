// Package serialization provides the checkpoint blob format used to persist
// producer positions.
//
// A blob carries the values of a data.Tape verbatim:
//
//	Format Structure:
//	  [4 bytes: Magic "DPTP"]
//	  [4 bytes: Version (uint32 LE)]
//	  [32 bytes: SHA-256 of payload]
//	  [Payload: protobuf wire stream, one field per value]
//
// The field number of each payload field identifies the value kind, so a
// blob decodes back to exactly the values, types and order that were encoded.
//
// Example usage:
//
//	blob, err := serialization.EncodeValues([]any{int64(42), "shard-3"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	values, err := serialization.DecodeValues(blob)
package serialization
