// Package codec defines the contract every pipeline stage implements and the
// registry stages are looked up in.
//
// A codec is a named byte-stream transform. It is handed an input reader, a mode
// (encode or decode), its resolved options and an output writer. Codecs never close
// the streams they are given: the pipeline owns them and closes them when the codec
// returns, which is how end-of-stream propagates downstream.
package codec
