// Package sentencepiece loads SentencePiece models and segments text with them.
//
// Loading is a single-use pipeline:
//
//	loader := sentencepiece.NewModelLoader("spm.model", sentencepiece.ModelOptions{
//	    ControlTokens: []string{sentencepiece.LegacyPadToken},
//	})
//	model, err := loader.Load()
//	...
//	proc, err := sentencepiece.NewProcessor(model)
//	res, err := proc.Encode("Hello world")
//
// The loader reads the serialized ModelProto, appends the configured control
// pieces and compiles the result into an immutable Model. The legacy pad
// spelling "<pad>@0" moves the pad piece to index 0, shifting every other
// piece up by one; the plain "<pad>" spelling leaves it at the end.
//
// Supported model types are Unigram, BPE, Word and Char. Normalization
// supports the NFKC and NFC rule names; a precompiled charsmap is carried
// through but not interpreted.
//
// A Processor is safe for concurrent use.
package sentencepiece
