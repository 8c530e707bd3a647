// Package tokenizer adapts the available text encoders to one interface.
//
// Backends:
//   - SentencePiece: models loaded through internal/sentencepiece
//   - TikToken: OpenAI BPE encodings (cl100k_base, p50k_base, r50k_base)
//
// AutoLoad picks the backend from its argument:
//
//	tok, err := tokenizer.AutoLoad("spm.model", []string{"<pad>@0"})
//	if err != nil {
//	    return err
//	}
//	ids, err := tok.Encode("Hello, world!")
package tokenizer
