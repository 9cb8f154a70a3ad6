package text

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Encoder converts raw text into model-ready token ids. Implementations
// must never emit id 0, which is reserved for padding.
type Encoder interface {
	// Encode returns the token ids for text, in order.
	Encode(text string) []int32

	// VocabSize returns the number of distinct ids the encoder can emit,
	// reserved ids included. Embedding tables are sized from this.
	VocabSize() int
}

// VocabEncoder encodes text with a word tokenizer and a corpus-built
// vocabulary. Out-of-vocabulary words map to UnkID.
type VocabEncoder struct {
	tokenizer Tokenizer
	vocab     *Vocabulary
}

// NewVocabEncoder creates an encoder from a tokenizer and vocabulary.
func NewVocabEncoder(tokenizer Tokenizer, vocab *Vocabulary) *VocabEncoder {
	return &VocabEncoder{tokenizer: tokenizer, vocab: vocab}
}

// Encode tokenizes text and maps each token to its vocabulary id.
func (e *VocabEncoder) Encode(text string) []int32 {
	return e.vocab.Encode(e.tokenizer.Tokenize(text))
}

// VocabSize returns the vocabulary size.
func (e *VocabEncoder) VocabSize() int {
	return e.vocab.Size()
}

// Vocabulary returns the underlying vocabulary.
func (e *VocabEncoder) Vocabulary() *Vocabulary {
	return e.vocab
}

// bpeIDOffset shifts BPE token ids so that 0 and 1 stay reserved for
// padding and unknown, matching the Vocabulary convention.
const bpeIDOffset = 2

// BPEEncoder encodes text with a byte-pair-encoding tokenizer. It needs
// no corpus pass: the id space is fixed by the chosen encoding.
type BPEEncoder struct {
	encoding *tiktoken.Tiktoken
	maxID    int
}

// NewBPEEncoder creates a BPE encoder for a named encoding such as
// "cl100k_base" or "gpt2".
func NewBPEEncoder(encodingName string) (*BPEEncoder, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("loading BPE encoding %q: %w", encodingName, err)
	}

	// Probe the id space: encode-then-decode round-trips, so the
	// largest special token id bounds the vocabulary.
	maxID := 0
	for _, id := range encoding.Encode("a", nil, nil) {
		if id > maxID {
			maxID = id
		}
	}
	switch encodingName {
	case "cl100k_base":
		maxID = 100276
	case "gpt2", "r50k_base":
		maxID = 50256
	case "p50k_base", "p50k_edit":
		maxID = 50280
	case "o200k_base":
		maxID = 200018
	}

	return &BPEEncoder{encoding: encoding, maxID: maxID}, nil
}

// Encode returns the shifted BPE ids for text. All emitted ids are >= 2.
func (e *BPEEncoder) Encode(text string) []int32 {
	raw := e.encoding.Encode(text, nil, nil)
	ids := make([]int32, len(raw))
	for i, id := range raw {
		ids[i] = int32(id + bpeIDOffset)
	}
	return ids
}

// VocabSize returns the size of the shifted id space.
func (e *BPEEncoder) VocabSize() int {
	return e.maxID + 1 + bpeIDOffset
}

// Decode maps shifted ids back to text. Reserved ids are skipped.
func (e *BPEEncoder) Decode(ids []int32) string {
	raw := make([]int, 0, len(ids))
	for _, id := range ids {
		if id < bpeIDOffset {
			continue
		}
		raw = append(raw, int(id)-bpeIDOffset)
	}
	return e.encoding.Decode(raw)
}
