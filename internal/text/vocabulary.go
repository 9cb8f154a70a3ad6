package text

import "sort"

// Reserved vocabulary ids. Id 0 is the padding token so that padded
// positions embed to the zero vector, and id 1 is the unknown token.
const (
	PadID = 0
	UnkID = 1
)

// Reserved token strings.
const (
	PadToken = "<pad>"
	UnkToken = "<unk>"
)

// Vocabulary maps tokens to contiguous integer ids. Ids 0 and 1 are
// always reserved for padding and unknown tokens; corpus tokens start
// at id 2.
type Vocabulary struct {
	tokenToID map[string]int32
	idToToken []string
}

// VocabularyConfig holds configuration for vocabulary building.
type VocabularyConfig struct {
	MinCount int // Minimum corpus frequency to keep a token (default 1)
	MaxSize  int // Maximum vocabulary size including reserved ids (default unlimited)
}

// BuildVocabulary builds a vocabulary from tokenized documents.
//
// Tokens below MinCount are dropped. If MaxSize is set, only the most
// frequent tokens are kept (ties broken alphabetically for determinism).
func BuildVocabulary(documents [][]string, config VocabularyConfig) *Vocabulary {
	if config.MinCount <= 0 {
		config.MinCount = 1
	}

	counts := make(map[string]int)
	for _, doc := range documents {
		for _, token := range doc {
			counts[token]++
		}
	}

	type entry struct {
		token string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for token, count := range counts {
		if count >= config.MinCount {
			entries = append(entries, entry{token, count})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].token < entries[j].token
	})

	if config.MaxSize > 2 && len(entries) > config.MaxSize-2 {
		entries = entries[:config.MaxSize-2]
	}

	v := &Vocabulary{
		tokenToID: make(map[string]int32, len(entries)+2),
		idToToken: make([]string, 0, len(entries)+2),
	}
	v.add(PadToken)
	v.add(UnkToken)
	for _, e := range entries {
		v.add(e.token)
	}
	return v
}

func (v *Vocabulary) add(token string) {
	v.tokenToID[token] = int32(len(v.idToToken))
	v.idToToken = append(v.idToToken, token)
}

// ID returns the id for token, or UnkID when the token is out of
// vocabulary.
func (v *Vocabulary) ID(token string) int32 {
	if id, ok := v.tokenToID[token]; ok {
		return id
	}
	return UnkID
}

// Token returns the token string for id. Panics on out-of-range ids.
func (v *Vocabulary) Token(id int32) string {
	return v.idToToken[id]
}

// Contains reports whether token is in the vocabulary.
func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.tokenToID[token]
	return ok
}

// Size returns the number of ids, reserved tokens included.
func (v *Vocabulary) Size() int {
	return len(v.idToToken)
}

// Encode maps tokens to ids, with unknown tokens mapped to UnkID.
func (v *Vocabulary) Encode(tokens []string) []int32 {
	ids := make([]int32, len(tokens))
	for i, token := range tokens {
		ids[i] = v.ID(token)
	}
	return ids
}

// Tokens returns all tokens in id order. The slice is shared; callers
// must not modify it.
func (v *Vocabulary) Tokens() []string {
	return v.idToToken
}
