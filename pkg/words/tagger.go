package words

import (
	"strings"

	prose "github.com/jdkato/prose/v2"
)

// ProseTagger tags words with the prose English POS model, collapsing Penn
// Treebank tags onto the coarse roles the filter schemes use.
type ProseTagger struct{}

// NewProseTagger returns a ready-to-use tagger. The underlying model is
// loaded lazily by prose on first use.
func NewProseTagger() ProseTagger {
	return ProseTagger{}
}

// Tag implements Tagger.
func (ProseTagger) Tag(word string) Role {
	doc, err := prose.NewDocument(word,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return Other
	}
	toks := doc.Tokens()
	if len(toks) == 0 {
		return Other
	}
	return roleForPennTag(toks[0].Tag)
}

func roleForPennTag(tag string) Role {
	switch {
	case tag == "NNP" || tag == "NNPS":
		return ProperNoun
	case strings.HasPrefix(tag, "NN"):
		return Noun
	case strings.HasPrefix(tag, "JJ"):
		return Adjective
	case strings.HasPrefix(tag, "RB"):
		return Adverb
	default:
		return Other
	}
}
