package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

// mapTagger gives tests deterministic roles without a language model.
type mapTagger map[string]Role

func (m mapTagger) Tag(word string) Role {
	if r, ok := m[word]; ok {
		return r
	}
	return Other
}

func testTagger() mapTagger {
	return mapTagger{
		"serum":    Noun,
		"lip":      Noun,
		"cream":    Noun,
		"esho":     ProperNoun,
		"matte":    Adjective,
		"quickly":  Adverb,
		"shade":    Noun,
		"assorted": Adjective,
	}
}

func TestDefaultSchemes(t *testing.T) {
	t.Parallel()

	schemes := DefaultSchemes()
	require.Len(t, schemes, 4)
	assert.Equal(t, 1.0, schemes[0].Weight)
	assert.Equal(t, 3.0, schemes[3].Weight)
	assert.Len(t, schemes[3].Roles, 1)
}

func TestFilterItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		variant string
		roles   []Role
		want    string
	}{
		{
			name:    "keeps nouns and digits",
			variant: "esho matte lip serum 12 ml please",
			roles:   []Role{Noun, ProperNoun},
			want:    "esho lip serum 12 ml",
		},
		{
			name:    "adjectives kept by looser scheme",
			variant: "esho matte lip serum",
			roles:   []Role{Noun, ProperNoun, Adjective},
			want:    "esho matte lip serum",
		},
		{
			name:    "function words always kept",
			variant: "cream for with sparkle",
			roles:   []Role{Noun},
			want:    "cream for with",
		},
		{
			name:    "digit tokens always kept",
			variant: "model 64gb zzz",
			roles:   []Role{Noun},
			want:    "64gb",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := NewFilterer(testTagger())
			item := domain.NewItem(tt.variant, "", tt.variant, 1)
			f.FilterItem(item, tt.roles)
			assert.Equal(t, tt.want, item.VariantName)
		})
	}
}

func TestFilterProductKeepsItemTokens(t *testing.T) {
	t.Parallel()

	f := NewFilterer(testTagger())
	item := domain.NewItem("gobbledygook serum", "", "gobbledygook serum", 1)
	product := &domain.Product{}
	product.VariantName = "gobbledygook serum extra"

	// "gobbledygook" has no role but appears in the item's variant name.
	f.FilterProduct(item, product, []Role{Noun})
	assert.Equal(t, "gobbledygook serum", product.VariantName)
}

func TestIsKeyWord(t *testing.T) {
	t.Parallel()

	f := NewFilterer(testTagger())
	assert.True(t, f.IsKeyWord("serum"))
	assert.False(t, f.IsKeyWord("matte"))
	assert.True(t, f.IsKeyWord("matte", Adjective))
	assert.False(t, f.IsKeyWord(""))
}

func TestRoleForPennTag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ProperNoun, roleForPennTag("NNP"))
	assert.Equal(t, Noun, roleForPennTag("NNS"))
	assert.Equal(t, Adjective, roleForPennTag("JJR"))
	assert.Equal(t, Adverb, roleForPennTag("RB"))
	assert.Equal(t, Other, roleForPennTag("VB"))
}
