package classify

// Lexicon maps lowercase tokens to polarity weights. The scoring policy lives
// in Score; the table itself is swappable data.
type Lexicon map[string]int

// DefaultLexicon is an AFINN-weighted subset covering the vocabulary that
// shows up in delivery and service reviews. Unlisted tokens score 0.
var DefaultLexicon = Lexicon{
	// positive
	"amazing":     4,
	"awesome":     4,
	"best":        3,
	"brilliant":   4,
	"delicious":   3,
	"delight":     3,
	"delighted":   3,
	"delightful":  3,
	"excellent":   3,
	"fantastic":   4,
	"fast":        1,
	"fresh":       1,
	"friendly":    2,
	"good":        3,
	"great":       3,
	"happy":       3,
	"helpful":     2,
	"impressed":   3,
	"like":        2,
	"liked":       2,
	"love":        3,
	"loved":       3,
	"nice":        3,
	"outstanding": 5,
	"perfect":     3,
	"pleasant":    3,
	"polite":      2,
	"prompt":      1,
	"quick":       1,
	"recommend":   2,
	"recommended": 2,
	"satisfied":   2,
	"superb":      5,
	"tasty":       2,
	"thanks":      2,
	"wonderful":   4,
	"wow":         4,

	// negative
	"angry":        -3,
	"awful":        -3,
	"bad":          -3,
	"bland":        -2,
	"broken":       -1,
	"cold":         -1,
	"complain":     -2,
	"complaint":    -2,
	"damaged":      -3,
	"delay":        -1,
	"delayed":      -2,
	"disappointed": -2,
	"disgusting":   -3,
	"dirty":        -2,
	"hate":         -3,
	"hated":        -3,
	"horrible":     -3,
	"inedible":     -3,
	"late":         -1,
	"mess":         -2,
	"messy":        -2,
	"missing":      -2,
	"mistake":      -2,
	"never":        -1,
	"poor":         -2,
	"refund":       -2,
	"rude":         -2,
	"slow":         -2,
	"soggy":        -2,
	"spilled":      -2,
	"stale":        -2,
	"terrible":     -3,
	"unacceptable": -2,
	"unhappy":      -2,
	"waste":        -1,
	"worst":        -3,
	"wrong":        -2,
}
