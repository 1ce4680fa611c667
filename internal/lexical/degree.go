package lexical

import "strings"

// Degree level ordinals. Higher levels satisfy lower requirements.
const (
	DegreeGeneric   = 0
	DegreeAssociate = 1
	DegreeBachelor  = 2
	DegreeMaster    = 3
	DegreeDoctorate = 4
)

// degreeVocabulary maps normalized degree tokens to their ordinal.
// Normalization folds common abbreviations before lookup.
var degreeVocabulary = map[string]int{
	"associate":  DegreeAssociate,
	"associates": DegreeAssociate,
	"aa":         DegreeAssociate,
	"bachelor":   DegreeBachelor,
	"bachelors":  DegreeBachelor,
	"ba":         DegreeBachelor,
	"bs":         DegreeBachelor,
	"bsc":        DegreeBachelor,
	"beng":       DegreeBachelor,
	"undergraduate": DegreeBachelor,
	"master":     DegreeMaster,
	"masters":    DegreeMaster,
	"ma":         DegreeMaster,
	"ms":         DegreeMaster,
	"msc":        DegreeMaster,
	"meng":       DegreeMaster,
	"mba":        DegreeMaster,
	"doctorate":  DegreeDoctorate,
	"doctoral":   DegreeDoctorate,
	"phd":        DegreeDoctorate,
	"md":         DegreeDoctorate,
}

// DegreeLevel maps text to the highest degree ordinal it mentions.
// A generic "degree" with no level returns DegreeGeneric. ok is false when
// no degree vocabulary is present at all.
func DegreeLevel(text string) (level int, ok bool) {
	// Fold dotted abbreviations (ph.d, b.s., m.sc) before normalization
	// splits them apart.
	folded := strings.NewReplacer(
		"ph.d", "phd",
		"b.s.", "bs",
		"b.sc", "bsc",
		"m.s.", "ms",
		"m.sc", "msc",
		"b.a.", "ba",
		"m.a.", "ma",
	).Replace(strings.ToLower(text))

	best := -1
	sawDegreeWord := false
	for _, token := range Tokenize(folded) {
		if lvl, found := degreeVocabulary[token]; found {
			if lvl > best {
				best = lvl
			}
			continue
		}
		if token == "degree" || token == "degrees" {
			sawDegreeWord = true
		}
	}

	if best >= 0 {
		return best, true
	}
	if sawDegreeWord {
		return DegreeGeneric, true
	}
	return 0, false
}
