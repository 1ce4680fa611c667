package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDegreeLevel(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		level int
		ok    bool
	}{
		{"bachelor word", "Bachelor's degree in Computer Science", DegreeBachelor, true},
		{"bs abbreviation", "B.S. in Computer Science", DegreeBachelor, true},
		{"master word", "Master's degree preferred", DegreeMaster, true},
		{"msc abbreviation", "M.Sc Applied Mathematics", DegreeMaster, true},
		{"mba", "MBA from a top program", DegreeMaster, true},
		{"phd dotted", "Ph.D in Statistics", DegreeDoctorate, true},
		{"doctoral", "doctoral research in NLP", DegreeDoctorate, true},
		{"associate", "Associate degree in Nursing", DegreeAssociate, true},
		{"generic degree only", "a degree in a related field", DegreeGeneric, true},
		{"highest wins", "Bachelor's required, Master's preferred", DegreeMaster, true},
		{"no degree vocabulary", "5 years of Go experience", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := DegreeLevel(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.level, level)
			}
		})
	}
}
