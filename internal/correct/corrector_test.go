package correct

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/rules"
)

func newCorrector() *Corrector {
	return New(rules.Default())
}

func TestCorrect_Misreads(t *testing.T) {
	t.Parallel()
	c := newCorrector()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dictionary name", "Wi11iam Mi11er", "William Miller"},
		{"dictionary title", "Rea1 Estate Agent", "Real Estate Agent"},
		{"email with tld and inner one", "info@rea1ty.c0m", "info@realty.com"},
		{"all caps dictionary", "WI11IAM", "WILLIAM"},
		{"one between letters", "Ha1ton", "Halton"},
		{"repeated ones", "a1b1c", "alblc"},
		{"leading one", "1ong", "long"},
		{"ordinal kept", "1st Floor", "1st Floor"},
		{"trailing one", "Mode1 Homes", "Model Homes"},
		{"double one at end", "Ba11 Park", "Ball Park"},
		{"zero between letters", "Rob0t Labs", "Robot Labs"},
		{"upper zero", "R0BOT", "ROBOT"},
		{"digits untouched", "(555) 123-4567", "(555) 123-4567"},
		{"zip untouched", "Austin, TX 78701", "Austin, TX 78701"},
		{"spaced email", "john @ acme . com", "john@acme.com"},
		{"missing dot", "Email: jane@acme com", "Email: jane@acme.com"},
		{"spaced www", "www . acme.com", "www.acme.com"},
		{"dot c zero m", "acme.c0m", "acme.com"},
		{"handle untouched", "Follow @acmehq", "Follow @acmehq"},
		{"whitespace", "  John\t\tDoe  \n\n\n  CEO ", "John Doe\nCEO"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.Correct(tt.in))
		})
	}
}

func TestCorrect_Idempotent(t *testing.T) {
	t.Parallel()
	c := newCorrector()

	inputs := []string{
		"Wi11iam Mi11er\nRea1 Estate Agent\ninfo@rea1ty.c0m",
		"JOHN DOE\nSenior Engineer\nAcme Solutions Inc.\njohn.doe@acmesolutions.com\n(555) 123-4567\nwww.acmesolutions.com",
		"www . 1abc.c0m",
		"a1b1c1d 1e1f",
		"B0B0B0 0o0 a11a11",
		"Ema1l : j0hn @ g1obal . c0m",
	}

	// Random strings over the alphabet the rules care about.
	alphabet := []rune("aAlL1I0oO @.cmw \n\tx")
	r := rand.New(rand.NewPCG(7, 11))
	for range 300 {
		var b strings.Builder
		n := r.IntN(24)
		for range n {
			b.WriteRune(alphabet[r.IntN(len(alphabet))])
		}
		inputs = append(inputs, b.String())
	}

	for _, in := range inputs {
		once := c.Correct(in)
		assert.Equal(t, once, c.Correct(once), "input %q", in)
	}
}

func TestCleanLines(t *testing.T) {
	t.Parallel()
	c := newCorrector()

	lines := c.CleanLines("JOHN DOE\n|\n-- -- --\nSenior Engineer\n\n(555) 123-4567")
	assert.Equal(t, []string{"JOHN DOE", "Senior Engineer", "(555) 123-4567"}, lines)

	assert.Nil(t, c.CleanLines(""))
	assert.Nil(t, c.CleanLines("   \n\t"))
}

func TestUsable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line string
		want bool
	}{
		{"JOHN DOE", true},
		{"ab--", true},
		{"Müller GmbH", true},
		{"a---", false},
		{"|", false},
		{"════════", false},
		{"│││││", false},
		{"•••••", false},
		{"▓▓▓▓", false},
		{"-- -- --", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Usable(tt.line))
		})
	}
}

func TestCleanLines_DropsBorderArtifacts(t *testing.T) {
	t.Parallel()
	c := newCorrector()

	lines := c.CleanLines("════════\nJane Roe\n•••••\nab--")
	assert.Equal(t, []string{"Jane Roe", "ab--"}, lines)
}

func TestCorrectScan(t *testing.T) {
	t.Parallel()
	c := newCorrector()

	scan := model.RawScan{
		Provider:   "tesseract",
		Confidence: 0.8,
		Lines: []model.ScanLine{
			{Text: "Wi11iam Mi11er", Confidence: 0.9},
			{Text: "   ", Confidence: 0.5},
			{Text: "info@rea1ty.c0m", Confidence: 0.7},
		},
	}

	got := c.CorrectScan(scan)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "William Miller", got.Lines[0].Text)
	assert.InDelta(t, 0.9, got.Lines[0].Confidence, 1e-9)
	assert.Equal(t, "info@realty.com", got.Lines[1].Text)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)
	assert.Equal(t, "tesseract", got.Provider)
	assert.Equal(t, "Wi11iam Mi11er", scan.Lines[0].Text, "input untouched")
}

func TestNew_CustomRules(t *testing.T) {
	t.Parallel()
	rs := rules.Default()
	rs.Corrections = map[string]string{"Gr3g": "Greg"}

	c := New(rs)
	assert.Equal(t, "Greg Smith", c.Correct("Gr3g Smith"))
	assert.Equal(t, "GREG", c.Correct("GR3G"))
}
