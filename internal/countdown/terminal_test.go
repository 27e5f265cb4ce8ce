package countdown

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func renderStates(d *TerminalDisplay) {
	for _, s := range []State{
		{Phase: PhaseLoading},
		{Phase: PhaseCounting, Breakdown: Decompose(90061), Remaining: 90061},
		{Phase: PhaseCounting, Breakdown: Decompose(90060), Remaining: 90060},
		{Phase: PhaseCounting, Breakdown: Decompose(90059), Remaining: 90059},
		{Phase: PhaseCounting, Breakdown: Decompose(2555992800), Remaining: 2555992800},
		{Phase: PhaseCounting},
		{Phase: PhaseExceeded, Remaining: -100},
		{Phase: PhaseFailed},
	} {
		d.Render(s)
	}
}

func TestTerminalDisplayGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tc := range []struct {
		name    string
		lang    string
		inPlace bool
		prefix  string
	}{
		{name: "frames_ja", lang: "ja"},
		{name: "frames_en", lang: "en"},
		{name: "frames_en_inplace", lang: "en-US", inPlace: true},
		{name: "frames_ja_prefixed", lang: "ja", prefix: "Taro: "},
	} {
		t.Run(tc.name, func(t *testing.T) {
			messages, err := NewMessages(tc.lang)
			require.NoError(t, err)

			var buf bytes.Buffer
			d := NewTerminalDisplay(&buf, messages, tc.inPlace)
			if tc.prefix != "" {
				d = d.WithPrefix(tc.prefix)
			}
			renderStates(d)
			g.Assert(t, tc.name, buf.Bytes())
		})
	}
}
