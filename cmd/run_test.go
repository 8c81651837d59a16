package cmd

import "testing"

func TestNextTurn(t *testing.T) {
	cases := []struct {
		name    string
		pending string
		line    string
		want    string
		wantOK  bool
	}{
		{
			name:    "empty line confirms staged transcription",
			pending: "Trabalho com Go há cinco anos.",
			line:    "",
			want:    "Trabalho com Go há cinco anos.",
			wantOK:  true,
		},
		{
			name:    "typed text replaces staged transcription",
			pending: "Trabalho com Gol há cinco anos.",
			line:    "Trabalho com Go há cinco anos.",
			want:    "Trabalho com Go há cinco anos.",
			wantOK:  true,
		},
		{
			name:   "typed text with nothing staged",
			line:   "Quero migrar para liderança.",
			want:   "Quero migrar para liderança.",
			wantOK: true,
		},
		{
			name:   "empty line with nothing staged sends nothing",
			line:   "",
			wantOK: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := nextTurn(tc.pending, tc.line)
			if ok != tc.wantOK {
				t.Fatalf("unexpected ok: got %v, want %v", ok, tc.wantOK)
			}
			if got != tc.want {
				t.Fatalf("unexpected text: got %q, want %q", got, tc.want)
			}
		})
	}
}
