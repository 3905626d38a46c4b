package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/mogp/conditionals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const mixedProblem = `
x: [[0.1], [0.5], [0.9]]
inducing:
  kind: mixed_kernel_shared
  z: [[0.0], [0.3], [0.6], [1.0]]
kernel:
  kind: separate_mixed
  kernels:
    - {type: squared_exponential, variance: 1.0, lengthscale: 0.5}
    - {type: matern32, variance: 0.7, lengthscale: 0.8}
  w: [[1.0, 0.2], [0.5, 1.5]]
f: [[0.1, -0.2], [0.3, 0.0], [-0.1, 0.4], [0.2, 0.1]]
q_diag: [[0.1, 0.2], [0.1, 0.2], [0.1, 0.2], [0.1, 0.2]]
numerics:
  jitter: 1.0e-6
`

func writeProblem(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestPredict_LayoutFlagOverridesFile(t *testing.T) {
	path := writeProblem(t, mixedProblem)

	out, err := execute(t, "predict", "-f", path, "--full-output-cov")
	require.NoError(t, err)

	var res Result
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, "mixed_shared", res.Routine)
	assert.Equal(t, []int{3, 2}, res.Mean.Shape)
	assert.Equal(t, []int{3, 2, 2}, res.Cov.Shape)
	assert.Len(t, res.Cov.Data, 12)

	// Output covariance blocks are symmetric with positive diagonals.
	for n := 0; n < 3; n++ {
		block := res.Cov.Data[n*4 : n*4+4]
		assert.InDelta(t, block[1], block[2], 1e-12)
		assert.Positive(t, block[0])
		assert.Positive(t, block[3])
	}
}

func TestPredict_MarginalsAgreeAcrossLayouts(t *testing.T) {
	p, err := parseProblem([]byte(mixedProblem))
	require.NoError(t, err)

	diag, err := p.Solve(zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, []int{3, 2}, diag.Cov.Shape)

	p.FullCov = true
	full, err := p.Solve(zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 3}, full.Cov.Shape)

	for pi := 0; pi < 2; pi++ {
		for n := 0; n < 3; n++ {
			assert.InDelta(t, diag.Cov.Data[n*2+pi], full.Cov.Data[pi*9+n*3+n], 1e-9)
		}
	}
	assert.InDeltaSlice(t, diag.Mean.Data, full.Mean.Data, 1e-12)
}

func TestParseProblem_KeepsDefaultNumerics(t *testing.T) {
	p, err := parseProblem([]byte("numerics:\n  jitter: 1.0e-4\n"))
	require.NoError(t, err)

	def := conditionals.DefaultConfig()
	assert.Equal(t, 1e-4, p.Numerics.Jitter)
	assert.Equal(t, def.Parallel, p.Numerics.Parallel)
}

func TestSolve_InvalidProblems(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(string) string
		wantErr error
		msg     string
	}{
		{
			name:    "unknown kernel type",
			edit:    func(s string) string { return strings.Replace(s, "matern32", "periodic", 1) },
			wantErr: errInvalidProblem,
			msg:     `unknown kernel type "periodic"`,
		},
		{
			name:    "ragged inputs",
			edit:    func(s string) string { return strings.Replace(s, "[0.5]", "[0.5, 0.1]", 1) },
			wantErr: errInvalidProblem,
			msg:     "x: row 1",
		},
		{
			name:    "unknown inducing kind",
			edit:    func(s string) string { return strings.Replace(s, "kind: mixed_kernel_shared", "kind: fourier", 1) },
			wantErr: errInvalidProblem,
			msg:     `unknown kind "fourier"`,
		},
		{
			name: "both scales",
			edit: func(s string) string {
				return s + "q_sqrt: [[[1.0]]]\n"
			},
			wantErr: errInvalidProblem,
			msg:     "exclusive",
		},
		{
			name: "mixing columns",
			edit: func(s string) string {
				return strings.Replace(s, "w: [[1.0, 0.2], [0.5, 1.5]]", "w: [[1.0], [0.5]]", 1)
			},
			wantErr: errInvalidProblem,
			msg:     "w has 1 columns for 2 kernels",
		},
		{
			name: "unsupported pairing",
			edit: func(s string) string {
				s = strings.Replace(s, "kind: separate_mixed", "kind: separate_independent", 1)
				return strings.Replace(s, "  w: [[1.0, 0.2], [0.5, 1.5]]\n", "", 1)
			},
			wantErr: conditionals.ErrUnsupportedPairing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parseProblem([]byte(tt.edit(mixedProblem)))
			require.NoError(t, err)

			_, err = p.Solve(zap.NewNop())
			require.ErrorIs(t, err, tt.wantErr)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestPredict_RequiresFile(t *testing.T) {
	_, err := execute(t, "predict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")
}

func TestPredict_RejectsBadLogLevel(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--log-level", "loud", "version"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestVersionAndRoutes(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mogp "+version+"\n", out)

	out, err = execute(t, "routes")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(conditionals.Pairings())+1)
	assert.True(t, strings.HasPrefix(lines[0], "FEATURE"))
	assert.Contains(t, out, "mixed_kernel_shared")
	assert.Contains(t, out, "mixed_shared")
}
