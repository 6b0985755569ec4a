package classifier

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubPredictor struct {
	label      Label
	confidence float64
	err        error
}

func (s stubPredictor) Predict(_, _, _ string) (Label, float64, error) {
	return s.label, s.confidence, s.err
}

func TestAdapterHighConfidenceGood(t *testing.T) {
	t.Parallel()

	a := NewAdapter(stubPredictor{label: LabelGood, confidence: 0.9}, 0.75, 0.25)
	ok, reason, confidence := a.IsAcceptable("long post text", "https://jane.example/blog/garden", "Garden Notes")
	require.True(t, ok)
	require.Equal(t, "high_confidence_good", reason)
	require.InDelta(t, 0.9, confidence, 1e-9)
}

func TestAdapterHomepageWeakensGood(t *testing.T) {
	t.Parallel()

	// 0.9 * 0.6 = 0.54, below the 0.75 high threshold.
	a := NewAdapter(stubPredictor{label: LabelGood, confidence: 0.9}, 0.75, 0.25)
	ok, reason, confidence := a.IsAcceptable("text", "https://acme.example/", "Acme")
	require.True(t, ok)
	require.Equal(t, "default_good", reason)
	require.InDelta(t, 0.54, confidence, 1e-9)
}

func TestAdapterCommercialTitleWeakensGood(t *testing.T) {
	t.Parallel()

	a := NewAdapter(stubPredictor{label: LabelGood, confidence: 0.9}, 0.75, 0.25)
	_, reason, confidence := a.IsAcceptable("text", "https://site.example/tools", "Top 10 CRM Tools Review")
	require.Equal(t, "default_good", reason)
	require.InDelta(t, 0.63, confidence, 1e-9)
}

func TestAdapterSpecialPathStrengthensBad(t *testing.T) {
	t.Parallel()

	// 0.6 * 1.3 = 0.78, clearing 1 - lowThreshold = 0.75.
	a := NewAdapter(stubPredictor{label: LabelBad, confidence: 0.6}, 0.75, 0.25)
	ok, reason, confidence := a.IsAcceptable("text", "https://site.example/blog/post-title", "Post")
	require.False(t, ok)
	require.Equal(t, "high_confidence_bad", reason)
	require.InDelta(t, 0.78, confidence, 1e-9)
}

func TestAdapterDefaultBad(t *testing.T) {
	t.Parallel()

	a := NewAdapter(stubPredictor{label: LabelBad, confidence: 0.6}, 0.75, 0.25)
	ok, reason, _ := a.IsAcceptable("text", "https://site.example/page", "Page")
	require.False(t, ok)
	require.Equal(t, "default_bad", reason)
}

func TestAdapterUncertainLabelRejects(t *testing.T) {
	t.Parallel()

	a := NewAdapter(stubPredictor{label: LabelUncertain, confidence: 0.5}, 0.75, 0.25)
	ok, reason, _ := a.IsAcceptable("text", "https://site.example/page", "Page")
	require.False(t, ok)
	require.Equal(t, "uncertain_uncertain", reason)
}

func TestAdapterErrorNeverRejects(t *testing.T) {
	t.Parallel()

	a := NewAdapter(stubPredictor{err: errors.New("model exploded")}, 0.75, 0.25)
	ok, reason, confidence := a.IsAcceptable("text", "https://site.example/page", "Page")
	require.True(t, ok)
	require.Equal(t, "classifier_error", reason)
	require.Zero(t, confidence)
}

func TestAdapterNilPredictor(t *testing.T) {
	t.Parallel()

	a := NewAdapter(nil, 0.75, 0.25)
	ok, reason, _ := a.IsAcceptable("text", "https://site.example/page", "Page")
	require.True(t, ok)
	require.Equal(t, "no_classifier", reason)
}

func writeModel(t *testing.T, model LinearModel) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	data, err := json.Marshal(model)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadModelRoundTrip(t *testing.T) {
	t.Parallel()

	path := writeModel(t, LinearModel{
		Bias:    -1,
		Weights: map[string]float64{"garden": 2, "pricing": -3},
	})
	model, err := LoadModel(path)
	require.NoError(t, err)

	label, confidence, err := model.Predict("notes from the garden", "https://a.example/p", "Garden")
	require.NoError(t, err)
	require.Equal(t, LabelGood, label)
	require.Greater(t, confidence, 0.5)

	label, confidence, err = model.Predict("see our pricing", "https://a.example/p", "Plans")
	require.NoError(t, err)
	require.Equal(t, LabelBad, label)
	require.Greater(t, confidence, 0.5)
}

func TestLoadModelRejectsEmptyWeights(t *testing.T) {
	t.Parallel()

	path := writeModel(t, LinearModel{Bias: 0})
	_, err := LoadModel(path)
	require.Error(t, err)

	_, err = LoadModel(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
