package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
)

// LinearModel is a bag-of-words logistic scorer loaded from a JSON export of
// the training pipeline. It exists so the crawler can run a real model
// without linking a native inference runtime; any Predictor can replace it.
type LinearModel struct {
	Bias    float64            `json:"bias"`
	Weights map[string]float64 `json:"weights"`
}

// LoadModel reads a LinearModel from path. A missing or corrupt model file
// returns an error; callers treat that as "classifier unavailable" rather
// than a fatal condition.
func LoadModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	var model LinearModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	if len(model.Weights) == 0 {
		return nil, fmt.Errorf("model %s has no weights", path)
	}
	return &model, nil
}

// Predict scores text (with the title prepended, it carries strong signal)
// and maps the probability-of-good onto the label contract.
func (m *LinearModel) Predict(text, _, title string) (Label, float64, error) {
	if m == nil || len(m.Weights) == 0 {
		return LabelUncertain, 0, fmt.Errorf("model not loaded")
	}
	score := m.Bias
	for _, word := range strings.Fields(strings.ToLower(title + " " + text)) {
		word = strings.Trim(word, ".,;:!?\"'()[]")
		if w, ok := m.Weights[word]; ok {
			score += w
		}
	}
	probGood := 1 / (1 + math.Exp(-score))
	switch {
	case probGood >= 0.5:
		return LabelGood, probGood, nil
	default:
		return LabelBad, 1 - probGood, nil
	}
}
