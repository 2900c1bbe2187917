package classifier

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	confidenceKeys = []string{"confidence", "conf", "score"}
	classKeys      = []string{"class", "class_name", "name", "label"}
)

// Normalize flattens a classifier response into predictions ordered by
// confidence, highest first. Recognised shapes are a "predictions" array, a
// "predictions" class map with "predicted_classes", a bare array and workflow
// "outputs"; anything else is searched for prediction-like objects.
func Normalize(raw []byte) ([]Prediction, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}

	preds := extract(doc)

	out := preds[:0]
	for _, p := range preds {
		if p.Class != "" {
			out = append(out, p)
		}
	}
	sortPredictions(out)
	return out, nil
}

func sortPredictions(preds []Prediction) {
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Confidence > preds[j].Confidence
	})
}

func extract(doc interface{}) []Prediction {
	switch v := doc.(type) {
	case []interface{}:
		if preds := fromList(v, nil); len(preds) > 0 {
			return preds
		}
		return walk("", v)
	case map[string]interface{}:
		if preds := fromEnvelope(v); len(preds) > 0 {
			return preds
		}
		for _, key := range []string{"outputs", "output", "result", "results"} {
			if inner, ok := v[key]; ok {
				if preds := extract(inner); len(preds) > 0 {
					return preds
				}
			}
		}
		return walk("", v)
	default:
		return nil
	}
}

func fromEnvelope(m map[string]interface{}) []Prediction {
	if raw, ok := m["predictions"]; ok {
		switch pv := raw.(type) {
		case []interface{}:
			if preds := fromList(pv, nil); len(preds) > 0 {
				return preds
			}
		case map[string]interface{}:
			if preds := fromClassMap(pv); len(preds) > 0 {
				return preds
			}
			if preds := extract(pv); len(preds) > 0 {
				return preds
			}
		}
	}

	if raw, ok := m["predicted_classes"].([]interface{}); ok && len(raw) > 0 {
		var single *float64
		if len(raw) == 1 {
			if c, ok := number(m["confidence"]); ok {
				single = &c
			}
		}
		if preds := fromList(raw, single); len(preds) > 0 {
			return preds
		}
	}

	if top, ok := m["top"].(string); ok && top != "" {
		c, _ := number(m["confidence"])
		return []Prediction{{Class: top, Confidence: scale(c)}}
	}
	return nil
}

// fromList reads a list of prediction objects or bare class names. A bare
// name takes defaultConfidence when given, zero otherwise.
func fromList(items []interface{}, defaultConfidence *float64) []Prediction {
	var preds []Prediction
	for _, item := range items {
		switch v := item.(type) {
		case map[string]interface{}:
			if isCandidate(v) {
				preds = append(preds, toPrediction("", v))
			}
		case string:
			p := Prediction{Class: strings.TrimSpace(v)}
			if defaultConfidence != nil {
				p.Confidence = scale(*defaultConfidence)
			}
			preds = append(preds, p)
		}
	}
	return preds
}

// fromClassMap reads {"<class>": {"confidence": c}} or {"<class>": c}.
func fromClassMap(m map[string]interface{}) []Prediction {
	var preds []Prediction
	for _, key := range sortedKeys(m) {
		switch v := m[key].(type) {
		case map[string]interface{}:
			if _, ok := firstNumber(v, confidenceKeys); !ok {
				continue
			}
			preds = append(preds, toPrediction(key, v))
		case float64:
			preds = append(preds, Prediction{Class: key, Confidence: scale(v)})
		}
	}
	return preds
}

// walk searches an unknown document depth-first. An object whose children
// yield predictions is a container, not a prediction itself.
func walk(key string, node interface{}) []Prediction {
	switch v := node.(type) {
	case map[string]interface{}:
		var found []Prediction
		for _, k := range sortedKeys(v) {
			switch v[k].(type) {
			case map[string]interface{}, []interface{}:
				found = append(found, walk(k, v[k])...)
			}
		}
		if len(found) > 0 {
			return found
		}
		if isCandidate(v) {
			return []Prediction{toPrediction(key, v)}
		}
	case []interface{}:
		var found []Prediction
		for _, item := range v {
			found = append(found, walk("", item)...)
		}
		return found
	}
	return nil
}

func isCandidate(m map[string]interface{}) bool {
	if _, ok := firstNumber(m, confidenceKeys); ok {
		return true
	}
	_, ok := firstString(m, classKeys)
	return ok
}

func toPrediction(fallbackClass string, m map[string]interface{}) Prediction {
	class, ok := firstString(m, classKeys)
	if !ok {
		class = fallbackClass
	}
	c, _ := firstNumber(m, confidenceKeys)
	p := Prediction{Class: strings.TrimSpace(class), Confidence: scale(c)}

	w, okW := number(m["width"])
	h, okH := number(m["height"])
	if okW && okH {
		x, _ := number(m["x"])
		y, _ := number(m["y"])
		p.BoundingBox = &BoundingBox{X: x, Y: y, Width: w, Height: h}
	}
	return p
}

func firstString(m map[string]interface{}, keys []string) (string, bool) {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

func firstNumber(m map[string]interface{}, keys []string) (float64, bool) {
	for _, k := range keys {
		if n, ok := number(m[k]); ok {
			return n, true
		}
	}
	return 0, false
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// scale maps percentages onto [0,1] and clamps everything else.
func scale(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1 && c <= 100:
		return c / 100
	case c > 100:
		return 1
	default:
		return c
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
