package robot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jaismithas859/Railway-track-fault-detection-system-IOT/internal/models"
)

// ErrUnrecognizedShape is returned when the detections response matches none
// of the backend's known payload shapes. Callers get an explicit error
// instead of a silently empty list.
var ErrUnrecognizedShape = errors.New("unrecognized detections response shape")

// The backend has been observed to return the detection list in three
// nestings: wrapped twice ({"detections":{"data":{"detections":[...]}}}),
// wrapped once ({"detections":[...]}), or as a bare array. decodeDetections
// classifies the payload into exactly one of them.
func decodeDetections(body []byte) ([]models.DetectionPayload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrUnrecognizedShape
	}

	// Bare array.
	if trimmed[0] == '[' {
		var detections []models.DetectionPayload
		if err := json.Unmarshal(trimmed, &detections); err != nil {
			return nil, fmt.Errorf("decode detections array: %w", err)
		}
		return detections, nil
	}

	var envelope struct {
		Detections json.RawMessage `json:"detections"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode detections envelope: %w", err)
	}
	if len(envelope.Detections) == 0 {
		return nil, ErrUnrecognizedShape
	}

	inner := bytes.TrimSpace(envelope.Detections)

	// Single wrap: "detections" holds the array directly.
	if inner[0] == '[' {
		var detections []models.DetectionPayload
		if err := json.Unmarshal(inner, &detections); err != nil {
			return nil, fmt.Errorf("decode wrapped detections: %w", err)
		}
		return detections, nil
	}

	// Double wrap: "detections.data.detections".
	var nested struct {
		Data struct {
			Detections []models.DetectionPayload `json:"detections"`
		} `json:"data"`
	}
	if err := json.Unmarshal(inner, &nested); err != nil {
		return nil, fmt.Errorf("decode nested detections: %w", err)
	}
	if nested.Data.Detections == nil {
		return nil, ErrUnrecognizedShape
	}

	return nested.Data.Detections, nil
}
