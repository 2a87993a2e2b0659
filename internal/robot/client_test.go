package robot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDetections_Shapes(t *testing.T) {
	array := `[{"location":{"lat":12.97,"lng":77.59},"ts":"20240115_103045","status":{"severity":"High"}}]`

	cases := []struct {
		name string
		body string
	}{
		{"bare array", array},
		{"single wrap", `{"detections":` + array + `}`},
		{"double wrap", `{"detections":{"data":{"detections":` + array + `}}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			detections, err := decodeDetections([]byte(tc.body))
			require.NoError(t, err)
			require.Len(t, detections, 1)
			assert.Equal(t, "High", detections[0].Status.Severity)
			require.NotNil(t, detections[0].Location)
			assert.Equal(t, 12.97, detections[0].Location.Lat)
		})
	}
}

func TestDecodeDetections_UnrecognizedShape(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"no detections key", `{"status":"error"}`},
		{"wrong nesting", `{"detections":{"items":[]}}`},
		{"scalar detections", `{"detections":{"data":{"count":3}}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeDetections([]byte(tc.body))
			assert.ErrorIs(t, err, ErrUnrecognizedShape)
		})
	}
}

func TestDecodeDetections_EmptyArrayIsValid(t *testing.T) {
	detections, err := decodeDetections([]byte(`{"detections":[]}`))
	require.NoError(t, err)
	assert.Empty(t, detections)
}

func TestClient_StartStop(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)

	resp, err := c.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "/api/start", gotPath)

	_, err = c.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/stop", gotPath)
}

func TestClient_RecentDetections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/detections", r.URL.Path)
		w.Write([]byte(`{"detections":{"data":{"detections":[{"location":{"lat":1,"lng":2},"ts":"20240115_103045","status":{"severity":"Low"}}]}}}`))
	}))
	defer srv.Close()

	detections, err := NewClient(srv.URL, nil).RecentDetections(context.Background())
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, "Low", detections[0].Status.Severity)
}

func TestClient_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "rail.jpg", header.Filename)

		w.Write([]byte(`{"filepath":"/uploads/rail.jpg","is_crack":true,"confidence":0.41}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, nil).Upload(context.Background(), "rail.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, resp.IsCrack)
	assert.InDelta(t, 0.41, resp.Confidence, 1e-9)
	assert.Equal(t, "/uploads/rail.jpg", resp.Filepath)
}

func TestClient_CommandErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).Start(context.Background())
	assert.ErrorContains(t, err, "unexpected status 502")
}
