package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leandrodaf/smfnotes/internal/logger"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
	"github.com/leandrodaf/smfnotes/sdk/midi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func twoTrackFile(t *testing.T) []byte {
	t.Helper()
	var bass, lead smf.Track
	bass.Add(0, smf.MetaTrackSequenceName("Bass"))
	bass.Add(0, gomidi.NoteOn(1, 36, 90))
	bass.Add(480, gomidi.NoteOff(1, 36))
	bass.Close(0)
	lead.Add(0, smf.MetaTrackSequenceName("Lead"))
	lead.Add(0, gomidi.NoteOn(0, 72, 100))
	lead.Add(0, gomidi.NoteOn(0, 76, 100))
	lead.Add(240, gomidi.NoteOff(0, 72))
	lead.Add(0, gomidi.NoteOff(0, 76))
	lead.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	require.NoError(t, s.Add(bass))
	require.NoError(t, s.Add(lead))
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := logger.NewNopLogger()
	dec, err := midi.NewDecoder(contracts.WithLogger(log), contracts.WithWorkers(2))
	require.NoError(t, err)
	return newRouter(dec, log)
}

func TestHandleDecode(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/decode", bytes.NewReader(twoTrackFile(t)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var file contracts.File
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &file))
	assert.Equal(t, uint16(2), file.Header.TrackCount)
	require.Len(t, file.Tracks, 2)
	assert.Equal(t, "Bass", file.Tracks[0].Name)
	require.Len(t, file.Tracks[0].Notes, 1)
	assert.Equal(t, "C2", file.Tracks[0].Notes[0].Name)
	assert.Equal(t, uint32(480), file.Tracks[0].Notes[0].Duration)
	assert.Len(t, file.Tracks[1].Notes, 2)
}

func TestHandleDecodeSingleTrack(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/decode?track=2", bytes.NewReader(twoTrackFile(t)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var file contracts.File
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &file))
	require.Len(t, file.Tracks, 1)
	assert.Equal(t, "Lead", file.Tracks[0].Name)
}

func TestHandleDecodeRejectsBadInput(t *testing.T) {
	router := newTestRouter(t)
	for name, tc := range map[string]struct {
		target string
		body   []byte
	}{
		"not midi":   {"/decode", []byte("hello world, not a midi file")},
		"empty":      {"/decode", nil},
		"bad track":  {"/decode?track=9", nil},
		"track word": {"/decode?track=two", nil},
	} {
		t.Run(name, func(t *testing.T) {
			body := tc.body
			if body == nil && strings.Contains(tc.target, "track") {
				body = twoTrackFile(t)
			}
			req := httptest.NewRequest(http.MethodPost, tc.target, bytes.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var detail map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
			assert.NotEmpty(t, detail["detail"])
		})
	}
}

func TestHandleDecodeTruncatedTrackChunk(t *testing.T) {
	body := []byte{
		'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 0, 0, 1, 0, 96,
		'M', 'T', 'r', 'k', 0x0F, 0xFF, 0xFF, 0xFF, 0x00, 0xFF, 0x2F, 0x00,
	}
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/decode", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var detail map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Contains(t, detail["detail"], "unexpected EOF")
}

func TestHealthzAndCORS(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestDecodeOnlyAcceptsPost(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/decode", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
