package handlers

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/anstrom/meterexporter/internal/api/handlers/mocks"
	apierrors "github.com/anstrom/meterexporter/internal/errors"
	"github.com/anstrom/meterexporter/internal/ingest"
	"github.com/anstrom/meterexporter/internal/tank"
)

func newTestIngestHandler(t *testing.T) (*IngestHandler, *mocks.MockReadingRecorder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	recorder := mocks.NewMockReadingRecorder(ctrl)
	return NewIngestHandler(recorder, createTestLogger()), recorder
}

func TestNewIngestHandler(t *testing.T) {
	handler, recorder := newTestIngestHandler(t)

	assert.NotNil(t, handler)
	assert.NotNil(t, handler.logger)
	assert.NotNil(t, handler.validator)
	assert.Equal(t, recorder, handler.recorder)
}

func TestIngestHandler_MeterDelta(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *mocks.MockReadingRecorder)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "records reading",
			body: `{"meterName":"m1","previousReading":100,"presentReading":142.5,"factor":1,"timestamp":"2024-05-01T10:00:00Z"}`,
			setupMock: func(m *mocks.MockReadingRecorder) {
				m.EXPECT().RecordMeterDelta(ingest.MeterDelta{
					MeterName:       "m1",
					PreviousReading: 100,
					PresentReading:  142.5,
					Factor:          1,
					Timestamp:       "2024-05-01T10:00:00Z",
				}).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "Reading recorded",
		},
		{
			name: "numeric strings are accepted",
			body: `{"meterName":"m1","previousReading":"1","presentReading":"3","factor":"40","timestamp":"t"}`,
			setupMock: func(m *mocks.MockReadingRecorder) {
				m.EXPECT().RecordMeterDelta(ingest.MeterDelta{
					MeterName: "m1", PreviousReading: 1, PresentReading: 3, Factor: 40, Timestamp: "t",
				}).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "Reading recorded",
		},
		{
			name:           "missing factor",
			body:           `{"meterName":"m1","previousReading":1,"presentReading":2,"timestamp":"t"}`,
			setupMock:      func(m *mocks.MockReadingRecorder) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing required fields: factor",
		},
		{
			name:           "null numbers count as missing",
			body:           `{"meterName":"m1","previousReading":null,"presentReading":2,"factor":null,"timestamp":"t"}`,
			setupMock:      func(m *mocks.MockReadingRecorder) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing required fields: previousReading, factor",
		},
		{
			name:           "empty body",
			body:           ``,
			setupMock:      func(m *mocks.MockReadingRecorder) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing required fields: meterName, previousReading, presentReading, factor, timestamp",
		},
		{
			name: "catalog failure",
			body: `{"meterName":"m1","previousReading":1,"presentReading":2,"factor":1,"timestamp":"t"}`,
			setupMock: func(m *mocks.MockReadingRecorder) {
				m.EXPECT().RecordMeterDelta(gomock.Any()).
					Return(apierrors.NewCatalogError(apierrors.CodeMetricConflict, "conflict", "ht_energy_meter_reading_m1"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Failed to record reading",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, recorder := newTestIngestHandler(t)
			tt.setupMock(recorder)

			w := httptest.NewRecorder()
			handler.MeterDelta(w, newJSONRequest("POST", "/ht_meter", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestIngestHandler_MeterDeltaUnparsableNumber(t *testing.T) {
	handler, recorder := newTestIngestHandler(t)

	var got ingest.MeterDelta
	recorder.EXPECT().RecordMeterDelta(gomock.Any()).
		DoAndReturn(func(r ingest.MeterDelta) error {
			got = r
			return nil
		})

	w := httptest.NewRecorder()
	handler.MeterDelta(w, newJSONRequest("POST", "/ht_meter",
		`{"meterName":"m1","previousReading":1,"presentReading":"abc","factor":1,"timestamp":"t"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, math.IsNaN(got.PresentReading))
	assert.True(t, math.IsNaN(got.Delta()))
}

func TestIngestHandler_BuildingReading(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *mocks.MockReadingRecorder)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "records reading",
			body: `{"meterName":"m1","reading":10,"building":"hq","timestamp":"t1"}`,
			setupMock: func(m *mocks.MockReadingRecorder) {
				m.EXPECT().RecordBuildingReading(ingest.BuildingReading{
					MeterName: "m1", Building: "hq", Reading: 10, Timestamp: "t1",
				}).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "Reading recorded",
		},
		{
			name:           "missing building and reading",
			body:           `{"meterName":"m1","timestamp":"t1"}`,
			setupMock:      func(m *mocks.MockReadingRecorder) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing required fields: reading, building",
		},
		{
			name:           "invalid JSON",
			body:           `{"meterName":"m1",`,
			setupMock:      func(m *mocks.MockReadingRecorder) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid JSON body: unexpected end of JSON input",
		},
		{
			name: "invalid metric name",
			body: `{"meterName":"m1","reading":10,"building":"hq","timestamp":"t1"}`,
			setupMock: func(m *mocks.MockReadingRecorder) {
				m.EXPECT().RecordBuildingReading(gomock.Any()).
					Return(apierrors.NewCatalogError(apierrors.CodeInvalidMetric, "invalid name", "hq_energy_meter_reading"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Failed to record reading",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, recorder := newTestIngestHandler(t)
			tt.setupMock(recorder)

			w := httptest.NewRecorder()
			handler.BuildingReading(w, newJSONRequest("POST", "/building_readings", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestIngestHandler_TankLevel(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *mocks.MockReadingRecorder)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "records level",
			body: `{"tankName":"t1","level":3.5,"date":"2024-05-01"}`,
			setupMock: func(m *mocks.MockReadingRecorder) {
				m.EXPECT().RecordTankLevel(ingest.TankLevel{TankName: "t1", Level: 3.5, Date: "2024-05-01"}).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "Tank level recorded",
		},
		{
			name:           "missing date",
			body:           `{"tankName":"t1","level":3.5}`,
			setupMock:      func(m *mocks.MockReadingRecorder) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing required fields: date",
		},
		{
			name: "zero level is present",
			body: `{"tankName":"t1","level":0,"date":"2024-05-01"}`,
			setupMock: func(m *mocks.MockReadingRecorder) {
				m.EXPECT().RecordTankLevel(ingest.TankLevel{TankName: "t1", Level: 0, Date: "2024-05-01"}).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "Tank level recorded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, recorder := newTestIngestHandler(t)
			tt.setupMock(recorder)

			w := httptest.NewRecorder()
			handler.TankLevel(w, newJSONRequest("POST", "/tank_level", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestIngestHandler_TankVolume(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *mocks.MockReadingRecorder)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "records volume",
			body: `{"tankName":"t1","diameter":10,"level":5,"date":"d1"}`,
			setupMock: func(m *mocks.MockReadingRecorder) {
				m.EXPECT().RecordTankVolume(ingest.TankVolume{TankName: "t1", Diameter: 10, Level: 5, Date: "d1"}).
					Return(tank.Reading{Volume: tank.Volume(10, 5), First: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "Tank volume and added consumption recorded",
		},
		{
			name:           "missing diameter",
			body:           `{"tankName":"t1","level":5,"date":"d1"}`,
			setupMock:      func(m *mocks.MockReadingRecorder) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing required fields: diameter",
		},
		{
			name: "recorder failure",
			body: `{"tankName":"t1","diameter":10,"level":5,"date":"d1"}`,
			setupMock: func(m *mocks.MockReadingRecorder) {
				m.EXPECT().RecordTankVolume(gomock.Any()).Return(tank.Reading{}, fmt.Errorf("unexpected"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Failed to record reading",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, recorder := newTestIngestHandler(t)
			tt.setupMock(recorder)

			w := httptest.NewRecorder()
			handler.TankVolume(w, newJSONRequest("POST", "/tank_volume", tt.body))

			require.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}
