// Package handlers provides HTTP request handlers for the meterexporter API.
// This file implements the four reading ingestion endpoints.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/anstrom/meterexporter/internal/ingest"
	"github.com/anstrom/meterexporter/internal/tank"
)

//go:generate mockgen -source=ingest.go -destination=mocks/recorder_mock.go -package=mocks

// ReadingRecorder stores validated readings.
type ReadingRecorder interface {
	RecordMeterDelta(reading ingest.MeterDelta) error
	RecordBuildingReading(reading ingest.BuildingReading) error
	RecordTankLevel(reading ingest.TankLevel) error
	RecordTankVolume(reading ingest.TankVolume) (tank.Reading, error)
}

// Success messages.
const (
	msgReadingRecorded    = "Reading recorded"
	msgTankLevelRecorded  = "Tank level recorded"
	msgTankVolumeRecorded = "Tank volume and added consumption recorded"
)

// IngestHandler handles the reading ingestion endpoints.
type IngestHandler struct {
	recorder  ReadingRecorder
	logger    *slog.Logger
	validator *validator.Validate
}

// NewIngestHandler creates a new ingestion handler.
func NewIngestHandler(recorder ReadingRecorder, logger *slog.Logger) *IngestHandler {
	return &IngestHandler{
		recorder:  recorder,
		logger:    logger.With("handler", "ingest"),
		validator: newValidator(),
	}
}

// MeterDelta handles POST /ht_meter.
func (h *IngestHandler) MeterDelta(w http.ResponseWriter, r *http.Request) {
	var payload MeterDeltaPayload
	if err := decodePayload(r, h.validator, &payload); err != nil {
		writeRecordError(w, r, h.logger, err)
		return
	}

	if err := h.recorder.RecordMeterDelta(payload.ToReading()); err != nil {
		writeRecordError(w, r, h.logger, err)
		return
	}

	writeText(w, http.StatusOK, msgReadingRecorded)
}

// BuildingReading handles POST /building_readings.
func (h *IngestHandler) BuildingReading(w http.ResponseWriter, r *http.Request) {
	var payload BuildingReadingPayload
	if err := decodePayload(r, h.validator, &payload); err != nil {
		writeRecordError(w, r, h.logger, err)
		return
	}

	if err := h.recorder.RecordBuildingReading(payload.ToReading()); err != nil {
		writeRecordError(w, r, h.logger, err)
		return
	}

	writeText(w, http.StatusOK, msgReadingRecorded)
}

// TankLevel handles POST /tank_level.
func (h *IngestHandler) TankLevel(w http.ResponseWriter, r *http.Request) {
	var payload TankLevelPayload
	if err := decodePayload(r, h.validator, &payload); err != nil {
		writeRecordError(w, r, h.logger, err)
		return
	}

	if err := h.recorder.RecordTankLevel(payload.ToReading()); err != nil {
		writeRecordError(w, r, h.logger, err)
		return
	}

	writeText(w, http.StatusOK, msgTankLevelRecorded)
}

// TankVolume handles POST /tank_volume.
func (h *IngestHandler) TankVolume(w http.ResponseWriter, r *http.Request) {
	var payload TankVolumePayload
	if err := decodePayload(r, h.validator, &payload); err != nil {
		writeRecordError(w, r, h.logger, err)
		return
	}

	if _, err := h.recorder.RecordTankVolume(payload.ToReading()); err != nil {
		writeRecordError(w, r, h.logger, err)
		return
	}

	writeText(w, http.StatusOK, msgTankVolumeRecorded)
}
