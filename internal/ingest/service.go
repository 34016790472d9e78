// Package ingest turns validated meter and tank readings into catalog
// updates. A Service owns all mutable state of the exporter and is shared by
// every request handler.
package ingest

import (
	"github.com/anstrom/meterexporter/internal/logging"
	"github.com/anstrom/meterexporter/internal/metrics"
	"github.com/anstrom/meterexporter/internal/tank"
)

// Reading kinds used in logs.
const (
	KindMeter    = "meter"
	KindBuilding = "building"
	KindTank     = "tank"
)

// MeterDelta is a high-tension meter reading. Factor is accepted but not
// used in any computation.
type MeterDelta struct {
	MeterName       string
	PreviousReading float64
	PresentReading  float64
	Factor          float64
	Timestamp       string
}

// Delta returns the consumption between the two readings.
func (m MeterDelta) Delta() float64 {
	return m.PresentReading - m.PreviousReading
}

// BuildingReading is a raw reading of one meter in a building.
type BuildingReading struct {
	MeterName string
	Building  string
	Reading   float64
	Timestamp string
}

// TankLevel is a raw tank level reading.
type TankLevel struct {
	TankName string
	Level    float64
	Date     string
}

// TankVolume is a tank level reading with the tank geometry needed to derive
// volume and consumption.
type TankVolume struct {
	TankName string
	Diameter float64
	Level    float64
	Date     string
}

// Service records readings into the metric catalog.
type Service struct {
	catalog *metrics.Catalog
	tanks   *tank.Tracker
	logger  *logging.Logger
}

// NewService creates a service around the given catalog and tank tracker.
func NewService(catalog *metrics.Catalog, tanks *tank.Tracker, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		catalog: catalog,
		tanks:   tanks,
		logger:  logger.WithComponent("ingest"),
	}
}

// RecordMeterDelta stores presentReading - previousReading in the meter's
// gauge under the reading's timestamp and counts the reading.
func (s *Service) RecordMeterDelta(r MeterDelta) error {
	name := metrics.MeterDeltaName(r.MeterName)
	vec, err := s.catalog.GaugeVec(name, metrics.MeterDeltaHelp(r.MeterName), metrics.MeterDeltaLabels...)
	if err != nil {
		s.logger.ErrorReading("Failed to resolve meter gauge", KindMeter, r.MeterName, err)
		return err
	}

	delta := r.Delta()
	s.catalog.Set(vec, delta, r.Timestamp)
	s.catalog.IncReadings()

	s.logger.InfoReading("Meter reading recorded", KindMeter, r.MeterName,
		"timestamp", r.Timestamp, "delta", delta)
	return nil
}

// RecordBuildingReading stores the raw reading in the building's gauge. Every
// distinct (meterName, building, timestamp) tuple is its own point.
func (s *Service) RecordBuildingReading(r BuildingReading) error {
	name := metrics.BuildingReadingName(r.Building)
	vec, err := s.catalog.GaugeVec(name, metrics.BuildingReadingHelp(r.Building), metrics.BuildingReadingLabels...)
	if err != nil {
		s.logger.ErrorReading("Failed to resolve building gauge", KindBuilding, r.Building, err)
		return err
	}

	s.catalog.Set(vec, r.Reading, r.MeterName, r.Building, r.Timestamp)

	s.logger.InfoReading("Building reading recorded", KindBuilding, r.Building,
		"meter", r.MeterName, "timestamp", r.Timestamp, "reading", r.Reading)
	return nil
}

// RecordTankLevel stores the raw level of a tank.
func (s *Service) RecordTankLevel(r TankLevel) error {
	s.catalog.Set(s.catalog.TankLevel(), r.Level, r.TankName)

	s.logger.InfoReading("Tank level recorded", KindTank, r.TankName,
		"level", r.Level, "date", r.Date)
	return nil
}

// RecordTankVolume derives the tank's volume and the consumption added since
// its previous reading and stores both.
func (s *Service) RecordTankVolume(r TankVolume) (tank.Reading, error) {
	reading := s.tanks.Observe(r.TankName, r.Diameter, r.Level, func(d tank.Reading) {
		s.catalog.Set(s.catalog.TankVolume(), d.Volume, r.TankName)
		s.catalog.Set(s.catalog.TankAddedConsumption(), d.Added, r.TankName)
	})

	s.logger.InfoReading("Tank volume recorded", KindTank, r.TankName,
		"volume", reading.Volume, "added", reading.Added, "first", reading.First, "date", r.Date)
	return reading, nil
}
